// Package maml writes command help as MAML, the XML format PowerShell loads
// for Get-Help.
//
// One file holds any number of commands, conventionally every command of a
// module:
//
//	f, err := os.Create("Foo-help.xml")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	err = maml.Write(f, getFoo, setFoo)
package maml
