// Package introspect describes commands as PowerShell reports them and
// converts them to structured help.
//
// Live introspection is out of reach for a Go process, so commands arrive
// as dumps: JSON or YAML files produced ahead of time, for example with
//
//	Get-Command -Module Foo | Select-Object Name, ModuleName, CmdletBinding,
//	    DefaultParameterSet, ParameterSets | ConvertTo-Json -Depth 5
//
// [LoadFiles] reads dumps into a [Source], and [ToCommandHelp] turns a
// [Command] into a [help.CommandHelp] that can be rendered as new help or
// merged into existing help.
package introspect
