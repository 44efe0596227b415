// Package help defines the document model shared by every reader and writer
// in platyps.
//
// A [CommandHelp] is the structured form of one command's help: synopsis,
// one [SyntaxItem] per parameter set, documented [Parameter] values,
// examples, input and output types, notes, and related links. A
// [ModuleFileInfo] is the simpler model of a module landing page.
//
// Documents are built once, by a single parse or merge pass, and carry their
// own [Diagnostics]. Diagnostics record recoverable defects and merge
// decisions; they never abort construction. Consumers decide pass or fail by
// filtering on [Severity]:
//
//	doc, err := helpmd.Parse(src)
//	if err != nil {
//	    return err // structural failure, no document
//	}
//
//	for _, d := range doc.Diagnostics.Filter(help.SeverityError) {
//	    fmt.Println(d)
//	}
//
// [Metadata] holds front matter: an ordered mapping with case-insensitive
// keys whose values are strings or decoded YAML objects.
package help
