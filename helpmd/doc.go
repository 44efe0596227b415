// Package helpmd reads and writes PowerShell command help in its markdown
// authoring dialect.
//
// A command help document is YAML front matter, a level-1 heading naming
// the command, and a fixed set of level-2 sections:
//
//	---
//	external help file: Foo-help.xml
//	Module Name: Foo
//	PlatyPS schema version: 2024-05-01
//	title: Get-Foo
//	---
//
//	# Get-Foo
//
//	## SYNOPSIS
//	## SYNTAX
//	## ALIASES
//	## DESCRIPTION
//	## EXAMPLES
//	## PARAMETERS
//	## INPUTS
//	## OUTPUTS
//	## NOTES
//	## RELATED LINKS
//
// # Reading
//
// [Parse] is best-effort. Only three defects stop it: missing front matter
// ([ErrNoMetadata]), no level-1 heading ([ErrNoTitle]), and an empty
// command name ([ErrNoCommandName]). Everything else becomes a
// [help.Diagnostic] on the result and reading continues with the next
// section. Sections are located by heading text, so their order in the
// source does not matter.
//
// Each parameter is documented by a level-3 heading, free text, and a YAML
// block. Two layouts exist. The flat V1 layout uses string values:
//
//	Type: String
//	Parameter Sets: (All)
//	Required: True (ByName)
//	Accept pipeline input: False
//
// The structured V2 layout uses lists, records and real booleans:
//
//	Type: System.String
//	ParameterSets:
//	- Name: (All)
//	  Position: 0
//	  IsRequired: true
//
// [ParseParameterMetadata] tries both, in an order chosen from the front
// matter schema version, then salvages what it can from any other mapping.
// The result records which decoder won.
//
// # Writing
//
// [Render] writes the V2 layout. Rendering a parsed document and parsing it
// again yields the same model, and rendering that yields the same bytes.
//
// # Other documents
//
// [Probe] classifies a file as command, module or about help without a
// full parse. [ParseModuleFile] and [RenderModuleFile] handle module
// landing pages. [Validate] reports PASS and FAIL lines for required
// metadata and sections.
package helpmd
