package helpmd

import "errors"

// Sentinel errors for structural failures. Section and parameter defects are
// reported as diagnostics instead.
var (
	ErrNoMetadata       = errors.New("no metadata found")
	ErrNoTitle          = errors.New("no title found")
	ErrNoCommandName    = errors.New("no command name found")
	ErrParameterYAML    = errors.New("invalid parameter metadata")
	ErrNotCommandHelp   = errors.New("not a command help document")
	ErrNotModuleFile    = errors.New("not a module file")
	ErrSyntaxCodeBlocks = errors.New("unexpected syntax code blocks")
)
