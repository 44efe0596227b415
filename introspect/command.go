package introspect

import (
	"slices"
	"strings"
)

// AllParameterSets is the set name PowerShell reports for parameters that
// belong to every parameter set.
const AllParameterSets = "__AllParameterSets"

// commonParameters are implied by [<CommonParameters>] for commands with
// cmdlet binding and are never documented individually.
var commonParameters = []string{
	"Debug",
	"ErrorAction",
	"ErrorVariable",
	"InformationAction",
	"InformationVariable",
	"OutBuffer",
	"OutVariable",
	"PipelineVariable",
	"ProgressAction",
	"Verbose",
	"WarningAction",
	"WarningVariable",
}

// IsCommonParameter reports whether name is one of the common parameters,
// compared case-insensitively.
func IsCommonParameter(name string) bool {
	return slices.ContainsFunc(commonParameters, func(c string) bool {
		return strings.EqualFold(c, name)
	})
}

// Command is the introspected shape of one command, as produced by a
// command dump such as `Get-Command Get-Foo | ConvertTo-Json -Depth 5`.
type Command struct {
	// Help is existing help text for the command, if any.
	Help *ExistingHelp `yaml:"Help,omitempty"`

	Name                string         `yaml:"Name"`
	ModuleName          string         `yaml:"ModuleName,omitempty"`
	DefaultParameterSet string         `yaml:"DefaultParameterSet,omitempty"`
	ParameterSets       []ParameterSet `yaml:"ParameterSets,omitempty"`
	Aliases             []string       `yaml:"Aliases,omitempty"`
	Inputs              []string       `yaml:"Inputs,omitempty"`
	OutputType          []string       `yaml:"OutputType,omitempty"`
	CmdletBinding       bool           `yaml:"CmdletBinding,omitempty"`
}

// ParameterSet is one parameter set of a [Command].
type ParameterSet struct {
	Name       string      `yaml:"Name"`
	Parameters []Parameter `yaml:"Parameters,omitempty"`
	IsDefault  bool        `yaml:"IsDefault,omitempty"`
}

// Parameter is one parameter as declared in a [ParameterSet].
type Parameter struct {
	// Position is nil or negative for parameters bound only by name.
	Position *int `yaml:"Position,omitempty"`

	Name                            string   `yaml:"Name"`
	ParameterType                   string   `yaml:"ParameterType"`
	DefaultValue                    string   `yaml:"DefaultValue,omitempty"`
	HelpMessage                     string   `yaml:"HelpMessage,omitempty"`
	Aliases                         []string `yaml:"Aliases,omitempty"`
	ValidateSet                     []string `yaml:"ValidateSet,omitempty"`
	IsMandatory                     bool     `yaml:"IsMandatory,omitempty"`
	ValueFromPipeline               bool     `yaml:"ValueFromPipeline,omitempty"`
	ValueFromPipelineByPropertyName bool     `yaml:"ValueFromPipelineByPropertyName,omitempty"`
	ValueFromRemainingArguments     bool     `yaml:"ValueFromRemainingArguments,omitempty"`
	SupportsWildcards               bool     `yaml:"SupportsWildcards,omitempty"`
	DontShow                        bool     `yaml:"DontShow,omitempty"`
}

// IsPositional reports whether the parameter can be bound by position.
func (p Parameter) IsPositional() bool {
	return p.Position != nil && *p.Position >= 0
}

// IsSwitch reports whether the parameter is a switch.
func (p Parameter) IsSwitch() bool {
	return shortTypeName(p.ParameterType) == "SwitchParameter"
}

// ExistingHelp is help text already available for a command, used as
// fallback content when generating new help.
type ExistingHelp struct {
	// Parameters maps parameter names to descriptions.
	Parameters   map[string]string `yaml:"Parameters,omitempty"`
	Synopsis     string            `yaml:"Synopsis,omitempty"`
	Description  string            `yaml:"Description,omitempty"`
	Notes        string            `yaml:"Notes,omitempty"`
	Examples     []Example         `yaml:"Examples,omitempty"`
	RelatedLinks []Link            `yaml:"RelatedLinks,omitempty"`
}

// Example is an example from [ExistingHelp].
type Example struct {
	Title   string `yaml:"Title"`
	Code    string `yaml:"Code,omitempty"`
	Remarks string `yaml:"Remarks,omitempty"`
}

// Link is a related link from [ExistingHelp].
type Link struct {
	URI  string `yaml:"URI,omitempty"`
	Text string `yaml:"Text,omitempty"`
}
