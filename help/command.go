package help

import (
	"slices"
	"strconv"
	"strings"
)

const (
	// ParameterSetsAll is the parameter set name meaning "every syntax
	// variant of the command".
	ParameterSetsAll = "(All)"

	// PositionNamed is the position of a parameter that can only be bound
	// by name.
	PositionNamed = "Named"

	// DefaultParameterSetName names the single parameter set of a command
	// that declares none.
	DefaultParameterSetName = "Default"

	// SwitchParameterType is the type name of switch parameters.
	SwitchParameterType = "SwitchParameter"
)

// CommandHelp is the structured help for one command.
type CommandHelp struct {
	Metadata    *Metadata
	Diagnostics *Diagnostics

	Title            string
	ModuleName       string
	Locale           string
	ExternalHelpFile string
	OnlineVersionURL string
	SchemaVersion    string
	Synopsis         string
	Description      string
	Notes            string
	Aliases          string

	Syntax       []SyntaxItem
	Parameters   []Parameter
	Examples     []Example
	Inputs       []InputOutput
	Outputs      []InputOutput
	RelatedLinks []Link

	HasCmdletBinding            bool
	HasWorkflowCommonParameters bool
	AliasHeaderFound            bool
}

// NewCommandHelp returns an empty [CommandHelp] for the named command.
func NewCommandHelp(title string) *CommandHelp {
	return &CommandHelp{
		Title:       title,
		Metadata:    NewMetadata(),
		Diagnostics: &Diagnostics{},
	}
}

// Clone returns a copy of c that shares no slices or maps with it.
// Diagnostics are copied.
func (c *CommandHelp) Clone() *CommandHelp {
	out := *c

	out.Metadata = NewMetadata()
	if c.Metadata != nil {
		out.Metadata = c.Metadata.Clone()
	}

	out.Diagnostics = &Diagnostics{}
	out.Diagnostics.AddAll(c.Diagnostics.Items())

	out.Syntax = slices.Clone(c.Syntax)
	for i := range out.Syntax {
		out.Syntax[i].Parameters = slices.Clone(out.Syntax[i].Parameters)
	}

	out.Parameters = slices.Clone(c.Parameters)
	for i := range out.Parameters {
		out.Parameters[i].Aliases = slices.Clone(out.Parameters[i].Aliases)
		out.Parameters[i].AcceptedValues = slices.Clone(out.Parameters[i].AcceptedValues)
		out.Parameters[i].ParameterSets = slices.Clone(out.Parameters[i].ParameterSets)
	}

	out.Examples = slices.Clone(c.Examples)
	out.Inputs = slices.Clone(c.Inputs)
	out.Outputs = slices.Clone(c.Outputs)
	out.RelatedLinks = slices.Clone(c.RelatedLinks)

	return &out
}

// SortParameters orders Parameters by name using ordinal comparison.
func (c *CommandHelp) SortParameters() {
	slices.SortStableFunc(c.Parameters, func(a, b Parameter) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// Parameter returns the parameter with the given name, compared
// case-insensitively.
func (c *CommandHelp) Parameter(name string) (Parameter, bool) {
	for _, p := range c.Parameters {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}

	return Parameter{}, false
}

// SyntaxItem returns the syntax for the named parameter set, compared
// case-insensitively.
func (c *CommandHelp) SyntaxItem(setName string) (SyntaxItem, bool) {
	for _, s := range c.Syntax {
		if strings.EqualFold(s.ParameterSetName, setName) {
			return s, true
		}
	}

	return SyntaxItem{}, false
}

// SyntaxItem is the invocation shape of one parameter set.
type SyntaxItem struct {
	CommandName      string
	ParameterSetName string
	Parameters       []SyntaxParameter
	IsDefault        bool
	HasCmdletBinding bool
}

// Equal reports whether s and other describe the same parameter set with
// the same ordered parameters.
func (s SyntaxItem) Equal(other SyntaxItem) bool {
	return s.ParameterSetName == other.ParameterSetName &&
		slices.Equal(s.Parameters, other.Parameters)
}

// String renders the item in PowerShell syntax notation, for example
// "Get-Foo [-Name] <string> [-Force] [<CommonParameters>]".
func (s SyntaxItem) String() string {
	parts := []string{s.CommandName}
	for _, p := range s.Parameters {
		parts = append(parts, p.String())
	}

	if s.HasCmdletBinding {
		parts = append(parts, "[<CommonParameters>]")
	}

	return strings.Join(parts, " ")
}

// SyntaxParameter is one parameter as it appears in a [SyntaxItem].
type SyntaxParameter struct {
	Name              string
	Type              string
	Position          string // non-negative integer or [PositionNamed]
	IsMandatory       bool
	IsPositional      bool
	IsSwitchParameter bool
}

// String renders the parameter in PowerShell syntax notation.
func (p SyntaxParameter) String() string {
	if p.IsSwitchParameter {
		if p.IsMandatory {
			return "-" + p.Name
		}

		return "[-" + p.Name + "]"
	}

	name := "-" + p.Name
	if p.IsPositional {
		name = "[" + name + "]"
	}

	out := name + " <" + p.Type + ">"
	if !p.IsMandatory {
		out = "[" + out + "]"
	}

	return out
}

// PipelineInputInfo records how a parameter accepts pipeline input.
type PipelineInputInfo struct {
	ByValue        bool
	ByPropertyName bool
}

// Any reports whether the parameter accepts pipeline input at all.
func (p PipelineInputInfo) Any() bool {
	return p.ByValue || p.ByPropertyName
}

// ParameterSet is a parameter's membership in one parameter set.
type ParameterSet struct {
	Name                            string
	Position                        string
	IsRequired                      bool
	ValueFromPipeline               bool
	ValueFromPipelineByPropertyName bool
	ValueFromRemainingArguments     bool
}

// Parameter is one documented command parameter.
type Parameter struct {
	Name           string
	Type           string
	Description    string
	DefaultValue   string
	Position       string
	HelpMessage    string
	Aliases        []string
	AcceptedValues []string
	ParameterSets  []ParameterSet

	PipelineInput PipelineInputInfo

	Required          bool
	SupportsWildcards bool
	VariableLength    bool
	DontShow          bool
}

// Equal reports structural equality. Description is not compared so that
// prose-only edits do not register as structural changes.
func (p Parameter) Equal(other Parameter) bool {
	return p.Name == other.Name &&
		p.Type == other.Type &&
		p.DefaultValue == other.DefaultValue &&
		p.Position == other.Position &&
		p.HelpMessage == other.HelpMessage &&
		p.PipelineInput == other.PipelineInput &&
		p.Required == other.Required &&
		p.SupportsWildcards == other.SupportsWildcards &&
		p.VariableLength == other.VariableLength &&
		p.DontShow == other.DontShow &&
		slices.Equal(p.Aliases, other.Aliases) &&
		slices.Equal(p.AcceptedValues, other.AcceptedValues) &&
		slices.Equal(p.ParameterSets, other.ParameterSets)
}

// AliasString joins the aliases with ", ".
func (p Parameter) AliasString() string {
	return strings.Join(p.Aliases, ", ")
}

// IsRequiredIn reports whether the parameter is mandatory in the named set.
// Membership in [ParameterSetsAll] applies to every set.
func (p Parameter) IsRequiredIn(setName string) bool {
	for _, ps := range p.ParameterSets {
		if ps.Name == ParameterSetsAll || strings.EqualFold(ps.Name, setName) {
			return ps.IsRequired
		}
	}

	return false
}

// DeriveRequired recomputes Required, Position and PipelineInput from the
// parameter set records: the parameter is required when it is required in
// every set it belongs to. Position comes from the first set.
func (p *Parameter) DeriveRequired() {
	if len(p.ParameterSets) == 0 {
		return
	}

	required := true
	pipe := PipelineInputInfo{}
	variable := false

	for _, ps := range p.ParameterSets {
		required = required && ps.IsRequired
		pipe.ByValue = pipe.ByValue || ps.ValueFromPipeline
		pipe.ByPropertyName = pipe.ByPropertyName || ps.ValueFromPipelineByPropertyName
		variable = variable || ps.ValueFromRemainingArguments
	}

	p.Required = required
	p.PipelineInput = pipe
	p.VariableLength = variable

	if p.ParameterSets[0].Position != "" {
		p.Position = p.ParameterSets[0].Position
	}
}

// Example is one usage example.
type Example struct {
	Title   string
	Code    string
	Remarks string
}

// InputOutput is a pipeline input or output type.
type InputOutput struct {
	Typename    string
	Description string
}

// Link is a related link.
type Link struct {
	URI      string
	LinkText string
}

// NormalizePosition converts a position value to its canonical spelling:
// an integer string, or [PositionNamed] for named and unknown values.
func NormalizePosition(pos string) string {
	pos = strings.TrimSpace(pos)
	if n, err := strconv.Atoi(pos); err == nil && n >= 0 {
		return strconv.Itoa(n)
	}

	return PositionNamed
}
