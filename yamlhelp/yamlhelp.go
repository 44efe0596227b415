package yamlhelp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/platyps/help"
)

var (
	// ErrInvalidYAML indicates a sidecar file that could not be decoded.
	ErrInvalidYAML = errors.New("invalid yaml help")
	// ErrNoTitle indicates a sidecar file without a command title.
	ErrNoTitle = errors.New("no title")
)

// Document is the YAML sidecar representation of a [help.CommandHelp].
type Document struct {
	Metadata      yaml.MapSlice `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Title         string        `json:"title" yaml:"title"`
	Module        string        `json:"module,omitempty" yaml:"module,omitempty"`
	Synopsis      string        `json:"synopsis,omitempty" yaml:"synopsis,omitempty"`
	Syntaxes      []Syntax      `json:"syntaxes,omitempty" yaml:"syntaxes,omitempty"`
	Aliases       string        `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description   string        `json:"description,omitempty" yaml:"description,omitempty"`
	Examples      []Example     `json:"examples,omitempty" yaml:"examples,omitempty"`
	Parameters    []Parameter   `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Inputs        []TypeInfo    `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs       []TypeInfo    `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Notes         string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	Links         []Link        `json:"links,omitempty" yaml:"links,omitempty"`
	CmdletBinding bool          `json:"cmdletBinding,omitempty" yaml:"cmdletBinding,omitempty"`
	// WorkflowCommonParameters is set for workflow commands.
	WorkflowCommonParameters bool `json:"workflowCommonParameters,omitempty" yaml:"workflowCommonParameters,omitempty"`
}

// Syntax is one parameter set's syntax.
type Syntax struct {
	CommandName      string            `json:"commandName" yaml:"commandName"`
	ParameterSetName string            `json:"parameterSetName" yaml:"parameterSetName"`
	Parameters       []SyntaxParameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	IsDefault        bool              `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
	CmdletBinding    bool              `json:"cmdletBinding,omitempty" yaml:"cmdletBinding,omitempty"`
}

// SyntaxParameter is one parameter of a [Syntax].
type SyntaxParameter struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	Position     string `json:"position" yaml:"position"`
	IsMandatory  bool   `json:"isMandatory,omitempty" yaml:"isMandatory,omitempty"`
	IsPositional bool   `json:"isPositional,omitempty" yaml:"isPositional,omitempty"`
	IsSwitch     bool   `json:"isSwitch,omitempty" yaml:"isSwitch,omitempty"`
}

// Example is one usage example.
type Example struct {
	Title   string `json:"title" yaml:"title"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Remarks string `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

// Parameter is one documented parameter.
type Parameter struct {
	Name              string         `json:"name" yaml:"name"`
	Type              string         `json:"type,omitempty" yaml:"type,omitempty"`
	Description       string         `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultValue      string         `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	HelpMessage       string         `json:"helpMessage,omitempty" yaml:"helpMessage,omitempty"`
	Aliases           []string       `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	AcceptedValues    []string       `json:"acceptedValues,omitempty" yaml:"acceptedValues,omitempty"`
	ParameterSets     []ParameterSet `json:"parameterSets,omitempty" yaml:"parameterSets,omitempty"`
	SupportsWildcards bool           `json:"supportsWildcards,omitempty" yaml:"supportsWildcards,omitempty"`
	DontShow          bool           `json:"dontShow,omitempty" yaml:"dontShow,omitempty"`
}

// ParameterSet is a parameter's membership in one parameter set.
type ParameterSet struct {
	Name                            string `json:"name" yaml:"name"`
	Position                        string `json:"position" yaml:"position"`
	IsRequired                      bool   `json:"isRequired,omitempty" yaml:"isRequired,omitempty"`
	ValueFromPipeline               bool   `json:"valueFromPipeline,omitempty" yaml:"valueFromPipeline,omitempty"`
	ValueFromPipelineByPropertyName bool   `json:"valueFromPipelineByPropertyName,omitempty" yaml:"valueFromPipelineByPropertyName,omitempty"`
	ValueFromRemainingArguments     bool   `json:"valueFromRemainingArguments,omitempty" yaml:"valueFromRemainingArguments,omitempty"`
}

// TypeInfo is an input or output type.
type TypeInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Link is a related link.
type Link struct {
	Href string `json:"href" yaml:"href"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Marshal encodes ch as a YAML sidecar document. Multi-line text is
// written in literal block style.
func Marshal(ch *help.CommandHelp) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(FromCommandHelp(ch), yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ch.Title, err)
	}

	return out, nil
}

// Unmarshal decodes a YAML sidecar document. Unknown keys are rejected.
func Unmarshal(data []byte) (*help.CommandHelp, error) {
	var doc Document

	err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}

	if strings.TrimSpace(doc.Title) == "" {
		return nil, ErrNoTitle
	}

	return doc.CommandHelp(), nil
}

// FromCommandHelp converts ch to a [Document].
func FromCommandHelp(ch *help.CommandHelp) *Document {
	doc := &Document{
		Title:                    ch.Title,
		Module:                   ch.ModuleName,
		Synopsis:                 ch.Synopsis,
		Aliases:                  ch.Aliases,
		Description:              ch.Description,
		Notes:                    ch.Notes,
		CmdletBinding:            ch.HasCmdletBinding,
		WorkflowCommonParameters: ch.HasWorkflowCommonParameters,
	}

	for _, e := range ch.Metadata.Entries() {
		doc.Metadata = append(doc.Metadata, yaml.MapItem{Key: e.Key, Value: e.Value})
	}

	for _, s := range ch.Syntax {
		syn := Syntax{
			CommandName:      s.CommandName,
			ParameterSetName: s.ParameterSetName,
			IsDefault:        s.IsDefault,
			CmdletBinding:    s.HasCmdletBinding,
		}

		for _, p := range s.Parameters {
			syn.Parameters = append(syn.Parameters, SyntaxParameter{
				Name:         p.Name,
				Type:         p.Type,
				Position:     p.Position,
				IsMandatory:  p.IsMandatory,
				IsPositional: p.IsPositional,
				IsSwitch:     p.IsSwitchParameter,
			})
		}

		doc.Syntaxes = append(doc.Syntaxes, syn)
	}

	for _, e := range ch.Examples {
		doc.Examples = append(doc.Examples, Example(e))
	}

	for _, p := range ch.Parameters {
		param := Parameter{
			Name:              p.Name,
			Type:              p.Type,
			Description:       p.Description,
			DefaultValue:      p.DefaultValue,
			HelpMessage:       p.HelpMessage,
			Aliases:           p.Aliases,
			AcceptedValues:    p.AcceptedValues,
			SupportsWildcards: p.SupportsWildcards,
			DontShow:          p.DontShow,
		}

		for _, ps := range p.ParameterSets {
			param.ParameterSets = append(param.ParameterSets, ParameterSet(ps))
		}

		doc.Parameters = append(doc.Parameters, param)
	}

	for _, io := range ch.Inputs {
		doc.Inputs = append(doc.Inputs, TypeInfo{Name: io.Typename, Description: io.Description})
	}

	for _, io := range ch.Outputs {
		doc.Outputs = append(doc.Outputs, TypeInfo{Name: io.Typename, Description: io.Description})
	}

	for _, l := range ch.RelatedLinks {
		doc.Links = append(doc.Links, Link{Href: l.URI, Text: l.LinkText})
	}

	return doc
}

// CommandHelp converts d to a [help.CommandHelp]. Derived parameter fields
// are recomputed from the parameter sets.
func (d *Document) CommandHelp() *help.CommandHelp {
	ch := help.NewCommandHelp(d.Title)
	ch.ModuleName = d.Module
	ch.Synopsis = d.Synopsis
	ch.Aliases = d.Aliases
	ch.Description = d.Description
	ch.Notes = d.Notes
	ch.HasCmdletBinding = d.CmdletBinding
	ch.HasWorkflowCommonParameters = d.WorkflowCommonParameters

	for _, item := range d.Metadata {
		ch.Metadata.Set(fmt.Sprint(item.Key), item.Value)
	}

	ch.Locale = ch.Metadata.String(help.MetaLocale)
	ch.ExternalHelpFile = ch.Metadata.String(help.MetaExternalHelpFile)
	ch.SchemaVersion = ch.Metadata.String(help.MetaSchemaVersion)
	ch.OnlineVersionURL = ch.Metadata.String(help.MetaHelpURI)
	if ch.OnlineVersionURL == "" {
		ch.OnlineVersionURL = ch.Metadata.String(help.MetaOnlineVersion)
	}

	for _, s := range d.Syntaxes {
		item := help.SyntaxItem{
			CommandName:      s.CommandName,
			ParameterSetName: s.ParameterSetName,
			IsDefault:        s.IsDefault,
			HasCmdletBinding: s.CmdletBinding,
		}

		for _, p := range s.Parameters {
			item.Parameters = append(item.Parameters, help.SyntaxParameter{
				Name:              p.Name,
				Type:              p.Type,
				Position:          help.NormalizePosition(p.Position),
				IsMandatory:       p.IsMandatory,
				IsPositional:      p.IsPositional,
				IsSwitchParameter: p.IsSwitch,
			})
		}

		ch.Syntax = append(ch.Syntax, item)
	}

	for _, e := range d.Examples {
		ch.Examples = append(ch.Examples, help.Example(e))
	}

	for _, p := range d.Parameters {
		param := help.Parameter{
			Name:              p.Name,
			Type:              p.Type,
			Description:       p.Description,
			DefaultValue:      p.DefaultValue,
			HelpMessage:       p.HelpMessage,
			Aliases:           p.Aliases,
			AcceptedValues:    p.AcceptedValues,
			SupportsWildcards: p.SupportsWildcards,
			DontShow:          p.DontShow,
			Position:          help.PositionNamed,
		}

		for _, ps := range p.ParameterSets {
			ps.Position = help.NormalizePosition(ps.Position)
			param.ParameterSets = append(param.ParameterSets, help.ParameterSet(ps))
		}

		param.DeriveRequired()
		ch.Parameters = append(ch.Parameters, param)
	}

	for _, t := range d.Inputs {
		ch.Inputs = append(ch.Inputs, help.InputOutput{Typename: t.Name, Description: t.Description})
	}

	for _, t := range d.Outputs {
		ch.Outputs = append(ch.Outputs, help.InputOutput{Typename: t.Name, Description: t.Description})
	}

	for _, l := range d.Links {
		ch.RelatedLinks = append(ch.RelatedLinks, help.Link{URI: l.Href, LinkText: l.Text})
	}

	ch.SortParameters()

	return ch
}
