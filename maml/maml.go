package maml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.jacobcolvin.com/platyps/help"
)

// Namespaces declared on every command element.
const (
	NamespaceMSH     = "http://msh"
	NamespaceMAML    = "http://schemas.microsoft.com/maml/2004/10"
	NamespaceCommand = "http://schemas.microsoft.com/maml/dev/command/2004/10"
	NamespaceDev     = "http://schemas.microsoft.com/maml/dev/2004/10"
	NamespaceMSHelp  = "http://msdn.microsoft.com/mshelp"
)

// ErrWriteOutput indicates a failure writing MAML.
var ErrWriteOutput = errors.New("write output")

type helpItems struct {
	XMLName  xml.Name  `xml:"helpItems"`
	Schema   string    `xml:"schema,attr"`
	Xmlns    string    `xml:"xmlns,attr"`
	Commands []command `xml:"command:command"`
}

type command struct {
	XMLNSMAML    string       `xml:"xmlns:maml,attr"`
	XMLNSCommand string       `xml:"xmlns:command,attr"`
	XMLNSDev     string       `xml:"xmlns:dev,attr"`
	XMLNSMSHelp  string       `xml:"xmlns:MSHelp,attr"`
	Details      details      `xml:"command:details"`
	Description  paras        `xml:"maml:description"`
	Syntax       []syntaxItem `xml:"command:syntax>command:syntaxItem"`
	Parameters   []parameter  `xml:"command:parameters>command:parameter"`
	InputTypes   []typeEntry  `xml:"command:inputTypes>command:inputType"`
	ReturnValues []typeEntry  `xml:"command:returnValues>command:returnValue"`
	Notes        *alertSet    `xml:"maml:alertSet,omitempty"`
	Examples     []example    `xml:"command:examples>command:example"`
	Links        []navLink    `xml:"command:relatedLinks>maml:navigationLink"`
}

type details struct {
	Name        string `xml:"command:name"`
	Verb        string `xml:"command:verb"`
	Noun        string `xml:"command:noun"`
	Description paras  `xml:"maml:description"`
}

type paras struct {
	Para []string `xml:"maml:para"`
}

type syntaxItem struct {
	Name       string      `xml:"maml:name"`
	Parameters []parameter `xml:"command:parameter"`
}

// Fields are in MAML element order.
type parameter struct {
	PipelineInput  string      `xml:"pipelineInput,attr"`
	Position       string      `xml:"position,attr"`
	Aliases        string      `xml:"aliases,attr"`
	Name           string      `xml:"maml:name"`
	Description    paras       `xml:"maml:description"`
	AcceptedValues []string    `xml:"command:parameterValueGroup>command:parameterValue,omitempty"`
	Value          *paramValue `xml:"command:parameterValue,omitempty"`
	Type           devType     `xml:"dev:type"`
	DefaultValue   string      `xml:"dev:defaultValue"`
	Required       bool        `xml:"required,attr"`
	VariableLength bool        `xml:"variableLength,attr"`
	Globbing       bool        `xml:"globbing,attr"`
}

type paramValue struct {
	Required       bool   `xml:"required,attr"`
	VariableLength bool   `xml:"variableLength,attr"`
	Value          string `xml:",chardata"`
}

type devType struct {
	Name string `xml:"maml:name"`
	URI  string `xml:"maml:uri"`
}

type typeEntry struct {
	Type        devType `xml:"dev:type"`
	Description paras   `xml:"maml:description"`
}

type alertSet struct {
	Alert paras `xml:"maml:alert"`
}

type example struct {
	Title   string `xml:"maml:title"`
	Code    string `xml:"dev:code"`
	Remarks paras  `xml:"dev:remarks"`
}

type navLink struct {
	LinkText string `xml:"maml:linkText"`
	URI      string `xml:"maml:uri"`
}

// Write encodes cmds as one MAML help file.
func Write(w io.Writer, cmds ...*help.CommandHelp) error {
	doc := helpItems{Schema: "maml", Xmlns: NamespaceMSH}
	for _, ch := range cmds {
		doc.Commands = append(doc.Commands, convert(ch))
	}

	_, err := io.WriteString(w, xml.Header)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	err = enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	_, err = io.WriteString(w, "\n")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// Marshal is [Write] into a byte slice.
func Marshal(cmds ...*help.CommandHelp) ([]byte, error) {
	var buf bytes.Buffer

	err := Write(&buf, cmds...)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func convert(ch *help.CommandHelp) command {
	verb, noun, _ := strings.Cut(ch.Title, "-")

	c := command{
		XMLNSMAML:    NamespaceMAML,
		XMLNSCommand: NamespaceCommand,
		XMLNSDev:     NamespaceDev,
		XMLNSMSHelp:  NamespaceMSHelp,
		Details: details{
			Name:        ch.Title,
			Verb:        verb,
			Noun:        noun,
			Description: toParas(ch.Synopsis),
		},
		Description: toParas(ch.Description),
	}

	for _, s := range ch.Syntax {
		item := syntaxItem{Name: s.CommandName}

		for _, sp := range s.Parameters {
			p, ok := ch.Parameter(sp.Name)
			if !ok {
				p = help.Parameter{Name: sp.Name, Type: sp.Type, Position: sp.Position, Required: sp.IsMandatory}
			}

			param := toParameter(p, setPosition(p, s.ParameterSetName, sp.Position))
			param.Required = sp.IsMandatory
			item.Parameters = append(item.Parameters, param)
		}

		c.Syntax = append(c.Syntax, item)
	}

	for _, p := range ch.Parameters {
		c.Parameters = append(c.Parameters, toParameter(p, p.Position))
	}

	for _, t := range ch.Inputs {
		c.InputTypes = append(c.InputTypes, typeEntry{Type: devType{Name: t.Typename}, Description: toParas(t.Description)})
	}

	for _, t := range ch.Outputs {
		c.ReturnValues = append(c.ReturnValues, typeEntry{Type: devType{Name: t.Typename}, Description: toParas(t.Description)})
	}

	if strings.TrimSpace(ch.Notes) != "" {
		c.Notes = &alertSet{Alert: toParas(ch.Notes)}
	}

	for i, e := range ch.Examples {
		title := e.Title
		if title == "" {
			title = "Example " + strconv.Itoa(i+1)
		}

		c.Examples = append(c.Examples, example{
			Title:   "--------- " + title + " ---------",
			Code:    e.Code,
			Remarks: toParas(e.Remarks),
		})
	}

	for _, l := range ch.RelatedLinks {
		c.Links = append(c.Links, navLink{LinkText: l.LinkText, URI: l.URI})
	}

	return c
}

func toParameter(p help.Parameter, position string) parameter {
	typeName := p.Type
	if typeName == "" {
		typeName = "System.Object"
	}

	param := parameter{
		Required:       p.Required,
		VariableLength: p.VariableLength,
		Globbing:       p.SupportsWildcards,
		PipelineInput:  pipelineInput(p.PipelineInput),
		Position:       mamlPosition(position),
		Aliases:        "none",
		Name:           p.Name,
		Description:    toParas(p.Description),
		AcceptedValues: p.AcceptedValues,
		Type:           devType{Name: typeName},
		DefaultValue:   p.DefaultValue,
	}

	if len(p.Aliases) > 0 {
		param.Aliases = p.AliasString()
	}

	if param.DefaultValue == "" {
		param.DefaultValue = "None"
	}

	if !isSwitch(typeName) {
		param.Value = &paramValue{Required: true, VariableLength: p.VariableLength, Value: typeName}
	}

	return param
}

// setPosition returns the position of p in the named set, falling back to
// the syntax position.
func setPosition(p help.Parameter, setName, fallback string) string {
	for _, ps := range p.ParameterSets {
		if ps.Name == help.ParameterSetsAll || strings.EqualFold(ps.Name, setName) {
			if ps.Position != "" {
				return ps.Position
			}
		}
	}

	return fallback
}

func mamlPosition(pos string) string {
	pos = help.NormalizePosition(pos)
	if pos == help.PositionNamed {
		return "named"
	}

	return pos
}

func pipelineInput(pi help.PipelineInputInfo) string {
	switch {
	case pi.ByValue && pi.ByPropertyName:
		return "True (ByPropertyName, ByValue)"
	case pi.ByValue:
		return "True (ByValue)"
	case pi.ByPropertyName:
		return "True (ByPropertyName)"
	}

	return "False"
}

func isSwitch(typeName string) bool {
	return typeName == help.SwitchParameterType || strings.HasSuffix(typeName, "."+help.SwitchParameterType)
}

// toParas splits text into paragraphs on blank lines. Lines within a
// paragraph are kept.
func toParas(text string) paras {
	var out paras

	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	if text == "" {
		return out
	}

	for para := range strings.SplitSeq(text, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			out.Para = append(out.Para, para)
		}
	}

	return out
}
