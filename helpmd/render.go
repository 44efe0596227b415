package helpmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/platyps/help"
)

// Placeholder text written for empty sections.
const (
	SynopsisPlaceholder    = "{{ Fill in the Synopsis }}"
	DescriptionPlaceholder = "{{ Fill in the Description }}"
	AliasesPlaceholder     = "This cmdlet has the following aliases,\n  {{Insert list of aliases}}"

	commandDocumentType = "cmdlet"
	moduleDocumentType  = "module"
	defaultLocale       = "en-US"
)

// CommonParametersText is the body of the CommonParameters subsection.
const CommonParametersText = "This cmdlet supports the common parameters: -Debug, -ErrorAction, " +
	"-ErrorVariable, -InformationAction, -InformationVariable, -OutBuffer, -OutVariable, " +
	"-PipelineVariable, -ProgressAction, -Verbose, -WarningAction, and -WarningVariable. " +
	"For more information, see [about_CommonParameters](https://go.microsoft.com/fwlink/?LinkID=113216)."

// WorkflowCommonParametersText is the body of the WorkflowCommonParameters
// subsection.
const WorkflowCommonParametersText = "This cmdlet supports the following workflow common parameters: " +
	"-PSParameterCollection, -PSComputerName, -PSCredential, -PSConnectionRetryCount, " +
	"-PSConnectionRetryIntervalSec, -PSRunningTimeoutSec, -PSElapsedTimeoutSec, " +
	"-PSPersist, -PSAuthentication, -PSAuthenticationLevel, -PSApplicationName, -PSPort, " +
	"-PSUseSSL, -PSConfigurationName, -PSConnectionURI, -PSAllowRedirection, " +
	"-PSSessionOption, -PSCertificateThumbprint, -PSPrivateData, -AsJob, -JobName, and " +
	"-InputObject. For more information, see " +
	"[about_WorkflowCommonParameters](https://go.microsoft.com/fwlink/p/?LinkID=533952)."

// ParameterDescriptionPlaceholder returns the description written for a
// parameter that has none.
func ParameterDescriptionPlaceholder(name string) string {
	return fmt.Sprintf("{{ Fill %s Description }}", name)
}

// Render writes ch as a markdown document in the current dialect, with
// structured parameter metadata and schema version [SchemaVersion2].
// Parsing the output yields an equivalent [help.CommandHelp].
func Render(ch *help.CommandHelp) string {
	w := &mdWriter{}

	w.frontMatter(commandMetadata(ch))
	w.heading(1, ch.Title)

	w.heading(2, sectionSynopsis)
	w.text(orPlaceholder(ch.Synopsis, SynopsisPlaceholder))

	w.heading(2, sectionSyntax)
	w.syntax(ch.Syntax)

	w.heading(2, sectionAliases)
	w.text(orPlaceholder(ch.Aliases, AliasesPlaceholder))

	w.heading(2, sectionDescription)
	w.text(orPlaceholder(ch.Description, DescriptionPlaceholder))

	w.heading(2, sectionExamples)

	for _, ex := range ch.Examples {
		w.heading(3, ex.Title)

		if ex.Code != "" {
			w.code("powershell", ex.Code)
		}

		w.text(ex.Remarks)
	}

	w.heading(2, sectionParameters)

	for _, p := range ch.Parameters {
		w.heading(3, "-"+p.Name)
		w.text(orPlaceholder(p.Description, ParameterDescriptionPlaceholder(p.Name)))
		w.code("yaml", ParameterYAML(p))
	}

	if ch.HasCmdletBinding {
		w.heading(3, commonParametersName)
		w.text(CommonParametersText)
	}

	if ch.HasWorkflowCommonParameters {
		w.heading(3, workflowCommonParametersName)
		w.text(WorkflowCommonParametersText)
	}

	w.heading(2, sectionInputs)
	w.inputOutputs(ch.Inputs)

	w.heading(2, sectionOutputs)
	w.inputOutputs(ch.Outputs)

	w.heading(2, sectionNotes)
	w.text(ch.Notes)

	w.heading(2, sectionRelatedLinks)
	w.links(ch.RelatedLinks)

	return w.String()
}

// RenderModuleFile writes info as a module landing page.
func RenderModuleFile(info *help.ModuleFileInfo) string {
	w := &mdWriter{}

	md := cloneMetadata(info.Metadata)
	md.Set(help.MetaDocumentType, moduleDocumentType)
	setDefault(md, help.MetaHelpVersion, "")
	setDefault(md, help.MetaHelpInfoURI, "")
	setDefault(md, help.MetaLocale, orPlaceholder(info.Locale, defaultLocale))
	setDefault(md, help.MetaModuleGUID, info.ModuleGUID)
	setDefault(md, help.MetaModuleName, info.Module)
	setDefault(md, help.MetaDate, "")
	md.Set(help.MetaSchemaVersion, SchemaVersion2)
	setDefault(md, help.MetaTitle, info.Title)

	w.frontMatter(md)
	w.heading(1, info.Title)

	w.heading(2, moduleDescriptionSection)
	w.text(orPlaceholder(info.Description, DescriptionPlaceholder))

	for _, g := range info.CommandGroups {
		w.heading(2, g.GroupTitle)

		for _, c := range g.Commands {
			title := c.Name
			if c.Link != "" {
				title = fmt.Sprintf("[%s](%s)", c.Name, linkDestination(c.Link))
			}

			w.heading(3, title)
			w.text(orPlaceholder(c.Description, SynopsisPlaceholder))
		}
	}

	return w.String()
}

// commandMetadata returns the front matter for ch: its metadata in source
// order, with the required keys filled in from the model.
func commandMetadata(ch *help.CommandHelp) *help.Metadata {
	md := cloneMetadata(ch.Metadata)

	setDefault(md, help.MetaDocumentType, commandDocumentType)
	setDefault(md, help.MetaExternalHelpFile, ch.ExternalHelpFile)
	setDefault(md, help.MetaHelpURI, ch.OnlineVersionURL)
	setDefault(md, help.MetaLocale, orPlaceholder(ch.Locale, defaultLocale))
	setDefault(md, help.MetaModuleName, ch.ModuleName)
	setDefault(md, help.MetaDate, "")
	md.Set(help.MetaSchemaVersion, SchemaVersion2)
	setDefault(md, help.MetaTitle, ch.Title)

	return md
}

func cloneMetadata(md *help.Metadata) *help.Metadata {
	if md == nil {
		return help.NewMetadata()
	}

	return md.Clone()
}

func setDefault(md *help.Metadata, key, value string) {
	if !md.Has(key) {
		md.Set(key, value)
	}
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}

	return s
}

// ParameterYAML renders the structured metadata block of p.
func ParameterYAML(p help.Parameter) string {
	var sb strings.Builder

	scalar := func(key, value string) {
		fmt.Fprintf(&sb, "%s: %s\n", key, QuoteYAML(value))
	}

	boolean := func(indent, key string, value bool) {
		fmt.Fprintf(&sb, "%s%s: %t\n", indent, key, value)
	}

	list := func(key string, values []string) {
		if len(values) == 0 {
			fmt.Fprintf(&sb, "%s: []\n", key)

			return
		}

		fmt.Fprintf(&sb, "%s:\n", key)

		for _, v := range values {
			fmt.Fprintf(&sb, "- %s\n", QuoteYAML(v))
		}
	}

	scalar("Type", p.Type)
	scalar("DefaultValue", p.DefaultValue)
	boolean("", "SupportsWildcards", p.SupportsWildcards)
	list("Aliases", p.Aliases)

	sets := p.ParameterSets
	if len(sets) == 0 {
		sets = []help.ParameterSet{{
			Name:                            help.ParameterSetsAll,
			Position:                        orPlaceholder(p.Position, help.PositionNamed),
			IsRequired:                      p.Required,
			ValueFromPipeline:               p.PipelineInput.ByValue,
			ValueFromPipelineByPropertyName: p.PipelineInput.ByPropertyName,
			ValueFromRemainingArguments:     p.VariableLength,
		}}
	}

	sb.WriteString("ParameterSets:\n")

	for _, ps := range sets {
		fmt.Fprintf(&sb, "- Name: %s\n", QuoteYAML(ps.Name))
		fmt.Fprintf(&sb, "  Position: %s\n", QuoteYAML(help.NormalizePosition(ps.Position)))
		boolean("  ", "IsRequired", ps.IsRequired)
		boolean("  ", "ValueFromPipeline", ps.ValueFromPipeline)
		boolean("  ", "ValueFromPipelineByPropertyName", ps.ValueFromPipelineByPropertyName)
		boolean("  ", "ValueFromRemainingArguments", ps.ValueFromRemainingArguments)
	}

	boolean("", "DontShow", p.DontShow)
	list("AcceptedValues", p.AcceptedValues)
	scalar("HelpMessage", p.HelpMessage)

	return strings.TrimSuffix(sb.String(), "\n")
}

// QuoteYAML returns s as a YAML scalar that decodes back to s. Plain
// scalars are used where safe; values containing ": " or "]:", starting
// with ">>" or "*", or otherwise ambiguous are single-quoted, and values
// with line breaks are double-quoted.
func QuoteYAML(s string) string {
	if strings.ContainsAny(s, "\n\r\t") {
		return strconv.Quote(s)
	}

	if needsQuote(s) {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}

	return s
}

func needsQuote(s string) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return true
	}

	switch strings.ToLower(s) {
	case "null", "~":
		return true
	}

	if strings.Contains(s, ": ") || strings.Contains(s, "]:") || strings.Contains(s, " #") ||
		strings.HasSuffix(s, ":") || strings.HasPrefix(s, ">>") || strings.HasPrefix(s, "- ") || s == "-" {
		return true
	}

	return strings.ContainsRune("*&!|>'\"%@`{[#,?", rune(s[0]))
}

// mdWriter accumulates markdown blocks separated by blank lines.
type mdWriter struct {
	sb strings.Builder
}

func (w *mdWriter) block(s string) {
	if w.sb.Len() > 0 {
		w.sb.WriteString("\n")
	}

	w.sb.WriteString(s)
	w.sb.WriteString("\n")
}

func (w *mdWriter) String() string {
	return w.sb.String()
}

func (w *mdWriter) frontMatter(md *help.Metadata) {
	var sb strings.Builder

	sb.WriteString("---\n")

	for _, e := range md.Entries() {
		sb.WriteString(e.Key)
		sb.WriteString(":")

		switch v := e.Value.(type) {
		case string:
			sb.WriteString(" " + QuoteYAML(v))
		default:
			out, err := yaml.Marshal(v)
			if err != nil {
				sb.WriteString(" " + QuoteYAML(fmt.Sprint(v)))

				break
			}

			sb.WriteString("\n" + indent(strings.TrimRight(string(out), "\n"), "  "))
		}

		sb.WriteString("\n")
	}

	sb.WriteString("---")

	w.block(sb.String())
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}

	return strings.Join(lines, "\n")
}

func (w *mdWriter) heading(level int, title string) {
	w.block(strings.Repeat("#", level) + " " + title)
}

func (w *mdWriter) text(s string) {
	if s = strings.TrimSpace(s); s != "" {
		w.block(s)
	}
}

func (w *mdWriter) code(info, body string) {
	fence := "```"
	for strings.Contains(body, fence) {
		fence += "`"
	}

	w.block(fence + info + "\n" + body + "\n" + fence)
}

func (w *mdWriter) syntax(items []help.SyntaxItem) {
	single := len(items) == 1 && items[0].IsDefault &&
		items[0].ParameterSetName == help.DefaultParameterSetName

	for _, s := range items {
		if !single {
			title := s.ParameterSetName
			if s.IsDefault {
				title += " " + defaultSetSuffix
			}

			w.heading(3, title)
		}

		w.code("", s.String())
	}
}

func (w *mdWriter) inputOutputs(items []help.InputOutput) {
	for _, io := range items {
		w.heading(3, io.Typename)
		w.text(io.Description)
	}
}

func (w *mdWriter) links(links []help.Link) {
	if len(links) == 0 {
		return
	}

	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, fmt.Sprintf("- [%s](%s)", l.LinkText, linkDestination(l.URI)))
	}

	w.block(strings.Join(lines, "\n"))
}

// linkDestination wraps destinations that are not valid bare link targets.
func linkDestination(uri string) string {
	if strings.ContainsAny(uri, " ()<>") {
		return "<" + uri + ">"
	}

	return uri
}
