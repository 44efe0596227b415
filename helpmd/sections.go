package helpmd

import (
	"fmt"
	"regexp"
	"strings"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/markdown"
)

// Section headings.
const (
	sectionSynopsis     = "SYNOPSIS"
	sectionSyntax       = "SYNTAX"
	sectionDescription  = "DESCRIPTION"
	sectionExamples     = "EXAMPLES"
	sectionParameters   = "PARAMETERS"
	sectionAliases      = "ALIASES"
	sectionInputs       = "INPUTS"
	sectionOutputs      = "OUTPUTS"
	sectionNotes        = "NOTES"
	sectionRelatedLinks = "RELATED LINKS"

	commonParametersName         = "CommonParameters"
	workflowCommonParametersName = "WorkflowCommonParameters"
	defaultSetSuffix             = "(Default)"
)

// Sections lists the level-2 headings of a command help document in the
// order they are read.
var Sections = []string{
	sectionSynopsis,
	sectionSyntax,
	sectionDescription,
	sectionExamples,
	sectionParameters,
	sectionAliases,
	sectionInputs,
	sectionOutputs,
	sectionNotes,
	sectionRelatedLinks,
}

var (
	aliasPlaceholderRe = regexp.MustCompile(`(?i)\{\{\s*insert list of aliases\s*\}\}`)
	atxMarkerRe        = regexp.MustCompile(`^\s{0,3}#{1,6}\s*|\s+#+\s*$`)
)

// sectionReader extracts the sections of one document. Every extractor
// starts its search from the title block, so sections may appear in any
// order in the source.
type sectionReader struct {
	doc         *markdown.Document
	cur         *markdown.Cursor
	ch          *help.CommandHelp
	parseErrors *help.ParseErrors
	titleIdx    int
	preferV2    bool
}

// find locates the level-2 heading named title. It returns the heading's
// block index and the index of the block ending the section (the next
// level-2 heading, or -1 for the end of the document).
func (r *sectionReader) find(title string) (int, int) {
	r.cur.Seek(r.titleIdx)

	start := r.cur.FindHeader(2, title)
	if start < 0 {
		return -1, -1
	}

	r.cur.Seek(start)

	return start, r.cur.FindHeader(2, "")
}

// body returns the verbatim text between heading idx and block end.
func (r *sectionReader) body(idx, end int) string {
	r.cur.Seek(idx)
	r.cur.Take()

	return r.cur.StringFromAST(end)
}

// headings returns the indexes of headings at level strictly between start
// and end (-1 meaning the end of the document).
func (r *sectionReader) headings(level, start, end int) []int {
	var out []int

	r.cur.Seek(start)

	for {
		i := r.cur.FindHeaderBefore(level, "", end)
		if i < 0 {
			return out
		}

		out = append(out, i)
		r.cur.Seek(i)
	}
}

// nextHeading returns the first heading of any level after idx and before
// end, or end.
func (r *sectionReader) nextHeading(idx, end int) int {
	r.cur.Seek(idx)

	if i := r.cur.FindHeaderBefore(-1, "", end); i >= 0 {
		return i
	}

	return end
}

// blocksBetween returns the blocks strictly between start and end.
func (r *sectionReader) blocksBetween(start, end int) []*markdown.Block {
	if end < 0 {
		end = r.doc.Len()
	}

	var out []*markdown.Block

	for i := start + 1; i < end; i++ {
		out = append(out, r.doc.Block(i))
	}

	return out
}

func (r *sectionReader) missing(src help.Source, title string, sev help.Severity) {
	r.ch.Diagnostics.Add(src, fmt.Sprintf("%s header not found.", title), sev, title, help.NoLine)
}

// headingSource returns the raw text of a heading line without its ATX
// markers, falling back to the flattened inline text.
func (r *sectionReader) headingSource(b *markdown.Block) string {
	if !b.Setext {
		if raw := strings.TrimSpace(atxMarkerRe.ReplaceAllString(r.doc.Line(b.Line), "")); raw != "" {
			return raw
		}
	}

	return strings.TrimSpace(b.Text)
}

func (r *sectionReader) synopsis() {
	start, end := r.find(sectionSynopsis)
	if start < 0 {
		r.missing(help.SourceSynopsis, sectionSynopsis, help.SeverityError)

		return
	}

	r.ch.Synopsis = r.body(start, end)
	if r.ch.Synopsis == "" {
		r.ch.Diagnostics.Add(help.SourceSynopsis, "Synopsis is empty.",
			help.SeverityError, sectionSynopsis, r.cur.TextLine(start))
	}
}

func (r *sectionReader) syntax() {
	start, end := r.find(sectionSyntax)
	if start < 0 {
		r.missing(help.SourceSyntax, sectionSyntax, help.SeverityError)

		return
	}

	sets := r.headings(3, start, end)
	if len(sets) == 0 {
		code := r.firstCode(start, end)
		if code == nil {
			r.ch.Diagnostics.Add(help.SourceSyntax, "No syntax code block found.",
				help.SeverityError, sectionSyntax, r.cur.TextLine(start))

			return
		}

		r.addSyntax(help.DefaultParameterSetName, true, code)

		return
	}

	for i, h := range sets {
		setEnd := end
		if i+1 < len(sets) {
			setEnd = sets[i+1]
		}

		name := r.headingSource(r.doc.Block(h))
		isDefault := false

		if len(name) >= len(defaultSetSuffix) &&
			strings.EqualFold(name[len(name)-len(defaultSetSuffix):], defaultSetSuffix) {
			name = strings.TrimSpace(name[:len(name)-len(defaultSetSuffix)])
			isDefault = true
		}

		if _, dup := r.ch.SyntaxItem(name); dup {
			r.ch.Diagnostics.Add(help.SourceSyntax,
				fmt.Sprintf("Duplicate parameter set %q ignored.", name),
				help.SeverityWarning, name, r.cur.TextLine(h))

			continue
		}

		code := r.firstCode(h, setEnd)
		if code == nil {
			r.ch.Diagnostics.Add(help.SourceSyntax,
				fmt.Sprintf("No syntax code block found for parameter set %q.", name),
				help.SeverityError, name, r.cur.TextLine(h))

			continue
		}

		r.addSyntax(name, isDefault, code)
	}
}

func (r *sectionReader) firstCode(start, end int) *markdown.Block {
	for _, b := range r.blocksBetween(start, end) {
		if b.Kind == markdown.KindFencedCode || b.Kind == markdown.KindCode {
			return b
		}
	}

	return nil
}

func (r *sectionReader) addSyntax(setName string, isDefault bool, code *markdown.Block) {
	sl := ParseSyntaxLine(joinSyntaxLines(r.doc.Code(code)))

	if len(sl.Unrecognized) > 0 {
		r.ch.Diagnostics.Add(help.SourceSyntax,
			fmt.Sprintf("Unrecognized syntax tokens: %s", strings.Join(sl.Unrecognized, " ")),
			help.SeverityWarning, setName, code.Line+1)
	}

	name := sl.CommandName
	if name == "" {
		name = r.ch.Title
	}

	r.ch.HasCmdletBinding = r.ch.HasCmdletBinding || sl.HasCmdletBinding
	r.ch.Syntax = append(r.ch.Syntax, help.SyntaxItem{
		CommandName:      name,
		ParameterSetName: setName,
		Parameters:       sl.Parameters,
		IsDefault:        isDefault,
		HasCmdletBinding: sl.HasCmdletBinding,
	})
}

func (r *sectionReader) description() {
	start, end := r.find(sectionDescription)
	if start < 0 {
		r.missing(help.SourceDescription, sectionDescription, help.SeverityError)

		return
	}

	r.ch.Description = r.body(start, end)
}

func (r *sectionReader) examples() {
	start, end := r.find(sectionExamples)
	if start < 0 {
		r.missing(help.SourceExample, sectionExamples, help.SeverityError)

		return
	}

	for _, h := range r.headings(3, start, end) {
		exEnd := r.nextHeading(h, end)

		ex := help.Example{Title: r.headingSource(r.doc.Block(h))}

		var code, remarks []string

		for _, b := range r.blocksBetween(h, exEnd) {
			if b.Kind == markdown.KindFencedCode || b.Kind == markdown.KindCode {
				code = append(code, r.doc.Code(b))

				continue
			}

			remarks = append(remarks, r.doc.LineRange(b.Line, b.EndLine+1))
		}

		ex.Code = strings.Join(code, "\n\n")
		ex.Remarks = strings.TrimSpace(strings.Join(remarks, "\n\n"))

		r.ch.Examples = append(r.ch.Examples, ex)
	}
}

func (r *sectionReader) parameters() {
	start, end := r.find(sectionParameters)
	if start < 0 {
		r.missing(help.SourceParameter, sectionParameters, help.SeverityError)

		return
	}

	hs := r.headings(3, start, end)

	for i, h := range hs {
		// Deeper headings belong to the parameter's description.
		paramEnd := end
		if i+1 < len(hs) {
			paramEnd = hs[i+1]
		}

		name := strings.TrimPrefix(r.headingSource(r.doc.Block(h)), "-")
		line := r.cur.TextLine(h)

		switch {
		case strings.EqualFold(name, commonParametersName):
			r.ch.HasCmdletBinding = true
			r.ch.Diagnostics.Add(help.SourceParameter, "CommonParameters found.",
				help.SeverityInformation, name, line)

			continue

		case strings.EqualFold(name, workflowCommonParametersName):
			r.ch.HasWorkflowCommonParameters = true
			r.ch.Diagnostics.Add(help.SourceParameter, "WorkflowCommonParameters found.",
				help.SeverityInformation, name, line)

			continue
		}

		if _, dup := r.ch.Parameter(name); dup {
			r.ch.Diagnostics.Add(help.SourceParameter,
				fmt.Sprintf("Duplicate parameter %q ignored.", name),
				help.SeverityWarning, name, line)

			continue
		}

		r.ch.Parameters = append(r.ch.Parameters, r.parameter(name, h, paramEnd))
	}
}

// parameter reads one parameter subsection: free text, then a YAML block.
func (r *sectionReader) parameter(name string, h, end int) help.Parameter {
	yamlIdx := -1

	limit := end
	if limit < 0 {
		limit = r.doc.Len()
	}

	for i := h + 1; i < limit; i++ {
		b := r.doc.Block(i)
		if b.Kind != markdown.KindFencedCode {
			continue
		}

		if strings.EqualFold(b.Info, "yaml") {
			yamlIdx = i

			break
		}

		if yamlIdx < 0 && b.Info == "" {
			yamlIdx = i
		}
	}

	if yamlIdx < 0 {
		r.ch.Diagnostics.Add(help.SourceParameter, "Parameter metadata block not found.",
			help.SeverityError, name, r.cur.TextLine(h))

		return help.Parameter{
			Name:        name,
			Description: r.body(h, end),
			Position:    help.PositionNamed,
		}
	}

	res := ParseParameterMetadata(name, r.doc.Code(r.doc.Block(yamlIdx)), ParameterMetadataOptions{
		ParseErrors: r.parseErrors,
		Line:        r.cur.TextLine(yamlIdx),
		PreferV2:    r.preferV2,
	})

	r.ch.Diagnostics.AddAll(res.Diagnostics)

	p := res.Parameter
	p.Description = r.body(h, yamlIdx)

	return p
}

func (r *sectionReader) aliases() {
	start, end := r.find(sectionAliases)
	if start < 0 {
		r.missing(help.SourceAlias, sectionAliases, help.SeverityInformation)

		return
	}

	r.ch.AliasHeaderFound = true

	text := r.body(start, end)
	if aliasPlaceholderRe.MatchString(text) {
		text = ""
	}

	r.ch.Aliases = text
}

func (r *sectionReader) inputOutputs(title string, src help.Source, out *[]help.InputOutput) {
	start, end := r.find(title)
	if start < 0 {
		r.missing(src, title, help.SeverityError)

		return
	}

	// Any heading starts a type. Types without text keep an empty
	// description so they survive a render and parse.
	for _, h := range r.headings(-1, start, end) {
		*out = append(*out, help.InputOutput{
			Typename:    r.headingSource(r.doc.Block(h)),
			Description: r.body(h, r.nextHeading(h, end)),
		})
	}
}

func (r *sectionReader) notes() {
	start, end := r.find(sectionNotes)
	if start < 0 {
		r.missing(help.SourceNotes, sectionNotes, help.SeverityWarning)

		return
	}

	r.ch.Notes = r.body(start, end)
	if r.ch.Notes == "" {
		r.ch.Diagnostics.Add(help.SourceNotes, "NOTES section is empty.",
			help.SeverityWarning, sectionNotes, r.cur.TextLine(start))
	}
}

func (r *sectionReader) relatedLinks() {
	start, end := r.find(sectionRelatedLinks)
	if start < 0 {
		r.missing(help.SourceLinks, sectionRelatedLinks, help.SeverityError)

		return
	}

	for _, b := range r.blocksBetween(start, end) {
		if b.Kind != markdown.KindParagraph && b.Kind != markdown.KindList {
			continue
		}

		for _, l := range r.doc.Links(b) {
			r.ch.RelatedLinks = append(r.ch.RelatedLinks, help.Link{URI: l.URL, LinkText: l.Text})
		}
	}
}
