package helpmd

import (
	"log/slog"
	"strings"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/markdown"
)

// SchemaVersion2 is the first front matter schema version written in the
// structured parameter layout.
const SchemaVersion2 = "2024-05-01"

// Parser reads command help markdown into [help.CommandHelp].
type Parser struct {
	parseErrors *help.ParseErrors
	preferV2    *bool
}

// Option configures a [Parser].
type Option func(*Parser)

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithParseErrors collects low-level parse failures into pe.
func WithParseErrors(pe *help.ParseErrors) Option {
	return func(p *Parser) {
		p.parseErrors = pe
	}
}

// WithPreferV2 forces the order in which parameter metadata layouts are
// tried, instead of deriving it from the front matter schema version.
func WithPreferV2(prefer bool) Option {
	return func(p *Parser) {
		p.preferV2 = &prefer
	}
}

// Parse reads a command help document with default options.
func Parse(src []byte) (*help.CommandHelp, error) {
	return NewParser().Parse(src)
}

// ParseWithOptions reads a command help document.
func ParseWithOptions(src []byte, opts ...Option) (*help.CommandHelp, error) {
	return NewParser(opts...).Parse(src)
}

// Parse reads a command help document.
//
// Missing front matter, a missing level-1 title, or an empty command name
// are returned as errors. Everything else, including missing or malformed
// sections, is recorded in the result's Diagnostics and parsing continues.
func (p *Parser) Parse(src []byte) (*help.CommandHelp, error) {
	doc := markdown.NewDocument(src)

	md, next, err := ExtractMetadata(doc)
	if err != nil {
		return nil, err
	}

	cur := doc.Cursor()
	cur.Seek(next - 1)

	titleIdx := cur.FindHeader(1, "")
	if titleIdx < 0 {
		return nil, ErrNoTitle
	}

	title := strings.TrimSpace(doc.Block(titleIdx).Text)
	if title == "" {
		title = md.String(help.MetaTitle)
	}

	if title == "" {
		return nil, ErrNoCommandName
	}

	ch := help.NewCommandHelp(title)
	ch.Metadata = md
	ch.ModuleName = md.String(help.MetaModuleName)
	ch.Locale = md.String(help.MetaLocale)
	ch.ExternalHelpFile = md.String(help.MetaExternalHelpFile)
	ch.SchemaVersion = md.String(help.MetaSchemaVersion)

	ch.OnlineVersionURL = md.String(help.MetaHelpURI)
	if ch.OnlineVersionURL == "" {
		ch.OnlineVersionURL = md.String(help.MetaOnlineVersion)
	}

	preferV2 := IsSchemaV2(ch.SchemaVersion)
	if p.preferV2 != nil {
		preferV2 = *p.preferV2
	}

	r := &sectionReader{
		doc:         doc,
		cur:         cur,
		ch:          ch,
		titleIdx:    titleIdx,
		parseErrors: p.parseErrors,
		preferV2:    preferV2,
	}

	r.synopsis()
	r.syntax()
	r.description()
	r.examples()
	r.parameters()
	r.aliases()
	r.inputOutputs(sectionInputs, help.SourceInputs, &ch.Inputs)
	r.inputOutputs(sectionOutputs, help.SourceOutputs, &ch.Outputs)
	r.notes()
	r.relatedLinks()

	ch.SortParameters()

	slog.Debug("parsed command help",
		slog.String("command", ch.Title),
		slog.Int("parameters", len(ch.Parameters)),
		slog.Int("diagnostics", ch.Diagnostics.Len()),
	)

	return ch, nil
}

// IsSchemaV2 reports whether a front matter schema version denotes
// the structured parameter layout.
func IsSchemaV2(version string) bool {
	version = strings.TrimSpace(version)

	return version != "" && version >= SchemaVersion2
}
