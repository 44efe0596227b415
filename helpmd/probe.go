package helpmd

import (
	"fmt"
	"strings"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/markdown"
)

// DocumentType classifies a markdown help file.
type DocumentType int

// Document types.
const (
	DocumentUnknown DocumentType = iota
	DocumentCommand
	DocumentModule
	DocumentAbout
)

func (t DocumentType) String() string {
	switch t {
	case DocumentCommand:
		return "command"
	case DocumentModule:
		return "module"
	case DocumentAbout:
		return "about"
	case DocumentUnknown:
	}

	return "unknown"
}

// Schema versions reported by [Probe].
const (
	ProbeSchemaV1 = "v1"
	ProbeSchemaV2 = "v2"
)

const aboutPrefix = "about_"

// ProbeInfo is the result of [Probe].
type ProbeInfo struct {
	Metadata      *help.Metadata
	Title         string
	SchemaVersion string
	Diagnostics   []help.Diagnostic
	Type          DocumentType
}

// Probe classifies a document without parsing its sections.
//
// The front matter "document type" key decides when present. Otherwise a
// "Module Guid" key marks a module page, and a title starting with
// "about_" marks a conceptual topic. Remaining documents with front matter
// are command help. Metadata is nil when the document has no front matter.
func Probe(src []byte) ProbeInfo {
	doc := markdown.NewDocument(src)

	var info ProbeInfo

	md, next, err := ExtractMetadata(doc)
	if err != nil {
		md, next = nil, 0
	}

	info.Metadata = md

	for i := next; i < doc.Len(); i++ {
		if b := doc.Block(i); b.IsHeading(1) {
			info.Title = strings.TrimSpace(b.Text)

			break
		}
	}

	if info.Title == "" && md != nil {
		info.Title = md.String(help.MetaTitle)
	}

	info.Type, info.Diagnostics = classify(md, info.Title)

	if md != nil && info.Type != DocumentAbout {
		info.SchemaVersion = ProbeSchemaV1
		if IsSchemaV2(md.String(help.MetaSchemaVersion)) {
			info.SchemaVersion = ProbeSchemaV2
		}

		info.Diagnostics = append(info.Diagnostics, help.NewDiagnostic(help.SourceIdentify,
			fmt.Sprintf("Schema version %s.", info.SchemaVersion),
			help.SeverityInformation, help.MetaSchemaVersion, help.NoLine))
	}

	return info
}

func classify(md *help.Metadata, title string) (DocumentType, []help.Diagnostic) {
	identified := func(t DocumentType, reason string) (DocumentType, []help.Diagnostic) {
		return t, []help.Diagnostic{help.NewDiagnostic(help.SourceIdentify,
			fmt.Sprintf("Identified as %s help: %s.", t, reason),
			help.SeverityInformation, title, help.NoLine)}
	}

	isAbout := strings.HasPrefix(strings.ToLower(title), aboutPrefix)

	if md == nil {
		if isAbout {
			return identified(DocumentAbout, "title starts with "+aboutPrefix)
		}

		return DocumentUnknown, []help.Diagnostic{help.NewDiagnostic(help.SourceIdentify,
			"No metadata found; unable to identify document type.",
			help.SeverityWarning, title, help.NoLine)}
	}

	switch strings.ToLower(md.String(help.MetaDocumentType)) {
	case "cmdlet", "command", "function":
		return identified(DocumentCommand, "document type")
	case "module":
		return identified(DocumentModule, "document type")
	case "about":
		return identified(DocumentAbout, "document type")
	}

	switch {
	case md.Has(help.MetaModuleGUID):
		return identified(DocumentModule, help.MetaModuleGUID)
	case isAbout:
		return identified(DocumentAbout, "title starts with "+aboutPrefix)
	}

	return identified(DocumentCommand, "metadata present")
}
