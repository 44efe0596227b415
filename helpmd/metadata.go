package helpmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/markdown"
)

// RequiredMetadataKeys are the front matter keys checked by
// [ValidateMetadata].
var RequiredMetadataKeys = []string{
	help.MetaExternalHelpFile,
	help.MetaLocale,
	help.MetaModuleName,
	help.MetaDate,
	help.MetaHelpURI,
	help.MetaSchemaVersion,
	help.MetaTitle,
}

// maxFrontMatterBlocks bounds how far past the opening thematic break the
// closing delimiter is searched for.
const maxFrontMatterBlocks = 4

// ExtractMetadata reads the front matter at the start of doc. It returns the
// metadata and the index of the first block after it, or [ErrNoMetadata].
//
// The opening delimiter is a thematic break. The closing "---" is either the
// underline of a setext heading (the usual case, since "---" under text is a
// heading in markdown), a second thematic break, or a thematic break after a
// list block holding YAML sequence items.
func ExtractMetadata(doc *markdown.Document) (*help.Metadata, int, error) {
	first := doc.Block(0)
	if first == nil || first.Kind != markdown.KindThematicBreak {
		return nil, 0, ErrNoMetadata
	}

	for i := 1; i <= maxFrontMatterBlocks; i++ {
		b := doc.Block(i)
		if b == nil {
			break
		}

		switch {
		case b.Kind == markdown.KindThematicBreak:
			return ParseMetadataText(doc.LineRange(first.Line+1, b.Line)), i + 1, nil
		case b.IsHeading(2) && b.Setext:
			return ParseMetadataText(doc.LineRange(first.Line+1, b.EndLine)), i + 1, nil
		case b.Kind == markdown.KindHeading:
			return nil, 0, ErrNoMetadata
		}
	}

	return nil, 0, ErrNoMetadata
}

// ParseMetadataText parses front matter text. It is decoded as an ordered
// YAML mapping first; when that fails each line is split on its first colon.
func ParseMetadataText(text string) *help.Metadata {
	if md, ok := parseMetadataYAML(text); ok {
		return md
	}

	return parseMetadataLines(text)
}

func parseMetadataYAML(text string) (*help.Metadata, bool) {
	if strings.TrimSpace(text) == "" {
		return help.NewMetadata(), true
	}

	var ms yaml.MapSlice

	err := yaml.Unmarshal([]byte(text), &ms)
	if err != nil || len(ms) == 0 {
		return nil, false
	}

	md := help.NewMetadata()

	for _, item := range ms {
		key := strings.TrimSpace(fmt.Sprint(item.Key))
		if key == "" {
			continue
		}

		md.Set(key, metadataValue(item.Value))
	}

	return md, true
}

func parseMetadataLines(text string) *help.Metadata {
	md := help.NewMetadata()

	for line := range strings.SplitSeq(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		value = strings.TrimSpace(value)
		if value == "''" {
			value = ""
		}

		md.Set(key, value)
	}

	return md
}

// metadataValue keeps strings and structured values, and formats every
// other scalar as a string.
func metadataValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any, map[string]any, yaml.MapSlice:
		return val
	case time.Time:
		if val.Equal(val.Truncate(24 * time.Hour)) {
			return val.Format(time.DateOnly)
		}

		return val.Format(time.RFC3339)
	}

	return fmt.Sprint(v)
}

// ValidateMetadata reports the presence of each of [RequiredMetadataKeys] as
// one Information or Error diagnostic per key.
func ValidateMetadata(md *help.Metadata) []help.Diagnostic {
	diags := make([]help.Diagnostic, 0, len(RequiredMetadataKeys))

	for _, key := range RequiredMetadataKeys {
		if md.Has(key) {
			diags = append(diags, help.NewDiagnostic(help.SourceMetadata,
				fmt.Sprintf("%s found.", key), help.SeverityInformation, key, help.NoLine))

			continue
		}

		diags = append(diags, help.NewDiagnostic(help.SourceMetadata,
			fmt.Sprintf("%s not found.", key), help.SeverityError, key, help.NoLine))
	}

	return diags
}
