package helpmd

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/platyps/help"
)

// Schema identifies which decoder accepted a parameter's metadata block.
type Schema int

// Parameter metadata schemas.
const (
	// SchemaUnparseable means no decoder accepted the block.
	SchemaUnparseable Schema = iota
	// SchemaV1 is the flat, string-valued layout ("Parameter Sets",
	// "Accept pipeline input", ...).
	SchemaV1
	// SchemaV2 is the structured layout (ParameterSets records, lists and
	// real booleans).
	SchemaV2
	// SchemaDictionary means the block was valid YAML matching neither
	// layout, and recognizable keys were salvaged.
	SchemaDictionary
)

func (s Schema) String() string {
	switch s {
	case SchemaV1:
		return "v1"
	case SchemaV2:
		return "v2"
	case SchemaDictionary:
		return "dictionary"
	case SchemaUnparseable:
	}

	return "unparseable"
}

// V1 field names.
const (
	v1Type             = "Type"
	v1ParameterSets    = "Parameter Sets"
	v1Aliases          = "Aliases"
	v1AcceptedValues   = "Accepted values"
	v1Required         = "Required"
	v1Position         = "Position"
	v1DefaultValue     = "Default value"
	v1PipelineInput    = "Accept pipeline input"
	v1WildcardChars    = "Accept wildcard characters"
	v1Applicable       = "Applicable"
	v1NoneDefaultValue = "None"
)

var v1Keys = []string{
	v1Type, v1ParameterSets, v1Aliases, v1AcceptedValues, v1Required,
	v1Position, v1DefaultValue, v1PipelineInput, v1WildcardChars, v1Applicable,
}

var (
	requiredSetsRe = regexp.MustCompile(`(?i)^\s*true\s*\(([^)]*)\)`)
	byValueRe      = regexp.MustCompile(`(?i)ByValue\s*\(\s*(true|false)\s*\)`)
	byNameRe       = regexp.MustCompile(`(?i)ByName\s*\(\s*(true|false)\s*\)`)
	yamlPositionRe = regexp.MustCompile(`\[(\d+):(\d+)\]`)
)

// parameterV2 is the structured metadata layout.
type parameterV2 struct {
	Type              yamlString       `yaml:"Type"`
	DefaultValue      yamlString       `yaml:"DefaultValue"`
	HelpMessage       yamlString       `yaml:"HelpMessage"`
	Aliases           []string         `yaml:"Aliases"`
	ParameterValue    []string         `yaml:"ParameterValue"`
	AcceptedValues    []string         `yaml:"AcceptedValues"`
	ParameterSets     []parameterSetV2 `yaml:"ParameterSets"`
	SupportsWildcards bool             `yaml:"SupportsWildcards"`
	DontShow          bool             `yaml:"DontShow"`
}

type parameterSetV2 struct {
	Name                            yamlString `yaml:"Name"`
	Position                        yamlString `yaml:"Position"`
	IsRequired                      bool       `yaml:"IsRequired"`
	ValueFromPipeline               bool       `yaml:"ValueFromPipeline"`
	ValueFromPipelineByPropertyName bool       `yaml:"ValueFromPipelineByPropertyName"`
	ValueFromRemainingArguments     bool       `yaml:"ValueFromRemainingArguments"`
}

// yamlString accepts any YAML scalar and keeps its text form, so that
// "Position: 0" and "Position: Named" decode alike and "True" stays "True".
type yamlString string

var errNotScalar = errors.New("expected a scalar value")

// UnmarshalYAML implements [yaml.BytesUnmarshaler].
func (s *yamlString) UnmarshalYAML(b []byte) error {
	var v any

	err := yaml.Unmarshal(b, &v)
	if err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = yamlString(val)
	case []any, map[string]any:
		return errNotScalar
	default:
		// Numbers and booleans keep their source spelling.
		*s = yamlString(strings.TrimSpace(string(b)))
	}

	return nil
}

// ParameterMetadataOptions configures [ParseParameterMetadata].
type ParameterMetadataOptions struct {
	// ParseErrors receives an entry when only the dictionary fallback
	// succeeds. May be nil.
	ParseErrors *help.ParseErrors
	// Line is the 1-based source line of the YAML block, for diagnostics.
	Line int
	// PreferV2 tries the structured layout before the flat one.
	PreferV2 bool
}

// ParameterMetadata is the result of [ParseParameterMetadata].
type ParameterMetadata struct {
	Parameter   help.Parameter
	Diagnostics []help.Diagnostic
	Schema      Schema
}

// ParseParameterMetadata decodes the YAML block documenting parameter name.
//
// Decoders are tried in order, and the first success wins: the V1 flat
// layout (converted to the canonical form), the V2 structured layout, then
// a generic dictionary from which recognizable keys are salvaged. With
// [ParameterMetadataOptions.PreferV2] the first two swap places. When every
// decoder fails the result holds a parameter with only its name set and an
// Error diagnostic; parsing never fails outright.
func ParseParameterMetadata(name, text string, opts ParameterMetadataOptions) ParameterMetadata {
	res := ParameterMetadata{Parameter: help.Parameter{Name: name}}

	line := opts.Line
	if line <= 0 {
		line = help.NoLine
	}

	var raw map[string]any

	rawErr := yaml.Unmarshal([]byte(text), &raw)

	decoders := []Schema{SchemaV1, SchemaV2}
	if opts.PreferV2 {
		decoders = []Schema{SchemaV2, SchemaV1}
	}

	var v2Err error

	for _, schema := range decoders {
		switch schema {
		case SchemaV1:
			v1 := raw
			if rawErr != nil {
				// Flat metadata written by older tools is not always valid
				// YAML, for example "Default value: *".
				v1 = v1Lines(text)
			}

			if p, ok := decodeV1(name, v1); ok {
				res.Parameter = p
				res.Schema = SchemaV1
			}

		case SchemaV2:
			p, err := decodeV2(name, text)
			if err != nil {
				v2Err = err

				continue
			}

			res.Parameter = p
			res.Schema = SchemaV2
		}

		if res.Schema != SchemaUnparseable {
			res.Diagnostics = append(res.Diagnostics, help.NewDiagnostic(help.SourceParameter,
				fmt.Sprintf("Parameter metadata parsed with the %s schema.", res.Schema),
				help.SeverityInformation, name, line))

			return res
		}
	}

	if rawErr == nil {
		res.Parameter = decodeDictionary(name, raw)
		res.Schema = SchemaDictionary

		msg := "Parameter metadata matched no known schema; recognizable keys were kept."
		if v2Err != nil {
			msg += "\n" + yamlErrorMessage(text, v2Err)
		}

		opts.ParseErrors.Add(fmt.Errorf("%w: parameter %s: %w", ErrParameterYAML, name, v2OrDefault(v2Err)))

		res.Diagnostics = append(res.Diagnostics,
			help.NewDiagnostic(help.SourceParameter, msg, help.SeverityWarning, name, line))

		return res
	}

	res.Diagnostics = append(res.Diagnostics, help.NewDiagnostic(help.SourceParameter,
		"Unable to parse parameter metadata: "+yamlErrorMessage(text, rawErr),
		help.SeverityError, name, line))

	return res
}

func v2OrDefault(err error) error {
	if err != nil {
		return err
	}

	return errors.New("unrecognized keys")
}

// decodeV1 converts a flat V1 mapping. It reports false when raw has keys
// outside the V1 vocabulary.
func decodeV1(name string, raw map[string]any) (help.Parameter, bool) {
	if len(raw) == 0 {
		return help.Parameter{}, false
	}

	for k := range raw {
		if !slices.Contains(v1Keys, k) {
			return help.Parameter{}, false
		}
	}

	p := help.Parameter{
		Name:              name,
		Type:              scalarText(raw[v1Type]),
		Aliases:           splitList(raw[v1Aliases]),
		AcceptedValues:    splitList(raw[v1AcceptedValues]),
		Position:          help.NormalizePosition(scalarText(raw[v1Position])),
		SupportsWildcards: parseBool(scalarText(raw[v1WildcardChars])),
	}

	p.DefaultValue = scalarText(raw[v1DefaultValue])
	if p.DefaultValue == v1NoneDefaultValue {
		p.DefaultValue = ""
	}

	sets := splitList(raw[v1ParameterSets])
	if len(sets) == 0 {
		sets = []string{help.ParameterSetsAll}
	}

	isRequired := requiredFunc(scalarText(raw[v1Required]))
	p.PipelineInput = parsePipelineInput(scalarText(raw[v1PipelineInput]))

	for _, set := range sets {
		p.ParameterSets = append(p.ParameterSets, help.ParameterSet{
			Name:                            set,
			Position:                        p.Position,
			IsRequired:                      isRequired(set),
			ValueFromPipeline:               p.PipelineInput.ByValue,
			ValueFromPipelineByPropertyName: p.PipelineInput.ByPropertyName,
		})
	}

	p.DeriveRequired()

	return p, true
}

// v1Lines reads flat "Key: value" lines. It returns nil when any non-blank
// line is not a known V1 field.
func v1Lines(text string) map[string]any {
	out := map[string]any{}

	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)

		if !ok || !slices.Contains(v1Keys, key) {
			return nil
		}

		out[key] = strings.TrimSpace(value)
	}

	return out
}

// requiredFunc interprets a V1 Required value: either a boolean applying to
// every set, or "True (SetA, SetB)" naming the sets where it is required.
func requiredFunc(s string) func(set string) bool {
	if m := requiredSetsRe.FindStringSubmatch(s); m != nil {
		required := splitCSV(m[1])

		return func(set string) bool {
			return slices.ContainsFunc(required, func(r string) bool {
				return strings.EqualFold(r, set)
			})
		}
	}

	all := parseBool(s)

	return func(string) bool { return all }
}

// parsePipelineInput interprets a V1 pipeline input value in either the
// "True (ByValue, ByPropertyName)" or the "ByValue (True), ByName (False)"
// convention.
func parsePipelineInput(s string) help.PipelineInputInfo {
	var info help.PipelineInputInfo

	byValue := byValueRe.FindStringSubmatch(s)
	byName := byNameRe.FindStringSubmatch(s)

	if byValue != nil || byName != nil {
		if byValue != nil {
			info.ByValue = parseBool(byValue[1])
		}

		if byName != nil {
			info.ByPropertyName = parseBool(byName[1])
		}

		return info
	}

	head, rest, _ := strings.Cut(s, "(")
	if !parseBool(head) {
		return info
	}

	if rest == "" {
		info.ByValue = true

		return info
	}

	lower := strings.ToLower(rest)
	info.ByValue = strings.Contains(lower, "byvalue")
	info.ByPropertyName = strings.Contains(lower, "bypropertyname")

	return info
}

// decodeV2 decodes the structured layout with unknown and duplicate keys
// rejected.
func decodeV2(name, text string) (help.Parameter, error) {
	var v parameterV2

	err := yaml.UnmarshalWithOptions([]byte(text), &v, yaml.Strict())
	if err != nil {
		return help.Parameter{}, err
	}

	return v.toParameter(name), nil
}

func (v parameterV2) toParameter(name string) help.Parameter {
	p := help.Parameter{
		Name:              name,
		Type:              string(v.Type),
		DefaultValue:      string(v.DefaultValue),
		HelpMessage:       string(v.HelpMessage),
		Aliases:           nonEmpty(v.Aliases),
		AcceptedValues:    nonEmpty(v.AcceptedValues),
		SupportsWildcards: v.SupportsWildcards,
		DontShow:          v.DontShow,
		Position:          help.PositionNamed,
	}

	if len(p.AcceptedValues) == 0 {
		p.AcceptedValues = nonEmpty(v.ParameterValue)
	}

	for _, ps := range v.ParameterSets {
		setName := string(ps.Name)
		if setName == "" {
			setName = help.ParameterSetsAll
		}

		p.ParameterSets = append(p.ParameterSets, help.ParameterSet{
			Name:                            setName,
			Position:                        help.NormalizePosition(string(ps.Position)),
			IsRequired:                      ps.IsRequired,
			ValueFromPipeline:               ps.ValueFromPipeline,
			ValueFromPipelineByPropertyName: ps.ValueFromPipelineByPropertyName,
			ValueFromRemainingArguments:     ps.ValueFromRemainingArguments,
		})
	}

	if len(p.ParameterSets) == 0 {
		p.ParameterSets = []help.ParameterSet{{Name: help.ParameterSetsAll, Position: help.PositionNamed}}
	}

	p.DeriveRequired()

	return p
}

// decodeDictionary salvages whatever keys of either layout are present.
func decodeDictionary(name string, raw map[string]any) help.Parameter {
	p := help.Parameter{Name: name, Position: help.PositionNamed}

	if v, ok := lookupKey(raw, v1Type); ok {
		p.Type = scalarText(v)
	}

	if v, ok := lookupKey(raw, "DefaultValue", v1DefaultValue); ok {
		p.DefaultValue = scalarText(v)
		if p.DefaultValue == v1NoneDefaultValue {
			p.DefaultValue = ""
		}
	}

	if v, ok := lookupKey(raw, "HelpMessage"); ok {
		p.HelpMessage = scalarText(v)
	}

	if v, ok := lookupKey(raw, v1Aliases); ok {
		p.Aliases = splitList(v)
	}

	if v, ok := lookupKey(raw, "AcceptedValues", v1AcceptedValues); ok {
		p.AcceptedValues = splitList(v)
	}

	if v, ok := lookupKey(raw, "SupportsWildcards", v1WildcardChars); ok {
		p.SupportsWildcards = parseBool(scalarText(v))
	}

	if v, ok := lookupKey(raw, "DontShow"); ok {
		p.DontShow = parseBool(scalarText(v))
	}

	if v, ok := lookupKey(raw, v1Position); ok {
		p.Position = help.NormalizePosition(scalarText(v))
	}

	required := false
	if v, ok := lookupKey(raw, v1Required, "IsRequired"); ok {
		required = parseBool(scalarText(v))
	}

	if v, ok := lookupKey(raw, v1PipelineInput); ok {
		p.PipelineInput = parsePipelineInput(scalarText(v))
	}

	flat := help.ParameterSet{
		Name:                            help.ParameterSetsAll,
		Position:                        p.Position,
		IsRequired:                      required,
		ValueFromPipeline:               p.PipelineInput.ByValue,
		ValueFromPipelineByPropertyName: p.PipelineInput.ByPropertyName,
	}

	if v, ok := lookupKey(raw, "ParameterSets", v1ParameterSets); ok {
		p.ParameterSets = setRecords(v, flat)
	}

	if len(p.ParameterSets) == 0 {
		p.ParameterSets = []help.ParameterSet{flat}
	}

	p.DeriveRequired()

	return p
}

// setRecords reads parameter sets from either a comma list of names or a
// list of records. Keys a record lacks take their value from flat.
func setRecords(v any, flat help.ParameterSet) []help.ParameterSet {
	items, ok := v.([]any)
	if !ok {
		var sets []help.ParameterSet

		for _, n := range splitList(v) {
			set := flat
			set.Name = n
			sets = append(sets, set)
		}

		return sets
	}

	var sets []help.ParameterSet

	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			if n := scalarText(item); n != "" {
				set := flat
				set.Name = n
				sets = append(sets, set)
			}

			continue
		}

		set := flat

		if n, ok := lookupKey(rec, "Name"); ok && scalarText(n) != "" {
			set.Name = scalarText(n)
		}

		if v, ok := lookupKey(rec, v1Position); ok {
			set.Position = help.NormalizePosition(scalarText(v))
		}

		if v, ok := lookupKey(rec, "IsRequired", v1Required); ok {
			set.IsRequired = parseBool(scalarText(v))
		}

		if v, ok := lookupKey(rec, "ValueFromPipeline"); ok {
			set.ValueFromPipeline = parseBool(scalarText(v))
		}

		if v, ok := lookupKey(rec, "ValueFromPipelineByPropertyName"); ok {
			set.ValueFromPipelineByPropertyName = parseBool(scalarText(v))
		}

		if v, ok := lookupKey(rec, "ValueFromRemainingArguments"); ok {
			set.ValueFromRemainingArguments = parseBool(scalarText(v))
		}

		sets = append(sets, set)
	}

	return sets
}

// lookupKey returns the value of the first of keys present in m, matching
// keys case-insensitively.
func lookupKey(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		for mk, mv := range m {
			if strings.EqualFold(mk, k) {
				return mv, true
			}
		}
	}

	return nil, false
}

// scalarText formats a decoded YAML value as text.
func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case bool:
		if val {
			return "True"
		}

		return "False"
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, scalarText(item))
		}

		return strings.Join(parts, ", ")
	}

	return fmt.Sprint(v)
}

// splitList accepts a comma-separated string or a YAML sequence.
func splitList(v any) []string {
	if items, ok := v.([]any); ok {
		var out []string

		for _, item := range items {
			if s := scalarText(item); s != "" {
				out = append(out, s)
			}
		}

		return out
	}

	return splitCSV(scalarText(v))
}

func splitCSV(s string) []string {
	var out []string

	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func nonEmpty(ss []string) []string {
	var out []string

	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))

	return err == nil && b
}

// pointerContext is the number of bytes of source shown on each side of a
// YAML error position.
const pointerContext = 20

// yamlErrorMessage renders err with a pointer into src: the first line of
// the error, the source around the failing position on one line, and a
// marker line of "^" under the failing token.
func yamlErrorMessage(src string, err error) string {
	full := err.Error()
	msg, _, _ := strings.Cut(full, "\n")

	m := yamlPositionRe.FindStringSubmatch(full)
	if m == nil {
		return strings.TrimSpace(msg)
	}

	msg = strings.TrimSpace(yamlPositionRe.ReplaceAllString(msg, ""))

	line, _ := strconv.Atoi(m[1])
	col, _ := strconv.Atoi(m[2])

	offset, ok := lineColumnOffset(src, line, col)
	if !ok {
		return msg
	}

	return msg + "\n" + pointerAt(src, offset)
}

// lineColumnOffset converts a 1-based line and column to a byte offset.
func lineColumnOffset(src string, line, col int) (int, bool) {
	if line < 1 || col < 1 {
		return 0, false
	}

	offset := 0

	for range line - 1 {
		i := strings.IndexByte(src[offset:], '\n')
		if i < 0 {
			return 0, false
		}

		offset += i + 1
	}

	offset += col - 1
	if offset > len(src) {
		return 0, false
	}

	return offset, true
}

// pointerAt returns two lines: up to [pointerContext] bytes of src on each
// side of offset with line breaks flattened to spaces, and a marker line
// with "^" under the token starting at offset.
func pointerAt(src string, offset int) string {
	start := max(offset-pointerContext, 0)
	for start > 0 && !utf8.RuneStart(src[start]) {
		start--
	}

	end := min(offset+pointerContext, len(src))
	for end < len(src) && !utf8.RuneStart(src[end]) {
		end++
	}

	snippet := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}

		return r
	}, src[start:end])

	width := 0

	for _, r := range src[offset:end] {
		if r == '\n' || r == ' ' || r == '\t' || r == '\r' {
			break
		}

		width++
	}

	width = max(width, 1)

	marker := strings.Repeat(" ", utf8.RuneCountInString(src[start:offset])) + strings.Repeat("^", width)

	return strings.TrimRight(snippet, " ") + "\n" + marker
}
