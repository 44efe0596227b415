package helpmd_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/helpmd"
	"go.jacobcolvin.com/platyps/stringtest"
)

func TestParseParameterMetadata(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		want     help.Parameter
		schema   helpmd.Schema
		preferV2 bool
	}{
		"v1 multi-set required": {
			input: stringtest.Input(`
				Type: String
				Parameter Sets: SetA, SetB, SetC
				Aliases: nm

				Required: True (SetA, SetC)
				Position: 1
				Default value: None
				Accept pipeline input: ByValue (True), ByName (False)
				Accept wildcard characters: False
			`),
			schema: helpmd.SchemaV1,
			want: help.Parameter{
				Name:          "Name",
				Type:          "String",
				Position:      "1",
				Aliases:       []string{"nm"},
				PipelineInput: help.PipelineInputInfo{ByValue: true},
				ParameterSets: []help.ParameterSet{
					{Name: "SetA", Position: "1", IsRequired: true, ValueFromPipeline: true},
					{Name: "SetB", Position: "1", ValueFromPipeline: true},
					{Name: "SetC", Position: "1", IsRequired: true, ValueFromPipeline: true},
				},
			},
		},
		"v1 not yaml": {
			input: stringtest.Input(`
				Type: String
				Default value: *
			`),
			schema: helpmd.SchemaV1,
			want: help.Parameter{
				Name:          "Name",
				Type:          "String",
				DefaultValue:  "*",
				Position:      help.PositionNamed,
				ParameterSets: []help.ParameterSet{{Name: help.ParameterSetsAll, Position: help.PositionNamed}},
			},
		},
		"v1 accepted values": {
			input: stringtest.Input(`
				Type: String
				Accepted values: Low, High
				Required: true
			`),
			schema: helpmd.SchemaV1,
			want: help.Parameter{
				Name:           "Name",
				Type:           "String",
				Position:       help.PositionNamed,
				AcceptedValues: []string{"Low", "High"},
				Required:       true,
				ParameterSets: []help.ParameterSet{
					{Name: help.ParameterSetsAll, Position: help.PositionNamed, IsRequired: true},
				},
			},
		},
		"v2": {
			input: stringtest.Input(`
				Type: System.Int32
				DefaultValue: 5
				SupportsWildcards: false
				Aliases: [Num]
				ParameterSets:
				- Name: (All)
				  Position: 2
				  IsRequired: false
				  ValueFromPipeline: false
				  ValueFromPipelineByPropertyName: true
				  ValueFromRemainingArguments: true
				DontShow: true
				AcceptedValues: []
				HelpMessage: Enter a number
			`),
			schema: helpmd.SchemaV2,
			want: help.Parameter{
				Name:           "Name",
				Type:           "System.Int32",
				DefaultValue:   "5",
				HelpMessage:    "Enter a number",
				Position:       "2",
				Aliases:        []string{"Num"},
				PipelineInput:  help.PipelineInputInfo{ByPropertyName: true},
				VariableLength: true,
				DontShow:       true,
				ParameterSets: []help.ParameterSet{{
					Name: help.ParameterSetsAll, Position: "2",
					ValueFromPipelineByPropertyName: true, ValueFromRemainingArguments: true,
				}},
			},
		},
		"v2 preferred": {
			input:    "Type: String\nAliases: [a]\n",
			preferV2: true,
			schema:   helpmd.SchemaV2,
			want: help.Parameter{
				Name:          "Name",
				Type:          "String",
				Position:      help.PositionNamed,
				Aliases:       []string{"a"},
				ParameterSets: []help.ParameterSet{{Name: help.ParameterSetsAll, Position: help.PositionNamed}},
			},
		},
		"dictionary": {
			input: stringtest.Input(`
				Type: String
				Mystery: 1
				IsRequired: true
				ParameterSets:
				- Name: A
			`),
			schema: helpmd.SchemaDictionary,
			want: help.Parameter{
				Name:          "Name",
				Type:          "String",
				Position:      help.PositionNamed,
				Required:      true,
				ParameterSets: []help.ParameterSet{{Name: "A", Position: help.PositionNamed, IsRequired: true}},
			},
		},
		"dictionary keeps set records": {
			input: stringtest.Input(`
				Type: System.String
				ParameterSets:
				- Name: A
				  Position: 0
				  IsRequired: maybe
				  ValueFromPipeline: true
				- Name: B
				  IsRequired: true
			`),
			schema: helpmd.SchemaDictionary,
			want: help.Parameter{
				Name:          "Name",
				Type:          "System.String",
				Position:      "0",
				PipelineInput: help.PipelineInputInfo{ByValue: true},
				ParameterSets: []help.ParameterSet{
					{Name: "A", Position: "0", ValueFromPipeline: true},
					{Name: "B", Position: help.PositionNamed, IsRequired: true},
				},
			},
		},
		"unparseable": {
			input:  "Type: [\nnope",
			schema: helpmd.SchemaUnparseable,
			want:   help.Parameter{Name: "Name"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var pe help.ParseErrors

			res := helpmd.ParseParameterMetadata("Name", tc.input, helpmd.ParameterMetadataOptions{
				ParseErrors: &pe,
				Line:        10,
				PreferV2:    tc.preferV2,
			})

			assert.Equal(t, tc.schema, res.Schema)
			assert.Equal(t, tc.want, res.Parameter)
			require.NotEmpty(t, res.Diagnostics)

			d := res.Diagnostics[len(res.Diagnostics)-1]
			assert.Equal(t, 10, d.Line)
			assert.Equal(t, "Name", d.Context)
			assert.Equal(t, help.SourceParameter, d.Source)

			switch tc.schema {
			case helpmd.SchemaDictionary:
				assert.Equal(t, help.SeverityWarning, d.Severity)
				assert.True(t, pe.HadErrors())
			case helpmd.SchemaUnparseable:
				assert.Equal(t, help.SeverityError, d.Severity)
				assert.False(t, pe.HadErrors())
			default:
				assert.Equal(t, help.SeverityInformation, d.Severity)
				assert.Contains(t, d.Message, tc.schema.String())
				assert.False(t, pe.HadErrors())
			}
		})
	}
}

func TestParseParameterMetadataPointer(t *testing.T) {
	t.Parallel()

	input := stringtest.Input(`
		Type: System.String
		DefaultValue: ''
		Mystery: value
	`)

	res := helpmd.ParseParameterMetadata("Name", input, helpmd.ParameterMetadataOptions{PreferV2: true})
	require.Equal(t, helpmd.SchemaDictionary, res.Schema)
	require.Len(t, res.Diagnostics, 1)

	lines := strings.Split(res.Diagnostics[0].Message, "\n")
	require.Len(t, lines, 4, res.Diagnostics[0].Message)

	snippet, marker := lines[2], lines[3]
	assert.NotContains(t, snippet, "\n")

	caret := strings.Index(marker, "^")
	require.GreaterOrEqual(t, caret, 0)
	assert.Empty(t, strings.TrimSpace(marker[:caret]), "marker is indented with spaces")
	assert.True(t, strings.HasPrefix(snippet[caret:], "Mystery"), "marker points at the failing key: %q", snippet)
	assert.Equal(t, strings.Repeat("^", len("Mystery:")), strings.TrimSpace(marker))
}
