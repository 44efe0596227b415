package helpmd_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/helpmd"
)

func TestParseSyntaxLine(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  []help.SyntaxParameter
	}{
		"optional positional": {
			input: "Get-Foo [[-Path] <String[]>]",
			want: []help.SyntaxParameter{
				{Name: "Path", Type: "String[]", Position: "0", IsPositional: true},
			},
		},
		"mandatory positional": {
			input: "Get-Foo [-Name] <String>",
			want: []help.SyntaxParameter{
				{Name: "Name", Type: "String", Position: "0", IsPositional: true, IsMandatory: true},
			},
		},
		"optional named": {
			input: "Get-Foo [-Count <Int32>]",
			want: []help.SyntaxParameter{
				{Name: "Count", Type: "Int32", Position: help.PositionNamed},
			},
		},
		"mandatory named": {
			input: "Get-Foo -Id <Guid>",
			want: []help.SyntaxParameter{
				{Name: "Id", Type: "Guid", Position: help.PositionNamed, IsMandatory: true},
			},
		},
		"switches": {
			input: "Get-Foo [-Force] -Confirm",
			want: []help.SyntaxParameter{
				{Name: "Force", Type: help.SwitchParameterType, Position: help.PositionNamed, IsSwitchParameter: true},
				{
					Name: "Confirm", Type: help.SwitchParameterType, Position: help.PositionNamed,
					IsSwitchParameter: true, IsMandatory: true,
				},
			},
		},
		"nested generic": {
			input: "Get-Foo [-Value] <Nullable<Int32>>",
			want: []help.SyntaxParameter{
				{Name: "Value", Type: "Nullable<Int32>", Position: "0", IsPositional: true, IsMandatory: true},
			},
		},
		"optional nested generic": {
			input: "Get-Foo [[-Value] <List<Nullable<Int32>>>]",
			want: []help.SyntaxParameter{
				{Name: "Value", Type: "List<Nullable<Int32>>", Position: "0", IsPositional: true},
			},
		},
		"type with spaces": {
			input: "Get-Foo [-Map <Dictionary<String, Int32>>]",
			want: []help.SyntaxParameter{
				{Name: "Map", Type: "Dictionary<String, Int32>", Position: help.PositionNamed},
			},
		},
		"positions skip named": {
			input: "Get-Foo [-A] <String> -B <String> [[-C] <String>] [-D]",
			want: []help.SyntaxParameter{
				{Name: "A", Type: "String", Position: "0", IsPositional: true, IsMandatory: true},
				{Name: "B", Type: "String", Position: help.PositionNamed, IsMandatory: true},
				{Name: "C", Type: "String", Position: "1", IsPositional: true},
				{Name: "D", Type: help.SwitchParameterType, Position: help.PositionNamed, IsSwitchParameter: true},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := helpmd.ParseSyntaxLine(tc.input)
			assert.Equal(t, "Get-Foo", got.CommandName)
			assert.Equal(t, tc.want, got.Parameters)
			assert.Empty(t, got.Unrecognized)
			assert.False(t, got.HasCmdletBinding)

			item := help.SyntaxItem{CommandName: got.CommandName, Parameters: got.Parameters}
			assert.Equal(t, tc.input, item.String(), "renders back")
		})
	}
}

func TestParseSyntaxLineCommonParameters(t *testing.T) {
	t.Parallel()

	got := helpmd.ParseSyntaxLine("Get-Foo  [-Name] <String>   [<CommonParameters>]")
	assert.True(t, got.HasCmdletBinding)
	require.Len(t, got.Parameters, 1)

	got = helpmd.ParseSyntaxLine("Get-Foo <oops> [-Name]")
	assert.Equal(t, []string{"<oops>"}, got.Unrecognized)
	require.Len(t, got.Parameters, 1)

	assert.Empty(t, helpmd.ParseSyntaxLine("   ").CommandName)
}

// Every parameter appears once, and positional parameters are numbered
// 0..n-1 from left to right.
func TestParseSyntaxLinePositionalSequence(t *testing.T) {
	t.Parallel()

	shapes := []func(name string) string{
		func(n string) string { return "[[-" + n + "] <String>]" },
		func(n string) string { return "[-" + n + "] <Int32>" },
		func(n string) string { return "[-" + n + " <String>]" },
		func(n string) string { return "-" + n + " <Object>" },
		func(n string) string { return "[-" + n + "]" },
		func(n string) string { return "-" + n },
	}

	for seed := range 64 {
		parts := []string{"Invoke-Foo"}
		names := []string{}

		for i := range 8 {
			name := "P" + strconv.Itoa(i)
			shape := shapes[(seed*7+i*(seed+3))%len(shapes)]
			parts = append(parts, shape(name))
			names = append(names, name)
		}

		got := helpmd.ParseSyntaxLine(strings.Join(parts, " "))
		require.Len(t, got.Parameters, len(names))

		next := 0

		for i, p := range got.Parameters {
			assert.Equal(t, names[i], p.Name)

			if !p.IsPositional {
				assert.Equal(t, help.PositionNamed, p.Position)

				continue
			}

			assert.Equal(t, strconv.Itoa(next), p.Position)
			next++
		}
	}
}
