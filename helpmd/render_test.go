package helpmd_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/helpmd"
	"go.jacobcolvin.com/platyps/stringtest"
)

var update = flag.Bool("update", false, "update golden files")

// assertGolden compares got against a golden file. When -update is set, it
// writes the golden file instead.
func assertGolden(t *testing.T, goldenPath, got string) {
	t.Helper()

	if *update {
		require.NoError(t, os.WriteFile(goldenPath, []byte(got), 0o644))

		return
	}

	want, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "golden file %s not found; run with -update to create", goldenPath)

	assert.Equal(t, string(want), got)
}

func TestRenderGolden(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input  string
		golden string
	}{
		"v1 upgraded": {input: "Get-Bar.v1.md", golden: "Get-Bar.golden.md"},
		"v2 unchanged": {input: "Get-Foo.md", golden: "Get-Foo.md"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ch, err := helpmd.Parse(readFixture(t, tc.input))
			require.NoError(t, err)

			assertGolden(t, filepath.Join("testdata", tc.golden), helpmd.Render(ch))
		})
	}
}

func TestRenderPlaceholders(t *testing.T) {
	t.Parallel()

	ch := help.NewCommandHelp("New-Foo")
	ch.ModuleName = "Foo"
	ch.Parameters = []help.Parameter{{Name: "Name", Type: "System.String", Position: "0", Required: true}}

	out := helpmd.Render(ch)

	assert.Contains(t, out, "title: New-Foo\n")
	assert.Contains(t, out, "Locale: en-US\n")
	assert.Contains(t, out, "PlatyPS schema version: 2024-05-01\n")
	assert.Contains(t, out, helpmd.SynopsisPlaceholder)
	assert.Contains(t, out, helpmd.DescriptionPlaceholder)
	assert.Contains(t, out, "{{ Fill Name Description }}")
	assert.NotContains(t, out, "### CommonParameters")

	parsed, err := helpmd.Parse([]byte(out))
	require.NoError(t, err)

	p, ok := parsed.Parameter("Name")
	require.True(t, ok)
	assert.True(t, p.Required)
	assert.Equal(t, "0", p.Position)
	assert.Equal(t, []help.ParameterSet{{Name: help.ParameterSetsAll, Position: "0", IsRequired: true}}, p.ParameterSets)
	assert.Empty(t, parsed.Aliases)
}

func TestQuoteYAML(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"plain":          {input: "System.String", want: "System.String"},
		"empty":          {input: "", want: "''"},
		"colon space":    {input: "a: b", want: "'a: b'"},
		"bracket colon":  {input: "[x]: y", want: "'[x]: y'"},
		"redirect":       {input: ">> out.txt", want: "'>> out.txt'"},
		"star":           {input: "*", want: "'*'"},
		"single quote":   {input: "it's", want: "it's"},
		"leading quote":  {input: "'x'", want: "'''x'''"},
		"null":           {input: "null", want: "'null'"},
		"array literal":  {input: "@()", want: "'@()'"},
		"generic type":   {input: "System.Nullable`1[System.Int32]", want: "System.Nullable`1[System.Int32]"},
		"newline":        {input: "a\nb", want: `"a\nb"`},
		"trailing space": {input: "a ", want: "'a '"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := helpmd.QuoteYAML(tc.input)
			assert.Equal(t, tc.want, got)

			var v map[string]string

			require.NoError(t, yaml.Unmarshal([]byte("k: "+got), &v))
			assert.Equal(t, tc.input, v["k"], "decodes back")
		})
	}
}

func TestParameterYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	p := help.Parameter{
		Name:              "Filter",
		Type:              "System.String",
		DefaultValue:      "*: all",
		HelpMessage:       ">> help",
		Aliases:           []string{"F", "Flt"},
		AcceptedValues:    []string{"a: b", "c"},
		SupportsWildcards: true,
		DontShow:          true,
		ParameterSets: []help.ParameterSet{
			{Name: "A", Position: "1", IsRequired: true, ValueFromPipeline: true},
			{Name: "B", Position: help.PositionNamed, ValueFromRemainingArguments: true},
		},
	}
	p.DeriveRequired()

	res := helpmd.ParseParameterMetadata("Filter", helpmd.ParameterYAML(p), helpmd.ParameterMetadataOptions{PreferV2: true})
	require.Equal(t, helpmd.SchemaV2, res.Schema)
	assert.True(t, p.Equal(res.Parameter), "%#v", res.Parameter)
}

func TestParseModuleFile(t *testing.T) {
	t.Parallel()

	src := readFixture(t, "Foo.module.md")

	info, err := helpmd.ParseModuleFile(src)
	require.NoError(t, err)

	assert.Equal(t, "Foo Module", info.Title)
	assert.Equal(t, "Foo", info.Module)
	assert.Equal(t, "0f7c3a2e-0000-4000-8000-000000000001", info.ModuleGUID)
	assert.Equal(t, "en-US", info.Locale)
	assert.Equal(t, "Tools for working with foos.", info.Description)

	assert.Equal(t, []help.ModuleCommandGroup{
		{
			GroupTitle: "Foo Cmdlets",
			Commands: []help.ModuleCommandInfo{
				{Name: "Get-Foo", Link: "Get-Foo.md", Description: "Gets a foo."},
				{Name: "Set-Foo", Link: "Set-Foo.md", Description: "Sets a foo."},
			},
		},
		{
			GroupTitle: "Bar Cmdlets",
			Commands: []help.ModuleCommandInfo{
				{Name: "Get-Bar", Description: "Gets a bar."},
			},
		},
	}, info.CommandGroups)

	cmds := info.Diagnostics.BySource(help.SourceModuleFileCommand)
	require.Len(t, cmds, 1)
	assert.Equal(t, "Get-Bar", cmds[0].Context)

	assert.Equal(t, string(src), helpmd.RenderModuleFile(info), "render is canonical")
}

func TestParseModuleFileDiagnostics(t *testing.T) {
	t.Parallel()

	info, err := helpmd.ParseModuleFile([]byte(stringtest.Input(`
		---
		Module Name: Foo
		title: Foo Module
		---

		## Cmdlets

		### [Get-Foo](Get-Foo.md)
	`)))
	require.NoError(t, err)

	assert.Equal(t, "Foo Module", info.Title)
	assert.Len(t, info.Diagnostics.BySource(help.SourceModuleFileTitle), 1)
	assert.Len(t, info.Diagnostics.BySource(help.SourceModuleFileDescription), 1)
	require.Len(t, info.Commands(), 1)
	assert.Empty(t, info.Commands()[0].Description)

	_, err = helpmd.ParseModuleFile([]byte("# Foo\n"))
	require.ErrorIs(t, err, helpmd.ErrNoMetadata)
}
