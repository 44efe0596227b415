package merge_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/merge"
)

func nameParam(desc string) help.Parameter {
	return help.Parameter{
		Name:        "Name",
		Type:        "System.String",
		Description: desc,
		Position:    "0",
		Required:    true,
		ParameterSets: []help.ParameterSet{
			{Name: "ByName", Position: "0", IsRequired: true},
		},
	}
}

func verboseParam() help.Parameter {
	return help.Parameter{
		Name:     "Verbose",
		Type:     "System.Management.Automation.SwitchParameter",
		Position: help.PositionNamed,
		ParameterSets: []help.ParameterSet{
			{Name: help.ParameterSetsAll, Position: help.PositionNamed},
		},
	}
}

func syntaxByName(params ...help.SyntaxParameter) help.SyntaxItem {
	return help.SyntaxItem{
		CommandName:      "Get-Foo",
		ParameterSetName: "ByName",
		IsDefault:        true,
		HasCmdletBinding: true,
		Parameters:       params,
	}
}

var nameSyntax = help.SyntaxParameter{Name: "Name", Type: "String", Position: "0", IsPositional: true, IsMandatory: true}

// markdownHelp is what a parsed markdown document for Get-Foo looks like.
func markdownHelp() *help.CommandHelp {
	ch := help.NewCommandHelp("Get-Foo")
	ch.Synopsis = "Gets a foo."
	ch.Description = "Long description."
	ch.Syntax = []help.SyntaxItem{syntaxByName(nameSyntax)}
	ch.Parameters = []help.Parameter{nameParam("The name of the foo.")}
	ch.Inputs = []help.InputOutput{{Typename: "System.String", Description: "A name."}}
	ch.Outputs = []help.InputOutput{{Typename: "Foo.Item"}}

	return ch
}

// commandHelp is the same command after -Verbose was added to it.
func commandHelp() *help.CommandHelp {
	ch := help.NewCommandHelp("Get-Foo")
	ch.Syntax = []help.SyntaxItem{syntaxByName(nameSyntax, help.SyntaxParameter{
		Name: "Verbose", Type: help.SwitchParameterType, Position: help.PositionNamed, IsSwitchParameter: true,
	})}
	ch.Parameters = []help.Parameter{verboseParam(), nameParam("")}
	ch.Inputs = []help.InputOutput{{Typename: "system.string"}}
	ch.Outputs = []help.InputOutput{{Typename: "Foo.Item"}, {Typename: "Foo.Other"}}

	return ch
}

func messages(ds []help.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Message)
	}

	return out
}

func TestMergeAddsVerbose(t *testing.T) {
	t.Parallel()

	md := markdownHelp()

	got, err := merge.Merge(md, commandHelp())
	require.NoError(t, err)

	require.Len(t, got.Parameters, 2)
	assert.Equal(t, "Name", got.Parameters[0].Name)
	assert.Equal(t, "The name of the foo.", got.Parameters[0].Description)
	assert.Equal(t, "Verbose", got.Parameters[1].Name)
	// Added parameters without help text get a fill-in placeholder.
	assert.Equal(t, "{{ Fill Verbose Description }}", got.Parameters[1].Description)

	require.Len(t, got.Syntax, 1)
	assert.Len(t, got.Syntax[0].Parameters, 2)

	// Same type names take the command's list, but a description the
	// command lacks is filled from markdown rather than dropped.
	assert.Equal(t, []help.InputOutput{{Typename: "system.string", Description: "A name."}}, got.Inputs)
	assert.Equal(t, []help.InputOutput{{Typename: "Foo.Item"}, {Typename: "Foo.Other"}}, got.Outputs)

	assert.Equal(t, md.Synopsis, got.Synopsis)
	assert.Equal(t, md.Description, got.Description)

	msgs := messages(got.Diagnostics.BySource(help.SourceMerge))
	assert.Equal(t, []string{
		"Syntax ByName is different, updating.",
		"Parameter Verbose not found in help, adding.",
		"Parameter Name no change.",
		"Inputs have the same types, updating.",
		"Outputs type Foo.Other not found in help, adding.",
	}, msgs)

	for _, d := range got.Diagnostics.Items() {
		assert.Equal(t, help.SeverityInformation, d.Severity)
	}

	// Inputs are untouched.
	assert.Len(t, md.Parameters, 1)
	assert.Equal(t, 0, md.Diagnostics.Len())
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	cmd := commandHelp()

	first, err := merge.Merge(markdownHelp(), cmd)
	require.NoError(t, err)

	second, err := merge.Merge(first, cmd)
	require.NoError(t, err)

	diff := cmp.Diff(first, second,
		cmpopts.IgnoreFields(help.CommandHelp{}, "Diagnostics", "Metadata"),
	)
	assert.Empty(t, diff)

	msgs := messages(second.Diagnostics.BySource(help.SourceMerge))
	assert.Contains(t, msgs, "Syntax are the same.")
	assert.Contains(t, msgs, "Parameter Name no change.")
	assert.Contains(t, msgs, "Parameter Verbose no change.")
}

func TestMergeSameDocument(t *testing.T) {
	t.Parallel()

	md := markdownHelp()

	got, err := merge.Merge(md, md)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Syntax are the same.",
		"Parameters are the same.",
		"Inputs are the same.",
		"Outputs are the same.",
	}, messages(got.Diagnostics.Items()))
}

func TestMergeSyntax(t *testing.T) {
	t.Parallel()

	byID := help.SyntaxItem{CommandName: "Get-Foo", ParameterSetName: "ById"}
	legacy := help.SyntaxItem{CommandName: "Get-Foo", ParameterSetName: "Legacy"}
	byName := syntaxByName(nameSyntax)

	var diags help.Diagnostics

	got := merge.MergeSyntax(
		[]help.SyntaxItem{legacy, byName},
		[]help.SyntaxItem{byName, byID},
		&diags,
	)

	assert.Equal(t, []help.SyntaxItem{legacy, byName, byID}, got)
	assert.Equal(t, []string{
		"Syntax Legacy not found in command, keeping.",
		"Syntax ByName is the same, keeping.",
		"Adding missing syntax ById.",
	}, messages(diags.Items()))
}

func TestMergeParametersKeepsMarkdownOnly(t *testing.T) {
	t.Parallel()

	changed := nameParam("")
	changed.Aliases = []string{"FooName"}

	old := help.Parameter{Name: "Old", Description: "Removed upstream."}

	var diags help.Diagnostics

	got := merge.MergeParameters(
		[]help.Parameter{old, nameParam("Described.")},
		[]help.Parameter{changed},
		&diags,
	)

	require.Len(t, got, 2)
	assert.Equal(t, "Name", got[0].Name)
	assert.Equal(t, []string{"FooName"}, got[0].Aliases)
	assert.Equal(t, "Described.", got[0].Description)
	assert.Equal(t, old, got[1])

	msgs := strings.Join(messages(diags.Items()), "\n")
	assert.Contains(t, msgs, "Parameter Name is different, updating.")
	assert.Contains(t, msgs, "Parameter Old not found in command; adding, found in help.")
}

func TestMergeUpdateInPlace(t *testing.T) {
	t.Parallel()

	md := markdownHelp()

	got, err := merge.Merge(md, commandHelp(), merge.WithMode(merge.ModeUpdateInPlace))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(md, got, cmp.AllowUnexported(help.Diagnostics{}, help.Metadata{})))

	_, err = merge.Merge(md, nil)
	require.ErrorIs(t, err, merge.ErrNoCommand)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  merge.Mode
		err   error
	}{
		"merge":           {input: "merge", want: merge.ModeMerge},
		"update in place": {input: "Update-In-Place", want: merge.ModeUpdateInPlace},
		"unknown":         {input: "replace", err: merge.ErrUnknownMode},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := merge.ParseMode(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
