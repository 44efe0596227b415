package introspect_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/introspect"
)

func loadSource(t *testing.T) *introspect.Source {
	t.Helper()

	src, err := introspect.LoadFiles(
		filepath.Join("testdata", "Foo.json"),
		filepath.Join("testdata", "Remove-Foo.yaml"),
	)
	require.NoError(t, err)

	return src
}

func TestLoadCommands(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err   error
		input string
		want  []string
	}{
		"json list": {
			input: `[{"Name": "Get-Foo"}, {"Name": "Set-Foo"}]`,
			want:  []string{"Get-Foo", "Set-Foo"},
		},
		"json object": {
			input: `{"Name": "Get-Foo", "Extra": {"Ignored": true}}`,
			want:  []string{"Get-Foo"},
		},
		"yaml list": {
			input: "- Name: Get-Foo\n- Name: Set-Foo\n",
			want:  []string{"Get-Foo", "Set-Foo"},
		},
		"empty": {
			input: "  \n",
			err:   introspect.ErrInvalidDump,
		},
		"missing name": {
			input: `[{"ModuleName": "Foo"}]`,
			err:   introspect.ErrInvalidDump,
		},
		"not a command": {
			input: "just text",
			err:   introspect.ErrInvalidDump,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmds, err := introspect.LoadCommands([]byte(tc.input))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)

			names := make([]string, 0, len(cmds))
			for _, c := range cmds {
				names = append(names, c.Name)
			}

			assert.Equal(t, tc.want, names)
		})
	}
}

func TestSourceLookup(t *testing.T) {
	t.Parallel()

	src := loadSource(t)
	assert.Equal(t, 3, src.Len())

	cmd, err := src.Lookup("get-foo")
	require.NoError(t, err)
	assert.Equal(t, "Get-Foo", cmd.Name)
	require.Len(t, cmd.ParameterSets, 2)

	_, err = src.Lookup("Get-Nope")
	require.ErrorIs(t, err, introspect.ErrCommandNotFound)

	_, err = introspect.LoadFiles(filepath.Join("testdata", "missing.json"))
	require.ErrorIs(t, err, introspect.ErrReadInput)
}

func TestSourceLaterWins(t *testing.T) {
	t.Parallel()

	src := introspect.NewSource(
		introspect.Command{Name: "Get-Foo", ModuleName: "Old"},
		introspect.Command{Name: "Get-Bar"},
		introspect.Command{Name: "GET-FOO", ModuleName: "New"},
	)

	require.Equal(t, 2, src.Len())

	cmd, err := src.Lookup("Get-Foo")
	require.NoError(t, err)
	assert.Equal(t, "New", cmd.ModuleName)
	assert.Equal(t, "GET-FOO", src.Commands()[0].Name)
}

func TestToCommandHelp(t *testing.T) {
	t.Parallel()

	cmd, err := loadSource(t).Lookup("Get-Foo")
	require.NoError(t, err)

	ch := introspect.ToCommandHelp(cmd)

	assert.Equal(t, "Get-Foo", ch.Title)
	assert.Equal(t, "Foo", ch.ModuleName)
	assert.True(t, ch.HasCmdletBinding)
	assert.Equal(t, "Gets a foo.", ch.Synopsis)
	assert.Equal(t, []help.InputOutput{{Typename: "System.String"}}, ch.Inputs)
	assert.Equal(t, []help.InputOutput{{Typename: "Foo.Item"}}, ch.Outputs)

	require.Len(t, ch.Syntax, 2)
	assert.Equal(t, "Get-Foo [-Name] <String> [-Force] [<CommonParameters>]", ch.Syntax[0].String())
	assert.True(t, ch.Syntax[0].IsDefault)
	assert.Equal(t, "Get-Foo -Id <Nullable<Int32>> [-Force] [<CommonParameters>]", ch.Syntax[1].String())
	assert.False(t, ch.Syntax[1].IsDefault)

	want := []help.Parameter{
		{
			Name:          "Force",
			Type:          "System.Management.Automation.SwitchParameter",
			Description:   "Forces the operation.",
			DefaultValue:  "False",
			Position:      help.PositionNamed,
			ParameterSets: []help.ParameterSet{{Name: help.ParameterSetsAll, Position: help.PositionNamed}},
		},
		{
			Name:          "Id",
			Type:          "System.Nullable`1[System.Int32]",
			Description:   "The ID of the foo.",
			Position:      help.PositionNamed,
			Required:      true,
			PipelineInput: help.PipelineInputInfo{ByPropertyName: true},
			ParameterSets: []help.ParameterSet{{
				Name: "ById", Position: help.PositionNamed, IsRequired: true, ValueFromPipelineByPropertyName: true,
			}},
		},
		{
			Name:              "Name",
			Type:              "System.String",
			Description:       "The name of the foo.",
			Position:          "0",
			Required:          true,
			SupportsWildcards: true,
			Aliases:           []string{"FooName"},
			PipelineInput:     help.PipelineInputInfo{ByValue: true},
			ParameterSets: []help.ParameterSet{{
				Name: "ByName", Position: "0", IsRequired: true, ValueFromPipeline: true,
			}},
		},
	}

	assert.Equal(t, want, ch.Parameters)
}

func TestToCommandHelpAllSets(t *testing.T) {
	t.Parallel()

	src := loadSource(t)

	cmd, err := src.Lookup("Remove-Foo")
	require.NoError(t, err)

	ch := introspect.ToCommandHelp(cmd)

	require.Len(t, ch.Syntax, 1)
	assert.Equal(t, help.DefaultParameterSetName, ch.Syntax[0].ParameterSetName)
	assert.True(t, ch.Syntax[0].IsDefault)
	assert.Equal(t, "Remove-Foo [[-Path] <String[]>] [-Confirm] [<CommonParameters>]", ch.Syntax[0].String())

	require.Len(t, ch.Parameters, 2)
	assert.Equal(t, "Confirm", ch.Parameters[0].Name)
	assert.Equal(t, "Path", ch.Parameters[1].Name)
	assert.Equal(t, []string{"A", "B"}, ch.Parameters[1].AcceptedValues)
	assert.Equal(t, help.ParameterSetsAll, ch.Parameters[1].ParameterSets[0].Name)

	assert.Contains(t, ch.Aliases, "rfoo")
	assert.Equal(t, []help.Example{{Title: "Example 1", Code: "Remove-Foo -Path a", Remarks: "Removes a."}}, ch.Examples)
	assert.Equal(t, []help.Link{{URI: "https://example.com/remove-foo", LinkText: "Online Version"}}, ch.RelatedLinks)

	cmd, err = src.Lookup("Set-Foo")
	require.NoError(t, err)

	ch = introspect.ToCommandHelp(cmd)
	require.Len(t, ch.Syntax, 1)
	assert.Equal(t, "Set-Foo [[-Value] <Dictionary<String, Int32>>]", ch.Syntax[0].String())
	assert.Empty(t, ch.Parameters[0].Description)
}

func TestIsCommonParameter(t *testing.T) {
	t.Parallel()

	assert.True(t, introspect.IsCommonParameter("verbose"))
	assert.True(t, introspect.IsCommonParameter("ProgressAction"))
	assert.False(t, introspect.IsCommonParameter("WhatIf"))
}
