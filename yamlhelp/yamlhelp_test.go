package yamlhelp_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/helpmd"
	"go.jacobcolvin.com/platyps/stringtest"
	"go.jacobcolvin.com/platyps/yamlhelp"
)

func parseFixture(t *testing.T, name string) *help.CommandHelp {
	t.Helper()

	src, err := os.ReadFile(filepath.Join("..", "helpmd", "testdata", name))
	require.NoError(t, err)

	ch, err := helpmd.Parse(src)
	require.NoError(t, err)

	return ch
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		fixture string
	}{
		"v2": {fixture: "Get-Foo.md"},
		"v1": {fixture: "Get-Bar.v1.md"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			want := parseFixture(t, tc.fixture)

			out, err := yamlhelp.Marshal(want)
			require.NoError(t, err)

			got, err := yamlhelp.Unmarshal(out)
			require.NoError(t, err, string(out))

			diff := cmp.Diff(want, got,
				cmpopts.IgnoreFields(help.CommandHelp{}, "Metadata", "Diagnostics", "AliasHeaderFound"),
				cmpopts.EquateEmpty(),
			)
			assert.Empty(t, diff)

			assert.Equal(t, want.Metadata.Keys(), got.Metadata.Keys())

			for _, k := range want.Metadata.Keys() {
				assert.Equal(t, want.Metadata.String(k), got.Metadata.String(k), "key %q", k)
			}
		})
	}
}

func TestMarshalLiteralStyle(t *testing.T) {
	t.Parallel()

	ch := help.NewCommandHelp("Get-Foo")
	ch.Description = "Line one.\nLine two."

	out, err := yamlhelp.Marshal(ch)
	require.NoError(t, err)

	assert.Contains(t, string(out), "description: |")
	assert.Contains(t, string(out), "title: Get-Foo\n")
}

func TestUnmarshalErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err   error
		input string
	}{
		"unknown key": {
			input: stringtest.Input(`
				title: Get-Foo
				synopsys: typo
			`),
			err: yamlhelp.ErrInvalidYAML,
		},
		"no title": {
			input: "synopsis: Gets a foo.\n",
			err:   yamlhelp.ErrNoTitle,
		},
		"not yaml": {
			input: "title: [",
			err:   yamlhelp.ErrInvalidYAML,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := yamlhelp.Unmarshal([]byte(tc.input))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestUnmarshalDerivesParameterFields(t *testing.T) {
	t.Parallel()

	ch, err := yamlhelp.Unmarshal([]byte(stringtest.Input(`
		title: Get-Foo
		parameters:
		- name: Path
		  type: System.String
		  parameterSets:
		  - name: (All)
		    position: "1"
		    isRequired: true
		    valueFromPipeline: true
	`)))
	require.NoError(t, err)

	p, ok := ch.Parameter("Path")
	require.True(t, ok)
	assert.True(t, p.Required)
	assert.Equal(t, "1", p.Position)
	assert.True(t, p.PipelineInput.ByValue)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	s, err := yamlhelp.Schema()
	require.NoError(t, err)

	out, err := json.Marshal(s)
	require.NoError(t, err)

	var got map[string]any

	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, yamlhelp.SchemaID, got["$id"])
	assert.Equal(t, []any{"title"}, got["required"])

	props, ok := got["properties"].(map[string]any)
	require.True(t, ok)

	for _, key := range []string{"metadata", "title", "syntaxes", "parameters", "inputs", "outputs", "links"} {
		assert.Contains(t, props, key)
	}

	assert.Contains(t, string(out), `"pattern":"^(\\d+|Named)$"`)
}
