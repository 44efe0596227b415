package helpmd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/helpmd"
	"go.jacobcolvin.com/platyps/stringtest"
)

func TestProbe(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input  string
		title  string
		schema string
		want   helpmd.DocumentType
	}{
		"v2 command": {
			input:  string(readFixture(t, "Get-Foo.md")),
			want:   helpmd.DocumentCommand,
			title:  "Get-Foo",
			schema: helpmd.ProbeSchemaV2,
		},
		"v1 command": {
			input:  string(readFixture(t, "Get-Bar.v1.md")),
			want:   helpmd.DocumentCommand,
			title:  "Get-Bar",
			schema: helpmd.ProbeSchemaV1,
		},
		"module by type": {
			input:  string(readFixture(t, "Foo.module.md")),
			want:   helpmd.DocumentModule,
			title:  "Foo Module",
			schema: helpmd.ProbeSchemaV2,
		},
		"module by guid": {
			input: stringtest.Input(`
				---
				Module Guid: 0f7c3a2e-0000-4000-8000-000000000001
				---

				# Foo Module
			`),
			want:   helpmd.DocumentModule,
			title:  "Foo Module",
			schema: helpmd.ProbeSchemaV1,
		},
		"about without metadata": {
			input: stringtest.Input(`
				# about_Foo

				## Short description
			`),
			want:  helpmd.DocumentAbout,
			title: "about_Foo",
		},
		"about with metadata": {
			input: stringtest.Input(`
				---
				title: about_Foo
				---
			`),
			want:  helpmd.DocumentAbout,
			title: "about_Foo",
		},
		"unknown": {
			input: "Just text.\n",
			want:  helpmd.DocumentUnknown,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			info := helpmd.Probe([]byte(tc.input))
			assert.Equal(t, tc.want, info.Type, info.Type.String())
			assert.Equal(t, tc.title, info.Title)
			assert.Equal(t, tc.schema, info.SchemaVersion)
			require.NotEmpty(t, info.Diagnostics)

			for _, d := range info.Diagnostics {
				assert.Equal(t, help.SourceIdentify, d.Source)
			}

			if tc.want == helpmd.DocumentUnknown {
				assert.Nil(t, info.Metadata)
				assert.Equal(t, help.SeverityWarning, info.Diagnostics[0].Severity)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	report := helpmd.Validate(readFixture(t, "Get-Foo.md"))
	require.NoError(t, report.Err)
	assert.True(t, report.Passed(), "%v", report.Lines())

	lines := report.Lines()
	assert.Contains(t, lines, "PASS: title found.")
	assert.Contains(t, lines, "PASS: SYNOPSIS found.")
	assert.Contains(t, lines, "PASS: RELATED LINKS found.")

	for _, l := range lines {
		assert.Regexp(t, `^PASS: `, l)
	}
}

func TestValidateFailures(t *testing.T) {
	t.Parallel()

	report := helpmd.Validate(readFixture(t, "Get-Bar.v1.md"))
	require.NoError(t, report.Err)
	assert.False(t, report.Passed())

	lines := report.Lines()
	assert.Contains(t, lines, "PASS: external help file found.")
	assert.Contains(t, lines, "FAIL: Locale not found.")
	assert.Contains(t, lines, "FAIL: ms.date not found.")
	assert.Contains(t, lines, "PASS: NOTES found.")
	assert.NotContains(t, lines, "FAIL: ALIASES not found.", "older documents have no aliases section")

	report = helpmd.Validate([]byte("# Get-Foo\n"))
	require.ErrorIs(t, report.Err, helpmd.ErrNoMetadata)
	assert.False(t, report.Passed())
	assert.Contains(t, report.Lines(), "FAIL: "+helpmd.ErrNoMetadata.Error())
	assert.Contains(t, report.Lines(), "FAIL: SYNOPSIS not found.")
}
