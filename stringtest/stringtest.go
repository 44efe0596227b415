// Package stringtest provides helpers for building multi-line test fixtures.
package stringtest

import (
	"strings"
)

// Input dedents a raw string literal so fixtures can be indented along with
// the surrounding test code. One leading and one trailing newline are
// removed, the longest common leading whitespace of the non-blank lines is
// stripped, and whitespace-only lines become empty.
//
// Example:
//
//	in := stringtest.Input(`
//		# Get-Foo
//
//		## SYNOPSIS
//	`) // -> "# Get-Foo\n\n## SYNOPSIS"
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")

	lines := strings.Split(s, "\n")

	prefix := ""
	first := true

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false

			continue
		}

		prefix = commonPrefix(prefix, indent)
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.TrimSuffix(strings.Join(lines, "\n"), "\n")
}

// Markdown is [Input] for markdown fixtures: after dedenting, every "'''"
// is replaced with a backtick fence, which raw string literals cannot hold.
//
// Example:
//
//	in := stringtest.Markdown(`
//		'''yaml
//		Type: String
//		'''
//	`) // -> "```yaml\nType: String\n```"
func Markdown(s string) string {
	return strings.ReplaceAll(Input(s), "'''", "```")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return a[:i]
		}
	}

	return a[:n]
}

// JoinLF joins lines with "\n", for expected output that reads better one
// line per argument than as a raw string literal.
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}
