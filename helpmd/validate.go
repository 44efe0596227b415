package helpmd

import (
	"fmt"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/markdown"
)

// Check is one presence check performed by [Validate].
type Check struct {
	Name  string
	Found bool
}

// String renders the check as a PASS or FAIL line.
func (c Check) String() string {
	if c.Found {
		return fmt.Sprintf("PASS: %s found.", c.Name)
	}

	return fmt.Sprintf("FAIL: %s not found.", c.Name)
}

// ValidationReport is the result of [Validate].
type ValidationReport struct {
	// Err is set when the document could not be parsed at all.
	Err         error
	Help        *help.CommandHelp
	Checks      []Check
	Diagnostics []help.Diagnostic
}

// Passed reports whether every check passed and no errors were found.
func (r *ValidationReport) Passed() bool {
	if r.Err != nil {
		return false
	}

	for _, c := range r.Checks {
		if !c.Found {
			return false
		}
	}

	for _, d := range r.Diagnostics {
		if d.Severity == help.SeverityError {
			return false
		}
	}

	return true
}

// Lines renders the report: one PASS or FAIL line per check, then a FAIL
// line per Error diagnostic not already covered by a check.
func (r *ValidationReport) Lines() []string {
	var out []string

	for _, c := range r.Checks {
		out = append(out, c.String())
	}

	if r.Err != nil {
		out = append(out, "FAIL: "+r.Err.Error())
	}

	for _, d := range r.Diagnostics {
		if d.Severity != help.SeverityError || d.Source == help.SourceMetadata || d.Line == help.NoLine {
			continue
		}

		out = append(out, "FAIL: "+d.String())
	}

	return out
}

// Validate checks a command help document: each of [RequiredMetadataKeys]
// and each section heading must be present, and the document must parse.
func Validate(src []byte, opts ...Option) *ValidationReport {
	report := &ValidationReport{}

	doc := markdown.NewDocument(src)

	md, next, err := ExtractMetadata(doc)
	if err != nil {
		md = help.NewMetadata()
		next = 0
	}

	for _, d := range ValidateMetadata(md) {
		report.Checks = append(report.Checks, Check{Name: d.Context, Found: d.Severity != help.SeverityError})
	}

	cur := doc.Cursor()
	cur.Seek(next)

	for _, title := range Sections {
		found := cur.FindHeader(2, title) >= 0
		if !found && title == sectionAliases {
			// Older documents have no ALIASES section.
			continue
		}

		report.Checks = append(report.Checks, Check{Name: title, Found: found})
	}

	report.Help, report.Err = ParseWithOptions(src, opts...)
	if report.Help != nil {
		report.Diagnostics = report.Help.Diagnostics.Items()
	}

	return report
}
