package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"go.jacobcolvin.com/platyps/help"
)

// Reporter writes human-readable summaries of [Result] lists.
//
// Create instances with [NewReporter].
type Reporter struct {
	w io.Writer

	headerStyle *color.Color
	passStyle   *color.Color
	failStyle   *color.Color
	warnStyle   *color.Color
	infoStyle   *color.Color
	mutedStyle  *color.Color

	// MinSeverity is the lowest diagnostic severity written.
	MinSeverity help.Severity
}

// NewReporter creates a [Reporter] writing to w. Styles are applied only
// when useColor is set.
func NewReporter(w io.Writer, useColor bool) *Reporter {
	rp := &Reporter{
		w:           w,
		headerStyle: color.New(color.FgCyan, color.Bold),
		passStyle:   color.New(color.FgGreen),
		failStyle:   color.New(color.FgRed, color.Bold),
		warnStyle:   color.New(color.FgYellow),
		infoStyle:   color.New(color.FgCyan),
		mutedStyle:  color.New(color.FgHiBlack),
		MinSeverity: help.SeverityWarning,
	}

	for _, c := range []*color.Color{
		rp.headerStyle, rp.passStyle, rp.failStyle,
		rp.warnStyle, rp.infoStyle, rp.mutedStyle,
	} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return rp
}

func (rp *Reporter) flush(sb *strings.Builder) error {
	_, err := io.WriteString(rp.w, sb.String())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// Test writes the PASS and FAIL lines of each validation result.
func (rp *Reporter) Test(results []Result) error {
	var sb strings.Builder

	for _, res := range results {
		sb.WriteString(rp.headerStyle.Sprint(res.Input))
		sb.WriteString("\n")

		if res.Validation == nil {
			rp.writeError(&sb, res.Err)

			continue
		}

		for _, line := range res.Validation.Lines() {
			style := rp.passStyle
			if strings.HasPrefix(line, "FAIL") {
				style = rp.failStyle
			}

			sb.WriteString("  ")
			sb.WriteString(style.Sprint(line))
			sb.WriteString("\n")
		}
	}

	return rp.flush(&sb)
}

// Probe writes the document type and schema version of each file.
func (rp *Reporter) Probe(results []Result) error {
	var sb strings.Builder

	for _, res := range results {
		if res.Probe == nil {
			sb.WriteString(res.Input)
			sb.WriteString("\n")
			rp.writeError(&sb, res.Err)

			continue
		}

		schema := res.Probe.SchemaVersion
		if schema == "" {
			schema = "-"
		}

		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n",
			res.Input,
			rp.infoStyle.Sprint(res.Probe.Type.String()),
			schema,
			rp.mutedStyle.Sprint(res.Probe.Title),
		)

		rp.writeDiagnostics(&sb, res.Diagnostics)
	}

	return rp.flush(&sb)
}

// Files writes the outcome of each conversion: the output written, any
// diff, and diagnostics at or above MinSeverity.
func (rp *Reporter) Files(results []Result) error {
	var sb strings.Builder

	for _, res := range results {
		switch {
		case res.Err != nil:
			sb.WriteString(res.Input)
			sb.WriteString("\n")
			rp.writeError(&sb, res.Err)
		case res.Skipped:
			fmt.Fprintf(&sb, "%s %s\n", res.Input, rp.mutedStyle.Sprint("(skipped)"))
		case res.Diff != "":
			rp.writeDiff(&sb, res.Diff)
		case res.Changed:
			fmt.Fprintf(&sb, "%s -> %s\n", res.Input, rp.passStyle.Sprint(res.Output))
		default:
			fmt.Fprintf(&sb, "%s %s\n", res.Input, rp.mutedStyle.Sprint("(unchanged)"))
		}

		rp.writeDiagnostics(&sb, res.Diagnostics)
	}

	return rp.flush(&sb)
}

func (rp *Reporter) writeError(sb *strings.Builder, err error) {
	if err == nil {
		return
	}

	sb.WriteString("  ")
	sb.WriteString(rp.failStyle.Sprint("error: " + err.Error()))
	sb.WriteString("\n")
}

func (rp *Reporter) writeDiagnostics(sb *strings.Builder, diags []help.Diagnostic) {
	for _, d := range diags {
		if d.Severity < rp.MinSeverity {
			continue
		}

		style := rp.infoStyle

		switch d.Severity {
		case help.SeverityError:
			style = rp.failStyle
		case help.SeverityWarning:
			style = rp.warnStyle
		case help.SeverityInformation:
		}

		sb.WriteString("  ")
		sb.WriteString(style.Sprint(d.String()))
		sb.WriteString("\n")
	}
}

func (rp *Reporter) writeDiff(sb *strings.Builder, diff string) {
	for line := range strings.Lines(diff) {
		style := rp.mutedStyle

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			style = rp.headerStyle
		case strings.HasPrefix(line, "+"):
			style = rp.passStyle
		case strings.HasPrefix(line, "-"):
			style = rp.failStyle
		case strings.HasPrefix(line, "@@"):
			style = rp.infoStyle
		}

		sb.WriteString(style.Sprint(strings.TrimSuffix(line, "\n")))
		sb.WriteString("\n")
	}
}
