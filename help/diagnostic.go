package help

import (
	"fmt"
	"slices"
	"strings"
)

// Source identifies the document area a [Diagnostic] refers to.
type Source int

// Diagnostic sources.
const (
	SourceGeneral Source = iota
	SourceMetadata
	SourceSynopsis
	SourceSyntax
	SourceDescription
	SourceExample
	SourceParameter
	SourceAlias
	SourceInputs
	SourceOutputs
	SourceNotes
	SourceLinks
	SourceMerge
	SourceIdentify
	SourceModuleFileTitle
	SourceModuleFileDescription
	SourceModuleFileCommand
)

var sourceNames = map[Source]string{
	SourceGeneral:               "General",
	SourceMetadata:              "Metadata",
	SourceSynopsis:              "Synopsis",
	SourceSyntax:                "Syntax",
	SourceDescription:           "Description",
	SourceExample:               "Example",
	SourceParameter:             "Parameter",
	SourceAlias:                 "Alias",
	SourceInputs:                "Inputs",
	SourceOutputs:               "Outputs",
	SourceNotes:                 "Notes",
	SourceLinks:                 "Links",
	SourceMerge:                 "Merge",
	SourceIdentify:              "Identify",
	SourceModuleFileTitle:       "ModuleFileTitle",
	SourceModuleFileDescription: "ModuleFileDescription",
	SourceModuleFileCommand:     "ModuleFileCommand",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}

	return fmt.Sprintf("Source(%d)", int(s))
}

// Severity is the importance of a [Diagnostic].
type Severity int

// Severities, in increasing order.
const (
	SeverityInformation Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInformation:
		return "Information"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	}

	return fmt.Sprintf("Severity(%d)", int(s))
}

// NoLine is the [Diagnostic.Line] value when the source line is unknown.
const NoLine = -1

// Diagnostic is a structured record of a parse or merge decision or defect.
type Diagnostic struct {
	Context  string
	Message  string
	Source   Source
	Severity Severity
	Line     int // 1-based, or [NoLine]
}

// NewDiagnostic returns a [Diagnostic].
func NewDiagnostic(src Source, msg string, sev Severity, context string, line int) Diagnostic {
	return Diagnostic{
		Source:   src,
		Message:  msg,
		Severity: sev,
		Context:  context,
		Line:     line,
	}
}

func (d Diagnostic) String() string {
	var sb strings.Builder

	sb.WriteString(d.Severity.String())
	sb.WriteString(" [")
	sb.WriteString(d.Source.String())
	sb.WriteString("]")

	if d.Line != NoLine {
		fmt.Fprintf(&sb, " line %d", d.Line)
	}

	sb.WriteString(": ")
	sb.WriteString(d.Message)

	if d.Context != "" {
		sb.WriteString(" (")
		sb.WriteString(d.Context)
		sb.WriteString(")")
	}

	return sb.String()
}

// Diagnostics is an ordered, append-only list of [Diagnostic] values that
// rejects exact duplicates. The zero value is ready to use.
type Diagnostics struct {
	items []Diagnostic
}

// TryAdd appends d unless an identical diagnostic is already present.
// It reports whether d was added.
func (ds *Diagnostics) TryAdd(d Diagnostic) bool {
	if slices.Contains(ds.items, d) {
		return false
	}

	ds.items = append(ds.items, d)

	return true
}

// Add is shorthand for building a [Diagnostic] and passing it to TryAdd.
func (ds *Diagnostics) Add(src Source, msg string, sev Severity, context string, line int) {
	ds.TryAdd(NewDiagnostic(src, msg, sev, context, line))
}

// AddAll appends every diagnostic in other, in order.
func (ds *Diagnostics) AddAll(other []Diagnostic) {
	for _, d := range other {
		ds.TryAdd(d)
	}
}

// Items returns a copy of the diagnostics in insertion order.
func (ds *Diagnostics) Items() []Diagnostic {
	if ds == nil {
		return nil
	}

	return slices.Clone(ds.items)
}

// Len returns the number of diagnostics.
func (ds *Diagnostics) Len() int {
	if ds == nil {
		return 0
	}

	return len(ds.items)
}

// Filter returns the diagnostics with exactly the given severity.
func (ds *Diagnostics) Filter(sev Severity) []Diagnostic {
	if ds == nil {
		return nil
	}

	var out []Diagnostic

	for _, d := range ds.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}

	return out
}

// BySource returns the diagnostics recorded for src.
func (ds *Diagnostics) BySource(src Source) []Diagnostic {
	if ds == nil {
		return nil
	}

	var out []Diagnostic

	for _, d := range ds.items {
		if d.Source == src {
			out = append(out, d)
		}
	}

	return out
}

// HasErrors reports whether any diagnostic has [SeverityError].
func (ds *Diagnostics) HasErrors() bool {
	if ds == nil {
		return false
	}

	return slices.ContainsFunc(ds.items, func(d Diagnostic) bool {
		return d.Severity == SeverityError
	})
}
