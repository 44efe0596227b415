package merge

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/helpmd"
)

var (
	// ErrNoCommand is returned when there is no introspected command to
	// merge with.
	ErrNoCommand = errors.New("command not found")
	// ErrUnknownMode indicates an unrecognized [Mode] name.
	ErrUnknownMode = errors.New("unknown merge mode")
)

// Mode selects how [Merge] reconciles a document with a command.
type Mode int

const (
	// ModeMerge reconciles syntax, parameters, inputs and outputs.
	ModeMerge Mode = iota
	// ModeUpdateInPlace keeps the markdown document as-is once the command
	// is confirmed to exist.
	ModeUpdateInPlace
)

func (m Mode) String() string {
	switch m {
	case ModeMerge:
		return "merge"
	case ModeUpdateInPlace:
		return "update-in-place"
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the [Mode] named s.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeMerge, ModeUpdateInPlace} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}

	return ModeMerge, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Option configures [Merge].
type Option func(*merger)

// WithMode sets the merge [Mode]. The default is [ModeMerge].
func WithMode(m Mode) Option {
	return func(mg *merger) {
		mg.mode = m
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(mg *merger) {
		mg.logger = l
	}
}

type merger struct {
	logger *slog.Logger
	mode   Mode
}

// Merge reconciles help parsed from markdown with help built from the
// introspected command. The result is a new document: scalar fields and
// examples come from markdown, structure comes from the command, and every
// decision is recorded as an Information diagnostic with [help.SourceMerge].
//
// Neither input is modified.
func Merge(markdown, command *help.CommandHelp, opts ...Option) (*help.CommandHelp, error) {
	mg := &merger{logger: slog.Default()}
	for _, opt := range opts {
		opt(mg)
	}

	if command == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoCommand, markdown.Title)
	}

	out := markdown.Clone()

	if mg.mode == ModeUpdateInPlace {
		mg.logger.Debug("command found, keeping document",
			slog.String("command", markdown.Title),
		)

		return out, nil
	}

	diags := out.Diagnostics

	out.Syntax = MergeSyntax(markdown.Syntax, command.Syntax, diags)
	out.Parameters = MergeParameters(markdown.Parameters, command.Parameters, diags)
	out.Inputs = MergeInputOutputs(markdown.Inputs, command.Inputs, help.SourceInputs, diags)
	out.Outputs = MergeInputOutputs(markdown.Outputs, command.Outputs, help.SourceOutputs, diags)
	out.SortParameters()

	mg.logger.Debug("merged command help",
		slog.String("command", markdown.Title),
		slog.Int("syntax", len(out.Syntax)),
		slog.Int("parameters", len(out.Parameters)),
		slog.Int("diagnostics", diags.Len()),
	)

	return out, nil
}

func note(diags *help.Diagnostics, context, format string, args ...any) {
	diags.Add(help.SourceMerge, fmt.Sprintf(format, args...), help.SeverityInformation, context, help.NoLine)
}

// MergeSyntax reconciles syntax items. Markdown sets keep their order: a
// set the command lacks is kept, an equal set is kept, and a different set
// is replaced by the command's version. Sets only the command has are
// appended.
func MergeSyntax(markdown, command []help.SyntaxItem, diags *help.Diagnostics) []help.SyntaxItem {
	if slices.EqualFunc(markdown, command, help.SyntaxItem.Equal) {
		note(diags, "Syntax", "Syntax are the same.")

		return slices.Clone(markdown)
	}

	out := make([]help.SyntaxItem, 0, max(len(markdown), len(command)))

	for _, md := range markdown {
		cmd, ok := findSyntax(command, md.ParameterSetName)

		switch {
		case !ok:
			note(diags, md.ParameterSetName, "Syntax %s not found in command, keeping.", md.ParameterSetName)
			out = append(out, md)
		case md.Equal(cmd):
			note(diags, md.ParameterSetName, "Syntax %s is the same, keeping.", md.ParameterSetName)
			out = append(out, md)
		default:
			note(diags, md.ParameterSetName, "Syntax %s is different, updating.", md.ParameterSetName)
			out = append(out, cmd)
		}
	}

	for _, cmd := range command {
		if _, ok := findSyntax(markdown, cmd.ParameterSetName); ok {
			continue
		}

		note(diags, cmd.ParameterSetName, "Adding missing syntax %s.", cmd.ParameterSetName)
		out = append(out, cmd)
	}

	return out
}

func findSyntax(items []help.SyntaxItem, name string) (help.SyntaxItem, bool) {
	for _, s := range items {
		if strings.EqualFold(s.ParameterSetName, name) {
			return s, true
		}
	}

	return help.SyntaxItem{}, false
}

// MergeParameters reconciles parameters. Command parameters missing from
// markdown are added, with a placeholder description when they have none.
// Equal parameters keep the markdown version. Different parameters take
// the command's structure and the markdown description. Markdown-only
// parameters are kept. The result is sorted by name.
func MergeParameters(markdown, command []help.Parameter, diags *help.Diagnostics) []help.Parameter {
	if slices.EqualFunc(markdown, command, help.Parameter.Equal) {
		note(diags, "Parameters", "Parameters are the same.")

		return slices.Clone(markdown)
	}

	out := make([]help.Parameter, 0, max(len(markdown), len(command)))

	for _, cmd := range command {
		md, ok := findParameter(markdown, cmd.Name)

		switch {
		case !ok:
			if strings.TrimSpace(cmd.Description) == "" {
				cmd.Description = helpmd.ParameterDescriptionPlaceholder(cmd.Name)
			}

			note(diags, cmd.Name, "Parameter %s not found in help, adding.", cmd.Name)
			out = append(out, cmd)
		case md.Equal(cmd):
			note(diags, cmd.Name, "Parameter %s no change.", cmd.Name)
			out = append(out, md)
		default:
			note(diags, cmd.Name, "Parameter %s is different, updating.", cmd.Name)

			cmd.Description = md.Description
			out = append(out, cmd)
		}
	}

	for _, md := range markdown {
		if _, ok := findParameter(command, md.Name); ok {
			continue
		}

		note(diags, md.Name, "Parameter %s not found in command; adding, found in help.", md.Name)
		out = append(out, md)
	}

	slices.SortStableFunc(out, func(a, b help.Parameter) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out
}

func findParameter(params []help.Parameter, name string) (help.Parameter, bool) {
	for _, p := range params {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}

	return help.Parameter{}, false
}

// MergeInputOutputs reconciles input or output types. When both lists name
// the same types (case-insensitively) the command's list is used, keeping
// markdown descriptions the command lacks. Otherwise the markdown list is
// kept and the command's extra types are appended.
func MergeInputOutputs(markdown, command []help.InputOutput, src help.Source, diags *help.Diagnostics) []help.InputOutput {
	field := src.String()

	if slices.Equal(markdown, command) {
		diags.Add(help.SourceMerge, field+" are the same.", help.SeverityInformation, field, help.NoLine)

		return slices.Clone(markdown)
	}

	if sameTypes(markdown, command) {
		out := slices.Clone(command)

		for i := range out {
			if out[i].Description != "" {
				continue
			}

			if md, ok := findType(markdown, out[i].Typename); ok {
				out[i].Description = md.Description
			}
		}

		note(diags, field, "%s have the same types, updating.", field)

		return out
	}

	out := slices.Clone(markdown)

	for _, cmd := range command {
		if _, ok := findType(markdown, cmd.Typename); ok {
			continue
		}

		note(diags, cmd.Typename, "%s type %s not found in help, adding.", field, cmd.Typename)
		out = append(out, cmd)
	}

	return out
}

func sameTypes(a, b []help.InputOutput) bool {
	if len(a) != len(b) {
		return false
	}

	for _, x := range a {
		if _, ok := findType(b, x.Typename); !ok {
			return false
		}
	}

	for _, x := range b {
		if _, ok := findType(a, x.Typename); !ok {
			return false
		}
	}

	return true
}

func findType(items []help.InputOutput, name string) (help.InputOutput, bool) {
	for _, io := range items {
		if strings.EqualFold(io.Typename, name) {
			return io, true
		}
	}

	return help.InputOutput{}, false
}
