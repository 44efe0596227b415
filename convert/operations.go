package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/helpmd"
	"go.jacobcolvin.com/platyps/introspect"
	"go.jacobcolvin.com/platyps/maml"
	"go.jacobcolvin.com/platyps/merge"
	"go.jacobcolvin.com/platyps/yamlhelp"
)

// Output file extensions.
const (
	ExtMarkdown = ".md"
	ExtYAML     = ".yml"
)

var errNoSource = fmt.Errorf("%w: no command dumps loaded", ErrInvalidOption)

func newResults(inputs []string) []Result {
	results := make([]Result, len(inputs))
	for i, in := range inputs {
		results[i].Input = in
	}

	return results
}

// readCommand reads and parses one command help file.
func (r *Runner) readCommand(path string) (*help.CommandHelp, bool, error) {
	src, err := readFile(path)
	if err != nil {
		return nil, false, err
	}

	return r.parseCommand(path, src)
}

// parseCommand parses one command help file. Documents that are not
// command help, such as module pages, are reported with skip set.
func (r *Runner) parseCommand(path string, src []byte) (ch *help.CommandHelp, skip bool, err error) {
	if info := helpmd.Probe(src); info.Type == helpmd.DocumentModule || info.Type == helpmd.DocumentAbout {
		r.logger.Debug("skipping document",
			slog.String("path", path),
			slog.String("type", info.Type.String()),
		)

		return nil, true, nil
	}

	ch, err = helpmd.ParseWithOptions(src, r.parseOpts...)
	if err != nil {
		return nil, false, err
	}

	r.logger.Debug("parsed command help",
		slog.String("path", path),
		slog.String("command", ch.Title),
		slog.Int("diagnostics", ch.Diagnostics.Len()),
	)

	return ch, false, nil
}

// Import converts markdown command help to YAML sidecar files.
func (r *Runner) Import(ctx context.Context, patterns []string) ([]Result, error) {
	inputs, err := ExpandInputs(patterns)
	if err != nil {
		return nil, err
	}

	results := newResults(inputs)

	err = r.each(ctx, len(inputs), func(_ context.Context, i int) {
		res := &results[i]

		ch, skip, err := r.readCommand(res.Input)
		if err != nil || skip {
			res.Err, res.Skipped = err, skip

			return
		}

		res.Diagnostics = ch.Diagnostics.Items()

		out, err := yamlhelp.Marshal(ch)
		if err != nil {
			res.Err = err

			return
		}

		res.Output = r.outputPath(res.Input, ExtYAML)
		res.Err = writeFile(res.Output, out)
		res.Changed = res.Err == nil
	})

	return results, err
}

// ExportMAML converts markdown command help to MAML. Commands are grouped
// into one file per external help file name, falling back to
// "<module>-help.xml". Each file is written next to the first input that
// contributes to it, or into the output directory.
func (r *Runner) ExportMAML(ctx context.Context, patterns []string) ([]Result, error) {
	inputs, err := ExpandInputs(patterns)
	if err != nil {
		return nil, err
	}

	results := newResults(inputs)
	parsed := make([]*help.CommandHelp, len(inputs))

	err = r.each(ctx, len(inputs), func(_ context.Context, i int) {
		res := &results[i]

		ch, skip, err := r.readCommand(res.Input)
		if err != nil || skip {
			res.Err, res.Skipped = err, skip

			return
		}

		res.Diagnostics = ch.Diagnostics.Items()
		parsed[i] = ch
	})
	if err != nil {
		return results, err
	}

	type group struct {
		path    string
		members []int
	}

	var groups []*group

	byName := map[string]*group{}

	for i, ch := range parsed {
		if ch == nil {
			continue
		}

		name := mamlFileName(ch, inputs[i])

		g, ok := byName[strings.ToLower(name)]
		if !ok {
			g = &group{path: filepath.Join(filepath.Dir(inputs[i]), name)}
			if r.outputDir != "" {
				g.path = r.outputFile(name)
			}

			byName[strings.ToLower(name)] = g
			groups = append(groups, g)
		}

		g.members = append(g.members, i)
	}

	for _, g := range groups {
		cmds := make([]*help.CommandHelp, 0, len(g.members))
		for _, i := range g.members {
			cmds = append(cmds, parsed[i])
		}

		out, marshalErr := maml.Marshal(cmds...)
		if marshalErr == nil {
			marshalErr = writeFile(g.path, out)
		}

		r.logger.Debug("wrote maml",
			slog.String("path", g.path),
			slog.Int("commands", len(cmds)),
		)

		for _, i := range g.members {
			results[i].Output = g.path
			results[i].Err = marshalErr
			results[i].Changed = marshalErr == nil
		}
	}

	return results, nil
}

func mamlFileName(ch *help.CommandHelp, input string) string {
	switch {
	case ch.ExternalHelpFile != "":
		return ch.ExternalHelpFile
	case ch.ModuleName != "":
		return ch.ModuleName + "-help.xml"
	}

	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "-help.xml"
}

// Test validates markdown command help. A result fails with
// [ErrValidation] when any check fails.
func (r *Runner) Test(ctx context.Context, patterns []string) ([]Result, error) {
	inputs, err := ExpandInputs(patterns)
	if err != nil {
		return nil, err
	}

	results := newResults(inputs)

	err = r.each(ctx, len(inputs), func(_ context.Context, i int) {
		res := &results[i]

		src, err := readFile(res.Input)
		if err != nil {
			res.Err = err

			return
		}

		report := helpmd.Validate(src, r.parseOpts...)
		res.Validation = report
		res.Diagnostics = report.Diagnostics

		if !report.Passed() {
			res.Err = ErrValidation
		}
	})

	return results, err
}

// Update merges markdown command help with the introspected commands and
// rewrites each file that changed. With [WithDiffOnly], files are left
// untouched and the change is reported as a unified diff.
func (r *Runner) Update(ctx context.Context, patterns []string) ([]Result, error) {
	if r.source == nil {
		return nil, errNoSource
	}

	inputs, err := ExpandInputs(patterns)
	if err != nil {
		return nil, err
	}

	results := newResults(inputs)

	err = r.each(ctx, len(inputs), func(_ context.Context, i int) {
		res := &results[i]
		res.Err = r.update(res)
	})

	return results, err
}

func (r *Runner) update(res *Result) error {
	src, err := readFile(res.Input)
	if err != nil {
		return err
	}

	ch, skip, err := r.parseCommand(res.Input, src)
	if err != nil || skip {
		res.Skipped = skip

		return err
	}

	cmd, err := r.source.Lookup(ch.Title)
	if err != nil {
		return err
	}

	merged, err := merge.Merge(ch, introspect.ToCommandHelp(cmd),
		merge.WithMode(r.mode),
		merge.WithLogger(r.logger),
	)
	if err != nil {
		return err
	}

	res.Diagnostics = merged.Diagnostics.Items()

	out := helpmd.Render(merged)
	res.Changed = out != string(src)
	res.Output = r.outputPath(res.Input, ExtMarkdown)

	if r.diffOnly {
		res.Diff, err = unifiedDiff(res.Input, string(src), out)

		return err
	}

	// Unchanged files are not rewritten.
	if !res.Changed && res.Output == filepath.Clean(res.Input) {
		return nil
	}

	return writeFile(res.Output, []byte(out))
}

func unifiedDiff(path, a, b string) (string, error) {
	if a == b {
		return "", nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: path,
		ToFile:   path,
		FromDate: "original",
		ToDate:   "modified",
		Context:  3,
	}

	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}

	return out, nil
}

// New writes markdown command help for the named commands, or for every
// loaded command when names is empty. Existing files are only replaced
// with [WithForce].
func (r *Runner) New(ctx context.Context, names []string) ([]Result, error) {
	if r.source == nil {
		return nil, errNoSource
	}

	if len(names) == 0 {
		for _, c := range r.source.Commands() {
			names = append(names, c.Name)
		}
	}

	results := newResults(names)

	err := r.each(ctx, len(names), func(_ context.Context, i int) {
		res := &results[i]
		res.Err = r.newHelp(res)
	})

	return results, err
}

func (r *Runner) newHelp(res *Result) error {
	cmd, err := r.source.Lookup(res.Input)
	if err != nil {
		return err
	}

	ch := introspect.ToCommandHelp(cmd)
	res.Output = r.outputFile(cmd.Name + ExtMarkdown)

	if !r.force {
		_, statErr := os.Stat(res.Output)
		if statErr == nil {
			return fmt.Errorf("%w: %s exists", ErrWriteOutput, res.Output)
		}

		if !errors.Is(statErr, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrWriteOutput, statErr)
		}
	}

	err = writeFile(res.Output, []byte(helpmd.Render(ch)))
	if err != nil {
		return err
	}

	res.Changed = true
	res.Diagnostics = ch.Diagnostics.Items()

	r.logger.Debug("created command help",
		slog.String("command", cmd.Name),
		slog.String("path", res.Output),
	)

	return nil
}

// Probe identifies the document type and schema version of each file.
func (r *Runner) Probe(ctx context.Context, patterns []string) ([]Result, error) {
	inputs, err := ExpandInputs(patterns)
	if err != nil {
		return nil, err
	}

	results := newResults(inputs)

	err = r.each(ctx, len(inputs), func(_ context.Context, i int) {
		res := &results[i]

		src, err := readFile(res.Input)
		if err != nil {
			res.Err = err

			return
		}

		info := helpmd.Probe(src)
		res.Probe = &info
		res.Diagnostics = info.Diagnostics
	})

	return results, err
}
