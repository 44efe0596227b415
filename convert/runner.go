package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/platyps/help"
	"go.jacobcolvin.com/platyps/helpmd"
	"go.jacobcolvin.com/platyps/introspect"
	"go.jacobcolvin.com/platyps/merge"
)

// Result is the outcome of one unit of work: one input file, or one
// command for [Runner.New].
type Result struct {
	// Err is set when this input failed. Other inputs are unaffected.
	Err error

	// Validation is set by [Runner.Test].
	Validation *helpmd.ValidationReport
	// Probe is set by [Runner.Probe].
	Probe *helpmd.ProbeInfo

	Input  string
	Output string
	// Diff is a unified diff of the change made by [Runner.Update].
	Diff        string
	Diagnostics []help.Diagnostic
	Changed     bool
	// Skipped is set for inputs that are not command help.
	Skipped bool
}

// Errors joins the errors of every failed result, or returns nil.
func Errors(results []Result) error {
	var errs []error

	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Input, r.Err))
		}
	}

	return errors.Join(errs...)
}

// Runner converts batches of help files. Files are processed in parallel,
// each with its own parser state, and results are returned in input order.
// A failure in one file is recorded in its [Result] and does not stop the
// others.
//
// Create instances with [NewRunner].
type Runner struct {
	logger      *slog.Logger
	source      *introspect.Source
	outputDir   string
	parseOpts   []helpmd.Option
	mode        merge.Mode
	parallelism int
	diffOnly    bool
	force       bool
}

// Option configures a [Runner].
type Option func(*Runner)

// WithOutputDir writes output files into dir. By default output is written
// next to each input.
func WithOutputDir(dir string) Option {
	return func(r *Runner) {
		r.outputDir = dir
	}
}

// WithParallelism bounds the number of files processed at once.
func WithParallelism(n int) Option {
	return func(r *Runner) {
		r.parallelism = n
	}
}

// WithSource sets the introspected commands used by [Runner.Update] and
// [Runner.New].
func WithSource(s *introspect.Source) Option {
	return func(r *Runner) {
		r.source = s
	}
}

// WithMergeMode sets the [merge.Mode] used by [Runner.Update].
func WithMergeMode(m merge.Mode) Option {
	return func(r *Runner) {
		r.mode = m
	}
}

// WithDiffOnly makes [Runner.Update] report diffs without writing files.
func WithDiffOnly(diffOnly bool) Option {
	return func(r *Runner) {
		r.diffOnly = diffOnly
	}
}

// WithForce allows [Runner.New] to overwrite existing files.
func WithForce(force bool) Option {
	return func(r *Runner) {
		r.force = force
	}
}

// WithParseOptions sets the options passed to [helpmd.ParseWithOptions].
func WithParseOptions(opts ...helpmd.Option) Option {
	return func(r *Runner) {
		r.parseOpts = opts
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a new [Runner].
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:      slog.Default(),
		parallelism: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.parallelism < 1 {
		r.parallelism = 1
	}

	return r
}

// each runs fn for every index in [0, n) with bounded parallelism. fn
// records its own failures; each only returns an error when ctx ends.
func (r *Runner) each(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			fn(ctx, i)

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	return nil
}

// ExpandInputs resolves patterns to markdown files. A pattern is a file, a
// directory (searched recursively for *.md), or a doublestar glob such as
// "docs/**/*.md". Duplicates are removed and order is preserved.
func ExpandInputs(patterns []string) ([]string, error) {
	var out []string

	seen := map[string]bool{}
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, pattern := range patterns {
		info, err := os.Stat(pattern)

		switch {
		case err == nil && info.IsDir():
			matches, globErr := doublestar.FilepathGlob(filepath.Join(pattern, "**", "*.md"))
			if globErr != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, pattern, globErr)
			}

			slices.Sort(matches)

			for _, m := range matches {
				add(m)
			}

		case err == nil:
			add(pattern)

		case hasMeta(pattern):
			matches, globErr := doublestar.FilepathGlob(pattern)
			if globErr != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, pattern, globErr)
			}

			if len(matches) == 0 {
				return nil, fmt.Errorf("%w: no files match %s", ErrReadInput, pattern)
			}

			for _, m := range matches {
				add(m)
			}

		default:
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no input files", ErrReadInput)
	}

	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// outputPath returns where output derived from input is written, with the
// extension replaced by ext.
func (r *Runner) outputPath(input, ext string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext
	if r.outputDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}

	return filepath.Join(r.outputDir, base)
}

func (r *Runner) outputFile(name string) string {
	if r.outputDir == "" {
		return name
	}

	return filepath.Join(r.outputDir, name)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	return data, nil
}

func writeFile(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}
