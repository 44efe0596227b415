package convert

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"go.jacobcolvin.com/platyps/helpmd"
	"go.jacobcolvin.com/platyps/introspect"
	"go.jacobcolvin.com/platyps/merge"
)

// Color modes accepted by the color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Parameter layouts accepted by the layout flag.
const (
	LayoutAuto = "auto"
	LayoutV1   = "v1"
	LayoutV2   = "v2"
)

// Flags holds CLI flag names for conversion configuration, allowing
// callers to customize flag names while keeping sensible defaults.
type Flags struct {
	OutputDir string
	Commands  string
	Mode      string
	Layout    string
	Parallel  string
	Diff      string
	Force     string
	Color     string
}

// Config holds CLI flag values for conversion configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewRunner] to create a [Runner].
type Config struct {
	Flags     Flags
	OutputDir string
	Mode      string
	Layout    string
	Color     string
	Commands  []string
	Parallel  int
	Diff      bool
	Force     bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		OutputDir: "output-dir",
		Commands:  "commands",
		Mode:      "mode",
		Layout:    "layout",
		Parallel:  "parallel",
		Diff:      "diff",
		Force:     "force",
		Color:     "color",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds conversion flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.OutputDir, c.Flags.OutputDir, "o", "",
		"output directory (default: next to each input)")
	flags.StringSliceVarP(&c.Commands, c.Flags.Commands, "c", nil,
		"command dump files (JSON or YAML) used by update and new")
	flags.StringVar(&c.Mode, c.Flags.Mode, merge.ModeMerge.String(),
		"update mode: merge or update-in-place")
	flags.StringVar(&c.Layout, c.Flags.Layout, LayoutAuto,
		"parameter metadata layout to try first: auto, v1 or v2")
	flags.IntVarP(&c.Parallel, c.Flags.Parallel, "j", runtime.GOMAXPROCS(0),
		"number of files processed in parallel")
	flags.BoolVar(&c.Diff, c.Flags.Diff, false,
		"print a unified diff instead of writing updated files")
	flags.BoolVarP(&c.Force, c.Flags.Force, "f", false,
		"overwrite existing files")
	flags.StringVar(&c.Color, c.Flags.Color, ColorAuto,
		"colorize report output: auto, always or never")
}

// RegisterCompletions registers shell completions for conversion flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	fixed := map[string][]string{
		c.Flags.Mode:   {merge.ModeMerge.String(), merge.ModeUpdateInPlace.String()},
		c.Flags.Layout: {LayoutAuto, LayoutV1, LayoutV2},
		c.Flags.Color:  {ColorAuto, ColorAlways, ColorNever},
	}

	for _, flag := range []string{c.Flags.Mode, c.Flags.Layout, c.Flags.Color} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(fixed[flag], cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.OutputDir,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.OutputDir, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Commands,
		cobra.FixedCompletions([]string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Commands, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Parallel, noFileComp)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Parallel, err)
	}

	return nil
}

// NewRunner creates a [Runner] using this [Config]. Command dumps are
// loaded here, so a bad dump fails before any file is touched.
func (c *Config) NewRunner(opts ...Option) (*Runner, error) {
	mode, err := merge.ParseMode(c.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	if c.Parallel < 1 {
		return nil, fmt.Errorf("%w: %s must be at least 1, got %d", ErrInvalidOption, c.Flags.Parallel, c.Parallel)
	}

	runnerOpts := []Option{
		WithOutputDir(c.OutputDir),
		WithMergeMode(mode),
		WithParallelism(c.Parallel),
		WithDiffOnly(c.Diff),
		WithForce(c.Force),
	}

	switch c.Layout {
	case LayoutAuto, "":
	case LayoutV1:
		runnerOpts = append(runnerOpts, WithParseOptions(helpmd.WithPreferV2(false)))
	case LayoutV2:
		runnerOpts = append(runnerOpts, WithParseOptions(helpmd.WithPreferV2(true)))
	default:
		return nil, fmt.Errorf("%w: unknown %s %q", ErrInvalidOption, c.Flags.Layout, c.Layout)
	}

	if len(c.Commands) > 0 {
		src, loadErr := introspect.LoadFiles(c.Commands...)
		if loadErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, loadErr)
		}

		runnerOpts = append(runnerOpts, WithSource(src))
	}

	return NewRunner(append(runnerOpts, opts...)...), nil
}

// UseColor reports whether report output written to f should be colored.
func (c *Config) UseColor(f *os.File) (bool, error) {
	switch c.Color {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		return term.IsTerminal(int(f.Fd())), nil
	}

	return false, fmt.Errorf("%w: unknown %s %q", ErrInvalidOption, c.Flags.Color, c.Color)
}
