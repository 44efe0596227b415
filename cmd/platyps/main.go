// Package main provides the CLI entry point for platyps, a tool that
// converts PowerShell command help between markdown, YAML and MAML, and
// keeps markdown help in sync with the commands it documents.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/platyps/convert"
	"go.jacobcolvin.com/platyps/log"
	"go.jacobcolvin.com/platyps/version"
	"go.jacobcolvin.com/platyps/yamlhelp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	logCfg := log.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "platyps",
		Short: "Convert and maintain PowerShell command help",
		Long: `platyps reads PowerShell command help written in markdown, converts it to
YAML or MAML, validates it, and merges it with introspected command
metadata so the documented syntax and parameters match the command.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logCfg.NewLogger(os.Stderr)
			if err != nil {
				return err
			}

			slog.SetDefault(logger)

			return nil
		},
	}

	logCfg.RegisterFlags(rootCmd.PersistentFlags())

	completionErr := logCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	rootCmd.AddCommand(
		newConvertCmd(convertCmd{
			use:     "import [flags] <path|glob> ...",
			short:   "Convert markdown command help to YAML",
			aliases: []string{"export-yaml"},
			op:      (*convert.Runner).Import,
		}),
		newConvertCmd(convertCmd{
			use:   "export-maml [flags] <path|glob> ...",
			short: "Convert markdown command help to MAML help files",
			op:    (*convert.Runner).ExportMAML,
		}),
		newConvertCmd(convertCmd{
			use:    "test [flags] <path|glob> ...",
			short:  "Check markdown command help for required metadata and sections",
			op:     (*convert.Runner).Test,
			report: (*convert.Reporter).Test,
		}),
		newConvertCmd(convertCmd{
			use:   "update [flags] <path|glob> ...",
			short: "Merge markdown command help with introspected commands",
			op:    (*convert.Runner).Update,
		}),
		newConvertCmd(convertCmd{
			use:     "new [flags] [command ...]",
			short:   "Write markdown command help for introspected commands",
			op:      (*convert.Runner).New,
			anyArgs: true,
		}),
		newConvertCmd(convertCmd{
			use:    "probe [flags] <path|glob> ...",
			short:  "Identify the document type and schema version of help files",
			op:     (*convert.Runner).Probe,
			report: (*convert.Reporter).Probe,
		}),
		newSchemaCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// convertCmd describes a subcommand backed by a [convert.Runner] operation.
type convertCmd struct {
	op      func(*convert.Runner, context.Context, []string) ([]convert.Result, error)
	report  func(*convert.Reporter, []convert.Result) error
	use     string
	short   string
	aliases []string
	anyArgs bool
}

func newConvertCmd(cc convertCmd) *cobra.Command {
	cfg := convert.NewConfig()

	if cc.report == nil {
		cc.report = (*convert.Reporter).Files
	}

	args := cobra.MinimumNArgs(1)
	if cc.anyArgs {
		args = cobra.ArbitraryArgs
	}

	cmd := &cobra.Command{
		Use:     cc.use,
		Short:   cc.short,
		Aliases: cc.aliases,
		Args:    args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cfg, cc, args)
		},
	}

	cfg.RegisterFlags(cmd.Flags())

	completionErr := cfg.RegisterCompletions(cmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	return cmd
}

func runConvert(ctx context.Context, cfg *convert.Config, cc convertCmd, args []string) error {
	useColor, err := cfg.UseColor(os.Stdout)
	if err != nil {
		return err
	}

	runner, err := cfg.NewRunner(convert.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	results, err := cc.op(runner, ctx, args)
	if err != nil {
		return err
	}

	err = cc.report(convert.NewReporter(os.Stdout, useColor), results)
	if err != nil {
		return err
	}

	return convert.Errors(results)
}

func newSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema [flags]",
		Short: "Print the JSON Schema of the YAML help format",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSchema(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file path (- for stdout)")

	return cmd
}

func runSchema(output string) error {
	schema, err := yamlhelp.Schema()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", convert.ErrWriteOutput, err)
	}

	out = append(out, '\n')

	if output == "" || output == "-" {
		_, err = os.Stdout.Write(out)
		if err != nil {
			return fmt.Errorf("%w: %w", convert.ErrWriteOutput, err)
		}

		return nil
	}

	err = os.WriteFile(output, out, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", convert.ErrWriteOutput, err)
	}

	return nil
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()

			if !asJSON {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())

				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(info)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print build information as JSON")

	return cmd
}
