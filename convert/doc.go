// Package convert runs platyps operations over batches of help files.
//
// A [Runner] expands paths, directories and doublestar globs into input
// files, then processes them in parallel with a bounded worker count:
//
//   - [Runner.Import] writes a YAML sidecar per markdown file.
//   - [Runner.ExportMAML] writes MAML help files, one per external help file.
//   - [Runner.Test] validates required metadata and sections.
//   - [Runner.Update] merges markdown with introspected commands.
//   - [Runner.New] writes markdown for introspected commands.
//   - [Runner.Probe] identifies document type and schema version.
//
// Every operation returns one [Result] per input, in input order. A failed
// input records its error in its Result and the rest still run; use
// [Errors] to collect the failures. The returned error is reserved for
// problems that stop the whole batch, such as an unmatched glob.
//
// [Config] binds Runner options to CLI flags, and [Reporter] prints results
// for humans:
//
//	cfg := convert.NewConfig()
//	cfg.RegisterFlags(cmd.Flags())
//
//	runner, err := cfg.NewRunner()
//	if err != nil {
//	    return err
//	}
//
//	results, err := runner.Test(ctx, []string{"docs/**/*.md"})
//	if err != nil {
//	    return err
//	}
//
//	err = convert.NewReporter(os.Stdout, false).Test(results)
package convert
