// Package log builds [log/slog] handlers from CLI flags.
//
// Levels are [LevelError], [LevelWarn] (the default), [LevelInfo] and
// [LevelDebug]. Formats are [FormatJSON], [FormatLogfmt] and [FormatText];
// the text format is rendered by [charm.land/log/v2].
//
// A [Config] binds both to persistent flags on a cobra root command:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	logger, err := cfg.NewLogger(os.Stderr)
//	if err != nil {
//	    return err
//	}
//
//	slog.SetDefault(logger)
package log
