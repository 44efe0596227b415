package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/platyps/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err   error
		input string
		want  log.Level
	}{
		"error":            {input: "error", want: log.LevelError},
		"warn":             {input: "warn", want: log.LevelWarn},
		"warning alias":    {input: "warning", want: log.LevelWarn},
		"debug":            {input: "debug", want: log.LevelDebug},
		"case insensitive": {input: "Info", want: log.LevelInfo},
		"unknown":          {input: "verbose", err: log.ErrUnknownLogLevel},
		"empty":            {input: "", err: log.ErrUnknownLogLevel},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err   error
		input string
		want  log.Format
	}{
		"json":             {input: "json", want: log.FormatJSON},
		"logfmt":           {input: "logfmt", want: log.FormatLogfmt},
		"case insensitive": {input: "TEXT", want: log.FormatText},
		"unknown":          {input: "xml", err: log.ErrUnknownLogFormat},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseFormat(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		check  func(t *testing.T, out []byte)
		format log.Format
	}{
		"json": {
			format: log.FormatJSON,
			check: func(t *testing.T, out []byte) {
				t.Helper()

				var entry map[string]any

				require.NoError(t, json.Unmarshal(out, &entry))
				assert.Equal(t, "parsed command help", entry["msg"])
				assert.Equal(t, "WARN", entry["level"])
				assert.Equal(t, "Get-Foo", entry["command"])
				assert.Contains(t, entry, "source")
			},
		},
		"logfmt": {
			format: log.FormatLogfmt,
			check: func(t *testing.T, out []byte) {
				t.Helper()

				assert.Contains(t, string(out), "level=WARN")
				assert.Contains(t, string(out), `msg="parsed command help"`)
				assert.Contains(t, string(out), "command=Get-Foo")
			},
		},
		"text": {
			format: log.FormatText,
			check: func(t *testing.T, out []byte) {
				t.Helper()

				assert.Contains(t, string(out), "WARN")
				assert.Contains(t, string(out), "parsed command help")
				assert.Contains(t, string(out), "command=Get-Foo")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			h := log.NewHandler(&buf, log.LevelWarn, tc.format)
			require.NotNil(t, h)

			slog.New(h).Warn("parsed command help", slog.String("command", "Get-Foo"))

			tc.check(t, buf.Bytes())
		})
	}
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level  string
		format string
		valid  bool
	}{
		"valid":          {level: "debug", format: "logfmt", valid: true},
		"invalid level":  {level: "loud", format: "json"},
		"invalid format": {level: "info", format: "yaml"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			h, err := log.NewHandlerFromStrings(&buf, tc.level, tc.format)
			if !tc.valid {
				require.ErrorIs(t, err, log.ErrInvalidArgument)
				assert.Nil(t, h)

				return
			}

			require.NoError(t, err)
			slog.New(h).Debug("merged", slog.Int("parameters", 3))
			assert.Contains(t, buf.String(), "parameters=3")
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		log   func(*slog.Logger)
		level log.Level
		shown bool
	}{
		"debug shown at debug": {
			level: log.LevelDebug,
			log:   func(l *slog.Logger) { l.Debug("skipping document") },
			shown: true,
		},
		"debug hidden at warn": {
			level: log.LevelWarn,
			log:   func(l *slog.Logger) { l.Debug("skipping document") },
		},
		"warn shown at warn": {
			level: log.LevelWarn,
			log:   func(l *slog.Logger) { l.Warn("skipping document") },
			shown: true,
		},
		"warn hidden at error": {
			level: log.LevelError,
			log:   func(l *slog.Logger) { l.Warn("skipping document") },
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, format := range []log.Format{log.FormatJSON, log.FormatText} {
				var buf bytes.Buffer

				tc.log(slog.New(log.NewHandler(&buf, tc.level, format)))

				if tc.shown {
					assert.Contains(t, buf.String(), "skipping document", format)
				} else {
					assert.Empty(t, buf.String(), format)
				}
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level log.Level
		want  slog.Level
	}{
		"error":   {level: log.LevelError, want: slog.LevelError},
		"warn":    {level: log.LevelWarn, want: slog.LevelWarn},
		"info":    {level: log.LevelInfo, want: slog.LevelInfo},
		"debug":   {level: log.LevelDebug, want: slog.LevelDebug},
		"unknown": {level: log.Level("loud"), want: slog.LevelInfo},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.level.SlogLevel())
		})
	}
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	cmd := &cobra.Command{Use: "platyps"}
	cfg.RegisterFlags(cmd.PersistentFlags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	tcs := map[string]struct {
		flag string
		want []string
	}{
		"level":  {flag: cfg.Flags.Level, want: []string{"error", "warn", "info", "debug"}},
		"format": {flag: cfg.Flags.Format, want: []string{"json", "logfmt", "text"}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			got, directive := fn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConfigNewLogger(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	cmd := &cobra.Command{Use: "platyps"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"--log-format", "json"}))

	var buf bytes.Buffer

	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden by the default level")
	logger.Warn("converted", slog.String("path", "Get-Foo.md"))

	var entry map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "converted", entry["msg"])
	assert.Equal(t, "Get-Foo.md", entry["path"])

	cfg.Level = "loud"

	_, err = cfg.NewLogger(&buf)
	require.ErrorIs(t, err, log.ErrUnknownLogLevel)
}
