// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is configured once, at creation time, using functional
// options. Its configuration is immutable, so a Logger may be copied and
// shared freely. The zero Logger discards every message.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("analysis started", slog.String("script", path))
//	logger.Error("analysis failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a Logger with additional options applied, and
// [Logger.With] one that adds attributes to every message.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level are
// discarded.
//
// # Output Formats
//
// [FormatJSON] (default) writes one JSON object per message; with
// [WithPretty] the objects are indented. [FormatText] writes key=value
// pairs; with [WithPretty] strings are unquoted and, when the output is a
// terminal, colorized.
//
// # Package-Level Logger
//
// The package-level functions ([Info], [Warn], ...) write through the
// logger returned by [Default], which [Config] reconfigures. Functions
// without a context argument use [DefaultContextProvider].
package log
