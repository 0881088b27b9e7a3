// Package log provides a concurrency-safe leveled logging interface based
// on [log/slog].
//
// A [Logger] is an immutable value. Its configuration is fixed when it is
// created with [Make]; [Logger.Wrap] derives a new Logger with additional
// options applied and [Logger.With] one with additional attributes.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program loaded", slog.String("file", path))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// The package-level functions log through a default Logger that writes to
// [os.Stderr]. [Config] replaces it.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is used for per-node evaluation
// detail and is far noisier than Debug.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText] are both available plain or
// pretty. Pretty output is colorized for a terminal; pretty JSON is indented
// across lines.
//
// # Context-Aware Logging
//
// Each level has a context-aware and a context-unaware variant. The latter
// use [DefaultContextProvider], which returns [context.TODO] by default.
package log
