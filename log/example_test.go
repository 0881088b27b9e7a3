package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/minilang/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithPretty(false), log.WithTimeLayout("none"))
	logger.Info("program loaded", slog.String("file", "fib.ml"))
	// Output:
	// {"level":"INFO","msg":"program loaded","file":"fib.ml"}
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message", slog.String("key", "value"))
	logger.Error("error message", slog.String("error", "something failed"))
	// Output:
	// {"level":"WARN","msg":"warning message","key":"value"}
	// {"level":"ERROR","msg":"error message","error":"something failed"}
}

func Example_textFormat() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.Info("text format message", slog.String("user", "alice"))
	// Output:
	// level=INFO msg="text format message" user=alice
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.TraceContext(context.Background(), "eval", slog.String("node", "BinaryOp"))
	// Output:
	// level=TRACE msg=eval node=BinaryOp
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout, log.WithPretty(false), log.WithTimeLayout("none"))
	logger = logger.With(slog.String("component", "repl"))

	logger.Info("session started")
	logger.Debug("not shown")
	// Output:
	// {"level":"INFO","msg":"session started","component":"repl"}
}
