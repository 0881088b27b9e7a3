// Package cli contains the command line interface for minilang.
//
// # Usage
//
//	minilang [flags] [run] [FILE...]
//	minilang repl [FILE...]
//	minilang fmt native|json|yaml|ast [FILE]
//	minilang init [--force]
//
// The run command is the default: a bare list of files is run in order in
// one root environment. The file "-" (the default) reads stdin.
//
// # Configuration
//
// Flag values are read from config.yaml in the user configuration directory
// (for example, ~/.config/minilang/config.yaml). The init command writes the
// current flag values to that file. Command-line flags override it.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o minilang .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/minilang/pprof)
//
// # Examples
//
//	# Run a program with debug logging
//	minilang --log-level=debug run fib.ml
//
//	# Continue past runtime errors
//	minilang run --keep-going script.ml
//
//	# Print the syntax tree as YAML
//	minilang fmt yaml fib.ml
package cli
