// Package cmd implements the minilang subcommands: run, repl, fmt and init.
//
// Commands receive a [context.Context] carrying the [kong.Context] of the
// parsed command line (see [WithContext]) and the standard streams they read
// and write (see [WithStreams]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
