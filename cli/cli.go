package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/minilang/cli/cmd"
	"github.com/ardnew/minilang/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// CLI is the top-level command-line interface for minilang.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Fmt  cmd.Fmt  `cmd:"" help:"Format a program or its syntax tree"`
	Repl cmd.Repl `cmd:"" help:"Start an interactive session"`

	Run cmd.Run `cmd:"" default:"withargs" help:"Run programs"`
}

// Run executes the minilang CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports any parse error, regardless of
	// their position on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadYAML, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values, including the
	// ones read from the configuration file.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Commands receive ctx through the singleton provider bound above.
	return ktx.Run()
}
