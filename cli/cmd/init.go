package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/minilang/log"
	"github.com/ardnew/minilang/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configFileMode is the permission mode of a generated configuration file.
const configFileMode os.FileMode = 0o600

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(i.flagValues(ktx),
		yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, data, configFileMode); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("bytes", len(data)))

	return nil
}

// flagValues returns the current value of every configurable global flag
// keyed by flag name. Help, version and profiling flags are omitted, as are empty
// strings and lists.
func (*Init) flagValues(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", "version", profile.Tag}

	var values yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		switch v := ktx.FlagValue(flag).(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}

			values = append(values, yaml.MapItem{Key: flag.Name, Value: v})
		case []string:
			if len(v) == 0 {
				continue
			}

			values = append(values, yaml.MapItem{Key: flag.Name, Value: v})
		default:
			values = append(values, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return values
}
