package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Streams are the standard streams used by a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context whose commands use s instead of
// the process's standard streams. Nil fields keep their defaults.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

// streamsFrom returns the streams stored in ctx by WithStreams, defaulting
// each unset stream to the corresponding standard stream of the process.
func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName is the name reported for a program read from stdin.
const stdinName = "<stdin>"

// source is a named program input.
type source struct {
	name string
	io.ReadCloser
}

// openSources opens each path in order. The path "-" reads from stdin.
//
// A file named more than once, even through distinct paths or links, is
// opened only at its first occurrence, and so is stdin. On error every source
// already opened is closed.
func openSources(stdin io.Reader, paths []string) (srcs []source, err error) {
	defer func() {
		if err != nil {
			closeSources(srcs)
			srcs = nil
		}
	}()

	var (
		seen     []os.FileInfo
		hasStdin bool
	)

	for _, path := range paths {
		if path == stdinSource {
			if !hasStdin {
				hasStdin = true

				srcs = append(srcs, source{stdinName, io.NopCloser(stdin)})
			}

			continue
		}

		file, info, err := openFile(path)
		if err != nil {
			return srcs, ErrReadSource.With(slog.String("file", path)).Wrap(err)
		}

		if duplicate(seen, info) {
			_ = file.Close()

			continue
		}

		seen = append(seen, info)
		srcs = append(srcs, source{path, file})
	}

	return srcs, nil
}

// openFile opens the regular file at path after resolving symlinks.
func openFile(path string) (*os.File, os.FileInfo, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, nil, err
	}

	if info.IsDir() {
		return nil, nil, errors.New("is a directory")
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, nil, err
	}

	return file, info, nil
}

func duplicate(seen []os.FileInfo, info os.FileInfo) bool {
	for _, s := range seen {
		if os.SameFile(s, info) {
			return true
		}
	}

	return false
}

func closeSources(srcs []source) {
	for _, src := range srcs {
		_ = src.Close()
	}
}

// readSource opens the single program named by path and returns its content.
func readSource(ctx context.Context, path string) (string, string, error) {
	srcs, err := openSources(streamsFrom(ctx).In, []string{path})
	if err != nil {
		return "", "", err
	}
	defer closeSources(srcs)

	data, err := io.ReadAll(srcs[0])
	if err != nil {
		return "", "", ErrReadSource.With(slog.String("file", srcs[0].name)).Wrap(err)
	}

	return srcs[0].name, string(data), nil
}
