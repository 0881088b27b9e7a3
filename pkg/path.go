package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// DirMode is the permission mode for directories created by the command.
const DirMode os.FileMode = 0o700

// Prefix returns the base name used to construct the configuration and cache
// directory paths.
//
// Prefix is the base name of the executable file unless it matches one of the
// following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		return prefixOf(id)
	},
)

func prefixOf(path string) string {
	id := filepath.Base(path)

	for _, sub := range []struct {
		rex *regexp.Regexp
		rep string
	}{
		{regexp.MustCompile(`^__debug_bin\d*$`), Name},
		{regexp.MustCompile(`^\.+`), ""},
	} {
		id = sub.rex.ReplaceAllString(id, sub.rep)
	}

	id = strings.TrimSuffix(id, filepath.Ext(id))

	if id == "" {
		return Name
	}

	return id
}

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the cache directory path used for transient files such as
// the REPL history.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir returns the Prefix directory under the given user directory. If
// the user directory cannot be determined, hidden is used relative to the home
// directory, and failing that, the working directory.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigPath returns the path formed by joining [ConfigDir] with elem.
func ConfigPath(elem ...string) string {
	return filepath.Join(append([]string{ConfigDir()}, elem...)...)
}

// CachePath returns the path formed by joining [CacheDir] with elem.
func CachePath(elem ...string) string {
	return filepath.Join(append([]string{CacheDir()}, elem...)...)
}

// MkdirAll creates the configuration and cache directories.
func MkdirAll() error {
	for _, dir := range []string{ConfigDir(), CacheDir()} {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return err
		}
	}

	return nil
}
