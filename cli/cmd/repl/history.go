package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// baseHistory is the base name of the history file in the cache directory.
const baseHistory = "history.utf8"

// historyFileMode is the permission mode of the history file.
const historyFileMode os.FileMode = 0o600

// Entry prefixes identify the mode each line was entered in.
const (
	evalPrefix = "E:"
	ctrlPrefix = "C:"
)

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

func (e HistoryEntry) encode() string {
	if e.Mode == modeCtrl {
		return ctrlPrefix + e.Line
	}

	return evalPrefix + e.Line
}

// decodeEntry parses a history file line. Lines without a mode prefix are
// eval entries.
func decodeEntry(line string) HistoryEntry {
	if s, ok := strings.CutPrefix(line, ctrlPrefix); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, evalPrefix)

	return HistoryEntry{Line: s, Mode: modeEval}
}

// History manages input history with file persistence. Entries are unique
// per mode; entering a line again moves it to the end.
//
// An empty path keeps history in memory only.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those read from the history file. A
// missing file is not an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = h.entries[:0]

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		h.entries = append(h.entries, decodeEntry(line))
	}

	return scanner.Err()
}

// Add appends line to the history in the given mode and persists it.
func (h *History) Add(line string, mode inputMode) error {
	entry := HistoryEntry{Line: strings.TrimSpace(line), Mode: mode}
	if entry.Line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if h.path == "" {
		return nil
	}

	// A moved entry leaves a stale line behind, so rewrite the file.
	if i >= 0 {
		return h.rewrite()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, historyFileMode)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry.encode() + "\n")

	return err
}

// Entry returns the entry at index i. Index 0 is the oldest entry.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Seek returns the index of the nearest entry after from in the direction of
// step (1 or -1) for which match reports true. A nil match accepts every
// entry. It returns -1 if there is none.
func (h *History) Seek(from, step int, match func(HistoryEntry) bool) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := from + step; i >= 0 && i < len(h.entries); i += step {
		if match == nil || match(h.entries[i]) {
			return i
		}
	}

	return -1
}

// rewrite replaces the history file with the current entries.
// Must be called with h.mu held.
func (h *History) rewrite() error {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, historyFileMode)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	for _, entry := range h.entries {
		if _, err := w.WriteString(entry.encode() + "\n"); err != nil {
			return err
		}
	}

	return w.Flush()
}
