// Package ledger tracks which media files have already been processed in a
// folder. The backing file holds one filename per line and only grows.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"stockmeta/internal/fileutil"
)

// ErrUnrecordable reports a name that would not read back as one ledger line.
var ErrUnrecordable = errors.New("name cannot be stored in the ledger")

// Ledger is the in-memory view of a processed-files list plus its durable path.
type Ledger struct {
	mu      sync.Mutex
	path    string
	entries map[string]struct{}
}

// Open loads the ledger at path. A missing file is an empty ledger.
func Open(path string) (*Ledger, error) {
	l := &Ledger{path: path, entries: make(map[string]struct{})}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		name := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(name) == "" {
			continue
		}
		l.entries[name] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return l, nil
}

// Path returns the backing file location.
func (l *Ledger) Path() string {
	return l.path
}

// Contains reports whether name was recorded. Matching is exact.
func (l *Ledger) Contains(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[name]
	return ok
}

// Recordable returns ErrUnrecordable for blank names and names containing a
// line break.
func (l *Ledger) Recordable(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("%w: %q", ErrUnrecordable, name)
	}
	return nil
}

// Record appends name to the ledger file and syncs it before marking the
// entry in memory. Recording a present name is a no-op.
func (l *Ledger) Record(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[name]; ok {
		return nil
	}
	if err := l.Recordable(name); err != nil {
		return err
	}
	if err := fileutil.AppendLine(l.path, name); err != nil {
		return fmt.Errorf("record %q in ledger: %w", name, err)
	}
	l.entries[name] = struct{}{}
	return nil
}

// Len returns the number of recorded names.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
