// Package folder lists the media in a working folder and guards it against
// concurrent runs.
package folder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"

	"stockmeta/internal/media"
)

// LockName is the lock file created inside the working folder.
const LockName = ".stockmeta.lock"

// ErrLocked reports that another run holds the folder lock.
var ErrLocked = errors.New("folder is locked by another run")

// Entry is one regular file in the folder.
type Entry struct {
	Name string
	Path string
	Kind media.Kind
}

// Listing is the classified content of a folder in lexical name order.
type Listing struct {
	Dir     string
	Entries []Entry
}

// List reads dir without recursing. Hidden files are ignored.
func List(dir string) (Listing, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, fmt.Errorf("read folder: %w", err)
	}
	listing := Listing{Dir: dir}
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || name == "" || name[0] == '.' {
			continue
		}
		listing.Entries = append(listing.Entries, Entry{
			Name: name,
			Path: filepath.Join(dir, name),
			Kind: media.KindOf(name),
		})
	}
	sort.Slice(listing.Entries, func(i, j int) bool {
		return listing.Entries[i].Name < listing.Entries[j].Name
	})
	return listing, nil
}

// Processable returns the images and videos sent to the model.
func (l Listing) Processable() []Entry {
	var out []Entry
	for _, e := range l.Entries {
		if e.Kind == media.KindImage || e.Kind == media.KindVideo {
			out = append(out, e)
		}
	}
	return out
}

// Names returns every entry name.
func (l Listing) Names() []string {
	names := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		names = append(names, e.Name)
	}
	return names
}

// Count returns the number of entries of kind k.
func (l Listing) Count(k media.Kind) int {
	n := 0
	for _, e := range l.Entries {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Lock is an exclusive, non-blocking lock on a working folder.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the folder lock or returns ErrLocked.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock file while the lock is still held, then unlocks.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	removeErr := os.Remove(l.path)
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", removeErr)
	}
	return nil
}
