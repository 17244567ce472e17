// Package keyring rotates API credentials across provider requests.
package keyring

import (
	"errors"
	"strings"
	"sync"
)

// ErrNoCredentials reports that no API key was configured.
var ErrNoCredentials = errors.New("no API credentials configured")

// Rotator hands out keys in order, wrapping around after the last one.
// Rotation advances on every Acquire whether or not the request succeeds.
type Rotator struct {
	mu   sync.Mutex
	keys []string
	next int
}

// Slot identifies the key returned by Acquire.
type Slot struct {
	Key string
	// Index is 1-based.
	Index int
	Total int
}

// New builds a rotator over keys. Blank entries are dropped; an empty result
// returns ErrNoCredentials.
func New(keys []string) (*Rotator, error) {
	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		if key = strings.TrimSpace(key); key != "" {
			cleaned = append(cleaned, key)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoCredentials
	}
	return &Rotator{keys: cleaned}, nil
}

// Acquire returns the next key and advances the cursor.
func (r *Rotator) Acquire() Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	index := r.next
	r.next = (r.next + 1) % len(r.keys)
	return Slot{Key: r.keys[index], Index: index + 1, Total: len(r.keys)}
}

// Len returns the number of keys in rotation.
func (r *Rotator) Len() int {
	return len(r.keys)
}
