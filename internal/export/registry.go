package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"stockmeta/internal/metadata"
)

// ErrExporterNotFound is returned when a requested target is not registered.
var ErrExporterNotFound = errors.New("exporter not found")

// Spec describes one exporter: its column header and how a row maps onto it.
type Spec struct {
	Name    string
	Headers []string
	Row     func(row metadata.Row, opts Options) []string
}

// Registry maps exporter names to specs.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Builtin returns a registry with the Adobe Stock, Freepik, and Dreamstime
// exporters registered.
func Builtin() *Registry {
	r := NewRegistry()
	for _, spec := range []Spec{adobeStock(), freepik(), dreamstime()} {
		if err := r.Register(spec); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds spec under its lower-cased name. Names must be unique.
func (r *Registry) Register(spec Spec) error {
	name := normalizeName(spec.Name)
	if name == "" {
		return errors.New("register exporter: empty name")
	}
	if len(spec.Headers) == 0 || spec.Row == nil {
		return fmt.Errorf("register exporter %q: headers and row mapping are required", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[name]; exists {
		return fmt.Errorf("register exporter %q: already registered", name)
	}
	spec.Name = name
	r.specs[name] = spec
	return nil
}

// Lookup resolves name after trimming and lower-casing it.
func (r *Registry) Lookup(name string) (Spec, error) {
	key := normalizeName(name)
	r.mu.RLock()
	spec, ok := r.specs[key]
	r.mu.RUnlock()
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q, available: %s", ErrExporterNotFound, key, strings.Join(r.Names(), ", "))
	}
	return spec, nil
}

// Names returns the registered exporter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
