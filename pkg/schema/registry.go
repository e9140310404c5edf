package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a fresh Schema.
type Factory func() *Schema

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register registers a schema factory with the given name.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get returns a schema instance for the given name.
func Get(name string) (*Schema, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema: %s", name)
	}
	return factory(), nil
}

// List returns all registered schema names, sorted.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
