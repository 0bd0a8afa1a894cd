package gateway

import (
	"fmt"
	"sync"
)

type Factory func(cfg Config) (Gateway, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("gateway: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("gateway: Register called twice for " + name)
	}
	registry[name] = factory
}

func Open(name string, cfg Config) (Gateway, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("gateway: unknown backend %q (registered: %v)", name, Backends())
	}
	cfg.Backend = name
	return factory(cfg)
}

func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
