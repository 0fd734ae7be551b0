package native

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Common errors used across library implementations
var (
	ErrLibraryNotFound  = errors.New("native library not found")
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrInvalidSettings  = errors.New("invalid settings")
	ErrClosed           = errors.New("library closed")
)

// DefaultLibrary is opened when no library type is configured.
const DefaultLibrary = "wasm"

// Factory opens a library from its raw settings.
type Factory func(ctx context.Context, settings map[string]any, logger *zap.Logger) (Library, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register registers a library factory
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("native library %s already registered", name))
	}
	factories[name] = factory
}

// Open creates a Library by name and settings
func Open(ctx context.Context, name string, settings map[string]any, logger *zap.Logger) (Library, error) {
	if name == "" {
		name = DefaultLibrary
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown native library: %s: %w", name, ErrLibraryNotFound)
	}

	return factory(ctx, settings, logger.Named(name))
}

// List returns all registered library types
func List() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
