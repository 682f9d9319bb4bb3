package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ekaya-inc/joinscope/pkg/apperrors"
)

// Supported engine kinds. Each kind's subpackage registers its
// constructor in init; callers blank-import the kinds they want.
const (
	KindBigQuery = "bigquery"
	KindPostgres = "postgres"
)

// Config carries the connection settings a constructor may need. Fields
// irrelevant to a given engine are ignored.
type Config struct {
	ProjectID string
	DSN       string
}

// Constructor builds a QueryEngine from config.
type Constructor func(ctx context.Context, cfg Config, logger *zap.Logger) (QueryEngine, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes an engine kind available to New. It panics on duplicate
// registration; kinds are registered from init only.
func Register(kind string, constructor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[kind]; exists {
		panic(fmt.Sprintf("engine kind %q registered twice", kind))
	}
	registry[kind] = constructor
}

// New constructs the engine registered under kind.
func New(ctx context.Context, kind string, cfg Config, logger *zap.Logger) (QueryEngine, error) {
	registryMu.RLock()
	constructor, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", apperrors.ErrUnknownEngine, kind, Kinds())
	}
	return constructor(ctx, cfg, logger)
}

// Kinds lists the registered engine kinds, sorted.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
