// Package engine abstracts the SQL warehouses that validation queries run
// against. Concrete engines live in subpackages and register themselves
// with this package's registry.
package engine

import (
	"context"
)

// QueryResult is the engine-neutral result of one query.
type QueryResult struct {
	Columns []string
	Rows    []map[string]any

	// TotalBytesProcessed is the engine-reported scan size. Engines that
	// do not meter scans report 0.
	TotalBytesProcessed int64

	// CacheHit reports whether the engine served the query from its
	// result cache.
	CacheHit bool
}

// QueryEngine executes SQL against one warehouse.
type QueryEngine interface {
	// Query runs a statement and returns all rows.
	Query(ctx context.Context, sql string) (*QueryResult, error)

	// DryRunBytes estimates the bytes a statement would scan without
	// running it.
	DryRunBytes(ctx context.Context, sql string) (int64, error)

	// QuoteIdentifier quotes a single identifier for this engine's
	// dialect.
	QuoteIdentifier(name string) string

	// Close releases the engine's connections.
	Close() error
}
