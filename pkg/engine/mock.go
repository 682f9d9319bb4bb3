package engine

import (
	"context"
	"fmt"
)

// MockQueryEngine is a configurable mock for testing query consumers.
// Set the function fields to control behavior in tests.
type MockQueryEngine struct {
	// QueryFunc is called when Query is invoked. If nil, returns an
	// empty result.
	QueryFunc func(ctx context.Context, sql string) (*QueryResult, error)

	// DryRunBytesFunc is called when DryRunBytes is invoked. If nil,
	// returns 0.
	DryRunBytesFunc func(ctx context.Context, sql string) (int64, error)

	// QuoteIdentifierFunc is called when QuoteIdentifier is invoked. If
	// nil, wraps the name in double quotes.
	QuoteIdentifierFunc func(name string) string

	// CloseFunc is called when Close is invoked. If nil, returns nil.
	CloseFunc func() error

	// Call tracking for verification
	QueryCalls       int
	DryRunBytesCalls int
	CloseCalls       int

	// Queries records every SQL string passed to Query, in order.
	Queries []string
}

// Query implements QueryEngine.
func (m *MockQueryEngine) Query(ctx context.Context, sql string) (*QueryResult, error) {
	m.QueryCalls++
	m.Queries = append(m.Queries, sql)
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql)
	}
	return &QueryResult{}, nil
}

// DryRunBytes implements QueryEngine.
func (m *MockQueryEngine) DryRunBytes(ctx context.Context, sql string) (int64, error) {
	m.DryRunBytesCalls++
	if m.DryRunBytesFunc != nil {
		return m.DryRunBytesFunc(ctx, sql)
	}
	return 0, nil
}

// QuoteIdentifier implements QueryEngine.
func (m *MockQueryEngine) QuoteIdentifier(name string) string {
	if m.QuoteIdentifierFunc != nil {
		return m.QuoteIdentifierFunc(name)
	}
	return fmt.Sprintf("%q", name)
}

// Close implements QueryEngine.
func (m *MockQueryEngine) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure MockQueryEngine implements QueryEngine at compile time.
var _ QueryEngine = (*MockQueryEngine)(nil)
