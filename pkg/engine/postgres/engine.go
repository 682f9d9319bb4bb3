// Package postgres implements the PostgreSQL query engine.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ekaya-inc/joinscope/pkg/engine"
	"github.com/ekaya-inc/joinscope/pkg/logging"
)

// Engine runs queries against one PostgreSQL database.
type Engine struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewEngine connects to PostgreSQL using a pgx connection string.
func NewEngine(ctx context.Context, dsn string, logger *zap.Logger) (*Engine, error) {
	if dsn == "" {
		return nil, fmt.Errorf("connection string is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %s", logging.SanitizeError(err))
	}

	logger.Info("postgres engine connected",
		zap.String("dsn", logging.SanitizeConnectionString(dsn)))

	return &Engine{
		pool:   pool,
		logger: logger.Named("postgres"),
	}, nil
}

// Query runs a statement and collects all rows. PostgreSQL does not meter
// scanned bytes per statement, so TotalBytesProcessed is always 0.
func (e *Engine) Query(ctx context.Context, sqlQuery string) (*engine.QueryResult, error) {
	start := time.Now()

	rows, err := e.pool.Query(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		resultRows = append(resultRows, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	e.logger.Debug("query executed",
		zap.Int("rows", len(resultRows)),
		zap.Duration("elapsed", time.Since(start)))

	return &engine.QueryResult{
		Columns: columns,
		Rows:    resultRows,
	}, nil
}

// DryRunBytes approximates a statement's scan size from the planner's row
// and width estimates.
func (e *Engine) DryRunBytes(ctx context.Context, sqlQuery string) (int64, error) {
	var planJSON string
	explain := fmt.Sprintf("EXPLAIN (FORMAT JSON) %s", sqlQuery)
	if err := e.pool.QueryRow(ctx, explain).Scan(&planJSON); err != nil {
		return 0, fmt.Errorf("explain query: %w", err)
	}

	var plans []struct {
		Plan struct {
			PlanRows  float64 `json:"Plan Rows"`
			PlanWidth float64 `json:"Plan Width"`
		} `json:"Plan"`
	}
	if err := json.Unmarshal([]byte(planJSON), &plans); err != nil {
		return 0, fmt.Errorf("parse explain output: %w", err)
	}
	if len(plans) == 0 {
		return 0, fmt.Errorf("explain returned no plan")
	}
	return int64(plans[0].Plan.PlanRows * plans[0].Plan.PlanWidth), nil
}

// QuoteIdentifier quotes an identifier for PostgreSQL.
func (e *Engine) QuoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Close releases the connection pool.
func (e *Engine) Close() error {
	e.pool.Close()
	return nil
}
