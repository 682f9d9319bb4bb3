// Package bigquery implements the BigQuery query engine.
package bigquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/ekaya-inc/joinscope/pkg/engine"
)

// Engine runs queries against one BigQuery project.
type Engine struct {
	client *bigquery.Client
	logger *zap.Logger
}

// NewEngine connects to BigQuery using application default credentials.
func NewEngine(ctx context.Context, projectID string, logger *zap.Logger) (*Engine, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}

	return &Engine{
		client: client,
		logger: logger.Named("bigquery"),
	}, nil
}

// Query runs a statement and collects all rows along with the job's scan
// statistics.
func (e *Engine) Query(ctx context.Context, sql string) (*engine.QueryResult, error) {
	start := time.Now()

	q := e.client.Query(sql)
	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for query: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read query results: %w", err)
	}

	result := &engine.QueryResult{}
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if result.Columns == nil {
			result.Columns = make([]string, len(it.Schema))
			for i, field := range it.Schema {
				result.Columns[i] = field.Name
			}
		}
		rowMap := make(map[string]any, len(row))
		for i, v := range row {
			if i < len(result.Columns) {
				rowMap[result.Columns[i]] = v
			}
		}
		result.Rows = append(result.Rows, rowMap)
	}

	if stats := status.Statistics; stats != nil {
		result.TotalBytesProcessed = stats.TotalBytesProcessed
		if qs, ok := stats.Details.(*bigquery.QueryStatistics); ok {
			result.CacheHit = qs.CacheHit
		}
	}

	e.logger.Debug("query executed",
		zap.Int("rows", len(result.Rows)),
		zap.Int64("bytes_processed", result.TotalBytesProcessed),
		zap.Bool("cache_hit", result.CacheHit),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// DryRunBytes estimates a statement's scan size via a dry-run job.
func (e *Engine) DryRunBytes(ctx context.Context, sql string) (int64, error) {
	q := e.client.Query(sql)
	q.DryRun = true

	job, err := q.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("dry run: %w", err)
	}

	status := job.LastStatus()
	if status == nil || status.Statistics == nil {
		return 0, fmt.Errorf("dry run returned no statistics")
	}
	return status.Statistics.TotalBytesProcessed, nil
}

// QuoteIdentifier quotes an identifier with backticks.
func (e *Engine) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}

// Close releases the underlying client.
func (e *Engine) Close() error {
	return e.client.Close()
}
