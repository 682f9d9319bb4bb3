// Package validation runs the join-and-count probes that turn scored
// candidates into empirically classified relationships.
package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/joinscope/pkg/apperrors"
	"github.com/ekaya-inc/joinscope/pkg/engine"
	"github.com/ekaya-inc/joinscope/pkg/logging"
	"github.com/ekaya-inc/joinscope/pkg/models"
	"github.com/ekaya-inc/joinscope/pkg/retry"
)

// DefaultQueryTimeout bounds each validation query.
const DefaultQueryTimeout = 30 * time.Second

// DetermineCardinality classifies a join by its distinct and total counts.
// Equality to the total row count signals that side contributed no
// duplicate matches.
func DetermineCardinality(leftDistinct, rightDistinct, total int64) models.CardinalityType {
	switch {
	case total == 0:
		return models.CardinalityNoJoinRows
	case leftDistinct == total && rightDistinct == total:
		return models.CardinalityOneToOne
	case leftDistinct == total && rightDistinct < total:
		return models.CardinalityOneToMany
	case rightDistinct == total && leftDistinct < total:
		return models.CardinalityManyToOne
	default:
		return models.CardinalityManyToMany
	}
}

// ResultSink receives each candidate's outcome as it completes. Append
// errors abort the batch; the durable output has no silent loss path.
type ResultSink interface {
	Append(cand models.JoinCandidate, result *models.ValidationResult) error
}

// QueryTracker records executed queries for spend accounting.
type QueryTracker interface {
	RecordQueryExecution(bytesScanned int64, cacheHit bool, description string)
}

// BatchSummary aggregates one validation run.
type BatchSummary struct {
	Total         int
	Succeeded     int
	Failed        int
	ByCardinality map[models.CardinalityType]int
	Elapsed       time.Duration
}

// CardinalityValidator validates candidates one query at a time.
// Sequential dispatch is the backpressure mechanism here; parallelizing
// would require a pre-dispatch budget check.
type CardinalityValidator struct {
	engine    engine.QueryEngine
	schemaMap map[string]string
	tracker   QueryTracker
	sink      ResultSink
	timeout   time.Duration
	retryCfg  *retry.Config
	logger    *zap.Logger
	runID     string
}

// NewCardinalityValidator creates a validator. tracker may be nil; a zero
// timeout uses DefaultQueryTimeout.
func NewCardinalityValidator(
	eng engine.QueryEngine,
	schemaMap map[string]string,
	tracker QueryTracker,
	sink ResultSink,
	timeout time.Duration,
	logger *zap.Logger,
) *CardinalityValidator {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CardinalityValidator{
		engine:    eng,
		schemaMap: schemaMap,
		tracker:   tracker,
		sink:      sink,
		timeout:   timeout,
		retryCfg:  retry.DefaultConfig(),
		logger:    logger.Named("cardinality-validator"),
		runID:     uuid.NewString(),
	}
}

// ValidateCandidates probes each candidate in order. Per-candidate
// failures are recorded and the batch continues; only sink write failures
// abort the run.
func (v *CardinalityValidator) ValidateCandidates(ctx context.Context, candidates []models.JoinCandidate) (*BatchSummary, error) {
	start := time.Now()
	summary := &BatchSummary{
		Total:         len(candidates),
		ByCardinality: make(map[models.CardinalityType]int),
	}

	for i, cand := range candidates {
		v.logger.Info("validating candidate",
			zap.String("run_id", v.runID),
			zap.Int("index", i+1),
			zap.Int("total", len(candidates)),
			zap.String("candidate", cand.String()))

		result := v.validateOne(ctx, cand)
		if result.ValidationStatus == models.ValidationStatusError {
			summary.Failed++
			v.logger.Warn("candidate validation failed",
				zap.String("candidate", cand.String()),
				zap.String("error", result.ErrorMessage))
		} else {
			summary.Succeeded++
			v.logger.Info("candidate validated",
				zap.String("candidate", cand.String()),
				zap.String("cardinality", string(result.CardinalityType)),
				zap.Int64("joined_rows", result.TotalJoinedRows))
		}
		summary.ByCardinality[result.CardinalityType]++

		if err := v.sink.Append(cand, result); err != nil {
			return summary, fmt.Errorf("write validation result: %w", err)
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

func (v *CardinalityValidator) validateOne(ctx context.Context, cand models.JoinCandidate) *models.ValidationResult {
	leftFQN, err := v.resolve(cand.LeftTable)
	if err != nil {
		return errorResult(err)
	}
	rightFQN, err := v.resolve(cand.RightTable)
	if err != nil {
		return errorResult(err)
	}

	sql := fmt.Sprintf(
		"SELECT COUNT(DISTINCT l.%s) AS left_distinct, COUNT(DISTINCT r.%s) AS right_distinct, COUNT(*) AS total FROM %s l JOIN %s r ON l.%s = r.%s",
		v.engine.QuoteIdentifier(cand.LeftColumn),
		v.engine.QuoteIdentifier(cand.RightColumn),
		leftFQN,
		rightFQN,
		v.engine.QuoteIdentifier(cand.LeftColumn),
		v.engine.QuoteIdentifier(cand.RightColumn),
	)

	v.logger.Debug("running cardinality probe",
		zap.String("sql", logging.SanitizeQuery(sql)))

	queryCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	queryResult, err := retry.DoWithResult(queryCtx, v.retryCfg, func() (*engine.QueryResult, error) {
		return v.engine.Query(queryCtx, sql)
	})
	if err != nil {
		return errorResult(err)
	}

	if v.tracker != nil {
		v.tracker.RecordQueryExecution(queryResult.TotalBytesProcessed, queryResult.CacheHit,
			fmt.Sprintf("cardinality check %s", cand.String()))
	}

	if len(queryResult.Rows) == 0 {
		return errorResult(fmt.Errorf("cardinality query returned no rows"))
	}
	row := queryResult.Rows[0]
	leftDistinct, err := countField(row, "left_distinct")
	if err != nil {
		return errorResult(err)
	}
	rightDistinct, err := countField(row, "right_distinct")
	if err != nil {
		return errorResult(err)
	}
	total, err := countField(row, "total")
	if err != nil {
		return errorResult(err)
	}

	return &models.ValidationResult{
		LeftDistinctCount:  leftDistinct,
		RightDistinctCount: rightDistinct,
		TotalJoinedRows:    total,
		CardinalityType:    DetermineCardinality(leftDistinct, rightDistinct, total),
		ValidationStatus:   models.ValidationStatusSuccess,
	}
}

// resolve maps a short table name to its fully-qualified name.
func (v *CardinalityValidator) resolve(table string) (string, error) {
	fqn, ok := v.schemaMap[table]
	if !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnresolvedTable, table)
	}
	return fqn, nil
}

func errorResult(err error) *models.ValidationResult {
	return &models.ValidationResult{
		CardinalityType:  models.CardinalityError,
		ValidationStatus: models.ValidationStatusError,
		ErrorMessage:     err.Error(),
	}
}

// countField extracts an int64 count from a result row, tolerating the
// numeric types different engines return.
func countField(row map[string]any, name string) (int64, error) {
	v, ok := row[name]
	if !ok {
		return 0, fmt.Errorf("missing count column %q", name)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("count column %q has unexpected type %T", name, v)
	}
}
