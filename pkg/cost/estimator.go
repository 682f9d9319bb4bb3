// Package cost projects and tracks the warehouse spend of validating join
// candidates. The estimator works entirely from caller-supplied table
// profiles and recorded executions; it never touches the network.
package cost

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ekaya-inc/joinscope/pkg/models"
)

const (
	// DefaultPricePerTBUSD is the on-demand scan price used when the
	// config leaves pricing unset.
	DefaultPricePerTBUSD = 7.50

	// DefaultMaxBytesPerQuery caps any single query's projected scan at 1 GiB.
	DefaultMaxBytesPerQuery = int64(1) << 30

	// DefaultWarnThresholdPct is the budget fraction that triggers WARN.
	DefaultWarnThresholdPct = 80.0

	// probeRowCount is the fixed number of right-side rows a validation
	// query is assumed to probe.
	probeRowCount = 5000

	// missingProfileBytes stands in for one side of a candidate whose
	// table has no profile.
	missingProfileBytes = int64(10) * 1024 * 1024

	bytesPerTB = 1e12
)

// Config holds estimator tuning. Zero values fall back to defaults.
type Config struct {
	BudgetUSD        float64
	WarnThresholdPct float64
	MaxBytesPerQuery int64
	PricePerTBUSD    float64
}

// Estimator projects validation cost up front and tracks actual spend as
// queries execute. All state is instance-scoped; two estimators never
// share counters.
type Estimator struct {
	mu sync.Mutex

	sessionID        string
	budget           decimal.Decimal
	warnThresholdPct float64
	maxBytesPerQuery int64
	pricePerTB       decimal.Decimal
	logger           *zap.Logger

	actualQueries     int64
	cachedQueries     int64
	actualBytes       int64
	bytesSavedByCache int64
	actualCost        decimal.Decimal
}

// Actuals is a snapshot of spend recorded so far.
type Actuals struct {
	Queries           int64
	CacheHits         int64
	BytesScanned      int64
	BytesSavedByCache int64
	CostUSD           decimal.Decimal
}

// NewEstimator creates an Estimator with defaults applied for any zero
// config field.
func NewEstimator(cfg Config, logger *zap.Logger) *Estimator {
	if cfg.PricePerTBUSD <= 0 {
		cfg.PricePerTBUSD = DefaultPricePerTBUSD
	}
	if cfg.MaxBytesPerQuery <= 0 {
		cfg.MaxBytesPerQuery = DefaultMaxBytesPerQuery
	}
	if cfg.WarnThresholdPct <= 0 {
		cfg.WarnThresholdPct = DefaultWarnThresholdPct
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{
		sessionID:        uuid.NewString(),
		budget:           decimal.NewFromFloat(cfg.BudgetUSD),
		warnThresholdPct: cfg.WarnThresholdPct,
		maxBytesPerQuery: cfg.MaxBytesPerQuery,
		pricePerTB:       decimal.NewFromFloat(cfg.PricePerTBUSD),
		actualCost:       decimal.Zero,
		logger:           logger.Named("cost-estimator"),
	}
}

// SessionID identifies this estimator's tracking session.
func (e *Estimator) SessionID() string {
	return e.sessionID
}

// EstimateCost projects the scan bytes and dollar cost of validating the
// given candidates and gates the plan against the budget. An empty
// candidate list is APPROVED at zero cost.
func (e *Estimator) EstimateCost(profiles map[string]*models.TableProfile, candidates []models.JoinCandidate) *models.CostEstimate {
	estimate := &models.CostEstimate{
		Status:           models.CostStatusApproved,
		EstimatedCostUSD: decimal.Zero,
		BudgetUSD:        e.budget,
		Breakdown:        make([]models.CandidateCostBreakdown, 0, len(candidates)),
	}
	if len(candidates) == 0 {
		return estimate
	}

	var totalBytes, fullScanBytes int64
	for _, cand := range candidates {
		left := e.sideBytes(profiles, cand.LeftTable, -1)
		right := e.sideBytes(profiles, cand.RightTable, probeRowCount)
		total := left + right
		candCost := bytesToUSD(total, e.pricePerTB)

		estimate.Breakdown = append(estimate.Breakdown, models.CandidateCostBreakdown{
			Candidate:       cand,
			LeftScanBytes:   left,
			RightProbeBytes: right,
			TotalBytes:      total,
			CostUSD:         candCost,
		})
		totalBytes += total
		fullScanBytes += e.fullBytes(profiles, cand.LeftTable) + e.fullBytes(profiles, cand.RightTable)
	}

	estimate.EstimatedTotalBytes = totalBytes
	estimate.EstimatedCostUSD = bytesToUSD(totalBytes, e.pricePerTB)

	if fullScanBytes < 1 {
		fullScanBytes = 1
	}
	estimate.SavingsVsFullScanPct = 100.0 * (1.0 - float64(totalBytes)/float64(fullScanBytes))

	if e.budget.IsPositive() {
		pct, _ := estimate.EstimatedCostUSD.Div(e.budget).Mul(decimal.NewFromInt(100)).Float64()
		estimate.BudgetPercentage = pct
	} else if estimate.EstimatedCostUSD.IsPositive() {
		estimate.BudgetPercentage = 100.0
	}

	switch {
	case estimate.EstimatedCostUSD.GreaterThan(e.budget):
		estimate.Status = models.CostStatusAbort
		estimate.BudgetExceeded = true
	case estimate.BudgetPercentage >= e.warnThresholdPct:
		estimate.Status = models.CostStatusWarn
	default:
		estimate.Status = models.CostStatusApproved
	}

	e.logger.Info("cost estimate",
		zap.String("session_id", e.sessionID),
		zap.String("status", string(estimate.Status)),
		zap.Int64("estimated_bytes", estimate.EstimatedTotalBytes),
		zap.String("estimated_cost_usd", estimate.EstimatedCostUSD.StringFixed(4)),
		zap.Float64("budget_pct", estimate.BudgetPercentage),
		zap.Float64("savings_vs_full_scan_pct", estimate.SavingsVsFullScanPct))

	return estimate
}

// sideBytes projects one side of a candidate. rows < 0 means a full scan
// of the key column; otherwise a fixed-size probe. Either way the result
// is capped at MaxBytesPerQuery.
func (e *Estimator) sideBytes(profiles map[string]*models.TableProfile, table string, rows int64) int64 {
	profile, ok := profiles[table]
	if !ok || profile == nil {
		return min(missingProfileBytes, e.maxBytesPerQuery)
	}
	var b int64
	if rows < 0 {
		b = profile.FullTableBytes()
	} else {
		b = profile.EstimatedBytes(rows)
	}
	return min(b, e.maxBytesPerQuery)
}

func (e *Estimator) fullBytes(profiles map[string]*models.TableProfile, table string) int64 {
	profile, ok := profiles[table]
	if !ok || profile == nil {
		return missingProfileBytes
	}
	return profile.FullTableBytes()
}

// RecordQueryExecution tracks one executed validation query. Cache hits
// cost nothing but still count toward the query total.
func (e *Estimator) RecordQueryExecution(bytesScanned int64, cacheHit bool, description string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.actualQueries++
	if cacheHit {
		e.cachedQueries++
		e.bytesSavedByCache += bytesScanned
		e.logger.Debug("query served from cache",
			zap.String("session_id", e.sessionID),
			zap.String("description", description),
			zap.Int64("bytes_saved", bytesScanned))
		return
	}

	e.actualBytes += bytesScanned
	e.actualCost = e.actualCost.Add(bytesToUSD(bytesScanned, e.pricePerTB))
	e.logger.Debug("query execution recorded",
		zap.String("session_id", e.sessionID),
		zap.String("description", description),
		zap.Int64("bytes_scanned", bytesScanned),
		zap.String("running_cost_usd", e.actualCost.StringFixed(4)))
}

// CheckBudgetExceeded reports whether recorded spend has passed the budget.
func (e *Estimator) CheckBudgetExceeded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.actualCost.GreaterThan(e.budget)
}

// Actuals returns a snapshot of spend recorded so far.
func (e *Estimator) Actuals() Actuals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Actuals{
		Queries:           e.actualQueries,
		CacheHits:         e.cachedQueries,
		BytesScanned:      e.actualBytes,
		BytesSavedByCache: e.bytesSavedByCache,
		CostUSD:           e.actualCost,
	}
}

// CostAvoidedUSD returns the dollar value of bytes the cache saved.
func (e *Estimator) CostAvoidedUSD() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return bytesToUSD(e.bytesSavedByCache, e.pricePerTB)
}

func bytesToUSD(bytes int64, pricePerTB decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(bytes).Div(decimal.NewFromFloat(bytesPerTB)).Mul(pricePerTB)
}
