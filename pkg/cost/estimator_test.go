package cost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/joinscope/pkg/models"
)

func testCandidate() models.JoinCandidate {
	return models.JoinCandidate{
		LeftTable:   "orders",
		RightTable:  "users",
		LeftColumn:  "user_id",
		RightColumn: "id",
	}
}

func TestEstimateCost_EmptyCandidatesAlwaysApproved(t *testing.T) {
	// Approval of the empty plan is unconditional, even with a zero budget.
	est := NewEstimator(Config{BudgetUSD: 0}, nil)

	estimate := est.EstimateCost(nil, nil)
	assert.Equal(t, models.CostStatusApproved, estimate.Status)
	assert.True(t, estimate.EstimatedCostUSD.IsZero())
	assert.Zero(t, estimate.EstimatedTotalBytes)
	assert.False(t, estimate.BudgetExceeded)
}

func TestEstimateCost_PerCandidateBytesNeverExceedCap(t *testing.T) {
	const byteCap = int64(1000)
	est := NewEstimator(Config{BudgetUSD: 100, MaxBytesPerQuery: byteCap}, nil)

	profiles := map[string]*models.TableProfile{
		"orders": {TableID: "orders", RowCount: 10_000_000, EstimatedAvgRowBytes: 1024},
		"users":  {TableID: "users", RowCount: 10_000_000, EstimatedAvgRowBytes: 1024},
	}
	estimate := est.EstimateCost(profiles, []models.JoinCandidate{testCandidate()})

	require.Len(t, estimate.Breakdown, 1)
	b := estimate.Breakdown[0]
	assert.LessOrEqual(t, b.LeftScanBytes, byteCap)
	assert.LessOrEqual(t, b.RightProbeBytes, byteCap)
	assert.LessOrEqual(t, b.TotalBytes, 2*byteCap)
}

func TestEstimateCost_MissingProfileUsesStandIn(t *testing.T) {
	est := NewEstimator(Config{BudgetUSD: 100}, nil)

	estimate := est.EstimateCost(map[string]*models.TableProfile{}, []models.JoinCandidate{testCandidate()})

	require.Len(t, estimate.Breakdown, 1)
	assert.Equal(t, missingProfileBytes, estimate.Breakdown[0].LeftScanBytes)
	assert.Equal(t, missingProfileBytes, estimate.Breakdown[0].RightProbeBytes)
}

func TestEstimateCost_StatusExclusiveAndExhaustive(t *testing.T) {
	profiles := map[string]*models.TableProfile{
		"orders": {TableID: "orders", RowCount: 100_000, EstimatedAvgRowBytes: 1000},
		"users":  {TableID: "users", RowCount: 100_000, EstimatedAvgRowBytes: 1000},
	}
	// With an uncapped query size the plan scans 1e8 + 5e6 bytes. At
	// $10,000/TB that is $1.05.
	cfg := Config{PricePerTBUSD: 10_000, MaxBytesPerQuery: 1 << 40}

	tests := []struct {
		name       string
		budget     float64
		warnPct    float64
		wantStatus models.CostStatus
	}{
		{name: "well under budget", budget: 100, warnPct: 80, wantStatus: models.CostStatusApproved},
		{name: "at warn threshold", budget: 1.3125, warnPct: 80, wantStatus: models.CostStatusWarn},
		{name: "over budget", budget: 1.0, warnPct: 80, wantStatus: models.CostStatusAbort},
		{name: "exactly on budget is not abort", budget: 1.05, warnPct: 99, wantStatus: models.CostStatusWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cfg
			cfg.BudgetUSD = tt.budget
			cfg.WarnThresholdPct = tt.warnPct
			est := NewEstimator(cfg, nil)

			estimate := est.EstimateCost(profiles, []models.JoinCandidate{testCandidate()})
			assert.Equal(t, tt.wantStatus, estimate.Status)
			assert.Equal(t, estimate.Status == models.CostStatusAbort, estimate.BudgetExceeded)
		})
	}
}

func TestEstimateCost_LargeTablesAbortSmallBudget(t *testing.T) {
	// Two 10,000,000-row tables at 1KB per row against a $1 budget. The
	// pricing constant is pinned so the dollar math is deterministic.
	profiles := map[string]*models.TableProfile{
		"orders": {TableID: "orders", RowCount: 10_000_000, EstimatedAvgRowBytes: 1000},
		"users":  {TableID: "users", RowCount: 10_000_000, EstimatedAvgRowBytes: 1000},
	}
	est := NewEstimator(Config{
		BudgetUSD:        1.0,
		PricePerTBUSD:    200,
		MaxBytesPerQuery: 1 << 40,
	}, nil)

	estimate := est.EstimateCost(profiles, []models.JoinCandidate{testCandidate()})
	assert.Equal(t, models.CostStatusAbort, estimate.Status)
	assert.True(t, estimate.BudgetExceeded)
	assert.True(t, estimate.EstimatedCostUSD.GreaterThan(decimal.NewFromInt(1)))
}

func TestEstimateCost_SavingsVsFullScan(t *testing.T) {
	profiles := map[string]*models.TableProfile{
		"orders": {TableID: "orders", RowCount: 1_000_000, EstimatedAvgRowBytes: 1000},
		"users":  {TableID: "users", RowCount: 1_000_000, EstimatedAvgRowBytes: 1000},
	}
	est := NewEstimator(Config{BudgetUSD: 100}, nil)

	estimate := est.EstimateCost(profiles, []models.JoinCandidate{testCandidate()})
	assert.Greater(t, estimate.SavingsVsFullScanPct, 0.0)
	assert.LessOrEqual(t, estimate.SavingsVsFullScanPct, 100.0)
}

func TestRecordQueryExecution_TracksActuals(t *testing.T) {
	est := NewEstimator(Config{BudgetUSD: 100}, nil)

	est.RecordQueryExecution(1_000_000, false, "probe one")
	est.RecordQueryExecution(2_000_000, false, "probe two")
	est.RecordQueryExecution(5_000_000, true, "cached probe")

	actuals := est.Actuals()
	assert.Equal(t, int64(3), actuals.Queries)
	assert.Equal(t, int64(1), actuals.CacheHits)
	assert.Equal(t, int64(3_000_000), actuals.BytesScanned)
	assert.Equal(t, int64(5_000_000), actuals.BytesSavedByCache)

	// 3MB at the default $7.50/TB.
	want := decimal.NewFromInt(3_000_000).Div(decimal.NewFromFloat(1e12)).Mul(decimal.NewFromFloat(7.50))
	assert.True(t, actuals.CostUSD.Equal(want), "got %s want %s", actuals.CostUSD, want)
	assert.True(t, est.CostAvoidedUSD().IsPositive())
}

func TestCheckBudgetExceeded(t *testing.T) {
	est := NewEstimator(Config{BudgetUSD: 0.005, PricePerTBUSD: 1000, MaxBytesPerQuery: 1 << 40}, nil)
	assert.False(t, est.CheckBudgetExceeded())

	// 10GB at $1000/TB is $0.01, past the half-cent budget.
	est.RecordQueryExecution(10_000_000_000, false, "big scan")
	assert.True(t, est.CheckBudgetExceeded())

	// Cache hits never add spend.
	before := est.Actuals().CostUSD
	est.RecordQueryExecution(10_000_000_000, true, "cached scan")
	assert.True(t, est.Actuals().CostUSD.Equal(before))
}

func TestEstimators_AreInstanceScoped(t *testing.T) {
	a := NewEstimator(Config{BudgetUSD: 1}, nil)
	b := NewEstimator(Config{BudgetUSD: 1}, nil)

	a.RecordQueryExecution(1_000_000, false, "scan")
	assert.Equal(t, int64(1), a.Actuals().Queries)
	assert.Equal(t, int64(0), b.Actuals().Queries)
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}
