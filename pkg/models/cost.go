package models

import "github.com/shopspring/decimal"

// CostStatus is the budget-gate decision for a validation plan.
type CostStatus string

const (
	CostStatusApproved CostStatus = "APPROVED"
	CostStatusWarn     CostStatus = "WARN"
	CostStatusAbort    CostStatus = "ABORT"
)

// CandidateCostBreakdown is the per-candidate slice of a cost estimate,
// so an operator can see which candidates drive spend before committing.
type CandidateCostBreakdown struct {
	Candidate       JoinCandidate   `json:"candidate"`
	LeftScanBytes   int64           `json:"left_scan_bytes"`
	RightProbeBytes int64           `json:"right_probe_bytes"`
	TotalBytes      int64           `json:"total_bytes"`
	CostUSD         decimal.Decimal `json:"cost_usd"`
}

// CostEstimate is the pre-flight projection for validating a candidate list.
// Budget violations are data, not errors: the caller decides whether ABORT
// halts the pipeline or escalates to a human.
type CostEstimate struct {
	Status               CostStatus               `json:"status"`
	EstimatedTotalBytes  int64                    `json:"estimated_total_bytes"`
	EstimatedCostUSD     decimal.Decimal          `json:"estimated_cost_usd"`
	BudgetUSD            decimal.Decimal          `json:"budget_usd"`
	BudgetExceeded       bool                     `json:"budget_exceeded"`
	BudgetPercentage     float64                  `json:"budget_percentage"`
	SavingsVsFullScanPct float64                  `json:"savings_vs_full_scan_pct"`
	Breakdown            []CandidateCostBreakdown `json:"breakdown"`
}
