// joinscope validates inferred join candidates against a live warehouse:
// it loads a candidate list and a table-name catalog, gates the batch
// against a dollar budget, then runs one cardinality probe per candidate
// and writes the augmented results to a durable CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/joinscope/pkg/apperrors"
	"github.com/ekaya-inc/joinscope/pkg/catalog"
	"github.com/ekaya-inc/joinscope/pkg/config"
	"github.com/ekaya-inc/joinscope/pkg/cost"
	"github.com/ekaya-inc/joinscope/pkg/engine"
	_ "github.com/ekaya-inc/joinscope/pkg/engine/bigquery"
	_ "github.com/ekaya-inc/joinscope/pkg/engine/postgres"
	"github.com/ekaya-inc/joinscope/pkg/models"
	"github.com/ekaya-inc/joinscope/pkg/validation"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	inputPath := flag.String("input", "join_candidates.csv", "candidates CSV (left_table,right_table,left_col,right_col)")
	schemaPath := flag.String("schema", "schema_mapping.csv", "catalog CSV (table,full_table_name)")
	outputPath := flag.String("output", "validation_results.csv", "output CSV path")
	projectID := flag.String("project-id", "", "cloud project billed for queries (overrides config)")
	timeout := flag.Duration("timeout", validation.DefaultQueryTimeout, "per-query timeout")
	flag.Parse()

	// Missing input files are fatal before any query executes.
	for _, path := range []string{*inputPath, *schemaPath} {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(os.Stderr, "required file not found: %s\n", path)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *projectID != "" {
		cfg.Engine.ProjectID = *projectID
	}

	logCfg := zap.NewDevelopmentConfig()
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *inputPath, *schemaPath, *outputPath, *timeout, logger); err != nil {
		logger.Error("validation run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, inputPath, schemaPath, outputPath string, timeout time.Duration, logger *zap.Logger) error {
	ctx := context.Background()

	candidates, err := catalog.LoadCandidates(inputPath)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	schemaMap, err := catalog.LoadSchemaMap(schemaPath, logger)
	if err != nil {
		return fmt.Errorf("load schema mapping: %w", err)
	}
	logger.Info("inputs loaded",
		zap.Int("candidates", len(candidates)),
		zap.Int("tables", len(schemaMap)))

	estimator := cost.NewEstimator(cost.Config{
		BudgetUSD:        cfg.Cost.BudgetUSD,
		WarnThresholdPct: cfg.Cost.WarnThresholdPct,
		MaxBytesPerQuery: cfg.Cost.MaxBytesPerQuery,
		PricePerTBUSD:    cfg.Cost.PricePerTBUSD,
	}, logger)

	// Pre-flight gate. Profiles are optional; without them the estimate
	// uses conservative stand-ins per table.
	estimate := estimator.EstimateCost(map[string]*models.TableProfile{}, candidates)
	switch estimate.Status {
	case models.CostStatusAbort:
		return fmt.Errorf("%w: estimated $%s against budget $%s",
			apperrors.ErrBudgetExceeded,
			estimate.EstimatedCostUSD.StringFixed(2), estimate.BudgetUSD.StringFixed(2))
	case models.CostStatusWarn:
		logger.Warn("estimated cost approaching budget",
			zap.String("estimated_usd", estimate.EstimatedCostUSD.StringFixed(2)),
			zap.Float64("budget_pct", estimate.BudgetPercentage))
	}

	eng, err := engine.New(ctx, cfg.Engine.Kind, engine.Config{
		ProjectID: cfg.Engine.ProjectID,
		DSN:       cfg.Engine.DSN,
	}, logger)
	if err != nil {
		return fmt.Errorf("create query engine: %w", err)
	}
	defer eng.Close()

	writer, err := catalog.NewResultWriter(outputPath)
	if err != nil {
		return fmt.Errorf("create result writer: %w", err)
	}
	defer writer.Close()

	validator := validation.NewCardinalityValidator(eng, schemaMap, estimator, writer, timeout, logger)
	summary, err := validator.ValidateCandidates(ctx, candidates)
	if err != nil {
		return err
	}
	summary.Print(os.Stdout)

	actuals := estimator.Actuals()
	logger.Info("session spend",
		zap.Int64("queries", actuals.Queries),
		zap.Int64("cache_hits", actuals.CacheHits),
		zap.Int64("bytes_scanned", actuals.BytesScanned),
		zap.String("cost_usd", actuals.CostUSD.StringFixed(4)))
	if estimator.CheckBudgetExceeded() {
		logger.Warn("session spend exceeded budget")
	}

	fmt.Printf("Results written to %s\n", outputPath)
	return nil
}
