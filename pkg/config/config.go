package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for joinscope.
// Configuration can come from YAML file (config.yaml) or environment
// variables; environment variables always override YAML values. The CLI
// must run without a config file, so a missing config.yaml falls back to
// env-only loading.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Engine selects and configures the query-engine client.
	Engine EngineConfig `yaml:"engine"`

	// Cost configures the budget gate.
	Cost CostConfig `yaml:"cost"`

	// Embedding configures the optional embedding-similarity scorer.
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// EngineConfig selects the query engine the validator talks to.
type EngineConfig struct {
	// Kind is the registered engine kind ("bigquery" or "postgres").
	Kind string `yaml:"kind" env:"ENGINE_KIND" env-default:"bigquery"`

	// ProjectID is the cloud project billed for queries (BigQuery).
	ProjectID string `yaml:"project_id" env:"ENGINE_PROJECT_ID" env-default:""`

	// DSN is the connection string for DSN-based engines (Postgres).
	DSN string `yaml:"-" env:"ENGINE_DSN"` // May carry credentials - not in YAML
}

// CostConfig holds budget-gate settings.
type CostConfig struct {
	// BudgetUSD is the dollar budget for one discovery session.
	BudgetUSD float64 `yaml:"budget_usd" env:"COST_BUDGET_USD" env-default:"5.0"`

	// WarnThresholdPct triggers WARN when estimated cost reaches this
	// percentage of the budget.
	WarnThresholdPct float64 `yaml:"warn_threshold_pct" env:"COST_WARN_THRESHOLD_PCT" env-default:"80"`

	// MaxBytesPerQuery caps any single per-candidate byte estimate.
	MaxBytesPerQuery int64 `yaml:"max_bytes_per_query" env:"COST_MAX_BYTES_PER_QUERY" env-default:"1073741824"`

	// PricePerTBUSD is the engine's on-demand scan price.
	PricePerTBUSD float64 `yaml:"price_per_tb_usd" env:"COST_PRICE_PER_TB_USD" env-default:"7.50"`
}

// EmbeddingConfig holds the OpenAI-compatible embedding endpoint used by
// the optional embedding scorer. Leaving Endpoint empty disables it.
type EmbeddingConfig struct {
	Endpoint string `yaml:"endpoint" env:"EMBEDDING_ENDPOINT" env-default:""`
	Model    string `yaml:"model" env:"EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
	APIKey   string `yaml:"-" env:"EMBEDDING_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if an embedding endpoint is configured.
func (c *EmbeddingConfig) IsAvailable() bool {
	return c.Endpoint != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides, falling back to environment-only when no file exists.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate rejects configurations the pipeline cannot run with.
func (c *Config) validate() error {
	if c.Cost.BudgetUSD < 0 {
		return fmt.Errorf("cost.budget_usd must not be negative")
	}
	if c.Cost.WarnThresholdPct < 0 || c.Cost.WarnThresholdPct > 100 {
		return fmt.Errorf("cost.warn_threshold_pct must be in [0,100]")
	}
	if c.Cost.MaxBytesPerQuery <= 0 {
		return fmt.Errorf("cost.max_bytes_per_query must be positive")
	}
	if c.Cost.PricePerTBUSD <= 0 {
		return fmt.Errorf("cost.price_per_tb_usd must be positive")
	}
	return nil
}
