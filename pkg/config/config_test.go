package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "bigquery", cfg.Engine.Kind)
	assert.Equal(t, 5.0, cfg.Cost.BudgetUSD)
	assert.Equal(t, 80.0, cfg.Cost.WarnThresholdPct)
	assert.Equal(t, int64(1073741824), cfg.Cost.MaxBytesPerQuery)
	assert.Equal(t, 7.50, cfg.Cost.PricePerTBUSD)
	assert.False(t, cfg.Embedding.IsAvailable())
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENGINE_KIND", "postgres")
	t.Setenv("ENGINE_DSN", "postgres://localhost/warehouse")
	t.Setenv("COST_BUDGET_USD", "12.5")
	t.Setenv("EMBEDDING_ENDPOINT", "http://localhost:8080/v1")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Engine.Kind)
	assert.Equal(t, "postgres://localhost/warehouse", cfg.Engine.DSN)
	assert.Equal(t, 12.5, cfg.Cost.BudgetUSD)
	assert.True(t, cfg.Embedding.IsAvailable())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative budget", key: "COST_BUDGET_USD", value: "-1"},
		{name: "warn threshold over 100", key: "COST_WARN_THRESHOLD_PCT", value: "150"},
		{name: "zero max bytes", key: "COST_MAX_BYTES_PER_QUERY", value: "0"},
		{name: "zero price", key: "COST_PRICE_PER_TB_USD", value: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("dev")
			assert.Error(t, err)
		})
	}
}
