package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
	vo "github.com/hapkiduki/boxspec-go/internal/domain/valueobject"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "boxspec", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())

	domain, err := cfg.Calculator.Domain()
	require.NoError(t, err)
	assert.Equal(t, calculator.DefaultConfig().Precision, domain.Precision)
	assert.Equal(t, calculator.DefaultConfig().TakeUpFactor, domain.TakeUpFactor)
	assert.Equal(t, vo.CurrencyINR, domain.Currency)
	assert.Empty(t, domain.LayerDefaults)
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
log:
  level: debug
calculator:
  precision: 2
  paper_cost_per_kg: 95
  layer_defaults:
    top_paper: 150
    flute1: 110
`)
	t.Setenv("BOXSPEC_CALCULATOR_PRECISION", "3")
	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)

	domain, err := cfg.Calculator.Domain()
	require.NoError(t, err)
	assert.Equal(t, 3, domain.Precision, "env overrides file")
	assert.Equal(t, 95.0, domain.DefaultUnitPrice)
	assert.Equal(t, map[vo.Layer]float64{vo.LayerTop: 150, vo.LayerFlute1: 110}, domain.LayerDefaults)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"unknown layer", "calculator:\n  layer_defaults:\n    lid_paper: 100\n", calculator.ErrInvalidConfig},
		{"zero divisor", "calculator:\n  area_weight_divisor: 0\n", calculator.ErrInvalidConfig},
		{"bad currency", "calculator:\n  currency: GBP\n", calculator.ErrInvalidConfig},
		{"bad log format", "log:\n  format: xml\n", ErrInvalidConfig},
		{"bad rate limit", "rate_limit:\n  burst: 0\n", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yaml")) })
}
