package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
graph:
  uri: bolt://graph.internal:7687
  username: geo
  password: secret
  pool_size: 10
  connection_timeout: 5s
  query_timeout: 15s
analyzer:
  min_opportunity_score: 0.7
  limit: 20
scorer:
  max_personas: 5
llm:
  enabled: true
  model: mistral
logging:
  level: debug
  format: json
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt://graph.internal:7687", cfg.Graph.URI)
	assert.Equal(t, "geo", cfg.Graph.Username)
	assert.Equal(t, 10, cfg.Graph.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Graph.ConnectionTimeout)
	assert.Equal(t, 15*time.Second, cfg.Graph.QueryTimeout)
	assert.Equal(t, 0.7, cfg.Analyzer.MinOpportunityScore)
	assert.Equal(t, 20, cfg.Analyzer.Limit)
	assert.Equal(t, 5, cfg.Scorer.MaxPersonas)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
graph:
  uri: bolt://graph.internal:7687
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	// Unspecified settings keep their defaults.
	assert.Equal(t, "neo4j", cfg.Graph.Username)
	assert.Equal(t, 50, cfg.Graph.PoolSize)
	assert.Equal(t, 0.5, cfg.Analyzer.MinOpportunityScore)
	assert.Equal(t, 3, cfg.Scorer.MaxPersonas)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadInterpolatesEnvVars(t *testing.T) {
	t.Setenv("GEO_TEST_PASSWORD", "hunter2")

	path := writeConfig(t, `
graph:
  uri: bolt://graph.internal:7687
  password: ${GEO_TEST_PASSWORD}
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Graph.Password)
}

func TestLoadUnsetEnvVarBecomesEmpty(t *testing.T) {
	path := writeConfig(t, `
graph:
  uri: bolt://graph.internal:7687
  database: ${GEO_TEST_DOES_NOT_EXIST}
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Graph.Database)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, types.CONFIG_LOAD_FAILED, types.CodeOf(err))
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := NewLoader().LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty uri", "graph:\n  uri: \"\"\n"},
		{"score out of range", "graph:\n  uri: bolt://h:7687\nanalyzer:\n  min_opportunity_score: 1.5\n"},
		{"zero limit", "graph:\n  uri: bolt://h:7687\nanalyzer:\n  limit: 0\n"},
		{"zero personas", "graph:\n  uri: bolt://h:7687\nscorer:\n  max_personas: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, types.CONFIG_VALIDATION_FAILED, types.CodeOf(err))
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}
