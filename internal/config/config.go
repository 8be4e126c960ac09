// Package config loads and validates the GEO system configuration.
package config

import (
	"fmt"
	"time"

	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

// Config is the top-level configuration for the GEO system.
type Config struct {
	Graph    GraphConfig    `yaml:"graph" json:"graph" mapstructure:"graph"`
	Analyzer AnalyzerConfig `yaml:"analyzer" json:"analyzer" mapstructure:"analyzer"`
	Scorer   ScorerConfig   `yaml:"scorer" json:"scorer" mapstructure:"scorer"`
	LLM      LLMConfig      `yaml:"llm" json:"llm" mapstructure:"llm"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging" mapstructure:"logging"`
}

// GraphConfig contains graph store connection configuration.
type GraphConfig struct {
	URI               string        `yaml:"uri" json:"uri" mapstructure:"uri"` // bolt://localhost:7687
	Username          string        `yaml:"username" json:"username" mapstructure:"username"`
	Password          string        `yaml:"password" json:"password" mapstructure:"password"`
	Database          string        `yaml:"database" json:"database" mapstructure:"database"`
	PoolSize          int           `yaml:"pool_size" json:"pool_size" mapstructure:"pool_size"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout" json:"connection_timeout" mapstructure:"connection_timeout"`
	QueryTimeout      time.Duration `yaml:"query_timeout" json:"query_timeout" mapstructure:"query_timeout"`
}

// AnalyzerConfig contains gap analysis defaults.
type AnalyzerConfig struct {
	MinOpportunityScore float64 `yaml:"min_opportunity_score" json:"min_opportunity_score" mapstructure:"min_opportunity_score"`
	Limit               int     `yaml:"limit" json:"limit" mapstructure:"limit"`
	// RepresentativeKeywords is how many member keywords each gap carries per side.
	RepresentativeKeywords int `yaml:"representative_keywords" json:"representative_keywords" mapstructure:"representative_keywords"`
}

// ScorerConfig contains citation scoring configuration.
type ScorerConfig struct {
	// MaxPersonas is the assumed maximum of relevant personas per asset,
	// the denominator of the completeness sub-score.
	MaxPersonas int `yaml:"max_personas" json:"max_personas" mapstructure:"max_personas"`
}

// LLMConfig contains the optional answer-generation provider configuration.
// When disabled, the answer composer runs in template-only mode.
type LLMConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"` // ollama
	Model    string `yaml:"model" json:"model" mapstructure:"model"`
	BaseURL  string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format" mapstructure:"format"` // text, json
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Graph.URI == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "graph.uri cannot be empty")
	}
	if c.Graph.Username == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "graph.username cannot be empty")
	}
	if c.Graph.ConnectionTimeout <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "graph.connection_timeout must be positive")
	}
	if c.Analyzer.MinOpportunityScore < 0 || c.Analyzer.MinOpportunityScore > 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("analyzer.min_opportunity_score must be in [0,1], got %f", c.Analyzer.MinOpportunityScore))
	}
	if c.Analyzer.Limit <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "analyzer.limit must be positive")
	}
	if c.Scorer.MaxPersonas <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "scorer.max_personas must be positive")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown logging.level: %s", c.Logging.Level))
	}
	if c.LLM.Enabled && c.LLM.Provider == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "llm.provider required when llm.enabled")
	}
	return nil
}
