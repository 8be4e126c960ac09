package config

import "time"

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			URI:               "bolt://localhost:7687",
			Username:          "neo4j",
			Password:          "password",
			Database:          "",
			PoolSize:          50,
			ConnectionTimeout: 30 * time.Second,
			QueryTimeout:      30 * time.Second,
		},
		Analyzer: AnalyzerConfig{
			MinOpportunityScore: 0.5,
			Limit:               10,
			RepresentativeKeywords: 5,
		},
		Scorer: ScorerConfig{
			MaxPersonas: 3,
		},
		LLM: LLMConfig{
			Enabled:  false,
			Provider: "ollama",
			Model:    "llama3",
			BaseURL:  "http://localhost:11434",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
