// Package config holds the environment-driven configuration of the search
// service.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/naranjargal/search-service/pkg/config"
)

// Config holds all configuration for the search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SEARCH_HTTP_PORT" envDefault:"8010"`

	// Elasticsearch
	ElasticsearchURL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"products"`

	// Search engine selection (elasticsearch or memory)
	SearchEngine string `env:"SEARCH_ENGINE" envDefault:"elasticsearch"`

	// Prefix boost weights for the free search field
	BoostBrand       int `env:"SEARCH_BOOST_BRAND" envDefault:"8"`
	BoostDisplayName int `env:"SEARCH_BOOST_DISPLAY_NAME" envDefault:"8"`
	BoostKeywords    int `env:"SEARCH_BOOST_KEYWORDS" envDefault:"6"`

	// Session behavior
	CommitOnFailure bool          `env:"SEARCH_COMMIT_ON_FAILURE" envDefault:"true"`
	SessionTTL      time.Duration `env:"SEARCH_SESSION_TTL" envDefault:"30m"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSample    float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load search config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.BoostBrand < 1 || c.BoostDisplayName < 1 || c.BoostKeywords < 1 {
		return fmt.Errorf("boost weights must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid session TTL: %s", c.SessionTTL)
	}
	return nil
}
