package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EndpointEnv holds embedding endpoint settings loaded from the
// environment, nested under EMBEDDING_ENDPOINT_ with an underscore
// delimiter (e.g. EMBEDDING_ENDPOINT_BASE_URL).
type EndpointEnv struct {
	BaseURL    string `envconfig:"BASE_URL"`
	Model      string `envconfig:"MODEL"`
	APIKey     string `envconfig:"API_KEY"`
	TimeoutSec int    `envconfig:"TIMEOUT" default:"60"`
	MaxRetries int    `envconfig:"MAX_RETRIES" default:"5"`
	BatchSize  int    `envconfig:"BATCH_SIZE" default:"10"`
}

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8444)
	Port int `envconfig:"PORT" default:"8444"`

	// DBURL is the database connection URL (sqlite:///path or
	// postgres://...). Empty keeps documents purely in memory.
	// Env: DB_URL
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of valid API keys. When set,
	// mutating endpoints require an X-API-KEY header.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// MaxDocuments caps the store size. Zero means unbounded.
	// Env: MAX_DOCUMENTS (default: 0)
	MaxDocuments int `envconfig:"MAX_DOCUMENTS" default:"0"`

	// EmbeddingEndpoint configures the embedding service used by ingest.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts environment configuration to an AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	opts := []AppConfigOption{
		WithHost(e.Host),
		WithPort(e.Port),
		WithDBURL(e.DBURL),
		WithLogLevel(e.LogLevel),
		WithMaxDocuments(e.MaxDocuments),
	}

	if strings.EqualFold(e.LogFormat, string(LogFormatJSON)) {
		opts = append(opts, WithLogFormat(LogFormatJSON))
	} else {
		opts = append(opts, WithLogFormat(LogFormatPretty))
	}

	if e.APIKeys != "" {
		var keys []string
		for _, k := range strings.Split(e.APIKeys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		opts = append(opts, WithAPIKeys(keys...))
	}

	ep := NewEndpoint().
		WithBaseURL(e.EmbeddingEndpoint.BaseURL).
		WithAPIKey(e.EmbeddingEndpoint.APIKey)
	if e.EmbeddingEndpoint.Model != "" {
		ep = ep.WithModel(e.EmbeddingEndpoint.Model)
	}
	if e.EmbeddingEndpoint.TimeoutSec > 0 {
		ep = ep.WithTimeout(time.Duration(e.EmbeddingEndpoint.TimeoutSec) * time.Second)
	}
	if e.EmbeddingEndpoint.MaxRetries > 0 {
		ep = ep.WithMaxRetries(e.EmbeddingEndpoint.MaxRetries)
	}
	if e.EmbeddingEndpoint.BatchSize > 0 {
		ep = ep.WithBatchSize(e.EmbeddingEndpoint.BatchSize)
	}
	opts = append(opts, WithEmbeddingEndpoint(ep))

	return cfg.Apply(opts...)
}
