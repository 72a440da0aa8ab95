// Package config provides application configuration.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 8444
	DefaultLogLevel          = "INFO"
	DefaultEndpointTimeout   = 60 * time.Second
	DefaultEndpointRetries   = 5
	DefaultEndpointBatchSize = 10
	DefaultEmbeddingModel    = "text-embedding-3-small"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Endpoint configures an OpenAI-compatible embedding service.
type Endpoint struct {
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	batchSize  int
}

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		model:      DefaultEmbeddingModel,
		timeout:    DefaultEndpointTimeout,
		maxRetries: DefaultEndpointRetries,
		batchSize:  DefaultEndpointBatchSize,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the embedding model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// BatchSize returns the number of texts per embedding request.
func (e Endpoint) BatchSize() int { return e.batchSize }

// Configured reports whether the endpoint has enough settings to be used.
func (e Endpoint) Configured() bool { return e.baseURL != "" || e.apiKey != "" }

// WithBaseURL returns a copy with the base URL set.
func (e Endpoint) WithBaseURL(url string) Endpoint {
	e.baseURL = url
	return e
}

// WithModel returns a copy with the model set.
func (e Endpoint) WithModel(model string) Endpoint {
	e.model = model
	return e
}

// WithAPIKey returns a copy with the API key set.
func (e Endpoint) WithAPIKey(key string) Endpoint {
	e.apiKey = key
	return e
}

// WithTimeout returns a copy with the request timeout set.
func (e Endpoint) WithTimeout(d time.Duration) Endpoint {
	e.timeout = d
	return e
}

// WithMaxRetries returns a copy with the retry count set.
func (e Endpoint) WithMaxRetries(n int) Endpoint {
	e.maxRetries = n
	return e
}

// WithBatchSize returns a copy with the batch size set.
func (e Endpoint) WithBatchSize(n int) Endpoint {
	e.batchSize = n
	return e
}

// AppConfig is the immutable application configuration.
type AppConfig struct {
	host         string
	port         int
	dbURL        string
	logLevel     string
	logFormat    LogFormat
	apiKeys      []string
	maxDocuments int
	embedding    Endpoint
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:      DefaultHost,
		port:      DefaultPort,
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
		embedding: NewEndpoint(),
	}
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the host:port listen address.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// DBURL returns the database connection URL. Empty selects the in-memory
// store.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the configured API keys for write protection.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// MaxDocuments returns the document cap. Zero means unbounded.
func (c AppConfig) MaxDocuments() int { return c.maxDocuments }

// EmbeddingEndpoint returns the embedding service configuration.
func (c AppConfig) EmbeddingEndpoint() Endpoint { return c.embedding }

// AppConfigOption mutates an AppConfig during Apply.
type AppConfigOption func(*AppConfig)

// WithHost overrides the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort overrides the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDBURL overrides the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel overrides the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat overrides the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys overrides the API keys.
func WithAPIKeys(keys ...string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithMaxDocuments overrides the document cap.
func WithMaxDocuments(n int) AppConfigOption {
	return func(c *AppConfig) { c.maxDocuments = n }
}

// WithEmbeddingEndpoint overrides the embedding endpoint.
func WithEmbeddingEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.embedding = e }
}

// Apply returns a copy of the config with the given overrides applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
