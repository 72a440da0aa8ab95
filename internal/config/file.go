package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file schema. Every field is
// optional; omitted fields keep their environment or default value.
type FileConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	DBURL        string   `yaml:"db_url"`
	LogLevel     string   `yaml:"log_level"`
	LogFormat    string   `yaml:"log_format"`
	APIKeys      []string `yaml:"api_keys"`
	MaxDocuments int      `yaml:"max_documents"`

	Embedding struct {
		BaseURL    string `yaml:"base_url"`
		Model      string `yaml:"model"`
		APIKey     string `yaml:"api_key"`
		TimeoutSec int    `yaml:"timeout"`
		MaxRetries int    `yaml:"max_retries"`
		BatchSize  int    `yaml:"batch_size"`
	} `yaml:"embedding"`
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// envSet reports whether the named environment variable is set, used to
// decide precedence: explicit environment values beat file values.
func envSet(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

// merge layers file values under environment values: a file field only
// takes effect when its corresponding environment variable is unset.
func (f FileConfig) merge(base AppConfig, _ EnvConfig) AppConfig {
	var opts []AppConfigOption

	if f.Host != "" && !envSet("HOST") {
		opts = append(opts, WithHost(f.Host))
	}
	if f.Port != 0 && !envSet("PORT") {
		opts = append(opts, WithPort(f.Port))
	}
	if f.DBURL != "" && !envSet("DB_URL") {
		opts = append(opts, WithDBURL(f.DBURL))
	}
	if f.LogLevel != "" && !envSet("LOG_LEVEL") {
		opts = append(opts, WithLogLevel(f.LogLevel))
	}
	if f.LogFormat != "" && !envSet("LOG_FORMAT") {
		opts = append(opts, WithLogFormat(LogFormat(f.LogFormat)))
	}
	if len(f.APIKeys) > 0 && !envSet("API_KEYS") {
		opts = append(opts, WithAPIKeys(f.APIKeys...))
	}
	if f.MaxDocuments != 0 && !envSet("MAX_DOCUMENTS") {
		opts = append(opts, WithMaxDocuments(f.MaxDocuments))
	}

	ep := base.EmbeddingEndpoint()
	if f.Embedding.BaseURL != "" && !envSet("EMBEDDING_ENDPOINT_BASE_URL") {
		ep = ep.WithBaseURL(f.Embedding.BaseURL)
	}
	if f.Embedding.Model != "" && !envSet("EMBEDDING_ENDPOINT_MODEL") {
		ep = ep.WithModel(f.Embedding.Model)
	}
	if f.Embedding.APIKey != "" && !envSet("EMBEDDING_ENDPOINT_API_KEY") {
		ep = ep.WithAPIKey(f.Embedding.APIKey)
	}
	if f.Embedding.TimeoutSec > 0 && !envSet("EMBEDDING_ENDPOINT_TIMEOUT") {
		ep = ep.WithTimeout(time.Duration(f.Embedding.TimeoutSec) * time.Second)
	}
	if f.Embedding.MaxRetries > 0 && !envSet("EMBEDDING_ENDPOINT_MAX_RETRIES") {
		ep = ep.WithMaxRetries(f.Embedding.MaxRetries)
	}
	if f.Embedding.BatchSize > 0 && !envSet("EMBEDDING_ENDPOINT_BATCH_SIZE") {
		ep = ep.WithBatchSize(f.Embedding.BatchSize)
	}
	opts = append(opts, WithEmbeddingEndpoint(ep))

	return base.Apply(opts...)
}
