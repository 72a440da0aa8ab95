package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, "0.0.0.0", cfg.Host())
	assert.Equal(t, 8444, cfg.Port())
	assert.Equal(t, "0.0.0.0:8444", cfg.Addr())
	assert.Empty(t, cfg.DBURL())
	assert.Equal(t, "INFO", cfg.LogLevel())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
	assert.Empty(t, cfg.APIKeys())
	assert.Equal(t, 0, cfg.MaxDocuments())
	assert.False(t, cfg.EmbeddingEndpoint().Configured())
}

func TestApplyReturnsModifiedCopy(t *testing.T) {
	base := NewAppConfig()
	modified := base.Apply(WithPort(9000), WithHost("127.0.0.1"))

	assert.Equal(t, 8444, base.Port())
	assert.Equal(t, "127.0.0.1:9000", modified.Addr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_URL", "sqlite:///vexdb.sqlite")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("API_KEYS", "alpha, beta,")
	t.Setenv("MAX_DOCUMENTS", "100")
	t.Setenv("EMBEDDING_ENDPOINT_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("EMBEDDING_ENDPOINT_MODEL", "nomic-embed-text")
	t.Setenv("EMBEDDING_ENDPOINT_TIMEOUT", "30")

	envCfg, err := LoadFromEnv()
	require.NoError(t, err)
	cfg := envCfg.ToAppConfig()

	assert.Equal(t, "127.0.0.1:9999", cfg.Addr())
	assert.Equal(t, "sqlite:///vexdb.sqlite", cfg.DBURL())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.Equal(t, []string{"alpha", "beta"}, cfg.APIKeys())
	assert.Equal(t, 100, cfg.MaxDocuments())

	ep := cfg.EmbeddingEndpoint()
	assert.True(t, ep.Configured())
	assert.Equal(t, "http://localhost:11434/v1", ep.BaseURL())
	assert.Equal(t, "nomic-embed-text", ep.Model())
	assert.Equal(t, 30*time.Second, ep.Timeout())
}

func TestLoadFileMergesUnderEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vexdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
host: 10.0.0.1
port: 7777
log_level: DEBUG
max_documents: 50
embedding:
  base_url: http://file-configured/v1
`), 0o600))

	// PORT in the environment must win over the file value.
	t.Setenv("PORT", "8888")

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", cfg.Host())
	assert.Equal(t, 8888, cfg.Port())
	assert.Equal(t, "DEBUG", cfg.LogLevel())
	assert.Equal(t, 50, cfg.MaxDocuments())
	assert.Equal(t, "http://file-configured/v1", cfg.EmbeddingEndpoint().BaseURL())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("VEXDB_TEST_SENTINEL=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("VEXDB_TEST_SENTINEL") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("VEXDB_TEST_SENTINEL"))
}

func TestLoadDotEnvMissingFileIgnored(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
