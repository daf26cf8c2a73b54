package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
auth:
  secret: file-secret
llm:
  model: mistral
  timeout: 90s
storage:
  driver: sqlite
  sqlite:
    path: /tmp/app.db
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_MODEL", "llama3.2:3b")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "file-secret", cfg.Auth.Secret)
	require.Equal(t, "llama3.2:3b", cfg.LLM.Model)
	require.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	require.Equal(t, DriverSQLite, cfg.Storage.Driver)
	require.Equal(t, "/tmp/app.db", cfg.Storage.SQLite.Path)
	require.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, 4096, cfg.LLM.ContextWindow)
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, "llama3.2:1b", cfg.LLM.Model)
	require.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	require.Zero(t, cfg.LLM.Timeout)
	require.Equal(t, 256, cfg.LLM.MaxOutputTokens)
	require.InDelta(t, 1.15, cfg.LLM.RepeatPenalty, 1e-9)
	require.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.Secret = "" }, wantErr: "auth.secret"},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "mongo" }, wantErr: "not supported"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, wantErr: "storage.postgres.dsn"},
		{name: "negative llm timeout", mutate: func(c *Config) { c.LLM.Timeout = -time.Second }, wantErr: "llm.timeout"},
		{name: "cache without addr", mutate: func(c *Config) { c.Cache.Enabled = true }, wantErr: "cache.addr"},
		{name: "archive without bucket", mutate: func(c *Config) { c.Archive.Enabled = true; c.Archive.Endpoint = "https://r2" }, wantErr: "archive.bucket"},
		{name: "bad encryption key", mutate: func(c *Config) { c.Auth.Google.TokenEncryptionKey = "short" }, wantErr: "tokenEncryptionKey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Auth.Secret = "secret"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
