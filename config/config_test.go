package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 600, cfg.Server.RateLimit)
	assert.Equal(t, "/in", cfg.Batch.InputDir)
	assert.Equal(t, int64(10<<20), cfg.Batch.MaxFileSize)
	assert.False(t, cfg.Logs.Enabled)
	assert.Nil(t, cfg.Auth.APIKeys)
	assert.Nil(t, cfg.Server.CORSOrigins)
}

func TestLoad_Environment(t *testing.T) {
	os.Clearenv()
	t.Setenv("PORT", "8082")
	t.Setenv("RATE_LIMIT", "50")
	t.Setenv("RATE_WINDOW", "30s")
	t.Setenv("CORS_ORIGINS", " https://ops.local ,,https://yard.local")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/weight")
	t.Setenv("DB_RETRY_DELAY", "500ms")
	t.Setenv("BATCH_INPUT_DIR", "/data/in")
	t.Setenv("BATCH_MAX_FILE_SIZE", "2048")
	t.Setenv("MONGODB_ENABLED", "true")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("API_KEYS", " key1 , key2 ,, key3 ")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Server.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
	assert.Equal(t, []string{"https://ops.local", "https://yard.local"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "postgres://u:p@db:5432/weight", cfg.Database.DSN)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.RetryDelay)
	assert.Equal(t, "/data/in", cfg.Batch.InputDir)
	assert.Equal(t, int64(2048), cfg.Batch.MaxFileSize)
	assert.True(t, cfg.Logs.Enabled)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, KeySet{"key1": true, "key2": true, "key3": true}, cfg.Auth.APIKeys)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_InvalidValuesKeepDefaults(t *testing.T) {
	os.Clearenv()
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("RATE_WINDOW", "soon")
	t.Setenv("AUTH_ENABLED", "maybe")
	t.Setenv("BATCH_MAX_FILE_SIZE", "10MB")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, int64(10<<20), cfg.Batch.MaxFileSize)
}

func TestLoad_File(t *testing.T) {
	os.Clearenv()
	path := writeYAML(t, `
server:
  port: "9090"
  rate_window: 2m
database:
  dsn: postgres://file@db/weight
  breaker_timeout: 45s
batch:
  input_dir: /srv/in
auth:
  enabled: true
  api_keys: [office, " yard "]
logs:
  enabled: true
  ttl: 168h
`)
	t.Setenv("PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, 2*time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, 600, cfg.Server.RateLimit, "unset keys keep defaults")
	assert.Equal(t, "postgres://file@db/weight", cfg.Database.DSN)
	assert.Equal(t, 45*time.Second, cfg.Database.CircuitBreakerTimeout)
	assert.Equal(t, "/srv/in", cfg.Batch.InputDir)
	assert.Equal(t, KeySet{"office": true, "yard": true}, cfg.Auth.APIKeys)
	assert.Equal(t, 168*time.Hour, cfg.Logs.TTL)
	assert.Equal(t, "weight_service", cfg.Logs.DatabaseName)
}

func TestLoad_FileErrors(t *testing.T) {
	os.Clearenv()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			wantErr: "read config file",
		},
		{
			name:    "bad yaml",
			path:    func(t *testing.T) string { return writeYAML(t, "server: [port") },
			wantErr: "parse config file",
		},
		{
			name:    "api keys not a list",
			path:    func(t *testing.T) string { return writeYAML(t, "auth:\n  api_keys: office\n") },
			wantErr: "api_keys must be a list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "server port is empty"},
		{name: "limit without window", mutate: func(c *Config) { c.Server.RateWindow = 0 }, wantErr: "rate window"},
		{name: "limit disabled needs no window", mutate: func(c *Config) { c.Server.RateLimit, c.Server.RateWindow = 0, 0 }},
		{name: "empty dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: "database dsn"},
		{name: "auth without credentials", mutate: func(c *Config) { c.Auth.Enabled = true }, wantErr: "neither API_KEYS nor JWT_SECRET_KEY"},
		{name: "auth with jwt only", mutate: func(c *Config) { c.Auth.Enabled, c.Auth.JWTSecret = true, "s" }},
		{name: "sink without uri", mutate: func(c *Config) { c.Logs.Enabled, c.Logs.URI = true, "" }, wantErr: "mongodb sink"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = ""
	cfg.Batch.InputDir = ""

	err := cfg.Validate()
	assert.ErrorContains(t, err, "server port is empty")
	assert.ErrorContains(t, err, "batch input dir is empty")
}
