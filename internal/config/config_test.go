package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "STATIC_FILES_DIR", "AVIATION_API_KEY", "AVIATION_BASE_URL",
	"AVIATION_TIMEOUT_SECONDS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"QUERY_LOG_ENABLED", "QUERY_LOG_DB_PATH", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "3000", c.Server.Port)
	assert.Equal(t, "http://api.aviationstack.com/v1", c.Aviation.BaseURL)
	assert.Equal(t, 10*time.Second, c.Aviation.RequestTimeout())
	assert.Equal(t, 20, c.Aviation.DefaultFlightLimit)
	assert.Equal(t, 50, c.Aviation.DefaultCatalogLimit)
	assert.False(t, c.QueryLog.Enabled)
	assert.Equal(t, "info", c.Logging.Level)
	assert.NoError(t, c.Validate())
}

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	clearEnv(t)

	c, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_MissingAccessKeyIsNotAnError(t *testing.T) {
	clearEnv(t)

	c, err := Load("", "")
	require.NoError(t, err)
	assert.Empty(t, c.Aviation.AccessKey)
}

func TestLoad_TOMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `
[server]
port = "8081"
cors_allowed_origins = ["http://localhost:5173"]

[aviation]
access_key = "from-file"
request_timeout_seconds = 4

[query_log]
enabled = true
db_path = "/tmp/q.db"

[logging]
level = "debug"
format = "json"
`)

	c, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "8081", c.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, c.Server.CORSAllowedOrigins)
	assert.Equal(t, "from-file", c.Aviation.AccessKey)
	assert.Equal(t, 4*time.Second, c.Aviation.RequestTimeout())
	// untouched keys keep their defaults
	assert.Equal(t, 20, c.Aviation.DefaultFlightLimit)
	assert.True(t, c.QueryLog.Enabled)
	assert.Equal(t, "/tmp/q.db", c.QueryLog.DBPath)
	assert.Equal(t, "json", c.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", "[aviation]\naccess_key = \"from-file\"\n")
	t.Setenv("AVIATION_API_KEY", "from-env")
	t.Setenv("PORT", "9090")

	c, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Aviation.AccessKey)
	assert.Equal(t, "9090", c.Server.Port)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv skips keys that are present in the environment, even when empty;
	// t.Setenv in clearEnv restores the previous values afterwards.
	require.NoError(t, os.Unsetenv("AVIATION_API_KEY"))
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
	envPath := writeFile(t, ".env", "AVIATION_API_KEY=dotenv-key\nLOG_LEVEL=warn\n")

	c, err := Load("", envPath)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", c.Aviation.AccessKey)
	assert.Equal(t, "warn", c.Logging.Level)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"non-numeric port", func(c *Config) { c.Server.Port = "http" }},
		{"no base url", func(c *Config) { c.Aviation.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Aviation.RequestTimeoutSeconds = 0 }},
		{"zero flight limit", func(c *Config) { c.Aviation.DefaultFlightLimit = 0 }},
		{"negative rate", func(c *Config) { c.RateLimit.RequestsPerSecond = -1 }},
		{"query log without path", func(c *Config) {
			c.QueryLog.Enabled = true
			c.QueryLog.DBPath = ""
		}},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, ":3000", ServerConfig{Port: "3000"}.Addr())
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Host: "127.0.0.1", Port: "8080"}.Addr())
}
