package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8081

[database]
host = "localhost"
user = "salon"
password = "salon"
dbname = "salon"

[logs]
level = "debug"

[auth]
jwt_secret = "secret"

[scheduling]
timezone = "Europe/Moscow"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 300, cfg.Redis.CatalogTTL)

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SALON_DATABASE_PASSWORD", "from-env")
	t.Setenv("SALON_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("SALON_RATE_LIMIT_BURST", "10")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing jwt secret",
			content: "[database]\nhost = \"localhost\"\ndbname = \"salon\"\n",
		},
		{
			name:    "unknown timezone",
			content: "[database]\nhost = \"localhost\"\ndbname = \"salon\"\n[auth]\njwt_secret = \"s\"\n[scheduling]\ntimezone = \"Mars/Olympus\"\n",
		},
		{
			name: "redis enabled without addr",
			content: `
[database]
host = "localhost"
dbname = "salon"
[auth]
jwt_secret = "secret"
[redis]
enabled = true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
