package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viperFor(t *testing.T, toml string) *viper.Viper {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	return v
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	t.Setenv(envAPIBase, "")
	t.Setenv(envRedisHost, "")
	t.Setenv(envRedisPort, "")

	cfg, err := load(viperFor(t, `
ServicePort = 9000

[API]
BaseURL = "http://cms.local/api"
Timeout = "3s"
`))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.ServiceHost)
	assert.Equal(t, []string{"admin"}, cfg.Session.Roles)
	assert.Equal(t, 9000, cfg.ServicePort)
	assert.Equal(t, "http://cms.local/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, int64(5<<20), cfg.Assets.MaxBytes)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel())
	assert.Equal(t, 10*time.Second, cfg.Redis.DialTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(envAPIBase, "https://cms.example.com/api")
	t.Setenv(envRedisHost, "redis")
	t.Setenv(envRedisPort, "6380")
	t.Setenv(envRedisPass, "secret")

	cfg, err := load(viperFor(t, `
[API]
BaseURL = "http://ignored/api"

[Session]
Backend = "Redis"

[Log]
Level = "debug"
`))
	require.NoError(t, err)

	assert.Equal(t, "https://cms.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, "redis:6380", cfg.RedisAddr())
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(envAPIBase, "")
	t.Setenv(envRedisHost, "")
	t.Setenv(envRedisPort, "")

	tests := []struct {
		name string
		toml string
	}{
		{name: "missing api base url", toml: `ServicePort = 8081`},
		{name: "bad port", toml: "ServicePort = 70000\n[API]\nBaseURL = \"http://x/api\""},
		{name: "redis backend without redis", toml: "[API]\nBaseURL = \"http://x/api\"\n[Session]\nBackend = \"redis\""},
		{name: "unknown backend", toml: "[API]\nBaseURL = \"http://x/api\"\n[Session]\nBackend = \"files\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(viperFor(t, tt.toml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_BadRedisPort(t *testing.T) {
	t.Setenv(envRedisPort, "six")

	_, err := load(viperFor(t, "[API]\nBaseURL = \"http://x/api\""))
	assert.ErrorContains(t, err, "redis port")
}
