package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the tests touch. Registering each key with
// t.Setenv first makes the test restore the previous values.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "SESSION_SECRET", "SESSION_STORE", "SESSION_REDIS_URL",
		"SESSION_TTL", "SERVER_PORT", "AUTH_BCRYPT_COST", "RATE_LIMIT_RPS",
		"SMTP_HOST", "SERVER_TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeEnvFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "/metrics", cfg.Monitoring.Path)
	assert.Equal(t, "careportal", cfg.Monitoring.Namespace)
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", EnvProduction)

	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestLoadConfigReadsEnvFileOutsideProduction(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "SESSION_SECRET=from-file\nSERVER_PORT=4000\nSESSION_TTL=2h\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Session.Secret)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoadConfigEnvironmentWinsOverEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "from-env")
	path := writeEnvFile(t, "SESSION_SECRET=from-file\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Session.Secret)
}

func TestLoadConfigKeepsVariablesSetEmpty(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_HOST", "")
	path := writeEnvFile(t, "SESSION_SECRET=from-file\nSMTP_HOST=mail.example.com\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.SMTP.Host)
}

func TestLoadConfigTrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s3cret")

	missing := filepath.Join(t.TempDir(), "missing.env")

	cfg, err := LoadConfig(missing)
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.TrustedProxies)

	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.1,10.0.0.0/8")
	cfg, err = LoadConfig(missing)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/8"}, cfg.Server.TrustedProxies)
}

func TestLoadConfigIgnoresEnvFileInProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", EnvProduction)
	path := writeEnvFile(t, "SESSION_SECRET=from-file\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRedisStoreNeedsURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_STORE", "redis")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "RedisURL")

	t.Setenv("SESSION_REDIS_URL", "redis://localhost:6379/0")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Session.RedisURL)
}
