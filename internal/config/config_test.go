package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9990, cfg.Server.Port)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 4, cfg.Qualify.Workers)
	assert.Equal(t, 20*time.Second, cfg.Qualify.LeadTimeout())
	assert.Equal(t, 120*time.Second, cfg.Qualify.BatchTimeout())
	assert.Equal(t, 500, cfg.Qualify.MaxBatchSize)
	assert.Equal(t, 2, cfg.Retry.MaxRetries)
	assert.Equal(t, 250, cfg.Retry.InitialBackoffMs)
	assert.Equal(t, 4000, cfg.Retry.MaxBackoffMs)
	assert.InDelta(t, 2.0, cfg.Retry.Multiplier, 0.001)
	assert.InDelta(t, 0.25, cfg.Retry.JitterFraction, 0.001)
	assert.Equal(t, 8*time.Second, cfg.Retry.AttemptTimeout())
	assert.Equal(t, "https://www.linkedin.com/voyager/api", cfg.LinkedIn.BaseURL)
	assert.Equal(t, "https://api.twitter.com", cfg.Twitter.BaseURL)
	assert.InDelta(t, 2.0, cfg.Twitter.RatePerSec, 0.001)
	assert.Equal(t, 5, cfg.Twitter.Burst)
	assert.Equal(t, 2000, cfg.Facebook.MaxWaitMs)
	assert.Equal(t, 10*time.Second, cfg.Instagram.Timeout())
	assert.Empty(t, cfg.LinkedIn.AccessToken)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
qualify:
  workers: 8
twitter:
  bearer_token: from-file
  burst: 9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Qualify.Workers)
	assert.Equal(t, "from-file", cfg.Twitter.BearerToken)
	assert.Equal(t, 9, cfg.Twitter.Burst)
	// Defaults still apply for unset values
	assert.Equal(t, 20, cfg.Qualify.LeadTimeoutSecs)
	assert.InDelta(t, 2.0, cfg.Twitter.RatePerSec, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
twitter:
  bearer_token: from-file
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LEADQ_LOG_LEVEL", "warn")
	t.Setenv("LEADQ_TWITTER_BEARER_TOKEN", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.Twitter.BearerToken)
}

func TestLoadEnvCredentials(t *testing.T) {
	chdirTemp(t)

	t.Setenv("LEADQ_LINKEDIN_ACCESS_TOKEN", "li-token")
	t.Setenv("LEADQ_INSTAGRAM_APP_ID", "ig-app")
	t.Setenv("LEADQ_FACEBOOK_COOKIE", "c_user=1")
	t.Setenv("LEADQ_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "li-token", cfg.LinkedIn.AccessToken)
	assert.Equal(t, "ig-app", cfg.Instagram.AppID)
	assert.Equal(t, "c_user=1", cfg.Facebook.Cookie)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 9990
	cfg.Server.MaxBodyBytes = 1 << 20
	cfg.Qualify = QualifyConfig{Workers: 4, LeadTimeoutSecs: 20, BatchTimeoutSecs: 120, MaxBatchSize: 500}
	cfg.Retry = RetryConfig{MaxRetries: 2, InitialBackoffMs: 250, MaxBackoffMs: 4000, Multiplier: 2, JitterFraction: 0.25, AttemptTimeoutSecs: 8}
	rate := RateConfig{RatePerSec: 1, Burst: 2, MaxWaitMs: 2000, TimeoutSecs: 10}
	cfg.LinkedIn.RateConfig = rate
	cfg.Instagram.RateConfig = rate
	cfg.Facebook.RateConfig = rate
	cfg.Twitter.RateConfig = rate
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("serve"))
	assert.NoError(t, cfg.Validate("qualify"))
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be between 1 and 65535")

	// Port is irrelevant for file-based qualification.
	assert.NoError(t, cfg.Validate("qualify"))
}

func TestValidate_UnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"workers zero", func(c *Config) { c.Qualify.Workers = 0 }, "qualify.workers must be between 1 and 64"},
		{"workers too many", func(c *Config) { c.Qualify.Workers = 65 }, "qualify.workers must be between 1 and 64"},
		{"lead timeout", func(c *Config) { c.Qualify.LeadTimeoutSecs = 0 }, "qualify.lead_timeout_secs"},
		{"batch shorter than lead", func(c *Config) { c.Qualify.BatchTimeoutSecs = 5 }, "qualify.batch_timeout_secs"},
		{"retries negative", func(c *Config) { c.Retry.MaxRetries = -1 }, "retry.max_retries"},
		{"jitter", func(c *Config) { c.Retry.JitterFraction = 1.5 }, "retry.jitter_fraction"},
		{"twitter burst", func(c *Config) { c.Twitter.Burst = 0 }, "twitter.rate_per_sec and twitter.burst"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("qualify")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
