package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Qualify   QualifyConfig   `yaml:"qualify" mapstructure:"qualify"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	LinkedIn  LinkedInConfig  `yaml:"linkedin" mapstructure:"linkedin"`
	Instagram InstagramConfig `yaml:"instagram" mapstructure:"instagram"`
	Facebook  FacebookConfig  `yaml:"facebook" mapstructure:"facebook"`
	Twitter   TwitterConfig   `yaml:"twitter" mapstructure:"twitter"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port         int      `yaml:"port" mapstructure:"port"`
	MaxBodyBytes int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	CORSOrigins  []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// QualifyConfig configures batch qualification.
type QualifyConfig struct {
	Workers          int `yaml:"workers" mapstructure:"workers"`
	LeadTimeoutSecs  int `yaml:"lead_timeout_secs" mapstructure:"lead_timeout_secs"`
	BatchTimeoutSecs int `yaml:"batch_timeout_secs" mapstructure:"batch_timeout_secs"`
	MaxBatchSize     int `yaml:"max_batch_size" mapstructure:"max_batch_size"`
}

// LeadTimeout returns the per-lead deadline.
func (q QualifyConfig) LeadTimeout() time.Duration {
	return time.Duration(q.LeadTimeoutSecs) * time.Second
}

// BatchTimeout returns the whole-batch deadline.
func (q QualifyConfig) BatchTimeout() time.Duration {
	return time.Duration(q.BatchTimeoutSecs) * time.Second
}

// RetryConfig configures source fetch retries.
type RetryConfig struct {
	MaxRetries         int     `yaml:"max_retries" mapstructure:"max_retries"`
	InitialBackoffMs   int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs       int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Multiplier         float64 `yaml:"multiplier" mapstructure:"multiplier"`
	JitterFraction     float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
	AttemptTimeoutSecs int     `yaml:"attempt_timeout_secs" mapstructure:"attempt_timeout_secs"`
}

// AttemptTimeout returns the deadline applied to a single fetch attempt.
func (r RetryConfig) AttemptTimeout() time.Duration {
	return time.Duration(r.AttemptTimeoutSecs) * time.Second
}

// RateConfig is the token bucket and timeout shared by every source section.
type RateConfig struct {
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
	MaxWaitMs   int     `yaml:"max_wait_ms" mapstructure:"max_wait_ms"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the HTTP client timeout for the source.
func (r RateConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// LinkedInConfig holds LinkedIn credentials and limits.
type LinkedInConfig struct {
	RateConfig `yaml:",inline" mapstructure:",squash"`

	AccessToken string `yaml:"access_token" mapstructure:"access_token"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
}

// InstagramConfig holds Instagram credentials and limits.
type InstagramConfig struct {
	RateConfig `yaml:",inline" mapstructure:",squash"`

	AppID     string `yaml:"app_id" mapstructure:"app_id"`
	SessionID string `yaml:"session_id" mapstructure:"session_id"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
}

// FacebookConfig holds the Facebook session cookie and limits.
type FacebookConfig struct {
	RateConfig `yaml:",inline" mapstructure:",squash"`

	Cookie    string `yaml:"cookie" mapstructure:"cookie"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// TwitterConfig holds the Twitter bearer token and limits.
type TwitterConfig struct {
	RateConfig `yaml:",inline" mapstructure:",squash"`

	BearerToken string `yaml:"bearer_token" mapstructure:"bearer_token"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
}

// ScoringConfig configures the scoring model.
type ScoringConfig struct {
	WeightsFile          string   `yaml:"weights_file" mapstructure:"weights_file"`
	PersonalEmailDomains []string `yaml:"personal_email_domains" mapstructure:"personal_email_domains"`
}

var sourceDefaults = map[string]struct {
	baseURL string
	rate    float64
	burst   int
}{
	"linkedin":  {"https://www.linkedin.com/voyager/api", 1, 2},
	"instagram": {"https://i.instagram.com", 1, 2},
	"facebook":  {"https://mbasic.facebook.com", 0.5, 1},
	"twitter":   {"https://api.twitter.com", 2, 5},
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 9990)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("qualify.workers", 4)
	v.SetDefault("qualify.lead_timeout_secs", 20)
	v.SetDefault("qualify.batch_timeout_secs", 120)
	v.SetDefault("qualify.max_batch_size", 500)
	v.SetDefault("retry.max_retries", 2)
	v.SetDefault("retry.initial_backoff_ms", 250)
	v.SetDefault("retry.max_backoff_ms", 4000)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter_fraction", 0.25)
	v.SetDefault("retry.attempt_timeout_secs", 8)
	for name, d := range sourceDefaults {
		v.SetDefault(name+".base_url", d.baseURL)
		v.SetDefault(name+".rate_per_sec", d.rate)
		v.SetDefault(name+".burst", d.burst)
		v.SetDefault(name+".max_wait_ms", 2000)
		v.SetDefault(name+".timeout_secs", 10)
	}
	// Empty credential defaults let AutomaticEnv resolve them on Unmarshal.
	v.SetDefault("linkedin.access_token", "")
	v.SetDefault("instagram.app_id", "")
	v.SetDefault("instagram.session_id", "")
	v.SetDefault("facebook.cookie", "")
	v.SetDefault("facebook.user_agent", "")
	v.SetDefault("twitter.bearer_token", "")
	v.SetDefault("scoring.weights_file", "")
	v.SetDefault("scoring.personal_email_domains", []string{})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
		if c.Server.MaxBodyBytes <= 0 {
			errs = append(errs, "server.max_body_bytes must be > 0")
		}
	case "qualify":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Qualify.Workers < 1 || c.Qualify.Workers > 64 {
		errs = append(errs, "qualify.workers must be between 1 and 64")
	}
	if c.Qualify.LeadTimeoutSecs <= 0 {
		errs = append(errs, "qualify.lead_timeout_secs must be > 0")
	}
	if c.Qualify.BatchTimeoutSecs < c.Qualify.LeadTimeoutSecs {
		errs = append(errs, "qualify.batch_timeout_secs must be >= qualify.lead_timeout_secs")
	}
	if c.Qualify.MaxBatchSize <= 0 {
		errs = append(errs, "qualify.max_batch_size must be > 0")
	}
	if c.Retry.MaxRetries < 0 || c.Retry.MaxRetries > 10 {
		errs = append(errs, "retry.max_retries must be between 0 and 10")
	}
	if c.Retry.JitterFraction < 0 || c.Retry.JitterFraction > 1 {
		errs = append(errs, "retry.jitter_fraction must be between 0 and 1")
	}
	if c.Retry.AttemptTimeoutSecs <= 0 {
		errs = append(errs, "retry.attempt_timeout_secs must be > 0")
	}
	for _, s := range []struct {
		name string
		rate RateConfig
	}{
		{"linkedin", c.LinkedIn.RateConfig},
		{"instagram", c.Instagram.RateConfig},
		{"facebook", c.Facebook.RateConfig},
		{"twitter", c.Twitter.RateConfig},
	} {
		if s.rate.RatePerSec <= 0 || s.rate.Burst <= 0 {
			errs = append(errs, s.name+".rate_per_sec and "+s.name+".burst must be > 0")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
