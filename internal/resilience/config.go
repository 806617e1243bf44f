package resilience

import (
	"time"
)

// FromRetryConfig converts config values to a RetryConfig. maxRetries counts
// retries after the first attempt; a negative value keeps the default.
func FromRetryConfig(maxRetries, initialBackoffMs, maxBackoffMs int, multiplier, jitterFraction float64) RetryConfig {
	cfg := DefaultRetryConfig()
	if maxRetries >= 0 {
		cfg.MaxAttempts = maxRetries + 1
	}
	if initialBackoffMs > 0 {
		cfg.InitialBackoff = time.Duration(initialBackoffMs) * time.Millisecond
	}
	if maxBackoffMs > 0 {
		cfg.MaxBackoff = time.Duration(maxBackoffMs) * time.Millisecond
	}
	if multiplier > 0 {
		cfg.Multiplier = multiplier
	}
	if jitterFraction >= 0 {
		cfg.JitterFraction = jitterFraction
	}
	return cfg
}

// FromLimiterConfig converts config values to a LimiterConfig. Zero values
// keep the defaults.
func FromLimiterConfig(ratePerSec float64, burst, maxWaitMs int) LimiterConfig {
	cfg := DefaultLimiterConfig()
	if ratePerSec > 0 {
		cfg.RatePerSec = ratePerSec
	}
	if burst > 0 {
		cfg.Burst = burst
	}
	if maxWaitMs > 0 {
		cfg.MaxWait = time.Duration(maxWaitMs) * time.Millisecond
	}
	return cfg
}
