package source

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/config"
	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/resilience"
	"github.com/sells-group/lead-qualifier/pkg/facebook"
	"github.com/sells-group/lead-qualifier/pkg/instagram"
	"github.com/sells-group/lead-qualifier/pkg/linkedin"
	"github.com/sells-group/lead-qualifier/pkg/sourcehttp"
	"github.com/sells-group/lead-qualifier/pkg/twitter"
)

// NewLimiterSet builds one token bucket config per source from cfg.
func NewLimiterSet(cfg *config.Config) *resilience.LimiterSet {
	rc := func(r config.RateConfig) resilience.LimiterConfig {
		return resilience.FromLimiterConfig(r.RatePerSec, r.Burst, r.MaxWaitMs)
	}
	return resilience.NewLimiterSet(resilience.DefaultLimiterConfig(), map[string]resilience.LimiterConfig{
		string(model.SourceLinkedIn):  rc(cfg.LinkedIn.RateConfig),
		string(model.SourceInstagram): rc(cfg.Instagram.RateConfig),
		string(model.SourceFacebook):  rc(cfg.Facebook.RateConfig),
		string(model.SourceTwitter):   rc(cfg.Twitter.RateConfig),
	})
}

// NewRegistryFromConfig wires every source client, adapter and guard.
// Sources without credentials are still registered; their adapters report
// auth_error without calling out.
func NewRegistryFromConfig(cfg *config.Config, limiters *resilience.LimiterSet) *Registry {
	retry := resilience.FromRetryConfig(
		cfg.Retry.MaxRetries,
		cfg.Retry.InitialBackoffMs,
		cfg.Retry.MaxBackoffMs,
		cfg.Retry.Multiplier,
		cfg.Retry.JitterFraction,
	)
	reg := NewRegistry(retry, cfg.Retry.AttemptTimeout())
	log := zap.L().With(zap.String("component", "source_registry"))

	var li linkedin.Client
	if cfg.LinkedIn.AccessToken != "" {
		li = linkedin.NewClient(cfg.LinkedIn.AccessToken,
			linkedin.WithBaseURL(cfg.LinkedIn.BaseURL),
			linkedin.WithHTTPClient(httpClient(cfg.LinkedIn.Timeout())),
		)
	} else {
		log.Warn("linkedin credentials not configured; source will be skipped")
	}
	reg.Register(NewLinkedIn(li), limiters.Get(string(model.SourceLinkedIn)))

	var ig instagram.Client
	if cfg.Instagram.AppID != "" {
		ig = instagram.NewClient(cfg.Instagram.AppID,
			instagram.WithBaseURL(cfg.Instagram.BaseURL),
			instagram.WithSessionID(cfg.Instagram.SessionID),
			instagram.WithHTTPClient(httpClient(cfg.Instagram.Timeout())),
		)
	} else {
		log.Warn("instagram credentials not configured; source will be skipped")
	}
	reg.Register(NewInstagram(ig), limiters.Get(string(model.SourceInstagram)))

	var fb facebook.Client
	if cfg.Facebook.Cookie != "" {
		fb = facebook.NewClient(cfg.Facebook.Cookie,
			facebook.WithBaseURL(cfg.Facebook.BaseURL),
			facebook.WithUserAgent(cfg.Facebook.UserAgent),
			facebook.WithHTTPClient(httpClient(cfg.Facebook.Timeout())),
		)
	} else {
		log.Warn("facebook cookie not configured; source will be skipped")
	}
	reg.Register(NewFacebook(fb), limiters.Get(string(model.SourceFacebook)))

	var tw twitter.Client
	if cfg.Twitter.BearerToken != "" {
		tw = twitter.NewClient(cfg.Twitter.BearerToken,
			twitter.WithBaseURL(cfg.Twitter.BaseURL),
			twitter.WithHTTPClient(httpClient(cfg.Twitter.Timeout())),
		)
	} else {
		log.Warn("twitter credentials not configured; source will be skipped")
	}
	reg.Register(NewTwitter(tw), limiters.Get(string(model.SourceTwitter)))

	return reg
}

func httpClient(timeout time.Duration) *http.Client {
	return sourcehttp.NewHTTPClient(timeout)
}

// Configured reports which sources have credentials in cfg.
func Configured(cfg *config.Config) map[model.Source]bool {
	return map[model.Source]bool{
		model.SourceLinkedIn:  cfg.LinkedIn.AccessToken != "",
		model.SourceInstagram: cfg.Instagram.AppID != "",
		model.SourceFacebook:  cfg.Facebook.Cookie != "",
		model.SourceTwitter:   cfg.Twitter.BearerToken != "",
	}
}
