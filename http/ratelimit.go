package http

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterConfig defines per-domain request rates in requests per second.
// A rate of 0 for a domain means that domain is not limited.
type RateLimiterConfig struct {
	// WatchPageRPS limits requests to www.youtube.com watch and playlist
	// pages. Watch pages are the most bot-sensitive surface.
	WatchPageRPS float64
	// ThumbnailRPS limits requests to the thumbnail CDN (i.ytimg.com).
	ThumbnailRPS float64
	// DefaultRPS applies to any other domain (e.g. a screenshot service).
	DefaultRPS float64
	// CustomRates maps domain substrings to RPS values, overriding the
	// built-in buckets.
	CustomRates map[string]float64
}

// DefaultRateLimiterConfig returns conservative rates for scraping surfaces.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		WatchPageRPS: 2.0,
		ThumbnailRPS: 8.0,
		DefaultRPS:   4.0,
		CustomRates:  make(map[string]float64),
	}
}

// RateLimiter applies a token bucket per domain.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	config   RateLimiterConfig
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.CustomRates == nil {
		cfg.CustomRates = make(map[string]float64)
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		config:   cfg,
	}
}

// Wait blocks until the rate limit allows a request to the given URL, or the
// context is done.
func (rl *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	if rl == nil {
		return nil
	}
	limiter := rl.limiterFor(extractDomain(urlStr))
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// limiterFor returns the token bucket for a domain, creating it on first use.
// A nil return means the domain is unlimited.
func (rl *RateLimiter) limiterFor(domain string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limiters[domain]; ok {
		return l
	}

	rps := rl.rateFor(domain)
	if rps <= 0 {
		rl.limiters[domain] = nil
		return nil
	}

	l := rate.NewLimiter(rate.Limit(rps), 1)
	rl.limiters[domain] = l
	return l
}

func (rl *RateLimiter) rateFor(domain string) float64 {
	for pattern, rps := range rl.config.CustomRates {
		if strings.Contains(domain, pattern) {
			return rps
		}
	}
	switch {
	case strings.Contains(domain, "youtube.com"):
		return rl.config.WatchPageRPS
	case strings.Contains(domain, "ytimg.com"):
		return rl.config.ThumbnailRPS
	default:
		return rl.config.DefaultRPS
	}
}

// extractDomain returns the host part of a URL, or the raw string if it does
// not parse. The raw string still buckets consistently.
func extractDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return urlStr
	}
	return u.Host
}
