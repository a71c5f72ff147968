package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/kbukum/longreader/errors"
	"github.com/kbukum/longreader/resilience"
)

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained rate allowed per client.
	RequestsPerMinute int
	// Burst is how many requests a client may make back to back.
	Burst int
	// KeyFunc extracts the client key. Defaults to the remote IP.
	KeyFunc func(*http.Request) string
	// Paths limits the middleware to these exact paths. Empty means all.
	Paths []string
}

// RateLimit rejects requests with 429 once a client exceeds its token
// bucket. Each client gets its own resilience.RateLimiter.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = RemoteIPKey
	}
	paths := make(map[string]bool, len(cfg.Paths))
	for _, p := range cfg.Paths {
		paths[p] = true
	}
	clients := &clientLimiters{cfg: cfg, limiters: make(map[string]*clientLimiter)}
	body, _ := json.Marshal(errors.RateLimited("longreader").ToResponse())
	retryAfter := strconv.Itoa(int((time.Minute / time.Duration(cfg.RequestsPerMinute)).Seconds()) + 1)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(paths) > 0 && !paths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if !clients.get(cfg.KeyFunc(r)).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				writeError(w, http.StatusTooManyRequests, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RemoteIPKey keys clients by the host part of the remote address.
func RemoteIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

const idleClientTTL = 10 * time.Minute

type clientLimiter struct {
	*resilience.RateLimiter
	lastSeen time.Time
}

type clientLimiters struct {
	cfg      RateLimitConfig
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	pruned   time.Time
}

func (c *clientLimiters) get(key string) *clientLimiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.pruned) > idleClientTTL {
		for k, l := range c.limiters {
			if now.Sub(l.lastSeen) > idleClientTTL {
				delete(c.limiters, k)
			}
		}
		c.pruned = now
	}

	l, ok := c.limiters[key]
	if !ok {
		l = &clientLimiter{RateLimiter: resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:  "http:" + key,
			Rate:  float64(c.cfg.RequestsPerMinute) / 60,
			Burst: c.cfg.Burst,
		})}
		c.limiters[key] = l
	}
	l.lastSeen = now
	return l
}
