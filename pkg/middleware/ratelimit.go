package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/opskit/stockroom/pkg/httputil"
)

// ThrottleConfig defines rate limiting for the public auth endpoints
type ThrottleConfig struct {
	// RequestsPerWindow is the max requests allowed in the time window
	RequestsPerWindow int
	// WindowDuration is the time window for rate limiting
	WindowDuration time.Duration
	// BurstSize allows temporary bursts above the rate
	BurstSize int
}

// DefaultThrottleConfig returns throttle settings suitable for
// credential endpoints, where sustained high request rates from a
// single address indicate guessing rather than legitimate use.
func DefaultThrottleConfig() *ThrottleConfig {
	return &ThrottleConfig{
		RequestsPerWindow: 30,
		WindowDuration:    time.Minute,
		BurstSize:         10,
	}
}

// Throttle implements per-client rate limiting using a token bucket.
// Buckets are kept in memory, keyed by client IP.
type Throttle struct {
	config  *ThrottleConfig
	buckets map[string]*bucket
	mu      sync.RWMutex
}

type bucket struct {
	tokens     int
	lastUpdate time.Time
	mu         sync.Mutex
}

// NewThrottle creates a new throttle
func NewThrottle(config *ThrottleConfig) *Throttle {
	if config == nil {
		config = DefaultThrottleConfig()
	}

	return &Throttle{
		config:  config,
		buckets: make(map[string]*bucket),
	}
}

// Allow checks if a request is allowed for the given key
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	b, exists := t.buckets[key]
	if !exists {
		b = &bucket{
			tokens:     t.config.RequestsPerWindow + t.config.BurstSize,
			lastUpdate: time.Now(),
		}
		t.buckets[key] = b
	}
	t.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastUpdate)

	// Refill tokens based on elapsed time
	tokensToAdd := int(elapsed.Seconds() * float64(t.config.RequestsPerWindow) / t.config.WindowDuration.Seconds())
	if tokensToAdd > 0 {
		b.tokens += tokensToAdd
		maxTokens := t.config.RequestsPerWindow + t.config.BurstSize
		if b.tokens > maxTokens {
			b.tokens = maxTokens
		}
		b.lastUpdate = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// Remaining returns the number of remaining tokens for a key
func (t *Throttle) Remaining(key string) int {
	t.mu.RLock()
	b, exists := t.buckets[key]
	t.mu.RUnlock()

	if !exists {
		return t.config.RequestsPerWindow + t.config.BurstSize
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.tokens
}

// Cleanup removes buckets that have been idle for two windows
func (t *Throttle) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for key, b := range t.buckets {
		b.mu.Lock()
		if now.Sub(b.lastUpdate) > t.config.WindowDuration*2 {
			delete(t.buckets, key)
		}
		b.mu.Unlock()
	}
}

// StartCleanup starts a background goroutine to cleanup idle buckets
func (t *Throttle) StartCleanup(ctx context.Context) {
	ticker := time.NewTicker(t.config.WindowDuration)
	go func() {
		for {
			select {
			case <-ticker.C:
				t.Cleanup()
			case <-ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()
}

// Handler wraps an HTTP handler with per-IP rate limiting. It is
// mounted on the signup and login routes, which accept requests
// without any token.
func (t *Throttle) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + clientIP(r)

		if !t.Allow(key) {
			t.throttled(w)
			return
		}

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", t.config.RequestsPerWindow))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", t.Remaining(key)))

		next.ServeHTTP(w, r)
	})
}

func (t *Throttle) throttled(w http.ResponseWriter) {
	retryAfter := t.config.WindowDuration.Seconds()
	w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter))
	w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", t.config.RequestsPerWindow))
	w.Header().Set("X-RateLimit-Remaining", "0")
	httputil.WriteErrorMessage(w, http.StatusTooManyRequests, "too many requests")
}

func clientIP(r *http.Request) string {
	// Behind a proxy the remote address is the proxy itself. Only the
	// first hop of X-Forwarded-For names the client; later hops are
	// appended by intermediaries and can be forged.
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
