/*
Package limiter provides request rate limiting for the state inspector, keyed by client IP address.

It utilizes the Token Bucket algorithm (rate.Limiter) to bound how fast an external view
layer may push messages through the inspector, and sweeps idle limiters periodically so the
map does not grow without bound.
*/
package limiter

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"chatsync/internal/pkg/errs"
	"chatsync/internal/pkg/logx"
	"chatsync/internal/pkg/resp"
)

// sweepInterval is how often idle limiters are removed.
const sweepInterval = 3 * time.Minute

// KeyedLimiter holds one token bucket per key (client IP address).
type KeyedLimiter struct {
	// mu protects limits.
	mu sync.Mutex

	// limits maps a key to its token bucket.
	limits map[string]*rate.Limiter

	// r and b configure every bucket created by the limiter.
	r rate.Limit
	b int
}

// New creates a KeyedLimiter allowing r events per second with burst b per key.
func New(r rate.Limit, b int) *KeyedLimiter {
	return &KeyedLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}
}

// Get returns the bucket for key, creating it on first use.
func (l *KeyedLimiter) Get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limits[key]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.limits[key] = limiter
	}
	return limiter
}

// Allow reports whether one event for key may happen now.
func (l *KeyedLimiter) Allow(key string) bool {
	return l.Get(key).Allow()
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limits)
}

// Sweep removes buckets that have refilled completely, i.e. keys that have been idle.
// It returns the number of keys removed.
func (l *KeyedLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, limiter := range l.limits {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(l.limits, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle buckets periodically until ctx is done.
func (l *KeyedLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := l.Sweep(now)
			logx.Debug("Rate limiter sweep finished", "removed", removed, "active", l.Len())
		}
	}
}

// Middleware returns an HTTP middleware that rejects requests over the limit
// with a 429 Too Many Requests error.
func (l *KeyedLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if ip == "" {
		ip = "unknown_ip"
	}
	return ip
}
