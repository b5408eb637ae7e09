package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the per-client sliding window limiter.
type RateLimitConfig struct {
	// Max requests per Window. Zero disables limiting.
	Max    int
	Window time.Duration
	// KeyFunc identifies the client. Defaults to ClientIP.
	KeyFunc func(*http.Request) string
}

// window counts requests in the current fixed window and remembers the
// previous one; the effective count weights the previous window by how much
// of it still overlaps the sliding window.
type window struct {
	start     time.Time
	count     float64
	prevCount float64
}

type limiter struct {
	max    int
	size   time.Duration
	key    func(*http.Request) string
	now    func() time.Time
	mu     sync.Mutex
	counts map[string]*window
}

func newLimiter(cfg RateLimitConfig) *limiter {
	key := cfg.KeyFunc
	if key == nil {
		key = ClientIP
	}
	return &limiter{
		max:    cfg.Max,
		size:   cfg.Window,
		key:    key,
		now:    time.Now,
		counts: make(map[string]*window),
	}
}

// take records one request for key. It reports the remaining budget, when
// the current window ends and whether the request is admitted.
func (l *limiter) take(key string) (remaining int, reset time.Time, ok bool) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, found := l.counts[key]
	if !found {
		w = &window{start: now.Truncate(l.size)}
		l.counts[key] = w
	}
	if elapsed := now.Sub(w.start); elapsed >= l.size {
		w.prevCount = w.count
		if elapsed >= 2*l.size {
			w.prevCount = 0
		}
		w.count = 0
		w.start = now.Truncate(l.size)
	}

	overlap := max(0, 1-now.Sub(w.start).Seconds()/l.size.Seconds())
	effective := w.prevCount*overlap + w.count
	reset = w.start.Add(l.size)
	if effective >= float64(l.max) {
		return 0, reset, false
	}
	w.count++
	return max(0, int(float64(l.max)-effective-1)), reset, true
}

// sweep drops clients idle for two windows.
func (l *limiter) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.counts {
		if now.Sub(w.start) >= 2*l.size {
			delete(l.counts, key)
		}
	}
}

// RateLimit rejects clients over budget with 429. Every limited response
// carries X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return newLimiter(cfg).middleware
}

// RateLimitWithCleanup is RateLimit plus a goroutine that evicts idle
// clients until ctx is done.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return RateLimit(cfg)
	}
	l := newLimiter(cfg)
	go func() {
		ticker := time.NewTicker(2 * l.size)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.sweep()
			}
		}
	}()
	return l.middleware
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remaining, reset, ok := l.take(l.key(r))

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !ok {
			retry := max(0, reset.Sub(l.now()))
			h.Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
