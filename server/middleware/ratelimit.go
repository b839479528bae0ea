package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/kbukum/storekit/errors"
)

// RateLimitConfig sets a per-client budget. Each client holds a bucket of
// RequestsPerMinute tokens that refills continuously over a minute.
type RateLimitConfig struct {
	// RequestsPerMinute is the bucket size and refill rate. Zero disables the limit.
	RequestsPerMinute int
	// KeyFunc identifies the client. Defaults to ClientIP.
	KeyFunc func(*http.Request) string
}

// RateLimit answers requests over budget with 429, a Retry-After hint and a
// RATE_LIMITED body. The server puts it in front of POST /fetch, the only
// route that reaches upstream.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.RequestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	b := newBuckets(cfg.RequestsPerMinute, time.Now)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wait, ok := b.take(cfg.KeyFunc(r)); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeError(w, errors.RateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type bucket struct {
	tokens float64
	seen   time.Time
}

type buckets struct {
	mu       sync.Mutex
	byKey    map[string]*bucket
	capacity float64
	perToken time.Duration
	now      func() time.Time
	takes    int
}

func newBuckets(perMinute int, now func() time.Time) *buckets {
	return &buckets{
		byKey:    make(map[string]*bucket),
		capacity: float64(perMinute),
		perToken: time.Minute / time.Duration(perMinute),
		now:      now,
	}
}

// take spends one token of key's bucket. When the bucket is empty it
// reports how long until the next token.
func (b *buckets) take(key string) (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.takes++; b.takes%1024 == 0 {
		b.dropIdle(now)
	}

	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{tokens: b.capacity, seen: now}
		b.byKey[key] = bk
	}
	bk.tokens = min(b.capacity, bk.tokens+float64(now.Sub(bk.seen))/float64(b.perToken))
	bk.seen = now

	if bk.tokens < 1 {
		return time.Duration((1 - bk.tokens) * float64(b.perToken)), false
	}
	bk.tokens--
	return 0, true
}

// dropIdle forgets buckets that have refilled completely. Callers hold b.mu.
func (b *buckets) dropIdle(now time.Time) {
	for key, bk := range b.byKey {
		if now.Sub(bk.seen) >= time.Minute {
			delete(b.byKey, key)
		}
	}
}
