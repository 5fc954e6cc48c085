package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"

	"github.com/guesspro/guesspro-go/internal/api/apierr"
)

// RateLimiter hands out a token-bucket limiter per client IP. Buckets for
// idle clients age out of the cache.
type RateLimiter struct {
	limiterByIP     *ttlcache.Cache[string, *rate.Limiter]
	refillPerSecond int
	burstSize       int
}

// NewRateLimiter creates a per-IP rate limiter. The returned stop
// function releases the cache's expiry loop.
func NewRateLimiter(refillPerSecond, burstSize int) (*RateLimiter, func()) {
	limiterCache := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](30 * time.Minute),
	)
	go limiterCache.Start()

	return &RateLimiter{
		limiterByIP:     limiterCache,
		refillPerSecond: refillPerSecond,
		burstSize:       burstSize,
	}, limiterCache.Stop
}

// Consume takes one token from the bucket for a key
func (rl *RateLimiter) Consume(key string) bool {
	limiter, _ := rl.limiterByIP.GetOrSet(key,
		rate.NewLimiter(rate.Limit(rl.refillPerSecond), rl.burstSize))
	return limiter.Value().Allow()
}

// RateLimit creates middleware rejecting clients that exceed their bucket
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Consume(ipKey(r)) {
				apierr.WriteError(w, apierr.NewRateLimitedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ipKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
