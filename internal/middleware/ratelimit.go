package middleware

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/pkg/clientip"
)

// RateLimitKeyPrefix is the Redis key prefix for rate limiting
const RateLimitKeyPrefix = "ratelimit:"

// RedisRateLimit allows at most max requests per IP in each fixed window,
// counted in Redis so the limit holds across instances. Redis failures
// let the request through.
func RedisRateLimit(rdb *redis.Client, scope string, max int64, window time.Duration, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := RateLimitKeyPrefix + scope + ":" + clientip.RealClientIP(r)

			count, err := rdb.Incr(ctx, key).Result()
			if err == nil && count == 1 {
				err = rdb.Expire(ctx, key, window).Err()
			}
			if err != nil {
				log.Warnw("Rate limit check failed, allowing request", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > max {
				respondError(w, http.StatusTooManyRequests, "Too many requests", "Please slow down and try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
