package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/response"
)

// RateLimiter is a fixed-window limiter shared across instances through Redis.
type RateLimiter struct {
	rdb      *redis.Client
	route    string
	rate     int
	interval time.Duration
	log      zerolog.Logger
}

// NewRateLimiter allows rate requests per interval for each client on route.
func NewRateLimiter(rdb *redis.Client, route string, rate int, interval time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		route:    route,
		rate:     rate,
		interval: interval,
		log:      log.With().Str("component", "rate_limiter").Str("route", route).Logger(),
	}
}

// Middleware returns a Gin middleware that rate-limits requests per candidate,
// or per IP for unauthenticated routes. Redis errors let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rdb == nil {
			c.Next()
			return
		}

		client := c.ClientIP()
		if claims := GetClaims(c); claims != nil && claims.Email != "" {
			client = claims.Email
		}

		window := time.Now().UnixNano() / int64(rl.interval)
		key := config.CacheKey.RateLimitKey(rl.route, client, window)

		pipe := rl.rdb.TxPipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, rl.interval)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			rl.log.Warn().Err(err).Msg("Rate limit check skipped")
			c.Next()
			return
		}

		remaining := rl.rate - int(incr.Val())
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(incr.Val()) > rl.rate {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
