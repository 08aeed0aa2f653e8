package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/response"
)

// StreamLockTTL bounds how long a crashed process can keep a candidate out.
// Holders refresh it while the stream is open.
const StreamLockTTL = 45 * time.Second

// SingleStream allows one live stream per candidate and test. The lock is a
// Redis key holding the request ID, refreshed while the handler runs and
// released when it returns. Without Redis every stream is allowed.
func SingleStream(rdb *redis.Client, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "stream_lock").Logger()
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if rdb == nil {
			c.Next()
			return
		}

		key := config.CacheKey.CandidateStreamLockKey(c.Param("id"), claims.Email)
		holder := response.RequestID(c)
		if holder == "" {
			holder = claims.ID
		}

		ok, err := rdb.SetNX(c.Request.Context(), key, holder, StreamLockTTL).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("Stream lock unavailable")
			response.AbortFail(c, http.StatusServiceUnavailable, response.ErrUnavailable)
			return
		}
		if !ok {
			response.AbortFail(c, http.StatusConflict, response.ErrStreamActive)
			return
		}

		stop := make(chan struct{})
		go refreshLock(rdb, key, stop)
		defer func() {
			close(stop)
			releaseLock(rdb, key, holder, log)
		}()

		c.Next()
	}
}

func refreshLock(rdb *redis.Client, key string, stop <-chan struct{}) {
	t := time.NewTicker(StreamLockTTL / 3)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			rdb.Expire(ctx, key, StreamLockTTL)
			cancel()
		}
	}
}

// releaseScript deletes the lock only if this stream still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func releaseLock(rdb *redis.Client, key, holder string, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, rdb, []string{key}, holder).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Stream lock not released")
	}
}
