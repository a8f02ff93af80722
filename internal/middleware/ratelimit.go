package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RateLimiter caps requests per key per window using a Redis counter:
// INCR the key, set the window TTL on first hit, reject once over the limit.
// It fails open when no Redis client is configured or Redis is unreachable,
// so the API keeps serving through a cache outage.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter; client may be nil to disable limiting
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Limit returns a middleware that buckets requests under the given prefix.
// The key is the authenticated client id or user id when available,
// otherwise the remote address.
func (rl *RateLimiter) Limit(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", prefix, requestKey(c))
		ctx := c.Request.Context()

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable, failing open")
			c.Next()
			return
		}
		if count == 1 {
			rl.client.Expire(ctx, key, rl.window)
		}

		if count > int64(rl.limit) {
			c.JSON(http.StatusTooManyRequests, models.NewAPIError(models.ErrRateLimited,
				"rate limit exceeded", map[string]interface{}{
					"limit":          rl.limit,
					"window_seconds": int(rl.window.Seconds()),
				}))
			c.Abort()
			return
		}

		c.Next()
	}
}

func requestKey(c *gin.Context) string {
	if clientID := c.GetString("clientID"); clientID != "" {
		return clientID
	}
	if userID, exists := c.Get("userID"); exists {
		return fmt.Sprintf("user:%v", userID)
	}
	if clientID := c.PostForm("client_id"); clientID != "" {
		return clientID
	}
	return c.ClientIP()
}
