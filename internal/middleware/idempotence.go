package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotenceHeader = "x-idempotence"
	idempotenceTTL    = 60 * time.Second
)

// Idempotence returns a middleware that rejects a repeated non-GET
// request carrying the same x-idempotence header within the TTL window.
// Requests without the header pass through untouched.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader(idempotenceHeader))
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := fmt.Sprintf("impala:idempotence:%s", key)

		ok, err := rdb.SetNX(ctx, redisKey, "0", idempotenceTTL).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"ok":      0,
				"code":    http.StatusConflict,
				"message": "duplicate request, try again later",
			})
			return
		}

		c.Next()

		// Only successful requests hold the key for the full window.
		if c.Writer.Status() >= 400 {
			rdb.Del(ctx, redisKey)
		} else {
			rdb.Set(ctx, redisKey, "1", idempotenceTTL)
		}
	}
}
