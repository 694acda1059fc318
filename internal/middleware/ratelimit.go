package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"foodgram/internal/pkg/response"
)

// atomic INCR + PEXPIRE on first hit
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimitKey limits authenticated users by id and anonymous callers by ip.
func RateLimitKey(c *gin.Context) string {
	if uid := UserID(c); uid != 0 {
		return "foodgram:rl:user:" + strconv.FormatInt(uid, 10)
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "foodgram:rl:ip:" + ip
}

// RateLimit is a fixed window counter in redis. A nil client disables it;
// redis failures let the request through.
func RateLimit(rdb *redis.Client, max int, window time.Duration, log logrus.FieldLogger) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := RateLimitKey(c)

		count, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64()
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("rate limit check failed")
			c.Next()
			return
		}

		remaining := int64(max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(max) {
			if ttl, err := rdb.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
				c.Header("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
			}
			response.Detail(c, http.StatusTooManyRequests, "Request was throttled.")
			return
		}
		c.Next()
	}
}
