package middlewares

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Counter 为限流所需的 Redis 命令子集（*redis.Client 满足该接口）。
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimit 返回一个使用 Redis INCR+TTL 的固定窗口限流中间件。
// keyFn 用于构建请求者唯一键（如按 IP 或用户名）；limit<=0 时不限流。
// Redis 不可用时放行请求。
func RateLimit(rdb Counter, prefix string, limit int, window time.Duration, keyFn func(*gin.Context) string) gin.HandlerFunc {
	if window <= 0 {
		window = time.Minute
	}
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" || limit <= 0 {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		rkey := fmt.Sprintf("rl:%s:%s", prefix, key)
		// 第一次自增时同时设置 TTL 窗口
		cnt, err := rdb.Incr(ctx, rkey).Result()
		if err == nil && cnt == 1 {
			_ = rdb.Expire(ctx, rkey, window).Err()
		}
		if err == nil && cnt > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(429, gin.H{"error": "rate_limited"})
			return
		}
		c.Next()
	}
}

// ByClientIP 以客户端 IP 作为限流键。
func ByClientIP(c *gin.Context) string { return c.ClientIP() }
