package middlewares

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// UserIDKey 为已识别调用者 ID 在 Gin Context 中的键。
const UserIDKey = "user_id"

// TokenResolver 将不透明令牌解析为用户 ID。
type TokenResolver interface {
	Resolve(ctx context.Context, tok string) (uint64, error)
}

// Identity 解析 "Authorization: Token <key>" 或 "Bearer <key>"，成功时把用户 ID 写入 Context。
// 未携带或无效的令牌不会中断请求，由需要身份的端点自行返回 401。
func Identity(r TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := ParseAuthToken(c.GetHeader("Authorization"))
		if tok != "" {
			uid, err := r.Resolve(c, tok)
			if err == nil {
				c.Set(UserIDKey, uid)
			} else {
				log.WithError(err).WithField(RequestIDKey, c.GetString(RequestIDKey)).Debug("token rejected")
			}
		}
		c.Next()
	}
}

// ParseAuthToken 从 Authorization 头中取出令牌，方案名大小写不敏感。
func ParseAuthToken(h string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(tok)
	}
	return ""
}

// CurrentUser 返回 Identity 识别出的用户 ID。
func CurrentUser(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	uid, ok := v.(uint64)
	return uid, ok
}
