package middlewares

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"beautycenter/internal/config"
)

// SecurityHeaders 为 JSON API 响应设置安全相关头部。
// 响应（包括令牌）一律禁止缓存；HSTS 仅在 HTTPS 请求且配置开启时下发。
func SecurityHeaders(cfg config.Config) gin.HandlerFunc {
	hsts := hstsValue(cfg.Security)
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "no-store")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		if hsts != "" && isHTTPS(c) {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}

func hstsValue(s config.SecurityConfig) string {
	if !s.HSTS.Enabled || s.HSTS.MaxAgeSeconds <= 0 {
		return ""
	}
	v := "max-age=" + strconv.Itoa(s.HSTS.MaxAgeSeconds)
	if s.HSTS.IncludeSubdomains {
		v += "; includeSubDomains"
	}
	return v
}

// isHTTPS 识别直连 TLS 与反向代理转发的 HTTPS 请求。
func isHTTPS(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}
