package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义：
// - http_requests_total：按路由与方法统计请求次数（附带状态码标签）
// - http_request_duration_seconds：按路由与方法统计请求耗时分布
// - records_written_total：按记录类型与操作统计成功写入
// - users_registered_total / logins_total：注册与登录结果
// - comments_created_total：新增评论数
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP 请求计数（按路由/方法/状态）"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP 请求耗时（秒）", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	RecordsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "records_written_total", Help: "成功写入的记录数（按类型/操作）"},
		[]string{"kind", "op"},
	)
	UsersRegistered = prometheus.NewCounter(prometheus.CounterOpts{Name: "users_registered_total", Help: "注册成功的用户数"})
	Logins          = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "logins_total", Help: "令牌登录结果计数"},
		[]string{"outcome"},
	)
	CommentsCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "comments_created_total", Help: "新增评论数"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, RecordsWritten, UsersRegistered, Logins, CommentsCreated)
}

// Handler 返回记录基础 HTTP 指标的中间件（QPS/耗时）。
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(dur)
		HTTPRequests.WithLabelValues(path, c.Request.Method, fmt.Sprintf("%d", c.Writer.Status())).Inc()
	}
}

// Exposer 返回标准 Prometheus 暴露处理器。
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
