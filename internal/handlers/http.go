package handlers

import (
	"github.com/gin-gonic/gin"

	"beautycenter/internal/config"
	"beautycenter/internal/metrics"
	"beautycenter/internal/middlewares"
	"beautycenter/internal/services"
)

// Handler 聚合所有依赖（配置、服务、限流计数器）并注册所有 HTTP 路由。
type Handler struct {
	cfg       config.Config
	addresses *services.AddressService
	centers   *services.CenterService
	catalog   *services.CatalogService
	offerings *services.OfferingService
	comments  *services.CommentService
	userSvc   *services.UserService
	tokenSvc  *services.TokenService
	logSvc    *services.LogService
	limiter   middlewares.Counter
}

// New 构造 Handler，将各领域服务注入；limiter 为 nil 时不启用限流。
func New(cfg config.Config, as *services.AddressService, cs *services.CenterService, cat *services.CatalogService, ofs *services.OfferingService, cms *services.CommentService, us *services.UserService, ts *services.TokenService, ls *services.LogService, limiter middlewares.Counter) *Handler {
	registerValidators()
	return &Handler{cfg: cfg, addresses: as, centers: cs, catalog: cat, offerings: ofs, comments: cms, userSvc: us, tokenSvc: ts, logSvc: ls, limiter: limiter}
}

// RegisterRoutes 在 Gin 路由上挂载目录 API 与运维端点。
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// 运维端点
	r.GET("/metrics", h.metrics)
	r.GET("/healthz", h.healthz)

	api := r.Group("/api")
	api.Use(middlewares.Identity(h.tokenSvc))

	// 注册与令牌
	api.POST("/register", h.limit("register", h.cfg.Limits.RegisterPerMinute), h.registerUser)
	api.POST("/api-token-auth", h.limit("auth", h.cfg.Limits.AuthPerMinute), h.obtainToken)
	api.GET("/me", h.me)
	api.DELETE("/me", h.deleteMe)

	api.GET("/addresses", h.listAddresses)
	api.POST("/addresses", h.createAddress)
	api.GET("/addresses/:id", h.getAddress)
	api.PUT("/addresses/:id", h.updateAddress)
	api.DELETE("/addresses/:id", h.deleteAddress)

	api.GET("/centers", h.listCenters)
	api.POST("/centers", h.createCenter)
	api.GET("/centers/:id", h.getCenter)
	api.PUT("/centers/:id", h.updateCenter)
	api.DELETE("/centers/:id", h.deleteCenter)
	api.GET("/centers/:id/services", h.listCenterOfferings)
	api.GET("/centers/:id/comments", h.listCenterComments)

	api.GET("/services", h.listServices)
	api.POST("/services", h.createService)
	api.GET("/services/:id", h.getService)
	api.PUT("/services/:id", h.updateService)
	api.DELETE("/services/:id", h.deleteService)

	api.GET("/center-services", h.listOfferings)
	api.POST("/center-services", h.createOffering)
	api.GET("/center-services/:id", h.getOffering)
	api.PUT("/center-services/:id", h.updateOffering)
	api.DELETE("/center-services/:id", h.deleteOffering)

	api.GET("/comments", h.listComments)
	api.POST("/comments", h.createComment)
	api.GET("/comments/:id", h.getComment)
	api.PUT("/comments/:id", h.updateComment)
	api.DELETE("/comments/:id", h.deleteComment)
}

// limit 按客户端 IP 对端点限流。
func (h *Handler) limit(prefix string, perWindow int) gin.HandlerFunc {
	if h.limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middlewares.RateLimit(h.limiter, prefix, perWindow, h.cfg.Limits.Window, middlewares.ByClientIP)
}

// @Summary      Prometheus 指标
// @Tags         ops
// @Produce      plain
// @Success      200 {string} string "metrics"
// @Router       /metrics [get]
func (h *Handler) metrics(c *gin.Context) { metrics.Exposer()(c) }

// @Summary      健康检查
// @Tags         ops
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /healthz [get]
func (h *Handler) healthz(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) }
