package main

// @title           Beauty Center Directory API
// @version         0.1.0
// @description     美容中心目录服务：地址、中心、服务、中心服务关联与用户评论的 CRUD 接口，以及注册与令牌登录。
// @schemes         http https
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"beautycenter/internal/config"
	"beautycenter/internal/handlers"
	"beautycenter/internal/metrics"
	"beautycenter/internal/middlewares"
	"beautycenter/internal/services"
	"beautycenter/internal/storage"
)

// main 为服务入口：加载配置、初始化日志/存储/服务、注册路由并启动 HTTP 服务。
func main() {
	// 配置结构化日志格式
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	// 生产环境基线检查：禁止默认弱口令与本地 SQLite 进入生产。
	if cfg.Env == "prod" {
		switch cfg.Database.Driver {
		case "mysql":
			if cfg.Database.MySQL.Password == "123456" || cfg.Database.MySQL.Password == "password" || cfg.Database.MySQL.Password == "" {
				log.Fatal("insecure mysql password in prod; configure database.mysql.password in config.yaml")
			}
			if strings.Contains(cfg.Database.MySQL.User, "root") {
				log.Warn("using MySQL root in prod is discouraged")
			}
		case "postgres":
			if cfg.Database.Postgres.Password == "postgres" || cfg.Database.Postgres.Password == "" {
				log.Fatal("insecure postgres password in prod; configure database.postgres.password in config.yaml")
			}
		case "sqlite":
			log.Warn("sqlite in prod is intended for single-instance deployments only")
		}
		if cfg.Bootstrap.InitialUser.Enable && (cfg.Bootstrap.InitialUser.Password == "123465" || cfg.Bootstrap.InitialUser.Password == "") {
			log.Fatal("insecure initial_user.password in prod; disable bootstrap or set strong password")
		}
	}
	log.WithFields(log.Fields{
		"env":        cfg.Env,
		"http_addr":  cfg.HTTPAddr,
		"db_driver":  cfg.Database.Driver,
		"db_dsn":     cfg.Database.DSNMasked(),
		"redis_addr": cfg.Redis.Addr,
		"token_ttl":  cfg.Token.TTL.String(),
	}).Info("configuration loaded")

	// 初始化存储（数据库 + Redis）
	db, err := storage.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer storage.CloseDB(db)

	rdb, err := storage.InitRedis(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	defer func() { _ = rdb.Close() }()

	// 初始化核心服务
	userSvc := services.NewUserService(db)
	tokenSvc := services.NewTokenService(rdb, cfg)
	logSvc := services.NewLogService(db)

	if b := cfg.Bootstrap.InitialUser; b.Enable {
		u, created, err := userSvc.EnsureUser(context.Background(), b.Username, b.Password, b.Email)
		if err != nil {
			log.WithError(err).Fatal("bootstrap initial user")
		}
		if created {
			logSvc.Write(context.Background(), "INFO", "USER_REGISTERED", &u.ID, "bootstrap user created", "")
			log.WithField("username", u.Username).Info("bootstrap user created")
		}
	}

	// HTTP 路由与中间件
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.SecurityHeaders(cfg))
	router.Use(metrics.Handler())

	h := handlers.New(
		cfg,
		services.NewAddressService(db),
		services.NewCenterService(db),
		services.NewCatalogService(db),
		services.NewOfferingService(db),
		services.NewCommentService(db),
		userSvc, tokenSvc, logSvc, rdb,
	)
	h.RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	// 优雅退出
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	} else {
		log.Info("server stopped")
	}
}
