package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/config"
	adminhandlers "github.com/bazaar-next/internal/http/handlers/admin"
	publichandlers "github.com/bazaar-next/internal/http/handlers/public"
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultMetricsPath = "/metrics"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bz"
	}
	redisClient := cache.Client()
	orderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order", redisPrefix),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxRequests,
		MessageKey:    "error.order_rate_limited",
	}
	trackRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:track", redisPrefix),
		WindowSeconds: cfg.Security.TrackRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.TrackRateLimit.MaxRequests,
		MessageKey:    "error.track_rate_limited",
	}

	// 令牌服务为空时保持 nil 接口，中间件统一拒绝
	var authenticator Authenticator
	if c.TokenService != nil {
		authenticator = c.TokenService
	}
	var enforcer RoleEnforcer
	if c.AuthzService != nil {
		enforcer = c.AuthzService
	}
	optionalAuth := UserAuthMiddleware(authenticator, true)
	requireAuth := UserAuthMiddleware(authenticator, false)
	rbac := RBACMiddleware(enforcer)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log, c.HTTPMetrics))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		orders := apiV1.Group("/orders")
		{
			orders.POST("", optionalAuth, RateLimitMiddleware(redisClient, orderRule, KeyByIPAndJSONField("guestEmail")), publicHandler.CreateOrder)
			orders.GET("", requireAuth, publicHandler.ListOrders)
			orders.GET("/track/:orderNumber", RateLimitMiddleware(redisClient, trackRule, KeyByIP), publicHandler.TrackOrder)
			orders.GET("/:id", requireAuth, publicHandler.GetOrder)
			orders.PUT("/:id/cancel", requireAuth, publicHandler.CancelOrder)
			orders.PUT("/:id/status", requireAuth, rbac, adminHandler.UpdateOrderStatus)
		}

		discounts := apiV1.Group("/discounts")
		{
			discounts.POST("/validate", optionalAuth, publicHandler.ValidateDiscount)
		}

		admin := apiV1.Group("/admin")
		admin.Use(requireAuth, rbac)
		{
			admin.GET("/orders/stats", adminHandler.GetOrderStats)
			admin.GET("/variants/:id/stock-movements", adminHandler.ListStockMovements)
			admin.POST("/variants/:id/stock-movements", adminHandler.AdjustStock)
			admin.GET("/variants/:id/stock-reconcile", adminHandler.ReconcileStock)
		}
	}

	// 健康检查
	r.GET("/healthz", healthHandler(c))

	if cfg.Metrics.Enabled && c.Registry != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = defaultMetricsPath
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
	}

	return r
}

// healthHandler 检查数据库连通性
func healthHandler(c *provider.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{"status": "ok", "database": "ok"}
		if c == nil || c.DB == nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unavailable"})
			return
		}
		sqlDB, err := c.DB.DB()
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(pingCtx)
		}
		if err != nil {
			logger.Warnw("health_db_ping_failed", "error", err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unavailable"})
			return
		}
		if cache.Enabled() {
			status["redis"] = "ok"
			if err := cache.Client().Ping(ctx.Request.Context()).Err(); err != nil {
				status["redis"] = "unavailable"
			}
		}
		response.Success(ctx, status)
	}
}
