package provider

import (
	"fmt"

	"github.com/bazaar-next/internal/authz"
	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/metrics"
	"github.com/bazaar-next/internal/queue"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Store       *repository.Store
	QueueClient *queue.Client

	// Metrics
	Registry     *prometheus.Registry
	OrderMetrics *metrics.OrderMetrics
	HTTPMetrics  *metrics.HTTPMetrics

	// Services
	AuthzService    *authz.Service
	EmailService    *service.EmailService
	CaptchaService  *service.CaptchaService
	TokenService    *service.TokenService
	OrderService    *service.OrderService
	StockService    *service.StockService
	DiscountService *service.DiscountService
}

// NewContainer 初始化容器，数据库句柄由调用方显式传入
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端（未启用时返回可安全调用的空客户端）
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Store:       repository.NewStore(db),
		QueueClient: queueClient,
	}

	c.initMetrics()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initMetrics() {
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.OrderMetrics = metrics.NewOrderMetrics(c.Registry)
	c.HTTPMetrics = metrics.NewHTTPMetrics(c.Registry)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	sink := service.NewQueueNotificationSink(c.QueueClient)

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.TokenService = service.NewTokenService(c.Config.JWT, c.Store)
	c.OrderService = service.NewOrderService(c.Store, c.Config.Order, sink, c.OrderMetrics)
	c.StockService = service.NewStockService(c.Store, sink, c.OrderMetrics)
	c.DiscountService = service.NewDiscountService(c.Store)
	return nil
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
