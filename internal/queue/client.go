package queue

import (
	"fmt"
	"strings"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 高优先级队列（买家通知）
	CriticalQueue = constants.QueueCritical

	defaultMaxRetry = 5
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueAdminNewOrder 推送新订单管理员通知
func (c *Client) EnqueueAdminNewOrder(payload OrderNotificationPayload, opts ...asynq.Option) error {
	return c.enqueueOrderNotification(TaskNotifyAdminNewOrder, c.defaultQueue, payload, opts...)
}

// EnqueueOrderConfirmation 推送下单确认通知
func (c *Client) EnqueueOrderConfirmation(payload OrderNotificationPayload, opts ...asynq.Option) error {
	return c.enqueueOrderNotification(TaskNotifyOrderConfirmation, CriticalQueue, payload, opts...)
}

// EnqueueOrderStatusUpdate 推送订单状态变更通知
func (c *Client) EnqueueOrderStatusUpdate(payload OrderNotificationPayload, opts ...asynq.Option) error {
	return c.enqueueOrderNotification(TaskNotifyOrderStatusUpdate, CriticalQueue, payload, opts...)
}

// EnqueueLowStock 推送低库存告警
func (c *Client) EnqueueLowStock(payload LowStockPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewLowStockTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue), asynq.MaxRetry(defaultMaxRetry)}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

func (c *Client) enqueueOrderNotification(taskType, queueName string, payload OrderNotificationPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderNotificationTask(taskType, payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{asynq.Queue(queueName), asynq.MaxRetry(defaultMaxRetry)}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1, CriticalQueue: 2}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
