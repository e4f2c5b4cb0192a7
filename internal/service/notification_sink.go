package service

import (
	"context"
	"time"

	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/queue"
)

// NotificationKind 通知类型
type NotificationKind string

const (
	NotifyAdminNewOrder     NotificationKind = "admin_new_order"
	NotifyOrderConfirmation NotificationKind = "order_confirmation"
	NotifyStatusUpdate      NotificationKind = "status_update"
)

// NotificationExtra 状态变更通知附加信息
type NotificationExtra struct {
	PreviousStatus string
	Note           string
}

// LowStockAlert 低库存告警
type LowStockAlert struct {
	VariantID   string
	ProductName string
	SKU         string
	Stock       int
	Threshold   int
}

// NotificationSink 异步通知出口，调用方只记录错误不回滚业务
type NotificationSink interface {
	Notify(ctx context.Context, kind NotificationKind, order *models.Order, extra NotificationExtra) error
	NotifyLowStock(ctx context.Context, alert LowStockAlert) error
}

// QueueNotificationSink 基于 asynq 队列的通知出口
type QueueNotificationSink struct {
	client         *queue.Client
	lowStockWindow time.Duration
}

// NewQueueNotificationSink 创建队列通知出口
func NewQueueNotificationSink(client *queue.Client) *QueueNotificationSink {
	return &QueueNotificationSink{client: client, lowStockWindow: time.Hour}
}

// Notify 推送订单通知任务
func (s *QueueNotificationSink) Notify(ctx context.Context, kind NotificationKind, order *models.Order, extra NotificationExtra) error {
	if order == nil {
		return nil
	}
	if !s.client.Enabled() {
		logger.Debugw("notification_skipped_queue_disabled", "kind", kind, "order_id", order.ID)
		return nil
	}
	payload := queue.OrderNotificationPayload{
		OrderID:        order.ID,
		Status:         order.Status,
		PreviousStatus: extra.PreviousStatus,
		Note:           extra.Note,
	}
	switch kind {
	case NotifyAdminNewOrder:
		return s.client.EnqueueAdminNewOrder(payload)
	case NotifyOrderConfirmation:
		return s.client.EnqueueOrderConfirmation(payload)
	case NotifyStatusUpdate:
		return s.client.EnqueueOrderStatusUpdate(payload)
	default:
		return ErrNotificationUnavailable
	}
}

// NotifyLowStock 推送低库存告警，同一规格一小时内只推送一次
func (s *QueueNotificationSink) NotifyLowStock(ctx context.Context, alert LowStockAlert) error {
	if !s.client.Enabled() {
		logger.Debugw("notification_skipped_queue_disabled", "kind", "low_stock", "variant_id", alert.VariantID)
		return nil
	}
	first, err := cache.MarkLowStockAlerted(ctx, alert.VariantID, s.lowStockWindow)
	if err != nil {
		logger.Warnw("low_stock_alert_dedupe_failed", "variant_id", alert.VariantID, "error", err)
	} else if !first {
		return nil
	}
	return s.client.EnqueueLowStock(queue.LowStockPayload{
		VariantID:   alert.VariantID,
		ProductName: alert.ProductName,
		SKU:         alert.SKU,
		Stock:       alert.Stock,
		Threshold:   alert.Threshold,
	})
}

// NopNotificationSink 不发送任何通知
type NopNotificationSink struct{}

// Notify 忽略通知
func (NopNotificationSink) Notify(context.Context, NotificationKind, *models.Order, NotificationExtra) error {
	return nil
}

// NotifyLowStock 忽略告警
func (NopNotificationSink) NotifyLowStock(context.Context, LowStockAlert) error {
	return nil
}
