package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/provider"
	"github.com/bazaar-next/internal/queue"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"

	"github.com/hibiken/asynq"
)

// Mailer 通知邮件发送能力
type Mailer interface {
	Enabled() bool
	AdminEmail() string
	SendOrderConfirmation(toEmail string, order *models.Order, locale string) error
	SendAdminNewOrder(order *models.Order, locale string) error
	SendOrderStatusEmail(toEmail string, input service.OrderStatusEmailInput, locale string) error
	SendLowStockAlert(alert service.LowStockAlert, locale string) error
}

// Consumer 异步任务消费者
type Consumer struct {
	orders repository.OrderRepository
	mailer Mailer
	locale string
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{}
	if c == nil {
		return consumer
	}
	if c.Store != nil {
		consumer.orders = c.Store.Orders
	}
	if c.EmailService != nil {
		consumer.mailer = c.EmailService
	}
	if c.Config != nil {
		consumer.locale = c.Config.Email.Locale
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotifyOrderConfirmation, c.handleOrderConfirmation)
	mux.HandleFunc(queue.TaskNotifyAdminNewOrder, c.handleAdminNewOrder)
	mux.HandleFunc(queue.TaskNotifyOrderStatusUpdate, c.handleOrderStatusUpdate)
	mux.HandleFunc(queue.TaskNotifyLowStock, c.handleLowStock)
}

func (c *Consumer) handleOrderConfirmation(_ context.Context, task *asynq.Task) error {
	order, ok, err := c.loadOrder("worker_order_confirmation", task)
	if !ok {
		return err
	}
	receiver := service.OrderRecipient(order)
	if receiver == "" {
		logger.Debugw("worker_order_confirmation_skip_empty_receiver", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil
	}
	return c.finishSend("worker_order_confirmation", order, receiver,
		c.mailer.SendOrderConfirmation(receiver, order, c.locale))
}

func (c *Consumer) handleAdminNewOrder(_ context.Context, task *asynq.Task) error {
	order, ok, err := c.loadOrder("worker_admin_new_order", task)
	if !ok {
		return err
	}
	receiver := c.mailer.AdminEmail()
	if receiver == "" {
		logger.Debugw("worker_admin_new_order_skip_no_admin_email", "order_id", order.ID)
		return nil
	}
	return c.finishSend("worker_admin_new_order", order, receiver, c.mailer.SendAdminNewOrder(order, c.locale))
}

func (c *Consumer) handleOrderStatusUpdate(_ context.Context, task *asynq.Task) error {
	order, ok, err := c.loadOrder("worker_order_status_update", task)
	if !ok {
		return err
	}
	var payload queue.OrderNotificationPayload
	_ = json.Unmarshal(task.Payload(), &payload)

	receiver := service.OrderRecipient(order)
	if receiver == "" {
		logger.Debugw("worker_order_status_update_skip_empty_receiver", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	input := service.OrderStatusEmailInput{
		OrderNumber: order.OrderNumber,
		Status:      status,
		Total:       order.Total,
		Currency:    order.Currency,
		Note:        strings.TrimSpace(payload.Note),
	}
	return c.finishSend("worker_order_status_update", order, receiver,
		c.mailer.SendOrderStatusEmail(receiver, input, c.locale))
}

func (c *Consumer) handleLowStock(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_low_stock_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LowStockPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_low_stock_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.VariantID == "" {
		logger.Debugw("worker_low_stock_skip_invalid_payload")
		return nil
	}
	if c.mailer == nil || !c.mailer.Enabled() || c.mailer.AdminEmail() == "" {
		logger.Debugw("worker_low_stock_skip_email_disabled", "variant_id", payload.VariantID)
		return nil
	}
	err := c.mailer.SendLowStockAlert(service.LowStockAlert{
		VariantID:   payload.VariantID,
		ProductName: payload.ProductName,
		SKU:         payload.SKU,
		Stock:       payload.Stock,
		Threshold:   payload.Threshold,
	}, c.locale)
	if err != nil {
		if isPermanentSendError(err) {
			logger.Warnw("worker_low_stock_receiver_rejected", "variant_id", payload.VariantID, "error", err)
			return nil
		}
		logger.Warnw("worker_low_stock_send_failed", "variant_id", payload.VariantID, "error", err)
		return err
	}
	return nil
}

// loadOrder 解析载荷并加载订单，ok=false 时直接返回 err 给 asynq
func (c *Consumer) loadOrder(event string, task *asynq.Task) (*models.Order, bool, error) {
	if c == nil || task == nil {
		logger.Debugw(event+"_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil, false, nil
	}
	var payload queue.OrderNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw(event+"_unmarshal_failed", "error", err)
		return nil, false, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if strings.TrimSpace(payload.OrderID) == "" {
		logger.Debugw(event+"_skip_invalid_payload")
		return nil, false, nil
	}
	if c.mailer == nil || !c.mailer.Enabled() {
		logger.Debugw(event+"_skip_email_disabled", "order_id", payload.OrderID)
		return nil, false, nil
	}
	if c.orders == nil {
		logger.Warnw(event+"_skip_order_repo_nil", "order_id", payload.OrderID)
		return nil, false, nil
	}
	order, err := c.orders.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw(event+"_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return nil, false, err
	}
	if order == nil {
		logger.Debugw(event+"_skip_order_not_found", "order_id", payload.OrderID)
		return nil, false, nil
	}
	return order, true, nil
}

func (c *Consumer) finishSend(event string, order *models.Order, receiver string, err error) error {
	if err == nil {
		logger.Debugw(event+"_sent", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil
	}
	if isPermanentSendError(err) {
		logger.Warnw(event+"_receiver_rejected",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"receiver_email", receiver,
			"error", err,
		)
		return nil
	}
	logger.Warnw(event+"_send_failed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"receiver_email", receiver,
		"error", err,
	)
	return err
}

// isPermanentSendError 收件人无效或被拒时重试无意义
func isPermanentSendError(err error) bool {
	return errors.Is(err, service.ErrInvalidEmail) ||
		errors.Is(err, service.ErrEmailRecipientRejected) ||
		errors.Is(err, service.ErrEmailServiceDisabled) ||
		errors.Is(err, service.ErrEmailServiceNotConfigured)
}
