package queue

import (
	"encoding/json"

	"github.com/bazaar-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotifyAdminNewOrder 新订单通知管理员
	TaskNotifyAdminNewOrder = constants.TaskNotifyAdminNewOrder
	// TaskNotifyOrderConfirmation 下单确认通知买家
	TaskNotifyOrderConfirmation = constants.TaskNotifyOrderConfirmation
	// TaskNotifyOrderStatusUpdate 订单状态变更通知买家
	TaskNotifyOrderStatusUpdate = constants.TaskNotifyOrderStatusUpdate
	// TaskNotifyLowStock 低库存告警
	TaskNotifyLowStock = constants.TaskNotifyLowStock
)

// OrderNotificationPayload 订单通知任务载荷
type OrderNotificationPayload struct {
	OrderID        string `json:"order_id"`
	Status         string `json:"status,omitempty"`
	PreviousStatus string `json:"previous_status,omitempty"`
	Note           string `json:"note,omitempty"`
}

// LowStockPayload 低库存告警载荷
type LowStockPayload struct {
	VariantID   string `json:"variant_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
}

// NewOrderNotificationTask 创建订单通知任务
func NewOrderNotificationTask(taskType string, payload OrderNotificationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}

// NewLowStockTask 创建低库存告警任务
func NewLowStockTask(payload LowStockPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifyLowStock, body), nil
}
