package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusOutForDelivery: true,
		constants.OrderStatusDelivered:      true,
	},
	constants.OrderStatusOutForDelivery: {
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusRefunded: true,
	},
}

// CanTransition 判断状态流转是否合法
func CanTransition(from, to string) bool {
	return allowedTransitions[from][to]
}

// isRestockStatus 进入该状态时需要回补库存
func isRestockStatus(status string) bool {
	return status == constants.OrderStatusCancelled || status == constants.OrderStatusRefunded
}

func isValidOrderStatus(status string) bool {
	for _, item := range constants.OrderStatuses {
		if item == status {
			return true
		}
	}
	return false
}

func isValidPaymentStatus(status string) bool {
	for _, item := range constants.PaymentStatuses {
		if item == status {
			return true
		}
	}
	return false
}

// TransitionOptions 状态流转附加参数
type TransitionOptions struct {
	Note          string
	ActorID       string
	PaymentStatus string
	AdminNotes    *string
}

// TransitionResult 状态流转结果
type TransitionResult struct {
	From     string
	To       string
	Restored []*StockResult
}

// OrderLifecycle 订单状态机
type OrderLifecycle struct {
	ledger    *StockLedger
	discounts *DiscountEvaluator
	now       func() time.Time
}

// NewOrderLifecycle 创建订单状态机
func NewOrderLifecycle(ledger *StockLedger, discounts *DiscountEvaluator) *OrderLifecycle {
	if ledger == nil {
		ledger = NewStockLedger()
	}
	if discounts == nil {
		discounts = NewDiscountEvaluator()
	}
	return &OrderLifecycle{ledger: ledger, discounts: discounts, now: time.Now}
}

// Transition 在事务内执行状态流转：校验、回补库存、条件更新状态并追加历史
// order 需包含订单项与套餐快照
func (l *OrderLifecycle) Transition(tx *repository.Store, order *models.Order, to string, opts TransitionOptions) (*TransitionResult, error) {
	to = strings.TrimSpace(to)
	if !isValidOrderStatus(to) {
		return nil, ErrStatusInvalid
	}
	from := order.Status
	if !CanTransition(from, to) {
		return nil, withDetail(ErrInvalidTransition, from, to)
	}
	paymentStatus := strings.TrimSpace(opts.PaymentStatus)
	if paymentStatus != "" && !isValidPaymentStatus(paymentStatus) {
		return nil, ErrStatusInvalid
	}

	result := &TransitionResult{From: from, To: to}
	if isRestockStatus(to) {
		restored, err := l.restoreStock(tx, order, opts.ActorID)
		if err != nil {
			return nil, err
		}
		result.Restored = restored
		if order.DiscountCodeID != nil && order.UserID != nil {
			if err := l.discounts.Release(tx, *order.DiscountCodeID, *order.UserID); err != nil {
				return nil, err
			}
		}
	}

	now := l.now()
	updates := map[string]interface{}{
		"status": to,
	}
	if to == constants.OrderStatusDelivered {
		updates["delivered_at"] = now
		order.DeliveredAt = &now
		if order.PaymentMethod == constants.PaymentMethodCOD {
			updates["payment_status"] = constants.PaymentStatusPaid
			order.PaymentStatus = constants.PaymentStatusPaid
		}
	}
	if paymentStatus != "" {
		updates["payment_status"] = paymentStatus
		order.PaymentStatus = paymentStatus
	}
	if opts.AdminNotes != nil {
		updates["admin_notes"] = *opts.AdminNotes
		order.AdminNotes = *opts.AdminNotes
	}

	affected, err := tx.Orders.UpdateStatus(order.ID, from, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderStatusConflict
	}
	order.Status = to

	if err := tx.OrderHistory.Create(&models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    to,
		Note:      strings.TrimSpace(opts.Note),
		ChangedBy: optionalString(opts.ActorID),
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// restoreStock 回补订单扣减的全部库存并回退销量，加锁顺序与下单扣减一致
func (l *OrderLifecycle) restoreStock(tx *repository.Store, order *models.Order, actorID string) ([]*StockResult, error) {
	var changes []StockChange
	soldByProduct := make(map[string]int)
	for _, item := range order.Items {
		if item.IsCombo() {
			for _, selection := range item.ComboSelections {
				quantity := selection.Quantity * item.Quantity
				if selection.ProductVariantID != nil {
					changes = append(changes, StockChange{
						VariantID:   *selection.ProductVariantID,
						Quantity:    quantity,
						Type:        constants.StockMovementReturn,
						Reference:   constants.StockReferenceOrderCancellation,
						ReferenceID: order.ID,
						Note:        fmt.Sprintf("Restored from combo order %s (combo: %s)", order.OrderNumber, item.ProductName),
						ActorID:     actorID,
					})
				}
				soldByProduct[selection.ChildProductID] += quantity
			}
			soldByProduct[item.ProductID] += item.Quantity
			continue
		}

		if item.ProductVariantID != nil {
			changes = append(changes, StockChange{
				VariantID:   *item.ProductVariantID,
				Quantity:    item.Quantity,
				Type:        constants.StockMovementReturn,
				Reference:   constants.StockReferenceOrderCancellation,
				ReferenceID: order.ID,
				Note:        fmt.Sprintf("Restored from order %s", order.OrderNumber),
				ActorID:     actorID,
			})
		}
		soldByProduct[item.ProductID] += item.Quantity
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].VariantID < changes[j].VariantID
	})

	restored := make([]*StockResult, 0, len(changes))
	for _, change := range changes {
		result, err := l.ledger.Credit(tx, change)
		if err != nil {
			return nil, err
		}
		restored = append(restored, result)
	}

	productIDs := make([]string, 0, len(soldByProduct))
	for id := range soldByProduct {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)
	for _, id := range productIDs {
		if err := tx.Products.DecrementSoldCount(id, soldByProduct[id]); err != nil {
			return nil, err
		}
	}
	return restored, nil
}
