package service

import (
	"context"
	"strings"
	"time"

	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/metrics"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

const defaultCancelReason = "Order cancelled by customer"

// OrderService 订单服务：组装、优惠、扣库存与状态流转的编排
type OrderService struct {
	store     *repository.Store
	assembler *OrderAssembler
	discounts *DiscountEvaluator
	ledger    *StockLedger
	lifecycle *OrderLifecycle
	shipping  *ShippingCalculator
	notifier  NotificationSink
	metrics   *metrics.OrderMetrics
	cfg       config.OrderConfig
	now       func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(store *repository.Store, cfg config.OrderConfig, notifier NotificationSink, orderMetrics *metrics.OrderMetrics) *OrderService {
	if notifier == nil {
		notifier = NopNotificationSink{}
	}
	ledger := NewStockLedger()
	discounts := NewDiscountEvaluator()
	return &OrderService{
		store:     store,
		assembler: NewOrderAssembler(NewCatalogReader()),
		discounts: discounts,
		ledger:    ledger,
		lifecycle: NewOrderLifecycle(ledger, discounts),
		shipping:  NewShippingCalculator(cfg.Shipping),
		notifier:  notifier,
		metrics:   orderMetrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CreateOrder 创建订单：校验、组装、优惠、扣库存在同一事务内完成，提交后再发通知
func (s *OrderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*models.Order, error) {
	startedAt := s.now()
	if err := cmd.Validate(); err != nil {
		s.metrics.IncFailed(ReasonOf(err))
		return nil, err
	}

	identity := cmd.Identity
	var order *models.Order
	var debits []*StockResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		cart, err := s.assembler.Assemble(tx, cmd.Items)
		if err != nil {
			return err
		}

		var quote *DiscountQuote
		if cmd.DiscountCode != "" {
			quote, err = s.discounts.Evaluate(tx, DiscountInput{
				Code:      cmd.DiscountCode,
				Subtotal:  cart.subtotal,
				UserID:    identity.UserID,
				CartItems: cart.cartItems,
			})
			if err != nil {
				return err
			}
		}

		order = s.buildOrder(cmd, cart, quote)
		if err := tx.Orders.Create(order); err != nil {
			return err
		}

		plan := planReservation(cart.lines, reservation{OrderID: order.ID, OrderNumber: order.OrderNumber, ActorID: identity.UserID})
		debits, err = plan.execute(tx, s.ledger)
		if err != nil {
			return err
		}

		if quote != nil {
			if err := s.discounts.Redeem(tx, quote.Discount, identity.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.IncFailed(ReasonOf(err))
		if KindOf(err) == ErrorKindConflict {
			logger.Warnw("order_create_conflict", "reason", ReasonOf(err), "error", err)
		}
		return nil, wrapStorageError(ErrOrderCreateFailed, err)
	}

	s.metrics.IncCreated(order.PaymentMethod)
	s.metrics.ObserveCreateDuration(s.now().Sub(startedAt))
	for _, debit := range debits {
		s.metrics.IncStockMovement(debit.Movement.Type)
	}
	logger.Infow("order_created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", identity.UserID,
		"total", order.Total.String(),
		"items", len(order.Items),
	)

	full, err := s.store.WithContext(ctx).Orders.GetByID(order.ID)
	if err != nil {
		logger.Warnw("order_reload_failed", "order_id", order.ID, "error", err)
	} else if full != nil {
		order = full
	}

	s.notify(ctx, NotifyOrderConfirmation, order, NotificationExtra{})
	s.notify(ctx, NotifyAdminNewOrder, order, NotificationExtra{})
	s.alertLowStock(ctx, debits)
	return order, nil
}

func (s *OrderService) buildOrder(cmd CreateOrderCommand, cart *assembledCart, quote *DiscountQuote) *models.Order {
	now := s.now()
	discountAmount := models.ZeroMoney()
	var discountCodeID *string
	if quote != nil {
		discountAmount = quote.Amount
		id := quote.Discount.ID
		discountCodeID = &id
	}
	address := cmd.ShippingAddress
	shippingCost := s.shipping.Cost(address.City, address.District)
	total := cart.subtotal.Minus(discountAmount).Plus(shippingCost)

	country := address.Country
	if country == "" {
		country = s.cfg.DefaultCountry
	}
	estimated := now.AddDate(0, 0, s.cfg.EstimatedDeliveryDays)
	identity := cmd.Identity

	order := &models.Order{
		OrderNumber:       generateOrderNumber(s.cfg.NumberPrefix, now),
		Status:            constants.OrderStatusPending,
		Subtotal:          cart.subtotal,
		DiscountAmount:    discountAmount,
		DiscountCodeID:    discountCodeID,
		ShippingCost:      shippingCost,
		Tax:               models.ZeroMoney(),
		Total:             total,
		Currency:          s.cfg.Currency,
		PaymentMethod:     cmd.PaymentMethod,
		PaymentStatus:     constants.PaymentStatusPending,
		Notes:             cmd.Notes,
		EstimatedDelivery: &estimated,
		Items:             cart.items,
		ShippingAddress: &models.ShippingAddress{
			RecipientName:        address.RecipientName,
			Phone:                address.Phone,
			AlternatePhone:       address.AlternatePhone,
			AddressLine1:         address.AddressLine1,
			AddressLine2:         address.AddressLine2,
			City:                 address.City,
			District:             address.District,
			PostalCode:           address.PostalCode,
			Country:              country,
			DeliveryInstructions: address.DeliveryInstructions,
		},
		StatusHistory: []models.OrderStatusHistory{
			{
				Status:    constants.OrderStatusPending,
				Note:      "Order placed",
				ChangedBy: optionalString(identity.UserID),
			},
		},
	}
	if identity.IsGuest() {
		order.GuestEmail = cmd.GuestEmail
		order.GuestPhone = cmd.GuestPhone
		order.GuestName = cmd.GuestName
	} else {
		userID := identity.UserID
		order.UserID = &userID
	}
	return order
}

// UpdateOrderStatus 管理员更新订单状态
func (s *OrderService) UpdateOrderStatus(ctx context.Context, cmd UpdateStatusCommand) (*models.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if !cmd.Identity.IsAdmin() {
		return nil, ErrOrderAccessDenied
	}
	return s.transition(ctx, cmd.OrderID, cmd.Identity, cmd.Status, TransitionOptions{
		Note:          cmd.Note,
		ActorID:       cmd.Identity.UserID,
		PaymentStatus: cmd.PaymentStatus,
		AdminNotes:    cmd.AdminNotes,
	}, nil)
}

// CancelOrder 取消订单：买家仅可取消待确认或已确认订单，管理员可在任意可取消状态下取消
func (s *OrderService) CancelOrder(ctx context.Context, cmd CancelOrderCommand) (*models.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	reason := cmd.Reason
	if reason == "" {
		reason = defaultCancelReason
	}
	identity := cmd.Identity
	guard := func(order *models.Order) error {
		if identity.IsAdmin() {
			if !CanTransition(order.Status, constants.OrderStatusCancelled) {
				return ErrOrderCancelNotAllowed
			}
			return nil
		}
		if !order.OwnedBy(identity.UserID) {
			return ErrOrderAccessDenied
		}
		if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusConfirmed {
			return ErrOrderCancelNotAllowed
		}
		return nil
	}
	return s.transition(ctx, cmd.OrderID, identity, constants.OrderStatusCancelled, TransitionOptions{
		Note:    reason,
		ActorID: identity.UserID,
	}, guard)
}

func (s *OrderService) transition(ctx context.Context, orderID string, identity Identity, to string, opts TransitionOptions, guard func(order *models.Order) error) (*models.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderNotFound
	}

	var order *models.Order
	var result *TransitionResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrOrderNotFound
		}
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}
		result, err = s.lifecycle.Transition(tx, current, to, opts)
		if err != nil {
			return err
		}
		order = current
		return nil
	})
	if err != nil {
		return nil, wrapStorageError(ErrOrderUpdateFailed, err)
	}

	s.metrics.IncTransition(result.From, result.To)
	for _, restored := range result.Restored {
		s.metrics.IncStockMovement(restored.Movement.Type)
	}
	logger.Infow("order_status_changed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"from", result.From,
		"to", result.To,
		"actor_id", identity.UserID,
	)
	if err := cache.DelOrderTrack(ctx, order.OrderNumber); err != nil {
		logger.Warnw("order_track_cache_invalidate_failed", "order_number", order.OrderNumber, "error", err)
	}

	full, err := s.store.WithContext(ctx).Orders.GetByID(order.ID)
	if err != nil {
		logger.Warnw("order_reload_failed", "order_id", order.ID, "error", err)
	} else if full != nil {
		order = full
	}
	s.notify(ctx, NotifyStatusUpdate, order, NotificationExtra{PreviousStatus: result.From, Note: opts.Note})
	return order, nil
}

// notify 提交后的通知，失败只记录日志
func (s *OrderService) notify(ctx context.Context, kind NotificationKind, order *models.Order, extra NotificationExtra) {
	if err := s.notifier.Notify(ctx, kind, order, extra); err != nil {
		logger.Warnw("order_notify_enqueue_failed",
			"kind", kind,
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"error", err,
		)
	}
}

// alertLowStock 同一规格只按最后一次变动结果告警
func (s *OrderService) alertLowStock(ctx context.Context, results []*StockResult) {
	seen := make(map[string]struct{}, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		result := results[i]
		if result == nil || !result.LowStock() {
			continue
		}
		variantID := result.Variant.ID
		if _, ok := seen[variantID]; ok {
			continue
		}
		seen[variantID] = struct{}{}
		alert := LowStockAlert{
			VariantID: variantID,
			SKU:       result.Variant.SKU,
			Stock:     result.NewStock,
			Threshold: result.Variant.LowStockThreshold,
		}
		if result.Variant.Product != nil {
			alert.ProductName = result.Variant.Product.Name
		}
		if err := s.notifier.NotifyLowStock(ctx, alert); err != nil {
			logger.Warnw("stock_low_alert_enqueue_failed", "variant_id", variantID, "error", err)
		}
	}
}
