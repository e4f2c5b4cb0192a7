package service

import (
	"context"
	"strings"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/metrics"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// StockService 后台库存服务：手工入账、流水查询与对账
type StockService struct {
	store    *repository.Store
	ledger   *StockLedger
	notifier NotificationSink
	metrics  *metrics.OrderMetrics
}

// NewStockService 创建库存服务
func NewStockService(store *repository.Store, notifier NotificationSink, orderMetrics *metrics.OrderMetrics) *StockService {
	if notifier == nil {
		notifier = NopNotificationSink{}
	}
	return &StockService{
		store:    store,
		ledger:   NewStockLedger(),
		notifier: notifier,
		metrics:  orderMetrics,
	}
}

// StockReconciliation 库存对账结果
type StockReconciliation struct {
	VariantID     string `json:"variant_id"`
	Stock         int    `json:"stock"`
	ReplayedStock int64  `json:"replayed_stock"`
	MovementCount int64  `json:"movement_count"`
	Consistent    bool   `json:"consistent"`
}

// AdjustStock 非订单库存变动：purchase 入库、damage 出库、adjustment 按符号入库或出库
func (s *StockService) AdjustStock(ctx context.Context, cmd AdjustStockCommand) (*models.StockMovement, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	variantID := strings.TrimSpace(cmd.VariantID)
	change := StockChange{
		VariantID: variantID,
		Type:      cmd.Type,
		Reference: constants.StockReferenceManual,
		Note:      cmd.Note,
		ActorID:   cmd.ActorID,
	}
	debit := false
	switch cmd.Type {
	case constants.StockMovementPurchase:
		if cmd.Quantity <= 0 {
			return nil, ErrStockQuantityInvalid
		}
		change.Quantity = cmd.Quantity
	case constants.StockMovementDamage:
		if cmd.Quantity <= 0 {
			return nil, ErrStockQuantityInvalid
		}
		change.Quantity = cmd.Quantity
		debit = true
	case constants.StockMovementAdjustment:
		if cmd.Quantity == 0 {
			return nil, ErrStockQuantityInvalid
		}
		change.Quantity = cmd.Quantity
		if cmd.Quantity < 0 {
			change.Quantity = -cmd.Quantity
			debit = true
		}
	default:
		return nil, ErrStockMovementTypeInvalid
	}

	var result *StockResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		variant, err := tx.Variants.GetByID(variantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrVariantNotFound
		}
		if debit {
			result, err = s.ledger.Debit(tx, change)
		} else {
			result, err = s.ledger.Credit(tx, change)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStockMovement(result.Movement.Type)
	logger.Infow("stock_adjusted",
		"variant_id", variantID,
		"type", result.Movement.Type,
		"quantity", result.Movement.Quantity,
		"previous_stock", result.PreviousStock,
		"new_stock", result.NewStock,
		"actor_id", cmd.ActorID,
	)
	if debit && result.LowStock() {
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
	return result.Movement, nil
}

// ListMovements 库存流水列表（按时间倒序）
func (s *StockService) ListMovements(ctx context.Context, filter repository.StockMovementListFilter) ([]models.StockMovement, int64, error) {
	if movementType := strings.TrimSpace(filter.Type); movementType != "" && !isValidMovementType(movementType) {
		return nil, 0, ErrStockMovementTypeInvalid
	}
	return s.store.WithContext(ctx).StockMovements.List(filter)
}

// Reconcile 回放流水并与当前库存比对
func (s *StockService) Reconcile(ctx context.Context, variantID string) (*StockReconciliation, error) {
	store := s.store.WithContext(ctx)
	variant, err := store.Variants.GetByID(strings.TrimSpace(variantID))
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	replay, err := store.StockMovements.Replay(variant.ID)
	if err != nil {
		return nil, err
	}
	result := &StockReconciliation{
		VariantID:     variant.ID,
		Stock:         variant.Stock,
		ReplayedStock: replay.ReplayedStock,
		MovementCount: replay.MovementCount,
		Consistent:    replay.ReplayedStock == int64(variant.Stock),
	}
	if !result.Consistent {
		logger.Warnw("stock_reconcile_mismatch",
			"variant_id", variant.ID,
			"stock", variant.Stock,
			"replayed_stock", replay.ReplayedStock,
		)
	}
	return result, nil
}

func isValidMovementType(movementType string) bool {
	switch movementType {
	case constants.StockMovementPurchase,
		constants.StockMovementSale,
		constants.StockMovementReturn,
		constants.StockMovementAdjustment,
		constants.StockMovementDamage:
		return true
	}
	return false
}
