package service

import (
	"strings"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// StockChange 库存变动请求
type StockChange struct {
	VariantID   string
	Quantity    int
	Type        string
	Reference   string
	ReferenceID string
	Note        string
	ActorID     string
	// Label 库存不足时用于提示的商品名
	Label string
}

// StockResult 库存变动结果
type StockResult struct {
	Variant       *models.ProductVariant
	PreviousStock int
	NewStock      int
	Movement      *models.StockMovement
}

// LowStock 变动后库存是否触及告警阈值
func (r *StockResult) LowStock() bool {
	if r == nil || r.Variant == nil {
		return false
	}
	return r.NewStock <= r.Variant.LowStockThreshold
}

// StockLedger 库存账本：每次变动都更新计数并追加一条流水，必须在事务内调用
type StockLedger struct{}

// NewStockLedger 创建库存账本
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// Debit 条件扣减库存；影响行数为 0 视为库存不足
func (l *StockLedger) Debit(tx *repository.Store, change StockChange) (*StockResult, error) {
	if change.Quantity <= 0 {
		return nil, ErrStockQuantityInvalid
	}
	if strings.TrimSpace(change.Type) == "" {
		change.Type = constants.StockMovementSale
	}
	affected, err := tx.Variants.DebitStock(change.VariantID, change.Quantity)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		variant, err := tx.Variants.GetByID(change.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, ErrVariantNotFound
		}
		return nil, withDetail(ErrInsufficientStock, stockLabel(change, variant))
	}
	return l.record(tx, change, -change.Quantity)
}

// Credit 增加库存
func (l *StockLedger) Credit(tx *repository.Store, change StockChange) (*StockResult, error) {
	if change.Quantity <= 0 {
		return nil, ErrStockQuantityInvalid
	}
	if strings.TrimSpace(change.Type) == "" {
		change.Type = constants.StockMovementReturn
	}
	affected, err := tx.Variants.CreditStock(change.VariantID, change.Quantity)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrVariantNotFound
	}
	return l.record(tx, change, change.Quantity)
}

func (l *StockLedger) record(tx *repository.Store, change StockChange, delta int) (*StockResult, error) {
	variant, err := tx.Variants.GetByID(change.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	movement := &models.StockMovement{
		ProductVariantID: change.VariantID,
		Type:             change.Type,
		Quantity:         delta,
		PreviousStock:    variant.Stock - delta,
		NewStock:         variant.Stock,
		Reference:        change.Reference,
		ReferenceID:      optionalString(change.ReferenceID),
		Note:             change.Note,
		CreatedBy:        optionalString(change.ActorID),
	}
	if err := tx.StockMovements.Create(movement); err != nil {
		return nil, err
	}
	return &StockResult{
		Variant:       variant,
		PreviousStock: movement.PreviousStock,
		NewStock:      movement.NewStock,
		Movement:      movement,
	}, nil
}

func stockLabel(change StockChange, variant *models.ProductVariant) string {
	if label := strings.TrimSpace(change.Label); label != "" {
		return label
	}
	if variant != nil && variant.SKU != "" {
		return variant.SKU
	}
	return change.VariantID
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
