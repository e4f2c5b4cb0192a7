package repository

import (
	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// OrderStatusHistoryRepository 订单状态记录（只追加）
type OrderStatusHistoryRepository interface {
	Create(entry *models.OrderStatusHistory) error
	ListByOrder(orderID string) ([]models.OrderStatusHistory, error)
	WithTx(tx *gorm.DB) OrderStatusHistoryRepository
}

// GormOrderStatusHistoryRepository GORM 实现
type GormOrderStatusHistoryRepository struct {
	db *gorm.DB
}

// NewOrderStatusHistoryRepository 创建状态记录仓库
func NewOrderStatusHistoryRepository(db *gorm.DB) *GormOrderStatusHistoryRepository {
	return &GormOrderStatusHistoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderStatusHistoryRepository) WithTx(tx *gorm.DB) OrderStatusHistoryRepository {
	if tx == nil {
		return r
	}
	return &GormOrderStatusHistoryRepository{db: tx}
}

// Create 追加状态记录
func (r *GormOrderStatusHistoryRepository) Create(entry *models.OrderStatusHistory) error {
	return r.db.Create(entry).Error
}

// ListByOrder 按时间顺序列出订单状态记录
func (r *GormOrderStatusHistoryRepository) ListByOrder(orderID string) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	if err := r.db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
