package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store 数据访问工作单元，聚合所有仓库并负责事务边界
type Store struct {
	db *gorm.DB

	Users          UserRepository
	Categories     CategoryRepository
	Products       ProductRepository
	Variants       ProductVariantRepository
	StockMovements StockMovementRepository
	DiscountCodes  DiscountCodeRepository
	DiscountUsages DiscountUsageRepository
	Orders         OrderRepository
	OrderHistory   OrderStatusHistoryRepository
}

// NewStore 基于显式传入的数据库句柄创建工作单元
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Users:          NewUserRepository(db),
		Categories:     NewCategoryRepository(db),
		Products:       NewProductRepository(db),
		Variants:       NewProductVariantRepository(db),
		StockMovements: NewStockMovementRepository(db),
		DiscountCodes:  NewDiscountCodeRepository(db),
		DiscountUsages: NewDiscountUsageRepository(db),
		Orders:         NewOrderRepository(db),
		OrderHistory:   NewOrderStatusHistoryRepository(db),
	}
}

// DB 返回底层句柄
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithContext 返回绑定请求上下文的工作单元
func (s *Store) WithContext(ctx context.Context) *Store {
	if ctx == nil {
		return s
	}
	return NewStore(s.db.WithContext(ctx))
}

// Transaction 在单个数据库事务中执行 fn，fn 内只能使用传入的 tx 工作单元
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	db := s.db
	if ctx != nil {
		db = db.WithContext(ctx)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
