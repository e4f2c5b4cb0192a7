package repository

import (
	"time"

	"github.com/bazaar-next/internal/models"
)

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      string
	Status      string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StockMovementListFilter 查询库存流水的过滤条件
type StockMovementListFilter struct {
	Page      int
	PageSize  int
	VariantID string
	Type      string
}

// OrderStatusCount 状态维度订单计数
type OrderStatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StockReplay 库存流水回放结果
type StockReplay struct {
	MovementCount int64 `json:"movement_count"`
	ReplayedStock int64 `json:"replayed_stock"`
}

// OrderTrendRow 趋势统计的原始行
type OrderTrendRow struct {
	CreatedAt time.Time
	Total     models.Money
	Status    string
}
