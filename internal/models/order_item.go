package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项（商品信息为下单时快照）
type OrderItem struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`                      // 主键
	OrderID          string    `gorm:"type:varchar(36);index;not null" json:"order_id"`            // 订单ID
	ProductID        string    `gorm:"type:varchar(36);index;not null" json:"product_id"`          // 商品ID
	ProductVariantID *string   `gorm:"type:varchar(36);index" json:"product_variant_id,omitempty"` // 规格ID（套餐为空）
	ProductName      string    `gorm:"type:varchar(255);not null" json:"product_name"`             // 商品名称快照
	ProductSKU       string    `gorm:"column:product_sku;type:varchar(64)" json:"product_sku"`     // 商品编码快照
	Size             string    `gorm:"type:varchar(20)" json:"size,omitempty"`                     // 尺码快照
	Color            string    `gorm:"type:varchar(50)" json:"color,omitempty"`                    // 颜色快照
	Quantity         int       `gorm:"not null" json:"quantity"`                                   // 数量
	UnitPrice        Money     `gorm:"type:decimal(20,2);not null" json:"unit_price"`              // 单价
	TotalPrice       Money     `gorm:"type:decimal(20,2);not null" json:"total_price"`             // 小计
	CreatedAt        time.Time `json:"created_at"`

	Product         *Product              `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ComboSelections []OrderComboSelection `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"combo_selections,omitempty"`
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate 生成主键
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	i.ID = ensureID(i.ID)
	return nil
}

// IsCombo 是否套餐订单项
func (i OrderItem) IsCombo() bool {
	return len(i.ComboSelections) > 0
}

// OrderComboSelection 套餐订单项的组成快照
// Quantity 为单份套餐内的数量，DebitedQuantity 为实际扣减库存数量（Quantity × 订单项数量）
type OrderComboSelection struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderItemID      string    `gorm:"type:varchar(36);index;not null" json:"order_item_id"`
	ComboItemID      string    `gorm:"type:varchar(36);not null" json:"combo_item_id"`
	ChildProductID   string    `gorm:"type:varchar(36);not null" json:"child_product_id"`
	ProductVariantID *string   `gorm:"type:varchar(36);index" json:"product_variant_id,omitempty"`
	ProductName      string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductSKU       string    `gorm:"column:product_sku;type:varchar(64)" json:"product_sku"`
	Size             string    `gorm:"type:varchar(20)" json:"size,omitempty"`
	Color            string    `gorm:"type:varchar(50)" json:"color,omitempty"`
	Quantity         int       `gorm:"not null" json:"quantity"`
	DebitedQuantity  int       `gorm:"not null" json:"debited_quantity"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName 指定表名
func (OrderComboSelection) TableName() string {
	return "order_combo_selections"
}

// BeforeCreate 生成主键
func (s *OrderComboSelection) BeforeCreate(tx *gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}
