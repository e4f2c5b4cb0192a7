package models

import (
	"time"

	"gorm.io/gorm"
)

// StockMovement 库存流水（只追加，quantity 为带符号的变动量）
type StockMovement struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProductVariantID string    `gorm:"type:varchar(36);index;not null" json:"product_variant_id"`
	Type             string    `gorm:"type:varchar(20);index;not null" json:"type"`
	Quantity         int       `gorm:"not null" json:"quantity"`
	PreviousStock    int       `gorm:"not null" json:"previous_stock"`
	NewStock         int       `gorm:"not null" json:"new_stock"`
	Reference        string    `gorm:"type:varchar(50)" json:"reference,omitempty"`
	ReferenceID      *string   `gorm:"type:varchar(36);index" json:"reference_id,omitempty"`
	Note             string    `gorm:"type:text" json:"note,omitempty"`
	CreatedBy        *string   `gorm:"type:varchar(36)" json:"created_by,omitempty"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (StockMovement) TableName() string {
	return "stock_movements"
}

// BeforeCreate 生成主键
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}
