package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（普通商品或套餐）
type Product struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`                        // 主键
	CategoryID string    `gorm:"type:varchar(36);index;not null" json:"category_id"`           // 分类ID
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`                       // 名称
	Slug       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`           // 路由标识
	SKU        string    `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"`  // 商品编码
	BasePrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"`      // 原价
	SalePrice  *Money    `gorm:"type:decimal(20,2)" json:"sale_price,omitempty"`               // 促销价（为空表示无促销）
	IsActive   bool      `gorm:"not null;index" json:"is_active"`                              // 是否上架
	IsCombo    bool      `gorm:"not null;index" json:"is_combo"`                               // 是否套餐
	SoldCount  int       `gorm:"not null;default:0" json:"sold_count"`                         // 已售数量
	SortOrder  int       `gorm:"not null;default:0" json:"sort_order"`                         // 排序
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                                   // 更新时间

	Category   *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Variants   []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	ComboItems []ComboItem      `gorm:"foreignKey:ComboProductID;constraint:OnDelete:CASCADE" json:"combo_items,omitempty"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// BeforeCreate 生成主键
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

// EffectivePrice 当前售价：有促销价取促销价，否则取原价
func (p Product) EffectivePrice() Money {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.BasePrice
}

// ProductVariant 商品规格表（库存维度）
type ProductVariant struct {
	ID                string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProductID         string    `gorm:"type:varchar(36);index;not null" json:"product_id"`
	SKU               string    `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"`
	Size              string    `gorm:"type:varchar(20)" json:"size,omitempty"`
	Color             string    `gorm:"type:varchar(50)" json:"color,omitempty"`
	ColorCode         string    `gorm:"type:varchar(7)" json:"color_code,omitempty"`
	PriceAdjustment   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_adjustment"`
	Stock             int       `gorm:"not null;default:0" json:"stock"`
	LowStockThreshold int       `gorm:"not null;default:5" json:"low_stock_threshold"`
	IsActive          bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// BeforeCreate 生成主键
func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	v.ID = ensureID(v.ID)
	return nil
}

// ComboItem 套餐组成项
type ComboItem struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ComboProductID string    `gorm:"type:varchar(36);index;not null" json:"combo_product_id"`
	ChildProductID string    `gorm:"type:varchar(36);index;not null" json:"child_product_id"`
	Quantity       int       `gorm:"not null;default:1" json:"quantity"`
	Label          string    `gorm:"type:varchar(100)" json:"label,omitempty"`
	SortOrder      int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	ChildProduct *Product `gorm:"foreignKey:ChildProductID" json:"child_product,omitempty"`
}

// TableName 指定表名
func (ComboItem) TableName() string {
	return "combo_items"
}

// BeforeCreate 生成主键
func (ci *ComboItem) BeforeCreate(tx *gorm.DB) error {
	ci.ID = ensureID(ci.ID)
	return nil
}
