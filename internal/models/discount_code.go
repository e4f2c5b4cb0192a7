package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DiscountCode 优惠码表
type DiscountCode struct {
	ID                   string     `gorm:"type:varchar(36);primaryKey" json:"id"`                         // 主键
	Code                 string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`             // 优惠码（大写存储）
	Description          string     `gorm:"type:text" json:"description,omitempty"`                        // 描述
	Type                 string     `gorm:"type:varchar(20);not null" json:"type"`                         // percentage/fixed
	Value                Money      `gorm:"type:decimal(20,2);not null" json:"value"`                      // 折扣值
	MinOrderAmount       *Money     `gorm:"type:decimal(20,2)" json:"min_order_amount,omitempty"`          // 最低订单金额
	MaxDiscountAmount    *Money     `gorm:"type:decimal(20,2)" json:"max_discount_amount,omitempty"`       // 最高优惠金额（百分比类型）
	UsageLimit           *int       `json:"usage_limit,omitempty"`                                         // 总使用次数上限
	UsedCount            int        `gorm:"not null;default:0" json:"used_count"`                          // 已使用次数
	PerUserLimit         *int       `json:"per_user_limit,omitempty"`                                      // 每用户使用上限
	StartsAt             *time.Time `json:"starts_at,omitempty"`                                           // 生效时间
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`                                          // 过期时间
	IsActive             bool       `gorm:"not null;index" json:"is_active"`                               // 是否启用
	ApplicableCategories StringList `gorm:"type:text" json:"applicable_categories,omitempty"`              // 适用分类（空表示全部）
	ApplicableProducts   StringList `gorm:"type:text" json:"applicable_products,omitempty"`                // 适用商品（空表示全部）
	CreatedAt            time.Time  `json:"created_at"`                                                    // 创建时间
	UpdatedAt            time.Time  `json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (DiscountCode) TableName() string {
	return "discount_codes"
}

// BeforeCreate 生成主键
func (d *DiscountCode) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

// BeforeSave 编码归一化
func (d *DiscountCode) BeforeSave(tx *gorm.DB) error {
	if d.Code != "" {
		d.Code = NormalizeDiscountCode(d.Code)
	}
	return nil
}

// NormalizeDiscountCode 优惠码统一去空格并转大写
func NormalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountUserUsage 用户维度优惠码使用计数
type DiscountUserUsage struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	DiscountCodeID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_discount_user_usage" json:"discount_code_id"`
	UserID         string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_discount_user_usage" json:"user_id"`
	UsedCount      int       `gorm:"not null;default:0" json:"used_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName 指定表名
func (DiscountUserUsage) TableName() string {
	return "discount_user_usages"
}

// BeforeCreate 生成主键
func (u *DiscountUserUsage) BeforeCreate(tx *gorm.DB) error {
	u.ID = ensureID(u.ID)
	return nil
}
