package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                   string     `gorm:"type:varchar(36);primaryKey" json:"id"`                          // 主键
	OrderNumber          string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`      // 订单编号
	UserID               *string    `gorm:"type:varchar(36);index" json:"user_id,omitempty"`                // 用户ID（游客订单为空）
	GuestEmail           string     `gorm:"type:varchar(255);index" json:"guest_email,omitempty"`           // 游客邮箱
	GuestPhone           string     `gorm:"type:varchar(20);index" json:"guest_phone,omitempty"`            // 游客手机号
	GuestName            string     `gorm:"type:varchar(200)" json:"guest_name,omitempty"`                  // 游客姓名
	Status               string     `gorm:"type:varchar(20);index;not null" json:"status"`                  // 订单状态
	Subtotal             Money      `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`          // 商品小计
	DiscountAmount       Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`   // 优惠金额
	DiscountCodeID       *string    `gorm:"type:varchar(36);index" json:"discount_code_id,omitempty"`       // 优惠码ID
	ShippingCost         Money      `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`     // 运费
	Tax                  Money      `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`               // 税费（当前恒为 0）
	Total                Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total"`             // 应付总额
	Currency             string     `gorm:"type:varchar(3);not null" json:"currency"`                       // 币种
	PaymentMethod        string     `gorm:"type:varchar(20);not null" json:"payment_method"`                // 支付方式
	PaymentStatus        string     `gorm:"type:varchar(20);index;not null" json:"payment_status"`          // 支付状态
	PaymentTransactionID string     `gorm:"type:varchar(100)" json:"payment_transaction_id,omitempty"`      // 支付流水号
	Notes                string     `gorm:"type:text" json:"notes,omitempty"`                               // 买家备注
	AdminNotes           string     `gorm:"type:text" json:"admin_notes,omitempty"`                         // 后台备注
	EstimatedDelivery    *time.Time `json:"estimated_delivery,omitempty"`                                   // 预计送达
	DeliveredAt          *time.Time `json:"delivered_at,omitempty"`                                         // 送达时间
	CreatedAt            time.Time  `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt            time.Time  `json:"updated_at"`                                                     // 更新时间

	User            *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	ShippingAddress *ShippingAddress     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"shipping_address,omitempty"`
	DiscountCode    *DiscountCode        `gorm:"foreignKey:DiscountCodeID" json:"discount_code,omitempty"`
	StatusHistory   []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate 生成主键
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	o.ID = ensureID(o.ID)
	return nil
}

// IsGuest 是否游客订单
func (o Order) IsGuest() bool {
	return o.UserID == nil || *o.UserID == ""
}

// OwnedBy 判断订单是否属于指定用户
func (o Order) OwnedBy(userID string) bool {
	return userID != "" && o.UserID != nil && *o.UserID == userID
}

// ShippingAddress 订单收货地址（下单时快照）
type ShippingAddress struct {
	ID                   string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID              string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"order_id"`
	RecipientName        string    `gorm:"type:varchar(200);not null" json:"recipient_name"`
	Phone                string    `gorm:"type:varchar(20);not null" json:"phone"`
	AlternatePhone       string    `gorm:"type:varchar(20)" json:"alternate_phone,omitempty"`
	AddressLine1         string    `gorm:"type:varchar(255);not null" json:"address_line1"`
	AddressLine2         string    `gorm:"type:varchar(255)" json:"address_line2,omitempty"`
	City                 string    `gorm:"type:varchar(100);not null" json:"city"`
	District             string    `gorm:"type:varchar(100);not null" json:"district"`
	PostalCode           string    `gorm:"type:varchar(10)" json:"postal_code,omitempty"`
	Country              string    `gorm:"type:varchar(100);not null" json:"country"`
	DeliveryInstructions string    `gorm:"type:text" json:"delivery_instructions,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}

// BeforeCreate 生成主键
func (a *ShippingAddress) BeforeCreate(tx *gorm.DB) error {
	a.ID = ensureID(a.ID)
	return nil
}

// OrderStatusHistory 订单状态变更记录（只追加）
type OrderStatusHistory struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID   string    `gorm:"type:varchar(36);index;not null" json:"order_id"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	ChangedBy *string   `gorm:"type:varchar(36)" json:"changed_by,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}

// BeforeCreate 生成主键
func (h *OrderStatusHistory) BeforeCreate(tx *gorm.DB) error {
	h.ID = ensureID(h.ID)
	return nil
}
