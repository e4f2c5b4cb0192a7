package constants

// 订单状态常量
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
	OrderStatusRefunded       = "refunded"
)

// OrderStatuses 全部订单状态（用于校验）
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// 支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// PaymentStatuses 全部支付状态
var PaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// 支付方式常量（仅记录，不对接网关）
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodBkash  = "bkash"
	PaymentMethodNagad  = "nagad"
	PaymentMethodRocket = "rocket"
)

// PaymentMethods 全部支付方式
var PaymentMethods = []string{
	PaymentMethodCOD,
	PaymentMethodBkash,
	PaymentMethodNagad,
	PaymentMethodRocket,
}

// 优惠码类型常量
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// 库存流水类型常量
const (
	StockMovementPurchase   = "purchase"
	StockMovementSale       = "sale"
	StockMovementReturn     = "return"
	StockMovementAdjustment = "adjustment"
	StockMovementDamage     = "damage"
)

// 库存流水关联类型
const (
	StockReferenceOrder             = "order"
	StockReferenceOrderCancellation = "order_cancellation"
	StockReferenceManual            = "manual"
)

// 用户角色常量
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// 异步队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskNotifyAdminNewOrder     = "notify:admin_new_order"
	TaskNotifyOrderConfirmation = "notify:order_confirmation"
	TaskNotifyOrderStatusUpdate = "notify:order_status_update"
	TaskNotifyLowStock          = "notify:low_stock"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码场景
const (
	CaptchaSceneGuestCreateOrder = "guest_create_order"
	CaptchaSceneTrackOrder       = "track_order"
)

// 分页默认值
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)
