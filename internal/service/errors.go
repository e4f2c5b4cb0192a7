package service

import (
	"errors"
	"fmt"
)

// ErrorKind 业务错误分类，决定接口层的 HTTP 状态
type ErrorKind string

const (
	ErrorKindValidation    ErrorKind = "validation"
	ErrorKindNotFound      ErrorKind = "not_found"
	ErrorKindConflict      ErrorKind = "conflict"
	ErrorKindAuthorization ErrorKind = "authorization"
	ErrorKindInternal      ErrorKind = "internal"
)

// BizError 带分类与稳定原因码的业务错误
type BizError struct {
	Kind   ErrorKind
	Reason string
	msg    string
}

func (e *BizError) Error() string {
	return e.msg
}

func newBizError(kind ErrorKind, reason, msg string) *BizError {
	return &BizError{Kind: kind, Reason: reason, msg: msg}
}

// 校验错误
var (
	ErrInvalidInput             = newBizError(ErrorKindValidation, "validation_error", "invalid input")
	ErrOrderItemsRequired       = newBizError(ErrorKindValidation, "items_required", "order items required")
	ErrInvalidOrderItem         = newBizError(ErrorKindValidation, "invalid_order_item", "invalid order item")
	ErrGuestInfoRequired        = newBizError(ErrorKindValidation, "guest_info_required", "guest email, phone and name are required")
	ErrShippingAddressInvalid   = newBizError(ErrorKindValidation, "shipping_address_invalid", "shipping address invalid")
	ErrPaymentMethodInvalid     = newBizError(ErrorKindValidation, "payment_method_invalid", "payment method invalid")
	ErrStatusInvalid            = newBizError(ErrorKindValidation, "status_invalid", "status invalid")
	ErrProductUnavailable       = newBizError(ErrorKindValidation, "product_unavailable", "product unavailable")
	ErrVariantUnavailable       = newBizError(ErrorKindValidation, "variant_unavailable", "variant unavailable")
	ErrComboSelectionsRequired  = newBizError(ErrorKindValidation, "combo_selections_required", "combo selections required")
	ErrInvalidComboSelection    = newBizError(ErrorKindValidation, "invalid_combo_selection", "invalid combo selection")
	ErrTrackContactRequired     = newBizError(ErrorKindValidation, "tracking_contact_required", "email or phone is required")
	ErrStockQuantityInvalid     = newBizError(ErrorKindValidation, "stock_quantity_invalid", "stock quantity invalid")
	ErrStockMovementTypeInvalid = newBizError(ErrorKindValidation, "stock_movement_type_invalid", "stock movement type invalid")
	ErrCaptchaRequired          = newBizError(ErrorKindValidation, "captcha_required", "captcha required")
	ErrCaptchaInvalid           = newBizError(ErrorKindValidation, "captcha_invalid", "captcha invalid")
	ErrCaptchaConfigInvalid     = newBizError(ErrorKindInternal, "captcha_config_invalid", "captcha config invalid")
)

// 优惠码拒绝原因
var (
	ErrDiscountNotFound        = newBizError(ErrorKindNotFound, "discount_not_found", "discount code not found")
	ErrDiscountNotYetActive    = newBizError(ErrorKindValidation, "discount_not_yet_active", "discount code not yet active")
	ErrDiscountExpired         = newBizError(ErrorKindValidation, "discount_expired", "discount code expired")
	ErrDiscountUsageLimit      = newBizError(ErrorKindConflict, "discount_limit_reached", "discount usage limit reached")
	ErrDiscountPerUserLimit    = newBizError(ErrorKindConflict, "discount_per_user_limit_reached", "discount per-user limit reached")
	ErrDiscountBelowMinimum    = newBizError(ErrorKindValidation, "discount_below_minimum", "order below discount minimum")
	ErrDiscountNotApplicable   = newBizError(ErrorKindValidation, "discount_not_applicable", "discount not applicable")
	ErrDiscountCodeDuplicate   = newBizError(ErrorKindConflict, "duplicate_code", "discount code already exists")
	ErrInsufficientStock       = newBizError(ErrorKindConflict, "insufficient_stock", "insufficient stock")
	ErrInvalidTransition       = newBizError(ErrorKindConflict, "invalid_transition", "invalid status transition")
	ErrOrderStatusConflict     = newBizError(ErrorKindConflict, "order_status_conflict", "order status changed concurrently")
	ErrOrderCancelNotAllowed   = newBizError(ErrorKindConflict, "cancel_not_allowed", "order cannot be cancelled at this stage")
	ErrOrderNotFound           = newBizError(ErrorKindNotFound, "order_not_found", "order not found")
	ErrVariantNotFound         = newBizError(ErrorKindNotFound, "variant_not_found", "variant not found")
	ErrUserNotFound            = newBizError(ErrorKindNotFound, "user_not_found", "user not found")
	ErrOrderAccessDenied       = newBizError(ErrorKindAuthorization, "forbidden", "order access denied")
	ErrUserDisabled            = newBizError(ErrorKindAuthorization, "user_disabled", "user disabled")
	ErrTokenInvalid            = newBizError(ErrorKindAuthorization, "unauthorized", "token invalid")
	ErrNotificationUnavailable = newBizError(ErrorKindInternal, "notification_unavailable", "notification sink unavailable")
)

// 邮件发送错误
var (
	ErrEmailServiceDisabled      = newBizError(ErrorKindInternal, "email_disabled", "email service disabled")
	ErrEmailServiceNotConfigured = newBizError(ErrorKindInternal, "email_not_configured", "email service not configured")
	ErrInvalidEmail              = newBizError(ErrorKindValidation, "invalid_email", "invalid email address")
	ErrEmailRecipientRejected    = newBizError(ErrorKindValidation, "email_recipient_rejected", "email recipient rejected")
)

// 存储失败包装（通过 %w 保留底层错误）
var (
	ErrOrderCreateFailed = newBizError(ErrorKindInternal, "internal_error", "order create failed")
	ErrOrderUpdateFailed = newBizError(ErrorKindInternal, "internal_error", "order update failed")
	ErrOrderFetchFailed  = newBizError(ErrorKindInternal, "internal_error", "order fetch failed")
)

// wrapStorageError 将存储层错误包装为业务错误，业务错误原样返回
func wrapStorageError(base *BizError, err error) error {
	if err == nil {
		return nil
	}
	var biz *BizError
	if errors.As(err, &biz) {
		return err
	}
	return fmt.Errorf("%w: %v", base, err)
}

// detailError 附带文案参数的业务错误
type detailError struct {
	base *BizError
	args []interface{}
}

func (e *detailError) Error() string {
	return fmt.Sprintf("%s: %v", e.base.msg, e.args)
}

func (e *detailError) Unwrap() error {
	return e.base
}

// Args 返回文案参数
func (e *detailError) Args() []interface{} {
	return e.args
}

func withDetail(base *BizError, args ...interface{}) error {
	return &detailError{base: base, args: args}
}

// ErrorArgs 提取业务错误的文案参数
func ErrorArgs(err error) []interface{} {
	var detail *detailError
	if errors.As(err, &detail) {
		return detail.Args()
	}
	return nil
}

// KindOf 返回错误分类，非业务错误视为内部错误
func KindOf(err error) ErrorKind {
	var biz *BizError
	if errors.As(err, &biz) {
		return biz.Kind
	}
	return ErrorKindInternal
}

// ReasonOf 返回稳定原因码
func ReasonOf(err error) string {
	var biz *BizError
	if errors.As(err, &biz) {
		return biz.Reason
	}
	return "internal_error"
}
