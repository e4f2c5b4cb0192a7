package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"

	"github.com/go-playground/validator/v10"
)

var bdPhonePattern = regexp.MustCompile(`^(?:\+88)?01[3-9]\d{8}$`)

var commandValidator = newCommandValidator()

func newCommandValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("bdphone", func(fl validator.FieldLevel) bool {
		return IsBangladeshPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return isValidOrderStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return isValidPaymentStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return isValidPaymentMethod(fl.Field().String())
	})
	return v
}

// IsBangladeshPhone 校验孟加拉手机号（可带 +88 前缀）
func IsBangladeshPhone(phone string) bool {
	return bdPhonePattern.MatchString(strings.TrimSpace(phone))
}

func isValidPaymentMethod(method string) bool {
	for _, item := range constants.PaymentMethods {
		if item == method {
			return true
		}
	}
	return false
}

// Identity 请求方身份，游客为空
type Identity struct {
	UserID string
	Role   string
}

// IsGuest 是否游客
func (i Identity) IsGuest() bool {
	return strings.TrimSpace(i.UserID) == ""
}

// IsAdmin 是否管理员；订单的跨用户访问、改状态与代取消只对管理员开放
func (i Identity) IsAdmin() bool {
	return i.Role == constants.RoleAdmin
}

// ShippingAddressInput 收货地址
type ShippingAddressInput struct {
	RecipientName        string `json:"recipientName" validate:"required,max=200"`
	Phone                string `json:"phone" validate:"required,bdphone"`
	AlternatePhone       string `json:"alternatePhone" validate:"omitempty,bdphone"`
	AddressLine1         string `json:"addressLine1" validate:"required,max=255"`
	AddressLine2         string `json:"addressLine2" validate:"max=255"`
	City                 string `json:"city" validate:"required,max=100"`
	District             string `json:"district" validate:"required,max=100"`
	PostalCode           string `json:"postalCode" validate:"max=10"`
	Country              string `json:"country" validate:"max=100"`
	DeliveryInstructions string `json:"deliveryInstructions" validate:"max=500"`
}

// CreateOrderCommand 下单命令
type CreateOrderCommand struct {
	Items           []OrderLineInput     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress"`
	PaymentMethod   string               `json:"paymentMethod" validate:"required,payment_method"`
	DiscountCode    string               `json:"discountCode" validate:"max=50"`
	GuestEmail      string               `json:"guestEmail" validate:"omitempty,email,max=255"`
	GuestPhone      string               `json:"guestPhone" validate:"omitempty,bdphone"`
	GuestName       string               `json:"guestName" validate:"max=200"`
	Notes           string               `json:"notes" validate:"max=1000"`
	Identity        Identity             `json:"-"`
}

// UpdateStatusCommand 后台更新订单状态命令
type UpdateStatusCommand struct {
	OrderID       string   `json:"-"`
	Status        string   `json:"status" validate:"required,order_status"`
	Note          string   `json:"note" validate:"max=500"`
	PaymentStatus string   `json:"paymentStatus" validate:"omitempty,payment_status"`
	AdminNotes    *string  `json:"adminNotes" validate:"omitempty,max=2000"`
	Identity      Identity `json:"-"`
}

// CancelOrderCommand 取消订单命令
type CancelOrderCommand struct {
	OrderID  string   `json:"-"`
	Reason   string   `json:"reason" validate:"max=500"`
	Identity Identity `json:"-"`
}

// TrackOrderQuery 订单追踪查询
type TrackOrderQuery struct {
	OrderNumber string `json:"orderNumber" validate:"required,max=32"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=20"`
}

// ValidateDiscountCommand 优惠码校验命令
type ValidateDiscountCommand struct {
	Code     string             `json:"code" validate:"required,max=50"`
	Subtotal models.Money       `json:"subtotal"`
	UserID   string             `json:"userId"`
	Items    []DiscountCartItem `json:"items"`
}

// AdjustStockCommand 后台库存调整命令
type AdjustStockCommand struct {
	VariantID string `json:"-"`
	Type      string `json:"type" validate:"required,oneof=purchase adjustment damage"`
	Quantity  int    `json:"quantity" validate:"required"`
	Note      string `json:"note" validate:"max=500"`
	ActorID   string `json:"-"`
}

// ValidationError 字段级校验错误
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, message := range e.Fields {
		parts = append(parts, field+" "+message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput.msg, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// FieldErrors 返回字段级校验详情
func FieldErrors(err error) map[string]string {
	var target *ValidationError
	if errors.As(err, &target) {
		return target.Fields
	}
	return nil
}

// ValidateStruct 使用命令校验规则校验结构体
func ValidateStruct(value interface{}) error {
	if err := commandValidator.Struct(value); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fields := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		fields[fieldPath(fieldErr)] = validationMessage(fieldErr)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath 去掉顶层结构体名，保留 items[0].quantity 形式的路径
func fieldPath(fe validator.FieldError) string {
	namespace := fe.Namespace()
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "bdphone":
		return "must be a valid Bangladeshi phone number"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "order_status":
		return "must be a valid order status"
	case "payment_status":
		return "must be a valid payment status"
	case "payment_method":
		return "must be a valid payment method"
	}
	return "is invalid"
}

// Normalize 清理下单命令的空白字段
func (c *CreateOrderCommand) Normalize() {
	c.PaymentMethod = strings.ToLower(strings.TrimSpace(c.PaymentMethod))
	c.DiscountCode = strings.TrimSpace(c.DiscountCode)
	c.GuestEmail = strings.ToLower(strings.TrimSpace(c.GuestEmail))
	c.GuestPhone = strings.TrimSpace(c.GuestPhone)
	c.GuestName = strings.TrimSpace(c.GuestName)
	c.Notes = strings.TrimSpace(c.Notes)
	for i := range c.Items {
		c.Items[i].ProductID = strings.TrimSpace(c.Items[i].ProductID)
		c.Items[i].VariantID = strings.TrimSpace(c.Items[i].VariantID)
	}
	address := &c.ShippingAddress
	address.RecipientName = strings.TrimSpace(address.RecipientName)
	address.Phone = strings.TrimSpace(address.Phone)
	address.AlternatePhone = strings.TrimSpace(address.AlternatePhone)
	address.AddressLine1 = strings.TrimSpace(address.AddressLine1)
	address.AddressLine2 = strings.TrimSpace(address.AddressLine2)
	address.City = strings.TrimSpace(address.City)
	address.District = strings.TrimSpace(address.District)
	address.PostalCode = strings.TrimSpace(address.PostalCode)
	address.Country = strings.TrimSpace(address.Country)
	address.DeliveryInstructions = strings.TrimSpace(address.DeliveryInstructions)
}

// Validate 下单命令校验：订单项、游客信息，再做字段规则
func (c *CreateOrderCommand) Validate() error {
	c.Normalize()
	if len(c.Items) == 0 {
		return ErrOrderItemsRequired
	}
	if c.Identity.IsGuest() && (c.GuestEmail == "" || c.GuestPhone == "" || c.GuestName == "") {
		return ErrGuestInfoRequired
	}
	return ValidateStruct(c)
}

// Validate 状态更新命令校验
func (c *UpdateStatusCommand) Validate() error {
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
	c.PaymentStatus = strings.ToLower(strings.TrimSpace(c.PaymentStatus))
	c.Note = strings.TrimSpace(c.Note)
	return ValidateStruct(c)
}

// Validate 取消命令校验
func (c *CancelOrderCommand) Validate() error {
	c.Reason = strings.TrimSpace(c.Reason)
	return ValidateStruct(c)
}

// Validate 追踪查询校验，邮箱与手机号至少提供一个
func (q *TrackOrderQuery) Validate() error {
	q.OrderNumber = strings.ToUpper(strings.TrimSpace(q.OrderNumber))
	q.Email = strings.ToLower(strings.TrimSpace(q.Email))
	q.Phone = strings.TrimSpace(q.Phone)
	if q.OrderNumber == "" {
		return ErrOrderNotFound
	}
	if q.Email == "" && q.Phone == "" {
		return ErrTrackContactRequired
	}
	return ValidateStruct(q)
}

// Validate 优惠码校验命令校验
func (c *ValidateDiscountCommand) Validate() error {
	c.Code = strings.TrimSpace(c.Code)
	if err := ValidateStruct(c); err != nil {
		return err
	}
	if c.Subtotal.Decimal.IsNegative() {
		return &ValidationError{Fields: map[string]string{"subtotal": "must be at least 0"}}
	}
	return nil
}

// Validate 库存调整命令校验
func (c *AdjustStockCommand) Validate() error {
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	c.Note = strings.TrimSpace(c.Note)
	return ValidateStruct(c)
}
