package service

import (
	"strings"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/shopspring/decimal"
)

// DiscountCartItem 用于判断优惠码适用范围的购物车条目
type DiscountCartItem struct {
	ProductID  string `json:"productId"`
	CategoryID string `json:"categoryId"`
}

// DiscountInput 优惠码评估输入
type DiscountInput struct {
	Code      string
	Subtotal  models.Money
	UserID    string
	CartItems []DiscountCartItem
}

// DiscountQuote 优惠码评估结果
type DiscountQuote struct {
	Discount *models.DiscountCode
	Amount   models.Money
}

// DiscountEvaluator 优惠码评估器
type DiscountEvaluator struct {
	now func() time.Time
}

// NewDiscountEvaluator 创建优惠码评估器
func NewDiscountEvaluator() *DiscountEvaluator {
	return &DiscountEvaluator{now: time.Now}
}

// Evaluate 按顺序校验优惠码并计算优惠金额，遇到首个失败即返回拒绝原因
func (e *DiscountEvaluator) Evaluate(tx *repository.Store, input DiscountInput) (*DiscountQuote, error) {
	discount, err := tx.DiscountCodes.GetByCode(input.Code)
	if err != nil {
		return nil, err
	}
	if discount == nil || !discount.IsActive {
		return nil, ErrDiscountNotFound
	}

	now := e.now()
	if discount.StartsAt != nil && discount.StartsAt.After(now) {
		return nil, ErrDiscountNotYetActive
	}
	if discount.ExpiresAt != nil && discount.ExpiresAt.Before(now) {
		return nil, ErrDiscountExpired
	}
	if discount.UsageLimit != nil && discount.UsedCount >= *discount.UsageLimit {
		return nil, ErrDiscountUsageLimit
	}

	userID := strings.TrimSpace(input.UserID)
	if userID != "" && discount.PerUserLimit != nil {
		used, err := tx.DiscountUsages.UsedCount(discount.ID, userID)
		if err != nil {
			return nil, err
		}
		if used >= *discount.PerUserLimit {
			return nil, ErrDiscountPerUserLimit
		}
	}

	if discount.MinOrderAmount != nil && input.Subtotal.Decimal.LessThan(discount.MinOrderAmount.Decimal) {
		return nil, withDetail(ErrDiscountBelowMinimum, discount.MinOrderAmount.String())
	}

	if len(input.CartItems) > 0 {
		if len(discount.ApplicableCategories) > 0 && !anyCartItem(input.CartItems, func(item DiscountCartItem) bool {
			return discount.ApplicableCategories.Contains(item.CategoryID)
		}) {
			return nil, ErrDiscountNotApplicable
		}
		if len(discount.ApplicableProducts) > 0 && !anyCartItem(input.CartItems, func(item DiscountCartItem) bool {
			return discount.ApplicableProducts.Contains(item.ProductID)
		}) {
			return nil, ErrDiscountNotApplicable
		}
	}

	return &DiscountQuote{
		Discount: discount,
		Amount:   CalculateDiscountAmount(discount, input.Subtotal),
	}, nil
}

// Redeem 下单事务内占用优惠码额度，使用条件更新防止并发超用
func (e *DiscountEvaluator) Redeem(tx *repository.Store, discount *models.DiscountCode, userID string) error {
	affected, err := tx.DiscountCodes.IncrementUsedCount(discount.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDiscountUsageLimit
	}
	userID = strings.TrimSpace(userID)
	if userID == "" || discount.PerUserLimit == nil {
		return nil
	}
	affected, err = tx.DiscountUsages.Acquire(discount.ID, userID, *discount.PerUserLimit)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDiscountPerUserLimit
	}
	return nil
}

// Release 订单取消或退款后归还用户维度额度，全局使用次数不回退
func (e *DiscountEvaluator) Release(tx *repository.Store, discountCodeID, userID string) error {
	if strings.TrimSpace(discountCodeID) == "" || strings.TrimSpace(userID) == "" {
		return nil
	}
	return tx.DiscountUsages.Release(discountCodeID, userID)
}

// CalculateDiscountAmount 计算优惠金额：百分比受上限约束，结果不超过小计，四舍五入到分
func CalculateDiscountAmount(discount *models.DiscountCode, subtotal models.Money) models.Money {
	if discount == nil {
		return models.ZeroMoney()
	}
	var amount decimal.Decimal
	switch discount.Type {
	case constants.DiscountTypePercentage:
		amount = subtotal.Decimal.Mul(discount.Value.Decimal).Div(decimal.NewFromInt(100))
		if discount.MaxDiscountAmount != nil && amount.GreaterThan(discount.MaxDiscountAmount.Decimal) {
			amount = discount.MaxDiscountAmount.Decimal
		}
	default:
		amount = discount.Value.Decimal
	}
	if amount.GreaterThan(subtotal.Decimal) {
		amount = subtotal.Decimal
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(amount)
}

func anyCartItem(items []DiscountCartItem, match func(DiscountCartItem) bool) bool {
	for _, item := range items {
		if match(item) {
			return true
		}
	}
	return false
}
