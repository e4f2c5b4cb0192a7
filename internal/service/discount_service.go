package service

import (
	"context"

	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// DiscountService 优惠码查询服务（仅校验，不占用额度）
type DiscountService struct {
	store     *repository.Store
	evaluator *DiscountEvaluator
}

// NewDiscountService 创建优惠码服务
func NewDiscountService(store *repository.Store) *DiscountService {
	return &DiscountService{store: store, evaluator: NewDiscountEvaluator()}
}

// DiscountValidation 优惠码校验结果
type DiscountValidation struct {
	Valid             bool          `json:"valid"`
	Code              string        `json:"code"`
	Type              string        `json:"type,omitempty"`
	Value             *models.Money `json:"value,omitempty"`
	DiscountAmount    models.Money  `json:"discount_amount"`
	Description       string        `json:"description,omitempty"`
	MinOrderAmount    *models.Money `json:"min_order_amount,omitempty"`
	MaxDiscountAmount *models.Money `json:"max_discount_amount,omitempty"`
	Reason            string        `json:"reason,omitempty"`
	err               error
}

// Err 拒绝原因对应的业务错误，有效时为 nil
func (v *DiscountValidation) Err() error {
	return v.err
}

// ValidateDiscount 按下单时相同的规则评估优惠码；规则拒绝以 Valid=false 返回，存储故障返回错误
func (s *DiscountService) ValidateDiscount(ctx context.Context, cmd ValidateDiscountCommand) (*DiscountValidation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	code := models.NormalizeDiscountCode(cmd.Code)
	quote, err := s.evaluator.Evaluate(s.store.WithContext(ctx), DiscountInput{
		Code:      code,
		Subtotal:  cmd.Subtotal,
		UserID:    cmd.UserID,
		CartItems: cmd.Items,
	})
	if err != nil {
		if KindOf(err) == ErrorKindInternal {
			return nil, wrapStorageError(ErrOrderFetchFailed, err)
		}
		return &DiscountValidation{
			Valid:          false,
			Code:           code,
			DiscountAmount: models.ZeroMoney(),
			Reason:         ReasonOf(err),
			err:            err,
		}, nil
	}
	discount := quote.Discount
	value := discount.Value
	return &DiscountValidation{
		Valid:             true,
		Code:              discount.Code,
		Type:              discount.Type,
		Value:             &value,
		DiscountAmount:    quote.Amount,
		Description:       discount.Description,
		MinOrderAmount:    discount.MinOrderAmount,
		MaxDiscountAmount: discount.MaxDiscountAmount,
	}, nil
}
