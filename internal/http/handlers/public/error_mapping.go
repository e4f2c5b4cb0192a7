package public

import (
	"github.com/bazaar-next/internal/http/response"
	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError = handlershared.MappedError

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var captchaErrorRules = []mappedHandlerError{
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeInternal, Key: "error.captcha_config_invalid"},
}

// 下单时优惠码的任何拒绝都属于业务规则失败
var discountErrorRules = []mappedHandlerError{
	{Target: service.ErrDiscountNotFound, Code: response.CodeBadRequest, Key: "error.discount_not_found"},
	{Target: service.ErrDiscountNotYetActive, Code: response.CodeBadRequest, Key: "error.discount_not_started"},
	{Target: service.ErrDiscountExpired, Code: response.CodeBadRequest, Key: "error.discount_expired"},
	{Target: service.ErrDiscountUsageLimit, Code: response.CodeConflict, Key: "error.discount_usage_limit"},
	{Target: service.ErrDiscountPerUserLimit, Code: response.CodeBadRequest, Key: "error.discount_per_user_limit"},
	{Target: service.ErrDiscountBelowMinimum, Code: response.CodeBadRequest, Key: "error.discount_min_order"},
	{Target: service.ErrDiscountNotApplicable, Code: response.CodeBadRequest, Key: "error.discount_not_applicable"},
}

var orderCreateErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderItemsRequired, Code: response.CodeBadRequest, Key: "error.order_items_required"},
	{Target: service.ErrGuestInfoRequired, Code: response.CodeBadRequest, Key: "error.guest_info_required"},
	{Target: service.ErrInvalidOrderItem, Code: response.CodeBadRequest, Key: "error.order_item_invalid"},
	{Target: service.ErrProductUnavailable, Code: response.CodeBadRequest, Key: "error.product_unavailable"},
	{Target: service.ErrVariantUnavailable, Code: response.CodeBadRequest, Key: "error.variant_unavailable"},
	{Target: service.ErrComboSelectionsRequired, Code: response.CodeBadRequest, Key: "error.combo_selection_required"},
	{Target: service.ErrInvalidComboSelection, Code: response.CodeBadRequest, Key: "error.combo_selection_invalid"},
	{Target: service.ErrInsufficientStock, Code: response.CodeConflict, Key: "error.insufficient_stock"},
	{Target: service.ErrPaymentMethodInvalid, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
}

var orderAccessErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderAccessDenied, Code: response.CodeForbidden, Key: "error.order_access_denied"},
	{Target: service.ErrTokenInvalid, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
}

var orderCancelErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderCancelNotAllowed, Code: response.CodeConflict, Key: "error.order_cancel_not_allowed"},
	{Target: service.ErrInvalidTransition, Code: response.CodeConflict, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderStatusConflict, Code: response.CodeConflict, Key: "error.conflict"},
}

var orderTrackErrorRules = []mappedHandlerError{
	{Target: service.ErrTrackContactRequired, Code: response.CodeBadRequest, Key: "error.track_contact_required"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
}

var orderListErrorRules = []mappedHandlerError{
	{Target: service.ErrStatusInvalid, Code: response.CodeBadRequest, Key: "error.status_invalid"},
	{Target: service.ErrTokenInvalid, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err, concatMappedHandlerErrors(captchaErrorRules, orderCreateErrorRules, discountErrorRules))
}

func respondOrderAccessError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err, orderAccessErrorRules)
}

func respondOrderCancelError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err, concatMappedHandlerErrors(orderAccessErrorRules, orderCancelErrorRules))
}

func respondOrderTrackError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err, concatMappedHandlerErrors(captchaErrorRules, orderTrackErrorRules))
}

func respondOrderListError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err, orderListErrorRules)
}

func respondDiscountValidateError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err, discountErrorRules)
}
