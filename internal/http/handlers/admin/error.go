package admin

import (
	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, reason, key string, err error) {
	handlershared.RespondError(c, code, reason, key, err)
}

var orderStatusErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrInvalidTransition, Code: response.CodeConflict, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderStatusConflict, Code: response.CodeConflict, Key: "error.conflict"},
	{Target: service.ErrStatusInvalid, Code: response.CodeBadRequest, Key: "error.status_invalid"},
	{Target: service.ErrOrderAccessDenied, Code: response.CodeForbidden, Key: "error.forbidden"},
}

var stockErrorRules = []handlershared.MappedError{
	{Target: service.ErrVariantNotFound, Code: response.CodeNotFound, Key: "error.variant_not_found"},
	{Target: service.ErrInsufficientStock, Code: response.CodeConflict, Key: "error.insufficient_stock"},
	{Target: service.ErrStockQuantityInvalid, Code: response.CodeBadRequest, Key: "error.stock_quantity_invalid"},
	{Target: service.ErrStockMovementTypeInvalid, Code: response.CodeBadRequest, Key: "error.stock_movement_type_invalid"},
}

func respondOrderStatusError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err, orderStatusErrorRules)
}

func respondStockError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err, stockErrorRules)
}
