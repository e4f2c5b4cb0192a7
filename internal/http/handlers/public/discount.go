package public

import (
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ValidateDiscount 校验优惠码（不占用额度）
// 规则拒绝返回 200 且 valid=false，附带原因码
func (h *Handler) ValidateDiscount(c *gin.Context) {
	var cmd service.ValidateDiscountCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondError(c, response.CodeBadRequest, "validation_error", "error.bad_request", nil)
		return
	}
	if identity := currentIdentity(c); !identity.IsGuest() {
		cmd.UserID = identity.UserID
	}

	result, err := h.DiscountService.ValidateDiscount(c.Request.Context(), cmd)
	if err != nil {
		respondDiscountValidateError(c, err)
		return
	}

	response.Success(c, result)
}
