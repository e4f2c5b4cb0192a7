package admin

import (
	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status        string  `json:"status"`
	Note          string  `json:"note"`
	PaymentStatus string  `json:"paymentStatus"`
	AdminNotes    *string `json:"adminNotes"`
}

// UpdateOrderStatus 后台推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	identity, ok := getStaffIdentity(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "validation_error", "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(c.Request.Context(), service.UpdateStatusCommand{
		OrderID:       c.Param("id"),
		Status:        req.Status,
		Note:          req.Note,
		PaymentStatus: req.PaymentStatus,
		AdminNotes:    req.AdminNotes,
		Identity:      identity,
	})
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}

	response.Success(c, order)
}

// GetOrderStats 订单统计
func (h *Handler) GetOrderStats(c *gin.Context) {
	from, err := handlershared.ParseTimeQuery(c.Query("startDate"), false)
	if err != nil {
		respondError(c, response.CodeBadRequest, "validation_error", "error.bad_request", nil)
		return
	}
	to, err := handlershared.ParseTimeQuery(c.Query("endDate"), true)
	if err != nil {
		respondError(c, response.CodeBadRequest, "validation_error", "error.bad_request", nil)
		return
	}

	stats, err := h.OrderService.Stats(c.Request.Context(), from, to)
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}

	response.Success(c, stats)
}
