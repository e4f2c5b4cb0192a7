package admin

import (
	"strings"

	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdjustStockRequest 库存调整请求
type AdjustStockRequest struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

// AdjustStock 录入非订单库存流水
func (h *Handler) AdjustStock(c *gin.Context) {
	identity, ok := getStaffIdentity(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "validation_error", "error.bad_request", nil)
		return
	}

	movement, err := h.StockService.AdjustStock(c.Request.Context(), service.AdjustStockCommand{
		VariantID: c.Param("id"),
		Type:      req.Type,
		Quantity:  req.Quantity,
		Note:      req.Note,
		ActorID:   identity.UserID,
	})
	if err != nil {
		respondStockError(c, err)
		return
	}

	response.Created(c, movement)
}

// ListStockMovements 库存流水列表
func (h *Handler) ListStockMovements(c *gin.Context) {
	page, limit := handlershared.ParsePagination(c)
	movements, total, err := h.StockService.ListMovements(c.Request.Context(), repository.StockMovementListFilter{
		Page:      page,
		PageSize:  limit,
		VariantID: strings.TrimSpace(c.Param("id")),
		Type:      strings.ToLower(strings.TrimSpace(c.Query("type"))),
	})
	if err != nil {
		respondStockError(c, err)
		return
	}

	response.SuccessWithPage(c, movements, response.NewPagination(page, limit, total))
}

// ReconcileStock 回放库存流水并比对当前库存
func (h *Handler) ReconcileStock(c *gin.Context) {
	result, err := h.StockService.Reconcile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStockError(c, err)
		return
	}

	response.Success(c, result)
}
