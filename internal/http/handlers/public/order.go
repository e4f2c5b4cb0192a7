package public

import (
	"strings"

	"github.com/bazaar-next/internal/constants"
	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	service.CreateOrderCommand
	handlershared.CaptchaPayloadRequest
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CreateOrder 创建订单（游客或登录用户）
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "validation_error", "error.bad_request", nil)
		return
	}

	identity := currentIdentity(c)
	if identity.IsGuest() {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneGuestCreateOrder, req.CaptchaPayloadRequest.ToServicePayload()); err != nil {
			respondOrderCreateError(c, err)
			return
		}
	}

	cmd := req.CreateOrderCommand
	cmd.Identity = identity
	order, err := h.OrderService.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}

	response.Created(c, order)
}

// ListOrders 订单列表：买家只看自己的，管理员看全部
func (h *Handler) ListOrders(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	page, limit := handlershared.ParsePagination(c)
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

	orders, total, err := h.OrderService.ListOrders(c.Request.Context(), repository.OrderListFilter{
		Page:        page,
		PageSize:    limit,
		Status:      strings.ToLower(strings.TrimSpace(c.Query("status"))),
		Search:      strings.TrimSpace(c.Query("search")),
		CreatedFrom: from,
		CreatedTo:   to,
	}, identity)
	if err != nil {
		respondOrderListError(c, err)
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(page, limit, total))
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		respondOrderAccessError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelOrder 取消订单：买家仅限待确认/已确认，管理员任意可取消状态
func (h *Handler) CancelOrder(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "validation_error", "error.bad_request", nil)
			return
		}
	}

	order, err := h.OrderService.CancelOrder(c.Request.Context(), service.CancelOrderCommand{
		OrderID:  c.Param("id"),
		Reason:   req.Reason,
		Identity: identity,
	})
	if err != nil {
		respondOrderCancelError(c, err)
		return
	}

	response.Success(c, order)
}

// TrackOrder 公开订单追踪，需订单号与下单邮箱或手机号匹配
func (h *Handler) TrackOrder(c *gin.Context) {
	var captcha handlershared.CaptchaPayloadRequest
	_ = c.ShouldBindQuery(&captcha)
	if err := h.CaptchaService.Verify(constants.CaptchaSceneTrackOrder, captcha.ToServicePayload()); err != nil {
		respondOrderTrackError(c, err)
		return
	}

	tracking, err := h.OrderService.TrackOrder(c.Request.Context(), service.TrackOrderQuery{
		OrderNumber: c.Param("orderNumber"),
		Email:       c.Query("email"),
		Phone:       c.Query("phone"),
	})
	if err != nil {
		respondOrderTrackError(c, err)
		return
	}

	response.Success(c, tracking)
}
