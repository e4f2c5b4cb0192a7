package service

import (
	"context"
	"strings"
	"time"

	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

var revenueExcludedStatuses = []string{constants.OrderStatusCancelled, constants.OrderStatusRefunded}

// GetOrder 获取订单详情，仅订单所有者或管理员可见
func (s *OrderService) GetOrder(ctx context.Context, orderID string, identity Identity) (*models.Order, error) {
	order, err := s.store.WithContext(ctx).Orders.GetByID(strings.TrimSpace(orderID))
	if err != nil {
		return nil, wrapStorageError(ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !identity.IsAdmin() && !order.OwnedBy(identity.UserID) {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

// ListOrders 订单列表：管理员可看全部，其余登录用户只看自己的订单
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderListFilter, identity Identity) ([]models.Order, int64, error) {
	if !identity.IsAdmin() {
		if identity.IsGuest() {
			return nil, 0, ErrTokenInvalid
		}
		filter.UserID = identity.UserID
	}
	if status := strings.TrimSpace(filter.Status); status != "" && !isValidOrderStatus(status) {
		return nil, 0, ErrStatusInvalid
	}
	orders, total, err := s.store.WithContext(ctx).Orders.List(filter)
	if err != nil {
		return nil, 0, wrapStorageError(ErrOrderFetchFailed, err)
	}
	return orders, total, nil
}

// OrderTracking 订单追踪的公开投影
type OrderTracking struct {
	OrderNumber       string                `json:"order_number"`
	Status            string                `json:"status"`
	PaymentStatus     string                `json:"payment_status"`
	CreatedAt         time.Time             `json:"created_at"`
	EstimatedDelivery *time.Time            `json:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time            `json:"delivered_at,omitempty"`
	Items             []TrackingItem        `json:"items"`
	ShippingAddress   *TrackingAddress      `json:"shipping_address,omitempty"`
	StatusHistory     []TrackingStatusEntry `json:"status_history"`
}

// TrackingItem 追踪投影中的订单项
type TrackingItem struct {
	ProductName string       `json:"product_name"`
	Size        string       `json:"size,omitempty"`
	Color       string       `json:"color,omitempty"`
	Quantity    int          `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
	TotalPrice  models.Money `json:"total_price"`
}

// TrackingAddress 追踪投影中的收货地址
type TrackingAddress struct {
	RecipientName string `json:"recipient_name"`
	City          string `json:"city"`
	District      string `json:"district"`
}

// TrackingStatusEntry 追踪投影中的状态记录
type TrackingStatusEntry struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// trackingCacheEntry 缓存投影及用于校验的联系方式
type trackingCacheEntry struct {
	Tracking OrderTracking `json:"tracking"`
	Emails   []string      `json:"emails"`
	Phones   []string      `json:"phones"`
}

func (e trackingCacheEntry) matches(email, phone string) bool {
	if email != "" {
		for _, item := range e.Emails {
			if strings.EqualFold(item, email) {
				return true
			}
		}
		return false
	}
	phone = normalizeTrackPhone(phone)
	for _, item := range e.Phones {
		if normalizeTrackPhone(item) == phone {
			return true
		}
	}
	return false
}

// TrackOrder 按订单号与联系方式追踪订单；联系方式不匹配与订单不存在返回相同错误
func (s *OrderService) TrackOrder(ctx context.Context, query TrackOrderQuery) (*OrderTracking, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var cached trackingCacheEntry
	hit, err := cache.GetOrderTrack(ctx, query.OrderNumber, &cached)
	if err != nil {
		logger.Warnw("order_track_cache_get_failed", "order_number", query.OrderNumber, "error", err)
	}
	if hit {
		if !cached.matches(query.Email, query.Phone) {
			return nil, ErrOrderNotFound
		}
		return &cached.Tracking, nil
	}

	order, err := s.store.WithContext(ctx).Orders.GetByOrderNumber(query.OrderNumber)
	if err != nil {
		return nil, wrapStorageError(ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	entry := buildTrackingCacheEntry(order)
	ttl := time.Duration(s.cfg.TrackCacheSeconds) * time.Second
	if err := cache.SetOrderTrack(ctx, order.OrderNumber, entry, ttl); err != nil {
		logger.Warnw("order_track_cache_set_failed", "order_number", order.OrderNumber, "error", err)
	}
	if !entry.matches(query.Email, query.Phone) {
		return nil, ErrOrderNotFound
	}
	return &entry.Tracking, nil
}

func buildTrackingCacheEntry(order *models.Order) trackingCacheEntry {
	tracking := OrderTracking{
		OrderNumber:       order.OrderNumber,
		Status:            order.Status,
		PaymentStatus:     order.PaymentStatus,
		CreatedAt:         order.CreatedAt,
		EstimatedDelivery: order.EstimatedDelivery,
		DeliveredAt:       order.DeliveredAt,
		Items:             make([]TrackingItem, 0, len(order.Items)),
		StatusHistory:     make([]TrackingStatusEntry, 0, len(order.StatusHistory)),
	}
	for _, item := range order.Items {
		tracking.Items = append(tracking.Items, TrackingItem{
			ProductName: item.ProductName,
			Size:        item.Size,
			Color:       item.Color,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	for i := len(order.StatusHistory) - 1; i >= 0; i-- {
		entry := order.StatusHistory[i]
		tracking.StatusHistory = append(tracking.StatusHistory, TrackingStatusEntry{
			Status:    entry.Status,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}

	result := trackingCacheEntry{Tracking: tracking}
	if order.GuestEmail != "" {
		result.Emails = append(result.Emails, order.GuestEmail)
	}
	if order.User != nil && order.User.Email != "" {
		result.Emails = append(result.Emails, order.User.Email)
	}
	if order.GuestPhone != "" {
		result.Phones = append(result.Phones, order.GuestPhone)
	}
	if order.ShippingAddress != nil {
		result.Tracking.ShippingAddress = &TrackingAddress{
			RecipientName: order.ShippingAddress.RecipientName,
			City:          order.ShippingAddress.City,
			District:      order.ShippingAddress.District,
		}
		if order.ShippingAddress.Phone != "" {
			result.Phones = append(result.Phones, order.ShippingAddress.Phone)
		}
	}
	return result
}

func normalizeTrackPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	return strings.TrimPrefix(phone, "+88")
}

// OrderStats 订单统计
type OrderStats struct {
	TotalOrders     int64                         `json:"total_orders"`
	PendingOrders   int64                         `json:"pending_orders"`
	DeliveredOrders int64                         `json:"delivered_orders"`
	CancelledOrders int64                         `json:"cancelled_orders"`
	TotalRevenue    models.Money                  `json:"total_revenue"`
	TodayOrders     int64                         `json:"today_orders"`
	OrdersByStatus  []repository.OrderStatusCount `json:"orders_by_status"`
	RecentTrend     []OrderTrendPoint             `json:"recent_trend"`
}

// OrderTrendPoint 单日趋势
type OrderTrendPoint struct {
	Date    string       `json:"date"`
	Orders  int64        `json:"orders"`
	Revenue models.Money `json:"revenue"`
}

// Stats 订单统计：总数与营收可按时间范围过滤，趋势为最近 7 天（不含取消与退款）
func (s *OrderService) Stats(ctx context.Context, from, to *time.Time) (*OrderStats, error) {
	repo := s.store.WithContext(ctx).Orders
	now := s.now()

	total, err := repo.CountBetween(from, to)
	if err != nil {
		return nil, wrapStorageError(ErrOrderFetchFailed, err)
	}
	byStatus, err := repo.CountByStatus()
	if err != nil {
		return nil, wrapStorageError(ErrOrderFetchFailed, err)
	}
	revenue, err := repo.SumRevenue(revenueExcludedStatuses, from, to)
	if err != nil {
		return nil, wrapStorageError(ErrOrderFetchFailed, err)
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := repo.CountSince(startOfDay)
	if err != nil {
		return nil, wrapStorageError(ErrOrderFetchFailed, err)
	}
	rows, err := repo.ListTrendSince(now.AddDate(0, 0, -7))
	if err != nil {
		return nil, wrapStorageError(ErrOrderFetchFailed, err)
	}

	stats := &OrderStats{
		TotalOrders:    total,
		TotalRevenue:   revenue,
		TodayOrders:    today,
		OrdersByStatus: byStatus,
		RecentTrend:    buildOrderTrend(rows, now.Location()),
	}
	if stats.OrdersByStatus == nil {
		stats.OrdersByStatus = []repository.OrderStatusCount{}
	}
	for _, row := range byStatus {
		switch row.Status {
		case constants.OrderStatusPending:
			stats.PendingOrders = row.Count
		case constants.OrderStatusDelivered:
			stats.DeliveredOrders = row.Count
		case constants.OrderStatusCancelled:
			stats.CancelledOrders = row.Count
		}
	}
	return stats, nil
}

// buildOrderTrend 按日期聚合，rows 需按下单时间升序
func buildOrderTrend(rows []repository.OrderTrendRow, loc *time.Location) []OrderTrendPoint {
	points := make([]OrderTrendPoint, 0, 8)
	index := make(map[string]int, 8)
	for _, row := range rows {
		if row.Status == constants.OrderStatusCancelled || row.Status == constants.OrderStatusRefunded {
			continue
		}
		date := row.CreatedAt.In(loc).Format("2006-01-02")
		pos, ok := index[date]
		if !ok {
			points = append(points, OrderTrendPoint{Date: date, Revenue: models.ZeroMoney()})
			pos = len(points) - 1
			index[date] = pos
		}
		points[pos].Orders++
		points[pos].Revenue = points[pos].Revenue.Plus(row.Total)
	}
	return points
}
