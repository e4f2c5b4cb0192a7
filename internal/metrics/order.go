package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics 订单链路指标
type OrderMetrics struct {
	created        *prometheus.CounterVec
	failed         *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	stockMovements *prometheus.CounterVec
	createDuration prometheus.Histogram
}

// NewOrderMetrics 在 reg 上注册订单指标；reg 为空时返回空实现
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders committed, by payment method.",
	}, []string{"payment_method"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_create_failures_total",
		Help: "Order creations rolled back, by reason.",
	}, []string{"reason"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions, by source and target status.",
	}, []string{"from", "to"})
	stockMovements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Stock ledger movements, by type.",
	}, []string{"type"})
	createDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_create_duration_seconds",
		Help:    "Duration of the order creation transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(created, failed, transitions, stockMovements, createDuration)
	return &OrderMetrics{
		created:        created,
		failed:         failed,
		transitions:    transitions,
		stockMovements: stockMovements,
		createDuration: createDuration,
	}
}

// IncCreated 记录一次下单成功
func (m *OrderMetrics) IncCreated(paymentMethod string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncFailed 记录一次下单失败
func (m *OrderMetrics) IncFailed(reason string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncTransition 记录一次状态流转
func (m *OrderMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncStockMovement 记录一次库存流水
func (m *OrderMetrics) IncStockMovement(movementType string) {
	if m == nil || m.stockMovements == nil {
		return
	}
	m.stockMovements.WithLabelValues(normalizeLabel(movementType)).Inc()
}

// ObserveCreateDuration 记录下单耗时
func (m *OrderMetrics) ObserveCreateDuration(duration time.Duration) {
	if m == nil || m.createDuration == nil {
		return
	}
	m.createDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
