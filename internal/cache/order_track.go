package cache

import (
	"context"
	"strings"
	"time"
)

func orderTrackKey(orderNumber string) string {
	return "order:track:" + strings.ToUpper(strings.TrimSpace(orderNumber))
}

// GetOrderTrack 读取订单追踪投影缓存
func GetOrderTrack(ctx context.Context, orderNumber string, dest interface{}) (bool, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return false, nil
	}
	return GetJSON(ctx, orderTrackKey(orderNumber), dest)
}

// SetOrderTrack 写入订单追踪投影缓存
func SetOrderTrack(ctx context.Context, orderNumber string, value interface{}, ttl time.Duration) error {
	if strings.TrimSpace(orderNumber) == "" || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, orderTrackKey(orderNumber), value, ttl)
}

// DelOrderTrack 订单状态变化后删除追踪缓存
func DelOrderTrack(ctx context.Context, orderNumber string) error {
	if strings.TrimSpace(orderNumber) == "" {
		return nil
	}
	return Del(ctx, orderTrackKey(orderNumber))
}

// MarkLowStockAlerted 低库存告警去重，窗口内同一规格只告警一次
func MarkLowStockAlerted(ctx context.Context, variantID string, window time.Duration) (bool, error) {
	if strings.TrimSpace(variantID) == "" {
		return false, nil
	}
	return SetNX(ctx, "stock:low_alert:"+variantID, "1", window)
}
