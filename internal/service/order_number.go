package service

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateOrderNumber 生成订单号：前缀-毫秒时间戳(36进制)-4位随机串
func generateOrderNumber(prefix string, now time.Time) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = "ATN"
	}
	timestamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return prefix + "-" + timestamp + "-" + randAlphanumeric(4)
}

func randAlphanumeric(length int) string {
	var b strings.Builder
	max := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(orderNumberAlphabet[n.Int64()])
	}
	return b.String()
}
