package service

import (
	"strings"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/models"
)

// ShippingCalculator 按收货地区计算固定运费
type ShippingCalculator struct {
	homeFee      models.Money
	otherFee     models.Money
	homeNames    map[string]struct{}
	homeDistrict string
}

// NewShippingCalculator 根据配置创建运费计算器
func NewShippingCalculator(cfg config.ShippingConfig) *ShippingCalculator {
	names := make(map[string]struct{}, len(cfg.HomeRegionNames))
	for _, name := range cfg.HomeRegionNames {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized != "" {
			names[normalized] = struct{}{}
		}
	}
	return &ShippingCalculator{
		homeFee:      models.NewMoneyFromFloat(cfg.HomeRegionFee),
		otherFee:     models.NewMoneyFromFloat(cfg.OtherRegionFee),
		homeNames:    names,
		homeDistrict: strings.ToLower(strings.TrimSpace(cfg.HomeDistrict)),
	}
}

// IsHomeRegion 城市命中本地区名称或区县等于本地区区县
func (c *ShippingCalculator) IsHomeRegion(city, district string) bool {
	if _, ok := c.homeNames[strings.ToLower(strings.TrimSpace(city))]; ok {
		return true
	}
	district = strings.ToLower(strings.TrimSpace(district))
	return c.homeDistrict != "" && district == c.homeDistrict
}

// Cost 返回运费
func (c *ShippingCalculator) Cost(city, district string) models.Money {
	if c.IsHomeRegion(city, district) {
		return c.homeFee
	}
	return c.otherFee
}
