package service

import (
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// ProductSnapshot 下单时的商品快照：商品、启用的规格与套餐组成
type ProductSnapshot struct {
	Product    *models.Product
	Variants   map[string]*models.ProductVariant
	ComboItems map[string]*ComboItemSnapshot
}

// ComboItemSnapshot 套餐组成项及其子商品的启用规格
type ComboItemSnapshot struct {
	Item     models.ComboItem
	Child    *models.Product
	Variants map[string]*models.ProductVariant
}

// CatalogReader 商品快照读取器，必须使用与后续写操作相同的事务工作单元
type CatalogReader struct{}

// NewCatalogReader 创建商品快照读取器
func NewCatalogReader() *CatalogReader {
	return &CatalogReader{}
}

// ResolveProduct 读取商品快照；商品不存在或已下架返回 ErrProductUnavailable
func (r *CatalogReader) ResolveProduct(tx *repository.Store, productID string) (*ProductSnapshot, error) {
	product, err := tx.Products.GetWithComboItems(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, withDetail(ErrProductUnavailable, productID)
	}

	variants, err := r.activeVariants(tx, product.ID)
	if err != nil {
		return nil, err
	}
	snapshot := &ProductSnapshot{
		Product:    product,
		Variants:   variants,
		ComboItems: make(map[string]*ComboItemSnapshot, len(product.ComboItems)),
	}
	if !product.IsCombo {
		return snapshot, nil
	}

	for _, item := range product.ComboItems {
		child := item.ChildProduct
		if child == nil {
			continue
		}
		childVariants, err := r.activeVariants(tx, child.ID)
		if err != nil {
			return nil, err
		}
		snapshot.ComboItems[item.ID] = &ComboItemSnapshot{
			Item:     item,
			Child:    child,
			Variants: childVariants,
		}
	}
	return snapshot, nil
}

func (r *CatalogReader) activeVariants(tx *repository.Store, productID string) (map[string]*models.ProductVariant, error) {
	rows, err := tx.Variants.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	result := make(map[string]*models.ProductVariant, len(rows))
	for i := range rows {
		if !rows[i].IsActive {
			continue
		}
		variant := rows[i]
		result[variant.ID] = &variant
	}
	return result, nil
}
