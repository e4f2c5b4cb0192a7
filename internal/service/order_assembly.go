package service

import (
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// assembledCart 定价完成的购物车
type assembledCart struct {
	lines     []orderableLine
	items     []models.OrderItem
	subtotal  models.Money
	cartItems []DiscountCartItem
}

// OrderAssembler 订单组装：解析商品快照、定价并预检库存
type OrderAssembler struct {
	catalog *CatalogReader
}

// NewOrderAssembler 创建订单组装器
func NewOrderAssembler(catalog *CatalogReader) *OrderAssembler {
	if catalog == nil {
		catalog = NewCatalogReader()
	}
	return &OrderAssembler{catalog: catalog}
}

// Assemble 逐行解析并定价，任一行失败即整体失败
func (a *OrderAssembler) Assemble(tx *repository.Store, inputs []OrderLineInput) (*assembledCart, error) {
	if len(inputs) == 0 {
		return nil, ErrOrderItemsRequired
	}
	cart := &assembledCart{subtotal: models.ZeroMoney()}
	snapshots := make(map[string]*ProductSnapshot, len(inputs))
	for _, input := range inputs {
		snapshot, ok := snapshots[input.ProductID]
		if !ok {
			resolved, err := a.catalog.ResolveProduct(tx, input.ProductID)
			if err != nil {
				return nil, err
			}
			snapshot = resolved
			snapshots[input.ProductID] = snapshot
		}
		line, err := newOrderableLine(snapshot, input)
		if err != nil {
			return nil, err
		}
		if err := line.validate(); err != nil {
			return nil, err
		}
		item := line.orderItem()
		cart.lines = append(cart.lines, line)
		cart.items = append(cart.items, item)
		cart.subtotal = cart.subtotal.Plus(item.TotalPrice)
		cart.cartItems = append(cart.cartItems, line.cartItem())
	}
	return cart, nil
}
