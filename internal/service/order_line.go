package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// OrderLineInput 购物车行
type OrderLineInput struct {
	ProductID       string                `json:"productId" validate:"required"`
	VariantID       string                `json:"variantId"`
	Quantity        int                   `json:"quantity" validate:"required,min=1"`
	ComboSelections []ComboSelectionInput `json:"comboSelections" validate:"omitempty,dive"`
}

// ComboSelectionInput 套餐组成项选择
type ComboSelectionInput struct {
	ComboItemID string `json:"comboItemId" validate:"required"`
	VariantID   string `json:"variantId"`
}

// reservation 订单行扣减库存所需的订单上下文
type reservation struct {
	OrderID     string
	OrderNumber string
	ActorID     string
}

// soldCount 商品销量增量
type soldCount struct {
	ProductID string
	Quantity  int
}

// orderableLine 可下单的订单行（普通商品或套餐）
type orderableLine interface {
	// validate 下单前的库存与规格预检（仅作提示，最终以扣减结果为准）
	validate() error
	// orderItem 定价后的订单项快照
	orderItem() models.OrderItem
	// stockChanges 需要扣减的规格库存，由调用方统一排序后执行
	stockChanges(ctx reservation) []StockChange
	// soldCounts 需要累加的商品销量
	soldCounts() []soldCount
	cartItem() DiscountCartItem
}

// simpleLine 普通商品行
type simpleLine struct {
	product  *models.Product
	variant  *models.ProductVariant
	quantity int
}

func (l *simpleLine) validate() error {
	if l.variant != nil && l.variant.Stock < l.quantity {
		return withDetail(ErrInsufficientStock, l.product.Name)
	}
	return nil
}

func (l *simpleLine) unitPrice() models.Money {
	price := l.product.EffectivePrice()
	if l.variant != nil {
		price = price.Plus(l.variant.PriceAdjustment)
	}
	return price
}

func (l *simpleLine) orderItem() models.OrderItem {
	unit := l.unitPrice()
	item := models.OrderItem{
		ProductID:   l.product.ID,
		ProductName: l.product.Name,
		ProductSKU:  l.product.SKU,
		Quantity:    l.quantity,
		UnitPrice:   unit,
		TotalPrice:  unit.Times(l.quantity),
	}
	if l.variant != nil {
		variantID := l.variant.ID
		item.ProductVariantID = &variantID
		item.ProductSKU = l.variant.SKU
		item.Size = l.variant.Size
		item.Color = l.variant.Color
	}
	return item
}

func (l *simpleLine) stockChanges(ctx reservation) []StockChange {
	if l.variant == nil {
		return nil
	}
	return []StockChange{{
		VariantID:   l.variant.ID,
		Quantity:    l.quantity,
		Type:        constants.StockMovementSale,
		Reference:   constants.StockReferenceOrder,
		ReferenceID: ctx.OrderID,
		Note:        fmt.Sprintf("Sold via order %s", ctx.OrderNumber),
		ActorID:     ctx.ActorID,
		Label:       l.product.Name,
	}}
}

func (l *simpleLine) soldCounts() []soldCount {
	return []soldCount{{ProductID: l.product.ID, Quantity: l.quantity}}
}

func (l *simpleLine) cartItem() DiscountCartItem {
	return DiscountCartItem{ProductID: l.product.ID, CategoryID: l.product.CategoryID}
}

// comboSelection 已解析的套餐组成项选择
type comboSelection struct {
	item    models.ComboItem
	child   *models.Product
	variant *models.ProductVariant
}

func (s comboSelection) debitQuantity(lineQuantity int) int {
	return s.item.Quantity * lineQuantity
}

// comboLine 套餐行，按套餐自身售价计价，库存从子商品规格扣减
type comboLine struct {
	product    *models.Product
	quantity   int
	selections []comboSelection
}

func (l *comboLine) validate() error {
	for _, selection := range l.selections {
		if selection.variant == nil {
			continue
		}
		if selection.variant.Stock < selection.debitQuantity(l.quantity) {
			return withDetail(ErrInsufficientStock, selection.child.Name)
		}
	}
	return nil
}

func (l *comboLine) orderItem() models.OrderItem {
	unit := l.product.EffectivePrice()
	item := models.OrderItem{
		ProductID:   l.product.ID,
		ProductName: l.product.Name,
		ProductSKU:  l.product.SKU,
		Quantity:    l.quantity,
		UnitPrice:   unit,
		TotalPrice:  unit.Times(l.quantity),
	}
	for _, selection := range l.selections {
		row := models.OrderComboSelection{
			ComboItemID:     selection.item.ID,
			ChildProductID:  selection.child.ID,
			ProductName:     selection.child.Name,
			ProductSKU:      selection.child.SKU,
			Quantity:        selection.item.Quantity,
			DebitedQuantity: selection.debitQuantity(l.quantity),
		}
		if selection.variant != nil {
			variantID := selection.variant.ID
			row.ProductVariantID = &variantID
			row.ProductSKU = selection.variant.SKU
			row.Size = selection.variant.Size
			row.Color = selection.variant.Color
		}
		item.ComboSelections = append(item.ComboSelections, row)
	}
	return item
}

func (l *comboLine) stockChanges(ctx reservation) []StockChange {
	changes := make([]StockChange, 0, len(l.selections))
	for _, selection := range l.selections {
		if selection.variant == nil {
			continue
		}
		changes = append(changes, StockChange{
			VariantID:   selection.variant.ID,
			Quantity:    selection.debitQuantity(l.quantity),
			Type:        constants.StockMovementSale,
			Reference:   constants.StockReferenceOrder,
			ReferenceID: ctx.OrderID,
			Note:        fmt.Sprintf("Sold via combo order %s (combo: %s)", ctx.OrderNumber, l.product.Name),
			ActorID:     ctx.ActorID,
			Label:       selection.child.Name,
		})
	}
	return changes
}

// soldCounts 子商品按实际扣减件数累加，套餐本身按行数量累加
func (l *comboLine) soldCounts() []soldCount {
	counts := make([]soldCount, 0, len(l.selections)+1)
	for _, selection := range l.selections {
		counts = append(counts, soldCount{ProductID: selection.child.ID, Quantity: selection.debitQuantity(l.quantity)})
	}
	return append(counts, soldCount{ProductID: l.product.ID, Quantity: l.quantity})
}

func (l *comboLine) cartItem() DiscountCartItem {
	return DiscountCartItem{ProductID: l.product.ID, CategoryID: l.product.CategoryID}
}

// newOrderableLine 根据商品快照构造订单行
func newOrderableLine(snapshot *ProductSnapshot, input OrderLineInput) (orderableLine, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidOrderItem
	}
	if snapshot.Product.IsCombo {
		return newComboLine(snapshot, input)
	}
	line := &simpleLine{product: snapshot.Product, quantity: input.Quantity}
	if variantID := strings.TrimSpace(input.VariantID); variantID != "" {
		variant, ok := snapshot.Variants[variantID]
		if !ok {
			return nil, ErrVariantUnavailable
		}
		line.variant = variant
	}
	return line, nil
}

func newComboLine(snapshot *ProductSnapshot, input OrderLineInput) (orderableLine, error) {
	if len(input.ComboSelections) == 0 {
		return nil, withDetail(ErrComboSelectionsRequired, snapshot.Product.Name)
	}
	line := &comboLine{product: snapshot.Product, quantity: input.Quantity}
	seen := make(map[string]struct{}, len(input.ComboSelections))
	for _, raw := range input.ComboSelections {
		itemID := strings.TrimSpace(raw.ComboItemID)
		comboItem, ok := snapshot.ComboItems[itemID]
		if !ok {
			return nil, ErrInvalidComboSelection
		}
		if _, dup := seen[itemID]; dup {
			return nil, ErrInvalidComboSelection
		}
		seen[itemID] = struct{}{}

		selection := comboSelection{item: comboItem.Item, child: comboItem.Child}
		if variantID := strings.TrimSpace(raw.VariantID); variantID != "" {
			variant, ok := comboItem.Variants[variantID]
			if !ok {
				return nil, ErrVariantUnavailable
			}
			selection.variant = variant
		}
		line.selections = append(line.selections, selection)
	}
	return line, nil
}

// reservationPlan 整单的扣减计划
type reservationPlan struct {
	changes []StockChange
	sold    []soldCount
}

// planReservation 汇总所有订单行的扣减，按规格 ID、商品 ID 排序，
// 使并发下单事务以相同顺序获取行锁
func planReservation(lines []orderableLine, ctx reservation) reservationPlan {
	var plan reservationPlan
	soldByProduct := make(map[string]int)
	for _, line := range lines {
		plan.changes = append(plan.changes, line.stockChanges(ctx)...)
		for _, item := range line.soldCounts() {
			soldByProduct[item.ProductID] += item.Quantity
		}
	}
	sort.SliceStable(plan.changes, func(i, j int) bool {
		return plan.changes[i].VariantID < plan.changes[j].VariantID
	})

	productIDs := make([]string, 0, len(soldByProduct))
	for id := range soldByProduct {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)
	for _, id := range productIDs {
		plan.sold = append(plan.sold, soldCount{ProductID: id, Quantity: soldByProduct[id]})
	}
	return plan
}

// execute 依次扣减库存并累加销量，任一规格不足即返回错误由外层事务回滚
func (p reservationPlan) execute(tx *repository.Store, ledger *StockLedger) ([]*StockResult, error) {
	results := make([]*StockResult, 0, len(p.changes))
	for _, change := range p.changes {
		result, err := ledger.Debit(tx, change)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	for _, item := range p.sold {
		if err := tx.Products.IncrementSoldCount(item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}
	return results, nil
}
