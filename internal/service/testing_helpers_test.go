package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/metrics"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testCategoryID = "cat-apparel"

// setupServiceTestDB 创建独立的内存数据库
func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func testOrderConfig() config.OrderConfig {
	return config.OrderConfig{
		NumberPrefix:          "ATN",
		Currency:              "BDT",
		DefaultCountry:        "Bangladesh",
		EstimatedDeliveryDays: 5,
		TrackCacheSeconds:     60,
		Shipping: config.ShippingConfig{
			HomeRegionFee:   80,
			OtherRegionFee:  130,
			HomeRegionNames: []string{"dhaka", "dhaka city", "dhaka district"},
			HomeDistrict:    "dhaka",
		},
	}
}

// recordedNotification 测试用的通知记录
type recordedNotification struct {
	Kind    NotificationKind
	OrderID string
	Extra   NotificationExtra
}

// recordingSink 记录通知的测试 sink
type recordingSink struct {
	mu            sync.Mutex
	notifications []recordedNotification
	lowStock      []LowStockAlert
}

func (s *recordingSink) Notify(_ context.Context, kind NotificationKind, order *models.Order, extra NotificationExtra) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, recordedNotification{Kind: kind, OrderID: order.ID, Extra: extra})
	return nil
}

func (s *recordingSink) NotifyLowStock(_ context.Context, alert LowStockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lowStock = append(s.lowStock, alert)
	return nil
}

func (s *recordingSink) kinds() []NotificationKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]NotificationKind, 0, len(s.notifications))
	for _, item := range s.notifications {
		kinds = append(kinds, item.Kind)
	}
	return kinds
}

func (s *recordingSink) lowStockAlerts() []LowStockAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LowStockAlert(nil), s.lowStock...)
}

type orderTestEnv struct {
	db      *gorm.DB
	store   *repository.Store
	service *OrderService
	stock   *StockService
	sink    *recordingSink
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()
	return newOrderTestEnvWithDB(setupServiceTestDB(t))
}

func newOrderTestEnvWithDB(db *gorm.DB) *orderTestEnv {
	store := repository.NewStore(db)
	sink := &recordingSink{}
	orderMetrics := metrics.NewOrderMetrics(nil)
	return &orderTestEnv{
		db:      db,
		store:   store,
		service: NewOrderService(store, testOrderConfig(), sink, orderMetrics),
		stock:   NewStockService(store, sink, orderMetrics),
		sink:    sink,
	}
}

func (e *orderTestEnv) createProduct(t *testing.T, sku, basePrice string, salePrice string) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: testCategoryID,
		Name:       "Product " + sku,
		Slug:       strings.ToLower(sku),
		SKU:        sku,
		BasePrice:  models.MustMoney(basePrice),
		IsActive:   true,
	}
	if salePrice != "" {
		price := models.MustMoney(salePrice)
		product.SalePrice = &price
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

// createVariant 创建规格并通过入库流水写入初始库存，保证流水回放与库存一致
func (e *orderTestEnv) createVariant(t *testing.T, product *models.Product, suffix string, adjustment string, stock int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ProductID:         product.ID,
		SKU:               product.SKU + "-" + suffix,
		Size:              suffix,
		Color:             "Black",
		PriceAdjustment:   models.MustMoney(adjustment),
		LowStockThreshold: 2,
		IsActive:          true,
	}
	if err := e.db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	if stock > 0 {
		if _, err := e.stock.AdjustStock(context.Background(), AdjustStockCommand{
			VariantID: variant.ID,
			Type:      constants.StockMovementPurchase,
			Quantity:  stock,
			Note:      "initial stock",
		}); err != nil {
			t.Fatalf("seed stock failed: %v", err)
		}
	}
	variant.Stock = stock
	return variant
}

func (e *orderTestEnv) createCombo(t *testing.T, sku, price string, children map[*models.Product]int) (*models.Product, map[string]*models.ComboItem) {
	t.Helper()
	combo := &models.Product{
		CategoryID: testCategoryID,
		Name:       "Combo " + sku,
		Slug:       strings.ToLower(sku),
		SKU:        sku,
		BasePrice:  models.MustMoney(price),
		IsActive:   true,
		IsCombo:    true,
	}
	if err := e.db.Create(combo).Error; err != nil {
		t.Fatalf("create combo failed: %v", err)
	}
	items := make(map[string]*models.ComboItem, len(children))
	sort := 0
	for child, quantity := range children {
		item := &models.ComboItem{
			ComboProductID: combo.ID,
			ChildProductID: child.ID,
			Quantity:       quantity,
			SortOrder:      sort,
		}
		sort++
		if err := e.db.Create(item).Error; err != nil {
			t.Fatalf("create combo item failed: %v", err)
		}
		items[child.ID] = item
	}
	return combo, items
}

func (e *orderTestEnv) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     email,
		Phone:     "01811111111",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (e *orderTestEnv) createDiscount(t *testing.T, discount *models.DiscountCode) *models.DiscountCode {
	t.Helper()
	discount.IsActive = true
	if err := e.db.Create(discount).Error; err != nil {
		t.Fatalf("create discount failed: %v", err)
	}
	return discount
}

func (e *orderTestEnv) variantStock(t *testing.T, variantID string) int {
	t.Helper()
	var variant models.ProductVariant
	if err := e.db.First(&variant, "id = ?", variantID).Error; err != nil {
		t.Fatalf("load variant failed: %v", err)
	}
	return variant.Stock
}

func (e *orderTestEnv) assertReplayConsistent(t *testing.T, variantIDs ...string) {
	t.Helper()
	for _, id := range variantIDs {
		result, err := e.stock.Reconcile(context.Background(), id)
		if err != nil {
			t.Fatalf("reconcile %s failed: %v", id, err)
		}
		if !result.Consistent {
			t.Fatalf("ledger replay mismatch for %s: stock=%d replayed=%d", id, result.Stock, result.ReplayedStock)
		}
	}
}

func dhakaAddress() ShippingAddressInput {
	return ShippingAddressInput{
		RecipientName: "Rahim Uddin",
		Phone:         "01712345678",
		AddressLine1:  "House 12, Road 5",
		City:          "Dhaka",
		District:      "Dhaka",
	}
}

func chittagongAddress() ShippingAddressInput {
	return ShippingAddressInput{
		RecipientName: "Karim Ahmed",
		Phone:         "+8801812345678",
		AddressLine1:  "Agrabad C/A",
		City:          "Chattogram",
		District:      "Chattogram",
	}
}

func guestOrderCommand(items ...OrderLineInput) CreateOrderCommand {
	return CreateOrderCommand{
		Items:           items,
		ShippingAddress: dhakaAddress(),
		PaymentMethod:   constants.PaymentMethodCOD,
		GuestEmail:      "guest@example.com",
		GuestPhone:      "01712345678",
		GuestName:       "Rahim Uddin",
	}
}

func userOrderCommand(user *models.User, items ...OrderLineInput) CreateOrderCommand {
	return CreateOrderCommand{
		Items:           items,
		ShippingAddress: dhakaAddress(),
		PaymentMethod:   constants.PaymentMethodBkash,
		Identity:        Identity{UserID: user.ID, Role: user.Role},
	}
}
