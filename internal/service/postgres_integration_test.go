//go:build integration
// +build integration

package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServicePostgresDB 初始化 PostgreSQL 集成测试数据库，连接池保持多连接以产生真实并发
func setupServicePostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(16)

	cleanupModels := []interface{}{
		&models.StockMovement{},
		&models.OrderStatusHistory{},
		&models.ShippingAddress{},
		&models.OrderComboSelection{},
		&models.OrderItem{},
		&models.Order{},
		&models.DiscountUserUsage{},
		&models.DiscountCode{},
		&models.ComboItem{},
		&models.ProductVariant{},
		&models.Product{},
		&models.Category{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}
	if err := db.Create(&models.Category{ID: testCategoryID, Name: "Apparel", Slug: "apparel", IsActive: true}).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		_ = sqlDB.Close()
	})
	return db
}

func TestPostgresOppositeCartOrdersDoNotDeadlock(t *testing.T) {
	env := newOrderTestEnvWithDB(setupServicePostgresDB(t))
	product := env.createProduct(t, "PG-PANJABI", "1500", "")
	first := env.createVariant(t, product, "M", "0", 50)
	second := env.createVariant(t, product, "L", "0", 50)

	const buyers = 20
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			a, b := first, second
			if idx%2 == 1 {
				a, b = second, first
			}
			_, errs[idx] = env.service.CreateOrder(context.Background(), guestOrderCommand(
				OrderLineInput{ProductID: product.ID, VariantID: a.ID, Quantity: 1},
				OrderLineInput{ProductID: product.ID, VariantID: b.ID, Quantity: 1},
			))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("order %d failed: %v", i, err)
		}
	}
	if got := env.variantStock(t, first.ID); got != 50-buyers {
		t.Fatalf("expected first variant stock %d, got %d", 50-buyers, got)
	}
	if got := env.variantStock(t, second.ID); got != 50-buyers {
		t.Fatalf("expected second variant stock %d, got %d", 50-buyers, got)
	}
	env.assertReplayConsistent(t, first.ID, second.ID)
}

func TestPostgresDiscountUsageLimitConcurrentCheckouts(t *testing.T) {
	env := newOrderTestEnvWithDB(setupServicePostgresDB(t))
	product := env.createProduct(t, "PG-HOODIE", "800", "")
	variant := env.createVariant(t, product, "M", "0", 20)
	limit := 1
	env.createDiscount(t, &models.DiscountCode{
		Code:       "PGONCE",
		Type:       constants.DiscountTypeFixed,
		Value:      models.MustMoney("100"),
		UsageLimit: &limit,
	})

	const buyers = 8
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			cmd := guestOrderCommand(OrderLineInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 1})
			cmd.DiscountCode = "PGONCE"
			_, errs[idx] = env.service.CreateOrder(context.Background(), cmd)
		}(i)
	}
	close(start)
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
			continue
		}
		if !errors.Is(err, ErrDiscountUsageLimit) {
			t.Fatalf("expected usage limit error, got %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected one successful redemption, got %d", success)
	}
	var discount models.DiscountCode
	if err := env.db.First(&discount, "code = ?", "PGONCE").Error; err != nil {
		t.Fatalf("load discount failed: %v", err)
	}
	if discount.UsedCount != 1 {
		t.Fatalf("expected used count 1, got %d", discount.UsedCount)
	}
	if got := env.variantStock(t, variant.ID); got != 19 {
		t.Fatalf("expected losing checkouts rolled back, got stock %d", got)
	}
	env.assertReplayConsistent(t, variant.ID)
}
