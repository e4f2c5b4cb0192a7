//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

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
	if err := db.Create(&models.Category{ID: "cat-1", Name: "Apparel", Slug: "apparel", IsActive: true}).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresConcurrentDebitNeverOversells(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	_, variant := createTestVariant(t, db, "PG-DEBIT", 10)
	store := NewStore(db)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Transaction(context.Background(), func(tx *Store) error {
				affected, err := tx.Variants.DebitStock(variant.ID, 1)
				if err != nil || affected == 0 {
					return err
				}
				mu.Lock()
				success++
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("debit transaction failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if success != 10 {
		t.Fatalf("expected exactly 10 successful debits, got %d", success)
	}
	stock, err := store.Variants.CurrentStock(variant.ID)
	if err != nil {
		t.Fatalf("current stock failed: %v", err)
	}
	if stock != 0 {
		t.Fatalf("expected stock drained to 0, got %d", stock)
	}
}

func TestPostgresOrderSearchAndRevenue(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewOrderRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	orders := []*models.Order{
		{
			OrderNumber: "ATN-PG-0001", GuestEmail: "Rahim@Example.com", GuestName: "Rahim",
			Status: constants.OrderStatusDelivered, Total: models.MustMoney("1200"),
			Currency: "BDT", PaymentMethod: constants.PaymentMethodCOD, PaymentStatus: constants.PaymentStatusPaid,
			CreatedAt: now.Add(-time.Hour),
		},
		{
			OrderNumber: "ATN-PG-0002", GuestEmail: "karim@example.com", GuestName: "Karim",
			Status: constants.OrderStatusCancelled, Total: models.MustMoney("900"),
			Currency: "BDT", PaymentMethod: constants.PaymentMethodBkash, PaymentStatus: constants.PaymentStatusPending,
			CreatedAt: now,
		},
	}
	for _, order := range orders {
		if err := repo.Create(order); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	rows, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 10, Search: "rahim@example"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].OrderNumber != "ATN-PG-0001" {
		t.Fatalf("case-insensitive search want ATN-PG-0001 got total=%d rows=%v", total, rows)
	}

	revenue, err := repo.SumRevenue([]string{constants.OrderStatusCancelled}, nil, nil)
	if err != nil {
		t.Fatalf("sum revenue failed: %v", err)
	}
	if revenue.StringFixed(2) != "1200.00" {
		t.Fatalf("revenue want 1200.00 got %s", revenue.StringFixed(2))
	}

	counts, err := repo.CountByStatus()
	if err != nil {
		t.Fatalf("count by status failed: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 status buckets, got %v", counts)
	}
}

func TestPostgresIncrementUsedCountRespectsLimit(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	limit := 1
	discount := &models.DiscountCode{
		Code:       "PG-ONCE",
		Type:       constants.DiscountTypeFixed,
		Value:      models.MustMoney("100"),
		UsageLimit: &limit,
		IsActive:   true,
	}
	if err := db.Create(discount).Error; err != nil {
		t.Fatalf("create discount failed: %v", err)
	}
	store := NewStore(db)

	const workers = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := store.Transaction(context.Background(), func(tx *Store) error {
				affected, err := tx.DiscountCodes.IncrementUsedCount(discount.ID)
				if err != nil || affected == 0 {
					return err
				}
				mu.Lock()
				success++
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("increment transaction failed: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if success != 1 {
		t.Fatalf("expected exactly 1 successful increment, got %d", success)
	}
	var stored models.DiscountCode
	if err := db.First(&stored, "id = ?", discount.ID).Error; err != nil {
		t.Fatalf("load discount failed: %v", err)
	}
	if stored.UsedCount != 1 {
		t.Fatalf("expected used count 1, got %d", stored.UsedCount)
	}
}
