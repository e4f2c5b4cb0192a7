package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bazaar-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRepositoryTestDB 创建独立的内存数据库
func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
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

func createTestVariant(t *testing.T, db *gorm.DB, sku string, stock int) (*models.Product, *models.ProductVariant) {
	t.Helper()
	product := &models.Product{
		CategoryID: "cat-1",
		Name:       "Product " + sku,
		Slug:       strings.ToLower(sku),
		SKU:        sku,
		BasePrice:  models.MustMoney("100"),
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := &models.ProductVariant{
		ProductID: product.ID,
		SKU:       sku + "-M",
		Size:      "M",
		Stock:     stock,
		IsActive:  true,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return product, variant
}
