package main

import (
	"context"
	"time"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/provider"
	"github.com/bazaar-next/internal/service"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type seedVariant struct {
	suffix     string
	size       string
	color      string
	adjustment string
	stock      int
}

type seedProduct struct {
	category  string
	name      string
	slug      string
	sku       string
	basePrice string
	salePrice string
	variants  []seedVariant
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	db, err := models.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	defer func() { _ = models.Close(db) }()

	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 种子数据不需要异步通知
	cfg.Queue.Enabled = false
	c, err := provider.NewContainer(cfg, db)
	if err != nil {
		stdLog.Fatalf("Failed to init container: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	// 分类
	categoryIDs := map[string]string{}
	for _, cat := range []models.Category{
		{Name: "Men", Slug: "men", IsActive: true, SortOrder: 1},
		{Name: "Women", Slug: "women", IsActive: true, SortOrder: 2},
		{Name: "Accessories", Slug: "accessories", IsActive: true, SortOrder: 3},
		{Name: "Combos", Slug: "combos", IsActive: true, SortOrder: 4},
	} {
		var existing models.Category
		if err := db.Where("slug = ?", cat.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			categoryIDs[cat.Slug] = existing.ID
			continue
		}
		if err := db.Create(&cat).Error; err != nil {
			stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			continue
		}
		stdLog.Printf("Created category: %s", cat.Slug)
		categoryIDs[cat.Slug] = cat.ID
	}

	// 单品与规格，初始库存通过入库流水写入
	products := []seedProduct{
		{
			category: "men", name: "Cotton Panjabi", slug: "cotton-panjabi", sku: "PNJ-COT",
			basePrice: "2200", salePrice: "1890",
			variants: []seedVariant{
				{suffix: "M-WHT", size: "M", color: "White", stock: 25},
				{suffix: "L-WHT", size: "L", color: "White", stock: 20},
				{suffix: "XL-WHT", size: "XL", color: "White", adjustment: "100", stock: 8},
			},
		},
		{
			category: "men", name: "Slim Fit Chino", slug: "slim-fit-chino", sku: "CHN-SLM",
			basePrice: "1650",
			variants: []seedVariant{
				{suffix: "30-KHK", size: "30", color: "Khaki", stock: 15},
				{suffix: "32-KHK", size: "32", color: "Khaki", stock: 12},
				{suffix: "32-NVY", size: "32", color: "Navy", stock: 3},
			},
		},
		{
			category: "women", name: "Printed Kurti", slug: "printed-kurti", sku: "KRT-PRT",
			basePrice: "1450",
			variants: []seedVariant{
				{suffix: "S-RED", size: "S", color: "Red", stock: 18},
				{suffix: "M-RED", size: "M", color: "Red", stock: 18},
			},
		},
		{
			category: "accessories", name: "Leather Belt", slug: "leather-belt", sku: "BLT-LTH",
			basePrice: "750",
			variants: []seedVariant{
				{suffix: "OS-BRN", size: "OS", color: "Brown", stock: 40},
				{suffix: "OS-BLK", size: "OS", color: "Black", stock: 40},
			},
		},
	}
	productIDs := map[string]string{}
	for _, item := range products {
		id, err := seedSimpleProduct(ctx, db, c.StockService, categoryIDs[item.category], item)
		if err != nil {
			stdLog.Printf("Failed to seed product %s: %v", item.slug, err)
			continue
		}
		productIDs[item.slug] = id
	}

	// 套餐：Panjabi + Belt
	if err := seedCombo(db, categoryIDs["combos"], productIDs["cotton-panjabi"], productIDs["leather-belt"]); err != nil {
		stdLog.Printf("Failed to seed combo: %v", err)
	}

	// 优惠码
	now := time.Now()
	expires := now.AddDate(0, 3, 0)
	minOrder := models.MustMoney("1000")
	maxDiscount := models.MustMoney("500")
	usageLimit := 100
	perUser := 1
	for _, code := range []models.DiscountCode{
		{
			Code: "WELCOME10", Description: "10% off first order", Type: constants.DiscountTypePercentage,
			Value: models.MustMoney("10"), MinOrderAmount: &minOrder, MaxDiscountAmount: &maxDiscount,
			PerUserLimit: &perUser, StartsAt: &now, ExpiresAt: &expires, IsActive: true,
		},
		{
			Code: "FLAT200", Description: "200 BDT off", Type: constants.DiscountTypeFixed,
			Value: models.MustMoney("200"), MinOrderAmount: &minOrder, UsageLimit: &usageLimit,
			ExpiresAt: &expires, IsActive: true,
		},
	} {
		var existing models.DiscountCode
		if err := db.Where("code = ?", code.Code).First(&existing).Error; err == nil {
			stdLog.Printf("Discount code already exists: %s", code.Code)
			continue
		}
		if err := db.Create(&code).Error; err != nil {
			stdLog.Printf("Failed to create discount %s: %v", code.Code, err)
			continue
		}
		stdLog.Printf("Created discount code: %s", code.Code)
	}

	// 账号与开发令牌
	users := []models.User{
		{Email: "admin@bazaar.local", Phone: "01700000001", FirstName: "Shop", LastName: "Admin", Role: constants.RoleAdmin, IsActive: true},
		{Email: "staff@bazaar.local", Phone: "01700000002", FirstName: "Shop", LastName: "Staff", Role: constants.RoleStaff, IsActive: true},
		{Email: "buyer@bazaar.local", Phone: "01700000003", FirstName: "Rahim", LastName: "Uddin", Role: constants.RoleCustomer, IsActive: true},
	}
	for i := range users {
		user := users[i]
		var existing models.User
		if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
			user = existing
		} else if err := db.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", user.Email, err)
			continue
		}

		// staff 额外授予库存录入权限
		if user.Role == constants.RoleStaff {
			if err := c.AuthzService.SetUserRoles(user.ID, []string{"inventory"}); err != nil {
				stdLog.Printf("Failed to grant inventory role to %s: %v", user.Email, err)
			}
		}

		token, expiresAt, err := c.TokenService.Issue(&user)
		if err != nil {
			stdLog.Printf("Failed to issue token for %s: %v", user.Email, err)
			continue
		}
		stdLog.Printf("User %s (%s) token (expires %s): %s", user.Email, user.Role, expiresAt.Format(time.RFC3339), token)
	}

	stdLog.Printf("Seed data completed")
}

func seedSimpleProduct(ctx context.Context, db *gorm.DB, stock *service.StockService, categoryID string, item seedProduct) (string, error) {
	var existing models.Product
	if err := db.Where("slug = ?", item.slug).First(&existing).Error; err == nil {
		logger.Infow("seed_product_exists", "slug", item.slug)
		return existing.ID, nil
	}

	product := models.Product{
		CategoryID: categoryID,
		Name:       item.name,
		Slug:       item.slug,
		SKU:        item.sku,
		BasePrice:  models.MustMoney(item.basePrice),
		IsActive:   true,
	}
	if item.salePrice != "" {
		price := models.MustMoney(item.salePrice)
		product.SalePrice = &price
	}
	if err := db.Create(&product).Error; err != nil {
		return "", err
	}

	for _, v := range item.variants {
		adjustment := v.adjustment
		if adjustment == "" {
			adjustment = "0"
		}
		variant := models.ProductVariant{
			ProductID:         product.ID,
			SKU:               item.sku + "-" + v.suffix,
			Size:              v.size,
			Color:             v.color,
			PriceAdjustment:   models.MustMoney(adjustment),
			LowStockThreshold: 5,
			IsActive:          true,
		}
		if err := db.Create(&variant).Error; err != nil {
			return "", err
		}
		if v.stock <= 0 {
			continue
		}
		if _, err := stock.AdjustStock(ctx, service.AdjustStockCommand{
			VariantID: variant.ID,
			Type:      constants.StockMovementPurchase,
			Quantity:  v.stock,
			Note:      "initial stock",
		}); err != nil {
			return "", err
		}
	}
	logger.Infow("seed_product_created", "slug", item.slug, "variants", len(item.variants))
	return product.ID, nil
}

func seedCombo(db *gorm.DB, categoryID, panjabiID, beltID string) error {
	if panjabiID == "" || beltID == "" {
		return nil
	}
	var existing models.Product
	if err := db.Where("slug = ?", "eid-combo").First(&existing).Error; err == nil {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		combo := models.Product{
			CategoryID: categoryID,
			Name:       "Eid Combo",
			Slug:       "eid-combo",
			SKU:        "CMB-EID",
			BasePrice:  models.MustMoney("2600"),
			IsActive:   true,
			IsCombo:    true,
		}
		if err := tx.Create(&combo).Error; err != nil {
			return err
		}
		items := []models.ComboItem{
			{ComboProductID: combo.ID, ChildProductID: panjabiID, Quantity: 1, Label: "Panjabi", SortOrder: 0},
			{ComboProductID: combo.ID, ChildProductID: beltID, Quantity: 1, Label: "Belt", SortOrder: 1},
		}
		return tx.Create(&items).Error
	})
}
