package repository

import (
	"errors"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id string) (*models.Product, error)
	GetWithComboItems(id string) (*models.Product, error)
	ListByIDs(ids []string) ([]models.Product, error)
	Create(product *models.Product) error
	CreateComboItems(items []models.ComboItem) error
	IncrementSoldCount(id string, delta int) error
	DecrementSoldCount(id string, delta int) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetWithComboItems 获取商品及套餐组成项（含子商品）
func (r *GormProductRepository) GetWithComboItems(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.
		Preload("ComboItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("ComboItems.ChildProduct").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []string) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// CreateComboItems 创建套餐组成项
func (r *GormProductRepository) CreateComboItems(items []models.ComboItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// IncrementSoldCount 增加销量
func (r *GormProductRepository) IncrementSoldCount(id string, delta int) error {
	if delta <= 0 {
		return nil
	}
	return r.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("sold_count", gorm.Expr("sold_count + ?", delta)).Error
}

// DecrementSoldCount 扣减销量（不低于 0）
func (r *GormProductRepository) DecrementSoldCount(id string, delta int) error {
	if delta <= 0 {
		return nil
	}
	return r.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("sold_count", gorm.Expr("CASE WHEN sold_count >= ? THEN sold_count - ? ELSE 0 END", delta, delta)).Error
}
