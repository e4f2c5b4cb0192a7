package repository

import (
	"errors"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// ProductVariantRepository 商品规格数据访问接口
type ProductVariantRepository interface {
	GetByID(id string) (*models.ProductVariant, error)
	ListByIDs(ids []string) ([]models.ProductVariant, error)
	ListByProduct(productID string) ([]models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	CurrentStock(id string) (int, error)
	DebitStock(id string, quantity int) (int64, error)
	CreditStock(id string, quantity int) (int64, error)
	WithTx(tx *gorm.DB) ProductVariantRepository
}

// GormProductVariantRepository GORM 实现
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewProductVariantRepository 创建规格仓库
func NewProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductVariantRepository) WithTx(tx *gorm.DB) ProductVariantRepository {
	if tx == nil {
		return r
	}
	return &GormProductVariantRepository{db: tx}
}

// GetByID 根据 ID 获取规格（含所属商品）
func (r *GormProductVariantRepository) GetByID(id string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.Preload("Product").Where("id = ?", id).First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// ListByIDs 批量获取规格
func (r *GormProductVariantRepository) ListByIDs(ids []string) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if len(ids) == 0 {
		return variants, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// ListByProduct 获取商品下的全部规格
func (r *GormProductVariantRepository) ListByProduct(productID string) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := r.db.Where("product_id = ?", productID).Order("created_at ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Create 创建规格
func (r *GormProductVariantRepository) Create(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

// CurrentStock 读取当前库存
func (r *GormProductVariantRepository) CurrentStock(id string) (int, error) {
	var row struct {
		Stock int
	}
	if err := r.db.Model(&models.ProductVariant{}).Select("stock").Where("id = ?", id).Take(&row).Error; err != nil {
		return 0, err
	}
	return row.Stock, nil
}

// DebitStock 条件扣减库存，库存不足时影响行数为 0
func (r *GormProductVariantRepository) DebitStock(id string, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CreditStock 增加库存
func (r *GormProductVariantRepository) CreditStock(id string, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
