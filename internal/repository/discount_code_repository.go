package repository

import (
	"errors"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// DiscountCodeRepository 优惠码数据访问接口
type DiscountCodeRepository interface {
	GetByCode(code string) (*models.DiscountCode, error)
	GetByID(id string) (*models.DiscountCode, error)
	Create(discount *models.DiscountCode) error
	IncrementUsedCount(id string) (int64, error)
	WithTx(tx *gorm.DB) DiscountCodeRepository
}

// GormDiscountCodeRepository GORM 实现
type GormDiscountCodeRepository struct {
	db *gorm.DB
}

// NewDiscountCodeRepository 创建优惠码仓库
func NewDiscountCodeRepository(db *gorm.DB) *GormDiscountCodeRepository {
	return &GormDiscountCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDiscountCodeRepository) WithTx(tx *gorm.DB) DiscountCodeRepository {
	if tx == nil {
		return r
	}
	return &GormDiscountCodeRepository{db: tx}
}

// GetByCode 根据优惠码获取（大小写不敏感）
func (r *GormDiscountCodeRepository) GetByCode(code string) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	normalized := models.NormalizeDiscountCode(code)
	if normalized == "" {
		return nil, nil
	}
	if err := r.db.Where("code = ?", normalized).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

// GetByID 根据 ID 获取优惠码
func (r *GormDiscountCodeRepository) GetByID(id string) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	if err := r.db.Where("id = ?", id).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

// Create 创建优惠码
func (r *GormDiscountCodeRepository) Create(discount *models.DiscountCode) error {
	return r.db.Create(discount).Error
}

// IncrementUsedCount 条件增加使用次数，达到上限时影响行数为 0
func (r *GormDiscountCodeRepository) IncrementUsedCount(id string) (int64, error) {
	result := r.db.Model(&models.DiscountCode{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
