package repository

import (
	"errors"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DiscountUsageRepository 用户维度优惠码使用计数
type DiscountUsageRepository interface {
	UsedCount(discountCodeID, userID string) (int, error)
	Acquire(discountCodeID, userID string, limit int) (int64, error)
	Release(discountCodeID, userID string) error
	WithTx(tx *gorm.DB) DiscountUsageRepository
}

// GormDiscountUsageRepository GORM 实现
type GormDiscountUsageRepository struct {
	db *gorm.DB
}

// NewDiscountUsageRepository 创建使用计数仓库
func NewDiscountUsageRepository(db *gorm.DB) *GormDiscountUsageRepository {
	return &GormDiscountUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDiscountUsageRepository) WithTx(tx *gorm.DB) DiscountUsageRepository {
	if tx == nil {
		return r
	}
	return &GormDiscountUsageRepository{db: tx}
}

// UsedCount 查询用户对某优惠码的有效使用次数
func (r *GormDiscountUsageRepository) UsedCount(discountCodeID, userID string) (int, error) {
	var usage models.DiscountUserUsage
	err := r.db.Where("discount_code_id = ? AND user_id = ?", discountCodeID, userID).First(&usage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return usage.UsedCount, nil
}

// Acquire 条件占用一次使用额度，已达上限时影响行数为 0
func (r *GormDiscountUsageRepository) Acquire(discountCodeID, userID string, limit int) (int64, error) {
	seed := models.DiscountUserUsage{DiscountCodeID: discountCodeID, UserID: userID}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "discount_code_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return 0, err
	}
	result := r.db.Model(&models.DiscountUserUsage{}).
		Where("discount_code_id = ? AND user_id = ? AND used_count < ?", discountCodeID, userID, limit).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Release 归还一次使用额度（订单取消或退款）
func (r *GormDiscountUsageRepository) Release(discountCodeID, userID string) error {
	return r.db.Model(&models.DiscountUserUsage{}).
		Where("discount_code_id = ? AND user_id = ? AND used_count > 0", discountCodeID, userID).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}
