package repository

import (
	"strings"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// StockMovementRepository 库存流水数据访问接口（只追加）
type StockMovementRepository interface {
	Create(movement *models.StockMovement) error
	List(filter StockMovementListFilter) ([]models.StockMovement, int64, error)
	ListByReference(reference, referenceID string) ([]models.StockMovement, error)
	Replay(variantID string) (StockReplay, error)
	WithTx(tx *gorm.DB) StockMovementRepository
}

// GormStockMovementRepository GORM 实现
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository 创建库存流水仓库
func NewStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStockMovementRepository) WithTx(tx *gorm.DB) StockMovementRepository {
	if tx == nil {
		return r
	}
	return &GormStockMovementRepository{db: tx}
}

// Create 写入流水
func (r *GormStockMovementRepository) Create(movement *models.StockMovement) error {
	return r.db.Create(movement).Error
}

// List 分页查询流水，按创建时间倒序
func (r *GormStockMovementRepository) List(filter StockMovementListFilter) ([]models.StockMovement, int64, error) {
	query := r.db.Model(&models.StockMovement{})
	if variantID := strings.TrimSpace(filter.VariantID); variantID != "" {
		query = query.Where("product_variant_id = ?", variantID)
	}
	if movementType := strings.TrimSpace(filter.Type); movementType != "" {
		query = query.Where("type = ?", movementType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []models.StockMovement
	query = listPage(query, "created_at", filter.Page, filter.PageSize)
	if err := query.Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// ListByReference 按关联单据查询流水
func (r *GormStockMovementRepository) ListByReference(reference, referenceID string) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := r.db.Where("reference = ? AND reference_id = ?", reference, referenceID).
		Order("created_at ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// Replay 从零累加某规格的全部流水
func (r *GormStockMovementRepository) Replay(variantID string) (StockReplay, error) {
	var row struct {
		MovementCount int64
		ReplayedStock int64
	}
	err := r.db.Model(&models.StockMovement{}).
		Select("COUNT(*) AS movement_count, COALESCE(SUM(quantity), 0) AS replayed_stock").
		Where("product_variant_id = ?", variantID).
		Scan(&row).Error
	if err != nil {
		return StockReplay{}, err
	}
	return StockReplay{MovementCount: row.MovementCount, ReplayedStock: row.ReplayedStock}, nil
}
