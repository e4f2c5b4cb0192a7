package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	GetForUpdate(id string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id, fromStatus string, updates map[string]interface{}) (int64, error)
	CountBetween(from, to *time.Time) (int64, error)
	CountSince(since time.Time) (int64, error)
	CountByStatus() ([]OrderStatusCount, error)
	SumRevenue(excludedStatuses []string, from, to *time.Time) (models.Money, error)
	ListTrendSince(since time.Time) ([]OrderTrendRow, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) withDetail(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.ComboSelections").
		Preload("ShippingAddress").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("User").
		Preload("DiscountCode")
}

// Create 创建订单（订单项、套餐快照、收货地址与首条状态记录一并写入）
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Omit("User", "DiscountCode").Create(order).Error
}

// GetByID 根据 ID 获取订单详情
func (r *GormOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.withDetail(r.db).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNumber 根据订单号获取订单详情
func (r *GormOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	normalized := strings.ToUpper(strings.TrimSpace(orderNumber))
	if err := r.withDetail(r.db).Where("order_number = ?", normalized).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetForUpdate 事务内加锁读取订单及订单项
func (r *GormOrderRepository) GetForUpdate(id string) (*models.Order, error) {
	var order models.Order
	query := lockForUpdate(r.db).
		Preload("Items").
		Preload("Items.ComboSelections")
	if err := query.Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if userID := strings.TrimSpace(filter.UserID); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"order_number", "guest_email", "guest_name", "guest_phone"})
		like := "%" + search + "%"
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = listPage(query, "created_at", filter.Page, filter.PageSize)
	if err := query.Preload("Items").Preload("ShippingAddress").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 仅当订单仍处于 fromStatus 时更新，影响行数为 0 表示状态已被并发修改
func (r *GormOrderRepository) UpdateStatus(id, fromStatus string, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountBetween 订单总数，from/to 为空表示不限
func (r *GormOrderRepository) CountBetween(from, to *time.Time) (int64, error) {
	query := r.db.Model(&models.Order{})
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountSince 指定时间之后的订单数
func (r *GormOrderRepository) CountSince(since time.Time) (int64, error) {
	var total int64
	if err := r.db.Model(&models.Order{}).Where("created_at >= ?", since).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountByStatus 按状态分组计数
func (r *GormOrderRepository) CountByStatus() ([]OrderStatusCount, error) {
	var rows []OrderStatusCount
	err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumRevenue 汇总订单金额（排除指定状态，from/to 为空表示不限）
func (r *GormOrderRepository) SumRevenue(excludedStatuses []string, from, to *time.Time) (models.Money, error) {
	var row struct {
		Revenue models.Money
	}
	query := r.db.Model(&models.Order{}).Select("COALESCE(SUM(total), 0) AS revenue")
	if len(excludedStatuses) > 0 {
		query = query.Where("status NOT IN ?", excludedStatuses)
	}
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}
	if err := query.Scan(&row).Error; err != nil {
		return models.Money{}, err
	}
	return row.Revenue, nil
}

// ListTrendSince 列出指定时间之后的下单时间、金额与状态（用于趋势统计）
func (r *GormOrderRepository) ListTrendSince(since time.Time) ([]OrderTrendRow, error) {
	var rows []OrderTrendRow
	err := r.db.Model(&models.Order{}).
		Select("created_at, total, status").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
