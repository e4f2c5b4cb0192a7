package repository

import (
	"github.com/bazaar-next/internal/constants"

	"gorm.io/gorm"
)

// listPage 列表排序与分页：按 orderColumn 倒序，同一时间戳内以主键兜底保证翻页稳定。
// pageSize <= 0 表示不分页（内部回放与导出使用），超过上限时截断。
func listPage(query *gorm.DB, orderColumn string, page, pageSize int) *gorm.DB {
	if query == nil {
		return query
	}
	query = query.Order(orderColumn + " DESC").Order("id DESC")
	if pageSize <= 0 {
		return query
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
