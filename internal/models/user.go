package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User 用户表（凭据由外部认证服务管理，此处只保存身份与角色）
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`             // 主键
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"` // 邮箱
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`           // 手机号
	FirstName string    `gorm:"type:varchar(100)" json:"first_name"`               // 名
	LastName  string    `gorm:"type:varchar(100)" json:"last_name"`                // 姓
	Role      string    `gorm:"type:varchar(20);index;not null" json:"role"`       // 角色 customer/staff/admin
	IsActive  bool      `gorm:"not null;index" json:"is_active"`                   // 是否启用
	CreatedAt time.Time `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                        // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 生成主键
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = ensureID(u.ID)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// FullName 拼接姓名
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
