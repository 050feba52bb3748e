package models

import (
	"time"
)

// Admin 管理员账号表
type Admin struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	Username           string     `gorm:"uniqueIndex;not null" json:"username"`         // 登录账号，全局唯一
	PasswordHash       string     `gorm:"not null" json:"-"`                            // bcrypt 哈希，不出接口
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`                  // 改口令时自增，旧令牌全部作废
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`                               // 早于该时刻签发的令牌一律拒绝
	IsSuper            bool       `gorm:"not null;default:false;index" json:"is_super"` // 超管跳过 RBAC 校验
	LastLoginAt        *time.Time `json:"last_login_at"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
