package models

import (
	"strings"

	"github.com/vendorlink/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	fallbackAdminUsername = "admin"
	fallbackAdminPassword = "admin123"
)

// InitDefaultAdmin 初始化默认管理员账号
// 库里已有账号时只负责把内置 admin 提升为超级管理员
func InitDefaultAdmin(username, password string) error {
	var count int64
	DB.Model(&Admin{}).Count(&count)
	if count > 0 {
		promoteBuiltinAdmin()
		return nil
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = fallbackAdminUsername
	}
	if password == "" {
		password = fallbackAdminPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsSuper:      strings.EqualFold(username, fallbackAdminUsername),
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == fallbackAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "username", username, "change_required", true)
	} else {
		logger.Warnw("default_admin_created", "username", username)
	}
	return nil
}

// promoteBuiltinAdmin 保证内置 admin 账号始终持有超管标记
func promoteBuiltinAdmin() {
	err := DB.Model(&Admin{}).Where("username = ?", fallbackAdminUsername).Update("is_super", true).Error
	if err != nil {
		logger.Warnw("ensure_default_admin_super_failed", "error", err)
	}
}
