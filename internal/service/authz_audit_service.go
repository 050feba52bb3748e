package service

import (
	"strings"
	"time"

	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/repository"
)

// AuthzAuditRecordInput 一次授权变更的审计要素
type AuthzAuditRecordInput struct {
	OperatorAdminID  uint
	OperatorUsername string
	TargetAdminID    *uint
	TargetUsername   string
	Action           string
	RequestID        string
	Detail           models.JSON
}

// AuthzAuditService 授权审计，只追加不修改
type AuthzAuditService struct {
	repo repository.AuthzAuditLogRepository
}

func NewAuthzAuditService(repo repository.AuthzAuditLogRepository) *AuthzAuditService {
	return &AuthzAuditService{repo: repo}
}

// Record 写入一条审计，操作者或动作缺失时按无事发生处理
func (s *AuthzAuditService) Record(input AuthzAuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	trim := strings.TrimSpace
	action := trim(input.Action)
	if input.OperatorAdminID == 0 || action == "" {
		return nil
	}

	return s.repo.Create(&models.AuthzAuditLog{
		OperatorAdminID:  input.OperatorAdminID,
		OperatorUsername: trim(input.OperatorUsername),
		TargetAdminID:    input.TargetAdminID,
		TargetUsername:   trim(input.TargetUsername),
		Action:           action,
		RequestID:        trim(input.RequestID),
		DetailJSON:       input.Detail,
		CreatedAt:        time.Now(),
	})
}

// ListForAdmin 管理端分页检索审计日志
func (s *AuthzAuditService) ListForAdmin(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	return s.repo.ListAdmin(filter)
}
