package admin

import (
	"strconv"
	"strings"

	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/logger"
	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/service"

	"github.com/gin-gonic/gin"
)

type setAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// ListAuthzRoles 列出已登记的全部角色
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch roles", err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzAdminRoles 查询指定管理员持有的角色
func (h *Handler) GetAuthzAdminRoles(c *gin.Context) {
	admin, ok := h.loadAdminTarget(c, "failed to fetch admin roles")
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(admin.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch admin roles", err)
		return
	}
	response.Success(c, roles)
}

// SetAuthzAdminRoles 整体覆盖指定管理员的角色集合
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	admin, ok := h.loadAdminTarget(c, "failed to update admin roles")
	if !ok {
		return
	}

	var req setAdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.AuthzService.SetAdminRoles(admin.ID, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	h.auditAdminChange(c, admin, "admin_roles_update", "admin_authz_admin_roles_updated", models.JSON{
		"target_admin_id": admin.ID,
		"target_username": admin.Username,
		"roles":           req.Roles,
	})

	response.Success(c, nil)
}

// loadAdminTarget 解析路径里的管理员编号并加载对应账号，任何失败都已写好响应
func (h *Handler) loadAdminTarget(c *gin.Context, failMsg string) (*models.Admin, bool) {
	adminID, ok := parseAdminIDParam(c)
	if !ok {
		return nil, false
	}
	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, failMsg, err)
		return nil, false
	}
	if admin == nil {
		respondError(c, response.CodeBadRequest, "invalid admin id", nil)
		return nil, false
	}
	return admin, true
}

// auditAdminChange 管理员变更落一条审计并打操作日志，明细原样入库
func (h *Handler) auditAdminChange(c *gin.Context, target *models.Admin, action, event string, detail models.JSON) {
	targetID := target.ID
	h.recordAuthzAudit(c, service.AuthzAuditRecordInput{
		OperatorAdminID:  currentAdminID(c),
		OperatorUsername: currentUsername(c),
		TargetAdminID:    &targetID,
		TargetUsername:   target.Username,
		Action:           action,
		RequestID:        currentRequestID(c),
		Detail:           detail,
	})
	logger.Infow(event,
		"operator_admin_id", currentAdminID(c),
		"target_admin_id", targetID,
		"target_username", target.Username,
	)
}

// recordAuthzAudit 落一条授权审计，缺操作者或动作时静默跳过
func (h *Handler) recordAuthzAudit(c *gin.Context, input service.AuthzAuditRecordInput) {
	if h == nil || h.AuthzAuditService == nil {
		return
	}
	if input.OperatorAdminID == 0 || strings.TrimSpace(input.Action) == "" {
		return
	}
	if err := h.AuthzAuditService.Record(input); err != nil {
		logger.Warnw("admin_authz_audit_record_failed",
			"action", input.Action,
			"operator_admin_id", input.OperatorAdminID,
			"error", err,
		)
	}
}

func parseAdminIDParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid admin id", nil)
		return 0, false
	}
	return uint(id), true
}

// currentAdminID 读取鉴权中间件塞进上下文的操作者编号，读不到返回零值
func currentAdminID(c *gin.Context) uint {
	switch v := c.Value("admin_id").(type) {
	case uint:
		return v
	case int:
		if v > 0 {
			return uint(v)
		}
	case float64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}

func currentUsername(c *gin.Context) string {
	return strings.TrimSpace(c.GetString("username"))
}

func currentRequestID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString("request_id"))
}
