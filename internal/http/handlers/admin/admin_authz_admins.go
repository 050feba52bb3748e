package admin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vendorlink/internal/cache"
	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/service"

	"github.com/gin-gonic/gin"
)

// 内置超管账号不允许降级或删除
const protectedSuperAdminUsername = "admin"

type authzCreateAdminPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsSuper  *bool  `json:"is_super"`
}

type authzUpdateAdminPayload struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	IsSuper  *bool   `json:"is_super"`
}

// ListAuthzAdmins 列出全部管理员及其角色
func (h *Handler) ListAuthzAdmins(c *gin.Context) {
	admins, err := h.AdminRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch admins", err)
		return
	}

	items := make([]gin.H, 0, len(admins))
	for _, admin := range admins {
		roles, roleErr := h.AuthzService.GetAdminRoles(admin.ID)
		if roleErr != nil {
			respondError(c, response.CodeInternal, "failed to fetch admins", roleErr)
			return
		}
		items = append(items, gin.H{
			"id":            admin.ID,
			"username":      admin.Username,
			"is_super":      admin.IsSuper,
			"last_login_at": admin.LastLoginAt,
			"created_at":    admin.CreatedAt,
			"roles":         roles,
		})
	}

	response.Success(c, items)
}

// CreateAuthzAdmin 新建管理员账号
func (h *Handler) CreateAuthzAdmin(c *gin.Context) {
	var req authzCreateAdminPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	username, err := normalizeAdminUsername(req.Username)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid username", err)
		return
	}
	existing, err := h.AdminRepo.GetByUsername(username)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to create admin", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeBadRequest, "username already exists", nil)
		return
	}

	hash, ok := h.hashValidatedPassword(c, req.Password, "failed to create admin")
	if !ok {
		return
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		// 与内置账号同名时强制授予超管，避免出现无法管理的保护账号
		IsSuper: (req.IsSuper != nil && *req.IsSuper) || isProtectedAdmin(username),
	}
	if err := h.AdminRepo.Create(admin); err != nil {
		respondError(c, response.CodeInternal, "failed to create admin", err)
		return
	}
	_ = cache.SetAdminAuthState(c.Request.Context(), cache.BuildAdminAuthState(admin))

	h.auditAdminChange(c, admin, "admin_create", "admin_authz_admin_created", models.JSON{
		"target_admin_id": admin.ID,
		"target_username": admin.Username,
		"is_super":        admin.IsSuper,
	})

	response.Success(c, admin)
}

// UpdateAuthzAdmin 局部更新管理员账号，未携带的字段保持原值
func (h *Handler) UpdateAuthzAdmin(c *gin.Context) {
	admin, ok := h.loadAdminTarget(c, "failed to update admin")
	if !ok {
		return
	}

	var req authzUpdateAdminPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	updatedFields := make([]string, 0, 3)

	if req.Username != nil {
		username, err := normalizeAdminUsername(*req.Username)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid username", err)
			return
		}
		if username != admin.Username {
			existing, err := h.AdminRepo.GetByUsername(username)
			if err != nil {
				respondError(c, response.CodeInternal, "failed to update admin", err)
				return
			}
			if existing != nil && existing.ID != admin.ID {
				respondError(c, response.CodeBadRequest, "username already exists", nil)
				return
			}
			admin.Username = username
			updatedFields = append(updatedFields, "username")
		}
	}

	if req.IsSuper != nil {
		nextIsSuper := *req.IsSuper || isProtectedAdmin(admin.Username)
		if admin.IsSuper != nextIsSuper {
			admin.IsSuper = nextIsSuper
			updatedFields = append(updatedFields, "is_super")
		}
	}

	if req.Password != nil {
		hash, ok := h.hashValidatedPassword(c, *req.Password, "failed to update admin")
		if !ok {
			return
		}
		// 换口令同时作废所有已签发的令牌
		now := time.Now()
		admin.PasswordHash = hash
		admin.TokenVersion++
		admin.TokenInvalidBefore = &now
		updatedFields = append(updatedFields, "password")
	}

	if len(updatedFields) == 0 {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	if err := h.AdminRepo.Update(admin); err != nil {
		respondError(c, response.CodeInternal, "failed to update admin", err)
		return
	}
	_ = cache.SetAdminAuthState(c.Request.Context(), cache.BuildAdminAuthState(admin))

	sort.Strings(updatedFields)
	if currentAdminID(c) == admin.ID {
		c.Set("admin_is_super", admin.IsSuper)
	}

	h.auditAdminChange(c, admin, "admin_update", "admin_authz_admin_updated", models.JSON{
		"target_admin_id": admin.ID,
		"target_username": admin.Username,
		"updated_fields":  updatedFields,
		"is_super":        admin.IsSuper,
	})

	response.Success(c, admin)
}

// DeleteAuthzAdmin 删除管理员账号，保护账号、自己与最后一个账号均拒绝
func (h *Handler) DeleteAuthzAdmin(c *gin.Context) {
	admin, ok := h.loadAdminTarget(c, "failed to delete admin")
	if !ok {
		return
	}

	switch {
	case currentAdminID(c) == admin.ID:
		respondError(c, response.CodeBadRequest, "cannot delete yourself", nil)
		return
	case isProtectedAdmin(admin.Username):
		respondError(c, response.CodeBadRequest, "cannot delete protected admin", nil)
		return
	}

	count, err := h.AdminRepo.Count()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to delete admin", err)
		return
	}
	if count <= 1 {
		respondError(c, response.CodeBadRequest, "cannot delete the last admin", nil)
		return
	}

	// 先清角色绑定再删账号，避免残留授权记录
	if err := h.AuthzService.SetAdminRoles(admin.ID, []string{}); err != nil {
		respondError(c, response.CodeInternal, "failed to delete admin", err)
		return
	}
	if err := h.AdminRepo.Delete(admin.ID); err != nil {
		respondError(c, response.CodeInternal, "failed to delete admin", err)
		return
	}
	_ = cache.DelAdminAuthState(c.Request.Context(), admin.ID)

	h.auditAdminChange(c, admin, "admin_delete", "admin_authz_admin_deleted", models.JSON{
		"target_admin_id": admin.ID,
		"target_username": admin.Username,
	})

	response.Success(c, nil)
}

// hashValidatedPassword 校验口令强度并生成散列，失败时响应已写好
func (h *Handler) hashValidatedPassword(c *gin.Context, raw, failMsg string) (string, bool) {
	password := strings.TrimSpace(raw)
	if password == "" {
		respondError(c, response.CodeBadRequest, "password is too weak", nil)
		return "", false
	}
	if err := h.AuthService.ValidatePassword(password); err != nil {
		if !respondAdminPasswordPolicyError(c, err) {
			respondError(c, response.CodeBadRequest, "password is too weak", err)
		}
		return "", false
	}
	hash, err := h.AuthService.HashPassword(password)
	if err != nil {
		respondError(c, response.CodeInternal, failMsg, err)
		return "", false
	}
	return hash, true
}

func isProtectedAdmin(username string) bool {
	return strings.EqualFold(strings.TrimSpace(username), protectedSuperAdminUsername)
}

func normalizeAdminUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	switch {
	case name == "":
		return "", fmt.Errorf("username is required")
	case strings.ContainsAny(name, " \t\r\n"):
		return "", fmt.Errorf("username contains whitespace")
	}
	if n := len([]rune(name)); n < 3 || n > 64 {
		return "", fmt.Errorf("username length out of range")
	}
	return name, nil
}

// respondAdminPasswordPolicyError 策略类弱口令错误把规则原文回给前端，其余交回调用方
func respondAdminPasswordPolicyError(c *gin.Context, err error) bool {
	if errors.Is(err, service.ErrWeakPassword) {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return true
	}
	return false
}
