package admin

import (
	"errors"
	"time"

	"github.com/vendorlink/internal/constants"
	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                `json:"username" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// AdminLogin 管理员登录，成败都会留一条登录日志
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordLogin(c, req.Username, 0, constants.LoginLogStatusFailed, constants.LoginFailReasonBadRequest)
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if !h.verifyLoginCaptcha(c, req.Username, req.CaptchaPayload) {
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.recordLogin(c, req.Username, 0, constants.LoginLogStatusFailed, constants.LoginFailReasonInvalidCredentials)
			respondError(c, response.CodeUnauthorized, "invalid username or password", nil)
			return
		}
		h.recordLogin(c, req.Username, 0, constants.LoginLogStatusFailed, constants.LoginFailReasonInternalError)
		respondError(c, response.CodeInternal, "login failed", err)
		return
	}

	h.recordLogin(c, admin.Username, admin.ID, constants.LoginLogStatusSuccess, "")
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// verifyLoginCaptcha 登录场景的验证码校验，未通过时响应与登录日志都已写好
func (h *Handler) verifyLoginCaptcha(c *gin.Context, username string, payload CaptchaPayloadRequest) bool {
	if h.CaptchaService == nil {
		return true
	}
	err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, payload.ToServicePayload())
	if err == nil {
		return true
	}

	reason := constants.LoginFailReasonCaptchaVerifyFailed
	code, msg := response.CodeInternal, "captcha verify failed"
	switch {
	case errors.Is(err, service.ErrCaptchaRequired):
		reason, code, msg = constants.LoginFailReasonCaptchaRequired, response.CodeBadRequest, "captcha required"
	case errors.Is(err, service.ErrCaptchaInvalid):
		reason, code, msg = constants.LoginFailReasonCaptchaInvalid, response.CodeBadRequest, "captcha invalid"
	case errors.Is(err, service.ErrCaptchaConfigInvalid):
		reason = constants.LoginFailReasonCaptchaConfigInvalid
		msg = "captcha config invalid"
	}

	h.recordLogin(c, username, 0, constants.LoginLogStatusFailed, reason)
	if code == response.CodeBadRequest {
		// 用户侧输入问题不透出底层错误
		respondError(c, code, msg, nil)
	} else {
		respondError(c, code, msg, err)
	}
	return false
}

// GetAdminProfile 获取当前管理员信息，连同角色与生效的授权策略
func (h *Handler) GetAdminProfile(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch profile", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeNotFound, "admin not found", nil)
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch profile", err)
		return
	}
	policies, err := h.AuthzService.GetAdminPolicies(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch profile", err)
		return
	}

	response.Success(c, gin.H{
		"id":            admin.ID,
		"username":      admin.Username,
		"is_super":      admin.IsSuper,
		"last_login_at": admin.LastLoginAt,
		"created_at":    admin.CreatedAt,
		"roles":         roles,
		"policies":      policies,
	})
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateAdminPassword 修改当前管理员密码
func (h *Handler) UpdateAdminPassword(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.AuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "old password is incorrect", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrAdminNotFound):
			respondError(c, response.CodeNotFound, "admin not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update password", err)
		}
		return
	}

	response.Success(c, nil)
}

func (h *Handler) recordLogin(c *gin.Context, username string, adminID uint, status, failReason string) {
	if h == nil || h.LoginLogService == nil {
		return
	}
	_ = h.LoginLogService.Record(service.RecordLoginInput{
		AdminID:    adminID,
		Username:   username,
		Status:     status,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		RequestID:  currentRequestID(c),
	})
}
