package public

import (
	"errors"

	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 下发一条图片验证码挑战，登录页轮换时反复调用
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "captcha unavailable", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err == nil {
		response.Success(c, gin.H{
			"captcha_id":   challenge.CaptchaID,
			"image_base64": challenge.ImageBase64,
		})
		return
	}
	if errors.Is(err, service.ErrCaptchaConfigInvalid) {
		// 图形验证码未启用时视为配置问题，不透出内部错误
		respondError(c, response.CodeBadRequest, "captcha unavailable", nil)
		return
	}
	respondError(c, response.CodeInternal, "failed to generate captcha", err)
}
