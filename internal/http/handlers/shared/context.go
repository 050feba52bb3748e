package shared

import (
	"github.com/vendorlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUint 读取鉴权中间件写入的 uint 上下文值，缺失按未登录处理。
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	id, code, msg := contextValueToUint(value)
	if msg != "" {
		RespondError(c, code, msg, nil)
		return 0, false
	}
	return id, true
}

func contextValueToUint(value interface{}) (id uint, code int, msg string) {
	switch v := value.(type) {
	case uint:
		return v, 0, ""
	case int:
		if v >= 0 {
			return uint(v), 0, ""
		}
		return 0, response.CodeBadRequest, "invalid context value"
	case float64:
		if v >= 0 {
			return uint(v), 0, ""
		}
		return 0, response.CodeBadRequest, "invalid context value"
	default:
		return 0, response.CodeInternal, "invalid context value type"
	}
}
