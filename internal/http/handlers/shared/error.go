package shared

import (
	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString("request_id"); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回统一错误响应，有底层错误时连带写一条结构化日志
func RespondError(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		appErr := response.WrapError(code, msg, err)
		RequestLog(c).Errorw("handler_error", "code", code, "error", appErr.Error())
	}
	response.Error(c, code, msg)
}
