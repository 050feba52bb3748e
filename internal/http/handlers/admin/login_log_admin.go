package admin

import (
	"strings"

	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetLoginLogs 管理端检索登录日志，支持按账号、结果与时间窗过滤
func (h *Handler) GetLoginLogs(c *gin.Context) {
	page, pageSize := pageQuery(c)

	adminID, ok := uintQuery(c, "admin_id")
	if !ok {
		return
	}
	createdFrom, ok := timeQuery(c, "created_from")
	if !ok {
		return
	}
	createdTo, ok := timeQuery(c, "created_to")
	if !ok {
		return
	}

	logs, total, err := h.LoginLogService.ListForAdmin(repository.LoginLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		AdminID:     adminID,
		Username:    strings.TrimSpace(c.Query("username")),
		Status:      strings.TrimSpace(c.Query("status")),
		FailReason:  strings.TrimSpace(c.Query("fail_reason")),
		ClientIP:    strings.TrimSpace(c.Query("client_ip")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch login logs", err)
		return
	}

	response.SuccessWithPage(c, logs, response.BuildPagination(page, pageSize, total))
}
