package admin

import (
	"strings"

	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAuthzAuditLogs 管理端检索授权审计日志
func (h *Handler) ListAuthzAuditLogs(c *gin.Context) {
	page, pageSize := pageQuery(c)

	operatorAdminID, ok := uintQuery(c, "operator_admin_id")
	if !ok {
		return
	}
	targetAdminID, ok := uintQuery(c, "target_admin_id")
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

	items, total, err := h.AuthzAuditService.ListForAdmin(repository.AuthzAuditLogListFilter{
		Page:            page,
		PageSize:        pageSize,
		OperatorAdminID: operatorAdminID,
		TargetAdminID:   targetAdminID,
		Action:          strings.TrimSpace(c.Query("action")),
		CreatedFrom:     createdFrom,
		CreatedTo:       createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch audit logs", err)
		return
	}

	response.SuccessWithPage(c, items, response.BuildPagination(page, pageSize, total))
}
