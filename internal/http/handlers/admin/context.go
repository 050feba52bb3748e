package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/vendorlink/internal/http/handlers/shared"
	"github.com/vendorlink/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "admin_id")
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

// pageQuery 解析并归一化列表接口的分页查询参数
func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return normalizePagination(page, pageSize)
}

// uintQuery 解析可选的无符号整数查询参数，空值放行，格式错误时响应已写好
func uintQuery(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return 0, false
	}
	return uint(id), true
}

// timeQuery 解析可选的 RFC3339 时间查询参数，格式错误时响应已写好
func timeQuery(c *gin.Context, name string) (*time.Time, bool) {
	value, err := parseTimeNullable(strings.TrimSpace(c.Query(name)))
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return nil, false
	}
	return value, true
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
