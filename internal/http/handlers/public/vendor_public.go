package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/service"

	"github.com/gin-gonic/gin"
)

// GetVendorPerformance 获取供应商当前绩效指标
// 读取前全量重算，返回的即为重算后的落库值
func (h *Handler) GetVendorPerformance(c *gin.Context) {
	id, ok := parseVendorIDParam(c)
	if !ok {
		return
	}

	vendor, err := h.VendorPerformanceService.GetPerformance(id)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "Vendor not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch vendor performance", err)
		return
	}

	response.Success(c, vendor.VendorMetrics)
}

// RecordVendorPerformance 以当前存量指标落一条绩效快照
func (h *Handler) RecordVendorPerformance(c *gin.Context) {
	id, ok := parseVendorIDParam(c)
	if !ok {
		return
	}

	record, err := h.VendorPerformanceService.RecordSnapshot(id)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "Vendor not found!", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to record vendor performance", err)
		return
	}

	requestLog(c).Infow("vendor_performance_recorded",
		"vendor_id", id,
		"record_id", record.ID,
	)

	response.SuccessWithMsg(c, "Recorded performance of vendor successfully", record)
}

func parseVendorIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid vendor id", nil)
		return 0, false
	}
	return uint(id), true
}
