package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/repository"
	"github.com/vendorlink/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateVendorRequest 创建供应商请求
type CreateVendorRequest struct {
	Name           string `json:"name" binding:"required"`
	ContactDetails string `json:"contact_details"`
	Address        string `json:"address"`
	VendorCode     string `json:"vendor_code" binding:"required"`
}

// UpdateVendorRequest 更新供应商请求，未携带的字段保持原值
type UpdateVendorRequest struct {
	Name           *string `json:"name"`
	ContactDetails *string `json:"contact_details"`
	Address        *string `json:"address"`
	VendorCode     *string `json:"vendor_code"`
}

// GetAdminVendors 获取供应商列表 (Admin)
func (h *Handler) GetAdminVendors(c *gin.Context) {
	page, pageSize := pageQuery(c)
	search := strings.TrimSpace(c.Query("search"))

	vendors, total, err := h.VendorService.List(repository.VendorListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  search,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch vendors", err)
		return
	}

	response.SuccessWithPage(c, vendors, response.BuildPagination(page, pageSize, total))
}

// GetAdminVendor 获取供应商详情 (Admin)
func (h *Handler) GetAdminVendor(c *gin.Context) {
	id, ok := parseVendorIDParam(c)
	if !ok {
		return
	}

	vendor, err := h.VendorService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "vendor not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch vendor", err)
		return
	}

	response.Success(c, vendor)
}

// CreateVendor 创建供应商
func (h *Handler) CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	vendor, err := h.VendorService.Create(service.CreateVendorInput{
		Name:           req.Name,
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
		VendorCode:     req.VendorCode,
	})
	if err != nil {
		if errors.Is(err, service.ErrVendorCodeExists) {
			respondError(c, response.CodeBadRequest, "vendor code already exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to create vendor", err)
		return
	}

	response.Success(c, vendor)
}

// UpdateVendor 更新供应商，PUT 与 PATCH 共用
func (h *Handler) UpdateVendor(c *gin.Context) {
	id, ok := parseVendorIDParam(c)
	if !ok {
		return
	}

	var req UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	vendor, err := h.VendorService.Update(id, service.UpdateVendorInput{
		Name:           req.Name,
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
		VendorCode:     req.VendorCode,
	})
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "vendor not found", nil)
			return
		}
		if errors.Is(err, service.ErrVendorCodeExists) {
			respondError(c, response.CodeBadRequest, "vendor code already exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update vendor", err)
		return
	}

	response.Success(c, vendor)
}

// DeleteVendor 删除供应商，级联清除其采购单与绩效快照
func (h *Handler) DeleteVendor(c *gin.Context) {
	id, ok := parseVendorIDParam(c)
	if !ok {
		return
	}

	if err := h.VendorService.Delete(id); err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "vendor not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete vendor", err)
		return
	}

	requestLog(c).Infow("admin_vendor_deleted",
		"vendor_id", id,
		"operator_admin_id", currentAdminID(c),
	)

	response.Success(c, nil)
}

// GetVendorPerformanceHistory 获取供应商绩效快照列表
func (h *Handler) GetVendorPerformanceHistory(c *gin.Context) {
	id, ok := parseVendorIDParam(c)
	if !ok {
		return
	}

	page, pageSize := pageQuery(c)

	recordedFrom, ok := timeQuery(c, "recorded_from")
	if !ok {
		return
	}
	recordedTo, ok := timeQuery(c, "recorded_to")
	if !ok {
		return
	}

	records, total, err := h.VendorPerformanceService.ListSnapshots(repository.PerformanceListFilter{
		Page:         page,
		PageSize:     pageSize,
		VendorID:     id,
		RecordedFrom: recordedFrom,
		RecordedTo:   recordedTo,
	})
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, "vendor not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch performance history", err)
		return
	}

	response.SuccessWithPage(c, records, response.BuildPagination(page, pageSize, total))
}

func parseVendorIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid vendor id", nil)
		return 0, false
	}
	return uint(id), true
}
