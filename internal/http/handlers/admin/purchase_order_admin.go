package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/repository"
	"github.com/vendorlink/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePurchaseOrderRequest 创建采购单请求
// 时间字段使用 RFC3339 字符串，空串视为未填写
type CreatePurchaseOrderRequest struct {
	PONumber           string   `json:"po_number"`
	VendorID           *uint    `json:"vendor_id"`
	DeliveryDate       string   `json:"delivery_date"`
	Items              string   `json:"items"`
	Quantity           *int     `json:"quantity"`
	Status             string   `json:"status"`
	QualityRating      *float64 `json:"quality_rating"`
	IssueDate          string   `json:"issue_date"`
	AcknowledgmentDate string   `json:"acknowledgment_date"`
}

// UpdatePurchaseOrderRequest 更新采购单请求，未携带的字段保持原值
type UpdatePurchaseOrderRequest struct {
	VendorID           *uint    `json:"vendor_id"`
	DeliveryDate       *string  `json:"delivery_date"`
	Items              *string  `json:"items"`
	Quantity           *int     `json:"quantity"`
	Status             *string  `json:"status"`
	QualityRating      *float64 `json:"quality_rating"`
	IssueDate          *string  `json:"issue_date"`
	AcknowledgmentDate *string  `json:"acknowledgment_date"`
}

// GetAdminPurchaseOrders 获取采购单列表 (Admin)
func (h *Handler) GetAdminPurchaseOrders(c *gin.Context) {
	page, pageSize := pageQuery(c)

	vendorID, ok := uintQuery(c, "vendor_id")
	if !ok {
		return
	}

	orders, total, err := h.PurchaseOrderService.List(repository.PurchaseOrderListFilter{
		Page:     page,
		PageSize: pageSize,
		VendorID: vendorID,
		Status:   strings.TrimSpace(c.Query("status")),
		PONumber: strings.TrimSpace(c.Query("po_number")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch purchase orders", err)
		return
	}

	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetAdminPurchaseOrder 获取采购单详情 (Admin)
func (h *Handler) GetAdminPurchaseOrder(c *gin.Context) {
	id, ok := parsePurchaseOrderIDParam(c)
	if !ok {
		return
	}

	order, err := h.PurchaseOrderService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPurchaseOrderNotFound) {
			respondError(c, response.CodeNotFound, "purchase order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch purchase order", err)
		return
	}

	response.Success(c, order)
}

// CreatePurchaseOrder 创建采购单
func (h *Handler) CreatePurchaseOrder(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	deliveryDate, err := parseTimeNullable(strings.TrimSpace(req.DeliveryDate))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid delivery_date", err)
		return
	}
	issueDate, err := parseTimeNullable(strings.TrimSpace(req.IssueDate))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid issue_date", err)
		return
	}
	acknowledgmentDate, err := parseTimeNullable(strings.TrimSpace(req.AcknowledgmentDate))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid acknowledgment_date", err)
		return
	}

	order, err := h.PurchaseOrderService.Create(service.CreatePurchaseOrderInput{
		PONumber:           req.PONumber,
		VendorID:           req.VendorID,
		DeliveryDate:       deliveryDate,
		Items:              req.Items,
		Quantity:           req.Quantity,
		Status:             req.Status,
		QualityRating:      req.QualityRating,
		IssueDate:          issueDate,
		AcknowledgmentDate: acknowledgmentDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeBadRequest, "vendor not found", nil)
			return
		}
		if errors.Is(err, service.ErrPONumberExists) {
			respondError(c, response.CodeBadRequest, "po number already exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to create purchase order", err)
		return
	}

	response.Success(c, order)
}

// UpdatePurchaseOrder 更新采购单，PUT 与 PATCH 共用
func (h *Handler) UpdatePurchaseOrder(c *gin.Context) {
	id, ok := parsePurchaseOrderIDParam(c)
	if !ok {
		return
	}

	var req UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	deliveryDate, err := parseTimePtrNullable(req.DeliveryDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid delivery_date", err)
		return
	}
	issueDate, err := parseTimePtrNullable(req.IssueDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid issue_date", err)
		return
	}
	acknowledgmentDate, err := parseTimePtrNullable(req.AcknowledgmentDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid acknowledgment_date", err)
		return
	}

	order, err := h.PurchaseOrderService.Update(id, service.UpdatePurchaseOrderInput{
		VendorID:           req.VendorID,
		DeliveryDate:       deliveryDate,
		Items:              req.Items,
		Quantity:           req.Quantity,
		Status:             req.Status,
		QualityRating:      req.QualityRating,
		IssueDate:          issueDate,
		AcknowledgmentDate: acknowledgmentDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrPurchaseOrderNotFound) {
			respondError(c, response.CodeNotFound, "purchase order not found", nil)
			return
		}
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeBadRequest, "vendor not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update purchase order", err)
		return
	}

	response.Success(c, order)
}

// DeletePurchaseOrder 删除采购单
func (h *Handler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := parsePurchaseOrderIDParam(c)
	if !ok {
		return
	}

	if err := h.PurchaseOrderService.Delete(id); err != nil {
		if errors.Is(err, service.ErrPurchaseOrderNotFound) {
			respondError(c, response.CodeNotFound, "purchase order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete purchase order", err)
		return
	}

	requestLog(c).Infow("admin_purchase_order_deleted",
		"purchase_order_id", id,
		"operator_admin_id", currentAdminID(c),
	)

	response.Success(c, nil)
}

func parsePurchaseOrderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid purchase order id", nil)
		return 0, false
	}
	return uint(id), true
}

// parseTimePtrNullable 解析可缺省的时间字段
// nil 与空串均返回 nil，表示保持原值
func parseTimePtrNullable(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	return parseTimeNullable(strings.TrimSpace(*raw))
}
