package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/service"

	"github.com/gin-gonic/gin"
)

// AcknowledgePurchaseOrder 供应商确认采购单
// 确认时间写入当前时刻，并同步触发该供应商指标重算
func (h *Handler) AcknowledgePurchaseOrder(c *gin.Context) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid purchase order id", nil)
		return
	}

	order, err := h.PurchaseOrderService.Acknowledge(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrPurchaseOrderNotFound) {
			respondError(c, response.CodeNotFound, "Purchase order not found!", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to acknowledge purchase order", err)
		return
	}

	requestLog(c).Infow("purchase_order_acknowledged",
		"purchase_order_id", order.ID,
		"po_number", order.PONumber,
	)

	response.SuccessWithMsg(c, "Purchase order acknowledged successfully", order)
}
