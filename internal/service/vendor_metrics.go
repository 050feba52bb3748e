package service

import (
	"github.com/vendorlink/internal/constants"
	"github.com/vendorlink/internal/models"

	"github.com/shopspring/decimal"
)

// CalculateVendorMetrics 按供应商采购单全集重算四项绩效指标。
// 纯函数，不触达存储；prev 仅用于在没有可评分完成单时保留质量均分。
//
// 口径：
//   - 按时交付率 = 完成单中 delivery_date >= acknowledgment_date 的占比，
//     任一时间为空视为未按时；无完成单时为 0
//   - 质量均分 = 完成且有评分的单的评分均值；无此类单时沿用 prev
//   - 平均响应 = 已确认单的 (确认-下发) 秒数合计 / 全部单数，保留两位小数
//   - 履约率 = 完成单数 / 全部单数
//
// 供应商没有任何采购单时各比率归零，避免除零。
func CalculateVendorMetrics(prev models.VendorMetrics, orders []models.PurchaseOrder) models.VendorMetrics {
	next := models.VendorMetrics{QualityRatingAvg: prev.QualityRatingAvg}

	total := len(orders)
	if total == 0 {
		return next
	}

	var (
		completed       int
		onTime          int
		ratedCount      int
		ratedSum        float64
		responseSeconds float64
	)

	for i := range orders {
		po := &orders[i]
		if po.Status == constants.PurchaseOrderStatusCompleted {
			completed++
			if po.DeliveryDate != nil && po.AcknowledgmentDate != nil &&
				!po.DeliveryDate.Before(*po.AcknowledgmentDate) {
				onTime++
			}
			if po.QualityRating != nil {
				ratedCount++
				ratedSum += *po.QualityRating
			}
		}
		if po.AcknowledgmentDate != nil && po.IssueDate != nil {
			responseSeconds += po.AcknowledgmentDate.Sub(*po.IssueDate).Seconds()
		}
	}

	if completed > 0 {
		next.OnTimeDeliveryRate = float64(onTime) / float64(completed) * 100
	}
	if ratedCount > 0 {
		next.QualityRatingAvg = ratedSum / float64(ratedCount)
	}
	next.AverageResponseTime = roundSeconds(responseSeconds / float64(total))
	next.FulfillmentRate = float64(completed) / float64(total) * 100

	return next
}

// roundSeconds 两位小数舍入，走 decimal 避免浮点尾差
func roundSeconds(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}
