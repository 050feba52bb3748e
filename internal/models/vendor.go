package models

import (
	"time"
)

// VendorMetrics 供应商绩效指标
// 四项指标均由采购单全量重算得出，写入供应商行
type VendorMetrics struct {
	OnTimeDeliveryRate  float64 `gorm:"not null;default:0" json:"on_time_delivery_rate"` // 按时交付率（百分比）
	QualityRatingAvg    float64 `gorm:"not null;default:0" json:"quality_rating_avg"`    // 质量评分均值
	AverageResponseTime float64 `gorm:"not null;default:0" json:"average_response_time"` // 平均响应时长（秒）
	FulfillmentRate     float64 `gorm:"not null;default:0" json:"fulfillment_rate"`      // 履约率（百分比）
}

// Vendor 供应商表
type Vendor struct {
	ID             uint   `gorm:"primarykey" json:"id"`                                      // 主键
	Name           string `gorm:"type:varchar(100);not null" json:"name"`                    // 供应商名称
	ContactDetails string `gorm:"type:text" json:"contact_details"`                          // 联系方式
	Address        string `gorm:"type:text" json:"address"`                                  // 地址
	VendorCode     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"vendor_code"` // 供应商编码（唯一）

	VendorMetrics `gorm:"embedded"`

	CreatedAt time.Time `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time `json:"updated_at"`              // 更新时间
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}
