package models

import (
	"time"
)

// PurchaseOrder 采购单表
// po_number 由服务层在创建后按行 ID 生成，仅生成一次
type PurchaseOrder struct {
	ID                 uint       `gorm:"primarykey" json:"id"`                                           // 主键
	PONumber           string     `gorm:"type:varchar(100);uniqueIndex" json:"po_number"`                 // 采购单编号（PO-000001）
	VendorID           *uint      `gorm:"index" json:"vendor_id"`                                         // 供应商ID（可为空）
	OrderDate          time.Time  `gorm:"index;not null" json:"order_date"`                               // 下单时间（创建时写入）
	DeliveryDate       *time.Time `json:"delivery_date"`                                                  // 交付时间（预计或实际）
	Items              string     `gorm:"type:text" json:"items"`                                         // 物料明细（JSON 文本）
	Quantity           *int       `json:"quantity"`                                                       // 总数量
	Status             string     `gorm:"type:varchar(100);index;not null;default:pending" json:"status"` // 状态（pending/completed/canceled，开放扩展）
	QualityRating      *float64   `json:"quality_rating"`                                                 // 本单质量评分（可为空）
	IssueDate          *time.Time `json:"issue_date"`                                                     // 下发时间
	AcknowledgmentDate *time.Time `json:"acknowledgment_date"`                                            // 供应商确认时间
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt          time.Time  `json:"updated_at"`                                                     // 更新时间

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"` // 关联供应商
}

// TableName 指定表名
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}
