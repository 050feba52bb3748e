package models

import (
	"time"
)

// HistoricalPerformance 供应商绩效快照表
// 记录生成后不可修改，随供应商删除级联清除
type HistoricalPerformance struct {
	ID         uint      `gorm:"primarykey" json:"id"`              // 主键
	VendorID   uint      `gorm:"index;not null" json:"vendor_id"`   // 供应商ID
	RecordedAt time.Time `gorm:"index;not null" json:"recorded_at"` // 快照时间

	VendorMetrics `gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"` // 创建时间

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"` // 关联供应商
}

// TableName 指定表名
func (HistoricalPerformance) TableName() string {
	return "historical_performances"
}
