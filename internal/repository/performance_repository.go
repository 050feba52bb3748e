package repository

import (
	"github.com/vendorlink/internal/models"

	"gorm.io/gorm"
)

// PerformanceRepository 绩效快照数据访问接口
// 快照只增不改，接口刻意不提供更新方法
type PerformanceRepository interface {
	Create(record *models.HistoricalPerformance) error
	ListByVendor(filter PerformanceListFilter) ([]models.HistoricalPerformance, int64, error)
	DeleteByVendor(vendorID uint) error
	WithTx(tx *gorm.DB) *GormPerformanceRepository
}

// GormPerformanceRepository GORM 实现
type GormPerformanceRepository struct {
	db *gorm.DB
}

// NewPerformanceRepository 创建绩效快照仓库
func NewPerformanceRepository(db *gorm.DB) *GormPerformanceRepository {
	return &GormPerformanceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPerformanceRepository) WithTx(tx *gorm.DB) *GormPerformanceRepository {
	if tx == nil {
		return r
	}
	return &GormPerformanceRepository{db: tx}
}

// Create 写入绩效快照
func (r *GormPerformanceRepository) Create(record *models.HistoricalPerformance) error {
	return r.db.Create(record).Error
}

// ListByVendor 查询供应商绩效快照列表（按时间倒序）
func (r *GormPerformanceRepository) ListByVendor(filter PerformanceListFilter) ([]models.HistoricalPerformance, int64, error) {
	query := r.db.Model(&models.HistoricalPerformance{}).Where("vendor_id = ?", filter.VendorID)

	if filter.RecordedFrom != nil {
		query = query.Where("recorded_at >= ?", *filter.RecordedFrom)
	}
	if filter.RecordedTo != nil {
		query = query.Where("recorded_at <= ?", *filter.RecordedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	records := make([]models.HistoricalPerformance, 0)
	if err := query.Order("recorded_at desc, id desc").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// DeleteByVendor 删除供应商全部绩效快照
func (r *GormPerformanceRepository) DeleteByVendor(vendorID uint) error {
	if vendorID == 0 {
		return nil
	}
	return r.db.Where("vendor_id = ?", vendorID).Delete(&models.HistoricalPerformance{}).Error
}
