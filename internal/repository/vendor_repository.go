package repository

import (
	"errors"

	"github.com/vendorlink/internal/models"

	"gorm.io/gorm"
)

// VendorRepository 供应商数据访问接口
type VendorRepository interface {
	Create(vendor *models.Vendor) error
	GetByID(id uint) (*models.Vendor, error)
	GetByCode(code string) (*models.Vendor, error)
	List(filter VendorListFilter) ([]models.Vendor, int64, error)
	ListIDs() ([]uint, error)
	Update(vendor *models.Vendor) error
	UpdateMetrics(id uint, metrics models.VendorMetrics) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormVendorRepository
}

// GormVendorRepository GORM 实现
type GormVendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建供应商仓库
func NewVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVendorRepository) WithTx(tx *gorm.DB) *GormVendorRepository {
	if tx == nil {
		return r
	}
	return &GormVendorRepository{db: tx}
}

// Create 创建供应商
func (r *GormVendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// GetByID 根据 ID 获取供应商
func (r *GormVendorRepository) GetByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetByCode 根据编码获取供应商
func (r *GormVendorRepository) GetByCode(code string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.Where("vendor_code = ?", code).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// List 查询供应商列表
func (r *GormVendorRepository) List(filter VendorListFilter) ([]models.Vendor, int64, error) {
	query := r.db.Model(&models.Vendor{})

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		operator := likeOperatorByDialect(dbDialectName(r.db))
		query = query.Where(
			"name "+operator+" ? OR vendor_code "+operator+" ?",
			like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var vendors []models.Vendor
	if err := query.Order("id asc").Find(&vendors).Error; err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// ListIDs 获取全部供应商 ID（供调度任务扫描）
func (r *GormVendorRepository) ListIDs() ([]uint, error) {
	ids := make([]uint, 0)
	if err := r.db.Model(&models.Vendor{}).Order("id asc").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update 更新供应商
func (r *GormVendorRepository) Update(vendor *models.Vendor) error {
	return r.db.Save(vendor).Error
}

// UpdateMetrics 仅更新绩效指标列
func (r *GormVendorRepository) UpdateMetrics(id uint, metrics models.VendorMetrics) error {
	return r.db.Model(&models.Vendor{}).Where("id = ?", id).Updates(map[string]interface{}{
		"on_time_delivery_rate": metrics.OnTimeDeliveryRate,
		"quality_rating_avg":    metrics.QualityRatingAvg,
		"average_response_time": metrics.AverageResponseTime,
		"fulfillment_rate":      metrics.FulfillmentRate,
	}).Error
}

// Delete 删除供应商
func (r *GormVendorRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Vendor{}, id).Error
}
