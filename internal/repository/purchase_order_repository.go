package repository

import (
	"errors"

	"github.com/vendorlink/internal/models"

	"gorm.io/gorm"
)

// PurchaseOrderRepository 采购单数据访问接口
type PurchaseOrderRepository interface {
	Create(order *models.PurchaseOrder) error
	AssignNumber(id uint, number string) error
	GetByID(id uint) (*models.PurchaseOrder, error)
	GetByNumber(number string) (*models.PurchaseOrder, error)
	List(filter PurchaseOrderListFilter) ([]models.PurchaseOrder, int64, error)
	ListByVendor(vendorID uint) ([]models.PurchaseOrder, error)
	Update(order *models.PurchaseOrder) error
	Delete(id uint) error
	DeleteByVendor(vendorID uint) error
	WithTx(tx *gorm.DB) *GormPurchaseOrderRepository
}

// GormPurchaseOrderRepository GORM 实现
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository 创建采购单仓库
func NewPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseOrderRepository) WithTx(tx *gorm.DB) *GormPurchaseOrderRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseOrderRepository{db: tx}
}

// Create 创建采购单
func (r *GormPurchaseOrderRepository) Create(order *models.PurchaseOrder) error {
	return r.db.Create(order).Error
}

// AssignNumber 写入采购单编号（仅更新编号列）
func (r *GormPurchaseOrderRepository) AssignNumber(id uint, number string) error {
	return r.db.Model(&models.PurchaseOrder{}).Where("id = ?", id).Update("po_number", number).Error
}

// GetByID 根据 ID 获取采购单
func (r *GormPurchaseOrderRepository) GetByID(id uint) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := r.db.Preload("Vendor").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByNumber 根据编号获取采购单
func (r *GormPurchaseOrderRepository) GetByNumber(number string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := r.db.Preload("Vendor").Where("po_number = ?", number).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 查询采购单列表
func (r *GormPurchaseOrderRepository) List(filter PurchaseOrderListFilter) ([]models.PurchaseOrder, int64, error) {
	query := r.db.Model(&models.PurchaseOrder{})

	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PONumber != "" {
		operator := likeOperatorByDialect(dbDialectName(r.db))
		query = query.Where("po_number "+operator+" ?", "%"+filter.PONumber+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.PurchaseOrder
	if err := query.Preload("Vendor").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByVendor 获取供应商全部采购单（绩效全量重算的数据源）
func (r *GormPurchaseOrderRepository) ListByVendor(vendorID uint) ([]models.PurchaseOrder, error) {
	orders := make([]models.PurchaseOrder, 0)
	if err := r.db.Where("vendor_id = ?", vendorID).Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Update 更新采购单
func (r *GormPurchaseOrderRepository) Update(order *models.PurchaseOrder) error {
	return r.db.Save(order).Error
}

// Delete 删除采购单
func (r *GormPurchaseOrderRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.PurchaseOrder{}, id).Error
}

// DeleteByVendor 删除供应商名下全部采购单
func (r *GormPurchaseOrderRepository) DeleteByVendor(vendorID uint) error {
	if vendorID == 0 {
		return nil
	}
	return r.db.Where("vendor_id = ?", vendorID).Delete(&models.PurchaseOrder{}).Error
}
