package service

import (
	"strings"

	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/repository"

	"gorm.io/gorm"
)

// VendorService 供应商业务服务
type VendorService struct {
	vendors repository.VendorRepository
	orders  repository.PurchaseOrderRepository
	records repository.PerformanceRepository
}

// NewVendorService 创建供应商服务
func NewVendorService(
	vendors repository.VendorRepository,
	orders repository.PurchaseOrderRepository,
	records repository.PerformanceRepository,
) *VendorService {
	return &VendorService{vendors: vendors, orders: orders, records: records}
}

// CreateVendorInput 创建供应商输入
type CreateVendorInput struct {
	Name           string
	ContactDetails string
	Address        string
	VendorCode     string
}

// UpdateVendorInput 更新供应商输入，nil 字段保持原值
type UpdateVendorInput struct {
	Name           *string
	ContactDetails *string
	Address        *string
	VendorCode     *string
}

// Create 创建供应商
func (s *VendorService) Create(input CreateVendorInput) (*models.Vendor, error) {
	code := strings.TrimSpace(input.VendorCode)
	existing, err := s.vendors.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrVendorCodeExists
	}

	vendor := models.Vendor{
		Name:           strings.TrimSpace(input.Name),
		ContactDetails: input.ContactDetails,
		Address:        input.Address,
		VendorCode:     code,
	}
	if err := s.vendors.Create(&vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// Get 获取供应商详情
func (s *VendorService) Get(id uint) (*models.Vendor, error) {
	vendor, err := s.vendors.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}

// List 查询供应商列表
func (s *VendorService) List(filter repository.VendorListFilter) ([]models.Vendor, int64, error) {
	return s.vendors.List(filter)
}

// Update 更新供应商，编码变更时重新校验唯一性
func (s *VendorService) Update(id uint, input UpdateVendorInput) (*models.Vendor, error) {
	vendor, err := s.vendors.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	if input.VendorCode != nil {
		code := strings.TrimSpace(*input.VendorCode)
		if code != vendor.VendorCode {
			existing, err := s.vendors.GetByCode(code)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != vendor.ID {
				return nil, ErrVendorCodeExists
			}
			vendor.VendorCode = code
		}
	}
	if input.Name != nil {
		vendor.Name = strings.TrimSpace(*input.Name)
	}
	if input.ContactDetails != nil {
		vendor.ContactDetails = *input.ContactDetails
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}

	if err := s.vendors.Update(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Delete 删除供应商，同事务级联清除采购单与绩效快照
func (s *VendorService) Delete(id uint) error {
	vendor, err := s.vendors.GetByID(id)
	if err != nil {
		return err
	}
	if vendor == nil {
		return ErrVendorNotFound
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.records.WithTx(tx).DeleteByVendor(id); err != nil {
			return err
		}
		if err := s.orders.WithTx(tx).DeleteByVendor(id); err != nil {
			return err
		}
		return s.vendors.WithTx(tx).Delete(id)
	})
}
