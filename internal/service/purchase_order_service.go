package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/vendorlink/internal/constants"
	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/repository"

	"gorm.io/gorm"
)

// PurchaseOrderObserver 采购单落库后的同步回调
// 每次创建与更新成功后调用一次，created 标识本次是否为新建
type PurchaseOrderObserver interface {
	OnPurchaseOrderWritten(order *models.PurchaseOrder, created bool) error
}

// PurchaseOrderService 采购单业务服务
type PurchaseOrderService struct {
	orders   repository.PurchaseOrderRepository
	vendors  repository.VendorRepository
	observer PurchaseOrderObserver
}

// NewPurchaseOrderService 创建采购单服务
func NewPurchaseOrderService(
	orders repository.PurchaseOrderRepository,
	vendors repository.VendorRepository,
	observer PurchaseOrderObserver,
) *PurchaseOrderService {
	return &PurchaseOrderService{orders: orders, vendors: vendors, observer: observer}
}

// CreatePurchaseOrderInput 创建采购单输入
type CreatePurchaseOrderInput struct {
	PONumber           string
	VendorID           *uint
	DeliveryDate       *time.Time
	Items              string
	Quantity           *int
	Status             string
	QualityRating      *float64
	IssueDate          *time.Time
	AcknowledgmentDate *time.Time
}

// UpdatePurchaseOrderInput 更新采购单输入，nil 字段保持原值
// 编号在创建时生成后不再变更
type UpdatePurchaseOrderInput struct {
	VendorID           *uint
	DeliveryDate       *time.Time
	Items              *string
	Quantity           *int
	Status             *string
	QualityRating      *float64
	IssueDate          *time.Time
	AcknowledgmentDate *time.Time
}

// Create 创建采购单
// 编号未指定时按行 ID 生成 PO-%06d，生成与落库在同一事务内完成
func (s *PurchaseOrderService) Create(input CreatePurchaseOrderInput) (*models.PurchaseOrder, error) {
	if input.VendorID != nil {
		vendor, err := s.vendors.GetByID(*input.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, ErrVendorNotFound
		}
	}

	number := strings.TrimSpace(input.PONumber)
	if number != "" {
		existing, err := s.orders.GetByNumber(number)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrPONumberExists
		}
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.PurchaseOrderStatusPending
	}

	order := models.PurchaseOrder{
		PONumber:           number,
		VendorID:           input.VendorID,
		OrderDate:          time.Now(),
		DeliveryDate:       input.DeliveryDate,
		Items:              input.Items,
		Quantity:           input.Quantity,
		Status:             status,
		QualityRating:      input.QualityRating,
		IssueDate:          input.IssueDate,
		AcknowledgmentDate: input.AcknowledgmentDate,
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(&order); err != nil {
			return err
		}
		if order.PONumber != "" {
			return nil
		}
		generated := fmt.Sprintf(constants.PurchaseOrderNumberFormat, order.ID)
		if err := s.orders.WithTx(tx).AssignNumber(order.ID, generated); err != nil {
			return err
		}
		order.PONumber = generated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifyWritten(&order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

// Get 获取采购单详情
func (s *PurchaseOrderService) Get(id uint) (*models.PurchaseOrder, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrPurchaseOrderNotFound
	}
	return order, nil
}

// List 查询采购单列表
func (s *PurchaseOrderService) List(filter repository.PurchaseOrderListFilter) ([]models.PurchaseOrder, int64, error) {
	return s.orders.List(filter)
}

// Update 更新采购单并触发指标刷新
func (s *PurchaseOrderService) Update(id uint, input UpdatePurchaseOrderInput) (*models.PurchaseOrder, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrPurchaseOrderNotFound
	}

	if input.VendorID != nil {
		vendor, err := s.vendors.GetByID(*input.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, ErrVendorNotFound
		}
		order.VendorID = input.VendorID
	}
	if input.DeliveryDate != nil {
		order.DeliveryDate = input.DeliveryDate
	}
	if input.Items != nil {
		order.Items = *input.Items
	}
	if input.Quantity != nil {
		order.Quantity = input.Quantity
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if status != "" {
			order.Status = status
		}
	}
	if input.QualityRating != nil {
		order.QualityRating = input.QualityRating
	}
	if input.IssueDate != nil {
		order.IssueDate = input.IssueDate
	}
	if input.AcknowledgmentDate != nil {
		order.AcknowledgmentDate = input.AcknowledgmentDate
	}

	if err := s.orders.Update(order); err != nil {
		return nil, err
	}
	if err := s.notifyWritten(order, false); err != nil {
		return nil, err
	}
	return order, nil
}

// Acknowledge 供应商确认采购单
// 确认时间覆盖写入当前时刻，随后同步刷新该供应商指标
func (s *PurchaseOrderService) Acknowledge(id uint) (*models.PurchaseOrder, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrPurchaseOrderNotFound
	}

	now := time.Now()
	order.AcknowledgmentDate = &now
	if err := s.orders.Update(order); err != nil {
		return nil, err
	}
	if err := s.notifyWritten(order, false); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete 删除采购单，删除不触发指标刷新
func (s *PurchaseOrderService) Delete(id uint) error {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrPurchaseOrderNotFound
	}
	return s.orders.Delete(id)
}

func (s *PurchaseOrderService) notifyWritten(order *models.PurchaseOrder, created bool) error {
	if s.observer == nil {
		return nil
	}
	return s.observer.OnPurchaseOrderWritten(order, created)
}
