package service

import (
	"errors"
	"time"

	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/repository"
)

// VendorPerformanceService 供应商绩效服务
// 实现 PurchaseOrderObserver，承接采购单写入后的同步指标刷新
type VendorPerformanceService struct {
	vendors repository.VendorRepository
	orders  repository.PurchaseOrderRepository
	records repository.PerformanceRepository
}

// NewVendorPerformanceService 创建绩效服务
func NewVendorPerformanceService(
	vendors repository.VendorRepository,
	orders repository.PurchaseOrderRepository,
	records repository.PerformanceRepository,
) *VendorPerformanceService {
	return &VendorPerformanceService{vendors: vendors, orders: orders, records: records}
}

// OnPurchaseOrderWritten 采购单写入回调
// 无供应商或供应商已不存在时跳过
func (s *VendorPerformanceService) OnPurchaseOrderWritten(order *models.PurchaseOrder, created bool) error {
	if order == nil || order.VendorID == nil {
		return nil
	}
	if _, err := s.RefreshVendorMetrics(*order.VendorID); err != nil {
		if errors.Is(err, ErrVendorNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// RefreshVendorMetrics 全量重算供应商绩效指标并落库
func (s *VendorPerformanceService) RefreshVendorMetrics(vendorID uint) (*models.Vendor, error) {
	vendor, err := s.vendors.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	orders, err := s.orders.ListByVendor(vendorID)
	if err != nil {
		return nil, err
	}

	metrics := CalculateVendorMetrics(vendor.VendorMetrics, orders)
	if err := s.vendors.UpdateMetrics(vendorID, metrics); err != nil {
		return nil, err
	}
	vendor.VendorMetrics = metrics
	return vendor, nil
}

// GetPerformance 绩效读取入口，读取前先全量重算
func (s *VendorPerformanceService) GetPerformance(vendorID uint) (*models.Vendor, error) {
	return s.RefreshVendorMetrics(vendorID)
}

// RecordSnapshot 以供应商当前存量指标生成绩效快照
// 快照不触发重算，记录的是行上现有指标
func (s *VendorPerformanceService) RecordSnapshot(vendorID uint) (*models.HistoricalPerformance, error) {
	vendor, err := s.vendors.GetByID(vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	record := models.HistoricalPerformance{
		VendorID:      vendor.ID,
		RecordedAt:    time.Now(),
		VendorMetrics: vendor.VendorMetrics,
	}
	if err := s.records.Create(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListSnapshots 查询供应商绩效快照列表
func (s *VendorPerformanceService) ListSnapshots(filter repository.PerformanceListFilter) ([]models.HistoricalPerformance, int64, error) {
	vendor, err := s.vendors.GetByID(filter.VendorID)
	if err != nil {
		return nil, 0, err
	}
	if vendor == nil {
		return nil, 0, ErrVendorNotFound
	}
	return s.records.ListByVendor(filter)
}
