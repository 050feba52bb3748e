package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vendorlink/internal/constants"
	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupVendorServiceTest(t *testing.T) (*VendorService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:vendor_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Vendor{},
		&models.PurchaseOrder{},
		&models.HistoricalPerformance{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	vendorRepo := repository.NewVendorRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	performanceRepo := repository.NewPerformanceRepository(db)
	return NewVendorService(vendorRepo, orderRepo, performanceRepo), db
}

func TestVendorCreateAndDuplicateCode(t *testing.T) {
	svc, _ := setupVendorServiceTest(t)

	vendor, err := svc.Create(CreateVendorInput{
		Name:       "  Acme Industrial  ",
		VendorCode: " ACME-100 ",
	})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	if vendor.Name != "Acme Industrial" {
		t.Fatalf("expected trimmed name, got %q", vendor.Name)
	}
	if vendor.VendorCode != "ACME-100" {
		t.Fatalf("expected trimmed code, got %q", vendor.VendorCode)
	}
	if vendor.OnTimeDeliveryRate != 0 || vendor.QualityRatingAvg != 0 ||
		vendor.AverageResponseTime != 0 || vendor.FulfillmentRate != 0 {
		t.Fatalf("expected zero metrics on create, got %+v", vendor.VendorMetrics)
	}

	_, err = svc.Create(CreateVendorInput{
		Name:       "Acme Clone",
		VendorCode: "ACME-100",
	})
	if !errors.Is(err, ErrVendorCodeExists) {
		t.Fatalf("expected ErrVendorCodeExists, got %v", err)
	}
}

func TestVendorGetMissing(t *testing.T) {
	svc, _ := setupVendorServiceTest(t)

	_, err := svc.Get(4040)
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
}

func TestVendorUpdateCodeConflict(t *testing.T) {
	svc, _ := setupVendorServiceTest(t)

	first, err := svc.Create(CreateVendorInput{Name: "First", VendorCode: "VND-001"})
	if err != nil {
		t.Fatalf("create first vendor failed: %v", err)
	}
	second, err := svc.Create(CreateVendorInput{Name: "Second", VendorCode: "VND-002"})
	if err != nil {
		t.Fatalf("create second vendor failed: %v", err)
	}

	conflict := first.VendorCode
	_, err = svc.Update(second.ID, UpdateVendorInput{VendorCode: &conflict})
	if !errors.Is(err, ErrVendorCodeExists) {
		t.Fatalf("expected ErrVendorCodeExists, got %v", err)
	}

	// 提交自身原编码不算冲突
	same := second.VendorCode
	name := "Second Renamed"
	updated, err := svc.Update(second.ID, UpdateVendorInput{VendorCode: &same, Name: &name})
	if err != nil {
		t.Fatalf("update with own code failed: %v", err)
	}
	if updated.Name != "Second Renamed" {
		t.Fatalf("expected renamed vendor, got %q", updated.Name)
	}
}

func TestVendorUpdatePartialKeepsOtherFields(t *testing.T) {
	svc, _ := setupVendorServiceTest(t)

	vendor, err := svc.Create(CreateVendorInput{
		Name:           "Partial Vendor",
		ContactDetails: "ops@partial.example",
		Address:        "1 Old Street",
		VendorCode:     "PART-001",
	})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	address := "2 New Street"
	updated, err := svc.Update(vendor.ID, UpdateVendorInput{Address: &address})
	if err != nil {
		t.Fatalf("update vendor failed: %v", err)
	}
	if updated.Address != "2 New Street" {
		t.Fatalf("expected new address, got %q", updated.Address)
	}
	if updated.Name != "Partial Vendor" || updated.ContactDetails != "ops@partial.example" {
		t.Fatalf("expected untouched fields kept, got %+v", updated)
	}
}

func TestVendorDeleteCascades(t *testing.T) {
	svc, db := setupVendorServiceTest(t)

	vendor, err := svc.Create(CreateVendorInput{Name: "Doomed", VendorCode: "DOOM-001"})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	orders := []models.PurchaseOrder{
		{PONumber: "PO-DOOM-1", VendorID: &vendor.ID, OrderDate: time.Now(), Status: constants.PurchaseOrderStatusPending},
		{PONumber: "PO-DOOM-2", VendorID: &vendor.ID, OrderDate: time.Now(), Status: constants.PurchaseOrderStatusCompleted},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}
	record := models.HistoricalPerformance{VendorID: vendor.ID, RecordedAt: time.Now()}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("create snapshot failed: %v", err)
	}

	if err := svc.Delete(vendor.ID); err != nil {
		t.Fatalf("delete vendor failed: %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.PurchaseOrder{}).Where("vendor_id = ?", vendor.ID).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected cascaded order delete, got %d left", orderCount)
	}
	var recordCount int64
	if err := db.Model(&models.HistoricalPerformance{}).Where("vendor_id = ?", vendor.ID).Count(&recordCount).Error; err != nil {
		t.Fatalf("count snapshots failed: %v", err)
	}
	if recordCount != 0 {
		t.Fatalf("expected cascaded snapshot delete, got %d left", recordCount)
	}

	_, err = svc.Get(vendor.ID)
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound after delete, got %v", err)
	}
}

func TestVendorListKeyword(t *testing.T) {
	svc, _ := setupVendorServiceTest(t)

	if _, err := svc.Create(CreateVendorInput{Name: "Gamma Metals", VendorCode: "GM-001"}); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	if _, err := svc.Create(CreateVendorInput{Name: "Delta Plastics", VendorCode: "DP-002"}); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	vendors, total, err := svc.List(repository.VendorListFilter{Page: 1, PageSize: 10, Keyword: "Gamma"})
	if err != nil {
		t.Fatalf("list vendors failed: %v", err)
	}
	if total != 1 || len(vendors) != 1 {
		t.Fatalf("expected single keyword match, got total=%d len=%d", total, len(vendors))
	}
	if vendors[0].VendorCode != "GM-001" {
		t.Fatalf("expected GM-001, got %s", vendors[0].VendorCode)
	}

	// 编码同样可检索
	vendors, total, err = svc.List(repository.VendorListFilter{Page: 1, PageSize: 10, Keyword: "DP-00"})
	if err != nil {
		t.Fatalf("list vendors by code failed: %v", err)
	}
	if total != 1 || len(vendors) != 1 || vendors[0].Name != "Delta Plastics" {
		t.Fatalf("expected Delta Plastics by code, got total=%d", total)
	}
}
