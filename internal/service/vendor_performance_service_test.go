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

func setupVendorPerformanceServiceTest(t *testing.T) (*VendorPerformanceService, repository.VendorRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:vendor_performance_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	svc := NewVendorPerformanceService(vendorRepo, orderRepo, performanceRepo)
	return svc, vendorRepo, db
}

func seedPerformanceVendor(t *testing.T, db *gorm.DB, code string) uint {
	t.Helper()
	vendor := models.Vendor{
		Name:       "绩效测试供应商 " + code,
		VendorCode: code,
	}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return vendor.ID
}

func TestVendorPerformanceGetPerformanceRecomputesOnRead(t *testing.T) {
	svc, vendorRepo, db := setupVendorPerformanceServiceTest(t)
	vendorID := seedPerformanceVendor(t, db, "PERF-READ-001")

	// 行上先写入一份过期指标，读取应覆盖它
	if err := vendorRepo.UpdateMetrics(vendorID, models.VendorMetrics{
		OnTimeDeliveryRate:  99,
		QualityRatingAvg:    99,
		AverageResponseTime: 99,
		FulfillmentRate:     99,
	}); err != nil {
		t.Fatalf("write stale metrics failed: %v", err)
	}

	issue := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	ack := issue.Add(2 * time.Hour)
	delivery := ack.Add(72 * time.Hour)
	rating := 4.0
	orders := []models.PurchaseOrder{
		{
			PONumber:           "PO-READ-1",
			VendorID:           &vendorID,
			OrderDate:          issue,
			Status:             constants.PurchaseOrderStatusCompleted,
			IssueDate:          &issue,
			AcknowledgmentDate: &ack,
			DeliveryDate:       &delivery,
			QualityRating:      &rating,
		},
		{
			PONumber:  "PO-READ-2",
			VendorID:  &vendorID,
			OrderDate: issue,
			Status:    constants.PurchaseOrderStatusPending,
		},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	vendor, err := svc.GetPerformance(vendorID)
	if err != nil {
		t.Fatalf("get performance failed: %v", err)
	}
	if vendor.OnTimeDeliveryRate != 100 {
		t.Fatalf("expected on_time_delivery_rate=100, got %v", vendor.OnTimeDeliveryRate)
	}
	if vendor.QualityRatingAvg != 4.0 {
		t.Fatalf("expected quality_rating_avg=4.0, got %v", vendor.QualityRatingAvg)
	}
	// 7200 秒 / 2 单
	if vendor.AverageResponseTime != 3600 {
		t.Fatalf("expected average_response_time=3600, got %v", vendor.AverageResponseTime)
	}
	if vendor.FulfillmentRate != 50 {
		t.Fatalf("expected fulfillment_rate=50, got %v", vendor.FulfillmentRate)
	}

	// 重算结果已落库
	var stored models.Vendor
	if err := db.First(&stored, vendorID).Error; err != nil {
		t.Fatalf("load vendor failed: %v", err)
	}
	if stored.OnTimeDeliveryRate != 100 || stored.FulfillmentRate != 50 {
		t.Fatalf("expected recomputed metrics stored, got %+v", stored.VendorMetrics)
	}
}

func TestVendorPerformanceGetPerformanceVendorMissing(t *testing.T) {
	svc, _, _ := setupVendorPerformanceServiceTest(t)

	_, err := svc.GetPerformance(7777)
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
}

func TestVendorPerformanceRecordSnapshotUsesStoredMetrics(t *testing.T) {
	svc, vendorRepo, db := setupVendorPerformanceServiceTest(t)
	vendorID := seedPerformanceVendor(t, db, "PERF-SNAP-001")

	stored := models.VendorMetrics{
		OnTimeDeliveryRate:  10,
		QualityRatingAvg:    2.5,
		AverageResponseTime: 300,
		FulfillmentRate:     40,
	}
	if err := vendorRepo.UpdateMetrics(vendorID, stored); err != nil {
		t.Fatalf("write metrics failed: %v", err)
	}

	// 行外再挂一张完成单，若快照触发重算结果会与 stored 不同
	order := models.PurchaseOrder{
		PONumber:  "PO-SNAP-1",
		VendorID:  &vendorID,
		OrderDate: time.Now(),
		Status:    constants.PurchaseOrderStatusCompleted,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	record, err := svc.RecordSnapshot(vendorID)
	if err != nil {
		t.Fatalf("record snapshot failed: %v", err)
	}
	if record.ID == 0 {
		t.Fatalf("expected persisted snapshot, got %+v", record)
	}
	if record.VendorMetrics != stored {
		t.Fatalf("expected snapshot of stored metrics %+v, got %+v", stored, record.VendorMetrics)
	}
	if record.RecordedAt.IsZero() {
		t.Fatalf("expected recorded_at set")
	}

	// 供应商行保持原值，快照不重算
	var vendor models.Vendor
	if err := db.First(&vendor, vendorID).Error; err != nil {
		t.Fatalf("load vendor failed: %v", err)
	}
	if vendor.VendorMetrics != stored {
		t.Fatalf("expected vendor metrics untouched, got %+v", vendor.VendorMetrics)
	}
}

func TestVendorPerformanceRecordSnapshotVendorMissing(t *testing.T) {
	svc, _, _ := setupVendorPerformanceServiceTest(t)

	_, err := svc.RecordSnapshot(7777)
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
}

func TestVendorPerformanceListSnapshotsOrdersDesc(t *testing.T) {
	svc, _, db := setupVendorPerformanceServiceTest(t)
	vendorID := seedPerformanceVendor(t, db, "PERF-LIST-001")

	older := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	records := []models.HistoricalPerformance{
		{VendorID: vendorID, RecordedAt: older, VendorMetrics: models.VendorMetrics{FulfillmentRate: 20}},
		{VendorID: vendorID, RecordedAt: newer, VendorMetrics: models.VendorMetrics{FulfillmentRate: 80}},
	}
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			t.Fatalf("create snapshot failed: %v", err)
		}
	}

	list, total, err := svc.ListSnapshots(repository.PerformanceListFilter{
		VendorID: vendorID,
		Page:     1,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("list snapshots failed: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("expected 2 snapshots, got total=%d len=%d", total, len(list))
	}
	if !list[0].RecordedAt.After(list[1].RecordedAt) {
		t.Fatalf("expected newest first, got %v then %v", list[0].RecordedAt, list[1].RecordedAt)
	}

	// 时间窗过滤
	list, total, err = svc.ListSnapshots(repository.PerformanceListFilter{
		VendorID:     vendorID,
		Page:         1,
		PageSize:     10,
		RecordedFrom: &newer,
	})
	if err != nil {
		t.Fatalf("list snapshots with window failed: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].FulfillmentRate != 80 {
		t.Fatalf("expected single windowed snapshot, got total=%d", total)
	}
}

func TestVendorPerformanceListSnapshotsVendorMissing(t *testing.T) {
	svc, _, _ := setupVendorPerformanceServiceTest(t)

	_, _, err := svc.ListSnapshots(repository.PerformanceListFilter{VendorID: 7777, Page: 1, PageSize: 10})
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
}

func TestVendorPerformanceObserverSkipsOrphanOrders(t *testing.T) {
	svc, _, db := setupVendorPerformanceServiceTest(t)

	if err := svc.OnPurchaseOrderWritten(nil, true); err != nil {
		t.Fatalf("expected nil error for nil order, got %v", err)
	}
	if err := svc.OnPurchaseOrderWritten(&models.PurchaseOrder{}, true); err != nil {
		t.Fatalf("expected nil error for order without vendor, got %v", err)
	}

	// 供应商已被删除的残留单据同样跳过
	gone := uint(6543)
	order := models.PurchaseOrder{
		PONumber:  "PO-ORPHAN-1",
		VendorID:  &gone,
		OrderDate: time.Now(),
		Status:    constants.PurchaseOrderStatusPending,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create orphan order failed: %v", err)
	}
	if err := svc.OnPurchaseOrderWritten(&order, false); err != nil {
		t.Fatalf("expected nil error for missing vendor, got %v", err)
	}
}
