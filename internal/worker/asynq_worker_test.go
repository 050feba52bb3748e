package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/provider"
	"github.com/vendorlink/internal/queue"
	"github.com/vendorlink/internal/repository"
	"github.com/vendorlink/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Vendor{}, &models.PurchaseOrder{}, &models.HistoricalPerformance{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	vendorRepo := repository.NewVendorRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	perfRepo := repository.NewPerformanceRepository(db)
	container := &provider.Container{
		VendorRepo:               vendorRepo,
		PurchaseOrderRepo:        orderRepo,
		PerformanceRepo:          perfRepo,
		VendorPerformanceService: service.NewVendorPerformanceService(vendorRepo, orderRepo, perfRepo),
	}
	return NewConsumer(container), db
}

func TestHandleVendorSnapshotRecordsStoredMetrics(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	vendor := &models.Vendor{
		Name:       "雷克五金",
		VendorCode: "V-LK-001",
		VendorMetrics: models.VendorMetrics{
			OnTimeDeliveryRate:  80,
			QualityRatingAvg:    4.5,
			AverageResponseTime: 120,
			FulfillmentRate:     75,
		},
	}
	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	task, err := queue.NewVendorSnapshotTask(queue.VendorSnapshotPayload{VendorID: vendor.ID})
	if err != nil {
		t.Fatalf("build snapshot task failed: %v", err)
	}
	if err := consumer.handleVendorSnapshot(context.Background(), task); err != nil {
		t.Fatalf("handle snapshot failed: %v", err)
	}

	var snapshots []models.HistoricalPerformance
	if err := db.Where("vendor_id = ?", vendor.ID).Find(&snapshots).Error; err != nil {
		t.Fatalf("load snapshots failed: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("snapshot count want 1 got %d", len(snapshots))
	}
	got := snapshots[0]
	if got.OnTimeDeliveryRate != 80 || got.QualityRatingAvg != 4.5 || got.AverageResponseTime != 120 || got.FulfillmentRate != 75 {
		t.Fatalf("snapshot should keep stored metrics without recompute, got %+v", got.VendorMetrics)
	}
}

func TestHandleVendorSnapshotSkipUnknownVendor(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	task, err := queue.NewVendorSnapshotTask(queue.VendorSnapshotPayload{VendorID: 9999})
	if err != nil {
		t.Fatalf("build snapshot task failed: %v", err)
	}
	if err := consumer.handleVendorSnapshot(context.Background(), task); err != nil {
		t.Fatalf("unknown vendor should be skipped, got %v", err)
	}

	var count int64
	if err := db.Model(&models.HistoricalPerformance{}).Count(&count).Error; err != nil {
		t.Fatalf("count snapshots failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("snapshot count want 0 got %d", count)
	}
}

func TestHandleVendorSnapshotBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)
	task := asynq.NewTask(queue.TaskVendorSnapshot, []byte("{not json"))
	if err := consumer.handleVendorSnapshot(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestHandleVendorMetricsScanRefreshesMetrics(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	vendor := &models.Vendor{Name: "雷克五金", VendorCode: "V-LK-002"}
	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	issued := time.Now().Add(-48 * time.Hour)
	acked := issued.Add(2 * time.Hour)
	delivered := acked.Add(24 * time.Hour)
	order := &models.PurchaseOrder{
		PONumber:           "PO-900001",
		VendorID:           &vendor.ID,
		OrderDate:          issued,
		IssueDate:          &issued,
		AcknowledgmentDate: &acked,
		DeliveryDate:       &delivered,
		Status:             "completed",
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	task, err := queue.NewVendorMetricsScanTask(queue.VendorMetricsScanPayload{VendorID: vendor.ID})
	if err != nil {
		t.Fatalf("build scan task failed: %v", err)
	}
	if err := consumer.handleVendorMetricsScan(context.Background(), task); err != nil {
		t.Fatalf("handle scan failed: %v", err)
	}

	var got models.Vendor
	if err := db.First(&got, vendor.ID).Error; err != nil {
		t.Fatalf("load vendor failed: %v", err)
	}
	if got.OnTimeDeliveryRate != 100 {
		t.Fatalf("on time rate want 100 got %v", got.OnTimeDeliveryRate)
	}
	if got.FulfillmentRate != 100 {
		t.Fatalf("fulfillment rate want 100 got %v", got.FulfillmentRate)
	}
	if got.AverageResponseTime != 7200 {
		t.Fatalf("average response want 7200 got %v", got.AverageResponseTime)
	}
}

func TestWorkerIntervalDefaults(t *testing.T) {
	svc := &Service{}
	if got := svc.snapshotInterval(); got != defaultSnapshotInterval {
		t.Fatalf("snapshot interval want %v got %v", defaultSnapshotInterval, got)
	}
	if got := svc.reconcileInterval(); got != defaultReconcileInterval {
		t.Fatalf("reconcile interval want %v got %v", defaultReconcileInterval, got)
	}

	svc = &Service{snapshot: config.SnapshotConfig{IntervalMinutes: 30, ReconcileIntervalMinutes: 10}}
	if got := svc.snapshotInterval(); got != 30*time.Minute {
		t.Fatalf("snapshot interval want 30m got %v", got)
	}
	if got := svc.reconcileInterval(); got != 10*time.Minute {
		t.Fatalf("reconcile interval want 10m got %v", got)
	}
}
