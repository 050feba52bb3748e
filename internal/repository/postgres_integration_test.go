//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vendorlink/internal/constants"
	"github.com/vendorlink/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.HistoricalPerformance{},
		&models.PurchaseOrder{},
		&models.Vendor{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Vendor{},
		&models.PurchaseOrder{},
		&models.HistoricalPerformance{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresCaseInsensitiveSearchRepositories(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	vendorRepo := NewVendorRepository(db)
	acme := &models.Vendor{
		Name:       "Acme Industrial Supply",
		VendorCode: "PG-ACME-01",
	}
	if err := vendorRepo.Create(acme); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	bolt := &models.Vendor{
		Name:       "BoltWorks Fasteners",
		VendorCode: "PG-BOLT-02",
	}
	if err := vendorRepo.Create(bolt); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	// postgres 走 ILIKE，小写关键字同样命中名称
	vendorRows, vendorTotal, err := vendorRepo.List(VendorListFilter{
		Page:    1,
		Keyword: "acme",
	})
	if err != nil {
		t.Fatalf("vendor list search by name failed: %v", err)
	}
	if vendorTotal != 1 || len(vendorRows) != 1 {
		t.Fatalf("vendor list search by name want 1 got total=%d len=%d", vendorTotal, len(vendorRows))
	}
	if vendorRows[0].VendorCode != "PG-ACME-01" {
		t.Fatalf("vendor list search by name want PG-ACME-01 got %s", vendorRows[0].VendorCode)
	}

	vendorRows, vendorTotal, err = vendorRepo.List(VendorListFilter{
		Page:    1,
		Keyword: "pg-bolt",
	})
	if err != nil {
		t.Fatalf("vendor list search by code failed: %v", err)
	}
	if vendorTotal != 1 || len(vendorRows) != 1 {
		t.Fatalf("vendor list search by code want 1 got total=%d len=%d", vendorTotal, len(vendorRows))
	}

	orderRepo := NewPurchaseOrderRepository(db)
	vendorID := acme.ID
	order := &models.PurchaseOrder{
		PONumber:  "PO-PG-000123",
		VendorID:  &vendorID,
		OrderDate: time.Now().UTC(),
		Status:    constants.PurchaseOrderStatusPending,
	}
	if err := orderRepo.Create(order); err != nil {
		t.Fatalf("create purchase order failed: %v", err)
	}

	orderRows, orderTotal, err := orderRepo.List(PurchaseOrderListFilter{
		Page:     1,
		PONumber: "po-pg",
	})
	if err != nil {
		t.Fatalf("purchase order list search failed: %v", err)
	}
	if orderTotal != 1 || len(orderRows) != 1 {
		t.Fatalf("purchase order list search want 1 got total=%d len=%d", orderTotal, len(orderRows))
	}
	if orderRows[0].PONumber != "PO-PG-000123" {
		t.Fatalf("purchase order list search want PO-PG-000123 got %s", orderRows[0].PONumber)
	}
}

func TestPostgresPerformanceSnapshotWindow(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	vendorRepo := NewVendorRepository(db)
	vendor := &models.Vendor{
		Name:       "窗口查询供应商",
		VendorCode: "PG-WINDOW-01",
	}
	if err := vendorRepo.Create(vendor); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	performanceRepo := NewPerformanceRepository(db)
	snapshots := []models.HistoricalPerformance{
		{VendorID: vendor.ID, RecordedAt: now.Add(-48 * time.Hour), VendorMetrics: models.VendorMetrics{FulfillmentRate: 10}},
		{VendorID: vendor.ID, RecordedAt: now.Add(-24 * time.Hour), VendorMetrics: models.VendorMetrics{FulfillmentRate: 20}},
		{VendorID: vendor.ID, RecordedAt: now, VendorMetrics: models.VendorMetrics{FulfillmentRate: 30}},
	}
	for i := range snapshots {
		if err := performanceRepo.Create(&snapshots[i]); err != nil {
			t.Fatalf("create snapshot failed: %v", err)
		}
	}

	from := now.Add(-36 * time.Hour)
	records, total, err := performanceRepo.ListByVendor(PerformanceListFilter{
		Page:         1,
		VendorID:     vendor.ID,
		RecordedFrom: &from,
	})
	if err != nil {
		t.Fatalf("list snapshots with window failed: %v", err)
	}
	if total != 2 || len(records) != 2 {
		t.Fatalf("windowed snapshots want 2 got total=%d len=%d", total, len(records))
	}
	if records[0].FulfillmentRate != 30 || records[1].FulfillmentRate != 20 {
		t.Fatalf("windowed snapshots order want 30,20 got %v,%v", records[0].FulfillmentRate, records[1].FulfillmentRate)
	}

	records, total, err = performanceRepo.ListByVendor(PerformanceListFilter{
		Page:     2,
		PageSize: 2,
		VendorID: vendor.ID,
	})
	if err != nil {
		t.Fatalf("list snapshots second page failed: %v", err)
	}
	if total != 3 || len(records) != 1 {
		t.Fatalf("second page want total=3 len=1 got total=%d len=%d", total, len(records))
	}
	if records[0].FulfillmentRate != 10 {
		t.Fatalf("second page snapshot want 10 got %v", records[0].FulfillmentRate)
	}
}
