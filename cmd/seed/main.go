package main

import (
	"fmt"
	"time"

	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/constants"
	"github.com/vendorlink/internal/logger"
	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/repository"
	"github.com/vendorlink/internal/service"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 组装服务链，采购单写入经由绩效观察者同步刷新供应商指标
	vendorRepo := repository.NewVendorRepository(models.DB)
	orderRepo := repository.NewPurchaseOrderRepository(models.DB)
	performanceRepo := repository.NewPerformanceRepository(models.DB)
	vendorService := service.NewVendorService(vendorRepo, orderRepo, performanceRepo)
	performanceService := service.NewVendorPerformanceService(vendorRepo, orderRepo, performanceRepo)
	orderService := service.NewPurchaseOrderService(orderRepo, vendorRepo, performanceService)

	// 添加供应商
	vendors := []service.CreateVendorInput{
		{
			Name:           "Acme Industrial Supply",
			ContactDetails: "procurement@acme-industrial.example\n+1-202-555-0114",
			Address:        "1200 Harbor Blvd, Oakland, CA 94607",
			VendorCode:     "ACME-001",
		},
		{
			Name:           "BoltWorks Fasteners",
			ContactDetails: "sales@boltworks.example\n+1-415-555-0162",
			Address:        "88 Foundry Lane, Portland, OR 97201",
			VendorCode:     "BWF-002",
		},
		{
			Name:           "Nova Electronics Co.",
			ContactDetails: "orders@nova-el.example\n+86-755-555-0199",
			Address:        "Building 7, Keji Road, Shenzhen",
			VendorCode:     "NOVA-003",
		},
		{
			Name:           "Crate & Freight Logistics",
			ContactDetails: "dispatch@cratefreight.example",
			Address:        "Dock 12, Rotterdam Port Area",
			VendorCode:     "CFL-004",
		},
	}

	for _, input := range vendors {
		existing, err := vendorRepo.GetByCode(input.VendorCode)
		if err != nil {
			stdLog.Printf("Failed to look up vendor %s: %v", input.VendorCode, err)
			continue
		}
		if existing == nil {
			if _, err := vendorService.Create(input); err != nil {
				stdLog.Printf("Failed to create vendor %s: %v", input.VendorCode, err)
			} else {
				stdLog.Printf("Created vendor: %s", input.VendorCode)
			}
			continue
		}
		existing.Name = input.Name
		existing.ContactDetails = input.ContactDetails
		existing.Address = input.Address
		if err := vendorRepo.Update(existing); err != nil {
			stdLog.Printf("Failed to update vendor %s: %v", input.VendorCode, err)
		} else {
			stdLog.Printf("Updated vendor: %s", input.VendorCode)
		}
	}

	// 获取供应商ID
	vendorIDs := map[string]uint{}
	for _, input := range vendors {
		vendor, err := vendorRepo.GetByCode(input.VendorCode)
		if err != nil || vendor == nil {
			stdLog.Printf("Failed to load vendor %s: %v", input.VendorCode, err)
			continue
		}
		vendorIDs[input.VendorCode] = vendor.ID
	}

	// 添加采购单
	// 时间相对当前时刻铺开，覆盖按时交付、逾期、待确认、已取消等状态组合
	now := time.Now()
	acmeIssue1 := now.AddDate(0, 0, -21)
	acmeAck1 := acmeIssue1.Add(2 * time.Hour)
	acmeDelivery1 := acmeAck1.AddDate(0, 0, 5)
	acmeIssue2 := now.AddDate(0, 0, -14)
	acmeAck2 := acmeIssue2.Add(6 * time.Hour)
	acmeDelivery2 := acmeIssue2.Add(1 * time.Hour)
	acmeIssue3 := now.AddDate(0, 0, -5)
	acmeAck3 := acmeIssue3.Add(30 * time.Minute)
	acmeIssue4 := now.AddDate(0, 0, -2)
	boltIssue1 := now.AddDate(0, 0, -30)
	boltAck1 := boltIssue1.Add(1 * time.Hour)
	boltDelivery1 := boltAck1.AddDate(0, 0, 3)
	boltIssue2 := now.AddDate(0, 0, -20)
	boltAck2 := boltIssue2.Add(45 * time.Minute)
	boltDelivery2 := boltAck2.AddDate(0, 0, 6)
	boltIssue3 := now.AddDate(0, 0, -10)
	boltAck3 := boltIssue3.Add(4 * time.Hour)
	novaIssue1 := now.AddDate(0, 0, -3)
	novaAck1 := novaIssue1.Add(90 * time.Minute)
	novaIssue2 := now.AddDate(0, 0, -1)

	rating45 := 4.5
	rating30 := 3.0
	rating50 := 5.0
	rating40 := 4.0
	qty120 := 120
	qty40 := 40
	qty500 := 500
	qty250 := 250
	qty60 := 60
	qty80 := 80
	qty15 := 15
	qty300 := 300
	qty90 := 90

	orders := []struct {
		VendorCode string
		Input      service.CreatePurchaseOrderInput
	}{
		{
			VendorCode: "ACME-001",
			Input: service.CreatePurchaseOrderInput{
				PONumber:           "PO-DEMO-0001",
				DeliveryDate:       &acmeDelivery1,
				Items:              `[{"sku":"STEEL-PLATE-3MM","qty":100},{"sku":"ANGLE-BAR-40","qty":20}]`,
				Quantity:           &qty120,
				Status:             constants.PurchaseOrderStatusCompleted,
				QualityRating:      &rating45,
				IssueDate:          &acmeIssue1,
				AcknowledgmentDate: &acmeAck1,
			},
		},
		{
			VendorCode: "ACME-001",
			Input: service.CreatePurchaseOrderInput{
				PONumber:           "PO-DEMO-0002",
				DeliveryDate:       &acmeDelivery2,
				Items:              `[{"sku":"COPPER-COIL-8","qty":40}]`,
				Quantity:           &qty40,
				Status:             constants.PurchaseOrderStatusCompleted,
				QualityRating:      &rating30,
				IssueDate:          &acmeIssue2,
				AcknowledgmentDate: &acmeAck2,
			},
		},
		{
			VendorCode: "ACME-001",
			Input: service.CreatePurchaseOrderInput{
				PONumber:           "PO-DEMO-0003",
				Items:              `[{"sku":"RIVET-M6","qty":500}]`,
				Quantity:           &qty500,
				Status:             constants.PurchaseOrderStatusPending,
				IssueDate:          &acmeIssue3,
				AcknowledgmentDate: &acmeAck3,
			},
		},
		{
			VendorCode: "ACME-001",
			Input: service.CreatePurchaseOrderInput{
				PONumber:  "PO-DEMO-0004",
				Items:     `[{"sku":"WELD-ROD-E71","qty":250}]`,
				Quantity:  &qty250,
				Status:    constants.PurchaseOrderStatusPending,
				IssueDate: &acmeIssue4,
			},
		},
		{
			VendorCode: "BWF-002",
			Input: service.CreatePurchaseOrderInput{
				PONumber:           "PO-DEMO-0005",
				DeliveryDate:       &boltDelivery1,
				Items:              `[{"sku":"HEX-BOLT-M8","qty":50},{"sku":"LOCK-NUT-M8","qty":10}]`,
				Quantity:           &qty60,
				Status:             constants.PurchaseOrderStatusCompleted,
				QualityRating:      &rating50,
				IssueDate:          &boltIssue1,
				AcknowledgmentDate: &boltAck1,
			},
		},
		{
			VendorCode: "BWF-002",
			Input: service.CreatePurchaseOrderInput{
				PONumber:           "PO-DEMO-0006",
				DeliveryDate:       &boltDelivery2,
				Items:              `[{"sku":"ANCHOR-M10","qty":80}]`,
				Quantity:           &qty80,
				Status:             constants.PurchaseOrderStatusCompleted,
				QualityRating:      &rating40,
				IssueDate:          &boltIssue2,
				AcknowledgmentDate: &boltAck2,
			},
		},
		{
			VendorCode: "BWF-002",
			Input: service.CreatePurchaseOrderInput{
				PONumber:           "PO-DEMO-0007",
				Items:              `[{"sku":"THREAD-ROD-M12","qty":15}]`,
				Quantity:           &qty15,
				Status:             constants.PurchaseOrderStatusCanceled,
				IssueDate:          &boltIssue3,
				AcknowledgmentDate: &boltAck3,
			},
		},
		{
			VendorCode: "NOVA-003",
			Input: service.CreatePurchaseOrderInput{
				PONumber:           "PO-DEMO-0008",
				Items:              `[{"sku":"PCB-CTRL-V2","qty":300}]`,
				Quantity:           &qty300,
				Status:             constants.PurchaseOrderStatusPending,
				IssueDate:          &novaIssue1,
				AcknowledgmentDate: &novaAck1,
			},
		},
		{
			VendorCode: "NOVA-003",
			Input: service.CreatePurchaseOrderInput{
				PONumber:  "PO-DEMO-0009",
				Items:     `[{"sku":"LCD-PANEL-7","qty":90}]`,
				Quantity:  &qty90,
				Status:    constants.PurchaseOrderStatusPending,
				IssueDate: &novaIssue2,
			},
		},
	}

	for _, plan := range orders {
		vendorID, ok := vendorIDs[plan.VendorCode]
		if !ok || vendorID == 0 {
			stdLog.Printf("Skip purchase order %s: vendor %s missing", plan.Input.PONumber, plan.VendorCode)
			continue
		}

		existing, err := orderRepo.GetByNumber(plan.Input.PONumber)
		if err != nil {
			stdLog.Printf("Failed to look up purchase order %s: %v", plan.Input.PONumber, err)
			continue
		}
		if existing != nil {
			stdLog.Printf("Purchase order already exists: %s", plan.Input.PONumber)
			continue
		}

		input := plan.Input
		input.VendorID = &vendorID
		order, err := orderService.Create(input)
		if err != nil {
			stdLog.Printf("Failed to create purchase order %s: %v", plan.Input.PONumber, err)
			continue
		}

		// 下单时间回写为下发前一天，让演示数据的时间线自洽
		if input.IssueDate != nil {
			orderDate := input.IssueDate.AddDate(0, 0, -1)
			if err := models.DB.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).
				Update("order_date", orderDate).Error; err != nil {
				stdLog.Printf("Failed to backdate purchase order %s: %v", order.PONumber, err)
			}
		}
		stdLog.Printf("Created purchase order: %s", order.PONumber)
	}

	// 为每个供应商留一条初始绩效快照，重复执行不追加
	snapshotCount := 0
	for _, input := range vendors {
		vendorID, ok := vendorIDs[input.VendorCode]
		if !ok || vendorID == 0 {
			continue
		}
		_, total, err := performanceRepo.ListByVendor(repository.PerformanceListFilter{
			VendorID: vendorID,
			Page:     1,
			PageSize: 1,
		})
		if err != nil {
			stdLog.Printf("Failed to count snapshots for %s: %v", input.VendorCode, err)
			continue
		}
		if total > 0 {
			stdLog.Printf("Snapshot already exists for vendor: %s", input.VendorCode)
			continue
		}
		if _, err := performanceService.RecordSnapshot(vendorID); err != nil {
			stdLog.Printf("Failed to record snapshot for %s: %v", input.VendorCode, err)
			continue
		}
		snapshotCount++
		stdLog.Printf("Recorded performance snapshot for vendor: %s", input.VendorCode)
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 4 Vendors (ACME-001 / BWF-002 / NOVA-003 / CFL-004)")
	fmt.Println("- 9 Purchase orders (completed / pending / canceled 混合状态)")
	fmt.Printf("- %d Performance snapshots\n", snapshotCount)
	fmt.Println("- Vendor metrics refreshed through purchase order writes")
}
