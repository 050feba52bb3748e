package service

import (
	"testing"
	"time"

	"github.com/vendorlink/internal/constants"
	"github.com/vendorlink/internal/models"
)

func TestCalculateVendorMetricsNoOrders(t *testing.T) {
	prev := models.VendorMetrics{QualityRatingAvg: 4.2}
	got := CalculateVendorMetrics(prev, nil)

	if got.OnTimeDeliveryRate != 0 {
		t.Fatalf("expected on_time_delivery_rate=0, got %v", got.OnTimeDeliveryRate)
	}
	if got.QualityRatingAvg != 4.2 {
		t.Fatalf("expected quality_rating_avg to keep previous 4.2, got %v", got.QualityRatingAvg)
	}
	if got.AverageResponseTime != 0 {
		t.Fatalf("expected average_response_time=0, got %v", got.AverageResponseTime)
	}
	if got.FulfillmentRate != 0 {
		t.Fatalf("expected fulfillment_rate=0, got %v", got.FulfillmentRate)
	}
}

func TestCalculateVendorMetricsMixedStatuses(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	issue1 := base
	ack1 := base.Add(2 * time.Hour)
	delivery1 := ack1.Add(120 * time.Hour)
	rating1 := 4.5

	issue2 := base.Add(24 * time.Hour)
	ack2 := issue2.Add(6 * time.Hour)
	delivery2 := issue2.Add(1 * time.Hour)
	rating2 := 3.0

	issue3 := base.Add(48 * time.Hour)
	ack3 := issue3.Add(30 * time.Minute)

	issue4 := base.Add(72 * time.Hour)

	orders := []models.PurchaseOrder{
		{
			Status:             constants.PurchaseOrderStatusCompleted,
			IssueDate:          &issue1,
			AcknowledgmentDate: &ack1,
			DeliveryDate:       &delivery1,
			QualityRating:      &rating1,
		},
		{
			Status:             constants.PurchaseOrderStatusCompleted,
			IssueDate:          &issue2,
			AcknowledgmentDate: &ack2,
			DeliveryDate:       &delivery2,
			QualityRating:      &rating2,
		},
		{
			Status:             constants.PurchaseOrderStatusPending,
			IssueDate:          &issue3,
			AcknowledgmentDate: &ack3,
		},
		{
			Status:    constants.PurchaseOrderStatusCanceled,
			IssueDate: &issue4,
		},
	}

	got := CalculateVendorMetrics(models.VendorMetrics{}, orders)

	if got.OnTimeDeliveryRate != 50 {
		t.Fatalf("expected on_time_delivery_rate=50, got %v", got.OnTimeDeliveryRate)
	}
	if got.QualityRatingAvg != 3.75 {
		t.Fatalf("expected quality_rating_avg=3.75, got %v", got.QualityRatingAvg)
	}
	// (7200 + 21600 + 1800) / 4
	if got.AverageResponseTime != 7650 {
		t.Fatalf("expected average_response_time=7650, got %v", got.AverageResponseTime)
	}
	if got.FulfillmentRate != 50 {
		t.Fatalf("expected fulfillment_rate=50, got %v", got.FulfillmentRate)
	}
}

func TestCalculateVendorMetricsQualityKeepsPreviousWithoutRatings(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	issue := base
	ack := base.Add(1 * time.Hour)
	delivery := ack.Add(48 * time.Hour)

	orders := []models.PurchaseOrder{
		{
			Status:             constants.PurchaseOrderStatusCompleted,
			IssueDate:          &issue,
			AcknowledgmentDate: &ack,
			DeliveryDate:       &delivery,
		},
	}

	got := CalculateVendorMetrics(models.VendorMetrics{QualityRatingAvg: 3.9}, orders)

	if got.QualityRatingAvg != 3.9 {
		t.Fatalf("expected quality_rating_avg to keep previous 3.9, got %v", got.QualityRatingAvg)
	}
	if got.OnTimeDeliveryRate != 100 {
		t.Fatalf("expected on_time_delivery_rate=100, got %v", got.OnTimeDeliveryRate)
	}
	if got.FulfillmentRate != 100 {
		t.Fatalf("expected fulfillment_rate=100, got %v", got.FulfillmentRate)
	}
}

func TestCalculateVendorMetricsResponseCountsAllOrders(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	issue1 := base
	ack1 := base.Add(90 * time.Second)
	issue2 := base.Add(24 * time.Hour)

	orders := []models.PurchaseOrder{
		{
			Status:             constants.PurchaseOrderStatusPending,
			IssueDate:          &issue1,
			AcknowledgmentDate: &ack1,
		},
		{
			Status:    constants.PurchaseOrderStatusPending,
			IssueDate: &issue2,
		},
	}

	got := CalculateVendorMetrics(models.VendorMetrics{}, orders)

	// 90 秒 / 2 单，未确认单也计入分母
	if got.AverageResponseTime != 45 {
		t.Fatalf("expected average_response_time=45, got %v", got.AverageResponseTime)
	}
}

func TestCalculateVendorMetricsResponseRoundedToTwoDecimals(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	issue1 := base
	ack1 := base.Add(100 * time.Second)
	issue2 := base.Add(1 * time.Hour)
	issue3 := base.Add(2 * time.Hour)

	orders := []models.PurchaseOrder{
		{
			Status:             constants.PurchaseOrderStatusPending,
			IssueDate:          &issue1,
			AcknowledgmentDate: &ack1,
		},
		{
			Status:    constants.PurchaseOrderStatusPending,
			IssueDate: &issue2,
		},
		{
			Status:    constants.PurchaseOrderStatusPending,
			IssueDate: &issue3,
		},
	}

	got := CalculateVendorMetrics(models.VendorMetrics{}, orders)

	// 100 / 3 = 33.333... 保留两位
	if got.AverageResponseTime != 33.33 {
		t.Fatalf("expected average_response_time=33.33, got %v", got.AverageResponseTime)
	}
}

func TestCalculateVendorMetricsNilDatesNotOnTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	delivery := base.Add(24 * time.Hour)
	rating := 5.0

	orders := []models.PurchaseOrder{
		{
			Status:        constants.PurchaseOrderStatusCompleted,
			DeliveryDate:  &delivery,
			QualityRating: &rating,
		},
	}

	got := CalculateVendorMetrics(models.VendorMetrics{}, orders)

	if got.OnTimeDeliveryRate != 0 {
		t.Fatalf("expected on_time_delivery_rate=0 when acknowledgment missing, got %v", got.OnTimeDeliveryRate)
	}
	if got.FulfillmentRate != 100 {
		t.Fatalf("expected fulfillment_rate=100, got %v", got.FulfillmentRate)
	}
	if got.QualityRatingAvg != 5.0 {
		t.Fatalf("expected quality_rating_avg=5.0, got %v", got.QualityRatingAvg)
	}
	if got.AverageResponseTime != 0 {
		t.Fatalf("expected average_response_time=0, got %v", got.AverageResponseTime)
	}
}
