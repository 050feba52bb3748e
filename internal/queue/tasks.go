package queue

import (
	"encoding/json"

	"github.com/vendorlink/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskVendorSnapshot 供应商绩效快照任务
	TaskVendorSnapshot = constants.TaskVendorSnapshot
	// TaskVendorMetricsScan 供应商绩效对账任务
	TaskVendorMetricsScan = constants.TaskVendorMetricsScan
)

// VendorSnapshotPayload 绩效快照任务载荷
type VendorSnapshotPayload struct {
	VendorID uint `json:"vendor_id"`
}

// VendorMetricsScanPayload 绩效对账任务载荷
type VendorMetricsScanPayload struct {
	VendorID uint `json:"vendor_id"`
}

// NewVendorSnapshotTask 创建绩效快照任务
func NewVendorSnapshotTask(payload VendorSnapshotPayload) (*asynq.Task, error) {
	return marshalTask(TaskVendorSnapshot, payload)
}

// NewVendorMetricsScanTask 创建绩效对账任务
func NewVendorMetricsScanTask(payload VendorMetricsScanPayload) (*asynq.Task, error) {
	return marshalTask(TaskVendorMetricsScan, payload)
}

func marshalTask(typename string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, body), nil
}
