package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vendorlink/internal/logger"
	"github.com/vendorlink/internal/provider"
	"github.com/vendorlink/internal/queue"
	"github.com/vendorlink/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者，挂在容器上复用服务与仓库
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register 把绩效相关任务挂到 mux 上
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskVendorSnapshot, c.handleVendorSnapshot)
	mux.HandleFunc(queue.TaskVendorMetricsScan, c.handleVendorMetricsScan)
}

func (c *Consumer) handleVendorSnapshot(_ context.Context, task *asynq.Task) error {
	return c.runVendorTask("vendor_snapshot", task, func(vendorID uint) error {
		_, err := c.VendorPerformanceService.RecordSnapshot(vendorID)
		return err
	})
}

func (c *Consumer) handleVendorMetricsScan(_ context.Context, task *asynq.Task) error {
	return c.runVendorTask("vendor_metrics_scan", task, func(vendorID uint) error {
		_, err := c.VendorPerformanceService.RefreshVendorMetrics(vendorID)
		return err
	})
}

// runVendorTask 两类绩效任务共用的解包与兜底流程，供应商已不存在时视为任务完成
func (c *Consumer) runVendorTask(name string, task *asynq.Task, fn func(vendorID uint) error) error {
	if c == nil || task == nil {
		logger.Debugw("worker_"+name+"_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload struct {
		VendorID uint `json:"vendor_id"`
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_"+name+"_unmarshal_failed", "error", err)
		return err
	}
	if payload.VendorID == 0 {
		logger.Debugw("worker_"+name+"_skip_invalid_payload", "vendor_id", payload.VendorID)
		return nil
	}
	if c.VendorPerformanceService == nil {
		logger.Warnw("worker_"+name+"_skip_service_nil", "vendor_id", payload.VendorID)
		return nil
	}
	if err := fn(payload.VendorID); err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			logger.Debugw("worker_"+name+"_skip_vendor_not_found", "vendor_id", payload.VendorID)
			return nil
		}
		logger.Warnw("worker_"+name+"_failed", "vendor_id", payload.VendorID, "error", err)
		return err
	}
	return nil
}
