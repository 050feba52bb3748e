package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/logger"
	"github.com/vendorlink/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultSnapshotInterval  = 24 * time.Hour
	defaultReconcileInterval = time.Hour
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	snapshot config.SnapshotConfig
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, snapshot config.SnapshotConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
		snapshot: snapshot,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.snapshot.Enabled {
		go s.runSnapshotLoop(ctx)
		go s.runReconcileLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务，同时释放入队侧连接
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	if s.consumer != nil && s.consumer.QueueClient != nil {
		if err := s.consumer.QueueClient.Close(); err != nil {
			logger.Warnw("worker_queue_client_close_failed", "error", err)
		}
	}
	return nil
}

func (s *Service) snapshotInterval() time.Duration {
	if s != nil && s.snapshot.IntervalMinutes > 0 {
		return time.Duration(s.snapshot.IntervalMinutes) * time.Minute
	}
	return defaultSnapshotInterval
}

func (s *Service) reconcileInterval() time.Duration {
	if s != nil && s.snapshot.ReconcileIntervalMinutes > 0 {
		return time.Duration(s.snapshot.ReconcileIntervalMinutes) * time.Minute
	}
	return defaultReconcileInterval
}

func (s *Service) runSnapshotLoop(ctx context.Context) {
	// 仅在到达周期时触发，避免每次重启都落一份快照
	s.runEnqueueLoop(ctx, "snapshot", s.snapshotInterval(), false, func(id uint) error {
		return s.consumer.QueueClient.EnqueueVendorSnapshot(queue.VendorSnapshotPayload{VendorID: id})
	})
}

func (s *Service) runReconcileLoop(ctx context.Context) {
	// 启动即先对账一轮，兜底修正漏掉的联动刷新
	s.runEnqueueLoop(ctx, "reconcile", s.reconcileInterval(), true, func(id uint) error {
		return s.consumer.QueueClient.EnqueueVendorMetricsScan(queue.VendorMetricsScanPayload{VendorID: id})
	})
}

// runEnqueueLoop 按周期扫全量供应商并逐个入队，入队失败只告警不中断
func (s *Service) runEnqueueLoop(ctx context.Context, name string, interval time.Duration, immediate bool, enqueue func(vendorID uint) error) {
	if s == nil || s.consumer == nil || s.consumer.QueueClient == nil || s.consumer.VendorRepo == nil {
		return
	}
	sweep := func() {
		ids, err := s.consumer.VendorRepo.ListIDs()
		if err != nil {
			logger.Warnw("worker_"+name+"_list_vendors_failed", "error", err)
			return
		}
		for _, id := range ids {
			if err := enqueue(id); err != nil {
				logger.Warnw("worker_"+name+"_enqueue_failed", "vendor_id", id, "error", err)
			}
		}
	}
	if immediate {
		sweep()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
