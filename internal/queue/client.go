package queue

import (
	"fmt"
	"strings"

	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 默认队列名称
const DefaultQueue = constants.QueueDefault

// Client 任务入队客户端
// 队列未启用时所有入队调用降级为空操作
type Client struct {
	client  *asynq.Client
	enabled bool
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{
		client:  asynq.NewClient(redisOptFromConfig(cfg)),
		enabled: true,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) enqueue(task *asynq.Task, opts []asynq.Option) error {
	_, err := c.client.Enqueue(task, append([]asynq.Option{asynq.Queue(DefaultQueue)}, opts...)...)
	return err
}

// EnqueueVendorSnapshot 推送绩效快照任务
func (c *Client) EnqueueVendorSnapshot(payload VendorSnapshotPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewVendorSnapshotTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, opts)
}

// EnqueueVendorMetricsScan 推送绩效对账任务
func (c *Client) EnqueueVendorMetricsScan(payload VendorMetricsScanPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewVendorMetricsScanTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, opts)
}

// BuildServerConfig 生成队列服务端配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOptFromConfig(cfg), serverCfg
}

func redisOptFromConfig(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
