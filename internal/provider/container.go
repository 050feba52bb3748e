package provider

import (
	"github.com/vendorlink/internal/authz"
	"github.com/vendorlink/internal/cache"
	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/logger"
	"github.com/vendorlink/internal/models"
	"github.com/vendorlink/internal/queue"
	"github.com/vendorlink/internal/repository"
	"github.com/vendorlink/internal/service"
)

// Container 依赖装配容器，handler 与 worker 共用同一份
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	VendorRepo        repository.VendorRepository
	PurchaseOrderRepo repository.PurchaseOrderRepository
	PerformanceRepo   repository.PerformanceRepository
	LoginLogRepo      repository.LoginLogRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository

	// Services
	AuthzService             *authz.Service
	AuthService              *service.AuthService
	CaptchaService           *service.CaptchaService
	VendorService            *service.VendorService
	PurchaseOrderService     *service.PurchaseOrderService
	VendorPerformanceService *service.VendorPerformanceService
	LoginLogService          *service.LoginLogService
	AuthzAuditService        *service.AuthzAuditService
}

// NewContainer 装配全部依赖，repository 在前 service 在后
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: newQueueClient(&cfg.Queue),
	}
	c.initRepositories()
	c.initServices()
	return c
}

// newQueueClient 队列未启用或初始化失败时返回 nil，调用方按未启用处理
func newQueueClient(cfg *config.QueueConfig) *queue.Client {
	if !cfg.Enabled {
		return nil
	}
	client, err := queue.NewClient(cfg)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		return nil
	}
	return client
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.VendorRepo = repository.NewVendorRepository(db)
	c.PurchaseOrderRepo = repository.NewPurchaseOrderRepository(db)
	c.PerformanceRepo = repository.NewPerformanceRepository(db)
	c.LoginLogRepo = repository.NewLoginLogRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
}

func (c *Container) initServices() {
	// 授权层起不来属于致命错误，直接终止启动
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.VendorService = service.NewVendorService(c.VendorRepo, c.PurchaseOrderRepo, c.PerformanceRepo)
	// 绩效服务先于采购单服务构建，作为采购单写入联动的观察者
	c.VendorPerformanceService = service.NewVendorPerformanceService(c.VendorRepo, c.PurchaseOrderRepo, c.PerformanceRepo)
	c.PurchaseOrderService = service.NewPurchaseOrderService(c.PurchaseOrderRepo, c.VendorRepo, c.VendorPerformanceService)
	c.LoginLogService = service.NewLoginLogService(c.LoginLogRepo)
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)
}
