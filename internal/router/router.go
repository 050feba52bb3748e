package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vendorlink/internal/authz"
	"github.com/vendorlink/internal/cache"
	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/constants"
	adminhandlers "github.com/vendorlink/internal/http/handlers/admin"
	publichandlers "github.com/vendorlink/internal/http/handlers/public"
	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/logger"
	"github.com/vendorlink/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := cache.Client()
	loginRule, actionRule := buildRateLimitRules(cfg)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 开放接口（供应商侧回执与绩效读取，无需鉴权）
		apiV1.GET("/vendors/:id/performance", publicHandler.GetVendorPerformance)
		apiV1.POST("/vendors/:id/record_historical_performance", RateLimitMiddleware(redisClient, actionRule, KeyByIP), publicHandler.RecordVendorPerformance)
		apiV1.POST("/purchase_orders/:id/acknowledge", RateLimitMiddleware(redisClient, actionRule, KeyByIP), publicHandler.AcknowledgePurchaseOrder)

		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)
			auth.GET("/captcha", publicHandler.GetImageCaptcha)
		}

		// 管理端接口（需鉴权）
		authorized := apiV1.Group("")
		authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
		{
			authorized.GET("/auth/profile", adminHandler.GetAdminProfile)
			authorized.POST("/auth/password", adminHandler.UpdateAdminPassword)

			// 供应商管理
			authorized.GET("/vendors", adminHandler.GetAdminVendors)
			authorized.POST("/vendors", adminHandler.CreateVendor)
			authorized.GET("/vendors/:id", adminHandler.GetAdminVendor)
			authorized.PUT("/vendors/:id", adminHandler.UpdateVendor)
			authorized.PATCH("/vendors/:id", adminHandler.UpdateVendor)
			authorized.DELETE("/vendors/:id", adminHandler.DeleteVendor)
			authorized.GET("/vendors/:id/performance/history", adminHandler.GetVendorPerformanceHistory)

			// 采购单管理
			authorized.GET("/purchase_orders", adminHandler.GetAdminPurchaseOrders)
			authorized.POST("/purchase_orders", adminHandler.CreatePurchaseOrder)
			authorized.GET("/purchase_orders/:id", adminHandler.GetAdminPurchaseOrder)
			authorized.PUT("/purchase_orders/:id", adminHandler.UpdatePurchaseOrder)
			authorized.PATCH("/purchase_orders/:id", adminHandler.UpdatePurchaseOrder)
			authorized.DELETE("/purchase_orders/:id", adminHandler.DeletePurchaseOrder)

			// 登录日志
			authorized.GET("/login_logs", adminHandler.GetLoginLogs)

			// 权限管理
			authorized.GET("/admins", adminHandler.ListAuthzAdmins)
			authorized.POST("/admins", adminHandler.CreateAuthzAdmin)
			authorized.PUT("/admins/:id", adminHandler.UpdateAuthzAdmin)
			authorized.DELETE("/admins/:id", adminHandler.DeleteAuthzAdmin)
			authorized.GET("/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
			authorized.PUT("/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
			authorized.GET("/authz/audit_logs", adminHandler.ListAuthzAuditLogs)
			authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

// buildRateLimitRules 登录口与供应商回执口各用一套限流参数
func buildRateLimitRules(cfg *config.Config) (login RateLimitRule, action RateLimitRule) {
	prefix := strings.TrimSpace(cfg.Redis.Prefix)
	if prefix == "" {
		prefix = constants.RedisPrefixDefault
	}
	login = RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", prefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts, retry in %d seconds",
	}
	action = RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:action", prefix),
		WindowSeconds: cfg.Security.ActionRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ActionRateLimit.MaxRequests,
		Message:       "too many requests, retry in %d seconds",
	}
	return login, action
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 扫描已注册路由，汇出可授权的权限点清单
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	byPermission := make(map[string]adminPermissionCatalogItem)
	for _, route := range engine.Routes() {
		method := strings.ToUpper(strings.TrimSpace(route.Method))
		if !catalogEligible(method, route.Path) {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		permission := method + ":" + object
		byPermission[permission] = adminPermissionCatalogItem{
			Module:     permissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		}
	}

	items := make([]adminPermissionCatalogItem, 0, len(byPermission))
	for _, item := range byPermission {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if a.Object != b.Object {
			return a.Object < b.Object
		}
		return a.Method < b.Method
	})
	return items
}

// catalogEligible 只有走 RBAC 的管理端路由才进入权限目录
func catalogEligible(method, path string) bool {
	switch method {
	case "", "OPTIONS", "HEAD":
		return false
	}
	if !strings.HasPrefix(path, "/api/v1/") {
		return false
	}
	switch path {
	case "/api/v1/auth/login",
		"/api/v1/auth/captcha",
		"/api/v1/vendors/:id/performance",
		"/api/v1/vendors/:id/record_historical_performance",
		"/api/v1/purchase_orders/:id/acknowledge":
		return false
	}
	return true
}

func permissionModule(object string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if trimmed == "" {
		return "system"
	}
	if idx := strings.IndexByte(trimmed, '/'); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}
