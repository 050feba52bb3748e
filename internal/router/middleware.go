package router

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vendorlink/internal/authz"
	"github.com/vendorlink/internal/cache"
	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/http/response"
	"github.com/vendorlink/internal/logger"
	"github.com/vendorlink/internal/repository"
	"github.com/vendorlink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	requestIDKey           = "request_id"
	requestIDHeader        = "X-Request-ID"
	adminIDContextKey      = "admin_id"
	usernameContextKey     = "username"
	adminIsSuperContextKey = "admin_is_super"
)

// corsPolicy 启动时就把响应头拼好，请求期只做来源判定
type corsPolicy struct {
	origins     []string
	methods     string
	headers     string
	credentials bool
	maxAge      string
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	policy := corsPolicy{
		origins:     cfg.AllowedOrigins,
		credentials: cfg.AllowCredentials,
	}
	if len(policy.origins) == 0 {
		policy.origins = []string{"*"}
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	policy.methods = strings.Join(methods, ", ")
	policy.headers = strings.Join(headers, ", ")
	if cfg.MaxAge > 0 {
		policy.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	return policy
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)

	return func(c *gin.Context) {
		header := c.Writer.Header()
		origin := resolveAllowedOrigin(c.GetHeader("Origin"), policy.origins, policy.credentials)
		if origin != "" {
			header.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				header.Add("Vary", "Origin")
			}
		}
		if policy.credentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Allow-Headers", policy.headers)
		header.Set("Access-Control-Allow-Methods", policy.methods)
		if policy.maxAge != "" {
			header.Set("Access-Control-Max-Age", policy.maxAge)
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// resolveAllowedOrigin 通配符在携带凭证时回显来源，其余按白名单精确匹配
func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件，透传上游 ID 或现场生成
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			sugar.Errorw("request", append(fields, "errors", c.Errors.String())...)
			return
		}
		sugar.Infow("request", fields...)
	}
}

func getRequestID(c *gin.Context) string {
	if rid, ok := c.Get(requestIDKey); ok {
		if value, isString := rid.(string); isString {
			return value
		}
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	response.Unauthorized(c, msg)
	c.Abort()
}

// JWTAuthMiddleware JWT 鉴权中间件
// 先查缓存里的授权状态，未命中再回库并回填，避免每个请求都打数据库
func JWTAuthMiddleware(secretKey string, adminRepo repository.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "jwt secret missing")
			return
		}
		if adminRepo == nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		raw := c.GetHeader("Authorization")
		if raw == "" {
			abortUnauthorized(c, "authorization header missing")
			return
		}
		tokenString, isBearer := strings.CutPrefix(raw, "Bearer ")
		if !isBearer || tokenString == "" {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		claims, err := parseAdminClaims(tokenString, secretKey)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		if state, hit, cacheErr := cache.GetAdminAuthState(c.Request.Context(), claims.AdminID); cacheErr == nil && hit && state != nil {
			if !tokenUsable(claims, state.TokenVersion, state.TokenInvalidBefore) {
				abortUnauthorized(c, "token revoked")
				return
			}
			grantAdmin(c, claims, state.IsSuper)
			return
		}

		admin, err := adminRepo.GetByID(claims.AdminID)
		if err != nil || admin == nil {
			abortUnauthorized(c, "invalid token")
			return
		}
		if !tokenUsable(claims, admin.TokenVersion, unixOrZero(admin.TokenInvalidBefore)) {
			abortUnauthorized(c, "token revoked")
			return
		}
		_ = cache.SetAdminAuthState(c.Request.Context(), cache.BuildAdminAuthState(admin))
		grantAdmin(c, claims, admin.IsSuper)
	}
}

func parseAdminClaims(tokenString, secretKey string) (*service.JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &service.JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.AdminID == 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// tokenUsable 版本号一致且签发时间不早于失效水位才算有效
func tokenUsable(claims *service.JWTClaims, version uint64, invalidBeforeUnix int64) bool {
	if claims.TokenVersion != version {
		return false
	}
	if invalidBeforeUnix <= 0 {
		return true
	}
	return claims.IssuedAt != nil && claims.IssuedAt.Unix() >= invalidBeforeUnix
}

func unixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

func grantAdmin(c *gin.Context, claims *service.JWTClaims, isSuper bool) {
	c.Set(adminIDContextKey, claims.AdminID)
	c.Set(usernameContextKey, claims.Username)
	c.Set(adminIsSuperContextKey, isSuper)
	c.Next()
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件，超级管理员直接放行
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortUnauthorized(c, "unauthorized")
			return
		}
		if c.GetBool(adminIsSuperContextKey) {
			c.Next()
			return
		}

		adminID := currentAdminID(c)
		if adminID == 0 {
			abortUnauthorized(c, "unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceAdmin(adminID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"admin_id", adminID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"admin_id", adminID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentAdminID(c *gin.Context) uint {
	value, exists := c.Get(adminIDContextKey)
	if !exists {
		return 0
	}
	switch id := value.(type) {
	case uint:
		return id
	case int:
		if id > 0 {
			return uint(id)
		}
	case float64:
		if id > 0 {
			return uint(id)
		}
	}
	return 0
}
