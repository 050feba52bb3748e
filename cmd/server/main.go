package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/vendorlink/internal/app"
	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/logger"
	"github.com/vendorlink/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiBlue      = "\033[34m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

var bannerLines = []string{
	ansiBrightMag + "╔══════════════════════════════════════════════════════════════════════╗" + ansiReset,
	ansiBrightMag + "║                      🚀 VendorLink API 启动中                        ║" + ansiReset,
	ansiBrightMag + "╚══════════════════════════════════════════════════════════════════════╝" + ansiReset,
	ansiCyan + "██╗   ██╗███████╗███╗   ██╗██████╗  ██████╗ ██████╗      ██╗     ██╗███╗   ██╗██╗  ██╗" + ansiReset,
	ansiCyan + "██║   ██║██╔════╝████╗  ██║██╔══██╗██╔═══██╗██╔══██╗     ██║     ██║████╗  ██║██║ ██╔╝" + ansiReset,
	ansiCyan + "██║   ██║█████╗  ██╔██╗ ██║██║  ██║██║   ██║██████╔╝     ██║     ██║██╔██╗ ██║█████╔╝ " + ansiReset,
	ansiCyan + "╚██╗ ██╔╝██╔══╝  ██║╚██╗██║██║  ██║██║   ██║██╔══██╗     ██║     ██║██║╚██╗██║██╔═██╗ " + ansiReset,
	ansiCyan + " ╚████╔╝ ███████╗██║ ╚████║██████╔╝╚██████╔╝██║  ██║     ███████╗██║██║ ╚████║██║  ██╗" + ansiReset,
	ansiCyan + "  ╚═══╝  ╚══════╝╚═╝  ╚═══╝╚═════╝  ╚═════╝ ╚═╝  ╚═╝     ╚══════╝╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝" + ansiReset,
	ansiGreen + ansiBold + "Open Source Repositories" + ansiReset,
	ansiBlue + "• Root:    https://github.com/vendorlink" + ansiReset,
	ansiBlue + "• API:     https://github.com/vendorlink/vendorlink" + ansiReset,
	ansiBlue + "• Admin:   https://github.com/vendorlink/admin" + ansiReset,
	ansiBlue + "• Docs:    https://github.com/vendorlink/document" + ansiReset,
	ansiDim + "--------------------------------------------------------------" + ansiReset,
}

// 默认值或过短的 JWT 密钥在生产模式直接拒绝启动
var weakSecretMarkers = []string{"change-me", "change-in-production", "your-secret-key"}

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	for _, line := range bannerLines {
		fmt.Println(line)
	}

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	releaseMode := cfg.Server.Mode == "release"
	checkJWTSecret(cfg, releaseMode, stdLog)
	prepareDatabase(cfg, releaseMode, stdLog)

	if releaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func checkJWTSecret(cfg *config.Config, releaseMode bool, stdLog *log.Logger) {
	if !isWeakSecret(cfg.JWT.SecretKey) {
		return
	}
	if releaseMode {
		stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
	}
	stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
}

// prepareDatabase 建连、迁移并确保默认管理员可用，任何一步失败都无法继续
func prepareDatabase(cfg *config.Config, releaseMode bool, stdLog *log.Logger) {
	pool := models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, pool); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	username := os.Getenv("VENDORLINK_ADMIN_USERNAME")
	password := os.Getenv("VENDORLINK_ADMIN_PASSWORD")
	if releaseMode && password == "" {
		stdLog.Printf("警告: 未设置 VENDORLINK_ADMIN_PASSWORD，已跳过默认管理员初始化")
		return
	}
	if err := models.InitDefaultAdmin(username, password); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	for _, marker := range weakSecretMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
