package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fisker/crm-backend/internal/api/router"
	"github.com/fisker/crm-backend/pkg/config"
	"github.com/fisker/crm-backend/pkg/database"
	"github.com/fisker/crm-backend/pkg/logger"
	pkgredis "github.com/fisker/crm-backend/pkg/redis"
	"github.com/gin-gonic/gin"
)

// NewRouter 注册全部路由
func NewRouter(cfg *config.Config, handlers *Handlers) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	return router.Setup(
		handlers.Account,
		handlers.Contact,
		handlers.Opportunity,
		handlers.Search,
		handlers.Dashboard,
		handlers.FieldDefinition,
		handlers.PageLayout,
		handlers.Form,
		handlers.Health,
		handlers.TestData,
		cfg.Server.AllowedOrigins,
	)
}

// StartServer 启动 HTTP 服务器，收到 SIGINT/SIGTERM 后优雅退出
func StartServer(cfg *config.Config, handlers *Handlers) {
	r := NewRouter(cfg, handlers)

	addr := fmt.Sprintf(":%d", cfg.Server.APIPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	printStartupBanner(cfg)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Infof("Shutting down gracefully...")

	// 正在执行的测试数据生成可能耗时较长，超时后强制退出，已提交的批次保留
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// 1. Shutdown HTTP server
	logger.Infof("  → Stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("  HTTP server shutdown error: %v", err)
	} else {
		logger.Infof("  ✓ HTTP server stopped")
	}

	// 2. Close database
	logger.Infof("  → Closing database...")
	if err := database.Close(); err != nil {
		logger.Warnf("  Database close error: %v", err)
	} else {
		logger.Infof("  ✓ Database closed")
	}

	// 3. Close Redis if enabled
	if pkgredis.IsEnabled() {
		logger.Infof("  → Closing Redis...")
		pkgredis.Close()
		logger.Infof("  ✓ Redis closed")
	}

	logger.Infof("Shutdown complete")
	logger.Sync()
}

// printStartupBanner 打印启动横幅
func printStartupBanner(cfg *config.Config) {
	logger.Infof("")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("CRM API Server")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("   • API      http://localhost:%d/api", cfg.Server.APIPort)
	logger.Infof("   • Health   http://localhost:%d/health", cfg.Server.APIPort)
	logger.Infof("   • Metrics  http://localhost:%d/metrics", cfg.Server.APIPort)
	logger.Infof("   • Database %s (%s:%d/%s)", cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	if pkgredis.IsEnabled() {
		logger.Infof("   • Redis    %s:%d (metadata cache TTL %ds)", cfg.Redis.Host, cfg.Redis.Port, cfg.MetadataCache.TTL)
	}
	if cfg.TestData.Enabled() {
		logger.Infof("   • Test data generation enabled")
	}
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("")
}
