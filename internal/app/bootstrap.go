package app

import (
	"fmt"
	"log"
	"os"

	"github.com/fisker/crm-backend/pkg/config"
	"github.com/fisker/crm-backend/pkg/database"
	"github.com/fisker/crm-backend/pkg/logger"
	pkgredis "github.com/fisker/crm-backend/pkg/redis"
)

// DefaultConfigPath 未指定时读取的配置文件
const DefaultConfigPath = "config/config.yaml"

// ResolveConfigPath 参数优先，其次环境变量 CRM_CONFIG
func ResolveConfigPath(cfgPath string) string {
	if cfgPath != "" {
		return cfgPath
	}
	if env := os.Getenv("CRM_CONFIG"); env != "" {
		return env
	}
	return DefaultConfigPath
}

// Bootstrap 初始化基础设施（logger, database, redis）
func Bootstrap(cfgPath string) (*config.Config, error) {
	cfg, err := config.Load(ResolveConfigPath(cfgPath))
	if err != nil {
		return nil, err
	}

	// Initialize logger
	if err := logger.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis (optional: metadata cache and test data lock)
	if err := pkgredis.Init(&cfg.Redis); err != nil {
		logger.Warnf("Redis initialization failed: %v", err)
		logger.Info("   → Metadata is read from the database on every request")
		logger.Info("   → Test data jobs use an in-process lock (single-server deployment)")
	} else if cfg.Redis.Enabled {
		logger.Infof("Redis initialized successfully - metadata cache enabled")
	}

	return cfg, nil
}
