package database

import (
	"fmt"

	"github.com/fisker/crm-backend/pkg/config"
	"github.com/fisker/crm-backend/pkg/logger"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.DatabaseConfig) error {
	// 设置默认值
	cfg.SetDefaults()

	// 初始化数据库连接（内部已经 Ping 验证）
	if err := InitDatabase(cfg); err != nil {
		return err
	}

	if DB == nil {
		return fmt.Errorf("database connection is nil after InitDatabase")
	}

	if err := AutoMigrateAll(DB); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if cfg.SeedBuiltins == nil || *cfg.SeedBuiltins {
		if err := SeedBuiltins(DB); err != nil {
			// 表已创建成功，内置数据可以通过 crmctl seed 补齐
			logger.Warnf("Failed to seed built-in metadata: %v", err)
		}
	}

	logger.Infof("Database initialized successfully")
	return nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
