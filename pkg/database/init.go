package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/pkg/config"
	"github.com/fisker/crm-backend/pkg/logger"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Models 所有需要迁移的表
func Models() []interface{} {
	return []interface{}{
		&model.Account{},
		&model.Contact{},
		&model.Opportunity{},
		&model.FieldDefinition{},
		&model.PageLayout{},
	}
}

// InitDatabase 初始化数据库（支持 PostgreSQL 和 MySQL）
func InitDatabase(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres", "postgresql":
		if err := createPostgresDatabase(cfg); err != nil {
			return fmt.Errorf("failed to create PostgreSQL database: %w", err)
		}
		dialector = postgres.Open(cfg.DSN())
	case "mysql":
		if err := createMySQLDatabase(cfg); err != nil {
			return fmt.Errorf("failed to create MySQL database: %w", err)
		}
		dialector = mysql.Open(cfg.DSN())
	default:
		return fmt.Errorf("unsupported database driver: %s (supported: postgres, mysql)", cfg.Driver)
	}

	logger.Infof("Connecting to %s database...", cfg.Driver)

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	maxOpenConns := cfg.MaxOpenConns
	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	logger.Infof("Database connection pool configured: MaxOpenConns=%d, MaxIdleConns=%d, ConnMaxLifetime=%ds",
		maxOpenConns, maxIdleConns, cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	logger.Infof("Database connection verified successfully")
	return nil
}

// createMySQLDatabase 创建 MySQL 数据库（如果不存在）
// 使用 database/sql 而不是 GORM，避免影响主连接
func createMySQLDatabase(cfg *config.DatabaseConfig) error {
	dsnWithoutDB := fmt.Sprintf("%s:%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port)

	db, err := sql.Open("mysql", dsnWithoutDB)
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL server: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(30 * time.Second)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping MySQL server: %w", err)
	}

	createDBSQL := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", cfg.DBName)
	if _, err := db.Exec(createDBSQL); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	logger.Infof("Database '%s' created or already exists", cfg.DBName)
	return nil
}

// createPostgresDatabase 创建 PostgreSQL 数据库（如果不存在）
// 连接默认的 postgres 库，使用 lib/pq 而不是 GORM
func createPostgresDatabase(cfg *config.DatabaseConfig) error {
	dsnPostgres := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=postgres sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.SSLMode)

	db, err := sql.Open("postgres", dsnPostgres)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL server: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(30 * time.Second)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL server: %w", err)
	}

	var count int64
	if err := db.QueryRow("SELECT COUNT(*) FROM pg_database WHERE datname = $1", cfg.DBName).Scan(&count); err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}

	if count > 0 {
		logger.Infof("Database '%s' already exists", cfg.DBName)
		return nil
	}

	if _, err := db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(cfg.DBName)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	logger.Infof("Database '%s' created successfully", cfg.DBName)
	return nil
}

// AutoMigrateAll 自动迁移所有表（AutoMigrate 只补齐缺失的表、列和索引）
func AutoMigrateAll(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Checking database tables...")
	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	logger.Infof("Schema is up to date (%d tables)", len(models))
	return nil
}

// SeedBuiltins 补齐内置字段定义和默认布局，只插入缺失项，已存在的记录（包括管理员的修改）保持不变
func SeedBuiltins(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	var created int
	for _, objectType := range model.ObjectTypes {
		for _, def := range model.BuiltinFields(objectType) {
			var existing model.FieldDefinition
			err := db.Where("object_type = ? AND field_name = ?", objectType, def.FieldName).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check field %s.%s: %w", objectType, def.FieldName, err)
			}

			field := def
			if err := db.Create(&field).Error; err != nil {
				return fmt.Errorf("failed to create field %s.%s: %w", objectType, def.FieldName, err)
			}
			created++
		}

		var count int64
		if err := db.Model(&model.PageLayout{}).Where("object_type = ?", objectType).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check layout %s: %w", objectType, err)
		}
		if count == 0 {
			layout := model.NewPageLayout(objectType, model.DefaultLayoutSections(objectType))
			if err := db.Create(layout).Error; err != nil {
				return fmt.Errorf("failed to create layout %s: %w", objectType, err)
			}
			created++
		}
	}

	if created > 0 {
		logger.Infof("Seeded %d built-in metadata record(s)", created)
	} else {
		logger.Debugf("Built-in metadata already present")
	}
	return nil
}
