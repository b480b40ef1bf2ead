// Package testutil 测试辅助：内存 SQLite、已迁移的表结构、Redis 替身
package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fisker/crm-backend/pkg/database"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewDB 打开一个独立的内存数据库并完成迁移
// 单连接：内存库随连接存在，同时避免 SQLite 的表锁冲突
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrateAll(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewSeededDB 迁移并写入内置字段和默认布局
func NewSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := NewDB(t)
	if err := database.SeedBuiltins(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

// NewRedis 启动 miniredis 并返回连接它的客户端
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

// Ptr 取地址
func Ptr[T any](v T) *T {
	return &v
}
