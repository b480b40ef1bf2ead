package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/fisker/crm-backend/pkg/config"
	"github.com/fisker/crm-backend/pkg/logger"
	"github.com/go-redis/redis/v8"
)

// Client 全局 Redis 客户端（nil表示Redis未启用或连接失败）
var Client *redis.Client

// Init 初始化 Redis 连接
// 如果Redis未启用或连接失败，会优雅降级：元数据直接读库，生成任务使用进程内锁
func Init(cfg *config.RedisConfig) error {
	if !cfg.Enabled {
		logger.Info("[Redis] Redis is disabled in config - metadata cache off")
		return nil
	}

	cfg.SetDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Duration(cfg.ConnectTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	Client = client
	logger.Infof("[Redis] ✅ Connected to Redis at %s:%d (DB: %d, PoolSize: %d)",
		cfg.Host, cfg.Port, cfg.DB, cfg.PoolSize)
	return nil
}

// Close 关闭 Redis 连接
func Close() error {
	if Client != nil {
		err := Client.Close()
		Client = nil
		return err
	}
	return nil
}

// IsEnabled 检查 Redis 是否已启用且连接正常
func IsEnabled() bool {
	return Client != nil
}
