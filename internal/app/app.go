package app

import (
	"github.com/fisker/crm-backend/pkg/config"
	"github.com/fisker/crm-backend/pkg/database"
	"github.com/fisker/crm-backend/pkg/logger"
	pkgredis "github.com/fisker/crm-backend/pkg/redis"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// App 应用程序上下文
type App struct {
	Config   *config.Config
	Repos    *Repositories
	Services *Services
	Handlers *Handlers
}

// Initialize 初始化应用程序
func Initialize(cfgPath string) (*App, error) {
	// 1. Bootstrap (logger, database, redis)
	cfg, err := Bootstrap(cfgPath)
	if err != nil {
		return nil, err
	}

	application := New(cfg, database.DB, pkgredis.Client)
	logger.Infof("Repositories, services and handlers initialized")
	return application, nil
}

// New 用已建立的连接组装各层，redisClient 可以为 nil
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *App {
	repos := InitializeRepositories(db)
	services := InitializeServices(repos, cfg, redisClient)
	handlers := InitializeHandlers(services, db)
	return &App{
		Config:   cfg,
		Repos:    repos,
		Services: services,
		Handlers: handlers,
	}
}
