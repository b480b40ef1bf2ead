package app

import (
	"time"

	"github.com/fisker/crm-backend/internal/metadata"
	"github.com/fisker/crm-backend/internal/service"
	"github.com/fisker/crm-backend/pkg/config"
	"github.com/fisker/crm-backend/pkg/logger"
	"github.com/go-redis/redis/v8"
)

// Services 包含所有 Service 实例
type Services struct {
	Resolver    *metadata.Resolver
	Account     *service.AccountService
	Contact     *service.ContactService
	Opportunity *service.OpportunityService
	Search      *service.SearchService
	Dashboard   *service.DashboardService
	Schema      *service.SchemaService
	Form        *service.FormService
	TestData    *service.TestDataGenerator
}

// InitializeServices 初始化所有 Service；redisClient 为 nil 时不缓存元数据，生成任务使用进程内锁
func InitializeServices(repos *Repositories, cfg *config.Config, redisClient *redis.Client) *Services {
	cache := metadata.NewCache(redisClient, time.Duration(cfg.MetadataCache.TTL)*time.Second)
	if redisClient != nil {
		logger.Infof("Metadata cache enabled (TTL: %ds)", cfg.MetadataCache.TTL)
	}
	resolver := metadata.NewResolver(repos.FieldDefinition, repos.PageLayout, cache)

	if !cfg.TestData.Enabled() {
		logger.Info("Test data generation is disabled (no password configured)")
	}

	return &Services{
		Resolver:    resolver,
		Account:     service.NewAccountService(repos.Account),
		Contact:     service.NewContactService(repos.Contact, repos.Account),
		Opportunity: service.NewOpportunityService(repos.Opportunity, repos.Account),
		Search:      service.NewSearchService(repos.Account, repos.Contact, repos.Opportunity),
		Dashboard:   service.NewDashboardService(repos.Account, repos.Contact, repos.Opportunity),
		Schema:      service.NewSchemaService(repos.FieldDefinition, repos.PageLayout, resolver),
		Form:        service.NewFormService(resolver, repos.Account, repos.Contact, repos.Opportunity),
		TestData: service.NewTestDataGenerator(cfg.TestData, redisClient,
			repos.Account, repos.Contact, repos.Opportunity, repos.TestData),
	}
}
