// Package service 提供统一的 service 导出
// 所有 service 按功能模块分类到子目录中
package service

// 重新导出所有 service 类型，app 层只依赖这一个包
import (
	// CRM services
	crmService "github.com/fisker/crm-backend/internal/service/crm"
	// Metadata services
	metadataService "github.com/fisker/crm-backend/internal/service/metadata"
	// Test data services
	testDataService "github.com/fisker/crm-backend/internal/service/testdata"
)

// CRM services
type AccountService = crmService.AccountService
type ContactService = crmService.ContactService
type OpportunityService = crmService.OpportunityService
type SearchService = crmService.SearchService
type DashboardService = crmService.DashboardService

var NewAccountService = crmService.NewAccountService
var NewContactService = crmService.NewContactService
var NewOpportunityService = crmService.NewOpportunityService
var NewSearchService = crmService.NewSearchService
var NewDashboardService = crmService.NewDashboardService

// Metadata services
type SchemaService = metadataService.SchemaService
type FormService = metadataService.FormService
type FormView = metadataService.FormView
type TableView = metadataService.TableView

var NewSchemaService = metadataService.NewSchemaService
var NewFormService = metadataService.NewFormService

// Test data services
type TestDataGenerator = testDataService.Generator
type TestDataPartialError = testDataService.PartialError

var NewTestDataGenerator = testDataService.NewGenerator
