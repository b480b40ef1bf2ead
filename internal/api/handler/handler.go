// Package handler 提供统一的 handler 导出
// 所有 handler 按功能模块分类到子目录中
package handler

// 重新导出所有 handler 类型，路由层只依赖这一个包
import (
	// CRM handlers
	crmHandler "github.com/fisker/crm-backend/internal/api/handler/crm"
	// Metadata handlers
	metadataHandler "github.com/fisker/crm-backend/internal/api/handler/metadata"
	// System handlers
	systemHandler "github.com/fisker/crm-backend/internal/api/handler/system"
)

// CRM handlers
type AccountHandler = crmHandler.AccountHandler
type ContactHandler = crmHandler.ContactHandler
type OpportunityHandler = crmHandler.OpportunityHandler
type SearchHandler = crmHandler.SearchHandler
type DashboardHandler = crmHandler.DashboardHandler

var NewAccountHandler = crmHandler.NewAccountHandler
var NewContactHandler = crmHandler.NewContactHandler
var NewOpportunityHandler = crmHandler.NewOpportunityHandler
var NewSearchHandler = crmHandler.NewSearchHandler
var NewDashboardHandler = crmHandler.NewDashboardHandler

// Metadata handlers
type FieldDefinitionHandler = metadataHandler.FieldDefinitionHandler
type PageLayoutHandler = metadataHandler.PageLayoutHandler
type FormHandler = metadataHandler.FormHandler

var NewFieldDefinitionHandler = metadataHandler.NewFieldDefinitionHandler
var NewPageLayoutHandler = metadataHandler.NewPageLayoutHandler
var NewFormHandler = metadataHandler.NewFormHandler

// System handlers
type HealthHandler = systemHandler.HealthHandler
type TestDataHandler = systemHandler.TestDataHandler

var NewHealthHandler = systemHandler.NewHealthHandler
var NewTestDataHandler = systemHandler.NewTestDataHandler
