package app

import (
	"github.com/fisker/crm-backend/internal/api/handler"
	"gorm.io/gorm"
)

// Handlers 包含所有 Handler 实例
type Handlers struct {
	Account         *handler.AccountHandler
	Contact         *handler.ContactHandler
	Opportunity     *handler.OpportunityHandler
	Search          *handler.SearchHandler
	Dashboard       *handler.DashboardHandler
	FieldDefinition *handler.FieldDefinitionHandler
	PageLayout      *handler.PageLayoutHandler
	Form            *handler.FormHandler
	Health          *handler.HealthHandler
	TestData        *handler.TestDataHandler
}

// InitializeHandlers 初始化所有 Handler
func InitializeHandlers(services *Services, db *gorm.DB) *Handlers {
	return &Handlers{
		Account:         handler.NewAccountHandler(services.Account),
		Contact:         handler.NewContactHandler(services.Contact),
		Opportunity:     handler.NewOpportunityHandler(services.Opportunity),
		Search:          handler.NewSearchHandler(services.Search),
		Dashboard:       handler.NewDashboardHandler(services.Dashboard),
		FieldDefinition: handler.NewFieldDefinitionHandler(services.Schema),
		PageLayout:      handler.NewPageLayoutHandler(services.Schema),
		Form:            handler.NewFormHandler(services.Form),
		Health:          handler.NewHealthHandler(db),
		TestData:        handler.NewTestDataHandler(services.TestData),
	}
}
