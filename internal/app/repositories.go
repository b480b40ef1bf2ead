package app

import (
	"github.com/fisker/crm-backend/internal/repository"
	"gorm.io/gorm"
)

// Repositories 包含所有 Repository 实例
type Repositories struct {
	Account         *repository.AccountRepository
	Contact         *repository.ContactRepository
	Opportunity     *repository.OpportunityRepository
	FieldDefinition *repository.FieldDefinitionRepository
	PageLayout      *repository.PageLayoutRepository
	TestData        *repository.TestDataRepository
}

// InitializeRepositories 初始化所有 Repository
func InitializeRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:         repository.NewAccountRepository(db),
		Contact:         repository.NewContactRepository(db),
		Opportunity:     repository.NewOpportunityRepository(db),
		FieldDefinition: repository.NewFieldDefinitionRepository(db),
		PageLayout:      repository.NewPageLayoutRepository(db),
		TestData:        repository.NewTestDataRepository(db),
	}
}
