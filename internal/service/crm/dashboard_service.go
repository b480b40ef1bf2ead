package crm

import (
	"context"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	accounts      *repository.AccountRepository
	contacts      *repository.ContactRepository
	opportunities *repository.OpportunityRepository
}

func NewDashboardService(accounts *repository.AccountRepository, contacts *repository.ContactRepository, opportunities *repository.OpportunityRepository) *DashboardService {
	return &DashboardService{accounts: accounts, contacts: contacts, opportunities: opportunities}
}

// Stats 首页统计：记录数量、未关闭商机金额和赢单金额
func (s *DashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.accounts.Count(gctx)
		stats.Accounts = n
		return err
	})
	g.Go(func() error {
		n, err := s.contacts.Count(gctx)
		stats.Contacts = n
		return err
	})
	g.Go(func() error {
		summary, err := s.opportunities.Summary(gctx)
		if err != nil {
			return err
		}
		stats.Opportunities = summary.Total
		stats.OpenOpportunities = summary.Open
		stats.PipelineAmount = summary.OpenSum
		stats.WonAmount = summary.WonAmount
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
