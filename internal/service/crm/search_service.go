package crm

import (
	"context"
	"strings"

	"github.com/fisker/crm-backend/internal/model"
	"golang.org/x/sync/errgroup"
)

type AccountSearcher interface {
	Search(ctx context.Context, q string, limit int) ([]model.Account, int64, error)
}

type ContactSearcher interface {
	Search(ctx context.Context, q string, limit int) ([]model.ContactWithAccount, int64, error)
}

type OpportunitySearcher interface {
	Search(ctx context.Context, q string, limit int) ([]model.OpportunityWithAccount, int64, error)
}

// SearchService 跨实体模糊搜索
type SearchService struct {
	accounts      AccountSearcher
	contacts      ContactSearcher
	opportunities OpportunitySearcher
}

func NewSearchService(accounts AccountSearcher, contacts ContactSearcher, opportunities OpportunitySearcher) *SearchService {
	return &SearchService{accounts: accounts, contacts: contacts, opportunities: opportunities}
}

// Search 空查询直接返回空结果，不访问数据库；三个实体并发查询
func (s *SearchService) Search(ctx context.Context, q string, limit int) (*model.SearchResponse, error) {
	resp := model.EmptySearchResponse()
	q = strings.TrimSpace(q)
	if q == "" {
		return &resp, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, total, err := s.accounts.Search(gctx, q, limit)
		resp.Accounts = model.SearchBucket[model.Account]{Data: data, Total: total}
		return err
	})
	g.Go(func() error {
		data, total, err := s.contacts.Search(gctx, q, limit)
		resp.Contacts = model.SearchBucket[model.ContactWithAccount]{Data: data, Total: total}
		return err
	})
	g.Go(func() error {
		data, total, err := s.opportunities.Search(gctx, q, limit)
		resp.Opportunities = model.SearchBucket[model.OpportunityWithAccount]{Data: data, Total: total}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &resp, nil
}
