package crm

import (
	"context"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
	"github.com/fisker/crm-backend/pkg/logger"
)

type AccountService struct {
	repo *repository.AccountRepository
}

func NewAccountService(repo *repository.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// List 分页查询
func (s *AccountService) List(ctx context.Context, filter model.AccountFilter, page model.Pagination) (*model.PaginatedResponse, error) {
	accounts, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	resp := model.NewPaginatedResponse(accounts, total, page.Page, page.Limit)
	return &resp, nil
}

// Get 获取客户
func (s *AccountService) Get(ctx context.Context, id string) (*model.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建客户
func (s *AccountService) Create(ctx context.Context, input model.AccountInput) (*model.Account, error) {
	verr := requiredErrors(model.ObjectTypeAccount, map[string]interface{}{
		"name": textValue(input.Name),
	}, false)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	account := &model.Account{
		Name:         textValue(input.Name).(string),
		Industry:     textPtr(input.Industry),
		Country:      textPtr(input.Country),
		Phone:        textPtr(input.Phone),
		Website:      textPtr(input.Website),
		CustomFields: customFieldsValue(input.CustomFields),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	recordWrite(model.ObjectTypeAccount, "create")
	logger.Debugf("Account created: %s (%s)", account.Name, account.ID)
	return account, nil
}

// Update 部分更新：请求中未出现的字段保持不变
func (s *AccountService) Update(ctx context.Context, id string, input model.AccountInput) (*model.Account, error) {
	updates := map[string]interface{}{}
	setIfSet(updates, "name", input.Name)
	setIfSet(updates, "industry", input.Industry)
	setIfSet(updates, "country", input.Country)
	setIfSet(updates, "phone", input.Phone)
	setIfSet(updates, "website", input.Website)

	if err := requiredErrors(model.ObjectTypeAccount, updates, true).OrNil(); err != nil {
		return nil, err
	}
	if input.CustomFields.Set {
		updates["custom_fields"] = customFieldsValue(input.CustomFields)
	}

	account, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	recordWrite(model.ObjectTypeAccount, "update")
	return account, nil
}

// Delete 删除客户，关联联系人的 accountId 被置空
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordWrite(model.ObjectTypeAccount, "delete")
	logger.Infof("Account deleted: %s", id)
	return nil
}

// DistinctValues 过滤条件候选值
func (s *AccountService) DistinctValues(ctx context.Context) (*model.AccountDistinctValues, error) {
	return s.repo.DistinctValues(ctx)
}
