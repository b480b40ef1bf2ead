package crm

import (
	"context"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
)

// 联系人字段名 -> 列名
var contactColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"phone":     "phone",
	"accountId": "account_id",
}

type ContactService struct {
	repo     *repository.ContactRepository
	accounts AccountChecker
}

func NewContactService(repo *repository.ContactRepository, accounts AccountChecker) *ContactService {
	return &ContactService{repo: repo, accounts: accounts}
}

// List 分页查询，附带客户名称
func (s *ContactService) List(ctx context.Context, filter model.ContactFilter, page model.Pagination) (*model.PaginatedResponse, error) {
	contacts, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	resp := model.NewPaginatedResponse(contacts, total, page.Page, page.Limit)
	return &resp, nil
}

// Get 获取联系人
func (s *ContactService) Get(ctx context.Context, id string) (*model.ContactWithAccount, error) {
	return s.repo.FindByID(ctx, id)
}

func contactValues(input model.ContactInput) map[string]interface{} {
	values := map[string]interface{}{}
	setIfSet(values, "firstName", input.FirstName)
	setIfSet(values, "lastName", input.LastName)
	setIfSet(values, "email", input.Email)
	setIfSet(values, "phone", input.Phone)
	setIfSet(values, "accountId", input.AccountID)
	return values
}

func (s *ContactService) validate(ctx context.Context, values map[string]interface{}, partial bool) error {
	verr := requiredErrors(model.ObjectTypeContact, values, partial)
	checkEmail(verr, values["email"])
	if err := checkAccountRef(ctx, s.accounts, verr, values["accountId"]); err != nil {
		return err
	}
	return verr.OrNil()
}

// Create 创建联系人；accountId 非空时必须存在
func (s *ContactService) Create(ctx context.Context, input model.ContactInput) (*model.ContactWithAccount, error) {
	values := contactValues(input)
	if err := s.validate(ctx, values, false); err != nil {
		return nil, err
	}

	contact := &model.Contact{
		FirstName:    values["firstName"].(string),
		LastName:     values["lastName"].(string),
		Email:        textPtr(input.Email),
		Phone:        textPtr(input.Phone),
		AccountID:    textPtr(input.AccountID),
		CustomFields: customFieldsValue(input.CustomFields),
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	recordWrite(model.ObjectTypeContact, "create")
	return s.repo.FindByID(ctx, contact.ID)
}

// Update 部分更新；只有请求中出现 accountId 时才重新校验
func (s *ContactService) Update(ctx context.Context, id string, input model.ContactInput) (*model.ContactWithAccount, error) {
	values := contactValues(input)
	if err := s.validate(ctx, values, true); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{}, len(values)+1)
	for name, v := range values {
		updates[contactColumns[name]] = v
	}
	if input.CustomFields.Set {
		updates["custom_fields"] = customFieldsValue(input.CustomFields)
	}

	contact, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	recordWrite(model.ObjectTypeContact, "update")
	return contact, nil
}

// Delete 删除联系人
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordWrite(model.ObjectTypeContact, "delete")
	return nil
}
