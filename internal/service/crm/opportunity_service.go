package crm

import (
	"context"

	"github.com/fisker/crm-backend/internal/metadata"
	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
	"github.com/shopspring/decimal"
)

var opportunityColumns = map[string]string{
	"name":      "name",
	"accountId": "account_id",
	"amount":    "amount",
	"stage":     "stage",
	"closeDate": "close_date",
}

type OpportunityService struct {
	repo     *repository.OpportunityRepository
	accounts AccountChecker
}

func NewOpportunityService(repo *repository.OpportunityRepository, accounts AccountChecker) *OpportunityService {
	return &OpportunityService{repo: repo, accounts: accounts}
}

// List 分页查询，附带客户名称
func (s *OpportunityService) List(ctx context.Context, filter model.OpportunityFilter, page model.Pagination) (*model.PaginatedResponse, error) {
	opps, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	resp := model.NewPaginatedResponse(opps, total, page.Page, page.Limit)
	return &resp, nil
}

// Get 获取商机
func (s *OpportunityService) Get(ctx context.Context, id string) (*model.OpportunityWithAccount, error) {
	return s.repo.FindByID(ctx, id)
}

// opportunityValues 转换请求体；values 的 key 为字段名，amount/closeDate 为已转换的列值
func opportunityValues(input model.OpportunityInput, verr *model.ValidationError) map[string]interface{} {
	values := map[string]interface{}{}
	setIfSet(values, "name", input.Name)
	setIfSet(values, "accountId", input.AccountID)
	setIfSet(values, "stage", input.Stage)

	if input.Amount.Set {
		values["amount"] = nil
		if input.Amount.Present() {
			v, err := decodeAmount(input.Amount.Value)
			if err != nil {
				verr.Add("amount", coercionMessage(err))
			} else if n, ok := v.(metadata.NumberValue); ok {
				values["amount"] = decimal.NewNullDecimal(n.Decimal.Round(2))
			}
		}
	}

	if input.CloseDate.Set {
		values["closeDate"] = nil
		v, err := metadata.DecodeValue(closeDateField, textValue(input.CloseDate))
		if err != nil {
			verr.Add("closeDate", coercionMessage(err))
		} else if d, ok := v.(metadata.DateValue); ok {
			date := d.Date
			values["closeDate"] = &date
		}
	}
	return values
}

func (s *OpportunityService) validate(ctx context.Context, input model.OpportunityInput, partial bool) (map[string]interface{}, error) {
	verr := model.NewValidationError()
	values := opportunityValues(input, verr)
	verr.Merge(requiredErrors(model.ObjectTypeOpportunity, values, partial))
	if err := checkAccountRef(ctx, s.accounts, verr, values["accountId"]); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return values, nil
}

// Create 创建商机：accountId 必须指向已存在的客户，stage 缺省为 Prospecting
func (s *OpportunityService) Create(ctx context.Context, input model.OpportunityInput) (*model.OpportunityWithAccount, error) {
	if textValue(input.Stage) == nil {
		input.Stage = model.Some(model.StageProspecting)
	}
	values, err := s.validate(ctx, input, false)
	if err != nil {
		return nil, err
	}

	opp := &model.Opportunity{
		Name:         values["name"].(string),
		AccountID:    values["accountId"].(string),
		Stage:        values["stage"].(string),
		CustomFields: customFieldsValue(input.CustomFields),
	}
	if amount, ok := values["amount"].(decimal.NullDecimal); ok {
		opp.Amount = amount
	}
	if closeDate, ok := values["closeDate"].(*model.Date); ok {
		opp.CloseDate = closeDate
	}

	if err := s.repo.Create(ctx, opp); err != nil {
		return nil, err
	}
	recordWrite(model.ObjectTypeOpportunity, "create")
	return s.repo.FindByID(ctx, opp.ID)
}

// Update 部分更新；只有请求中出现 accountId 时才校验客户是否存在
func (s *OpportunityService) Update(ctx context.Context, id string, input model.OpportunityInput) (*model.OpportunityWithAccount, error) {
	values, err := s.validate(ctx, input, true)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{}, len(values)+1)
	for name, v := range values {
		updates[opportunityColumns[name]] = v
	}
	if input.CustomFields.Set {
		updates["custom_fields"] = customFieldsValue(input.CustomFields)
	}

	opp, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	recordWrite(model.ObjectTypeOpportunity, "update")
	return opp, nil
}

// Delete 删除商机
func (s *OpportunityService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordWrite(model.ObjectTypeOpportunity, "delete")
	return nil
}
