package metadata

import (
	"context"

	"github.com/fisker/crm-backend/internal/form"
	"github.com/fisker/crm-backend/internal/metadata"
	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
)

// FormView 按布局渲染的表单
type FormView struct {
	ObjectType model.ObjectType `json:"objectType"`
	RecordID   *string          `json:"recordId"`
	Mode       form.Mode        `json:"mode"`
	Persisted  bool             `json:"persisted"`
	Sections   []form.Section   `json:"sections"`
}

// TableRow 表格中的一行
type TableRow struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

// TableView 列表视图：列为全部已解析字段
type TableView struct {
	ObjectType model.ObjectType `json:"objectType"`
	Headers    []string         `json:"headers"`
	Fields     []string         `json:"fields"`
	Rows       []TableRow       `json:"rows"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

// FormService 基于字段定义和布局渲染表单、校验提交、生成列表视图
type FormService struct {
	resolver      *metadata.Resolver
	accounts      *repository.AccountRepository
	contacts      *repository.ContactRepository
	opportunities *repository.OpportunityRepository
}

func NewFormService(resolver *metadata.Resolver, accounts *repository.AccountRepository, contacts *repository.ContactRepository, opportunities *repository.OpportunityRepository) *FormService {
	return &FormService{resolver: resolver, accounts: accounts, contacts: contacts, opportunities: opportunities}
}

// findRecord 按对象类型加载记录
func (s *FormService) findRecord(ctx context.Context, objectType model.ObjectType, id string) (metadata.Record, error) {
	switch objectType {
	case model.ObjectTypeAccount:
		return s.accounts.FindByID(ctx, id)
	case model.ObjectTypeContact:
		return s.contacts.FindByID(ctx, id)
	case model.ObjectTypeOpportunity:
		return s.opportunities.FindByID(ctx, id)
	}
	return nil, model.ErrInvalidObjectType
}

// Render 渲染表单；recordID 为空时渲染空白表单（新建）
func (s *FormService) Render(ctx context.Context, objectType, recordID, mode string) (*FormView, error) {
	t, err := model.ParseObjectType(objectType)
	if err != nil {
		return nil, err
	}
	m, err := form.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	fields, err := s.resolver.ResolveFields(ctx, t)
	if err != nil {
		return nil, err
	}
	layout, err := s.resolver.ResolveLayoutView(ctx, t)
	if err != nil {
		return nil, err
	}

	view := &FormView{ObjectType: t, Mode: m, Persisted: layout.Persisted}
	var record metadata.Record
	if recordID != "" {
		record, err = s.findRecord(ctx, t, recordID)
		if err != nil {
			return nil, err
		}
		view.RecordID = &recordID
	}

	view.Sections, err = form.RenderLayout(ctx, layout.Sections, fields, record, m, s.accounts)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Validate 按已解析字段转换并校验提交的值，不写库
func (s *FormService) Validate(ctx context.Context, objectType string, values map[string]interface{}) (*form.Result, error) {
	t, err := model.ParseObjectType(objectType)
	if err != nil {
		return nil, err
	}
	fields, err := s.resolver.ResolveFields(ctx, t)
	if err != nil {
		return nil, err
	}
	result := form.Submit(fields, values)
	return &result, nil
}

type tableRecord struct {
	id     string
	record metadata.Record
}

func (s *FormService) listRecords(ctx context.Context, objectType model.ObjectType, page model.Pagination) ([]tableRecord, int64, error) {
	var out []tableRecord
	switch objectType {
	case model.ObjectTypeAccount:
		rows, total, err := s.accounts.List(ctx, model.AccountFilter{}, page)
		if err != nil {
			return nil, 0, err
		}
		for i := range rows {
			out = append(out, tableRecord{id: rows[i].ID, record: &rows[i]})
		}
		return out, total, nil
	case model.ObjectTypeContact:
		rows, total, err := s.contacts.List(ctx, model.ContactFilter{}, page)
		if err != nil {
			return nil, 0, err
		}
		for i := range rows {
			out = append(out, tableRecord{id: rows[i].ID, record: &rows[i]})
		}
		return out, total, nil
	case model.ObjectTypeOpportunity:
		rows, total, err := s.opportunities.List(ctx, model.OpportunityFilter{}, page)
		if err != nil {
			return nil, 0, err
		}
		for i := range rows {
			out = append(out, tableRecord{id: rows[i].ID, record: &rows[i]})
		}
		return out, total, nil
	}
	return nil, 0, model.ErrInvalidObjectType
}

// Table 列表视图：一页记录按字段展示，filter 只作用于当前页的可见单元格
func (s *FormService) Table(ctx context.Context, objectType, filter string, page model.Pagination) (*TableView, error) {
	t, err := model.ParseObjectType(objectType)
	if err != nil {
		return nil, err
	}
	fields, err := s.resolver.ResolveFields(ctx, t)
	if err != nil {
		return nil, err
	}
	records, total, err := s.listRecords(ctx, t, page)
	if err != nil {
		return nil, err
	}

	table := form.Table{Columns: form.ColumnsFor(fields), Namer: s.accounts}
	plain := make([]metadata.Record, len(records))
	ids := make(map[metadata.Record]string, len(records))
	for i, r := range records {
		plain[i] = r.record
		ids[r.record] = r.id
	}
	rows, err := table.Rows(ctx, plain, filter)
	if err != nil {
		return nil, err
	}

	view := &TableView{
		ObjectType: t,
		Headers:    table.Headers(),
		Fields:     make([]string, 0, len(fields)),
		Rows:       make([]TableRow, 0, len(rows)),
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
	}
	for _, f := range fields {
		view.Fields = append(view.Fields, f.FieldName)
	}
	for _, row := range rows {
		view.Rows = append(view.Rows, TableRow{ID: ids[row.Record], Cells: row.Cells})
	}
	return view, nil
}
