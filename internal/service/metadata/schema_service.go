// Package metadata 字段定义与页面布局的管理，以及基于元数据的表单/表格渲染
package metadata

import (
	"context"
	"errors"
	"strings"

	"github.com/fisker/crm-backend/internal/metadata"
	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
	"github.com/fisker/crm-backend/pkg/logger"
	"github.com/fisker/crm-backend/pkg/validate"
	"gorm.io/datatypes"
)

const (
	msgFieldExists      = "Field already exists"
	msgPicklistOptions  = "Picklist fields need at least one option"
	msgBuiltinFieldType = "Cannot change the type of a built-in field"
)

// SchemaService 字段定义和页面布局管理，所有写操作都会清除元数据缓存
type SchemaService struct {
	fields   *repository.FieldDefinitionRepository
	layouts  *repository.PageLayoutRepository
	resolver *metadata.Resolver
}

func NewSchemaService(fields *repository.FieldDefinitionRepository, layouts *repository.PageLayoutRepository, resolver *metadata.Resolver) *SchemaService {
	return &SchemaService{fields: fields, layouts: layouts, resolver: resolver}
}

// parseOptionalObjectType 空字符串表示不过滤
func parseOptionalObjectType(s string) (model.ObjectType, error) {
	if s == "" {
		return "", nil
	}
	return model.ParseObjectType(s)
}

// ListFields 已保存的字段定义（内置和自定义），objectType 为空时返回全部
func (s *SchemaService) ListFields(ctx context.Context, objectType string) ([]model.FieldDefinition, error) {
	t, err := parseOptionalObjectType(objectType)
	if err != nil {
		return nil, err
	}
	return s.fields.List(ctx, t)
}

// ResolvedFields 表单实际使用的字段列表
func (s *SchemaService) ResolvedFields(ctx context.Context, objectType string) ([]model.FieldDefinition, error) {
	t, err := model.ParseObjectType(objectType)
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveFields(ctx, t)
}

func cleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// CreateField 创建自定义字段：isCustom 固定为 true，sortOrder 缺省排在最后
func (s *SchemaService) CreateField(ctx context.Context, req model.CreateFieldDefinitionRequest) (*model.FieldDefinition, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	objectType := model.ObjectType(req.ObjectType)
	fieldType := model.FieldType(req.FieldType)
	options := cleanOptions(req.Options)

	verr := model.NewValidationError()
	if fieldType == model.FieldTypePicklist && len(options) == 0 {
		verr.Add("options", msgPicklistOptions)
	}
	if model.IsBuiltinField(objectType, req.FieldName) {
		verr.Add("fieldName", msgFieldExists)
	} else {
		exists, err := s.fields.Exists(ctx, objectType, req.FieldName)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("fieldName", msgFieldExists)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		max, err := s.fields.MaxSortOrder(ctx, objectType)
		if err != nil {
			return nil, err
		}
		sortOrder = max + 1
	}

	field := &model.FieldDefinition{
		ObjectType:  objectType,
		FieldName:   req.FieldName,
		Label:       strings.TrimSpace(req.Label),
		FieldType:   fieldType,
		Required:    req.Required,
		IsCustom:    true,
		Options:     options,
		Validations: datatypes.JSONMap(req.Validations),
		SortOrder:   sortOrder,
	}
	if err := s.fields.Create(ctx, field); err != nil {
		// 并发创建同名字段时由唯一索引兜底
		if errors.Is(err, model.ErrDuplicateKey) {
			return nil, model.FieldError("fieldName", msgFieldExists)
		}
		return nil, err
	}

	s.resolver.Invalidate(ctx, objectType)
	logger.Infof("Custom field created: %s.%s (%s)", objectType, field.FieldName, field.FieldType)
	return field, nil
}

// UpdateField 部分更新；内置字段不能修改类型
func (s *SchemaService) UpdateField(ctx context.Context, id string, req model.UpdateFieldDefinitionRequest) (*model.FieldDefinition, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	field, err := s.fields.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := model.NewValidationError()
	updates := map[string]interface{}{}
	if req.Label != nil {
		updates["label"] = strings.TrimSpace(*req.Label)
	}
	fieldType := field.FieldType
	if req.FieldType != nil && model.FieldType(*req.FieldType) != field.FieldType {
		if !field.IsCustom {
			verr.Add("fieldType", msgBuiltinFieldType)
		}
		fieldType = model.FieldType(*req.FieldType)
		updates["field_type"] = fieldType
	}
	if req.Required != nil {
		updates["required"] = *req.Required
	}
	options := []string(field.Options)
	if req.Options != nil {
		options = cleanOptions(*req.Options)
		updates["options"] = datatypes.JSONSlice[string](options)
	}
	if fieldType == model.FieldTypePicklist && len(options) == 0 {
		verr.Add("options", msgPicklistOptions)
	}
	if req.Validations != nil {
		updates["validations"] = datatypes.JSONMap(*req.Validations)
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	updated, err := s.fields.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx, updated.ObjectType)
	return updated, nil
}

// DeleteField 只能删除自定义字段
func (s *SchemaService) DeleteField(ctx context.Context, id string) error {
	field, err := s.fields.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !field.IsCustom {
		return model.ErrBuiltInField
	}
	if err := s.fields.Delete(ctx, id); err != nil {
		return err
	}

	s.resolver.Invalidate(ctx, field.ObjectType)
	logger.Infof("Custom field deleted: %s.%s", field.ObjectType, field.FieldName)
	return nil
}

// FindLayout 已保存的布局，未保存时返回 nil
func (s *SchemaService) FindLayout(ctx context.Context, objectType string) (*model.PageLayout, error) {
	t, err := parseOptionalObjectType(objectType)
	if err != nil {
		return nil, err
	}
	if t == "" {
		return nil, model.FieldError("objectType", "Required")
	}
	return s.layouts.FindByObjectType(ctx, t)
}

// Layout 已保存的布局或默认布局
func (s *SchemaService) Layout(ctx context.Context, objectType string) (*model.PageLayoutView, error) {
	t, err := model.ParseObjectType(objectType)
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveLayoutView(ctx, t)
}

// UpsertLayout 整体替换布局，并发修改以最后一次写入为准
func (s *SchemaService) UpsertLayout(ctx context.Context, objectType string, req model.UpsertPageLayoutRequest) (*model.PageLayout, error) {
	t, err := model.ParseObjectType(objectType)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	layout, err := s.layouts.Upsert(ctx, t, req.ToSections())
	if err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx, t)
	logger.Infof("Page layout saved: %s (%d sections)", t, len(req.Sections))
	return layout, nil
}
