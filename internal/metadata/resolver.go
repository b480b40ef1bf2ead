// Package metadata 合并内置字段与自定义字段，解析页面布局和记录的字段值
package metadata

import (
	"context"
	"fmt"
	"sort"

	"github.com/fisker/crm-backend/internal/model"
)

// FallbackSectionTitle 未保存布局时的默认分组标题
const FallbackSectionTitle = "Details"

// FieldSource 字段定义来源（包含持久化的内置字段行和自定义字段）
type FieldSource interface {
	ListByObjectType(ctx context.Context, objectType model.ObjectType) ([]model.FieldDefinition, error)
}

// LayoutSource 页面布局来源，未保存时返回 nil, nil
type LayoutSource interface {
	FindByObjectType(ctx context.Context, objectType model.ObjectType) (*model.PageLayout, error)
}

// Record 可按字段名取值的记录
type Record interface {
	ObjectType() model.ObjectType
	BuiltinValue(fieldName string) (interface{}, bool)
	CustomFieldValues() map[string]interface{}
}

// AccountNamer 把客户ID解析为名称
type AccountNamer interface {
	NamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

type Resolver struct {
	fields  FieldSource
	layouts LayoutSource
	cache   Cache
}

func NewResolver(fields FieldSource, layouts LayoutSource, cache Cache) *Resolver {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Resolver{fields: fields, layouts: layouts, cache: cache}
}

func checkObjectType(objectType model.ObjectType) error {
	if !objectType.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidObjectType, objectType)
	}
	return nil
}

// ResolveFields 内置字段（固定顺序）在前，自定义字段按 sortOrder 在后，字段名不重复
func (r *Resolver) ResolveFields(ctx context.Context, objectType model.ObjectType) ([]model.FieldDefinition, error) {
	if err := checkObjectType(objectType); err != nil {
		return nil, err
	}
	if fields, ok := r.cache.GetFields(ctx, objectType); ok {
		return fields, nil
	}

	persisted, err := r.fields.ListByObjectType(ctx, objectType)
	if err != nil {
		return nil, fmt.Errorf("load field definitions: %w", err)
	}
	fields := MergeFields(objectType, persisted)
	r.cache.SetFields(ctx, objectType, fields)
	return fields, nil
}

// MergeFields 已保存的内置字段行只覆盖 label/required/options/validations，位置和类型不变
func MergeFields(objectType model.ObjectType, persisted []model.FieldDefinition) []model.FieldDefinition {
	builtins := model.BuiltinFields(objectType)

	overrides := make(map[string]model.FieldDefinition)
	custom := make([]model.FieldDefinition, 0, len(persisted))
	for _, f := range persisted {
		if f.IsCustom {
			custom = append(custom, f)
		} else {
			overrides[f.FieldName] = f
		}
	}

	seen := make(map[string]bool, len(builtins)+len(custom))
	out := make([]model.FieldDefinition, 0, len(builtins)+len(custom))
	for _, b := range builtins {
		if p, ok := overrides[b.FieldName]; ok {
			b.ID = p.ID
			b.Label = p.Label
			b.Required = p.Required
			if len(p.Options) > 0 {
				b.Options = p.Options
			}
			if p.Validations != nil {
				b.Validations = p.Validations
			}
			b.CreatedAt = p.CreatedAt
			b.UpdatedAt = p.UpdatedAt
		}
		seen[b.FieldName] = true
		out = append(out, b)
	}

	sort.SliceStable(custom, func(i, j int) bool {
		if custom[i].SortOrder != custom[j].SortOrder {
			return custom[i].SortOrder < custom[j].SortOrder
		}
		return custom[i].FieldName < custom[j].FieldName
	})
	for _, f := range custom {
		if seen[f.FieldName] {
			continue
		}
		seen[f.FieldName] = true
		out = append(out, f)
	}
	return out
}

// ResolveLayout 已保存的分组，或包含全部字段的默认分组
func (r *Resolver) ResolveLayout(ctx context.Context, objectType model.ObjectType) ([]model.PageLayoutSection, error) {
	view, err := r.ResolveLayoutView(ctx, objectType)
	if err != nil {
		return nil, err
	}
	return view.Sections, nil
}

// ResolveLayoutView 同 ResolveLayout，附带是否已保存
func (r *Resolver) ResolveLayoutView(ctx context.Context, objectType model.ObjectType) (*model.PageLayoutView, error) {
	if err := checkObjectType(objectType); err != nil {
		return nil, err
	}
	if view, ok := r.cache.GetLayout(ctx, objectType); ok {
		return view, nil
	}

	layout, err := r.layouts.FindByObjectType(ctx, objectType)
	if err != nil {
		return nil, fmt.Errorf("load page layout: %w", err)
	}

	var view *model.PageLayoutView
	if layout != nil {
		updatedAt := layout.UpdatedAt
		view = &model.PageLayoutView{
			ObjectType: objectType,
			Sections:   layout.SectionList(),
			Persisted:  true,
			UpdatedAt:  &updatedAt,
		}
	} else {
		fields, err := r.ResolveFields(ctx, objectType)
		if err != nil {
			return nil, err
		}
		view = &model.PageLayoutView{
			ObjectType: objectType,
			Sections:   []model.PageLayoutSection{FallbackSection(fields)},
		}
	}

	r.cache.SetLayout(ctx, objectType, view)
	return view, nil
}

// FallbackSection 单个两列分组，包含全部字段
func FallbackSection(fields []model.FieldDefinition) model.PageLayoutSection {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.FieldName)
	}
	return model.PageLayoutSection{Title: FallbackSectionTitle, Columns: 2, Fields: names}
}

// Invalidate 字段或布局变更后清除缓存
func (r *Resolver) Invalidate(ctx context.Context, objectType model.ObjectType) {
	r.cache.Invalidate(ctx, objectType)
}

// ResolveValue 内置字段直接读列，其余从 customFields 中读取；不存在时返回 nil, false
func ResolveValue(record Record, fieldName string) (interface{}, bool) {
	if model.IsBuiltinField(record.ObjectType(), fieldName) {
		return record.BuiltinValue(fieldName)
	}
	v, ok := record.CustomFieldValues()[fieldName]
	return v, ok
}

// ResolveDisplay 展示文本；lookup 字段通过 namer 解析为客户名称，找不到时显示ID
func ResolveDisplay(ctx context.Context, record Record, field model.FieldDefinition, namer AccountNamer) (string, error) {
	raw, _ := ResolveValue(record, field.FieldName)
	v, err := DecodeValue(field, raw)
	if err != nil {
		// 存量数据与当前字段类型不一致时原样展示
		if raw == nil {
			return "", nil
		}
		return fmt.Sprint(raw), nil
	}

	id, ok := v.(LookupValue)
	if !ok || namer == nil {
		return DisplayString(v), nil
	}
	names, err := namer.NamesByIDs(ctx, []string{string(id)})
	if err != nil {
		return "", fmt.Errorf("resolve account name: %w", err)
	}
	if name, ok := names[string(id)]; ok {
		return name, nil
	}
	return string(id), nil
}

// NameMap 已加载的客户名称，实现 AccountNamer 不再访问数据库
type NameMap map[string]string

func (m NameMap) NamesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := m[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

// PrefetchNames 收集 records 中所有 lookup 字段的ID，一次查询出名称
func PrefetchNames(ctx context.Context, records []Record, fields []model.FieldDefinition, namer AccountNamer) (NameMap, error) {
	seen := map[string]struct{}{}
	ids := []string{}
	for _, field := range fields {
		if field.FieldType != model.FieldTypeLookup {
			continue
		}
		for _, record := range records {
			raw, _ := ResolveValue(record, field.FieldName)
			v, err := DecodeValue(field, raw)
			if err != nil {
				continue
			}
			id, ok := v.(LookupValue)
			if !ok || id == "" {
				continue
			}
			if _, dup := seen[string(id)]; dup {
				continue
			}
			seen[string(id)] = struct{}{}
			ids = append(ids, string(id))
		}
	}
	if len(ids) == 0 || namer == nil {
		return NameMap{}, nil
	}
	names, err := namer.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve account names: %w", err)
	}
	return NameMap(names), nil
}
