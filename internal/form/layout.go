package form

import (
	"context"

	"github.com/fisker/crm-backend/internal/metadata"
	"github.com/fisker/crm-backend/internal/model"
)

// Section 布局分组及其控件
type Section struct {
	Title    string    `json:"title"`
	Columns  int       `json:"columns"`
	Controls []Control `json:"controls"`
}

// RenderLayout 按布局分组渲染控件。布局引用了不存在的字段时，以字段名作为标签渲染为文本控件
func RenderLayout(ctx context.Context, sections []model.PageLayoutSection, fields []model.FieldDefinition, record metadata.Record, mode Mode, namer metadata.AccountNamer) ([]Section, error) {
	byName := make(map[string]model.FieldDefinition, len(fields))
	for _, f := range fields {
		byName[f.FieldName] = f
	}

	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		sectionFields := make([]model.FieldDefinition, 0, len(s.Fields))
		for _, name := range s.Fields {
			field, ok := byName[name]
			if !ok {
				field = model.FieldDefinition{FieldName: name, Label: name, FieldType: model.FieldTypeText, IsCustom: true}
			}
			sectionFields = append(sectionFields, field)
		}

		controls, err := Render(ctx, sectionFields, record, mode, namer)
		if err != nil {
			return nil, err
		}
		out = append(out, Section{Title: s.Title, Columns: s.Columns, Controls: controls})
	}
	return out, nil
}
