package form

import (
	"context"
	"strings"

	"github.com/fisker/crm-backend/internal/metadata"
	"github.com/fisker/crm-backend/internal/model"
)

// Formatter 自定义单元格格式
type Formatter func(record metadata.Record) string

// Column 表格列：Format 为空时按字段类型展示
type Column struct {
	Field  model.FieldDefinition
	Label  string
	Format Formatter
}

// Row 一行的展示文本，与列一一对应
type Row struct {
	Record metadata.Record
	Cells  []string
}

// Table 显式列清单的表格
type Table struct {
	Columns []Column
	Namer   metadata.AccountNamer
}

// ColumnsFor 每个字段一列，标签取字段 label
func ColumnsFor(fields []model.FieldDefinition) []Column {
	columns := make([]Column, 0, len(fields))
	for _, f := range fields {
		columns = append(columns, Column{Field: f, Label: f.Label})
	}
	return columns
}

// Headers 列标题
func (t Table) Headers() []string {
	headers := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		headers = append(headers, c.Label)
	}
	return headers
}

// Rows 渲染每条记录并按 filter 过滤：任一可见单元格包含 filter（忽略大小写）即保留
// lookup 列的名称在渲染前一次性查询
func (t Table) Rows(ctx context.Context, records []metadata.Record, filter string) ([]Row, error) {
	var namer metadata.AccountNamer
	if t.Namer != nil {
		names, err := metadata.PrefetchNames(ctx, records, t.lookupFields(), t.Namer)
		if err != nil {
			return nil, err
		}
		namer = names
	}

	needle := strings.ToLower(strings.TrimSpace(filter))
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		cells := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			text, err := renderCell(ctx, c, record, namer)
			if err != nil {
				return nil, err
			}
			cells = append(cells, text)
		}
		if needle != "" && !anyContains(cells, needle) {
			continue
		}
		rows = append(rows, Row{Record: record, Cells: cells})
	}
	return rows, nil
}

func (t Table) lookupFields() []model.FieldDefinition {
	var fields []model.FieldDefinition
	for _, c := range t.Columns {
		if c.Format == nil && c.Field.FieldType == model.FieldTypeLookup {
			fields = append(fields, c.Field)
		}
	}
	return fields
}

func renderCell(ctx context.Context, c Column, record metadata.Record, namer metadata.AccountNamer) (string, error) {
	if c.Format != nil {
		return c.Format(record), nil
	}
	return metadata.ResolveDisplay(ctx, record, c.Field, namer)
}

func anyContains(cells []string, needle string) bool {
	for _, cell := range cells {
		if strings.Contains(strings.ToLower(cell), needle) {
			return true
		}
	}
	return false
}
