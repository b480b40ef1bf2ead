// Package form 根据解析后的字段列表生成表单控件、强制类型转换、校验必填字段，以及渲染可过滤的表格
package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/fisker/crm-backend/internal/metadata"
	"github.com/fisker/crm-backend/internal/model"
)

// RequiredMessage 必填字段为空时的错误信息
const RequiredMessage = "Required"

// Mode 渲染模式
type Mode string

const (
	ModeEdit Mode = "edit"
	ModeView Mode = "view"
)

// ParseMode 缺省为 edit
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeEdit:
		return ModeEdit, nil
	case ModeView:
		return ModeView, nil
	}
	return "", model.FieldError("mode", "Must be one of: edit, view")
}

// ControlKind 控件类型，与 FieldType 一一对应
type ControlKind string

const (
	ControlTextInput   ControlKind = "text_input"
	ControlNumberInput ControlKind = "number_input"
	ControlDateInput   ControlKind = "date_input"
	ControlToggle      ControlKind = "toggle"
	ControlSelect      ControlKind = "select"
	ControlLookup      ControlKind = "lookup"
)

// KindFor 字段类型对应的控件
func KindFor(fieldType model.FieldType) (ControlKind, error) {
	switch fieldType {
	case model.FieldTypeText:
		return ControlTextInput, nil
	case model.FieldTypeNumber:
		return ControlNumberInput, nil
	case model.FieldTypeDate:
		return ControlDateInput, nil
	case model.FieldTypeBoolean:
		return ControlToggle, nil
	case model.FieldTypePicklist:
		return ControlSelect, nil
	case model.FieldTypeLookup:
		return ControlLookup, nil
	default:
		return "", fmt.Errorf("%w: %q", metadata.ErrUnsupportedFieldType, fieldType)
	}
}

// Control 一个字段的输入控件（或只读模式下的展示项）
type Control struct {
	FieldName   string      `json:"fieldName"`
	Label       string      `json:"label"`
	Kind        ControlKind `json:"kind"`
	Required    bool        `json:"required"`
	ReadOnly    bool        `json:"readOnly"`
	Options     []string    `json:"options,omitempty"`
	Value       interface{} `json:"value"`
	Display     string      `json:"display"`
	LookupLabel *string     `json:"lookupLabel,omitempty"`
}

// Render 每个字段生成一个控件。值按字段类型转换，无法转换的存量值原样返回
func Render(ctx context.Context, fields []model.FieldDefinition, record metadata.Record, mode Mode, namer metadata.AccountNamer) ([]Control, error) {
	controls := make([]Control, 0, len(fields))
	for _, field := range fields {
		control, err := renderControl(ctx, field, record, mode, namer)
		if err != nil {
			return nil, err
		}
		controls = append(controls, control)
	}
	return controls, nil
}

func renderControl(ctx context.Context, field model.FieldDefinition, record metadata.Record, mode Mode, namer metadata.AccountNamer) (Control, error) {
	kind, err := KindFor(field.FieldType)
	if err != nil {
		return Control{}, err
	}
	control := Control{
		FieldName: field.FieldName,
		Label:     field.Label,
		Kind:      kind,
		Required:  field.Required,
		ReadOnly:  mode == ModeView,
	}
	if kind == ControlSelect {
		control.Options = append([]string{}, field.Options...)
	}
	if record == nil {
		if v, err := metadata.DecodeValue(field, nil); err == nil {
			control.Value = metadata.EncodeValue(v)
		}
		return control, nil
	}

	raw, _ := metadata.ResolveValue(record, field.FieldName)
	if v, err := metadata.DecodeValue(field, raw); err == nil {
		control.Value = metadata.EncodeValue(v)
	} else {
		control.Value = raw
	}

	display, err := metadata.ResolveDisplay(ctx, record, field, namer)
	if err != nil {
		return Control{}, err
	}
	if kind == ControlLookup && control.Value != nil {
		control.LookupLabel = &display
	}
	if control.ReadOnly {
		control.Display = display
	}
	return control, nil
}

// Coerce 把提交的原始值转换为字段类型的 JSON 表示
func Coerce(field model.FieldDefinition, raw interface{}) (interface{}, error) {
	v, err := metadata.DecodeValue(field, raw)
	if err != nil {
		return nil, err
	}
	return metadata.EncodeValue(v), nil
}

// IsEmpty null、空字符串或缺失都视为空；只含空白的字符串不算空
func IsEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// ValidateRequired 返回必填字段为空时的错误（字段名 -> 信息）
func ValidateRequired(fields []model.FieldDefinition, values map[string]interface{}) map[string]string {
	errs := map[string]string{}
	for _, field := range fields {
		if !field.Required {
			continue
		}
		if IsEmpty(values[field.FieldName]) {
			errs[field.FieldName] = RequiredMessage
		}
	}
	return errs
}

// Result 表单提交结果
type Result struct {
	Valid  bool                   `json:"valid"`
	Values map[string]interface{} `json:"values"`
	Errors map[string]string      `json:"errors"`
}

// Submit 转换全部字段并校验必填；任何错误都会阻止提交。未定义的字段被丢弃
func Submit(fields []model.FieldDefinition, raw map[string]interface{}) Result {
	result := Result{Values: map[string]interface{}{}, Errors: map[string]string{}}
	for _, field := range fields {
		v, err := Coerce(field, raw[field.FieldName])
		if err != nil {
			result.Errors[field.FieldName] = coercionMessage(err)
			continue
		}
		result.Values[field.FieldName] = v
	}
	for name, msg := range ValidateRequired(fields, result.Values) {
		if _, exists := result.Errors[name]; !exists {
			result.Errors[name] = msg
		}
	}
	result.Valid = len(result.Errors) == 0
	return result
}

func coercionMessage(err error) string {
	var ce *metadata.CoercionError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
