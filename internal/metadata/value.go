package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/shopspring/decimal"
)

// ErrUnsupportedFieldType 未处理的字段类型
var ErrUnsupportedFieldType = errors.New("unsupported field type")

// Value 自定义字段值的带类型表示，nil 表示空值
type Value interface {
	FieldType() model.FieldType
}

type TextValue string

type NumberValue struct {
	decimal.Decimal
}

type DateValue struct {
	model.Date
}

type BoolValue bool

type PicklistValue string

// LookupValue 被引用记录的ID
type LookupValue string

func (TextValue) FieldType() model.FieldType     { return model.FieldTypeText }
func (NumberValue) FieldType() model.FieldType   { return model.FieldTypeNumber }
func (DateValue) FieldType() model.FieldType     { return model.FieldTypeDate }
func (BoolValue) FieldType() model.FieldType     { return model.FieldTypeBoolean }
func (PicklistValue) FieldType() model.FieldType { return model.FieldTypePicklist }
func (LookupValue) FieldType() model.FieldType   { return model.FieldTypeLookup }

// CoercionError 值与字段类型不匹配，Message 可直接展示给用户
type CoercionError struct {
	Field   string
	Message string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func coercionError(field model.FieldDefinition, format string, args ...interface{}) error {
	return &CoercionError{Field: field.FieldName, Message: fmt.Sprintf(format, args...)}
}

// DecodeValue 把 JSON 解出的无类型值转换为字段类型对应的 Value。
// 空字符串和 null 解码为 nil；boolean 的缺省值为 false
func DecodeValue(field model.FieldDefinition, raw interface{}) (Value, error) {
	switch field.FieldType {
	case model.FieldTypeText:
		return decodeText(field, raw)
	case model.FieldTypeNumber:
		return decodeNumber(field, raw)
	case model.FieldTypeDate:
		return decodeDate(field, raw)
	case model.FieldTypeBoolean:
		return decodeBool(field, raw)
	case model.FieldTypePicklist:
		return decodePicklist(field, raw)
	case model.FieldTypeLookup:
		return decodeLookup(field, raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFieldType, field.FieldType)
	}
}

// EncodeValue 转换为可写入 JSON 的值
func EncodeValue(v Value) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case TextValue:
		return string(val)
	case NumberValue:
		return json.Number(val.Decimal.String())
	case DateValue:
		return val.Date.String()
	case BoolValue:
		return bool(val)
	case PicklistValue:
		return string(val)
	case LookupValue:
		return string(val)
	default:
		panic(fmt.Sprintf("metadata: unknown value %T", v))
	}
}

// DisplayString 只读展示用的文本
func DisplayString(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case TextValue:
		return string(val)
	case NumberValue:
		return val.Decimal.String()
	case DateValue:
		return val.Date.String()
	case BoolValue:
		if val {
			return "Yes"
		}
		return "No"
	case PicklistValue:
		return string(val)
	case LookupValue:
		return string(val)
	default:
		panic(fmt.Sprintf("metadata: unknown value %T", v))
	}
}

func isEmpty(raw interface{}) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && s == ""
}

func decodeText(field model.FieldDefinition, raw interface{}) (Value, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	switch v := raw.(type) {
	case string:
		return TextValue(v), nil
	case float64, int, int64, bool, json.Number:
		return TextValue(fmt.Sprint(v)), nil
	}
	return nil, coercionError(field, "Must be text")
}

func decodeNumber(field model.FieldDefinition, raw interface{}) (Value, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	switch v := raw.(type) {
	case decimal.Decimal:
		return NumberValue{v}, nil
	case float64:
		return NumberValue{decimal.NewFromFloat(v)}, nil
	case int:
		return NumberValue{decimal.NewFromInt(int64(v))}, nil
	case int64:
		return NumberValue{decimal.NewFromInt(v)}, nil
	case json.Number:
		return parseNumber(field, v.String())
	case string:
		return parseNumber(field, strings.TrimSpace(v))
	}
	return nil, coercionError(field, "Must be a number")
}

func parseNumber(field model.FieldDefinition, s string) (Value, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, coercionError(field, "Must be a number")
	}
	return NumberValue{d}, nil
}

func decodeDate(field model.FieldDefinition, raw interface{}) (Value, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	switch v := raw.(type) {
	case model.Date:
		return DateValue{v}, nil
	case time.Time:
		return DateValue{model.NewDate(v)}, nil
	case string:
		d, err := model.ParseDate(v)
		if err != nil {
			return nil, coercionError(field, "Must be a date (YYYY-MM-DD)")
		}
		return DateValue{d}, nil
	}
	return nil, coercionError(field, "Must be a date (YYYY-MM-DD)")
}

func decodeBool(field model.FieldDefinition, raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return BoolValue(false), nil
	case bool:
		return BoolValue(v), nil
	case float64:
		return BoolValue(v != 0), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, coercionError(field, "Must be true or false")
		}
		return BoolValue(f != 0), nil
	case string:
		if v == "" {
			return BoolValue(false), nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, coercionError(field, "Must be true or false")
		}
		return BoolValue(b), nil
	}
	return nil, coercionError(field, "Must be true or false")
}

func decodePicklist(field model.FieldDefinition, raw interface{}) (Value, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, coercionError(field, "Must be one of: %s", strings.Join(field.Options, ", "))
	}
	if len(field.Options) > 0 && !field.HasOption(s) {
		return nil, coercionError(field, "Must be one of: %s", strings.Join(field.Options, ", "))
	}
	return PicklistValue(s), nil
}

func decodeLookup(field model.FieldDefinition, raw interface{}) (Value, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, coercionError(field, "Must be a record id")
	}
	return LookupValue(s), nil
}
