// Package crm 客户、联系人、商机的增删改查，以及跨实体搜索和首页统计
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/fisker/crm-backend/internal/form"
	"github.com/fisker/crm-backend/internal/metadata"
	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/pkg/metrics"
	"github.com/fisker/crm-backend/pkg/validate"
	"gorm.io/datatypes"
)

// AccountChecker 校验关联客户是否存在
type AccountChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// textValue 去掉首尾空白；未提供、null 或空串返回 nil
func textValue(o model.Optional[string]) interface{} {
	if !o.Present() {
		return nil
	}
	s := strings.TrimSpace(o.Value)
	if s == "" {
		return nil
	}
	return s
}

func textPtr(o model.Optional[string]) *string {
	if v, ok := textValue(o).(string); ok {
		return &v
	}
	return nil
}

// requiredErrors 按内置字段描述校验必填项，只检查 values 中出现的字段名
func requiredErrors(objectType model.ObjectType, values map[string]interface{}, onlyPresent bool) *model.ValidationError {
	fields := model.BuiltinFields(objectType)
	if onlyPresent {
		filtered := fields[:0]
		for _, f := range fields {
			if _, ok := values[f.FieldName]; ok {
				filtered = append(filtered, f)
			}
		}
		fields = filtered
	}

	verr := model.NewValidationError()
	for name, msg := range form.ValidateRequired(fields, values) {
		verr.Add(name, msg)
	}
	return verr
}

// setIfSet 只有请求中出现的字段才参与部分更新
func setIfSet(values map[string]interface{}, name string, o model.Optional[string]) {
	if o.Set {
		values[name] = textValue(o)
	}
}

func customFieldsValue(o model.Optional[map[string]any]) datatypes.JSONMap {
	if !o.Present() || o.Value == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(o.Value)
}

func checkEmail(verr *model.ValidationError, email interface{}) {
	if s, ok := email.(string); ok && !validate.Email(s) {
		verr.Add("email", "Invalid email")
	}
}

// InvalidAccountMessage accountId 不是 UUID 时的错误信息
const InvalidAccountMessage = "Valid account is required"

// checkAccountRef accountId 非空时必须是已存在客户的ID
func checkAccountRef(ctx context.Context, accounts AccountChecker, verr *model.ValidationError, accountID interface{}) error {
	id, ok := accountID.(string)
	if !ok {
		return nil
	}
	if !validate.UUID(id) {
		verr.Add("accountId", InvalidAccountMessage)
		return nil
	}
	exists, err := accounts.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		verr.Add("accountId", "Account not found")
	}
	return nil
}

var (
	amountField    = model.FieldDefinition{FieldName: "amount", FieldType: model.FieldTypeNumber}
	closeDateField = model.FieldDefinition{FieldName: "closeDate", FieldType: model.FieldTypeDate}
)

// decodeAmount 金额接受数字或字符串，空串或 null 视为空值
func decodeAmount(raw json.RawMessage) (metadata.Value, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, &metadata.CoercionError{Field: "amount", Message: "Must be a number"}
	}
	return metadata.DecodeValue(amountField, v)
}

func recordWrite(objectType model.ObjectType, op string) {
	metrics.RecordsWritten.WithLabelValues(string(objectType), op).Inc()
}

func coercionMessage(err error) string {
	var ce *metadata.CoercionError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
