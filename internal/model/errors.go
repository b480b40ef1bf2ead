package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalidObjectType 未知对象类型，属于调用方错误
	ErrInvalidObjectType = errors.New("invalid object type")
	// ErrBuiltInField 内置字段不可删除
	ErrBuiltInField = errors.New("cannot delete built-in fields")
	// ErrUnauthorized 测试数据口令错误
	ErrUnauthorized = errors.New("invalid password")
	// ErrForbidden 测试数据功能未启用
	ErrForbidden = errors.New("test data generation is disabled")
	// ErrBusy 已有生成任务在运行
	ErrBusy = errors.New("test data job already running")
	// ErrDuplicateKey 违反唯一索引
	ErrDuplicateKey = errors.New("duplicate key")
)

// NotFoundError 带实体名的不存在错误，errors.Is(err, ErrNotFound) 为 true
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFound 创建不存在错误
func NewNotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// ValidationError 输入校验失败，按字段归集错误信息
type ValidationError struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// NewValidationError 创建空的校验错误
func NewValidationError() *ValidationError {
	return &ValidationError{FormErrors: []string{}, FieldErrors: map[string][]string{}}
}

// FieldError 单字段校验错误
func FieldError(field, message string) *ValidationError {
	v := NewValidationError()
	v.Add(field, message)
	return v
}

// FormError 非字段级错误（例如请求体不是合法JSON）
func FormError(message string) *ValidationError {
	v := NewValidationError()
	v.FormErrors = append(v.FormErrors, message)
	return v
}

// Add 追加字段错误
func (e *ValidationError) Add(field, message string) {
	e.FieldErrors[field] = append(e.FieldErrors[field], message)
}

// Merge 合并另一个校验错误
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.FormErrors = append(e.FormErrors, other.FormErrors...)
	for field, msgs := range other.FieldErrors {
		e.FieldErrors[field] = append(e.FieldErrors[field], msgs...)
	}
}

// HasErrors 是否包含错误
func (e *ValidationError) HasErrors() bool {
	return len(e.FormErrors) > 0 || len(e.FieldErrors) > 0
}

// OrNil 没有错误时返回 nil，避免返回带类型的空接口
func (e *ValidationError) OrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.FormErrors)+len(e.FieldErrors))
	parts = append(parts, e.FormErrors...)
	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.FieldErrors[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
