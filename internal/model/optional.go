package model

import (
	"bytes"
	"encoding/json"
)

// Optional 区分 JSON 中"未提供"、"显式 null"与"有值"三种状态，用于部分更新
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some 构造有值的 Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null 构造显式 null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present 已提供且不为 null
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Ptr 有值时返回指针，否则 nil
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON 只在字段出现时被调用
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
