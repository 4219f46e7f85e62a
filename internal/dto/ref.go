package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Ref 请求中对其他记录主键的引用
// Set 表示请求中出现了该字段, Value 为 nil 表示显式传入 null
// 支持数字和数字字符串两种写法
type Ref struct {
	Set   bool
	Value *uint
}

// RefTo 引用指定ID
func RefTo(id uint) Ref {
	return Ref{Set: true, Value: &id}
}

// NullRef 显式置空的引用
func NullRef() Ref {
	return Ref{Set: true}
}

// IsNull 未提供或显式为 null
func (r Ref) IsNull() bool {
	return r.Value == nil
}

// UnmarshalJSON 解析数字, 数字字符串或 null
func (r *Ref) UnmarshalJSON(data []byte) error {
	r.Set = true
	r.Value = nil

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("无效的ID: %s", data)
	}
	v := uint(id)
	r.Value = &v
	return nil
}

// MarshalJSON 未设置时输出 null
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatUint(uint64(*r.Value), 10)), nil
}
