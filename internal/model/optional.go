package model

import (
	"bytes"
	"encoding/json"
)

// Optional はリクエストボディの1フィールドを表す。
// Presentはキーが指定されたこと、Validは値がnullでないことを示す。
// 部分更新では Present が false のフィールドは変更しない。
type Optional[T any] struct {
	Present bool
	Valid   bool
	Value   T
}

// Some は値が指定されたOptionalを返す。
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Valid: true, Value: v}
}

// Null はnullが明示的に指定されたOptionalを返す。
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

// UnmarshalJSON はjson.Unmarshalerを実装する。キーが存在する場合のみ呼ばれる。
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
