package dto

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that distinguishes three states: absent from the
// document (Set == false), explicit null (Set && Null), and present with a
// value. Partial updates rely on this to apply exactly the fields the caller
// supplied.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON is only invoked for fields present in the document, so Set
// is true exactly when the caller supplied the field.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON renders absent and null states both as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
