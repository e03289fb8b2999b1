package entity

import (
	"bytes"
	"encoding/json"
)

// Patch is a tri-state update value for nullable columns: absent, explicit null, or a value.
type Patch[T any] struct {
	IsSet  bool
	IsNull bool
	Value  T
}

func Unset[T any]() Patch[T]  { return Patch[T]{} }
func Null[T any]() Patch[T]   { return Patch[T]{IsSet: true, IsNull: true} }
func Set[T any](v T) Patch[T] { return Patch[T]{IsSet: true, Value: v} }

func (p Patch[T]) HasValue() bool { return p.IsSet && !p.IsNull }

// Ptr returns the patched value as a pointer, nil for null.
func (p Patch[T]) Ptr() *T {
	if !p.HasValue() {
		return nil
	}

	v := p.Value

	return &v
}

// Apply returns the value current should take after the patch.
func (p Patch[T]) Apply(current *T) *T {
	if !p.IsSet {
		return current
	}

	return p.Ptr()
}

// UnmarshalJSON is only called for keys present in the document, so absence stays Unset.
func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	p.IsSet = true

	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T

		p.IsNull = true
		p.Value = zero

		return nil
	}

	p.IsNull = false

	return json.Unmarshal(b, &p.Value)
}
