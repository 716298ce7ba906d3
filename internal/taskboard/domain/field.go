package domain

// Field is one slot of a partial update. Set reports whether the caller
// supplied it at all; a set Field with a nil Value is an explicit null.
type Field[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Field[T] { return Field[T]{Set: true, Value: &v} }

func Null[T any]() Field[T] { return Field[T]{Set: true} }

// Get returns the value and whether a non-null value was supplied.
func (f Field[T]) Get() (T, bool) {
	if !f.Set || f.Value == nil {
		var zero T
		return zero, false
	}
	return *f.Value, true
}
