package contracts

import "encoding/json"

// Optional carries a value together with an explicit availability flag.
// Upstream fetches that fail produce None rather than a nil that has to be
// checked at every hop.
type Optional[T any] struct {
	value T
	valid bool
}

// Some wraps an available value
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// None returns an unavailable value
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is available
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// Valid reports whether a value is present
func (o Optional[T]) Valid() bool {
	return o.valid
}

// OrElse returns the value or fallback when unavailable
func (o Optional[T]) OrElse(fallback T) T {
	if o.valid {
		return o.value
	}
	return fallback
}

// FromOK builds an Optional from a (value, ok) pair
func FromOK[T any](v T, ok bool) Optional[T] {
	if !ok {
		return None[T]()
	}
	return Some(v)
}

// MarshalJSON encodes an unavailable value as null
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as an unavailable value
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
