package store

import "reflect"

// EqualityChecker reports whether two projections are equal. It must be pure
// and deterministic.
type EqualityChecker[P any] func(prev, next P) bool

// Projection is the default per-key view of a cache entry.
type Projection struct {
	Data    any   `json:"data,omitempty"`
	Error   error `json:"-"`
	Loading bool  `json:"loading"`
}

// DefaultEqualityChecker compares Data, Error and Loading by identity or
// value: comparable values with ==, maps, slices, channels and pointers by
// reference. Data is never compared deeply, so an adapter that allocates an
// equal but distinct value on every reduction causes a signal per dispatch.
// Use equality.Deep when that matters.
func DefaultEqualityChecker(prev, next Projection) bool {
	return prev.Loading == next.Loading &&
		sameValue(prev.Error, next.Error) &&
		sameValue(prev.Data, next.Data)
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Func:
		return false
	}
	if !va.Comparable() {
		return false
	}
	return a == b
}

// sameState reports whether a reducer returned its input: sameValue, with
// structs also matching when each exported field is the same value.
func sameState(a, b any) bool {
	if sameValue(a, b) {
		return true
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || va.Kind() != reflect.Struct || va.Type() != vb.Type() {
		return false
	}
	for i := range va.NumField() {
		if !va.Type().Field(i).IsExported() {
			return false
		}
		if !sameValue(va.Field(i).Interface(), vb.Field(i).Interface()) {
			return false
		}
	}
	return true
}

// sameDependency is sameValue with funcs compared by code pointer.
func sameDependency(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() == vb.Type() && va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	return sameValue(a, b)
}
