package enform

import (
	"maps"
	"math"
	"reflect"
	"slices"
)

// Values maps field names to their current values. The form never inspects
// the values themselves, it only stores, copies and compares them.
type Values map[string]any

// Clone returns a shallow copy of v. A nil Values clones to an empty one.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// Fields returns the field names of v in sorted order.
func (v Values) Fields() []string {
	return slices.Sorted(maps.Keys(v))
}

// Errors maps field names to their error state. A field is valid when its
// entry is false. Any truthy entry marks the field invalid and carries the
// error payload, typically a message string.
type Errors map[string]any

// Clone returns a shallow copy of e.
func (e Errors) Clone() Errors {
	if e == nil {
		return Errors{}
	}
	return maps.Clone(e)
}

// Has reports whether field currently holds a truthy error.
func (e Errors) Has(field string) bool {
	return Truthy(e[field])
}

// Invalid returns the sorted names of every field holding a truthy error.
func (e Errors) Invalid() []string {
	var fields []string
	for field, state := range e {
		if Truthy(state) {
			fields = append(fields, field)
		}
	}
	slices.Sort(fields)
	return fields
}

// Valid reports whether no entry of e is truthy. Errors injected through
// SetErrors count, so this may disagree with the last Validate result.
func (e Errors) Valid() bool {
	for _, state := range e {
		if Truthy(state) {
			return false
		}
	}
	return true
}

// errorsFor builds an all-valid error map keyed by the fields of initial.
func errorsFor(initial Values) Errors {
	errs := make(Errors, len(initial))
	for field := range initial {
		errs[field] = false
	}
	return errs
}

// Truthy reports whether v counts as a present error payload.
//
// nil, false, the empty string, numeric zero, NaN and nil pointers, maps,
// slices, funcs, channels and interfaces are falsy. Everything else,
// including empty maps, empty slices and structs, is truthy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

// normalize maps every falsy error state to false so that false is the only
// stored representation of "validated and passed".
func normalize(state any) any {
	if !Truthy(state) {
		return false
	}
	return state
}

// sameValue is strict equality on raw values. Comparable values compare with
// ==. Slices, maps and funcs compare by identity: same backing pointer, and
// for slices the same length.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return safeEqual(a, b)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	default:
		// Structs or arrays holding uncomparable members have no identity.
		return false
	}
}

// safeEqual compares two values of the same comparable type. Interface
// members of a struct may still hold uncomparable values at run time, in
// which case the values are reported as different.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
