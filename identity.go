package enform

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Equality decides whether two initial configurations describe the same
// form. Reconfigure resets the form only when it returns false.
type Equality func(prev, next Values) bool

// marker is the order-normalized serialization of an initial configuration.
// ok is false when some value could not be serialized.
type marker struct {
	text string
	ok   bool
}

// identify serializes initial with its keys in sorted order. Nested maps are
// key sorted by the JSON encoder, so key order never affects the result.
func identify(initial Values) marker {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range initial.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(field))
		buf.WriteByte(':')
		raw, err := json.Marshal(finite(initial[field]))
		if err != nil {
			return marker{}
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return marker{text: buf.String(), ok: true}
}

// same reports whether two markers describe the same configuration. A marker
// that failed to serialize never matches, so such configurations always
// reset.
func (m marker) same(other marker) bool {
	return m.ok && other.ok && m.text == other.text
}

// nonFinite stands in for NaN and infinite floats, which JSON cannot carry.
type nonFinite float64

func (n nonFinite) MarshalJSON() ([]byte, error) {
	return []byte(`{"$float":` + strconv.Quote(strconv.FormatFloat(float64(n), 'g', -1, 64)) + `}`), nil
}

// finite replaces non-finite floats in v, including inside nested maps and
// slices decoded from documents, so equal configurations serialize equally.
func finite(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nonFinite(x)
		}
	case float32:
		if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
			return nonFinite(f)
		}
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = finite(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = finite(item)
		}
		return out
	case Values:
		return finite(map[string]any(x))
	}
	return v
}
