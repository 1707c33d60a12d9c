package jsonval

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Value is a dynamically-typed JSON value backed by raw JSON text.
// The zero Value reports Exists() == false and every typed getter
// returns its default. It powers req.Body and everything middleware
// exchanges through it.
type Value struct {
	raw []byte
	ok  bool
}

// Parse validates data as JSON and wraps it in a Value.
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, fmt.Errorf("invalid JSON document")
	}
	return Value{raw: data, ok: true}, nil
}

// Object returns an empty JSON object value.
func Object() Value {
	return Value{raw: []byte("{}"), ok: true}
}

// Null returns a JSON null value.
func Null() Value {
	return Value{raw: []byte("null"), ok: true}
}

// From marshals any Go value into a Value.
func From(v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("marshal value: %w", err)
	}
	return Value{raw: data, ok: true}, nil
}

// Exists reports whether the value holds a JSON document.
func (v Value) Exists() bool { return v.ok }

// Raw returns the underlying JSON text. Callers must not mutate it.
func (v Value) Raw() []byte {
	if !v.ok {
		return nil
	}
	return v.raw
}

// Stringify returns the JSON text form of the value. A zero Value
// stringifies to "null".
func (v Value) Stringify() []byte {
	if !v.ok {
		return []byte("null")
	}
	return v.raw
}

// MarshalJSON makes Value usable anywhere encoding/json is.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.Stringify(), nil
}

// Get returns the named member of an object. Missing keys yield a
// zero Value.
func (v Value) Get(key string) Value {
	if !v.ok {
		return Value{}
	}
	r := gjson.GetBytes(v.raw, escapePath(key))
	if !r.Exists() {
		return Value{}
	}
	return Value{raw: []byte(r.Raw), ok: true}
}

// Index returns the i-th element of an array. Out-of-range indexes
// yield a zero Value.
func (v Value) Index(i int) Value {
	if !v.ok || i < 0 {
		return Value{}
	}
	r := gjson.GetBytes(v.raw, strconv.Itoa(i))
	if !r.Exists() {
		return Value{}
	}
	return Value{raw: []byte(r.Raw), ok: true}
}

// Set returns a copy of the value with key set to val. Keys may be
// nested gjson-style paths ("user.name").
func (v Value) Set(key string, val any) (Value, error) {
	base := v.raw
	if !v.ok {
		base = []byte("{}")
	}
	out, err := sjson.SetBytes(base, escapePath(key), val)
	if err != nil {
		return v, fmt.Errorf("set %q: %w", key, err)
	}
	return Value{raw: out, ok: true}, nil
}

// Str returns the value as a string, or def when absent.
func (v Value) Str(def string) string {
	if !v.ok {
		return def
	}
	return v.result().String()
}

// Int returns the value as an int64, or def when absent.
func (v Value) Int(def int64) int64 {
	if !v.ok {
		return def
	}
	return v.result().Int()
}

// Float returns the value as a float64, or def when absent.
func (v Value) Float(def float64) float64 {
	if !v.ok {
		return def
	}
	return v.result().Float()
}

// Bool returns the value as a bool, or def when absent.
func (v Value) Bool(def bool) bool {
	if !v.ok {
		return def
	}
	return v.result().Bool()
}

// IsObject reports whether the value is a JSON object.
func (v Value) IsObject() bool {
	return v.ok && v.result().IsObject()
}

// IsArray reports whether the value is a JSON array.
func (v Value) IsArray() bool {
	return v.ok && v.result().IsArray()
}

// IsNull reports whether the value is JSON null.
func (v Value) IsNull() bool {
	return v.ok && v.result().Type == gjson.Null
}

// IsString reports whether the value is a JSON string.
func (v Value) IsString() bool {
	return v.ok && v.result().Type == gjson.String
}

// IsNumber reports whether the value is a JSON number.
func (v Value) IsNumber() bool {
	return v.ok && v.result().Type == gjson.Number
}

// IsBool reports whether the value is a JSON boolean.
func (v Value) IsBool() bool {
	if !v.ok {
		return false
	}
	t := v.result().Type
	return t == gjson.True || t == gjson.False
}

// Len returns the number of elements of an array, the number of
// members of an object, or 0.
func (v Value) Len() int {
	if !v.ok {
		return 0
	}
	r := v.result()
	if !r.IsArray() && !r.IsObject() {
		return 0
	}
	n := 0
	r.ForEach(func(_, _ gjson.Result) bool {
		n++
		return true
	})
	return n
}

// Keys returns the member names of an object in document order.
func (v Value) Keys() []string {
	if !v.ok {
		return nil
	}
	r := v.result()
	if !r.IsObject() {
		return nil
	}
	var keys []string
	r.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}

// Unmarshal decodes the value into target.
func (v Value) Unmarshal(target any) error {
	return json.Unmarshal(v.Stringify(), target)
}

func (v Value) result() gjson.Result {
	return gjson.ParseBytes(v.raw)
}

// escapePath keeps literal keys literal: gjson treats '.', '*' and '?'
// as path syntax.
func escapePath(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '\\':
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}
