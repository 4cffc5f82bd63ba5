package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind is the dynamic kind held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindList
	KindMap
	KindText
)

var kindNames = map[Kind]string{
	KindNull:  "null",
	KindBool:  "bool",
	KindInt:   "int",
	KindFloat: "float",
	KindList:  "list",
	KindMap:   "map",
	KindText:  "text",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind returns the Kind for a name produced by Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindNull, false
}

// Value is a setting value drawn from a closed set of kinds.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]any
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// List wraps a list of values. A nil slice becomes an empty list.
func List(items ...Value) Value {
	list := make([]Value, len(items))
	copy(list, items)
	return Value{kind: KindList, list: list}
}

// Strings builds a list of text values.
func Strings(items []string) Value {
	list := make([]Value, len(items))
	for i, s := range items {
		list[i] = Text(s)
	}
	return Value{kind: KindList, list: list}
}

// Map wraps a JSON-like object. Nested values are normalized so that numbers are
// int64 or float64, sequences are []any and objects are map[string]any.
func Map(m map[string]any) Value {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return Value{kind: KindMap, m: out}
}

// FromAny converts a decoded document value into a Value.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case *Value:
		if t == nil {
			return Null()
		}
		return *t
	case bool:
		return Bool(t)
	case string:
		return Text(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if f, err := t.Float64(); err == nil {
			return Float(f)
		}
		return Text(t.String())
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return fromUint(uint64(t))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return fromUint(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case []Value:
		return List(t...)
	case []string:
		return Strings(t)
	case []any:
		list := make([]Value, len(t))
		for i, item := range t {
			list[i] = FromAny(item)
		}
		return Value{kind: KindList, list: list}
	case map[string]any:
		return Map(t)
	case map[any]any:
		return Map(stringKeys(t))
	case time.Time:
		return Text(t.Format(time.RFC3339))
	case fmt.Stringer:
		return Text(t.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		list := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			list[i] = FromAny(rv.Index(i).Interface())
		}
		return Value{kind: KindList, list: list}
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return Map(m)
	}
	return Text(fmt.Sprint(v))
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

func stringKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}
	return out
}

// normalize reduces a decoded value to the JSON-like leaf set stored inside maps.
func normalize(v any) any {
	switch t := v.(type) {
	case nil, bool, string, int64, float64:
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		return normalize(stringKeys(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	}
	return FromAny(v).Interface()
}

// Kind returns the dynamic kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsText returns the string held by v.
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

// AsList returns a copy of the list held by v.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]Value, len(v.list))
	copy(out, v.list)
	return out, true
}

// AsMap returns the object held by v.
func (v Value) AsMap() (map[string]any, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Len returns the length of a list or map, the rune count of text and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	case KindText:
		return len([]rune(v.s))
	}
	return 0
}

// Interface returns the native Go representation of v.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, item := range v.m {
			out[k] = item
		}
		return out
	}
	return nil
}

// String renders v for display in a form field.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return FormatFloat(v.f)
	case KindText:
		return v.s
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ", ")
	case KindMap:
		data, err := json.Marshal(floatLeaves(v.m))
		if err != nil {
			return fmt.Sprint(v.m)
		}
		return string(data)
	}
	return ""
}

// FormatFloat renders a float with the fewest digits that parse back to the same value.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindText:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return reflect.DeepEqual(v.m, other.m)
	}
	return false
}

// MarshalJSON encodes v as its native JSON value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON value. Integral numbers become ints.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := decodeJSON(data)
	if err != nil {
		return err
	}
	*v = FromAny(decoded)
	return nil
}

// MarshalYAML encodes v as its native value.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON value")
	}
	return out, nil
}

// ParseJSON decodes text as JSON using int/float aware number handling.
func ParseJSON(text string) (any, error) {
	return decodeJSON([]byte(text))
}

// taggedValue is the persisted envelope that keeps the kind next to the payload.
type taggedValue struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalTagged encodes v with its kind so ints and floats survive storage.
func MarshalTagged(v Value) ([]byte, error) {
	payload, err := taggedPayload(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(taggedValue{Kind: v.kind.String(), Value: payload})
}

func taggedPayload(v Value) (json.RawMessage, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindList:
		items := make([]json.RawMessage, len(v.list))
		for i, item := range v.list {
			data, err := MarshalTagged(item)
			if err != nil {
				return nil, err
			}
			items[i] = data
		}
		return json.Marshal(items)
	case KindMap:
		return json.Marshal(floatLeaves(v.m))
	}
	return json.Marshal(v.Interface())
}

// floatLeaves rewrites float leaves as numbers that keep a decimal point,
// so integral floats decode back as floats instead of ints.
func floatLeaves(v any) any {
	switch t := v.(type) {
	case float64:
		text := FormatFloat(t)
		if !strings.ContainsAny(text, ".eEnN") {
			text += ".0"
		}
		return json.Number(text)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = floatLeaves(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = floatLeaves(item)
		}
		return out
	}
	return v
}

// UnmarshalTagged decodes an envelope produced by MarshalTagged.
func UnmarshalTagged(data []byte) (Value, error) {
	var env taggedValue
	if err := json.Unmarshal(data, &env); err != nil {
		return Null(), err
	}
	kind, ok := ParseKind(env.Kind)
	if !ok {
		return Null(), fmt.Errorf("unknown value kind %q", env.Kind)
	}
	if kind == KindNull {
		return Null(), nil
	}
	if len(env.Value) == 0 {
		return Null(), fmt.Errorf("missing payload for %s value", env.Kind)
	}

	switch kind {
	case KindBool:
		var b bool
		err := json.Unmarshal(env.Value, &b)
		return Bool(b), err
	case KindInt:
		var i int64
		err := json.Unmarshal(env.Value, &i)
		return Int(i), err
	case KindFloat:
		var f float64
		err := json.Unmarshal(env.Value, &f)
		return Float(f), err
	case KindText:
		var s string
		err := json.Unmarshal(env.Value, &s)
		return Text(s), err
	case KindList:
		var items []json.RawMessage
		if err := json.Unmarshal(env.Value, &items); err != nil {
			return Null(), err
		}
		list := make([]Value, len(items))
		for i, item := range items {
			decoded, err := UnmarshalTagged(item)
			if err != nil {
				return Null(), err
			}
			list[i] = decoded
		}
		return Value{kind: KindList, list: list}, nil
	default:
		decoded, err := decodeJSON(env.Value)
		if err != nil {
			return Null(), err
		}
		m, ok := decoded.(map[string]any)
		if !ok {
			return Null(), fmt.Errorf("map payload is %T", decoded)
		}
		return Map(m), nil
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
