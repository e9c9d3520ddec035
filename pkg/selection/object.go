// Package selection models the JSON-like values a caller hands to the query
// builder: selection objects, argument values and raw responses.
//
// Values are one of nil, bool, float64, string, time.Time, []any or *Object.
// Objects keep their keys in insertion order, which drives the order of the
// built document and of the diagnostic echo.
package selection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// ISOLayout is the canonical timestamp form used when dates are serialized.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// Object is an insertion-ordered map from string keys to values.
type Object struct {
	keys   []string
	values map[string]any
}

// Entry is a single key/value pair of an Object.
type Entry struct {
	Key   string
	Value any
}

func New() *Object {
	return &Object{values: map[string]any{}}
}

// Of builds an object from alternating keys and values. It panics when a key
// is not a string, so it is meant for literals.
func Of(pairs ...any) *Object {
	if len(pairs)%2 != 0 {
		panic("selection.Of: odd number of arguments")
	}
	o := New()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("selection.Of: key %v is not a string", pairs[i]))
		}
		o.Set(key, pairs[i+1])
	}
	return o
}

// Set stores a value. Overwriting a key keeps its original position.
func (o *Object) Set(key string, value any) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = Normalize(value)
	return o
}

func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

func (o *Object) Entries() []Entry {
	if o == nil {
		return nil
	}
	entries := make([]Entry, len(o.keys))
	for i, k := range o.keys {
		entries[i] = Entry{Key: k, Value: o.values[k]}
	}
	return entries
}

// Without returns a shallow copy lacking the given keys.
func (o *Object) Without(keys ...string) *Object {
	out := New()
	for _, e := range o.Entries() {
		skip := false
		for _, k := range keys {
			if e.Key == k {
				skip = true
				break
			}
		}
		if !skip {
			out.Set(e.Key, e.Value)
		}
	}
	return out
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	out := New()
	for _, e := range o.Entries() {
		out.Set(e.Key, cloneValue(e.Value))
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Object:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// DeepExtend merges source onto target and returns the result. Nested objects
// present on both sides are merged recursively, anything else is replaced.
// Neither input is modified.
func DeepExtend(target, source *Object) *Object {
	out := target.Clone()
	for _, e := range source.Entries() {
		existing, _ := out.Get(e.Key)
		to, targetIsObject := existing.(*Object)
		so, sourceIsObject := e.Value.(*Object)
		if targetIsObject && sourceIsObject {
			out.Set(e.Key, DeepExtend(to, so))
			continue
		}
		out.Set(e.Key, cloneValue(e.Value))
	}
	return out
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	switch val := v.(type) {
	case time.Time:
		return json.Marshal(val.UTC().Format(ISOLayout))
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := marshalValue(item)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(val, 'f', -1, 64)), nil
	default:
		return json.Marshal(val)
	}
}

// Normalize converts Go values into the selection value universe. Integer
// and float kinds become float64, typed slices become []any and string-keyed
// maps become objects with sorted keys.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil, bool, float64, string, time.Time, *Object:
		return v
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := New()
		for _, k := range keys {
			o.Set(k, val[k])
		}
		return o
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32:
		return rv.Float()
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return v
}

// Truthy reports whether v would pass a JavaScript truthiness check.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case string:
		return val != ""
	default:
		return true
	}
}

// IsObjectLike reports whether v is an object, a list or null.
func IsObjectLike(v any) bool {
	switch v.(type) {
	case nil, *Object, []any:
		return true
	}
	return false
}

// Lookup walks v following path. List elements are addressed by decimal index.
func Lookup(v any, path []string) (any, bool) {
	current := v
	for _, key := range path {
		switch val := current.(type) {
		case *Object:
			next, ok := val.Get(key)
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(val) {
				return nil, false
			}
			current = val[i]
		default:
			return nil, false
		}
	}
	return current, true
}
