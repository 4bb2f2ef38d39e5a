package sigil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Data is the mapping of names to values available to a template during
// expansion. Lookups are case-sensitive exact-name matches; a missing key is
// a distinct state from a key that is present but falsy.
type Data map[string]any

// Resolve looks up name and, when key is non-empty, key within name's
// container value. The boolean reports presence, not truthiness: an absent
// sub-key behaves exactly like an absent variable.
func (d Data) Resolve(name, key string) (any, bool) {
	v, ok := d[name]
	if !ok {
		return nil, false
	}
	if key == "" {
		return v, true
	}

	return lookupKey(v, key)
}

// clone returns a shallow copy. Loop iterations shadow bindings on the copy
// so nothing leaks to sibling iterations or the parent context.
func (d Data) clone() Data {
	c := make(Data, len(d)+2)
	for k, v := range d {
		c[k] = v
	}
	return c
}

func lookupKey(container any, key string) (any, bool) {
	switch c := container.(type) {
	case Data:
		v, ok := c[key]
		return v, ok
	case map[string]any:
		v, ok := c[key]
		return v, ok
	case map[string]string:
		v, ok := c[key]
		return v, ok
	case Dict:
		return c.Get(key)
	}

	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		if kt.Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(kt))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}

	return nil, false
}

// Dict is an ordered key/value container. Keyed foreach loops iterate a Dict
// in insertion order; native maps have no insertion order and iterate in
// sorted key order instead.
type Dict []Pair

// Pair is one Dict entry.
type Pair struct {
	Key   string
	Value any
}

// Get returns the value stored under key.
func (d Dict) Get(key string) (any, bool) {
	for _, p := range d {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// MarshalJSON serializes the Dict as a JSON object, preserving key order.
func (d Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// truthy reports whether a present value counts as true for conditionals.
// Empty strings, empty containers, false and nil are falsy; the literal 0
// and "0" stay truthy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case Dict:
		return len(t) > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}

	return true
}

// display renders a resolved value as escaped output text. Scalars use their
// text form; containers and records use their serialized JSON form.
func display(v any) string {
	if isContainer(v) {
		return html.EscapeString(serialize(v))
	}
	return html.EscapeString(text(v))
}

func isContainer(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(Dict); ok {
		return true
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}

// text renders a scalar as display text.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

// serialize renders a container value in its canonical JSON form.
func serialize(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func toInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return int(rv.Float())
	}
	return 0
}

// iterItem is one loop iteration's key/value pair.
type iterItem struct {
	key   any
	value any
}

// iterate flattens a container into iteration order: insertion order for a
// Dict, index order for sequences, sorted key order for native maps. The
// boolean is false when v is not a container at all.
func iterate(v any) ([]iterItem, bool) {
	if v == nil {
		return nil, false
	}

	if d, ok := v.(Dict); ok {
		items := make([]iterItem, len(d))
		for i, p := range d {
			items[i] = iterItem{key: p.Key, value: p.Value}
		}
		return items, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]iterItem, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = iterItem{key: i, value: rv.Index(i).Interface()}
		}
		return items, true
	case reflect.Map:
		keys := rv.MapKeys()
		sorted := make([]string, len(keys))
		byName := make(map[string]reflect.Value, len(keys))
		for i, k := range keys {
			name := fmt.Sprint(k.Interface())
			sorted[i] = name
			byName[name] = k
		}
		sort.Strings(sorted)

		items := make([]iterItem, 0, len(keys))
		for _, name := range sorted {
			k := byName[name]
			items = append(items, iterItem{key: k.Interface(), value: rv.MapIndex(k).Interface()})
		}
		return items, true
	}

	return nil, false
}
