package sigil

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	data := Data{
		"name":  "Ann",
		"zero":  0,
		"empty": "",
		"user":  Data{"city": "Oslo"},
		"tags":  []string{"a", "b"},
		"dict":  Dict{{Key: "x", Value: 1}},
	}

	tests := []struct {
		name     string
		key      string
		expected any
		found    bool
	}{
		{name: "name", expected: "Ann", found: true},
		{name: "zero", expected: 0, found: true},
		{name: "empty", expected: "", found: true},
		{name: "missing", found: false},
		{name: "user", key: "city", expected: "Oslo", found: true},
		{name: "user", key: "country", found: false},
		{name: "tags", key: "1", expected: "b", found: true},
		{name: "tags", key: "7", found: false},
		{name: "tags", key: "x", found: false},
		{name: "dict", key: "x", expected: 1, found: true},
		{name: "dict", key: "y", found: false},
		{name: "name", key: "x", found: false}, // scalar has no sub-keys
	}

	for i, tt := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			v, ok := data.Resolve(tt.name, tt.key)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, v)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		value    any
		expected bool
	}{
		{value: nil, expected: false},
		{value: false, expected: false},
		{value: true, expected: true},
		{value: "", expected: false},
		{value: "0", expected: true}, // literal "0" stays truthy
		{value: "x", expected: true},
		{value: 0, expected: true}, // literal 0 stays truthy
		{value: 1, expected: true},
		{value: 0.0, expected: true},
		{value: []any{}, expected: false},
		{value: []any{"a"}, expected: true},
		{value: map[string]any{}, expected: false},
		{value: map[string]any{"a": 1}, expected: true},
		{value: Dict{}, expected: false},
		{value: Dict{{Key: "a", Value: 1}}, expected: true},
	}

	for i, tt := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			assert.Equal(t, tt.expected, truthy(tt.value), "truthy(%#v)", tt.value)
		})
	}
}

func TestClone_ShadowingDoesNotLeak(t *testing.T) {
	parent := Data{"a": 1, "b": 2}
	child := parent.clone()
	child["a"] = 10
	child["c"] = 3

	assert.Equal(t, 1, parent["a"])
	_, ok := parent["c"]
	assert.False(t, ok)
	assert.Equal(t, 10, child["a"])
	assert.Equal(t, 2, child["b"])
}

func TestIterate(t *testing.T) {
	t.Run("slice keeps index order", func(t *testing.T) {
		items, ok := iterate([]any{"a", "b", "c"})
		assert.True(t, ok)
		assert.Equal(t, []iterItem{{0, "a"}, {1, "b"}, {2, "c"}}, items)
	})

	t.Run("dict keeps insertion order", func(t *testing.T) {
		items, ok := iterate(Dict{{Key: "y", Value: 2}, {Key: "x", Value: 1}})
		assert.True(t, ok)
		assert.Equal(t, []iterItem{{"y", 2}, {"x", 1}}, items)
	})

	t.Run("native map iterates in sorted key order", func(t *testing.T) {
		items, ok := iterate(map[string]int{"b": 2, "a": 1})
		assert.True(t, ok)
		assert.Equal(t, []iterItem{{"a", 1}, {"b", 2}}, items)
	})

	t.Run("scalars are not containers", func(t *testing.T) {
		for _, v := range []any{nil, "abc", 42, true} {
			_, ok := iterate(v)
			assert.False(t, ok, "iterate(%#v)", v)
		}
	})
}

func TestDictMarshalJSON(t *testing.T) {
	d := Dict{{Key: "z", Value: 1}, {Key: "a", Value: "two"}}
	b, err := d.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"two"}`, string(b))
}
