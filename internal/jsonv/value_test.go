package jsonv

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Number("42")
	var _ Value = Bool(true)
	var _ Value = Array{String("a"), Int(1)}
	var _ Value = Object{"key": String("value")}
}

func TestDecodeTypes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{"null", `null`, Null{}},
		{"string", `"hello"`, String("hello")},
		{"int", `42`, Number("42")},
		{"float keeps literal", `1.50`, Number("1.50")},
		{"exponent keeps literal", `1e3`, Number("1e3")},
		{"bool", `true`, Bool(true)},
		{"empty array", `[]`, Array{}},
		{"empty object", `{}`, Object{}},
		{"nested", `{"a":[1,{"b":null}]}`, Object{"a": Array{Number("1"), Object{"b": Null{}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	_, err := Decode([]byte(`{} {}`))
	require.Error(t, err)

	_, err = Decode([]byte("{}\n  "))
	require.NoError(t, err, "trailing whitespace is fine")
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, err := Decode([]byte(`{"a":`))
	require.Error(t, err)
}

func TestDecodeRejectsDuplicateKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  string
	}{
		{"top level", `{"nbformat":4,"nbformat":-1}`, "nbformat"},
		{"nested in array", `{"cells":[{"id":"a"},{"id":"a","id":"b"}]}`, "cells[1].id"},
		{"dotted key", `{"metadata":{"a.b":1,"a.b":2}}`, `metadata["a.b"]`},
		{"bad value hidden by later one", `{"x":{"y":[}, "x":1}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			if tt.path == "" {
				return
			}
			var dup *DuplicateKeyError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, tt.path, dup.Path)
		})
	}
}

func TestDecodeSameKeyInSiblingObjects(t *testing.T) {
	v, err := Decode([]byte(`[{"id":"a"},{"id":"b"}]`))
	require.NoError(t, err)
	assert.Equal(t, Array{Object{"id": String("a")}, Object{"id": String("b")}}, v)
}

func TestNumberInt64(t *testing.T) {
	tests := []struct {
		input Number
		want  int64
		ok    bool
	}{
		{"0", 0, true},
		{"-7", -7, true},
		{"9223372036854775807", 9223372036854775807, true},
		{"9223372036854775808", 0, false},
		{"1.0", 0, false},
		{"1e2", 0, false},
		{"1E2", 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			got, ok := tt.input.Int64()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObjectSortedKeys(t *testing.T) {
	obj := Object{
		"zebra":  String("z"),
		"apple":  String("a"),
		"banana": String("b"),
	}

	assert.Equal(t, []string{"apple", "banana", "zebra"}, obj.SortedKeys())
}

func TestObjectSortedKeysUTF16Order(t *testing.T) {
	// U+10000 encodes as surrogate 0xD800 which sorts before U+E000 in UTF-16
	// but after it in UTF-8.
	obj := Object{
		"\uE000":     Int(1),
		"\U00010000": Int(2),
	}

	assert.Equal(t, []string{"\U00010000", "\uE000"}, obj.SortedKeys())
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"s":   "x",
		"n":   json.Number("3"),
		"i":   5,
		"f":   2.5,
		"b":   false,
		"nil": nil,
		"arr": []any{"a", int64(1)},
	})
	require.NoError(t, err)

	assert.Equal(t, Object{
		"s":   String("x"),
		"n":   Number("3"),
		"i":   Number("5"),
		"f":   Number("2.5"),
		"b":   Bool(false),
		"nil": Null{},
		"arr": Array{String("a"), Number("1")},
	}, v)
}

func TestFromAnyRejectsUnsupported(t *testing.T) {
	_, err := FromAny(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestCloneIsDeep(t *testing.T) {
	orig := Object{"inner": Object{"k": String("v")}, "list": Array{Int(1)}}
	cp := orig.Clone()

	cp["inner"].(Object)["k"] = String("changed")
	cp["list"].(Array)[0] = Int(2)

	assert.Equal(t, String("v"), orig["inner"].(Object)["k"])
	assert.Equal(t, Number("1"), orig["list"].(Array)[0])
	assert.Nil(t, Object(nil).Clone())
}

func TestEqual(t *testing.T) {
	a := Object{"x": Array{Int(1), Null{}, Bool(true)}}
	b := Object{"x": Array{Number("1"), Null{}, Bool(true)}}
	c := Object{"x": Array{Number("1.0"), Null{}, Bool(true)}}

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c), "numbers compare by literal text")
	assert.False(t, Equal(String("1"), Number("1")))
	assert.True(t, Equal(nil, nil))
}

func TestObjectUnmarshalJSON(t *testing.T) {
	var holder struct {
		Meta Object `json:"meta"`
	}
	err := json.Unmarshal([]byte(`{"meta":{"ratio":0.5,"tags":["a"]}}`), &holder)
	require.NoError(t, err)
	assert.Equal(t, Number("0.5"), holder.Meta["ratio"])
	assert.Equal(t, Array{String("a")}, holder.Meta["tags"])

	err = json.Unmarshal([]byte(`{"meta":[1]}`), &holder)
	require.Error(t, err)
}
