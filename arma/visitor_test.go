package arma

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// textRecorder keeps the Text values it is handed.
type textRecorder struct {
	discard
	got []Text
}

func (r *textRecorder) VisitString(t Text) error {
	r.got = append(r.got, t)
	return nil
}

func TestDecodeString_Borrowed(t *testing.T) {
	tests := []struct {
		input    string
		value    string
		borrowed bool
	}{
		{`"plain"`, "plain", true},
		{`"a""b"`, `a"b`, false},
		{`"a" \n "b"`, "a\nb", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := &textRecorder{}
			require.NoError(t, DecodeString(tt.input, ShapeString, r))
			require.Len(t, r.got, 1)
			assert.Equal(t, tt.value, r.got[0].Value)
			assert.Equal(t, tt.borrowed, r.got[0].Borrowed)
		})
	}
}

func TestDecodeString_Inferred(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"null", nil},
		{"true", true},
		{"false", false},
		{`"x"`, "x"},
		{"42", uint64(42)},
		{"-42", int64(-42)},
		{"1.5", 1.5},
		{"-1.5", -1.5},
		{"1e3", 1000.0},
		{"18446744073709551615", uint64(18446744073709551615)},
		{"{WEST, nullish, null}", []any{"WEST", "nullish", nil}},
		{`{1, -2, 3.5, "a", {true}}`, []any{uint64(1), int64(-2), 3.5, "a", []any{true}}},
		{"{}", []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got any
			require.NoError(t, DecodeString(tt.input, ShapeAny, genericVisitor{out: &got}))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeString_InferredDocument(t *testing.T) {
	var got any
	require.NoError(t, DecodeString(`truth = true; nothing = null;`, ShapeAny, genericVisitor{out: &got}))
	cls, ok := got.(*Class)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, []string{"truth", "nothing"}, cls.Names())
}

func TestDecodeString_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		shape Shape
		kind  error
	}{
		{"null literal", "nope", ShapeNull, ErrExpectedNull},
		{"enum", `"Red"`, ShapeEnum, ErrUnsupported},
		{"unexpected character", "@", ShapeAny, ErrSyntax},
		{"unexpected close", "}", ShapeAny, ErrSyntax},
		{"nullable integer", "nul", Nullable(ShapeInt), ErrExpectedInteger},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, DecodeString(tt.input, tt.shape, discard{}), tt.kind)
		})
	}

	t.Run("nullable accepts null", func(t *testing.T) {
		var got any = "unset"
		require.NoError(t, DecodeString("null", Nullable(ShapeString), genericVisitor{out: &got}))
		assert.Nil(t, got)
	})
}

// earlyStop reads one entry of every body and returns.
type earlyStop struct {
	discard
}

func (earlyStop) VisitSeq(s SeqAccess) error {
	_, err := s.NextElement(ShapeAny, discard{})
	return err
}

func (earlyStop) VisitMap(m MapAccess) error {
	if _, _, err := m.NextKey(); err != nil {
		return err
	}
	return m.NextValue(ShapeAny, discard{})
}

func TestDecodeString_UnconsumedBodies(t *testing.T) {
	assert.ErrorIs(t, DecodeString(`{1, 2}`, ShapeSeq, earlyStop{}), ErrExpectedArrayEnd)
	assert.ErrorIs(t, DecodeString(`{ a = 1; b = 2; }`, ShapeMap, earlyStop{}), ErrExpectedMapEnd)
}

// outOfOrder calls NextValue without a key.
type outOfOrder struct {
	discard
}

func (outOfOrder) VisitMap(m MapAccess) error {
	return m.NextValue(ShapeAny, discard{})
}

func TestDecodeString_AccessOrder(t *testing.T) {
	assert.ErrorIs(t, DecodeString(`a = 1;`, ShapeMap, outOfOrder{}), errAccessOrder)
}

func TestDecodeString_MaxDepth(t *testing.T) {
	deep := strings.Repeat("{", maxDepth+1)
	err := DecodeString(deep, ShapeAny, discard{})
	require.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), "max depth")
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "struct", ShapeStruct.String())
	assert.Equal(t, ShapeInt, Nullable(ShapeInt).Kind())
	assert.True(t, Nullable(ShapeInt).IsNullable())
	assert.False(t, ShapeInt.IsNullable())
	assert.Contains(t, Nullable(ShapeSeq).String(), "array")
}

func TestClass_Marshal(t *testing.T) {
	var doc any
	require.NoError(t, UnmarshalString(`b = 1; a = "x"; class c { d[] = {true, null}; };`, &doc))

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":1,"a":"x","c":{"d":[true,null]}}`, string(out))
	assert.Equal(t, `{"b":1,"a":"x","c":{"d":[true,null]}}`, string(out), "members keep document order")

	yml, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(yml), "b: 1\na: x\nc:\n")
}
