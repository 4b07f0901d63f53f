package render

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameValue(t *testing.T) {
	fn := func() {}
	other := func() {}
	closures := make([]func(), 2)
	for i := range closures {
		closures[i] = func() { _ = i }
	}
	m := map[string]any{"a": 1}
	s := []int{1, 2, 3}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nils", nil, nil, true},
		{"nil and value", nil, 0, false},
		{"ints", 1, 1, true},
		{"different types", 1, int64(1), false},
		{"strings", "a", "a", true},
		{"same func", fn, fn, true},
		{"different funcs", fn, other, false},
		{"closures of one literal", closures[0], closures[1], false},
		{"same map", m, m, true},
		{"equal maps", m, map[string]any{"a": 1}, false},
		{"same slice", s, s, true},
		{"resliced", s, s[:2], false},
		{"equal slices", s, []int{1, 2, 3}, false},
		{"pointers", &m, &m, true},
		{"struct with slice", struct{ s []int }{s}, struct{ s []int }{s}, false},
		{"named scalars", time.Second, time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sameValue(tt.a, tt.b))
		})
	}
}

func TestTruthy(t *testing.T) {
	var nilPtr *Ref
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"x", true},
		{0, false},
		{-1, true},
		{uint8(0), false},
		{0.0, false},
		{math.NaN(), false},
		{0.5, true},
		{nilPtr, false},
		{&Ref{}, true},
		{[]int(nil), false},
		{[]int{}, true},
		{struct{}{}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truthy(tt.v), "truthy(%#v)", tt.v)
	}
}

type stringer struct{ s string }

func (s stringer) String() string { return s.s }

func TestStringify(t *testing.T) {
	tests := []struct {
		v       any
		want    string
		wantErr bool
	}{
		{nil, "", false},
		{"a", "a", false},
		{Unsafe("<b>"), "<b>", false},
		{true, "true", false},
		{42, "42", false},
		{int64(-7), "-7", false},
		{1.5, "1.5", false},
		{float32(2), "2", false},
		{[]byte("raw"), "raw", false},
		{stringer{"str"}, "str", false},
		{errors.New("boom"), "boom", false},
		{func() {}, "", true},
		{map[string]int{}, "", true},
		{[]int{1}, "", true},
		{struct{}{}, "", true},
		{make(chan int), "", true},
	}
	for _, tt := range tests {
		got, err := stringify(tt.v)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedValue, "stringify(%T)", tt.v)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestToItems(t *testing.T) {
	items, ok := toItems([]int{1, 2})
	require.True(t, ok)
	assert.Equal(t, []any{1, 2}, items)

	items, ok = toItems([2]string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, items)

	h := &Hole{}
	items, ok = toItems([]*Hole{h})
	require.True(t, ok)
	assert.Equal(t, []any{h}, items)

	for _, v := range []any{nil, "abc", []byte("abc"), Unsafe("x"), 1, map[string]any{}} {
		_, ok := toItems(v)
		assert.False(t, ok, "toItems(%T)", v)
	}
}

func TestToMap(t *testing.T) {
	keys, m, ok := toMap(map[string]string{"b": "2", "a": "1"})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, "1", m["a"])

	type attrs map[string]int
	keys, m, ok = toMap(attrs{"z": 1, "y": 2})
	require.True(t, ok)
	assert.Equal(t, []string{"y", "z"}, keys)
	assert.Equal(t, 2, m["y"])

	_, _, ok = toMap(map[int]string{1: "a"})
	assert.False(t, ok)
	_, _, ok = toMap("x")
	assert.False(t, ok)
}
