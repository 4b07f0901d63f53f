package render

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"unsafe"

	"github.com/dpotapov/go-hyper/dom"
)

// UnsafeHTML is markup that is parsed and inserted as nodes instead of being escaped as text.
type UnsafeHTML string

// Unsafe marks s as trusted markup.
func Unsafe(s string) UnsafeHTML {
	return UnsafeHTML(s)
}

// Ref receives the element carrying a ref=${...} attribute.
type Ref struct {
	Current *dom.Node
}

// Listener is an event handler with listener options, the value of an @event attribute.
type Listener struct {
	Handle  func(*dom.Event)
	Options dom.ListenerOptions
}

// eface is the memory layout of an empty interface.
type eface struct {
	typ, data unsafe.Pointer
}

// funcIdentity returns the closure pointer of a func value stored in v. Two closures created
// by the same function literal have different identities.
func funcIdentity(v any) unsafe.Pointer {
	return (*eface)(unsafe.Pointer(&v)).data
}

// sameValue reports whether a and b are the same value: comparable values are compared with ==,
// funcs, maps and slices by reference.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	switch ta.Kind() {
	case reflect.Func:
		return funcIdentity(a) == funcIdentity(b)
	case reflect.Map:
		return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	}
	if !reflect.ValueOf(a).Comparable() {
		return false
	}
	return a == b
}

// isComparable reports whether v can be used as a map key.
func isComparable(v any) bool {
	return v != nil && reflect.ValueOf(v).Comparable()
}

// truthy follows the usual scripting rules: nil, false, zero numbers, NaN and the empty string
// are false, everything else is true.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case UnsafeHTML:
		return v != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// stringify converts a scalar value to the text of an attribute or text node.
func stringify(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case UnsafeHTML:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	case error:
		return v.Error(), nil
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.Map, reflect.Slice, reflect.Array, reflect.Struct,
		reflect.UnsafePointer:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return fmt.Sprint(v), nil
}

// toItems returns the elements of a slice or array value. Strings and byte slices are not lists.
func toItems(v any) ([]any, bool) {
	switch v := v.(type) {
	case nil, string, UnsafeHTML, []byte:
		return nil, false
	case []any:
		return v, true
	case []*Hole:
		items := make([]any, len(v))
		for i, h := range v {
			items[i] = h
		}
		return items, true
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	}
	return nil, false
}

// toMap returns the entries of a map keyed by strings, in the order of sorted keys.
func toMap(v any) ([]string, map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return sortedKeys(m), m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return sortedKeys(out), out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, nil, false
	}
	out := make(map[string]any, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		out[it.Key().String()] = it.Value().Interface()
	}
	return sortedKeys(out), out, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
