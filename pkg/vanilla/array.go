package vanilla

import (
	"strconv"

	"github.com/zeta1999/egg/pkg/value"
)

// maxArrayIndex is the exclusive ceiling on array indices and lengths.
const maxArrayIndex = 0x7FFFFFFF

// Array is an ordered, auto-extending sequence of values indexed 0..size-1.
type Array struct {
	Base
	values []value.Value
}

// NewArray constructs an empty array.
func NewArray() *Array {
	a := &Array{}
	a.Base = newBase("Array", a)
	return a
}

func (a *Array) Len() int { return len(a.values) }

func (a *Array) GetProperty(name string) (value.Value, error) {
	if name == "length" {
		return value.NewInt(int64(len(a.values))), nil
	}
	return raise("Arrays do not support property '.%s'", name)
}

func (a *Array) SetProperty(name string, v value.Value) (value.Value, error) {
	if name == "length" {
		return a.setLength(v)
	}
	return raise("Arrays do not support property '.%s'", name)
}

func (a *Array) setLength(v value.Value) (value.Value, error) {
	if !v.Has(value.Int) {
		return raise("Array length was expected to be set to an 'int', not '%s'",
			value.TagToString(v.Kind().Storage()))
	}
	n := v.Int()
	if n < 0 || n >= maxArrayIndex {
		return raise("Invalid array length: %d", n)
	}
	a.resize(int(n))
	return value.VoidValue, nil
}

func (a *Array) resize(size int) {
	if size <= len(a.values) {
		a.values = a.values[:size]
		return
	}
	grown := make([]value.Value, size)
	copy(grown, a.values)
	for i := len(a.values); i < size; i++ {
		grown[i] = value.NullValue
	}
	a.values = grown
}

func (a *Array) GetIndex(index value.Value) (value.Value, error) {
	if !index.Has(value.Int) {
		return raise("Array index was expected to be 'int', not '%s'",
			value.TagToString(index.Kind().Storage()))
	}
	i := index.Int()
	if i < 0 || int(i) >= len(a.values) {
		return raise("Invalid array index for an array with %d element(s): %d", len(a.values), i)
	}
	return a.values[i], nil
}

// SetIndex writes v at index i, auto-extending the array to i+1 (new
// intervening slots are filled with null) when i is beyond the current end.
func (a *Array) SetIndex(index, v value.Value) (value.Value, error) {
	if !index.Has(value.Int) {
		return raise("Array index was expected to be 'int', not '%s'",
			value.TagToString(index.Kind().Storage()))
	}
	i := index.Int()
	if i < 0 || i >= maxArrayIndex {
		return raise("Invalid array index: %d", i)
	}
	if int(i) >= len(a.values) {
		a.resize(int(i) + 1)
	}
	a.values[i] = v
	return value.VoidValue, nil
}

func (a *Array) Iterate() (value.Value, error) {
	return value.NewObject(newArrayIterator(a)), nil
}

// next is used by arrayIterator; it reads the array live by index, so
// mutation during iteration is visible and the resulting sequence is
// unspecified.
func (a *Array) next(index int) (value.Value, bool) {
	if index < len(a.values) {
		return a.values[index], true
	}
	return value.VoidValue, false
}

func (a *Array) String() string {
	parts := make([]string, len(a.values))
	for i, v := range a.values {
		parts[i] = Stringify(v)
	}
	return joinValues(parts, "[", ",", "]")
}

// Stringify renders a value.Value the way vanilla containers print their
// elements; objects recurse into their own String(), everything else uses
// a small literal rendering. Also used by the execution surface's
// formatted-raise and print helpers.
func Stringify(v value.Value) string {
	switch {
	case v.Has(value.Void):
		return "void"
	case v.Has(value.Null):
		return "null"
	case v.Has(value.Bool):
		if v.Bool() {
			return "true"
		}
		return "false"
	case v.Has(value.Int):
		return strconv.FormatInt(v.Int(), 10)
	case v.Has(value.Float):
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case v.Has(value.String):
		return v.String()
	case v.Has(value.Object):
		return v.Object().String()
	case v.Has(value.TypeKind):
		return v.Type().String()
	default:
		return ""
	}
}
