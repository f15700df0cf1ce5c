// Package vanilla implements egg's runtime container objects: Array,
// Dictionary, Object, KeyValue, Exception, and the iterators those kinds
// hand out. Every kind realizes the same capability contract (call / index
// / property / iterate / string) with a default-raise fallback shared via
// an embeddable Base.
package vanilla

import (
	"fmt"
	"strings"

	"github.com/zeta1999/egg/pkg/value"
)

// Object is the capability contract every vanilla kind implements. It
// satisfies value.HostObject so instances can be wrapped directly in a
// value.Value via value.NewObject.
type Object interface {
	Kind() string
	Call(args []value.Value) (value.Value, error)
	GetIndex(index value.Value) (value.Value, error)
	SetIndex(index, v value.Value) (value.Value, error)
	GetProperty(name string) (value.Value, error)
	SetProperty(name string, v value.Value) (value.Value, error)
	Iterate() (value.Value, error)
	String() string
}

// Base supplies the default-raise behaviour every kind falls back to unless
// overridden: calling raises "{kind}s do not support calling with '()'";
// indexing requires a string index and delegates to getProperty; setIndex
// mirrors getIndex. Embed Base and override only the operations a kind
// actually supports.
type Base struct {
	kind string
	self Object
}

// newBase initializes the embeddable default-behaviour mixin. self must be
// the concrete kind embedding Base, so delegated calls dispatch to its
// overridden GetProperty/SetProperty.
func newBase(kind string, self Object) Base {
	return Base{kind: kind, self: self}
}

func (b Base) Kind() string { return b.kind }

func (b Base) Call([]value.Value) (value.Value, error) {
	return raise("%ss do not support calling with '()'", b.kind)
}

func (b Base) GetIndex(index value.Value) (value.Value, error) {
	if !index.Has(value.String) {
		return raise("%s index (property name) was expected to be 'string', not '%s'",
			b.kind, value.TagToString(index.Kind().Storage()))
	}
	return b.self.GetProperty(index.String())
}

func (b Base) SetIndex(index, v value.Value) (value.Value, error) {
	if !index.Has(value.String) {
		return raise("%s index (property name) was expected to be 'string', not '%s'",
			b.kind, value.TagToString(index.Kind().Storage()))
	}
	return b.self.SetProperty(index.String(), v)
}

func (b Base) GetProperty(name string) (value.Value, error) {
	return raise("%s does not support property '.%s'", b.kind, name)
}

func (b Base) SetProperty(name string, _ value.Value) (value.Value, error) {
	return raise("%s does not support property '.%s'", b.kind, name)
}

func (b Base) Iterate() (value.Value, error) {
	return raise("%ss do not support iteration", b.kind)
}

// Raise constructs an Exception-tagged value carrying a freshly built
// Exception object. location may be
// empty when no source position is available.
func Raise(location, message string) value.Value {
	exc := NewException(location, message)
	v := value.NewObject(exc)
	v, _ = v.AddFlowControl(value.Exception)
	return v
}

// raise is the internal helper used by default Base behaviour and by each
// kind's overrides; it formats the message then wraps it via Raise with no
// location.
func raise(format string, args ...any) (value.Value, error) {
	msg := fmt.Sprintf(format, args...)
	return Raise("", msg), fmt.Errorf("%s", msg)
}

// joinValues renders a slice of values with sep between them, used by
// Array/Dictionary/KeyValue String() implementations.
func joinValues(parts []string, open, sep, close string) string {
	if len(parts) == 0 {
		return open + close
	}
	return open + strings.Join(parts, sep) + close
}
