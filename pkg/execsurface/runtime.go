package execsurface

import (
	"fmt"
	"io"
	"strings"

	"github.com/zeta1999/egg/pkg/value"
	"github.com/zeta1999/egg/pkg/vanilla"
)

// New returns the standard Execution implementation: raises build vanilla
// exception objects and Print writes UTF-8 to out.
func New(out io.Writer) Execution {
	return &execution{out: out}
}

type execution struct {
	out io.Writer
}

func (e *execution) Raise(message string) value.Value {
	return vanilla.Raise("", message)
}

// Raisef concatenates the string renderings of its parts into one
// message, the way egg's diagnostics join heterogeneous operands.
func (e *execution) Raisef(parts ...value.Value) value.Value {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(vanilla.Stringify(part))
	}
	return e.Raise(b.String())
}

func (e *execution) Assertion(predicate value.Value) value.Value {
	if !predicate.Has(value.Bool) {
		return e.Raise(fmt.Sprintf("assert() predicate was expected to be 'bool', not '%s'",
			value.TagToString(predicate.Kind().Storage())))
	}
	if !predicate.Bool() {
		return e.Raise("Assertion failure")
	}
	return value.VoidValue
}

func (e *execution) Print(utf8 string) {
	fmt.Fprintln(e.out, utf8)
}

// PositionalParameters is the plain Parameters implementation call sites
// build from an evaluated argument list.
type PositionalParameters struct {
	Values    []value.Value
	Locations []string
	ByName    map[string]value.Value
}

func (p *PositionalParameters) PositionalCount() int { return len(p.Values) }

func (p *PositionalParameters) Positional(index int) value.Value {
	return p.Values[index]
}

func (p *PositionalParameters) PositionalLocation(index int) string {
	if index < len(p.Locations) {
		return p.Locations[index]
	}
	return ""
}

func (p *PositionalParameters) NamedCount() int { return len(p.ByName) }

func (p *PositionalParameters) Named(name string) (value.Value, bool) {
	v, ok := p.ByName[name]
	return v, ok
}
