// Package prepare implements egg's preparation pass: the integrated
// semantic analysis that walks a promoted program AST performing symbol
// resolution, type inference and compatibility checking, reachability
// analysis, and generator-vs-function discrimination. Fatal type errors
// log at Error severity and abandon the offending subtree; anomalies
// (unreachable code, pointless guards) log at Warning and continue.
package prepare

import (
	"fmt"

	"github.com/zeta1999/egg/pkg/symtable"
	"github.com/zeta1999/egg/pkg/syntax"
	"github.com/zeta1999/egg/pkg/value"
)

// Flags is the bit-set a node's preparation returns: whether control may
// continue past the node (Fallthrough), whether the node is a compile-time
// constant (Constant), and whether a fatal error abandoned the subtree
// (Abandon). The zero value means prepared cleanly with no fallthrough.
type Flags uint8

const (
	None        Flags = 0x00
	Fallthrough Flags = 0x01
	Constant    Flags = 0x02
	Abandon     Flags = 0x04
)

func (f Flags) Abandoned() bool    { return f&Abandon != 0 }
func (f Flags) FallsThrough() bool { return f&Fallthrough != 0 }

// Severity orders the diagnostic channel's levels; a preparation run's
// overall result is the worst severity raised anywhere in the tree.
type Severity int

const (
	SeverityNone Severity = iota
	Debug
	Verbose
	Information
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "debug"
	case Verbose:
		return "verbose"
	case Information:
		return "information"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "none"
	}
}

// Diagnostic is one message raised through the preparation sink.
type Diagnostic struct {
	Severity Severity
	Resource string
	Location syntax.Location
	Message  string
}

func (d Diagnostic) String() string {
	if d.Location.Line > 0 {
		return fmt.Sprintf("%s(%d,%d): %s: %s", d.Resource, d.Location.Line, d.Location.Column, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Resource, d.Severity, d.Message)
}

// Sink receives every diagnostic the pass raises.
type Sink interface {
	Raise(d Diagnostic)
}

// Collector is the trivial Sink that retains everything raised, used by
// the driver and by tests.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Raise(d Diagnostic) { c.Diagnostics = append(c.Diagnostics, d) }

// ScopeFunction is the per-function-body preparation record: the declared
// return type (for a generator, the declared yield type) and whether the
// body is a generator, taken from the definition and also set by any yield
// statement in it. yield and return statements resolve against the nearest
// record.
type ScopeFunction struct {
	ReturnType  value.Type
	IsGenerator bool
}

// Context threads the preparation state through the recursive walk: the
// resource name, the current symbol scope, the nearest enclosing function
// record, and the shared diagnostics sink plus worst-severity accumulator.
type Context struct {
	resource      string
	scope         *symtable.Scope
	sink          Sink
	severity      *Severity
	scopeFunction *ScopeFunction
}

// NewContext builds a root preparation context over scope.
func NewContext(resource string, scope *symtable.Scope, sink Sink) *Context {
	sev := SeverityNone
	return &Context{resource: resource, scope: scope, sink: sink, severity: &sev}
}

// WorstSeverity reports the highest severity raised so far anywhere under
// this context's root.
func (c *Context) WorstSeverity() Severity { return *c.severity }

// nested derives a context over a fresh child scope; the function record,
// sink, and severity accumulator are shared with the parent.
func (c *Context) nested(scope *symtable.Scope) *Context {
	child := *c
	child.scope = scope
	return &child
}

// withFunction derives a context whose return/yield statements resolve
// against fn, used when entering a function or generator body.
func (c *Context) withFunction(scope *symtable.Scope, fn *ScopeFunction) *Context {
	child := c.nested(scope)
	child.scopeFunction = fn
	return child
}

func (c *Context) raise(sev Severity, loc syntax.Location, format string, args ...any) {
	if sev > *c.severity {
		*c.severity = sev
	}
	if c.sink != nil {
		c.sink.Raise(Diagnostic{
			Severity: sev,
			Resource: c.resource,
			Location: loc,
			Message:  fmt.Sprintf(format, args...),
		})
	}
}

// compilerError raises at Error severity and returns Abandon so callers
// can propagate it in one expression.
func (c *Context) compilerError(loc syntax.Location, format string, args ...any) Flags {
	c.raise(Error, loc, format, args...)
	return Abandon
}

func (c *Context) compilerWarning(loc syntax.Location, format string, args ...any) {
	c.raise(Warning, loc, format, args...)
}
