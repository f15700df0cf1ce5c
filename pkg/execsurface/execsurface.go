// Package execsurface defines the runtime's execution context (raising,
// assertion, printing) and the argument view a callable is invoked with,
// and provides standard implementations of both: New and
// PositionalParameters. Walking a prepared program AST and actually running
// it is not implemented in this module.
package execsurface

import "github.com/zeta1999/egg/pkg/value"

// Execution is what a running program's call sites use to interact with
// the surrounding runtime.
type Execution interface {
	// Raise builds an Exception-tagged value carrying message, without
	// raising it as a Go error - callers decide whether to propagate it.
	Raise(message string) value.Value
	// Raisef formats its arguments by concatenating their string forms
	// (matching egg's print/assert argument-joining behaviour) before
	// delegating to Raise.
	Raisef(parts ...value.Value) value.Value
	// Assertion evaluates predicate's truthiness, raising an Exception
	// when it is false, and returning a Void value when it holds.
	Assertion(predicate value.Value) value.Value
	// Print writes utf8 to the program's standard output.
	Print(utf8 string)
}

// Parameters is the positional/named argument view a Callable is invoked
// with, so host-provided callables (built-ins) and user-defined functions
// can share one calling convention.
type Parameters interface {
	PositionalCount() int
	Positional(index int) value.Value
	PositionalLocation(index int) string
	NamedCount() int
	Named(name string) (value.Value, bool)
}
