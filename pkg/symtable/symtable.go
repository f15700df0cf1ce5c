// Package symtable implements egg's nested symbol table: a parent-chained
// scope mapping names to symbols, used by the preparation pass (pkg/prepare)
// to resolve identifiers and enforce duplicate-declaration rules.
package symtable

import (
	"fmt"

	"github.com/zeta1999/egg/pkg/value"
)

// Kind classifies how a symbol may be used after declaration.
type Kind int

const (
	// Builtin is a predeclared name (print, assert, string, type) bound in
	// the root scope, where Declare refuses to bind it again.
	Builtin Kind = iota
	// ReadOnly is the kind given to function names. The preparation pass
	// does not check a symbol's kind when it is the target of Assign or
	// Mutate.
	ReadOnly
	// ReadWrite is an ordinary declared variable.
	ReadWrite
)

func (k Kind) String() string {
	switch k {
	case Builtin:
		return "builtin"
	case ReadOnly:
		return "read-only"
	default:
		return "read-write"
	}
}

// Symbol is one binding in a Scope.
type Symbol struct {
	Kind         Kind
	Name         string
	DeclaredType value.Type
	// InferredType is recorded the first time preparation associates a
	// compatible value with a `var`-declared (DeclaredType == value.Inferred)
	// symbol; it stays nil until then.
	InferredType value.Type
}

// Type returns InferredType when it has been recorded, else DeclaredType -
// the type preparation should use to validate uses of this symbol.
func (s *Symbol) Type() value.Type {
	if s.InferredType != nil {
		return s.InferredType
	}
	return s.DeclaredType
}

// Scope is one level of a nested symbol table.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
}

// NewRoot constructs the top-level scope with egg's built-in names
// registered: print, assert, string, and type.
func NewRoot() *Scope {
	root := &Scope{symbols: map[string]*Symbol{}}
	for name, sig := range builtinSignatures() {
		root.symbols[name] = &Symbol{Kind: Builtin, Name: name, DeclaredType: sig}
	}
	return root
}

// Nested creates a child scope of s.
func (s *Scope) Nested() *Scope {
	return &Scope{parent: s, symbols: map[string]*Symbol{}}
}

// Find looks up name. When deep is true (the common case) it walks the
// parent chain; when false it checks only this scope, as Declare does
// before inserting.
func (s *Scope) Find(name string, deep bool) (*Symbol, bool) {
	if sym, ok := s.symbols[name]; ok {
		return sym, true
	}
	if deep && s.parent != nil {
		return s.parent.Find(name, true)
	}
	return nil, false
}

// Declare inserts a new symbol in s. It fails if name is already bound in
// this exact scope (shadowing an outer scope's binding is allowed;
// redeclaring within the same scope is not).
func (s *Scope) Declare(kind Kind, name string, declaredType value.Type) (*Symbol, error) {
	if _, exists := s.Find(name, false); exists {
		return nil, fmt.Errorf("symtable: %q is already declared in this scope", name)
	}
	sym := &Symbol{Kind: kind, Name: name, DeclaredType: declaredType}
	s.symbols[name] = sym
	return sym, nil
}
