// Package driver wires egg's front-end pipeline together: a concrete
// syntax tree goes through promotion into a program AST and through the
// preparation pass into a prepared AST plus diagnostics. The package also
// owns the ambient project surface around that pipeline - the package.yml
// manifest and the dependency installer the CLI uses.
package driver

import (
	"github.com/zeta1999/egg/pkg/ast"
	"github.com/zeta1999/egg/pkg/basket"
	"github.com/zeta1999/egg/pkg/prepare"
	"github.com/zeta1999/egg/pkg/symtable"
	"github.com/zeta1999/egg/pkg/syntax"
)

// Result is the outcome of running the pipeline over one resource.
type Result struct {
	Module      *ast.Module
	Severity    prepare.Severity
	Diagnostics []prepare.Diagnostic
}

// Abandoned reports whether preparation gave up on the program.
func (r *Result) Abandoned() bool { return r.Severity >= prepare.Error }

// rootMember adapts the root symbol table into a basket member: the scope
// itself holds no object references at preparation time, so it traces
// nothing, but registering it keeps the collection root set well-formed
// for the execution phase that follows preparation.
type rootMember struct {
	scope *symtable.Scope
}

func (rootMember) Refs() []basket.Member { return nil }

// Prepare runs promotion and preparation over root, which must be a
// concrete "module" syntax node for the named resource. Promotion failures
// (syntax and context errors) return as the error; preparation failures
// are reported through the Result's severity and diagnostics.
func Prepare(resource string, root syntax.Node) (*Result, error) {
	module, err := ast.Promote(resource, root)
	if err != nil {
		return nil, err
	}
	scope := symtable.NewRoot()
	b := basket.New()
	member := rootMember{scope: scope}
	b.Take(member)
	b.Root(member)

	sink := &prepare.Collector{}
	ctx := prepare.NewContext(resource, scope, sink)
	flags := prepare.PrepareWith(ctx, module)
	severity := ctx.WorstSeverity()
	if flags.Abandoned() {
		severity = prepare.Error
	}
	return &Result{
		Module:      module,
		Severity:    severity,
		Diagnostics: sink.Diagnostics,
	}, nil
}
