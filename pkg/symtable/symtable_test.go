package symtable

import (
	"testing"

	"github.com/zeta1999/egg/pkg/value"
)

func TestNewRootRegistersBuiltins(t *testing.T) {
	root := NewRoot()
	for _, name := range []string{"print", "assert", "string", "type"} {
		sym, ok := root.Find(name, false)
		if !ok {
			t.Fatalf("expected built-in %q to be registered", name)
		}
		if sym.Kind != Builtin {
			t.Fatalf("expected %q to be a builtin symbol, got %v", name, sym.Kind)
		}
		if _, callable := sym.Type().Callable(); !callable {
			t.Fatalf("expected %q to be callable", name)
		}
	}
}

func TestDeclareRejectsDuplicateInSameScope(t *testing.T) {
	root := NewRoot()
	scope := root.Nested()
	if _, err := scope.Declare(ReadWrite, "x", value.TInt); err != nil {
		t.Fatalf("unexpected error on first declaration: %v", err)
	}
	if _, err := scope.Declare(ReadWrite, "x", value.TInt); err == nil {
		t.Fatalf("expected an error declaring 'x' twice in the same scope")
	}
}

func TestDeclareAllowsShadowingOuterScope(t *testing.T) {
	root := NewRoot()
	outer := root.Nested()
	if _, err := outer.Declare(ReadWrite, "x", value.TInt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner := outer.Nested()
	if _, err := inner.Declare(ReadWrite, "x", value.TString); err != nil {
		t.Fatalf("expected shadowing to be allowed, got error: %v", err)
	}
	sym, _ := inner.Find("x", true)
	if sym.DeclaredType != value.TString {
		t.Fatalf("expected the inner scope's binding to win")
	}
}

func TestFindWalksParentChainOnlyWhenDeep(t *testing.T) {
	root := NewRoot()
	outer := root.Nested()
	outer.Declare(ReadWrite, "y", value.TBool)
	inner := outer.Nested()

	if _, ok := inner.Find("y", false); ok {
		t.Fatalf("expected shallow Find to miss a parent-scope symbol")
	}
	if _, ok := inner.Find("y", true); !ok {
		t.Fatalf("expected deep Find to walk up to the outer scope")
	}
}

func TestSymbolTypePrefersInferredType(t *testing.T) {
	sym := &Symbol{DeclaredType: value.Inferred}
	if sym.Type() != value.Inferred {
		t.Fatalf("expected DeclaredType before inference is recorded")
	}
	sym.InferredType = value.TInt
	if sym.Type() != value.TInt {
		t.Fatalf("expected InferredType to take precedence once set")
	}
}
