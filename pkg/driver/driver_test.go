package driver

import (
	"strings"
	"testing"

	"github.com/zeta1999/egg/pkg/ast"
	"github.com/zeta1999/egg/pkg/prepare"
	"github.com/zeta1999/egg/pkg/syntax"
)

func loc() syntax.Location { return syntax.Location{Resource: "t.egg", Line: 1, Column: 1} }

func TestPrepareEmptyModule(t *testing.T) {
	result, err := Prepare("t.egg", syntax.New("module", "", loc()))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if result.Severity != prepare.SeverityNone {
		t.Fatalf("expected severity none, got %s", result.Severity)
	}
	if got := ast.Dump(result.Module); got != "(module)" {
		t.Fatalf("dump mismatch: %s", got)
	}
}

func TestPrepareReportsInferenceError(t *testing.T) {
	decl := syntax.New("declare", "foo", loc(), syntax.New("type", "var", loc()))
	result, err := Prepare("t.egg", syntax.New("module", "", loc(), decl))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !result.Abandoned() {
		t.Fatalf("expected the result to be abandoned, got severity %s", result.Severity)
	}
	found := false
	for _, d := range result.Diagnostics {
		if strings.Contains(d.Message, "Cannot infer type of 'foo'") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing inference diagnostic: %+v", result.Diagnostics)
	}
}

func TestPreparePropagatesPromotionError(t *testing.T) {
	brk := syntax.New("break", "", loc())
	_, err := Prepare("t.egg", syntax.New("module", "", loc(), brk))
	if err == nil {
		t.Fatalf("expected a promotion error for 'break' at module scope")
	}
	if !strings.Contains(err.Error(), "'break' is not valid in this context") {
		t.Fatalf("unexpected error: %v", err)
	}
}
