package execsurface

import (
	"strings"
	"testing"

	"github.com/zeta1999/egg/pkg/value"
	"github.com/zeta1999/egg/pkg/vanilla"
)

func TestPrintWritesToSink(t *testing.T) {
	var out strings.Builder
	exec := New(&out)
	exec.Print("hello")
	if out.String() != "hello\n" {
		t.Fatalf("print output = %q, want %q", out.String(), "hello\n")
	}
}

func TestAssertionHoldsReturnsVoid(t *testing.T) {
	exec := New(&strings.Builder{})
	got := exec.Assertion(value.True)
	if !got.Is(value.Void) {
		t.Fatalf("expected Void for a passing assertion, got %v", got.Kind())
	}
}

func TestAssertionFailureRaises(t *testing.T) {
	exec := New(&strings.Builder{})
	got := exec.Assertion(value.False)
	if !got.Has(value.Exception) {
		t.Fatalf("expected Exception-tagged value, got %v", got.Kind())
	}
	exc, ok := got.Object().(*vanilla.Exception)
	if !ok {
		t.Fatalf("expected *vanilla.Exception payload, got %T", got.Object())
	}
	if msg, _ := exc.Message(); msg != "Assertion failure" {
		t.Fatalf("message = %q, want Assertion failure", msg)
	}
}

func TestAssertionRejectsNonBoolPredicate(t *testing.T) {
	exec := New(&strings.Builder{})
	got := exec.Assertion(value.NewInt(1))
	if !got.Has(value.Exception) {
		t.Fatalf("expected Exception-tagged value for a non-bool predicate")
	}
}

func TestRaisefConcatenatesParts(t *testing.T) {
	exec := New(&strings.Builder{})
	got := exec.Raisef(value.NewString("index "), value.NewInt(3), value.NewString(" out of range"))
	exc, ok := got.Object().(*vanilla.Exception)
	if !ok {
		t.Fatalf("expected *vanilla.Exception payload, got %T", got.Object())
	}
	if msg, _ := exc.Message(); msg != "index 3 out of range" {
		t.Fatalf("message = %q, want %q", msg, "index 3 out of range")
	}
}

func TestPositionalParameters(t *testing.T) {
	p := &PositionalParameters{
		Values:    []value.Value{value.NewInt(1), value.NewString("x")},
		Locations: []string{"t.egg:1:1"},
		ByName:    map[string]value.Value{"flag": value.True},
	}
	if p.PositionalCount() != 2 {
		t.Fatalf("PositionalCount = %d, want 2", p.PositionalCount())
	}
	if p.Positional(1).String() != "x" {
		t.Fatalf("Positional(1) mismatch")
	}
	if p.PositionalLocation(0) != "t.egg:1:1" || p.PositionalLocation(1) != "" {
		t.Fatalf("location lookup mismatch")
	}
	if v, ok := p.Named("flag"); !ok || !v.Bool() {
		t.Fatalf("named lookup mismatch")
	}
	if p.NamedCount() != 1 {
		t.Fatalf("NamedCount = %d, want 1", p.NamedCount())
	}
}
