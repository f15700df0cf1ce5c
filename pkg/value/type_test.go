package value

import "testing"

func TestCanBeAssignedFromSubset(t *testing.T) {
	if got := TAny.CanBeAssignedFrom(TInt); got != Always {
		t.Fatalf("any <- int should be Always, got %v", got)
	}
}

func TestCanBeAssignedFromOverlap(t *testing.T) {
	mixed := SimpleType{Bits: Int | String}
	if got := mixed.CanBeAssignedFrom(SimpleType{Bits: Int | Bool}); got != Sometimes {
		t.Fatalf("int|string <- int|bool should be Sometimes, got %v", got)
	}
}

func TestCanBeAssignedFromIntToFloatPromotion(t *testing.T) {
	if got := TFloat.CanBeAssignedFrom(TInt); got != Sometimes {
		t.Fatalf("float <- int should be Sometimes (implicit promotion), got %v", got)
	}
}

func TestCanBeAssignedFromDisjointNever(t *testing.T) {
	if got := TString.CanBeAssignedFrom(TBool); got != Never {
		t.Fatalf("string <- bool should be Never, got %v", got)
	}
}

func TestPromoteAssignmentWidensIntToFloat(t *testing.T) {
	got, err := TFloat.PromoteAssignment(NewInt(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Has(Float) || got.Float() != 7.0 {
		t.Fatalf("expected widened float 7.0, got %v", got)
	}
}

func TestPromoteAssignmentFailureMessage(t *testing.T) {
	_, err := TBool.PromoteAssignment(NewString("x"))
	if err == nil {
		t.Fatalf("expected error assigning string to bool target")
	}
	want := "Cannot assign a value of type 'string' to a target of type 'bool'"
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}

func TestUnionWithSimpleTypes(t *testing.T) {
	u := TInt.UnionWith(TString)
	st, ok := u.(SimpleType)
	if !ok {
		t.Fatalf("union of two simple types should stay simple, got %T", u)
	}
	if st.Bits != (Int | String) {
		t.Fatalf("union bits = %v, want Int|String", st.Bits)
	}
}

func TestNullUnionAbsorbsWhenAlreadyNullable(t *testing.T) {
	nullableInt := SimpleType{Bits: Int | Null}
	u := TNull.UnionWith(nullableInt)
	if u.String() != nullableInt.String() {
		t.Fatalf("null | T should equal T when T already admits null: got %s want %s", u.String(), nullableInt.String())
	}
}

func TestDenulledStripsNull(t *testing.T) {
	nullableInt := SimpleType{Bits: Int | Null}
	if got := nullableInt.Denulled(); got.String() != "int" {
		t.Fatalf("Denulled() = %s, want int", got.String())
	}
}

func TestPointerTypeString(t *testing.T) {
	p := TInt.Pointer()
	if p.String() != "int*" {
		t.Fatalf("pointer string = %q, want int*", p.String())
	}
	target, ok := p.Pointee()
	if !ok || target.String() != "int" {
		t.Fatalf("Pointee() = %v, %v", target, ok)
	}
}
