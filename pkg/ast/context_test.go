package ast

import "testing"

func TestInheritAllowedKeepsOnlyInheritedBitsThenAdds(t *testing.T) {
	root := NewContext("t.egg")
	root.allowed = AllowedBreak | AllowedCase
	child := root.InheritAllowed(AllowedReturn, AllowedCase)
	if child.IsAllowed(AllowedBreak) {
		t.Fatalf("break should not survive: not in the inherit mask")
	}
	if !child.IsAllowed(AllowedCase) {
		t.Fatalf("case should survive: named in the inherit mask")
	}
	if !child.IsAllowed(AllowedReturn) {
		t.Fatalf("return should be present: it was added")
	}
}

func TestWithAllowedIgnoresParentBits(t *testing.T) {
	root := NewContext("t.egg")
	root.allowed = AllowedBreak | AllowedContinue
	child := root.WithAllowed(AllowedReturn)
	if child.IsAllowed(AllowedBreak) || child.IsAllowed(AllowedContinue) {
		t.Fatalf("WithAllowed must not inherit any parent bit")
	}
	if !child.IsAllowed(AllowedReturn) {
		t.Fatalf("expected AllowedReturn to be set")
	}
}

func TestErrorsAccumulateAcrossInheritedContexts(t *testing.T) {
	root := NewContext("t.egg")
	child := root.InheritAllowed(AllowedNone, AllowedNone)
	child.Raise(nil, "child error")
	root.Raise(nil, "root error")
	if len(root.Errors()) != 2 {
		t.Fatalf("expected both errors to land in the shared sink, got %d", len(root.Errors()))
	}
}
