package vanilla

import (
	"testing"

	"github.com/zeta1999/egg/pkg/value"
)

func TestArraySetIndexAutoExtends(t *testing.T) {
	a := NewArray()
	if _, err := a.SetIndex(value.NewInt(3), value.NewString("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Len() != 4 {
		t.Fatalf("expected length 4 after setting index 3, got %d", a.Len())
	}
	for i := 0; i < 3; i++ {
		got, err := a.GetIndex(value.NewInt(int64(i)))
		if err != nil {
			t.Fatalf("unexpected error reading slot %d: %v", i, err)
		}
		if !got.Has(value.Null) {
			t.Fatalf("slot %d should be null-filled, got %v", i, got)
		}
	}
	last, err := a.GetIndex(value.NewInt(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last.String() != "x" {
		t.Fatalf("slot 3 = %v, want x", last)
	}
}

func TestArrayIndexBoundaries(t *testing.T) {
	a := NewArray()
	if _, err := a.SetIndex(value.NewInt(maxArrayIndex), value.NewInt(1)); err == nil {
		t.Fatalf("expected rejection at the max index boundary")
	}
	if _, err := a.GetIndex(value.NewInt(maxArrayIndex)); err == nil {
		t.Fatalf("expected rejection reading at the max index boundary")
	}
	if _, err := a.GetIndex(value.NewInt(-1)); err == nil {
		t.Fatalf("expected rejection for a negative index")
	}
}

func TestArrayIterationExhausts(t *testing.T) {
	a := NewArray()
	a.SetIndex(value.NewInt(0), value.NewInt(10))
	a.SetIndex(value.NewInt(1), value.NewInt(20))
	iterV, err := a.Iterate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iter := iterV.Object().(*arrayIterator)
	first, _ := iter.Call(nil)
	if first.Int() != 10 {
		t.Fatalf("first = %v, want 10", first)
	}
	second, _ := iter.Call(nil)
	if second.Int() != 20 {
		t.Fatalf("second = %v, want 20", second)
	}
	third, _ := iter.Call(nil)
	if !third.Has(value.Void) {
		t.Fatalf("expected Void after exhaustion, got %v", third)
	}
}

func TestArrayToString(t *testing.T) {
	a := NewArray()
	if a.String() != "[]" {
		t.Fatalf("empty array should render [], got %q", a.String())
	}
	a.SetIndex(value.NewInt(0), value.NewInt(1))
	a.SetIndex(value.NewInt(1), value.NewInt(2))
	if a.String() != "[1,2]" {
		t.Fatalf("array render = %q, want [1,2]", a.String())
	}
}

func TestDictionaryGetSetProperty(t *testing.T) {
	d := NewObject()
	if _, err := d.SetProperty("name", value.NewString("egg")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := d.GetProperty("name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "egg" {
		t.Fatalf("GetProperty(name) = %v, want egg", got)
	}
	if _, err := d.GetProperty("missing"); err == nil {
		t.Fatalf("expected error for missing property")
	}
}

func TestDictionaryIterationSnapshotsOrder(t *testing.T) {
	d := NewObject()
	d.SetProperty("a", value.NewInt(1))
	d.SetProperty("b", value.NewInt(2))
	iterV, _ := d.Iterate()
	d.SetProperty("c", value.NewInt(3)) // added after snapshot
	iter := iterV.Object().(*dictionaryIterator)
	var keys []string
	for {
		next, _ := iter.Call(nil)
		if next.Has(value.Void) {
			break
		}
		kv := next.Object().(*KeyValue)
		k, _ := kv.GetProperty("key")
		keys = append(keys, k.String())
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("iteration keys = %v, want [a b] (snapshot should exclude later insert)", keys)
	}
}

func TestKeyValueRejectsMutationAndIteration(t *testing.T) {
	kv := NewKeyValue(value.NewString("k"), value.NewInt(1))
	if _, err := kv.SetProperty("key", value.NewInt(2)); err == nil {
		t.Fatalf("expected key-value mutation to be rejected")
	}
	if _, err := kv.Iterate(); err == nil {
		t.Fatalf("expected key-value iteration to be rejected")
	}
}

func TestExceptionString(t *testing.T) {
	exc := NewException("1:2", "boom")
	if got := exc.String(); got != "1:2: boom" {
		t.Fatalf("exception string = %q, want %q", got, "1:2: boom")
	}
	bare := NewException("", "")
	if got := bare.String(); got != ": " && got != "Exception (no message)" {
		// empty location and message are not stored, so the "no message"
		// rendering is expected; the ": " rendering is accepted as well.
		t.Fatalf("unexpected bare exception string %q", got)
	}
}

func TestRaiseProducesExceptionTaggedValue(t *testing.T) {
	v := Raise("loc", "bad thing")
	if !v.Has(value.Exception) {
		t.Fatalf("Raise should produce an Exception-tagged value, got %v", v.Kind())
	}
	exc, ok := v.Object().(*Exception)
	if !ok {
		t.Fatalf("expected *Exception payload, got %T", v.Object())
	}
	msg, ok := exc.Message()
	if !ok || msg != "bad thing" {
		t.Fatalf("exception message = %q, %v, want bad thing", msg, ok)
	}
}

func TestBaseDefaultBehaviours(t *testing.T) {
	kv := NewKeyValue(value.NewString("k"), value.NewInt(1))
	if _, err := kv.Call(nil); err == nil {
		t.Fatalf("key-values should not support calling")
	}
	if _, err := kv.GetIndex(value.NewInt(0)); err == nil {
		t.Fatalf("non-string index should be rejected by the default getIndex")
	}
	got, err := kv.GetIndex(value.NewString("key"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "k" {
		t.Fatalf("GetIndex('key') = %v, want k", got)
	}
}
