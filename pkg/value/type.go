package value

import "fmt"

// Assignability is the 3-valued result of a CanBeAssignedFrom query.
type Assignability int

const (
	Never Assignability = iota
	Sometimes
	Always
)

func (a Assignability) String() string {
	switch a {
	case Always:
		return "Always"
	case Sometimes:
		return "Sometimes"
	default:
		return "Never"
	}
}

// Signature describes a callable or indexable capability's shape, enough
// for the preparation pass to validate call sites without modelling full
// overload resolution.
type Signature struct {
	Params   []Parameter
	Returns  Type
}

// Parameter describes one formal parameter of a Signature.
type Parameter struct {
	Name      string
	Type      Type
	Variadic  bool
	Predicate bool
}

// Type is the polymorphic descriptor every program-AST node's declared or
// inferred type resolves to.
type Type interface {
	SimpleBits() Kind
	CanBeAssignedFrom(other Type) Assignability
	PromoteAssignment(v Value) (Value, error)
	Callable() (*Signature, bool)
	Indexable() (*Signature, bool)
	Dotable(property string) (Type, string, bool)
	Iterable() (Type, bool)
	UnionWith(other Type) Type
	Denulled() Type
	Pointee() (Type, bool)
	Pointer() Type
	String() string
}

// SimpleType is a bit-set backed Type covering the primitive, union, and
// nullable lattice. Richer capabilities (callable, pointee) belong to the
// other Type implementations in this package.
type SimpleType struct {
	Bits Kind
}

// Simple primitive type singletons.
var (
	TVoid    = SimpleType{Bits: Void}
	TNull    = SimpleType{Bits: Null}
	TBool    = SimpleType{Bits: Bool}
	TInt     = SimpleType{Bits: Int}
	TFloat   = SimpleType{Bits: Float}
	TString  = SimpleType{Bits: String}
	TObject  = SimpleType{Bits: Object}
	TType    = SimpleType{Bits: TypeKind}
	TAny     = SimpleType{Bits: Any}
	TAnyQ    = SimpleType{Bits: AnyQ}
	// Inferred is the placeholder type of a `var` declaration awaiting
	// inference; it carries the empty bit-set and prints as "var".
	Inferred = SimpleType{Bits: 0}
)

func (t SimpleType) SimpleBits() Kind { return t.Bits }

// CanBeAssignedFrom reports Always when other's bits are a subset of
// t's, Sometimes on partial overlap or the int->float widening case, and
// Never otherwise.
func (t SimpleType) CanBeAssignedFrom(other Type) Assignability {
	o, ok := other.(SimpleType)
	if !ok {
		// Composite types are not modelled structurally here; conservatively
		// report Sometimes unless the target admits nothing at all.
		if t.Bits == 0 {
			return Never
		}
		return Sometimes
	}
	l, r := t.Bits, o.Bits
	if r == 0 { // assigning from an uninferred var: defer, never fail outright
		return Sometimes
	}
	if r&^l == 0 {
		return Always
	}
	if l&r != 0 {
		return Sometimes
	}
	if l.HasOne(Float) && r.HasOne(Int) {
		return Sometimes
	}
	return Never
}

// PromoteAssignment returns v unchanged if already a subset of t's bits,
// widens int->float when applicable, or fails with the assignment error
// message the diagnostics surface to users.
func (t SimpleType) PromoteAssignment(v Value) (Value, error) {
	switch t.CanBeAssignedFrom(typeOfValue(v)) {
	case Always:
		if v.Has(Int) && t.Bits.HasOne(Float) && !t.Bits.HasOne(Int) {
			return NewFloat(float64(v.Int())), nil
		}
		return v, nil
	case Sometimes:
		if v.Has(Int) && t.Bits.HasOne(Float) {
			return NewFloat(float64(v.Int())), nil
		}
		return v, nil
	default:
		return Value{}, fmt.Errorf("Cannot assign a value of type '%s' to a target of type '%s'",
			TagToString(v.Kind().Storage()), t.String())
	}
}

func (t SimpleType) Callable() (*Signature, bool) { return nil, false }

// Indexable, Dotable, and Iterable implement duck typing for the Object
// bit: an expression whose static type admits 'object' may turn out to be
// an indexable/dotable/iterable container at runtime, so preparation
// accepts the operation and types the result 'any?'. Strings are iterable
// (code point by code point) but expose their builtins via Dotable's
// caller, which consults the known-builtin table first.
func (t SimpleType) Indexable() (*Signature, bool) {
	if t.Bits.HasOne(Object) {
		return &Signature{
			Params:  []Parameter{{Name: "index", Type: TAnyQ}},
			Returns: TAnyQ,
		}, true
	}
	return nil, false
}

func (t SimpleType) Dotable(property string) (Type, string, bool) {
	if t.Bits.HasOne(Object) {
		return TAnyQ, "", true
	}
	return nil, fmt.Sprintf("Values of type '%s' do not support properties such as '.%s'", t.String(), property), false
}

func (t SimpleType) Iterable() (Type, bool) {
	if t.Bits.HasOne(Object) {
		return TAnyQ, true
	}
	if t.Bits.HasOne(String) {
		return TString, true
	}
	return nil, false
}

// UnionWith implements the invariant that two simple types union to a
// simple type with the bitwise-or of their bits.
func (t SimpleType) UnionWith(other Type) Type {
	if o, ok := other.(SimpleType); ok {
		return SimpleType{Bits: t.Bits | o.Bits}
	}
	return unionComposite{a: t, b: other}
}

func (t SimpleType) Denulled() Type { return SimpleType{Bits: t.Bits &^ Null} }

func (t SimpleType) Pointee() (Type, bool) { return nil, false }

func (t SimpleType) Pointer() Type { return PointerType{Target: t} }

func (t SimpleType) String() string { return TagToString(t.Bits) }

// PointerType models `T*`, the address-of a pointee type.
type PointerType struct {
	Target Type
}

func (t PointerType) SimpleBits() Kind { return 0 }

func (t PointerType) CanBeAssignedFrom(other Type) Assignability {
	o, ok := other.(PointerType)
	if !ok {
		return Never
	}
	if o.Target == t.Target {
		return Always
	}
	return Sometimes
}

func (t PointerType) PromoteAssignment(v Value) (Value, error) { return v, nil }
func (t PointerType) Callable() (*Signature, bool)             { return nil, false }
func (t PointerType) Indexable() (*Signature, bool)            { return nil, false }
func (t PointerType) Dotable(property string) (Type, string, bool) {
	return nil, "pointers do not support property access", false
}
func (t PointerType) Iterable() (Type, bool) { return nil, false }
func (t PointerType) UnionWith(other Type) Type {
	return unionComposite{a: t, b: other}
}
func (t PointerType) Denulled() Type      { return t }
func (t PointerType) Pointee() (Type, bool) { return t.Target, true }
func (t PointerType) Pointer() Type       { return PointerType{Target: t} }
func (t PointerType) String() string      { return t.Target.String() + "*" }

// FunctionType is the Type of a named function or generator: a callable
// capability wrapping a Signature, with no simple bit-set of its own.
type FunctionType struct {
	Name      string
	Sig       Signature
	Generator bool
}

func (FunctionType) SimpleBits() Kind { return 0 }

func (t FunctionType) CanBeAssignedFrom(other Type) Assignability {
	if _, ok := other.(FunctionType); ok {
		return Sometimes
	}
	return Never
}

func (t FunctionType) PromoteAssignment(v Value) (Value, error) { return v, nil }

func (t FunctionType) Callable() (*Signature, bool) { return &t.Sig, true }

func (FunctionType) Indexable() (*Signature, bool) { return nil, false }

func (t FunctionType) Dotable(property string) (Type, string, bool) {
	return nil, fmt.Sprintf("Functions do not support property '.%s'", property), false
}

// Iterable reports the yield type when t is a generator: iterating a
// generator's iterator produces values of the declared yield type.
func (t FunctionType) Iterable() (Type, bool) {
	if t.Generator {
		return t.Sig.Returns, true
	}
	return nil, false
}

func (t FunctionType) UnionWith(other Type) Type { return unionComposite{a: t, b: other} }
func (t FunctionType) Denulled() Type            { return t }
func (FunctionType) Pointee() (Type, bool)       { return nil, false }
func (t FunctionType) Pointer() Type             { return PointerType{Target: t} }

func (t FunctionType) String() string {
	if t.Name != "" {
		return t.Name
	}
	return "function"
}

// unionComposite is the fallback node for unions that aren't representable
// as a single SimpleType bit-set (e.g. a union involving a pointer or an
// object capability type). Assignability stays conservative here.
type unionComposite struct {
	a, b Type
}

func (u unionComposite) SimpleBits() Kind { return 0 }
func (u unionComposite) CanBeAssignedFrom(other Type) Assignability {
	if u.a.CanBeAssignedFrom(other) == Always || u.b.CanBeAssignedFrom(other) == Always {
		return Always
	}
	if u.a.CanBeAssignedFrom(other) == Never && u.b.CanBeAssignedFrom(other) == Never {
		return Never
	}
	return Sometimes
}
func (u unionComposite) PromoteAssignment(v Value) (Value, error) { return v, nil }
func (u unionComposite) Callable() (*Signature, bool)             { return nil, false }
func (u unionComposite) Indexable() (*Signature, bool)            { return nil, false }
func (u unionComposite) Dotable(property string) (Type, string, bool) {
	return nil, "union does not support property access", false
}
func (u unionComposite) Iterable() (Type, bool)    { return nil, false }
func (u unionComposite) UnionWith(other Type) Type { return unionComposite{a: u, b: other} }
func (u unionComposite) Denulled() Type            { return u }
func (u unionComposite) Pointee() (Type, bool)     { return nil, false }
func (u unionComposite) Pointer() Type             { return PointerType{Target: u} }
func (u unionComposite) String() string            { return u.a.String() + "|" + u.b.String() }

// typeOfValue returns the simple type matching v's current storage tag,
// used internally when promoting an assignment from a concrete value.
func typeOfValue(v Value) Type {
	return SimpleType{Bits: v.Kind().Storage()}
}
