package prepare

import (
	"strings"
	"testing"

	"github.com/zeta1999/egg/pkg/ast"
	"github.com/zeta1999/egg/pkg/syntax"
)

func loc() syntax.Location { return syntax.Location{Resource: "t.egg", Line: 1, Column: 1} }

func typeNode(text string) syntax.Node { return syntax.New("type", text, loc()) }

func identNode(name string) syntax.Node { return syntax.New("identifier", name, loc()) }

func intLit(text string) syntax.Node { return syntax.New("literal-int", text, loc()) }

func strLit(text string) syntax.Node { return syntax.New("literal-string", text, loc()) }

func boolLit(text string) syntax.Node { return syntax.New("literal-bool", text, loc()) }

func floatLit(text string) syntax.Node { return syntax.New("literal-float", text, loc()) }

func block(statements ...syntax.Node) syntax.Node {
	return syntax.New("block", "", loc(), statements...)
}

func declare(name, typeText string, init syntax.Node) syntax.Node {
	children := []syntax.Node{typeNode(typeText)}
	if init != nil {
		children = append(children, init)
	}
	return syntax.New("declare", name, loc(), children...)
}

// prepareSource promotes statements as a module and runs the preparation
// pass, returning the severity and the collected diagnostics.
func prepareSource(t *testing.T, statements ...syntax.Node) (Severity, *Collector, *ast.Module) {
	t.Helper()
	module := syntax.New("module", "", loc(), statements...)
	m, err := ast.Promote("t.egg", module)
	if err != nil {
		t.Fatalf("promotion failed: %v", err)
	}
	sink := &Collector{}
	sev := Prepare("t.egg", m, sink)
	return sev, sink, m
}

func hasDiagnostic(c *Collector, sev Severity, fragment string) bool {
	for _, d := range c.Diagnostics {
		if d.Severity == sev && strings.Contains(d.Message, fragment) {
			return true
		}
	}
	return false
}

func TestEmptyModule(t *testing.T) {
	sev, _, m := prepareSource(t)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s", sev)
	}
	if got := ast.Dump(m); got != "(module)" {
		t.Fatalf("dump mismatch: %s", got)
	}
}

func TestDeclareVarWithoutInitializerCannotInfer(t *testing.T) {
	sev, sink, m := prepareSource(t, declare("foo", "var", nil))
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Cannot infer type of 'foo' declared with 'var'") {
		t.Fatalf("missing inference diagnostic: %+v", sink.Diagnostics)
	}
	if got := ast.Dump(m); got != "(module (declare 'foo' (type 'var')))" {
		t.Fatalf("dump mismatch: %s", got)
	}
}

func TestDeclareVarWithInitializerInfersInt(t *testing.T) {
	sev, _, m := prepareSource(t,
		declare("foo", "var", intLit("42")),
		syntax.New("assign", "=", loc(), identNode("foo"), intLit("1")),
	)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s", sev)
	}
	want := "(module (initialize 'foo' (type 'var') (literal int 42)) (assign '=' (identifier 'foo') (literal int 1)))"
	if got := ast.Dump(m); got != want {
		t.Fatalf("dump mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestInferredIntRejectsStringAssignment(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		declare("foo", "var", intLit("42")),
		syntax.New("assign", "=", loc(), identNode("foo"), strLit("nope")),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Cannot assign a value of type 'string' to a target of type 'int'") {
		t.Fatalf("missing assignment diagnostic: %+v", sink.Diagnostics)
	}
}

func TestAnyNullableAcceptsStringInitializer(t *testing.T) {
	sev, _, m := prepareSource(t, declare("bar", "any?", strLit("hello")))
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s", sev)
	}
	want := "(module (initialize 'bar' (type 'any?') (literal string 'hello')))"
	if got := ast.Dump(m); got != want {
		t.Fatalf("dump mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestDuplicateSymbolAbandonsModule(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		declare("x", "int", intLit("1")),
		declare("x", "int", intLit("2")),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Duplicate symbol declared: 'x'") {
		t.Fatalf("missing duplicate diagnostic: %+v", sink.Diagnostics)
	}
}

func TestUnknownIdentifier(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("assign", "=", loc(), identNode("ghost"), intLit("1")),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Unknown identifier: 'ghost'") {
		t.Fatalf("missing identifier diagnostic: %+v", sink.Diagnostics)
	}
}

func TestReturnAtModuleScopeIsPromotionError(t *testing.T) {
	ret := syntax.New("return", "", loc())
	module := syntax.New("module", "", loc(), ret)
	if _, err := ast.Promote("t.egg", module); err == nil {
		t.Fatalf("expected 'return' at module scope to fail promotion")
	}
}

func TestUnreachableCodeWarnsOnceAndKeepsPreparing(t *testing.T) {
	body := block(
		syntax.New("return", "", loc(), intLit("1")),
		syntax.New("assign", "=", loc(), identNode("ghost"), intLit("2")),
	)
	fn := syntax.New("function", "f", loc(), typeNode("int"), body)
	sev, sink, _ := prepareSource(t, fn)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Warning, "Unreachable code") {
		t.Fatalf("missing unreachable warning: %+v", sink.Diagnostics)
	}
	// The unreachable statement is still prepared, so its own error surfaces.
	if !hasDiagnostic(sink, Error, "Unknown identifier: 'ghost'") {
		t.Fatalf("unreachable statement was not prepared: %+v", sink.Diagnostics)
	}
}

func TestFunctionMissingReturn(t *testing.T) {
	fn := syntax.New("function", "f", loc(), typeNode("int"), block())
	sev, sink, _ := prepareSource(t, fn)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Missing 'return' statement with a value of type 'int'") {
		t.Fatalf("missing return diagnostic: %+v", sink.Diagnostics)
	}
}

func TestVoidFunctionMayFallThrough(t *testing.T) {
	fn := syntax.New("function", "f", loc(), typeNode("void"), block())
	sev, _, _ := prepareSource(t, fn)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s", sev)
	}
}

func TestFunctionReturnTypeMismatch(t *testing.T) {
	body := block(syntax.New("return", "", loc(), strLit("nope")))
	fn := syntax.New("function", "f", loc(), typeNode("int"), body)
	sev, sink, _ := prepareSource(t, fn)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected 'return' statement with a value of type 'int', but got 'string' instead") {
		t.Fatalf("missing return-type diagnostic: %+v", sink.Diagnostics)
	}
}

func TestGeneratorReturnMustBeBare(t *testing.T) {
	body := block(
		syntax.New("yield", "", loc(), intLit("1")),
		syntax.New("return", "", loc(), intLit("2")),
	)
	gen := syntax.New("generator", "g", loc(), typeNode("int"), body)
	sev, sink, _ := prepareSource(t, gen)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Unexpected value in generator 'return' statement") {
		t.Fatalf("missing generator-return diagnostic: %+v", sink.Diagnostics)
	}
}

func TestGeneratorYieldTypeChecked(t *testing.T) {
	body := block(syntax.New("yield", "", loc(), strLit("nope")))
	gen := syntax.New("generator", "g", loc(), typeNode("int"), body)
	sev, sink, _ := prepareSource(t, gen)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected 'yield' statement with a value of type 'int', but got 'string' instead") {
		t.Fatalf("missing yield diagnostic: %+v", sink.Diagnostics)
	}
}

func TestForeachInfersElementTypeFromIterable(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "items", loc(), typeNode("object")),
		syntax.New("foreach", "item", loc(),
			typeNode("var"),
			identNode("items"),
			block(syntax.New("assign", "=", loc(), identNode("item"), strLit("ok"))),
		),
	)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s (%+v)", sev, sink.Diagnostics)
	}
}

func TestForeachOverNonIterableFails(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "n", loc(), typeNode("int")),
		syntax.New("foreach", "item", loc(), typeNode("var"), identNode("n"), block()),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "not iterable: 'int'") {
		t.Fatalf("missing iterable diagnostic: %+v", sink.Diagnostics)
	}
}

func TestGuardOfNonNullableTypeWarnsAlwaysSucceeds(t *testing.T) {
	guard := syntax.New("guard", "x", loc(), typeNode("int"), intLit("42"))
	ifStmt := syntax.New("if", "", loc(), guard, block())
	sev, sink, _ := prepareSource(t, ifStmt)
	if sev != Warning {
		t.Fatalf("expected warning severity, got %s (%+v)", sev, sink.Diagnostics)
	}
	if !hasDiagnostic(sink, Warning, "Guarded assignment to 'x' of type 'int' will always succeed") {
		t.Fatalf("missing guard warning: %+v", sink.Diagnostics)
	}
}

func TestGuardInfersDenulledType(t *testing.T) {
	// var guard over an int? value infers int; assigning a string then fails.
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "maybe", loc(), typeNode("int?")),
		syntax.New("if", "", loc(),
			syntax.New("guard", "x", loc(), typeNode("var"), identNode("maybe")),
			block(syntax.New("assign", "=", loc(), identNode("x"), strLit("nope"))),
		),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Cannot assign a value of type 'string' to a target of type 'int'") {
		t.Fatalf("guard did not infer denulled int: %+v", sink.Diagnostics)
	}
}

func TestNullCoalescingWarnsWhenLhsNeverNull(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "n", loc(), typeNode("int")),
		declare("x", "var", syntax.New("binary", "??", loc(), identNode("n"), intLit("0"))),
	)
	if sev != Warning {
		t.Fatalf("expected warning severity, got %s (%+v)", sev, sink.Diagnostics)
	}
	if !hasDiagnostic(sink, Warning, "possibly 'null'") {
		t.Fatalf("missing null-coalescing warning: %+v", sink.Diagnostics)
	}
}

func TestArithmeticRejectsStringOperand(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "s", loc(), typeNode("string")),
		declare("x", "var", syntax.New("binary", "+", loc(), intLit("1"), identNode("s"))),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected right-hand side of '+' operator to be 'int' or 'float', but got 'string' instead") {
		t.Fatalf("missing arithmetic diagnostic: %+v", sink.Diagnostics)
	}
}

func TestArithmeticFloatOnlySideRequiresFloatOnOtherSide(t *testing.T) {
	// The right-hand side is float-only, so the left-hand side must also
	// admit 'float'; int|string overlaps the arithmetic bits via Int alone,
	// which is not enough.
	unionType := syntax.New("type-union", "int|string", loc(), typeNode("int"), typeNode("string"))
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "x", loc(), unionType),
		declare("y", "var", syntax.New("binary", "+", loc(), identNode("x"), floatLit("1.5"))),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s (%+v)", sev, sink.Diagnostics)
	}
	if !hasDiagnostic(sink, Error, "Expected left-hand side of '+' operator to be 'float', but got 'int|string' instead") {
		t.Fatalf("missing cross-side arithmetic diagnostic: %+v", sink.Diagnostics)
	}
}

func TestComparisonFloatOnlySideRequiresFloatOnOtherSide(t *testing.T) {
	unionType := syntax.New("type-union", "int|string", loc(), typeNode("int"), typeNode("string"))
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "x", loc(), unionType),
		declare("y", "var", syntax.New("binary", "<", loc(), identNode("x"), floatLit("1.5"))),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s (%+v)", sev, sink.Diagnostics)
	}
	if !hasDiagnostic(sink, Error, "Expected left-hand side of '<' operator to be 'float', but got 'int|string' instead") {
		t.Fatalf("missing cross-side comparison diagnostic: %+v", sink.Diagnostics)
	}
}

func TestArithmeticFloatOnlyLhsRejectsNonFloatRhs(t *testing.T) {
	unionType := syntax.New("type-union", "int|string", loc(), typeNode("int"), typeNode("string"))
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "f", loc(), typeNode("float")),
		syntax.New("declare", "x", loc(), unionType),
		declare("y", "var", syntax.New("binary", "*", loc(), identNode("f"), identNode("x"))),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s (%+v)", sev, sink.Diagnostics)
	}
	if !hasDiagnostic(sink, Error, "Expected right-hand side of '*' operator to be 'float', but got 'int|string' instead") {
		t.Fatalf("missing cross-side arithmetic diagnostic: %+v", sink.Diagnostics)
	}
}

func TestArithmeticBothSidesAdmittingFloatIsAccepted(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "f", loc(), typeNode("float")),
		declare("y", "var", syntax.New("binary", "+", loc(), identNode("f"), floatLit("0.5"))),
	)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s (%+v)", sev, sink.Diagnostics)
	}
}

func TestMutateRequiresInt(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "s", loc(), typeNode("string")),
		syntax.New("mutate", "++", loc(), identNode("s")),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected target of integer '++' operator to be 'int', but got 'string' instead") {
		t.Fatalf("missing mutate diagnostic: %+v", sink.Diagnostics)
	}
}

func TestBitwiseAssignRequiresMatchingBasalBits(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "n", loc(), typeNode("int")),
		syntax.New("declare", "b", loc(), typeNode("bool")),
		syntax.New("assign", "&=", loc(), identNode("n"), identNode("b")),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected right-hand side of '&=' assignment operator to be 'int', but got 'bool' instead") {
		t.Fatalf("missing bitwise diagnostic: %+v", sink.Diagnostics)
	}
}

func TestShiftAssignRequiresInt(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "b", loc(), typeNode("bool")),
		syntax.New("assign", "<<=", loc(), identNode("b"), intLit("1")),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected left-hand target of integer '<<=' assignment operator to be 'int', but got 'bool' instead") {
		t.Fatalf("missing shift diagnostic: %+v", sink.Diagnostics)
	}
}

func TestCallUnknownCalleeTypeFails(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "n", loc(), typeNode("int")),
		syntax.New("call", "", loc(), identNode("n")),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected function-like expression to be callable, but got 'int' instead") {
		t.Fatalf("missing callable diagnostic: %+v", sink.Diagnostics)
	}
}

func TestCallPrintBuiltin(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("call", "", loc(), identNode("print"), strLit("hello")),
	)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s (%+v)", sev, sink.Diagnostics)
	}
}

func TestCallAssertMarksPredicateArgument(t *testing.T) {
	call := syntax.New("call", "", loc(), identNode("assert"),
		syntax.New("binary", "==", loc(), intLit("1"), intLit("1")))
	module := syntax.New("module", "", loc(), call)
	m, err := ast.Promote("t.egg", module)
	if err != nil {
		t.Fatalf("promotion failed: %v", err)
	}
	sink := &Collector{}
	if sev := Prepare("t.egg", m, sink); sev != SeverityNone {
		t.Fatalf("expected severity none, got %s (%+v)", sev, sink.Diagnostics)
	}
	callNode, ok := m.Statements[0].(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", m.Statements[0])
	}
	if len(callNode.PredicateArgs) != 1 || !callNode.PredicateArgs[0] {
		t.Fatalf("expected the assert argument to be predicate-marked: %+v", callNode.PredicateArgs)
	}
}

func TestCallTooManyArguments(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("call", "", loc(), identNode("type"), intLit("1"), intLit("2")),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected 1 parameter(s)") {
		t.Fatalf("missing arity diagnostic: %+v", sink.Diagnostics)
	}
}

func TestNonVoidCallStatementWarns(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("call", "", loc(), identNode("string"), intLit("1")),
	)
	if sev != Warning {
		t.Fatalf("expected warning severity, got %s (%+v)", sev, sink.Diagnostics)
	}
	if !hasDiagnostic(sink, Warning, "Expected statement to return 'void', but got 'string' instead") {
		t.Fatalf("missing statement-type warning: %+v", sink.Diagnostics)
	}
}

func TestStringLengthProperty(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "s", loc(), typeNode("string")),
		declare("n", "int", syntax.New("binary", ".", loc(), identNode("s"), identNode("length"))),
	)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s (%+v)", sev, sink.Diagnostics)
	}
}

func TestStringUnknownPropertyFails(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "s", loc(), typeNode("string")),
		declare("x", "var", syntax.New("binary", ".", loc(), identNode("s"), identNode("bogus"))),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Unknown property for 'string' value: '.bogus'") {
		t.Fatalf("missing property diagnostic: %+v", sink.Diagnostics)
	}
}

func TestStringIndexMustBeInt(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "s", loc(), typeNode("string")),
		declare("x", "var", syntax.New("binary", "[]", loc(), identNode("s"), strLit("key"))),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected index of '[]' operator on 'string' to be 'int', but got 'string' instead") {
		t.Fatalf("missing index diagnostic: %+v", sink.Diagnostics)
	}
}

func TestIndexingNonContainerFails(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "n", loc(), typeNode("int")),
		declare("x", "var", syntax.New("binary", "[]", loc(), identNode("n"), intLit("0"))),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected subject of '[]' operator to be 'string' or 'object', but got 'int' instead") {
		t.Fatalf("missing subject diagnostic: %+v", sink.Diagnostics)
	}
}

func TestTernaryConditionMustBeBool(t *testing.T) {
	sev, sink, _ := prepareSource(t,
		declare("x", "var", syntax.New("ternary", "", loc(), intLit("1"), intLit("2"), intLit("3"))),
	)
	if sev != Error {
		t.Fatalf("expected error severity, got %s", sev)
	}
	if !hasDiagnostic(sink, Error, "Expected condition of ternary '?:' operator to be 'bool', but got 'int' instead") {
		t.Fatalf("missing ternary diagnostic: %+v", sink.Diagnostics)
	}
}

func TestTernaryTypeIsUnionOfArms(t *testing.T) {
	unionType := syntax.New("type-union", "int|string", loc(), typeNode("int"), typeNode("string"))
	ternary := syntax.New("ternary", "", loc(), identNode("flag"), intLit("1"), strLit("two"))
	sev, sink, _ := prepareSource(t,
		syntax.New("declare", "flag", loc(), typeNode("bool")),
		syntax.New("declare", "x", loc(), unionType, ternary),
	)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s (%+v)", sev, sink.Diagnostics)
	}
}

func TestSwitchWithDefaultCoversFunctionReturn(t *testing.T) {
	caseClause := syntax.New("case", "", loc(), intLit("1"),
		block(syntax.New("return", "", loc(), intLit("10"))))
	defaultClause := syntax.New("default", "", loc(),
		block(syntax.New("return", "", loc(), intLit("20"))))
	body := block(
		syntax.New("switch", "", loc(), identNode("n"), caseClause, defaultClause),
	)
	fn := syntax.New("function", "f", loc(), typeNode("int"),
		syntax.New("parameter", "n", loc(), typeNode("int")), body)
	sev, sink, _ := prepareSource(t, fn)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s (%+v)", sev, sink.Diagnostics)
	}
}

func TestSwitchWithoutDefaultFallsThrough(t *testing.T) {
	caseClause := syntax.New("case", "", loc(), intLit("1"),
		block(syntax.New("return", "", loc(), intLit("10"))))
	body := block(
		syntax.New("switch", "", loc(), identNode("n"), caseClause),
	)
	fn := syntax.New("function", "f", loc(), typeNode("int"),
		syntax.New("parameter", "n", loc(), typeNode("int")), body)
	sev, sink, _ := prepareSource(t, fn)
	if sev != Error {
		t.Fatalf("expected error severity, got %s (%+v)", sev, sink.Diagnostics)
	}
	if !hasDiagnostic(sink, Error, "Missing 'return' statement") {
		t.Fatalf("missing fallthrough diagnostic: %+v", sink.Diagnostics)
	}
}

func TestTryFallsThroughWhenAnyPathDoes(t *testing.T) {
	// try returns, but the catch falls through, so the function needs no
	// trailing return only if every path returns - here it errors.
	try := syntax.New("try", "", loc(),
		block(syntax.New("return", "", loc(), intLit("1"))),
		syntax.New("catch", "e", loc(), typeNode("any?"), block()),
	)
	fn := syntax.New("function", "f", loc(), typeNode("int"), block(try))
	sev, sink, _ := prepareSource(t, fn)
	if sev != Error {
		t.Fatalf("expected error severity, got %s (%+v)", sev, sink.Diagnostics)
	}
	if !hasDiagnostic(sink, Error, "Missing 'return' statement") {
		t.Fatalf("missing reachability diagnostic: %+v", sink.Diagnostics)
	}
}

func TestCatchVariableIsBoundInItsBlock(t *testing.T) {
	try := syntax.New("try", "", loc(),
		block(),
		syntax.New("catch", "e", loc(), typeNode("any?"),
			block(syntax.New("call", "", loc(), identNode("print"), identNode("e")))),
	)
	sev, sink, _ := prepareSource(t, try)
	if sev != SeverityNone {
		t.Fatalf("expected severity none, got %s (%+v)", sev, sink.Diagnostics)
	}
}

func TestIfConstantConditionWarns(t *testing.T) {
	ifStmt := syntax.New("if", "", loc(), boolLit("true"), block())
	sev, sink, _ := prepareSource(t, ifStmt)
	if sev != Warning {
		t.Fatalf("expected warning severity, got %s (%+v)", sev, sink.Diagnostics)
	}
	if !hasDiagnostic(sink, Warning, "Condition in 'if' statement is constant") {
		t.Fatalf("missing constant-condition warning: %+v", sink.Diagnostics)
	}
}

func TestDumpIsStableAcrossPreparation(t *testing.T) {
	module := syntax.New("module", "", loc(), declare("foo", "var", intLit("42")))
	m, err := ast.Promote("t.egg", module)
	if err != nil {
		t.Fatalf("promotion failed: %v", err)
	}
	before := ast.Dump(m)
	Prepare("t.egg", m, &Collector{})
	after := ast.Dump(m)
	if before != after {
		t.Fatalf("dump changed across preparation:\nbefore: %s\nafter:  %s", before, after)
	}
}
