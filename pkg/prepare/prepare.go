package prepare

import (
	"strings"

	"github.com/zeta1999/egg/pkg/ast"
	"github.com/zeta1999/egg/pkg/symtable"
	"github.com/zeta1999/egg/pkg/syntax"
	"github.com/zeta1999/egg/pkg/value"
)

// Prepare runs the preparation pass over a promoted module: it builds the
// root symbol table with the built-ins registered, walks every statement,
// and returns the worst severity observed — Error if any subtree was
// abandoned. Diagnostics are delivered through sink as they are raised.
func Prepare(resource string, module *ast.Module, sink Sink) Severity {
	ctx := NewContext(resource, symtable.NewRoot(), sink)
	if ctx.prepareModule(module).Abandoned() {
		return Error
	}
	return ctx.WorstSeverity()
}

// PrepareWith runs the pass under a caller-supplied context, used by the
// driver when it wants to own the root scope (e.g. to basket-register it).
func PrepareWith(ctx *Context, module *ast.Module) Flags {
	return ctx.prepareModule(module)
}

func (c *Context) prepareModule(m *ast.Module) Flags {
	// The module body shares the root scope; no nesting needed.
	if c.findDuplicateSymbols(m.Statements) {
		return Abandon
	}
	return c.prepareStatements(m.Statements)
}

func (c *Context) prepareBlock(b *ast.Block) Flags {
	if c.findDuplicateSymbols(b.Statements) {
		return Abandon
	}
	nested := c.nested(c.scope.Nested())
	return nested.prepareStatements(b.Statements)
}

// symbolOf reports the name and declared type a statement introduces into
// its enclosing scope, if any.
func symbolOf(stmt ast.Statement) (string, value.Type, symtable.Kind, bool) {
	switch s := stmt.(type) {
	case *ast.Declare:
		return s.Name, s.Type.Resolve(), symtable.ReadWrite, true
	case *ast.Function:
		return s.Name, functionTypeOf(s), symtable.ReadOnly, true
	}
	return "", nil, 0, false
}

// functionTypeOf builds the callable type a function or generator
// definition binds its name to.
func functionTypeOf(fn *ast.Function) value.FunctionType {
	params := make([]value.Parameter, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, value.Parameter{
			Name:      p.Name,
			Type:      p.Type.Resolve(),
			Variadic:  p.Variadic,
			Predicate: p.Predicate,
		})
	}
	return value.FunctionType{
		Name:      fn.Name,
		Sig:       value.Signature{Params: params, Returns: fn.ReturnType.Resolve()},
		Generator: fn.IsGenerator,
	}
}

// findDuplicateSymbols runs duplicate-symbol discovery over a statement
// list before it is prepared; a clash within the same block is fatal.
func (c *Context) findDuplicateSymbols(statements []ast.Statement) bool {
	seen := map[string]syntax.Location{}
	duplicated := false
	for _, stmt := range statements {
		name, _, _, ok := symbolOf(stmt)
		if !ok {
			continue
		}
		if first, clash := seen[name]; clash {
			c.compilerError(stmt.Location(), "Duplicate symbol declared: '%s' (first declared at (%d,%d))",
				name, first.Line, first.Column)
			duplicated = true
			continue
		}
		seen[name] = stmt.Location()
	}
	return duplicated
}

// prepareStatements prepares a statement list in order. The list falls
// through when its last reachable statement does; statements after the
// first non-fallthrough one warn once as unreachable but are still
// prepared so their diagnostics surface.
func (c *Context) prepareStatements(statements []ast.Statement) Flags {
	retval := Fallthrough
	unreachable := false
	for _, stmt := range statements {
		if !unreachable && !retval.FallsThrough() {
			c.compilerWarning(stmt.Location(), "Unreachable code")
			unreachable = true
		}
		if name, declared, kind, ok := symbolOf(stmt); ok {
			// Clashes within the list were discovered up front; the module
			// shares the root scope, so a name can still clash with a builtin.
			if _, err := c.scope.Declare(kind, name, declared); err != nil {
				return c.compilerError(stmt.Location(), "Duplicate symbol declared: '%s'", name)
			}
		}
		retval = c.prepareStatement(stmt)
		if retval.Abandoned() {
			return retval
		}
		if expr, ok := stmt.(ast.Expression); ok {
			if t := expr.GetType(); t != nil && t.SimpleBits() != 0 && !t.SimpleBits().Is(value.Void) {
				c.compilerWarning(stmt.Location(), "Expected statement to return 'void', but got '%s' instead", t.String())
			}
		}
	}
	return retval
}

func (c *Context) prepareStatement(stmt ast.Statement) Flags {
	switch s := stmt.(type) {
	case *ast.Block:
		return c.prepareBlock(s)
	case *ast.Declare:
		return c.prepareDeclare(s)
	case *ast.Assign:
		return c.prepareAssign(s)
	case *ast.Mutate:
		return c.prepareMutate(s)
	case *ast.Break, *ast.Continue:
		// Context legality was enforced by promotion; neither falls through.
		return None
	case *ast.Empty:
		return Fallthrough
	case *ast.Do:
		return c.prepareDo(s)
	case *ast.If:
		return c.prepareIf(s)
	case *ast.For:
		return c.prepareFor(s)
	case *ast.Foreach:
		return c.prepareForeach(s)
	case *ast.While:
		return c.prepareWhile(s)
	case *ast.Return:
		return c.prepareReturn(s)
	case *ast.Yield:
		return c.prepareYield(s)
	case *ast.Switch:
		return c.prepareSwitch(s)
	case *ast.Throw:
		return c.prepareThrow(s)
	case *ast.Try:
		return c.prepareTry(s)
	case *ast.Function:
		return c.prepareFunction(s)
	case *ast.Call:
		return c.prepareCall(s)
	case ast.Expression:
		return c.prepareExpression(s)
	default:
		return c.compilerError(stmt.Location(), "Unexpected statement of kind '%s'", stmt.NodeType())
	}
}

func (c *Context) prepareDeclare(d *ast.Declare) Flags {
	ltype := d.Type.Resolve()
	if d.Init != nil {
		if c.prepareExpression(d.Init).Abandoned() {
			return Abandon
		}
		_, flags := c.typeCheck(d.Init.Location(), d.Name, ltype, d.Init.GetType(), false)
		return flags
	}
	if isInferred(ltype) {
		return c.compilerError(d.Location(), "Cannot infer type of '%s' declared with 'var'", d.Name)
	}
	return Fallthrough
}

// prepareGuard prepares the `if (T name = expr)` form: the initializer is
// checked with guard semantics, inferring by stripping Null and warning
// when the guarded assignment cannot fail.
func (c *Context) prepareGuard(d *ast.Declare) Flags {
	if c.prepareExpression(d.Init).Abandoned() {
		return Abandon
	}
	_, flags := c.typeCheck(d.Location(), d.Name, d.Type.Resolve(), d.Init.GetType(), true)
	return flags
}

// typeCheck validates that a declaration of ltype can accept a value of
// rtype, inferring ltype (and recording the inference on the symbol) when
// the declaration used 'var'. guard selects guarded-declaration semantics.
func (c *Context) typeCheck(where syntax.Location, name string, ltype value.Type, rtype value.Type, guard bool) (value.Type, Flags) {
	if isInferred(ltype) {
		inferred := devoided(rtype)
		if guard && inferred != nil {
			inferred = inferred.Denulled()
		}
		if inferred == nil || isInferred(inferred) {
			return nil, c.compilerError(where, "Cannot infer type of '%s' based on a value of type '%s'", name, rtype.String())
		}
		if sym, ok := c.scope.Find(name, false); ok {
			sym.InferredType = inferred
		}
		ltype = inferred
	}
	assignable := ltype.CanBeAssignedFrom(rtype)
	if assignable == value.Never {
		return nil, c.compilerError(where, "Cannot initialize '%s' of type '%s' with a value of type '%s'",
			name, ltype.String(), rtype.String())
	}
	if guard && assignable == value.Always {
		c.compilerWarning(where, "Guarded assignment to '%s' of type '%s' will always succeed", name, ltype.String())
	}
	return ltype, Fallthrough
}

func (c *Context) prepareAssign(a *ast.Assign) Flags {
	if c.prepareExpression(a.Lhs).Abandoned() || c.prepareExpression(a.Rhs).Abandoned() {
		return Abandon
	}
	ltype, rtype := a.Lhs.GetType(), a.Rhs.GetType()
	op := a.Op.Token()
	switch a.Op {
	case ast.AssignSimple:
		if ltype.CanBeAssignedFrom(rtype) == value.Never {
			return c.compilerError(a.Location(), "Cannot assign a value of type '%s' to a target of type '%s'",
				rtype.String(), ltype.String())
		}
	case ast.AssignLogicalAnd, ast.AssignLogicalOr:
		if !hasBasal(ltype, value.Bool) {
			return c.compilerError(a.Location(), "Expected left-hand side of '%s' assignment operator to be 'bool', but got '%s' instead", op, ltype.String())
		}
		if !hasBasal(rtype, value.Bool) {
			return c.compilerError(a.Location(), "Expected right-hand side of '%s' assignment operator to be 'bool', but got '%s' instead", op, rtype.String())
		}
	case ast.AssignBitwiseAnd, ast.AssignBitwiseOr, ast.AssignBitwiseXor:
		if !hasBasal(ltype, value.Bool|value.Int) {
			return c.compilerError(a.Location(), "Expected left-hand side of '%s' assignment operator to be 'bool' or 'int', but got '%s' instead", op, ltype.String())
		}
		if rtype.SimpleBits() != ltype.SimpleBits() {
			return c.compilerError(a.Location(), "Expected right-hand side of '%s' assignment operator to be '%s', but got '%s' instead", op, ltype.String(), rtype.String())
		}
	case ast.AssignShiftLeft, ast.AssignShiftRight, ast.AssignShiftRightUnsigned:
		if !hasBasal(ltype, value.Int) {
			return c.compilerError(a.Location(), "Expected left-hand target of integer '%s' assignment operator to be 'int', but got '%s' instead", op, ltype.String())
		}
		if !hasBasal(rtype, value.Int) {
			return c.compilerError(a.Location(), "Expected right-hand side of integer '%s' assignment operator to be 'int', but got '%s' instead", op, rtype.String())
		}
	case ast.AssignPlus, ast.AssignMinus, ast.AssignMultiply, ast.AssignDivide, ast.AssignRemainder:
		switch arithmeticTypes(rtype) {
		case arithmeticFloat:
			if !hasBasal(ltype, value.Float) {
				return c.compilerError(a.Location(), "Expected left-hand target of floating-point '%s' assignment operator to be 'float', but got '%s' instead", op, ltype.String())
			}
		case arithmeticInt, arithmeticBoth:
			if arithmeticTypes(ltype) == arithmeticNone {
				return c.compilerError(a.Location(), "Expected left-hand target of '%s' assignment operator to be 'int' or 'float', but got '%s' instead", op, ltype.String())
			}
		case arithmeticNone:
			return c.compilerError(a.Location(), "Expected right-hand side of '%s' assignment operator to be 'int' or 'float', but got '%s' instead", op, rtype.String())
		}
	case ast.AssignNullCoalescing:
		if ltype.CanBeAssignedFrom(rtype) == value.Never {
			return c.compilerError(a.Location(), "Cannot assign a value of type '%s' to a target of type '%s'",
				rtype.String(), ltype.String())
		}
		if !hasBasal(ltype, value.Null) {
			c.compilerWarning(a.Location(), "Expected left-hand target of null-coalescing '??=' assignment operator to be possibly 'null', but got '%s' instead", ltype.String())
		}
	}
	return Fallthrough
}

func (c *Context) prepareMutate(m *ast.Mutate) Flags {
	if c.prepareExpression(m.Target).Abandoned() {
		return Abandon
	}
	if !hasBasal(m.Target.GetType(), value.Int) {
		return c.compilerError(m.Location(), "Expected target of integer '%s' operator to be 'int', but got '%s' instead",
			m.Op.Token(), m.Target.GetType().String())
	}
	return Fallthrough
}

func (c *Context) prepareDo(d *ast.Do) Flags {
	if c.prepareExpression(d.Cond).Abandoned() {
		return Abandon
	}
	return c.prepareBlock(d.Body)
}

func (c *Context) prepareIf(i *ast.If) Flags {
	// The condition (or guard) gets its own scope; the else branch is
	// prepared in the original scope with no guarded identifiers visible.
	scope := c.nested(c.scope.Nested())
	var pcond Flags
	if i.Guard != nil {
		scope.scope.Declare(symtable.ReadWrite, i.Guard.Name, i.Guard.Type.Resolve())
		pcond = scope.prepareGuard(i.Guard)
	} else {
		pcond = scope.prepareExpression(i.Cond)
	}
	if pcond.Abandoned() {
		return Abandon
	}
	if pcond&Constant != 0 {
		c.compilerWarning(i.Location(), "Condition in 'if' statement is constant")
	}
	ptrue := scope.prepareBlock(i.Then)
	if ptrue.Abandoned() {
		return ptrue
	}
	if i.Else == nil {
		return Fallthrough
	}
	var pfalse Flags
	switch e := i.Else.(type) {
	case *ast.If:
		pfalse = c.prepareIf(e)
	case *ast.Block:
		pfalse = c.prepareBlock(e)
	}
	if pfalse.Abandoned() {
		return Abandon
	}
	if ptrue.FallsThrough() || pfalse.FallsThrough() {
		return Fallthrough
	}
	return None
}

func (c *Context) prepareFor(f *ast.For) Flags {
	scope := c
	if name, declared, kind, ok := symbolOf(f.Pre); ok {
		scope = c.nested(c.scope.Nested())
		scope.scope.Declare(kind, name, declared)
	}
	if f.Pre != nil {
		if scope.prepareStatement(f.Pre).Abandoned() {
			return Abandon
		}
	}
	if f.Cond != nil {
		if scope.prepareExpression(f.Cond).Abandoned() {
			return Abandon
		}
	}
	if f.Post != nil {
		if scope.prepareStatement(f.Post).Abandoned() {
			return Abandon
		}
	}
	return scope.prepareBlock(f.Body)
}

func (c *Context) prepareForeach(f *ast.Foreach) Flags {
	scope := c.nested(c.scope.Nested())
	scope.scope.Declare(symtable.ReadWrite, f.TargetName, f.TargetType.Resolve())
	if scope.prepareExpression(f.Iterable).Abandoned() {
		return Abandon
	}
	itype := f.Iterable.GetType()
	element, ok := itype.Iterable()
	if !ok {
		return scope.compilerError(f.Iterable.Location(), "Expression after the ':' in 'for' statement is not iterable: '%s'", itype.String())
	}
	// The element type stands in as the loop variable's initializer type;
	// an inferred ('var') loop variable takes the element type itself.
	_, flags := scope.typeCheck(f.Location(), f.TargetName, f.TargetType.Resolve(), element, false)
	if flags.Abandoned() {
		return Abandon
	}
	return scope.prepareBlock(f.Body)
}

func (c *Context) prepareWhile(w *ast.While) Flags {
	scope := c.nested(c.scope.Nested())
	if scope.prepareExpression(w.Cond).Abandoned() {
		return Abandon
	}
	return scope.prepareBlock(w.Body)
}

func (c *Context) prepareFunction(f *ast.Function) Flags {
	nested := c.scope.Nested()
	for _, p := range f.Params {
		nested.Declare(symtable.ReadWrite, p.Name, p.Type.Resolve())
	}
	rettype := f.ReturnType.Resolve()
	fn := &ScopeFunction{ReturnType: rettype, IsGenerator: f.IsGenerator}
	body := c.withFunction(nested, fn)
	flags := body.prepareBlock(f.Body)
	if flags.Abandoned() {
		return flags
	}
	if !fn.IsGenerator && flags.FallsThrough() {
		// Falling through the end of a non-generator function is an implicit
		// bare 'return', legal only when the return type admits void.
		if !hasBasal(rettype, value.Void) {
			suffix := ""
			if f.Name != "" {
				suffix = ": '" + f.Name + "'"
			}
			return body.compilerError(f.Body.Location(), "Missing 'return' statement with a value of type '%s' at the end of the function definition%s",
				rettype.String(), suffix)
		}
	}
	return Fallthrough // We fall through AFTER the definition itself
}

func (c *Context) prepareReturn(r *ast.Return) Flags {
	if c.scopeFunction == nil {
		return c.compilerError(r.Location(), "Unexpected 'return' statement")
	}
	if c.scopeFunction.IsGenerator {
		if len(r.Values) == 0 {
			return None
		}
		return c.compilerError(r.Location(), "Unexpected value in generator 'return' statement")
	}
	rettype := c.scopeFunction.ReturnType
	if len(r.Values) == 0 {
		if rettype.CanBeAssignedFrom(value.TVoid) == value.Never {
			return c.compilerError(r.Location(), "Expected 'return' statement with a value of type '%s'", rettype.String())
		}
		return None
	}
	v := r.Values[0]
	if c.prepareExpression(v).Abandoned() {
		return Abandon
	}
	if rettype.CanBeAssignedFrom(v.GetType()) == value.Never {
		return c.compilerError(r.Location(), "Expected 'return' statement with a value of type '%s', but got '%s' instead",
			rettype.String(), v.GetType().String())
	}
	return None
}

func (c *Context) prepareYield(y *ast.Yield) Flags {
	if c.scopeFunction == nil {
		return c.compilerError(y.Location(), "Unexpected 'yield' statement")
	}
	// The first yield is what commits the enclosing record to generator
	// mode; promotion guarantees it only appears under a generator body.
	c.scopeFunction.IsGenerator = true
	if y.Value == nil {
		return Fallthrough
	}
	if c.prepareExpression(y.Value).Abandoned() {
		return Abandon
	}
	rettype := c.scopeFunction.ReturnType
	if rettype.CanBeAssignedFrom(y.Value.GetType()) == value.Never {
		return c.compilerError(y.Location(), "Expected 'yield' statement with a value of type '%s', but got '%s' instead",
			rettype.String(), y.Value.GetType().String())
	}
	return Fallthrough
}

func (c *Context) prepareSwitch(s *ast.Switch) Flags {
	scope := c.nested(c.scope.Nested())
	if scope.prepareExpression(s.Scrutinee).Abandoned() {
		return Abandon
	}
	falls := s.Default == nil // no 'default:' clause means the switch may fall through
	for _, clause := range s.Cases {
		flags := scope.prepareCase(clause)
		if flags.Abandoned() {
			return Abandon
		}
		falls = falls || flags.FallsThrough()
	}
	if s.Default != nil {
		flags := scope.prepareBlock(s.Default)
		if flags.Abandoned() {
			return Abandon
		}
		falls = falls || flags.FallsThrough()
	}
	if falls {
		return Fallthrough
	}
	return None
}

func (c *Context) prepareCase(clause *ast.Case) Flags {
	for _, v := range clause.Values {
		if c.prepareExpression(v).Abandoned() {
			return Abandon
		}
	}
	return c.prepareBlock(clause.Body)
}

func (c *Context) prepareThrow(t *ast.Throw) Flags {
	if t.Value == nil {
		return None // bare rethrow
	}
	if c.prepareExpression(t.Value).Abandoned() {
		return Abandon
	}
	return None
}

func (c *Context) prepareTry(t *ast.Try) Flags {
	flags := c.prepareBlock(t.Body)
	if flags.Abandoned() {
		return Abandon
	}
	falls := flags.FallsThrough()
	for _, catch := range t.Catches {
		flags = c.prepareCatch(catch)
		if flags.Abandoned() {
			return Abandon
		}
		falls = falls || flags.FallsThrough()
	}
	if t.Finally != nil {
		flags = c.prepareBlock(t.Finally)
		if flags.Abandoned() {
			return Abandon
		}
		falls = falls || flags.FallsThrough()
	}
	if falls {
		return Fallthrough
	}
	return None
}

func (c *Context) prepareCatch(catch *ast.Catch) Flags {
	scope := c.nested(c.scope.Nested())
	scope.scope.Declare(symtable.ReadWrite, catch.Name, catch.Type.Resolve())
	return scope.prepareBlock(catch.Body)
}

func (c *Context) prepareCall(call *ast.Call) Flags {
	if c.prepareExpression(call.Callee).Abandoned() {
		return Abandon
	}
	ctype := call.Callee.GetType()
	sig, ok := ctype.Callable()
	if !ok {
		return c.compilerError(call.Callee.Location(), "Expected function-like expression to be callable, but got '%s' instead", ctype.String())
	}
	call.PredicateArgs = make([]bool, len(call.Args))
	expected := len(sig.Params)
	position := 0
	variadic := false
	for i, arg := range call.Args {
		if position >= expected {
			return c.compilerError(arg.Location(), "Expected %d parameter(s) for '%s', but got %d instead",
				expected, ctype.String(), len(call.Args))
		}
		param := sig.Params[position]
		if param.Variadic {
			variadic = true
		}
		if param.Predicate {
			call.PredicateArgs[i] = true
		}
		if c.prepareExpression(arg).Abandoned() {
			return Abandon
		}
		if !variadic {
			position++
		}
	}
	call.SetType(sig.Returns)
	return Fallthrough
}

func (c *Context) prepareExpression(e ast.Expression) Flags {
	switch n := e.(type) {
	case *ast.Literal:
		return Constant
	case *ast.Identifier:
		return c.prepareIdentifier(n)
	case *ast.Unary:
		return c.prepareUnary(n)
	case *ast.Binary:
		return c.prepareBinary(n)
	case *ast.Ternary:
		return c.prepareTernary(n)
	case *ast.Call:
		return c.prepareCall(n)
	default:
		return c.compilerError(e.Location(), "Unexpected expression of kind '%s'", e.NodeType())
	}
}

func (c *Context) prepareIdentifier(id *ast.Identifier) Flags {
	sym, ok := c.scope.Find(id.Name, true)
	if !ok {
		return c.compilerError(id.Location(), "Unknown identifier: '%s'", id.Name)
	}
	id.SetType(sym.Type())
	return None
}

func (c *Context) prepareUnary(u *ast.Unary) Flags {
	if u.Op == ast.UnaryRef {
		// Reference '&' asks the child for its address rather than its value.
		return c.prepareRef(u)
	}
	if c.prepareExpression(u.Operand).Abandoned() {
		return Abandon
	}
	t := u.Operand.GetType()
	switch u.Op {
	case ast.UnaryLogicalNot:
		if !hasBasal(t, value.Bool) {
			return c.compilerError(u.Location(), "Expected operand of logical-not '!' operator to be 'bool', but got '%s' instead", t.String())
		}
		u.SetType(value.TBool)
	case ast.UnaryBitwiseNot:
		if !hasBasal(t, value.Int) {
			return c.compilerError(u.Location(), "Expected operand of bitwise-not '~' operator to be 'int', but got '%s' instead", t.String())
		}
		u.SetType(value.TInt)
	case ast.UnaryNegate:
		if arithmeticTypes(t) == arithmeticNone {
			return c.compilerError(u.Location(), "Expected operand of negation '-' operator to be 'int' or 'float', but got '%s' instead", t.String())
		}
		u.SetType(value.SimpleType{Bits: t.SimpleBits() & value.Arithmetic})
	case ast.UnaryDeref:
		pointee, ok := t.Pointee()
		if !ok {
			return c.compilerError(u.Location(), "Expected operand of dereference '*' operator to be a pointer, but got '%s' instead", t.String())
		}
		u.SetType(pointee)
	case ast.UnaryEllipsis:
		return c.compilerError(u.Location(), "Unary '...' operator not yet supported")
	}
	return None
}

// prepareRef implements the address-of operator by delegating to the
// operand's addressability: only identifiers, property accesses, and index
// accesses name a storage location.
func (c *Context) prepareRef(u *ast.Unary) Flags {
	switch target := u.Operand.(type) {
	case *ast.Identifier:
		if c.prepareIdentifier(target).Abandoned() {
			return Abandon
		}
	case *ast.Binary:
		if target.Op != ast.BinaryDot && target.Op != ast.BinaryBrackets {
			return c.compilerError(u.Location(), "Operand of reference '&' operator is not addressable")
		}
		if c.prepareBinary(target).Abandoned() {
			return Abandon
		}
	default:
		return c.compilerError(u.Location(), "Operand of reference '&' operator is not addressable")
	}
	u.SetType(u.Operand.GetType().Pointer())
	return None
}

func (c *Context) prepareBinary(b *ast.Binary) Flags {
	switch b.Op {
	case ast.BinaryDot:
		return c.prepareDot(b)
	case ast.BinaryBrackets:
		return c.prepareBrackets(b)
	case ast.BinaryLogicalAnd, ast.BinaryLogicalOr:
		flags := c.checkBinary(b, value.Bool, value.Bool)
		b.SetType(value.TBool)
		return flags
	case ast.BinaryBitwiseAnd, ast.BinaryBitwiseOr, ast.BinaryBitwiseXor:
		flags := c.checkBinary(b, value.Bool|value.Int, value.Bool|value.Int)
		if !flags.Abandoned() {
			b.SetType(value.SimpleType{Bits: b.Lhs.GetType().SimpleBits() & (value.Bool | value.Int)})
		}
		return flags
	case ast.BinaryShiftLeft, ast.BinaryShiftRight, ast.BinaryShiftRightUnsigned:
		flags := c.checkBinary(b, value.Int, value.Int)
		b.SetType(value.TInt)
		return flags
	case ast.BinaryPlus, ast.BinaryMinus, ast.BinaryMultiply, ast.BinaryDivide, ast.BinaryRemainder:
		flags := c.checkBinary(b, value.Arithmetic, value.Arithmetic)
		if !flags.Abandoned() {
			if mixed := c.checkArithmeticSides(b); mixed.Abandoned() {
				return mixed
			}
			bits := (b.Lhs.GetType().SimpleBits() | b.Rhs.GetType().SimpleBits()) & value.Arithmetic
			b.SetType(value.SimpleType{Bits: bits})
		}
		return flags
	case ast.BinaryLess, ast.BinaryLessEqual, ast.BinaryGreater, ast.BinaryGreaterEqual:
		flags := c.checkBinary(b, value.Arithmetic, value.Arithmetic)
		if !flags.Abandoned() {
			if mixed := c.checkArithmeticSides(b); mixed.Abandoned() {
				return mixed
			}
		}
		b.SetType(value.TBool)
		return flags
	case ast.BinaryEqual, ast.BinaryUnequal:
		// Equality imposes no type constraint.
		if c.prepareExpression(b.Lhs).Abandoned() || c.prepareExpression(b.Rhs).Abandoned() {
			return Abandon
		}
		b.SetType(value.TBool)
		return None
	case ast.BinaryNullCoalescing:
		flags := c.checkBinary(b, value.Null, value.AnyQ)
		if !flags.Abandoned() {
			b.SetType(b.Lhs.GetType().Denulled().UnionWith(b.Rhs.GetType()))
		}
		return flags
	case ast.BinaryLambda:
		return c.compilerError(b.Location(), "'->' operators not yet supported")
	default:
		return c.compilerError(b.Location(), "Unexpected binary operator '%s'", b.Op.Token())
	}
}

// checkBinarySide prepares one operand of a binary operator and validates
// it admits the expected bits. A Null expectation downgrades the mismatch
// to a warning (the null-coalescing "lhs can never be null" case).
func (c *Context) checkBinarySide(b *ast.Binary, side string, expected value.Kind, operand ast.Expression) Flags {
	prepared := c.prepareExpression(operand)
	if prepared.Abandoned() {
		return prepared
	}
	t := operand.GetType()
	if !hasBasal(t, expected) {
		if expected == value.Null {
			c.compilerWarning(b.Location(), "Expected %s of '%s' operator to be possibly 'null', but got '%s' instead",
				side, b.Op.Token(), t.String())
		} else {
			return c.compilerError(b.Location(), "Expected %s of '%s' operator to be '%s', but got '%s' instead",
				side, b.Op.Token(), readableBits(expected), t.String())
		}
	}
	return prepared
}

// checkArithmeticSides enforces the cross-side arithmetic constraint on
// an operator whose operands each already admit 'int' or 'float': when
// one side is float-only, the other side must also admit 'float'
// (int-only meets float-only has no common signature; int widens to
// float only when the target admits float).
func (c *Context) checkArithmeticSides(b *ast.Binary) Flags {
	ltype, rtype := b.Lhs.GetType(), b.Rhs.GetType()
	if arithmeticTypes(rtype) == arithmeticFloat && !hasBasal(ltype, value.Float) {
		return c.compilerError(b.Location(), "Expected left-hand side of '%s' operator to be 'float', but got '%s' instead",
			b.Op.Token(), ltype.String())
	}
	if arithmeticTypes(ltype) == arithmeticFloat && !hasBasal(rtype, value.Float) {
		return c.compilerError(b.Location(), "Expected right-hand side of '%s' operator to be 'float', but got '%s' instead",
			b.Op.Token(), rtype.String())
	}
	return None
}

func (c *Context) checkBinary(b *ast.Binary, lexp, rexp value.Kind) Flags {
	lflags := c.checkBinarySide(b, "left-hand side", lexp, b.Lhs)
	if lflags.Abandoned() {
		return lflags
	}
	rflags := c.checkBinarySide(b, "right-hand side", rexp, b.Rhs)
	if rflags.Abandoned() {
		return rflags
	}
	return lflags & rflags & Constant
}

func (c *Context) prepareDot(b *ast.Binary) Flags {
	if c.prepareExpression(b.Lhs).Abandoned() {
		return Abandon
	}
	property, ok := propertyName(b.Rhs)
	if !ok {
		return c.compilerError(b.Rhs.Location(), "Expected property name after '.' operator")
	}
	ltype := b.Lhs.GetType()
	if hasBasal(ltype, value.String) {
		if builtin, known := stringBuiltins[property]; known {
			b.SetType(builtin)
			return None
		}
	}
	if hasBasal(ltype, value.Object) {
		ptype, reason, dotable := ltype.Dotable(property)
		if dotable {
			b.SetType(ptype)
			return None
		}
		return c.compilerError(b.Location(), "%s", reason)
	}
	if hasBasal(ltype, value.String) {
		return c.compilerError(b.Location(), "Unknown property for 'string' value: '.%s'", property)
	}
	return c.compilerError(b.Location(), "Expected subject of '.' operator to be 'string' or 'object', but got '%s' instead", ltype.String())
}

func (c *Context) prepareBrackets(b *ast.Binary) Flags {
	if c.prepareExpression(b.Lhs).Abandoned() || c.prepareExpression(b.Rhs).Abandoned() {
		return Abandon
	}
	ltype := b.Lhs.GetType()
	if hasBasal(ltype, value.Object) {
		sig, ok := ltype.Indexable()
		if !ok {
			return c.compilerError(b.Location(), "Values of type '%s' do not support the indexing '[]' operator", ltype.String())
		}
		b.SetType(sig.Returns)
		return None
	}
	if hasBasal(ltype, value.String) {
		if !hasBasal(b.Rhs.GetType(), value.Int) {
			return c.compilerError(b.Location(), "Expected index of '[]' operator on 'string' to be 'int', but got '%s' instead",
				b.Rhs.GetType().String())
		}
		b.SetType(value.TString)
		return None
	}
	return c.compilerError(b.Location(), "Expected subject of '[]' operator to be 'string' or 'object', but got '%s' instead", ltype.String())
}

func (c *Context) prepareTernary(t *ast.Ternary) Flags {
	if c.prepareExpression(t.Cond).Abandoned() ||
		c.prepareExpression(t.Then).Abandoned() ||
		c.prepareExpression(t.Else).Abandoned() {
		return Abandon
	}
	if !hasBasal(t.Cond.GetType(), value.Bool) {
		return c.compilerError(t.Location(), "Expected condition of ternary '?:' operator to be 'bool', but got '%s' instead",
			t.Cond.GetType().String())
	}
	if t.Then.GetType().SimpleBits() == 0 {
		return c.compilerError(t.Then.Location(), "Expected value for second operand of ternary '?:' operator, but got '%s' instead",
			t.Then.GetType().String())
	}
	if t.Else.GetType().SimpleBits() == 0 {
		return c.compilerError(t.Else.Location(), "Expected value for third operand of ternary '?:' operator, but got '%s' instead",
			t.Else.GetType().String())
	}
	t.SetType(t.Then.GetType().UnionWith(t.Else.GetType()))
	return None
}

// propertyName extracts the property name the promotion step put on the
// right-hand side of a '.' operator.
func propertyName(e ast.Expression) (string, bool) {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name, true
	case *ast.Literal:
		if n.Value.Has(value.String) {
			return n.Value.String(), true
		}
	}
	return "", false
}

// hasBasal reports whether t's simple bit-set overlaps mask.
func hasBasal(t value.Type, mask value.Kind) bool {
	return t != nil && t.SimpleBits().HasOne(mask)
}

func isInferred(t value.Type) bool {
	st, ok := t.(value.SimpleType)
	return ok && st.Bits == 0
}

// devoided strips the Void bit from a simple type, used before recording
// an inference (a 'var' can never be inferred as void). Composite types
// pass through unchanged.
func devoided(t value.Type) value.Type {
	if st, ok := t.(value.SimpleType); ok {
		bits := st.Bits &^ value.Void
		if bits == 0 {
			return nil
		}
		return value.SimpleType{Bits: bits}
	}
	return t
}

type arithmetic int

const (
	arithmeticNone arithmetic = iota
	arithmeticInt
	arithmeticFloat
	arithmeticBoth
)

// arithmeticTypes summarizes which arithmetic signatures a type supports.
func arithmeticTypes(t value.Type) arithmetic {
	bits := t.SimpleBits() & value.Arithmetic
	switch bits {
	case value.Int:
		return arithmeticInt
	case value.Float:
		return arithmeticFloat
	case value.Arithmetic:
		return arithmeticBoth
	default:
		return arithmeticNone
	}
}

// readableBits renders an expected bit-set for diagnostics, with unions
// spelled "'a' or 'b'" rather than "a|b".
func readableBits(bits value.Kind) string {
	return strings.ReplaceAll(value.TagToString(bits), "|", "' or '")
}
