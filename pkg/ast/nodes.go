package ast

import (
	"github.com/zeta1999/egg/pkg/syntax"
	"github.com/zeta1999/egg/pkg/value"
)

// typed is embedded by every Expression node; it carries the semantic
// type promotion (for literals) or preparation (for everything else)
// assigns. Preparation mutates this field in place rather than rebuilding
// the node, matching the rest of the tree's annotate-in-place lifecycle.
type typed struct {
	resolved Type
}

func (t *typed) GetType() Type    { return t.resolved }
func (t *typed) SetType(ty Type)  { t.resolved = ty }

// TypeNode is the syntactic form of a type annotation as promotion built
// it from source text - "int", "int?", "any", "var", a union "int|string",
// or a pointer "int*". Resolve turns it into the semantic value.Type the
// preparation pass works with.
type TypeNode struct {
	nodeImpl
	Text     string
	Simple   value.Kind
	Inferred bool
	Nullable bool
	Pointer  bool
	Members  []*TypeNode
}

func NewTypeNode(loc syntax.Location, text string, simple value.Kind, inferred, nullable, pointer bool, members ...*TypeNode) *TypeNode {
	return &TypeNode{
		nodeImpl: newNodeImpl(NodeTypeAnnotation, loc),
		Text:     text,
		Simple:   simple,
		Inferred: inferred,
		Nullable: nullable,
		Pointer:  pointer,
		Members:  members,
	}
}

func (n *TypeNode) Resolve() value.Type {
	if n.Inferred {
		return value.Inferred
	}
	if len(n.Members) > 0 {
		var result value.Type
		for i, m := range n.Members {
			r := m.Resolve()
			if i == 0 {
				result = r
			} else {
				result = result.UnionWith(r)
			}
		}
		return result
	}
	bits := n.Simple
	if n.Nullable {
		bits |= value.Null
	}
	var base value.Type = value.SimpleType{Bits: bits}
	if n.Pointer {
		return base.Pointer()
	}
	return base
}

func (n *TypeNode) Dump(d *Dumper) {
	d.Open("type").Space().Str(n.Text).Close()
}

// Module is the root of a prepared program: one resource's top-level
// statement sequence.
type Module struct {
	nodeImpl
	Statements []Statement
}

func NewModule(loc syntax.Location, statements []Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule, loc), Statements: statements}
}

func (n *Module) Dump(d *Dumper) {
	d.Open("module")
	for _, s := range n.Statements {
		d.Space().Node(s)
	}
	d.Close()
}

// Block is a nested statement sequence introducing its own scope.
type Block struct {
	nodeImpl
	statementMarker
	Statements []Statement
}

func NewBlock(loc syntax.Location, statements []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock, loc), Statements: statements}
}

func (n *Block) Dump(d *Dumper) {
	d.Open("block")
	for _, s := range n.Statements {
		d.Space().Node(s)
	}
	d.Close()
}

// Declare binds name to an optional initializer under an annotated type.
type Declare struct {
	nodeImpl
	statementMarker
	Name string
	Type *TypeNode
	Init Expression
}

func NewDeclare(loc syntax.Location, name string, ty *TypeNode, init Expression) *Declare {
	return &Declare{nodeImpl: newNodeImpl(NodeDeclare, loc), Name: name, Type: ty, Init: init}
}

// Dump distinguishes a bare declaration from an initializing one: the
// external contract names them "declare" and "initialize" respectively.
func (n *Declare) Dump(d *Dumper) {
	if n.Init != nil {
		d.Open("initialize").Space().Str(n.Name).Space().Node(n.Type).Space().Node(n.Init).Close()
		return
	}
	d.Open("declare").Space().Str(n.Name).Space().Node(n.Type).Close()
}

// Assign applies Op to lhs/rhs, e.g. `lhs += rhs`.
type Assign struct {
	nodeImpl
	statementMarker
	Op  AssignOp
	Lhs Expression
	Rhs Expression
}

func NewAssign(loc syntax.Location, op AssignOp, lhs, rhs Expression) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign, loc), Op: op, Lhs: lhs, Rhs: rhs}
}

func (n *Assign) Dump(d *Dumper) {
	d.Open("assign").Space().Str(n.Op.Token()).Space().Node(n.Lhs).Space().Node(n.Rhs).Close()
}

// Mutate applies Op (++/--) to an lvalue in place.
type Mutate struct {
	nodeImpl
	statementMarker
	Op     MutateOp
	Target Expression
}

func NewMutate(loc syntax.Location, op MutateOp, target Expression) *Mutate {
	return &Mutate{nodeImpl: newNodeImpl(NodeMutate, loc), Op: op, Target: target}
}

func (n *Mutate) Dump(d *Dumper) {
	d.Open("mutate").Space().Str(n.Op.Token()).Space().Node(n.Target).Close()
}

// Break exits the nearest enclosing loop or switch.
type Break struct {
	nodeImpl
	statementMarker
}

func NewBreak(loc syntax.Location) *Break {
	return &Break{nodeImpl: newNodeImpl(NodeBreak, loc)}
}

func (n *Break) Dump(d *Dumper) { d.Open("break").Close() }

// Continue restarts the nearest enclosing loop.
type Continue struct {
	nodeImpl
	statementMarker
}

func NewContinue(loc syntax.Location) *Continue {
	return &Continue{nodeImpl: newNodeImpl(NodeContinue, loc)}
}

func (n *Continue) Dump(d *Dumper) { d.Open("continue").Close() }

// Do is a post-tested loop: the body runs at least once.
type Do struct {
	nodeImpl
	statementMarker
	Cond Expression
	Body *Block
}

func NewDo(loc syntax.Location, cond Expression, body *Block) *Do {
	return &Do{nodeImpl: newNodeImpl(NodeDo, loc), Cond: cond, Body: body}
}

func (n *Do) Dump(d *Dumper) {
	d.Open("do").Space().Node(n.Body).Space().Node(n.Cond).Close()
}

// If is a conditional; Guard is non-nil for the `if (Type name = expr)`
// form, in which case Cond is nil. Else may be another *If (else-if chain)
// or a *Block, or nil.
type If struct {
	nodeImpl
	statementMarker
	Guard *Declare
	Cond  Expression
	Then  *Block
	Else  Node
}

func NewIf(loc syntax.Location, guard *Declare, cond Expression, then *Block, els Node) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf, loc), Guard: guard, Cond: cond, Then: then, Else: els}
}

func (n *If) Dump(d *Dumper) {
	d.Open("if")
	if n.Guard != nil {
		d.Space().Node(n.Guard)
	} else {
		d.Space().Node(n.Cond)
	}
	d.Space().Node(n.Then)
	if n.Else != nil {
		d.Space().Node(n.Else)
	}
	d.Close()
}

// For is the three-clause loop; Pre, Cond, and Post are each independently
// optional.
type For struct {
	nodeImpl
	statementMarker
	Pre  Statement
	Cond Expression
	Post Statement
	Body *Block
}

func NewFor(loc syntax.Location, pre Statement, cond Expression, post Statement, body *Block) *For {
	return &For{nodeImpl: newNodeImpl(NodeFor, loc), Pre: pre, Cond: cond, Post: post, Body: body}
}

func (n *For) Dump(d *Dumper) {
	d.Open("for").Space().Node(n.Pre).Space().Node(n.Cond).Space().Node(n.Post).Space().Node(n.Body).Close()
}

// Foreach iterates TargetName over Iterable, declared with TargetType
// (resolved from the iterable's element type when inferred).
type Foreach struct {
	nodeImpl
	statementMarker
	TargetName string
	TargetType *TypeNode
	Iterable   Expression
	Body       *Block
}

func NewForeach(loc syntax.Location, name string, ty *TypeNode, iterable Expression, body *Block) *Foreach {
	return &Foreach{nodeImpl: newNodeImpl(NodeForeach, loc), TargetName: name, TargetType: ty, Iterable: iterable, Body: body}
}

func (n *Foreach) Dump(d *Dumper) {
	d.Open("foreach").Space().Str(n.TargetName).Space().Node(n.Iterable).Space().Node(n.Body).Close()
}

// Return exits the enclosing function, carrying zero or one value.
type Return struct {
	nodeImpl
	statementMarker
	Values []Expression
}

func NewReturn(loc syntax.Location, values []Expression) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn, loc), Values: values}
}

func (n *Return) Dump(d *Dumper) {
	d.Open("return")
	for _, v := range n.Values {
		d.Space().Node(v)
	}
	d.Close()
}

// Identifier references a bound name; GetType reports the symbol's type
// once preparation has resolved it.
type Identifier struct {
	nodeImpl
	expressionMarker
	typed
	Name string
}

func NewIdentifier(loc syntax.Location, name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier, loc), Name: name}
}

func (n *Identifier) Dump(d *Dumper) {
	d.Open("identifier").Space().Str(n.Name).Close()
}

// Literal is a constant null, bool, int, float, or string value; its type is fixed at
// construction from the payload's storage tag.
type Literal struct {
	nodeImpl
	expressionMarker
	typed
	Value value.Value
}

func NewLiteral(loc syntax.Location, v value.Value) *Literal {
	lit := &Literal{nodeImpl: newNodeImpl(NodeLiteral, loc), Value: v}
	lit.SetType(value.SimpleType{Bits: v.Kind().Storage()})
	return lit
}

func (n *Literal) Dump(d *Dumper) {
	d.Open("literal").Space()
	switch {
	case n.Value.Has(value.Int):
		d.Raw("int").Space().Int(n.Value.Int())
	case n.Value.Has(value.Float):
		d.Raw("float").Space().Float(n.Value.Float())
	case n.Value.Has(value.String):
		d.Raw("string").Space().Str(n.Value.String())
	case n.Value.Has(value.Bool):
		d.Raw("bool").Space().Raw(fmtAtom(n.Value.Bool()))
	case n.Value.Has(value.Null):
		d.Raw("null")
	default:
		d.Raw(fmtAtom(n.Value))
	}
	d.Close()
}

// Unary applies Op to a single operand.
type Unary struct {
	nodeImpl
	expressionMarker
	typed
	Op      UnaryOp
	Operand Expression
}

func NewUnary(loc syntax.Location, op UnaryOp, operand Expression) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary, loc), Op: op, Operand: operand}
}

func (n *Unary) Dump(d *Dumper) {
	d.Open("unary").Space().Str(n.Op.Token()).Space().Node(n.Operand).Close()
}

// Binary applies Op between Lhs and Rhs, including `.`, `[]`, and `->`.
type Binary struct {
	nodeImpl
	expressionMarker
	typed
	Op  BinaryOp
	Lhs Expression
	Rhs Expression
}

func NewBinary(loc syntax.Location, op BinaryOp, lhs, rhs Expression) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary, loc), Op: op, Lhs: lhs, Rhs: rhs}
}

func (n *Binary) Dump(d *Dumper) {
	d.Open("binary").Space().Str(n.Op.Token()).Space().Node(n.Lhs).Space().Node(n.Rhs).Close()
}

// Ternary is `cond ? then : else`.
type Ternary struct {
	nodeImpl
	expressionMarker
	typed
	Cond Expression
	Then Expression
	Else Expression
}

func NewTernary(loc syntax.Location, cond, then, els Expression) *Ternary {
	return &Ternary{nodeImpl: newNodeImpl(NodeTernary, loc), Cond: cond, Then: then, Else: els}
}

func (n *Ternary) Dump(d *Dumper) {
	d.Open("ternary").Space().Node(n.Cond).Space().Node(n.Then).Space().Node(n.Else).Close()
}

// Call invokes Callee with Args, positionally. A call is both an
// expression and a statement (`print(x);` at statement level).
type Call struct {
	nodeImpl
	expressionMarker
	statementMarker
	typed
	Callee Expression
	Args   []Expression
	// PredicateArgs marks, per argument position, the arguments bound to a
	// Predicate-flagged parameter; preparation records these so the runtime
	// can report predicate failures with the operands spelled out.
	PredicateArgs []bool
}

func NewCall(loc syntax.Location, callee Expression, args []Expression) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall, loc), Callee: callee, Args: args}
}

func (n *Call) Dump(d *Dumper) {
	d.Open("call").Space().Node(n.Callee)
	for _, a := range n.Args {
		d.Space().Node(a)
	}
	d.Close()
}

// Catch binds Name (of type Type) to the exception caught by a Try.
type Catch struct {
	nodeImpl
	statementMarker
	Name string
	Type *TypeNode
	Body *Block
}

func NewCatch(loc syntax.Location, name string, ty *TypeNode, body *Block) *Catch {
	return &Catch{nodeImpl: newNodeImpl(NodeCatch, loc), Name: name, Type: ty, Body: body}
}

func (n *Catch) Dump(d *Dumper) {
	d.Open("catch").Space().Str(n.Name).Space().Node(n.Type).Space().Node(n.Body).Close()
}

// Case is one `case values...:` clause of a Switch. An empty Values slice
// marks the `default` clause.
type Case struct {
	nodeImpl
	statementMarker
	Values []Expression
	Body   *Block
}

func NewCase(loc syntax.Location, values []Expression, body *Block) *Case {
	return &Case{nodeImpl: newNodeImpl(NodeCase, loc), Values: values, Body: body}
}

func (n *Case) Dump(d *Dumper) {
	d.Open("case")
	for _, v := range n.Values {
		d.Space().Node(v)
	}
	d.Space().Node(n.Body).Close()
}

// Switch dispatches Scrutinee against Cases, falling back to Default.
type Switch struct {
	nodeImpl
	statementMarker
	Scrutinee Expression
	Cases     []*Case
	Default   *Block
}

func NewSwitch(loc syntax.Location, scrutinee Expression, cases []*Case, def *Block) *Switch {
	return &Switch{nodeImpl: newNodeImpl(NodeSwitch, loc), Scrutinee: scrutinee, Cases: cases, Default: def}
}

func (n *Switch) Dump(d *Dumper) {
	d.Open("switch").Space().Node(n.Scrutinee)
	for _, c := range n.Cases {
		d.Space().Node(c)
	}
	if n.Default != nil {
		d.Space().Node(n.Default)
	}
	d.Close()
}

// Throw raises Value, or rethrows the active exception when Value is nil.
type Throw struct {
	nodeImpl
	statementMarker
	Value Expression
}

func NewThrow(loc syntax.Location, v Expression) *Throw {
	return &Throw{nodeImpl: newNodeImpl(NodeThrow, loc), Value: v}
}

func (n *Throw) Dump(d *Dumper) {
	d.Open("throw")
	if n.Value != nil {
		d.Space().Node(n.Value)
	}
	d.Close()
}

// Try runs Body, dispatching any raised exception to the first matching
// Catch, and always running Finally.
type Try struct {
	nodeImpl
	statementMarker
	Body    *Block
	Catches []*Catch
	Finally *Block
}

func NewTry(loc syntax.Location, body *Block, catches []*Catch, finally *Block) *Try {
	return &Try{nodeImpl: newNodeImpl(NodeTry, loc), Body: body, Catches: catches, Finally: finally}
}

func (n *Try) Dump(d *Dumper) {
	d.Open("try").Space().Node(n.Body)
	for _, c := range n.Catches {
		d.Space().Node(c)
	}
	if n.Finally != nil {
		d.Space().Open("finally").Space().Node(n.Finally).Close()
	}
	d.Close()
}

// While is a pre-tested loop.
type While struct {
	nodeImpl
	statementMarker
	Cond Expression
	Body *Block
}

func NewWhile(loc syntax.Location, cond Expression, body *Block) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile, loc), Cond: cond, Body: body}
}

func (n *While) Dump(d *Dumper) {
	d.Open("while").Space().Node(n.Cond).Space().Node(n.Body).Close()
}

// Yield suspends the enclosing generator, producing Value to its caller.
type Yield struct {
	nodeImpl
	statementMarker
	Value Expression
}

func NewYield(loc syntax.Location, v Expression) *Yield {
	return &Yield{nodeImpl: newNodeImpl(NodeYield, loc), Value: v}
}

func (n *Yield) Dump(d *Dumper) {
	d.Open("yield").Space().Node(n.Value).Close()
}

// Empty is a no-op statement, legal only where the Empty context bit is set.
type Empty struct {
	nodeImpl
	statementMarker
}

func NewEmpty(loc syntax.Location) *Empty {
	return &Empty{nodeImpl: newNodeImpl(NodeEmpty, loc)}
}

func (n *Empty) Dump(d *Dumper) { d.Open("empty").Close() }

// Parameter is one formal parameter of a Function definition.
type Parameter struct {
	Name      string
	Type      *TypeNode
	Variadic  bool
	Predicate bool
}

func (p *Parameter) Dump(d *Dumper) {
	d.Open("parameter").Space().Str(p.Name).Space().Node(p.Type)
	if p.Variadic {
		d.Space().Raw("variadic")
	}
	if p.Predicate {
		d.Space().Raw("predicate")
	}
	d.Close()
}

// Function is a named function (or, when IsGenerator, a generator)
// definition: a statement that declares Name in the enclosing scope and
// prepares Body under a fresh ScopeFunction record.
type Function struct {
	nodeImpl
	statementMarker
	Name        string
	Params      []*Parameter
	ReturnType  *TypeNode
	Body        *Block
	IsGenerator bool
}

func NewFunction(loc syntax.Location, name string, params []*Parameter, returnType *TypeNode, body *Block, isGenerator bool) *Function {
	return &Function{
		nodeImpl:    newNodeImpl(NodeFunction, loc),
		Name:        name,
		Params:      params,
		ReturnType:  returnType,
		Body:        body,
		IsGenerator: isGenerator,
	}
}

func (n *Function) Dump(d *Dumper) {
	tag := "function"
	if n.IsGenerator {
		tag = "generator"
	}
	d.Open(tag).Space().Str(n.Name).Space().Node(n.ReturnType)
	for _, p := range n.Params {
		d.Space().Node(p)
	}
	d.Space().Node(n.Body).Close()
}
