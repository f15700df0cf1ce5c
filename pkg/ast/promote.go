// Promotion lowers a concrete syntax.Node tree to a program AST under a
// Context that tracks which statement forms are legal at each point. The
// concrete syntax vocabulary promotion consumes (syntax.Node.Kind values
// like "declare", "binary", "for") is this package's own contract with
// whatever produces the tree - lexing and parsing egg source text is out
// of scope here, same as it is for the syntax package itself.
package ast

import (
	"fmt"
	"strconv"

	"github.com/zeta1999/egg/pkg/syntax"
	"github.com/zeta1999/egg/pkg/value"
)

var simpleTypeKeywords = map[string]value.Kind{
	"void":   value.Void,
	"null":   value.Null,
	"bool":   value.Bool,
	"int":    value.Int,
	"float":  value.Float,
	"string": value.String,
	"object": value.Object,
	"type":   value.TypeKind,
	"any":    value.Any,
}

// Promote lowers root (expected Kind() == "module") to a *Module.
func Promote(resource string, root syntax.Node) (*Module, error) {
	ctx := NewContext(resource)
	if root.Kind() != "module" {
		return nil, ctx.Raise(locString(root.Location()), "expected a module node, found %q", root.Kind())
	}
	statements := make([]Statement, 0, len(root.Children()))
	for _, child := range root.Children() {
		stmt, err := promoteStatement(ctx, child)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if errs := ctx.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return NewModule(root.Location(), statements), nil
}

type locString syntax.Location

func (l locString) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Resource, l.Line, l.Column)
}

func promoteBlockFrom(ctx *Context, n syntax.Node) (*Block, error) {
	if n.Kind() != "block" {
		return nil, ctx.Raise(locString(n.Location()), "expected a block, found %q", n.Kind())
	}
	statements := make([]Statement, 0, len(n.Children()))
	for _, child := range n.Children() {
		stmt, err := promoteStatement(ctx, child)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return NewBlock(n.Location(), statements), nil
}

func promoteType(ctx *Context, n syntax.Node) (*TypeNode, error) {
	loc := n.Location()
	switch n.Kind() {
	case "type-union":
		members := make([]*TypeNode, 0, len(n.Children()))
		for _, c := range n.Children() {
			m, err := promoteType(ctx, c)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return NewTypeNode(loc, n.Token(), 0, false, false, false, members...), nil
	case "type":
		text := n.Token()
		body := text
		pointer := false
		if len(body) > 0 && body[len(body)-1] == '*' {
			pointer = true
			body = body[:len(body)-1]
		}
		nullable := false
		if len(body) > 0 && body[len(body)-1] == '?' {
			nullable = true
			body = body[:len(body)-1]
		}
		if body == "var" {
			return NewTypeNode(loc, text, 0, true, nullable, pointer), nil
		}
		bits, ok := simpleTypeKeywords[body]
		if !ok {
			return nil, ctx.Raise(locString(loc), "unknown type %q", text)
		}
		return NewTypeNode(loc, text, bits, false, nullable, pointer), nil
	default:
		return nil, ctx.Raise(locString(loc), "expected a type, found %q", n.Kind())
	}
}

func promoteStatement(ctx *Context, n syntax.Node) (Statement, error) {
	loc := n.Location()
	switch n.Kind() {
	case "declare":
		return promoteDeclare(ctx, n)
	case "assign":
		return promoteAssign(ctx, n)
	case "mutate":
		return promoteMutate(ctx, n)
	case "break":
		if !ctx.IsAllowed(AllowedBreak) {
			return nil, ctx.Raise(locString(loc), "'break' is not valid in this context")
		}
		return NewBreak(loc), nil
	case "continue":
		if !ctx.IsAllowed(AllowedContinue) {
			return nil, ctx.Raise(locString(loc), "'continue' is not valid in this context")
		}
		return NewContinue(loc), nil
	case "empty":
		if !ctx.IsAllowed(AllowedEmpty) {
			return nil, ctx.Raise(locString(loc), "an empty statement is not valid in this context")
		}
		return NewEmpty(loc), nil
	case "do":
		return promoteDo(ctx, n)
	case "if":
		return promoteIf(ctx, n)
	case "for":
		return promoteFor(ctx, n)
	case "foreach":
		return promoteForeach(ctx, n)
	case "return":
		return promoteReturn(ctx, n)
	case "switch":
		return promoteSwitch(ctx, n)
	case "throw":
		return promoteThrow(ctx, n)
	case "try":
		return promoteTry(ctx, n)
	case "while":
		return promoteWhile(ctx, n)
	case "yield":
		return promoteYield(ctx, n)
	case "function", "generator":
		return promoteFunction(ctx, n)
	case "block":
		return promoteBlockFrom(ctx, n)
	default:
		expr, err := promoteExpression(ctx, n)
		if err != nil {
			return nil, err
		}
		if stmt, ok := expr.(Statement); ok {
			return stmt, nil
		}
		return nil, ctx.Raise(locString(loc), "%q is not valid as a statement", n.Kind())
	}
}

func promoteDeclare(ctx *Context, n syntax.Node) (*Declare, error) {
	children := n.Children()
	if len(children) == 0 {
		return nil, ctx.Raise(locString(n.Location()), "declare requires a type")
	}
	ty, err := promoteType(ctx, children[0])
	if err != nil {
		return nil, err
	}
	var init Expression
	if len(children) > 1 {
		init, err = promoteExpression(ctx, children[1])
		if err != nil {
			return nil, err
		}
	}
	// A 'var' declaration without an initializer is grammatically fine;
	// the preparation pass reports the inference failure.
	return NewDeclare(n.Location(), n.Token(), ty, init), nil
}

func promoteAssign(ctx *Context, n syntax.Node) (*Assign, error) {
	children := n.Children()
	if len(children) != 2 {
		return nil, ctx.Raise(locString(n.Location()), "assign requires a left- and right-hand side")
	}
	op, ok := assignOpTokens[n.Token()]
	if !ok {
		return nil, ctx.Raise(locString(n.Location()), "unknown assignment operator %q", n.Token())
	}
	lhs, err := promoteExpression(ctx, children[0])
	if err != nil {
		return nil, err
	}
	rhs, err := promoteExpression(ctx, children[1])
	if err != nil {
		return nil, err
	}
	return NewAssign(n.Location(), op, lhs, rhs), nil
}

func promoteMutate(ctx *Context, n syntax.Node) (*Mutate, error) {
	children := n.Children()
	if len(children) != 1 {
		return nil, ctx.Raise(locString(n.Location()), "mutate requires exactly one target")
	}
	op, ok := mutateOpTokens[n.Token()]
	if !ok {
		return nil, ctx.Raise(locString(n.Location()), "unknown mutate operator %q", n.Token())
	}
	target, err := promoteExpression(ctx, children[0])
	if err != nil {
		return nil, err
	}
	return NewMutate(n.Location(), op, target), nil
}

var loopBodyInherit = AllowedRethrow | AllowedReturn | AllowedYield
var allAllowed = Allowed(^uint32(0))

func promoteDo(ctx *Context, n syntax.Node) (*Do, error) {
	children := n.Children()
	if len(children) != 2 {
		return nil, ctx.Raise(locString(n.Location()), "do requires a body and a condition")
	}
	bodyCtx := ctx.InheritAllowed(AllowedBreak|AllowedContinue, loopBodyInherit)
	body, err := promoteBlockFrom(bodyCtx, children[0])
	if err != nil {
		return nil, err
	}
	cond, err := promoteExpression(ctx, children[1])
	if err != nil {
		return nil, err
	}
	return NewDo(n.Location(), cond, body), nil
}

func promoteIf(ctx *Context, n syntax.Node) (*If, error) {
	children := n.Children()
	if len(children) < 2 {
		return nil, ctx.Raise(locString(n.Location()), "if requires a condition and a then-block")
	}
	var guard *Declare
	var cond Expression
	var err error
	if children[0].Kind() == "guard" {
		guard, err = promoteGuard(ctx, children[0])
	} else {
		cond, err = promoteExpression(ctx, children[0])
	}
	if err != nil {
		return nil, err
	}
	then, err := promoteBlockFrom(ctx, children[1])
	if err != nil {
		return nil, err
	}
	var elseNode Node
	if len(children) > 2 {
		if children[2].Kind() == "if" {
			elseNode, err = promoteStatement(ctx, children[2])
		} else {
			elseNode, err = promoteBlockFrom(ctx, children[2])
		}
		if err != nil {
			return nil, err
		}
	}
	return NewIf(n.Location(), guard, cond, then, elseNode), nil
}

func promoteGuard(ctx *Context, n syntax.Node) (*Declare, error) {
	children := n.Children()
	if len(children) != 2 {
		return nil, ctx.Raise(locString(n.Location()), "guard requires a type and an initializer")
	}
	ty, err := promoteType(ctx, children[0])
	if err != nil {
		return nil, err
	}
	init, err := promoteExpression(ctx, children[1])
	if err != nil {
		return nil, err
	}
	return NewDeclare(n.Location(), n.Token(), ty, init), nil
}

func promoteFor(ctx *Context, n syntax.Node) (*For, error) {
	children := n.Children()
	if len(children) != 4 {
		return nil, ctx.Raise(locString(n.Location()), "for requires pre/cond/post clauses and a body")
	}
	clauseCtx := ctx.InheritAllowed(AllowedEmpty, allAllowed)
	pre, err := promoteStatement(clauseCtx, children[0])
	if err != nil {
		return nil, err
	}
	var cond Expression
	if children[1].Kind() != "empty" {
		cond, err = promoteExpression(ctx, children[1])
		if err != nil {
			return nil, err
		}
	}
	post, err := promoteStatement(clauseCtx, children[2])
	if err != nil {
		return nil, err
	}
	bodyCtx := ctx.InheritAllowed(AllowedBreak|AllowedContinue, loopBodyInherit)
	body, err := promoteBlockFrom(bodyCtx, children[3])
	if err != nil {
		return nil, err
	}
	return NewFor(n.Location(), pre, cond, post, body), nil
}

func promoteForeach(ctx *Context, n syntax.Node) (*Foreach, error) {
	children := n.Children()
	if len(children) != 3 {
		return nil, ctx.Raise(locString(n.Location()), "foreach requires a type, an iterable expression, and a body")
	}
	ty, err := promoteType(ctx, children[0])
	if err != nil {
		return nil, err
	}
	iterable, err := promoteExpression(ctx, children[1])
	if err != nil {
		return nil, err
	}
	bodyCtx := ctx.InheritAllowed(AllowedBreak|AllowedContinue, loopBodyInherit)
	body, err := promoteBlockFrom(bodyCtx, children[2])
	if err != nil {
		return nil, err
	}
	return NewForeach(n.Location(), n.Token(), ty, iterable, body), nil
}

func promoteReturn(ctx *Context, n syntax.Node) (*Return, error) {
	if !ctx.IsAllowed(AllowedReturn) {
		return nil, ctx.Raise(locString(n.Location()), "'return' is not valid in this context")
	}
	values := make([]Expression, 0, len(n.Children()))
	for _, c := range n.Children() {
		v, err := promoteExpression(ctx, c)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return NewReturn(n.Location(), values), nil
}

func promoteSwitch(ctx *Context, n syntax.Node) (*Switch, error) {
	children := n.Children()
	if len(children) < 1 {
		return nil, ctx.Raise(locString(n.Location()), "switch requires a scrutinee")
	}
	scrutinee, err := promoteExpression(ctx, children[0])
	if err != nil {
		return nil, err
	}
	caseCtx := ctx.InheritAllowed(AllowedBreak|AllowedCase, loopBodyInherit)
	var cases []*Case
	var def *Block
	for _, c := range children[1:] {
		switch c.Kind() {
		case "default":
			if len(c.Children()) != 1 {
				return nil, ctx.Raise(locString(c.Location()), "default requires exactly one block")
			}
			def, err = promoteBlockFrom(caseCtx, c.Children()[0])
			if err != nil {
				return nil, err
			}
		case "case":
			caseNode, err := promoteCase(caseCtx, c)
			if err != nil {
				return nil, err
			}
			cases = append(cases, caseNode)
		default:
			return nil, ctx.Raise(locString(c.Location()), "expected a case or default clause, found %q", c.Kind())
		}
	}
	return NewSwitch(n.Location(), scrutinee, cases, def), nil
}

func promoteCase(ctx *Context, n syntax.Node) (*Case, error) {
	children := n.Children()
	if len(children) < 1 {
		return nil, ctx.Raise(locString(n.Location()), "case requires a block")
	}
	values := make([]Expression, 0, len(children)-1)
	for _, c := range children[:len(children)-1] {
		v, err := promoteExpression(ctx, c)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	body, err := promoteBlockFrom(ctx, children[len(children)-1])
	if err != nil {
		return nil, err
	}
	return NewCase(n.Location(), values, body), nil
}

func promoteThrow(ctx *Context, n syntax.Node) (*Throw, error) {
	children := n.Children()
	if len(children) == 0 {
		if !ctx.IsAllowed(AllowedRethrow) {
			return nil, ctx.Raise(locString(n.Location()), "a bare 'throw' (rethrow) is not valid in this context")
		}
		return NewThrow(n.Location(), nil), nil
	}
	v, err := promoteExpression(ctx, children[0])
	if err != nil {
		return nil, err
	}
	return NewThrow(n.Location(), v), nil
}

func promoteTry(ctx *Context, n syntax.Node) (*Try, error) {
	children := n.Children()
	if len(children) < 1 {
		return nil, ctx.Raise(locString(n.Location()), "try requires a body")
	}
	body, err := promoteBlockFrom(ctx, children[0])
	if err != nil {
		return nil, err
	}
	catchCtx := ctx.InheritAllowed(AllowedNone, loopBodyInherit)
	var catches []*Catch
	var finally *Block
	for _, c := range children[1:] {
		switch c.Kind() {
		case "catch":
			catch, err := promoteCatch(catchCtx, c)
			if err != nil {
				return nil, err
			}
			catches = append(catches, catch)
		case "finally":
			if len(c.Children()) != 1 {
				return nil, ctx.Raise(locString(c.Location()), "finally requires exactly one block")
			}
			finally, err = promoteBlockFrom(ctx, c.Children()[0])
			if err != nil {
				return nil, err
			}
		default:
			return nil, ctx.Raise(locString(c.Location()), "expected a catch or finally clause, found %q", c.Kind())
		}
	}
	if len(catches) == 0 && finally == nil {
		return nil, ctx.Raise(locString(n.Location()), "try requires at least one catch or a finally clause")
	}
	return NewTry(n.Location(), body, catches, finally), nil
}

func promoteCatch(ctx *Context, n syntax.Node) (*Catch, error) {
	children := n.Children()
	if len(children) != 2 {
		return nil, ctx.Raise(locString(n.Location()), "catch requires a type and a block")
	}
	ty, err := promoteType(ctx, children[0])
	if err != nil {
		return nil, err
	}
	body, err := promoteBlockFrom(ctx, children[1])
	if err != nil {
		return nil, err
	}
	return NewCatch(n.Location(), n.Token(), ty, body), nil
}

func promoteWhile(ctx *Context, n syntax.Node) (*While, error) {
	children := n.Children()
	if len(children) != 2 {
		return nil, ctx.Raise(locString(n.Location()), "while requires a condition and a body")
	}
	cond, err := promoteExpression(ctx, children[0])
	if err != nil {
		return nil, err
	}
	bodyCtx := ctx.InheritAllowed(AllowedBreak|AllowedContinue, loopBodyInherit)
	body, err := promoteBlockFrom(bodyCtx, children[1])
	if err != nil {
		return nil, err
	}
	return NewWhile(n.Location(), cond, body), nil
}

func promoteYield(ctx *Context, n syntax.Node) (*Yield, error) {
	if !ctx.IsAllowed(AllowedYield) {
		return nil, ctx.Raise(locString(n.Location()), "'yield' is only valid inside a generator")
	}
	children := n.Children()
	var v Expression
	if len(children) > 0 {
		var err error
		v, err = promoteExpression(ctx, children[0])
		if err != nil {
			return nil, err
		}
	}
	return NewYield(n.Location(), v), nil
}

func promoteFunction(ctx *Context, n syntax.Node) (*Function, error) {
	isGenerator := n.Kind() == "generator"
	children := n.Children()
	if len(children) < 2 {
		return nil, ctx.Raise(locString(n.Location()), "%s requires a return type and a body", n.Kind())
	}
	returnType, err := promoteType(ctx, children[0])
	if err != nil {
		return nil, err
	}
	paramNodes := children[1 : len(children)-1]
	params := make([]*Parameter, 0, len(paramNodes))
	for _, p := range paramNodes {
		param, err := promoteParameter(ctx, p)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	bodyAllowed := AllowedRethrow | AllowedReturn
	if isGenerator {
		bodyAllowed |= AllowedYield
	}
	bodyCtx := ctx.WithAllowed(bodyAllowed)
	body, err := promoteBlockFrom(bodyCtx, children[len(children)-1])
	if err != nil {
		return nil, err
	}
	return NewFunction(n.Location(), n.Token(), params, returnType, body, isGenerator), nil
}

func promoteParameter(ctx *Context, n syntax.Node) (*Parameter, error) {
	if len(n.Children()) != 1 {
		return nil, ctx.Raise(locString(n.Location()), "parameter requires exactly one type")
	}
	ty, err := promoteType(ctx, n.Children()[0])
	if err != nil {
		return nil, err
	}
	p := &Parameter{Name: n.Token(), Type: ty}
	switch n.Kind() {
	case "parameter-variadic":
		p.Variadic = true
	case "parameter-predicate":
		p.Predicate = true
	case "parameter":
	default:
		return nil, ctx.Raise(locString(n.Location()), "expected a parameter, found %q", n.Kind())
	}
	return p, nil
}

func promoteExpression(ctx *Context, n syntax.Node) (Expression, error) {
	loc := n.Location()
	switch n.Kind() {
	case "identifier":
		return NewIdentifier(loc, n.Token()), nil
	case "literal-int":
		i, err := strconv.ParseInt(n.Token(), 10, 64)
		if err != nil {
			return nil, ctx.Raise(locString(loc), "invalid integer literal %q", n.Token())
		}
		return NewLiteral(loc, value.NewInt(i)), nil
	case "literal-float":
		f, err := strconv.ParseFloat(n.Token(), 64)
		if err != nil {
			return nil, ctx.Raise(locString(loc), "invalid float literal %q", n.Token())
		}
		return NewLiteral(loc, value.NewFloat(f)), nil
	case "literal-string":
		return NewLiteral(loc, value.NewString(n.Token())), nil
	case "literal-bool":
		return NewLiteral(loc, value.NewBool(n.Token() == "true")), nil
	case "literal-null":
		return NewLiteral(loc, value.NullValue), nil
	case "unary":
		return promoteUnary(ctx, n)
	case "binary":
		return promoteBinary(ctx, n)
	case "ternary":
		return promoteTernary(ctx, n)
	case "call":
		return promoteCall(ctx, n)
	default:
		return nil, ctx.Raise(locString(loc), "%q is not valid as an expression", n.Kind())
	}
}

func promoteUnary(ctx *Context, n syntax.Node) (*Unary, error) {
	children := n.Children()
	if len(children) != 1 {
		return nil, ctx.Raise(locString(n.Location()), "unary operator requires exactly one operand")
	}
	op, ok := unaryOpTokens[n.Token()]
	if !ok {
		return nil, ctx.Raise(locString(n.Location()), "unknown unary operator %q", n.Token())
	}
	operand, err := promoteExpression(ctx, children[0])
	if err != nil {
		return nil, err
	}
	return NewUnary(n.Location(), op, operand), nil
}

func promoteBinary(ctx *Context, n syntax.Node) (*Binary, error) {
	children := n.Children()
	if len(children) != 2 {
		return nil, ctx.Raise(locString(n.Location()), "binary operator requires a left- and right-hand side")
	}
	op, ok := binaryOpTokens[n.Token()]
	if !ok {
		return nil, ctx.Raise(locString(n.Location()), "unknown binary operator %q", n.Token())
	}
	lhs, err := promoteExpression(ctx, children[0])
	if err != nil {
		return nil, err
	}
	rhs, err := promoteExpression(ctx, children[1])
	if err != nil {
		return nil, err
	}
	return NewBinary(n.Location(), op, lhs, rhs), nil
}

func promoteTernary(ctx *Context, n syntax.Node) (*Ternary, error) {
	children := n.Children()
	if len(children) != 3 {
		return nil, ctx.Raise(locString(n.Location()), "ternary requires a condition and two arms")
	}
	cond, err := promoteExpression(ctx, children[0])
	if err != nil {
		return nil, err
	}
	then, err := promoteExpression(ctx, children[1])
	if err != nil {
		return nil, err
	}
	els, err := promoteExpression(ctx, children[2])
	if err != nil {
		return nil, err
	}
	return NewTernary(n.Location(), cond, then, els), nil
}

func promoteCall(ctx *Context, n syntax.Node) (*Call, error) {
	children := n.Children()
	if len(children) < 1 {
		return nil, ctx.Raise(locString(n.Location()), "call requires a callee")
	}
	callee, err := promoteExpression(ctx, children[0])
	if err != nil {
		return nil, err
	}
	args := make([]Expression, 0, len(children)-1)
	for _, c := range children[1:] {
		arg, err := promoteExpression(ctx, c)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return NewCall(n.Location(), callee, args), nil
}
