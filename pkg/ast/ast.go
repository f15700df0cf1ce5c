// Package ast implements egg's program abstract syntax tree — the target of
// syntax promotion (Promote, in promote.go) — together with the promotion
// context that enforces which statement forms are legal in which enclosing
// construct. Each node pairs a small nodeImpl header (kind + source
// location) with marker interfaces that classify it as a Statement and/or
// Expression.
package ast

import (
	"github.com/zeta1999/egg/pkg/syntax"
	"github.com/zeta1999/egg/pkg/value"
)

// Type is the semantic type an Expression carries once promotion (and, for
// declared names, the later preparation pass) has resolved it. It is
// distinct from TypeNode, which is the syntactic type annotation parsed
// from source (e.g. the text "int?" in a declaration) before resolution.
type Type = value.Type

// NodeType identifies a program AST node's concrete shape.
type NodeType string

const (
	NodeModule     NodeType = "Module"
	NodeBlock      NodeType = "Block"
	NodeTypeAnnotation NodeType = "Type"
	NodeDeclare    NodeType = "Declare"
	NodeAssign     NodeType = "Assign"
	NodeMutate     NodeType = "Mutate"
	NodeBreak      NodeType = "Break"
	NodeContinue   NodeType = "Continue"
	NodeDo         NodeType = "Do"
	NodeIf         NodeType = "If"
	NodeFor        NodeType = "For"
	NodeForeach    NodeType = "Foreach"
	NodeReturn     NodeType = "Return"
	NodeIdentifier NodeType = "Identifier"
	NodeLiteral    NodeType = "Literal"
	NodeUnary      NodeType = "Unary"
	NodeBinary     NodeType = "Binary"
	NodeTernary    NodeType = "Ternary"
	NodeCall       NodeType = "Call"
	NodeCatch      NodeType = "Catch"
	NodeCase       NodeType = "Case"
	NodeSwitch     NodeType = "Switch"
	NodeThrow      NodeType = "Throw"
	NodeTry        NodeType = "Try"
	NodeWhile      NodeType = "While"
	NodeYield      NodeType = "Yield"
	NodeEmpty      NodeType = "Empty"
	NodeFunction   NodeType = "Function"
)

// Node is the common surface every program AST node exposes.
type Node interface {
	NodeType() NodeType
	Location() syntax.Location
	Dump(d *Dumper)
	isNode()
}

// Statement is a node that may appear directly in a Block's body.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node with a value and a type.
type Expression interface {
	Node
	GetType() Type
	expressionNode()
}

type nodeImpl struct {
	kind NodeType
	loc  syntax.Location
}

func newNodeImpl(kind NodeType, loc syntax.Location) nodeImpl {
	return nodeImpl{kind: kind, loc: loc}
}

func (n nodeImpl) NodeType() NodeType       { return n.kind }
func (n nodeImpl) Location() syntax.Location { return n.loc }
func (nodeImpl) isNode()                    {}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}
