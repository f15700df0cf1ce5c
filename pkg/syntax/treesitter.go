package syntax

import (
	"bytes"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// FromTreeSitterNode walks an already-parsed tree-sitter concrete syntax
// tree into the Node shape promotion consumes. It does not parse source
// text itself and ships no grammar: the caller is responsible for loading
// an egg tree-sitter grammar (*sitter.Language), constructing a
// *sitter.Parser, and calling Parse. This adapter only performs the
// structural translation from tree-sitter's node shape to syntax.Node.
func FromTreeSitterNode(n *sitter.Node, source []byte, resource string) Node {
	if n == nil {
		return nil
	}
	token := ""
	if n.ChildCount() == 0 {
		token = sliceSource(n, source)
	}
	count := n.NamedChildCount()
	children := make([]Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := FromTreeSitterNode(n.NamedChild(i), source, resource)
		if child != nil {
			children = append(children, child)
		}
	}
	return New(n.Kind(), token, locationOf(n, source, resource), children...)
}

func sliceSource(n *sitter.Node, source []byte) string {
	start, end := int(n.StartByte()), int(n.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}

// locationOf derives a 1-based line/column from the node's byte offset by
// scanning source, since go-tree-sitter's own Point type is not part of
// the contract this package wants to depend on beyond *sitter.Node/Tree.
func locationOf(n *sitter.Node, source []byte, resource string) Location {
	offset := int(n.StartByte())
	if offset < 0 || offset > len(source) {
		offset = 0
	}
	prefix := source[:offset]
	line := 1 + bytes.Count(prefix, []byte("\n"))
	column := offset - bytes.LastIndexByte(prefix, '\n')
	return Location{Resource: resource, Line: line, Column: column}
}
