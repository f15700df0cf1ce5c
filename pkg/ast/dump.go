package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dumper accumulates the parenthesized S-expression form every node's Dump
// method writes into, e.g. "(module (declare 'foo' (type 'var')))". The
// format is part of the external contract: test cases depend on it
// verbatim, so Dumper never reflows or reorders what callers write.
type Dumper struct {
	b strings.Builder
}

// NewDumper constructs an empty Dumper.
func NewDumper() *Dumper { return &Dumper{} }

// String returns the accumulated dump text.
func (d *Dumper) String() string { return d.b.String() }

// Open writes "(tag" with no trailing space; callers add children/atoms
// and call Close to emit the matching ")".
func (d *Dumper) Open(tag string) *Dumper {
	d.b.WriteByte('(')
	d.b.WriteString(tag)
	return d
}

// Close writes ")".
func (d *Dumper) Close() *Dumper {
	d.b.WriteByte(')')
	return d
}

// Space writes a single separating space; callers call this between an
// Open's tag and the first child/atom, and between successive atoms.
func (d *Dumper) Space() *Dumper {
	d.b.WriteByte(' ')
	return d
}

// Str writes a single-quoted string atom, e.g. 'foo'.
func (d *Dumper) Str(s string) *Dumper {
	d.b.WriteByte('\'')
	d.b.WriteString(s)
	d.b.WriteByte('\'')
	return d
}

// Int writes a bare integer atom.
func (d *Dumper) Int(i int64) *Dumper {
	d.b.WriteString(strconv.FormatInt(i, 10))
	return d
}

// Float writes a bare float atom.
func (d *Dumper) Float(f float64) *Dumper {
	d.b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	return d
}

// Raw writes s verbatim, unquoted (used for already-parenthesized child
// dumps and bare keywords).
func (d *Dumper) Raw(s string) *Dumper {
	d.b.WriteString(s)
	return d
}

// Node dumps a child node in place, recursing through its own Dump method.
func (d *Dumper) Node(n Node) *Dumper {
	if n == nil {
		return d
	}
	n.Dump(d)
	return d
}

// Dump renders n's S-expression form as a standalone string; a convenience
// wrapper around NewDumper/Node/String.
func Dump(n Node) string {
	d := NewDumper()
	d.Node(n)
	return d.String()
}

// fmtAtom is a small helper used by node Dump methods that need to print a
// Go value generically (used sparingly; most nodes know their own shape).
func fmtAtom(v any) string { return fmt.Sprintf("%v", v) }
