package value

import "unicode/utf8"

// Strings are immutable sequences of Unicode code points backed by UTF-8
// bytes. The code-point count is cached at construction (see NewString),
// giving O(1) length; random access and iteration decode on demand.

// StringLength returns the number of code points in a String-tagged
// value; panics on any other storage tag.
func (v Value) StringLength() int {
	if !v.Has(String) {
		panic("value: StringLength() on a " + TagToString(v.kind) + " value")
	}
	return v.slen
}

// CodePointAt returns the code point at the given index, or -1 when the
// index is out of range (including any index into the empty string).
func (v Value) CodePointAt(index int) rune {
	if !v.Has(String) || index < 0 || index >= v.slen {
		return -1
	}
	offset := 0
	for i := 0; i < index; i++ {
		_, size := utf8.DecodeRuneInString(v.s[offset:])
		offset += size
	}
	r, _ := utf8.DecodeRuneInString(v.s[offset:])
	return r
}

// StringIterator walks a string's code points forward. The cursor is a
// byte offset into the UTF-8 backing, opaque to callers.
type StringIterator struct {
	s      string
	cursor int
}

// IterateString returns a forward iterator over v's code points.
func (v Value) IterateString() StringIterator {
	if !v.Has(String) {
		panic("value: IterateString() on a " + TagToString(v.kind) + " value")
	}
	return StringIterator{s: v.s}
}

// Next yields the next code point, reporting false at exhaustion (an
// empty string reports false immediately).
func (it *StringIterator) Next() (rune, bool) {
	if it.cursor >= len(it.s) {
		return -1, false
	}
	r, size := utf8.DecodeRuneInString(it.s[it.cursor:])
	it.cursor += size
	return r, true
}

// Cursor exposes the iteration cursor for callers that checkpoint and
// resume iteration.
func (it *StringIterator) Cursor() int { return it.cursor }

// StringReverseIterator walks a string's code points from the end.
type StringReverseIterator struct {
	s      string
	cursor int
}

// IterateStringReverse returns a reverse iterator over v's code points.
func (v Value) IterateStringReverse() StringReverseIterator {
	if !v.Has(String) {
		panic("value: IterateStringReverse() on a " + TagToString(v.kind) + " value")
	}
	return StringReverseIterator{s: v.s, cursor: len(v.s)}
}

func (it *StringReverseIterator) Next() (rune, bool) {
	if it.cursor <= 0 {
		return -1, false
	}
	r, size := utf8.DecodeLastRuneInString(it.s[:it.cursor])
	it.cursor -= size
	return r, true
}

func (it *StringReverseIterator) Cursor() int { return it.cursor }
