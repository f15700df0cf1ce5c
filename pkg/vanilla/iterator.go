package vanilla

import "github.com/zeta1999/egg/pkg/value"

// arrayIterator is the callable positional iterator Array.Iterate hands
// out: each call returns the next element or Void to signal exhaustion.
type arrayIterator struct {
	Base
	array *Array
	next  int
}

func newArrayIterator(a *Array) *arrayIterator {
	it := &arrayIterator{array: a}
	it.Base = newBase("Iterator", it)
	return it
}

func (it *arrayIterator) Call([]value.Value) (value.Value, error) {
	v, ok := it.array.next(it.next)
	if ok {
		it.next++
	}
	return v, nil
}

func (it *arrayIterator) String() string { return "<iterator>" }

// dictionaryIterator is the callable key-value iterator Dictionary.Iterate
// hands out. It snapshots the key order at creation, so structural changes
// to the dictionary made after iteration begins are not observed.
type dictionaryIterator struct {
	Base
	pairs []KeyValuePair
	next  int
}

func newDictionaryIterator(pairs []KeyValuePair) *dictionaryIterator {
	it := &dictionaryIterator{pairs: pairs}
	it.Base = newBase("Iterator", it)
	return it
}

func (it *dictionaryIterator) Call([]value.Value) (value.Value, error) {
	if it.next >= len(it.pairs) {
		return value.VoidValue, nil
	}
	pair := it.pairs[it.next]
	it.next++
	return value.NewObject(NewKeyValue(value.NewString(pair.Key), pair.Value)), nil
}

func (it *dictionaryIterator) String() string { return "<iterator>" }
