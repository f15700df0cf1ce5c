package vanilla

import "github.com/zeta1999/egg/pkg/value"

// KeyValuePair is one entry of a Dictionary, in insertion order.
type KeyValuePair struct {
	Key   string
	Value value.Value
}

// Dictionary is the shared insertion-ordered string-keyed map backing both
// the `Object` vanilla kind and Exception. Iteration snapshots key order at
// the moment Iterate is called.
type Dictionary struct {
	Base
	order []string
	slots map[string]int
	pairs []KeyValuePair
}

// NewDictionary constructs an empty dictionary presenting as the given
// user-facing kind noun (e.g. "Object", "Exception").
func NewDictionary(kind string) *Dictionary {
	d := &Dictionary{slots: make(map[string]int)}
	d.Base = newBase(kind, d)
	return d
}

func (d *Dictionary) tryGet(name string) (value.Value, bool) {
	idx, ok := d.slots[name]
	if !ok {
		return value.Value{}, false
	}
	return d.pairs[idx].Value, true
}

// put inserts or updates an entry, preserving original insertion position
// on update.
func (d *Dictionary) put(name string, v value.Value) {
	if idx, ok := d.slots[name]; ok {
		d.pairs[idx].Value = v
		return
	}
	d.slots[name] = len(d.pairs)
	d.pairs = append(d.pairs, KeyValuePair{Key: name, Value: v})
}

func (d *Dictionary) GetProperty(name string) (value.Value, error) {
	if v, ok := d.tryGet(name); ok {
		return v, nil
	}
	return raise("%s does not support property '.%s'", d.Kind(), name)
}

func (d *Dictionary) SetProperty(name string, v value.Value) (value.Value, error) {
	d.put(name, v)
	return value.VoidValue, nil
}

func (d *Dictionary) Iterate() (value.Value, error) {
	snapshot := make([]KeyValuePair, len(d.pairs))
	copy(snapshot, d.pairs)
	return value.NewObject(newDictionaryIterator(snapshot)), nil
}

func (d *Dictionary) String() string {
	parts := make([]string, len(d.pairs))
	for i, kv := range d.pairs {
		parts[i] = kv.Key + ":" + Stringify(kv.Value)
	}
	return joinValues(parts, "{", ",", "}")
}

// NewObject constructs the vanilla `object{}` literal kind: a plain
// Dictionary presenting as "Object".
func NewObject() *Dictionary {
	return NewDictionary("Object")
}
