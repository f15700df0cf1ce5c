package vanilla

import "github.com/zeta1999/egg/pkg/value"

// KeyValue is the immutable pair vended by dictionary iteration: it exposes
// `key` and `value` properties and rejects everything else, including
// iteration and mutation.
type KeyValue struct {
	Base
	key   value.Value
	value value.Value
}

// NewKeyValue constructs a key-value pair.
func NewKeyValue(key, val value.Value) *KeyValue {
	kv := &KeyValue{key: key, value: val}
	kv.Base = newBase("Key-value", kv)
	return kv
}

func (kv *KeyValue) GetProperty(name string) (value.Value, error) {
	switch name {
	case "key":
		return kv.key, nil
	case "value":
		return kv.value, nil
	default:
		return raise("Key-values do not support property: '.%s'", name)
	}
}

func (kv *KeyValue) SetProperty(name string, _ value.Value) (value.Value, error) {
	return raise("Key-values do not support addition or modification of properties: '.%s'", name)
}

func (kv *KeyValue) Iterate() (value.Value, error) {
	return raise("Key-values do not support iteration")
}

func (kv *KeyValue) String() string {
	return "{key:" + Stringify(kv.key) + ",value:" + Stringify(kv.value) + "}"
}
