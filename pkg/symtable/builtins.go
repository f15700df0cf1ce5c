package symtable

import "github.com/zeta1999/egg/pkg/value"

// builtinSignatures describes the root scope's predeclared free functions:
// print(any) -> void, assert(bool) -> void, string(any) -> string, and
// type(any) -> type.
func builtinSignatures() map[string]value.FunctionType {
	return map[string]value.FunctionType{
		"print": {Name: "print", Sig: value.Signature{
			Params:  []value.Parameter{{Name: "value", Type: value.TAnyQ, Variadic: true}},
			Returns: value.TVoid,
		}},
		"assert": {Name: "assert", Sig: value.Signature{
			Params:  []value.Parameter{{Name: "predicate", Type: value.TBool, Predicate: true}},
			Returns: value.TVoid,
		}},
		"string": {Name: "string", Sig: value.Signature{
			Params:  []value.Parameter{{Name: "value", Type: value.TAnyQ, Variadic: true}},
			Returns: value.TString,
		}},
		"type": {Name: "type", Sig: value.Signature{
			Params:  []value.Parameter{{Name: "value", Type: value.TAnyQ}},
			Returns: value.TType,
		}},
	}
}
