package prepare

import "github.com/zeta1999/egg/pkg/value"

// stringBuiltins is the table of properties a 'string' value supports via
// the '.' operator: 'length' yields an int directly; everything else is a
// bound method. Property access on a string with any other name is an
// error at preparation time.
var stringBuiltins = map[string]value.Type{
	"length":      value.TInt,
	"compareTo":   stringMethod("compareTo", value.TInt, param("other", value.TString)),
	"contains":    stringMethod("contains", value.TBool, param("needle", value.TString)),
	"endsWith":    stringMethod("endsWith", value.TBool, param("suffix", value.TString)),
	"hash":        stringMethod("hash", value.TInt),
	"indexOf":     stringMethod("indexOf", value.SimpleType{Bits: value.Int | value.Null}, param("needle", value.TString)),
	"join":        stringMethod("join", value.TString, variadicParam("parts", value.TAnyQ)),
	"lastIndexOf": stringMethod("lastIndexOf", value.SimpleType{Bits: value.Int | value.Null}, param("needle", value.TString)),
	"padLeft":     stringMethod("padLeft", value.TString, param("target", value.TInt)),
	"padRight":    stringMethod("padRight", value.TString, param("target", value.TInt)),
	"repeat":      stringMethod("repeat", value.TString, param("count", value.TInt)),
	"replace":     stringMethod("replace", value.TString, param("needle", value.TString), param("replacement", value.TString)),
	"slice":       stringMethod("slice", value.TString, param("begin", value.TInt), param("end", value.TInt)),
	"split":       stringMethod("split", value.TObject, param("separator", value.TString)),
	"startsWith":  stringMethod("startsWith", value.TBool, param("prefix", value.TString)),
	"toString":    stringMethod("toString", value.TString),
}

func stringMethod(name string, returns value.Type, params ...value.Parameter) value.Type {
	return value.FunctionType{Name: name, Sig: value.Signature{Params: params, Returns: returns}}
}

func param(name string, t value.Type) value.Parameter {
	return value.Parameter{Name: name, Type: t}
}

func variadicParam(name string, t value.Type) value.Parameter {
	return value.Parameter{Name: name, Type: t, Variadic: true}
}
