package syntax

import "fmt"

// FromMap decodes a concrete syntax node from the generic map[string]any
// shape produced by decoding JSON or YAML fixtures, using a single
// recursive shape rather than one case per AST node type (the syntax
// layer doesn't know egg's node catalog - that's promotion's job).
//
// Expected shape:
//
//	{"kind": "binary-operator", "token": "+", "resource": "a.egg",
//	 "line": 1, "column": 3, "children": [...]}
func FromMap(raw map[string]any) (Node, error) {
	kind, _ := raw["kind"].(string)
	if kind == "" {
		return nil, fmt.Errorf("syntax: node map missing non-empty \"kind\"")
	}
	token, _ := raw["token"].(string)
	loc := Location{}
	if resource, ok := raw["resource"].(string); ok {
		loc.Resource = resource
	}
	loc.Line = asInt(raw["line"])
	loc.Column = asInt(raw["column"])
	var children []Node
	if rawChildren, ok := raw["children"].([]any); ok {
		children = make([]Node, 0, len(rawChildren))
		for _, c := range rawChildren {
			cm, ok := c.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("syntax: child of %q is not an object", kind)
			}
			child, err := FromMap(cm)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	}
	return New(kind, token, loc, children...), nil
}

// asInt accepts the numeric representations the generic decoders produce:
// float64 from encoding/json, int from yaml.v3.
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
