package vanilla

import "github.com/zeta1999/egg/pkg/value"

const (
	keyMessage  = "message"
	keyLocation = "location"
)

// Exception is a dictionary prepopulated with `message` and `location`
// entries, as every raised egg exception carries.
type Exception struct {
	*Dictionary
}

// NewException constructs a raised exception. location may be the empty
// string when no source position applies.
func NewException(location, message string) *Exception {
	d := NewDictionary("Exception")
	if location != "" {
		d.put(keyLocation, value.NewString(location))
	}
	if message != "" {
		d.put(keyMessage, value.NewString(message))
	}
	return &Exception{Dictionary: d}
}

// Message returns the exception's message entry, if present.
func (e *Exception) Message() (string, bool) {
	v, ok := e.tryGet(keyMessage)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// String renders "{location}: {message}", or "Exception (no message)"
// when no message entry is present.
func (e *Exception) String() string {
	var out string
	if loc, ok := e.tryGet(keyLocation); ok {
		out += Stringify(loc) + ": "
	}
	if msg, ok := e.tryGet(keyMessage); ok {
		out += Stringify(msg)
	} else {
		out = "Exception (no message)"
	}
	return out
}
