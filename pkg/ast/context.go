package ast

import "fmt"

// Allowed is the bit-set of statement forms legal in a promotion context.
// Exact values match the bit layout promotion assigns operation tokens to
// when enforcing the allowed-context rule (empty statement, break,
// continue, case/default, bare finally, rethrow, return, yield).
type Allowed uint32

const (
	AllowedNone      Allowed = 0x00
	AllowedBreak     Allowed = 0x01
	AllowedCase      Allowed = 0x02
	AllowedContinue  Allowed = 0x04
	AllowedEmpty     Allowed = 0x08
	AllowedRethrow   Allowed = 0x10
	AllowedReturn    Allowed = 0x20
	AllowedYield     Allowed = 0x40
)

func (a Allowed) Has(bit Allowed) bool { return a&bit != 0 }

// Context carries the promotion-time state threaded through every
// recursive Promote call: the resource name (for diagnostics), the
// current allowed-context bit-set, and a pointer to the diagnostics sink
// every context derived from the same root shares.
type Context struct {
	Resource string
	allowed  Allowed
	errors   *[]error
}

// NewContext starts a root context for resource with no bits allowed; a
// module body grants itself none of these (top-level break/continue/etc
// are always illegal).
func NewContext(resource string) *Context {
	return &Context{Resource: resource, errors: &[]error{}}
}

func (c *Context) IsAllowed(bit Allowed) bool { return c.allowed.Has(bit) }

// InheritAllowed derives the child context's bit-set: it keeps only the
// bits named in inherit from the parent, then adds add. Used whenever
// promotion recurses into a nested construct whose legal statement forms
// differ from its parent's (e.g. a loop body inherits Rethrow|Return|Yield
// from its enclosing function and adds Break|Continue of its own). The
// child shares the root's diagnostics sink, so errors raised anywhere in
// the tree accumulate in one place.
func (c *Context) InheritAllowed(add, inherit Allowed) *Context {
	return &Context{
		Resource: c.Resource,
		allowed:  (c.allowed & inherit) | add,
		errors:   c.errors,
	}
}

// Raise records a promotion diagnostic and returns it as an error so
// callers can propagate it immediately (promotion treats every violation
// as fatal: the caller stops descending into the offending subtree).
func (c *Context) Raise(loc fmt.Stringer, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	var err error
	if loc != nil {
		err = fmt.Errorf("%s: %s: %s", c.Resource, loc.String(), msg)
	} else {
		err = fmt.Errorf("%s: %s", c.Resource, msg)
	}
	*c.errors = append(*c.errors, err)
	return err
}

// Errors returns every diagnostic raised anywhere under this context's
// root.
func (c *Context) Errors() []error { return *c.errors }

// WithAllowed derives a child context carrying exactly allowed, sharing
// the root's diagnostics sink. Used where a nested construct's legal
// statement forms are not a function of the parent's at all - a function
// or generator body, which resets Break/Continue/Case regardless of
// whatever loop or switch lexically encloses the definition.
func (c *Context) WithAllowed(allowed Allowed) *Context {
	return &Context{Resource: c.Resource, allowed: allowed, errors: c.errors}
}
