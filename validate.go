package schemaval

import (
	"github.com/schemaval/schemaval/constraint"
	"github.com/schemaval/schemaval/value"
)

// Validate checks v against root, resolving references through res.
// res may be nil when the schema contains no references. The trailing
// options follow last-wins semantics.
//
// Validate never mutates its inputs, returns a deterministic Result for a
// given (schema, value) pair, and is safe to call concurrently against a
// shared, frozen schema and registry.
func Validate(res constraint.Resolver, root constraint.Node, v value.Value, opts ...Options) Result {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	m := &matcher{res: res, opt: opt}
	return Result{Issues: m.match(root, v, Root(), 0)}
}

// Check is Validate for callers that only want an error: nil when the
// value conforms, the Issues otherwise.
func Check(res constraint.Resolver, root constraint.Node, v value.Value, opts ...Options) error {
	return Validate(res, root, v, opts...).Err()
}
