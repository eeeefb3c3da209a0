package schemaval

// Result is the outcome of one Validate call. Either the value conformed
// (Valid reports true, Issues is empty) or it did not (Issues is non-empty,
// in deterministic declared order). A Result holds no reference into the
// validated data beyond path descriptions.
type Result struct {
	Issues Issues
}

// Valid reports whether the value conformed to the schema.
func (r Result) Valid() bool { return len(r.Issues) == 0 }

// Err returns the issues as an error, or nil when valid.
func (r Result) Err() error {
	if len(r.Issues) == 0 {
		return nil
	}
	return r.Issues
}
