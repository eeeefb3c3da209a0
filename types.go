package schemaval

// DefaultMaxDepth is the recursion bound applied when Options.MaxDepth is
// zero. Generous enough for legitimate recursive schemas; small enough to
// fail with depth_exceeded instead of exhausting the call stack.
const DefaultMaxDepth = 1000

// Verbosity controls how much detail failed anyOf/oneOf alternatives
// contribute to their aggregate issue.
type Verbosity int

const (
	// VerbosityDetailed attaches each failed alternative's error set to
	// the aggregate issue. The default.
	VerbosityDetailed Verbosity = iota
	// VerbosityCompact reports only the aggregate issue.
	VerbosityCompact
)

// Options bundles validation options. The zero value means: exhaustive
// collection, DefaultMaxDepth, detailed alternative diagnostics.
type Options struct {
	// MaxDepth bounds matcher recursion. Zero selects DefaultMaxDepth.
	MaxDepth int
	// FailFast stops at the first issue in declared order. The result is
	// then pass/fail only; exhaustive collection is the default.
	FailFast bool
	// Verbosity selects alternative-diagnostics detail.
	Verbosity Verbosity
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
