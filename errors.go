package schemaval

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes carried in Issue.Code.
const (
	CodeTypeMismatch     = "type_mismatch"
	CodeRangeViolation   = "range_violation"
	CodePatternMismatch  = "pattern_mismatch"
	CodeEnumMismatch     = "enum_mismatch"
	CodeMissingField     = "missing_field"
	CodeUnexpectedField  = "unexpected_field"
	CodeLengthViolation  = "length_violation"
	CodeNoAlternative    = "no_alternative"
	CodeAmbiguousMatch   = "ambiguous_match"
	CodeNegatedViolated  = "negated_violated"
	CodeDepthExceeded    = "depth_exceeded"
	CodeUnknownReference = "unknown_reference"
)

// Issue represents a single validation failure located in the data.
type Issue struct {
	Path     Path   // Where in the data the failure occurred.
	Code     string // One of the codes listed above.
	Message  string
	Expected string // Optional: description of what the constraint wanted.
	Actual   string // Optional: description of what the data held.
	// Params carries structured parameters (e.g., {"min":1, "max":10})
	// for i18n and observability.
	Params map[string]any
	// Alternatives holds the per-alternative error sets behind a
	// no_alternative or ambiguous_match issue. Populated only under
	// VerbosityDetailed.
	Alternatives []Issues
}

// Issues is an ordered collection of validation failures that implements
// error. Order is deterministic: depth-first, declared field order.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type_mismatch at .user.age
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice
// when needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
