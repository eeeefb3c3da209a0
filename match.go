package schemaval

import (
	"fmt"
	"strings"

	"github.com/schemaval/schemaval/constraint"
	"github.com/schemaval/schemaval/i18n"
	"github.com/schemaval/schemaval/value"
)

// matcher walks a constraint node and a data value together. It is a pure
// function of (node tree, resolver, value); all state lives on the stack.
type matcher struct {
	res constraint.Resolver
	opt Options
}

func (m *matcher) match(n constraint.Node, v value.Value, p Path, depth int) Issues {
	if depth >= m.opt.maxDepth() {
		return Issues{{
			Path:    p,
			Code:    CodeDepthExceeded,
			Message: i18n.T(CodeDepthExceeded, nil),
			Params:  map[string]any{"maxDepth": m.opt.maxDepth()},
		}}
	}
	switch t := n.(type) {
	case *constraint.TypeNode:
		return m.matchType(t, v, p)
	case *constraint.RangeNode:
		return m.matchRange(t, v, p)
	case *constraint.PatternNode:
		return m.matchPattern(t, v, p)
	case *constraint.LengthNode:
		return m.matchLength(t, v, p)
	case *constraint.EnumNode:
		return m.matchEnum(t, v, p)
	case *constraint.ObjectNode:
		return m.matchObject(t, v, p, depth)
	case *constraint.SequenceNode:
		return m.matchSequence(t, v, p, depth)
	case *constraint.CompositeNode:
		return m.matchComposite(t, v, p, depth)
	case *constraint.RefNode:
		return m.matchRef(t, v, p, depth)
	default:
		// Unknown node kinds cannot occur through the constraint package;
		// treat them as a mismatch rather than panic if one slips through.
		return Issues{{Path: p, Code: CodeTypeMismatch, Message: fmt.Sprintf("unsupported constraint %T", n)}}
	}
}

func kindMatches(k constraint.TypeKind, v value.Value) bool {
	switch k {
	case constraint.TypeNull:
		return v.Kind() == value.KindNull
	case constraint.TypeBool:
		return v.Kind() == value.KindBool
	case constraint.TypeInteger:
		return v.Kind() == value.KindNumber && v.IsInt()
	case constraint.TypeNumber:
		return v.Kind() == value.KindNumber
	case constraint.TypeString:
		return v.Kind() == value.KindString
	case constraint.TypeSequence:
		return v.Kind() == value.KindSequence
	case constraint.TypeMapping:
		return v.Kind() == value.KindMapping
	default:
		return false
	}
}

func typeMismatch(p Path, expected string, v value.Value) Issue {
	return Issue{
		Path:     p,
		Code:     CodeTypeMismatch,
		Message:  i18n.T(CodeTypeMismatch, map[string]string{"expected": expected}),
		Expected: expected,
		Actual:   v.Kind().String(),
	}
}

// matchType stops descending on mismatch: no further checks make sense on
// a value of the wrong category.
func (m *matcher) matchType(t *constraint.TypeNode, v value.Value, p Path) Issues {
	if kindMatches(t.Kind, v) {
		return nil
	}
	return Issues{typeMismatch(p, t.Kind.String(), v)}
}

func (m *matcher) matchRange(t *constraint.RangeNode, v value.Value, p Path) Issues {
	if v.Kind() != value.KindNumber {
		return Issues{typeMismatch(p, "number", v)}
	}
	f, err := v.Float64()
	if err != nil {
		return Issues{typeMismatch(p, "number", v)}
	}
	ok := true
	if t.Min != nil {
		if t.MinExclusive {
			ok = ok && f > *t.Min
		} else {
			ok = ok && f >= *t.Min
		}
	}
	if t.Max != nil {
		if t.MaxExclusive {
			ok = ok && f < *t.Max
		} else {
			ok = ok && f <= *t.Max
		}
	}
	if ok {
		return nil
	}
	params := map[string]any{}
	if t.Min != nil {
		params["min"] = *t.Min
		params["minExclusive"] = t.MinExclusive
	}
	if t.Max != nil {
		params["max"] = *t.Max
		params["maxExclusive"] = t.MaxExclusive
	}
	return Issues{{
		Path:     p,
		Code:     CodeRangeViolation,
		Message:  i18n.T(CodeRangeViolation, nil),
		Expected: describeRange(t),
		Actual:   v.Describe(),
		Params:   params,
	}}
}

func describeRange(t *constraint.RangeNode) string {
	lo, hi := "(-inf", "+inf)"
	if t.Min != nil {
		br := "["
		if t.MinExclusive {
			br = "("
		}
		lo = fmt.Sprintf("%s%v", br, *t.Min)
	}
	if t.Max != nil {
		br := "]"
		if t.MaxExclusive {
			br = ")"
		}
		hi = fmt.Sprintf("%v%s", *t.Max, br)
	}
	return lo + ", " + hi
}

func (m *matcher) matchPattern(t *constraint.PatternNode, v value.Value, p Path) Issues {
	if v.Kind() != value.KindString {
		return Issues{typeMismatch(p, "string", v)}
	}
	if t.MatchString(v.AsString()) {
		return nil
	}
	return Issues{{
		Path:     p,
		Code:     CodePatternMismatch,
		Message:  i18n.T(CodePatternMismatch, map[string]string{"pattern": t.Expr}),
		Expected: t.Expr,
		Actual:   v.Describe(),
	}}
}

func (m *matcher) matchLength(t *constraint.LengthNode, v value.Value, p Path) Issues {
	if v.Kind() != value.KindString && v.Kind() != value.KindSequence {
		return Issues{typeMismatch(p, "string or sequence", v)}
	}
	if iss := lengthViolation(t.Min, t.Max, v.Len(), p); iss != nil {
		return Issues{*iss}
	}
	return nil
}

// lengthViolation yields at most one issue: the lower bound wins when both
// could never fail together anyway.
func lengthViolation(min, max *int, n int, p Path) *Issue {
	var expected string
	switch {
	case min != nil && n < *min:
		expected = fmt.Sprintf("length >= %d", *min)
	case max != nil && n > *max:
		expected = fmt.Sprintf("length <= %d", *max)
	default:
		return nil
	}
	params := map[string]any{"length": n}
	if min != nil {
		params["min"] = *min
	}
	if max != nil {
		params["max"] = *max
	}
	return &Issue{
		Path:     p,
		Code:     CodeLengthViolation,
		Message:  i18n.T(CodeLengthViolation, nil),
		Expected: expected,
		Actual:   fmt.Sprintf("length %d", n),
		Params:   params,
	}
}

// enumShown bounds how many allowed literals an enum_mismatch message lists.
const enumShown = 5

func (m *matcher) matchEnum(t *constraint.EnumNode, v value.Value, p Path) Issues {
	for _, allowed := range t.Values {
		if value.Equal(v, allowed) {
			return nil
		}
	}
	descs := make([]string, 0, len(t.Values))
	for _, allowed := range t.Values {
		descs = append(descs, allowed.Describe())
	}
	shown := descs
	if len(shown) > enumShown {
		shown = append(shown[:enumShown:enumShown], fmt.Sprintf("... (%d total)", len(descs)))
	}
	return Issues{{
		Path:     p,
		Code:     CodeEnumMismatch,
		Message:  i18n.T(CodeEnumMismatch, nil),
		Expected: "one of " + strings.Join(shown, ", "),
		Actual:   v.Describe(),
		Params:   map[string]any{"allowed": descs},
	}}
}

func (m *matcher) matchObject(t *constraint.ObjectNode, v value.Value, p Path, depth int) Issues {
	if v.Kind() != value.KindMapping {
		return Issues{typeMismatch(p, "mapping", v)}
	}
	var iss Issues
	for _, f := range t.Fields {
		fv, present := v.Get(f.Name)
		if present {
			if f.Schema != nil {
				iss = AppendIssues(iss, m.match(f.Schema, fv, p.Field(f.Name), depth+1)...)
				if m.opt.FailFast && len(iss) > 0 {
					return iss
				}
			}
			continue
		}
		if f.Required {
			iss = AppendIssues(iss, Issue{
				Path:    p.Field(f.Name),
				Code:    CodeMissingField,
				Message: i18n.T(CodeMissingField, map[string]string{"field": f.Name}),
				Params:  map[string]any{"field": f.Name},
			})
			if m.opt.FailFast {
				return iss
			}
		}
	}
	if t.Additional.Mode == constraint.AdditionalAllow {
		return iss
	}
	// undeclared keys in ascending order for deterministic reporting
	for _, k := range v.Keys() {
		if _, declared := t.FieldByName(k); declared {
			continue
		}
		switch t.Additional.Mode {
		case constraint.AdditionalForbid:
			iss = AppendIssues(iss, Issue{
				Path:    p.Field(k),
				Code:    CodeUnexpectedField,
				Message: i18n.T(CodeUnexpectedField, map[string]string{"field": k}),
				Params:  map[string]any{"field": k},
			})
		case constraint.AdditionalSchema:
			fv, _ := v.Get(k)
			iss = AppendIssues(iss, m.match(t.Additional.Node, fv, p.Field(k), depth+1)...)
		}
		if m.opt.FailFast && len(iss) > 0 {
			return iss
		}
	}
	return iss
}

func (m *matcher) matchSequence(t *constraint.SequenceNode, v value.Value, p Path, depth int) Issues {
	if v.Kind() != value.KindSequence {
		return Issues{typeMismatch(p, "sequence", v)}
	}
	var iss Issues
	// length bounds are checked once, independent of element checks
	if lv := lengthViolation(t.MinLen, t.MaxLen, v.Len(), p); lv != nil {
		iss = AppendIssues(iss, *lv)
		if m.opt.FailFast {
			return iss
		}
	}
	if t.Item == nil {
		return iss
	}
	for i, item := range v.Items() {
		iss = AppendIssues(iss, m.match(t.Item, item, p.Index(i), depth+1)...)
		if m.opt.FailFast && len(iss) > 0 {
			return iss
		}
	}
	return iss
}

func (m *matcher) matchComposite(t *constraint.CompositeNode, v value.Value, p Path, depth int) Issues {
	switch t.Kind {
	case constraint.CombineAllOf:
		// exhaustive: the caller sees every violated constraint at once
		var iss Issues
		for _, c := range t.Children {
			iss = AppendIssues(iss, m.match(c, v, p, depth+1)...)
			if m.opt.FailFast && len(iss) > 0 {
				return iss
			}
		}
		return iss
	case constraint.CombineAnyOf:
		alts := make([]Issues, 0, len(t.Children))
		for _, c := range t.Children {
			ci := m.match(c, v, p, depth+1)
			if len(ci) == 0 {
				return nil
			}
			alts = append(alts, ci)
		}
		return Issues{m.noAlternative(p, alts)}
	case constraint.CombineOneOf:
		// every child is evaluated even under FailFast: exactly-one
		// semantics need the full match count
		var matched []int
		alts := make([]Issues, 0, len(t.Children))
		for i, c := range t.Children {
			ci := m.match(c, v, p, depth+1)
			if len(ci) == 0 {
				matched = append(matched, i)
				continue
			}
			alts = append(alts, ci)
		}
		switch len(matched) {
		case 1:
			return nil
		case 0:
			return Issues{m.noAlternative(p, alts)}
		default:
			return Issues{{
				Path:    p,
				Code:    CodeAmbiguousMatch,
				Message: i18n.T(CodeAmbiguousMatch, nil),
				Actual:  fmt.Sprintf("alternatives %s matched", joinInts(matched)),
				Params:  map[string]any{"matched": matched},
			}}
		}
	case constraint.CombineNot:
		if len(t.Children) != 1 {
			return Issues{{Path: p, Code: CodeTypeMismatch, Message: "not requires exactly one child"}}
		}
		if ci := m.match(t.Children[0], v, p, depth+1); len(ci) > 0 {
			return nil
		}
		return Issues{{
			Path:    p,
			Code:    CodeNegatedViolated,
			Message: i18n.T(CodeNegatedViolated, nil),
		}}
	default:
		return Issues{{Path: p, Code: CodeTypeMismatch, Message: fmt.Sprintf("unsupported combinator %v", t.Kind)}}
	}
}

func (m *matcher) noAlternative(p Path, alts []Issues) Issue {
	out := Issue{
		Path:    p,
		Code:    CodeNoAlternative,
		Message: i18n.T(CodeNoAlternative, nil),
		Params:  map[string]any{"alternatives": len(alts)},
	}
	if m.opt.Verbosity == VerbosityDetailed {
		out.Alternatives = alts
	}
	return out
}

// matchRef resolves through the registry and recurses at the same path:
// reference resolution is transparent to path reporting.
func (m *matcher) matchRef(t *constraint.RefNode, v value.Value, p Path, depth int) Issues {
	var target constraint.Node
	if m.res != nil {
		if n, ok := m.res.Lookup(t.Name); ok {
			target = n
		}
	}
	if target == nil {
		return Issues{{
			Path:    p,
			Code:    CodeUnknownReference,
			Message: i18n.T(CodeUnknownReference, map[string]string{"name": t.Name}),
			Params:  map[string]any{"name": t.Name},
		}}
	}
	return m.match(target, v, p, depth+1)
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
