package schemaval_test

import (
	"reflect"
	"strings"
	"testing"

	schemaval "github.com/schemaval/schemaval"
	"github.com/schemaval/schemaval/constraint"
	"github.com/schemaval/schemaval/value"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

// userAgeSchema builds {"user": {"age": integer in [0,150]}}.
func userAgeSchema(t *testing.T) constraint.Node {
	t.Helper()
	age := constraint.AllOf(
		constraint.Type(constraint.TypeInteger),
		constraint.Range(fptr(0), fptr(150)),
	)
	user := constraint.Object().
		Field("age", age).
		Require("age").
		MustBuild()
	return constraint.Object().
		Field("user", user).
		Require("user").
		MustBuild()
}

func TestValidate_Success(t *testing.T) {
	root := userAgeSchema(t)
	res := schemaval.Validate(nil, root, value.MustFromGo(map[string]any{
		"user": map[string]any{"age": 42},
	}))
	if !res.Valid() {
		t.Fatalf("expected valid, got: %v", res.Issues)
	}
	if res.Err() != nil {
		t.Fatalf("Err must be nil when valid")
	}
}

func TestValidate_PathAndRangeViolation(t *testing.T) {
	root := userAgeSchema(t)
	res := schemaval.Validate(nil, root, value.MustFromGo(map[string]any{
		"user": map[string]any{"age": -5},
	}))
	if res.Valid() {
		t.Fatalf("expected invalid")
	}
	if len(res.Issues) != 1 {
		t.Fatalf("expected a single issue, got: %v", res.Issues)
	}
	iss := res.Issues[0]
	if iss.Code != schemaval.CodeRangeViolation {
		t.Fatalf("expected range_violation, got %s", iss.Code)
	}
	if got := iss.Path.String(); got != ".user.age" {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestValidate_Determinism(t *testing.T) {
	root := constraint.Object().
		Field("a", constraint.Type(constraint.TypeString)).
		Field("b", constraint.Type(constraint.TypeInteger)).
		Require("a", "b").
		AdditionalForbidden().
		MustBuild()
	v := value.MustFromGo(map[string]any{"b": "nope", "x": 1, "y": 2})
	first := schemaval.Validate(nil, root, v)
	for i := 0; i < 5; i++ {
		again := schemaval.Validate(nil, root, v)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("results differ between runs:\n%v\n%v", first, again)
		}
	}
	// declared-order then sorted-extra-order
	codes := make([]string, 0, len(first.Issues))
	for _, iss := range first.Issues {
		codes = append(codes, iss.Code+"@"+iss.Path.String())
	}
	want := []string{
		"missing_field@.a",
		"type_mismatch@.b",
		"unexpected_field@.x",
		"unexpected_field@.y",
	}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("unexpected issue order: %v", codes)
	}
}

func TestTypeMismatch_StopsDescending(t *testing.T) {
	root := constraint.Object().
		Field("name", constraint.Type(constraint.TypeString)).
		Require("name").
		MustBuild()
	res := schemaval.Validate(nil, root, value.MustFromGo([]any{1, 2}))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeTypeMismatch {
		t.Fatalf("expected single type_mismatch, got: %v", res.Issues)
	}
	if res.Issues[0].Path.String() != "." {
		t.Fatalf("mismatch must be reported at the root: %v", res.Issues[0].Path)
	}
}

func TestRange_NonNumericValue(t *testing.T) {
	res := schemaval.Validate(nil, constraint.Range(fptr(0), nil), value.String("ten"))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch for non-numeric range input: %v", res.Issues)
	}
}

func TestRange_ExclusiveBounds(t *testing.T) {
	rng := &constraint.RangeNode{Min: fptr(0), MinExclusive: true}
	if res := schemaval.Validate(nil, rng, value.Int(0)); res.Valid() {
		t.Fatalf("0 must violate an exclusive minimum of 0")
	}
	if res := schemaval.Validate(nil, rng, value.Int(1)); !res.Valid() {
		t.Fatalf("1 must satisfy an exclusive minimum of 0")
	}
}

func TestPattern_FullStringAnchoring(t *testing.T) {
	pat := constraint.MustPattern("[a-z]+")
	if res := schemaval.Validate(nil, pat, value.String("abc")); !res.Valid() {
		t.Fatalf("expected full match: %v", res.Issues)
	}
	res := schemaval.Validate(nil, pat, value.String("abc1"))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodePatternMismatch {
		t.Fatalf("substring match must not pass an anchored pattern: %v", res.Issues)
	}
}

func TestEnum_MismatchTruncatesAllowedSet(t *testing.T) {
	en := constraint.Enum(
		value.String("a"), value.String("b"), value.String("c"),
		value.String("d"), value.String("e"), value.String("f"),
		value.String("g"),
	)
	res := schemaval.Validate(nil, en, value.String("zzz"))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeEnumMismatch {
		t.Fatalf("expected enum_mismatch: %v", res.Issues)
	}
	if !strings.Contains(res.Issues[0].Expected, "(7 total)") {
		t.Fatalf("expected truncated allowed set, got: %q", res.Issues[0].Expected)
	}
}

func TestEnum_NumericEqualityAcrossSpellings(t *testing.T) {
	en := constraint.Enum(value.Int(1), value.Int(2))
	if res := schemaval.Validate(nil, en, value.Float(1.0)); !res.Valid() {
		t.Fatalf("1.0 must equal enum literal 1: %v", res.Issues)
	}
}

func TestObject_RequiredVsOptional(t *testing.T) {
	root := constraint.Object().
		Field("name", constraint.Type(constraint.TypeString)).
		Field("nick", constraint.Type(constraint.TypeString)).
		Require("name").
		MustBuild()

	res := schemaval.Validate(nil, root, value.MustFromGo(map[string]any{"name": "x"}))
	if !res.Valid() {
		t.Fatalf("omitting an optional field must be fine: %v", res.Issues)
	}

	res = schemaval.Validate(nil, root, value.MustFromGo(map[string]any{"nick": "x"}))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeMissingField {
		t.Fatalf("expected missing_field: %v", res.Issues)
	}
	if got := res.Issues[0].Path.String(); got != ".name" {
		t.Fatalf("unexpected missing-field path: %q", got)
	}
}

func TestObject_AdditionalForbid(t *testing.T) {
	root := constraint.Object().
		Field("name", constraint.Type(constraint.TypeString)).
		AdditionalForbidden().
		MustBuild()
	res := schemaval.Validate(nil, root, value.MustFromGo(map[string]any{
		"name":  "x",
		"extra": 1,
	}))
	if len(res.Issues) != 1 {
		t.Fatalf("expected one issue, got: %v", res.Issues)
	}
	iss := res.Issues[0]
	if iss.Code != schemaval.CodeUnexpectedField || iss.Path.String() != ".extra" {
		t.Fatalf("expected unexpected_field at .extra, got %s at %s", iss.Code, iss.Path)
	}
}

func TestObject_AdditionalValidatesAgainstNode(t *testing.T) {
	root := constraint.Object().
		Field("name", constraint.Type(constraint.TypeString)).
		AdditionalWith(constraint.Type(constraint.TypeInteger)).
		MustBuild()
	res := schemaval.Validate(nil, root, value.MustFromGo(map[string]any{
		"name": "x",
		"hits": 3,
		"rate": "fast",
	}))
	if len(res.Issues) != 1 {
		t.Fatalf("expected one issue, got: %v", res.Issues)
	}
	if got := res.Issues[0].Path.String(); got != ".rate" {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestSequence_LengthAndElementChecks(t *testing.T) {
	seq := constraint.SequenceOf(constraint.Type(constraint.TypeInteger)).Min(3)
	res := schemaval.Validate(nil, seq, value.MustFromGo([]any{1, "two"}))
	if len(res.Issues) != 2 {
		t.Fatalf("expected length + element issues, got: %v", res.Issues)
	}
	if res.Issues[0].Code != schemaval.CodeLengthViolation {
		t.Fatalf("length check must come first: %v", res.Issues)
	}
	if res.Issues[1].Code != schemaval.CodeTypeMismatch || res.Issues[1].Path.String() != "[1]" {
		t.Fatalf("expected element type_mismatch at [1]: %v", res.Issues[1])
	}
}

func TestSequence_AtMostOneLengthViolation(t *testing.T) {
	seq := constraint.SequenceOf(nil).Min(2).Max(4)
	res := schemaval.Validate(nil, seq, value.MustFromGo([]any{1}))
	count := 0
	for _, iss := range res.Issues {
		if iss.Code == schemaval.CodeLengthViolation {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one length_violation, got %d: %v", count, res.Issues)
	}
}

func TestAllOf_Exhaustive(t *testing.T) {
	node := constraint.AllOf(
		constraint.Range(fptr(10), nil),
		constraint.Enum(value.Int(42)),
	)
	res := schemaval.Validate(nil, node, value.Int(5))
	if len(res.Issues) != 2 {
		t.Fatalf("exhaustive allOf must surface both failures: %v", res.Issues)
	}
	if res.Issues[0].Code != schemaval.CodeRangeViolation || res.Issues[1].Code != schemaval.CodeEnumMismatch {
		t.Fatalf("unexpected issue order: %v", res.Issues)
	}
}

func TestAnyOf_NoAlternativeMatched(t *testing.T) {
	node := constraint.AnyOf(
		constraint.Type(constraint.TypeString),
		constraint.Type(constraint.TypeInteger),
	)
	if res := schemaval.Validate(nil, node, value.Int(3)); !res.Valid() {
		t.Fatalf("integer must satisfy anyOf: %v", res.Issues)
	}
	res := schemaval.Validate(nil, node, value.Bool(true))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeNoAlternative {
		t.Fatalf("expected no_alternative: %v", res.Issues)
	}
	if len(res.Issues[0].Alternatives) != 2 {
		t.Fatalf("detailed verbosity must carry both alternative error sets: %v", res.Issues[0])
	}
}

func TestAnyOf_CompactVerbosityDropsAlternatives(t *testing.T) {
	node := constraint.AnyOf(constraint.Type(constraint.TypeString))
	res := schemaval.Validate(nil, node, value.Int(3), schemaval.Options{Verbosity: schemaval.VerbosityCompact})
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeNoAlternative {
		t.Fatalf("expected no_alternative: %v", res.Issues)
	}
	if res.Issues[0].Alternatives != nil {
		t.Fatalf("compact verbosity must not attach alternatives")
	}
}

func TestOneOf_ExactlyOne(t *testing.T) {
	node := constraint.OneOf(
		constraint.Range(fptr(0), fptr(10)),
		constraint.Range(fptr(5), fptr(20)),
	)
	if res := schemaval.Validate(nil, node, value.Int(2)); !res.Valid() {
		t.Fatalf("2 matches only the first alternative: %v", res.Issues)
	}
	res := schemaval.Validate(nil, node, value.Int(7))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeAmbiguousMatch {
		t.Fatalf("7 matches both alternatives, expected ambiguous_match: %v", res.Issues)
	}
	res = schemaval.Validate(nil, node, value.Int(100))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeNoAlternative {
		t.Fatalf("100 matches neither alternative, expected no_alternative: %v", res.Issues)
	}
}

func TestNot_Negation(t *testing.T) {
	node := constraint.Not(constraint.Type(constraint.TypeString))
	if res := schemaval.Validate(nil, node, value.Int(1)); !res.Valid() {
		t.Fatalf("non-string must pass not(string): %v", res.Issues)
	}
	res := schemaval.Validate(nil, node, value.String("x"))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeNegatedViolated {
		t.Fatalf("expected negated_violated: %v", res.Issues)
	}
}

func TestRef_UnknownReference(t *testing.T) {
	root := constraint.Object().
		Field("child", constraint.Ref("missing")).
		Require("child").
		MustBuild()
	res := schemaval.Validate(constraint.NewRegistry(), root, value.MustFromGo(map[string]any{"child": 1}))
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeUnknownReference {
		t.Fatalf("expected unknown_reference: %v", res.Issues)
	}
	if got := res.Issues[0].Path.String(); got != ".child" {
		t.Fatalf("reference failures must carry the encounter path: %q", got)
	}
}

// treeRegistry builds the recursive schema
// node = { value: int, children: sequenceOf(ref node) }.
func treeRegistry(t *testing.T) (*constraint.Registry, constraint.Node) {
	t.Helper()
	reg := constraint.NewRegistry()
	node := constraint.Object().
		Field("value", constraint.Type(constraint.TypeInteger)).
		Field("children", constraint.SequenceOf(constraint.Ref("node"))).
		Require("value").
		MustBuild()
	reg.MustRegister("node", node)
	return reg, constraint.Ref("node")
}

func nestedTree(depth int) map[string]any {
	node := map[string]any{"value": 0, "children": []any{}}
	for i := 1; i < depth; i++ {
		node = map[string]any{"value": i, "children": []any{node}}
	}
	return node
}

func TestRecursiveSchema_TerminatesOnFiniteData(t *testing.T) {
	reg, root := treeRegistry(t)
	res := schemaval.Validate(reg, root, value.MustFromGo(nestedTree(5)))
	if !res.Valid() {
		t.Fatalf("finite nested tree must validate: %v", res.Issues)
	}
}

func TestRecursiveSchema_DepthExceeded(t *testing.T) {
	reg, root := treeRegistry(t)
	res := schemaval.Validate(reg, root, value.MustFromGo(nestedTree(50)),
		schemaval.Options{MaxDepth: 16})
	if res.Valid() {
		t.Fatalf("expected depth_exceeded")
	}
	found := false
	for _, iss := range res.Issues {
		if iss.Code == schemaval.CodeDepthExceeded {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected depth_exceeded among issues: %v", res.Issues)
	}
}

func TestFailFast_StopsAtFirstIssue(t *testing.T) {
	root := constraint.Object().
		Field("a", constraint.Type(constraint.TypeString)).
		Field("b", constraint.Type(constraint.TypeString)).
		Require("a", "b").
		MustBuild()
	res := schemaval.Validate(nil, root, value.MustFromGo(map[string]any{}),
		schemaval.Options{FailFast: true})
	if len(res.Issues) != 1 {
		t.Fatalf("fail-fast must stop after the first issue: %v", res.Issues)
	}
	if res.Issues[0].Path.String() != ".a" {
		t.Fatalf("first issue must be the first declared field: %v", res.Issues[0])
	}
}

func TestFailFast_OneOfStillCountsAllAlternatives(t *testing.T) {
	node := constraint.OneOf(
		constraint.Type(constraint.TypeInteger),
		constraint.Range(fptr(0), fptr(10)),
	)
	res := schemaval.Validate(nil, node, value.Int(5), schemaval.Options{FailFast: true})
	if len(res.Issues) != 1 || res.Issues[0].Code != schemaval.CodeAmbiguousMatch {
		t.Fatalf("oneOf must detect ambiguity even under fail-fast: %v", res.Issues)
	}
}
