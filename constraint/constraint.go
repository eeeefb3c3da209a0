// Package constraint defines the schema representation consumed by the
// matcher: a tree of constraint nodes plus a registry for named references.
//
// Nodes are immutable after construction and safe to share across
// concurrent validations.
package constraint

import (
	"fmt"
	"regexp"

	"github.com/schemaval/schemaval/value"
)

// Node is one unit of validation logic. The set of implementations is
// closed; the matcher switches over the concrete types.
type Node interface {
	node()
}

// TypeKind enumerates the primitive type checks.
type TypeKind int

const (
	TypeNull TypeKind = iota
	TypeBool
	TypeInteger
	TypeNumber
	TypeString
	TypeSequence
	TypeMapping
)

// String returns the schema-facing name of the type kind.
func (k TypeKind) String() string {
	switch k {
	case TypeNull:
		return "null"
	case TypeBool:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSequence:
		return "sequence"
	case TypeMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// TypeNode checks the runtime category of a value.
type TypeNode struct {
	Kind TypeKind
}

func (*TypeNode) node() {}

// Type returns a type-check node.
func Type(kind TypeKind) *TypeNode { return &TypeNode{Kind: kind} }

// RangeNode bounds an ordered scalar. A nil bound is open on that side.
type RangeNode struct {
	Min, Max                   *float64
	MinExclusive, MaxExclusive bool
}

func (*RangeNode) node() {}

// Range returns a closed-interval range node. Use the Exclusive* fields for
// strict bounds.
func Range(min, max *float64) *RangeNode { return &RangeNode{Min: min, Max: max} }

// PatternNode matches strings against an anchored regular expression: the
// whole string must match, not just a substring.
type PatternNode struct {
	Expr string
	re   *regexp.Regexp
}

func (*PatternNode) node() {}

// Pattern compiles expr with implicit anchoring. The original expression is
// retained for error messages.
func Pattern(expr string) (*PatternNode, error) {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil, fmt.Errorf("constraint: pattern %q: %w", expr, err)
	}
	return &PatternNode{Expr: expr, re: re}, nil
}

// MustPattern is Pattern that panics on a bad expression.
func MustPattern(expr string) *PatternNode {
	p, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// MatchString reports whether s fully matches the pattern.
func (p *PatternNode) MatchString(s string) bool { return p.re.MatchString(s) }

// LengthNode bounds the length of a string (in runes) or sequence. A nil
// bound is open on that side.
type LengthNode struct {
	Min, Max *int
}

func (*LengthNode) node() {}

// Length returns a length-bound node.
func Length(min, max *int) *LengthNode { return &LengthNode{Min: min, Max: max} }

// EnumNode restricts a value to a fixed set of literals, compared by deep
// structural equality.
type EnumNode struct {
	Values []value.Value
}

func (*EnumNode) node() {}

// Enum returns an enumeration node over the given literals.
func Enum(values ...value.Value) *EnumNode {
	return &EnumNode{Values: append([]value.Value(nil), values...)}
}

// SequenceNode validates each element of a sequence against Item and
// optionally bounds the element count.
type SequenceNode struct {
	Item           Node
	MinLen, MaxLen *int
}

func (*SequenceNode) node() {}

// SequenceOf returns a sequence node. Item may be nil when only length
// bounds matter.
func SequenceOf(item Node) *SequenceNode { return &SequenceNode{Item: item} }

// Min sets the minimum element count and returns the node for chaining.
func (s *SequenceNode) Min(n int) *SequenceNode { s.MinLen = &n; return s }

// Max sets the maximum element count and returns the node for chaining.
func (s *SequenceNode) Max(n int) *SequenceNode { s.MaxLen = &n; return s }

// CompositeKind selects the boolean combinator applied over child nodes.
type CompositeKind int

const (
	CombineAllOf CompositeKind = iota
	CombineAnyOf
	CombineOneOf
	CombineNot
)

// String returns the schema-facing combinator name.
func (k CompositeKind) String() string {
	switch k {
	case CombineAllOf:
		return "allOf"
	case CombineAnyOf:
		return "anyOf"
	case CombineOneOf:
		return "oneOf"
	case CombineNot:
		return "not"
	default:
		return "unknown"
	}
}

// CompositeNode combines child constraints with boolean semantics. Child
// order is significant: it drives alternative numbering and error order.
type CompositeNode struct {
	Kind     CompositeKind
	Children []Node
}

func (*CompositeNode) node() {}

// AllOf succeeds when every child matches. Failures from all failing
// children are aggregated.
func AllOf(children ...Node) *CompositeNode {
	return &CompositeNode{Kind: CombineAllOf, Children: append([]Node(nil), children...)}
}

// AnyOf succeeds when at least one child matches.
func AnyOf(children ...Node) *CompositeNode {
	return &CompositeNode{Kind: CombineAnyOf, Children: append([]Node(nil), children...)}
}

// OneOf succeeds when exactly one child matches.
func OneOf(children ...Node) *CompositeNode {
	return &CompositeNode{Kind: CombineOneOf, Children: append([]Node(nil), children...)}
}

// Not succeeds when the child does not match.
func Not(child Node) *CompositeNode {
	return &CompositeNode{Kind: CombineNot, Children: []Node{child}}
}

// RefNode names another schema, resolved through the Resolver at validation
// time. Forward references are legal: resolution failures surface as issues
// at the path where the reference was encountered.
type RefNode struct {
	Name string
}

func (*RefNode) node() {}

// Ref returns a reference node.
func Ref(name string) *RefNode { return &RefNode{Name: name} }
