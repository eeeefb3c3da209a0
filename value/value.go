// Package value models the data being validated as a closed tagged variant.
//
// Host representations (decoded JSON, decoded YAML, plain Go values) are
// converted once at the boundary via FromGo, so the matcher operates over a
// single closed set of kinds instead of duck-typing arbitrary interfaces.
package value

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind enumerates the runtime categories a Value can take.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

// String returns the lower-case kind name used in messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is an immutable boundary representation of a data value.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	seq  []Value
	m    map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer as a number value.
func Int(i int64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(i, 10))}
}

// Float wraps a float64 as a number value.
func Float(f float64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// Number wraps a json.Number verbatim.
func Number(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Sequence wraps an ordered list of values.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: append([]Value(nil), items...)}
}

// Mapping wraps a key/value map. The map is copied so the caller keeps
// ownership of its argument.
func Mapping(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMapping, m: cp}
}

// Kind reports the runtime category.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload. Valid only for KindBool.
func (v Value) AsBool() bool { return v.b }

// AsString returns the string payload. Valid only for KindString.
func (v Value) AsString() string { return v.str }

// AsNumber returns the numeric payload. Valid only for KindNumber.
func (v Value) AsNumber() json.Number { return v.num }

// Float64 converts a number value to float64.
func (v Value) Float64() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("value: %s is not a number", v.kind)
	}
	return v.num.Float64()
}

// Int64 converts a number value to int64. Fails on fractional numbers.
func (v Value) Int64() (int64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("value: %s is not a number", v.kind)
	}
	return v.num.Int64()
}

// IsInt reports whether a number value is integral (no fractional part).
func (v Value) IsInt() bool {
	if v.kind != KindNumber {
		return false
	}
	if _, err := v.num.Int64(); err == nil {
		return true
	}
	f, err := v.num.Float64()
	if err != nil {
		return false
	}
	return f == float64(int64(f))
}

// Len returns the element count of a sequence, the entry count of a mapping,
// or the rune count of a string. Strings count runes, not bytes, to match
// how schema authors count characters.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.m)
	case KindString:
		return len([]rune(v.str))
	default:
		return 0
	}
}

// Items returns the elements of a sequence. The returned slice must not be
// mutated.
func (v Value) Items() []Value { return v.seq }

// Get looks up a mapping entry.
func (v Value) Get(key string) (Value, bool) {
	e, ok := v.m[key]
	return e, ok
}

// Keys returns mapping keys in ascending order for deterministic iteration.
func (v Value) Keys() []string {
	ks := make([]string, 0, len(v.m))
	for k := range v.m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// FromGo converts a native Go value (as produced by JSON or YAML decoding)
// into the closed variant. Numbers arriving as float64 or integer types are
// normalized into json.Number form.
func FromGo(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Int(int64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return Number(json.Number(strconv.FormatUint(t, 10))), nil
	case []any:
		items := make([]Value, 0, len(t))
		for i, e := range t {
			ev, err := FromGo(e)
			if err != nil {
				return Value{}, fmt.Errorf("value: element %d: %w", i, err)
			}
			items = append(items, ev)
		}
		return Value{kind: KindSequence, seq: items}, nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			ev, err := FromGo(e)
			if err != nil {
				return Value{}, fmt.Errorf("value: key %q: %w", k, err)
			}
			m[k] = ev
		}
		return Value{kind: KindMapping, m: m}, nil
	default:
		return Value{}, fmt.Errorf("value: unsupported host type %T", v)
	}
}

// MustFromGo is FromGo that panics on unsupported host types. Intended for
// literals in tests and examples.
func MustFromGo(v any) Value {
	out, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Equal reports deep structural equality. Numbers compare numerically, so
// 1 and 1.0 are equal regardless of how they were spelled in the input.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.str == b.str
	case KindNumber:
		return numberEqual(a.num, b.num)
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numberEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	ai, aerr := a.Int64()
	bi, berr := b.Int64()
	if aerr == nil && berr == nil {
		return ai == bi
	}
	af, aerr2 := a.Float64()
	bf, berr2 := b.Float64()
	if aerr2 != nil || berr2 != nil {
		return false
	}
	return af == bf
}

// Describe renders a short human-readable form for error messages. Large
// containers are summarized rather than dumped.
func (v Value) Describe() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.num.String()
	case KindString:
		return strconv.Quote(v.str)
	case KindSequence:
		return fmt.Sprintf("sequence(%d items)", len(v.seq))
	case KindMapping:
		ks := v.Keys()
		if len(ks) > 4 {
			ks = append(ks[:4:4], "...")
		}
		return "mapping{" + strings.Join(ks, ", ") + "}"
	default:
		return "unknown"
	}
}
