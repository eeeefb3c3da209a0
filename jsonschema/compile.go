// Package jsonschema compiles a JSON-Schema (draft-4 subset) document into
// the constraint model. It covers the vocabulary of the surrounding tools:
// type (single and multi), properties/required/additionalProperties, items
// with count bounds, numeric bounds, string length and pattern, enum, the
// boolean combinators, and document-local "#/..." references including
// recursive ones.
//
// Keys the subset does not understand are collected as warnings rather than
// errors, so schemas written against richer dialects still compile.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/schemaval/schemaval/constraint"
	"github.com/schemaval/schemaval/value"
)

// Compiled is the output of Compile: a root constraint plus the registry
// holding every reference target, ready to hand to schemaval.Validate.
type Compiled struct {
	Root     constraint.Node
	Registry *constraint.Registry
	Warnings []string
}

// metaKeys carry no validation behavior but are never warned about.
var metaKeys = map[string]struct{}{
	"definitions": {},
	"description": {},
	"title":       {},
	"$schema":     {},
	"default":     {},
	"format":      {},
}

type compiler struct {
	root     map[string]any
	reg      *constraint.Registry
	building map[string]struct{}
	warnings []string
}

// Compile builds the constraint tree for doc, which must be a decoded
// schema document (map[string]any). Definitions are compiled eagerly so
// forward and recursive references resolve through the registry.
func Compile(doc any) (*Compiled, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("jsonschema: document must be a mapping, got %T", doc)
	}
	c := &compiler{root: m, reg: constraint.NewRegistry(), building: map[string]struct{}{}}
	rootNode, err := c.compileSchema(m, "#")
	if err != nil {
		return nil, err
	}
	if defs, ok := m["definitions"].(map[string]any); ok {
		names := make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := c.ensureRef("#/definitions/" + name); err != nil {
				return nil, err
			}
		}
	}
	return &Compiled{Root: rootNode, Registry: c.reg, Warnings: c.warnings}, nil
}

func (c *compiler) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// compileSchema translates one schema object at the given document pointer.
// Multiple keyword groups on the same object combine with allOf semantics.
func (c *compiler) compileSchema(s map[string]any, ptr string) (constraint.Node, error) {
	used := map[string]struct{}{}
	for k := range metaKeys {
		used[k] = struct{}{}
	}
	var parts []constraint.Node

	if ref, ok := s["$ref"]; ok {
		name, ok := ref.(string)
		if !ok {
			return nil, fmt.Errorf("jsonschema: %s: $ref must be a string", ptr)
		}
		if !strings.HasPrefix(name, "#") {
			return nil, fmt.Errorf("jsonschema: %s: $ref %q not recognized (only document-local refs)", ptr, name)
		}
		used["$ref"] = struct{}{}
		if err := c.ensureRef(name); err != nil {
			return nil, err
		}
		parts = append(parts, constraint.Ref(name))
	}

	switch t := s["type"].(type) {
	case string:
		used["type"] = struct{}{}
		part, err := c.compileTyped(t, s, ptr, used)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	case []any:
		// multi-type: any of the scalar alternatives may match
		used["type"] = struct{}{}
		children := make([]constraint.Node, 0, len(t))
		for i, tv := range t {
			tname, ok := tv.(string)
			if !ok {
				return nil, fmt.Errorf("jsonschema: %s/type/%d: expected string", ptr, i)
			}
			child, err := c.compileTyped(tname, s, ptr, used)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		parts = append(parts, constraint.AnyOf(children...))
	case nil:
		// no explicit type: infer object/array from the keywords present
		if _, hasProps := s["properties"]; hasProps {
			part, err := c.compileObject(s, ptr, used)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		} else if _, hasAdd := s["additionalProperties"]; hasAdd {
			part, err := c.compileObject(s, ptr, used)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		if _, hasItems := s["items"]; hasItems {
			part, err := c.compileArray(s, ptr, used)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
	default:
		return nil, fmt.Errorf("jsonschema: %s: unsupported type value %v", ptr, s["type"])
	}

	if raw, ok := s["enum"]; ok {
		used["enum"] = struct{}{}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("jsonschema: %s: enum must be a list", ptr)
		}
		vals := make([]value.Value, 0, len(list))
		for i, e := range list {
			v, err := value.FromGo(e)
			if err != nil {
				return nil, fmt.Errorf("jsonschema: %s/enum/%d: %v", ptr, i, err)
			}
			vals = append(vals, v)
		}
		parts = append(parts, constraint.Enum(vals...))
	}

	for _, comb := range []struct {
		key  string
		make func(...constraint.Node) *constraint.CompositeNode
	}{
		{"allOf", constraint.AllOf},
		{"anyOf", constraint.AnyOf},
		{"oneOf", constraint.OneOf},
	} {
		raw, ok := s[comb.key]
		if !ok {
			continue
		}
		used[comb.key] = struct{}{}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("jsonschema: %s: %s must be a list", ptr, comb.key)
		}
		children := make([]constraint.Node, 0, len(list))
		for i, e := range list {
			child, err := c.compileAny(e, fmt.Sprintf("%s/%s/%d", ptr, comb.key, i))
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		parts = append(parts, comb.make(children...))
	}

	if raw, ok := s["not"]; ok {
		used["not"] = struct{}{}
		child, err := c.compileAny(raw, ptr+"/not")
		if err != nil {
			return nil, err
		}
		parts = append(parts, constraint.Not(child))
	}

	var unused []string
	for k := range s {
		if _, ok := used[k]; !ok {
			unused = append(unused, k)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		c.warnf("unused keys %v in schema at %s", unused, ptr)
	}

	switch len(parts) {
	case 0:
		// an empty schema matches everything
		return constraint.AllOf(), nil
	case 1:
		return parts[0], nil
	default:
		return constraint.AllOf(parts...), nil
	}
}

func (c *compiler) compileAny(raw any, ptr string) (constraint.Node, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("jsonschema: %s: expected schema object, got %T", ptr, raw)
	}
	return c.compileSchema(m, ptr)
}

// compileTyped builds the node for one scalar type name plus the facets
// that apply to it.
func (c *compiler) compileTyped(tname string, s map[string]any, ptr string, used map[string]struct{}) (constraint.Node, error) {
	switch tname {
	case "null":
		return constraint.Type(constraint.TypeNull), nil
	case "boolean":
		return constraint.Type(constraint.TypeBool), nil
	case "integer", "number":
		kind := constraint.TypeNumber
		if tname == "integer" {
			kind = constraint.TypeInteger
		}
		parts := []constraint.Node{constraint.Type(kind)}
		rng, err := c.compileRange(s, ptr, used)
		if err != nil {
			return nil, err
		}
		if rng != nil {
			parts = append(parts, rng)
		}
		return allOfOrSingle(parts), nil
	case "string":
		parts := []constraint.Node{constraint.Type(constraint.TypeString)}
		min, okMin, err := intKeyword(s, "minLength", ptr)
		if err != nil {
			return nil, err
		}
		max, okMax, err := intKeyword(s, "maxLength", ptr)
		if err != nil {
			return nil, err
		}
		if okMin || okMax {
			used["minLength"] = struct{}{}
			used["maxLength"] = struct{}{}
			var pmin, pmax *int
			if okMin {
				pmin = &min
			}
			if okMax {
				pmax = &max
			}
			parts = append(parts, constraint.Length(pmin, pmax))
		}
		if raw, ok := s["pattern"]; ok {
			used["pattern"] = struct{}{}
			expr, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("jsonschema: %s: pattern must be a string", ptr)
			}
			pat, err := constraint.Pattern(expr)
			if err != nil {
				return nil, fmt.Errorf("jsonschema: %s: %v", ptr, err)
			}
			parts = append(parts, pat)
		}
		return allOfOrSingle(parts), nil
	case "object":
		return c.compileObject(s, ptr, used)
	case "array":
		return c.compileArray(s, ptr, used)
	default:
		return nil, fmt.Errorf("jsonschema: %s: unknown type %q", ptr, tname)
	}
}

func (c *compiler) compileRange(s map[string]any, ptr string, used map[string]struct{}) (constraint.Node, error) {
	rng := &constraint.RangeNode{}
	bounded := false
	if f, ok, err := floatKeyword(s, "minimum", ptr); err != nil {
		return nil, err
	} else if ok {
		used["minimum"] = struct{}{}
		rng.Min = &f
		bounded = true
	}
	if f, ok, err := floatKeyword(s, "maximum", ptr); err != nil {
		return nil, err
	} else if ok {
		used["maximum"] = struct{}{}
		rng.Max = &f
		bounded = true
	}
	// draft-4 numeric exclusive bounds; they override the inclusive ones
	if f, ok, err := floatKeyword(s, "exclusiveMinimum", ptr); err != nil {
		return nil, err
	} else if ok {
		used["exclusiveMinimum"] = struct{}{}
		rng.Min = &f
		rng.MinExclusive = true
		bounded = true
	}
	if f, ok, err := floatKeyword(s, "exclusiveMaximum", ptr); err != nil {
		return nil, err
	} else if ok {
		used["exclusiveMaximum"] = struct{}{}
		rng.Max = &f
		rng.MaxExclusive = true
		bounded = true
	}
	if !bounded {
		return nil, nil
	}
	return rng, nil
}

func (c *compiler) compileObject(s map[string]any, ptr string, used map[string]struct{}) (constraint.Node, error) {
	b := constraint.Object()

	requiredSet := map[string]struct{}{}
	if raw, ok := s["required"]; ok {
		used["required"] = struct{}{}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("jsonschema: %s: required must be a list", ptr)
		}
		for i, e := range list {
			name, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("jsonschema: %s/required/%d: expected string", ptr, i)
			}
			requiredSet[name] = struct{}{}
		}
	}

	props, _ := s["properties"].(map[string]any)
	if _, ok := s["properties"]; ok {
		used["properties"] = struct{}{}
		if props == nil {
			return nil, fmt.Errorf("jsonschema: %s: properties must be a mapping", ptr)
		}
	}
	// decoded maps lose JSON key order; sort for deterministic field order
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		child, err := c.compileAny(props[name], ptr+"/properties/"+escapePointer(name))
		if err != nil {
			return nil, err
		}
		b.Field(name, child)
		if _, req := requiredSet[name]; req {
			b.Require(name)
			delete(requiredSet, name)
		}
	}
	// required names without a property declaration still demand presence
	rest := make([]string, 0, len(requiredSet))
	for name := range requiredSet {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		b.Field(name, nil)
		b.Require(name)
	}

	if raw, ok := s["additionalProperties"]; ok {
		used["additionalProperties"] = struct{}{}
		switch t := raw.(type) {
		case bool:
			if t {
				b.AdditionalAllowed()
			} else {
				b.AdditionalForbidden()
			}
		case map[string]any:
			child, err := c.compileSchema(t, ptr+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			b.AdditionalWith(child)
		default:
			return nil, fmt.Errorf("jsonschema: %s: additionalProperties must be bool or schema", ptr)
		}
	}
	if _, ok := s["patternProperties"]; ok {
		used["patternProperties"] = struct{}{}
		c.warnf("patternProperties not supported, ignored at %s", ptr)
	}

	obj, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("jsonschema: %s: %v", ptr, err)
	}
	return obj, nil
}

func (c *compiler) compileArray(s map[string]any, ptr string, used map[string]struct{}) (constraint.Node, error) {
	var item constraint.Node
	if raw, ok := s["items"]; ok {
		used["items"] = struct{}{}
		child, err := c.compileAny(raw, ptr+"/items")
		if err != nil {
			return nil, err
		}
		item = child
	}
	seq := constraint.SequenceOf(item)
	if n, ok, err := intKeyword(s, "minItems", ptr); err != nil {
		return nil, err
	} else if ok {
		used["minItems"] = struct{}{}
		seq.Min(n)
	}
	if n, ok, err := intKeyword(s, "maxItems", ptr); err != nil {
		return nil, err
	} else if ok {
		used["maxItems"] = struct{}{}
		seq.Max(n)
	}
	// numItems is a fixed-count shorthand for minItems == maxItems
	if n, ok, err := intKeyword(s, "numItems", ptr); err != nil {
		return nil, err
	} else if ok {
		used["numItems"] = struct{}{}
		seq.Min(n).Max(n)
	}
	return seq, nil
}

// ensureRef compiles and registers the target of a document-local
// reference. Reference cycles terminate because the target is marked as
// building before its body compiles; the nested Ref node resolves lazily
// at validation time. An unresolvable pointer is a warning, not an error:
// validation reports unknown_reference at the path where the reference is
// encountered.
func (c *compiler) ensureRef(name string) error {
	if _, ok := c.reg.Lookup(name); ok {
		return nil
	}
	if _, busy := c.building[name]; busy {
		return nil
	}
	target, ok := resolvePointer(c.root, name)
	if !ok {
		c.warnf("unresolvable $ref %s", name)
		return nil
	}
	m, ok := target.(map[string]any)
	if !ok {
		return fmt.Errorf("jsonschema: $ref %s: target is not a schema object", name)
	}
	c.building[name] = struct{}{}
	node, err := c.compileSchema(m, name)
	delete(c.building, name)
	if err != nil {
		return err
	}
	return c.reg.Register(name, node)
}

// resolvePointer walks a "#/a/b/0"-style pointer through the document.
func resolvePointer(root map[string]any, ref string) (any, bool) {
	keys := strings.Split(ref, "/")
	if len(keys) == 0 || keys[0] != "#" {
		return nil, false
	}
	var cur any = root
	for _, key := range keys[1:] {
		key = unescapePointer(key)
		switch t := cur.(type) {
		case map[string]any:
			next, ok := t[key]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(t) {
				return nil, false
			}
			cur = t[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

var (
	pointerEscape   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescape = strings.NewReplacer("~1", "/", "~0", "~")
)

func escapePointer(s string) string   { return pointerEscape.Replace(s) }
func unescapePointer(s string) string { return pointerUnescape.Replace(s) }

func allOfOrSingle(parts []constraint.Node) constraint.Node {
	if len(parts) == 1 {
		return parts[0]
	}
	return constraint.AllOf(parts...)
}

func floatKeyword(s map[string]any, key, ptr string) (float64, bool, error) {
	raw, ok := s[key]
	if !ok {
		return 0, false, nil
	}
	switch t := raw.(type) {
	case float64:
		return t, true, nil
	case int:
		return float64(t), true, nil
	case int64:
		return float64(t), true, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("jsonschema: %s: %s: %v", ptr, key, err)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("jsonschema: %s: %s must be a number, got %T", ptr, key, raw)
	}
}

func intKeyword(s map[string]any, key, ptr string) (int, bool, error) {
	raw, ok := s[key]
	if !ok {
		return 0, false, nil
	}
	switch t := raw.(type) {
	case int:
		return t, true, nil
	case int64:
		return int(t), true, nil
	case float64:
		if t != float64(int(t)) {
			return 0, false, fmt.Errorf("jsonschema: %s: %s must be an integer", ptr, key)
		}
		return int(t), true, nil
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, false, fmt.Errorf("jsonschema: %s: %s: %v", ptr, key, err)
		}
		return int(i), true, nil
	default:
		return 0, false, fmt.Errorf("jsonschema: %s: %s must be an integer, got %T", ptr, key, raw)
	}
}
