package constraint

import "fmt"

// AdditionalMode selects how mapping keys outside the declared field set
// are treated.
type AdditionalMode int

const (
	AdditionalAllow  AdditionalMode = iota // extra keys pass untouched
	AdditionalForbid                       // extra keys are errors
	AdditionalSchema                       // extra keys validate against a node
)

// Additional is the policy for undeclared mapping keys.
type Additional struct {
	Mode AdditionalMode
	Node Node // set when Mode == AdditionalSchema
}

// Field is one declared object field.
type Field struct {
	Name     string
	Schema   Node
	Required bool
}

// ObjectNode validates a mapping against declared fields in declaration
// order plus an additional-keys policy.
type ObjectNode struct {
	Fields     []Field
	Additional Additional
}

func (*ObjectNode) node() {}

// FieldByName returns the declared field and whether it exists.
func (o *ObjectNode) FieldByName(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ObjectBuilder assembles an ObjectNode. Field declaration order is
// preserved so error ordering is deterministic.
type ObjectBuilder struct {
	fields     []Field
	required   map[string]struct{}
	additional Additional
	err        error
}

// Object starts an object-shape builder. Additional keys are allowed
// unless AdditionalForbidden or AdditionalWith is called.
func Object() *ObjectBuilder {
	return &ObjectBuilder{required: map[string]struct{}{}}
}

// Field declares an optional field. Declaring the same name twice is a
// build error.
func (b *ObjectBuilder) Field(name string, schema Node) *ObjectBuilder {
	for _, f := range b.fields {
		if f.Name == name {
			if b.err == nil {
				b.err = fmt.Errorf("constraint: duplicate field %q", name)
			}
			return b
		}
	}
	b.fields = append(b.fields, Field{Name: name, Schema: schema})
	return b
}

// Require marks previously declared fields as required. Requiring an
// undeclared field is a build error.
func (b *ObjectBuilder) Require(names ...string) *ObjectBuilder {
	for _, name := range names {
		found := false
		for _, f := range b.fields {
			if f.Name == name {
				found = true
				break
			}
		}
		if !found {
			if b.err == nil {
				b.err = fmt.Errorf("constraint: require of undeclared field %q", name)
			}
			continue
		}
		b.required[name] = struct{}{}
	}
	return b
}

// AdditionalForbidden rejects undeclared keys.
func (b *ObjectBuilder) AdditionalForbidden() *ObjectBuilder {
	b.additional = Additional{Mode: AdditionalForbid}
	return b
}

// AdditionalAllowed accepts undeclared keys without validating them.
// This is the default.
func (b *ObjectBuilder) AdditionalAllowed() *ObjectBuilder {
	b.additional = Additional{Mode: AdditionalAllow}
	return b
}

// AdditionalWith validates undeclared keys against schema.
func (b *ObjectBuilder) AdditionalWith(schema Node) *ObjectBuilder {
	b.additional = Additional{Mode: AdditionalSchema, Node: schema}
	return b
}

// Build finalizes the object node.
func (b *ObjectBuilder) Build() (*ObjectNode, error) {
	if b.err != nil {
		return nil, b.err
	}
	fields := make([]Field, len(b.fields))
	copy(fields, b.fields)
	for i := range fields {
		if _, req := b.required[fields[i].Name]; req {
			fields[i].Required = true
		}
	}
	return &ObjectNode{Fields: fields, Additional: b.additional}, nil
}

// MustBuild is Build that panics on builder errors.
func (b *ObjectBuilder) MustBuild() *ObjectNode {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}
