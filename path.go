package schemaval

import (
	"strconv"
	"strings"
)

// Path locates a value inside the data: an ordered sequence of field names
// and sequence indices. Path values are immutable; Field and Index return
// extended copies, so sibling matches never observe each other's steps.
type Path struct {
	steps []step
}

type step struct {
	name  string
	index int
	isIdx bool
}

// Root returns the empty path addressing the whole document.
func Root() Path { return Path{} }

// Field returns p extended by a field-name step.
func (p Path) Field(name string) Path {
	return Path{steps: append(append([]step(nil), p.steps...), step{name: name})}
}

// Index returns p extended by a sequence-index step.
func (p Path) Index(i int) Path {
	return Path{steps: append(append([]step(nil), p.steps...), step{index: i, isIdx: true})}
}

// Len reports the number of steps.
func (p Path) Len() int { return len(p.steps) }

// String renders the path in display form, e.g. ".address.zip[0]".
// The root path renders as ".".
func (p Path) String() string {
	if len(p.steps) == 0 {
		return "."
	}
	b := &strings.Builder{}
	for _, s := range p.steps {
		if s.isIdx {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		b.WriteByte('.')
		b.WriteString(s.name)
	}
	return b.String()
}

// Pointer renders the path as an RFC 6901 JSON Pointer, e.g.
// "/address/zip/0". The root path renders as "/".
func (p Path) Pointer() string {
	if len(p.steps) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p.steps {
		b.WriteByte('/')
		if s.isIdx {
			b.WriteString(strconv.Itoa(s.index))
		} else {
			b.WriteString(jsonPointerEscaper.Replace(s.name))
		}
	}
	return b.String()
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")
