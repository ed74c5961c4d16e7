package fatturex

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Field describes a value that can be cleaned, validated and serialized to
// XML. A Field carries no value of its own: the same Field instance serves
// every Model built from its Schema.
//
// The set of field kinds is closed: the unexported methods keep outside
// packages from adding implementations.
type Field interface {
	// Name is the snake_case identifier assigned at schema bind time.
	Name() string
	// XMLTag is the element tag, derived from the name unless overridden.
	XMLTag() string
	// XMLNamespace is the element namespace URI, empty for unqualified.
	XMLNamespace() string
	// Multivalue reports whether the field maps to repeated XML elements.
	Multivalue() bool
	// Nullable reports whether an absent value is acceptable.
	Nullable() bool

	// ConstructDefault produces the value stored when a Model is built
	// without an explicit value for this field.
	ConstructDefault() (any, error)
	// Clean coerces a raw value to the field's canonical type. Cleaning a
	// cleaned value returns it unchanged. nil cleans to the field default.
	Clean(value any) (any, error)
	// HasValue reports whether the cleaned value counts as set.
	HasValue(value any) bool
	// Validate cleans the value, accumulates findings and returns the
	// cleaned value.
	Validate(val *Validation, value any) any
	// AppendXML emits the value into the builder. Unset values emit
	// nothing.
	AppendXML(b *Builder, value any) error
	// FromXML builds a value from matching elements. Singular fields
	// receive exactly one element.
	FromXML(els []*etree.Element) (any, error)
	// ToPlain converts a cleaned value to a plain representation made of
	// strings, numbers, maps and slices.
	ToPlain(value any) any
	// ToString renders a cleaned value for diagnostics and diffs.
	ToString(value any) string
	// Compare orders two cleaned values. Unset sorts before set.
	Compare(a, b any) int
	// DiffInto reports differences between two cleaned values.
	DiffInto(d *Diff, a, b any)

	bind(name string)
	setTag(tag string)
}

// ToXMLTag derives the XML element tag from a snake_case field name:
// every underscore-separated chunk gets its first letter upcased.
func ToXMLTag(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// fieldAttrs carries the options common to every field kind.
type fieldAttrs struct {
	name   string
	xmlns  string
	xmltag string
	null   bool
	def    any
}

func (a *fieldAttrs) Name() string         { return a.name }
func (a *fieldAttrs) XMLNamespace() string { return a.xmlns }
func (a *fieldAttrs) Multivalue() bool     { return false }
func (a *fieldAttrs) Nullable() bool       { return a.null }

func (a *fieldAttrs) XMLTag() string {
	if a.xmltag != "" {
		return a.xmltag
	}
	if a.name == "" {
		panic("fatturex: field with uninitialized name")
	}
	return ToXMLTag(a.name)
}

func (a *fieldAttrs) bind(name string) {
	if a.name != "" && a.name != name {
		panic(fmt.Sprintf("fatturex: field already bound as %q, rebound as %q", a.name, name))
	}
	a.name = name
}

func (a *fieldAttrs) setTag(tag string) { a.xmltag = tag }

// orDefault substitutes the field default for nil input.
func (a *fieldAttrs) orDefault(v any) any {
	if v == nil {
		return a.def
	}
	return v
}

// validateBase runs the clean-and-presence checks shared by every field
// kind. It returns the cleaned value and whether it counts as set.
func validateBase(val *Validation, f Field, v any) (any, bool) {
	cleaned, err := f.Clean(v)
	if err != nil {
		val.AddError(err.Error(), f)
	}
	if !f.Nullable() && !f.HasValue(cleaned) {
		val.AddError("missing value", f)
	}
	return cleaned, f.HasValue(cleaned)
}

// appendLeaf emits a single text element for a scalar field.
func appendLeaf(b *Builder, f Field, v any) error {
	cleaned, err := f.Clean(v)
	if err != nil {
		return fmt.Errorf("%s: %w", f.Name(), err)
	}
	if !f.HasValue(cleaned) {
		return nil
	}
	tb := b
	if ns := f.XMLNamespace(); ns != "" {
		tb = b.WithNamespace(ns)
	}
	tb.Add(f.XMLTag(), f.ToString(cleaned))
	return nil
}

// leafFromXML cleans the text content of a leaf element. An empty element
// counts as absent and cleans to the field default.
func leafFromXML(f Field, el *etree.Element) (any, error) {
	text := el.Text()
	if text == "" {
		return f.Clean(nil)
	}
	return f.Clean(text)
}

// diffLeaf reports scalar differences using the field's own ordering.
func diffLeaf(d *Diff, f Field, a, b any) {
	hasA := f.HasValue(a)
	hasB := f.HasValue(b)
	switch {
	case !hasA && !hasB:
	case hasA && !hasB:
		d.OnlyFirst(f, f.ToString(a))
	case !hasA && hasB:
		d.OnlySecond(f, f.ToString(b))
	case f.Compare(a, b) != 0:
		d.Changed(f, f.ToString(a), f.ToString(b))
	}
}

// compareNil handles the unset-sorts-first part of Compare. The bool result
// reports whether the comparison was decided.
func compareNil(hasA, hasB bool) (int, bool) {
	switch {
	case !hasA && !hasB:
		return 0, true
	case !hasA:
		return -1, true
	case !hasB:
		return 1, true
	}
	return 0, false
}
