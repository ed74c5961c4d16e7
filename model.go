package fatturex

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	dec "github.com/shopspring/decimal"
)

// Model is one instance of a Schema: a value slot per field, every write
// funnelled through the field's Clean.
type Model struct {
	schema *Schema
	values []any
}

// Schema returns the schema this instance was built from.
func (m *Model) Schema() *Schema { return m.schema }

// Get returns the stored value for name. Stored values are always cleaned.
// Unknown names panic: they are programming errors, not data errors.
func (m *Model) Get(name string) any {
	return m.values[m.schema.fieldIndex(name)]
}

// Set cleans v and stores it. nil cleans to the field default.
func (m *Model) Set(name string, v any) error {
	i := m.schema.fieldIndex(name)
	cleaned, err := m.schema.entries[i].field.Clean(v)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", m.schema.name, name, err)
	}
	m.values[i] = cleaned
	return nil
}

// MustSet is Set panicking on error. It returns the model for chaining.
func (m *Model) MustSet(name string, v any) *Model {
	if err := m.Set(name, v); err != nil {
		panic(err)
	}
	return m
}

// Update sets multiple values: leading arguments fill fields positionally,
// a trailing V supplies values by name. Fields not mentioned keep their
// value.
func (m *Model) Update(args ...any) error {
	if n := len(args); n > 0 {
		if named, ok := args[n-1].(map[string]any); ok {
			for name, v := range named {
				if !m.schema.Has(name) {
					return fmt.Errorf("%s has no field %q", m.schema.name, name)
				}
				if err := m.Set(name, v); err != nil {
					return err
				}
			}
			args = args[:n-1]
		}
	}
	if len(args) > len(m.schema.entries) {
		return fmt.Errorf("%s has %d fields, got %d positional values", m.schema.name, len(m.schema.entries), len(args))
	}
	for i, v := range args {
		if err := m.Set(m.schema.entries[i].name, v); err != nil {
			return err
		}
	}
	return nil
}

// Append cleans and appends values to a list field.
func (m *Model) Append(name string, vals ...any) error {
	i := m.schema.fieldIndex(name)
	f := m.schema.entries[i].field
	if !f.Multivalue() {
		return fmt.Errorf("%s.%s is not a list field", m.schema.name, name)
	}
	var items []any
	switch stored := m.values[i].(type) {
	case []any:
		for _, v := range stored {
			items = append(items, v)
		}
	case []*Model:
		for _, v := range stored {
			items = append(items, v)
		}
	}
	items = append(items, vals...)
	return m.Set(name, items)
}

// Str returns the string value for name, or "" when unset.
func (m *Model) Str(name string) string {
	if v, ok := m.Get(name).(string); ok {
		return v
	}
	return ""
}

// Int returns the integer value for name and whether it is set.
func (m *Model) Int(name string) (int, bool) {
	v, ok := m.Get(name).(int)
	return v, ok
}

// Dec returns the decimal value for name and whether it is set.
func (m *Model) Dec(name string) (dec.Decimal, bool) {
	v, ok := m.Get(name).(dec.Decimal)
	return v, ok
}

// Date returns the time value for name and whether it is set.
func (m *Model) Date(name string) (time.Time, bool) {
	v, ok := m.Get(name).(time.Time)
	return v, ok
}

// Sub returns the nested instance stored under name, nil when unset. The
// returned instance is the stored one: mutating it mutates this model.
func (m *Model) Sub(name string) *Model {
	if v, ok := m.Get(name).(*Model); ok {
		return v
	}
	return nil
}

// SubList returns the nested instances stored under name.
func (m *Model) SubList(name string) []*Model {
	if v, ok := m.Get(name).([]*Model); ok {
		return v
	}
	return nil
}

// List returns the scalar list stored under name.
func (m *Model) List(name string) []any {
	if v, ok := m.Get(name).([]any); ok {
		return v
	}
	return nil
}

// GetPath walks nested instances and returns the value at the end of the
// path, or nil when any step is unset.
func (m *Model) GetPath(path ...string) any {
	cur := m
	for i, name := range path {
		if i == len(path)-1 {
			return cur.Get(name)
		}
		cur = cur.Sub(name)
		if cur == nil {
			return nil
		}
	}
	return nil
}

// SetPath walks nested instances and sets the value at the end of the
// path. Unset intermediate steps are an error.
func (m *Model) SetPath(v any, path ...string) error {
	cur := m
	for i, name := range path {
		if i == len(path)-1 {
			return cur.Set(name, v)
		}
		next := cur.Sub(name)
		if next == nil {
			return fmt.Errorf("%s.%s is not set", cur.schema.name, name)
		}
		cur = next
	}
	return fmt.Errorf("empty path")
}

// HasValue reports whether any field holds a set value.
func (m *Model) HasValue() bool {
	for i, e := range m.schema.entries {
		if e.field.HasValue(m.values[i]) {
			return true
		}
	}
	return false
}

// Validate runs field checks and hooks over the whole tree and returns the
// accumulated findings.
func (m *Model) Validate() Diagnostics {
	v := NewValidation()
	m.ValidateInto(v)
	return v.Diagnostics()
}

// ValidateInto accumulates findings into an existing handle.
func (m *Model) ValidateInto(v *Validation) {
	m.validateInto(v)
}

func (m *Model) validateInto(v *Validation) {
	for i, e := range m.schema.entries {
		m.values[i] = e.field.Validate(v, m.values[i])
	}
	if m.schema.hook != nil {
		m.schema.hook(m, v)
	}
}

// appendXML emits this instance as an element with the given tag.
func (m *Model) appendXML(b *Builder, tag string) error {
	b.Start(tag)
	if err := m.appendFields(b); err != nil {
		return err
	}
	b.End()
	return nil
}

func (m *Model) appendFields(b *Builder) error {
	for i, e := range m.schema.entries {
		if err := e.field.AppendXML(b, m.values[i]); err != nil {
			return err
		}
	}
	return nil
}

// AppendXML emits this instance into the builder under the schema's tag.
func (m *Model) AppendXML(b *Builder) error {
	return m.appendXML(b, m.schema.XMLTag())
}

// fillFromXML sets fields from the children of el. Matching is closed
// world: an element that matches no field is an error, and a singular
// field matched by more than one element is an error.
func (m *Model) fillFromXML(el *etree.Element) error {
	type key struct{ ns, tag string }
	byTag := make(map[key]int, len(m.schema.entries))
	for i, e := range m.schema.entries {
		byTag[key{e.field.XMLNamespace(), e.field.XMLTag()}] = i
	}

	groups := make(map[int][]*etree.Element)
	for _, child := range el.ChildElements() {
		i, ok := byTag[key{child.NamespaceURI(), child.Tag}]
		if !ok {
			return fmt.Errorf("found unexpected element %s in %s", child.Tag, el.Tag)
		}
		groups[i] = append(groups[i], child)
	}

	for i, e := range m.schema.entries {
		els := groups[i]
		if len(els) == 0 {
			continue
		}
		if !e.field.Multivalue() && len(els) != 1 {
			return fmt.Errorf("found %d %s elements in %s instead of just 1", len(els), els[0].Tag, el.Tag)
		}
		v, err := e.field.FromXML(els)
		if err != nil {
			return err
		}
		if err := m.Set(e.name, v); err != nil {
			return err
		}
	}
	return nil
}

// ToPlain converts the instance to nested maps and slices of plain values.
// Unset fields are omitted.
func (m *Model) ToPlain() map[string]any {
	res := make(map[string]any, len(m.schema.entries))
	for i, e := range m.schema.entries {
		if !e.field.HasValue(m.values[i]) {
			continue
		}
		res[e.name] = e.field.ToPlain(m.values[i])
	}
	return res
}

// compareTo orders two instances of the same schema field by field.
func (m *Model) compareTo(other *Model) int {
	for i, e := range m.schema.entries {
		if c := e.field.Compare(m.values[i], other.values[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Cmp orders this instance against another value, which is coerced through
// CleanValue first. An instance with no set field compares equal to nil.
func (m *Model) Cmp(other any) (int, error) {
	o, err := m.schema.CleanValue(other)
	if err != nil {
		return 0, err
	}
	hasSelf := m.HasValue()
	hasOther := o != nil && o.HasValue()
	if res, done := compareNil(hasSelf, hasOther); done {
		return res, nil
	}
	return m.compareTo(o), nil
}

// Equal reports whether the two values compare equal.
func (m *Model) Equal(other any) (bool, error) {
	c, err := m.Cmp(other)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// Equals is Equal treating an un-coercible value as not equal.
func (m *Model) Equals(other any) bool {
	eq, err := m.Equal(other)
	return err == nil && eq
}

// DiffInto reports the field-level differences against another instance of
// the same schema.
func (m *Model) DiffInto(d *Diff, other *Model) {
	hasSelf := m.HasValue()
	hasOther := other != nil && other.HasValue()
	switch {
	case !hasSelf && !hasOther:
		return
	case hasSelf && !hasOther:
		d.OnlyFirst(nil, m.String())
		return
	case !hasSelf && hasOther:
		d.OnlySecond(nil, other.String())
		return
	}
	for i, e := range m.schema.entries {
		e.field.DiffInto(d, m.values[i], other.values[i])
	}
}

// Diff returns the differences against another instance.
func (m *Model) Diff(other *Model) ([]DiffEntry, error) {
	if other != nil && other.schema != m.schema {
		return nil, fmt.Errorf("cannot compare %s against %s", m.schema.name, other.schema.name)
	}
	d := NewDiff()
	m.DiffInto(d, other)
	return d.Entries(), nil
}

func (m *Model) String() string {
	parts := make([]string, 0, len(m.schema.entries))
	for i, e := range m.schema.entries {
		parts = append(parts, e.name+"="+e.field.ToString(m.values[i]))
	}
	return m.schema.name + "(" + strings.Join(parts, ", ") + ")"
}
