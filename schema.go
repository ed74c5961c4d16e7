package fatturex

import (
	"fmt"

	"github.com/beevik/etree"
)

// V carries named construction values. A trailing V argument to New or
// Update supplies values by field name.
type V = map[string]any

// Bind pairs a field name with its Field.
type Bind struct {
	name  string
	field Field
}

// F binds a field under the given snake_case name.
func F(name string, field Field) Bind {
	return Bind{name: name, field: field}
}

// Schema is the ordered field registry a Model is built from. Schemas are
// assembled once, at package init time, and must not be mutated after the
// first instance is constructed.
type Schema struct {
	name    string
	xmltag  string
	xmlns   string
	entries []Bind
	index   map[string]int
	hook    func(*Model, *Validation)
}

// NewSchema builds a schema with the given fields, in declaration order.
// Binding panics on duplicate or already-bound fields: schema shape
// problems are programming errors, not runtime conditions.
func NewSchema(name string, binds ...Bind) *Schema {
	s := &Schema{name: name, index: make(map[string]int, len(binds))}
	for _, b := range binds {
		s.addBind(b)
	}
	return s
}

// Extend derives a schema from base: the base fields keep their order, and
// a bind that redeclares a base name replaces the field in place. The
// namespace, tag override and validate hook carry over.
func Extend(name string, base *Schema, binds ...Bind) *Schema {
	s := &Schema{
		name:    name,
		xmlns:   base.xmlns,
		entries: make([]Bind, len(base.entries)),
		index:   make(map[string]int, len(base.entries)+len(binds)),
		hook:    base.hook,
	}
	copy(s.entries, base.entries)
	for k, v := range base.index {
		s.index[k] = v
	}
	for _, b := range binds {
		s.addBind(b)
	}
	return s
}

func (s *Schema) addBind(b Bind) {
	b.field.bind(b.name)
	if i, ok := s.index[b.name]; ok {
		s.entries[i] = b
		return
	}
	s.index[b.name] = len(s.entries)
	s.entries = append(s.entries, b)
}

// Tag overrides the XML tag, which otherwise is the schema name.
func (s *Schema) Tag(tag string) *Schema { s.xmltag = tag; return s }

// NS sets the XML namespace of the schema's own element.
func (s *Schema) NS(uri string) *Schema { s.xmlns = uri; return s }

// OnValidate installs a hook for rules spanning multiple fields. The hook
// runs after the per-field checks, against the same Validation handle.
func (s *Schema) OnValidate(fn func(*Model, *Validation)) *Schema {
	s.hook = fn
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// XMLTag returns the tag override, or the schema name.
func (s *Schema) XMLTag() string {
	if s.xmltag != "" {
		return s.xmltag
	}
	return s.name
}

// XMLNamespace returns the namespace URI, empty for unqualified.
func (s *Schema) XMLNamespace() string { return s.xmlns }

// Has reports whether the schema declares the given field name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Field returns the field bound under name, or nil.
func (s *Schema) Field(name string) Field {
	i, ok := s.index[name]
	if !ok {
		return nil
	}
	return s.entries[i].field
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	res := make([]string, len(s.entries))
	for i, e := range s.entries {
		res[i] = e.name
	}
	return res
}

func (s *Schema) fieldIndex(name string) int {
	i, ok := s.index[name]
	if !ok {
		panic(fmt.Sprintf("fatturex: schema %s has no field %q", s.name, name))
	}
	return i
}

// New constructs an instance. Leading arguments fill fields positionally;
// a trailing V supplies values by name. Every supplied value goes through
// Clean; omitted fields get their construction default.
func (s *Schema) New(args ...any) (*Model, error) {
	kv := V{}
	if n := len(args); n > 0 {
		if named, ok := args[n-1].(map[string]any); ok {
			for k, v := range named {
				kv[k] = v
			}
			args = args[:n-1]
		}
	}
	if len(args) > len(s.entries) {
		return nil, fmt.Errorf("%s has %d fields, got %d positional values", s.name, len(s.entries), len(args))
	}
	for i, v := range args {
		kv[s.entries[i].name] = v
	}
	for name := range kv {
		if !s.Has(name) {
			return nil, fmt.Errorf("%s has no field %q", s.name, name)
		}
	}

	values := make([]any, len(s.entries))
	for i, e := range s.entries {
		v, ok := kv[e.name]
		var err error
		if !ok || v == nil {
			v, err = e.field.ConstructDefault()
			if err != nil {
				return nil, err
			}
		}
		values[i], err = e.field.Clean(v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.name, e.name, err)
		}
	}
	return &Model{schema: s, values: values}, nil
}

// MustNew is New panicking on error, for statically correct values.
func (s *Schema) MustNew(args ...any) *Model {
	m, err := s.New(args...)
	if err != nil {
		panic(err)
	}
	return m
}

// CleanValue coerces a value to an instance of this schema. Model input is
// always copied, field by matching name, so instances never share storage;
// map input goes through New with named values. nil stays nil.
func (s *Schema) CleanValue(v any) (*Model, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Model:
		if t == nil {
			return nil, nil
		}
		kv := V{}
		for _, e := range s.entries {
			if t.schema.Has(e.name) {
				kv[e.name] = t.Get(e.name)
			}
		}
		return s.New(kv)
	case map[string]any:
		return s.New(t)
	}
	return nil, fmt.Errorf("%T is not a model value", v)
}

// FromXML builds an instance from an element carrying the schema's tag.
func (s *Schema) FromXML(el *etree.Element) (*Model, error) {
	if el.Tag != s.XMLTag() || el.NamespaceURI() != s.xmlns {
		return nil, fmt.Errorf("element is %s instead of %s", el.Tag, s.XMLTag())
	}
	m, err := s.New()
	if err != nil {
		return nil, err
	}
	if err := m.fillFromXML(el); err != nil {
		return nil, err
	}
	return m, nil
}

// FromPlain builds an instance from nested maps and slices, as produced by
// ToPlain or decoded from JSON or YAML.
func (s *Schema) FromPlain(data map[string]any) (*Model, error) {
	return s.New(V(data))
}
