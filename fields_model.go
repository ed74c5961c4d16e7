package fatturex

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ModelField embeds one Model built from another Schema.
type ModelField struct {
	fieldAttrs
	schema *Schema
}

// Nested returns a field holding an instance of the given schema.
func Nested(s *Schema) *ModelField {
	return &ModelField{schema: s}
}

func (f *ModelField) Null() *ModelField          { f.null = true; return f }
func (f *ModelField) Tag(tag string) *ModelField { f.xmltag = tag; return f }

// Schema returns the embedded schema.
func (f *ModelField) Schema() *Schema { return f.schema }

func (f *ModelField) XMLTag() string {
	if f.xmltag != "" {
		return f.xmltag
	}
	return f.schema.XMLTag()
}

// ConstructDefault builds an empty instance, so nested paths are reachable
// on a freshly constructed model.
func (f *ModelField) ConstructDefault() (any, error) {
	return f.schema.New()
}

func (f *ModelField) Clean(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	m, err := f.schema.CleanValue(v)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	return m, nil
}

func (f *ModelField) HasValue(v any) bool {
	if v == nil {
		return false
	}
	return v.(*Model).HasValue()
}

func (f *ModelField) Validate(val *Validation, v any) any {
	cleaned, has := validateBase(val, f, v)
	if !has {
		return cleaned
	}
	cleaned.(*Model).validateInto(val.Sub(f.name))
	return cleaned
}

func (f *ModelField) AppendXML(b *Builder, v any) error {
	cleaned, err := f.Clean(v)
	if err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}
	if !f.HasValue(cleaned) {
		return nil
	}
	return cleaned.(*Model).appendXML(b, f.XMLTag())
}

func (f *ModelField) FromXML(els []*etree.Element) (any, error) {
	m, err := f.schema.New()
	if err != nil {
		return nil, err
	}
	if err := m.fillFromXML(els[0]); err != nil {
		return nil, err
	}
	return m, nil
}

func (f *ModelField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	return v.(*Model).ToPlain()
}

func (f *ModelField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	return v.(*Model).String()
}

func (f *ModelField) Compare(a, b any) int {
	if res, done := compareNil(f.HasValue(a), f.HasValue(b)); done {
		return res
	}
	return a.(*Model).compareTo(b.(*Model))
}

func (f *ModelField) DiffInto(d *Diff, a, b any) {
	hasA := f.HasValue(a)
	hasB := f.HasValue(b)
	switch {
	case !hasA && !hasB:
	case hasA && !hasB:
		d.OnlyFirst(f, f.ToString(a))
	case !hasA && hasB:
		d.OnlySecond(f, f.ToString(b))
	default:
		a.(*Model).DiffInto(d.Sub(f.name), b.(*Model))
	}
}

// ModelListField holds repeated instances of another Schema, serialized as
// repeated elements. Construction pads the list with empty instances up to
// the minimum count; cleaning drops unset trailing entries beyond it.
type ModelListField struct {
	fieldAttrs
	schema *Schema
	minNum int
}

// NestedList returns a field holding a list of instances of the given
// schema.
func NestedList(s *Schema) *ModelListField {
	return &ModelListField{schema: s}
}

func (f *ModelListField) Null() *ModelListField          { f.null = true; return f }
func (f *ModelListField) Tag(tag string) *ModelListField { f.xmltag = tag; return f }
func (f *ModelListField) MinNum(n int) *ModelListField   { f.minNum = n; return f }

// Schema returns the embedded schema.
func (f *ModelListField) Schema() *Schema { return f.schema }

func (f *ModelListField) Multivalue() bool { return true }

func (f *ModelListField) XMLTag() string {
	if f.xmltag != "" {
		return f.xmltag
	}
	return f.schema.XMLTag()
}

func (f *ModelListField) ConstructDefault() (any, error) {
	res := make([]*Model, 0, f.minNum)
	for i := 0; i < f.minNum; i++ {
		m, err := f.schema.New()
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, nil
}

func (f *ModelListField) Clean(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%v is not a list", v)
	}
	res := make([]*Model, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		m, err := f.schema.CleanValue(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	for len(res) > f.minNum && (res[len(res)-1] == nil || !res[len(res)-1].HasValue()) {
		res = res[:len(res)-1]
	}
	return res, nil
}

func (f *ModelListField) HasValue(v any) bool {
	if v == nil {
		return false
	}
	for _, m := range v.([]*Model) {
		if m != nil && m.HasValue() {
			return true
		}
	}
	return false
}

func (f *ModelListField) Validate(val *Validation, v any) any {
	cleaned, has := validateBase(val, f, v)
	if !has {
		return cleaned
	}
	items := cleaned.([]*Model)
	if len(items) < f.minNum {
		val.AddError(fmt.Sprintf("list must have at least %d elements, but has only %d", f.minNum, len(items)), f)
	}
	for idx, m := range items {
		if m == nil {
			continue
		}
		m.validateInto(val.Sub(f.name + "." + strconv.Itoa(idx)))
	}
	return cleaned
}

func (f *ModelListField) AppendXML(b *Builder, v any) error {
	cleaned, err := f.Clean(v)
	if err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}
	if !f.HasValue(cleaned) {
		return nil
	}
	for _, m := range cleaned.([]*Model) {
		if err := m.appendXML(b, f.XMLTag()); err != nil {
			return err
		}
	}
	return nil
}

func (f *ModelListField) FromXML(els []*etree.Element) (any, error) {
	res := make([]*Model, 0, len(els))
	for _, el := range els {
		m, err := f.schema.New()
		if err != nil {
			return nil, err
		}
		if err := m.fillFromXML(el); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, nil
}

func (f *ModelListField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	items := v.([]*Model)
	res := make([]any, len(items))
	for i, m := range items {
		res[i] = m.ToPlain()
	}
	return res
}

func (f *ModelListField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	items := v.([]*Model)
	parts := make([]string, len(items))
	for i, m := range items {
		parts[i] = m.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (f *ModelListField) Compare(a, b any) int {
	if res, done := compareNil(f.HasValue(a), f.HasValue(b)); done {
		return res
	}
	as := a.([]*Model)
	bs := b.([]*Model)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := as[i].compareTo(bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func (f *ModelListField) DiffInto(d *Diff, a, b any) {
	hasA := f.HasValue(a)
	hasB := f.HasValue(b)
	switch {
	case !hasA && !hasB:
		return
	case hasA && !hasB:
		d.OnlyFirst(f, f.ToString(a))
		return
	case !hasA && hasB:
		d.OnlySecond(f, f.ToString(b))
		return
	}
	as := a.([]*Model)
	bs := b.([]*Model)
	for i := 0; i < len(as) && i < len(bs); i++ {
		as[i].DiffInto(d.Sub(f.name+"."+strconv.Itoa(i)), bs[i])
	}
	if len(as) != len(bs) {
		d.LengthMismatch(f, len(as), len(bs))
	}
}
