package fatturex

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ListField holds repeated scalar values, serialized as repeated elements
// carrying the list's tag. Cleaning drops unset trailing entries beyond the
// minimum count.
type ListField struct {
	fieldAttrs
	inner  Field
	minNum int
}

// List returns a repeated field over the given element field. The element
// field stays unnamed: findings on single entries qualify with the list
// index alone.
func List(inner Field) *ListField {
	return &ListField{inner: inner}
}

func (f *ListField) Null() *ListField          { f.null = true; return f }
func (f *ListField) Tag(tag string) *ListField { f.xmltag = tag; return f }
func (f *ListField) MinNum(n int) *ListField   { f.minNum = n; return f }

func (f *ListField) Multivalue() bool { return true }

func (f *ListField) bind(name string) {
	f.fieldAttrs.bind(name)
	f.inner.setTag(f.XMLTag())
}

func (f *ListField) ConstructDefault() (any, error) {
	if f.minNum == 0 {
		return nil, nil
	}
	return make([]any, f.minNum), nil
}

func (f *ListField) Clean(v any) (any, error) {
	v = f.orDefault(v)
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%v is not a list", v)
	}
	res := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		cleaned, err := f.inner.Clean(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		res = append(res, cleaned)
	}
	for len(res) > f.minNum && !f.inner.HasValue(res[len(res)-1]) {
		res = res[:len(res)-1]
	}
	return res, nil
}

func (f *ListField) HasValue(v any) bool {
	if v == nil {
		return false
	}
	for _, el := range v.([]any) {
		if f.inner.HasValue(el) {
			return true
		}
	}
	return false
}

func (f *ListField) Validate(val *Validation, v any) any {
	cleaned, has := validateBase(val, f, v)
	if !has {
		return cleaned
	}
	items := cleaned.([]any)
	if len(items) < f.minNum {
		val.AddError(fmt.Sprintf("list must have at least %d elements, but has only %d", f.minNum, len(items)), f)
	}
	for idx, item := range items {
		sub := val.Sub(f.name + "." + strconv.Itoa(idx))
		f.inner.Validate(sub, item)
	}
	return cleaned
}

func (f *ListField) AppendXML(b *Builder, v any) error {
	cleaned, err := f.Clean(v)
	if err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}
	if !f.HasValue(cleaned) {
		return nil
	}
	for _, item := range cleaned.([]any) {
		if err := f.inner.AppendXML(b, item); err != nil {
			return err
		}
	}
	return nil
}

func (f *ListField) FromXML(els []*etree.Element) (any, error) {
	res := make([]any, 0, len(els))
	for _, el := range els {
		v, err := f.inner.FromXML([]*etree.Element{el})
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

func (f *ListField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	items := v.([]any)
	res := make([]any, len(items))
	for i, item := range items {
		res[i] = f.inner.ToPlain(item)
	}
	return res
}

func (f *ListField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	items := v.([]any)
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = f.inner.ToString(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (f *ListField) Compare(a, b any) int {
	if res, done := compareNil(f.HasValue(a), f.HasValue(b)); done {
		return res
	}
	as := a.([]any)
	bs := b.([]any)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := f.inner.Compare(as[i], bs[i]); c != 0 {
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

func (f *ListField) DiffInto(d *Diff, a, b any) {
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
	as := a.([]any)
	bs := b.([]any)
	for i := 0; i < len(as) && i < len(bs); i++ {
		sub := d.Sub(f.name + "." + strconv.Itoa(i))
		f.inner.DiffInto(sub, as[i], bs[i])
	}
	if len(as) != len(bs) {
		d.LengthMismatch(f, len(as), len(bs))
	}
}
