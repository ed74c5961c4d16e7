package fatturex

import (
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/beevik/etree"
	json "github.com/goccy/go-json"
)

// StringField holds free or choice-constrained text. Length limits count
// runes, matching how the exchange format counts characters.
type StringField struct {
	fieldAttrs
	minLen  int
	maxLen  int
	choices []string
}

// String returns a text field with no constraints.
func String() *StringField {
	return &StringField{minLen: -1, maxLen: -1}
}

func (f *StringField) Null() *StringField            { f.null = true; return f }
func (f *StringField) Tag(tag string) *StringField   { f.xmltag = tag; return f }
func (f *StringField) NS(uri string) *StringField    { f.xmlns = uri; return f }
func (f *StringField) Default(v string) *StringField { f.def = v; return f }

// Len constrains the value to exactly n characters.
func (f *StringField) Len(n int) *StringField {
	f.minLen = n
	f.maxLen = n
	return f
}

func (f *StringField) MinLen(n int) *StringField { f.minLen = n; return f }
func (f *StringField) MaxLen(n int) *StringField { f.maxLen = n; return f }

// Choices constrains the value to the given set.
func (f *StringField) Choices(vals ...string) *StringField {
	f.choices = vals
	return f
}

func (f *StringField) ConstructDefault() (any, error) { return nil, nil }

func (f *StringField) Clean(v any) (any, error) {
	return cleanString(f.orDefault(v))
}

func cleanString(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case json.Number:
		return t.String(), nil
	case fmt.Stringer:
		return t.String(), nil
	}
	return nil, fmt.Errorf("%v cannot be converted to a string", v)
}

func (f *StringField) HasValue(v any) bool { return v != nil }

func (f *StringField) Validate(val *Validation, v any) any {
	cleaned, has := validateBase(val, f, v)
	if !has {
		return cleaned
	}
	s := cleaned.(string)
	if len(f.choices) > 0 && !slices.Contains(f.choices, s) {
		val.AddError(fmt.Sprintf("%q is not a valid choice for this field", s), f)
	}
	n := utf8.RuneCountInString(s)
	if f.minLen >= 0 && n < f.minLen {
		val.AddError(fmt.Sprintf("'%s' should be at least %d characters long", s, f.minLen), f)
	}
	if f.maxLen >= 0 && n > f.maxLen {
		val.AddError(fmt.Sprintf("'%s' should be no more than %d characters long", s, f.maxLen), f)
	}
	return cleaned
}

func (f *StringField) AppendXML(b *Builder, v any) error { return appendLeaf(b, f, v) }

func (f *StringField) FromXML(els []*etree.Element) (any, error) {
	return leafFromXML(f, els[0])
}

func (f *StringField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	return v.(string)
}

func (f *StringField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	return v.(string)
}

func (f *StringField) Compare(a, b any) int {
	if res, done := compareNil(a != nil, b != nil); done {
		return res
	}
	switch {
	case a.(string) < b.(string):
		return -1
	case a.(string) > b.(string):
		return 1
	}
	return 0
}

func (f *StringField) DiffInto(d *Diff, a, b any) { diffLeaf(d, f, a, b) }
