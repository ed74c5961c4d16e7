package fatturex

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/beevik/etree"
	json "github.com/goccy/go-json"
	dec "github.com/shopspring/decimal"
)

// IntegerField holds an integer with an optional bound on the number of
// rendered digits.
type IntegerField struct {
	fieldAttrs
	maxDigits int
	choices   []int
}

// Integer returns an integer field with no constraints.
func Integer() *IntegerField {
	return &IntegerField{maxDigits: -1}
}

func (f *IntegerField) Null() *IntegerField          { f.null = true; return f }
func (f *IntegerField) Tag(tag string) *IntegerField { f.xmltag = tag; return f }
func (f *IntegerField) Default(v int) *IntegerField  { f.def = v; return f }

// MaxDigits bounds the length of the rendered value, sign included.
func (f *IntegerField) MaxDigits(n int) *IntegerField { f.maxDigits = n; return f }

func (f *IntegerField) Choices(vals ...int) *IntegerField { f.choices = vals; return f }

func (f *IntegerField) ConstructDefault() (any, error) { return nil, nil }

func (f *IntegerField) Clean(v any) (any, error) {
	v = f.orDefault(v)
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return nil, fmt.Errorf("'%s' cannot be converted to an integer", t.String())
		}
		return int(n), nil
	case dec.Decimal:
		return int(t.IntPart()), nil
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("'%s' cannot be converted to an integer", t)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%v cannot be converted to an integer", v)
}

func (f *IntegerField) HasValue(v any) bool { return v != nil }

func (f *IntegerField) Validate(val *Validation, v any) any {
	cleaned, has := validateBase(val, f, v)
	if !has {
		return cleaned
	}
	n := cleaned.(int)
	if len(f.choices) > 0 && !slices.Contains(f.choices, n) {
		val.AddError(fmt.Sprintf("%d is not a valid choice for this field", n), f)
	}
	if f.maxDigits >= 0 && len(strconv.Itoa(n)) > f.maxDigits {
		val.AddError(fmt.Sprintf("'%d' should be no more than %d digits long", n, f.maxDigits), f)
	}
	return cleaned
}

func (f *IntegerField) AppendXML(b *Builder, v any) error { return appendLeaf(b, f, v) }

func (f *IntegerField) FromXML(els []*etree.Element) (any, error) {
	return leafFromXML(f, els[0])
}

func (f *IntegerField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	return v.(int)
}

func (f *IntegerField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	return strconv.Itoa(v.(int))
}

func (f *IntegerField) Compare(a, b any) int {
	if res, done := compareNil(a != nil, b != nil); done {
		return res
	}
	switch {
	case a.(int) < b.(int):
		return -1
	case a.(int) > b.(int):
		return 1
	}
	return 0
}

func (f *IntegerField) DiffInto(d *Diff, a, b any) { diffLeaf(d, f, a, b) }

// DecimalField holds an exact decimal amount. Values render quantized to a
// fixed number of decimal places with banker's rounding; the digit bound
// applies to the rendered string, sign and point included.
type DecimalField struct {
	fieldAttrs
	maxDigits int
	decimals  int32
	choices   []dec.Decimal
}

// Decimal returns a decimal field rendering two decimal places.
func Decimal() *DecimalField {
	return &DecimalField{maxDigits: -1, decimals: 2}
}

func (f *DecimalField) Null() *DecimalField           { f.null = true; return f }
func (f *DecimalField) Tag(tag string) *DecimalField  { f.xmltag = tag; return f }
func (f *DecimalField) MaxDigits(n int) *DecimalField { f.maxDigits = n; return f }

// Decimals sets the number of decimal places used when rendering.
func (f *DecimalField) Decimals(n int) *DecimalField { f.decimals = int32(n); return f }

// Choices constrains the value to the given set, compared numerically.
func (f *DecimalField) Choices(vals ...string) *DecimalField {
	for _, v := range vals {
		f.choices = append(f.choices, dec.RequireFromString(v))
	}
	return f
}

func (f *DecimalField) ConstructDefault() (any, error) { return nil, nil }

func (f *DecimalField) Clean(v any) (any, error) {
	v = f.orDefault(v)
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case dec.Decimal:
		return t, nil
	case string:
		d, err := dec.NewFromString(t)
		if err != nil {
			return nil, fmt.Errorf("'%s' cannot be converted to a decimal", t)
		}
		return d, nil
	case json.Number:
		d, err := dec.NewFromString(t.String())
		if err != nil {
			return nil, fmt.Errorf("'%s' cannot be converted to a decimal", t.String())
		}
		return d, nil
	case int:
		return dec.NewFromInt(int64(t)), nil
	case int64:
		return dec.NewFromInt(t), nil
	case float64:
		return dec.NewFromFloat(t), nil
	}
	return nil, fmt.Errorf("%v cannot be converted to a decimal", v)
}

func (f *DecimalField) HasValue(v any) bool { return v != nil }

func (f *DecimalField) Validate(val *Validation, v any) any {
	cleaned, has := validateBase(val, f, v)
	if !has {
		return cleaned
	}
	d := cleaned.(dec.Decimal)
	if len(f.choices) > 0 {
		found := false
		for _, c := range f.choices {
			if c.Cmp(d) == 0 {
				found = true
				break
			}
		}
		if !found {
			val.AddError(fmt.Sprintf("%s is not a valid choice for this field", d.String()), f)
		}
	}
	if f.maxDigits >= 0 {
		rendered := f.ToString(cleaned)
		if len(rendered) > f.maxDigits {
			val.AddError(fmt.Sprintf("'%s' should be no more than %d digits long", rendered, f.maxDigits), f)
		}
	}
	return cleaned
}

func (f *DecimalField) AppendXML(b *Builder, v any) error { return appendLeaf(b, f, v) }

func (f *DecimalField) FromXML(els []*etree.Element) (any, error) {
	return leafFromXML(f, els[0])
}

func (f *DecimalField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	return f.ToString(v)
}

func (f *DecimalField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	return v.(dec.Decimal).StringFixedBank(f.decimals)
}

func (f *DecimalField) Compare(a, b any) int {
	if res, done := compareNil(a != nil, b != nil); done {
		return res
	}
	return a.(dec.Decimal).Cmp(b.(dec.Decimal))
}

func (f *DecimalField) DiffInto(d *Diff, a, b any) { diffLeaf(d, f, a, b) }
