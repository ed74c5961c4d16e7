package fatturex

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// tzRome is the zone assumed for timestamps that carry no offset.
var tzRome = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		return time.FixedZone("CET", 3600)
	}
	return loc
}()

var reDate = regexp.MustCompile(`^\s*(\d{4})-(\d{1,2})-(\d{1,2})`)

// DateField holds a calendar date, stored as midnight UTC.
type DateField struct {
	fieldAttrs
}

// Date returns a calendar date field.
func Date() *DateField { return &DateField{} }

func (f *DateField) Null() *DateField          { f.null = true; return f }
func (f *DateField) Tag(tag string) *DateField { f.xmltag = tag; return f }

func (f *DateField) ConstructDefault() (any, error) { return nil, nil }

func (f *DateField) Clean(v any) (any, error) {
	v = f.orDefault(v)
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case time.Time:
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case string:
		mo := reDate.FindStringSubmatch(t)
		if mo == nil {
			return nil, fmt.Errorf("date '%s' does not begin with YYYY-mm-dd", t)
		}
		y, _ := strconv.Atoi(mo[1])
		m, _ := strconv.Atoi(mo[2])
		d, _ := strconv.Atoi(mo[3])
		res := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
		ry, rm, rd := res.Date()
		if ry != y || int(rm) != m || rd != d {
			return nil, fmt.Errorf("date '%s' is out of range", t)
		}
		return res, nil
	}
	return nil, fmt.Errorf("%v is not a string or time value", v)
}

func (f *DateField) HasValue(v any) bool { return v != nil }

func (f *DateField) Validate(val *Validation, v any) any {
	cleaned, _ := validateBase(val, f, v)
	return cleaned
}

func (f *DateField) AppendXML(b *Builder, v any) error { return appendLeaf(b, f, v) }

func (f *DateField) FromXML(els []*etree.Element) (any, error) {
	return leafFromXML(f, els[0])
}

func (f *DateField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	return f.ToString(v)
}

func (f *DateField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	return v.(time.Time).Format("2006-01-02")
}

func (f *DateField) Compare(a, b any) int {
	if res, done := compareNil(a != nil, b != nil); done {
		return res
	}
	return a.(time.Time).Compare(b.(time.Time))
}

func (f *DateField) DiffInto(d *Diff, a, b any) { diffLeaf(d, f, a, b) }

// DateTimeField holds an instant. Textual input without an offset is read
// in the Europe/Rome zone.
type DateTimeField struct {
	fieldAttrs
}

// DateTime returns a timestamp field.
func DateTime() *DateTimeField { return &DateTimeField{} }

func (f *DateTimeField) Null() *DateTimeField          { f.null = true; return f }
func (f *DateTimeField) Tag(tag string) *DateTimeField { f.xmltag = tag; return f }

func (f *DateTimeField) ConstructDefault() (any, error) { return nil, nil }

func (f *DateTimeField) Clean(v any) (any, error) {
	v = f.orDefault(v)
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		if res, err := time.Parse(time.RFC3339, t); err == nil {
			return res, nil
		}
		if res, err := time.ParseInLocation("2006-01-02T15:04:05", t, tzRome); err == nil {
			return res, nil
		}
		if res, err := time.ParseInLocation("2006-01-02", t, tzRome); err == nil {
			return res, nil
		}
		return nil, fmt.Errorf("'%s' cannot be parsed as a timestamp", t)
	}
	return nil, fmt.Errorf("%v is not a string or time value", v)
}

func (f *DateTimeField) HasValue(v any) bool { return v != nil }

func (f *DateTimeField) Validate(val *Validation, v any) any {
	cleaned, _ := validateBase(val, f, v)
	return cleaned
}

func (f *DateTimeField) AppendXML(b *Builder, v any) error { return appendLeaf(b, f, v) }

func (f *DateTimeField) FromXML(els []*etree.Element) (any, error) {
	return leafFromXML(f, els[0])
}

func (f *DateTimeField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	return f.ToString(v)
}

func (f *DateTimeField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	return v.(time.Time).Format(time.RFC3339)
}

func (f *DateTimeField) Compare(a, b any) int {
	if res, done := compareNil(a != nil, b != nil); done {
		return res
	}
	return a.(time.Time).Compare(b.(time.Time))
}

func (f *DateTimeField) DiffInto(d *Diff, a, b any) { diffLeaf(d, f, a, b) }
