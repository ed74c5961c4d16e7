package fatturex

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"
)

// Base64BinaryField holds raw bytes, rendered as base64 at the XML and
// plain-data boundaries.
type Base64BinaryField struct {
	fieldAttrs
}

// Base64Binary returns a binary field.
func Base64Binary() *Base64BinaryField { return &Base64BinaryField{} }

func (f *Base64BinaryField) Null() *Base64BinaryField          { f.null = true; return f }
func (f *Base64BinaryField) Tag(tag string) *Base64BinaryField { f.xmltag = tag; return f }

func (f *Base64BinaryField) ConstructDefault() (any, error) { return nil, nil }

func (f *Base64BinaryField) Clean(v any) (any, error) {
	v = f.orDefault(v)
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		raw, err := base64.StdEncoding.DecodeString(t)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not valid base64 data", t)
		}
		return raw, nil
	}
	return nil, fmt.Errorf("%v is not a string or byte value", v)
}

func (f *Base64BinaryField) HasValue(v any) bool { return v != nil }

func (f *Base64BinaryField) Validate(val *Validation, v any) any {
	cleaned, _ := validateBase(val, f, v)
	return cleaned
}

func (f *Base64BinaryField) AppendXML(b *Builder, v any) error { return appendLeaf(b, f, v) }

func (f *Base64BinaryField) FromXML(els []*etree.Element) (any, error) {
	return leafFromXML(f, els[0])
}

func (f *Base64BinaryField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	return f.ToString(v)
}

func (f *Base64BinaryField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	return base64.StdEncoding.EncodeToString(v.([]byte))
}

func (f *Base64BinaryField) Compare(a, b any) int {
	if res, done := compareNil(a != nil, b != nil); done {
		return res
	}
	return bytes.Compare(a.([]byte), b.([]byte))
}

func (f *Base64BinaryField) DiffInto(d *Diff, a, b any) { diffLeaf(d, f, a, b) }

// NotImplementedField is a placeholder for a part of the format this
// library does not handle. Every value cleans to nil, so incoming data is
// discarded and nothing is ever serialized.
type NotImplementedField struct {
	fieldAttrs
	warn bool
}

// NotImplemented returns a placeholder field.
func NotImplemented() *NotImplementedField { return &NotImplementedField{} }

func (f *NotImplementedField) Null() *NotImplementedField          { f.null = true; return f }
func (f *NotImplementedField) Tag(tag string) *NotImplementedField { f.xmltag = tag; return f }
func (f *NotImplementedField) NS(uri string) *NotImplementedField  { f.xmlns = uri; return f }

// Warn makes discarded values log a warning.
func (f *NotImplementedField) Warn() *NotImplementedField { f.warn = true; return f }

func (f *NotImplementedField) ConstructDefault() (any, error) { return nil, nil }

func (f *NotImplementedField) Clean(v any) (any, error) {
	if f.warn && v != nil {
		log.Warn().Str("field", f.name).Interface("value", v).Msg("value discarded")
	}
	return nil, nil
}

func (f *NotImplementedField) HasValue(v any) bool { return false }

func (f *NotImplementedField) Validate(val *Validation, v any) any {
	cleaned, _ := validateBase(val, f, v)
	return cleaned
}

func (f *NotImplementedField) AppendXML(b *Builder, v any) error { return nil }

func (f *NotImplementedField) FromXML(els []*etree.Element) (any, error) {
	if f.warn {
		log.Warn().Str("field", f.name).Msg("element discarded")
	}
	return nil, nil
}

func (f *NotImplementedField) ToPlain(v any) any { return nil }

func (f *NotImplementedField) ToString(v any) string { return "nil" }

func (f *NotImplementedField) Compare(a, b any) int { return 0 }

func (f *NotImplementedField) DiffInto(d *Diff, a, b any) {}
