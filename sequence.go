package fatturex

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/beevik/etree"
	json "github.com/goccy/go-json"
)

// sequenceAlphabet is the 43-symbol set used to pack transmission
// identifiers; every symbol is legal in the target field.
const sequenceAlphabet = "+-./0123456789=@ABCDEFGHIJKLMNOPQRSTUVWXYZ_"

// maxPerSecond bounds the number of identifiers a single process can mint
// within one wall-clock second.
const maxPerSecond = 64 * 64 * 64

// ErrSequenceOverflow reports that the per-second counter ran out.
var ErrSequenceOverflow = errors.New("sequence counter overflow: too many identifiers generated in one second")

// SequenceSource mints transmission identifiers.
type SequenceSource interface {
	Next() (string, error)
}

// ClockSequence is the default SequenceSource: it combines the unix second
// with a process-wide counter into at most ten base-43 symbols. The mutex
// keeps concurrent callers from minting duplicate identifiers.
type ClockSequence struct {
	mu     sync.Mutex
	now    func() time.Time
	lastTS int64
	seq    int64
}

// NewClockSequence returns a wall-clock backed source.
func NewClockSequence() *ClockSequence {
	return &ClockSequence{now: time.Now}
}

// NewClockSequenceAt returns a source reading time from the given function.
func NewClockSequenceAt(now func() time.Time) *ClockSequence {
	return &ClockSequence{now: now}
}

func (c *ClockSequence) Next() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := c.now().Unix()
	if c.lastTS != ts {
		c.lastTS = ts
		c.seq = 0
	} else {
		c.seq++
		if c.seq > maxPerSecond {
			return "", ErrSequenceOverflow
		}
	}
	return encodeSequence(ts<<16 + c.seq), nil
}

func encodeSequence(value int64) string {
	var buf [16]byte
	i := len(buf)
	for value > 0 {
		i--
		buf[i] = sequenceAlphabet[value%43]
		value /= 43
	}
	return string(buf[i:])
}

var defaultSequence SequenceSource = NewClockSequence()

// TransmissionSequenceField is a string field whose construction default is
// a freshly minted transmission identifier.
type TransmissionSequenceField struct {
	fieldAttrs
	maxLen int
	source SequenceSource
}

// TransmissionSequence returns an identifier field backed by the
// process-wide clock source.
func TransmissionSequence() *TransmissionSequenceField {
	return &TransmissionSequenceField{maxLen: 10, source: defaultSequence}
}

func (f *TransmissionSequenceField) Null() *TransmissionSequenceField {
	f.null = true
	return f
}

func (f *TransmissionSequenceField) Tag(tag string) *TransmissionSequenceField {
	f.xmltag = tag
	return f
}

// Source swaps in a different identifier source, used to make tests
// deterministic.
func (f *TransmissionSequenceField) Source(s SequenceSource) *TransmissionSequenceField {
	f.source = s
	return f
}

func (f *TransmissionSequenceField) ConstructDefault() (any, error) {
	id, err := f.source.Next()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	return id, nil
}

func (f *TransmissionSequenceField) Clean(v any) (any, error) {
	v = f.orDefault(v)
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
	}
	return nil, fmt.Errorf("%v cannot be converted to a string", v)
}

func (f *TransmissionSequenceField) HasValue(v any) bool { return v != nil }

func (f *TransmissionSequenceField) Validate(val *Validation, v any) any {
	cleaned, has := validateBase(val, f, v)
	if !has {
		return cleaned
	}
	s := cleaned.(string)
	if utf8.RuneCountInString(s) > f.maxLen {
		val.AddError(fmt.Sprintf("'%s' should be no more than %d characters long", s, f.maxLen), f)
	}
	return cleaned
}

func (f *TransmissionSequenceField) AppendXML(b *Builder, v any) error { return appendLeaf(b, f, v) }

func (f *TransmissionSequenceField) FromXML(els []*etree.Element) (any, error) {
	return leafFromXML(f, els[0])
}

func (f *TransmissionSequenceField) ToPlain(v any) any {
	if v == nil {
		return nil
	}
	return v.(string)
}

func (f *TransmissionSequenceField) ToString(v any) string {
	if v == nil {
		return "nil"
	}
	return v.(string)
}

func (f *TransmissionSequenceField) Compare(a, b any) int {
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

func (f *TransmissionSequenceField) DiffInto(d *Diff, a, b any) { diffLeaf(d, f, a, b) }
