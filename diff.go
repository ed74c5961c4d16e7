package fatturex

import "fmt"

// DiffKind classifies a single difference between two instances.
type DiffKind int

const (
	// DiffChanged means both sides are set with different values.
	DiffChanged DiffKind = iota
	// DiffOnlyFirst means only the first side is set.
	DiffOnlyFirst
	// DiffOnlySecond means only the second side is set.
	DiffOnlySecond
	// DiffLength means two lists differ in length.
	DiffLength
)

// DiffEntry is one path-qualified difference. First and Second carry the
// rendered values; Len1 and Len2 carry list lengths for DiffLength.
type DiffEntry struct {
	Path   string
	Kind   DiffKind
	First  string
	Second string
	Len1   int
	Len2   int
}

func (e DiffEntry) String() string {
	switch e.Kind {
	case DiffOnlyFirst:
		return fmt.Sprintf("%s: second is not set", e.Path)
	case DiffOnlySecond:
		return fmt.Sprintf("%s: first is not set", e.Path)
	case DiffLength:
		extra := e.Len1 - e.Len2
		longer := "first"
		if e.Len2 > e.Len1 {
			extra = e.Len2 - e.Len1
			longer = "second"
		}
		if extra == 1 {
			return fmt.Sprintf("%s: %s has 1 extra element", e.Path, longer)
		}
		return fmt.Sprintf("%s: %s has %d extra elements", e.Path, longer, extra)
	default:
		return fmt.Sprintf("%s: first: %s, second: %s", e.Path, e.First, e.Second)
	}
}

// Diff carries a dotted path prefix while walking two instances of the
// same schema, accumulating differences in a shared list. It mirrors how
// Validation walks a single instance.
type Diff struct {
	prefix  string
	entries *[]DiffEntry
}

// NewDiff returns a root handle with an empty prefix.
func NewDiff() *Diff {
	var entries []DiffEntry
	return &Diff{entries: &entries}
}

// Sub derives a handle whose prefix is extended by name.
func (d *Diff) Sub(name string) *Diff {
	prefix := name
	if d.prefix != "" {
		prefix = d.prefix + "." + name
	}
	return &Diff{prefix: prefix, entries: d.entries}
}

func (d *Diff) qualify(f Field) string {
	name := ""
	if f != nil {
		name = f.Name()
	}
	switch {
	case d.prefix == "":
		return name
	case name == "":
		return d.prefix
	default:
		return d.prefix + "." + name
	}
}

// Changed records that both sides are set with different values.
func (d *Diff) Changed(f Field, first, second string) {
	*d.entries = append(*d.entries, DiffEntry{Path: d.qualify(f), Kind: DiffChanged, First: first, Second: second})
}

// OnlyFirst records that only the first side is set.
func (d *Diff) OnlyFirst(f Field, first string) {
	*d.entries = append(*d.entries, DiffEntry{Path: d.qualify(f), Kind: DiffOnlyFirst, First: first})
}

// OnlySecond records that only the second side is set.
func (d *Diff) OnlySecond(f Field, second string) {
	*d.entries = append(*d.entries, DiffEntry{Path: d.qualify(f), Kind: DiffOnlySecond, Second: second})
}

// LengthMismatch records that two lists differ in length.
func (d *Diff) LengthMismatch(f Field, len1, len2 int) {
	*d.entries = append(*d.entries, DiffEntry{Path: d.qualify(f), Kind: DiffLength, Len1: len1, Len2: len2})
}

// Entries returns everything accumulated so far.
func (d *Diff) Entries() []DiffEntry {
	return *d.entries
}
