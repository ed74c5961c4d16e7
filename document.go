package fatturex

import (
	"fmt"
	"sync"

	"github.com/beevik/etree"
)

// DocumentSchema ties a Schema to a document family: a namespace-qualified
// root element, a fixed format code ("versione") and the path of the field
// holding that code inside the tree. Construction stamps the code into the
// discriminator field; parsing and validation check it.
type DocumentSchema struct {
	schema        *Schema
	version       string
	discriminator []string
}

// NewDocumentSchema declares a document family over the given schema. The
// schema must carry an XML namespace, and the discriminator path must name
// a string field reachable through nested model fields.
func NewDocumentSchema(s *Schema, version string, discriminator ...string) *DocumentSchema {
	if s.xmlns == "" {
		panic(fmt.Sprintf("fatturex: document schema %s has no XML namespace", s.name))
	}
	if len(discriminator) == 0 {
		panic(fmt.Sprintf("fatturex: document schema %s has no discriminator path", s.name))
	}
	return &DocumentSchema{schema: s, version: version, discriminator: discriminator}
}

// Schema returns the underlying schema.
func (d *DocumentSchema) Schema() *Schema { return d.schema }

// Version returns the fixed format code.
func (d *DocumentSchema) Version() string { return d.version }

// Document is one instance of a DocumentSchema: a Model plus the
// definition needed to serialize and validate it as a complete document.
type Document struct {
	*Model
	def *DocumentSchema
}

// Def returns the document definition.
func (doc *Document) Def() *DocumentSchema { return doc.def }

// New constructs a document instance; arguments follow Schema.New. The
// format code is stamped into the discriminator field.
func (d *DocumentSchema) New(args ...any) (*Document, error) {
	m, err := d.schema.New(args...)
	if err != nil {
		return nil, err
	}
	if err := m.SetPath(d.version, d.discriminator...); err != nil {
		return nil, err
	}
	return &Document{Model: m, def: d}, nil
}

// MustNew is New panicking on error.
func (d *DocumentSchema) MustNew(args ...any) *Document {
	doc, err := d.New(args...)
	if err != nil {
		panic(err)
	}
	return doc
}

// FromXML builds a document from its root element, checking tag, namespace
// and the versione attribute. Structural problems return an error.
func (d *DocumentSchema) FromXML(root *etree.Element) (*Document, error) {
	if root.Tag != d.schema.XMLTag() || root.NamespaceURI() != d.schema.xmlns {
		return nil, fmt.Errorf("root element is %s instead of %s", root.Tag, d.schema.XMLTag())
	}
	versione := root.SelectAttrValue("versione", "")
	if versione == "" {
		return nil, fmt.Errorf("root element %s misses attribute 'versione'", root.Tag)
	}
	if versione != d.version {
		return nil, fmt.Errorf("root element versione is %s instead of %s", versione, d.version)
	}
	m, err := d.schema.New()
	if err != nil {
		return nil, err
	}
	if err := m.fillFromXML(root); err != nil {
		return nil, err
	}
	return &Document{Model: m, def: d}, nil
}

// FromPlain builds a document from nested maps and slices. The format code
// is stamped, as in New.
func (d *DocumentSchema) FromPlain(data map[string]any) (*Document, error) {
	m, err := d.schema.FromPlain(data)
	if err != nil {
		return nil, err
	}
	if err := m.SetPath(d.version, d.discriminator...); err != nil {
		return nil, err
	}
	return &Document{Model: m, def: d}, nil
}

// BuildXML serializes the document: the root element carries the schema
// namespace and the versione attribute, children are unqualified. The
// format code is re-stamped first, so the attribute and the discriminator
// field cannot disagree on output.
func (doc *Document) BuildXML() (*etree.Document, error) {
	d := doc.def
	if err := doc.SetPath(d.version, d.discriminator...); err != nil {
		return nil, err
	}
	b := NewBuilder()
	nb := b.WithNamespace(d.schema.xmlns)
	nb.Start(d.schema.XMLTag(), Attr{Key: "versione", Value: d.version})
	if err := doc.appendFields(b); err != nil {
		return nil, err
	}
	nb.End()
	return b.Document(), nil
}

// Validate runs the tree validation plus the format-code check (rule
// 00428).
func (doc *Document) Validate() Diagnostics {
	v := NewValidation()
	doc.ValidateInto(v)
	return v.Diagnostics()
}

// ValidateInto accumulates findings into an existing handle.
func (doc *Document) ValidateInto(v *Validation) {
	doc.Model.ValidateInto(v)
	d := doc.def
	stored, _ := doc.GetPath(d.discriminator...).(string)
	if stored != d.version {
		sub := v
		for _, name := range d.discriminator[:len(d.discriminator)-1] {
			sub = sub.Sub(name)
		}
		field := d.discriminatorField()
		sub.AddErrorCode("00428", fmt.Sprintf("%s should be %s", field.Name(), d.version), field)
	}
}

func (d *DocumentSchema) discriminatorField() Field {
	s := d.schema
	for _, name := range d.discriminator[:len(d.discriminator)-1] {
		mf, ok := s.Field(name).(*ModelField)
		if !ok {
			panic(fmt.Sprintf("fatturex: discriminator step %q of %s is not a model field", name, s.name))
		}
		s = mf.Schema()
	}
	return s.Field(d.discriminator[len(d.discriminator)-1])
}

// Equals reports value equality of the underlying models.
func (doc *Document) Equals(other *Document) bool {
	if other == nil {
		return !doc.HasValue()
	}
	return doc.Model.Equals(other.Model)
}

// Diff returns the differences against another document of the same
// definition.
func (doc *Document) Diff(other *Document) ([]DiffEntry, error) {
	if other == nil {
		return doc.Model.Diff(nil)
	}
	return doc.Model.Diff(other.Model)
}

type docKey struct {
	ns  string
	tag string
}

var (
	regMu       sync.RWMutex
	docRegistry = map[docKey]map[string]*DocumentSchema{}
	docOrder    []*DocumentSchema
)

// RegisterDocument adds a document family to the process-wide registry
// used by DocumentFromXML and DocumentFromPlain. It returns its argument
// so registration can happen in a var declaration.
func RegisterDocument(d *DocumentSchema) *DocumentSchema {
	regMu.Lock()
	defer regMu.Unlock()
	key := docKey{ns: d.schema.xmlns, tag: d.schema.XMLTag()}
	versions := docRegistry[key]
	if versions == nil {
		versions = map[string]*DocumentSchema{}
		docRegistry[key] = versions
	}
	if _, dup := versions[d.version]; dup {
		panic(fmt.Sprintf("fatturex: duplicate document registration for %s versione %s", d.schema.XMLTag(), d.version))
	}
	versions[d.version] = d
	docOrder = append(docOrder, d)
	return d
}

// DocumentFromXML dispatches a root element to the registered document
// family matching its namespace, tag and versione attribute.
func DocumentFromXML(root *etree.Element) (*Document, error) {
	regMu.RLock()
	versions := docRegistry[docKey{ns: root.NamespaceURI(), tag: root.Tag}]
	regMu.RUnlock()
	if versions == nil {
		return nil, fmt.Errorf("root element %s is not a recognized document", root.Tag)
	}
	versione := root.SelectAttrValue("versione", "")
	if versione == "" {
		return nil, fmt.Errorf("root element %s misses attribute 'versione'", root.Tag)
	}
	d, ok := versions[versione]
	if !ok {
		return nil, fmt.Errorf("unsupported versione %s", versione)
	}
	return d.FromXML(root)
}

// DocumentFromPlain dispatches plain data by reading each registered
// family's discriminator field, in registration order.
func DocumentFromPlain(data map[string]any) (*Document, error) {
	regMu.RLock()
	candidates := make([]*DocumentSchema, len(docOrder))
	copy(candidates, docOrder)
	regMu.RUnlock()
	for _, d := range candidates {
		if plainPath(data, d.discriminator...) == d.version {
			return d.FromPlain(data)
		}
	}
	return nil, fmt.Errorf("cannot detect the document type from the data")
}

func plainPath(data map[string]any, path ...string) any {
	var cur any = data
	for _, name := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[name]
	}
	return cur
}
