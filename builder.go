package fatturex

import "github.com/beevik/etree"

// Attr is an XML attribute for Builder.Start and Builder.Add.
type Attr struct {
	Key   string
	Value string
}

// Builder assembles an XML document with strict LIFO nesting over an etree
// tree. Handles derived with WithNamespace share the document and element
// stack, so a namespace can be scoped to part of the tree: the document
// root carries the namespace while its children stay unqualified.
type Builder struct {
	st *builderState
	ns string
}

type builderState struct {
	doc   *etree.Document
	stack []*etree.Element
}

// NewBuilder returns a builder over a fresh document, with no default
// namespace.
func NewBuilder() *Builder {
	return &Builder{st: &builderState{doc: etree.NewDocument()}}
}

// WithNamespace derives a handle that creates elements in the given
// namespace. Elements get the "ns0" prefix and declare the namespace on
// themselves. Empty uri derives an unqualified handle.
func (b *Builder) WithNamespace(uri string) *Builder {
	return &Builder{st: b.st, ns: uri}
}

func (b *Builder) create(tag string) *etree.Element {
	var parent interface {
		CreateElement(string) *etree.Element
	}
	if n := len(b.st.stack); n > 0 {
		parent = b.st.stack[n-1]
	} else {
		parent = b.st.doc
	}
	if b.ns != "" {
		el := parent.CreateElement("ns0:" + tag)
		el.CreateAttr("xmlns:ns0", b.ns)
		return el
	}
	return parent.CreateElement(tag)
}

// Start opens an element. Every Start must be balanced by End.
func (b *Builder) Start(tag string, attrs ...Attr) {
	el := b.create(tag)
	for _, a := range attrs {
		el.CreateAttr(a.Key, a.Value)
	}
	b.st.stack = append(b.st.stack, el)
}

// End closes the most recently started element. Unbalanced calls panic
// rather than producing a malformed tree.
func (b *Builder) End() {
	n := len(b.st.stack)
	if n == 0 {
		panic("fatturex: Builder.End without matching Start")
	}
	b.st.stack = b.st.stack[:n-1]
}

// Add emits a leaf element with text content.
func (b *Builder) Add(tag, text string, attrs ...Attr) {
	el := b.create(tag)
	for _, a := range attrs {
		el.CreateAttr(a.Key, a.Value)
	}
	if text != "" {
		el.SetText(text)
	}
}

// Document returns the assembled document. Calling it with elements still
// open panics.
func (b *Builder) Document() *etree.Document {
	if len(b.st.stack) != 0 {
		panic("fatturex: Builder.Document with unclosed elements")
	}
	return b.st.doc
}
