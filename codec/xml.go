package codec

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	fx "github.com/reoring/fatturex"
)

// XML reads and writes the exchange format itself.
type XML struct{}

func (XML) Extensions() []string { return []string{"xml"} }

func (XML) Load(path string) (*fx.Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromFile(path); err != nil {
		return nil, err
	}
	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("%s: no root element", path)
	}
	doc, err := fx.DocumentFromXML(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (XML) Write(doc *fx.Document, w io.Writer) error {
	built, err := doc.BuildXML()
	if err != nil {
		return err
	}
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	out.AddChild(built.Root())
	if _, err := out.WriteTo(w); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
