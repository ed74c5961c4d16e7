package codec

import (
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	fx "github.com/reoring/fatturex"
)

// JSON reads and writes the plain-data form as JSON. Numbers are decoded
// as json.Number so decimal amounts survive without float rounding.
type JSON struct{}

func (JSON) Extensions() []string { return []string{"json"} }

func (JSON) Load(path string) (*fx.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc, err := fx.DocumentFromPlain(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (JSON) Write(doc *fx.Document, w io.Writer) error {
	raw, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
