package codec

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	fx "github.com/reoring/fatturex"
)

// YAML reads and writes the plain-data form as YAML.
type YAML struct{}

func (YAML) Extensions() []string { return []string{"yaml", "yml"} }

func (YAML) Load(path string) (*fx.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc, err := fx.DocumentFromPlain(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (YAML) Write(doc *fx.Document, w io.Writer) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
