// Package codec reads and writes invoices in the supported file formats:
// XML, JSON, YAML and the signed p7m envelope. The format is normally
// picked from the file extension with ForFilename.
package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	fx "github.com/reoring/fatturex"
	_ "github.com/reoring/fatturex/fattura"
	_ "github.com/reoring/fatturex/fattura/semplificata"
)

// Codec reads and writes invoices in one file format.
type Codec interface {
	// Extensions lists the file extensions the codec handles, without the
	// dot and with the canonical one first.
	Extensions() []string
	// Load reads an invoice from a file, dispatching it to whichever
	// registered document family matches.
	Load(path string) (*fx.Document, error)
	// Write serializes an invoice to the given writer.
	Write(doc *fx.Document, w io.Writer) error
}

// Save writes an invoice to a file using the given codec.
func Save(c Codec, doc *fx.Document, path string) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Write(doc, fd); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

// All lists the supported codecs, in extension lookup order.
var All = []Codec{XML{}, P7M{}, JSON{}, YAML{}}

// ForFilename picks a codec from the extension of path.
func ForFilename(path string) (Codec, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, c := range All {
		for _, e := range c.Extensions() {
			if e == ext {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%s: unsupported file extension %q", path, ext)
}
