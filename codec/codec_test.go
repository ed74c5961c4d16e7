package codec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	fx "github.com/reoring/fatturex"
	"github.com/reoring/fatturex/fattura"
)

func sampleInvoice(t *testing.T) *fx.Document {
	t.Helper()
	f := fattura.FatturaPrivati12.MustNew()

	header := f.Sub("fattura_elettronica_header")
	if err := header.Sub("dati_trasmissione").Update(
		fattura.IdTrasmittente.MustNew("IT", "10293847561"),
		fx.V{"codice_destinatario": "FUFUFUF"},
	); err != nil {
		t.Fatalf("dati_trasmissione: %v", err)
	}

	body := f.SubList("fattura_elettronica_body")[0]
	body.Sub("dati_generali").MustSet("dati_generali_documento", fx.V{
		"tipo_documento": "TD01",
		"divisa":         "EUR",
		"data":           "2019-01-01",
		"numero":         "1",
	})
	if err := fattura.AddDettaglioLinee(body.Sub("dati_beni_servizi"), fx.V{
		"descrizione":     "Test item",
		"prezzo_unitario": "25.50",
		"aliquota_iva":    "22.00",
	}); err != nil {
		t.Fatalf("AddDettaglioLinee: %v", err)
	}
	return f
}

func roundTrip(t *testing.T, c Codec, name string) {
	t.Helper()
	doc := sampleInvoice(t)
	path := filepath.Join(t.TempDir(), name)
	if err := Save(c, doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Def() != fattura.FatturaPrivati12 {
		t.Errorf("dispatched to versione %s", back.Def().Version())
	}
	if !doc.Equals(back) {
		t.Errorf("%s round trip lost data", name)
	}
}

func TestXMLRoundTrip(t *testing.T)  { roundTrip(t, XML{}, "invoice.xml") }
func TestJSONRoundTrip(t *testing.T) { roundTrip(t, JSON{}, "invoice.json") }
func TestYAMLRoundTrip(t *testing.T) { roundTrip(t, YAML{}, "invoice.yaml") }

func TestXMLWriteDeclaration(t *testing.T) {
	doc := sampleInvoice(t)
	path := filepath.Join(t.TempDir(), "invoice.xml")
	if err := Save(XML{}, doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(raw), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("file does not start with the XML declaration:\n%.80s", raw)
	}
	if !strings.HasSuffix(string(raw), "\n") {
		t.Errorf("file does not end with a newline")
	}
}

func TestYAMLWriteHeader(t *testing.T) {
	doc := sampleInvoice(t)
	path := filepath.Join(t.TempDir(), "invoice.yaml")
	if err := Save(YAML{}, doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(raw), "---\n") {
		t.Errorf("file does not start with the document marker:\n%.80s", raw)
	}
}

func TestForFilename(t *testing.T) {
	tests := []struct {
		path string
		want Codec
	}{
		{"fattura.xml", XML{}},
		{"fattura.XML", XML{}},
		{"fattura.json", JSON{}},
		{"fattura.yaml", YAML{}},
		{"fattura.yml", YAML{}},
		{"fattura.xml.p7m", P7M{}},
	}
	for _, tt := range tests {
		got, err := ForFilename(tt.path)
		if err != nil {
			t.Errorf("ForFilename(%q): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ForFilename(%q) = %T", tt.path, got)
		}
	}

	if _, err := ForFilename("fattura.txt"); err == nil || err.Error() != `fattura.txt: unsupported file extension "txt"` {
		t.Errorf("unsupported extension: %v", err)
	}
}

func TestP7MWriteRefused(t *testing.T) {
	doc := sampleInvoice(t)
	err := P7M{}.Write(doc, os.Stderr)
	if err == nil || err.Error() != "p7m files can only be read" {
		t.Errorf("Write: %v", err)
	}
}

func TestEditUnchanged(t *testing.T) {
	t.Setenv("EDITOR", "true")
	doc := sampleInvoice(t)
	edited, err := Edit(YAML{}, doc)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if edited != nil {
		t.Errorf("unchanged edit returned a document")
	}
}

func TestStripBanner(t *testing.T) {
	in := "a: 1\n" + errorBanner + "cannot load\nb: 2\n"
	if got := stripBanner(in); got != "a: 1\nb: 2\n" {
		t.Errorf("stripBanner = %q", got)
	}
	if got := stripBanner("a: 1\n"); got != "a: 1\n" {
		t.Errorf("stripBanner without banner = %q", got)
	}
}
