package fattura

import (
	"github.com/beevik/etree"

	fx "github.com/reoring/fatturex"
)

// Fattura is the schema of the ordinary invoice. The same tree serves both
// the privati and PA variants; the formato_trasmissione field tells them
// apart and is stamped by the document definitions below.
var Fattura = fx.NewSchema("Fattura",
	fx.F("fattura_elettronica_header", fx.Nested(FatturaElettronicaHeader)),
	fx.F("fattura_elettronica_body", fx.NestedList(FatturaElettronicaBody).MinNum(1)),
	fx.F("signature", fx.NotImplemented().Null().NS(NSSig)),
).Tag("FatturaElettronica").NS(NS)

var (
	// FatturaPrivati12 is the invoice addressed to private parties,
	// versione FPR12.
	FatturaPrivati12 = fx.RegisterDocument(fx.NewDocumentSchema(Fattura, "FPR12",
		"fattura_elettronica_header", "dati_trasmissione", "formato_trasmissione"))

	// FatturaPA12 is the invoice addressed to the public administration,
	// versione FPA12.
	FatturaPA12 = fx.RegisterDocument(fx.NewDocumentSchema(Fattura, "FPA12",
		"fattura_elettronica_header", "dati_trasmissione", "formato_trasmissione"))
)

// AutoFromXML builds whichever registered invoice family matches the root
// element. Import the semplificata package to dispatch simplified invoices
// as well.
func AutoFromXML(root *etree.Element) (*fx.Document, error) {
	return fx.DocumentFromXML(root)
}

// AutoFromPlain builds whichever registered invoice family matches the
// formato_trasmissione found in plain data.
func AutoFromPlain(data map[string]any) (*fx.Document, error) {
	return fx.DocumentFromPlain(data)
}
