package fattura

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	dec "github.com/shopspring/decimal"

	fx "github.com/reoring/fatturex"
)

// checkFindings compares every diagnostic rendered as "path: [code] msg"
// against the expected list, in accumulation order.
func checkFindings(t *testing.T, got fx.Diagnostics, want ...string) {
	t.Helper()
	if len(want) == 0 {
		if len(got) != 0 {
			t.Errorf("unexpected findings: %v", got.Strings())
		}
		return
	}
	if diff := cmp.Diff(want, got.Strings()); diff != "" {
		t.Errorf("findings (-want +got):\n%s", diff)
	}
}

func hasCode(ds fx.Diagnostics, code string) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestAnagrafica(t *testing.T) {
	a := Anagrafica.MustNew()
	msg := "nome and cognome, or denominazione, must be set"
	checkFindings(t, a.Validate(),
		"nome: "+msg,
		"cognome: "+msg,
		"denominazione: "+msg,
	)

	a.MustSet("nome", "Enrico")
	checkFindings(t, a.Validate(),
		"cognome: nome and cognome must both be set if denominazione is empty")

	a.MustSet("cognome", "Zini")
	checkFindings(t, a.Validate())

	a.MustSet("nome", nil)
	checkFindings(t, a.Validate(),
		"nome: nome and cognome must both be set if denominazione is empty")

	a.MustSet("cognome", nil)
	a.MustSet("denominazione", "Enrico Zini")
	checkFindings(t, a.Validate())

	a.MustSet("nome", "Enrico")
	checkFindings(t, a.Validate(),
		"nome: nome must not be set if denominazione is not empty")

	a.MustSet("cognome", "Zini")
	msg = "nome and cognome must not be set if denominazione is not empty"
	checkFindings(t, a.Validate(),
		"nome: "+msg,
		"cognome: "+msg,
	)
}

func TestFullName(t *testing.T) {
	if got := FullName(nil); got != "" {
		t.Errorf("FullName(nil) = %q", got)
	}
	if got := FullName(Anagrafica.MustNew(fx.V{"denominazione": "ACME SRL"})); got != "ACME SRL" {
		t.Errorf("FullName = %q", got)
	}
	if got := FullName(Anagrafica.MustNew(fx.V{"nome": "Enrico", "cognome": "Zini"})); got != "Enrico Zini" {
		t.Errorf("FullName = %q", got)
	}
	if got := FullName(Anagrafica.MustNew(fx.V{"nome": "Enrico"})); got != "" {
		t.Errorf("FullName = %q", got)
	}
}

func TestDatiTrasmissione(t *testing.T) {
	dt := DatiTrasmissione.MustNew(IdTrasmittente.MustNew("ID", "1234567890"), "12345", "FPR12")

	// The recipient code defaults to seven zeros, which requires a PEC
	// address to go with it.
	if got := dt.Str("codice_destinatario"); got != "0000000" {
		t.Fatalf("codice_destinatario = %q", got)
	}
	msg := "pec_destinatario has no value while codice_destinatario has value 0000000"
	checkFindings(t, dt.Validate(),
		"codice_destinatario: [00426] "+msg,
		"pec_destinatario: [00426] "+msg,
	)

	dt.MustSet("codice_destinatario", "FUFUFU")
	checkFindings(t, dt.Validate(),
		"codice_destinatario: [00427] codice_destinatario has 6 characters on a Fattura Privati")

	dt.MustSet("codice_destinatario", "FUFUFUF")
	checkFindings(t, dt.Validate())

	dt.MustSet("pec_destinatario", "local_part@pec_domain.it")
	msg = "pec_destinatario has value while codice_destinatario has value 0000000"
	checkFindings(t, dt.Validate(),
		"codice_destinatario: [00426] "+msg,
		"pec_destinatario: [00426] "+msg,
	)

	// Setting the code to nil falls back to the default, which pairs with
	// the PEC address.
	dt.MustSet("codice_destinatario", nil)
	checkFindings(t, dt.Validate())
}

func TestDatiTrasmissioneFatturaPA(t *testing.T) {
	dt := DatiTrasmissione.MustNew(IdTrasmittente.MustNew("ID", "1234567890"), "12345", "FPA12")

	dt.MustSet("codice_destinatario", "FUFUFUF")
	checkFindings(t, dt.Validate(),
		"codice_destinatario: [00427] codice_destinatario has 7 characters on a Fattura PA")

	dt.MustSet("codice_destinatario", "FUFUFU")
	checkFindings(t, dt.Validate())
}

func TestAddDettaglioLinee(t *testing.T) {
	dbs := DatiBeniServizi.MustNew()
	if err := AddDettaglioLinee(dbs, fx.V{
		"descrizione":     "Test item",
		"quantita":        2,
		"unita_misura":    "kg",
		"prezzo_unitario": "25.50",
		"aliquota_iva":    "22.00",
	}); err != nil {
		t.Fatalf("AddDettaglioLinee: %v", err)
	}
	if err := AddDettaglioLinee(dbs, fx.V{
		"descrizione":     "Bulk item",
		"quantita":        "0.4",
		"unita_misura":    "kg",
		"prezzo_unitario": "40.00",
		"aliquota_iva":    "22.00",
	}); err != nil {
		t.Fatalf("AddDettaglioLinee: %v", err)
	}
	// Without quantita the unit price carries over as the line total.
	if err := AddDettaglioLinee(dbs, fx.V{
		"descrizione":     "Flat fee",
		"prezzo_unitario": "30.00",
		"aliquota_iva":    "22.00",
	}); err != nil {
		t.Fatalf("AddDettaglioLinee: %v", err)
	}

	linee := dbs.SubList("dettaglio_linee")
	if len(linee) != 3 {
		t.Fatalf("dettaglio_linee = %d", len(linee))
	}
	if !linee[0].Equals(DettaglioLinee.MustNew(fx.V{
		"numero_linea":    1,
		"descrizione":     "Test item",
		"quantita":        "2",
		"unita_misura":    "kg",
		"prezzo_unitario": "25.50",
		"prezzo_totale":   "51.00",
		"aliquota_iva":    "22.00",
	})) {
		t.Errorf("first line = %s", linee[0])
	}
	if got, _ := linee[1].Dec("prezzo_totale"); got.Cmp(dec.RequireFromString("16")) != 0 {
		t.Errorf("second line total = %s", got)
	}
	if got, _ := linee[1].Int("numero_linea"); got != 2 {
		t.Errorf("second line number = %d", got)
	}
	if got, _ := linee[2].Dec("prezzo_totale"); got.Cmp(dec.RequireFromString("30")) != 0 {
		t.Errorf("third line total = %s", got)
	}
}

func TestBuildDatiRiepilogo(t *testing.T) {
	dbs := DatiBeniServizi.MustNew()
	for _, line := range []fx.V{
		{"descrizione": "A", "quantita": "1.5", "unita_misura": "kg", "prezzo_unitario": "0.50", "aliquota_iva": "10.00"},
		{"descrizione": "B", "prezzo_unitario": "1.00", "aliquota_iva": "10.00"},
		{"descrizione": "C", "prezzo_unitario": "14.40", "aliquota_iva": "22.00"},
	} {
		if err := AddDettaglioLinee(dbs, line); err != nil {
			t.Fatalf("AddDettaglioLinee: %v", err)
		}
	}
	if err := BuildDatiRiepilogo(dbs); err != nil {
		t.Fatalf("BuildDatiRiepilogo: %v", err)
	}

	riepiloghi := dbs.SubList("dati_riepilogo")
	if len(riepiloghi) != 2 {
		t.Fatalf("dati_riepilogo = %d", len(riepiloghi))
	}
	if !riepiloghi[0].Equals(DatiRiepilogo.MustNew(fx.V{
		"aliquota_iva":       "10.00",
		"imponibile_importo": "1.75",
		"imposta":            "0.175",
		"esigibilita_iva":    "I",
	})) {
		t.Errorf("first group = %s", riepiloghi[0])
	}
	if !riepiloghi[1].Equals(DatiRiepilogo.MustNew(fx.V{
		"aliquota_iva":       "22.00",
		"imponibile_importo": "14.40",
		"imposta":            "3.168",
		"esigibilita_iva":    "I",
	})) {
		t.Errorf("second group = %s", riepiloghi[1])
	}

	// A line without aliquota cannot be grouped.
	bad := DatiBeniServizi.MustNew()
	if err := AddDettaglioLinee(bad, fx.V{"descrizione": "X", "prezzo_unitario": "1.00"}); err != nil {
		t.Fatalf("AddDettaglioLinee: %v", err)
	}
	if err := BuildDatiRiepilogo(bad); err == nil || err.Error() != "dettaglio_linee.0 has no aliquota_iva" {
		t.Errorf("BuildDatiRiepilogo: %v", err)
	}
}

func TestBuildImportoTotaleDocumento(t *testing.T) {
	body := FatturaElettronicaBody.MustNew()
	dbs := body.Sub("dati_beni_servizi")
	for _, line := range []fx.V{
		{"descrizione": "A", "quantita": "1.5", "unita_misura": "kg", "prezzo_unitario": "0.50", "aliquota_iva": "10.00"},
		{"descrizione": "B", "prezzo_unitario": "1.00", "aliquota_iva": "10.00"},
		{"descrizione": "C", "prezzo_unitario": "14.40", "aliquota_iva": "22.00"},
	} {
		if err := AddDettaglioLinee(dbs, line); err != nil {
			t.Fatalf("AddDettaglioLinee: %v", err)
		}
	}
	if err := BuildDatiRiepilogo(dbs); err != nil {
		t.Fatalf("BuildDatiRiepilogo: %v", err)
	}
	if err := BuildImportoTotaleDocumento(body); err != nil {
		t.Fatalf("BuildImportoTotaleDocumento: %v", err)
	}

	totale, ok := body.GetPath("dati_generali", "dati_generali_documento", "importo_totale_documento").(dec.Decimal)
	if !ok {
		t.Fatalf("importo_totale_documento not set")
	}
	if totale.Cmp(dec.RequireFromString("19.493")) != 0 {
		t.Errorf("importo_totale_documento = %s", totale)
	}
}

func TestDettaglioLineeNatura(t *testing.T) {
	linea := DettaglioLinee.MustNew(fx.V{
		"numero_linea":    1,
		"descrizione":     "x",
		"prezzo_unitario": "1.00",
		"prezzo_totale":   "1.00",
		"aliquota_iva":    "0.00",
	})
	checkFindings(t, linea.Validate(),
		"natura: [00400] natura non presente a fronte di aliquota_iva pari a zero")

	linea.MustSet("natura", "N2")
	checkFindings(t, linea.Validate())

	linea.MustSet("aliquota_iva", "22.00")
	checkFindings(t, linea.Validate(),
		"natura: [00401] natura presente a fronte di aliquota_iva diversa da zero")

	linea.MustSet("natura", nil)
	checkFindings(t, linea.Validate())
}

func TestDatiRiepilogoNatura(t *testing.T) {
	r := DatiRiepilogo.MustNew(fx.V{
		"aliquota_iva":       "0.00",
		"imponibile_importo": "1.00",
		"imposta":            "0.00",
	})
	checkFindings(t, r.Validate(),
		"natura: [00429] field is empty while aliquota_iva is zero")

	r.MustSet("natura", "N2")
	checkFindings(t, r.Validate())

	r.MustSet("aliquota_iva", "22.00")
	checkFindings(t, r.Validate(),
		"natura: [00430] field has value while aliquota_iva is not zero")
}

func TestDatiCassaPrevidenzialeNatura(t *testing.T) {
	dcp := DatiCassaPrevidenziale.MustNew(fx.V{
		"tipo_cassa":               "TC01",
		"al_cassa":                 "4.00",
		"importo_contributo_cassa": "4.00",
		"imponibile_cassa":         "100.00",
		"aliquota_iva":             "0.00",
	})
	checkFindings(t, dcp.Validate(),
		"natura: [00413] field is empty while aliquota_iva is zero")

	dcp.MustSet("natura", "N2")
	checkFindings(t, dcp.Validate())

	dcp.MustSet("aliquota_iva", "22.00")
	checkFindings(t, dcp.Validate(),
		"natura: [00414] field has value while aliquota_iva is not zero")
}

func TestDatiGeneraliDocumentoNumero(t *testing.T) {
	dgd := DatiGeneraliDocumento.MustNew(fx.V{
		"tipo_documento": "TD01",
		"divisa":         "EUR",
		"data":           "2019-01-01",
		"numero":         "ABC",
	})
	checkFindings(t, dgd.Validate(),
		"numero: [00425] numero must contain at least one number")

	dgd.MustSet("numero", "1/A")
	checkFindings(t, dgd.Validate())
}

func TestDatiGeneraliDocumentoRitenuta(t *testing.T) {
	dgd := DatiGeneraliDocumento.MustNew(fx.V{
		"tipo_documento": "TD01",
		"divisa":         "EUR",
		"data":           "2019-01-01",
		"numero":         "1",
		"dati_cassa_previdenziale": []any{fx.V{
			"tipo_cassa":               "TC01",
			"al_cassa":                 "4.00",
			"importo_contributo_cassa": "4.00",
			"imponibile_cassa":         "100.00",
			"aliquota_iva":             "22.00",
			"ritenuta":                 "SI",
		}},
	})
	if !hasCode(dgd.Validate(), "00415") {
		t.Errorf("missing 00415 finding: %v", dgd.Validate().Strings())
	}

	dgd.MustSet("dati_ritenuta", fx.V{
		"tipo_ritenuta":     "RT01",
		"importo_ritenuta":  "20.00",
		"aliquota_ritenuta": "20.00",
		"causale_pagamento": "A",
	})
	if hasCode(dgd.Validate(), "00415") {
		t.Errorf("00415 still reported: %v", dgd.Validate().Strings())
	}
}

func TestDatiGeneraliFattureCollegate(t *testing.T) {
	dg := DatiGenerali.MustNew(fx.V{
		"dati_generali_documento": fx.V{
			"tipo_documento": "TD04",
			"divisa":         "EUR",
			"data":           "2019-01-01",
			"numero":         "1",
		},
		"dati_fatture_collegate": []any{fx.V{
			"id_documento": "42",
			"data":         "2019-06-01",
		}},
	})
	checkFindings(t, dg.Validate(),
		"data: [00418] dati_generali_documento.data is earlier than dati_fatture_collegate.data",
		"data: [00418] dati_generali_documento.data is earlier than dati_fatture_collegate.data",
	)

	if err := dg.SetPath("2019-07-01", "dati_generali_documento", "data"); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	checkFindings(t, dg.Validate())
}

func TestBodyRiepilogoRequired(t *testing.T) {
	body := FatturaElettronicaBody.MustNew()
	if err := AddDettaglioLinee(body.Sub("dati_beni_servizi"), fx.V{
		"descrizione":     "x",
		"prezzo_unitario": "1.00",
		"aliquota_iva":    "22.00",
	}); err != nil {
		t.Fatalf("AddDettaglioLinee: %v", err)
	}
	if !hasCode(body.Validate(), "00419") {
		t.Errorf("missing 00419 finding: %v", body.Validate().Strings())
	}

	if err := BuildDatiRiepilogo(body.Sub("dati_beni_servizi")); err != nil {
		t.Fatalf("BuildDatiRiepilogo: %v", err)
	}
	if hasCode(body.Validate(), "00419") {
		t.Errorf("00419 still reported: %v", body.Validate().Strings())
	}
}

func TestCessionarioCommittenteFiscalId(t *testing.T) {
	da := DatiAnagraficiCessionarioCommittente.MustNew(fx.V{
		"anagrafica": fx.V{"denominazione": "A Company SRL"},
	})
	msg := "at least one of id_fiscale_iva and codice_fiscale needs to have a value"
	checkFindings(t, da.Validate(),
		"id_fiscale_iva: [00417] "+msg,
		"codice_fiscale: [00417] "+msg,
	)

	da.MustSet("codice_fiscale", "12345678901")
	checkFindings(t, da.Validate())
}

func buildSample(t *testing.T) *fx.Document {
	t.Helper()
	f := FatturaPrivati12.MustNew()

	header := f.Sub("fattura_elettronica_header")
	if err := header.Sub("dati_trasmissione").Update(
		IdTrasmittente.MustNew("IT", "10293847561"),
		fx.V{"codice_destinatario": "FUFUFUF"},
	); err != nil {
		t.Fatalf("dati_trasmissione: %v", err)
	}

	header.MustSet("cedente_prestatore", CedentePrestatore.MustNew(
		DatiAnagraficiCedentePrestatore.MustNew(
			IdFiscaleIVA.MustNew("IT", "01234567890"),
			fx.V{
				"anagrafica":     fx.V{"denominazione": "Test User"},
				"regime_fiscale": "RF01",
			}),
		Sede.MustNew(fx.V{
			"indirizzo": "via Monferrato", "numero_civico": "1",
			"cap": "50100", "comune": "Firenze", "provincia": "FI", "nazione": "IT",
		}),
		fx.V{
			"iscrizione_rea": fx.V{"ufficio": "FI", "numero_rea": "123456", "stato_liquidazione": "LN"},
			"contatti":       fx.V{"email": "local_part@pec_domain.it"},
		}))

	header.MustSet("cessionario_committente", CessionarioCommittente.MustNew(
		DatiAnagraficiCessionarioCommittente.MustNew(
			IdFiscaleIVA.MustNew("IT", "76543210987"),
			fx.V{"anagrafica": fx.V{"denominazione": "A Company SRL"}}),
		Sede.MustNew(fx.V{
			"indirizzo": "via Langhe", "numero_civico": "1",
			"cap": "50142", "comune": "Firenze", "provincia": "FI", "nazione": "IT",
		})))

	body := f.SubList("fattura_elettronica_body")[0]
	body.Sub("dati_generali").MustSet("dati_generali_documento", DatiGeneraliDocumento.MustNew(fx.V{
		"tipo_documento": "TD01",
		"divisa":         "EUR",
		"data":           "2019-01-01",
		"numero":         "1",
		"causale":        []any{"Test billing"},
	}))

	dbs := body.Sub("dati_beni_servizi")
	for _, line := range []fx.V{
		{"descrizione": "Test item", "quantita": 2, "unita_misura": "kg",
			"prezzo_unitario": "25.50", "aliquota_iva": "22.00"},
		{"descrizione": "Another item", "prezzo_unitario": "15.50", "aliquota_iva": "22.00"},
	} {
		if err := AddDettaglioLinee(dbs, line); err != nil {
			t.Fatalf("AddDettaglioLinee: %v", err)
		}
	}
	if err := BuildDatiRiepilogo(dbs); err != nil {
		t.Fatalf("BuildDatiRiepilogo: %v", err)
	}
	if err := BuildImportoTotaleDocumento(body); err != nil {
		t.Fatalf("BuildImportoTotaleDocumento: %v", err)
	}
	return f
}

func TestFatturaInitialBody(t *testing.T) {
	f := FatturaPrivati12.MustNew()
	if got := f.GetPath("fattura_elettronica_header", "dati_trasmissione", "formato_trasmissione"); got != "FPR12" {
		t.Errorf("formato_trasmissione = %v", got)
	}
	bodies := f.SubList("fattura_elettronica_body")
	if len(bodies) != 1 {
		t.Fatalf("bodies = %d", len(bodies))
	}
	if bodies[0].HasValue() {
		t.Errorf("initial body has a value")
	}
}

func TestSampleValidates(t *testing.T) {
	f := buildSample(t)
	checkFindings(t, f.Validate())

	totale, _ := f.SubList("fattura_elettronica_body")[0].
		Sub("dati_generali").Sub("dati_generali_documento").Dec("importo_totale_documento")
	if totale.Cmp(dec.RequireFromString("81.13")) != 0 {
		t.Errorf("importo_totale_documento = %s", totale)
	}
}

func TestSampleAppendBody(t *testing.T) {
	f := buildSample(t)
	body := f.SubList("fattura_elettronica_body")[0]
	if err := f.Append("fattura_elettronica_body", body); err != nil {
		t.Fatalf("Append: %v", err)
	}
	bodies := f.SubList("fattura_elettronica_body")
	if len(bodies) != 2 {
		t.Fatalf("bodies = %d", len(bodies))
	}
	// The appended body is a copy, equal in value but not shared.
	if bodies[0] == bodies[1] {
		t.Errorf("bodies share storage")
	}
	if !bodies[0].Equals(bodies[1]) {
		t.Errorf("bodies differ")
	}
	checkFindings(t, f.Validate())
}

func TestSampleXMLRoundTrip(t *testing.T) {
	f := buildSample(t)

	tree, err := f.BuildXML()
	if err != nil {
		t.Fatalf("BuildXML: %v", err)
	}
	xml, err := tree.WriteToString()
	if err != nil {
		t.Fatalf("WriteToString: %v", err)
	}
	for _, want := range []string{
		`<ns0:FatturaElettronica xmlns:ns0="http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2" versione="FPR12">`,
		"<FormatoTrasmissione>FPR12</FormatoTrasmissione>",
		"<CodiceDestinatario>FUFUFUF</CodiceDestinatario>",
		"<PrezzoTotale>51.00</PrezzoTotale>",
		"<AliquotaIVA>22.00</AliquotaIVA>",
		"<ImportoTotaleDocumento>81.13</ImportoTotaleDocumento>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("serialized XML misses %q", want)
		}
	}

	parsed := etree.NewDocument()
	if err := parsed.ReadFromString(xml); err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}
	back, err := FatturaPrivati12.FromXML(parsed.Root())
	if err != nil {
		t.Fatalf("FromXML: %v", err)
	}
	if !f.Equals(back) {
		t.Errorf("XML round trip lost data")
	}
	checkFindings(t, back.Validate())

	// Rebuilding from the parsed tree is byte identical.
	tree2, err := back.BuildXML()
	if err != nil {
		t.Fatalf("BuildXML: %v", err)
	}
	xml2, err := tree2.WriteToString()
	if err != nil {
		t.Fatalf("WriteToString: %v", err)
	}
	if xml != xml2 {
		t.Errorf("round trip not byte identical:\n first %s\nsecond %s", xml, xml2)
	}
}

func TestAutoFromXMLDispatch(t *testing.T) {
	f := buildSample(t)
	tree, err := f.BuildXML()
	if err != nil {
		t.Fatalf("BuildXML: %v", err)
	}
	xml, _ := tree.WriteToString()

	parsed := etree.NewDocument()
	if err := parsed.ReadFromString(xml); err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}
	doc, err := AutoFromXML(parsed.Root())
	if err != nil {
		t.Fatalf("AutoFromXML: %v", err)
	}
	if doc.Def() != FatturaPrivati12 {
		t.Errorf("dispatched to versione %s", doc.Def().Version())
	}
}

func TestAutoFromPlainDispatch(t *testing.T) {
	f := buildSample(t)
	doc, err := AutoFromPlain(f.ToPlain())
	if err != nil {
		t.Fatalf("AutoFromPlain: %v", err)
	}
	if doc.Def() != FatturaPrivati12 {
		t.Errorf("dispatched to versione %s", doc.Def().Version())
	}
	if !f.Model.Equals(doc.Model) {
		t.Errorf("plain round trip lost data")
	}
}
