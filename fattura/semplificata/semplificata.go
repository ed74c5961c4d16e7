// Package semplificata defines the schemas of the simplified Italian
// electronic invoice, versione FSM10. It shares the address and fiscal id
// blocks with the ordinary invoice.
package semplificata

import (
	fx "github.com/reoring/fatturex"
	"github.com/reoring/fatturex/fattura"
)

var DatiTrasmissione = fx.NewSchema("DatiTrasmissione",
	fx.F("id_trasmittente", fx.Nested(fattura.IdTrasmittente)),
	fx.F("progressivo_invio", fx.TransmissionSequence()),
	fx.F("formato_trasmissione", fx.String().Len(5).Choices("FSM10")),
	fx.F("codice_destinatario", fx.String().Null().MinLen(6).MaxLen(7).Default("0000000")),
	fx.F("pec_destinatario", fx.String().Null().MinLen(8).MaxLen(256).Tag("PECDestinatario")),
)

var RappresentanteFiscale = fx.NewSchema("RappresentanteFiscale",
	fx.F("id_fiscale_iva", fx.Nested(fattura.IdFiscaleIVA)),
	fx.F("denominazione", fx.String().MaxLen(80).Null()),
	fx.F("nome", fx.String().MaxLen(60).Null()),
	fx.F("cognome", fx.String().MaxLen(60).Null()),
).OnValidate(fattura.ValidateFullName)

var CedentePrestatore = fx.NewSchema("CedentePrestatore",
	fx.F("id_fiscale_iva", fx.Nested(fattura.IdFiscaleIVA)),
	fx.F("codice_fiscale", fx.String().MinLen(11).MaxLen(16).Null()),
	fx.F("denominazione", fx.String().MaxLen(80).Null()),
	fx.F("nome", fx.String().MaxLen(60).Null()),
	fx.F("cognome", fx.String().MaxLen(60).Null()),
	fx.F("sede", fx.Nested(fattura.Sede)),
	fx.F("stabile_organizzazione", fx.Nested(fattura.StabileOrganizzazione).Null()),
	fx.F("rappresentante_fiscale", fx.Nested(RappresentanteFiscale).Null()),
	fx.F("iscrizione_rea", fx.Nested(fattura.IscrizioneREA).Null()),
	fx.F("regime_fiscale", fx.String().Len(4).Choices(fattura.RegimeFiscale...)),
).OnValidate(fattura.ValidateFullName)

var IdentificativiFiscali = fx.NewSchema("IdentificativiFiscali",
	fx.F("id_fiscale_iva", fx.Nested(fattura.IdFiscaleIVA)),
	fx.F("codice_fiscale", fx.String().MinLen(11).MaxLen(16).Null()),
)

var AltriDatiIdentificativi = fx.NewSchema("AltriDatiIdentificativi",
	fx.F("denominazione", fx.String().MaxLen(80).Null()),
	fx.F("nome", fx.String().MaxLen(60).Null()),
	fx.F("cognome", fx.String().MaxLen(60).Null()),
	fx.F("sede", fx.Nested(fattura.Sede)),
	fx.F("stabile_organizzazione", fx.Nested(fattura.StabileOrganizzazione).Null()),
	fx.F("rappresentante_fiscale", fx.Nested(RappresentanteFiscale).Null()),
).OnValidate(fattura.ValidateFullName)

var CessionarioCommittente = fx.NewSchema("CessionarioCommittente",
	fx.F("identificativi_fiscali", fx.Nested(IdentificativiFiscali)),
	fx.F("altri_dati_identificativi", fx.Nested(AltriDatiIdentificativi)),
)

var FatturaElettronicaHeader = fx.NewSchema("FatturaElettronicaHeader",
	fx.F("dati_trasmissione", fx.Nested(DatiTrasmissione)),
	fx.F("cedente_prestatore", fx.Nested(CedentePrestatore)),
	fx.F("cessionario_committente", fx.Nested(CessionarioCommittente)),
	fx.F("soggetto_emittente", fx.String().Len(2).Choices("CC", "TZ").Null()),
)

var DatiGeneraliDocumento = fx.NewSchema("DatiGeneraliDocumento",
	fx.F("tipo_documento", fx.String().Len(4).Choices("TD07", "TD08", "TD09")),
	fx.F("divisa", fx.String()),
	fx.F("data", fx.Date()),
	fx.F("numero", fx.String().MaxLen(20)),
)

var DatiFatturaRettificata = fx.NewSchema("DatiFatturaRettificata",
	fx.F("numero_fr", fx.String().MaxLen(20).Tag("NumeroFR")),
	fx.F("data_fr", fx.Date().Tag("DataFR")),
	fx.F("elementi_rettificati", fx.String().MaxLen(1000)),
)

var DatiGenerali = fx.NewSchema("DatiGenerali",
	fx.F("dati_generali_documento", fx.Nested(DatiGeneraliDocumento)),
	fx.F("dati_fattura_rettificata", fx.Nested(DatiFatturaRettificata).Null()),
)

var DatiIVA = fx.NewSchema("DatiIVA",
	fx.F("imposta", fx.Decimal().MaxDigits(15)),
	fx.F("aliquota", fx.Decimal().MaxDigits(6)),
)

var DatiBeniServizi = fx.NewSchema("DatiBeniServizi",
	fx.F("descrizione", fx.String().MaxLen(1000)),
	fx.F("importo", fx.Decimal().MaxDigits(15)),
	fx.F("dati_iva", fx.Nested(DatiIVA)),
	fx.F("natura", fx.String().Len(2).Choices("N1", "N2", "N3", "N4", "N5", "N6", "N7").Null()),
	fx.F("riferimento_normativo", fx.String().MaxLen(100).Null()),
)

var FatturaElettronicaBody = fx.NewSchema("FatturaElettronicaBody",
	fx.F("dati_generali", fx.Nested(DatiGenerali)),
	fx.F("dati_beni_servizi", fx.NestedList(DatiBeniServizi)),
	fx.F("allegati", fx.NestedList(fattura.Allegati).Null()),
)

// FatturaSemplificata is the schema of the simplified invoice.
var FatturaSemplificata = fx.NewSchema("FatturaSemplificata",
	fx.F("fattura_elettronica_header", fx.Nested(FatturaElettronicaHeader)),
	fx.F("fattura_elettronica_body", fx.NestedList(FatturaElettronicaBody).MinNum(1)),
).Tag("FatturaElettronicaSemplificata").NS(fattura.NS10)

// FatturaElettronicaSemplificata is the simplified invoice, versione FSM10.
var FatturaElettronicaSemplificata = fx.RegisterDocument(fx.NewDocumentSchema(FatturaSemplificata, "FSM10",
	"fattura_elettronica_header", "dati_trasmissione", "formato_trasmissione"))
