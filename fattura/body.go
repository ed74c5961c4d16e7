package fattura

import (
	"regexp"
	"time"

	fx "github.com/reoring/fatturex"
)

var DatiRitenuta = fx.NewSchema("DatiRitenuta",
	fx.F("tipo_ritenuta", fx.String().Len(4).Choices("RT01", "RT02")),
	fx.F("importo_ritenuta", fx.Decimal().MaxDigits(15)),
	fx.F("aliquota_ritenuta", fx.Decimal().MaxDigits(6)),
	fx.F("causale_pagamento", fx.String().MaxLen(2)),
)

var DatiBollo = fx.NewSchema("DatiBollo",
	fx.F("bollo_virtuale", fx.String().Len(2).Choices("SI")),
	fx.F("importo_bollo", fx.Decimal().MaxDigits(15)),
)

var DatiCassaPrevidenziale = fx.NewSchema("DatiCassaPrevidenziale",
	fx.F("tipo_cassa", fx.String().Len(4).Choices(TipoCassa...)),
	fx.F("al_cassa", fx.Decimal().MaxDigits(6)),
	fx.F("importo_contributo_cassa", fx.Decimal().MaxDigits(15)),
	fx.F("imponibile_cassa", fx.Decimal().MaxDigits(15)),
	fx.F("aliquota_iva", fx.Decimal().MaxDigits(6).Tag("AliquotaIVA")),
	fx.F("ritenuta", fx.String().Len(2).Choices("SI").Null()),
	fx.F("natura", fx.String().Len(2).Choices("N1", "N2", "N3", "N4", "N5", "N6", "N7").Null()),
	fx.F("riferimento_amministrazione", fx.String().MaxLen(20).Null()),
).OnValidate(func(m *fx.Model, v *fx.Validation) {
	aliquota, ok := m.Dec("aliquota_iva")
	natura := m.Get("natura")
	fNatura := m.Schema().Field("natura")
	if ok && aliquota.IsZero() && natura == nil {
		v.AddErrorCode("00413", "field is empty while aliquota_iva is zero", fNatura)
	}
	if (!ok || !aliquota.IsZero()) && natura != nil {
		v.AddErrorCode("00414", "field has value while aliquota_iva is not zero", fNatura)
	}
})

var ScontoMaggiorazione = fx.NewSchema("ScontoMaggiorazione",
	fx.F("tipo", fx.String().Len(2).Choices("SC", "MG")),
	fx.F("percentuale", fx.Decimal().MaxDigits(6).Null()),
	fx.F("importo", fx.Decimal().MaxDigits(15).Null()),
)

var reDigit = regexp.MustCompile(`\d`)

var DatiGeneraliDocumento = fx.NewSchema("DatiGeneraliDocumento",
	fx.F("tipo_documento", fx.String().Len(4).Choices("TD01", "TD02", "TD03", "TD04", "TD05", "TD06")),
	fx.F("divisa", fx.String()),
	fx.F("data", fx.Date()),
	fx.F("numero", fx.String().MaxLen(20)),
	fx.F("dati_ritenuta", fx.Nested(DatiRitenuta).Null()),
	fx.F("dati_bollo", fx.Nested(DatiBollo).Null()),
	fx.F("dati_cassa_previdenziale", fx.NestedList(DatiCassaPrevidenziale).Null()),
	fx.F("sconto_maggiorazione", fx.NestedList(ScontoMaggiorazione).Null()),
	fx.F("importo_totale_documento", fx.Decimal().MaxDigits(15).Null()),
	fx.F("arrotondamento", fx.Decimal().MaxDigits(15).Null()),
	fx.F("causale", fx.List(fx.String().MaxLen(200)).Null()),
	fx.F("art73", fx.String().Len(2).Choices("SI").Null().Tag("Art73")),
).OnValidate(func(m *fx.Model, v *fx.Validation) {
	hasCassaRitenuta := false
	for _, dcp := range m.SubList("dati_cassa_previdenziale") {
		if dcp.Str("ritenuta") == "SI" {
			hasCassaRitenuta = true
			break
		}
	}
	if dr := m.Sub("dati_ritenuta"); hasCassaRitenuta && (dr == nil || !dr.HasValue()) {
		v.AddErrorCode("00415", "field empty when dati_cassa_previdenziale.ritenuta is SI",
			m.Schema().Field("dati_ritenuta"))
	}

	if numero, ok := m.Get("numero").(string); !ok || !reDigit.MatchString(numero) {
		v.AddErrorCode("00425", "numero must contain at least one number", m.Schema().Field("numero"))
	}
})

var AltriDatiGestionali = fx.NewSchema("AltriDatiGestionali",
	fx.F("tipo_dato", fx.String().MaxLen(10)),
	fx.F("riferimento_testo", fx.String().MaxLen(60).Null()),
	fx.F("riferimento_numero", fx.Decimal().MaxDigits(21).Null()),
	fx.F("riferimento_data", fx.Date().Null()),
)

var CodiceArticolo = fx.NewSchema("CodiceArticolo",
	fx.F("codice_tipo", fx.String().MaxLen(35)),
	fx.F("codice_valore", fx.String().MaxLen(35)),
)

var DettaglioLinee = fx.NewSchema("DettaglioLinee",
	fx.F("numero_linea", fx.Integer().MaxDigits(4)),
	fx.F("tipo_cessione_prestazione", fx.String().Len(2).Choices("SC", "PR", "AB", "AC").Null()),
	fx.F("codice_articolo", fx.NestedList(CodiceArticolo).Null()),
	fx.F("descrizione", fx.String().MaxLen(1000)),
	fx.F("quantita", fx.Decimal().MaxDigits(21).Null()),
	fx.F("unita_misura", fx.String().MaxLen(10).Null()),
	fx.F("data_inizio_periodo", fx.Date().Null()),
	fx.F("data_fine_periodo", fx.Date().Null()),
	fx.F("prezzo_unitario", fx.Decimal().MaxDigits(21)),
	fx.F("sconto_maggiorazione", fx.NestedList(ScontoMaggiorazione).Null()),
	fx.F("prezzo_totale", fx.Decimal().MaxDigits(21)),
	fx.F("aliquota_iva", fx.Decimal().MaxDigits(6).Tag("AliquotaIVA")),
	fx.F("ritenuta", fx.String().Len(2).Choices("SI").Null()),
	fx.F("natura", fx.String().Len(2).Choices("N1", "N2", "N3", "N4", "N5", "N6", "N7").Null()),
	fx.F("riferimento_amministrazione", fx.String().MaxLen(20).Null()),
	fx.F("altri_dati_gestionali", fx.NestedList(AltriDatiGestionali).Null()),
).OnValidate(func(m *fx.Model, v *fx.Validation) {
	s := m.Schema()
	quantita := m.Get("quantita")
	unita := m.Get("unita_misura")
	if quantita == nil && unita != nil {
		v.AddError("field must be present when unita_misura is set", s.Field("quantita"))
	}
	if quantita != nil && unita == nil {
		v.AddError("field must be present when quantita is set", s.Field("unita_misura"))
	}

	aliquota, ok := m.Dec("aliquota_iva")
	natura := m.Get("natura")
	if ok && aliquota.IsZero() && natura == nil {
		v.AddErrorCode("00400", "natura non presente a fronte di aliquota_iva pari a zero", s.Field("natura"))
	}
	if (!ok || !aliquota.IsZero()) && natura != nil {
		v.AddErrorCode("00401", "natura presente a fronte di aliquota_iva diversa da zero", s.Field("natura"))
	}
})

var DatiRiepilogo = fx.NewSchema("DatiRiepilogo",
	fx.F("aliquota_iva", fx.Decimal().MaxDigits(6).Tag("AliquotaIVA")),
	fx.F("natura", fx.String().Len(2).Choices("N1", "N2", "N3", "N4", "N5", "N6", "N7").Null()),
	fx.F("spese_accessorie", fx.Decimal().MaxDigits(15).Null()),
	fx.F("arrotondamento", fx.Decimal().MaxDigits(21).Null()),
	fx.F("imponibile_importo", fx.Decimal().MaxDigits(15)),
	fx.F("imposta", fx.Decimal().MaxDigits(15)),
	fx.F("esigibilita_iva", fx.String().Tag("EsigibilitaIVA").Len(1).Choices("I", "D", "S").Null()),
	fx.F("riferimento_normativo", fx.String().MaxLen(100).Null()),
).OnValidate(func(m *fx.Model, v *fx.Validation) {
	aliquota, ok := m.Dec("aliquota_iva")
	natura := m.Get("natura")
	fNatura := m.Schema().Field("natura")
	if ok && aliquota.IsZero() && natura == nil {
		v.AddErrorCode("00429", "field is empty while aliquota_iva is zero", fNatura)
	}
	if (!ok || !aliquota.IsZero()) && natura != nil {
		v.AddErrorCode("00430", "field has value while aliquota_iva is not zero", fNatura)
	}
})

var DatiBeniServizi = fx.NewSchema("DatiBeniServizi",
	fx.F("dettaglio_linee", fx.NestedList(DettaglioLinee)),
	fx.F("dati_riepilogo", fx.NestedList(DatiRiepilogo)),
)

// datiDocumentiCorrelatiBinds is the linked-document reference layout
// shared by the order, contract, convention, receipt and linked-invoice
// blocks.
func datiDocumentiCorrelatiBinds() []fx.Bind {
	return []fx.Bind{
		fx.F("riferimento_numero_linea", fx.List(fx.Integer().MaxDigits(4)).Null()),
		fx.F("id_documento", fx.String().MaxLen(20)),
		fx.F("data", fx.Date().Null()),
		fx.F("num_item", fx.String().MaxLen(20).Null()),
		fx.F("codice_commessa_convenzione", fx.String().MaxLen(100).Null()),
		fx.F("codice_cup", fx.String().MaxLen(15).Tag("CodiceCUP").Null()),
		fx.F("codice_cig", fx.String().MaxLen(15).Tag("CodiceCIG").Null()),
	}
}

var (
	DatiOrdineAcquisto   = fx.NewSchema("DatiOrdineAcquisto", datiDocumentiCorrelatiBinds()...)
	DatiContratto        = fx.NewSchema("DatiContratto", datiDocumentiCorrelatiBinds()...)
	DatiConvenzione      = fx.NewSchema("DatiConvenzione", datiDocumentiCorrelatiBinds()...)
	DatiRicezione        = fx.NewSchema("DatiRicezione", datiDocumentiCorrelatiBinds()...)
	DatiFattureCollegate = fx.NewSchema("DatiFattureCollegate", datiDocumentiCorrelatiBinds()...)
)

var DatiAnagraficiVettore = fx.NewSchema("DatiAnagraficiVettore",
	fx.F("id_fiscale_iva", fx.Nested(IdFiscaleIVA)),
	fx.F("codice_fiscale", fx.String().MinLen(11).MaxLen(16).Null()),
	fx.F("anagrafica", fx.Nested(Anagrafica)),
	fx.F("numero_licenza_guida", fx.String().MaxLen(20).Null()),
)

var DatiTrasporto = fx.NewSchema("DatiTrasporto",
	fx.F("dati_anagrafici_vettore", fx.Nested(DatiAnagraficiVettore).Null()),
	fx.F("mezzo_trasporto", fx.String().MaxLen(80).Null()),
	fx.F("causale_trasporto", fx.String().MaxLen(100).Null()),
	fx.F("numero_colli", fx.Integer().MaxDigits(4).Null()),
	fx.F("descrizione", fx.String().MaxLen(100).Null()),
	fx.F("unita_misura_peso", fx.String().MaxLen(10).Null()),
	fx.F("peso_lordo", fx.Decimal().MaxDigits(7).Null()),
	fx.F("peso_netto", fx.Decimal().MaxDigits(7).Null()),
	fx.F("data_ora_ritiro", fx.DateTime().Null()),
	fx.F("data_inizio_trasporto", fx.Date().Null()),
	fx.F("tipo_resa", fx.String().Len(3).Null()),
	fx.F("indirizzo_resa", fx.Nested(IndirizzoResa).Null()),
	fx.F("data_ora_consegna", fx.DateTime().Null()),
)

var DatiDDT = fx.NewSchema("DatiDDT",
	fx.F("numero_ddt", fx.String().MaxLen(20).Tag("NumeroDDT")),
	fx.F("data_ddt", fx.Date().Tag("DataDDT")),
	fx.F("riferimento_numero_linea", fx.List(fx.Integer().MaxDigits(4)).Null()),
)

var FatturaPrincipale = fx.NewSchema("FatturaPrincipale",
	fx.F("numero_fattura_principale", fx.String().MaxLen(20)),
	fx.F("data_fattura_principale", fx.Date()),
)

var DatiGenerali = fx.NewSchema("DatiGenerali",
	fx.F("dati_generali_documento", fx.Nested(DatiGeneraliDocumento)),
	fx.F("dati_ordine_acquisto", fx.NestedList(DatiOrdineAcquisto).Null()),
	fx.F("dati_contratto", fx.NestedList(DatiContratto).Null()),
	fx.F("dati_convenzione", fx.NestedList(DatiConvenzione).Null()),
	fx.F("dati_ricezione", fx.NestedList(DatiRicezione).Null()),
	fx.F("dati_fatture_collegate", fx.NestedList(DatiFattureCollegate).Null()),
	fx.F("dati_ddt", fx.NestedList(DatiDDT).Null()),
	fx.F("dati_trasporto", fx.Nested(DatiTrasporto).Null()),
	fx.F("fattura_principale", fx.Nested(FatturaPrincipale).Null()),
).OnValidate(func(m *fx.Model, v *fx.Validation) {
	var earliest time.Time
	found := false
	for _, dfc := range m.SubList("dati_fatture_collegate") {
		if d, ok := dfc.Date("data"); ok && (!found || d.Before(earliest)) {
			earliest = d
			found = true
		}
	}
	if !found {
		return
	}
	dgd := m.Sub("dati_generali_documento")
	if dgd == nil {
		return
	}
	if data, ok := dgd.Date("data"); ok && data.Before(earliest) {
		v.AddErrorCode("00418", "dati_generali_documento.data is earlier than dati_fatture_collegate.data",
			DatiFattureCollegate.Field("data"), DatiGeneraliDocumento.Field("data"))
	}
})

var DettaglioPagamento = fx.NewSchema("DettaglioPagamento",
	fx.F("beneficiario", fx.String().MaxLen(200).Null()),
	fx.F("modalita_pagamento", fx.String().Len(4).Choices(ModalitaPagamento...)),
	fx.F("data_riferimento_termini_pagamento", fx.Date().Null()),
	fx.F("giorni_termini_pagamento", fx.Integer().MaxDigits(3).Null()),
	fx.F("data_scadenza_pagamento", fx.Date().Null()),
	fx.F("importo_pagamento", fx.Decimal().MaxDigits(15)),
	fx.F("cod_ufficio_postale", fx.String().MaxLen(20).Null()),
	fx.F("cognome_quietanzante", fx.String().MaxLen(60).Null()),
	fx.F("nome_quietanzante", fx.String().MaxLen(60).Null()),
	fx.F("cf_quietanzante", fx.String().MaxLen(16).Null().Tag("CFQuietanzante")),
	fx.F("titolo_quietanzante", fx.String().MinLen(2).MaxLen(10).Null()),
	fx.F("istituto_finanziario", fx.String().MaxLen(80).Null()),
	fx.F("iban", fx.String().MinLen(15).MaxLen(34).Null().Tag("IBAN")),
	fx.F("abi", fx.String().Len(5).Null().Tag("ABI")),
	fx.F("cab", fx.String().Len(5).Null().Tag("CAB")),
	fx.F("bic", fx.String().MinLen(8).MaxLen(11).Null().Tag("BIC")),
	fx.F("sconto_pagamento_anticipato", fx.Decimal().MaxDigits(15).Null()),
	fx.F("data_limite_pagamento_anticipato", fx.Date().Null()),
	fx.F("penalita_pagamenti_ritardati", fx.Decimal().MaxDigits(15).Null()),
	fx.F("data_decorrenza_penale", fx.Date().Null()),
	fx.F("codice_pagamento", fx.String().MaxLen(60).Null()),
)

var DatiPagamento = fx.NewSchema("DatiPagamento",
	fx.F("condizioni_pagamento", fx.String().Len(4).Choices("TP01", "TP02", "TP03")),
	fx.F("dettaglio_pagamento", fx.NestedList(DettaglioPagamento)),
)

var Allegati = fx.NewSchema("Allegati",
	fx.F("nome_attachment", fx.String().MaxLen(60)),
	fx.F("algoritmo_compressione", fx.String().MaxLen(10).Null()),
	fx.F("formato_attachment", fx.String().MaxLen(10).Null()),
	fx.F("descrizione_attachment", fx.String().MaxLen(100).Null()),
	fx.F("attachment", fx.Base64Binary()),
)

var DatiVeicoli = fx.NewSchema("DatiVeicoli",
	fx.F("data", fx.Date()),
	fx.F("totale_percorso", fx.String().MaxLen(15)),
)

var FatturaElettronicaBody = fx.NewSchema("FatturaElettronicaBody",
	fx.F("dati_generali", fx.Nested(DatiGenerali)),
	fx.F("dati_beni_servizi", fx.Nested(DatiBeniServizi)),
	fx.F("dati_veicoli", fx.Nested(DatiVeicoli).Null()),
	fx.F("dati_pagamento", fx.NestedList(DatiPagamento).Null()),
	fx.F("allegati", fx.NestedList(Allegati).Null()),
).OnValidate(func(m *fx.Model, v *fx.Validation) {
	dbs := m.Sub("dati_beni_servizi")
	dg := m.Sub("dati_generali")
	if dbs == nil || dg == nil {
		return
	}
	dgd := dg.Sub("dati_generali_documento")
	if dgd == nil {
		return
	}

	hasRitenute := false
	hasAliquoteIVA := false
	for _, dl := range dbs.SubList("dettaglio_linee") {
		if dl.Str("ritenuta") == "SI" {
			hasRitenute = true
		}
		if _, ok := dl.Dec("aliquota_iva"); ok {
			hasAliquoteIVA = true
		}
	}

	if dr := dgd.Sub("dati_ritenuta"); hasRitenute && (dr == nil || !dr.HasValue()) {
		v.AddErrorCode("00411", "field empty while at least one of dati_beni_servizi.dettaglio_linee.ritenuta is SI",
			dgd.Schema().Field("dati_ritenuta"))
	}

	for _, dcp := range dgd.SubList("dati_cassa_previdenziale") {
		if _, ok := dcp.Dec("aliquota_iva"); ok {
			hasAliquoteIVA = true
		}
	}

	if len(dbs.SubList("dati_riepilogo")) == 0 && hasAliquoteIVA {
		v.AddErrorCode("00419", "dati_riepilogo is empty while there is at least an aliquota_iva"+
			" in dettaglio_linee or dati_cassa_previdenziale",
			dbs.Schema().Field("dati_riepilogo"))
	}
})
