package fattura

import (
	fx "github.com/reoring/fatturex"
)

// idFiscaleBinds is the country code plus identifier pair shared by the
// fiscal id schemas. Field instances cannot be shared across schemas, so
// each schema gets a fresh set.
func idFiscaleBinds() []fx.Bind {
	return []fx.Bind{
		fx.F("id_paese", fx.String().Len(2)),
		fx.F("id_codice", fx.String().MaxLen(28)),
	}
}

var (
	IdTrasmittente = fx.NewSchema("IdTrasmittente", idFiscaleBinds()...)
	IdFiscaleIVA   = fx.NewSchema("IdFiscaleIVA", idFiscaleBinds()...)
)

var ContattiTrasmittente = fx.NewSchema("ContattiTrasmittente",
	fx.F("telefono", fx.String().MinLen(5).MaxLen(12).Null()),
	fx.F("email", fx.String().MinLen(7).MaxLen(256).Null()),
)

var DatiTrasmissione = fx.NewSchema("DatiTrasmissione",
	fx.F("id_trasmittente", fx.Nested(IdTrasmittente)),
	fx.F("progressivo_invio", fx.TransmissionSequence()),
	fx.F("formato_trasmissione", fx.String().Len(5).Choices("FPR12", "FPA12")),
	fx.F("codice_destinatario", fx.String().Null().MinLen(6).MaxLen(7).Default("0000000")),
	fx.F("contatti_trasmittente", fx.Nested(ContattiTrasmittente).Null()),
	fx.F("pec_destinatario", fx.String().Null().MinLen(8).MaxLen(256).Tag("PECDestinatario")),
).OnValidate(validateDatiTrasmissione)

func validateDatiTrasmissione(m *fx.Model, v *fx.Validation) {
	s := m.Schema()
	codice := m.Get("codice_destinatario")
	pec := m.Get("pec_destinatario")
	fCodice := s.Field("codice_destinatario")
	fPec := s.Field("pec_destinatario")

	if codice == nil && pec == nil {
		v.AddError("one of codice_destinatario or pec_destinatario must be set", fCodice, fPec)
	}

	// An invoice delivered over PEC carries seven zeros as recipient code
	// and the PEC address in pec_destinatario.
	if pec == nil && m.Str("codice_destinatario") == "0000000" {
		v.AddErrorCode("00426", "pec_destinatario has no value while codice_destinatario has value 0000000", fCodice, fPec)
	}
	if pec != nil && codice != nil && m.Str("codice_destinatario") != "0000000" {
		v.AddErrorCode("00426", "pec_destinatario has value while codice_destinatario has value 0000000", fCodice, fPec)
	}

	formato := m.Str("formato_trasmissione")
	if formato == "FPA12" && len(m.Str("codice_destinatario")) == 7 {
		v.AddErrorCode("00427", "codice_destinatario has 7 characters on a Fattura PA", fCodice)
	}
	if formato == "FPR12" && len(m.Str("codice_destinatario")) == 6 {
		v.AddErrorCode("00427", "codice_destinatario has 6 characters on a Fattura Privati", fCodice)
	}
}

var Anagrafica = fx.NewSchema("Anagrafica",
	fx.F("denominazione", fx.String().MaxLen(80).Null()),
	fx.F("nome", fx.String().MaxLen(60).Null()),
	fx.F("cognome", fx.String().MaxLen(60).Null()),
	fx.F("titolo", fx.String().MinLen(2).MaxLen(10).Null()),
	fx.F("cod_eori", fx.String().Tag("CodEORI").MinLen(13).MaxLen(17).Null()),
).OnValidate(ValidateFullName)

var DatiAnagraficiCedentePrestatore = fx.NewSchema("DatiAnagraficiCedentePrestatore",
	fx.F("id_fiscale_iva", fx.Nested(IdFiscaleIVA)),
	fx.F("codice_fiscale", fx.String().MinLen(11).MaxLen(16).Null()),
	fx.F("anagrafica", fx.Nested(Anagrafica)),
	fx.F("albo_professionale", fx.String().MaxLen(60).Null()),
	fx.F("provincia_albo", fx.String().Len(2).Null()),
	fx.F("numero_iscrizione_albo", fx.String().MaxLen(60).Null()),
	fx.F("data_iscrizione_albo", fx.Date().Null()),
	fx.F("regime_fiscale", fx.String().Len(4).Choices(RegimeFiscale...)),
).Tag("DatiAnagrafici")

// indirizzoBinds is the postal address layout shared by Sede,
// StabileOrganizzazione and IndirizzoResa.
func indirizzoBinds() []fx.Bind {
	return []fx.Bind{
		fx.F("indirizzo", fx.String().MaxLen(60)),
		fx.F("numero_civico", fx.String().MaxLen(8).Null()),
		fx.F("cap", fx.String().Tag("CAP").Len(5)),
		fx.F("comune", fx.String().MaxLen(60)),
		fx.F("provincia", fx.String().Len(2).Null()),
		fx.F("nazione", fx.String().Len(2)),
	}
}

var (
	Sede                  = fx.NewSchema("Sede", indirizzoBinds()...)
	StabileOrganizzazione = fx.NewSchema("StabileOrganizzazione", indirizzoBinds()...)
	IndirizzoResa         = fx.NewSchema("IndirizzoResa", indirizzoBinds()...)
)

var IscrizioneREA = fx.NewSchema("IscrizioneREA",
	fx.F("ufficio", fx.String().Len(2)),
	fx.F("numero_rea", fx.String().Tag("NumeroREA").MaxLen(20)),
	fx.F("capitale_sociale", fx.String().MinLen(4).MaxLen(15).Null()),
	fx.F("socio_unico", fx.String().Len(2).Choices("SU", "SM").Null()),
	fx.F("stato_liquidazione", fx.String().Len(2).Choices("LS", "LN")),
)

var Contatti = fx.NewSchema("Contatti",
	fx.F("telefono", fx.String().MinLen(5).MaxLen(12).Null()),
	fx.F("fax", fx.String().MinLen(5).MaxLen(12).Null()),
	fx.F("email", fx.String().MinLen(7).MaxLen(256).Null()),
)

var CedentePrestatore = fx.NewSchema("CedentePrestatore",
	fx.F("dati_anagrafici", fx.Nested(DatiAnagraficiCedentePrestatore)),
	fx.F("sede", fx.Nested(Sede)),
	fx.F("stabile_organizzazione", fx.Nested(StabileOrganizzazione).Null()),
	fx.F("iscrizione_rea", fx.Nested(IscrizioneREA).Null()),
	fx.F("contatti", fx.Nested(Contatti).Null()),
	fx.F("riferimento_amministrazione", fx.String().MaxLen(20).Null()),
)

var DatiAnagraficiCessionarioCommittente = fx.NewSchema("DatiAnagraficiCessionarioCommittente",
	fx.F("id_fiscale_iva", fx.Nested(IdFiscaleIVA).Null()),
	fx.F("codice_fiscale", fx.String().MinLen(11).MaxLen(16).Null()),
	fx.F("anagrafica", fx.Nested(Anagrafica)),
).Tag("DatiAnagrafici").OnValidate(func(m *fx.Model, v *fx.Validation) {
	idFiscale := m.Sub("id_fiscale_iva")
	if (idFiscale == nil || !idFiscale.HasValue()) && m.Get("codice_fiscale") == nil {
		v.AddErrorCode("00417", "at least one of id_fiscale_iva and codice_fiscale needs to have a value",
			m.Schema().Field("id_fiscale_iva"), m.Schema().Field("codice_fiscale"))
	}
})

var RappresentanteFiscale = fx.NewSchema("RappresentanteFiscale",
	fx.F("id_fiscale_iva", fx.Nested(IdFiscaleIVA).Null()),
	fx.F("denominazione", fx.String().MaxLen(80).Null()),
	fx.F("nome", fx.String().MaxLen(60).Null()),
	fx.F("cognome", fx.String().MaxLen(60).Null()),
).OnValidate(ValidateFullName)

var CessionarioCommittente = fx.NewSchema("CessionarioCommittente",
	fx.F("dati_anagrafici", fx.Nested(DatiAnagraficiCessionarioCommittente)),
	fx.F("sede", fx.Nested(Sede)),
	fx.F("stabile_organizzazione", fx.Nested(StabileOrganizzazione).Null()),
	fx.F("rappresentante_fiscale", fx.Nested(RappresentanteFiscale).Null()),
)

var DatiAnagraficiRappresentante = fx.NewSchema("DatiAnagraficiRappresentante",
	fx.F("id_fiscale_iva", fx.Nested(IdFiscaleIVA)),
	fx.F("codice_fiscale", fx.String().MinLen(11).MaxLen(16).Null()),
	fx.F("anagrafica", fx.Nested(Anagrafica)),
).Tag("DatiAnagrafici")

var RappresentanteFiscaleCedentePrestatore = fx.NewSchema("RappresentanteFiscaleCedentePrestatore",
	fx.F("dati_anagrafici", fx.Nested(DatiAnagraficiRappresentante)),
).Tag("RappresentanteFiscale")

var DatiAnagraficiTerzoIntermediario = fx.NewSchema("DatiAnagraficiTerzoIntermediario",
	fx.F("id_fiscale_iva", fx.Nested(IdFiscaleIVA)),
	fx.F("codice_fiscale", fx.String().MinLen(11).MaxLen(16).Null()),
	fx.F("anagrafica", fx.Nested(Anagrafica)),
).Tag("DatiAnagrafici")

var TerzoIntermediarioOSoggettoEmittente = fx.NewSchema("TerzoIntermediarioOSoggettoEmittente",
	fx.F("dati_anagrafici", fx.Nested(DatiAnagraficiTerzoIntermediario)),
)

var FatturaElettronicaHeader = fx.NewSchema("FatturaElettronicaHeader",
	fx.F("dati_trasmissione", fx.Nested(DatiTrasmissione)),
	fx.F("cedente_prestatore", fx.Nested(CedentePrestatore)),
	fx.F("rappresentante_fiscale", fx.Nested(RappresentanteFiscaleCedentePrestatore).Null()),
	fx.F("cessionario_committente", fx.Nested(CessionarioCommittente)),
	fx.F("terzo_intermediario_o_soggetto_emittente", fx.Nested(TerzoIntermediarioOSoggettoEmittente).Null()),
	fx.F("soggetto_emittente", fx.String().Len(2).Choices("CC", "TZ").Null()),
)
