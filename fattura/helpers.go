package fattura

import (
	"fmt"
	"sort"
	"strings"

	dec "github.com/shopspring/decimal"

	fx "github.com/reoring/fatturex"
)

// FullName returns denominazione, or "nome cognome", whichever is set.
// It returns the empty string when neither is.
func FullName(m *fx.Model) string {
	if m == nil {
		return ""
	}
	if den, ok := m.Get("denominazione").(string); ok {
		return den
	}
	nome, nok := m.Get("nome").(string)
	cognome, cok := m.Get("cognome").(string)
	if nok && cok {
		return nome + " " + cognome
	}
	return ""
}

// ValidateFullName checks that nome+cognome and denominazione are mutually
// exclusive and that one of the two forms is present. It serves as the
// validate hook of every schema using that naming convention.
func ValidateFullName(m *fx.Model, v *fx.Validation) {
	s := m.Schema()
	den := m.Get("denominazione")
	nome := m.Get("nome")
	cognome := m.Get("cognome")

	if den == nil {
		switch {
		case nome == nil && cognome == nil:
			v.AddError("nome and cognome, or denominazione, must be set",
				s.Field("nome"), s.Field("cognome"), s.Field("denominazione"))
		case nome == nil:
			v.AddError("nome and cognome must both be set if denominazione is empty", s.Field("nome"))
		case cognome == nil:
			v.AddError("nome and cognome must both be set if denominazione is empty", s.Field("cognome"))
		}
		return
	}

	var extra []fx.Field
	if nome != nil {
		extra = append(extra, s.Field("nome"))
	}
	if cognome != nil {
		extra = append(extra, s.Field("cognome"))
	}
	if len(extra) > 0 {
		names := make([]string, len(extra))
		for i, f := range extra {
			names[i] = f.Name()
		}
		v.AddError(fmt.Sprintf("%s must not be set if denominazione is not empty",
			strings.Join(names, " and ")), extra...)
	}
}

// AddDettaglioLinee appends a line to dati_beni_servizi.dettaglio_linee,
// filling in numero_linea and prezzo_totale when missing. prezzo_totale is
// computed as prezzo_unitario times quantita, or prezzo_unitario alone when
// quantita is unset.
func AddDettaglioLinee(datiBeniServizi *fx.Model, values fx.V) error {
	kw := fx.V{}
	for k, val := range values {
		kw[k] = val
	}
	if _, ok := kw["numero_linea"]; !ok {
		kw["numero_linea"] = len(datiBeniServizi.SubList("dettaglio_linee")) + 1
	}
	linea, err := DettaglioLinee.New(kw)
	if err != nil {
		return err
	}
	if err := datiBeniServizi.Append("dettaglio_linee", linea); err != nil {
		return err
	}

	for _, d := range datiBeniServizi.SubList("dettaglio_linee") {
		if _, ok := d.Dec("prezzo_totale"); ok {
			continue
		}
		prezzo, ok := d.Dec("prezzo_unitario")
		if !ok {
			continue
		}
		if quantita, ok := d.Dec("quantita"); ok {
			prezzo = prezzo.Mul(quantita)
		}
		if err := d.Set("prezzo_totale", prezzo); err != nil {
			return err
		}
	}
	return nil
}

// BuildDatiRiepilogo recomputes dati_beni_servizi.dati_riepilogo from
// dettaglio_linee, replacing any existing value. Lines are grouped by
// aliquota_iva, prezzo_totale sums to imponibile_importo and the tax is
// applied on top, with esigibilita_iva set to immediate.
func BuildDatiRiepilogo(datiBeniServizi *fx.Model) error {
	type group struct {
		aliquota   dec.Decimal
		imponibile dec.Decimal
	}
	var groups []*group

	for i, linea := range datiBeniServizi.SubList("dettaglio_linee") {
		aliquota, ok := linea.Dec("aliquota_iva")
		if !ok {
			return fmt.Errorf("dettaglio_linee.%d has no aliquota_iva", i)
		}
		prezzo, ok := linea.Dec("prezzo_totale")
		if !ok {
			return fmt.Errorf("dettaglio_linee.%d has no prezzo_totale", i)
		}
		var g *group
		for _, cand := range groups {
			if cand.aliquota.Cmp(aliquota) == 0 {
				g = cand
				break
			}
		}
		if g == nil {
			g = &group{aliquota: aliquota}
			groups = append(groups, g)
		}
		g.imponibile = g.imponibile.Add(prezzo)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].aliquota.Cmp(groups[j].aliquota) < 0
	})

	riepiloghi := make([]*fx.Model, 0, len(groups))
	for _, g := range groups {
		imposta := g.imponibile.Mul(g.aliquota).Div(dec.NewFromInt(100))
		r, err := DatiRiepilogo.New(fx.V{
			"aliquota_iva":       g.aliquota,
			"imponibile_importo": g.imponibile,
			"imposta":            imposta,
			"esigibilita_iva":    "I",
		})
		if err != nil {
			return err
		}
		riepiloghi = append(riepiloghi, r)
	}
	return datiBeniServizi.Set("dati_riepilogo", riepiloghi)
}

// BuildImportoTotaleDocumento recomputes the body's
// dati_generali.dati_generali_documento.importo_totale_documento as the sum
// of imponibile_importo and imposta over dati_beni_servizi.dati_riepilogo,
// replacing any existing value.
func BuildImportoTotaleDocumento(body *fx.Model) error {
	datiBeniServizi := body.Sub("dati_beni_servizi")
	if datiBeniServizi == nil {
		return fmt.Errorf("dati_beni_servizi is not set")
	}
	totale := dec.Zero
	for i, r := range datiBeniServizi.SubList("dati_riepilogo") {
		imponibile, ok := r.Dec("imponibile_importo")
		if !ok {
			return fmt.Errorf("dati_riepilogo.%d has no imponibile_importo", i)
		}
		imposta, ok := r.Dec("imposta")
		if !ok {
			return fmt.Errorf("dati_riepilogo.%d has no imposta", i)
		}
		totale = totale.Add(imponibile).Add(imposta)
	}
	return body.SetPath(totale, "dati_generali", "dati_generali_documento", "importo_totale_documento")
}
