package fattura

import "fmt"

// Namespaces of the exchange format. NS is the ordinary invoice, NS10 the
// simplified one, NSSig the enveloped XML signature.
const (
	NS    = "http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2"
	NS10  = "http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.0"
	NSSig = "http://www.w3.org/2000/09/xmldsig#"
)

// NaturaIVA lists the published classification codes for operations
// outside the ordinary VAT regime, subcodes included. See the AdE
// compilation guide, version 1.6 (2022-02-04), page 26.
var NaturaIVA = []string{
	"N1",
	"N2",
	"N2.1", // non soggette ad IVA ai sensi degli artt. da 7 a 7-septies del D.P.R. n. 633/72
	"N2.2", // non soggette - altri casi
	"N3",
	"N3.1", // non imponibili - esportazioni
	"N3.2", // non imponibili - cessioni intracomunitarie
	"N3.3", // non imponibili - cessioni verso San Marino
	"N3.4", // non imponibili - operazioni assimilate alle cessioni all'esportazione
	"N3.5", // non imponibili - a seguito di dichiarazioni d'intento
	"N3.6", // non imponibili - altre operazioni
	"N4",
	"N5",
	"N6",
	"N6.1", // inversione contabile - cessione di rottami e altri materiali di recupero
	"N6.2", // inversione contabile - cessione di oro e argento
	"N6.3", // inversione contabile - subappalto nel settore edile
	"N6.4", // inversione contabile - cessione di fabbricati
	"N6.5", // inversione contabile - cessione di telefoni cellulari
	"N6.6", // inversione contabile - cessione di prodotti elettronici
	"N6.7", // inversione contabile - prestazioni comparto edile e settori connessi
	"N6.8", // inversione contabile - operazioni settore energetico
	"N6.9", // inversione contabile - altri casi
	"N7",
}

// TipoDocumento lists the published document type codes, including the
// ones only valid for cross-border reporting.
var TipoDocumento = []string{
	"TD01", // fattura
	"TD02", // acconto/anticipo su fattura
	"TD03", // acconto/anticipo su parcella
	"TD04", // nota di credito
	"TD05", // nota di debito
	"TD06", // parcella
	"TD07", // fattura semplificata
	"TD08", // nota di credito semplificata
	"TD09", // nota di debito semplificata
	"TD16", // integrazione fattura da reverse charge interno
	"TD17", // integrazione/autofattura per acquisto servizi dall'estero
	"TD18", // integrazione per acquisto di beni intracomunitari
	"TD19", // integrazione/autofattura per acquisto di beni ex art. 17 c.2 D.P.R. 633/72
	"TD20", // autofattura per regolarizzazione e integrazione delle fatture
	"TD21", // autofattura per splafonamento
	"TD22", // estrazione beni da deposito IVA
	"TD23", // estrazione beni da deposito IVA con versamento dell'IVA
	"TD24", // fattura differita ex art. 21 c.4 lett. a) D.P.R. 633/72
	"TD25", // fattura differita ex art. 21 c.4 lett. b) D.P.R. 633/72
	"TD26", // cessione di beni ammortizzabili e per passaggi interni
	"TD27", // fattura per autoconsumo o per cessioni gratuite senza rivalsa
}

// RegimeFiscale lists the seller's fiscal regime codes. RF03 was retired.
var RegimeFiscale = []string{
	"RF01", "RF02", "RF04", "RF05", "RF06", "RF07", "RF08", "RF09",
	"RF10", "RF11", "RF12", "RF13", "RF14", "RF15", "RF16", "RF17",
	"RF18", "RF19",
}

// numbered builds code lists like TC01..TC22.
func numbered(prefix string, n int) []string {
	res := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		res = append(res, fmt.Sprintf("%s%02d", prefix, i))
	}
	return res
}

// TipoCassa lists the welfare fund codes.
var TipoCassa = numbered("TC", 22)

// ModalitaPagamento lists the payment method codes.
var ModalitaPagamento = numbered("MP", 22)
