// Package fattura defines the schemas of the ordinary Italian electronic
// invoice, in its FPR12 (privati) and FPA12 (pubblica amministrazione)
// variants, together with the published cross-field rules and a few
// helpers for computing totals.
//
// The simplified invoice lives in the semplificata subpackage.
package fattura
