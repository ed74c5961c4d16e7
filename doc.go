// Package fatturex is a declarative field and model engine for the Italian
// electronic invoice ("fattura elettronica").
//
// A Schema is an ordered registry of named fields; a Model is one instance
// of a Schema, with every write funnelled through the field's Clean so
// stored values are always in canonical form. Business validation
// accumulates path-qualified Diagnostics instead of stopping at the first
// problem; structural problems in input data are ordinary errors.
//
// The invoice schemas themselves live in the fattura and
// fattura/semplificata packages; this package carries the mechanics they
// are built on, including XML round-tripping, plain map conversion for
// JSON and YAML, versioned document dispatch and structural diffing.
package fatturex
