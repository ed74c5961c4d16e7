package fatturex

// Validation carries a dotted path prefix while walking a model tree and
// appends findings to a shared accumulator. Child handles derived with Sub
// share the accumulator with their parent.
type Validation struct {
	prefix string
	acc    *Diagnostics
}

// NewValidation returns a root handle with an empty prefix.
func NewValidation() *Validation {
	var acc Diagnostics
	return &Validation{acc: &acc}
}

// Sub derives a handle whose prefix is extended by name.
func (v *Validation) Sub(name string) *Validation {
	prefix := name
	if v.prefix != "" {
		prefix = v.prefix + "." + name
	}
	return &Validation{prefix: prefix, acc: v.acc}
}

// qualify builds the full path for a finding on the given field. A nil or
// unnamed field qualifies as the prefix alone, which is how anonymous list
// element fields report their position.
func (v *Validation) qualify(f Field) string {
	name := ""
	if f != nil {
		name = f.Name()
	}
	switch {
	case v.prefix == "":
		return name
	case name == "":
		return v.prefix
	default:
		return v.prefix + "." + name
	}
}

func (v *Validation) add(sev Severity, code, msg string, fields []Field) {
	if len(fields) == 0 {
		*v.acc = append(*v.acc, Diagnostic{Path: v.prefix, Code: code, Message: msg, Severity: sev})
		return
	}
	for _, f := range fields {
		*v.acc = append(*v.acc, Diagnostic{Path: v.qualify(f), Code: code, Message: msg, Severity: sev})
	}
}

// AddError records an error against each of the given fields.
func (v *Validation) AddError(msg string, fields ...Field) {
	v.add(SeverityError, "", msg, fields)
}

// AddErrorCode records an error carrying a published rule code.
func (v *Validation) AddErrorCode(code, msg string, fields ...Field) {
	v.add(SeverityError, code, msg, fields)
}

// AddWarning records a warning against each of the given fields.
func (v *Validation) AddWarning(msg string, fields ...Field) {
	v.add(SeverityWarning, "", msg, fields)
}

// AddWarningCode records a warning carrying a published rule code.
func (v *Validation) AddWarningCode(code, msg string, fields ...Field) {
	v.add(SeverityWarning, code, msg, fields)
}

// Diagnostics returns everything accumulated so far.
func (v *Validation) Diagnostics() Diagnostics {
	return *v.acc
}

// Errors returns the accumulated error findings.
func (v *Validation) Errors() Diagnostics {
	return v.acc.Errors()
}

// Warnings returns the accumulated warning findings.
func (v *Validation) Warnings() Diagnostics {
	return v.acc.Warnings()
}
