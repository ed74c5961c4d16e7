package fatturex

import (
	"errors"
	"fmt"
	"strings"
)

// Severity distinguishes blocking problems from advisory ones.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a single validation finding, qualified by the dotted path of
// the field it refers to. Code, when set, is the rule number published by the
// exchange system (for example "00426").
type Diagnostic struct {
	Path     string
	Code     string
	Message  string
	Severity Severity
}

func (d Diagnostic) String() string {
	if d.Code != "" {
		return fmt.Sprintf("%s: [%s] %s", d.Path, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

// Diagnostics is an accumulated collection of findings that implements error.
type Diagnostics []Diagnostic

// Error summarizes the first few diagnostics.
func (ds Diagnostics) Error() string {
	if len(ds) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(ds)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ds[i].String())
	}
	if len(ds) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(ds))
	}
	return b.String()
}

// Errors returns the subset with error severity.
func (ds Diagnostics) Errors() Diagnostics {
	var res Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityError {
			res = append(res, d)
		}
	}
	return res
}

// Warnings returns the subset with warning severity.
func (ds Diagnostics) Warnings() Diagnostics {
	var res Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityWarning {
			res = append(res, d)
		}
	}
	return res
}

// HasErrors reports whether at least one diagnostic is an error.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Strings renders every diagnostic, in accumulation order.
func (ds Diagnostics) Strings() []string {
	res := make([]string, len(ds))
	for i, d := range ds {
		res[i] = d.String()
	}
	return res
}

// AsDiagnostics extracts Diagnostics from err when possible.
func AsDiagnostics(err error) (Diagnostics, bool) {
	var ds Diagnostics
	if errors.As(err, &ds) {
		return ds, true
	}
	return nil, false
}
