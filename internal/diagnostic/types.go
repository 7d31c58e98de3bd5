package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"typeshape/internal/common"
)

// Diagnostic codes.
const (
	CodeUnsupportedType   = "UNSUPPORTED_TYPE"
	CodeConstructorTie    = "CONSTRUCTOR_TIE"
	CodeIgnoredFunc       = "IGNORED_CONSTRUCTOR"
	CodeUnknownType       = "UNKNOWN_TYPE"
	CodeDuplicateType     = "DUPLICATE_TYPE"
	CodeCycle             = "DECLARATION_CYCLE"
	CodeInvalidDefinition = "INVALID_DEFINITION"
)

// Diagnostics holds the findings of one table build.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of finding.
	Code    string
	Message string
	// Type is the ID or declared name of the type concerned, if any.
	Type string
	// Source is a file position or manifest path, if known.
	Source string
}

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typ, source string) {
	d.Errors = append(d.Errors, Diagnostic{SeverityError, code, message, typ, source})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typ, source string) {
	d.Warnings = append(d.Warnings, Diagnostic{SeverityWarning, code, message, typ, source})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typ, source string) {
	d.Infos = append(d.Infos, Diagnostic{SeverityInfo, code, message, typ, source})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge appends other's findings to d.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns every finding, errors first.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// ByCode returns the findings with the given code.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic
	for _, diag := range d.All() {
		if diag.Code == code {
			out = append(out, diag)
		}
	}

	return out
}

// Error returns a combined error from all error diagnostics, or nil.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

func (d Diagnostic) String() string {
	var prefix []string
	if d.Source != "" {
		prefix = append(prefix, d.Source)
	}

	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
