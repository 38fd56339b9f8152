// Package diag defines diagnostics produced by both compilation pipelines.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// KindParse reports markup or CSS syntax failures. Always carries a position.
	KindParse Kind = iota
	// KindValidation reports syntactically valid input with invalid semantics.
	KindValidation
	// KindResolution reports import or module references which cannot be resolved.
	KindResolution
)

var (
	ErrParse      = errors.New("parse error")
	ErrValidation = errors.New("validation error")
	ErrResolution = errors.New("resolution error")
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindValidation:
		return "ValidationError"
	case KindResolution:
		return "ResolutionError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindParse:
		return ErrParse
	case KindValidation:
		return ErrValidation
	default:
		return ErrResolution
	}
}

// Position is a 1-based location in the source. Zero Line means unknown.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether position points somewhere in the source.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Diagnostic is both a report and the rejection value of a failed transform.
type Diagnostic struct {
	Kind     Kind
	Filename string
	Line     int
	Column   int
	Message  string
}

// New creates diagnostic of requested kind at position.
func New(kind Kind, filename string, pos Position, format string, args ...any) *Diagnostic {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Diagnostic{
		Kind:     kind,
		Filename: filename,
		Line:     pos.Line,
		Column:   pos.Column,
		Message:  msg,
	}
}

// Parse is a shortcut for New(KindParse, ...).
func Parse(filename string, pos Position, format string, args ...any) *Diagnostic {
	return New(KindParse, filename, pos, format, args...)
}

// Validation is a shortcut for New(KindValidation, ...).
func Validation(filename string, pos Position, format string, args ...any) *Diagnostic {
	return New(KindValidation, filename, pos, format, args...)
}

// Resolution is a shortcut for New(KindResolution, ...).
func Resolution(filename string, pos Position, format string, args ...any) *Diagnostic {
	return New(KindResolution, filename, pos, format, args...)
}

// Position returns location of the diagnostic.
func (d *Diagnostic) Position() Position {
	return Position{Line: d.Line, Column: d.Column}
}

// Error renders "filename:line:column: message", dropping the parts which are unknown.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	if d.Filename != "" {
		b.WriteString(d.Filename)
		b.WriteByte(':')
	}
	if d.Line > 0 {
		fmt.Fprintf(&b, "%d:%d:", d.Line, d.Column)
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(d.Message)
	return b.String()
}

// Is makes errors.Is(err, diag.ErrParse) and friends work.
func (d *Diagnostic) Is(target error) bool {
	return target == d.Kind.sentinel()
}

// As extracts diagnostic from the error chain.
func As(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
