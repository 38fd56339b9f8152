package diag_test

import (
	"errors"
	"fmt"
	"testing"

	"lwcc/diag"
)

func TestDiagnostic_Error(t *testing.T) {
	tests := []struct {
		name string
		d    *diag.Diagnostic
		want string
	}{
		{"full", diag.Parse("foo.css", diag.Position{Line: 1, Column: 1}, "Unknown word"), "foo.css:1:1: Unknown word"},
		{"no position", diag.Resolution("foo.html", diag.Position{}, "bad import"), "foo.html: bad import"},
		{"nothing", diag.Validation("", diag.Position{}, "oops"), "oops"},
		{"formatted", diag.Validation("a.html", diag.Position{Line: 3, Column: 7}, "attribute %q", "class"), `a.html:3:7: attribute "class"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiagnostic_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", diag.Validation("x.css", diag.Position{Line: 1, Column: 9}, "Invalid"))

	if !errors.Is(err, diag.ErrValidation) {
		t.Error("expected errors.Is to match ErrValidation")
	}
	if errors.Is(err, diag.ErrParse) {
		t.Error("did not expect errors.Is to match ErrParse")
	}

	d, ok := diag.As(err)
	if !ok {
		t.Fatal("As() failed to extract diagnostic")
	}
	if d.Kind != diag.KindValidation || d.Line != 1 || d.Column != 9 || d.Filename != "x.css" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if d.Position().String() != "1:9" {
		t.Errorf("Position() = %s", d.Position())
	}
}

func TestKind_String(t *testing.T) {
	if diag.KindParse.String() != "ParseError" || diag.KindValidation.String() != "ValidationError" || diag.KindResolution.String() != "ResolutionError" {
		t.Error("unexpected kind names")
	}
}
