package css_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"lwcc/css"
	"lwcc/diag"
)

// allRules collects all top-level rules from a stylesheet's Items.
func allRules(sheet *css.Stylesheet) []*css.Rule {
	var rules []*css.Rule
	for _, item := range sheet.Items {
		if item.Rule != nil {
			rules = append(rules, item.Rule)
		}
	}
	return rules
}

func mustParse(t *testing.T, src string) *css.Stylesheet {
	t.Helper()
	sheet, err := css.NewParser(zap.NewNop()).Parse(src, "foo.css")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return sheet
}

func TestParser_Rules(t *testing.T) {
	sheet := mustParse(t, `
/* header */
h1, .title > span { color: red; font-size: 2em !important }
div  p:hover::before{content:"x"}
`)
	rules := allRules(sheet)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}

	r := rules[0]
	var sels []string
	for _, s := range r.Selectors {
		sels = append(sels, s.String())
	}
	if diff := cmp.Diff([]string{"h1", ".title > span"}, sels); diff != "" {
		t.Errorf("selectors mismatch (-want +got):\n%s", diff)
	}
	if len(r.Declarations) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(r.Declarations))
	}
	if d := r.Declarations[1]; d.Property != "font-size" || d.RawValue() != "2em !important" {
		t.Errorf("declaration = %s: %q", d.Property, d.RawValue())
	}

	sel := rules[1].Selectors[0]
	if len(sel.Compounds) != 2 || sel.Compounds[1].Combinator != " " {
		t.Fatalf("unexpected compounds %+v", sel.Compounds)
	}
	parts := sel.Compounds[1].Parts
	if len(parts) != 3 || parts[1].Kind != css.SimplePseudoClass || parts[2].Kind != css.SimplePseudoElement {
		t.Errorf("unexpected parts %+v", parts)
	}
	if got := rules[1].Declarations[0].RawValue(); got != `"x"` {
		t.Errorf("content value = %s", got)
	}
}

func TestParser_HostSelectors(t *testing.T) {
	sheet := mustParse(t, `:host {} :host(.active) a {} :host-context(.dark) {} p {}`)
	rules := allRules(sheet)
	want := []bool{true, true, true, false}
	for i, r := range rules {
		if got := r.Selectors[0].HasHost(); got != want[i] {
			t.Errorf("rule %d HasHost() = %v, want %v", i, got, want[i])
		}
	}
	host := rules[1].Selectors[0].Compounds[0].Parts[0]
	if host.Name != "host" || !host.Function || host.Arg != ".active" {
		t.Errorf("unexpected :host() part %+v", host)
	}
}

func TestParser_AtRules(t *testing.T) {
	sheet := mustParse(t, `@charset "utf-8";
@import url("base.css");
@media screen and (min-width: 100px) {
  .a { color: red; }
  @supports (display: grid) { .b { display: grid; } }
}
@keyframes spin { from { transform: rotate(0deg); } 50% { opacity: .5 } }
@font-face { font-family: "X"; src: url(x.woff); }
`)

	var names []string
	for _, it := range sheet.Items {
		names = append(names, it.AtRule.Name)
	}
	if diff := cmp.Diff([]string{"charset", "import", "media", "keyframes", "font-face"}, names); diff != "" {
		t.Errorf("at-rules mismatch (-want +got):\n%s", diff)
	}

	media := sheet.Items[2].AtRule
	if media.Block != css.BlockRules || media.Prelude != "screen and (min-width: 100px)" {
		t.Errorf("media = %v %q", media.Block, media.Prelude)
	}
	if len(media.Items) != 2 || media.Items[1].AtRule == nil || media.Items[1].AtRule.Name != "supports" {
		t.Errorf("unexpected media items %+v", media.Items)
	}

	kf := sheet.Items[3].AtRule
	if kf.Block != css.BlockKeyframes || len(kf.Items) != 2 {
		t.Fatalf("keyframes = %v with %d items", kf.Block, len(kf.Items))
	}
	if kf.Items[1].Rule.Prelude != "50%" || kf.Items[1].Rule.Selectors != nil {
		t.Errorf("keyframe rule = %+v", kf.Items[1].Rule)
	}

	ff := sheet.Items[4].AtRule
	if ff.Block != css.BlockDeclarations || len(ff.Declarations) != 2 {
		t.Errorf("font-face = %v with %d declarations", ff.Block, len(ff.Declarations))
	}

	var visited int
	sheet.Walk(func(it css.Item, parent *css.AtRule) {
		if it.Rule != nil && parent == nil {
			t.Errorf("rule outside at-rule found")
		}
		visited++
	})
	if visited != 10 {
		t.Errorf("Walk visited %d items, want 10", visited)
	}
}

func TestParser_CustomProperties(t *testing.T) {
	sheet := mustParse(t, `:root { --Bg-Color: #fff; color: var(--Bg-Color, red); }`)
	decls := allRules(sheet)[0].Declarations
	if !decls[0].IsCustomProperty() || decls[0].Property != "--Bg-Color" {
		t.Errorf("custom property = %+v", decls[0])
	}
	if decls[1].IsCustomProperty() {
		t.Errorf("color treated as custom property")
	}
	if got := decls[1].RawValue(); got != "var(--Bg-Color, red)" {
		t.Errorf("value = %q", got)
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
		line    int
		column  int
	}{
		{"unknown word", `<`, "Unknown word", 1, 1},
		{"declaration at top level", "a {}\ncolor: red;", "Unknown word", 2, 1},
		{"unexpected brace", "a {}\n  }", "Unexpected }", 2, 3},
		{"unclosed block", "a {\n  color: red;", "Unclosed block", 1, 3},
		{"unclosed nested block", "@media print { a { color: red; }", "Unclosed block", 1, 14},
		{"unclosed string", `a { content: "abc }`, "Unclosed string", 1, 14},
		{"unclosed string at newline", "a { content: 'abc\n; }", "Unclosed string", 1, 14},
		{"unclosed bracket", `a { width: calc(100% - 2px; }`, "Unclosed bracket", 1, 12},
		{"unclosed attribute selector", `a[href { }`, "Unclosed bracket", 1, 2},
		{"unclosed comment", "a { }\n/* never ends", "Unclosed comment", 2, 1},
		{"missing selector", `{ color: red }`, "Missing selector", 1, 1},
		{"missing selector in list", `a, { color: red }`, "Missing selector", 1, 2},
		{"missing colon", `a { color red }`, "Unknown word", 1, 5},
		{"bad selector", `a..b { }`, "Unknown word", 1, 2},
		{"unicode column", "/* ü */ ü { x: y } ]", "Unknown word", 1, 20},
		{"invalid utf-8", "a {}\np { content: \"\xff\xfe\"; }", "Invalid UTF-8 sequence: 0xff", 2, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := css.NewParser(zap.NewNop()).Parse(tt.src, "foo.css")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, diag.ErrParse) {
				t.Errorf("error %v is not a ParseError", err)
			}
			d, _ := diag.As(err)
			if d.Message != tt.message {
				t.Errorf("message = %q, want %q", d.Message, tt.message)
			}
			if d.Line != tt.line || d.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", d.Line, d.Column, tt.line, tt.column)
			}
		})
	}
}

func TestParser_ErrorString(t *testing.T) {
	_, err := css.NewParser(zap.NewNop()).Parse("<", "foo.css")
	if err == nil || !strings.Contains(err.Error(), "foo.css:1:1: Unknown word") {
		t.Errorf("error = %v, want it to contain foo.css:1:1: Unknown word", err)
	}
}

func TestStylesheet_String(t *testing.T) {
	sheet := mustParse(t, `@media print { a { color: red } }`)
	want := "@media print\n  rule a\n    color: red\n"
	if diff := cmp.Diff(want, sheet.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}
