package style

import (
	"strings"

	"lwcc/js"
)

// piece is either literal CSS text or raw JavaScript expression.
type piece struct {
	text   string
	expr   string
	isExpr bool
}

// output accumulates stylesheet text interleaved with expressions
// (scoping parameters, resolver calls, native shadow switches).
type output struct {
	pieces []piece
}

func (o *output) text(s string) {
	if s == "" {
		return
	}
	if n := len(o.pieces); n > 0 && !o.pieces[n-1].isExpr {
		o.pieces[n-1].text += s
		return
	}
	o.pieces = append(o.pieces, piece{text: s})
}

func (o *output) expr(e string) {
	o.pieces = append(o.pieces, piece{expr: e, isExpr: true})
}

func (o *output) append(other *output) {
	for _, p := range other.pieces {
		if p.isExpr {
			o.expr(p.expr)
		} else {
			o.text(p.text)
		}
	}
}

// js renders accumulated pieces as JavaScript string concatenation.
func (o *output) js() string {
	if len(o.pieces) == 0 {
		return `""`
	}
	parts := make([]string, 0, len(o.pieces))
	for _, p := range o.pieces {
		if p.isExpr {
			parts = append(parts, p.expr)
		} else {
			parts = append(parts, Quote(p.text))
		}
	}
	return strings.Join(parts, " + ")
}

var cssStringReplacer = strings.NewReplacer(
	"'", `\'`,
	"`", "\\`",
)

// neutralizeComments escapes both characters of every "/*" and "*/" pair,
// overlapping ones like "/*/" included, so neither delimiter survives.
func neutralizeComments(s string) string {
	if !strings.Contains(s, "/*") && !strings.Contains(s, "*/") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '/' || c == '*' {
			other := byte('*')
			if c == '*' {
				other = '/'
			}
			if (i > 0 && s[i-1] == other) || (i+1 < len(s) && s[i+1] == other) {
				b.WriteByte('\\')
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Quote returns CSS text as double quoted JavaScript string literal. Besides
// regular escaping it escapes both quote kinds and backtick and neutralizes
// comment delimiters, so output can be safely embedded in any JavaScript
// string or template context.
func Quote(s string) string {
	return neutralizeComments(cssStringReplacer.Replace(js.Quote(s)))
}
