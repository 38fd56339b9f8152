package style

import (
	"strings"

	tcss "github.com/tdewolff/parse/v2/css"

	"lwcc/common"
	"lwcc/css"
	"lwcc/diag"
)

// ResolverAlias is local name of imported custom property resolver.
const ResolverAlias = "varResolver"

// resolver writes declaration values, rewriting var() usages to resolver
// calls in module resolution mode.
type resolver struct {
	module   bool
	minify   bool
	filename string
	src      string
}

func newResolver(res common.Resolution, minify bool, filename, src string) *resolver {
	return &resolver{
		module:   res.Type == common.ResolutionTypeModule,
		minify:   minify,
		filename: filename,
		src:      src,
	}
}

// value writes value tokens to o.
func (r *resolver) value(o *output, toks []css.Token) error {
	toks = formatValue(toks, r.minify)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Type != tcss.FunctionToken || !strings.EqualFold(t.Text, "var(") {
			o.text(t.Text)
			continue
		}
		end := closing(toks, i)
		name, fallback, err := r.splitVar(t, toks[i+1:end])
		if err != nil {
			return err
		}
		if !r.module {
			o.text(joinTokens(toks[i : end+1]))
			i = end
			continue
		}

		call := ResolverAlias + "(" + Quote(name)
		if fallback != nil {
			fb := &output{}
			if err := r.value(fb, fallback); err != nil {
				return err
			}
			call += ", " + fb.js()
		}
		o.expr(call + ")")
		i = end
	}
	return nil
}

// splitVar validates var() arguments returning property name and optional
// fallback tokens.
func (r *resolver) splitVar(fn css.Token, args []css.Token) (string, []css.Token, error) {
	nameToks, fallback := args, []css.Token(nil)
	depth := 0
	for i, t := range args {
		switch t.Type {
		case tcss.FunctionToken, tcss.LeftParenthesisToken, tcss.LeftBracketToken:
			depth++
		case tcss.RightParenthesisToken, tcss.RightBracketToken:
			depth--
		case tcss.CommaToken:
			if depth == 0 && fallback == nil {
				nameToks, fallback = args[:i], trimSpace(args[i+1:])
				if fallback == nil {
					fallback = []css.Token{}
				}
			}
		}
		if fallback != nil {
			break
		}
	}
	nameToks = trimSpace(nameToks)
	if len(nameToks) != 1 || nameToks[0].Type != tcss.CustomPropertyNameToken {
		return "", nil, diag.Validation(r.filename, css.Locate(r.src, fn.Offset),
			"Invalid var() usage: expected custom property name, got %q", joinTokens(nameToks))
	}
	return nameToks[0].Text, fallback, nil
}

// formatValue collapses whitespace runs to single space. When minifying,
// whitespace around commas is removed as well.
func formatValue(toks []css.Token, minify bool) []css.Token {
	out := make([]css.Token, 0, len(toks))
	for i, t := range toks {
		if !t.IsSpace() {
			out = append(out, t)
			continue
		}
		if minify {
			prevComma := len(out) > 0 && out[len(out)-1].Type == tcss.CommaToken
			nextComma := i+1 < len(toks) && toks[i+1].Type == tcss.CommaToken
			if prevComma || nextComma {
				continue
			}
		}
		if len(out) > 0 && out[len(out)-1].IsSpace() {
			continue
		}
		t.Text = " "
		out = append(out, t)
	}
	return trimSpace(out)
}

func closing(toks []css.Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].Type {
		case tcss.FunctionToken, tcss.LeftParenthesisToken, tcss.LeftBracketToken:
			depth++
		case tcss.RightParenthesisToken, tcss.RightBracketToken:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(toks) - 1
}

func trimSpace(toks []css.Token) []css.Token {
	for len(toks) > 0 && toks[0].IsSpace() {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].IsSpace() {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func joinTokens(toks []css.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}
