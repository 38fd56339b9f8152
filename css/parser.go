package css

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"lwcc/diag"
)

// Parser parses CSS stylesheets into rule tree.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Any syntax error is returned as
// *diag.Diagnostic positioned at the first byte of the offending token.
func (p *Parser) Parse(src, filename string) (*Stylesheet, error) {
	p.log.Debug("Parsing CSS", zap.String("source", filename), zap.Int("bytes", len(src)))

	st := &state{src: src, filename: filename}
	if !utf8.ValidString(src) {
		off := 0
		for off < len(src) {
			r, size := utf8.DecodeRuneInString(src[off:])
			if r == utf8.RuneError && size == 1 {
				break
			}
			off += size
		}
		return nil, st.errorf(off, "Invalid UTF-8 sequence: 0x%02x", src[off])
	}
	if err := st.tokenize(); err != nil {
		p.log.Debug("CSS lexing error", zap.Error(err))
		return nil, err
	}
	items, err := st.items(false, false)
	if err != nil {
		p.log.Debug("CSS parse error", zap.Error(err))
		return nil, err
	}

	sheet := &Stylesheet{Items: items, src: src}
	rules := 0
	sheet.Walk(func(it Item, _ *AtRule) {
		if it.Rule != nil {
			rules++
		}
	})
	p.log.Debug("Parsed CSS", zap.String("source", filename), zap.Int("items", len(items)), zap.Int("rules", rules))
	return sheet, nil
}

// Locate converts byte offset in src to 1-based line and column.
func Locate(src string, offset int) diag.Position {
	line, col, _ := parse.Position(strings.NewReader(src), offset)
	return diag.Position{Offset: offset, Line: line, Column: col}
}

type state struct {
	src      string
	filename string
	toks     []Token
	pos      int
}

func (st *state) errorf(offset int, format string, args ...any) error {
	return diag.Parse(st.filename, Locate(st.src, offset), format, args...)
}

// tokenize runs tdewolff lexer over the whole source. Comments are checked
// for termination and dropped.
func (st *state) tokenize() error {
	l := css.NewLexer(parse.NewInputString(st.src))
	offset := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return st.errorf(offset, "Unknown word")
			}
			return nil
		}
		tok := Token{Type: tt, Text: string(data), Offset: offset}
		offset += len(data)

		switch tt {
		case css.CommentToken:
			if len(tok.Text) < 4 || !strings.HasSuffix(tok.Text, "*/") {
				return st.errorf(tok.Offset, "Unclosed comment")
			}
			continue
		case css.BadStringToken:
			return st.errorf(tok.Offset, "Unclosed string")
		case css.StringToken:
			if !closedString(tok.Text) {
				return st.errorf(tok.Offset, "Unclosed string")
			}
		case css.BadURLToken:
			return st.errorf(tok.Offset, "Unknown word")
		case css.CDOToken, css.CDCToken:
			continue
		}
		st.toks = append(st.toks, tok)
	}
}

// closedString checks that string token ends with unescaped quote.
func closedString(s string) bool {
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return false
	}
	slashes := 0
	for i := len(s) - 2; i > 0 && s[i] == '\\'; i-- {
		slashes++
	}
	return slashes%2 == 0
}

func (st *state) peek() (Token, bool) {
	if st.pos >= len(st.toks) {
		return Token{}, false
	}
	return st.toks[st.pos], true
}

func (st *state) next() (Token, bool) {
	t, ok := st.peek()
	if ok {
		st.pos++
	}
	return t, ok
}

func (st *state) skipSpace() {
	for st.pos < len(st.toks) && st.toks[st.pos].IsSpace() {
		st.pos++
	}
}

func (st *state) endOffset() int {
	return len(st.src)
}

// items parses rules and at-rules. Nested lists stop before closing brace
// which is left for the caller.
func (st *state) items(nested, keyframes bool) ([]Item, error) {
	var items []Item
	for {
		st.skipSpace()
		t, ok := st.peek()
		if !ok {
			return items, nil
		}
		switch t.Type {
		case css.RightBraceToken:
			if nested {
				return items, nil
			}
			return nil, st.errorf(t.Offset, "Unexpected }")
		case css.SemicolonToken:
			st.pos++
		case css.AtKeywordToken:
			at, err := st.atRule()
			if err != nil {
				return nil, err
			}
			items = append(items, Item{AtRule: at})
		default:
			rule, err := st.rule(keyframes)
			if err != nil {
				return nil, err
			}
			items = append(items, Item{Rule: rule})
		}
	}
}

// prelude collects tokens up to '{', ';' or '}' on bracket depth zero.
// Returned terminator is consumed; ok is false at end of input.
func (st *state) prelude() (toks []Token, term Token, ok bool, err error) {
	var open []Token
	for {
		t, more := st.next()
		if !more {
			if len(open) > 0 {
				return nil, Token{}, false, st.errorf(open[len(open)-1].Offset, "Unclosed bracket")
			}
			return toks, Token{}, false, nil
		}
		switch t.Type {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			open = append(open, t)
		case css.RightParenthesisToken, css.RightBracketToken:
			if len(open) == 0 || !closes(open[len(open)-1], t) {
				return nil, Token{}, false, st.errorf(t.Offset, "Unknown word")
			}
			open = open[:len(open)-1]
		case css.LeftBraceToken, css.SemicolonToken, css.RightBraceToken:
			if len(open) > 0 {
				return nil, Token{}, false, st.errorf(open[len(open)-1].Offset, "Unclosed bracket")
			}
			return toks, t, true, nil
		}
		toks = append(toks, t)
	}
}

func closes(open, close Token) bool {
	if close.Type == css.RightBracketToken {
		return open.Type == css.LeftBracketToken
	}
	return open.Type != css.LeftBracketToken
}

func (st *state) rule(keyframes bool) (*Rule, error) {
	pre, term, ok, err := st.prelude()
	if err != nil {
		return nil, err
	}
	pre = trimSpace(pre)
	if !ok || term.Type != css.LeftBraceToken {
		if len(pre) == 0 {
			return nil, st.errorf(term.Offset, "Unknown word")
		}
		return nil, st.errorf(pre[0].Offset, "Unknown word")
	}
	if len(pre) == 0 {
		return nil, st.errorf(term.Offset, "Missing selector")
	}

	rule := &Rule{Prelude: collapse(pre), Offset: pre[0].Offset}
	if !keyframes {
		if rule.Selectors, err = st.selectorList(pre); err != nil {
			return nil, err
		}
	}
	if rule.Declarations, err = st.declarations(term); err != nil {
		return nil, err
	}
	return rule, nil
}

func (st *state) atRule() (*AtRule, error) {
	kw, _ := st.next()
	at := &AtRule{Name: strings.ToLower(strings.TrimPrefix(kw.Text, "@")), Offset: kw.Offset}

	pre, term, ok, err := st.prelude()
	if err != nil {
		return nil, err
	}
	at.Prelude = collapse(trimSpace(pre))
	if !ok || term.Type == css.SemicolonToken {
		return at, nil
	}
	if term.Type == css.RightBraceToken {
		// statement at-rule closed by enclosing block
		st.pos--
		return at, nil
	}

	at.Block = blockKind(at.Name)
	switch at.Block {
	case BlockDeclarations:
		at.Declarations, err = st.declarations(term)
		return at, err
	default:
		if at.Items, err = st.items(true, at.Block == BlockKeyframes); err != nil {
			return nil, err
		}
		if _, ok := st.next(); !ok {
			return nil, st.errorf(term.Offset, "Unclosed block")
		}
		return at, nil
	}
}

func blockKind(name string) BlockKind {
	if strings.HasPrefix(name, "-") {
		if i := strings.IndexByte(name[1:], '-'); i >= 0 {
			name = name[i+2:]
		}
	}
	switch name {
	case "media", "supports", "document", "container", "layer", "scope", "starting-style":
		return BlockRules
	case "keyframes":
		return BlockKeyframes
	default:
		return BlockDeclarations
	}
}

// declarations parses block body after open brace up to and including the
// closing brace.
func (st *state) declarations(open Token) ([]*Declaration, error) {
	var decls []*Declaration
	for {
		st.skipSpace()
		t, ok := st.peek()
		if !ok {
			return nil, st.errorf(open.Offset, "Unclosed block")
		}
		switch t.Type {
		case css.RightBraceToken:
			st.pos++
			return decls, nil
		case css.SemicolonToken:
			st.pos++
			continue
		}
		d, err := st.declaration(open)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
}

func (st *state) declaration(open Token) (*Declaration, error) {
	name, _ := st.next()
	if name.Type != css.IdentToken && name.Type != css.CustomPropertyNameToken {
		return nil, st.errorf(name.Offset, "Unknown word")
	}
	st.skipSpace()
	colon, ok := st.next()
	if !ok {
		return nil, st.errorf(open.Offset, "Unclosed block")
	}
	if colon.Type != css.ColonToken {
		return nil, st.errorf(name.Offset, "Unknown word")
	}

	d := &Declaration{Property: name.Text, Offset: name.Offset}
	if !d.IsCustomProperty() {
		d.Property = strings.ToLower(d.Property)
	}

	var open2 []Token
	for {
		t, ok := st.peek()
		if !ok {
			if len(open2) > 0 {
				return nil, st.errorf(open2[len(open2)-1].Offset, "Unclosed bracket")
			}
			return nil, st.errorf(open.Offset, "Unclosed block")
		}
		switch t.Type {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			open2 = append(open2, t)
		case css.RightParenthesisToken, css.RightBracketToken:
			if len(open2) == 0 || !closes(open2[len(open2)-1], t) {
				return nil, st.errorf(t.Offset, "Unknown word")
			}
			open2 = open2[:len(open2)-1]
		case css.SemicolonToken, css.RightBraceToken:
			if len(open2) > 0 {
				return nil, st.errorf(open2[len(open2)-1].Offset, "Unclosed bracket")
			}
			if t.Type == css.SemicolonToken {
				st.pos++
			}
			d.Value = trimSpace(d.Value)
			return d, nil
		case css.LeftBraceToken:
			return nil, st.errorf(name.Offset, "Unknown word")
		}
		d.Value = append(d.Value, t)
		st.pos++
	}
}

// selectorList splits prelude by top level commas.
func (st *state) selectorList(toks []Token) ([]*Selector, error) {
	var out []*Selector
	depth, start := 0, 0
	for i := 0; i <= len(toks); i++ {
		if i < len(toks) {
			switch toks[i].Type {
			case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
				depth++
				continue
			case css.RightParenthesisToken, css.RightBracketToken:
				depth--
				continue
			case css.CommaToken:
				if depth > 0 {
					continue
				}
			default:
				continue
			}
		}
		part := trimSpace(toks[start:i])
		if len(part) == 0 {
			offset := st.endOffset()
			if i < len(toks) {
				offset = toks[i].Offset
			} else if i > 0 {
				offset = toks[i-1].Offset
			}
			return nil, st.errorf(offset, "Missing selector")
		}
		sel, err := st.selector(part)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
		start = i + 1
	}
	return out, nil
}

func isCombinator(t Token) bool {
	return t.IsDelim('>') || t.IsDelim('+') || t.IsDelim('~')
}

func (st *state) selector(toks []Token) (*Selector, error) {
	sel := &Selector{Offset: toks[0].Offset}
	var parts []Simple
	pending := ""
	flush := func() {
		sel.Compounds = append(sel.Compounds, Compound{Combinator: pending, Parts: parts})
		parts, pending = nil, ""
	}

	for i := 0; i < len(toks); {
		t := toks[i]
		if t.IsSpace() || isCombinator(t) {
			if len(parts) == 0 {
				return nil, st.errorf(t.Offset, "Unknown word")
			}
			comb := " "
			for ; i < len(toks) && (toks[i].IsSpace() || isCombinator(toks[i])); i++ {
				if isCombinator(toks[i]) {
					if comb != " " {
						return nil, st.errorf(toks[i].Offset, "Unknown word")
					}
					comb = toks[i].Text
				}
			}
			if i == len(toks) {
				return nil, st.errorf(t.Offset, "Unknown word")
			}
			flush()
			pending = comb
			continue
		}

		simple, next, err := st.simple(toks, i, len(parts) == 0)
		if err != nil {
			return nil, err
		}
		parts = append(parts, simple)
		i = next
	}
	flush()
	return sel, nil
}

// Pseudo elements which may be written with single colon.
var legacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

func (st *state) simple(toks []Token, i int, first bool) (Simple, int, error) {
	t := toks[i]
	switch {
	case t.Type == css.IdentToken:
		if !first {
			return Simple{}, 0, st.errorf(t.Offset, "Unknown word")
		}
		return Simple{Kind: SimpleType, Text: t.Text}, i + 1, nil

	case t.IsDelim('*'):
		if !first {
			return Simple{}, 0, st.errorf(t.Offset, "Unknown word")
		}
		return Simple{Kind: SimpleUniversal, Text: "*"}, i + 1, nil

	case t.IsDelim('&'):
		return Simple{Kind: SimpleNesting, Text: "&"}, i + 1, nil

	case t.IsDelim('.'):
		if i+1 >= len(toks) || toks[i+1].Type != css.IdentToken {
			return Simple{}, 0, st.errorf(t.Offset, "Unknown word")
		}
		return Simple{Kind: SimpleClass, Text: "." + toks[i+1].Text}, i + 2, nil

	case t.Type == css.HashToken:
		return Simple{Kind: SimpleID, Text: t.Text}, i + 1, nil

	case t.Type == css.LeftBracketToken:
		end := matching(toks, i)
		inner := trimSpace(toks[i+1 : end])
		if len(inner) == 0 {
			return Simple{}, 0, st.errorf(t.Offset, "Unknown word")
		}
		return Simple{Kind: SimpleAttribute, Text: "[" + collapse(inner) + "]"}, end + 1, nil

	case t.Type == css.ColonToken:
		prefix := ":"
		j := i + 1
		kind := SimplePseudoClass
		if j < len(toks) && toks[j].Type == css.ColonToken {
			prefix, kind = "::", SimplePseudoElement
			j++
		}
		if j >= len(toks) {
			return Simple{}, 0, st.errorf(t.Offset, "Unknown word")
		}
		nt := toks[j]
		switch nt.Type {
		case css.IdentToken:
			name := strings.ToLower(nt.Text)
			if legacyPseudoElements[name] {
				kind = SimplePseudoElement
			}
			return Simple{Kind: kind, Text: prefix + nt.Text, Name: name}, j + 1, nil
		case css.FunctionToken:
			end := matching(toks, j)
			arg := collapse(trimSpace(toks[j+1 : end]))
			return Simple{
				Kind:     kind,
				Text:     prefix + nt.Text + arg + ")",
				Name:     strings.ToLower(strings.TrimSuffix(nt.Text, "(")),
				Arg:      arg,
				Function: true,
			}, end + 1, nil
		}
		return Simple{}, 0, st.errorf(nt.Offset, "Unknown word")
	}
	return Simple{}, 0, st.errorf(t.Offset, "Unknown word")
}

// matching returns index of bracket closing the one at i. Brackets are
// known to be balanced at this point.
func matching(toks []Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].Type {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(toks) - 1
}

func trimSpace(toks []Token) []Token {
	for len(toks) > 0 && toks[0].IsSpace() {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].IsSpace() {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// collapse joins tokens replacing whitespace runs with single space.
func collapse(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		if t.IsSpace() {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(t.Text)
	}
	return b.String()
}
