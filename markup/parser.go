package markup

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"lwcc/diag"
)

// Parser turns template markup into a node tree.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new markup parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("markup")}
}

// Parse parses template source. Parsing is pure: identical source always
// yields identical tree. Any syntax error is returned as *diag.Diagnostic
// pointing to the offending construct.
func (p *Parser) Parse(src, filename string) (*Root, error) {
	p.log.Debug("Parsing template", zap.String("source", filename), zap.Int("bytes", len(src)))

	s := &scanner{src: src, filename: filename, line: 1, col: 1}
	if off := invalidUTF8(src); off >= 0 {
		for s.pos < off {
			s.advance()
		}
		return nil, s.errorf(s.mark(), "Invalid UTF-8 sequence: 0x%02x", src[off])
	}
	root, err := s.parseDocument()
	if err != nil {
		p.log.Debug("Template parse error", zap.Error(err))
		return nil, err
	}
	root.Warnings = s.warnings

	count := 0
	Walk(root, func(Node) bool { count++; return true })
	p.log.Debug("Parsed template", zap.String("source", filename), zap.Int("nodes", count), zap.Int("warnings", len(root.Warnings)))
	return root, nil
}

// invalidUTF8 returns offset of the first byte which is not a part of valid
// UTF-8 sequence, -1 when there is none.
func invalidUTF8(src string) int {
	if utf8.ValidString(src) {
		return -1
	}
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// scanner keeps cursor over source with line and column tracking.
type scanner struct {
	src      string
	filename string
	pos      int
	line     int
	col      int
	warnings []*diag.Diagnostic
}

func (s *scanner) parseDocument() (*Root, error) {
	if err := s.skipInsignificant(); err != nil {
		return nil, err
	}
	if !s.peekTag("template") {
		return nil, s.errorf(s.mark(), "Missing root template tag")
	}
	el, err := s.parseElement()
	if err != nil {
		return nil, err
	}
	if err := s.skipInsignificant(); err != nil {
		return nil, err
	}
	if !s.eof() {
		return nil, s.errorf(s.mark(), "Multiple roots found")
	}
	return &Root{Attrs: el.Attrs, Children: el.Children, Pos: el.Pos}, nil
}

// skipInsignificant skips whitespace and comments outside of the root.
func (s *scanner) skipInsignificant() error {
	for {
		s.skipSpace()
		if !s.peek("<!--") {
			return nil
		}
		if err := s.skipComment(); err != nil {
			return err
		}
	}
}

func (s *scanner) skipComment() error {
	pos := s.mark()
	s.consume("<!--")
	for !s.eof() {
		if s.consume("-->") {
			return nil
		}
		s.advance()
	}
	return s.errorf(pos, "Unterminated comment")
}

func (s *scanner) parseNodes() ([]Node, error) {
	var nodes []Node
	for !s.eof() {
		switch {
		case s.peek("<!--"):
			if err := s.skipComment(); err != nil {
				return nil, err
			}
		case s.peek("</"):
			return nodes, nil
		case s.startsTag():
			el, err := s.parseElement()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, s.classify(el))
		default:
			text, err := s.parseText()
			if err != nil {
				return nil, err
			}
			if text != nil {
				nodes = append(nodes, text)
			}
		}
	}
	return nodes, nil
}

func (s *scanner) parseElement() (*Element, error) {
	start := s.mark()
	s.advance() // <
	tag := strings.ToLower(s.readWhile(isTagNameChar))
	el := &Element{Tag: tag, Pos: start}

	seen := make(map[string]bool)
	for {
		s.skipSpace()
		if s.eof() {
			return nil, s.errorf(start, "Unterminated tag <%s>", tag)
		}
		if s.consume("/>") {
			return el, nil
		}
		if s.consume(">") {
			break
		}
		attr, err := s.parseAttribute()
		if err != nil {
			return nil, err
		}
		if seen[attr.Name] {
			return nil, s.errorf(attr.Pos, "Duplicate attribute %q on <%s>", attr.Name, tag)
		}
		seen[attr.Name] = true
		el.Attrs = append(el.Attrs, attr)
	}

	if isVoid(tag) {
		return el, nil
	}

	children, err := s.parseNodes()
	if err != nil {
		return nil, err
	}
	el.Children = children

	if s.eof() {
		return nil, s.errorf(start, "<%s> is not closed", tag)
	}
	closePos := s.mark()
	s.consume("</")
	closing := strings.ToLower(s.readWhile(isTagNameChar))
	s.skipSpace()
	if !s.consume(">") {
		return nil, s.errorf(closePos, "Unterminated closing tag </%s>", closing)
	}
	if closing != tag {
		return nil, s.errorf(closePos, "Mismatched closing tag: expected </%s> but found </%s>", tag, closing)
	}
	return el, nil
}

func (s *scanner) parseAttribute() (*Attribute, error) {
	pos := s.mark()
	name := strings.ToLower(s.readWhile(isAttrNameChar))
	if name == "" {
		return nil, s.errorf(pos, "Unexpected character %q in tag", s.src[s.pos])
	}
	attr := &Attribute{Name: name, Pos: pos}

	s.skipSpace()
	if !s.consume("=") {
		return attr, nil
	}
	s.skipSpace()

	vpos := s.mark()
	switch {
	case s.eof():
		return nil, s.errorf(vpos, "Missing value of attribute %q", name)

	case s.peek(`"`) || s.peek("'"):
		quote := s.src[s.pos]
		s.advance()
		if raw, ok := s.quotedBinding(quote); ok {
			return nil, s.errorf(vpos, "Ambiguous attribute value %s=%c%s%c: remove the quotes to bind an expression", name, quote, raw, quote)
		}
		value, err := s.readCharData(func() bool { return s.src[s.pos] == quote })
		if err != nil {
			return nil, err
		}
		if s.eof() {
			return nil, s.errorf(vpos, "Unterminated value of attribute %q", name)
		}
		s.advance()
		attr.Kind, attr.Value = ValueString, value

	case s.peek("{"):
		expr, err := s.parseExpression()
		if err != nil {
			return nil, err
		}
		attr.Kind, attr.Expr = ValueExpression, expr

	default:
		value, err := s.readCharData(func() bool {
			return isSpace(s.src[s.pos]) || s.src[s.pos] == '>' || s.peek("/>")
		})
		if err != nil {
			return nil, err
		}
		attr.Kind, attr.Value = ValueString, value
	}
	return attr, nil
}

// quotedBinding checks whether quoted value looks like {binding} without
// moving the cursor.
func (s *scanner) quotedBinding(quote byte) (string, bool) {
	end := strings.IndexByte(s.src[s.pos:], quote)
	if end < 0 {
		return "", false
	}
	raw := s.src[s.pos : s.pos+end]
	return raw, len(raw) > 1 && raw[0] == '{' && raw[len(raw)-1] == '}'
}

func (s *scanner) parseExpression() (*Expression, error) {
	pos := s.mark()
	s.advance() // {
	start := s.pos
	for !s.eof() && s.src[s.pos] != '}' {
		s.advance()
	}
	if s.eof() {
		return nil, s.errorf(pos, "Unterminated expression")
	}
	raw := strings.TrimSpace(s.src[start:s.pos])
	s.advance()

	path, ok := parsePath(raw)
	if !ok {
		return nil, s.errorf(pos, "Invalid expression {%s}: only identifiers and member expressions are supported", raw)
	}
	return &Expression{Path: path, Pos: pos}, nil
}

func (s *scanner) parseText() (*Text, error) {
	text := &Text{Pos: s.mark()}
	for !s.eof() && !s.startsMarkup() {
		if s.peek("{") {
			expr, err := s.parseExpression()
			if err != nil {
				return nil, err
			}
			text.Parts = append(text.Parts, TextPart{Expr: expr})
			continue
		}
		lit, err := s.readCharData(func() bool { return s.src[s.pos] == '{' || s.startsMarkup() })
		if err != nil {
			return nil, err
		}
		text.Parts = append(text.Parts, TextPart{Literal: lit})
	}

	for _, part := range text.Parts {
		if part.Expr != nil || strings.TrimSpace(part.Literal) != "" {
			return text, nil
		}
	}
	return nil, nil
}

// readCharData consumes characters until stop reports true, decoding
// character references on the way.
func (s *scanner) readCharData(stop func() bool) (string, error) {
	var b strings.Builder
	for !s.eof() && !stop() {
		if s.src[s.pos] == '&' {
			if ref := s.charRef(); ref != "" {
				decoded, ok := decodeCharRef(ref)
				if !ok {
					return "", s.errorf(s.mark(), "Unknown html entity %s", ref)
				}
				b.WriteString(decoded)
				s.consume(ref)
				continue
			}
		}
		b.WriteByte(s.src[s.pos])
		s.advance()
	}
	return b.String(), nil
}

// decodeCharRef decodes complete character reference. UnescapeString falls
// back to the longest legacy entity prefix ("&ampx;" gives "&x;") and leaves
// the rest with its ';' in place, so a trailing ';' means the name as a whole
// is unknown. Only "&semi;" and its numeric forms decode to ";" itself.
func decodeCharRef(ref string) (string, bool) {
	decoded := html.UnescapeString(ref)
	if strings.HasSuffix(decoded, ";") && decoded != ";" {
		return "", false
	}
	return decoded, true
}

// charRef returns "&name;" or "&#123;" at cursor, empty string when cursor
// does not look like a character reference.
func (s *scanner) charRef() string {
	i := s.pos + 1
	for i < len(s.src) && (isAlnum(s.src[i]) || (i == s.pos+1 && s.src[i] == '#')) {
		i++
	}
	if i == s.pos+1 || i >= len(s.src) || s.src[i] != ';' {
		return ""
	}
	return s.src[s.pos : i+1]
}

// classify wraps element into directive nodes and distinguishes custom
// elements. Directive attributes are removed from the element.
func (s *scanner) classify(el *Element) Node {
	each := takeAttr(el, DirectiveForEach)
	item := takeAttr(el, DirectiveForItem)
	index := takeAttr(el, DirectiveForIndex)
	cond := takeAttr(el, DirectiveIfTrue)
	if cond == nil {
		cond = takeAttr(el, DirectiveIfFalse)
	}
	slot := el.Attr(AttrSlot)
	isTemplate := el.Tag == "template"

	var node Node = el
	switch {
	case isCustomTag(el.Tag):
		node = &CustomElement{Element: *el}
	case isTemplate || el.Tag == "slot":
	case atom.Lookup([]byte(el.Tag)) == 0:
		s.warnings = append(s.warnings, diag.Validation(s.filename, el.Pos, "Unknown html tag <%s>", el.Tag))
	}

	children := []Node{node}
	var rest []*Attribute
	if isTemplate && (each != nil || item != nil || index != nil || cond != nil) {
		children = el.Children
		for _, a := range el.Attrs {
			if a.Name != AttrSlot {
				rest = append(rest, a)
			}
		}
	}
	if cond != nil {
		node = &Conditional{Directive: cond, Attrs: rest, Children: children, Pos: el.Pos}
		children = []Node{node}
	}
	if each != nil || item != nil || index != nil {
		node = &Iteration{Each: each, Item: item, Index: index, Attrs: rest, Children: children, Pos: el.Pos}
	}
	if slot != nil {
		node = &SlotContent{Slot: slot, Tag: el.Tag, Children: []Node{node}, Pos: el.Pos}
	}
	return node
}

func takeAttr(el *Element, name string) *Attribute {
	for i, a := range el.Attrs {
		if a.Name == name {
			el.Attrs = append(el.Attrs[:i:i], el.Attrs[i+1:]...)
			return a
		}
	}
	return nil
}

// Custom element names which are reserved by HTML and SVG specifications.
var reservedCustomTags = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

func isCustomTag(tag string) bool {
	return strings.Contains(tag, "-") && !reservedCustomTags[tag]
}

func isVoid(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Param, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

// parsePath splits member expression into identifiers.
func parsePath(raw string) ([]string, bool) {
	if raw == "" {
		return nil, false
	}
	path := strings.Split(raw, ".")
	for _, id := range path {
		if !isIdentifier(id) {
			return nil, false
		}
	}
	return path, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '$' || isLetter(c) || (i > 0 && isDigit(c)) {
			continue
		}
		return false
	}
	return true
}

// Cursor helpers

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek(str string) bool {
	return strings.HasPrefix(s.src[s.pos:], str)
}

func (s *scanner) peekTag(name string) bool {
	if !s.peek("<" + name) {
		return false
	}
	next := s.pos + 1 + len(name)
	return next < len(s.src) && (isSpace(s.src[next]) || s.src[next] == '>' || s.src[next] == '/')
}

func (s *scanner) startsTag() bool {
	return s.pos+1 < len(s.src) && s.src[s.pos] == '<' && isLetter(s.src[s.pos+1])
}

func (s *scanner) startsMarkup() bool {
	return s.peek("</") || s.peek("<!--") || s.startsTag()
}

func (s *scanner) consume(str string) bool {
	if !s.peek(str) {
		return false
	}
	for range len(str) {
		s.advance()
	}
	return true
}

// advance moves cursor by one byte, columns are counted in runes.
func (s *scanner) advance() {
	if s.eof() {
		return
	}
	c := s.src[s.pos]
	s.pos++
	switch {
	case c == '\n':
		s.line++
		s.col = 1
	case c&0xC0 != 0x80:
		s.col++
	}
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.advance()
	}
}

func (s *scanner) readWhile(ok func(byte) bool) string {
	start := s.pos
	for !s.eof() && ok(s.src[s.pos]) {
		s.advance()
	}
	return s.src[start:s.pos]
}

func (s *scanner) mark() diag.Position {
	return diag.Position{Offset: s.pos, Line: s.line, Column: s.col}
}

func (s *scanner) errorf(pos diag.Position, format string, args ...any) error {
	return diag.Parse(s.filename, pos, format, args...)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}

func isTagNameChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == ':' || c == '.'
}

func isAttrNameChar(c byte) bool {
	return !isSpace(c) && !strings.ContainsRune("\"'<>/={}", rune(c))
}
