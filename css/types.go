package css

import (
	"io"
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"lwcc/utils/debug"
)

// Token is a single lexical token with its byte offset in the source.
type Token struct {
	Type   css.TokenType
	Text   string
	Offset int
}

// IsSpace reports whether token is whitespace.
func (t Token) IsSpace() bool {
	return t.Type == css.WhitespaceToken
}

// IsDelim reports whether token is the given delimiter.
func (t Token) IsDelim(c byte) bool {
	return t.Type == css.DelimToken && len(t.Text) == 1 && t.Text[0] == c
}

// SimpleKind is kind of simple selector.
type SimpleKind int

const (
	SimpleType SimpleKind = iota
	SimpleUniversal
	SimpleClass
	SimpleID
	SimpleAttribute
	SimplePseudoClass
	SimplePseudoElement
	SimpleNesting
)

// Simple is a simple selector: div, *, .a, #b, [c=d], :hover, ::before, :not(x).
type Simple struct {
	Kind SimpleKind
	Text string // full source text with whitespace collapsed
	Name string // lowercased pseudo name without colons, e.g. "host"
	// Arg is argument of functional pseudo class, e.g. ".x" for :host(.x).
	Arg string
	// Function is set for functional pseudo classes.
	Function bool
}

// IsPseudo reports whether simple selector is pseudo class or pseudo element.
func (s Simple) IsPseudo() bool {
	return s.Kind == SimplePseudoClass || s.Kind == SimplePseudoElement
}

// Compound is a sequence of simple selectors not separated by combinators.
type Compound struct {
	// Combinator precedes compound: "" for the first one, " ", ">", "+" or "~".
	Combinator string
	Parts      []Simple
}

// Selector is a complex selector, one entry of selector list.
type Selector struct {
	Compounds []Compound
	Offset    int
}

// String renders selector with canonical spacing: descendant combinator as
// single space, other combinators surrounded by spaces.
func (s *Selector) String() string {
	var b strings.Builder
	for i, c := range s.Compounds {
		if i > 0 {
			if c.Combinator == " " {
				b.WriteByte(' ')
			} else {
				b.WriteString(" " + c.Combinator + " ")
			}
		}
		for _, p := range c.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// HasHost reports whether selector mentions :host in any form.
func (s *Selector) HasHost() bool {
	for _, c := range s.Compounds {
		for _, p := range c.Parts {
			if p.Kind == SimplePseudoClass && (p.Name == "host" || p.Name == "host-context") {
				return true
			}
		}
	}
	return false
}

// Declaration is property: value pair. Value tokens have comments removed
// and surrounding whitespace trimmed.
type Declaration struct {
	Property string
	Value    []Token
	Offset   int
}

// IsCustomProperty reports whether declaration defines custom property.
func (d *Declaration) IsCustomProperty() bool {
	return strings.HasPrefix(d.Property, "--")
}

// RawValue returns value text exactly as written (comments excluded).
func (d *Declaration) RawValue() string {
	var b strings.Builder
	for _, t := range d.Value {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Rule is a style rule. Inside @keyframes Selectors is empty and only
// Prelude (e.g. "from", "50%") is set.
type Rule struct {
	Prelude      string
	Selectors    []*Selector
	Declarations []*Declaration
	Offset       int
}

// BlockKind tells what at-rule block contains.
type BlockKind int

const (
	// BlockNone is a statement at-rule terminated by semicolon.
	BlockNone BlockKind = iota
	// BlockRules holds nested rules (@media, @supports ...).
	BlockRules
	// BlockKeyframes holds keyframe rules.
	BlockKeyframes
	// BlockDeclarations holds declarations (@font-face, @page ...).
	BlockDeclarations
)

// AtRule is @name prelude followed by ';' or a block.
type AtRule struct {
	Name         string // lowercased, without '@'
	Prelude      string // whitespace collapsed
	Block        BlockKind
	Items        []Item
	Declarations []*Declaration
	Offset       int
}

// Item is a stylesheet entry, exactly one field is set.
type Item struct {
	Rule   *Rule
	AtRule *AtRule
}

// Stylesheet is parsed CSS.
type Stylesheet struct {
	Items []Item
	src   string
}

// Source returns text stylesheet was parsed from.
func (s *Stylesheet) Source() string {
	return s.src
}

// Walk calls fn for every rule including ones nested in at-rules. parent is
// enclosing at-rule or nil.
func (s *Stylesheet) Walk(fn func(item Item, parent *AtRule)) {
	walkItems(s.Items, nil, fn)
}

func walkItems(items []Item, parent *AtRule, fn func(Item, *AtRule)) {
	for _, it := range items {
		fn(it, parent)
		if it.AtRule != nil {
			walkItems(it.AtRule.Items, it.AtRule, fn)
		}
	}
}

// WriteTo writes readable dump of the rule tree, used for debugging.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// String returns the dump produced by WriteTo.
func (s *Stylesheet) String() string {
	tw := debug.NewTreeWriter()
	dumpItems(tw, s.Items, 0)
	return tw.String()
}

func dumpItems(tw *debug.TreeWriter, items []Item, depth int) {
	for _, it := range items {
		var decls []*Declaration
		switch {
		case it.Rule != nil:
			tw.Line(depth, "rule %s", it.Rule.Prelude)
			decls = it.Rule.Declarations
		case it.AtRule != nil:
			tw.Line(depth, "@%s %s", it.AtRule.Name, it.AtRule.Prelude)
			decls = it.AtRule.Declarations
		}
		for _, d := range decls {
			tw.Line(depth+1, "%s: %s", d.Property, d.RawValue())
		}
		if it.AtRule != nil {
			dumpItems(tw, it.AtRule.Items, depth+1)
		}
	}
}
