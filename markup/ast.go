// Package markup parses component templates into a tree of nodes.
package markup

import (
	"strings"

	"lwcc/diag"
)

// Node is any node of the template tree.
type Node interface {
	Position() diag.Position
	node()
}

// Root is the content of the top level <template> element.
type Root struct {
	Attrs    []*Attribute
	Children []Node
	Pos      diag.Position
	Warnings []*diag.Diagnostic
}

// ValueKind tells how attribute value was written.
type ValueKind int

const (
	// ValueNone is a boolean attribute without value.
	ValueNone ValueKind = iota
	// ValueString is a quoted or unquoted literal.
	ValueString
	// ValueExpression is a {binding}.
	ValueExpression
)

// Attribute is a single attribute of an element.
type Attribute struct {
	Name  string
	Kind  ValueKind
	Value string      // decoded literal, for ValueString
	Expr  *Expression // for ValueExpression
	Pos   diag.Position
}

// IsExpression reports whether value is a binding.
func (a *Attribute) IsExpression() bool {
	return a.Kind == ValueExpression
}

// Expression is a member path binding like {item.name}.
type Expression struct {
	Path []string
	Pos  diag.Position
}

// Root returns first identifier of the path.
func (e *Expression) Root() string {
	return e.Path[0]
}

func (e *Expression) String() string {
	return strings.Join(e.Path, ".")
}

// Element is a standard HTML element, a <slot> definition or a nested
// <template> which lost its directives.
type Element struct {
	Tag      string
	Attrs    []*Attribute
	Children []Node
	Pos      diag.Position
}

// Attr returns attribute by name or nil.
func (e *Element) Attr(name string) *Attribute {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// CustomElement is an element whose tag follows namespace-name convention.
type CustomElement struct {
	Element
}

// Namespace returns part of the tag before the first dash.
func (c *CustomElement) Namespace() string {
	ns, _, _ := strings.Cut(c.Tag, "-")
	return ns
}

// Name returns part of the tag after the first dash.
func (c *CustomElement) Name() string {
	_, name, _ := strings.Cut(c.Tag, "-")
	return name
}

// TextPart is either literal text or a binding.
type TextPart struct {
	Literal string
	Expr    *Expression
}

// Text is a run of character data between tags.
type Text struct {
	Parts []TextPart
	Pos   diag.Position
}

// Iteration repeats its children for each item of the bound collection.
type Iteration struct {
	Each     *Attribute // for:each
	Item     *Attribute // for:item
	Index    *Attribute // for:index, may be nil
	// Attrs are other attributes of <template> carrying the directive.
	Attrs    []*Attribute
	Children []Node
	Pos      diag.Position
}

// Conditional renders its children when directive holds.
type Conditional struct {
	Directive *Attribute // if:true or if:false
	// Attrs are other attributes of <template> carrying the directive.
	Attrs     []*Attribute
	Children  []Node
	Pos       diag.Position
}

// Negated reports whether children render on falsy value.
func (c *Conditional) Negated() bool {
	return c.Directive.Name == DirectiveIfFalse
}

// SlotContent is a node assigned to a named (or default) slot of the
// enclosing custom element.
type SlotContent struct {
	Slot     *Attribute
	Tag      string // tag of the element carrying slot attribute
	Children []Node
	Pos      diag.Position
}

// SlotName returns assigned slot name, empty string for default slot.
func (s *SlotContent) SlotName() string {
	if s.Slot.Kind == ValueString {
		return s.Slot.Value
	}
	return ""
}

func (r *Root) Position() diag.Position { return r.Pos }
func (e *Element) Position() diag.Position { return e.Pos }
func (t *Text) Position() diag.Position { return t.Pos }
func (i *Iteration) Position() diag.Position { return i.Pos }
func (c *Conditional) Position() diag.Position { return c.Pos }
func (s *SlotContent) Position() diag.Position { return s.Pos }

func (*Root) node()        {}
func (*Element) node()     {}
func (*Text) node()        {}
func (*Iteration) node()   {}
func (*Conditional) node() {}
func (*SlotContent) node() {}

// Children returns child nodes of any container node.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Root:
		return n.Children
	case *Element:
		return n.Children
	case *CustomElement:
		return n.Children
	case *Iteration:
		return n.Children
	case *Conditional:
		return n.Children
	case *SlotContent:
		return n.Children
	default:
		return nil
	}
}

// Walk visits nodes in pre-order. Returning false from fn skips children.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Directive attribute names.
const (
	DirectiveForEach  = "for:each"
	DirectiveForItem  = "for:item"
	DirectiveForIndex = "for:index"
	DirectiveIfTrue   = "if:true"
	DirectiveIfFalse  = "if:false"
	DirectiveClassMap = "class:map"
	AttrKey           = "key"
	AttrSlot          = "slot"
	AttrClass         = "class"
	AttrStyle         = "style"
)

// IsDirective reports whether attribute name belongs to directive namespace.
func IsDirective(name string) bool {
	return strings.HasPrefix(name, "for:") || strings.HasPrefix(name, "if:") || strings.HasPrefix(name, "iterator:")
}
