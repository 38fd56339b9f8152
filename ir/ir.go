// Package ir holds normalized template tree ready for code generation:
// every element carries its key, bindings are resolved against the
// iteration scope and custom elements are resolved to module imports.
package ir

import "strings"

// Template is the result of IR building.
type Template struct {
	Children []Node
	// Imports of custom element classes in order of first appearance.
	Imports []*Import
	// HandlerCache lists $ctx slots used to cache bound event handlers.
	HandlerCache []string
}

// Import is default import of custom element class.
type Import struct {
	Alias     string // e.g. _nsCmp
	Specifier string // e.g. ns/cmp
}

// Node is any IR node.
type Node interface {
	irNode()
}

// Ref is resolved member path binding.
type Ref struct {
	// Local is set when path root is bound by enclosing iteration.
	Local bool
	Path  []string
}

// String renders reference as JavaScript member expression.
func (r *Ref) String() string {
	if r.Local {
		return strings.Join(r.Path, ".")
	}
	return "$cmp." + strings.Join(r.Path, ".")
}

// Value is attribute value: static string, boolean presence or binding.
type Value struct {
	Static  string
	Boolean bool
	Expr    *Ref
}

// Prop is named value going into attrs or props.
type Prop struct {
	Name  string
	Value Value
}

// Handler is event listener bound with on<event>={method}.
type Handler struct {
	Event  string
	Method *Ref
	// Cache is $ctx slot for bound function, empty when method comes from
	// iteration scope and cannot be cached.
	Cache string
}

// ElementKind distinguishes element flavours.
type ElementKind int

const (
	KindElement ElementKind = iota
	KindCustom
	KindSlot
)

// Element is standard element, custom element or slot definition.
type Element struct {
	Kind      ElementKind
	Tag       string
	Key       int
	Component *Import // custom elements only
	SlotName  string  // <slot> only

	ClassNames []string // class="a b"
	ClassName  *Ref     // class={expr}
	ClassMap   *Ref     // class:map={expr}
	Style      *Value
	Attrs      []Prop
	Props      []Prop
	Handlers   []Handler

	// KeyExpr is explicit key={expr}.
	KeyExpr *Ref
	// ItemIndex is index variable of enclosing iteration when element is
	// produced directly by iteration callback.
	ItemIndex string

	Children []Node
}

// TextPart is either literal or binding.
type TextPart struct {
	Literal string
	Expr    *Ref
}

// Text is text node.
type Text struct {
	Parts []TextPart
}

// Static reports whether text has no bindings.
func (t *Text) Static() bool {
	for _, p := range t.Parts {
		if p.Expr != nil {
			return false
		}
	}
	return true
}

// Iteration repeats children for every item of collection.
type Iteration struct {
	Collection *Ref
	Item       string
	Index      string
	Children   []Node
}

// Conditional includes children depending on test.
type Conditional struct {
	Test     *Ref
	Negated  bool
	Children []Node
}

func (*Element) irNode()     {}
func (*Text) irNode()        {}
func (*Iteration) irNode()   {}
func (*Conditional) irNode() {}

// IsFragment reports whether node expands to a variable number of nodes.
func IsFragment(n Node) bool {
	switch n.(type) {
	case *Iteration, *Conditional:
		return true
	}
	return false
}
