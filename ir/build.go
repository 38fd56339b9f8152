package ir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lwcc/diag"
	"lwcc/markup"
)

// Builder lowers validated markup tree into IR.
type Builder struct {
	log *zap.Logger
}

// NewBuilder creates a new IR builder.
func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log.Named("ir")}
}

// Build lowers tree. Keys are assigned in pre-order starting at 0, so they
// only depend on the shape of the template.
func (b *Builder) Build(root *markup.Root, filename string) (*Template, error) {
	st := &buildState{
		filename: filename,
		bySpec:   make(map[string]*Import),
		aliases:  make(map[string]bool),
	}
	children, err := st.nodes(root.Children, "")
	if err != nil {
		return nil, err
	}
	t := &Template{Children: children, Imports: st.imports, HandlerCache: st.cache}
	b.log.Debug("Built template IR",
		zap.String("source", filename),
		zap.Int("keys", st.nextKey),
		zap.Int("imports", len(t.Imports)),
		zap.Int("handlers", len(t.HandlerCache)))
	return t, nil
}

type buildState struct {
	filename string
	nextKey  int
	imports  []*Import
	bySpec   map[string]*Import
	aliases  map[string]bool
	cache    []string
	// names bound by enclosing iterations
	scope []string
	// generated index names of enclosing iterations, not visible to bindings
	hidden []string
}

// nodes lowers siblings. itemIndex is non-empty when siblings are produced
// directly by iteration callback.
func (st *buildState) nodes(in []markup.Node, itemIndex string) ([]Node, error) {
	var out []Node
	for _, n := range in {
		switch n := n.(type) {
		case *markup.SlotContent:
			// slot attribute stays on the element itself
			lowered, err := st.nodes(n.Children, itemIndex)
			if err != nil {
				return nil, err
			}
			out = append(out, lowered...)

		case *markup.Text:
			out = append(out, st.text(n))

		case *markup.Iteration:
			it, err := st.iteration(n)
			if err != nil {
				return nil, err
			}
			out = append(out, it)

		case *markup.Conditional:
			children, err := st.nodes(n.Children, itemIndex)
			if err != nil {
				return nil, err
			}
			out = append(out, &Conditional{
				Test:     st.ref(n.Directive.Expr),
				Negated:  n.Negated(),
				Children: children,
			})

		case *markup.CustomElement:
			imp, err := st.resolve(n)
			if err != nil {
				return nil, err
			}
			el, err := st.element(&n.Element, KindCustom, itemIndex)
			if err != nil {
				return nil, err
			}
			el.Component = imp
			out = append(out, el)

		case *markup.Element:
			kind := KindElement
			if n.Tag == "slot" {
				kind = KindSlot
			}
			el, err := st.element(n, kind, itemIndex)
			if err != nil {
				return nil, err
			}
			out = append(out, el)
		}
	}
	return out, nil
}

func (st *buildState) element(src *markup.Element, kind ElementKind, itemIndex string) (*Element, error) {
	el := &Element{Kind: kind, Tag: src.Tag, Key: st.nextKey, ItemIndex: itemIndex}
	st.nextKey++

	for _, a := range src.Attrs {
		switch {
		case a.Name == markup.AttrClass:
			if a.IsExpression() {
				el.ClassName = st.ref(a.Expr)
			} else {
				el.ClassNames = strings.Fields(a.Value)
			}
		case a.Name == markup.DirectiveClassMap:
			el.ClassMap = st.ref(a.Expr)
		case a.Name == markup.AttrStyle:
			v := st.value(a)
			el.Style = &v
		case a.Name == markup.AttrKey:
			el.KeyExpr = st.ref(a.Expr)
		case len(a.Name) > 2 && strings.HasPrefix(a.Name, "on") && a.IsExpression():
			el.Handlers = append(el.Handlers, st.handler(a))
		case kind == KindCustom && !isGlobalAttribute(a.Name):
			el.Props = append(el.Props, Prop{Name: CamelCase(a.Name), Value: st.value(a)})
		default:
			if kind == KindSlot && a.Name == "name" {
				el.SlotName = a.Value
			}
			el.Attrs = append(el.Attrs, Prop{Name: a.Name, Value: st.value(a)})
		}
	}

	children, err := st.nodes(src.Children, "")
	if err != nil {
		return nil, err
	}
	el.Children = children
	return el, nil
}

func (st *buildState) iteration(n *markup.Iteration) (*Iteration, error) {
	it := &Iteration{Collection: st.ref(n.Each.Expr), Item: n.Item.Value}
	if n.Index != nil {
		it.Index = n.Index.Value
	} else {
		it.Index = "index"
		for i := 1; st.bound(it.Index) || slices.Contains(st.hidden, it.Index) || it.Index == it.Item; i++ {
			it.Index = "index" + strconv.Itoa(i)
		}
	}

	saved, savedHidden := len(st.scope), len(st.hidden)
	st.scope = append(st.scope, it.Item)
	if n.Index != nil {
		st.scope = append(st.scope, it.Index)
	} else {
		st.hidden = append(st.hidden, it.Index)
	}
	children, err := st.nodes(n.Children, it.Index)
	st.scope, st.hidden = st.scope[:saved], st.hidden[:savedHidden]
	if err != nil {
		return nil, err
	}
	it.Children = children
	return it, nil
}

func (st *buildState) text(n *markup.Text) *Text {
	t := &Text{}
	for _, p := range n.Parts {
		if p.Expr != nil {
			t.Parts = append(t.Parts, TextPart{Expr: st.ref(p.Expr)})
		} else {
			t.Parts = append(t.Parts, TextPart{Literal: p.Literal})
		}
	}
	return t
}

func (st *buildState) handler(a *markup.Attribute) Handler {
	h := Handler{Event: a.Name[2:], Method: st.ref(a.Expr)}
	if !h.Method.Local {
		h.Cache = fmt.Sprintf("_m%d", len(st.cache))
		st.cache = append(st.cache, h.Cache)
	}
	return h
}

func (st *buildState) value(a *markup.Attribute) Value {
	switch a.Kind {
	case markup.ValueExpression:
		return Value{Expr: st.ref(a.Expr)}
	case markup.ValueNone:
		return Value{Boolean: true}
	default:
		return Value{Static: a.Value}
	}
}

func (st *buildState) ref(e *markup.Expression) *Ref {
	return &Ref{Local: st.bound(e.Root()), Path: e.Path}
}

func (st *buildState) bound(name string) bool {
	for i := len(st.scope) - 1; i >= 0; i-- {
		if st.scope[i] == name {
			return true
		}
	}
	return false
}

// resolve maps custom element tag to its class module, ns-cmp → ns/cmp.
func (st *buildState) resolve(ce *markup.CustomElement) (*Import, error) {
	ns, name := ce.Namespace(), ce.Name()
	if ns == "" || name == "" || strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") || strings.Contains(name, "--") {
		return nil, diag.Resolution(st.filename, ce.Pos, "Unable to resolve module for <%s>: tag must be <namespace>-<name>", ce.Tag)
	}
	specifier := ns + "/" + CamelCase(name)
	if imp, ok := st.bySpec[specifier]; ok {
		return imp, nil
	}

	base := "_" + CamelCase(ce.Tag)
	alias := base
	for i := 1; st.aliases[alias]; i++ {
		alias = base + strconv.Itoa(i)
	}
	imp := &Import{Alias: alias, Specifier: specifier}
	st.aliases[alias] = true
	st.bySpec[specifier] = imp
	st.imports = append(st.imports, imp)
	return imp, nil
}

// CamelCase converts kebab-case to camelCase: foo-bar-baz → fooBarBaz.
func CamelCase(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	title := cases.Title(language.Und, cases.NoLower)
	parts := strings.Split(s, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		b.WriteString(title.String(p))
	}
	return b.String()
}

// Global HTML attributes are passed to custom elements as attributes rather
// than properties.
var globalAttributes = map[string]bool{
	"accesskey":       true,
	"contenteditable": true,
	"dir":             true,
	"draggable":       true,
	"hidden":          true,
	"id":              true,
	"lang":            true,
	"role":            true,
	"slot":            true,
	"spellcheck":      true,
	"tabindex":        true,
	"title":           true,
}

func isGlobalAttribute(name string) bool {
	return globalAttributes[name] || strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-")
}
