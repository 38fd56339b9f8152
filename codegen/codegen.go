// Package codegen produces JavaScript template modules from IR.
package codegen

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"lwcc/ir"
	"lwcc/js"
)

// Runtime API helpers and their short names in $api.
const (
	apiElement         = "api_element"
	apiText            = "api_text"
	apiCustomElement   = "api_custom_element"
	apiIterator        = "api_iterator"
	apiFlatten         = "api_flatten"
	apiDynamic         = "api_dynamic"
	apiKey             = "api_key"
	apiBind            = "api_bind"
	apiSlot            = "api_slot"
	registerTemplateFn = "registerTemplate"
)

var shortNames = map[string]string{
	apiElement:       "h",
	apiText:          "t",
	apiCustomElement: "c",
	apiIterator:      "i",
	apiFlatten:       "f",
	apiDynamic:       "d",
	apiKey:           "k",
	apiBind:          "b",
	apiSlot:          "s",
}

// Generator turns template IR into module source.
type Generator struct {
	log *zap.Logger
}

// New creates a new code generator.
func New(log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{log: log.Named("codegen")}
}

// Generate renders module. stylesheets are import specifiers of the
// template's stylesheet modules, in order.
func (g *Generator) Generate(t *ir.Template, stylesheets []string) string {
	l := &lowering{used: make(map[string]bool)}
	body := l.children(t.Children)

	var b strings.Builder
	for _, imp := range t.Imports {
		fmt.Fprintf(&b, "import %s from %s;\n", imp.Alias, js.Quote(imp.Specifier))
	}
	aliases := make([]string, 0, len(stylesheets))
	for i, s := range stylesheets {
		alias := fmt.Sprintf("_implicitStylesheet%d", i)
		aliases = append(aliases, alias)
		fmt.Fprintf(&b, "import %s from %s;\n", alias, js.Quote(s))
	}
	fmt.Fprintf(&b, "import { %s } from \"lwc\";\n\n", registerTemplateFn)

	b.WriteString("function tmpl($api, $cmp, $slotset, $ctx) {\n")
	if len(l.helpers) > 0 {
		names := make([]string, 0, len(l.helpers))
		for _, h := range l.helpers {
			names = append(names, shortNames[h]+": "+h)
		}
		b.WriteString(destructure(names, "$api"))
	}
	if len(t.HandlerCache) > 0 {
		b.WriteString(destructure(t.HandlerCache, "$ctx"))
	}
	b.WriteString(js.Indent + "return " + js.Format(body, 1, len(js.Indent)+len("return "), 1) + ";\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "export default %s(tmpl);\n", registerTemplateFn)
	fmt.Fprintf(&b, "tmpl.stylesheets = [%s];\n", strings.Join(aliases, ", "))

	g.log.Debug("Generated template module",
		zap.Strings("helpers", l.helpers),
		zap.Int("imports", len(t.Imports)),
		zap.Int("stylesheets", len(stylesheets)))
	return b.String()
}

// destructure renders const { a, b } = from; breaking it when too wide.
func destructure(names []string, from string) string {
	line := js.Indent + "const { " + strings.Join(names, ", ") + " } = " + from + ";"
	if len(line) <= js.MaxWidth {
		return line + "\n"
	}
	var b strings.Builder
	b.WriteString(js.Indent + "const {\n")
	for _, n := range names {
		b.WriteString(js.Indent + js.Indent + n + ",\n")
	}
	b.WriteString(js.Indent + "} = " + from + ";\n")
	return b.String()
}

// lowering converts IR to JavaScript expressions recording helpers in the
// order of first use. Children are always lowered before their parent.
type lowering struct {
	helpers []string
	used    map[string]bool
}

func (l *lowering) use(helper string) string {
	if !l.used[helper] {
		l.used[helper] = true
		l.helpers = append(l.helpers, helper)
	}
	return helper
}

// children lowers sibling list, splicing fragments with api_flatten.
func (l *lowering) children(nodes []ir.Node) js.Node {
	items := make([]js.Node, 0, len(nodes))
	fragment := false
	for _, n := range nodes {
		items = append(items, l.node(n))
		fragment = fragment || ir.IsFragment(n)
	}
	arr := js.ArrayOf(items...)
	if fragment {
		return js.CallOf(l.use(apiFlatten), arr)
	}
	return arr
}

func (l *lowering) node(n ir.Node) js.Node {
	switch n := n.(type) {
	case *ir.Text:
		return l.text(n)
	case *ir.Element:
		return l.element(n)
	case *ir.Iteration:
		return l.iteration(n)
	case *ir.Conditional:
		return l.conditional(n)
	}
	panic(fmt.Sprintf("unexpected IR node %T", n))
}

func (l *lowering) text(n *ir.Text) js.Node {
	var value js.Node
	for _, p := range n.Parts {
		var part js.Node
		if p.Expr != nil {
			part = js.CallOf(l.use(apiDynamic), js.Ident(p.Expr.String()))
		} else {
			part = js.String(p.Literal)
		}
		if value == nil {
			value = part
		} else {
			value = &js.Binary{Left: value, Op: "+", Right: part}
		}
	}
	if value == nil {
		value = js.String("")
	}
	return js.CallOf(l.use(apiText), value)
}

func (l *lowering) element(el *ir.Element) js.Node {
	children := l.children(el.Children)
	data := l.data(el)

	switch el.Kind {
	case ir.KindCustom:
		return js.CallOf(l.use(apiCustomElement), js.String(el.Tag), js.Ident(el.Component.Alias), data, children)
	case ir.KindSlot:
		return js.CallOf(l.use(apiSlot), js.String(el.SlotName), data, children, js.Ident("$slotset"))
	default:
		return js.CallOf(l.use(apiElement), js.String(el.Tag), data, children)
	}
}

func (l *lowering) data(el *ir.Element) *js.Object {
	data := &js.Object{}

	switch {
	case len(el.ClassNames) > 0:
		classes := &js.Object{}
		for _, c := range el.ClassNames {
			classes.Add(c, js.Bool(true))
		}
		data.Add("classMap", classes)
	case el.ClassName != nil:
		data.Add("className", js.Ident(el.ClassName.String()))
	case el.ClassMap != nil:
		data.Add("classMap", js.Ident(el.ClassMap.String()))
	}

	if el.Style != nil {
		data.Add("style", attrValue(*el.Style))
	}

	if len(el.Attrs) > 0 {
		attrs := &js.Object{}
		for _, a := range el.Attrs {
			attrs.Add(a.Name, attrValue(a.Value))
		}
		data.Add("attrs", attrs)
	}

	if len(el.Props) > 0 {
		props := &js.Object{}
		for _, p := range el.Props {
			props.Add(p.Name, propValue(p.Value))
		}
		data.Add("props", props)
	}

	switch {
	case el.KeyExpr != nil:
		data.Add("key", js.CallOf(l.use(apiKey), js.Number(el.Key), js.Ident(el.KeyExpr.String())))
	case el.ItemIndex != "":
		data.Add("key", js.CallOf(l.use(apiKey), js.Number(el.Key), js.Ident(el.ItemIndex)))
	default:
		data.Add("key", js.Number(el.Key))
	}

	if len(el.Handlers) > 0 {
		on := &js.Object{}
		for _, h := range el.Handlers {
			bound := js.CallOf(l.use(apiBind), js.Ident(h.Method.String()))
			if h.Cache == "" {
				on.Add(h.Event, bound)
				continue
			}
			on.Add(h.Event, &js.Binary{
				Left:  js.Ident(h.Cache),
				Op:    "||",
				Right: &js.Assign{Target: "$ctx." + h.Cache, Value: bound},
			})
		}
		data.Add("on", on)
	}
	return data
}

func (l *lowering) iteration(it *ir.Iteration) js.Node {
	var body js.Node
	multi := len(it.Children) != 1 || ir.IsFragment(it.Children[0])
	if multi {
		body = l.children(it.Children)
	} else {
		body = l.node(it.Children[0])
	}

	call := js.CallOf(l.use(apiIterator),
		&js.Binary{Left: js.Ident(it.Collection.String()), Op: "??", Right: js.ArrayOf()},
		&js.Function{Params: []string{it.Item, it.Index}, Return: body},
	)
	if multi {
		return js.CallOf(l.use(apiFlatten), call)
	}
	return call
}

func (l *lowering) conditional(c *ir.Conditional) js.Node {
	nodes := l.children(c.Children)
	then, otherwise := nodes, js.Node(js.ArrayOf())
	if c.Negated {
		then, otherwise = otherwise, then
	}
	return &js.Conditional{Test: js.Ident(c.Test.String()), Then: then, Else: otherwise}
}

func attrValue(v ir.Value) js.Node {
	switch {
	case v.Expr != nil:
		return js.Ident(v.Expr.String())
	case v.Boolean:
		return js.String("")
	default:
		return js.String(v.Static)
	}
}

func propValue(v ir.Value) js.Node {
	if v.Boolean {
		return js.Bool(true)
	}
	return attrValue(v)
}
