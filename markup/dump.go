package markup

import (
	"fmt"
	"strings"

	"lwcc/utils/debug"
)

// Dump renders tree as indented text, one node per line.
func Dump(root *Root) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "template%s", attrList(root.Attrs))
	dumpNodes(tw, root.Children, 1)
	return tw.String()
}

func dumpNodes(tw *debug.TreeWriter, nodes []Node, depth int) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *CustomElement:
			tw.Line(depth, "custom <%s>%s", n.Tag, attrList(n.Attrs))
		case *Element:
			tw.Line(depth, "<%s>%s", n.Tag, attrList(n.Attrs))
		case *Text:
			for _, p := range n.Parts {
				if p.Expr != nil {
					tw.Line(depth, "text: {%s}", p.Expr)
					continue
				}
				tw.TextBlock(depth, "text", p.Literal)
			}
		case *Iteration:
			tw.Line(depth, "iteration%s", attrList([]*Attribute{n.Each, n.Item, n.Index}))
		case *Conditional:
			tw.Line(depth, "conditional%s", attrList([]*Attribute{n.Directive}))
		case *SlotContent:
			tw.Line(depth, "slot content %q <%s>", n.SlotName(), n.Tag)
		}
		dumpNodes(tw, Children(n), depth+1)
	}
}

func attrList(attrs []*Attribute) string {
	var b strings.Builder
	for _, a := range attrs {
		if a == nil {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(a.Name)
		switch a.Kind {
		case ValueString:
			fmt.Fprintf(&b, "=%q", a.Value)
		case ValueExpression:
			fmt.Fprintf(&b, "={%s}", a.Expr)
		}
	}
	return b.String()
}
