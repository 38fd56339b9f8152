package js

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MaxWidth is the column limit used to decide whether to break lines.
	MaxWidth = 80
	// Indent is a single indentation level.
	Indent = "  "
)

// Format renders n as if printing started at column col of a line indented
// by indent levels. tail is the number of characters following n on its
// last line (closing punctuation), used for fit checks.
//
// Layout rules: non-empty objects are always broken one property per line
// with trailing commas. Calls and arrays stay on one line when they fit and
// contain nothing multi-line, otherwise every argument (element) goes on
// its own line. Arrays keep trailing comma, argument lists do not. Trailing
// function, array or object argument is hugged when preceding arguments fit.
func Format(n Node, indent, col, tail int) string {
	p := &printer{col: col}
	p.expr(n, indent, tail)
	return p.b.String()
}

type printer struct {
	b   strings.Builder
	col int
}

func (p *printer) write(s string) {
	p.b.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		p.col = width(s[i+1:])
	} else {
		p.col += width(s)
	}
}

func (p *printer) newline(indent int) {
	p.write("\n" + strings.Repeat(Indent, indent))
}

func (p *printer) fits(s string, tail int) bool {
	return p.col+width(s)+tail <= MaxWidth
}

func (p *printer) expr(n Node, indent, tail int) {
	if s, ok := flat(n); ok && p.fits(s, tail) {
		p.write(s)
		return
	}

	switch n := n.(type) {
	case *Object:
		p.object(n, indent)
	case *Array:
		p.array(n, indent)
	case *Call:
		p.call(n, indent)
	case *Function:
		p.function(n, indent)
	case *Conditional:
		p.expr(n.Test, indent, 0)
		p.newline(indent + 1)
		p.write("? ")
		p.expr(n.Then, indent+1, 0)
		p.newline(indent + 1)
		p.write(": ")
		p.expr(n.Else, indent+1, tail)
	case *Binary:
		p.expr(n.Left, indent, 0)
		p.write(" " + n.Op + " ")
		p.expr(n.Right, indent, tail)
	case *Assign:
		p.write("(" + n.Target + " = ")
		p.expr(n.Value, indent, tail+1)
		p.write(")")
	case *Paren:
		p.write("(")
		p.expr(n.X, indent, tail+1)
		p.write(")")
	default:
		// atoms do not break
		s, _ := flat(n)
		p.write(s)
	}
}

func (p *printer) object(n *Object, indent int) {
	p.write("{")
	for _, prop := range n.Props {
		p.newline(indent + 1)
		p.write(PropertyKey(prop.Key) + ": ")
		p.expr(prop.Value, indent+1, 1)
		p.write(",")
	}
	p.newline(indent)
	p.write("}")
}

func (p *printer) array(n *Array, indent int) {
	p.write("[")
	for _, item := range n.Items {
		p.newline(indent + 1)
		p.expr(item, indent+1, 1)
		p.write(",")
	}
	p.newline(indent)
	p.write("]")
}

func (p *printer) call(n *Call, indent int) {
	p.write(n.Callee + "(")
	if len(n.Args) == 0 {
		p.write(")")
		return
	}

	if opener := hugOpener(n.Args[len(n.Args)-1]); opener != "" {
		if heads, ok := flatList(n.Args[:len(n.Args)-1]); ok {
			head := strings.Join(heads, ", ")
			if head != "" {
				head += ", "
			}
			if p.fits(head+opener, 0) {
				p.write(head)
				switch last := n.Args[len(n.Args)-1].(type) {
				case *Function:
					p.function(last, indent)
				case *Array:
					p.array(last, indent)
				case *Object:
					p.object(last, indent)
				}
				p.write(")")
				return
			}
		}
	}

	for i, arg := range n.Args {
		last := i == len(n.Args)-1
		p.newline(indent + 1)
		if last {
			p.expr(arg, indent+1, 0)
		} else {
			p.expr(arg, indent+1, 1)
			p.write(",")
		}
	}
	p.newline(indent)
	p.write(")")
}

func (p *printer) function(n *Function, indent int) {
	p.write(functionHead(n))
	p.newline(indent + 1)
	p.write("return ")
	p.expr(n.Return, indent+1, 1)
	p.write(";")
	p.newline(indent)
	p.write("}")
}

// hugOpener returns opening text of argument which may be hugged by the
// call parentheses, empty string if argument cannot be hugged.
func hugOpener(n Node) string {
	switch n := n.(type) {
	case *Function:
		return functionHead(n)
	case *Array:
		if len(n.Items) > 0 {
			return "["
		}
	case *Object:
		if len(n.Props) > 0 {
			return "{"
		}
	}
	return ""
}

func functionHead(n *Function) string {
	return "function (" + strings.Join(n.Params, ", ") + ") {"
}

// flat returns single line rendering of n, false if n must be broken
// regardless of available width.
func flat(n Node) (string, bool) {
	switch n := n.(type) {
	case Ident:
		return string(n), true
	case String:
		return Quote(string(n)), true
	case Number:
		return strconv.Itoa(int(n)), true
	case Bool:
		return strconv.FormatBool(bool(n)), true
	case *Object:
		return "{}", len(n.Props) == 0
	case *Function:
		return "", false
	case *Call:
		args, ok := flatList(n.Args)
		return n.Callee + "(" + strings.Join(args, ", ") + ")", ok
	case *Array:
		items, ok := flatList(n.Items)
		return "[" + strings.Join(items, ", ") + "]", ok
	case *Binary:
		l, lok := flat(n.Left)
		r, rok := flat(n.Right)
		return l + " " + n.Op + " " + r, lok && rok
	case *Assign:
		v, ok := flat(n.Value)
		return "(" + n.Target + " = " + v + ")", ok
	case *Paren:
		x, ok := flat(n.X)
		return "(" + x + ")", ok
	case *Conditional:
		t, tok := flat(n.Test)
		a, aok := flat(n.Then)
		e, eok := flat(n.Else)
		return t + " ? " + a + " : " + e, tok && aok && eok
	}
	return "", false
}

func flatList(nodes []Node) ([]string, bool) {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, ok := flat(n)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}
