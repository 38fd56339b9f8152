package style

import (
	"lwcc/css"
	"lwcc/diag"
)

// printer serializes rule tree applying scoping and var() resolution.
type printer struct {
	scoper   Scoper
	resolver *resolver
	minify   bool
	filename string
	src      string
	warnings []*diag.Diagnostic
}

func (p *printer) newline(o *output) {
	if !p.minify {
		o.text("\n")
	}
}

func (p *printer) items(o *output, items []css.Item, keyframes bool) error {
	for _, it := range items {
		var err error
		switch {
		case it.Rule != nil:
			err = p.rule(o, it.Rule, keyframes)
		case it.AtRule != nil:
			err = p.atRule(o, it.AtRule)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) rule(o *output, r *css.Rule, keyframes bool) error {
	if keyframes {
		o.text(r.Prelude)
		return p.block(o, r.Declarations)
	}

	host := false
	for _, s := range r.Selectors {
		host = host || s.HasHost()
	}
	if !host {
		p.selectors(o, r.Selectors, true)
		return p.block(o, r.Declarations)
	}

	native, scoped := &output{}, &output{}
	p.selectors(native, r.Selectors, false)
	if err := p.block(native, r.Declarations); err != nil {
		return err
	}
	p.selectors(scoped, r.Selectors, true)
	if err := p.block(scoped, r.Declarations); err != nil {
		return err
	}
	o.expr("(" + ParamNative + " ? " + native.js() + " : " + scoped.js() + ")")
	return nil
}

func (p *printer) atRule(o *output, at *css.AtRule) error {
	o.text("@" + at.Name)
	if at.Prelude != "" {
		o.text(" " + at.Prelude)
	}

	switch at.Block {
	case css.BlockNone:
		if at.Name == "import" {
			p.warnings = append(p.warnings, diag.Validation(p.filename, css.Locate(p.src, at.Offset),
				"@import is kept as is, imported rules are not scoped"))
		}
		o.text(";")
		p.newline(o)
		return nil

	case css.BlockDeclarations:
		return p.block(o, at.Declarations)

	default:
		if p.minify {
			o.text("{")
		} else {
			o.text(" {\n")
		}
		if err := p.items(o, at.Items, at.Block == css.BlockKeyframes); err != nil {
			return err
		}
		o.text("}")
		p.newline(o)
		return nil
	}
}

// block writes declarations enclosed in braces:
// " {a: b; c: d;}\n" or "{a:b;c:d}" when minifying.
func (p *printer) block(o *output, decls []*css.Declaration) error {
	if p.minify {
		o.text("{")
	} else {
		o.text(" {")
	}
	for i, d := range decls {
		if i > 0 {
			if p.minify {
				o.text(";")
			} else {
				o.text(" ")
			}
		}
		if p.minify {
			o.text(d.Property + ":")
		} else {
			o.text(d.Property + ": ")
		}
		if err := p.resolver.value(o, d.Value); err != nil {
			return err
		}
		if !p.minify {
			o.text(";")
		}
	}
	o.text("}")
	p.newline(o)
	return nil
}

func (p *printer) selectors(o *output, sels []*css.Selector, scoped bool) {
	for i, s := range sels {
		if i > 0 {
			if p.minify {
				o.text(",")
			} else {
				o.text(", ")
			}
		}
		for j, c := range s.Compounds {
			if j > 0 {
				p.combinator(o, c.Combinator)
			}
			if scoped {
				p.compound(o, c)
				continue
			}
			for _, part := range c.Parts {
				o.text(part.Text)
			}
		}
	}
}

func (p *printer) combinator(o *output, comb string) {
	if comb == " " || p.minify {
		o.text(comb)
		return
	}
	o.text(" " + comb + " ")
}

// compound writes compound selector with scoping applied. :host becomes host
// token, :host(X) host token followed by X, :host-context(X) is X
// followed by descendant host token. Any other compound receives shadow
// token before its first pseudo.
func (p *printer) compound(o *output, c css.Compound) {
	for i, part := range c.Parts {
		if part.Kind != css.SimplePseudoClass {
			continue
		}
		switch {
		case part.Name == "host":
			p.scoper.Host().write(o)
			if part.Function {
				o.text(part.Arg)
			}
		case part.Name == "host-context" && part.Function:
			o.text(part.Arg + " ")
			p.scoper.Host().write(o)
		default:
			continue
		}
		for j, other := range c.Parts {
			if j != i {
				o.text(other.Text)
			}
		}
		return
	}

	inserted := false
	for _, part := range c.Parts {
		if !inserted && part.IsPseudo() {
			p.scoper.Shadow().write(o)
			inserted = true
		}
		o.text(part.Text)
	}
	if !inserted {
		p.scoper.Shadow().write(o)
	}
}
