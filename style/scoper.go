package style

import (
	"github.com/gosimple/slug"

	"lwcc/common"
)

// Token is how scoping selector appears in output: literal selector text or
// name of factory parameter holding it.
type Token struct {
	Literal string
	Param   string
}

func (t Token) write(o *output) {
	if t.Param != "" {
		o.expr(t.Param)
		return
	}
	o.text(t.Literal)
}

// Scoper provides selectors used to scope stylesheet to a component.
type Scoper interface {
	// Host is inserted in place of :host.
	Host() Token
	// Shadow is appended to every compound selector inside the component.
	Shadow() Token
}

// Factory parameter names of generated stylesheet function.
const (
	ParamHost   = "hostSelector"
	ParamShadow = "shadowSelector"
	ParamNative = "nativeShadow"
)

// RuntimeScoper defers scoping tokens to runtime: the engine passes them
// to the stylesheet factory.
type RuntimeScoper struct{}

func (RuntimeScoper) Host() Token   { return Token{Param: ParamHost} }
func (RuntimeScoper) Shadow() Token { return Token{Param: ParamShadow} }

// AttributeScoper bakes attribute selectors derived from component
// identity into output.
type AttributeScoper struct {
	token string
}

// NewAttributeScoper creates scoper for namespace and name.
func NewAttributeScoper(namespace, name string) *AttributeScoper {
	return &AttributeScoper{token: slug.Make(namespace + "-" + name)}
}

func (s *AttributeScoper) Host() Token   { return Token{Literal: "[" + s.token + "-host]"} }
func (s *AttributeScoper) Shadow() Token { return Token{Literal: "[" + s.token + "]"} }

// NewScoper returns scoper selected by options.
func NewScoper(opts common.TransformOptions) Scoper {
	if opts.StylesheetConfig.Scoping == common.ScopingAttribute {
		return NewAttributeScoper(opts.Namespace, opts.Name)
	}
	return RuntimeScoper{}
}
