// Package style transforms component stylesheets into JavaScript modules
// exporting scoped stylesheet factory.
package style

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"lwcc/common"
	"lwcc/css"
	"lwcc/diag"
	"lwcc/js"
)

// Result is generated stylesheet module.
type Result struct {
	Code     string
	Warnings []*diag.Diagnostic
}

// Transformer runs stylesheet pipeline: parse, custom property policy,
// scoping and var() resolution, serialization.
type Transformer struct {
	log    *zap.Logger
	parser *css.Parser
}

// New creates a new stylesheet transformer.
func New(log *zap.Logger) *Transformer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transformer{log: log.Named("style"), parser: css.NewParser(log)}
}

// Transform compiles stylesheet source. Resolution mode is applied the same
// way regardless of minification.
func (t *Transformer) Transform(src, filename string, opts common.TransformOptions) (*Result, error) {
	cp := opts.StylesheetConfig.CustomProperties
	module := cp.Resolution.Type == common.ResolutionTypeModule
	if module && strings.TrimSpace(cp.Resolution.Name) == "" {
		return nil, diag.Resolution(filename, diag.Position{}, "Custom property resolver module name must not be empty")
	}

	sheet, err := t.parser.Parse(src, filename)
	if err != nil {
		return nil, err
	}
	if err := checkCustomProperties(sheet, filename, cp.AllowDefinition); err != nil {
		return nil, err
	}

	minify := opts.OutputConfig.Minify
	p := &printer{
		scoper:   NewScoper(opts),
		resolver: newResolver(cp.Resolution, minify, filename, src),
		minify:   minify,
		filename: filename,
		src:      src,
	}
	body := &output{}
	if err := p.items(body, sheet.Items, false); err != nil {
		return nil, err
	}

	var b strings.Builder
	if module {
		fmt.Fprintf(&b, "import %s from %s;\n", ResolverAlias, js.Quote(cp.Resolution.Name))
	}
	fmt.Fprintf(&b, "function stylesheet(%s, %s, %s) {\n", ParamHost, ParamShadow, ParamNative)
	b.WriteString(js.Indent + "return " + body.js() + ";\n")
	b.WriteString("}\n")
	b.WriteString("export default stylesheet;\n")

	t.log.Debug("Transformed stylesheet",
		zap.String("source", filename),
		zap.Stringer("resolution", cp.Resolution.Type),
		zap.Stringer("scoping", opts.StylesheetConfig.Scoping),
		zap.Bool("minify", minify),
		zap.Int("warnings", len(p.warnings)))
	return &Result{Code: b.String(), Warnings: p.warnings}, nil
}
