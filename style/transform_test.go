package style_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"lwcc/common"
	"lwcc/diag"
	"lwcc/style"
)

func options(mutators ...func(*common.TransformOptions)) common.TransformOptions {
	opts := common.TransformOptions{Namespace: "x", Name: "foo"}
	for _, m := range mutators {
		m(&opts)
	}
	return opts
}

func minify(o *common.TransformOptions) { o.OutputConfig.Minify = true }

func attributeScoping(o *common.TransformOptions) {
	o.StylesheetConfig.Scoping = common.ScopingAttribute
}

func moduleResolution(o *common.TransformOptions) {
	o.StylesheetConfig.CustomProperties.Resolution = common.ModuleResolution("@customProperties")
}

func allowDefinition(o *common.TransformOptions) {
	o.StylesheetConfig.CustomProperties.AllowDefinition = true
}

func transform(t *testing.T, src string, opts common.TransformOptions) *style.Result {
	t.Helper()
	res, err := style.New(zap.NewNop()).Transform(src, "foo.css", opts)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	return res
}

// body extracts returned expression from generated module.
func body(t *testing.T, code string) string {
	t.Helper()
	const prefix = "  return "
	for _, line := range strings.Split(code, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSuffix(strings.TrimPrefix(line, prefix), ";")
		}
	}
	t.Fatalf("no return statement in:\n%s", code)
	return ""
}

func TestTransform_Module(t *testing.T) {
	got := transform(t, `div { color: red; }`, options()).Code
	want := `function stylesheet(hostSelector, shadowSelector, nativeShadow) {
  return "div" + shadowSelector + " {color: red;}\n";
}
export default stylesheet;
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transform() mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_Scoping(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts common.TransformOptions
		want string
	}{
		{
			name: "host",
			src:  `:host { color: red; }`,
			opts: options(),
			want: `(nativeShadow ? ":host {color: red;}\n" : hostSelector + " {color: red;}\n")`,
		},
		{
			name: "shadow token before first pseudo",
			src:  `.a:hover > p::before {margin: 0}`,
			opts: options(attributeScoping),
			want: `".a[x-foo]:hover > p[x-foo]::before {margin: 0;}\n"`,
		},
		{
			name: "host function and host context",
			src:  `:host(.active) .b, :host-context(.dark) {}`,
			opts: options(attributeScoping),
			want: `(nativeShadow ? ":host(.active) .b, :host-context(.dark) {}\n" : "[x-foo-host].active .b[x-foo], .dark [x-foo-host] {}\n")`,
		},
		{
			name: "media",
			src:  `@media print { a { color: red } }`,
			opts: options(),
			want: `"@media print {\na" + shadowSelector + " {color: red;}\n}\n"`,
		},
		{
			name: "keyframes are not scoped",
			src:  `@keyframes spin { from { opacity: 0 } to { opacity: 1 } }`,
			opts: options(minify),
			want: `"@keyframes spin{from{opacity:0}to{opacity:1}}"`,
		},
		{
			name: "minified rules",
			src:  "h1 { z-index: 100; }\nh2, h3 > em { z-index: 500; }",
			opts: options(minify),
			want: `"h1" + shadowSelector + "{z-index:100}h2" + shadowSelector + ",h3" + shadowSelector + ">em" + shadowSelector + "{z-index:500}"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := body(t, transform(t, tt.src, tt.opts).Code)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("stylesheet body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransform_HostOutputContainsFactory(t *testing.T) {
	code := transform(t, ":host {color: red;}\ndiv {background-color: red;}", options()).Code
	if !strings.Contains(code, "function stylesheet") {
		t.Errorf("output does not contain stylesheet factory:\n%s", code)
	}
}

func TestTransform_CustomPropertyDefinition(t *testing.T) {
	src := "div {\n  --bg-color: red;\n}"

	code := transform(t, src, options(allowDefinition)).Code
	if !strings.Contains(code, "--bg-color: red;") {
		t.Errorf("definition missing from output:\n%s", code)
	}

	_, err := style.New(zap.NewNop()).Transform(src, "foo.css", options())
	if !errors.Is(err, diag.ErrValidation) {
		t.Fatalf("Transform() error = %v, want ValidationError", err)
	}
	d, _ := diag.As(err)
	if d.Message != `Invalid definition of custom property "--bg-color".` {
		t.Errorf("message = %q", d.Message)
	}
	if d.Line != 2 || d.Column != 3 {
		t.Errorf("position = %d:%d, want 2:3", d.Line, d.Column)
	}
}

func TestTransform_Resolution(t *testing.T) {
	src := `div { color: var(--bg-color); }`

	native := transform(t, src, options()).Code
	if !strings.Contains(native, "var(--bg-color)") {
		t.Errorf("native resolution should keep var():\n%s", native)
	}
	if strings.Contains(native, "import") {
		t.Errorf("native resolution should not import resolver:\n%s", native)
	}

	for _, m := range []bool{false, true} {
		opts := options(moduleResolution)
		opts.OutputConfig.Minify = m
		code := transform(t, src, opts).Code
		if strings.Contains(code, "var(--bg-color)") {
			t.Errorf("minify=%v: var() was not rewritten:\n%s", m, code)
		}
		if !strings.Contains(code, `import varResolver from "@customProperties";`) {
			t.Errorf("minify=%v: resolver import missing:\n%s", m, code)
		}
		if !strings.Contains(code, `varResolver("--bg-color")`) {
			t.Errorf("minify=%v: resolver call missing:\n%s", m, code)
		}
	}
}

func TestTransform_ResolutionFallback(t *testing.T) {
	got := body(t, transform(t, `a { margin: var(--x, 1px var(--y)) 0; }`, options(moduleResolution, attributeScoping)).Code)
	want := `"a[x-foo] {margin: " + varResolver("--x", "1px " + varResolver("--y")) + " 0;}\n"`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stylesheet body mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts common.TransformOptions
		kind error
		msg  string
	}{
		{"parse error", `<`, options(), diag.ErrParse, "foo.css:1:1: Unknown word"},
		{"var without name", `a { color: var(red); }`, options(), diag.ErrValidation, "Invalid var() usage"},
		{"var without name in module mode", `a { color: var( , red); }`, options(moduleResolution), diag.ErrValidation, "Invalid var() usage"},
		{
			"empty resolver name", `a {}`,
			options(func(o *common.TransformOptions) {
				o.StylesheetConfig.CustomProperties.Resolution = common.ModuleResolution("")
			}),
			diag.ErrResolution, "resolver module name must not be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := style.New(zap.NewNop()).Transform(tt.src, "foo.css", tt.opts)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Transform() error = %v, want %v", err, tt.kind)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestTransform_Escaping(t *testing.T) {
	code := transform(t, `.foo { content: "x\x"; }`, options()).Code
	if !strings.Contains(code, `\"x\\x\"`) {
		t.Errorf("content was not escaped:\n%s", code)
	}

	code = transform(t, "/* `comment` */\n.a { color: red; }", options()).Code
	if strings.Contains(code, "/*") || strings.Contains(code, "comment") {
		t.Errorf("comment leaked into output:\n%s", code)
	}

	code = transform(t, ".a { content: \"it's `x` /* y */\"; }", options()).Code
	for _, want := range []string{`\/\* y \*\/`, `it\'s`, "\\`x\\`"} {
		if !strings.Contains(code, want) {
			t.Errorf("output does not contain %s:\n%s", want, code)
		}
	}
	if strings.Contains(code, "*/") || strings.Contains(code, "/*") {
		t.Errorf("comment delimiter leaked into output:\n%s", code)
	}

	// overlapping delimiters
	code = transform(t, `div { content: "/*/"; } p { content: "*/*"; }`, options()).Code
	for _, want := range []string{`\"\/\*\/\"`, `\"\*\/\*\"`} {
		if !strings.Contains(code, want) {
			t.Errorf("output does not contain %s:\n%s", want, code)
		}
	}
	if strings.Contains(code, "*/") || strings.Contains(code, "/*") {
		t.Errorf("comment delimiter leaked into output:\n%s", code)
	}
}

func TestTransform_MinifyValues(t *testing.T) {
	src := "a { font-family: Arial ,  sans-serif; margin: 0   auto; }"
	if got := transform(t, src, options(minify)).Code; !strings.Contains(got, "font-family:Arial,sans-serif;margin:0 auto}") {
		t.Errorf("minified values:\n%s", got)
	}
	if got := transform(t, src, options()).Code; !strings.Contains(got, "font-family: Arial , sans-serif; margin: 0 auto;}") {
		t.Errorf("non-minified values:\n%s", got)
	}
}

func TestTransform_ImportWarning(t *testing.T) {
	res := transform(t, `@import url("x.css"); a {}`, options())
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0].Message, "@import") {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if !strings.Contains(res.Code, `@import url(\"x.css\");`) {
		t.Errorf("@import missing from output:\n%s", res.Code)
	}
}

func TestQuote(t *testing.T) {
	for in, want := range map[string]string{
		`a"b`:   `"a\"b"`,
		`a\b`:   `"a\\b"`,
		"a'b":   `"a\'b"`,
		"a`b":   "\"a\\`b\"",
		"/*c*/": `"\/\*c\*\/"`,
		"/*/":   `"\/\*\/"`,
		"a/b*c": `"a/b*c"`,
		"l\nm":  `"l\nm"`,
	} {
		if got := style.Quote(in); got != want {
			t.Errorf("Quote(%q) = %s, want %s", in, got, want)
		}
	}
}
