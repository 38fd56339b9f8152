package compiler_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"lwcc/common"
	"lwcc/compiler"
	"lwcc/diag"
)

func options() common.TransformOptions {
	return common.TransformOptions{
		Namespace: "x",
		Name:      "foo",
		StylesheetConfig: common.StylesheetConfig{
			CustomProperties: common.CustomPropertiesConfig{Resolution: common.NativeResolution()},
		},
	}
}

func TestTransform_Template(t *testing.T) {
	c := compiler.New(zaptest.NewLogger(t))
	opts := options()
	opts.Stylesheets = []string{"./foo.css"}

	res, err := c.Transform(context.Background(), `<template>
    <section>
        <ns-cmp>
            <p slot="header">Header Slot Content</p>
            <p slot="">Default Content</p>
        </ns-cmp>
    </section>
</template>`, "foo.html", opts)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	for _, want := range []string{
		`import _nsCmp from "ns/cmp";`,
		`import _implicitStylesheet0 from "./foo.css";`,
		`import { registerTemplate } from "lwc";`,
		"function tmpl($api, $cmp, $slotset, $ctx) {",
		`const { t: api_text, h: api_element, c: api_custom_element } = $api;`,
		"export default registerTemplate(tmpl);",
		"tmpl.stylesheets = [_implicitStylesheet0];",
	} {
		if !strings.Contains(res.Code, want) {
			t.Errorf("output does not contain %q:\n%s", want, res.Code)
		}
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
}

func TestTransform_TemplateWarnings(t *testing.T) {
	c := compiler.New(zaptest.NewLogger(t))
	res, err := c.Transform(context.Background(), "<template><foo>x</foo></template>", "foo.html", options())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0].Message, "<foo>") {
		t.Errorf("Warnings = %v, want unknown tag warning", res.Warnings)
	}
}

func TestTransform_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		filename string
		kind     error
		want     string
	}{
		{
			name:     "css unknown word",
			src:      "<",
			filename: "foo.css",
			kind:     diag.ErrParse,
			want:     "foo.css:1:1: Unknown word",
		},
		{
			name:     "css custom property definition",
			src:      ":host { --bg-color: red; }",
			filename: "foo.css",
			kind:     diag.ErrValidation,
			want:     `Invalid definition of custom property "--bg-color".`,
		},
		{
			name:     "template unclosed element",
			src:      "<template><div>",
			filename: "foo.html",
			kind:     diag.ErrParse,
			want:     "foo.html:1:11:",
		},
		{
			name:     "template class conflict",
			src:      `<template><div class="a" class:map={m}></div></template>`,
			filename: "foo.html",
			kind:     diag.ErrValidation,
			want:     "class:map",
		},
		{
			name:     "template unresolvable custom element",
			src:      "<template><x-></x-></template>",
			filename: "foo.html",
			kind:     diag.ErrResolution,
			want:     "Unable to resolve module for <x->",
		},
	}
	c := compiler.New(zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Transform(context.Background(), tt.src, tt.filename, options())
			if err == nil {
				t.Fatal("Transform() expected error")
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("Transform() error = %v, want %v", err, tt.kind)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Transform() error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestTransform_UnsupportedFile(t *testing.T) {
	c := compiler.New(nil)
	_, err := c.Transform(context.Background(), "", "foo.js", options())
	if err == nil || !strings.Contains(err.Error(), "foo.js") {
		t.Errorf("Transform() error = %v, want unsupported file", err)
	}
	if _, ok := diag.As(err); ok {
		t.Errorf("Transform() error is a diagnostic, want plain error")
	}
}

func TestTransform_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := compiler.New(nil).Transform(ctx, "a {}", "foo.css", options())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Transform() error = %v, want context.Canceled", err)
	}
}

func TestTransform_Stylesheet(t *testing.T) {
	c := compiler.New(zaptest.NewLogger(t))
	res, err := c.Transform(context.Background(), ":host { color: red; } div { background-color: red; }", "foo.css", options())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if !strings.Contains(res.Code, "function stylesheet(hostSelector, shadowSelector, nativeShadow)") {
		t.Errorf("output does not declare stylesheet factory:\n%s", res.Code)
	}
}

func TestTransform_CustomPropertyPolicy(t *testing.T) {
	c := compiler.New(zaptest.NewLogger(t))
	src := ":host { --bg-color: red; }"

	opts := options()
	if _, err := c.Transform(context.Background(), src, "foo.css", opts); err == nil || !strings.Contains(err.Error(), "--bg-color") {
		t.Errorf("Transform() error = %v, want invalid definition of --bg-color", err)
	}

	opts.StylesheetConfig.CustomProperties.AllowDefinition = true
	if _, err := c.Transform(context.Background(), src, "foo.css", opts); err != nil {
		t.Errorf("Transform() with definitions allowed error = %v", err)
	}
}

func TestTransform_ResolutionIgnoresMinify(t *testing.T) {
	c := compiler.New(zaptest.NewLogger(t))
	src := "div { color: var(--bg-color); }"
	for _, minify := range []bool{false, true} {
		t.Run(fmt.Sprintf("minify=%v", minify), func(t *testing.T) {
			opts := options()
			opts.StylesheetConfig.CustomProperties.Resolution = common.ModuleResolution("@customProperties")
			opts.OutputConfig.Minify = minify
			res, err := c.Transform(context.Background(), src, "foo.css", opts)
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			for _, want := range []string{`import varResolver from "@customProperties";`, `varResolver("--bg-color")`} {
				if !strings.Contains(res.Code, want) {
					t.Errorf("output does not contain %q:\n%s", want, res.Code)
				}
			}
		})
	}
}

func TestTransform_MinifyKeepsNumbers(t *testing.T) {
	opts := options()
	opts.OutputConfig.Minify = true
	res, err := compiler.New(nil).Transform(context.Background(), "h1 { z-index: 100; } h2 { z-index: 500; }", "foo.css", opts)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	for _, want := range []string{"z-index:100", "z-index:500"} {
		if !strings.Contains(res.Code, want) {
			t.Errorf("output does not contain %q:\n%s", want, res.Code)
		}
	}
}

func TestTransform_Deterministic(t *testing.T) {
	c := compiler.New(nil)
	src := `<template><ul><li for:each={items} for:item="it" onclick={pick}><x-row value={it.v}></x-row></li></ul></template>`
	first, err := c.Transform(context.Background(), src, "foo.html", options())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	second, err := c.Transform(context.Background(), src, "foo.html", options())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if diff := cmp.Diff(first.Code, second.Code); diff != "" {
		t.Errorf("recompile differs (-first +second):\n%s", diff)
	}
}

func TestTransformAll(t *testing.T) {
	jobs := []compiler.Job{
		{Source: "<template><p>a</p></template>", Filename: "a.html", Options: options()},
		{Source: "<", Filename: "b.css", Options: options()},
		{Source: "p { color: red; }", Filename: "c.css", Options: options()},
		{Source: "<template><p></template>", Filename: "d.html", Options: options()},
	}
	out, err := compiler.New(zaptest.NewLogger(t)).TransformAll(context.Background(), jobs, 2)
	if err != nil {
		t.Fatalf("TransformAll() error = %v", err)
	}
	if len(out) != len(jobs) {
		t.Fatalf("TransformAll() returned %d outcomes, want %d", len(out), len(jobs))
	}

	var got []string
	for _, o := range out {
		state := "ok"
		if o.Err != nil {
			state = "failed"
		}
		got = append(got, o.Job.Filename+":"+state)
	}
	want := []string{"a.html:ok", "b.css:failed", "c.css:ok", "d.html:failed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TransformAll() outcomes mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out[0].Result.Code, `api_text("a")`) {
		t.Errorf("unexpected code for a.html:\n%s", out[0].Result.Code)
	}
}

func TestTransformAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := compiler.New(nil).TransformAll(ctx, []compiler.Job{{Source: "a {}", Filename: "a.css", Options: options()}}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("TransformAll() error = %v, want context.Canceled", err)
	}
	if len(out) != 1 || out[0].Err == nil {
		t.Errorf("TransformAll() outcomes = %+v, want cancelled job", out)
	}
}

func TestDump(t *testing.T) {
	c := compiler.New(zaptest.NewLogger(t))

	got, err := c.Dump("<template><p class=\"a\">{v}</p></template>", "foo.html")
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if diff := cmp.Diff("template\n  <p> class=\"a\"\n    text: {v}\n", got); diff != "" {
		t.Errorf("Dump() mismatch (-want +got):\n%s", diff)
	}

	got, err = c.Dump("a { color: red; }", "foo.css")
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if diff := cmp.Diff("rule a\n  color: red\n", got); diff != "" {
		t.Errorf("Dump() mismatch (-want +got):\n%s", diff)
	}

	if _, err := c.Dump("<template><div>", "foo.html"); !errors.Is(err, diag.ErrParse) {
		t.Errorf("Dump() error = %v, want parse error", err)
	}
}
