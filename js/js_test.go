package js_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lwcc/js"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello", `"Hello"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"line\nbreak\ttab", `"line\nbreak\ttab"`},
		{"bell\x07", `"bell\x07"`},
		{"sep\u2028", `"sep\u2028"`},
		{"unicode ©", `"unicode ©"`},
		{"it's", `"it's"`},
	}
	for _, tt := range tests {
		if got := js.Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPropertyKey(t *testing.T) {
	for in, want := range map[string]string{
		"key":        "key",
		"_m0":        "_m0",
		"data-id":    `"data-id"`,
		"aria-label": `"aria-label"`,
		"1st":        `"1st"`,
	} {
		if got := js.PropertyKey(in); got != want {
			t.Errorf("PropertyKey(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestFormat(t *testing.T) {
	long := strings.Repeat("x", 80)
	tests := []struct {
		name string
		node js.Node
		want string
	}{
		{
			name: "inline call",
			node: js.CallOf("api_text", js.String("Header")),
			want: `api_text("Header")`,
		},
		{
			name: "empty object",
			node: &js.Object{},
			want: `{}`,
		},
		{
			name: "object always breaks",
			node: &js.Object{Props: []js.Property{{Key: "key", Value: js.Number(0)}, {Key: "data-id", Value: js.String("a")}}},
			want: "{\n  key: 0,\n  \"data-id\": \"a\",\n}",
		},
		{
			name: "call with object breaks",
			node: js.CallOf("api_element", js.String("p"), &js.Object{Props: []js.Property{{Key: "key", Value: js.Number(1)}}}, js.ArrayOf()),
			want: "api_element(\n  \"p\",\n  {\n    key: 1,\n  },\n  []\n)",
		},
		{
			name: "array breaks with trailing comma",
			node: js.ArrayOf(&js.Object{Props: []js.Property{{Key: "a", Value: js.Bool(true)}}}),
			want: "[\n  {\n    a: true,\n  },\n]",
		},
		{
			name: "too wide call",
			node: js.CallOf("f", js.String(long)),
			want: "f(\n  \"" + long + "\"\n)",
		},
		{
			name: "hugged function",
			node: js.CallOf("api_iterator",
				&js.Binary{Left: js.Ident("$cmp.items"), Op: "??", Right: js.ArrayOf()},
				&js.Function{Params: []string{"item", "index"}, Return: js.CallOf("api_text", js.Ident("item"))}),
			want: "api_iterator($cmp.items ?? [], function (item, index) {\n  return api_text(item);\n})",
		},
		{
			name: "inline conditional",
			node: &js.Conditional{Test: js.Ident("$cmp.ok"), Then: js.ArrayOf(js.CallOf("api_text", js.String("a"))), Else: js.ArrayOf()},
			want: `$cmp.ok ? [api_text("a")] : []`,
		},
		{
			name: "cached handler",
			node: &js.Binary{
				Left:  js.Ident("_m0"),
				Op:    "||",
				Right: &js.Assign{Target: "$ctx._m0", Value: js.CallOf("api_bind", js.Ident("$cmp.handleClick"))},
			},
			want: `_m0 || ($ctx._m0 = api_bind($cmp.handleClick))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := js.Format(tt.node, 0, 0, 0)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Format() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormat_RespectsStartColumn(t *testing.T) {
	node := js.ArrayOf(js.CallOf("api_text", js.String(strings.Repeat("a", 60))))
	if got := js.Format(node, 0, 0, 0); strings.Contains(got, "\n") {
		t.Errorf("expected single line at column 0, got %q", got)
	}
	if got := js.Format(node, 1, 20, 1); !strings.HasPrefix(got, "[\n    api_text(") {
		t.Errorf("expected broken array at column 20, got %q", got)
	}
}
