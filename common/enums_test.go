package common

import "testing"

func TestFileKindFromName(t *testing.T) {
	tests := []struct {
		name string
		kind FileKind
		ok   bool
	}{
		{"foo.html", FileKindTemplate, true},
		{"x/foo/FOO.HTML", FileKindTemplate, true},
		{"foo.css", FileKindStylesheet, true},
		{"foo.js", FileKind(0), false},
		{"foo", FileKind(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := FileKindFromName(tt.name)
			if ok != tt.ok || kind != tt.kind {
				t.Errorf("FileKindFromName(%q) = %v, %v; want %v, %v", tt.name, kind, ok, tt.kind, tt.ok)
			}
		})
	}
}

func TestResolutionType_Text(t *testing.T) {
	var rt ResolutionType
	if err := rt.UnmarshalText([]byte("module")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if rt != ResolutionTypeModule {
		t.Errorf("got %v, want module", rt)
	}
	if err := rt.UnmarshalText([]byte("global")); err == nil {
		t.Error("expected error for unknown resolution type")
	}
	data, _ := ResolutionTypeNative.MarshalText()
	if string(data) != "native" {
		t.Errorf("MarshalText() = %s", data)
	}
}

func TestScopingNames(t *testing.T) {
	names := ScopingNames()
	if len(names) != 2 || names[0] != "runtime" || names[1] != "attribute" {
		t.Errorf("ScopingNames() = %v", names)
	}
}
