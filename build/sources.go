// Package build implements command line actions: compiling component
// sources found on disk and recompiling them on change.
package build

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"

	"lwcc/common"
)

// OutputExt is appended to source file name to get name of generated module.
const OutputExt = ".js"

// Source is a single component source file.
type Source struct {
	// Path is absolute path to the file.
	Path string
	// Rel is path relative to the root passed to Discover, it is preserved
	// under destination directory.
	Rel  string
	Kind common.FileKind
	// Namespace and Name identify component, derived from
	// <namespace>/<name>/<file> layout.
	Namespace string
	Name      string
}

// Stylesheets returns import specifiers of stylesheets implicitly attached
// to the template: sibling file with the same name and .css extension.
func (s Source) Stylesheets() []string {
	if s.Kind != common.FileKindTemplate {
		return nil
	}
	css := strings.TrimSuffix(filepath.Base(s.Path), filepath.Ext(s.Path)) + common.FileKindStylesheet.Ext()
	if fi, err := os.Stat(filepath.Join(filepath.Dir(s.Path), css)); err != nil || !fi.Mode().IsRegular() {
		return nil
	}
	return []string{"./" + css}
}

// Output returns path of generated module. When dst is empty module is
// placed next to the source.
func (s Source) Output(dst string) string {
	if len(dst) == 0 {
		return s.Path + OutputExt
	}
	return filepath.Join(dst, s.Rel) + OutputExt
}

// NewSource describes file at path which is located under root.
func NewSource(root, path string) (Source, error) {
	kind, ok := common.FileKindFromName(path)
	if !ok {
		return Source{}, fmt.Errorf("not a component source (%s)", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." {
		rel = filepath.Base(abs)
	}
	dir := filepath.Dir(abs)
	return Source{
		Path:      abs,
		Rel:       rel,
		Kind:      kind,
		Namespace: pathElement(filepath.Dir(dir)),
		Name:      pathElement(dir),
	}, nil
}

func pathElement(dir string) string {
	name := filepath.Base(dir)
	if name == string(filepath.Separator) || name == "." || filepath.VolumeName(dir) == dir {
		return ""
	}
	return name
}

// Discover finds component sources. src is either a single file or a
// directory which is walked recursively skipping hidden directories,
// node_modules and symbolic links. Result is in natural order of relative
// paths so "cmp2" goes before "cmp10".
func Discover(src string) (string, []Source, error) {
	root, err := filepath.Abs(src)
	if err != nil {
		return "", nil, err
	}
	fi, err := os.Stat(root)
	if err != nil {
		return "", nil, fmt.Errorf("input source was not found: %w", err)
	}
	if fi.Mode().IsRegular() {
		s, err := NewSource(filepath.Dir(root), root)
		if err != nil {
			return "", nil, err
		}
		return filepath.Dir(root), []Source{s}, nil
	}
	if !fi.IsDir() {
		return "", nil, fmt.Errorf("unexpected path mode for (%s)", root)
	}

	var sources []Source
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := common.FileKindFromName(path); !ok {
			return nil
		}
		s, err := NewSource(root, path)
		if err != nil {
			return err
		}
		sources = append(sources, s)
		return nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("unable to walk directory (%s): %w", root, err)
	}
	slices.SortFunc(sources, func(a, b Source) int {
		switch {
		case natural.Less(a.Rel, b.Rel):
			return -1
		case natural.Less(b.Rel, a.Rel):
			return 1
		default:
			return 0
		}
	})
	return root, sources, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}
