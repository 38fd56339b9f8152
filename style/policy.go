package style

import (
	"lwcc/css"
	"lwcc/diag"
)

// checkCustomProperties rejects custom property definitions unless they
// are allowed. Only the first offending declaration is reported.
func checkCustomProperties(sheet *css.Stylesheet, filename string, allow bool) error {
	if allow {
		return nil
	}
	var bad *css.Declaration
	find := func(decls []*css.Declaration) {
		for _, d := range decls {
			if bad == nil && d.IsCustomProperty() {
				bad = d
			}
		}
	}
	sheet.Walk(func(it css.Item, _ *css.AtRule) {
		switch {
		case it.Rule != nil:
			find(it.Rule.Declarations)
		case it.AtRule != nil:
			find(it.AtRule.Declarations)
		}
	})
	if bad == nil {
		return nil
	}
	return diag.Validation(filename, css.Locate(sheet.Source(), bad.Offset),
		"Invalid definition of custom property %q.", bad.Property)
}
