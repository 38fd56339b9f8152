// Package validate checks semantic rules of parsed templates.
package validate

import (
	"strings"

	"go.uber.org/zap"

	"lwcc/diag"
	"lwcc/markup"
)

// Validator checks template tree. Validation is fail-fast: the first
// violation in document order is reported and nothing else.
type Validator struct {
	log *zap.Logger
}

// New creates a new validator.
func New(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log.Named("validate")}
}

// Validate returns nil when tree is fit for IR building, otherwise a
// *diag.Diagnostic of kind ValidationError.
func (v *Validator) Validate(root *markup.Root, filename string) error {
	w := &walker{filename: filename}
	for _, a := range root.Attrs {
		if markup.IsDirective(a.Name) || a.Name == markup.AttrSlot || a.Name == markup.AttrKey {
			return w.errorf(a.Pos, "Root template doesn't allow %q attribute", a.Name)
		}
	}
	if err := w.nodes(root.Children, nil); err != nil {
		v.log.Debug("Template validation failed", zap.Error(err))
		return err
	}
	return nil
}

type walker struct {
	filename string
}

func (w *walker) errorf(pos diag.Position, format string, args ...any) error {
	return diag.Validation(w.filename, pos, format, args...)
}

// nodes validates siblings. owner is the closest enclosing element ignoring
// directive nodes, nil at the top level.
func (w *walker) nodes(nodes []markup.Node, owner markup.Node) error {
	for _, n := range nodes {
		if err := w.node(n, owner); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) node(n markup.Node, owner markup.Node) error {
	switch n := n.(type) {
	case *markup.Text:
		return nil

	case *markup.SlotContent:
		if err := w.slotContent(n, owner); err != nil {
			return err
		}
		return w.nodes(n.Children, owner)

	case *markup.Iteration:
		if err := w.iteration(n); err != nil {
			return err
		}
		if err := w.templateAttrs(n.Attrs); err != nil {
			return err
		}
		return w.nodes(n.Children, owner)

	case *markup.Conditional:
		if !n.Directive.IsExpression() {
			return w.errorf(n.Directive.Pos, "%s directive expects an expression", n.Directive.Name)
		}
		if err := w.templateAttrs(n.Attrs); err != nil {
			return err
		}
		return w.nodes(n.Children, owner)

	case *markup.CustomElement:
		if err := w.element(&n.Element); err != nil {
			return err
		}
		return w.nodes(n.Children, n)

	case *markup.Element:
		if n.Tag == "template" {
			return w.errorf(n.Pos, "Nested <template> requires for:each, if:true or if:false directive")
		}
		if err := w.element(n); err != nil {
			return err
		}
		return w.nodes(n.Children, n)
	}
	return nil
}

func (w *walker) slotContent(n *markup.SlotContent, owner markup.Node) error {
	if n.Tag == "template" {
		return w.errorf(n.Slot.Pos, "slot attribute is not allowed on <template>")
	}
	if n.Slot.IsExpression() {
		return w.errorf(n.Slot.Pos, "slot attribute must be a static string, not an expression")
	}
	if _, ok := owner.(*markup.CustomElement); !ok {
		return w.errorf(n.Slot.Pos, "slot attribute is only allowed on direct children of a custom element")
	}
	return nil
}

// templateAttrs rejects attributes of <template> used as directive
// fragment, nothing renders them.
func (w *walker) templateAttrs(attrs []*markup.Attribute) error {
	for _, a := range attrs {
		switch {
		case a.Name == markup.AttrKey:
			return w.errorf(a.Pos, "Invalid key attribute on <template>: key must be set on elements inside the iteration")
		case markup.IsDirective(a.Name):
			return w.errorf(a.Pos, "Unknown or duplicated directive %q on <template>", a.Name)
		default:
			return w.errorf(a.Pos, "Unexpected attribute %q on <template>: only directives are allowed", a.Name)
		}
	}
	return nil
}

func (w *walker) iteration(n *markup.Iteration) error {
	if n.Each == nil {
		return w.errorf(n.Pos, "for:each directive is required when for:item or for:index is used")
	}
	if !n.Each.IsExpression() {
		return w.errorf(n.Each.Pos, "for:each directive expects an expression")
	}
	if n.Item == nil {
		return w.errorf(n.Pos, "for:item directive is required with for:each")
	}
	for _, a := range []*markup.Attribute{n.Item, n.Index} {
		if a == nil {
			continue
		}
		if a.Kind != markup.ValueString || !isIdentifier(a.Value) {
			return w.errorf(a.Pos, "%s directive expects a string with a valid identifier", a.Name)
		}
	}
	if n.Index != nil && n.Index.Value == n.Item.Value {
		return w.errorf(n.Index.Pos, "for:index %q shadows for:item with the same name", n.Index.Value)
	}
	return nil
}

func (w *walker) element(el *markup.Element) error {
	var class, classMap *markup.Attribute
	for _, a := range el.Attrs {
		switch {
		case markup.IsDirective(a.Name):
			return w.errorf(a.Pos, "Unknown or duplicated directive %q on <%s>", a.Name, el.Tag)

		case a.Name == markup.AttrClass:
			class = a

		case a.Name == markup.DirectiveClassMap:
			if !a.IsExpression() {
				return w.errorf(a.Pos, "class:map directive expects an expression")
			}
			classMap = a

		case a.Name == markup.AttrKey:
			if !a.IsExpression() {
				return w.errorf(a.Pos, "key attribute expects an expression")
			}

		case isEventHandler(a.Name) && a.Kind != markup.ValueNone:
			if !a.IsExpression() {
				return w.errorf(a.Pos, "Event handler %q expects an expression", a.Name)
			}

		case el.Tag == "slot" && a.Name == "name":
			if a.IsExpression() {
				return w.errorf(a.Pos, "<slot> name must be a static string")
			}
		}
	}
	if class != nil && classMap != nil {
		later := classMap
		if later.Pos.Offset < class.Pos.Offset {
			later = class
		}
		return w.errorf(later.Pos, "Conflicting attribute %q on <%s>: class and class:map cannot be used together", later.Name, el.Tag)
	}
	return nil
}

func isEventHandler(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '$', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && '0' <= c && c <= '9':
		default:
			return false
		}
	}
	return true
}
