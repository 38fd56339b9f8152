// Package js holds a tiny JavaScript expression tree and a printer producing
// stable, prettier-like formatting.
package js

// Node is JavaScript expression.
type Node interface {
	jsNode()
}

// Ident is a verbatim identifier or member path, e.g. $cmp.items.
type Ident string

// String is a string literal, printed double quoted.
type String string

// Number is an integer literal.
type Number int

// Bool is a boolean literal.
type Bool bool

// Call is a function call.
type Call struct {
	Callee string
	Args   []Node
}

// Array is an array literal.
type Array struct {
	Items []Node
}

// Property is a single key-value pair of object literal.
type Property struct {
	Key   string
	Value Node
}

// Object is an object literal. Non-empty objects are always printed on
// several lines.
type Object struct {
	Props []Property
}

// Binary is a binary (or logical) operation, always printed on one line.
type Binary struct {
	Left  Node
	Op    string
	Right Node
}

// Assign is parenthesized assignment, e.g. ($ctx._m0 = x).
type Assign struct {
	Target string
	Value  Node
}

// Conditional is ternary operator.
type Conditional struct {
	Test Node
	Then Node
	Else Node
}

// Function is anonymous function with a single return statement.
type Function struct {
	Params []string
	Return Node
}

// Paren wraps expression in parentheses.
type Paren struct {
	X Node
}

func (Ident) jsNode()        {}
func (String) jsNode()       {}
func (Number) jsNode()       {}
func (Bool) jsNode()         {}
func (*Call) jsNode()        {}
func (*Array) jsNode()       {}
func (*Object) jsNode()      {}
func (*Binary) jsNode()      {}
func (*Assign) jsNode()      {}
func (*Conditional) jsNode() {}
func (*Function) jsNode()    {}
func (*Paren) jsNode()       {}

// Helpers to keep construction sites short.

// CallOf builds call node.
func CallOf(callee string, args ...Node) *Call {
	return &Call{Callee: callee, Args: args}
}

// ArrayOf builds array node.
func ArrayOf(items ...Node) *Array {
	return &Array{Items: items}
}

// Add appends property to object.
func (o *Object) Add(key string, value Node) {
	o.Props = append(o.Props, Property{Key: key, Value: value})
}
