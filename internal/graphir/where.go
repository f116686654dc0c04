package graphir

import "slices"

// Where represents a node in a boolean filter tree.
//
// This is a sealed interface - only types in this package implement it.
//
// Where types:
//   - IsEqualTo, StartsWith, EndsWith: binary predicates
//   - And, Or: combinators over one or more children
//   - Not: negation of exactly one child
type Where interface {
	whereNode() // Marker method - seals interface to this package
}

// Comparison holds the operands shared by binary predicates.
type Comparison struct {
	left  VariableProperty
	right WhereValue
}

// Left returns the property being compared.
func (c Comparison) Left() VariableProperty { return c.left }

// Right returns the value the property is compared against.
func (c Comparison) Right() WhereValue { return c.right }

func newComparison(left VariableProperty, right WhereValue) (Comparison, error) {
	if left.variable == "" || left.name == "" {
		return Comparison{}, shapeErr("property", "left operand must be a variable property")
	}
	if right == nil {
		return Comparison{}, shapeErr("value", "right operand is required")
	}
	return Comparison{left: left, right: right}, nil
}

// IsEqualTo matches when the property equals the value.
type IsEqualTo struct{ Comparison }

func (*IsEqualTo) whereNode() {}

// NewIsEqualTo creates an equality predicate.
func NewIsEqualTo(left VariableProperty, right WhereValue) (*IsEqualTo, error) {
	c, err := newComparison(left, right)
	if err != nil {
		return nil, err
	}
	return &IsEqualTo{c}, nil
}

// StartsWith matches when the string property starts with the value.
type StartsWith struct{ Comparison }

func (*StartsWith) whereNode() {}

// NewStartsWith creates a prefix predicate.
func NewStartsWith(left VariableProperty, right WhereValue) (*StartsWith, error) {
	c, err := newComparison(left, right)
	if err != nil {
		return nil, err
	}
	return &StartsWith{c}, nil
}

// EndsWith matches when the string property ends with the value.
type EndsWith struct{ Comparison }

func (*EndsWith) whereNode() {}

// NewEndsWith creates a suffix predicate.
func NewEndsWith(left VariableProperty, right WhereValue) (*EndsWith, error) {
	c, err := newComparison(left, right)
	if err != nil {
		return nil, err
	}
	return &EndsWith{c}, nil
}

// And is true when every child is true.
type And struct {
	children []Where
}

func (*And) whereNode() {}

// NewAnd creates a conjunction. At least one child is required.
func NewAnd(children ...Where) (*And, error) {
	c, err := checkChildren("and", children)
	if err != nil {
		return nil, err
	}
	return &And{children: c}, nil
}

// Children returns the conjuncts in declaration order.
func (a *And) Children() []Where { return slices.Clone(a.children) }

// Or is true when any child is true.
type Or struct {
	children []Where
}

func (*Or) whereNode() {}

// NewOr creates a disjunction. At least one child is required.
func NewOr(children ...Where) (*Or, error) {
	c, err := checkChildren("or", children)
	if err != nil {
		return nil, err
	}
	return &Or{children: c}, nil
}

// Children returns the disjuncts in declaration order.
func (o *Or) Children() []Where { return slices.Clone(o.children) }

// Not negates its single child.
type Not struct {
	child Where
}

func (*Not) whereNode() {}

// NewNot creates a negation.
func NewNot(child Where) (*Not, error) {
	if child == nil {
		return nil, shapeErr("not", "negation requires exactly one condition")
	}
	return &Not{child: child}, nil
}

// Child returns the negated condition.
func (n *Not) Child() Where { return n.child }

func checkChildren(key string, children []Where) ([]Where, error) {
	if len(children) == 0 {
		return nil, shapeErr(key, "at least one condition is required")
	}
	for i, c := range children {
		if c == nil {
			return nil, shapeErr(key, "condition %d is nil", i)
		}
	}
	return slices.Clone(children), nil
}
