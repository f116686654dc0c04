package graphir

// WhereValue is the right-hand operand of a predicate.
//
// This is a sealed interface - only VariableProperty and LiteralWrapper
// implement it.
type WhereValue interface {
	whereValue() // Marker method - seals interface to this package
}

// VariableProperty references a property of a pattern variable, e.g. doc.path.
type VariableProperty struct {
	variable string
	name     string
}

func (VariableProperty) whereValue() {}

// NewVariableProperty creates a property reference.
// Both the variable and the property name are required.
func NewVariableProperty(variable, name string) (VariableProperty, error) {
	if variable == "" {
		return VariableProperty{}, shapeErr("variable", "variable is required")
	}
	if name == "" {
		return VariableProperty{}, shapeErr("name", "property name is required")
	}
	return VariableProperty{variable: variable, name: name}, nil
}

// Variable returns the pattern variable the property belongs to.
func (p VariableProperty) Variable() string { return p.variable }

// Name returns the property name.
func (p VariableProperty) Name() string { return p.name }

// LiteralWrapper wraps a constant so it can be used as a WhereValue.
type LiteralWrapper struct {
	value Literal
}

func (LiteralWrapper) whereValue() {}

// NewLiteralWrapper wraps lit. A nil lit is treated as Null.
func NewLiteralWrapper(lit Literal) LiteralWrapper {
	if lit == nil {
		lit = Null{}
	}
	return LiteralWrapper{value: lit}
}

// Value returns the wrapped literal.
func (w LiteralWrapper) Value() Literal {
	if w.value == nil {
		return Null{}
	}
	return w.value
}
