package graphir

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Literal is a sealed interface representing constant values in a request.
// Only Null, String, Number, Bool and List implement it.
type Literal interface {
	literal() // Sealed - only these types implement it
}

// Null represents a JSON null literal.
type Null struct{}

func (Null) literal() {}

// String represents a string literal.
type String string

func (String) literal() {}

// Number represents a numeric literal, kept as the exact text it was written
// with so compiled output reproduces it verbatim.
type Number string

func (Number) literal() {}

// Bool represents a boolean literal.
type Bool bool

func (Bool) literal() {}

// List represents a list of literals.
type List []Literal

func (List) literal() {}

// Int creates a Number from an integer.
func Int(n int64) Number {
	return Number(strconv.FormatInt(n, 10))
}

// NewNumber creates a Number from its textual form.
// Returns an error if text is not a valid JSON number.
func NewNumber(text string) (Number, error) {
	if !json.Valid([]byte(text)) {
		return "", shapeErr("", "invalid number literal %q", text)
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return "", shapeErr("", "invalid number literal %q", text)
	}
	return Number(text), nil
}

// LiteralOf converts a decoded Go value into a Literal.
//
// Accepted inputs are nil, string, bool, json.Number, the Go integer and
// float types, []any of accepted inputs, and Literal values. Objects are
// rejected: property-graph literals here are scalars or lists.
func LiteralOf(v any) (Literal, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Literal:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case json.Number:
		return NewNumber(val.String())
	case int:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case float64:
		return Number(strconv.FormatFloat(val, 'g', -1, 64)), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			lit, err := LiteralOf(elem)
			if err != nil {
				return nil, withField(err, fmt.Sprintf("[%d]", i))
			}
			list[i] = lit
		}
		return list, nil
	case map[string]any:
		return nil, shapeErr("", "object literals are not supported")
	default:
		return nil, shapeErr("", "unsupported literal type %T", v)
	}
}
