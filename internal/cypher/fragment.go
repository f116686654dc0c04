// Package cypher compiles graphir values into Cypher text.
//
// Every function here is pure: the same input always yields the same text,
// with no generated variable names and no map-order dependence.
package cypher

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/pgq/internal/graphir"
)

// Fragment is compiled Cypher text for one expression, node, or chain.
type Fragment string

// String returns the fragment text.
func (f Fragment) String() string { return string(f) }

// Separators used when rendering patterns.
const (
	LabelSeparator = ":"
	TypeSeparator  = "|"
)

// plainIdentifier matches identifiers that need no quoting.
var plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Identifier renders a variable, label, type or property key, backtick-quoting
// it when it is not a plain identifier.
func Identifier(name string) string {
	if plainIdentifier.MatchString(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Quote renders s as a single-quoted string literal. The text is NFC
// normalized first so equivalent Unicode input compiles to identical output.
func Quote(s string) string {
	return "'" + stringEscaper.Replace(norm.NFC.String(s)) + "'"
}

// CompileLiteral renders a literal value.
func CompileLiteral(lit graphir.Literal) Fragment {
	switch v := lit.(type) {
	case nil, graphir.Null:
		return "NULL"
	case graphir.String:
		return Fragment(Quote(string(v)))
	case graphir.Number:
		return Fragment(v)
	case graphir.Bool:
		if v {
			return "true"
		}
		return "false"
	case graphir.List:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = string(CompileLiteral(elem))
		}
		return Fragment("[" + strings.Join(parts, ", ") + "]")
	default:
		panic(&graphir.InternalConsistencyError{Message: "unknown literal type"})
	}
}

// CompileProperty renders variable.property.
func CompileProperty(p graphir.VariableProperty) Fragment {
	return Fragment(Identifier(p.Variable()) + "." + Identifier(p.Name()))
}

// CompileValue renders a predicate operand.
func CompileValue(v graphir.WhereValue) Fragment {
	switch val := v.(type) {
	case graphir.VariableProperty:
		return CompileProperty(val)
	case graphir.LiteralWrapper:
		return CompileLiteral(val.Value())
	default:
		panic(&graphir.InternalConsistencyError{Message: "unknown where value type"})
	}
}
