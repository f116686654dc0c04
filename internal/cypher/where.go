package cypher

import (
	"fmt"

	"github.com/roach88/pgq/internal/graphir"
)

// Boolean and comparison operators.
const (
	OpEquals     = "="
	OpStartsWith = "STARTS WITH"
	OpEndsWith   = "ENDS WITH"
	OpAnd        = "AND"
	OpOr         = "OR"
	OpNot        = "NOT"
)

// CompileWhere renders a filter tree.
//
// And/Or children are folded left to right. A fold with more than one term
// is parenthesized when it sits directly under another And/Or, so precedence
// survives any nesting depth. Not always parenthesizes its child.
func CompileWhere(w graphir.Where) Fragment {
	return compileWhere(w, false)
}

func compileWhere(w graphir.Where, nested bool) Fragment {
	switch node := w.(type) {
	case *graphir.IsEqualTo:
		return compileComparison(node.Comparison, OpEquals)
	case *graphir.StartsWith:
		return compileComparison(node.Comparison, OpStartsWith)
	case *graphir.EndsWith:
		return compileComparison(node.Comparison, OpEndsWith)
	case *graphir.And:
		return foldConditions(node.Children(), OpAnd, nested)
	case *graphir.Or:
		return foldConditions(node.Children(), OpOr, nested)
	case *graphir.Not:
		return Fragment(OpNot + " (" + string(compileWhere(node.Child(), false)) + ")")
	default:
		panic(&graphir.InternalConsistencyError{Message: fmt.Sprintf("unknown condition type %T", w)})
	}
}

func compileComparison(c graphir.Comparison, op string) Fragment {
	return CompileProperty(c.Left()) + Fragment(" "+op+" ") + CompileValue(c.Right())
}

// foldConditions joins children with op. An empty list cannot be built
// through graphir constructors and is treated as a broken invariant.
func foldConditions(children []graphir.Where, op string, nested bool) Fragment {
	if len(children) == 0 {
		panic(&graphir.InternalConsistencyError{Message: "empty " + op + " fold"})
	}
	acc := compileWhere(children[0], true)
	for _, c := range children[1:] {
		acc += Fragment(" "+op+" ") + compileWhere(c, true)
	}
	if nested && len(children) > 1 {
		return "(" + acc + ")"
	}
	return acc
}
