// Package testutil provides deterministic helpers shared by tests: trace id
// generators and terse graphir builders that fail the test on shape errors.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pgq/internal/graphir"
)

// Node builds a node pattern with no property constraints.
func Node(t testing.TB, name string, labels ...string) graphir.PatternNode {
	t.Helper()
	n, err := graphir.NewPatternNode(name, labels, nil)
	require.NoError(t, err)
	return n
}

// NodeWith builds a node pattern with property constraints.
func NodeWith(t testing.TB, name string, labels []string, props map[string]graphir.Literal) graphir.PatternNode {
	t.Helper()
	n, err := graphir.NewPatternNode(name, labels, props)
	require.NoError(t, err)
	return n
}

// Rel builds a relationship pattern.
func Rel(t testing.TB, name string, dir graphir.Direction, types ...string) graphir.PatternRelationship {
	t.Helper()
	r, err := graphir.NewPatternRelationship(name, dir, types)
	require.NoError(t, err)
	return r
}

// Path builds a non-optional path. Nodes and relationships alternate.
func Path(t testing.TB, nodes []graphir.PatternNode, rels ...graphir.PatternRelationship) *graphir.PathPattern {
	t.Helper()
	p, err := graphir.NewPathPattern(nodes, rels, false)
	require.NoError(t, err)
	return p
}

// OptionalPath builds an optional path.
func OptionalPath(t testing.TB, nodes []graphir.PatternNode, rels ...graphir.PatternRelationship) *graphir.PathPattern {
	t.Helper()
	p, err := graphir.NewPathPattern(nodes, rels, true)
	require.NoError(t, err)
	return p
}

// Prop builds a variable property reference.
func Prop(t testing.TB, variable, name string) graphir.VariableProperty {
	t.Helper()
	p, err := graphir.NewVariableProperty(variable, name)
	require.NoError(t, err)
	return p
}

// Lit wraps a Go value as a literal operand.
func Lit(t testing.TB, v any) graphir.LiteralWrapper {
	t.Helper()
	lit, err := graphir.LiteralOf(v)
	require.NoError(t, err)
	return graphir.NewLiteralWrapper(lit)
}

// Eq builds variable.name = value.
func Eq(t testing.TB, left graphir.VariableProperty, right graphir.WhereValue) *graphir.IsEqualTo {
	t.Helper()
	w, err := graphir.NewIsEqualTo(left, right)
	require.NoError(t, err)
	return w
}

// Sort builds a sort directive.
func Sort(t testing.TB, p graphir.VariableProperty, dir graphir.SortDirection) *graphir.SortByProperty {
	t.Helper()
	s, err := graphir.NewSortByProperty(p, dir)
	require.NoError(t, err)
	return s
}

// Query builds a query from its parts. limit < 0 means no limit.
func Query(t testing.TB, matches []graphir.Match, where graphir.Where, orderBy []graphir.OrderBy, limit int) *graphir.Query {
	t.Helper()
	var lp *int
	if limit >= 0 {
		lp = &limit
	}
	q, err := graphir.NewQuery(matches, where, orderBy, lp)
	require.NoError(t, err)
	return q
}

// Dump builds an export request.
func Dump(t testing.TB, queries ...*graphir.Query) *graphir.DumpQuery {
	t.Helper()
	dq, err := graphir.NewDumpQuery(queries...)
	require.NoError(t, err)
	return dq
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
