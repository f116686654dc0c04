package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pgq/internal/graphir"
	tu "github.com/roach88/pgq/internal/testutil"
)

func and(t *testing.T, children ...graphir.Where) graphir.Where {
	t.Helper()
	w, err := graphir.NewAnd(children...)
	require.NoError(t, err)
	return w
}

func or(t *testing.T, children ...graphir.Where) graphir.Where {
	t.Helper()
	w, err := graphir.NewOr(children...)
	require.NoError(t, err)
	return w
}

func not(t *testing.T, child graphir.Where) graphir.Where {
	t.Helper()
	w, err := graphir.NewNot(child)
	require.NoError(t, err)
	return w
}

func TestCompileWhere_Comparisons(t *testing.T) {
	p := tu.Prop(t, "doc", "path")

	sw, err := graphir.NewStartsWith(p, tu.Lit(t, "/mail/"))
	require.NoError(t, err)
	ew, err := graphir.NewEndsWith(p, tu.Lit(t, ".eml"))
	require.NoError(t, err)

	assert.Equal(t, "doc.path STARTS WITH '/mail/'", CompileWhere(sw).String())
	assert.Equal(t, "doc.path ENDS WITH '.eml'", CompileWhere(ew).String())
	assert.Equal(t, "doc.path = ne.path", CompileWhere(tu.Eq(t, p, tu.Prop(t, "ne", "path"))).String())
	assert.Equal(t, "doc.pages = 12", CompileWhere(tu.Eq(t, tu.Prop(t, "doc", "pages"), tu.Lit(t, 12))).String())
	assert.Equal(t, "doc.path = NULL", CompileWhere(tu.Eq(t, p, tu.Lit(t, nil))).String())
}

func TestCompileWhere_Nesting(t *testing.T) {
	a := tu.Eq(t, tu.Prop(t, "n", "a"), tu.Lit(t, 1))
	b := tu.Eq(t, tu.Prop(t, "n", "b"), tu.Lit(t, 2))
	c := tu.Eq(t, tu.Prop(t, "n", "c"), tu.Lit(t, 3))

	tests := []struct {
		name  string
		where graphir.Where
		want  string
	}{
		{"flat and", and(t, a, b, c), "n.a = 1 AND n.b = 2 AND n.c = 3"},
		{"single child and", and(t, a), "n.a = 1"},
		{"or under and", and(t, a, or(t, b, c)), "n.a = 1 AND (n.b = 2 OR n.c = 3)"},
		{"and under or", or(t, and(t, a, b), c), "(n.a = 1 AND n.b = 2) OR n.c = 3"},
		{"single child nested", and(t, a, or(t, b)), "n.a = 1 AND n.b = 2"},
		{"not over and", not(t, and(t, a, b)), "NOT (n.a = 1 AND n.b = 2)"},
		{"not under and", and(t, not(t, a), b), "NOT (n.a = 1) AND n.b = 2"},
		{"deep", or(t, and(t, a, or(t, b, c)), c), "(n.a = 1 AND (n.b = 2 OR n.c = 3)) OR n.c = 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompileWhere(tt.where).String())
		})
	}
}

func TestFoldConditions_EmptyPanics(t *testing.T) {
	assert.PanicsWithError(t, "INTERNAL_CONSISTENCY: empty AND fold", func() {
		foldConditions(nil, OpAnd, false)
	})
}

func TestCompileWhere_UnknownVariantPanics(t *testing.T) {
	assert.Panics(t, func() {
		CompileWhere(nil)
	})
}

// Reversing And/Or children reorders terms only: operators and
// parenthesization stay the same.
func TestCompileWhere_ChildReversal(t *testing.T) {
	a := tu.Eq(t, tu.Prop(t, "n", "a"), tu.Lit(t, 1))
	b := tu.Eq(t, tu.Prop(t, "n", "b"), tu.Lit(t, 2))
	c := tu.Eq(t, tu.Prop(t, "n", "c"), tu.Lit(t, 3))

	forward := and(t, a, or(t, b, c))
	reversed := and(t, or(t, c, b), a)

	assert.Equal(t, "n.a = 1 AND (n.b = 2 OR n.c = 3)", CompileWhere(forward).String())
	assert.Equal(t, "(n.c = 3 OR n.b = 2) AND n.a = 1", CompileWhere(reversed).String())
}
