package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/pgq/internal/graphir"
	tu "github.com/roach88/pgq/internal/testutil"
)

func TestCompileNode(t *testing.T) {
	tests := []struct {
		name string
		node graphir.PatternNode
		want string
	}{
		{"anonymous", tu.Node(t, ""), "()"},
		{"name only", tu.Node(t, "n"), "(n)"},
		{"label only", tu.Node(t, "", "Document"), "(:Document)"},
		{"multiple labels", tu.Node(t, "n", "Person", "Sender"), "(n:Person:Sender)"},
		{"quoted label", tu.Node(t, "n", "Named Entity"), "(n:`Named Entity`)"},
		{
			"properties without name",
			tu.NodeWith(t, "", nil, map[string]graphir.Literal{"id": graphir.Int(7)}),
			"({id: 7})",
		},
		{
			"properties sorted",
			tu.NodeWith(t, "d", []string{"Document"}, map[string]graphir.Literal{
				"path": graphir.String("/a"),
				"lang": graphir.List{graphir.String("en"), graphir.Null{}},
			}),
			"(d:Document {lang: ['en', NULL], path: '/a'})",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompileNode(tt.node).String())
		})
	}
}

func TestCompileRelationship(t *testing.T) {
	tests := []struct {
		name string
		rel  graphir.PatternRelationship
		want string
	}{
		{"to named typed", tu.Rel(t, "r", graphir.DirectionTo, "SENT"), "-[r:SENT]->"},
		{"from named typed", tu.Rel(t, "r", graphir.DirectionFrom, "SENT"), "<-[r:SENT]-"},
		{"between named typed", tu.Rel(t, "r", graphir.DirectionBetween, "SENT"), "-[r:SENT]-"},
		{"type alternatives", tu.Rel(t, "", graphir.DirectionBetween, "APPEARS_IN", "SENT", "RECEIVED"), "-[:APPEARS_IN|SENT|RECEIVED]-"},
		{"name only", tu.Rel(t, "r", graphir.DirectionTo), "-[r]->"},
		{"bare to", tu.Rel(t, "", graphir.DirectionTo), "-->"},
		{"bare from", tu.Rel(t, "", graphir.DirectionFrom), "<--"},
		{"bare between", tu.Rel(t, "", graphir.DirectionBetween), "--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompileRelationship(tt.rel).String())
		})
	}
}

func TestCompilePattern_Chain(t *testing.T) {
	p := tu.Path(t,
		[]graphir.PatternNode{tu.Node(t, "a", "Person"), tu.Node(t, "d", "Document"), tu.Node(t, "b", "Person")},
		tu.Rel(t, "s", graphir.DirectionTo, "SENT"),
		tu.Rel(t, "r", graphir.DirectionFrom, "RECEIVED"),
	)
	assert.Equal(t, "(a:Person)-[s:SENT]->(d:Document)<-[r:RECEIVED]-(b:Person)", CompilePattern(p).String())
}

// Reversing the node order and flipping every direction describes the same
// graph shape; the rendering must be the mirror image.
func TestCompilePattern_Reversal(t *testing.T) {
	a := tu.Node(t, "a")
	b := tu.Node(t, "b")

	forward := tu.Path(t, []graphir.PatternNode{a, b}, tu.Rel(t, "r", graphir.DirectionTo, "KNOWS"))
	backward := tu.Path(t, []graphir.PatternNode{b, a}, tu.Rel(t, "r", graphir.DirectionFrom, "KNOWS"))

	assert.Equal(t, "(a)-[r:KNOWS]->(b)", CompilePattern(forward).String())
	assert.Equal(t, "(b)<-[r:KNOWS]-(a)", CompilePattern(backward).String())
}

func TestCompilePattern_SingleNode(t *testing.T) {
	p := tu.Path(t, []graphir.PatternNode{tu.Node(t, "doc", "Document")})
	assert.Equal(t, "(doc:Document)", CompilePattern(p).String())
}
