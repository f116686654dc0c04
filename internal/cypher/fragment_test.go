package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/pgq/internal/graphir"
	tu "github.com/roach88/pgq/internal/testutil"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"doc", "doc"},
		{"_private", "_private"},
		{"APPEARS_IN", "APPEARS_IN"},
		{"a1", "a1"},
		{"1a", "`1a`"},
		{"Named Entity", "`Named Entity`"},
		{"weird`name", "`weird``name`"},
		{"", "``"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Identifier(tt.in))
		})
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, Quote("plain"))
	assert.Equal(t, `'it\'s'`, Quote("it's"))
	assert.Equal(t, `'C:\\docs'`, Quote(`C:\docs`))

	// Decomposed and precomposed forms compile identically.
	assert.Equal(t, Quote("caf\u00e9"), Quote("cafe\u0301"))
}

func TestCompileLiteral(t *testing.T) {
	tests := []struct {
		name string
		lit  graphir.Literal
		want string
	}{
		{"null", graphir.Null{}, "NULL"},
		{"nil", nil, "NULL"},
		{"true", graphir.Bool(true), "true"},
		{"false", graphir.Bool(false), "false"},
		{"integer", graphir.Int(-3), "-3"},
		{"number verbatim", graphir.Number("1.50e2"), "1.50e2"},
		{"string", graphir.String("x"), "'x'"},
		{"empty list", graphir.List{}, "[]"},
		{"nested list", graphir.List{graphir.Int(1), graphir.List{graphir.String("a")}}, "[1, ['a']]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompileLiteral(tt.lit).String())
		})
	}
}

func TestCompileProperty_Quoting(t *testing.T) {
	assert.Equal(t, "doc.`file path`", CompileProperty(tu.Prop(t, "doc", "file path")).String())
}
