package graphir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prop(t *testing.T, variable, name string) VariableProperty {
	t.Helper()
	p, err := NewVariableProperty(variable, name)
	require.NoError(t, err)
	return p
}

func path(t *testing.T, nodes ...PatternNode) *PathPattern {
	t.Helper()
	p, err := NewPathPattern(nodes, nil, false)
	require.NoError(t, err)
	return p
}

func TestNewQuery_RequiresMatch(t *testing.T) {
	_, err := NewQuery(nil, nil, nil, nil)
	require.Error(t, err)

	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "matches", se.Field)
}

func TestNewQuery_Limit(t *testing.T) {
	m := []Match{path(t, node(t, "doc", "Document"))}

	q, err := NewQuery(m, nil, nil, nil)
	require.NoError(t, err)
	_, ok := q.Limit()
	assert.False(t, ok)

	zero := 0
	q, err = NewQuery(m, nil, nil, &zero)
	require.NoError(t, err)
	n, ok := q.Limit()
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	negative := -1
	_, err = NewQuery(m, nil, nil, &negative)
	assert.True(t, IsShapeError(err))
}

func TestNewQuery_LimitNotAliased(t *testing.T) {
	limit := 5
	q, err := NewQuery([]Match{path(t, node(t, "a"))}, nil, nil, &limit)
	require.NoError(t, err)

	limit = 50
	n, _ := q.Limit()
	assert.Equal(t, 5, n)
}

func TestQuery_Binds(t *testing.T) {
	q, err := NewQuery([]Match{
		path(t, node(t, "doc", "Document")),
		path(t, node(t, "ne")),
	}, nil, nil, nil)
	require.NoError(t, err)

	assert.True(t, q.Binds("doc"))
	assert.True(t, q.Binds("ne"))
	assert.False(t, q.Binds("rel"))
}

func TestNewDumpQuery(t *testing.T) {
	dq, err := NewDumpQuery()
	require.NoError(t, err)
	assert.Empty(t, dq.Queries())

	_, err = NewDumpQuery(nil)
	require.Error(t, err)

	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "queries[0]", se.Field)
}

func TestParseSortDirection(t *testing.T) {
	d, err := ParseSortDirection("")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)

	d, err = ParseSortDirection("desc")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)

	_, err = ParseSortDirection("sideways")
	assert.Error(t, err)
}

func TestWhere_Constructors(t *testing.T) {
	p := prop(t, "doc", "path")
	eq, err := NewIsEqualTo(p, NewLiteralWrapper(String("x")))
	require.NoError(t, err)

	_, err = NewAnd()
	assert.True(t, IsShapeError(err))
	_, err = NewOr()
	assert.True(t, IsShapeError(err))
	_, err = NewAnd(eq, nil)
	assert.True(t, IsShapeError(err))
	_, err = NewNot(nil)
	assert.True(t, IsShapeError(err))
	_, err = NewStartsWith(p, nil)
	assert.True(t, IsShapeError(err))

	and, err := NewAnd(eq)
	require.NoError(t, err)
	children := and.Children()
	children[0] = nil
	assert.NotNil(t, and.Children()[0])
}

func TestNewVariableProperty_Required(t *testing.T) {
	_, err := NewVariableProperty("", "path")
	assert.True(t, IsShapeError(err))
	_, err = NewVariableProperty("doc", "")
	assert.True(t, IsShapeError(err))
}

func TestLiteralOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Literal
	}{
		{"nil", nil, Null{}},
		{"string", "x", String("x")},
		{"bool", true, Bool(true)},
		{"int", 42, Number("42")},
		{"float", 1.5, Number("1.5")},
		{"list", []any{"a", 1}, List{String("a"), Number("1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LiteralOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := LiteralOf(map[string]any{"a": 1})
	assert.True(t, IsShapeError(err))

	_, err = LiteralOf([]any{"ok", map[string]any{}})
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "[1]", se.Field)
}

func TestNewNumber(t *testing.T) {
	n, err := NewNumber("1e3")
	require.NoError(t, err)
	assert.Equal(t, Number("1e3"), n)

	_, err = NewNumber("0x10")
	assert.Error(t, err)
}

func TestErrors_Classification(t *testing.T) {
	shape := &ShapeError{Field: "matches", Message: "at least one match is required"}
	ambiguity := &AmbiguityError{Anchor: "doc", Count: 2}

	assert.Equal(t, "SHAPE: matches: at least one match is required", shape.Error())
	assert.Contains(t, ambiguity.Error(), AnchorRule)

	wrapped := wrap(shape)
	assert.True(t, IsShapeError(wrapped))
	assert.False(t, IsAmbiguityError(wrapped))
	assert.Equal(t, ErrCodeShape, CodeOf(wrapped))
	assert.Equal(t, ErrCodeAmbiguity, CodeOf(wrap(ambiguity)))
	assert.Equal(t, ErrCodeMalformed, CodeOf(&DecodeError{Err: assert.AnError}))
	assert.Equal(t, ErrorCode(""), CodeOf(assert.AnError))
}

type contextError struct{ err error }

func (e contextError) Error() string { return "context: " + e.err.Error() }
func (e contextError) Unwrap() error { return e.err }

func wrap(err error) error { return contextError{err} }
