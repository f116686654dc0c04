package graphir

import (
	"fmt"
	"slices"
	"strings"
)

// OrderBy represents one sort directive.
//
// This is a sealed interface - SortByProperty is the only variant.
type OrderBy interface {
	orderByNode() // Marker method - seals interface to this package
}

// SortDirection is ASC or DESC.
type SortDirection string

const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

// ParseSortDirection parses a sort direction. Empty means Ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToUpper(s) {
	case "", "ASC", "ASCENDING":
		return Ascending, nil
	case "DESC", "DESCENDING":
		return Descending, nil
	}
	return "", shapeErr("direction", "unknown sort direction %q (want ASC or DESC)", s)
}

// SortByProperty sorts results by a variable property.
type SortByProperty struct {
	property  VariableProperty
	direction SortDirection
}

func (*SortByProperty) orderByNode() {}

// NewSortByProperty creates a sort directive. An empty direction means
// Ascending.
func NewSortByProperty(property VariableProperty, direction SortDirection) (*SortByProperty, error) {
	if property.variable == "" || property.name == "" {
		return nil, shapeErr("property", "sort property is required")
	}
	if direction == "" {
		direction = Ascending
	}
	if direction != Ascending && direction != Descending {
		return nil, shapeErr("direction", "unknown sort direction %q", direction)
	}
	return &SortByProperty{property: property, direction: direction}, nil
}

// Property returns the sort key.
func (s *SortByProperty) Property() VariableProperty { return s.property }

// Direction returns the sort direction.
func (s *SortByProperty) Direction() SortDirection { return s.direction }

// Query aggregates one or more matches, an optional filter, sort directives
// and an optional result cap.
type Query struct {
	matches  []Match
	where    Where
	orderBy  []OrderBy
	limit    int
	hasLimit bool
}

// NewQuery creates a query. At least one match is required; where may be
// nil; limit may be nil and must otherwise be non-negative.
func NewQuery(matches []Match, where Where, orderBy []OrderBy, limit *int) (*Query, error) {
	if len(matches) == 0 {
		return nil, shapeErr("matches", "at least one match is required")
	}
	for i, m := range matches {
		if m == nil {
			return nil, shapeErr(fmt.Sprintf("matches[%d]", i), "match is required")
		}
	}
	for i, o := range orderBy {
		if o == nil {
			return nil, shapeErr(fmt.Sprintf("orderBy[%d]", i), "sort directive is required")
		}
	}
	q := &Query{
		matches: slices.Clone(matches),
		where:   where,
		orderBy: slices.Clone(orderBy),
	}
	if limit != nil {
		if *limit < 0 {
			return nil, shapeErr("limit", "limit must be non-negative, got %d", *limit)
		}
		q.limit, q.hasLimit = *limit, true
	}
	return q, nil
}

// Matches returns the match list in declaration order.
func (q *Query) Matches() []Match { return slices.Clone(q.matches) }

// Where returns the filter root, or nil.
func (q *Query) Where() Where { return q.where }

// OrderBy returns the sort directives in declaration order.
func (q *Query) OrderBy() []OrderBy { return slices.Clone(q.orderBy) }

// Limit returns the per-query result cap and whether one was given.
func (q *Query) Limit() (int, bool) { return q.limit, q.hasLimit }

// Binds reports whether any match of the query binds variable.
func (q *Query) Binds(variable string) bool {
	for _, m := range q.matches {
		if p, ok := m.(*PathPattern); ok && p.Binds(variable) {
			return true
		}
	}
	return false
}

// DumpQuery is an export request: zero or more sub-queries, at most one of
// which may bind the export anchor. That constraint is checked when the
// export is compiled, not here.
type DumpQuery struct {
	queries []*Query
}

// NewDumpQuery creates an export request. Empty is allowed.
func NewDumpQuery(queries ...*Query) (*DumpQuery, error) {
	for i, q := range queries {
		if q == nil {
			return nil, shapeErr(fmt.Sprintf("queries[%d]", i), "sub-query is required")
		}
	}
	return &DumpQuery{queries: slices.Clone(queries)}, nil
}

// Queries returns the sub-queries in declaration order.
func (d *DumpQuery) Queries() []*Query { return slices.Clone(d.queries) }
