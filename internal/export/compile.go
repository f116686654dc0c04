package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/pgq/internal/cypher"
	"github.com/roach88/pgq/internal/graphir"
)

// FindAnchorQuery returns the single sub-query that binds the anchor
// variable, nil if none does, or an *graphir.AmbiguityError if more than one
// does. The index of the returned sub-query is -1 when nil.
func FindAnchorQuery(dq *graphir.DumpQuery, anchor string) (*graphir.Query, int, error) {
	var found *graphir.Query
	index, count := -1, 0
	for i, q := range dq.Queries() {
		if !q.Binds(anchor) {
			continue
		}
		count++
		if found == nil {
			found, index = q, i
		}
	}
	if count > 1 {
		return nil, -1, &graphir.AmbiguityError{Anchor: anchor, Count: count}
	}
	return found, index, nil
}

// Compile compiles an export request against skeleton s.
//
// With no sub-query binding the anchor, the skeleton is emitted unchanged
// with the default sort. With exactly one, its filter is spliced into the
// anchor match and its sort and limit override the defaults. With more than
// one, compilation fails with *graphir.AmbiguityError and no text.
//
// defaultLimit is the system cap; nil means none.
func Compile(dq *graphir.DumpQuery, s Skeleton, defaultLimit *int) (string, error) {
	if dq == nil {
		return "", &graphir.ShapeError{Message: "cannot compile nil export query"}
	}
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("invalid export skeleton: %w", err)
	}
	if err := cypher.CheckDefaultLimit(defaultLimit); err != nil {
		return "", err
	}

	sub, index, err := FindAnchorQuery(dq, s.AnchorVariable)
	if err != nil {
		return "", err
	}

	anchor, err := s.anchorMatch()
	if err != nil {
		return "", fmt.Errorf("build anchor match: %w", err)
	}
	clauses := []string{cypher.MatchClause(anchor)}

	sortKeys, err := s.defaultSort()
	if err != nil {
		return "", fmt.Errorf("build default sort: %w", err)
	}
	userLimit, hasUser := 0, false
	distinct := false

	if sub != nil {
		field := fmt.Sprintf("queries[%d]", index)
		trailingOptional := false
		for _, m := range sub.Matches() {
			p, isPath := m.(*graphir.PathPattern)
			if isPath && s.isBareAnchor(p) {
				continue
			}
			clauses = append(clauses, cypher.MatchClause(m))
			distinct = true
			trailingOptional = isPath && p.Optional()
		}
		if w := sub.Where(); w != nil {
			// A WHERE directly after OPTIONAL MATCH only nulls the optional
			// bindings; it must start its own WITH to drop anchor rows.
			where := cypher.KwWhere + " " + string(cypher.CompileWhere(w))
			if trailingOptional {
				where = cypher.KwWith + " * " + where
			}
			clauses = append(clauses, where)
		}
		if ob := sub.OrderBy(); len(ob) > 0 {
			if err := s.checkSort(ob, field); err != nil {
				return "", err
			}
			sortKeys = ob
		}
		userLimit, hasUser = sub.Limit()
	}

	with := cypher.KwWith + " "
	if distinct {
		with += "DISTINCT "
	}
	with += cypher.Identifier(s.AnchorVariable)
	clauses = append(clauses, with, cypher.KwOrderBy+" "+string(cypher.CompileOrderBy(sortKeys)))
	if n, ok := cypher.EffectiveLimit(userLimit, hasUser, defaultLimit); ok {
		clauses = append(clauses, cypher.KwLimit+" "+strconv.Itoa(n))
	}

	expansion, err := s.expansion()
	if err != nil {
		return "", fmt.Errorf("build expansion: %w", err)
	}
	clauses = append(clauses, cypher.MatchClause(expansion), s.projection())
	return strings.Join(clauses, " "), nil
}

// checkSort rejects sort keys on variables other than the anchor: only the
// anchor survives the WITH that precedes ORDER BY.
func (s Skeleton) checkSort(orderBy []graphir.OrderBy, field string) error {
	for i, o := range orderBy {
		sp, ok := o.(*graphir.SortByProperty)
		if !ok {
			continue
		}
		if v := sp.Property().Variable(); v != s.AnchorVariable {
			return &graphir.ShapeError{
				Field:   fmt.Sprintf("%s.orderBy[%d]", field, i),
				Message: fmt.Sprintf("export sort must reference the anchor variable %q, got %q", s.AnchorVariable, v),
			}
		}
	}
	return nil
}
