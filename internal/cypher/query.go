package cypher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/pgq/internal/graphir"
)

// Clause keywords.
const (
	KwMatch         = "MATCH"
	KwOptionalMatch = "OPTIONAL MATCH"
	KwWhere         = "WHERE"
	KwWith          = "WITH"
	KwReturn        = "RETURN"
	KwOrderBy       = "ORDER BY"
	KwLimit         = "LIMIT"
)

// CompileQuery compiles a query into one Cypher statement.
//
// Clause order:
//  1. one MATCH / OPTIONAL MATCH per match, in declaration order
//  2. WHERE with the compiled filter, if any
//  3. RETURN *
//  4. ORDER BY in declaration order, if any
//  5. LIMIT, per EffectiveLimit
//
// defaultLimit is the system cap; nil means none.
func CompileQuery(q *graphir.Query, defaultLimit *int) (string, error) {
	if q == nil {
		return "", &graphir.ShapeError{Message: "cannot compile nil query"}
	}
	if err := CheckDefaultLimit(defaultLimit); err != nil {
		return "", err
	}
	clauses := MatchClauses(q.Matches())
	if w := q.Where(); w != nil {
		clauses = append(clauses, KwWhere+" "+string(CompileWhere(w)))
	}
	clauses = append(clauses, KwReturn+" *")
	if ob := q.OrderBy(); len(ob) > 0 {
		clauses = append(clauses, KwOrderBy+" "+string(CompileOrderBy(ob)))
	}
	userLimit, hasUser := q.Limit()
	if n, ok := EffectiveLimit(userLimit, hasUser, defaultLimit); ok {
		clauses = append(clauses, KwLimit+" "+strconv.Itoa(n))
	}
	return strings.Join(clauses, " "), nil
}

// MatchClauses renders one clause per match, never merging them.
func MatchClauses(matches []graphir.Match) []string {
	clauses := make([]string, 0, len(matches))
	for _, m := range matches {
		clauses = append(clauses, MatchClause(m))
	}
	return clauses
}

// MatchClause renders a single match as MATCH or OPTIONAL MATCH.
func MatchClause(m graphir.Match) string {
	switch p := m.(type) {
	case *graphir.PathPattern:
		kw := KwMatch
		if p.Optional() {
			kw = KwOptionalMatch
		}
		return kw + " " + string(CompilePattern(p))
	default:
		panic(&graphir.InternalConsistencyError{Message: fmt.Sprintf("unknown match type %T", m)})
	}
}

// CompileOrderBy renders a comma-separated sort list.
func CompileOrderBy(orderBy []graphir.OrderBy) Fragment {
	parts := make([]string, len(orderBy))
	for i, o := range orderBy {
		switch s := o.(type) {
		case *graphir.SortByProperty:
			parts[i] = string(CompileProperty(s.Property())) + " " + string(s.Direction())
		default:
			panic(&graphir.InternalConsistencyError{Message: fmt.Sprintf("unknown sort type %T", o)})
		}
	}
	return Fragment(strings.Join(parts, ", "))
}

// CheckDefaultLimit rejects a negative system default limit.
func CheckDefaultLimit(defaultLimit *int) error {
	if defaultLimit != nil && *defaultLimit < 0 {
		return &graphir.ShapeError{
			Field:   "defaultLimit",
			Message: fmt.Sprintf("must be a non-negative integer, got %d", *defaultLimit),
		}
	}
	return nil
}

// EffectiveLimit combines a per-query limit with the system default: the
// smaller of the two when both are present, the one present otherwise, and
// no limit when neither is. The system default is a ceiling the caller cannot
// raise.
func EffectiveLimit(user int, hasUser bool, system *int) (int, bool) {
	switch {
	case hasUser && system != nil:
		return min(user, *system), true
	case hasUser:
		return user, true
	case system != nil:
		return *system, true
	default:
		return 0, false
	}
}
