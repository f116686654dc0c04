package graphir

import (
	"fmt"
	"slices"
)

// ValidationResult contains the outcome of a static reference check.
//
// Warnings never block compilation: the backend still accepts the text, but
// it is likely not what the caller meant (e.g. a filter on a variable that no
// pattern binds).
type ValidationResult struct {
	// Clean is true when no warnings were raised.
	Clean bool

	// Warnings lists suspicious references, in traversal order.
	Warnings []string
}

// Validate checks variable references of a query against the variables its
// matches bind.
//
// Checks:
//  1. Where and OrderBy reference only bound variables
//  2. A relationship variable is not reused by a second pattern
//  3. The same sort key does not appear twice
//
// Validate is a pure function with no side effects.
func Validate(q *Query) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validateQuery(q)
	return ValidationResult{
		Clean:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	bound    []string
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q *Query) {
	if q == nil {
		v.addWarning("nil query")
		return
	}

	relOwner := map[string]int{}
	for i, m := range q.matches {
		p, ok := m.(*PathPattern)
		if !ok {
			v.addWarning("matches[%d]: unknown match type %T", i, m)
			continue
		}
		for _, r := range p.relationships {
			if r.name == "" {
				continue
			}
			if owner, seen := relOwner[r.name]; seen && owner != i {
				v.addWarning("matches[%d]: relationship variable %q is already bound by matches[%d]", i, r.name, owner)
			} else {
				relOwner[r.name] = i
			}
		}
		for _, name := range p.Variables() {
			if !slices.Contains(v.bound, name) {
				v.bound = append(v.bound, name)
			}
		}
	}

	if q.where != nil {
		v.validateWhere(q.where, "where")
	}

	seen := map[VariableProperty]bool{}
	for i, o := range q.orderBy {
		s, ok := o.(*SortByProperty)
		if !ok {
			v.addWarning("orderBy[%d]: unknown sort type %T", i, o)
			continue
		}
		v.checkProperty(s.property, fmt.Sprintf("orderBy[%d]", i))
		if seen[s.property] {
			v.addWarning("orderBy[%d]: duplicate sort key %s.%s", i, s.property.variable, s.property.name)
		}
		seen[s.property] = true
	}
}

func (v *validator) validateWhere(w Where, field string) {
	switch node := w.(type) {
	case *IsEqualTo:
		v.validateComparison(node.Comparison, field+".isEqualTo")
	case *StartsWith:
		v.validateComparison(node.Comparison, field+".startsWith")
	case *EndsWith:
		v.validateComparison(node.Comparison, field+".endsWith")
	case *And:
		for i, c := range node.children {
			v.validateWhere(c, fmt.Sprintf("%s.and[%d]", field, i))
		}
	case *Or:
		for i, c := range node.children {
			v.validateWhere(c, fmt.Sprintf("%s.or[%d]", field, i))
		}
	case *Not:
		v.validateWhere(node.child, field+".not")
	default:
		v.addWarning("%s: unknown condition type %T", field, w)
	}
}

func (v *validator) validateComparison(c Comparison, field string) {
	v.checkProperty(c.left, field+".property")
	if p, ok := c.right.(VariableProperty); ok {
		v.checkProperty(p, field+".value.property")
	}
}

func (v *validator) checkProperty(p VariableProperty, field string) {
	if !slices.Contains(v.bound, p.variable) {
		v.addWarning("%s: variable %q is not bound by any match", field, p.variable)
	}
}
