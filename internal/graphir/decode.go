package graphir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrCodeMalformed indicates input that could not be bound to the wire
// format at all (syntax error, wrong JSON type, unknown field).
const ErrCodeMalformed ErrorCode = "MALFORMED"

// DecodeError reports JSON that does not bind to the request wire format.
// It is distinct from *ShapeError: the input never reached construction.
type DecodeError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %v", ErrCodeMalformed, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrCodeMalformed, e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Code returns ErrCodeMalformed.
func (e *DecodeError) Code() ErrorCode { return ErrCodeMalformed }

// Wire keys for polymorphic values.
const (
	KeyPath           = "path"
	KeyIsEqualTo      = "isEqualTo"
	KeyStartsWith     = "startsWith"
	KeyEndsWith       = "endsWith"
	KeyAnd            = "and"
	KeyOr             = "or"
	KeyNot            = "not"
	KeyProperty       = "property"
	KeyLiteral        = "literal"
	KeySortByProperty = "sortByProperty"
)

type wireQuery struct {
	Matches []json.RawMessage `json:"matches"`
	Where   json.RawMessage   `json:"where,omitempty"`
	OrderBy []json.RawMessage `json:"orderBy,omitempty"`
	Limit   *int              `json:"limit,omitempty"`
}

type wireDumpQuery struct {
	Queries []json.RawMessage `json:"queries,omitempty"`
}

type wirePath struct {
	Nodes         []wireNode         `json:"nodes"`
	Relationships []wireRelationship `json:"relationships,omitempty"`
	Optional      bool               `json:"optional,omitempty"`
}

type wireNode struct {
	Name       string                     `json:"name,omitempty"`
	Labels     []string                   `json:"labels,omitempty"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
}

type wireRelationship struct {
	Name      string   `json:"name,omitempty"`
	Direction string   `json:"direction"`
	Types     []string `json:"types,omitempty"`
}

type wireProperty struct {
	Variable string `json:"variable"`
	Name     string `json:"name"`
}

type wireComparison struct {
	Property *wireProperty  `json:"property"`
	Value    json.RawMessage `json:"value"`
}

type wireSort struct {
	Property  *wireProperty `json:"property"`
	Direction string        `json:"direction,omitempty"`
}

// DecodeQuery builds a Query from its JSON form.
func DecodeQuery(data []byte) (*Query, error) {
	return decodeQuery(data, "")
}

// DecodeDumpQuery builds a DumpQuery from its JSON form. An absent or empty
// "queries" list yields an empty DumpQuery.
func DecodeDumpQuery(data []byte) (*DumpQuery, error) {
	var w wireDumpQuery
	if err := decodeStrict(data, &w, ""); err != nil {
		return nil, err
	}
	queries := make([]*Query, 0, len(w.Queries))
	for i, raw := range w.Queries {
		q, err := decodeQuery(raw, fmt.Sprintf("queries[%d]", i))
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return NewDumpQuery(queries...)
}

func decodeQuery(data []byte, field string) (*Query, error) {
	var w wireQuery
	if err := decodeStrict(data, &w, field); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(w.Matches))
	for i, raw := range w.Matches {
		m, err := decodeMatch(raw, join(field, fmt.Sprintf("matches[%d]", i)))
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	var where Where
	if !isNull(w.Where) {
		var err error
		where, err = decodeWhere(w.Where, join(field, "where"))
		if err != nil {
			return nil, err
		}
	}

	orderBy := make([]OrderBy, 0, len(w.OrderBy))
	for i, raw := range w.OrderBy {
		o, err := decodeOrderBy(raw, join(field, fmt.Sprintf("orderBy[%d]", i)))
		if err != nil {
			return nil, err
		}
		orderBy = append(orderBy, o)
	}

	q, err := NewQuery(matches, where, orderBy, w.Limit)
	if err != nil {
		return nil, prefix(err, field)
	}
	return q, nil
}

func decodeMatch(data []byte, field string) (Match, error) {
	key, body, err := unwrap(data, field, KeyPath)
	if err != nil {
		return nil, err
	}
	field = join(field, key)

	var w wirePath
	if err := decodeStrict(body, &w, field); err != nil {
		return nil, err
	}
	nodes := make([]PatternNode, 0, len(w.Nodes))
	for i, wn := range w.Nodes {
		n, err := decodeNode(wn, join(field, fmt.Sprintf("nodes[%d]", i)))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	rels := make([]PatternRelationship, 0, len(w.Relationships))
	for i, wr := range w.Relationships {
		relField := join(field, fmt.Sprintf("relationships[%d]", i))
		if wr.Direction == "" {
			return nil, shapeErr(join(relField, "direction"), "direction is required")
		}
		dir, err := ParseDirection(wr.Direction)
		if err != nil {
			return nil, prefix(err, relField)
		}
		r, err := NewPatternRelationship(wr.Name, dir, wr.Types)
		if err != nil {
			return nil, prefix(err, relField)
		}
		rels = append(rels, r)
	}
	p, err := NewPathPattern(nodes, rels, w.Optional)
	if err != nil {
		return nil, prefix(err, field)
	}
	return p, nil
}

func decodeNode(w wireNode, field string) (PatternNode, error) {
	var props map[string]Literal
	if len(w.Properties) > 0 {
		props = make(map[string]Literal, len(w.Properties))
		for _, k := range slices.Sorted(maps.Keys(w.Properties)) {
			lit, err := decodeLiteral(w.Properties[k], join(field, "properties."+k))
			if err != nil {
				return PatternNode{}, err
			}
			props[k] = lit
		}
	}
	n, err := NewPatternNode(w.Name, w.Labels, props)
	if err != nil {
		return PatternNode{}, prefix(err, field)
	}
	return n, nil
}

func decodeWhere(data []byte, field string) (Where, error) {
	key, body, err := unwrap(data, field,
		KeyIsEqualTo, KeyStartsWith, KeyEndsWith, KeyAnd, KeyOr, KeyNot)
	if err != nil {
		return nil, err
	}
	field = join(field, key)

	switch key {
	case KeyIsEqualTo, KeyStartsWith, KeyEndsWith:
		left, right, err := decodeComparison(body, field)
		if err != nil {
			return nil, err
		}
		var w Where
		switch key {
		case KeyIsEqualTo:
			w, err = NewIsEqualTo(left, right)
		case KeyStartsWith:
			w, err = NewStartsWith(left, right)
		default:
			w, err = NewEndsWith(left, right)
		}
		if err != nil {
			return nil, prefix(err, field)
		}
		return w, nil

	case KeyAnd, KeyOr:
		children, err := decodeChildren(body, field)
		if err != nil {
			return nil, err
		}
		var w Where
		if key == KeyAnd {
			w, err = NewAnd(children...)
		} else {
			w, err = NewOr(children...)
		}
		if err != nil {
			return nil, &ShapeError{Field: field, Message: "at least one condition is required"}
		}
		return w, nil

	default:
		if isNull(body) {
			return nil, shapeErr(field, "negation requires exactly one condition")
		}
		child, err := decodeWhere(body, field)
		if err != nil {
			return nil, err
		}
		return NewNot(child)
	}
}

// decodeChildren accepts either a single condition object or a list of them.
func decodeChildren(body json.RawMessage, field string) ([]Where, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		child, err := decodeWhere(trimmed, field)
		if err != nil {
			return nil, err
		}
		return []Where{child}, nil
	}
	var raws []json.RawMessage
	if err := decodeStrict(body, &raws, field); err != nil {
		return nil, err
	}
	children := make([]Where, 0, len(raws))
	for i, raw := range raws {
		child, err := decodeWhere(raw, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func decodeComparison(body json.RawMessage, field string) (VariableProperty, WhereValue, error) {
	var w wireComparison
	if err := decodeStrict(body, &w, field); err != nil {
		return VariableProperty{}, nil, err
	}
	if w.Property == nil {
		return VariableProperty{}, nil, shapeErr(join(field, KeyProperty), "property is required")
	}
	left, err := NewVariableProperty(w.Property.Variable, w.Property.Name)
	if err != nil {
		return VariableProperty{}, nil, prefix(err, join(field, KeyProperty))
	}
	if isNull(w.Value) {
		return VariableProperty{}, nil, shapeErr(join(field, "value"), "value is required")
	}
	right, err := decodeWhereValue(w.Value, join(field, "value"))
	if err != nil {
		return VariableProperty{}, nil, err
	}
	return left, right, nil
}

func decodeWhereValue(data []byte, field string) (WhereValue, error) {
	key, body, err := unwrap(data, field, KeyProperty, KeyLiteral)
	if err != nil {
		return nil, err
	}
	field = join(field, key)
	if key == KeyLiteral {
		lit, err := decodeLiteral(body, field)
		if err != nil {
			return nil, err
		}
		return NewLiteralWrapper(lit), nil
	}
	var w wireProperty
	if err := decodeStrict(body, &w, field); err != nil {
		return nil, err
	}
	p, err := NewVariableProperty(w.Variable, w.Name)
	if err != nil {
		return nil, prefix(err, field)
	}
	return p, nil
}

func decodeOrderBy(data []byte, field string) (OrderBy, error) {
	key, body, err := unwrap(data, field, KeySortByProperty)
	if err != nil {
		return nil, err
	}
	field = join(field, key)
	var w wireSort
	if err := decodeStrict(body, &w, field); err != nil {
		return nil, err
	}
	if w.Property == nil {
		return nil, shapeErr(join(field, KeyProperty), "property is required")
	}
	prop, err := NewVariableProperty(w.Property.Variable, w.Property.Name)
	if err != nil {
		return nil, prefix(err, join(field, KeyProperty))
	}
	dir, err := ParseSortDirection(w.Direction)
	if err != nil {
		return nil, prefix(err, field)
	}
	s, err := NewSortByProperty(prop, dir)
	if err != nil {
		return nil, prefix(err, field)
	}
	return s, nil
}

func decodeLiteral(data []byte, field string) (Literal, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &DecodeError{Field: field, Err: err}
	}
	lit, err := LiteralOf(v)
	if err != nil {
		return nil, prefix(err, field)
	}
	return lit, nil
}

// unwrap splits a single-key wrapper object into its discriminator and body.
func unwrap(data []byte, field string, allowed ...string) (string, json.RawMessage, error) {
	if isNull(data) {
		return "", nil, shapeErr(field, "value is required (want one of %s)", strings.Join(allowed, ", "))
	}
	var obj map[string]json.RawMessage
	if err := decodeStrict(data, &obj, field); err != nil {
		return "", nil, err
	}
	if len(obj) != 1 {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return "", nil, shapeErr(field, "expected exactly one of %s, got %d key(s) %v",
			strings.Join(allowed, ", "), len(obj), keys)
	}
	for key, body := range obj {
		if !slices.Contains(allowed, key) {
			return "", nil, shapeErr(field, "unknown variant %q (want one of %s)", key, strings.Join(allowed, ", "))
		}
		return key, body, nil
	}
	panic("unreachable")
}

func decodeStrict(data []byte, v any, field string) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &DecodeError{Field: field, Err: err}
	}
	if dec.More() {
		return &DecodeError{Field: field, Err: fmt.Errorf("unexpected data after top-level value")}
	}
	return nil
}

func isNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func join(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

// prefix qualifies a *ShapeError's field with parent.
func prefix(err error, parent string) error {
	if parent == "" {
		return err
	}
	return withField(err, parent)
}
