package graphir

import (
	"fmt"
	"maps"
	"slices"
)

// Match represents one entry of a query's match list.
//
// This is a sealed interface - PathPattern is the only variant. The wrapper
// key on the wire ("path") leaves room for further variants.
type Match interface {
	matchNode() // Marker method - seals interface to this package
}

// Direction is the orientation of a relationship relative to the chain it
// appears in.
type Direction string

const (
	// DirectionFrom points from the next node back to the previous one.
	DirectionFrom Direction = "from"

	// DirectionTo points from the previous node to the next one.
	DirectionTo Direction = "to"

	// DirectionBetween is undirected.
	DirectionBetween Direction = "between"
)

// ParseDirection parses the wire form of a Direction. Only the exact
// lowercase names are accepted.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionFrom, DirectionTo, DirectionBetween:
		return d, nil
	}
	return "", shapeErr("direction", "unknown direction %q (want from, to or between)", s)
}

// PatternNode describes a node in a path: an optional variable name, labels
// (the first is the primary label) and property-equality constraints.
type PatternNode struct {
	name       string
	labels     []string
	properties map[string]Literal
}

// NewPatternNode creates a node pattern. A node with no labels is untyped.
func NewPatternNode(name string, labels []string, properties map[string]Literal) (PatternNode, error) {
	for i, l := range labels {
		if l == "" {
			return PatternNode{}, shapeErr(fmt.Sprintf("labels[%d]", i), "label must not be empty")
		}
	}
	for k, v := range properties {
		if k == "" {
			return PatternNode{}, shapeErr("properties", "property key must not be empty")
		}
		if v == nil {
			return PatternNode{}, shapeErr("properties."+k, "property value is required")
		}
	}
	return PatternNode{
		name:       name,
		labels:     slices.Clone(labels),
		properties: maps.Clone(properties),
	}, nil
}

// Name returns the variable name, or "" for an anonymous node.
func (n PatternNode) Name() string { return n.name }

// Labels returns the labels in declaration order.
func (n PatternNode) Labels() []string { return slices.Clone(n.labels) }

// Properties returns a copy of the property-equality map.
func (n PatternNode) Properties() map[string]Literal { return maps.Clone(n.properties) }

// PropertyKeys returns the property keys in sorted order.
func (n PatternNode) PropertyKeys() []string {
	return slices.Sorted(maps.Keys(n.properties))
}

// PatternRelationship describes a relationship between two consecutive
// nodes of a path.
type PatternRelationship struct {
	name      string
	direction Direction
	types     []string
}

// NewPatternRelationship creates a relationship pattern. No types means any
// relationship type.
func NewPatternRelationship(name string, direction Direction, types []string) (PatternRelationship, error) {
	switch direction {
	case DirectionFrom, DirectionTo, DirectionBetween:
	case "":
		return PatternRelationship{}, shapeErr("direction", "direction is required")
	default:
		return PatternRelationship{}, shapeErr("direction", "unknown direction %q", direction)
	}
	for i, t := range types {
		if t == "" {
			return PatternRelationship{}, shapeErr(fmt.Sprintf("types[%d]", i), "relationship type must not be empty")
		}
	}
	return PatternRelationship{name: name, direction: direction, types: slices.Clone(types)}, nil
}

// Name returns the variable name, or "" for an anonymous relationship.
func (r PatternRelationship) Name() string { return r.name }

// Direction returns the relationship orientation.
func (r PatternRelationship) Direction() Direction { return r.direction }

// Types returns the allowed relationship types in declaration order.
func (r PatternRelationship) Types() []string { return slices.Clone(r.types) }

// PathPattern is one connected path: nodes[0], relationships[0], nodes[1], ...
//
// Invariant: len(relationships) == len(nodes) - 1 and len(nodes) >= 1.
// Optionality is a usage property; the compiler emits OPTIONAL MATCH for
// optional paths.
type PathPattern struct {
	nodes         []PatternNode
	relationships []PatternRelationship
	optional      bool
}

func (*PathPattern) matchNode() {}

// NewPathPattern creates a path, failing when the node and relationship
// counts do not alternate.
func NewPathPattern(nodes []PatternNode, relationships []PatternRelationship, optional bool) (*PathPattern, error) {
	if len(nodes) == 0 {
		return nil, shapeErr("nodes", "a path needs at least one node")
	}
	if len(relationships) != len(nodes)-1 {
		return nil, shapeErr("relationships",
			"a path with %d node(s) needs exactly %d relationship(s), got %d",
			len(nodes), len(nodes)-1, len(relationships))
	}
	return &PathPattern{
		nodes:         slices.Clone(nodes),
		relationships: slices.Clone(relationships),
		optional:      optional,
	}, nil
}

// Nodes returns the nodes in path order.
func (p *PathPattern) Nodes() []PatternNode { return slices.Clone(p.nodes) }

// Relationships returns the relationships in path order.
func (p *PathPattern) Relationships() []PatternRelationship { return slices.Clone(p.relationships) }

// Optional reports whether the path is matched optionally.
func (p *PathPattern) Optional() bool { return p.optional }

// Binds reports whether any node or relationship of the path is named variable.
func (p *PathPattern) Binds(variable string) bool {
	return slices.Contains(p.Variables(), variable)
}

// Variables returns the named node and relationship variables in path order,
// without duplicates.
func (p *PathPattern) Variables() []string {
	var vars []string
	add := func(name string) {
		if name != "" && !slices.Contains(vars, name) {
			vars = append(vars, name)
		}
	}
	for i, n := range p.nodes {
		add(n.name)
		if i < len(p.relationships) {
			add(p.relationships[i].name)
		}
	}
	return vars
}
