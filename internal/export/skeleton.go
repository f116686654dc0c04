// Package export compiles export requests (graphir.DumpQuery) into a fixed
// "anchors plus immediate neighborhood" statement.
//
// Callers may narrow which anchors qualify and override sort and limit, but
// never reshape the expansion or the projection:
//
//	MATCH (doc:Document) [narrowing matches] [[WITH *] WHERE <filter>]
//	WITH [DISTINCT] doc ORDER BY <sort> [LIMIT n]
//	OPTIONAL MATCH (doc)-[rel:APPEARS_IN|SENT|RECEIVED]-(ne:NamedEntity)
//	RETURN apoc.coll.toSet(collect(doc) + collect(ne) + collect(rel)) AS values
package export

import (
	"fmt"
	"strings"

	"github.com/roach88/pgq/internal/cypher"
	"github.com/roach88/pgq/internal/graphir"
)

// Skeleton is the fixed shape of an export statement.
type Skeleton struct {
	// AnchorVariable binds the primary exported entity.
	AnchorVariable string `yaml:"anchor_variable"`

	// AnchorLabel is the anchor entity type.
	AnchorLabel string `yaml:"anchor_label"`

	// AnchorKey is the anchor's natural key, used for the default sort.
	AnchorKey string `yaml:"anchor_key"`

	// NeighborVariable binds the one-hop neighbor.
	NeighborVariable string `yaml:"neighbor_variable"`

	// NeighborLabel is the neighbor entity type.
	NeighborLabel string `yaml:"neighbor_label"`

	// RelationshipVariable binds the expansion relationship.
	RelationshipVariable string `yaml:"relationship_variable"`

	// RelationshipTypes is the ordered allow-list of expansion types.
	RelationshipTypes []string `yaml:"relationship_types"`

	// ResultAlias names the aggregated result column.
	ResultAlias string `yaml:"result_alias"`
}

// DefaultSkeleton returns the document export shape.
func DefaultSkeleton() Skeleton {
	return Skeleton{
		AnchorVariable:       "doc",
		AnchorLabel:          "Document",
		AnchorKey:            "path",
		NeighborVariable:     "ne",
		NeighborLabel:        "NamedEntity",
		RelationshipVariable: "rel",
		RelationshipTypes:    []string{"APPEARS_IN", "SENT", "RECEIVED"},
		ResultAlias:          "values",
	}
}

// Validate checks that every part of the skeleton is set and that the three
// variables are distinct.
func (s Skeleton) Validate() error {
	required := []struct{ field, value string }{
		{"anchor_variable", s.AnchorVariable},
		{"anchor_label", s.AnchorLabel},
		{"anchor_key", s.AnchorKey},
		{"neighbor_variable", s.NeighborVariable},
		{"neighbor_label", s.NeighborLabel},
		{"relationship_variable", s.RelationshipVariable},
		{"result_alias", s.ResultAlias},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &graphir.ShapeError{Field: r.field, Message: "required"}
		}
	}
	if len(s.RelationshipTypes) == 0 {
		return &graphir.ShapeError{Field: "relationship_types", Message: "at least one relationship type is required"}
	}
	if s.AnchorVariable == s.NeighborVariable || s.AnchorVariable == s.RelationshipVariable ||
		s.NeighborVariable == s.RelationshipVariable {
		return &graphir.ShapeError{Message: "anchor, neighbor and relationship variables must be distinct"}
	}
	return nil
}

// anchorNode is the skeleton's anchor: (doc:Document).
func (s Skeleton) anchorNode() (graphir.PatternNode, error) {
	return graphir.NewPatternNode(s.AnchorVariable, []string{s.AnchorLabel}, nil)
}

// anchorMatch is MATCH (doc:Document).
func (s Skeleton) anchorMatch() (*graphir.PathPattern, error) {
	anchor, err := s.anchorNode()
	if err != nil {
		return nil, err
	}
	return graphir.NewPathPattern([]graphir.PatternNode{anchor}, nil, false)
}

// expansion is the optional one-hop path from the anchor to its neighbors.
func (s Skeleton) expansion() (*graphir.PathPattern, error) {
	anchor, err := graphir.NewPatternNode(s.AnchorVariable, nil, nil)
	if err != nil {
		return nil, err
	}
	neighbor, err := graphir.NewPatternNode(s.NeighborVariable, []string{s.NeighborLabel}, nil)
	if err != nil {
		return nil, err
	}
	rel, err := graphir.NewPatternRelationship(s.RelationshipVariable, graphir.DirectionBetween, s.RelationshipTypes)
	if err != nil {
		return nil, err
	}
	return graphir.NewPathPattern(
		[]graphir.PatternNode{anchor, neighbor},
		[]graphir.PatternRelationship{rel},
		true,
	)
}

// defaultSort is the anchor's natural key, ascending.
func (s Skeleton) defaultSort() ([]graphir.OrderBy, error) {
	key, err := graphir.NewVariableProperty(s.AnchorVariable, s.AnchorKey)
	if err != nil {
		return nil, err
	}
	sort, err := graphir.NewSortByProperty(key, graphir.Ascending)
	if err != nil {
		return nil, err
	}
	return []graphir.OrderBy{sort}, nil
}

// projection deduplicates and unions anchor, neighbor and relationship.
func (s Skeleton) projection() string {
	return fmt.Sprintf("%s apoc.coll.toSet(collect(%s) + collect(%s) + collect(%s)) AS %s",
		cypher.KwReturn,
		cypher.Identifier(s.AnchorVariable),
		cypher.Identifier(s.NeighborVariable),
		cypher.Identifier(s.RelationshipVariable),
		cypher.Identifier(s.ResultAlias))
}

// isBareAnchor reports whether p is exactly the anchor node, carrying nothing
// the skeleton's own anchor match does not already express. An optional bare
// anchor is redundant too: the required anchor match always binds it.
func (s Skeleton) isBareAnchor(p *graphir.PathPattern) bool {
	nodes := p.Nodes()
	if len(nodes) != 1 {
		return false
	}
	n := nodes[0]
	if n.Name() != s.AnchorVariable || len(n.PropertyKeys()) > 0 {
		return false
	}
	labels := n.Labels()
	return len(labels) == 0 || (len(labels) == 1 && labels[0] == s.AnchorLabel)
}
