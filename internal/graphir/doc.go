// Package graphir provides the typed intermediate representation for
// property-graph pattern requests.
//
// A request arrives as JSON describing nodes, relationships, a boolean filter
// tree and sort/limit directives. graphir turns that JSON into immutable,
// validated values; the cypher and export packages turn those values into
// query text.
//
// ARCHITECTURE:
//
//	[request JSON] → [schema envelope check] → [graphir values] → [cypher text]
//	                                                            → [export text]
//
// Every value is built through a constructor that checks its own shape. A
// PathPattern whose relationship count is not one less than its node count,
// an And with no children, or a Query with no matches never exists: the
// constructor returns a *ShapeError instead.
//
// SEALED INTERFACES:
//
// Match, Where, WhereValue, OrderBy and Literal are sealed interfaces using
// the marker method pattern. Only types in this package implement them, so
// backends can switch exhaustively:
//
//	switch w := where.(type) {
//	case *IsEqualTo:
//	case *StartsWith:
//	case *EndsWith:
//	case *And:
//	case *Or:
//	case *Not:
//	}
//
// WIRE FORMAT:
//
// Polymorphic values use a single-key wrapper object naming the variant:
//
//	{"path": {"nodes": [...], "relationships": [...], "optional": false}}
//	{"isEqualTo": {"property": {"variable": "doc", "name": "id"}, "value": {"literal": "x"}}}
//	{"and": [{...}, {...}]}   or   {"and": {...}}
//	{"not": {...}}
//	{"sortByProperty": {"property": {...}, "direction": "DESC"}}
//
// IMMUTABILITY:
//
// Values expose their parts through accessors that return copies. A value is
// therefore safe to share between goroutines once constructed, and compiling
// the same value twice always yields the same text.
package graphir
