package cypher

import (
	"strings"

	"github.com/roach88/pgq/internal/graphir"
)

// CompileNode renders a node pattern: (name:Label1:Label2 {key: value}).
func CompileNode(n graphir.PatternNode) Fragment {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(identifierOrEmpty(n.Name()))
	for _, label := range n.Labels() {
		b.WriteString(LabelSeparator)
		b.WriteString(Identifier(label))
	}
	if keys := n.PropertyKeys(); len(keys) > 0 {
		if b.Len() > 1 {
			b.WriteByte(' ')
		}
		props := n.Properties()
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Identifier(k))
			b.WriteString(": ")
			b.WriteString(string(CompileLiteral(props[k])))
		}
		b.WriteByte('}')
	}
	b.WriteByte(')')
	return Fragment(b.String())
}

// CompileRelationship renders the connector between two nodes, including
// its arrow heads.
func CompileRelationship(r graphir.PatternRelationship) Fragment {
	detail := identifierOrEmpty(r.Name())
	if types := r.Types(); len(types) > 0 {
		quoted := make([]string, len(types))
		for i, t := range types {
			quoted[i] = Identifier(t)
		}
		detail += LabelSeparator + strings.Join(quoted, TypeSeparator)
	}
	body := "--"
	if detail != "" {
		body = "-[" + detail + "]-"
	}
	switch r.Direction() {
	case graphir.DirectionTo:
		return Fragment(body + ">")
	case graphir.DirectionFrom:
		return Fragment("<" + body)
	default:
		return Fragment(body)
	}
}

// CompilePattern renders a path as a left fold over its relationships:
// the accumulator starts at nodes[0] and each step appends relationships[i]
// and nodes[i+1].
func CompilePattern(p *graphir.PathPattern) Fragment {
	nodes := p.Nodes()
	acc := CompileNode(nodes[0])
	for i, r := range p.Relationships() {
		acc = chain(acc, r, nodes[i+1])
	}
	return acc
}

func chain(acc Fragment, r graphir.PatternRelationship, next graphir.PatternNode) Fragment {
	return acc + CompileRelationship(r) + CompileNode(next)
}

func identifierOrEmpty(name string) string {
	if name == "" {
		return ""
	}
	return Identifier(name)
}
