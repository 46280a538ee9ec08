package predicate

import "github.com/openstall/marketd/internal/domain/search/query"

// FromClauses lowers parsed query clauses onto a set of searchable string
// fields. Each clause becomes an OR across the fields; clauses fold together
// left to right under their combinators. Panics if fields is empty, since a
// record kind with no searchable fields is a programming error.
func FromClauses(clauses []query.Clause, fields []string) Node {
	if len(fields) == 0 {
		panic("predicate: empty field set")
	}

	var tree Node
	for _, clause := range clauses {
		node := clauseNode(clause.Term, fields)
		switch {
		case tree == nil:
			tree = node
		case clause.Combinator == query.Or:
			tree = Or{Nodes: []Node{tree, node}}
		default:
			tree = And{Nodes: []Node{tree, node}}
		}
	}
	if tree == nil {
		return True{}
	}
	return tree
}

func clauseNode(term query.Term, fields []string) Node {
	if len(fields) == 1 {
		return Text{Field: fields[0], Value: term.Text, Exact: term.Exact}
	}
	nodes := make([]Node, len(fields))
	for i, field := range fields {
		nodes[i] = Text{Field: field, Value: term.Text, Exact: term.Exact}
	}
	return Or{Nodes: nodes}
}
