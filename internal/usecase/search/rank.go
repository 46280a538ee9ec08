package search

import (
	"sort"

	"github.com/openstall/marketd/internal/domain/catalog"
	"github.com/openstall/marketd/internal/domain/search/predicate"
	"github.com/openstall/marketd/internal/domain/search/query"
)

// rank orders candidates by relevance to the query. A record's score is the
// number of clauses whose field-level OR test matches it; a clause counts
// once no matter how many fields it matches through. Ties on score prefer
// records matching more clauses as full field values, then break on
// ascending ID. With reverse set the score ordering flips to ascending; the
// ID tie-break does not flip.
func rank[T any](clauses []query.Clause, candidates []T, schema *catalog.Schema[T], reverse bool) []T {
	type scored struct {
		record T
		id     int64
		score  int
		exact  int
	}

	partial := make([]predicate.Node, len(clauses))
	full := make([]predicate.Node, len(clauses))
	for i, clause := range clauses {
		partial[i] = clauseTest(clause.Term, schema.SearchFields, clause.Term.Exact)
		full[i] = clauseTest(clause.Term, schema.SearchFields, true)
	}

	ranked := make([]scored, len(candidates))
	for i, candidate := range candidates {
		fields := schema.Fields(candidate)
		entry := scored{record: candidate, id: schema.ID(candidate)}
		for j := range clauses {
			if predicate.Eval(partial[j], fields) {
				entry.score++
			}
			if predicate.Eval(full[j], fields) {
				entry.exact++
			}
		}
		ranked[i] = entry
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			if reverse {
				return a.score < b.score
			}
			return a.score > b.score
		}
		if a.exact != b.exact {
			if reverse {
				return a.exact < b.exact
			}
			return a.exact > b.exact
		}
		return a.id < b.id
	})

	out := make([]T, len(ranked))
	for i, entry := range ranked {
		out[i] = entry.record
	}
	return out
}

func clauseTest(term query.Term, fields []string, exact bool) predicate.Node {
	nodes := make([]predicate.Node, len(fields))
	for i, field := range fields {
		nodes[i] = predicate.Text{Field: field, Value: term.Text, Exact: exact}
	}
	return predicate.Or{Nodes: nodes}
}
