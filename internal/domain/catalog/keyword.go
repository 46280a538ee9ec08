package catalog

import (
	"fmt"
	"time"

	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/search/predicate"
	"github.com/openstall/marketd/internal/domain/search/query"
)

// Keyword is a community marketplace tag.
type Keyword struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// NewKeyword validates the required fields and returns the keyword.
func NewKeyword(id int64, name string) (Keyword, error) {
	if id < 1 {
		return Keyword{}, fmt.Errorf("%w: keyword id must be positive", domain.ErrValidation)
	}
	if name == "" {
		return Keyword{}, fmt.Errorf("%w: keyword name is required", domain.ErrValidation)
	}
	return Keyword{ID: id, Name: name}, nil
}

var keywordSchema = &Schema[Keyword]{
	Kind: "keyword",
	ID:   func(k Keyword) int64 { return k.ID },
	Strings: map[string]func(Keyword) string{
		"name": func(k Keyword) string { return k.Name },
	},
	Dates: map[string]func(Keyword) time.Time{
		"created": func(k Keyword) time.Time { return k.Created },
	},
	SearchFields: []string{"name"},
	Orderings: map[string][]SortKey{
		"name":    {{Field: "name", FoldCase: true}},
		"created": {{Field: "created"}},
	},
	DefaultOrdering: "name",
}

// KeywordSchema describes the keyword record kind.
func KeywordSchema() *Schema[Keyword] { return keywordSchema }

// KeywordSearchPredicate compiles a keyword name query.
func KeywordSearchPredicate(clauses []query.Clause) predicate.Node {
	return predicate.FromClauses(clauses, keywordSchema.SearchFields)
}
