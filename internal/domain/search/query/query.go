// Package query parses free-text search queries into clauses.
//
// A query is a whitespace-separated list of terms. A term wrapped in matching
// single or double quotes requires a case-insensitive full match; an unquoted
// term matches as a case-insensitive substring. The words "and" and "or"
// (any case, outside quotes) combine adjacent terms; two adjacent terms with
// no combinator between them combine with AND.
package query

import (
	"fmt"
	"strings"

	"github.com/openstall/marketd/internal/domain"
)

// Combinator joins a clause to the clause before it.
type Combinator string

const (
	And Combinator = "and"
	Or  Combinator = "or"
)

// Term is an atomic unit of a search query.
type Term struct {
	Text  string
	Exact bool
}

// Clause is a term plus the combinator linking it to the previous clause.
// The first clause of a query always carries And.
type Clause struct {
	Term       Term
	Combinator Combinator
}

// Parse normalizes a raw search string into an ordered clause list.
// Returns domain.ErrSearchFormat for blank input, an unterminated quote,
// or a query containing no terms (for example a lone combinator).
func Parse(raw string) ([]Clause, error) {
	tokens, err := splitTerms(raw)
	if err != nil {
		return nil, err
	}

	var clauses []Clause
	next := And
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if isCombinator(token) {
			continue
		}

		term := Term{Text: token}
		if quoted(token) && len(token) > 1 {
			term = Term{Text: token[1 : len(token)-1], Exact: true}
		}
		clauses = append(clauses, Clause{Term: term, Combinator: next})

		// The combinator between this clause and the next one is named by
		// the token immediately after this term, defaulting to AND.
		next = And
		if i+1 < len(tokens) && strings.EqualFold(tokens[i+1], "or") {
			next = Or
		}
	}

	if len(clauses) == 0 {
		return nil, fmt.Errorf("%w: no valid search terms in query", domain.ErrSearchFormat)
	}
	return clauses, nil
}

// WithoutOr rewrites unquoted "or" tokens to "and", leaving quoted tokens and
// embedded substrings untouched. Callers use it to demand that every term of
// a query matches.
func WithoutOr(raw string) (string, error) {
	tokens, err := splitTerms(raw)
	if err != nil {
		return "", err
	}
	out := make([]string, len(tokens))
	for i, token := range tokens {
		if strings.EqualFold(token, "or") {
			out[i] = "and"
		} else {
			out[i] = token
		}
	}
	return strings.Join(out, " "), nil
}

// ExactMatches wraps every unquoted non-combinator token in double quotes so
// the resulting query only matches records whose fields fully match each term.
func ExactMatches(raw string) (string, error) {
	tokens, err := splitTerms(raw)
	if err != nil {
		return "", err
	}
	out := make([]string, len(tokens))
	for i, token := range tokens {
		switch {
		case quoted(token):
			out[i] = token
		case isCombinator(token):
			out[i] = token
		default:
			out[i] = `"` + token + `"`
		}
	}
	return strings.Join(out, " "), nil
}

// splitTerms separates a search string by whitespace and rejoins runs of
// words bounded by matching quote characters into single tokens.
func splitTerms(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: search query cannot be blank", domain.ErrSearchFormat)
	}

	words := strings.Fields(raw)
	var terms []string
	for start := 0; start < len(words); {
		end, err := termEnd(words, start)
		if err != nil {
			return nil, err
		}
		terms = append(terms, strings.Join(words[start:end+1], " "))
		start = end + 1
	}
	return terms, nil
}

// termEnd returns the index of the last word of the term starting at start.
// A term opened by a quote character runs until a word ending with the same
// quote character.
func termEnd(words []string, start int) (int, error) {
	if !quoted(words[start]) {
		return start, nil
	}
	open := words[start][:1]
	for i := start; i < len(words); i++ {
		if strings.HasSuffix(words[i], open) && (i > start || len(words[i]) > 1) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: search string contains an opening quote but no closing quote", domain.ErrSearchFormat)
}

func quoted(token string) bool {
	return strings.HasPrefix(token, `"`) || strings.HasPrefix(token, `'`)
}

func isCombinator(token string) bool {
	return strings.EqualFold(token, "and") || strings.EqualFold(token, "or")
}
