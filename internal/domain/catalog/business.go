package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/search/predicate"
	"github.com/openstall/marketd/internal/domain/search/query"
)

// BusinessTypes is the closed set of accepted business classifications.
var BusinessTypes = []string{
	"Accommodation and Food Services",
	"Retail Trade",
	"Charitable organisation",
	"Non-profit organisation",
}

// ParseBusinessType validates a business type against the accepted set,
// returning its canonical spelling.
func ParseBusinessType(raw string) (string, error) {
	for _, t := range BusinessTypes {
		if strings.EqualFold(raw, t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: invalid business type: %q", domain.ErrValidation, raw)
}

// Business is a trading entity owned by a user.
type Business struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	BusinessType string    `json:"businessType"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Region       string    `json:"region,omitempty"`
	Created      time.Time `json:"created"`
}

// NewBusiness validates the required fields and returns the business.
func NewBusiness(id int64, name, businessType, country, city string) (Business, error) {
	if id < 1 {
		return Business{}, fmt.Errorf("%w: business id must be positive", domain.ErrValidation)
	}
	if name == "" {
		return Business{}, fmt.Errorf("%w: business name is required", domain.ErrValidation)
	}
	canonical, err := ParseBusinessType(businessType)
	if err != nil {
		return Business{}, err
	}
	if country == "" || city == "" {
		return Business{}, fmt.Errorf("%w: business country and city are required", domain.ErrValidation)
	}
	return Business{ID: id, Name: name, BusinessType: canonical, Country: country, City: city}, nil
}

var businessSchema = &Schema[Business]{
	Kind: "business",
	ID:   func(b Business) int64 { return b.ID },
	Strings: map[string]func(Business) string{
		"name":         func(b Business) string { return b.Name },
		"description":  func(b Business) string { return b.Description },
		"businessType": func(b Business) string { return b.BusinessType },
		"country":      func(b Business) string { return b.Country },
		"city":         func(b Business) string { return b.City },
		"region":       func(b Business) string { return b.Region },
	},
	Dates: map[string]func(Business) time.Time{
		"created": func(b Business) time.Time { return b.Created },
	},
	SearchFields: []string{"name"},
	Orderings: map[string][]SortKey{
		"created":      {{Field: "created"}},
		"name":         {{Field: "name", FoldCase: true}},
		"businessType": {{Field: "businessType", FoldCase: true}},
		"location": {
			{Field: "country", FoldCase: true},
			{Field: "city", FoldCase: true},
		},
	},
	DefaultOrdering: "created",
}

// BusinessSchema describes the business record kind.
func BusinessSchema() *Schema[Business] { return businessSchema }

// BusinessSearchPredicate combines a free-text name query with an optional
// business type filter. At least one of the two must be present.
func BusinessSearchPredicate(clauses []query.Clause, businessType string) (predicate.Node, error) {
	if len(clauses) == 0 && businessType == "" {
		return nil, fmt.Errorf("%w: business search needs a query or a business type", domain.ErrValidation)
	}

	var nodes []predicate.Node
	if len(clauses) > 0 {
		nodes = append(nodes, predicate.FromClauses(clauses, businessSchema.SearchFields))
	}
	if businessType != "" {
		canonical, err := ParseBusinessType(businessType)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, predicate.In{Field: "businessType", Values: []string{canonical}})
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return predicate.And{Nodes: nodes}, nil
}
