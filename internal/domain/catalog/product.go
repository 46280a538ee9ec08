package catalog

import (
	"fmt"
	"time"

	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/search/predicate"
	"github.com/openstall/marketd/internal/domain/search/query"
)

// Product is a catalogue entry owned by one business.
type Product struct {
	ID           int64  `json:"id"`
	BusinessID   int64  `json:"businessId"`
	ProductCode  string `json:"productCode"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	// RRP is the recommended retail price in cents.
	RRP     int64     `json:"recommendedRetailPrice"`
	Created time.Time `json:"created"`
}

// NewProduct validates the required fields and returns the product.
func NewProduct(id, businessID int64, productCode, name string) (Product, error) {
	if id < 1 || businessID < 1 {
		return Product{}, fmt.Errorf("%w: product and business ids must be positive", domain.ErrValidation)
	}
	if productCode == "" || name == "" {
		return Product{}, fmt.Errorf("%w: product code and name are required", domain.ErrValidation)
	}
	return Product{ID: id, BusinessID: businessID, ProductCode: productCode, Name: name}, nil
}

// productSearchFields are the columns a product search may be scoped to.
var productSearchFields = []string{"name", "description", "manufacturer", "productCode"}

// ProductFieldSet resolves the searchBy options of a product search to field
// names. An empty option set searches by name only.
func ProductFieldSet(options []string) ([]string, error) {
	if len(options) == 0 {
		return []string{"name"}, nil
	}
	var fields []string
	for _, option := range options {
		found := false
		for _, field := range productSearchFields {
			if option == field {
				fields = append(fields, field)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: invalid product search option: %q", domain.ErrValidation, option)
		}
	}
	return fields, nil
}

var productSchema = &Schema[Product]{
	Kind: "product",
	ID:   func(p Product) int64 { return p.ID },
	Strings: map[string]func(Product) string{
		"productCode":  func(p Product) string { return p.ProductCode },
		"name":         func(p Product) string { return p.Name },
		"description":  func(p Product) string { return p.Description },
		"manufacturer": func(p Product) string { return p.Manufacturer },
	},
	Numbers: map[string]func(Product) int64{
		"businessID":             func(p Product) int64 { return p.BusinessID },
		"recommendedRetailPrice": func(p Product) int64 { return p.RRP },
	},
	Dates: map[string]func(Product) time.Time{
		"created": func(p Product) time.Time { return p.Created },
	},
	SearchFields: productSearchFields,
	Orderings: map[string][]SortKey{
		"productCode":            {{Field: "productCode", FoldCase: true}},
		"name":                   {{Field: "name", FoldCase: true}},
		"description":            {{Field: "description", FoldCase: true}},
		"manufacturer":           {{Field: "manufacturer", FoldCase: true}},
		"recommendedRetailPrice": {{Field: "recommendedRetailPrice"}},
		"created":                {{Field: "created"}},
	},
	DefaultOrdering: "productCode",
}

// ProductSchema describes the product record kind.
func ProductSchema() *Schema[Product] { return productSchema }

// ProductSearchPredicate compiles a product query scoped to one business,
// over the fields selected by the searchBy options.
func ProductSearchPredicate(clauses []query.Clause, businessID int64, fields []string) predicate.Node {
	scope := predicate.NumberRange{Field: "businessID", Lower: &businessID, Upper: &businessID}
	if len(clauses) == 0 {
		return scope
	}
	return predicate.And{Nodes: []predicate.Node{
		scope,
		predicate.FromClauses(clauses, fields),
	}}
}
