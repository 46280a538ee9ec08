package catalog

import (
	"fmt"
	"time"

	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/search/predicate"
	"github.com/openstall/marketd/internal/domain/search/query"
)

// Listing is an item offered for sale, denormalized with the fields of its
// product and owning business so listing searches need no joins.
type Listing struct {
	ID       int64     `json:"id"`
	Quantity int64     `json:"quantity"`
	// Price in cents.
	Price        int64     `json:"price"`
	Created      time.Time `json:"created"`
	Closes       time.Time `json:"closes"`
	MoreInfo     string    `json:"moreInfo,omitempty"`
	ProductName  string    `json:"productName"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Description  string    `json:"description,omitempty"`
	BusinessName string    `json:"businessName"`
	BusinessType string    `json:"businessType"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Region       string    `json:"region,omitempty"`
}

// NewListing validates the required fields and returns the listing.
func NewListing(id, quantity, price int64, productName, businessName string) (Listing, error) {
	if id < 1 {
		return Listing{}, fmt.Errorf("%w: listing id must be positive", domain.ErrValidation)
	}
	if quantity < 1 {
		return Listing{}, fmt.Errorf("%w: listing quantity must be positive", domain.ErrValidation)
	}
	if price < 0 {
		return Listing{}, fmt.Errorf("%w: listing price cannot be negative", domain.ErrValidation)
	}
	if productName == "" || businessName == "" {
		return Listing{}, fmt.Errorf("%w: listing product and business names are required", domain.ErrValidation)
	}
	return Listing{ID: id, Quantity: quantity, Price: price, ProductName: productName, BusinessName: businessName}, nil
}

var listingSchema = &Schema[Listing]{
	Kind: "listing",
	ID:   func(l Listing) int64 { return l.ID },
	Strings: map[string]func(Listing) string{
		"productName":  func(l Listing) string { return l.ProductName },
		"businessName": func(l Listing) string { return l.BusinessName },
		"country":      func(l Listing) string { return l.Country },
		"city":         func(l Listing) string { return l.City },
		"region":       func(l Listing) string { return l.Region },
		"manufacturer": func(l Listing) string { return l.Manufacturer },
		"description":  func(l Listing) string { return l.Description },
		"moreInfo":     func(l Listing) string { return l.MoreInfo },
		"businessType": func(l Listing) string { return l.BusinessType },
	},
	Numbers: map[string]func(Listing) int64{
		"quantity": func(l Listing) int64 { return l.Quantity },
		"price":    func(l Listing) int64 { return l.Price },
	},
	Dates: map[string]func(Listing) time.Time{
		"created": func(l Listing) time.Time { return l.Created },
		"closes":  func(l Listing) time.Time { return l.Closes },
	},
	SearchFields: []string{
		"productName", "businessName", "country", "city", "region",
		"manufacturer", "description", "moreInfo",
	},
	Orderings: map[string][]SortKey{
		"created":      {{Field: "created"}},
		"quantity":     {{Field: "quantity"}},
		"price":        {{Field: "price"}},
		"productName":  {{Field: "productName", FoldCase: true}},
		"closing":      {{Field: "closes"}},
		"businessName": {{Field: "businessName", FoldCase: true}},
		"businessLocation": {
			{Field: "country", FoldCase: true},
			{Field: "city", FoldCase: true},
		},
	},
	DefaultOrdering: "created",
}

// ListingSchema describes the sale listing record kind.
func ListingSchema() *Schema[Listing] { return listingSchema }

// ListingQueries carries the free-text and range filters of a listing
// search. All parts are optional; present parts AND together.
type ListingQueries struct {
	Basic    []query.Clause
	Product  []query.Clause
	Business []query.Clause
	Location []query.Clause

	PriceLower *int64
	PriceUpper *int64
	CloseLower *time.Time
	CloseUpper *time.Time

	BusinessTypes []string
}

// ListingSearchPredicate compiles the combined listing filters into one
// predicate tree.
func ListingSearchPredicate(q ListingQueries) (predicate.Node, error) {
	var nodes []predicate.Node

	if len(q.Basic) > 0 {
		nodes = append(nodes, predicate.FromClauses(q.Basic, listingSchema.SearchFields))
	}
	if len(q.Product) > 0 {
		nodes = append(nodes, predicate.FromClauses(q.Product, []string{"productName"}))
	}
	if len(q.Business) > 0 {
		nodes = append(nodes, predicate.FromClauses(q.Business, []string{"businessName"}))
	}
	if len(q.Location) > 0 {
		nodes = append(nodes, predicate.FromClauses(q.Location, []string{"country", "city", "region"}))
	}

	if q.PriceLower != nil || q.PriceUpper != nil {
		if q.PriceLower != nil && q.PriceUpper != nil && *q.PriceLower > *q.PriceUpper {
			return nil, fmt.Errorf("%w: price range lower bound exceeds upper bound", domain.ErrValidation)
		}
		nodes = append(nodes, predicate.NumberRange{Field: "price", Lower: q.PriceLower, Upper: q.PriceUpper})
	}
	if q.CloseLower != nil || q.CloseUpper != nil {
		if q.CloseLower != nil && q.CloseUpper != nil && q.CloseLower.After(*q.CloseUpper) {
			return nil, fmt.Errorf("%w: closing date range lower bound exceeds upper bound", domain.ErrValidation)
		}
		nodes = append(nodes, predicate.DateRange{Field: "closes", Lower: q.CloseLower, Upper: q.CloseUpper})
	}

	if len(q.BusinessTypes) > 0 {
		canonical := make([]string, len(q.BusinessTypes))
		for i, raw := range q.BusinessTypes {
			t, err := ParseBusinessType(raw)
			if err != nil {
				return nil, err
			}
			canonical[i] = t
		}
		nodes = append(nodes, predicate.In{Field: "businessType", Values: canonical})
	}

	switch len(nodes) {
	case 0:
		return predicate.True{}, nil
	case 1:
		return nodes[0], nil
	}
	return predicate.And{Nodes: nodes}, nil
}
