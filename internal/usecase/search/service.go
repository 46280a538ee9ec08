// Package search implements the search operations of the marketplace:
// query parsing, predicate compilation, relevance ranking, sorting and
// pagination over every record kind.
package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openstall/marketd/internal/domain/catalog"
	"github.com/openstall/marketd/internal/domain/search/page"
	"github.com/openstall/marketd/internal/domain/search/query"
)

// OrderByRelevance requests relevance ranking explicitly.
const OrderByRelevance = "relevance"

// Service executes searches over the marketplace record kinds.
type Service struct {
	users      Collection[catalog.User]
	businesses Collection[catalog.Business]
	products   Collection[catalog.Product]
	listings   Collection[catalog.Listing]
	keywords   Collection[catalog.Keyword]
	cards      Collection[catalog.Card]

	log *zap.Logger
	now func() time.Time
}

// New creates a search service over the given collections.
func New(
	users Collection[catalog.User],
	businesses Collection[catalog.Business],
	products Collection[catalog.Product],
	listings Collection[catalog.Listing],
	keywords Collection[catalog.Keyword],
	cards Collection[catalog.Card],
	log *zap.Logger,
) *Service {
	return &Service{
		users:      users,
		businesses: businesses,
		products:   products,
		listings:   listings,
		keywords:   keywords,
		cards:      cards,
		log:        log,
		now:        time.Now,
	}
}

// PageParams carry the pagination and ordering arguments shared by every
// search operation.
type PageParams struct {
	Page    int
	Size    int
	OrderBy string
	Reverse bool
}

func (p PageParams) pageParams() page.Params {
	return page.Params{Number: p.Page, Size: p.Size}
}

// UserParams describe a user search.
type UserParams struct {
	Query string
	PageParams
}

// SearchUsers finds accounts matching a free-text name query. Without an
// explicit orderBy the results rank by relevance.
func (s *Service) SearchUsers(ctx context.Context, p UserParams) (page.Page[catalog.User], error) {
	clauses, err := query.Parse(p.Query)
	if err != nil {
		return page.Page[catalog.User]{}, err
	}

	candidates, err := s.users.Find(ctx, catalog.UserSearchPredicate(clauses))
	if err != nil {
		return page.Page[catalog.User]{}, err
	}

	result, err := finish(candidates, clauses, catalog.UserSchema(), p.PageParams)
	if err != nil {
		return page.Page[catalog.User]{}, err
	}
	s.log.Debug("user search",
		zap.String("query", p.Query),
		zap.Int("matches", result.Total))
	return result, nil
}

// BusinessParams describe a business search. Query and BusinessType are
// individually optional but one of them must be present.
type BusinessParams struct {
	Query        string
	BusinessType string
	PageParams
}

// SearchBusinesses finds businesses by name query and/or type filter.
func (s *Service) SearchBusinesses(ctx context.Context, p BusinessParams) (page.Page[catalog.Business], error) {
	clauses, err := parseOptional(p.Query)
	if err != nil {
		return page.Page[catalog.Business]{}, err
	}

	tree, err := catalog.BusinessSearchPredicate(clauses, p.BusinessType)
	if err != nil {
		return page.Page[catalog.Business]{}, err
	}

	candidates, err := s.businesses.Find(ctx, tree)
	if err != nil {
		return page.Page[catalog.Business]{}, err
	}

	result, err := finish(candidates, clauses, catalog.BusinessSchema(), p.PageParams)
	if err != nil {
		return page.Page[catalog.Business]{}, err
	}
	s.log.Debug("business search",
		zap.String("query", p.Query),
		zap.String("businessType", p.BusinessType),
		zap.Int("matches", result.Total))
	return result, nil
}

// ProductParams describe a product search within one business catalogue.
// SearchBy selects the searched columns; empty means name only.
type ProductParams struct {
	BusinessID int64
	Query      string
	SearchBy   []string
	PageParams
}

// SearchProducts finds products in a business catalogue. An empty query
// lists the whole catalogue.
func (s *Service) SearchProducts(ctx context.Context, p ProductParams) (page.Page[catalog.Product], error) {
	clauses, err := parseOptional(p.Query)
	if err != nil {
		return page.Page[catalog.Product]{}, err
	}
	fields, err := catalog.ProductFieldSet(p.SearchBy)
	if err != nil {
		return page.Page[catalog.Product]{}, err
	}

	candidates, err := s.products.Find(ctx, catalog.ProductSearchPredicate(clauses, p.BusinessID, fields))
	if err != nil {
		return page.Page[catalog.Product]{}, err
	}

	result, err := finish(candidates, clauses, catalog.ProductSchema(), p.PageParams)
	if err != nil {
		return page.Page[catalog.Product]{}, err
	}
	s.log.Debug("product search",
		zap.Int64("businessID", p.BusinessID),
		zap.String("query", p.Query),
		zap.Int("matches", result.Total))
	return result, nil
}

// ListingParams describe a sale listing search. Every filter is optional;
// present filters AND together.
type ListingParams struct {
	BasicQuery    string
	ProductQuery  string
	BusinessQuery string
	LocationQuery string

	PriceLower *int64
	PriceUpper *int64
	CloseLower *time.Time
	CloseUpper *time.Time

	BusinessTypes []string
	PageParams
}

// SearchListings finds sale listings matching the combined filters.
// Relevance ranking uses the basic query's clauses.
func (s *Service) SearchListings(ctx context.Context, p ListingParams) (page.Page[catalog.Listing], error) {
	queries := catalog.ListingQueries{
		PriceLower:    p.PriceLower,
		PriceUpper:    p.PriceUpper,
		CloseLower:    p.CloseLower,
		CloseUpper:    p.CloseUpper,
		BusinessTypes: p.BusinessTypes,
	}

	var err error
	if queries.Basic, err = parseOptional(p.BasicQuery); err != nil {
		return page.Page[catalog.Listing]{}, err
	}
	if queries.Product, err = parseOptional(p.ProductQuery); err != nil {
		return page.Page[catalog.Listing]{}, err
	}
	if queries.Business, err = parseOptional(p.BusinessQuery); err != nil {
		return page.Page[catalog.Listing]{}, err
	}
	if queries.Location, err = parseOptional(p.LocationQuery); err != nil {
		return page.Page[catalog.Listing]{}, err
	}

	tree, err := catalog.ListingSearchPredicate(queries)
	if err != nil {
		return page.Page[catalog.Listing]{}, err
	}

	candidates, err := s.listings.Find(ctx, tree)
	if err != nil {
		return page.Page[catalog.Listing]{}, err
	}

	result, err := finish(candidates, queries.Basic, catalog.ListingSchema(), p.PageParams)
	if err != nil {
		return page.Page[catalog.Listing]{}, err
	}
	s.log.Debug("listing search",
		zap.String("query", p.BasicQuery),
		zap.Int("matches", result.Total))
	return result, nil
}

// SearchKeywords finds marketplace tags whose name matches the query,
// ordered by name.
func (s *Service) SearchKeywords(ctx context.Context, rawQuery string) ([]catalog.Keyword, error) {
	clauses, err := query.Parse(rawQuery)
	if err != nil {
		return nil, err
	}

	matches, err := s.keywords.Find(ctx, catalog.KeywordSearchPredicate(clauses))
	if err != nil {
		return nil, err
	}

	cmp, err := catalog.KeywordSchema().Compare("", false)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool { return cmp(matches[i], matches[j]) < 0 })

	s.log.Debug("keyword search",
		zap.String("query", rawQuery),
		zap.Int("matches", len(matches)))
	return matches, nil
}

// CardParams describe a community marketplace card search.
type CardParams struct {
	Section    string
	KeywordIDs []int64
	// Union matches cards carrying any listed keyword instead of all.
	Union bool
	PageParams
}

// SearchCards finds active marketplace cards by section and keyword set.
func (s *Service) SearchCards(ctx context.Context, p CardParams) (page.Page[catalog.Card], error) {
	tree, err := catalog.CardFilter(p.Section, p.KeywordIDs, p.Union, s.now())
	if err != nil {
		return page.Page[catalog.Card]{}, err
	}

	candidates, err := s.cards.Find(ctx, tree)
	if err != nil {
		return page.Page[catalog.Card]{}, err
	}

	result, err := finish(candidates, nil, catalog.CardSchema(), p.PageParams)
	if err != nil {
		return page.Page[catalog.Card]{}, err
	}
	s.log.Debug("card search",
		zap.String("section", p.Section),
		zap.Int("matches", result.Total))
	return result, nil
}

// finish orders a candidate set and slices the requested page. Relevance
// ranking applies when asked for by name, or by default for kinds without
// a default sort field, and only when the search carried a query.
func finish[T any](candidates []T, clauses []query.Clause, schema *catalog.Schema[T], p PageParams) (page.Page[T], error) {
	if useRelevance(p.OrderBy, schema.DefaultOrdering) && len(clauses) > 0 {
		ranked := rank(clauses, candidates, schema, p.Reverse)
		return page.Of(ranked, p.pageParams()), nil
	}

	orderBy := p.OrderBy
	if strings.EqualFold(orderBy, OrderByRelevance) {
		orderBy = ""
	}
	cmp, err := schema.Compare(orderBy, p.Reverse)
	if err != nil {
		return page.Page[T]{}, err
	}
	sorted := make([]T, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return cmp(sorted[i], sorted[j]) < 0 })
	return page.Of(sorted, p.pageParams()), nil
}

func useRelevance(orderBy, defaultOrdering string) bool {
	if strings.EqualFold(orderBy, OrderByRelevance) {
		return true
	}
	return orderBy == "" && defaultOrdering == ""
}

func parseOptional(raw string) ([]query.Clause, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return query.Parse(raw)
}
