// Package chi exposes the search API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openstall/marketd/internal/db"
	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/catalog"
	"github.com/openstall/marketd/internal/domain/search/page"
	"github.com/openstall/marketd/internal/metrics"
	"github.com/openstall/marketd/internal/repository/records"
	searchuc "github.com/openstall/marketd/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server carries the HTTP handlers for the search API and the record
// seeding surface.
type Server struct {
	search *searchuc.Service

	users      *records.Collection[catalog.User]
	businesses *records.Collection[catalog.Business]
	products   *records.Collection[catalog.Product]
	listings   *records.Collection[catalog.Listing]
	keywords   *records.Collection[catalog.Keyword]
	cards      *records.Collection[catalog.Card]

	store         db.Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler

	defaultPageSize int
	maxPageSize     int
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	users *records.Collection[catalog.User],
	businesses *records.Collection[catalog.Business],
	products *records.Collection[catalog.Product],
	listings *records.Collection[catalog.Listing],
	keywords *records.Collection[catalog.Keyword],
	cards *records.Collection[catalog.Card],
	store db.Pinger,
	logger *zap.Logger,
	defaultPageSize, maxPageSize int,
) *Server {
	s := &Server{
		search:          search,
		users:           users,
		businesses:      businesses,
		products:        products,
		listings:        listings,
		keywords:        keywords,
		cards:           cards,
		store:           store,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSearchFormat, http.StatusBadRequest, "invalid_search_query"),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "not_found"),
	}
	return s
}

// Routes registers every endpoint on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/users/search", s.SearchUsers)
	r.Get("/businesses/search", s.SearchBusinesses)
	r.Get("/businesses/{businessID}/products/search", s.SearchProducts)
	r.Get("/listings/search", s.SearchListings)
	r.Get("/keywords/search", s.SearchKeywords)
	r.Get("/cards/search", s.SearchCards)

	r.Put("/users/{id}", putRecord(s, s.users))
	r.Delete("/users/{id}", deleteRecord(s, s.users))
	r.Put("/businesses/{id}", putRecord(s, s.businesses))
	r.Delete("/businesses/{id}", deleteRecord(s, s.businesses))
	r.Put("/products/{id}", putRecord(s, s.products))
	r.Delete("/products/{id}", deleteRecord(s, s.products))
	r.Put("/listings/{id}", putRecord(s, s.listings))
	r.Delete("/listings/{id}", deleteRecord(s, s.listings))
	r.Put("/keywords/{id}", putRecord(s, s.keywords))
	r.Delete("/keywords/{id}", deleteRecord(s, s.keywords))
	r.Put("/cards/{id}", putRecord(s, s.cards))
	r.Delete("/cards/{id}", deleteRecord(s, s.cards))
}

// searchResponse is the envelope of every search endpoint.
type searchResponse struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

func pageResponse[T any](p page.Page[T]) searchResponse {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return searchResponse{Count: p.Total, Results: items}
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SearchUsers handles GET /users/search.
func (s *Server) SearchUsers(w http.ResponseWriter, r *http.Request) {
	pp, err := s.pageParams(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.search.SearchUsers(r.Context(), searchuc.UserParams{
		Query:      r.URL.Query().Get("searchQuery"),
		PageParams: pp,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	metrics.ObserveSearch("user")
	writeJSON(w, http.StatusOK, pageResponse(result))
}

// SearchBusinesses handles GET /businesses/search.
func (s *Server) SearchBusinesses(w http.ResponseWriter, r *http.Request) {
	pp, err := s.pageParams(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.search.SearchBusinesses(r.Context(), searchuc.BusinessParams{
		Query:        r.URL.Query().Get("searchQuery"),
		BusinessType: r.URL.Query().Get("businessType"),
		PageParams:   pp,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	metrics.ObserveSearch("business")
	writeJSON(w, http.StatusOK, pageResponse(result))
}

// SearchProducts handles GET /businesses/{businessID}/products/search.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	businessID, err := int64PathParam(r, "businessID")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	pp, err := s.pageParams(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.search.SearchProducts(r.Context(), searchuc.ProductParams{
		BusinessID: businessID,
		Query:      r.URL.Query().Get("searchQuery"),
		SearchBy:   listParam(r, "searchBy"),
		PageParams: pp,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	metrics.ObserveSearch("product")
	writeJSON(w, http.StatusOK, pageResponse(result))
}

// SearchListings handles GET /listings/search.
func (s *Server) SearchListings(w http.ResponseWriter, r *http.Request) {
	pp, err := s.pageParams(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	params := searchuc.ListingParams{
		BasicQuery:    r.URL.Query().Get("basicSearchQuery"),
		ProductQuery:  r.URL.Query().Get("productSearchQuery"),
		BusinessQuery: r.URL.Query().Get("businessSearchQuery"),
		LocationQuery: r.URL.Query().Get("locationSearchQuery"),
		BusinessTypes: listParam(r, "businessTypes"),
		PageParams:    pp,
	}
	if params.PriceLower, err = priceParam(r, "priceLower"); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if params.PriceUpper, err = priceParam(r, "priceUpper"); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if params.CloseLower, err = dateParam(r, "closeLower"); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if params.CloseUpper, err = dateParam(r, "closeUpper"); err != nil {
		s.handleDomainError(w, err)
		return
	}
	if params.CloseUpper != nil {
		// The query names a calendar day; the bound covers all of it.
		end := params.CloseUpper.AddDate(0, 0, 1).Add(-time.Nanosecond)
		params.CloseUpper = &end
	}

	result, err := s.search.SearchListings(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	metrics.ObserveSearch("listing")
	writeJSON(w, http.StatusOK, pageResponse(result))
}

// SearchKeywords handles GET /keywords/search.
func (s *Server) SearchKeywords(w http.ResponseWriter, r *http.Request) {
	matches, err := s.search.SearchKeywords(r.Context(), r.URL.Query().Get("searchQuery"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if matches == nil {
		matches = []catalog.Keyword{}
	}
	metrics.ObserveSearch("keyword")
	writeJSON(w, http.StatusOK, searchResponse{Count: len(matches), Results: matches})
}

// SearchCards handles GET /cards/search.
func (s *Server) SearchCards(w http.ResponseWriter, r *http.Request) {
	pp, err := s.pageParams(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	keywordIDs, err := int64ListParam(r, "keywordIds")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	union, err := boolParam(r, "union")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.search.SearchCards(r.Context(), searchuc.CardParams{
		Section:    r.URL.Query().Get("section"),
		KeywordIDs: keywordIDs,
		Union:      union,
		PageParams: pp,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	metrics.ObserveSearch("card")
	writeJSON(w, http.StatusOK, pageResponse(result))
}

// putRecord stores one record of a kind under its path ID. The body is the
// record JSON and must carry the same ID as the path.
func putRecord[T any](s *Server, coll *records.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64PathParam(r, "id")
		if err != nil {
			s.handleDomainError(w, err)
			return
		}

		var record T
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
			return
		}
		if coll.ID(record) != id {
			writeError(w, http.StatusBadRequest, "validation_failed", "record id does not match path")
			return
		}

		if err := coll.Put(r.Context(), record); err != nil {
			s.handleDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteRecord[T any](s *Server, coll *records.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64PathParam(r, "id")
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		if err := coll.Delete(r.Context(), id); err != nil {
			s.handleDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err, err.Error()) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// pageParams extracts pagination arguments, applying the configured default
// page size and clamping oversized requests to the configured maximum.
func (s *Server) pageParams(r *http.Request) (searchuc.PageParams, error) {
	pageNo, err := intParam(r, "page")
	if err != nil {
		return searchuc.PageParams{}, err
	}
	size, err := intParam(r, "resultsPerPage")
	if err != nil {
		return searchuc.PageParams{}, err
	}
	reverse, err := boolParam(r, "reverse")
	if err != nil {
		return searchuc.PageParams{}, err
	}

	if size < 1 && s.defaultPageSize > 0 {
		size = s.defaultPageSize
	}
	if s.maxPageSize > 0 && size > s.maxPageSize {
		size = s.maxPageSize
	}
	return searchuc.PageParams{
		Page:    pageNo,
		Size:    size,
		OrderBy: r.URL.Query().Get("orderBy"),
		Reverse: reverse,
	}, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name, raw)
	}
	return value, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidParam(name, raw)
	}
	return value, nil
}

func int64PathParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 1 {
		return 0, invalidParam(name, raw)
	}
	return value, nil
}

func listParam(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func int64ListParam(r *http.Request, name string) ([]int64, error) {
	parts := listParam(r, name)
	if len(parts) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(parts))
	for i, part := range parts {
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, invalidParam(name, part)
		}
		ids[i] = value
	}
	return ids, nil
}

func priceParam(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	cents, err := catalog.ParsePrice(raw)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}

func dateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, invalidParam(name, raw)
	}
	return &value, nil
}

func invalidParam(name, value string) error {
	return &paramError{name: name, value: value}
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + " parameter: " + strconv.Quote(e.value)
}

func (e *paramError) Unwrap() error { return domain.ErrValidation }
