package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/search/predicate"
	"github.com/openstall/marketd/internal/domain/search/query"
)

func mustParse(t *testing.T, raw string) []query.Clause {
	t.Helper()
	clauses, err := query.Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", raw, err)
	}
	return clauses
}

func TestUserSearchPredicateExcludesSystemAccounts(t *testing.T) {
	tree := UserSearchPredicate(mustParse(t, "admin"))

	regular := User{ID: 1, FirstName: "Admin", LastName: "Jones"}
	system := User{ID: 2, FirstName: "Admin", LastName: "Jones", SystemAccount: true}

	schema := UserSchema()
	if !predicate.Eval(tree, schema.Fields(regular)) {
		t.Error("regular account matching the query should match")
	}
	if predicate.Eval(tree, schema.Fields(system)) {
		t.Error("system account must never match a search")
	}
}

func TestBusinessSearchPredicate(t *testing.T) {
	schema := BusinessSchema()
	cafe := Business{ID: 1, Name: "Corner Cafe", BusinessType: "Accommodation and Food Services"}
	shop := Business{ID: 2, Name: "Corner Shop", BusinessType: "Retail Trade"}

	tree, err := BusinessSearchPredicate(mustParse(t, "corner"), "Retail Trade")
	if err != nil {
		t.Fatalf("BusinessSearchPredicate returned error: %v", err)
	}
	if predicate.Eval(tree, schema.Fields(cafe)) {
		t.Error("type filter should exclude the cafe")
	}
	if !predicate.Eval(tree, schema.Fields(shop)) {
		t.Error("shop matches both query and type")
	}

	// Type alone is a valid search.
	tree, err = BusinessSearchPredicate(nil, "retail trade")
	if err != nil {
		t.Fatalf("BusinessSearchPredicate returned error: %v", err)
	}
	if !predicate.Eval(tree, schema.Fields(shop)) {
		t.Error("type-only search should match the shop")
	}

	if _, err := BusinessSearchPredicate(nil, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty search error = %v, want ErrValidation", err)
	}
	if _, err := BusinessSearchPredicate(nil, "Piracy"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad type error = %v, want ErrValidation", err)
	}
}

func TestProductSearchPredicateScopesToBusiness(t *testing.T) {
	schema := ProductSchema()
	mine := Product{ID: 1, BusinessID: 10, Name: "Watties Beans", ProductCode: "WB1"}
	theirs := Product{ID: 2, BusinessID: 11, Name: "Watties Beans", ProductCode: "WB1"}

	tree := ProductSearchPredicate(mustParse(t, "watties"), 10, []string{"name"})
	if !predicate.Eval(tree, schema.Fields(mine)) {
		t.Error("product of the searched business should match")
	}
	if predicate.Eval(tree, schema.Fields(theirs)) {
		t.Error("product of another business must not match")
	}

	// No query lists the whole catalogue of the business.
	tree = ProductSearchPredicate(nil, 10, []string{"name"})
	if !predicate.Eval(tree, schema.Fields(mine)) {
		t.Error("empty query should list the business catalogue")
	}
}

func TestListingSearchPredicate(t *testing.T) {
	schema := ListingSchema()
	listing := Listing{
		ID:           1,
		Quantity:     4,
		Price:        1750,
		ProductName:  "Sauvignon Blanc",
		BusinessName: "Rose Gardens Winery",
		BusinessType: "Retail Trade",
		Country:      "New Zealand",
		City:         "Nelson",
		Closes:       time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	lower, upper := int64(1000), int64(2000)
	tree, err := ListingSearchPredicate(ListingQueries{
		Product:       mustParse(t, "sauvignon"),
		Location:      mustParse(t, "nelson"),
		PriceLower:    &lower,
		PriceUpper:    &upper,
		BusinessTypes: []string{"Retail Trade"},
	})
	if err != nil {
		t.Fatalf("ListingSearchPredicate returned error: %v", err)
	}
	if !predicate.Eval(tree, schema.Fields(listing)) {
		t.Error("listing satisfies every filter and should match")
	}

	tight := int64(1800)
	tree, err = ListingSearchPredicate(ListingQueries{PriceLower: &tight})
	if err != nil {
		t.Fatalf("ListingSearchPredicate returned error: %v", err)
	}
	if predicate.Eval(tree, schema.Fields(listing)) {
		t.Error("price below the lower bound must not match")
	}
}

func TestListingSearchPredicateRangeValidation(t *testing.T) {
	lower, upper := int64(2000), int64(1000)
	if _, err := ListingSearchPredicate(ListingQueries{PriceLower: &lower, PriceUpper: &upper}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("inverted price range error = %v, want ErrValidation", err)
	}

	late := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := ListingSearchPredicate(ListingQueries{CloseLower: &late, CloseUpper: &early}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("inverted date range error = %v, want ErrValidation", err)
	}
}

func TestCardFilter(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	schema := CardSchema()

	open := Card{ID: 1, Section: "ForSale", Title: "Trailer", KeywordIDs: []int64{3, 7}, Closes: now.AddDate(0, 1, 0)}
	expired := Card{ID: 2, Section: "ForSale", Title: "Trailer", KeywordIDs: []int64{3, 7}, Closes: now.AddDate(0, -1, 0)}
	wanted := Card{ID: 3, Section: "Wanted", Title: "Trailer", KeywordIDs: []int64{3}, Closes: now.AddDate(0, 1, 0)}

	tree, err := CardFilter("ForSale", []int64{3, 7}, false, now)
	if err != nil {
		t.Fatalf("CardFilter returned error: %v", err)
	}
	if !predicate.Eval(tree, schema.Fields(open)) {
		t.Error("open card with all keywords should match")
	}
	if predicate.Eval(tree, schema.Fields(expired)) {
		t.Error("expired card must not match")
	}
	if predicate.Eval(tree, schema.Fields(wanted)) {
		t.Error("card in another section must not match")
	}

	// Union matches any keyword and no section matches all sections.
	tree, err = CardFilter("", []int64{7, 99}, true, now)
	if err != nil {
		t.Fatalf("CardFilter returned error: %v", err)
	}
	if !predicate.Eval(tree, schema.Fields(open)) {
		t.Error("union keyword filter should match on a single keyword")
	}
	if predicate.Eval(tree, schema.Fields(wanted)) {
		t.Error("card without any listed keyword must not match")
	}

	if _, err := CardFilter("Auctions", nil, false, now); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad section error = %v, want ErrValidation", err)
	}
}
