package catalog

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/openstall/marketd/internal/domain"
)

func TestCompareLocationComposite(t *testing.T) {
	businesses := []Business{
		{ID: 1, Name: "a", Country: "new zealand", City: "Wellington"},
		{ID: 2, Name: "b", Country: "Australia", City: "sydney"},
		{ID: 3, Name: "c", Country: "New Zealand", City: "auckland"},
		{ID: 4, Name: "d", Country: "australia", City: "Brisbane"},
	}

	cmp, err := BusinessSchema().Compare("location", false)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	sort.SliceStable(businesses, func(i, j int) bool { return cmp(businesses[i], businesses[j]) < 0 })

	wantIDs := []int64{4, 2, 3, 1}
	for i, b := range businesses {
		if b.ID != wantIDs[i] {
			t.Fatalf("position %d has business %d, want %d", i, b.ID, wantIDs[i])
		}
	}
}

func TestCompareReverse(t *testing.T) {
	users := []User{
		{ID: 1, FirstName: "alice"},
		{ID: 2, FirstName: "Bob"},
		{ID: 3, FirstName: "carol"},
	}

	cmp, err := UserSchema().Compare("firstName", true)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	sort.SliceStable(users, func(i, j int) bool { return cmp(users[i], users[j]) < 0 })

	if users[0].ID != 3 || users[2].ID != 1 {
		t.Errorf("reverse order wrong: %+v", users)
	}
}

func TestCompareTiesBreakOnID(t *testing.T) {
	users := []User{
		{ID: 7, FirstName: "Sam"},
		{ID: 2, FirstName: "sam"},
		{ID: 5, FirstName: "SAM"},
	}

	cmp, err := UserSchema().Compare("firstName", false)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	sort.SliceStable(users, func(i, j int) bool { return cmp(users[i], users[j]) < 0 })

	wantIDs := []int64{2, 5, 7}
	for i, u := range users {
		if u.ID != wantIDs[i] {
			t.Fatalf("position %d has user %d, want %d", i, u.ID, wantIDs[i])
		}
	}
}

func TestCompareRejectsUnknownOrdering(t *testing.T) {
	if _, err := ProductSchema().Compare("bananas", false); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestCompareDefaultOrdering(t *testing.T) {
	cards := []Card{
		{ID: 1, LastRenewed: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ID: 2, LastRenewed: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	cmp, err := CardSchema().Compare("", false)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	sort.SliceStable(cards, func(i, j int) bool { return cmp(cards[i], cards[j]) < 0 })

	if cards[0].ID != 2 {
		t.Errorf("default card ordering should be by lastRenewed, got %+v", cards)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"0", 0},
		{"5", 500},
		{"17.50", 1750},
		{"17.5", 1750},
		{"0.99", 99},
		{"1000.01", 100001},
	}
	for _, tc := range tests {
		got, err := ParsePrice(tc.raw)
		if err != nil {
			t.Errorf("ParsePrice(%q) returned error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePrice(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"", "-5", "1.234", "abc", "1.2.3", "$5"} {
		if _, err := ParsePrice(raw); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("ParsePrice(%q) error = %v, want ErrValidation", raw, err)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(1750); got != "17.50" {
		t.Errorf("FormatPrice(1750) = %q, want %q", got, "17.50")
	}
	if got := FormatPrice(99); got != "0.99" {
		t.Errorf("FormatPrice(99) = %q, want %q", got, "0.99")
	}
}

func TestParseBusinessType(t *testing.T) {
	got, err := ParseBusinessType("retail trade")
	if err != nil {
		t.Fatalf("ParseBusinessType returned error: %v", err)
	}
	if got != "Retail Trade" {
		t.Errorf("canonical spelling = %q, want %q", got, "Retail Trade")
	}

	if _, err := ParseBusinessType("Piracy"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestProductFieldSet(t *testing.T) {
	fields, err := ProductFieldSet(nil)
	if err != nil {
		t.Fatalf("ProductFieldSet(nil) returned error: %v", err)
	}
	if len(fields) != 1 || fields[0] != "name" {
		t.Errorf("empty option set should search by name, got %v", fields)
	}

	fields, err = ProductFieldSet([]string{"manufacturer", "productCode"})
	if err != nil {
		t.Fatalf("ProductFieldSet returned error: %v", err)
	}
	if len(fields) != 2 {
		t.Errorf("fields = %v, want two entries", fields)
	}

	if _, err := ProductFieldSet([]string{"price"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestParseCardSection(t *testing.T) {
	got, err := ParseCardSection("forsale")
	if err != nil {
		t.Fatalf("ParseCardSection returned error: %v", err)
	}
	if got != "ForSale" {
		t.Errorf("canonical spelling = %q, want %q", got, "ForSale")
	}

	if _, err := ParseCardSection("Auctions"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
