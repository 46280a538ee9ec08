package search

import (
	"testing"

	"github.com/openstall/marketd/internal/domain/catalog"
	"github.com/openstall/marketd/internal/domain/search/query"
)

func TestRankClauseCountsOnceAcrossFields(t *testing.T) {
	// User 1 matches the single clause through two fields, user 2 through
	// one field plus a second clause. Clause count, not field count, wins.
	users := []catalog.User{
		{ID: 1, FirstName: "Rowan", Nickname: "Row"},
		{ID: 2, FirstName: "Rowan", LastName: "Boat"},
	}
	clauses, err := query.Parse("Row or Boat")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	ranked := rank(clauses, users, catalog.UserSchema(), false)
	if ranked[0].ID != 2 {
		t.Errorf("two-clause match should outrank a multi-field single clause, got %+v", ranked)
	}
}

func TestRankEmitsEachRecordOnce(t *testing.T) {
	users := []catalog.User{
		{ID: 1, FirstName: "Duck", LastName: "Duck", Nickname: "Duck"},
	}
	clauses, err := query.Parse("Duck")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	ranked := rank(clauses, users, catalog.UserSchema(), false)
	if len(ranked) != 1 {
		t.Fatalf("len = %d, want 1", len(ranked))
	}
}

func TestRankIsStableOnTies(t *testing.T) {
	users := []catalog.User{
		{ID: 5, FirstName: "Sam"},
		{ID: 1, FirstName: "Sam"},
		{ID: 3, FirstName: "Sam"},
	}
	clauses, err := query.Parse("Sam")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	for _, reverse := range []bool{false, true} {
		ranked := rank(clauses, users, catalog.UserSchema(), reverse)
		for i, want := range []int64{1, 3, 5} {
			if ranked[i].ID != want {
				t.Errorf("reverse=%v position %d has user %d, want %d", reverse, i, ranked[i].ID, want)
			}
		}
	}
}
