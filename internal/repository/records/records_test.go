package records

import (
	"context"
	"errors"
	"testing"

	"github.com/openstall/marketd/internal/db/memory"
	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/catalog"
	"github.com/openstall/marketd/internal/domain/search/predicate"
)

func TestCollectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	defer store.Close()
	users := NewCollection(store, catalog.UserSchema())

	user := catalog.User{ID: 1, FirstName: "Carl", LastName: "Smith", Email: "carl@example.com"}
	if err := users.Put(ctx, user); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := users.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.FirstName != "Carl" || got.Email != "carl@example.com" {
		t.Errorf("Get = %+v", got)
	}

	if err := users.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := users.Get(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after Delete error = %v, want ErrNotFound", err)
	}
}

func TestCollectionFindOrdersByID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	defer store.Close()
	users := NewCollection(store, catalog.UserSchema())

	// IDs straddling a digit-count boundary expose lexicographic key order.
	for _, id := range []int64{10, 2, 1, 21} {
		user := catalog.User{ID: id, FirstName: "Pat", LastName: "Lee", Email: "pat@example.com"}
		if err := users.Put(ctx, user); err != nil {
			t.Fatalf("Put returned error: %v", err)
		}
	}

	got, err := users.Find(ctx, predicate.True{})
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	want := []int64{1, 2, 10, 21}
	if len(got) != len(want) {
		t.Fatalf("Find returned %d records, want %d", len(got), len(want))
	}
	for i, user := range got {
		if user.ID != want[i] {
			t.Errorf("position %d has user %d, want %d", i, user.ID, want[i])
		}
	}
}

func TestCollectionFindFilters(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	defer store.Close()
	users := NewCollection(store, catalog.UserSchema())

	seed := []catalog.User{
		{ID: 1, FirstName: "Carl", LastName: "Smith", Email: "carl@example.com"},
		{ID: 2, FirstName: "Donald", LastName: "Duck", Email: "donald@example.com"},
	}
	for _, user := range seed {
		if err := users.Put(ctx, user); err != nil {
			t.Fatalf("Put returned error: %v", err)
		}
	}

	got, err := users.Find(ctx, predicate.Text{Field: "firstName", Value: "don"})
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Find = %+v, want only Donald", got)
	}
}

func TestCollectionsShareOneStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	defer store.Close()
	users := NewCollection(store, catalog.UserSchema())
	keywords := NewCollection(store, catalog.KeywordSchema())

	if err := users.Put(ctx, catalog.User{ID: 1, FirstName: "A", LastName: "B", Email: "a@b.c"}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := keywords.Put(ctx, catalog.Keyword{ID: 1, Name: "free"}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := keywords.Find(ctx, predicate.True{})
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "free" {
		t.Errorf("keyword collection leaked other kinds: %+v", got)
	}
}
