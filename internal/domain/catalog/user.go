package catalog

import (
	"fmt"
	"time"

	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/search/predicate"
	"github.com/openstall/marketd/internal/domain/search/query"
)

// User is a marketplace account. SystemAccount marks administrative
// accounts that never appear in search results.
type User struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"firstName"`
	MiddleName    string    `json:"middleName,omitempty"`
	LastName      string    `json:"lastName"`
	Nickname      string    `json:"nickname,omitempty"`
	Email         string    `json:"email"`
	SystemAccount bool      `json:"-"`
	Created       time.Time `json:"created"`
}

// NewUser validates the required naming fields and returns the user.
func NewUser(id int64, firstName, lastName, email string) (User, error) {
	if id < 1 {
		return User{}, fmt.Errorf("%w: user id must be positive", domain.ErrValidation)
	}
	if firstName == "" || lastName == "" {
		return User{}, fmt.Errorf("%w: user first and last name are required", domain.ErrValidation)
	}
	if email == "" {
		return User{}, fmt.Errorf("%w: user email is required", domain.ErrValidation)
	}
	return User{ID: id, FirstName: firstName, LastName: lastName, Email: email}, nil
}

var userSchema = &Schema[User]{
	Kind: "user",
	ID:   func(u User) int64 { return u.ID },
	Strings: map[string]func(User) string{
		"firstName":  func(u User) string { return u.FirstName },
		"middleName": func(u User) string { return u.MiddleName },
		"lastName":   func(u User) string { return u.LastName },
		"nickname":   func(u User) string { return u.Nickname },
		"email":      func(u User) string { return u.Email },
	},
	Numbers: map[string]func(User) int64{
		"userID": func(u User) int64 { return u.ID },
	},
	Dates: map[string]func(User) time.Time{
		"created": func(u User) time.Time { return u.Created },
	},
	Bools: map[string]func(User) bool{
		"systemAccount": func(u User) bool { return u.SystemAccount },
	},
	SearchFields: []string{"firstName", "lastName", "nickname", "middleName"},
	Orderings: map[string][]SortKey{
		"userID":     {{Field: "userID"}},
		"firstName":  {{Field: "firstName", FoldCase: true}},
		"middleName": {{Field: "middleName", FoldCase: true}},
		"lastName":   {{Field: "lastName", FoldCase: true}},
		"nickname":   {{Field: "nickname", FoldCase: true}},
		"email":      {{Field: "email", FoldCase: true}},
	},
	// Empty default: user search ranks by relevance unless orderBy is given.
	DefaultOrdering: "",
}

// UserSchema describes the user record kind.
func UserSchema() *Schema[User] { return userSchema }

// UserSearchPredicate compiles a user query, always excluding system
// accounts from the candidate set.
func UserSearchPredicate(clauses []query.Clause) predicate.Node {
	return predicate.And{Nodes: []predicate.Node{
		predicate.FromClauses(clauses, userSchema.SearchFields),
		predicate.Flag{Field: "systemAccount", Want: false},
	}}
}
