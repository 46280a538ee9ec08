package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/openstall/marketd/internal/domain"
	"github.com/openstall/marketd/internal/domain/search/predicate"
)

// Sections of the community marketplace.
var CardSections = []string{"ForSale", "Wanted", "Exchange"}

// ParseCardSection validates a marketplace section name, returning its
// canonical spelling.
func ParseCardSection(raw string) (string, error) {
	for _, s := range CardSections {
		if strings.EqualFold(raw, s) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: invalid marketplace section: %q", domain.ErrValidation, raw)
}

// Card is a community marketplace post, denormalized with its creator's
// name and location for sorting.
type Card struct {
	ID               int64     `json:"id"`
	Section          string    `json:"section"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Created          time.Time `json:"created"`
	LastRenewed      time.Time `json:"lastRenewed"`
	Closes           time.Time `json:"closes"`
	CreatorID        int64     `json:"creatorId"`
	CreatorFirstName string    `json:"creatorFirstName"`
	CreatorLastName  string    `json:"creatorLastName"`
	Country          string    `json:"country"`
	City             string    `json:"city"`
	KeywordIDs       []int64   `json:"keywordIds,omitempty"`
}

// NewCard validates the required fields and returns the card.
func NewCard(id int64, section, title string, creatorID int64) (Card, error) {
	if id < 1 {
		return Card{}, fmt.Errorf("%w: card id must be positive", domain.ErrValidation)
	}
	canonical, err := ParseCardSection(section)
	if err != nil {
		return Card{}, err
	}
	if title == "" {
		return Card{}, fmt.Errorf("%w: card title is required", domain.ErrValidation)
	}
	if creatorID < 1 {
		return Card{}, fmt.Errorf("%w: card creator id must be positive", domain.ErrValidation)
	}
	return Card{ID: id, Section: canonical, Title: title, CreatorID: creatorID}, nil
}

var cardSchema = &Schema[Card]{
	Kind: "card",
	ID:   func(c Card) int64 { return c.ID },
	Strings: map[string]func(Card) string{
		"section":          func(c Card) string { return c.Section },
		"title":            func(c Card) string { return c.Title },
		"description":      func(c Card) string { return c.Description },
		"creatorFirstName": func(c Card) string { return c.CreatorFirstName },
		"creatorLastName":  func(c Card) string { return c.CreatorLastName },
		"country":          func(c Card) string { return c.Country },
		"city":             func(c Card) string { return c.City },
	},
	Dates: map[string]func(Card) time.Time{
		"created":     func(c Card) time.Time { return c.Created },
		"lastRenewed": func(c Card) time.Time { return c.LastRenewed },
		"closes":      func(c Card) time.Time { return c.Closes },
	},
	IDSets: map[string]func(Card) []int64{
		"keywords": func(c Card) []int64 { return c.KeywordIDs },
	},
	SearchFields: []string{"title"},
	Orderings: map[string][]SortKey{
		"lastRenewed":      {{Field: "lastRenewed"}},
		"created":          {{Field: "created"}},
		"title":            {{Field: "title", FoldCase: true}},
		"closes":           {{Field: "closes"}},
		"creatorFirstName": {{Field: "creatorFirstName", FoldCase: true}},
		"creatorLastName":  {{Field: "creatorLastName", FoldCase: true}},
		"location": {
			{Field: "country", FoldCase: true},
			{Field: "city", FoldCase: true},
		},
	},
	DefaultOrdering: "lastRenewed",
}

// CardSchema describes the marketplace card record kind.
func CardSchema() *Schema[Card] { return cardSchema }

// CardFilter selects active cards by section and keyword set. An empty
// section matches all sections. With union set, a card needs any of the
// keyword IDs; otherwise it needs all of them. Cards whose closing time has
// passed are always excluded.
func CardFilter(section string, keywordIDs []int64, union bool, now time.Time) (predicate.Node, error) {
	nodes := []predicate.Node{
		predicate.DateRange{Field: "closes", Lower: &now},
	}
	if section != "" {
		canonical, err := ParseCardSection(section)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, predicate.In{Field: "section", Values: []string{canonical}})
	}
	if len(keywordIDs) > 0 {
		nodes = append(nodes, predicate.Keywords{Field: "keywords", IDs: keywordIDs, All: !union})
	}
	return predicate.And{Nodes: nodes}, nil
}
