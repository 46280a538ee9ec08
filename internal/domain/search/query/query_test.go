package query

import (
	"errors"
	"testing"

	"github.com/openstall/marketd/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Clause
	}{
		{
			name: "single term",
			raw:  "Carl",
			want: []Clause{
				{Term: Term{Text: "Carl"}, Combinator: And},
			},
		},
		{
			name: "quoted term is exact",
			raw:  `"Carl"`,
			want: []Clause{
				{Term: Term{Text: "Carl", Exact: true}, Combinator: And},
			},
		},
		{
			name: "single quotes also delimit",
			raw:  "'Rose Gardens'",
			want: []Clause{
				{Term: Term{Text: "Rose Gardens", Exact: true}, Combinator: And},
			},
		},
		{
			name: "quoted term spanning words",
			raw:  `"Jonny Jackson" or Riley`,
			want: []Clause{
				{Term: Term{Text: "Jonny Jackson", Exact: true}, Combinator: And},
				{Term: Term{Text: "Riley"}, Combinator: Or},
			},
		},
		{
			name: "explicit and",
			raw:  `andy and "Graham"`,
			want: []Clause{
				{Term: Term{Text: "andy"}, Combinator: And},
				{Term: Term{Text: "Graham", Exact: true}, Combinator: And},
			},
		},
		{
			name: "explicit or",
			raw:  "Donald or Duck",
			want: []Clause{
				{Term: Term{Text: "Donald"}, Combinator: And},
				{Term: Term{Text: "Duck"}, Combinator: Or},
			},
		},
		{
			name: "implicit adjacency is and",
			raw:  "Donald Duck",
			want: []Clause{
				{Term: Term{Text: "Donald"}, Combinator: And},
				{Term: Term{Text: "Duck"}, Combinator: And},
			},
		},
		{
			name: "combinators are case insensitive",
			raw:  "tomato OR potato",
			want: []Clause{
				{Term: Term{Text: "tomato"}, Combinator: And},
				{Term: Term{Text: "potato"}, Combinator: Or},
			},
		},
		{
			name: "leading and trailing whitespace",
			raw:  "  apple \t banana  ",
			want: []Clause{
				{Term: Term{Text: "apple"}, Combinator: And},
				{Term: Term{Text: "banana"}, Combinator: And},
			},
		},
		{
			name: "quoted combinator is a term",
			raw:  `"or"`,
			want: []Clause{
				{Term: Term{Text: "or", Exact: true}, Combinator: And},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tc.raw, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tc.raw, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("clause %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "blank query", raw: ""},
		{name: "whitespace only", raw: "   "},
		{name: "unterminated double quote", raw: `"Jonny Jackson`},
		{name: "unterminated single quote", raw: "'half open"},
		{name: "lone combinator", raw: "or"},
		{name: "only combinators", raw: "and or and"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw)
			if !errors.Is(err, domain.ErrSearchFormat) {
				t.Fatalf("Parse(%q) error = %v, want ErrSearchFormat", tc.raw, err)
			}
		})
	}
}

func TestParseMismatchedQuotes(t *testing.T) {
	// An opening double quote is only closed by another double quote.
	_, err := Parse(`"mixed quotes'`)
	if !errors.Is(err, domain.ErrSearchFormat) {
		t.Fatalf("error = %v, want ErrSearchFormat", err)
	}
}

func TestWithoutOr(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Donald or Duck", want: "Donald and Duck"},
		{raw: "tomato OR potato or pea", want: "tomato and potato and pea"},
		{raw: `"this or that" or other`, want: `"this or that" and other`},
		{raw: "oregano orange", want: "oregano orange"},
		{raw: "plain and simple", want: "plain and simple"},
	}
	for _, tc := range tests {
		got, err := WithoutOr(tc.raw)
		if err != nil {
			t.Fatalf("WithoutOr(%q) returned error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Errorf("WithoutOr(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestExactMatches(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Donald or Duck", want: `"Donald" or "Duck"`},
		{raw: `"already exact" and loose`, want: `"already exact" and "loose"`},
		{raw: "one two", want: `"one" "two"`},
	}
	for _, tc := range tests {
		got, err := ExactMatches(tc.raw)
		if err != nil {
			t.Fatalf("ExactMatches(%q) returned error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Errorf("ExactMatches(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestWithoutOrPropagatesFormatError(t *testing.T) {
	if _, err := WithoutOr(`"open`); !errors.Is(err, domain.ErrSearchFormat) {
		t.Fatalf("error = %v, want ErrSearchFormat", err)
	}
	if _, err := ExactMatches(""); !errors.Is(err, domain.ErrSearchFormat) {
		t.Fatalf("error = %v, want ErrSearchFormat", err)
	}
}
