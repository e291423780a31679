package search

import (
	"errors"
	"sort"
	"strings"

	"github.com/kerbaras/carddex/pkg/data"
)

var (
	// ErrNoMatch means nothing scored at or above the cutoff.
	ErrNoMatch = errors.New("no match found")
	// ErrEmptyQuery means there was nothing to search for.
	ErrEmptyQuery = errors.New("empty query")
)

// Options holds the scoring thresholds. A zero MultiLimit means unlimited.
type Options struct {
	SingleCutoff int
	MultiCutoff  int
	MultiLimit   int
}

func DefaultOptions() Options {
	return Options{SingleCutoff: 60, MultiCutoff: 50}
}

// Match is a scored search hit.
type Match struct {
	Card  *data.Card
	Score int
	Query Query
}

type entry struct {
	card   *data.Card
	tokens []string
	text   string // lower-cased search text for keyword checks
}

// Index scores queries against an in-memory catalog.
// It is read-only once built; Reset re-points it at another catalog.
type Index struct {
	entries []entry
	opts    Options
}

func NewIndex(catalog *data.Catalog, opts Options) *Index {
	idx := &Index{opts: opts}
	idx.Reset(catalog)
	return idx
}

// Reset rebuilds the index over catalog. A nil catalog empties it.
func (i *Index) Reset(catalog *data.Catalog) {
	i.entries = nil
	if catalog == nil {
		return
	}

	cards := catalog.Cards()
	i.entries = make([]entry, len(cards))
	for n, card := range cards {
		text := card.SearchText()
		i.entries[n] = entry{
			card:   card,
			tokens: Tokens(text),
			text:   strings.ToLower(text),
		}
	}
}

func (i *Index) Len() int {
	return len(i.entries)
}

func (i *Index) Options() Options {
	return i.opts
}

// BestMatch returns the highest scoring card. On equal scores the card
// inserted first wins.
func (i *Index) BestMatch(query string) (Match, error) {
	qTokens := Tokens(query)
	if len(qTokens) == 0 {
		return Match{}, ErrEmptyQuery
	}

	best := -1
	bestScore := -1
	for n := range i.entries {
		if score := tokenSetRatio(qTokens, i.entries[n].tokens); score > bestScore {
			best, bestScore = n, score
		}
	}

	if best < 0 || bestScore < i.opts.SingleCutoff {
		return Match{}, ErrNoMatch
	}

	return Match{
		Card:  i.entries[best].card,
		Score: bestScore,
		Query: Query{Raw: query, Text: query},
	}, nil
}

// MultiMatch returns every card scoring at least the multi cutoff that also
// contains all keywords, best first. Equal scores keep insertion order.
// A limit of zero or less means unlimited. With no fuzzy text, keyword
// matches alone qualify and score 100.
func (i *Index) MultiMatch(query string, keywords []string, limit int) ([]Match, error) {
	qTokens := Tokens(query)
	if len(qTokens) == 0 && len(keywords) == 0 {
		return nil, ErrEmptyQuery
	}

	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}

	q := Query{Raw: query, Text: query, Keywords: lowered}
	matches := []Match{}
	for n := range i.entries {
		e := &i.entries[n]
		if !containsAll(e.text, lowered) {
			continue
		}

		score := 100
		if len(qTokens) > 0 {
			score = tokenSetRatio(qTokens, e.tokens)
		}
		if score < i.opts.MultiCutoff {
			continue
		}
		matches = append(matches, Match{Card: e.card, Score: score, Query: q})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Search parses a raw multi-search query (with #keyword# filters) and runs
// MultiMatch with the configured limit.
func (i *Index) Search(raw string) ([]Match, error) {
	q := ParseQuery(raw)
	matches, err := i.MultiMatch(q.Text, q.Keywords, i.opts.MultiLimit)
	for n := range matches {
		matches[n].Query = q
	}
	return matches, err
}

func containsAll(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}
