package search

import (
	"regexp"
	"strings"
)

var keywordPattern = regexp.MustCompile(`#([^#]+)#`)

// Query is a parsed multi-search query.
type Query struct {
	Raw      string
	Text     string   // fuzzy part
	Keywords []string // lower-cased required substrings
}

// ParseQuery pulls every #keyword# token out of raw. What remains, with
// whitespace collapsed, is the fuzzy query text.
func ParseQuery(raw string) Query {
	q := Query{Raw: raw}
	text := raw

	for _, m := range keywordPattern.FindAllStringSubmatch(raw, -1) {
		text = strings.Replace(text, m[0], " ", 1)
		if kw := strings.ToLower(strings.TrimSpace(m[1])); kw != "" {
			q.Keywords = append(q.Keywords, kw)
		}
	}

	q.Text = strings.Join(strings.Fields(text), " ")
	return q
}

// Terms returns the lower-cased words of the query worth highlighting (two runes or more).
func (q Query) Terms() []string {
	seen := make(map[string]bool)
	var terms []string
	add := func(s string) {
		for _, w := range strings.Fields(Normalize(s)) {
			if len([]rune(w)) >= 2 && !seen[w] {
				seen[w] = true
				terms = append(terms, w)
			}
		}
	}
	add(q.Text)
	for _, kw := range q.Keywords {
		add(kw)
	}
	return terms
}
