package utils

import (
	"regexp"
	"sort"
	"strings"
)

// Highlight wraps every case-insensitive occurrence of terms in text with mark
// and passes the text in between through plain. A nil func leaves its part as is.
func Highlight(text string, terms []string, plain, mark func(string) string) string {
	if plain == nil {
		plain = identity
	}
	if mark == nil {
		mark = identity
	}

	re := termsPattern(terms)
	if re == nil || text == "" {
		return plain(text)
	}

	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		b.WriteString(plain(text[last:loc[0]]))
		b.WriteString(mark(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	b.WriteString(plain(text[last:]))
	return b.String()
}

// longest terms first so "magician" wins over "magic"
func termsPattern(terms []string) *regexp.Regexp {
	var quoted []string
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			quoted = append(quoted, t)
		}
	}
	if len(quoted) == 0 {
		return nil
	}

	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	for i, t := range quoted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

func identity(s string) string { return s }

// TruncateString shortens s to max runes, ending with "...".
func TruncateString(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
