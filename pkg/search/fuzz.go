package search

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Normalize lower-cases s and turns every rune that is not a letter or digit into a space.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
}

// Tokens returns the sorted, de-duplicated words of the normalised text.
func Tokens(s string) []string {
	fields := strings.Fields(Normalize(s))
	sort.Strings(fields)

	out := fields[:0]
	for _, f := range fields {
		if len(out) > 0 && out[len(out)-1] == f {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Ratio is the 0..100 similarity of two strings based on their longest common subsequence.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	lensum := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	lcs := edlib.LCS(a, b)
	return int(math.Round(200 * float64(lcs) / float64(lensum)))
}

// TokenSetRatio scores two texts by their shared words, ignoring word order and repeats.
// A text whose words are all contained in the other scores 100.
func TokenSetRatio(a, b string) int {
	return tokenSetRatio(Tokens(a), Tokens(b))
}

// tokenSetRatio expects both inputs sorted and de-duplicated.
func tokenSetRatio(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var sect, onlyA, onlyB []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			sect = append(sect, a[i])
			i++
			j++
		case a[i] < b[j]:
			onlyA = append(onlyA, a[i])
			i++
		default:
			onlyB = append(onlyB, b[j])
			j++
		}
	}
	onlyA = append(onlyA, a[i:]...)
	onlyB = append(onlyB, b[j:]...)

	base := strings.Join(sect, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	return max(Ratio(base, withA), Ratio(base, withB), Ratio(withA, withB))
}
