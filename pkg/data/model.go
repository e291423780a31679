package data

import "strings"

// NotAvailable marks a field the scraper could not find on the page.
const NotAvailable = "N/A"

// PackRef points at a pack (set) detail page on the card database.
type PackRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Card is a single scraped card record, keyed by Name.
type Card struct {
	Name        string `json:"name"`
	Attribute   string `json:"attribute"`
	Level       string `json:"level"`
	CardType    string `json:"card_type"`
	ATK         string `json:"atk"`
	DEF         string `json:"defense"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`

	// Extra holds scraped attributes without a dedicated field (card number, source pack...).
	Extra map[string]string `json:"extra,omitempty"`
}

// SearchText is the text the fuzzy index scores and keyword filters run against.
// Extra stays out of it: pack names and set numbers are not card text.
func (c *Card) SearchText() string {
	parts := []string{c.Name, c.Description, c.CardType, c.Attribute}
	if available(c.ATK) {
		parts = append(parts, "ATK: "+c.ATK)
	}
	if available(c.DEF) {
		parts = append(parts, "DEF: "+c.DEF)
	}

	return strings.Join(parts, " ")
}

// IsMonster reports whether the card has battle stats.
func (c *Card) IsMonster() bool {
	return available(c.ATK) || available(c.DEF)
}

func available(v string) bool {
	return v != "" && v != NotAvailable
}
