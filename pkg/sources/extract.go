package sources

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kerbaras/carddex/pkg/data"
	"golang.org/x/net/html"
)

const noDescription = "No Description"

var (
	nameSelectors        = []string{"span.card_name", ".card_name_flex_1", ".card_name", "a[title]", ".t_title a"}
	descriptionSelectors = []string{"dd.box_card_text", ".card_text", ".text_title"}
	raritySelectors      = []string{".rarity span", ".rarity", ".star_shining", ".star_gold", ".star_silver", ".icon_rarity"}
	typeSelectors        = []string{
		".card_info_species_and_other_item span",
		".species",
		".card_type",
		"div.item_box_title + .item_box_value",
		".item_box_value",
		`span[title*="Spell"]`,
		`span[title*="Trap"]`,
		".box_card_species span",
		".card_info span",
	}

	// checked in this order against icon src, alt and title
	attributes = []string{"light", "dark", "fire", "water", "earth", "wind", "divine", "spell", "trap"}

	knownRarities = map[string]bool{
		"Ultra Rare": true, "Super Rare": true, "Secret Rare": true, "Common": true, "Rare": true,
		"Ghost Rare": true, "Ultimate Rare": true, "Parallel Rare": true, "Gold Rare": true,
	}

	spellSubtypes = []string{"Continuous", "Quick-Play", "Field", "Equip", "Ritual"}
	trapSubtypes  = []string{"Continuous", "Counter"}
	textTypes     = []string{
		"Continuous Spell", "Quick-Play Spell", "Field Spell", "Equip Spell", "Ritual Spell", "Normal Spell",
		"Continuous Trap", "Counter Trap", "Normal Trap",
	}

	levelPattern = regexp.MustCompile(`(\d+)`)
	statPattern  = regexp.MustCompile(`(\d+|\?)`)
)

// ExtractCard reads one card row. Rows without a name are a parse error.
func ExtractCard(row *goquery.Selection) (*data.Card, error) {
	name := extractName(row)
	if name == "" {
		return nil, fmt.Errorf("%w: card row without a name", ErrParse)
	}

	atk, def := extractAtkDef(row)
	card := &data.Card{
		Name:        name,
		Attribute:   extractAttribute(row),
		Level:       extractLevel(row),
		CardType:    extractCardType(row),
		ATK:         atk,
		DEF:         def,
		Description: extractDescription(row),
		Rarity:      extractRarity(row),
	}

	if number := extractNumber(row); number != "" {
		card.Extra = map[string]string{"number": number}
	}

	return card, nil
}

func extractName(row *goquery.Selection) string {
	for _, sel := range nameSelectors {
		el := row.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		name := strings.TrimSpace(el.AttrOr("title", ""))
		if name == "" {
			name = strings.TrimSpace(el.Text())
		}
		if name != "" {
			return name
		}
	}
	return ""
}

func extractAttribute(row *goquery.Selection) string {
	if icon := row.Find(`img[src*="attribute"], .icon_img`).First(); icon.Length() > 0 {
		for _, text := range []string{icon.AttrOr("src", ""), icon.AttrOr("alt", ""), icon.AttrOr("title", "")} {
			text = strings.ToLower(text)
			for _, attr := range attributes {
				if strings.Contains(text, attr) {
					return strings.ToUpper(attr)
				}
			}
		}
	}

	if row.Find(`.icon_img[title*="Spell"], .icon_img[alt*="Spell"]`).Length() > 0 {
		return "SPELL"
	}
	if row.Find(`.icon_img[title*="Trap"], .icon_img[alt*="Trap"]`).Length() > 0 {
		return "TRAP"
	}

	if el := row.Find("div.box_card_attribute").First(); el.Length() > 0 {
		if text := collapse(el.Text()); text != "" {
			return text
		}
	}
	return data.NotAvailable
}

func extractLevel(row *goquery.Selection) string {
	el := row.Find(".box_card_level_rank span, .item_box_value").First()
	if m := levelPattern.FindStringSubmatch(el.Text()); m != nil {
		return m[1]
	}
	return data.NotAvailable
}

func extractCardType(row *goquery.Selection) string {
	for _, sel := range typeSelectors {
		el := row.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		text := collapse(el.Text())
		if text != "" && text != data.NotAvailable && text != "-" {
			return text
		}
	}

	if row.Find(`.icon_img[title*="Spell"], .icon_img[alt*="Spell"], img[src*="spell"]`).Length() > 0 {
		return subtype(row, "Spell", spellSubtypes)
	}
	if row.Find(`.icon_img[title*="Trap"], .icon_img[alt*="Trap"], img[src*="trap"]`).Length() > 0 {
		return subtype(row, "Trap", trapSubtypes)
	}

	all := strings.ToLower(row.Text())
	for _, full := range textTypes {
		if strings.Contains(all, strings.ToLower(full)) {
			return full
		}
	}

	return data.NotAvailable
}

// subtype looks through the row's elements for a "<subtype> ... <kind>" mention.
func subtype(row *goquery.Selection, kind string, subtypes []string) string {
	lowerKind := strings.ToLower(kind)
	found := ""
	row.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := strings.ToLower(el.Text())
		if !strings.Contains(text, lowerKind) {
			return true
		}
		for _, sub := range subtypes {
			if strings.Contains(text, strings.ToLower(sub)) {
				found = sub + " " + kind
				return false
			}
		}
		return true
	})
	if found != "" {
		return found
	}
	return "Normal " + kind
}

func extractAtkDef(row *goquery.Selection) (string, string) {
	atk, def := data.NotAvailable, data.NotAvailable

	box := row.Find(".atkdef, .item_box").First()
	if box.Length() == 0 {
		return atk, def
	}
	if m := statPattern.FindStringSubmatch(box.Find(".atk_power span, .item_box_value").First().Text()); m != nil {
		atk = m[1]
	}
	if m := statPattern.FindStringSubmatch(box.Find(".def_power span, .item_box_value").First().Text()); m != nil {
		def = m[1]
	}
	return atk, def
}

func extractDescription(row *goquery.Selection) string {
	for _, sel := range descriptionSelectors {
		el := row.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if text := joinedText(el); text != "" && text != noDescription {
			return text
		}
	}
	return noDescription
}

func extractRarity(row *goquery.Selection) string {
	rarity := ""
	row.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if text := strings.TrimSpace(el.Text()); knownRarities[text] {
			rarity = text
			return false
		}
		return true
	})
	if rarity != "" {
		return rarity
	}

	for _, sel := range raritySelectors {
		if text := strings.TrimSpace(row.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return data.NotAvailable
}

func extractNumber(row *goquery.Selection) string {
	return strings.TrimSpace(row.Find(`.card_number, .number, [class*="number"]`).First().Text())
}

// joinedText joins the element's trimmed text nodes with single spaces,
// so <br> separated lines do not run together.
func joinedText(s *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
