package integrations

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/search"
	"github.com/kerbaras/carddex/pkg/utils"
)

const defaultTitle = "carddex"

// Binder compiles search results into an EPUB, one section per card.
type Binder struct {
	outputDir string
}

func NewBinder(outputDir string) *Binder {
	return &Binder{outputDir: outputDir}
}

var _ Exporter = (*Binder)(nil)

// Bind writes matches to <outputDir>/<title>.epub. Query terms are marked in each card's text.
func (b *Binder) Bind(title string, matches []search.Match) (string, error) {
	if len(matches) == 0 {
		return "", fmt.Errorf("no cards to export")
	}

	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if strings.TrimSpace(title) == "" {
		title = defaultTitle
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor("carddex")
	e.SetDescription(fmt.Sprintf("%d cards matching %q", len(matches), title))
	e.SetLang("en")

	for _, m := range matches {
		if m.Card == nil {
			continue
		}
		if _, err := e.AddSection(cardSection(m), m.Card.Name, "", ""); err != nil {
			return "", fmt.Errorf("failed to add section %s: %w", m.Card.Name, err)
		}
	}

	safeTitle := sanitizeFilename(title)
	if safeTitle == "" {
		safeTitle = defaultTitle
	}
	outputPath := filepath.Join(b.outputDir, safeTitle+".epub")

	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

// cardSection renders one card as XHTML.
func cardSection(m search.Match) string {
	card := m.Card
	terms := m.Query.Terms()
	mark := func(s string) string { return "<mark>" + html.EscapeString(s) + "</mark>" }
	hl := func(s string) string { return utils.Highlight(s, terms, html.EscapeString, mark) }

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", hl(card.Name))
	if m.Score > 0 {
		fmt.Fprintf(&b, "<p><small>score %d</small></p>\n", m.Score)
	}

	b.WriteString("<table>\n")
	row := func(label, value string) {
		if value == "" || value == data.NotAvailable {
			return
		}
		fmt.Fprintf(&b, "<tr><th>%s</th><td>%s</td></tr>\n", label, hl(value))
	}
	row("Attribute", card.Attribute)
	row("Level", card.Level)
	row("Type", card.CardType)
	if card.IsMonster() {
		row("ATK", card.ATK)
		row("DEF", card.DEF)
	}
	row("Rarity", card.Rarity)
	row("Number", card.Extra["number"])
	row("Pack", card.Extra["pack"])
	b.WriteString("</table>\n")

	fmt.Fprintf(&b, "<p>%s</p>\n", hl(card.Description))
	return b.String()
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "#"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
