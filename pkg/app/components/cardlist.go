package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/carddex/pkg/app/styles"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/search"
	"github.com/kerbaras/carddex/pkg/utils"
)

// rows taken by one rendered card including border and margin
const cardHeight = 6

// CardList renders scored matches as cards with the query terms highlighted.
type CardList struct {
	Items         []search.Match
	SelectedIndex int
	Width         int
	Height        int
}

func NewCardList() *CardList {
	return &CardList{
		Items:         []search.Match{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
	}
}

func (m *CardList) SetItems(items []search.Match) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

func (m *CardList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *CardList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *CardList) Selected() *search.Match {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

// visible returns the window of items that fits Height, keeping the selection on screen.
func (m *CardList) visible() (int, int) {
	perPage := m.Height / cardHeight
	if perPage < 1 {
		perPage = 1
	}
	if len(m.Items) <= perPage {
		return 0, len(m.Items)
	}

	start := m.SelectedIndex - perPage/2
	if start < 0 {
		start = 0
	}
	end := start + perPage
	if end > len(m.Items) {
		end = len(m.Items)
		start = end - perPage
	}
	return start, end
}

func (m *CardList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render("No cards to show")
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder

	start, end := m.visible()
	for i := start; i < end; i++ {
		cardStyle := styles.CardStyle
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		card := cardStyle.Width(m.Width - 4).Render(RenderSummary(m.Items[i], m.Width-10))
		b.WriteString(card)
		b.WriteString("\n")
	}

	if start > 0 || end < len(m.Items) {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(m.Items))))
	}

	return b.String()
}

// RenderSummary is the short form of a match: name, score, type line and a
// truncated description.
func RenderSummary(match search.Match, width int) string {
	card := match.Card
	terms := match.Query.Terms()

	title := styles.TitleStyle.UnsetMarginBottom().Render(utils.Highlight(card.Name, terms, nil, styles.Mark))
	if match.Score > 0 {
		title += "  " + styles.ScoreStyle.Render(fmt.Sprintf("%d", match.Score))
	}

	info := []string{card.CardType, card.Attribute}
	if card.IsMonster() {
		info = append(info, fmt.Sprintf("ATK %s / DEF %s", card.ATK, card.DEF))
	}
	var parts []string
	for _, s := range info {
		if s != "" && s != data.NotAvailable {
			parts = append(parts, s)
		}
	}
	meta := styles.MutedStyle.Render(strings.Join(parts, " • "))

	if width < 10 {
		width = 10
	}
	desc := utils.Highlight(utils.TruncateString(card.Description, width), terms, nil, styles.Mark)

	return lipgloss.JoinVertical(lipgloss.Left, title, meta, styles.TextStyle.Render(desc))
}
