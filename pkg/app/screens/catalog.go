package screens

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/carddex/pkg/app/styles"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/search"
)

// CatalogScreen browses every cached card in insertion order.
type CatalogScreen struct {
	controller Controller
	table      table.Model
	cards      []*data.Card
	width      int
	height     int
}

func NewCatalogScreen(controller Controller) *CatalogScreen {
	t := table.New(
		table.WithColumns(catalogColumns(80)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.Foreground(styles.Secondary).Bold(true)
	st.Selected = st.Selected.Foreground(styles.Primary).Bold(true)
	t.SetStyles(st)

	return &CatalogScreen{controller: controller, table: t}
}

func catalogColumns(width int) []table.Column {
	name := width - 60
	if name < 20 {
		name = 20
	}
	return []table.Column{
		{Title: "Name", Width: name},
		{Title: "Attribute", Width: 9},
		{Title: "Lvl", Width: 3},
		{Title: "Type", Width: 20},
		{Title: "ATK", Width: 5},
		{Title: "DEF", Width: 5},
	}
}

func (s *CatalogScreen) Init() tea.Cmd {
	return s.loadCards
}

func (s *CatalogScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.table.SetColumns(catalogColumns(msg.Width - 4))
		s.table.SetHeight(max(msg.Height-6, 3))
		return s, nil

	case catalogChangedMsg:
		return s, s.loadCards

	case cardsLoadedMsg:
		s.cards = msg.cards
		rows := make([]table.Row, len(msg.cards))
		for i, c := range msg.cards {
			rows[i] = table.Row{c.Name, c.Attribute, c.Level, c.CardType, c.ATK, c.DEF}
		}
		s.table.SetRows(rows)
		if s.table.Cursor() >= len(rows) {
			s.table.SetCursor(0)
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if card := s.Selected(); card != nil {
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "details", Data: search.Match{Card: card}}
				}
			}
			return s, nil
		case "r":
			return s, s.loadCards
		}
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

func (s *CatalogScreen) Selected() *data.Card {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.cards) {
		return nil
	}
	return s.cards[i]
}

func (s *CatalogScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("Card Catalog (%d)", len(s.cards)))
	if len(s.cards) == 0 {
		return header + "\n" + styles.MutedStyle.Render("The catalog is empty. Press ctrl+r to scrape the card database.")
	}

	help := styles.HelpStyle.Render("↑/k ↓/j: navigate • enter: details • r: reload • tab: switch view • q: quit")
	return fmt.Sprintf("%s\n%s\n%s", header, s.table.View(), help)
}

// Messages
type cardsLoadedMsg struct {
	cards []*data.Card
}

// Commands
func (s *CatalogScreen) loadCards() tea.Msg {
	return cardsLoadedMsg{cards: s.controller.Catalog().Cards()}
}
