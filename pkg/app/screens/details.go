package screens

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/carddex/pkg/app/styles"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/search"
	"github.com/kerbaras/carddex/pkg/utils"
)

// DetailsScreen shows every field of one card.
type DetailsScreen struct {
	controller Controller
	match      search.Match
	width      int
	height     int
}

func NewDetailsScreen(controller Controller, match search.Match) *DetailsScreen {
	return &DetailsScreen{controller: controller, match: match}
}

func (s *DetailsScreen) Init() tea.Cmd {
	return nil
}

func (s *DetailsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "e", "ctrl+e":
			return s, exportMatches(s.controller, s.match.Card.Name, []search.Match{s.match})
		case "esc", "backspace":
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "back"}
			}
		}
	}

	return s, nil
}

func (s *DetailsScreen) View() string {
	if s.width == 0 || s.match.Card == nil {
		return "Loading..."
	}

	card := s.match.Card
	terms := s.match.Query.Terms()
	hl := func(text string) string { return utils.Highlight(text, terms, nil, styles.Mark) }

	header := styles.TitleStyle.Render(hl(card.Name))
	if s.match.Score > 0 {
		header += "  " + styles.ScoreStyle.Render(fmt.Sprintf("score %d", s.match.Score))
	}

	var lines []string
	field := func(label, value string) {
		if value == "" || value == data.NotAvailable {
			return
		}
		lines = append(lines, styles.LabelStyle.Render(label)+styles.TextStyle.Render(hl(value)))
	}
	field("Attribute", card.Attribute)
	field("Level", card.Level)
	field("Type", card.CardType)
	field("ATK", card.ATK)
	field("DEF", card.DEF)
	field("Rarity", card.Rarity)

	keys := make([]string, 0, len(card.Extra))
	for k := range card.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "" {
			continue
		}
		field(strings.ToUpper(k[:1])+k[1:], card.Extra[k])
	}

	descWidth := s.width - 8
	if descWidth < 20 {
		descWidth = 20
	}
	desc := lipgloss.NewStyle().Width(descWidth).Render(hl(card.Description))

	body := lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n"), "", desc)
	info := styles.CardStyle.Width(s.width - 4).Render(body)

	help := styles.HelpStyle.Render("e: export EPUB • esc: back • q: quit")

	return fmt.Sprintf("%s\n%s\n%s", header, info, help)
}
