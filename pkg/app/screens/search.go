package screens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/carddex/pkg/app/components"
	"github.com/kerbaras/carddex/pkg/app/styles"
	"github.com/kerbaras/carddex/pkg/search"
)

// SearchScreen runs best-match searches, or multi searches with #keyword#
// filters when multi is set.
type SearchScreen struct {
	controller Controller
	multi      bool
	input      textinput.Model
	list       *components.CardList
	query      string
	searching  bool
	searched   bool
	width      int
	height     int
	err        error
}

func NewSearchScreen(controller Controller, multi bool) *SearchScreen {
	ti := textinput.New()
	ti.Placeholder = "Card name or text..."
	if multi {
		ti.Placeholder = "Text to match, #keyword# to require a word..."
	}
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	return &SearchScreen{
		controller: controller,
		multi:      multi,
		input:      ti,
		list:       components.NewCardList(),
	}
}

func (s *SearchScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *SearchScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.list.Width = msg.Width - 2
		s.list.Height = msg.Height - 8
		return s, nil

	case tea.KeyMsg:
		// If searching, don't process keys
		if s.searching {
			return s, nil
		}

		switch msg.String() {
		case "enter":
			if s.input.Focused() {
				query := strings.TrimSpace(s.input.Value())
				if query != "" {
					s.searching = true
					s.err = nil
					return s, s.performSearch(query)
				}
			} else if selected := s.list.Selected(); selected != nil {
				match := *selected
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "details", Data: match}
				}
			}
			return s, nil

		case "esc":
			// Switch focus between input and results
			if s.input.Focused() {
				s.input.Blur()
			} else {
				s.input.Focus()
				cmd = textinput.Blink
			}
			return s, cmd

		case "ctrl+e":
			if len(s.list.Items) > 0 {
				return s, exportMatches(s.controller, s.query, s.list.Items)
			}
			return s, nil

		case "up", "k":
			if !s.input.Focused() {
				s.list.Prev()
				return s, nil
			}

		case "down", "j":
			if !s.input.Focused() {
				s.list.Next()
				return s, nil
			}
		}

	case searchResultMsg:
		s.searching = false
		s.searched = true
		s.query = msg.query
		s.list.SetItems(msg.matches)
		s.err = msg.err
		if len(msg.matches) > 0 {
			s.input.Blur()
		}
		return s, nil

	case catalogChangedMsg:
		s.list.SetItems(nil)
		s.searched = false
		s.err = nil
		return s, nil
	}

	// Update text input
	if s.input.Focused() {
		s.input, cmd = s.input.Update(msg)
	}

	return s, cmd
}

func (s *SearchScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	title := "Search"
	if s.multi {
		title = "Multi Search"
	}
	header := styles.TitleStyle.Render(title)

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var errorMsg string
	switch {
	case errors.Is(s.err, search.ErrNoMatch):
		errorMsg = styles.MutedStyle.Render("No match found") + "\n\n"
	case s.err != nil:
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n\n"
	}

	var resultsView string
	if s.searching {
		resultsView = styles.StatusBusy.Render("Searching...")
	} else if len(s.list.Items) > 0 {
		resultsView = styles.SubtitleStyle.Render(fmt.Sprintf("Found %d results:", len(s.list.Items))) + "\n\n" + s.list.View()
	}

	help := styles.HelpStyle.Render(
		"enter: search/details • esc: switch focus • ↑/k ↓/j: navigate • ctrl+e: export EPUB • tab: switch view • q: quit",
	)

	return fmt.Sprintf("%s\n%s\n\n%s%s\n%s", header, inputView, errorMsg, resultsView, help)
}

// Messages
type searchResultMsg struct {
	multi   bool
	query   string
	matches []search.Match
	err     error
}

// Commands
func (s *SearchScreen) performSearch(query string) tea.Cmd {
	multi := s.multi
	return func() tea.Msg {
		if multi {
			matches, err := s.controller.MultiSearch(query)
			return searchResultMsg{multi: true, query: query, matches: matches, err: err}
		}

		match, err := s.controller.Search(query)
		if err != nil {
			return searchResultMsg{query: query, err: err}
		}
		return searchResultMsg{query: query, matches: []search.Match{match}}
	}
}

func exportMatches(controller Controller, title string, matches []search.Match) tea.Cmd {
	return func() tea.Msg {
		path, err := controller.Export(title, matches)
		if err != nil {
			return StatusMsg{Text: fmt.Sprintf("Export failed: %s", err), Err: true}
		}
		return StatusMsg{Text: fmt.Sprintf("Exported %d cards to %s", len(matches), path)}
	}
}
