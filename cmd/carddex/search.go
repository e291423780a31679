package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/search"
	"github.com/kerbaras/carddex/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	purple = lipgloss.Color("99")

	headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy-search the card cache",
	Long: `Search the cached cards. By default prints the single best match.
With --multi every card above the multi cutoff is listed; wrap words in
#...# to require them, e.g. "dark magician #spell#".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		multi, _ := cmd.Flags().GetBool("multi")
		if cmd.Flags().Changed("limit") {
			cfg.MultiLimit, _ = cmd.Flags().GetInt("limit")
		}

		controller, err := loadController(cmd)
		if err != nil {
			return err
		}
		defer controller.Close()

		var matches []search.Match
		if multi {
			matches, err = controller.MultiSearch(query)
		} else {
			var m search.Match
			m, err = controller.Search(query)
			matches = []search.Match{m}
		}
		if errors.Is(err, search.ErrNoMatch) {
			fmt.Fprintln(cmd.OutOrStdout(), "No match found.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), matchTable(matches))
		return nil
	},
}

func matchTable(matches []search.Match) *table.Table {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			default:
				return cellStyle
			}
		}).
		Headers("#", "Score", "Name", "Type", "Attribute", "ATK/DEF", "Text")

	mark := func(s string) string { return markStyle.Render(s) }
	for i, m := range matches {
		terms := m.Query.Terms()
		t.Row(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", m.Score),
			utils.Highlight(m.Card.Name, terms, nil, mark),
			m.Card.CardType,
			m.Card.Attribute,
			stats(m.Card),
			utils.Highlight(utils.TruncateString(m.Card.Description, 58), terms, nil, mark),
		)
	}
	return t
}

func stats(card *data.Card) string {
	if !card.IsMonster() {
		return ""
	}
	return card.ATK + "/" + card.DEF
}

func init() {
	searchCmd.Flags().BoolP("multi", "m", false, "list every match instead of the best one")
	searchCmd.Flags().IntP("limit", "l", 0, "maximum number of multi search results (0 = unlimited)")
}
