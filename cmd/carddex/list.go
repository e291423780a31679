package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/utils"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cached cards",
	Long: `Display the cached cards in insertion order in a formatted table.
With --duckdb the cards are read from the DuckDB mirror written by 'carddex stats'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fromDB, _ := cmd.Flags().GetBool("duckdb")

		var catalog *data.Catalog
		var err error
		if fromDB {
			catalog, err = mirroredCatalog(cfg.DuckDBFile)
		} else {
			catalog, err = data.NewFileStore(cfg.CacheFile, cfg.PackURLsFile).LoadCatalog()
			if errors.Is(err, data.ErrCacheMissing) {
				catalog, err = data.NewCatalog(), nil
			}
		}
		if err != nil {
			return err
		}

		if catalog.Len() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No cards cached. Run 'carddex refresh' to scrape the card database.")
			return nil
		}

		if namesOnly, _ := cmd.Flags().GetBool("names"); namesOnly {
			for _, name := range catalog.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		cards := catalog.Cards()
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(cards) {
			cards = cards[:limit]
		}

		columns := []table.Column{
			{Title: "Name", Width: 36},
			{Title: "Attribute", Width: 9},
			{Title: "Level", Width: 5},
			{Title: "Type", Width: 24},
			{Title: "ATK", Width: 5},
			{Title: "DEF", Width: 5},
			{Title: "Rarity", Width: 14},
		}

		rows := make([]table.Row, 0, len(cards))
		for _, card := range cards {
			rows = append(rows, table.Row{
				utils.TruncateString(card.Name, 36),
				card.Attribute,
				card.Level,
				utils.TruncateString(card.CardType, 24),
				card.ATK,
				card.DEF,
				card.Rarity,
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Fprintf(cmd.OutOrStdout(), "\nCard cache (%d cards)\n\n", catalog.Len())
		fmt.Fprintln(cmd.OutOrStdout(), t.View())
		return nil
	},
}

// mirroredCatalog rebuilds a catalog from the DuckDB mirror, keeping its order.
func mirroredCatalog(path string) (*data.Catalog, error) {
	repo, err := data.NewDuckDBRepository(path)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	cards, err := repo.ListCards()
	if err != nil {
		return nil, fmt.Errorf("failed to read duckdb mirror: %w", err)
	}

	catalog := data.NewCatalog()
	for _, card := range cards {
		catalog.Put(card)
	}
	return catalog, nil
}

func init() {
	listCmd.Flags().IntP("limit", "l", 0, "show at most this many cards (0 = all)")
	listCmd.Flags().Bool("names", false, "print only card names, one per line")
	listCmd.Flags().Bool("duckdb", false, "read cards from the DuckDB mirror instead of the JSON cache")
}
