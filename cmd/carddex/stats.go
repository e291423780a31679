package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the card cache",
	Long:  "Mirror the card cache into DuckDB and print card counts by attribute, type and rarity",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := loadController(cmd)
		if err != nil {
			return err
		}
		defer controller.Close()

		repo, err := data.NewDuckDBRepository(cfg.DuckDBFile)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := controller.Mirror(repo); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d cards\n", controller.Catalog().Len())

		fields, _ := cmd.Flags().GetStringSlice("by")
		for _, field := range fields {
			counts, err := repo.CountBy(field)
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(purple)).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				}).
				Headers(field, "cards")
			for _, c := range counts {
				t.Row(c.Value, fmt.Sprintf("%d", c.Count))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringSlice("by", []string{"attribute", "type", "rarity"}, "fields to group by (attribute, type, rarity, level)")
}
