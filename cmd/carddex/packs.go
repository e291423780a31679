package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/carddex/pkg/services"
	"github.com/spf13/cobra"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "Enumerate booster packs",
	Long:  "Scrape the pack listing page and write the pack URL file without harvesting cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("max") {
			cfg.MaxPacks, _ = cmd.Flags().GetInt("max")
		}

		controller := services.NewCardController(cfg, logger)
		defer controller.Close()

		packs, err := controller.EnumeratePacks(cmd.Context())
		if err != nil {
			return err
		}

		if len(packs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No packs found.")
			return nil
		}

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers("#", "Pack", "URL")
		for i, p := range packs {
			t.Row(fmt.Sprintf("%d", i+1), p.Name, p.URL)
		}

		fmt.Fprintln(cmd.OutOrStdout(), t)
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d packs to %s\n", len(packs), cfg.PackURLsFile)
		return nil
	},
}

func init() {
	packsCmd.Flags().Int("max", 0, "stop after this many packs (0 = all)")
}
