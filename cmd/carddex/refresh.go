package cmd

import (
	"fmt"

	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/services"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Clear the cache and scrape the card database again",
	RunE: func(cmd *cobra.Command, args []string) error {
		repack, _ := cmd.Flags().GetBool("packs")
		if cmd.Flags().Changed("max") {
			cfg.MaxPacks, _ = cmd.Flags().GetInt("max")
		}

		controller := services.NewCardController(cfg, logger)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for progress := range controller.GetProgressChannel() {
				switch progress.Status {
				case "parsed":
					fmt.Fprintf(cmd.ErrOrStderr(), "  [%d/%d] %s: %d cards\n", progress.Current, progress.Total, progress.PackName, progress.CardsFound)
				case "failed":
					fmt.Fprintf(cmd.ErrOrStderr(), "  [%d/%d] %s: skipped (%s)\n", progress.Current, progress.Total, progress.PackName, progress.Error)
				}
			}
		}()

		report, err := controller.Refresh(cmd.Context(), repack)
		// Close ends the printer loop
		controller.Close()
		<-done
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), report.String())
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the card cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := data.NewFileStore(cfg.CacheFile, cfg.PackURLsFile)
		if err := store.RemoveCatalog(); err != nil {
			return err
		}

		if all, _ := cmd.Flags().GetBool("all"); all {
			if err := store.RemovePacks(); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

func init() {
	refreshCmd.Flags().Bool("packs", false, "enumerate packs again instead of reusing the pack URL file")
	refreshCmd.Flags().Int("max", 0, "stop after this many packs (0 = all)")
	clearCmd.Flags().Bool("all", false, "also delete the pack URL file")
}
