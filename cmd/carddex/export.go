package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export multi search results as an EPUB",
	Long: `Run a multi search and bind every match into an EPUB, one page per card,
with the query terms highlighted. #keyword# filters work as in search.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.ExportDir = out
		}
		if cmd.Flags().Changed("limit") {
			cfg.MultiLimit, _ = cmd.Flags().GetInt("limit")
		}

		controller, err := loadController(cmd)
		if err != nil {
			return err
		}
		defer controller.Close()

		matches, err := controller.MultiSearch(query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		path, err := controller.Export(query, matches)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cards to %s\n", len(matches), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "output directory (default from export_dir)")
	exportCmd.Flags().IntP("limit", "l", 0, "maximum number of cards (0 = unlimited)")
}
