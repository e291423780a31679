package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/kerbaras/carddex/pkg/app"
	"github.com/kerbaras/carddex/pkg/config"
	"github.com/kerbaras/carddex/pkg/services"
	"github.com/kerbaras/carddex/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "carddex",
	Short: "Yu-Gi-Oh! card database scraper and fuzzy search",
	Long: `carddex scrapes the official Yu-Gi-Oh! card database into a local JSON cache
and fuzzy-searches it by name, effect text, type or attribute.

Run without a subcommand to open the terminal UI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger = utils.NewLogger(os.Stderr, cfg.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// the alt screen owns the terminal, so the TUI logs to a file
		f, err := utils.OpenLogFile(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()

		controller := services.NewCardController(cfg, utils.NewLogger(f, cfg.LogLevel))
		defer controller.Close()

		return app.NewApp(controller).Run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/carddex/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(packsCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadController builds a controller and fills its catalog, scraping when
// there is no cache yet.
func loadController(cmd *cobra.Command) (*services.CardController, error) {
	controller := services.NewCardController(cfg, logger)

	report, err := controller.Load(cmd.Context())
	if err != nil {
		controller.Close()
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	if report != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), report.String())
	}
	return controller, nil
}
