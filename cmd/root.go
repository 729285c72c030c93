package cmd

import (
	"github.com/spf13/cobra"

	"onepager/internal/config"
)

var (
	configPath string
	sourceKind string
	dataURL    string
	rootCmd    = &cobra.Command{
		Use:   "onepager",
		Short: "onepager - single-page training evaluation report",
		Long: `onepager renders a pre/post training evaluation dataset as a fixed,
print-ready A4 page: an overall chart, key insights and one chart per
competency question.

When run without commands, it launches an interactive terminal preview.
Use subcommands to render files, serve the page over HTTP or inspect data.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		Run: func(cmd *cobra.Command, args []string) {
			// No subcommand specified - launch TUI
			if err := LaunchTUI(cfg, newSource(cfg)); err != nil {
				HandleError(err, "Failed to run preview")
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&sourceKind, "source", "", "Dataset source: static or http")
	rootCmd.PersistentFlags().StringVar(&dataURL, "url", "", "Dataset URL (implies --source http)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func initConfig() error {
	c, err := config.Load(configPath, func(c *config.Config) {
		if dataURL != "" {
			c.Source.URL = dataURL
			c.Source.Kind = config.SourceHTTP
		}
		if sourceKind != "" {
			c.Source.Kind = sourceKind
		}
	})
	if err != nil {
		return err
	}
	cfg = c

	if SetupLogger != nil {
		l, err := SetupLogger(cfg)
		if err != nil {
			return err
		}
		logger = l
	}
	return nil
}
