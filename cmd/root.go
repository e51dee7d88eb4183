package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xpquest",
	Short: "Quiz and decision-simulation trainer with XP and tiers",
	Long: "xpquest runs multiple-choice quizzes and branching decision scenarios " +
		"in the terminal, awarding XP and Bronze/Silver/Gold/Platinum tiers as you go.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHome(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (default $XDG_CONFIG_HOME/xpquest/config.yaml)")
	pf.String("catalog", "", "Catalog path: a JSON file, or a SQLite database with --catalog-driver sqlite")
	pf.String("catalog-driver", "", "Catalog driver: builtin, file or sqlite (overrides XPQUEST_CATALOG_DRIVER)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(versionCmd)
}
