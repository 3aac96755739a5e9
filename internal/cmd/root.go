package cmd

import (
	"os"

	"github.com/spf13/cobra"

	batchCmd "github.com/adequatepilot/nav-scoring-sub000/internal/cmd/batch"
	leaderboardCmd "github.com/adequatepilot/nav-scoring-sub000/internal/cmd/leaderboard"
	routeCmd "github.com/adequatepilot/nav-scoring-sub000/internal/cmd/route"
	scoreCmd "github.com/adequatepilot/nav-scoring-sub000/internal/cmd/score"
	"github.com/adequatepilot/nav-scoring-sub000/internal/version"
)

var configDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "navscore",
	Short:   "Flight scoring for general aviation NAV competitions",
	Long:    ``,
	Version: version.FullVersion(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".",
		"directory holding navscore.cfg.json")

	rootCmd.AddCommand(scoreCmd.NewScoreCmd(&configDir))
	rootCmd.AddCommand(batchCmd.NewBatchCmd(&configDir))
	rootCmd.AddCommand(routeCmd.NewRouteCmd(&configDir))
	rootCmd.AddCommand(leaderboardCmd.NewLeaderboardCmd(&configDir))
}
