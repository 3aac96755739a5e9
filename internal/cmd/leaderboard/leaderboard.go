// Package leaderboard implements the "navscore leaderboard" subcommand.
package leaderboard

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adequatepilot/nav-scoring-sub000/internal/cmd/app"
	"github.com/adequatepilot/nav-scoring-sub000/internal/report"
)

func NewLeaderboardCmd(configDir *string) *cobra.Command {
	var routeName string
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "prints route standings, best score first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.NewService()
			if err != nil {
				return err
			}
			scores, err := svc.Leaderboard(routeName)
			if err != nil {
				return fmt.Errorf("loading standings: %w", err)
			}

			entries := make([]report.LeaderboardEntry, 0, len(scores))
			for _, s := range scores {
				pilot := "(unknown)"
				if s.Flight != nil {
					pilot = s.Flight.Pilot
				}
				entries = append(entries, report.LeaderboardEntry{
					Pilot:    pilot,
					Score:    s.OverallScore,
					ScoredAt: s.ScoredAt.Format("2006-01-02 15:04"),
				})
			}
			return report.WriteLeaderboard(cmd.OutOrStdout(), routeName, entries)
		},
	}
	cmd.Flags().StringVar(&routeName, "route", "", "route name, empty means all routes")
	return cmd
}
