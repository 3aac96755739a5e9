// Package route implements the "navscore route" subcommands for managing
// the stored route library.
package route

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adequatepilot/nav-scoring-sub000/internal/cmd/app"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

func NewRouteCmd(configDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "manages stored routes",
	}
	cmd.AddCommand(newAddCmd(configDir))
	cmd.AddCommand(newListCmd(configDir))
	return cmd
}

func newAddCmd(configDir *string) *cobra.Command {
	var filePath string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "adds or replaces a route from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("reading route file: %w", err)
			}
			var route nav.PlannedRoute
			if err := json.Unmarshal(data, &route); err != nil {
				return fmt.Errorf("parsing route file: %w", err)
			}
			if route.Name == "" {
				return fmt.Errorf("route file has no name")
			}
			if len(route.Checkpoints) == 0 {
				return fmt.Errorf("route %q has no checkpoints", route.Name)
			}

			a, err := app.New(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.NewService()
			if err != nil {
				return err
			}
			id, err := svc.SaveRoute(route)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved route %q (%d checkpoints, id %d)\n",
				route.Name, len(route.Checkpoints), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "JSON route definition")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newListCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists stored routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(*configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			routes, err := a.Store.ListRoutes()
			if err != nil {
				return fmt.Errorf("listing routes: %w", err)
			}
			if len(routes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No routes stored.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGATE\tCHECKPOINTS")
			for _, r := range routes {
				fmt.Fprintf(tw, "%s\t%.4f,%.4f\t%d\n",
					r.Name, r.Gate.Lat, r.Gate.Lon, len(r.Checkpoints))
			}
			return tw.Flush()
		},
	}
}
