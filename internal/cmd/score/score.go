// Package score implements the "navscore score" subcommand: one GPX track
// against one route, with plan and actuals supplied as JSON files.
package score

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adequatepilot/nav-scoring-sub000/internal/cmd/app"
	"github.com/adequatepilot/nav-scoring-sub000/internal/geoexport"
	"github.com/adequatepilot/nav-scoring-sub000/internal/gpx"
	"github.com/adequatepilot/nav-scoring-sub000/internal/report"
	"github.com/adequatepilot/nav-scoring-sub000/internal/service"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

type options struct {
	gpxPath     string
	routeName   string
	planPath    string
	actualsPath string
	pilot       string
	aircraft    string
	geojsonPath string
	mercator    bool
}

func NewScoreCmd(configDir *string) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "scores a flown GPX track against a stored route",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, *configDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.gpxPath, "gpx", "", "GPX track log to score")
	cmd.Flags().StringVar(&opts.routeName, "route", "", "stored route name or a route JSON file")
	cmd.Flags().StringVar(&opts.planPath, "plan", "", "JSON file with leg/total/fuel estimates")
	cmd.Flags().StringVar(&opts.actualsPath, "actuals", "", "JSON file with actual fuel and missed secrets")
	cmd.Flags().StringVar(&opts.pilot, "pilot", "", "pilot name for the score record")
	cmd.Flags().StringVar(&opts.aircraft, "aircraft", "", "aircraft registration or type")
	cmd.Flags().StringVar(&opts.geojsonPath, "geojson", "", "write the scored track as a GeoJSON overlay")
	cmd.Flags().BoolVar(&opts.mercator, "mercator", false, "write the GeoJSON overlay in EPSG:3857 meters instead of lon/lat")
	_ = cmd.MarkFlagRequired("gpx")
	_ = cmd.MarkFlagRequired("route")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("actuals")

	return cmd
}

func runScore(cmd *cobra.Command, configDir string, opts *options) error {
	var plan nav.FlightPlan
	if err := readJSON(opts.planPath, &plan); err != nil {
		return fmt.Errorf("reading plan: %w", err)
	}
	var actuals nav.FlightActuals
	if err := readJSON(opts.actualsPath, &actuals); err != nil {
		return fmt.Errorf("reading actuals: %w", err)
	}

	a, err := app.New(configDir)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := a.NewService()
	if err != nil {
		return err
	}

	routeName, err := resolveRoute(svc, opts.routeName)
	if err != nil {
		return err
	}

	result, err := svc.ScoreGPXFile(cmd.Context(), routeName, opts.gpxPath, plan, actuals,
		service.FlightInfo{Pilot: opts.pilot, Aircraft: opts.aircraft})
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), opts.pilot, result); err != nil {
		return err
	}

	if opts.geojsonPath != "" {
		if err := writeGeoJSON(a, opts, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nGeoJSON overlay written to %s\n", opts.geojsonPath)
	}
	return nil
}

// resolveRoute accepts either the name of a stored route or a path to a
// route JSON file. A file is stored before scoring so later leaderboard and
// overlay lookups find it by name.
func resolveRoute(svc *service.Service, routeArg string) (string, error) {
	info, err := os.Stat(routeArg)
	if err != nil || info.IsDir() {
		return routeArg, nil
	}

	var route nav.PlannedRoute
	if err := readJSON(routeArg, &route); err != nil {
		return "", fmt.Errorf("reading route file: %w", err)
	}
	if route.Name == "" {
		return "", fmt.Errorf("route file %s has no name", routeArg)
	}
	if _, err := svc.SaveRoute(route); err != nil {
		return "", err
	}
	return route.Name, nil
}

func writeGeoJSON(a *app.App, opts *options, result nav.ScoreResult) error {
	data, err := os.ReadFile(opts.gpxPath)
	if err != nil {
		return fmt.Errorf("rereading track file: %w", err)
	}
	points, err := gpx.Parse(data)
	if err != nil {
		return fmt.Errorf("reparsing track file: %w", err)
	}

	route, err := a.Store.GetRoute(result.RouteName)
	if err != nil {
		return fmt.Errorf("loading route for overlay: %w", err)
	}

	f, err := os.Create(opts.geojsonPath)
	if err != nil {
		return fmt.Errorf("creating geojson file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if opts.mercator {
		return geoexport.WriteProjected(f, route, result, points)
	}
	return geoexport.Write(f, route, result, points)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
