// Package batch implements the "navscore batch" subcommand: many flights
// scored concurrently from a JSON manifest, one line of standings per flight.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adequatepilot/nav-scoring-sub000/internal/cmd/app"
	"github.com/adequatepilot/nav-scoring-sub000/internal/logging"
	"github.com/adequatepilot/nav-scoring-sub000/internal/service"
	"github.com/adequatepilot/nav-scoring-sub000/internal/worker"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// manifest describes one scoring batch. Plan and actuals can be given per
// flight; a flight with no plan inherits the batch-level one.
type manifest struct {
	Route   string          `json:"route"`
	Plan    *nav.FlightPlan `json:"plan"`
	Flights []manifestEntry `json:"flights"`
}

type manifestEntry struct {
	GPX      string             `json:"gpx"`
	Pilot    string             `json:"pilot"`
	Aircraft string             `json:"aircraft"`
	Plan     *nav.FlightPlan    `json:"plan"`
	Actuals  *nav.FlightActuals `json:"actuals"`
}

func NewBatchCmd(configDir *string) *cobra.Command {
	var (
		manifestPath string
		workers      int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "scores a manifest of flights concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, *configDir, manifestPath, workers)
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "JSON batch manifest")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent scoring goroutines")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func runBatch(cmd *cobra.Command, configDir, manifestPath string, workers int) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Route == "" {
		return fmt.Errorf("manifest has no route")
	}
	if len(m.Flights) == 0 {
		return fmt.Errorf("manifest has no flights")
	}

	jobs := make([]worker.Job, 0, len(m.Flights))
	for i, f := range m.Flights {
		plan := m.Plan
		if f.Plan != nil {
			plan = f.Plan
		}
		if plan == nil {
			return fmt.Errorf("flight %d (%s) has no plan and the manifest has no default", i, f.GPX)
		}
		if f.Actuals == nil {
			return fmt.Errorf("flight %d (%s) has no actuals", i, f.GPX)
		}

		// relative GPX paths resolve next to the manifest
		gpxPath := f.GPX
		if !filepath.IsAbs(gpxPath) {
			gpxPath = filepath.Join(filepath.Dir(manifestPath), gpxPath)
		}

		jobs = append(jobs, worker.Job{
			RouteName: m.Route,
			GPXPath:   gpxPath,
			Plan:      *plan,
			Actuals:   *f.Actuals,
			Info:      service.FlightInfo{Pilot: f.Pilot, Aircraft: f.Aircraft},
		})
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

	pool := worker.NewPool(svc, workers, logging.NewServiceLogger(a.Logger))
	outcomes := pool.Run(cmd.Context(), jobs)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PILOT\tTRACK\tSCORE\tSTATUS")
	var failed int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t%s\t--\t%v\n", o.Job.Info.Pilot, filepath.Base(o.Job.GPXPath), o.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\tok\n",
			o.Job.Info.Pilot, filepath.Base(o.Job.GPXPath), o.Result.OverallScore)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d flights failed", failed, len(outcomes))
	}
	return nil
}
