// Package report renders a scoring run as a plain-text score sheet, the
// format handed to competitors at the debrief. One line per checkpoint,
// then the penalty totals.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// FormatClock renders seconds-since-gate as MM:SS. Negative inputs keep the
// sign in front of the minutes, matching how deviations are read aloud.
func FormatClock(sec float64) string {
	sign := ""
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	whole := int(math.Round(sec))
	return fmt.Sprintf("%s%02d:%02d", sign, whole/60, whole%60)
}

// FormatDeviation renders a signed deviation as MM:SS with an explicit
// leading + for late arrivals so the sheet never reads ambiguously.
func FormatDeviation(sec float64) string {
	if sec >= 0 {
		return "+" + FormatClock(sec)
	}
	return FormatClock(sec)
}

// Write renders the score sheet for one flight to w.
func Write(w io.Writer, pilot string, result nav.ScoreResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Route:   %s\n", result.RouteName)
	if pilot != "" {
		fmt.Fprintf(&b, "Pilot:   %s\n", pilot)
	}
	fmt.Fprintf(&b, "Gate:    %s UTC (%.2f NM from gate center)\n",
		result.GateTime.UTC().Format("15:04:05"), result.GateDistanceNM)
	fmt.Fprintln(&b)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECKPOINT\tCROSSED\tPLANNED\tACTUAL\tDEV\tTIME PTS\tOFF-COURSE\tMETHOD")
	for _, cp := range result.Checkpoints {
		if cp.Unresolved {
			fmt.Fprintf(tw, "%s\t--\t%s\t--\t--\t%.0f\t%.0f\tunresolved\n",
				cp.Name, FormatClock(cp.EstimatedLegSec), cp.TimePenalty, cp.OffCoursePenalty)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.0f\t%.0f\t%s\n",
			cp.Name,
			FormatClock(cp.CrossingSec),
			FormatClock(cp.EstimatedLegSec),
			FormatClock(cp.ActualLegSec),
			FormatDeviation(cp.DeviationSec),
			cp.TimePenalty,
			cp.OffCoursePenalty,
			cp.Method)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Leg time penalties:        %8.1f\n", result.LegTimePenalty)
	fmt.Fprintf(&b, "Off-course penalties:      %8.1f\n", result.OffCoursePenalty)
	fmt.Fprintf(&b, "Total time penalty:        %8.1f  (deviation %s)\n",
		result.TotalTimePenalty, FormatDeviation(result.TotalTimeDeviationSec))
	fmt.Fprintf(&b, "Fuel penalty:              %8.1f\n", result.FuelPenalty)
	fmt.Fprintf(&b, "Checkpoint secrets missed: %8.1f\n", result.CheckpointSecretsPenalty)
	fmt.Fprintf(&b, "Enroute secrets missed:    %8.1f\n", result.EnrouteSecretsPenalty)
	fmt.Fprintf(&b, "OVERALL SCORE:             %8.1f\n", result.OverallScore)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteLeaderboard renders route standings, best score first. Entries are
// expected in the order storage returned them.
type LeaderboardEntry struct {
	Pilot    string
	Score    float64
	ScoredAt string
}

func WriteLeaderboard(w io.Writer, routeName string, entries []LeaderboardEntry) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Standings: %s\n\n", routeName)
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tPILOT\tSCORE\tSCORED AT")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\n", i+1, e.Pilot, e.Score, e.ScoredAt)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(w, b.String())
	return err
}
