// Package telemetry collects and exports per-run statistics.
package telemetry

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flowfield/engine"
)

// GroupStats is one row of runstats.csv: the counters one group task
// accumulated over the run.
type GroupStats struct {
	Group          int     `csv:"group"`
	Particles      int     `csv:"particles"`
	Steps          int64   `csv:"steps"`
	PointsRecorded int64   `csv:"points_recorded"`
	PathsDrawn     int64   `csv:"paths_drawn"`
	Respawns       int64   `csv:"respawns"`
	DurationMs     float64 `csv:"duration_ms"`
}

// RunSummary aggregates group counters for logging.
type RunSummary struct {
	Groups        int
	Particles     int
	TotalPoints   int64
	TotalPaths    int64
	TotalRespawns int64

	PointsMean   float64 // points recorded per group
	PointsStd    float64
	PointsMedian float64

	DurationMeanMs float64
	DurationP90Ms  float64
}

// FromReports pairs engine counters with per-group durations.
func FromReports(reports []engine.GroupReport, durations []time.Duration) []GroupStats {
	stats := make([]GroupStats, len(reports))
	for i, r := range reports {
		stats[i] = GroupStats{
			Group:          r.Group,
			Particles:      r.Particles,
			Steps:          r.Steps,
			PointsRecorded: r.PointsRecorded,
			PathsDrawn:     r.PathsDrawn,
			Respawns:       r.Respawns,
		}
		if i < len(durations) {
			stats[i].DurationMs = float64(durations[i]) / float64(time.Millisecond)
		}
	}
	return stats
}

// Summarize folds group rows into a run summary.
func Summarize(groups []GroupStats) RunSummary {
	s := RunSummary{Groups: len(groups)}
	if len(groups) == 0 {
		return s
	}

	points := make([]float64, len(groups))
	durations := make([]float64, len(groups))
	for i, g := range groups {
		s.Particles += g.Particles
		s.TotalPoints += g.PointsRecorded
		s.TotalPaths += g.PathsDrawn
		s.TotalRespawns += g.Respawns
		points[i] = float64(g.PointsRecorded)
		durations[i] = g.DurationMs
	}

	s.PointsMean = stat.Mean(points, nil)
	if len(points) > 1 {
		s.PointsStd = stat.StdDev(points, nil)
	}

	sort.Float64s(points)
	s.PointsMedian = stat.Quantile(0.5, stat.Empirical, points, nil)

	s.DurationMeanMs = stat.Mean(durations, nil)
	sort.Float64s(durations)
	s.DurationP90Ms = stat.Quantile(0.9, stat.Empirical, durations, nil)

	return s
}
