package telemetry

import (
	"log/slog"
	"math"
	"sort"
)

// WindowStats holds aggregated solver diagnostics for a time window.
type WindowStats struct {
	WindowEndFrame int     `csv:"window_end"`
	SimTimeSec     float64 `csv:"sim_time"`

	// Sweep residuals, sum((lij-l0)^2) over all edges, averaged over the
	// window's frames. First and last sweep of each step bracket the
	// convergence achieved within a frame.
	ResidualFirst float64 `csv:"residual_first_sweep"`
	ResidualLast  float64 `csv:"residual_last_sweep"`

	// Per-edge stretch ratio |lij-l0|/l0, sampled at window end.
	StretchMeanPct float64 `csv:"stretch_mean_pct"`
	StretchP90Pct  float64 `csv:"stretch_p90_pct"`
	StretchMaxPct  float64 `csv:"stretch_max_pct"`

	PinnedCount int `csv:"pinned"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	rank := p * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// StretchStats summarizes per-edge stretch ratios (fractions, not percent).
// Returns mean, p90, and max as percentages.
func StretchStats(ratios []float64) (mean, p90, max float64) {
	if len(ratios) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(ratios))
	copy(sorted, ratios)
	sort.Float64s(sorted)

	var sum float64
	for _, r := range sorted {
		sum += r
	}
	mean = sum / float64(len(sorted)) * 100
	p90 = Percentile(sorted, 0.9) * 100
	max = sorted[len(sorted)-1] * 100
	return mean, p90, max
}

// Collector accumulates per-frame residual samples and flushes WindowStats
// at a fixed simulated-time cadence.
type Collector struct {
	windowSec float64
	dt        float64

	residualFirstSum float64
	residualLastSum  float64
	frames           int
}

// NewCollector creates a collector that flushes every windowSec seconds of
// simulated time at dt seconds per frame.
func NewCollector(windowSec, dt float64) *Collector {
	return &Collector{windowSec: windowSec, dt: dt}
}

// Record adds one frame's sweep residuals. A nil or empty slice (recording
// disabled) still counts the frame toward the window.
func (c *Collector) Record(residuals []float32) {
	if len(residuals) > 0 {
		c.residualFirstSum += float64(residuals[0])
		c.residualLastSum += float64(residuals[len(residuals)-1])
	}
	c.frames++
}

// Due reports whether a full window of simulated time has accumulated.
func (c *Collector) Due() bool {
	return float64(c.frames)*c.dt >= c.windowSec
}

// Flush builds the window stats ending at frame, resets the window, and
// returns the record. Stretch ratios and pin count are sampled by the
// caller at flush time.
func (c *Collector) Flush(frame int, stretchRatios []float64, pinned int) WindowStats {
	stats := WindowStats{
		WindowEndFrame: frame,
		SimTimeSec:     float64(frame) * c.dt,
		PinnedCount:    pinned,
	}
	if c.frames > 0 {
		stats.ResidualFirst = c.residualFirstSum / float64(c.frames)
		stats.ResidualLast = c.residualLastSum / float64(c.frames)
	}
	stats.StretchMeanPct, stats.StretchP90Pct, stats.StretchMaxPct = StretchStats(stretchRatios)

	c.residualFirstSum = 0
	c.residualLastSum = 0
	c.frames = 0

	return stats
}

// Log emits the window stats through slog.
func (s WindowStats) Log() {
	slog.Info("window",
		"frame", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"residual_first", s.ResidualFirst,
		"residual_last", s.ResidualLast,
		"stretch_mean_pct", s.StretchMeanPct,
		"stretch_p90_pct", s.StretchP90Pct,
		"stretch_max_pct", s.StretchMaxPct,
		"pinned", s.PinnedCount,
	)
}
