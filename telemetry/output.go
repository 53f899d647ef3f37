package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/drape/config"
)

// PerfRecord is one perf window flattened for CSV output.
type PerfRecord struct {
	Frame        int   `csv:"frame"`
	AvgFrameUs   int64 `csv:"avg_frame_us"`
	MinFrameUs   int64 `csv:"min_frame_us"`
	MaxFrameUs   int64 `csv:"max_frame_us"`
	IntegrateUs  int64 `csv:"integrate_us"`
	ControlNetUs int64 `csv:"control_net_us"`
	SurfaceUs    int64 `csv:"surface_eval_us"`
	RenderUs     int64 `csv:"render_us"`
}

// NewPerfRecord flattens PerfStats into a CSV row.
func NewPerfRecord(frame int, s PerfStats) PerfRecord {
	return PerfRecord{
		Frame:        frame,
		AvgFrameUs:   s.AvgFrameDuration.Microseconds(),
		MinFrameUs:   s.MinFrameDuration.Microseconds(),
		MaxFrameUs:   s.MaxFrameDuration.Microseconds(),
		IntegrateUs:  s.PhaseAvg[PhaseIntegrate].Microseconds(),
		ControlNetUs: s.PhaseAvg[PhaseControlNet].Microseconds(),
		SurfaceUs:    s.PhaseAvg[PhaseSurface].Microseconds(),
		RenderUs:     s.PhaseAvg[PhaseRender].Microseconds(),
	}
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	perfFile      *os.File

	telemetryHeaderWritten bool
	perfHeaderWritten      bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML next to the CSVs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}
	if !om.telemetryHeaderWritten {
		if err := gocsv.Marshal(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.telemetryHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.telemetryFile); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf appends a perf record to perf.csv.
func (om *OutputManager) WritePerf(rec PerfRecord) error {
	if om == nil {
		return nil
	}

	records := []PerfRecord{rec}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.telemetryFile, om.perfFile} {
		if f != nil {
			if err := f.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
