package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flowfield/config"
)

// OutputManager handles structured run output: a CSV of per-group stats and
// a snapshot of the configuration that produced them.
type OutputManager struct {
	dir string
}

// NewOutputManager creates an output manager rooted at dir.
// Returns nil if dir is empty (output disabled); the nil receiver is safe.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &OutputManager{dir: dir}, nil
}

// WriteRunStats writes the per-group rows to runstats.csv.
func (om *OutputManager) WriteRunStats(stats []GroupStats) error {
	if om == nil {
		return nil
	}

	path := filepath.Join(om.dir, "runstats.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating runstats.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(stats, f); err != nil {
		return fmt.Errorf("writing runstats: %w", err)
	}
	return nil
}

// WriteConfig saves the configuration that produced the run as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}
