package mcml

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// CSV file names written by WriteCSV.
const (
	RATCSV     = "rat.csv"
	DepthCSV   = "depth.csv"
	RadialCSV  = "radial.csv"
	AngularCSV = "angular.csv"
)

func marshalCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSV writes the RAT summary and the depth, radial and angular
// profiles into dir.
func WriteCSV(dir string, cfg *RunConfig, s *Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	files := []struct {
		name string
		rows interface{}
	}{
		{RATCSV, ratRows(s)},
		{DepthCSV, depthRows(cfg, s)},
		{RadialCSV, radialRows(cfg, s)},
		{AngularCSV, angularRows(cfg, s)},
	}
	for _, f := range files {
		if err := marshalCSV(filepath.Join(dir, f.name), f.rows); err != nil {
			return err
		}
	}
	DebugLog("Saved CSV profiles to %s", dir)
	return nil
}
