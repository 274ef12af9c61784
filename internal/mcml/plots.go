package mcml

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot file names written by SavePlots.
const (
	DepthPNG   = "depth.png"
	RadialPNG  = "radial.png"
	AngularPNG = "angular.png"
)

var (
	plotBlue = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	plotRed  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

type series struct {
	name  string
	color color.Color
	pts   plotter.XYs
}

func newLinePlot(title, xLabel, yLabel string, ss ...series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	for _, s := range ss {
		line, err := plotter.NewLine(s.pts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		line.Color = s.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SavePlots renders depth, radial and angular profiles as PNG into dir.
func SavePlots(dir, name string, cfg *RunConfig, s *Summary) error {
	var az, fl, rdr, ttr, rda, tta plotter.XYs
	for _, r := range depthRows(cfg, s) {
		az = append(az, plotter.XY{X: r.Z, Y: r.Az})
		fl = append(fl, plotter.XY{X: r.Z, Y: r.Fluence})
	}
	for _, r := range radialRows(cfg, s) {
		rdr = append(rdr, plotter.XY{X: r.R, Y: r.Rd})
		ttr = append(ttr, plotter.XY{X: r.R, Y: r.Tt})
	}
	for _, r := range angularRows(cfg, s) {
		rda = append(rda, plotter.XY{X: r.AngleDeg, Y: r.Rd})
		tta = append(tta, plotter.XY{X: r.AngleDeg, Y: r.Tt})
	}

	plots := []struct {
		file                 string
		title, xLabel, yUnit string
		ss                   []series
	}{
		{DepthPNG, name + " - depth", "z (cm)", "A_z (1/cm), fluence (1/cm2)",
			[]series{{"A_z", plotBlue, az}, {"fluence", plotRed, fl}}},
		{RadialPNG, name + " - radial", "r (cm)", "1/cm2",
			[]series{{"Rd_r", plotBlue, rdr}, {"Tt_r", plotRed, ttr}}},
		{AngularPNG, name + " - angular", "angle (deg)", "1/sr",
			[]series{{"Rd_a", plotBlue, rda}, {"Tt_a", plotRed, tta}}},
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, pl := range plots {
		p, err := newLinePlot(pl.title, pl.xLabel, pl.yUnit, pl.ss...)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, pl.file)
		if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
			return fmt.Errorf("save %s: %w", pl.file, err)
		}
	}
	DebugLog("Saved plots to %s", dir)
	return nil
}
