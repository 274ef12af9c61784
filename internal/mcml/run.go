package mcml

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// Outputs selects the artifacts written after a run. The MCO file is always
// written; the rest go to a directory named after the run next to it.
type Outputs struct {
	Dir      string // overrides the directory of RunSpec.Output when set
	CSV      bool
	Plots    bool
	HTML     bool
	GIF      bool
	PNG      bool
	RAW      bool
	Gamma    float64 // <= 0 means DefaultGamma
	GIFDelay int     // <= 0 means DefaultGIFDelay
}

// Outcome is everything produced by one executed RunSpec.
type Outcome struct {
	Spec    RunSpec
	Config  RunConfig // finalized
	Results *Results
	Summary *Summary
	Stats   RunStats
	MCOPath string
	Files   []string
}

func (o Outputs) mcoPath(rs *RunSpec) string {
	if o.Dir == "" {
		return rs.Output
	}
	return filepath.Join(o.Dir, filepath.Base(rs.Output))
}

// Execute runs rs, summarizes it and writes the requested outputs. A
// non-zero opts.Seed overrides rs.Seed. When ctx is cancelled mid-run the
// partial results are still summarized and written, and the returned error
// wraps the context error.
func Execute(ctx context.Context, rs RunSpec, opts RunOptions, out Outputs) (*Outcome, error) {
	if opts.Seed == 0 {
		opts.Seed = rs.Seed
	}
	rs.Seed = opts.Seed

	cfg := rs.RunConfig()
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("run %s: %w", rs.Name(), err)
	}

	logger.Noticef("Running %s: %d photons, %d layers, seed=%d", rs.Name(), rs.Photons, len(rs.Layers), opts.Seed)
	res, stats, runErr := Run(ctx, cfg, rs.Photons, opts)
	if res == nil {
		return nil, fmt.Errorf("run %s: %w", rs.Name(), runErr)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return nil, fmt.Errorf("run %s: %w", rs.Name(), runErr)
	}
	if runErr != nil {
		logger.Warningf("Run %s interrupted, writing %d/%d photons", rs.Name(), stats.Photons, stats.Requested)
		rs.Photons = stats.Photons
	}
	logger.Noticef("Traced %d photons in %s using %d workers", stats.Photons, stats.Elapsed, stats.Workers)

	o := &Outcome{
		Spec:    rs,
		Config:  cfg,
		Results: res,
		Summary: Summarize(&cfg, res, stats.Photons),
		Stats:   stats,
		MCOPath: out.mcoPath(&rs),
	}
	if err := o.write(out); err != nil {
		return o, err
	}
	return o, runErr
}

func (o *Outcome) write(out Outputs) error {
	rs, cfg, s := &o.Spec, &o.Config, o.Summary
	if err := SaveMCO(o.MCOPath, rs, cfg, s, o.Stats.Elapsed); err != nil {
		return err
	}
	o.Files = append(o.Files, o.MCOPath)

	dir := filepath.Join(filepath.Dir(o.MCOPath), rs.Name())
	gamma := out.Gamma
	if gamma <= 0 {
		gamma = DefaultGamma
	}
	delay := out.GIFDelay
	if delay <= 0 {
		delay = DefaultGIFDelay
	}

	type artifact struct {
		on    bool
		files []string
		save  func() error
	}
	timeResolved := cfg.Nt > 0
	arts := []artifact{
		{true, []string{filepath.Join(dir, "config.yaml")}, func() error {
			return (&FileConfig{Runs: []RunSpec{*rs}}).WriteYAML(filepath.Join(dir, "config.yaml"))
		}},
		{out.CSV, []string{filepath.Join(dir, RATCSV), filepath.Join(dir, DepthCSV), filepath.Join(dir, RadialCSV), filepath.Join(dir, AngularCSV)}, func() error {
			return WriteCSV(dir, cfg, s)
		}},
		{out.Plots, []string{filepath.Join(dir, DepthPNG), filepath.Join(dir, RadialPNG), filepath.Join(dir, AngularPNG)}, func() error {
			return SavePlots(dir, rs.Name(), cfg, s)
		}},
		{out.HTML, []string{filepath.Join(dir, ReportHTML)}, func() error {
			return SaveHTMLReport(dir, rs.Name(), cfg, s)
		}},
		{out.GIF && timeResolved, []string{filepath.Join(dir, "wtxz.gif")}, func() error {
			return SaveAnimatedGIF(o.Results, filepath.Join(dir, "wtxz.gif"), delay, gamma)
		}},
		{out.PNG && timeResolved, []string{filepath.Join(dir, "pngs")}, func() error {
			return SavePNGSequence16(o.Results, filepath.Join(dir, "pngs", "wtxz"), gamma)
		}},
		{out.RAW && timeResolved, []string{filepath.Join(dir, "wtxz.raw")}, func() error {
			return SaveRawWTXZ(o.Results, filepath.Join(dir, "wtxz.raw"))
		}},
	}
	if !timeResolved && (out.GIF || out.PNG || out.RAW) {
		logger.Warningf("Run %s has nt=0, skipping time-resolved outputs", rs.Name())
	}
	for _, a := range arts {
		if !a.on {
			continue
		}
		if err := a.save(); err != nil {
			return fmt.Errorf("run %s: %w", rs.Name(), err)
		}
		o.Files = append(o.Files, a.files...)
	}
	for _, f := range o.Files {
		DebugLog("Wrote %s", f)
	}
	return nil
}
