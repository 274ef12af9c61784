package mcml

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// RunOptions control how a run is split across workers.
type RunOptions struct {
	Workers     int    // <= 0 means runtime.NumCPU()
	Seed        uint64 // master seed; task seeds are drawn from it
	TaskPhotons int    // photons per task; <= 0 means TaskPhotons
	// Progress, when set, is called after each completed task. It may be
	// called concurrently from several workers.
	Progress func(done, total int)
}

// RunStats describe a finished (or cancelled) run.
type RunStats struct {
	Photons   int // photons actually traced
	Requested int
	Tasks     int
	Workers   int
	Elapsed   time.Duration
}

type task struct {
	photons int
	seed    uint64
}

// splitTasks divides photons into tasks of at most per photons, each with a
// seed drawn from a master stream.
func splitTasks(photons, per int, seed uint64) []task {
	master := newMTRand(seed)
	tasks := make([]task, 0, (photons+per-1)/per)
	for i := 0; i < photons; i += per {
		tasks = append(tasks, task{photons: min(per, photons-i), seed: master.Uint64()})
	}
	return tasks
}

// Run traces photons through cfg in parallel. Tasks are assigned to workers
// round-robin and every worker accumulates into private results, which are
// merged in worker order; the same seed and worker count therefore give the
// same output. Cancellation takes effect between tasks: Run then returns the
// results of the completed tasks together with the context error.
func Run(ctx context.Context, cfg RunConfig, photons int, opts RunOptions) (*Results, RunStats, error) {
	cfg = cfg.Clone()
	if err := cfg.Finalize(); err != nil {
		return nil, RunStats{}, err
	}
	if photons < 0 {
		return nil, RunStats{}, fmt.Errorf("%w: photons must be >= 0, got %d", ErrInvalidConfig, photons)
	}

	per := opts.TaskPhotons
	if per <= 0 {
		per = TaskPhotons
	}
	tasks := splitTasks(photons, per, opts.Seed)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}
	if workers < 1 {
		workers = 1
	}

	sims := make([]*Simulation, workers)
	for w := range sims {
		s, err := NewSimulationFromConfig(cfg.Clone(), opts.Seed)
		if err != nil {
			return nil, RunStats{}, err
		}
		sims[w] = s
	}
	DebugLog("Run: photons=%d tasks=%d workers=%d seed=%d", photons, len(tasks), workers, opts.Seed)

	var counter int64
	nextPrint := int64(1)
	if photons >= ProgressSteps {
		nextPrint = int64(photons / ProgressSteps)
	}

	start := time.Now()
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(wid int) {
			defer wg.Done()
			sim := sims[wid]
			for ti := wid; ti < len(tasks); ti += workers {
				if ctx.Err() != nil {
					return
				}
				tk := tasks[ti]
				sim.SetSeed(tk.seed)
				if err := sim.LaunchPhotons(tk.photons); err != nil {
					errs[wid] = fmt.Errorf("worker %d: %w", wid, err)
					return
				}

				before := atomic.AddInt64(&counter, int64(tk.photons)) - int64(tk.photons)
				fired := before + int64(tk.photons)
				if fired/nextPrint != before/nextPrint {
					logger.Infof("[PROGRESS] %.2f%%", float64(fired)*100/float64(photons))
				}
				if opts.Progress != nil {
					opts.Progress(int(fired), photons)
				}
			}
		}(w)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, RunStats{}, err
	}

	total := sims[0].results
	traced := sims[0].launched
	for _, s := range sims[1:] {
		if err := total.Merge(s.results); err != nil {
			return nil, RunStats{}, err
		}
		traced += s.launched
	}

	stats := RunStats{
		Photons:   traced,
		Requested: photons,
		Tasks:     len(tasks),
		Workers:   workers,
		Elapsed:   time.Since(start),
	}
	DebugLog("Run done: photons=%d elapsed=%s", traced, stats.Elapsed)
	if err := ctx.Err(); err != nil {
		return total, stats, fmt.Errorf("run cancelled after %d/%d photons: %w", traced, photons, err)
	}
	return total, stats, nil
}
