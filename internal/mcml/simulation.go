package mcml

import (
	"fmt"
	"slices"
)

// Simulation is the host-facing handle of one photon stream: a run
// configuration, a seeded generator and the accumulators it fills. It is not
// safe for concurrent use; parallel runs use one Simulation per worker.
type Simulation struct {
	cfg        RunConfig
	configured bool
	ready      bool

	rng      *mtRand
	results  *Results
	tr       tracer
	photon   Photon
	launched int
}

// NewSimulation returns an unconfigured simulation seeded with 0.
func NewSimulation() *Simulation {
	return &Simulation{rng: newMTRand(0)}
}

// NewSimulationFromConfig configures, loads the layers of cfg and
// initializes a simulation in one call.
func NewSimulationFromConfig(cfg RunConfig, seed uint64) (*Simulation, error) {
	s := NewSimulation()
	s.SetSeed(seed)
	if err := s.ConfigureRun(cfg.Dz, cfg.Dr, cfg.Da, cfg.Nz, cfg.Nr, cfg.Na, cfg.Nt, cfg.Wth, cfg.Chance); err != nil {
		return nil, err
	}
	s.SetIncidentAngle(cfg.Alpha)
	for _, l := range cfg.Layers {
		s.AddLayer(l.N, l.Mua, l.Mus, l.G, l.D)
	}
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// ConfigureRun sets the grid and roulette parameters and allocates zeroed
// accumulators.
func (s *Simulation) ConfigureRun(dz, dr, da float64, nz, nr, na, nt int, wth, chance float64) error {
	if nz < 1 || nr < 1 || na < 1 || nt < 0 {
		return invalid("grid extents must be >= 1 and nt >= 0 (nz=%d nr=%d na=%d nt=%d)", nz, nr, na, nt)
	}
	s.cfg.Dz, s.cfg.Dr, s.cfg.Da = dz, dr, da
	s.cfg.Nz, s.cfg.Nr, s.cfg.Na, s.cfg.Nt = nz, nr, na, nt
	s.cfg.Wth, s.cfg.Chance = wth, chance
	s.results = newResultsFor(&s.cfg)
	s.configured = true
	s.ready = false
	return nil
}

// SetSeed re-seeds the random stream.
func (s *Simulation) SetSeed(seed uint64) {
	s.rng.Seed(seed)
}

// SetIncidentAngle sets the launch angle in degrees from the surface normal.
func (s *Simulation) SetIncidentAngle(deg float64) {
	s.cfg.Alpha = deg
	s.ready = false
}

// AddLayer appends a layer. The first and last layers are the ambient media.
func (s *Simulation) AddLayer(n, mua, mus, g, d float64) {
	s.cfg.Layers = append(s.cfg.Layers, NewLayer(n, mua, mus, g, d))
	s.ready = false
}

func (s *Simulation) ClearLayers() {
	s.cfg.Layers = s.cfg.Layers[:0]
	s.ready = false
}

// Initialize finalizes the layer stack and zeroes the accumulators. It must
// be called after any layer change and before launching photons.
func (s *Simulation) Initialize() error {
	if !s.configured {
		return ErrNotConfigured
	}
	if err := s.cfg.Finalize(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	s.results.Reset()
	s.launched = 0
	s.tr = tracer{cfg: &s.cfg, rng: s.rng, res: s.results}
	s.ready = true
	return nil
}

// LaunchPhoton runs one full trajectory.
func (s *Simulation) LaunchPhoton() error {
	if !s.ready {
		return ErrNotInitialized
	}
	s.tr.trace(&s.photon)
	s.launched++
	return nil
}

// LaunchPhotons runs n full trajectories.
func (s *Simulation) LaunchPhotons(n int) error {
	if !s.ready {
		return ErrNotInitialized
	}
	if n < 0 {
		return fmt.Errorf("%w: photons must be >= 0, got %d", ErrInvalidConfig, n)
	}
	for i := 0; i < n; i++ {
		s.tr.trace(&s.photon)
	}
	s.launched += n
	return nil
}

func (s *Simulation) Launched() int { return s.launched }

// Config returns a copy of the current configuration.
func (s *Simulation) Config() RunConfig { return s.cfg.Clone() }

// Results returns a copy of the accumulators.
func (s *Simulation) Results() *Results { return s.results.Clone() }

func (s *Simulation) ARz() []float64 { return slices.Clone(s.results.ARz) }
func (s *Simulation) RdRa() []float64 { return slices.Clone(s.results.RdRa) }
func (s *Simulation) TtRa() []float64 { return slices.Clone(s.results.TtRa) }
func (s *Simulation) RdX() []float64 { return slices.Clone(s.results.RdX) }
func (s *Simulation) WTxz() []float64 { return slices.Clone(s.results.WTxz) }
func (s *Simulation) RSpecular() float64 { return s.cfg.RSpecular }
func (s *Simulation) RdUnscattered() float64 { return s.results.RdUnscattered }
func (s *Simulation) TtUnscattered() float64 { return s.results.TtUnscattered }
