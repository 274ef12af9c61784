package mcml

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RunSpec is one run as written in a configuration file. Only internal
// layers are listed; the ambient media are given by their indices.
type RunSpec struct {
	Output           string  `json:"output" yaml:"output"`
	Photons          int     `json:"photons" yaml:"photons"`
	Seed             uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
	Dz               float64 `json:"dz" yaml:"dz"`
	Dr               float64 `json:"dr" yaml:"dr"`
	Nz               int     `json:"nz" yaml:"nz"`
	Nr               int     `json:"nr" yaml:"nr"`
	Na               int     `json:"na" yaml:"na"`
	Nt               int     `json:"nt,omitempty" yaml:"nt,omitempty"`
	Wth              float64 `json:"wth" yaml:"wth"`
	Chance           float64 `json:"chance" yaml:"chance"`
	IncidentAngleDeg float64 `json:"incidentAngleDeg,omitempty" yaml:"incident_angle_deg,omitempty"`
	NAbove           float64 `json:"nAbove" yaml:"n_above"`
	NBelow           float64 `json:"nBelow" yaml:"n_below"`
	Layers           []Layer `json:"layers" yaml:"layers"`
}

// FileConfig is a list of independent runs.
type FileConfig struct {
	Runs []RunSpec `json:"runs" yaml:"runs"`
}

// newRunSpec presets the roulette fields so that an explicit wth: 0 in a
// file survives decoding while an absent one gets the default.
func newRunSpec() RunSpec {
	return RunSpec{Wth: DefaultWeightThreshold, Chance: DefaultChance}
}

// UnmarshalJSON decodes a run over the roulette defaults.
func (rs *RunSpec) UnmarshalJSON(data []byte) error {
	type plain RunSpec
	p := plain(newRunSpec())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*rs = RunSpec(p)
	return nil
}

// UnmarshalYAML decodes a run over the roulette defaults.
func (rs *RunSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain RunSpec
	p := plain(newRunSpec())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*rs = RunSpec(p)
	return nil
}

// Name is the output base name of the run without directory or extension.
func (rs *RunSpec) Name() string {
	base := filepath.Base(rs.Output)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Da is the angular bin width: na bins over [0, pi/2).
func (rs *RunSpec) Da() float64 {
	if rs.Na <= 0 {
		return 0
	}
	return 0.5 * math.Pi / float64(rs.Na)
}

// RunConfig builds the engine configuration with the ambient media at the
// first and last positions. The result still has to be finalized.
func (rs *RunSpec) RunConfig() RunConfig {
	layers := make([]Layer, 0, len(rs.Layers)+2)
	layers = append(layers, NewLayer(rs.NAbove, 0, 0, 0, 0))
	for _, l := range rs.Layers {
		layers = append(layers, NewLayer(l.N, l.Mua, l.Mus, l.G, l.D))
	}
	layers = append(layers, NewLayer(rs.NBelow, 0, 0, 0, 0))
	return RunConfig{
		Dz:     rs.Dz,
		Dr:     rs.Dr,
		Da:     rs.Da(),
		Nz:     rs.Nz,
		Nr:     rs.Nr,
		Na:     rs.Na,
		Nt:     rs.Nt,
		Wth:    rs.Wth,
		Chance: rs.Chance,
		Alpha:  rs.IncidentAngleDeg,
		Layers: layers,
	}
}

func (rs *RunSpec) applyDefaults(i int) {
	if rs.Output == "" {
		rs.Output = fmt.Sprintf("run%d.mco", i+1)
	}
	if rs.Photons <= 0 {
		rs.Photons = DefaultPhotons
	}
	if rs.NAbove <= 0 {
		rs.NAbove = 1
	}
	if rs.NBelow <= 0 {
		rs.NBelow = 1
	}
}

func (fc *FileConfig) finish(src string) (*FileConfig, error) {
	if len(fc.Runs) == 0 {
		return nil, fmt.Errorf("%s: config has no runs", src)
	}
	for i := range fc.Runs {
		fc.Runs[i].applyDefaults(i)
		cfg := fc.Runs[i].RunConfig()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: run %d: %w", src, i+1, err)
		}
	}
	DebugLog("Loaded %d run(s) from %s", len(fc.Runs), src)
	return fc, nil
}

// ParseYAML decodes a YAML run list and applies defaults.
func ParseYAML(r io.Reader) (*FileConfig, error) {
	var fc FileConfig
	if err := yaml.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return fc.finish("yaml")
}

// ParseJSON decodes a JSON run list and applies defaults.
func ParseJSON(r io.Reader) (*FileConfig, error) {
	var fc FileConfig
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return fc.finish("json")
}

// LoadConfig reads a .mci, .yaml/.yml or .json file.
func LoadConfig(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fc *FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mci":
		fc, err = ParseMCI(f)
	case ".yaml", ".yml":
		fc, err = ParseYAML(f)
	case ".json":
		fc, err = ParseJSON(f)
	default:
		return nil, fmt.Errorf("unsupported config extension %q (want .mci, .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return fc, nil
}

// EncodeYAML writes the run list as YAML.
func (fc *FileConfig) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return err
	}
	return enc.Close()
}

// EncodeJSON writes the run list as indented JSON.
func (fc *FileConfig) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

// WriteYAML saves the run list next to the run outputs.
func (fc *FileConfig) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fc.EncodeYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SampleConfig returns the classic three-layer example: three turbid
// layers of matched index in air.
func SampleConfig() *FileConfig {
	return &FileConfig{Runs: []RunSpec{{
		Output:  "sample.mco",
		Photons: DefaultPhotons,
		Dz:      0.01,
		Dr:      0.01,
		Nz:      40,
		Nr:      50,
		Na:      30,
		Nt:      0,
		Wth:     DefaultWeightThreshold,
		Chance:  DefaultChance,
		NAbove:  1,
		NBelow:  1,
		Layers: []Layer{
			{N: 1.37, Mua: 1, Mus: 100, G: 0.9, D: 0.1},
			{N: 1.37, Mua: 1, Mus: 10, G: 0, D: 0.1},
			{N: 1.37, Mua: 2, Mus: 10, G: 0.7, D: 0.2},
		},
	}}}
}
