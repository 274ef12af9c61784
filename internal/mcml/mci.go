package mcml

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MCIVersion is the version line written by EncodeMCI.
const MCIVersion = "1.0"

var errUnexpectedEOF = errors.New("unexpected end of file")

type mciLines struct {
	lines []string
	next  int
}

func (m *mciLines) line() (string, error) {
	if m.next >= len(m.lines) {
		return "", errUnexpectedEOF
	}
	l := m.lines[m.next]
	m.next++
	return l, nil
}

func (m *mciLines) floats(want int, what string) ([]float64, error) {
	l, err := m.line()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	fields := strings.Fields(l)
	if len(fields) < want {
		return nil, fmt.Errorf("%s: want %d values, got %q", what, want, l)
	}
	out := make([]float64, want)
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", what, err)
		}
		out[i] = v
	}
	return out, nil
}

func (m *mciLines) ints(want int, what string) ([]int, error) {
	l, err := m.line()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	fields := strings.Fields(l)
	if len(fields) < want {
		return nil, fmt.Errorf("%s: want %d values, got %q", what, want, l)
	}
	out := make([]int, want)
	for i := range out {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", what, err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseMCI reads the classic MCML input format. Everything after '#' on a
// line is a comment; blank lines are ignored.
func ParseMCI(r io.Reader) (*FileConfig, error) {
	var m mciLines
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l, _, _ := strings.Cut(sc.Text(), "#")
		if l = strings.TrimSpace(l); l != "" {
			m.lines = append(m.lines, l)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if _, err := m.line(); err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	n, err := m.ints(1, "number of runs")
	if err != nil {
		return nil, err
	}

	fc := &FileConfig{}
	for i := 0; i < n[0]; i++ {
		rs, err := m.run()
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		fc.Runs = append(fc.Runs, rs)
	}
	return fc.finish("mci")
}

func (m *mciLines) run() (RunSpec, error) {
	rs := newRunSpec()
	out, err := m.line()
	if err != nil {
		return rs, fmt.Errorf("output file: %w", err)
	}
	rs.Output = strings.Fields(out)[0]

	photons, err := m.ints(1, "number of photons")
	if err != nil {
		return rs, err
	}
	rs.Photons = photons[0]

	d, err := m.floats(2, "dz dr")
	if err != nil {
		return rs, err
	}
	rs.Dz, rs.Dr = d[0], d[1]

	g, err := m.ints(3, "nz nr na")
	if err != nil {
		return rs, err
	}
	rs.Nz, rs.Nr, rs.Na = g[0], g[1], g[2]

	nl, err := m.ints(1, "number of layers")
	if err != nil {
		return rs, err
	}

	above, err := m.floats(1, "n above")
	if err != nil {
		return rs, err
	}
	rs.NAbove = above[0]

	for j := 0; j < nl[0]; j++ {
		v, err := m.floats(5, fmt.Sprintf("layer %d", j+1))
		if err != nil {
			return rs, err
		}
		rs.Layers = append(rs.Layers, NewLayer(v[0], v[1], v[2], v[3], v[4]))
	}

	below, err := m.floats(1, "n below")
	if err != nil {
		return rs, err
	}
	rs.NBelow = below[0]
	return rs, nil
}

// EncodeMCI writes the run list in the classic MCML input format. Fields
// the format has no room for (seed, nt, roulette, incident angle) are
// dropped.
func (fc *FileConfig) EncodeMCI(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\t\t\t\t# file version\n", MCIVersion)
	fmt.Fprintf(bw, "%d\t\t\t\t# number of runs\n\n", len(fc.Runs))
	for _, rs := range fc.Runs {
		fmt.Fprintf(bw, "%s\tA\t\t\t# output file name, ASCII.\n", rs.Output)
		fmt.Fprintf(bw, "%d\t\t\t\t# No. of photons\n", rs.Photons)
		fmt.Fprintf(bw, "%g\t%g\t\t\t# dz, dr [cm]\n", rs.Dz, rs.Dr)
		fmt.Fprintf(bw, "%d\t%d\t%d\t\t# No. of dz, dr, da.\n\n", rs.Nz, rs.Nr, rs.Na)
		fmt.Fprintf(bw, "%d\t\t\t\t# Number of layers\n", len(rs.Layers))
		fmt.Fprintf(bw, "#n\tmua\tmus\tg\td\t# One line for each layer\n")
		fmt.Fprintf(bw, "%g\t\t\t\t# n for medium above\n", rs.NAbove)
		for j, l := range rs.Layers {
			fmt.Fprintf(bw, "%g\t%g\t%g\t%g\t%g\t# layer %d\n", l.N, l.Mua, l.Mus, l.G, l.D, j+1)
		}
		fmt.Fprintf(bw, "%g\t\t\t\t# n for medium below\n\n", rs.NBelow)
	}
	return bw.Flush()
}
