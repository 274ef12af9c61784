package mcml

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MCOVersion is the format tag of the MCO output header.
const MCOVersion = "A1"

func sci(v float64) string { return fmt.Sprintf("%.4E", v) }

type mcoWriter struct {
	w   *bufio.Writer
	err error
}

func (m *mcoWriter) printf(format string, args ...interface{}) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}

func (m *mcoWriter) column(title string, vals []float64) {
	m.printf("%s\n", title)
	for _, v := range vals {
		m.printf("\t%s\n", sci(v))
	}
	m.printf("\n")
}

func (m *mcoWriter) matrix(header []string, name string, grid []float64, rows, cols int) {
	for _, h := range header {
		m.printf("%s\n", h)
	}
	m.printf("%s\n", name)
	cells := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			cells[j] = sci(grid[i*cols+j])
		}
		m.printf("%s\n", strings.Join(cells, "\t"))
	}
	m.printf("\n")
}

// WriteMCO writes a run in the MCML text output format.
func WriteMCO(w io.Writer, rs *RunSpec, cfg *RunConfig, s *Summary, elapsed time.Duration) error {
	m := &mcoWriter{w: bufio.NewWriter(w)}

	m.printf("%s \t# Version number of the file format.\n\n", MCOVersion)
	m.printf("####\n# Data categories include:\n# InParm, RAT,\n")
	m.printf("# A_l, A_z, Rd_r, Rd_a, Tt_r, Tt_a,\n# A_rz, Rd_ra, Tt_ra\n####\n\n")
	m.printf("# Simulation time: %.3f seconds\n", elapsed.Seconds())

	m.printf("InParm\t\t\t\t\t# Input parameters. cm is used.\n")
	m.printf("%s\tA\t\t\t\t# output file name, ASCII.\n", rs.Output)
	m.printf("%d\t\t\t\t\t# No. of photons\n", s.Photons)
	m.printf("%g\t%g\t\t\t\t# dz, dr [cm]\n", cfg.Dz, cfg.Dr)
	m.printf("%d\t%d\t%d\t%d\t\t# No. of dz, dr, da, & t.\n\n", cfg.Nz, cfg.Nr, cfg.Na, cfg.Nt)
	m.printf("%d\t\t\t\t\t# Number of layers\n", len(cfg.Layers)-2)
	m.printf("#n\tmua\tmus\tg\td\t# One line for each layer\n")
	m.printf("%g\t\t\t\t\t# n for medium above\n", cfg.Layers[0].N)
	for i := 1; i < len(cfg.Layers)-1; i++ {
		l := cfg.Layers[i]
		m.printf("%g\t%g\t%g\t%g\t%g\t# layer %d\n", l.N, l.Mua, l.Mus, l.G, l.Z1-l.Z0, i)
	}
	m.printf("%g\t\t\t\t\t# n for medium below\n\n", cfg.Layers[len(cfg.Layers)-1].N)

	m.printf("RAT #Reflectance, absorption, transmission.\n")
	m.printf("%.6f \t# Specular reflectance [-]\n", s.RSpecular)
	m.printf("%.6f \t# Diffuse reflectance [-]\n", s.Rd)
	m.printf("# %.6f \t# Unscattered reflectance [-]\n", s.RdUnscattered)
	m.printf("# %.6f \t# Total reflectance [-]\n", s.TotalReflectance())
	m.printf("%.6f \t# Absorbed fraction [-]\n", s.A)
	m.printf("# %.6f \t# Specular Transmittance [-]\n", s.TtUnscattered)
	m.printf("# %.6f \t# Diffuse Transmittance [-]\n", s.Tt)
	m.printf("%.6f \t# Total Transmittance [-]\n\n", s.TotalTransmittance())

	m.column("A_l #Absorption as a function of layer. [-]", s.Al)
	m.column("A_z #A[0], [1],..A[nz-1]. [1/cm]", s.Az)
	m.column("Rd_r #Rd[0], [1],..Rd[nr-1]. [1/cm2]", s.Rdr)
	m.column("Rd_a #Rd[0], [1],..Rd[na-1]. [sr-1]", s.Rda)
	m.column("Tt_r #Tt[0], [1],..Tt[nr-1]. [1/cm2]", s.Ttr)
	m.column("Tt_a #Tt[0], [1],..Tt[na-1]. [sr-1]", s.Tta)

	m.matrix([]string{
		"#A[r][z]. [1/cm3]",
		"# A[0][0], [0][1],..[0][nz-1]",
		"# A[1][0], [1][1],..[1][nz-1]",
		"# ...",
		"# A[nr-1][0], [nr-1][1],..[nr-1][nz-1]",
	}, "A_rz", s.ARz, cfg.Nr, cfg.Nz)
	m.matrix([]string{
		"#Rd[r][angle]. [1/(cm2sr)].",
		"# Rd[0][0], [0][1],..[0][na-1]",
		"# Rd[1][0], [1][1],..[1][na-1]",
		"# ...",
		"# Rd[nr-1][0], [nr-1][1],..[nr-1][na-1]",
	}, "Rd_ra", s.RdRa, cfg.Nr, cfg.Na)
	m.matrix([]string{
		"#Tt[r][angle]. [1/(cm2sr)].",
		"# Tt[0][0], [0][1],..[0][na-1]",
		"# Tt[1][0], [1][1],..[1][na-1]",
		"# ...",
		"# Tt[nr-1][0], [nr-1][1],..[nr-1][na-1]",
	}, "Tt_ra", s.TtRa, cfg.Nr, cfg.Na)

	if m.err != nil {
		return m.err
	}
	return m.w.Flush()
}

// SaveMCO writes the MCO file to path, creating its directory.
func SaveMCO(path string, rs *RunSpec, cfg *RunConfig, s *Summary, elapsed time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMCO(f, rs, cfg, s, elapsed); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	DebugLog("Saved %s", path)
	return nil
}
