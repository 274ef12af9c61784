package mcml

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ReportHTML is the file name written by SaveHTMLReport.
const ReportHTML = "report.html"

func axisLabels(xs []float64) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = strconv.FormatFloat(x, 'g', 4, 64)
	}
	return out
}

func lineData(ys []float64) []opts.LineData {
	out := make([]opts.LineData, len(ys))
	for i, y := range ys {
		out[i] = opts.LineData{Value: y}
	}
	return out
}

func profileChart(title, subtitle, xName string, xs []float64, names []string, ys ...[]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, NameLocation: "middle", NameGap: 25}),
	)
	line.SetXAxis(axisLabels(xs))
	for i, y := range ys {
		line.AddSeries(names[i], lineData(y))
	}
	return line
}

// WriteHTMLReport renders one page with the depth, radial and angular
// profiles of a run.
func WriteHTMLReport(w io.Writer, name string, cfg *RunConfig, s *Summary) error {
	sub := fmt.Sprintf("photons=%d Rsp=%.4f Rd=%.4f A=%.4f Tt=%.4f",
		s.Photons, s.RSpecular, s.Rd, s.A, s.TotalTransmittance())

	var zs, az, fl, rs, rdr, ttr, as, rda, tta []float64
	for _, r := range depthRows(cfg, s) {
		zs, az, fl = append(zs, r.Z), append(az, r.Az), append(fl, r.Fluence)
	}
	for _, r := range radialRows(cfg, s) {
		rs, rdr, ttr = append(rs, r.R), append(rdr, r.Rd), append(ttr, r.Tt)
	}
	for _, r := range angularRows(cfg, s) {
		as, rda, tta = append(as, r.AngleDeg), append(rda, r.Rd), append(tta, r.Tt)
	}

	page := components.NewPage()
	page.PageTitle = name
	page.AddCharts(
		profileChart(name+" - depth", sub, "z (cm)", zs, []string{"A_z", "fluence"}, az, fl),
		profileChart(name+" - radial", sub, "r (cm)", rs, []string{"Rd_r", "Tt_r"}, rdr, ttr),
		profileChart(name+" - angular", sub, "angle (deg)", as, []string{"Rd_a", "Tt_a"}, rda, tta),
	)
	return page.Render(w)
}

// SaveHTMLReport writes WriteHTMLReport output to dir/report.html.
func SaveHTMLReport(dir, name string, cfg *RunConfig, s *Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, ReportHTML)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHTMLReport(f, name, cfg, s); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	DebugLog("Saved %s", path)
	return nil
}
