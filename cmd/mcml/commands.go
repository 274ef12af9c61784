package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/lukaszgryglicki/mcml/internal/mcml"
	"github.com/lukaszgryglicki/mcml/internal/store"
)

// selectRuns applies the --run, --photons and --nt overrides.
func selectRuns(ctx *cli.Context, fc *mcml.FileConfig) ([]mcml.RunSpec, error) {
	runs := fc.Runs
	if i := ctx.Int("run"); i != 0 {
		if i < 1 || i > len(runs) {
			return nil, fmt.Errorf("--run %d out of range (config has %d runs)", i, len(runs))
		}
		runs = runs[i-1 : i]
	}
	out := make([]mcml.RunSpec, len(runs))
	copy(out, runs)
	for i := range out {
		if n := ctx.Int("photons"); n > 0 {
			out[i].Photons = n
		}
		if nt := ctx.Int("nt"); nt >= 0 {
			out[i].Nt = nt
		}
	}
	return out, nil
}

func runConfig(ctx *cli.Context) error {
	setupLogging(ctx)
	if ctx.NArg() != 1 {
		return errors.New("run: expected exactly one config file")
	}
	fc, err := mcml.LoadConfig(ctx.Args().First())
	if err != nil {
		return err
	}
	runs, err := selectRuns(ctx, fc)
	if err != nil {
		return err
	}

	var st *store.Store
	if path := ctx.String("db"); path != "" {
		if st, err = store.Open(path); err != nil {
			return err
		}
		defer st.Close()
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := mcml.RunOptions{
		Workers: ctx.Int("workers"),
		Seed:    ctx.Uint64("seed"),
	}
	out := mcml.Outputs{
		Dir:   ctx.String("out"),
		CSV:   ctx.Bool("csv"),
		Plots: ctx.Bool("plots"),
		HTML:  ctx.Bool("html"),
		GIF:   ctx.Bool("gif"),
		PNG:   ctx.Bool("png"),
		RAW:   ctx.Bool("raw"),
		Gamma: ctx.Float64("gamma"),
	}

	for _, rs := range runs {
		o, err := mcml.Execute(sigCtx, rs, opts, out)
		if o != nil {
			displayRAT(o)
			if st != nil {
				if serr := saveRecord(st, o); serr != nil {
					logger.Error(serr)
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func saveRecord(st *store.Store, o *mcml.Outcome) error {
	rec, err := store.NewRecord(o)
	if err != nil {
		return err
	}
	id, err := st.SaveRun(context.Background(), rec)
	if err != nil {
		return err
	}
	logger.Noticef("recorded run %s", id)
	return nil
}

func displayRAT(o *mcml.Outcome) {
	s := o.Summary
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Quantity", "Value"})
	for _, row := range [][2]interface{}{
		{"Specular reflectance", s.RSpecular},
		{"Diffuse reflectance", s.Rd},
		{"Unscattered reflectance", s.RdUnscattered},
		{"Absorbed fraction", s.A},
		{"Diffuse transmittance", s.Tt},
		{"Unscattered transmittance", s.TtUnscattered},
		{"Total transmittance", s.TotalTransmittance()},
	} {
		table.Append([]string{row[0].(string), fmt.Sprintf("%.6f", row[1])})
	}
	table.SetFooter([]string{"Total", fmt.Sprintf("%.6f", s.TotalReflectance()+s.A+s.TotalTransmittance())})
	table.Render()
	logger.Noticef("%s: %d photons in %s (%d workers) -> %s\n%s",
		o.Spec.Name(), o.Stats.Photons, o.Stats.Elapsed, o.Stats.Workers, o.MCOPath, buf.String())
}

func listRuns(ctx *cli.Context) error {
	setupLogging(ctx)
	st, err := store.Open(ctx.String("db"))
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.ListRuns(context.Background(), ctx.Int("limit"))
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Created", "Photons", "Rd", "A", "Tt", "Elapsed"})
	for _, r := range recs {
		table.Append([]string{
			r.ID,
			r.Name,
			r.Created.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", r.Photons),
			fmt.Sprintf("%.6f", r.Rd),
			fmt.Sprintf("%.6f", r.Absorbed),
			fmt.Sprintf("%.6f", r.Tt+r.TtUnscattered),
			r.Elapsed.String(),
		})
	}
	table.Render()
	return nil
}

func showRun(ctx *cli.Context) error {
	setupLogging(ctx)
	if ctx.NArg() != 1 {
		return errors.New("show: expected a run id")
	}
	st, err := store.Open(ctx.String("db"))
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.GetRun(context.Background(), ctx.Args().First())
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	for _, kv := range [][2]string{
		{"ID", r.ID},
		{"Name", r.Name},
		{"Created", r.Created.Local().Format("2006-01-02 15:04:05")},
		{"Photons", fmt.Sprintf("%d", r.Photons)},
		{"Seed", fmt.Sprintf("%d", r.Seed)},
		{"Workers", fmt.Sprintf("%d", r.Workers)},
		{"Elapsed", r.Elapsed.String()},
		{"Specular reflectance", fmt.Sprintf("%.6f", r.RSpecular)},
		{"Diffuse reflectance", fmt.Sprintf("%.6f", r.Rd)},
		{"Unscattered reflectance", fmt.Sprintf("%.6f", r.RdUnscattered)},
		{"Absorbed fraction", fmt.Sprintf("%.6f", r.Absorbed)},
		{"Diffuse transmittance", fmt.Sprintf("%.6f", r.Tt)},
		{"Unscattered transmittance", fmt.Sprintf("%.6f", r.TtUnscattered)},
	} {
		table.Append(kv[:])
	}
	table.Render()
	fmt.Printf("\n%s", r.ConfigYAML)
	return nil
}

func printSample(ctx *cli.Context) error {
	return writeSample(os.Stdout, ctx.String("format"))
}

func writeSample(w io.Writer, format string) error {
	fc := mcml.SampleConfig()
	switch format {
	case "yaml", "yml":
		return fc.EncodeYAML(w)
	case "json":
		return fc.EncodeJSON(w)
	case "mci":
		return fc.EncodeMCI(w)
	default:
		return fmt.Errorf("sample: unknown format %q (want yaml, json or mci)", format)
	}
}
