package main

import (
	"os"
	"runtime/pprof"

	"github.com/urfave/cli"

	"github.com/lukaszgryglicki/mcml/internal/mcml"
)

func main() {
	mcml.Debug = os.Getenv("DEBUG") != ""
	if os.Getenv("PROFILE") != "" {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "mcml"
	app.Usage = "Monte Carlo light transport in multi-layered tissue"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "simulate the runs of a configuration file",
			Description: `
Load a .mci, .yaml/.yml or .json configuration and trace the photons of each
run in parallel. Every run writes an MCO file; the optional outputs are
written to a directory named after the run next to it.

Ctrl-C stops a run between photon batches; the photons traced so far are
still summarized and written.`,
			ArgsUsage: "config.(mci|yaml|yml|json)",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "workers, w",
					Usage: "number of workers (0 = number of CPUs)",
				},
				cli.Uint64Flag{
					Name:  "seed, s",
					Usage: "master seed; 0 keeps the seed of the config",
				},
				cli.IntFlag{
					Name:  "photons, n",
					Usage: "override the photon count of every run",
				},
				cli.IntFlag{
					Name:  "nt",
					Value: -1,
					Usage: "override the number of recorded time ticks (-1 keeps the config)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output directory (default: next to the configured output file)",
				},
				cli.IntFlag{
					Name:  "run",
					Usage: "only execute run number i (1-based, 0 = all)",
				},
				cli.BoolFlag{Name: "csv", Usage: "write CSV profiles"},
				cli.BoolFlag{Name: "plots", Usage: "write PNG profile plots"},
				cli.BoolFlag{Name: "html", Usage: "write an HTML report"},
				cli.BoolFlag{Name: "gif", Usage: "write the time-resolved grid as an animated GIF"},
				cli.BoolFlag{Name: "png", Usage: "write the time-resolved grid as 16-bit PNG frames"},
				cli.BoolFlag{Name: "raw", Usage: "write the time-resolved grid as raw float64"},
				cli.Float64Flag{
					Name:  "gamma",
					Value: mcml.DefaultGamma,
					Usage: "gamma for GIF/PNG frames",
				},
				cli.StringFlag{
					Name:  "db",
					Usage: "record finished runs in this SQLite database",
				},
			},
			Action: runConfig,
		},
		{
			Name:  "runs",
			Usage: "list recorded runs",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "db", Value: "mcml.db", Usage: "run history database"},
				cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum number of runs (0 = all)"},
			},
			Action: listRuns,
		},
		{
			Name:      "show",
			Usage:     "show one recorded run",
			ArgsUsage: "run-id (or unique prefix)",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "db", Value: "mcml.db", Usage: "run history database"},
			},
			Action: showRun,
		},
		{
			Name:  "sample",
			Usage: "print a sample configuration",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "format, f", Value: "yaml", Usage: "yaml, json or mci"},
			},
			Action: printSample,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
