// Diagnostic tool for inspecting E2E containers.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-e2e/e2e"
)

func main() {
	app := &cli.App{
		Name:      "e2edump",
		Usage:     "decode a Heidelberg E2E container and print its contents",
		ArgsUsage: "<file.e2e>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "reading mode: oct or faf",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML options file",
			},
			&cli.BoolFlag{
				Name:  "patient",
				Usage: "also print patient demographics chunks",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log decode warnings as they happen",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowAppHelp(c)
		return cli.Exit("expected exactly one container path", 1)
	}
	path := c.Args().First()

	opts := e2e.DefaultOptions()
	if cfg := c.String("config"); cfg != "" {
		var err error
		if opts, err = e2e.LoadOptions(cfg); err != nil {
			return err
		}
	}
	if mode := c.String("mode"); mode != "" {
		var err error
		if opts.Mode, err = e2e.ParseMode(mode); err != nil {
			return err
		}
	}
	if c.Bool("verbose") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
		opts.Logger = logger
	}

	f, err := e2e.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := f.Decode(opts)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	fmt.Printf("=== %s (mode %s) ===\n", path, opts.Mode)
	printVolumes(res)
	printFundus(res)
	if len(res.Warnings) > 0 {
		fmt.Printf("\nWarnings: %d\n", len(res.Warnings))
		for _, w := range res.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}
	if res.Truncated {
		fmt.Println("\nNOTE: container truncated, result is partial")
	}

	if c.Bool("patient") {
		patients, err := f.Patients(opts)
		if err != nil {
			return fmt.Errorf("reading patient chunks: %w", err)
		}
		fmt.Printf("\nPatients: %d\n", len(patients))
		for _, p := range patients {
			fmt.Printf("  %s %s (birthdate %d, sex %d)\n", p.Name, p.Surname, p.Birthdate, p.Sex)
		}
	}
	return nil
}

func printVolumes(res *e2e.Result) {
	fmt.Printf("Volumes: %d\n", len(res.Volumes))
	for _, vol := range res.Volumes {
		scans, fundus, empty := 0, 0, 0
		for _, s := range vol.Slices {
			switch s.Kind {
			case e2e.SliceScan:
				scans++
			case e2e.SliceFundus:
				fundus++
			default:
				empty++
			}
		}
		lat := vol.Laterality.String()
		if lat == "" {
			lat = "?"
		}
		fmt.Printf("  %s eye=%s slices=%d (scan=%d fundus=%d empty=%d)\n",
			vol.Key, lat, len(vol.Slices), scans, fundus, empty)
		if scans > 0 {
			for _, s := range vol.Slices {
				if s.Kind == e2e.SliceScan {
					rows, cols := s.Scan.Dims()
					fmt.Printf("    scan raster %dx%d\n", rows, cols)
					break
				}
			}
		}
	}
}

func printFundus(res *e2e.Result) {
	if res.FundusByVolume != nil {
		fmt.Printf("Reference images (by volume): %d\n", len(res.FundusByVolume))
		for key, img := range res.FundusByVolume {
			b := img.Image.Bounds()
			fmt.Printf("  %s eye=%s %dx%d\n", key, img.Laterality, b.Dx(), b.Dy())
		}
		return
	}
	fmt.Printf("Reference images: %d\n", len(res.Fundus))
	for i, img := range res.Fundus {
		b := img.Image.Bounds()
		fmt.Printf("  #%d eye=%s %dx%d\n", i, img.Laterality, b.Dx(), b.Dy())
	}
}
