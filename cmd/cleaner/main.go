package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"moonlight/internal/config"
	"moonlight/internal/infrastructure"
)

func main() {
	cmd := &cli.Command{
		Name:    "cleaner",
		Usage:   "clean raw solar measurement files into <country>_clean.csv",
		Version: config.AppVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "country",
				Aliases: []string{"c"},
				Usage:   `country to clean (name, ISO code or slug), or "all"`,
				Value:   "all",
			},
			&cli.StringFlag{
				Name:  "in",
				Usage: "directory holding the raw files",
				Value: filepath.Join(config.DataDirName, config.RawDirName),
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "directory receiving the cleaned files",
				Value: config.DataDirName,
			},
			&cli.BoolFlag{
				Name:  "parquet",
				Usage: "also write <country>_clean.parquet",
			},
			&cli.FloatFlag{
				Name:  "zscore",
				Usage: "absolute z-score above which a reading is an outlier",
				Value: config.DefaultZScoreThreshold,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "info",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "hide the progress bar",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := infrastructure.NewConsoleLogger(os.Stderr, cmd.String("log-level"))

			opts := runOptions{
				Country:    cmd.String("country"),
				InDir:      cmd.String("in"),
				OutDir:     cmd.String("out"),
				Parquet:    cmd.Bool("parquet"),
				ZThreshold: cmd.Float("zscore"),
			}
			if !cmd.Bool("quiet") {
				opts.Progress = os.Stdout
			}

			summary, err := run(ctx, opts, logger)
			if err != nil {
				return err
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d countries failed", summary.Failed, summary.Failed+len(summary.Cleaned))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
