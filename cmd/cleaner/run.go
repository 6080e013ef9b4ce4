package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"moonlight/internal/config"
	"moonlight/internal/dataprocessing"
	"moonlight/internal/dataset"
	"moonlight/internal/exporter"
	"moonlight/internal/files"
	"moonlight/internal/validation"
	"moonlight/pkg/contracts/domain"
)

type runOptions struct {
	Country    string
	InDir      string
	OutDir     string
	Parquet    bool
	ZThreshold float64
	Progress   io.Writer // nil disables the progress bar
}

// countryResult describes one cleaned country
type countryResult struct {
	Country string
	Rows    int
	Output  string
	Parquet string
	Reports []domain.CleaningReport
}

type runSummary struct {
	Cleaned []countryResult
	Failed  int
}

// run cleans the selected countries one after another. A country whose raw
// file is missing or unreadable is logged and counted, not fatal.
func run(ctx context.Context, opts runOptions, logger *slog.Logger) (*runSummary, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	paths := config.NewPaths(wd, config.PathsConfig{DataDir: opts.OutDir, RawDir: opts.InDir})

	registry := dataset.DefaultRegistry()
	selected, err := selectCountries(registry, opts.Country)
	if err != nil {
		return nil, err
	}

	validator := validation.NewFileValidator(logger)
	if _, err := validator.ValidateInputDirectory(paths.RawDir); err != nil {
		return nil, err
	}
	if err := validator.ValidateOutputDirectory(paths.DataDir); err != nil {
		return nil, err
	}

	logger.Info("cleaning raw measurement files",
		slog.String("in", paths.RawDir),
		slog.String("out", paths.DataDir),
		slog.Int("countries", len(selected)),
		slog.Bool("parquet", opts.Parquet))

	var (
		discovery = files.NewDiscovery(paths.RawDir)
		manager   = files.NewManager(paths, logger)
		loader    = dataset.NewLoader(logger)
		writer    = exporter.NewCSVWriter(paths, logger)
		cleaner   = dataprocessing.NewCleaner(logger, dataprocessing.CleanerOptions{ZThreshold: opts.ZThreshold})
	)

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(selected),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("cleaning"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	summary := &runSummary{}
	for _, c := range selected {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if bar != nil {
			bar.Describe("cleaning " + c.Name)
		}

		result, err := cleanCountry(ctx, c, discovery, validator, loader, cleaner, writer, manager, opts.Parquet)
		if err != nil {
			summary.Failed++
			logger.Error("country not cleaned",
				slog.String("country", c.Name),
				slog.String("error", err.Error()))
		} else {
			summary.Cleaned = append(summary.Cleaned, *result)
			logReports(logger, result)
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	logger.Info("cleaning finished",
		slog.Int("cleaned", len(summary.Cleaned)),
		slog.Int("failed", summary.Failed))
	return summary, nil
}

func selectCountries(registry *dataset.Registry, country string) ([]domain.Country, error) {
	if country == "" || strings.EqualFold(country, "all") {
		return registry.Countries(), nil
	}
	c, ok := registry.Lookup(country)
	if !ok {
		return nil, fmt.Errorf("unknown country %q (known: %s)", country, strings.Join(registry.Names(), ", "))
	}
	return []domain.Country{c}, nil
}

func cleanCountry(
	ctx context.Context,
	c domain.Country,
	discovery *files.Discovery,
	validator *validation.FileValidator,
	loader *dataset.Loader,
	cleaner *dataprocessing.Cleaner,
	writer *exporter.CSVWriter,
	manager *files.Manager,
	withParquet bool,
) (*countryResult, error) {
	raw, err := discovery.FindRawFile("", c)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateRawFile(raw.Path); err != nil {
		return nil, err
	}

	frame, err := loader.ReadFile(ctx, raw.Path, c.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", raw.Name, err)
	}
	if frame.Empty() {
		return nil, fmt.Errorf("%s has no measurement rows", raw.Name)
	}

	cleaned, reports, err := cleaner.Clean(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("failed to clean %s: %w", raw.Name, err)
	}

	result := &countryResult{
		Country: c.Name,
		Rows:    cleaned.Len(),
		Output:  manager.CleanFilePath(c),
		Reports: reports,
	}
	if err := writer.WriteFrameFile(result.Output, cleaned); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", result.Output, err)
	}

	if withParquet {
		result.Parquet = manager.ParquetFilePath(c)
		if _, err := manager.WriteAtomic(result.Parquet, func(w io.Writer) (int64, error) {
			return exporter.WriteFrameParquet(w, cleaned)
		}); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", result.Parquet, err)
		}
	}
	return result, nil
}

func logReports(logger *slog.Logger, result *countryResult) {
	for _, r := range result.Reports {
		logger.Info("column cleaned",
			slog.String("country", result.Country),
			slog.String("column", r.Column),
			slog.Int("outliers", r.Outliers),
			slog.Int("imputed", r.Imputed),
			slog.Int("clipped", r.Clipped),
			slog.Float64("median", r.Median))
	}
	logger.Info("country cleaned",
		slog.String("country", result.Country),
		slog.Int("rows", result.Rows),
		slog.String("output", result.Output))
}
