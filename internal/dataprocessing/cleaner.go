package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/hashicorp/go-set/v2"

	"moonlight/pkg/contracts/domain"
)

// DefaultKeyColumns are screened for outliers and imputed by the cleaner
var DefaultKeyColumns = []string{"GHI", "DNI", "DHI", "ModA", "ModB", "WS", "WSgust"}

// IrradianceColumns cannot be negative; negative readings are sensor noise
var IrradianceColumns = []string{"GHI", "DNI", "DHI"}

// DefaultZScoreThreshold flags readings more than three standard deviations out
const DefaultZScoreThreshold = 3.0

// CleanerOptions configures a Cleaner
type CleanerOptions struct {
	ZThreshold  float64
	KeyColumns  []string
	NonNegative []string
}

// Cleaner flags z-score outliers, clips negative irradiance and imputes
// missing or flagged cells with the column median
type Cleaner struct {
	opts        CleanerOptions
	nonNegative *set.Set[string]
	logger      *slog.Logger
}

// NewCleaner creates a cleaner, filling unset options with defaults
func NewCleaner(logger *slog.Logger, opts CleanerOptions) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ZThreshold <= 0 {
		opts.ZThreshold = DefaultZScoreThreshold
	}
	if len(opts.KeyColumns) == 0 {
		opts.KeyColumns = DefaultKeyColumns
	}
	if opts.NonNegative == nil {
		opts.NonNegative = IrradianceColumns
	}
	return &Cleaner{
		opts:        opts,
		nonNegative: set.From(opts.NonNegative),
		logger:      logger,
	}
}

// Clean returns a cleaned copy of frame and one report per key column
// present. Statistics are computed per country so a combined frame is
// cleaned the same way as its parts.
func (c *Cleaner) Clean(ctx context.Context, frame *domain.Frame) (*domain.Frame, []domain.CleaningReport, error) {
	out := frame.Slice(0, frame.Len())
	order, groups := groupByCountry(out)

	var reports []domain.CleaningReport
	for _, name := range c.opts.KeyColumns {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		col, ok := out.Column(name)
		if !ok {
			continue
		}

		report := domain.CleaningReport{Column: name}
		for _, country := range order {
			c.cleanGroup(ctx, name, country, col, groups[country], &report)
		}
		reports = append(reports, report)

		c.logger.DebugContext(ctx, "column cleaned",
			slog.String("column", name),
			slog.Int("outliers", report.Outliers),
			slog.Int("imputed", report.Imputed),
			slog.Int("clipped", report.Clipped),
		)
	}
	return out, reports, nil
}

// cleanGroup cleans col in place for the rows of one country
func (c *Cleaner) cleanGroup(ctx context.Context, name, country string, col []float64, rows []int, report *domain.CleaningReport) {
	if c.nonNegative.Contains(name) {
		for _, i := range rows {
			if col[i] < 0 {
				col[i] = 0
				report.Clipped++
			}
		}
	}

	values := finite(pick(col, rows))
	m, sd := mean(values), stddev(values, 0)

	flagged := make([]bool, len(rows))
	if sd > 0 {
		for k, i := range rows {
			if !math.IsNaN(col[i]) && math.Abs((col[i]-m)/sd) > c.opts.ZThreshold {
				flagged[k] = true
				report.Outliers++
			}
		}
	}

	kept := make([]float64, 0, len(rows))
	for k, i := range rows {
		if !flagged[k] && !math.IsNaN(col[i]) {
			kept = append(kept, col[i])
		}
	}
	sort.Float64s(kept)
	median := quantile(kept, 0.5)
	if math.IsNaN(median) {
		c.logger.WarnContext(ctx, "column has no usable values, imputing zero",
			slog.String("column", name),
			slog.String("country", country),
		)
		median = 0
	}
	report.Median = median

	for k, i := range rows {
		if flagged[k] || math.IsNaN(col[i]) {
			col[i] = median
			report.Imputed++
		}
	}
}
