package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-analysis/internal/domain"
	"github.com/couchcryptid/weather-analysis/internal/observability"
)

// Loader reads the raw observations.
type Loader interface {
	Load(ctx context.Context) (*domain.Table, error)
}

// CleanedSink persists the cleaned table.
type CleanedSink interface {
	WriteCleaned(ctx context.Context, t *domain.Table) error
}

// ChartRenderer draws the three analysis charts and returns the written paths.
type ChartRenderer interface {
	RenderDailyTemperature(ctx context.Context, daily domain.DailyTable) (string, error)
	RenderMonthlyRainfall(ctx context.Context, monthly domain.MonthlyTable) (string, error)
	RenderHumidityVsTemperature(ctx context.Context, t *domain.Table) (string, error)
}

// SummaryPublisher ships monthly summaries downstream.
type SummaryPublisher interface {
	Publish(ctx context.Context, summaries []domain.MonthlySummary) error
}

// Options selects the measurement columns and how missing ones are handled.
type Options struct {
	Columns       domain.ColumnSet
	MissingPolicy domain.MissingColumnPolicy
}

// Pipeline runs the analysis once: load, clean, persist, aggregate, plot and
// optionally publish.
type Pipeline struct {
	loader    Loader
	sink      CleanedSink
	charts    ChartRenderer
	publisher SummaryPublisher
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. publisher may be nil, which disables publishing.
func New(l Loader, s CleanedSink, c ChartRenderer, pub SummaryPublisher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if opts.MissingPolicy == "" {
		opts.MissingPolicy = domain.PolicyFail
	}
	return &Pipeline{
		loader:    l,
		sink:      s,
		charts:    c,
		publisher: pub,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes every stage in order. The first failing stage aborts the run
// and its error is returned wrapped with the stage name.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info("pipeline started", "policy", p.opts.MissingPolicy)

	var raw *domain.Table
	if err := p.stage(ctx, "load", func() (err error) {
		raw, err = p.loader.Load(ctx)
		if err == nil {
			p.metrics.RowsLoaded.Add(float64(raw.Len()))
		}
		return err
	}); err != nil {
		return err
	}

	var cleaned *domain.Table
	if err := p.stage(ctx, "clean", func() (err error) {
		var report domain.CleanReport
		cleaned, report, err = domain.Clean(raw, p.logger)
		if err != nil {
			return err
		}
		p.recordClean(report)
		return nil
	}); err != nil {
		return err
	}

	if err := p.stage(ctx, "write_cleaned", func() error {
		return p.sink.WriteCleaned(ctx, cleaned)
	}); err != nil {
		return err
	}

	var daily domain.DailyTable
	var monthly domain.MonthlyTable
	if err := p.stage(ctx, "aggregate", func() (err error) {
		if daily, err = domain.ResampleDaily(cleaned); err != nil {
			return err
		}
		monthly, err = domain.ResampleMonthly(cleaned, p.opts.Columns, p.opts.MissingPolicy, p.logger)
		if err == nil {
			p.logger.Info("aggregated observations", "days", daily.Len(), "months", monthly.Len())
		}
		return err
	}); err != nil {
		return err
	}

	charts := []struct {
		name   string
		render func() (string, error)
	}{
		{domain.ChartDailyTemperature, func() (string, error) { return p.charts.RenderDailyTemperature(ctx, daily) }},
		{domain.ChartMonthlyRainfall, func() (string, error) { return p.charts.RenderMonthlyRainfall(ctx, monthly) }},
		{domain.ChartHumidityVsTemperature, func() (string, error) { return p.charts.RenderHumidityVsTemperature(ctx, cleaned) }},
	}
	for _, c := range charts {
		if err := p.stage(ctx, "plot_"+c.name, func() error {
			return p.renderChart(c.name, c.render)
		}); err != nil {
			return err
		}
	}

	if p.publisher != nil {
		if err := p.stage(ctx, "publish", func() error {
			summaries := domain.MonthlySummaries(monthly, p.opts.Columns)
			if err := p.publisher.Publish(ctx, summaries); err != nil {
				return err
			}
			p.metrics.SummariesPublished.Add(float64(len(summaries)))
			return nil
		}); err != nil {
			return err
		}
	}

	p.metrics.LastSuccess.SetToCurrentTime()
	p.logger.Info("pipeline finished",
		"rows", cleaned.Len(),
		"duration", time.Since(start),
	)
	return nil
}

// stage times fn into the stage histogram. A cancelled context stops the run
// before the stage starts.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err != nil {
		p.logger.Error("stage failed", "stage", name, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Debug("stage complete", "stage", name, "duration", elapsed)
	return nil
}

// renderChart draws one chart. Under the skip policy a chart whose column is
// missing is skipped rather than failing the run.
func (p *Pipeline) renderChart(name string, render func() (string, error)) error {
	path, err := render()
	if err != nil {
		if p.opts.MissingPolicy == domain.PolicySkip && errors.Is(err, domain.ErrSchema) {
			p.logger.Warn("skipping chart", "chart", name, "error", err)
			p.metrics.ChartsSkipped.WithLabelValues(name).Inc()
			return nil
		}
		return err
	}
	p.metrics.ChartsRendered.WithLabelValues(name).Inc()
	p.logger.Debug("chart rendered", "chart", name, "path", path)
	return nil
}

func (p *Pipeline) recordClean(r domain.CleanReport) {
	p.metrics.RowsDropped.Add(float64(r.DroppedRows))
	p.metrics.CellsFilled.WithLabelValues("interpolated").Add(float64(r.InterpolatedCells))
	p.metrics.CellsFilled.WithLabelValues("mean").Add(float64(r.MeanFilledCells))
	p.metrics.ColumnsEmpty.Add(float64(len(r.EmptyColumns)))

	p.logger.Info("cleaned observations",
		"input_rows", r.InputRows,
		"dropped_rows", r.DroppedRows,
		"interpolated", r.InterpolatedCells,
		"mean_filled", r.MeanFilledCells,
	)
	if r.DroppedRows > 0 {
		p.logger.Warn("dropped rows with unparseable dates", "count", r.DroppedRows)
	}
}
