package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName identifies this batch job to the Pushgateway.
const JobName = "weather_analysis"

// Exporter ships a run's metrics once the run is over. A batch job never lives
// long enough to be scraped, so metrics go to a Pushgateway and/or a
// node_exporter textfile instead.
type Exporter struct {
	pushURL  string
	textfile string
	logger   *slog.Logger
}

// NewExporter creates an exporter. Empty destinations are skipped.
func NewExporter(pushURL, textfile string, logger *slog.Logger) *Exporter {
	return &Exporter{pushURL: pushURL, textfile: textfile, logger: logger}
}

// Enabled reports whether any destination is configured.
func (e *Exporter) Enabled() bool {
	return e.pushURL != "" || e.textfile != ""
}

// Export writes the gathered metrics to every configured destination,
// attempting all of them before reporting failures.
func (e *Exporter) Export(ctx context.Context, g prometheus.Gatherer) error {
	var errs []error

	if e.pushURL != "" {
		if err := push.New(e.pushURL, JobName).Gatherer(g).PushContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("push metrics to %s: %w", e.pushURL, err))
		} else {
			e.logger.Debug("metrics pushed", "url", e.pushURL)
		}
	}

	if e.textfile != "" {
		if err := prometheus.WriteToTextfile(e.textfile, g); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile %s: %w", e.textfile, err))
		} else {
			e.logger.Debug("metrics written", "path", e.textfile)
		}
	}

	return errors.Join(errs...)
}
