// Package runtime orchestrates a query batch: it drives the per-URL retry
// policy over the CDX client, assembles outcome records, and tracks progress
// for the presentation layer.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/pithecene-io/cdxq/cdx"
	"github.com/pithecene-io/cdxq/log"
	"github.com/pithecene-io/cdxq/metrics"
	"github.com/pithecene-io/cdxq/types"
)

// Attempt kinds for request metrics.
const (
	attemptInitial = "initial"
	attemptVariant = "variant"
)

// BatchConfig configures one batch run.
type BatchConfig struct {
	// BatchID identifies this run in logs.
	BatchID string
	// Query is the immutable per-batch query configuration.
	Query *types.QueryConfig
	// URLs is the ordered input URL list.
	URLs []string
	// Client issues CDX queries. Usually *cdx.Client; tests inject doubles.
	Client cdx.Querier
	// Metrics is the optional batch metrics bundle (nil disables).
	Metrics *metrics.Metrics
	// Sleep overrides the inter-request pause implementation (for testing).
	// If nil, time.Sleep is used.
	Sleep func(time.Duration)
}

// Orchestrator processes input URLs strictly sequentially, one CDX round
// trip at a time, appending to a fresh ResultBatch. Per-URL failures are
// fully isolated: one URL's error never aborts the batch.
type Orchestrator struct {
	config   *BatchConfig
	logger   *log.Logger
	sleep    func(time.Duration)
	progress tracker
}

// NewOrchestrator creates an orchestrator for one batch.
// Returns an error if the query configuration or URL list is invalid.
func NewOrchestrator(config *BatchConfig) (*Orchestrator, error) {
	if config.Query == nil {
		return nil, fmt.Errorf("query config is required")
	}
	if err := config.Query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query config: %w", err)
	}
	if len(config.URLs) == 0 {
		return nil, fmt.Errorf("at least one URL is required")
	}
	if config.Client == nil {
		return nil, fmt.Errorf("cdx client is required")
	}

	sleep := config.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	logger := log.NewLogger(&log.BatchMeta{
		BatchID:  config.BatchID,
		Index:    config.Query.Endpoint,
		URLCount: len(config.URLs),
	})

	o := &Orchestrator{
		config: config,
		logger: logger,
		sleep:  sleep,
	}
	o.progress.reset(len(config.URLs))
	return o, nil
}

// Run executes the batch end-to-end and returns the populated ResultBatch.
//
// URLs are processed in input order with no parallel requests in flight.
// The context is only consulted between URLs: an in-flight request is
// bounded solely by the per-request timeout. When the context is canceled
// the partially-populated batch is returned together with the context error.
func (o *Orchestrator) Run(ctx context.Context) (*types.ResultBatch, error) {
	batch := types.NewResultBatch()
	start := time.Now()

	o.logger.Info("batch started", map[string]any{
		"match_type":     o.config.Query.Match,
		"retry_variants": o.config.Query.RetryApplicable(),
	})

	for i, url := range o.config.URLs {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("batch abandoned", map[string]any{"completed": i})
			return batch, err
		}

		o.progress.setCurrent(url)
		batch.Append(o.processURL(ctx, url)...)
		o.config.Metrics.IncURLProcessed()
		o.progress.complete()

		// Fixed pause between URLs to respect the index's informal rate
		// expectations. No pause after the final URL.
		if i < len(o.config.URLs)-1 && o.config.Query.Delay > 0 {
			o.sleep(o.config.Query.Delay)
		}
	}

	stats := batch.Stats()
	o.logger.Info("batch finished", map[string]any{
		"duration":    time.Since(start).String(),
		"records":     stats.Total,
		"captures":    stats.Captures,
		"no_captures": stats.NoCaptures,
		"errors":      stats.Errors,
	})
	return batch, nil
}

// Progress returns a snapshot of batch progress. Safe to call from another
// goroutine while Run is executing.
func (o *Orchestrator) Progress() Progress {
	return o.progress.snapshot()
}

// query issues one instrumented round trip.
func (o *Orchestrator) query(ctx context.Context, target, kind string) ([]types.CaptureRow, types.Classification, string) {
	o.config.Metrics.IncRequest(kind)
	start := time.Now()
	rows, class, detail := o.config.Client.Query(ctx, o.config.Query, target)
	o.config.Metrics.ObserveDuration(time.Since(start))
	o.config.Metrics.IncOutcome(string(class))
	return rows, class, detail
}
