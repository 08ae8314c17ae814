package runtime

import (
	"time"

	"github.com/pithecene-io/cdxq/types"
)

// BatchReport summarizes a completed run for rendering and logging.
type BatchReport struct {
	// BatchID identifies the run.
	BatchID string `json:"batch_id"`
	// Index is the CDX endpoint that was queried.
	Index string `json:"index"`
	// MatchType is the URL matching mode used.
	MatchType types.MatchType `json:"match_type"`
	// URLCount is the number of input URLs.
	URLCount int `json:"url_count"`
	// Stats are the per-batch record counts.
	Stats types.BatchStats `json:"stats"`
	// Duration is the wall-clock batch duration.
	Duration time.Duration `json:"duration"`
}

// Report builds the summary for a finished batch.
func (o *Orchestrator) Report(batch *types.ResultBatch, duration time.Duration) BatchReport {
	return BatchReport{
		BatchID:   o.config.BatchID,
		Index:     o.config.Query.Endpoint,
		MatchType: o.config.Query.Match,
		URLCount:  len(o.config.URLs),
		Stats:     batch.Stats(),
		Duration:  duration,
	}
}
