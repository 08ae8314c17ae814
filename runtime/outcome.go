package runtime

import (
	"context"

	"github.com/pithecene-io/cdxq/types"
	"github.com/pithecene-io/cdxq/variant"
)

// processURL runs the per-URL state machine and returns the outcome records
// for one input URL. Every input URL yields at least one record:
//
//   - error/timeout on the original form is terminal and yields one error
//     record
//   - success yields one capture record per returned row, stamped with the
//     original queried URL
//   - no_captures yields a single sentinel, unless the variant-retry path
//     applies (exact match mode with the retry flag set)
func (o *Orchestrator) processURL(ctx context.Context, url string) []types.OutcomeRecord {
	rows, class, detail := o.query(ctx, url, attemptInitial)

	switch class {
	case types.ClassError, types.ClassTimeout:
		o.logger.Warn("query failed", map[string]any{"url": url, "detail": detail})
		return []types.OutcomeRecord{errorRecord(url, detail)}

	case types.ClassSuccess:
		o.config.Metrics.AddCaptures(len(rows))
		return captureRecords(url, "", rows)

	default: // no_captures
		if !o.config.Query.RetryApplicable() {
			return []types.OutcomeRecord{noCapturesRecord(url)}
		}
		return o.retryWithVariants(ctx, url)
	}
}

// retryWithVariants walks the alternate URL forms in generation order,
// stopping at the first variant that yields captures or a transport failure.
// A transport error on a variant is terminal for the URL; remaining variants
// are not tried. If every variant also comes back empty, the URL gets a
// single no-captures sentinel.
func (o *Orchestrator) retryWithVariants(ctx context.Context, url string) []types.OutcomeRecord {
	for _, alt := range variant.Generate(url) {
		if alt == url {
			// The original form was already tried.
			continue
		}

		o.config.Metrics.IncVariantRetry()
		rows, class, detail := o.query(ctx, alt, attemptVariant)

		switch class {
		case types.ClassSuccess:
			o.logger.Info("variant matched", map[string]any{"url": url, "variant": alt, "captures": len(rows)})
			o.config.Metrics.AddCaptures(len(rows))
			return captureRecords(url, alt, rows)

		case types.ClassError, types.ClassTimeout:
			o.logger.Warn("variant query failed", map[string]any{"url": url, "variant": alt, "detail": detail})
			rec := errorRecord(url, detail)
			rec.MatchedURL = alt
			return []types.OutcomeRecord{rec}
		}
		// no_captures: try the next variant.
	}

	return []types.OutcomeRecord{noCapturesRecord(url)}
}

// captureRecords builds one capture record per row, each stamped with the
// original queried URL. matched is the variant that produced the rows, empty
// when the original form matched.
func captureRecords(queryURL, matched string, rows []types.CaptureRow) []types.OutcomeRecord {
	recs := make([]types.OutcomeRecord, 0, len(rows))
	for i := range rows {
		row := rows[i]
		recs = append(recs, types.OutcomeRecord{
			QueryURL:     queryURL,
			Type:         types.ResultCapture,
			CaptureCount: len(rows),
			MatchedURL:   matched,
			Capture:      &row,
		})
	}
	return recs
}

func noCapturesRecord(queryURL string) types.OutcomeRecord {
	return types.OutcomeRecord{
		QueryURL: queryURL,
		Type:     types.ResultNoCaptures,
	}
}

func errorRecord(queryURL, detail string) types.OutcomeRecord {
	return types.OutcomeRecord{
		QueryURL:     queryURL,
		Type:         types.ResultError,
		ErrorMessage: detail,
	}
}
