package types

// BatchStats are per-batch counts computed by a single pass over the records.
type BatchStats struct {
	// Total is the number of outcome records in the batch.
	Total int `json:"total"`
	// Captures is the number of capture-type records.
	Captures int `json:"captures"`
	// NoCaptures is the number of no-captures sentinels.
	NoCaptures int `json:"no_captures"`
	// Errors is the number of error sentinels (timeouts included).
	Errors int `json:"errors"`
	// DistinctURLs is the number of distinct query URLs in the batch.
	DistinctURLs int `json:"distinct_urls"`
}

// RecordFilter selects which result types a filtered view includes.
// The three inclusion flags are independent.
type RecordFilter struct {
	Captures   bool `json:"captures"`
	NoCaptures bool `json:"no_captures"`
	Errors     bool `json:"errors"`
}

// AllRecords is the filter that includes every record.
var AllRecords = RecordFilter{Captures: true, NoCaptures: true, Errors: true}

// Match reports whether a record passes the filter.
func (f RecordFilter) Match(rec *OutcomeRecord) bool {
	switch rec.Type {
	case ResultCapture:
		return f.Captures
	case ResultNoCaptures:
		return f.NoCaptures
	case ResultError:
		return f.Errors
	default:
		return false
	}
}

// ResultBatch is the append-only ordered sequence of outcome records for one
// query run. Populated strictly in input-URL order by the orchestrator and
// exposed read-only to the presentation layer. A new run replaces the batch;
// it is never mutated in place.
//
// Invariant: every record's QueryURL equals one of the batch's input URLs,
// and each input URL contributes at least one record, even on total failure.
type ResultBatch struct {
	records []OutcomeRecord
}

// NewResultBatch creates an empty batch.
func NewResultBatch() *ResultBatch {
	return &ResultBatch{}
}

// Append adds records to the batch. Only the orchestrator appends.
func (b *ResultBatch) Append(recs ...OutcomeRecord) {
	b.records = append(b.records, recs...)
}

// Len returns the number of records.
func (b *ResultBatch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.records)
}

// Records returns a copy of the full record sequence, in append order.
func (b *ResultBatch) Records() []OutcomeRecord {
	if b == nil {
		return nil
	}
	out := make([]OutcomeRecord, len(b.records))
	copy(out, b.records)
	return out
}

// Filtered returns the records passing the filter, without mutating the
// batch. Order is preserved.
func (b *ResultBatch) Filtered(f RecordFilter) []OutcomeRecord {
	if b == nil {
		return nil
	}
	var out []OutcomeRecord
	for i := range b.records {
		if f.Match(&b.records[i]) {
			out = append(out, b.records[i])
		}
	}
	return out
}

// Stats computes the per-batch counts in one pass.
func (b *ResultBatch) Stats() BatchStats {
	var s BatchStats
	if b == nil {
		return s
	}
	seen := make(map[string]struct{}, len(b.records))
	for i := range b.records {
		s.Total++
		switch b.records[i].Type {
		case ResultCapture:
			s.Captures++
		case ResultNoCaptures:
			s.NoCaptures++
		case ResultError:
			s.Errors++
		}
		if _, ok := seen[b.records[i].QueryURL]; !ok {
			seen[b.records[i].QueryURL] = struct{}{}
			s.DistinctURLs++
		}
	}
	return s
}
