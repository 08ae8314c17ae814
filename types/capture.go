package types

// Classification is the outcome of a single CDX round trip.
type Classification string

const (
	// ClassSuccess indicates the server returned at least one capture row.
	ClassSuccess Classification = "success"
	// ClassNoCaptures indicates the index explicitly signaled the URL is
	// absent (HTTP 404 or an empty 200 body). Not an error.
	ClassNoCaptures Classification = "no_captures"
	// ClassError indicates a transport failure or a non-200/non-404 status.
	ClassError Classification = "error"
	// ClassTimeout indicates the request exceeded the configured timeout.
	ClassTimeout Classification = "timeout"
)

// ResultType is the terminal classification carried by an OutcomeRecord.
type ResultType string

const (
	// ResultCapture is one archived capture row.
	ResultCapture ResultType = "capture"
	// ResultNoCaptures is the sentinel for a URL with no captures.
	ResultNoCaptures ResultType = "no_captures"
	// ResultError is the sentinel for a transport or server error.
	ResultError ResultType = "error"
)

// CaptureRow is one archived-snapshot record. Fields are populated uniformly
// whether the row came from a JSON object or a positionally-parsed text line.
// A text line with fewer than seven tokens is retained only as Raw, with no
// structured fields.
type CaptureRow struct {
	URLKey    string `json:"urlkey,omitempty" msgpack:"urlkey,omitempty"`
	Timestamp string `json:"timestamp,omitempty" msgpack:"timestamp,omitempty"`
	URL       string `json:"url,omitempty" msgpack:"url,omitempty"`
	Mime      string `json:"mime,omitempty" msgpack:"mime,omitempty"`
	Status    string `json:"status,omitempty" msgpack:"status,omitempty"`
	Digest    string `json:"digest,omitempty" msgpack:"digest,omitempty"`
	Length    string `json:"length,omitempty" msgpack:"length,omitempty"`
	// Raw is the original response line for rows that could not be parsed
	// into the seven fixed fields.
	Raw string `json:"raw,omitempty" msgpack:"raw,omitempty"`
}

// Structured reports whether the row carries parsed fields rather than only
// an opaque raw line.
func (r *CaptureRow) Structured() bool {
	return r.URLKey != "" || r.Timestamp != "" || r.URL != ""
}

// OutcomeRecord is one row of a ResultBatch: one per (queried URL, capture)
// pair, or a single sentinel when a URL yields no captures or an error.
type OutcomeRecord struct {
	// QueryURL is the originally requested URL, never the variant that
	// matched.
	QueryURL string `json:"query_url" msgpack:"query_url"`
	// Type discriminates capture, no_captures, and error records.
	Type ResultType `json:"result_type" msgpack:"result_type"`
	// ErrorMessage is present iff Type is ResultError.
	ErrorMessage string `json:"error,omitempty" msgpack:"error,omitempty"`
	// CaptureCount is the number of capture rows returned for this URL in
	// the attempt that produced this record.
	CaptureCount int `json:"capture_count" msgpack:"capture_count"`
	// MatchedURL is the variant that produced this outcome when it differs
	// from QueryURL. Empty when the original form matched.
	MatchedURL string `json:"matched_url,omitempty" msgpack:"matched_url,omitempty"`
	// Capture holds the row fields for ResultCapture records, nil otherwise.
	Capture *CaptureRow `json:"capture,omitempty" msgpack:"capture,omitempty"`
}
