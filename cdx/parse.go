package cdx

import (
	"encoding/json"
	"strings"

	"github.com/pithecene-io/cdxq/types"
)

// textFieldCount is the number of whitespace-delimited columns in a
// well-formed CDX text row: urlkey, timestamp, url, mime, status, digest,
// length, in that fixed order.
const textFieldCount = 7

// parseBody parses a 200 response body into capture rows according to the
// requested encoding. Empty lines are skipped in both encodings.
func parseBody(enc types.OutputEncoding, body string) []types.CaptureRow {
	var rows []types.CaptureRow
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var row types.CaptureRow
		var ok bool
		switch enc {
		case types.OutputText:
			row, ok = parseTextLine(line)
		default:
			row, ok = parseJSONLine(line)
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// parseJSONLine parses one newline-delimited JSON object. A line that fails
// to parse is dropped: not counted as an error, not retried.
func parseJSONLine(line string) (types.CaptureRow, bool) {
	var row types.CaptureRow
	if err := json.Unmarshal([]byte(line), &row); err != nil {
		return types.CaptureRow{}, false
	}
	return row, true
}

// parseTextLine maps the first seven whitespace-delimited tokens onto the
// fixed field order. Shorter lines are kept as an opaque raw row with no
// structured fields.
func parseTextLine(line string) (types.CaptureRow, bool) {
	parts := strings.Fields(line)
	if len(parts) < textFieldCount {
		return types.CaptureRow{Raw: line}, true
	}
	return types.CaptureRow{
		URLKey:    parts[0],
		Timestamp: parts[1],
		URL:       parts[2],
		Mime:      parts[3],
		Status:    parts[4],
		Digest:    parts[5],
		Length:    parts[6],
	}, true
}
