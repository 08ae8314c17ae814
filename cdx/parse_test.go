package cdx

import (
	"testing"

	"github.com/pithecene-io/cdxq/types"
)

func TestParseBody_JSONLines(t *testing.T) {
	body := `{"urlkey": "com,example)/", "timestamp": "20260101120000", "url": "http://example.com/", "mime": "text/html", "status": "200", "digest": "AAAA", "length": "1234"}
{"urlkey": "com,example)/about", "timestamp": "20260102120000", "url": "http://example.com/about", "mime": "text/html", "status": "200", "digest": "BBBB", "length": "5678"}`

	rows := parseBody(types.OutputJSON, body)
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(rows))
	}
	first := rows[0]
	if first.URLKey != "com,example)/" || first.Timestamp != "20260101120000" ||
		first.URL != "http://example.com/" || first.Mime != "text/html" ||
		first.Status != "200" || first.Digest != "AAAA" || first.Length != "1234" {
		t.Errorf("unexpected first row: %+v", first)
	}
}

func TestParseBody_MalformedJSONLineDroppedSilently(t *testing.T) {
	body := `{"urlkey": "com,example)/", "url": "http://example.com/"}
this is not json
{"urlkey": "com,example)/page", "url": "http://example.com/page"}`

	rows := parseBody(types.OutputJSON, body)
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2 (malformed line dropped)", len(rows))
	}
}

func TestParseBody_TextSevenFields(t *testing.T) {
	body := "com,example)/ 20260101120000 http://example.com/ text/html 200 AAAA 1234"

	rows := parseBody(types.OutputText, body)
	if len(rows) != 1 {
		t.Fatalf("parsed %d rows, want 1", len(rows))
	}
	row := rows[0]
	want := types.CaptureRow{
		URLKey:    "com,example)/",
		Timestamp: "20260101120000",
		URL:       "http://example.com/",
		Mime:      "text/html",
		Status:    "200",
		Digest:    "AAAA",
		Length:    "1234",
	}
	if row != want {
		t.Errorf("row = %+v, want %+v", row, want)
	}
	if !row.Structured() {
		t.Error("seven-field row should be structured")
	}
}

func TestParseBody_ShortTextLineKeptAsRaw(t *testing.T) {
	body := "com,example)/ 20260101120000 http://example.com/"

	rows := parseBody(types.OutputText, body)
	if len(rows) != 1 {
		t.Fatalf("parsed %d rows, want 1", len(rows))
	}
	if rows[0].Raw != body {
		t.Errorf("Raw = %q, want full line", rows[0].Raw)
	}
	if rows[0].Structured() {
		t.Errorf("short line must not populate structured fields: %+v", rows[0])
	}
}

func TestParseBody_EmptyAndBlankLines(t *testing.T) {
	if rows := parseBody(types.OutputJSON, ""); rows != nil {
		t.Errorf("empty body produced rows: %v", rows)
	}
	if rows := parseBody(types.OutputText, "\n\n  \n"); rows != nil {
		t.Errorf("blank body produced rows: %v", rows)
	}
}
