package cdx

import (
	"strings"
	"testing"
)

func TestCollections_WellFormed(t *testing.T) {
	if len(Collections) == 0 {
		t.Fatal("catalog is empty")
	}
	seen := make(map[string]struct{})
	for _, c := range Collections {
		if !strings.HasPrefix(c.Name, "CC-MAIN-") {
			t.Errorf("collection name %q lacks CC-MAIN prefix", c.Name)
		}
		if !strings.HasPrefix(c.Endpoint, "https://") {
			t.Errorf("collection %s endpoint %q not https", c.Name, c.Endpoint)
		}
		if !strings.Contains(c.Endpoint, c.Name) {
			t.Errorf("collection %s endpoint %q does not embed its name", c.Name, c.Endpoint)
		}
		if _, dup := seen[c.Name]; dup {
			t.Errorf("duplicate collection %s", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
}

func TestResolveIndex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"known collection", "CC-MAIN-2026-04", "https://index.commoncrawl.org/CC-MAIN-2026-04-index", false},
		{"case insensitive", "cc-main-2026-04", "https://index.commoncrawl.org/CC-MAIN-2026-04-index", false},
		{"pass-through URL", "https://cdx.example.org/my-index", "https://cdx.example.org/my-index", false},
		{"pass-through http URL", "http://localhost:8080/cdx", "http://localhost:8080/cdx", false},
		{"unknown name", "CC-MAIN-1999-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveIndex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveIndex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveIndex(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultCollection_IsNewest(t *testing.T) {
	if DefaultCollection().Name != Collections[0].Name {
		t.Errorf("default collection %s is not the first catalog entry", DefaultCollection().Name)
	}
}
