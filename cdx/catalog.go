package cdx

import (
	"fmt"
	"strings"
)

// Collection is one Common Crawl monthly index.
type Collection struct {
	// Name is the collection identifier, e.g. "CC-MAIN-2026-04".
	Name string `json:"name"`
	// Period is the human-readable crawl month.
	Period string `json:"period"`
	// Endpoint is the CDX index base URL for this collection.
	Endpoint string `json:"endpoint"`
}

// Collections lists the known Common Crawl monthly indexes, newest first.
// Each index covers one month of crawl data.
var Collections = []Collection{
	{"CC-MAIN-2026-04", "Jan 2026", "https://index.commoncrawl.org/CC-MAIN-2026-04-index"},
	{"CC-MAIN-2025-43", "Oct 2025", "https://index.commoncrawl.org/CC-MAIN-2025-43-index"},
	{"CC-MAIN-2025-38", "Sep 2025", "https://index.commoncrawl.org/CC-MAIN-2025-38-index"},
	{"CC-MAIN-2025-33", "Aug 2025", "https://index.commoncrawl.org/CC-MAIN-2025-33-index"},
	{"CC-MAIN-2025-30", "Jul 2025", "https://index.commoncrawl.org/CC-MAIN-2025-30-index"},
	{"CC-MAIN-2025-26", "Jun 2025", "https://index.commoncrawl.org/CC-MAIN-2025-26-index"},
	{"CC-MAIN-2025-21", "May 2025", "https://index.commoncrawl.org/CC-MAIN-2025-21-index"},
	{"CC-MAIN-2025-18", "Apr 2025", "https://index.commoncrawl.org/CC-MAIN-2025-18-index"},
	{"CC-MAIN-2025-13", "Mar 2025", "https://index.commoncrawl.org/CC-MAIN-2025-13-index"},
	{"CC-MAIN-2025-08", "Feb 2025", "https://index.commoncrawl.org/CC-MAIN-2025-08-index"},
	{"CC-MAIN-2025-05", "Jan 2025", "https://index.commoncrawl.org/CC-MAIN-2025-05-index"},
	{"CC-MAIN-2024-51", "Dec 2024", "https://index.commoncrawl.org/CC-MAIN-2024-51-index"},
	{"CC-MAIN-2024-46", "Nov 2024", "https://index.commoncrawl.org/CC-MAIN-2024-46-index"},
	{"CC-MAIN-2024-42", "Oct 2024", "https://index.commoncrawl.org/CC-MAIN-2024-42-index"},
	{"CC-MAIN-2024-38", "Sep 2024", "https://index.commoncrawl.org/CC-MAIN-2024-38-index"},
	{"CC-MAIN-2024-33", "Aug 2024", "https://index.commoncrawl.org/CC-MAIN-2024-33-index"},
	{"CC-MAIN-2024-30", "Jul 2024", "https://index.commoncrawl.org/CC-MAIN-2024-30-index"},
	{"CC-MAIN-2024-26", "Jun 2024", "https://index.commoncrawl.org/CC-MAIN-2024-26-index"},
	{"CC-MAIN-2024-22", "May 2024", "https://index.commoncrawl.org/CC-MAIN-2024-22-index"},
	{"CC-MAIN-2024-18", "Apr 2024", "https://index.commoncrawl.org/CC-MAIN-2024-18-index"},
}

// DefaultCollection returns the newest known collection.
func DefaultCollection() Collection {
	return Collections[0]
}

// ResolveIndex maps a collection name to its endpoint URL. A full http(s)
// URL passes through untouched, so any CDX-compatible server can be used.
func ResolveIndex(nameOrURL string) (string, error) {
	if strings.HasPrefix(nameOrURL, "http://") || strings.HasPrefix(nameOrURL, "https://") {
		return nameOrURL, nil
	}
	for _, c := range Collections {
		if strings.EqualFold(c.Name, nameOrURL) {
			return c.Endpoint, nil
		}
	}
	return "", fmt.Errorf("unknown index %q (use a CC-MAIN collection name or a full CDX server URL)", nameOrURL)
}
