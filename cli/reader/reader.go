// Package reader loads newline-delimited URL lists for batch queries.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineBytes bounds a single input line. URL lists are hand-maintained
// text files; anything past this is a wrong file, not a long URL.
const maxLineBytes = 64 * 1024

// ReadURLs parses a newline-delimited URL list from r.
//
// Each line is trimmed of surrounding whitespace. Blank lines and lines
// starting with '#' are skipped. Order is preserved and duplicates are kept;
// the batch layer reports distinct counts separately.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading URL list: %w", err)
	}

	return urls, nil
}

// ReadFile loads a URL list from path. The path "-" reads standard input.
func ReadFile(path string) ([]string, error) {
	if path == "-" {
		return ReadURLs(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("url file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot open url file %q: %w", path, err)
	}
	defer f.Close()

	urls, err := ReadURLs(f)
	if err != nil {
		return nil, fmt.Errorf("url file %q: %w", path, err)
	}
	return urls, nil
}
