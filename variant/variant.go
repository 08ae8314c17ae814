// Package variant generates alternate forms of a URL used to recover from
// index normalization mismatches: scheme prefix, www. toggle, http/https
// toggle, and root trailing-slash toggle.
//
// Generation is pure and deterministic: no I/O, no network, same output for
// the same input. Callers own ordering decisions beyond the guarantee that
// the input itself is always first.
package variant

import (
	"net/url"
	"strings"
)

// Generate produces a deduplicated, ordered list of plausible alternate
// forms of rawURL. The first element is always rawURL itself; later
// duplicates are dropped, keeping the first occurrence.
func Generate(rawURL string) []string {
	out := newDedup()
	out.add(rawURL)

	// Bare hosts get both scheme prefixes, and the http form becomes the
	// base for structural toggles.
	base := rawURL
	if !hasScheme(rawURL) {
		base = "http://" + rawURL
		out.add(base)
		out.add("https://" + rawURL)
	}

	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" {
		// Unparseable input: only the scheme-prefix variants apply.
		return out.list
	}

	out.add(toggleWWW(parsed).String())
	out.add(toggleScheme(parsed).String())
	out.add(toggleRootSlash(parsed).String())

	return out.list
}

func hasScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// toggleWWW strips a leading www. from the host if present, else prepends it.
func toggleWWW(u *url.URL) *url.URL {
	v := *u
	if strings.HasPrefix(v.Host, "www.") {
		v.Host = strings.TrimPrefix(v.Host, "www.")
	} else {
		v.Host = "www." + v.Host
	}
	return &v
}

// toggleScheme swaps http and https.
func toggleScheme(u *url.URL) *url.URL {
	v := *u
	if v.Scheme == "https" {
		v.Scheme = "http"
	} else {
		v.Scheme = "https"
	}
	return &v
}

// toggleRootSlash appends a trailing slash to an empty path or strips the
// slash from a bare root path. Deeper paths are left alone: the index
// normalizes those consistently.
func toggleRootSlash(u *url.URL) *url.URL {
	v := *u
	switch v.Path {
	case "":
		v.Path = "/"
	case "/":
		v.Path = ""
	}
	return &v
}

// dedup keeps insertion order while dropping repeats.
type dedup struct {
	seen map[string]struct{}
	list []string
}

func newDedup() *dedup {
	return &dedup{seen: make(map[string]struct{})}
}

func (d *dedup) add(s string) {
	if _, ok := d.seen[s]; ok {
		return
	}
	d.seen[s] = struct{}{}
	d.list = append(d.list, s)
}
