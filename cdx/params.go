package cdx

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pithecene-io/cdxq/types"
)

// buildParams constructs the CDX query string for one target URL.
//
// Always present: url, matchType, limit, output. Conditional: from, to, fl.
// The status and MIME filters collapse into a single comma-joined filter
// parameter of exact-match clauses.
func buildParams(cfg *types.QueryConfig, target string) url.Values {
	params := url.Values{}
	params.Set("url", target)
	params.Set("matchType", string(cfg.Match))
	params.Set("limit", strconv.Itoa(cfg.Limit))
	params.Set("output", string(cfg.Output))

	if cfg.From != "" {
		params.Set("from", cfg.From)
	}
	if cfg.To != "" {
		params.Set("to", cfg.To)
	}
	if cfg.Fields != "" {
		params.Set("fl", cfg.Fields)
	}

	var clauses []string
	if cfg.FilterStatus != "" {
		clauses = append(clauses, "=status:"+cfg.FilterStatus)
	}
	if cfg.FilterMime != "" {
		clauses = append(clauses, "=mime:"+cfg.FilterMime)
	}
	if len(clauses) > 0 {
		params.Set("filter", strings.Join(clauses, ","))
	}

	return params
}
