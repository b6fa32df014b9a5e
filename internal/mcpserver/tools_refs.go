package mcpserver

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/jsonref"
	"github.com/erraggy/jsonref/internal/uriutil"
	"github.com/erraggy/jsonref/referrors"
)

type refsInput struct {
	Doc        docInput       `json:"doc"                   jsonschema:"The document to inspect"`
	Options    resolveOptions `json:"options,omitempty"     jsonschema:"Resolution settings"`
	Target     string         `json:"target,omitempty"      jsonschema:"Filter by $ref value (supports * and ? glob, e.g. *definitions/Pet or other.json*)"`
	FailedOnly bool           `json:"failed_only,omitempty" jsonschema:"Only include references that fail to resolve"`
	Detail     bool           `json:"detail,omitempty"      jsonschema:"Return individual reference sites instead of aggregated counts"`
	GroupBy    string         `json:"group_by,omitempty"    jsonschema:"Group results and return counts instead of individual items. Values: document, status"`
	Limit      int            `json:"limit,omitempty"       jsonschema:"Maximum number of results to return (default 100; 25 in detail mode)"`
	Offset     int            `json:"offset,omitempty"      jsonschema:"Skip the first N results (for pagination)"`
}

type refSummary struct {
	Ref    string `json:"ref"`
	Count  int    `json:"count"`
	Failed bool   `json:"failed,omitempty"`
}

type refDetail struct {
	Ref   string `json:"ref"`
	URI   string `json:"uri"`
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

// refsOutput holds results from refs. In summary mode, Total and Matched
// count unique $ref values. In detail and group_by modes, they count
// individual sites. Failed always counts failing sites.
type refsOutput struct {
	Total     int          `json:"total"`
	Matched   int          `json:"matched"`
	Failed    int          `json:"failed"`
	Returned  int          `json:"returned"`
	Summaries []refSummary `json:"refs,omitempty"`
	Details   []refDetail  `json:"details,omitempty"`
	Groups    []groupCount `json:"groups,omitempty"`
}

func handleRefs(_ context.Context, _ *mcp.CallToolRequest, input refsInput) (*mcp.CallToolResult, any, error) {
	// Validate glob pattern before loading anything.
	if err := validateGlobPattern(input.Target); err != nil {
		return errResult(err), nil, nil
	}

	if err := validateGroupBy(input.GroupBy, input.Detail, []string{"document", "status"}); err != nil {
		return errResult(err), nil, nil
	}

	doc, err := input.Doc.load(input.Options)
	if err != nil {
		return errResult(err), nil, nil
	}

	allSites := jsonref.Inspect(doc)
	filtered := filterSites(allSites, input)
	failed := 0
	for _, site := range allSites {
		if site.Err != nil {
			failed++
		}
	}

	// group_by: aggregate by target document or status and return counts.
	if input.GroupBy != "" {
		keyFn := siteDocument
		if strings.EqualFold(input.GroupBy, "status") {
			keyFn = siteStatus
		}
		groups := groupAndSort(filtered, keyFn)
		paged := paginate(groups, input.Offset, input.Limit)
		output := refsOutput{
			Total:    len(allSites),
			Matched:  len(filtered),
			Failed:   failed,
			Returned: len(paged),
			Groups:   paged,
		}
		return nil, output, nil
	}

	if input.Detail {
		// Detail mode: return individual sites.
		paged := paginate(filtered, input.Offset, detailLimit(input.Limit))
		output := refsOutput{
			Total:    len(allSites),
			Matched:  len(filtered),
			Failed:   failed,
			Returned: len(paged),
		}
		for _, site := range paged {
			d := refDetail{
				Ref:  site.Ref,
				URI:  site.URI,
				Path: referrors.FormatPath(site.Path),
			}
			if site.Err != nil {
				d.Error = sanitizeError(site.Err)
			}
			output.Details = append(output.Details, d)
		}
		return nil, output, nil
	}

	// Summary mode: aggregate by $ref value, sort by count desc.
	counts := make(map[string]int)
	broken := make(map[string]bool)
	for _, site := range filtered {
		counts[site.Ref]++
		if site.Err != nil {
			broken[site.Ref] = true
		}
	}

	summaries := make([]refSummary, 0, len(counts))
	for ref, count := range counts {
		summaries = append(summaries, refSummary{Ref: ref, Count: count, Failed: broken[ref]})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Count != summaries[j].Count {
			return summaries[i].Count > summaries[j].Count
		}
		return summaries[i].Ref < summaries[j].Ref
	})

	paged := paginate(summaries, input.Offset, input.Limit)
	output := refsOutput{
		Total:     countUniqueRefs(allSites),
		Matched:   countUniqueRefs(filtered),
		Failed:    failed,
		Returned:  len(paged),
		Summaries: paged,
	}
	return nil, output, nil
}

// filterSites applies target and failed_only filters to sites.
func filterSites(sites []jsonref.RefSite, input refsInput) []jsonref.RefSite {
	if input.Target == "" && !input.FailedOnly {
		return sites
	}
	var filtered []jsonref.RefSite
	for _, site := range sites {
		if input.Target != "" && !matchRefGlob(site.Ref, input.Target) {
			continue
		}
		if input.FailedOnly && site.Err == nil {
			continue
		}
		filtered = append(filtered, site)
	}
	return filtered
}

// siteDocument returns the target document of a site, without fragment.
// Local references have no document URI and group under "(local)".
func siteDocument(site jsonref.RefSite) string {
	if doc := uriutil.Defrag(site.URI); doc != "" {
		return doc
	}
	return "(local)"
}

func siteStatus(site jsonref.RefSite) string {
	if site.Err != nil {
		return "failed"
	}
	return "ok"
}

// countUniqueRefs returns the number of distinct $ref values.
func countUniqueRefs(sites []jsonref.RefSite) int {
	seen := make(map[string]struct{}, len(sites))
	for _, site := range sites {
		seen[site.Ref] = struct{}{}
	}
	return len(seen)
}

// matchRefGlob matches a $ref value against a glob pattern. * and ? match
// across / separators in references like "#/definitions/Pet". It does this
// by replacing / with a non-separator character before calling filepath.Match.
func matchRefGlob(ref, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.EqualFold(ref, pattern)
	}
	// Replace / with : so filepath.Match's * can cross path boundaries.
	normalizedRef := strings.ReplaceAll(strings.ToLower(ref), "/", ":")
	normalizedPattern := strings.ReplaceAll(strings.ToLower(pattern), "/", ":")
	matched, err := filepath.Match(normalizedPattern, normalizedRef)
	return err == nil && matched
}
