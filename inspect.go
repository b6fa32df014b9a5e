package jsonref

import (
	"sort"

	"github.com/erraggy/jsonref/referrors"
)

// RefSite describes one proxy found by Inspect.
type RefSite struct {
	// Path locates the proxy inside the document it was found in.
	Path []any
	// Ref is the raw "$ref" string.
	Ref string
	// URI is the absolute target, or the raw reference when there is no
	// base to resolve it against.
	URI string
	// Err is the resolution failure, if any.
	Err error
}

// Inspect resolves every proxy reachable from v and reports each one,
// including those that fail. Unlike WalkRefs it never stops early. Sites are
// ordered by path, then by reference string.
func Inspect(v any) []RefSite {
	var sites []RefSite
	_, _ = visitRefs(v, func(r *Ref) (any, error) {
		site := RefSite{Path: r.Path(), Ref: r.RefString(), URI: r.URI()}
		res, err := r.Subject()
		if err != nil {
			site.Err = err
			sites = append(sites, site)
			return nil, nil
		}
		sites = append(sites, site)
		return res, nil
	}, false, make(map[nodeID]any))

	sort.SliceStable(sites, func(i, j int) bool {
		pi, pj := referrors.FormatPath(sites[i].Path), referrors.FormatPath(sites[j].Path)
		if pi != pj {
			return pi < pj
		}
		return sites[i].Ref < sites[j].Ref
	})
	return sites
}
