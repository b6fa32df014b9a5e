// Package uriutil resolves reference URIs against base URIs.
package uriutil

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrNoBaseURI is returned when a relative reference is resolved without a
// base URI to resolve it against.
var ErrNoBaseURI = errors.New("relative reference requires a base URI")

// Split separates a URI into its non-fragment part and its fragment.
// hasFragment reports whether a "#" was present at all.
func Split(uri string) (doc, fragment string, hasFragment bool) {
	doc, fragment, hasFragment = strings.Cut(uri, "#")
	return doc, fragment, hasFragment
}

// Defrag returns uri with any fragment removed.
func Defrag(uri string) string {
	doc, _, _ := Split(uri)
	return doc
}

// Resolve combines base and ref into the absolute URI of the target document
// (fragment stripped) and the fragment of ref.
//
// A ref with an empty non-fragment part targets the base document itself.
// An absolute ref ignores base. Scheme-less relative bases (plain file paths)
// are joined path-wise so that relative paths stay relative.
func Resolve(base, ref string) (docURI, fragment string, err error) {
	base = Defrag(base)
	refDoc, fragment, _ := Split(ref)
	if refDoc == "" {
		return Normalize(base), fragment, nil
	}

	r, err := url.Parse(refDoc)
	if err != nil {
		return "", "", fmt.Errorf("invalid reference URI %q: %w", ref, err)
	}
	if r.IsAbs() {
		return Normalize(r.String()), fragment, nil
	}
	if base == "" {
		return "", "", ErrNoBaseURI
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", "", fmt.Errorf("invalid base URI %q: %w", base, err)
	}
	if b.Scheme == "" && b.Host == "" && !strings.HasPrefix(b.Path, "/") {
		// Relative base path: join against its directory without anchoring
		// the result at "/".
		if strings.HasPrefix(r.Path, "/") {
			return Normalize(r.String()), fragment, nil
		}
		joined := path.Join(path.Dir(b.Path), r.Path)
		if r.Path == "" {
			joined = b.Path
		}
		u := &url.URL{Path: joined, RawQuery: r.RawQuery}
		return Normalize(u.String()), fragment, nil
	}
	return Normalize(b.ResolveReference(r).String()), fragment, nil
}

// Normalize returns the canonical form of uri used as a cache key.
// The scheme and host are lower-cased, and local paths (no scheme, or the
// file scheme) are cleaned so "./a/x.json" and "a/x.json" share a key.
// Unparsable input is returned unchanged.
func Normalize(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "" || u.Scheme == "file") && u.Path != "" {
		u.Path = path.Clean(u.Path)
		u.RawPath = ""
	}
	return u.String()
}

// Scheme returns the lower-cased scheme of uri, or "" for scheme-less
// references such as plain file paths.
func Scheme(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// WithFragment joins a document URI and a fragment for display.
func WithFragment(docURI, fragment string) string {
	return docURI + "#" + fragment
}
