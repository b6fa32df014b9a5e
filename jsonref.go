package jsonref

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ReplaceRefs returns a copy of doc in which every mapping whose "$ref"
// member is a string has been replaced by a lazy [*Ref] proxy.
//
// doc is JSON-shaped data: map[string]any, []any and scalars, as produced by
// a JSON or YAML decoder. Containers are copied; scalars are shared. The
// copy is cached under the base URI so references back into the document
// resolve without loading it again.
//
// With WithProxies(false) every proxy is replaced in place by its referent
// before returning. With WithLazyLoad(false) every proxy is resolved before
// returning. In both cases the first resolution failure is returned.
func ReplaceRefs(doc any, opts ...Option) (any, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("jsonref: invalid options: %w", err)
	}
	return replaceRefs(doc, cfg)
}

func replaceRefs(doc any, cfg *config) (any, error) {
	sess := newSession(cfg)
	sess.logger.Debug("replacing references", "base_uri", cfg.baseURI)
	result := sess.walk(doc, cfg.baseURI, nil, false)

	switch {
	case !cfg.proxies:
		out, err := visitRefs(result, func(r *Ref) (any, error) { return r.Subject() }, true, make(map[nodeID]any))
		if err != nil {
			return nil, err
		}
		return out, nil
	case !cfg.lazyLoad:
		if _, err := visitRefs(result, func(r *Ref) (any, error) { return r.Subject() }, false, make(map[nodeID]any)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Load decodes a JSON document from r and replaces its references.
func Load(r io.Reader, opts ...Option) (any, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("jsonref: failed to decode JSON: %w", err)
	}
	return ReplaceRefs(doc, opts...)
}

// Loads decodes a JSON document from s and replaces its references.
//
// Example:
//
//	doc, err := jsonref.Loads(`{"a": 1, "b": {"$ref": "#/a"}}`)
func Loads(s string, opts ...Option) (any, error) {
	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, fmt.Errorf("jsonref: failed to decode JSON: %w", err)
	}
	return ReplaceRefs(doc, opts...)
}

// LoadURI loads the document at uri through the configured loaders and
// replaces its references. The base URI defaults to uri.
//
// Example:
//
//	doc, err := jsonref.LoadURI("https://example.com/schemas/pet.json")
func LoadURI(uri string, opts ...Option) (any, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("jsonref: invalid options: %w", err)
	}
	doc, err := cfg.buildRegistry().Load(uri)
	if err != nil {
		return nil, err
	}
	if !cfg.baseURISet {
		cfg.baseURI = uri
	}
	return replaceRefs(doc, cfg)
}

// WalkRefs calls fn for every proxy reachable from v, following into the
// referent of each proxy after fn returns. Every container and proxy is
// visited once, so cyclic data terminates. The first error from fn or from
// resolving a proxy stops the walk.
func WalkRefs(v any, fn func(*Ref) error) error {
	_, err := visitRefs(v, func(r *Ref) (any, error) {
		if err := fn(r); err != nil {
			return nil, err
		}
		return r.Subject()
	}, false, make(map[nodeID]any))
	return err
}

// visitRefs traverses v calling fn on each proxy. The traversal continues
// into fn's result. With replace, each proxy is substituted in its parent
// container by fn's result.
func visitRefs(v any, fn func(*Ref) (any, error), replace bool, processed map[nodeID]any) (any, error) {
	id, tracked := identity(v)
	if tracked {
		if out, ok := processed[id]; ok {
			return out, nil
		}
	}

	if r, ok := v.(*Ref); ok {
		res, err := fn(r)
		if err != nil {
			return nil, err
		}
		out := any(r)
		if replace {
			out = res
		}
		processed[id] = out
		if _, err := visitRefs(res, fn, replace, processed); err != nil {
			return nil, err
		}
		return out, nil
	}
	if tracked {
		processed[id] = v
	}

	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			out, err := visitRefs(child, fn, replace, processed)
			if err != nil {
				return nil, err
			}
			if replace {
				t[k] = out
			}
		}
	case []any:
		for i, child := range t {
			out, err := visitRefs(child, fn, replace, processed)
			if err != nil {
				return nil, err
			}
			if replace {
				t[i] = out
			}
		}
	}
	return v, nil
}

// IsReference reports whether v is a mapping with a string "$ref" member.
func IsReference(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m["$ref"].(string)
	return ok
}
