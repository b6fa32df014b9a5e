package loader

import (
	"fmt"
	"maps"
	"slices"

	"github.com/erraggy/jsonref/internal/uriutil"
	"github.com/erraggy/jsonref/referrors"
)

// Func fetches and parses the document at an absolute URI.
// The engine passes the URI with its fragment stripped and never
// interprets the returned value beyond walking it for references.
type Func func(uri string) (any, error)

// Registry maps URI schemes to loader functions.
//
// A Registry is immutable once built: With and WithFallback return modified
// copies, so a registry can be shared between resolution passes without one
// pass observing another's overrides.
type Registry struct {
	handlers map[string]Func
	fallback Func
}

// NewRegistry creates a registry from a scheme to loader mapping.
// Scheme keys are matched case-sensitively against lower-cased URI schemes;
// the empty scheme handles plain paths such as "/specs/a.json".
// The map is copied.
func NewRegistry(handlers map[string]Func) *Registry {
	r := &Registry{handlers: make(map[string]Func, len(handlers))}
	for scheme, fn := range handlers {
		if fn != nil {
			r.handlers[scheme] = fn
		}
	}
	return r
}

// With returns a copy of the registry with fn registered for scheme.
// A nil fn removes the scheme.
func (r *Registry) With(scheme string, fn Func) *Registry {
	out := r.clone()
	if fn == nil {
		delete(out.handlers, scheme)
	} else {
		out.handlers[scheme] = fn
	}
	return out
}

// WithFallback returns a copy of the registry that dispatches URIs with an
// unregistered scheme to fn.
func (r *Registry) WithFallback(fn Func) *Registry {
	out := r.clone()
	out.fallback = fn
	return out
}

func (r *Registry) clone() *Registry {
	if r == nil {
		return &Registry{handlers: make(map[string]Func)}
	}
	return &Registry{handlers: maps.Clone(r.handlers), fallback: r.fallback}
}

// Lookup returns the loader for scheme, falling back to the catch-all
// loader if one is set.
func (r *Registry) Lookup(scheme string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	if fn, ok := r.handlers[scheme]; ok {
		return fn, true
	}
	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}

// Schemes returns the registered schemes in sorted order.
func (r *Registry) Schemes() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.handlers))
}

// Load dispatches uri to the loader registered for its scheme.
//
// It fails with a referrors.KindUnsupportedScheme error when no loader
// matches, and wraps any loader failure as referrors.KindLoader with the
// original error preserved as Cause.
func (r *Registry) Load(uri string) (any, error) {
	scheme := uriutil.Scheme(uri)
	fn, ok := r.Lookup(scheme)
	if !ok {
		return nil, &referrors.JSONRefError{
			Kind:    referrors.KindUnsupportedScheme,
			URI:     uri,
			Message: fmt.Sprintf("no loader registered for scheme %q", scheme),
		}
	}
	doc, err := fn(uri)
	if err != nil {
		return nil, &referrors.JSONRefError{
			Kind:    referrors.KindLoader,
			URI:     uri,
			Message: "failed to load document",
			Cause:   err,
		}
	}
	return doc, nil
}
