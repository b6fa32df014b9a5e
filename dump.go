package jsonref

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/erraggy/jsonref/referrors"
)

// DumpOption configures Dump and Dumps.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	prefix string
	indent string
}

// WithIndent pretty-prints output, as json.MarshalIndent does.
func WithIndent(prefix, indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.prefix = prefix
		cfg.indent = indent
	}
}

// Dumps serializes v as JSON with every proxy written as its original
// reference object. Referents are never resolved.
func Dumps(v any, opts ...DumpOption) (string, error) {
	data, err := dump(v, opts)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Dump writes the serialization produced by Dumps to w.
func Dump(v any, w io.Writer, opts ...DumpOption) error {
	data, err := dump(v, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func dump(v any, opts []DumpOption) ([]byte, error) {
	var cfg dumpConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	plain, err := Unwalk(v)
	if err != nil {
		return nil, err
	}
	var data []byte
	if cfg.prefix != "" || cfg.indent != "" {
		data, err = json.MarshalIndent(plain, cfg.prefix, cfg.indent)
	} else {
		data, err = json.Marshal(plain)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonref: failed to encode JSON: %w", err)
	}
	return data, nil
}

// Unwalk returns a copy of v with every proxy replaced by its unwalked
// reference object, reversing ReplaceRefs. Referents are never resolved.
//
// Data made cyclic by WithProxies(false) cannot be unwalked; Unwalk fails
// with an error matching referrors.ErrCircularReference.
func Unwalk(v any) (any, error) {
	return unwalk(v, make(map[nodeID]bool))
}

func unwalk(v any, active map[nodeID]bool) (any, error) {
	if r, ok := v.(*Ref); ok {
		return unwalk(r.reference, active)
	}

	id, tracked := identity(v)
	if tracked {
		if active[id] {
			return nil, &referrors.JSONRefError{
				Kind:     referrors.KindInvalidReference,
				Message:  "cannot serialize cyclic data",
				Circular: true,
			}
		}
		active[id] = true
		defer delete(active, id)
	}

	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			c, err := unwalk(child, active)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			c, err := unwalk(child, active)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}
	return v, nil
}

// Expand returns a copy of v with every proxy replaced by its expanded
// referent, producing plain data with no *Ref values.
//
// Where expansion would re-enter a proxy that is already being expanded, or
// a container that encloses the proxy, the proxy's reference object is
// emitted instead. Recursive schemas therefore expand to a finite tree with
// the recursive "$ref" left in place.
func Expand(v any) (any, error) {
	e := &expander{
		refs:       make(map[*Ref]bool),
		containers: make(map[nodeID]bool),
	}
	return e.expand(v)
}

type expander struct {
	refs       map[*Ref]bool
	containers map[nodeID]bool
}

func (e *expander) expand(v any) (any, error) {
	if r, ok := v.(*Ref); ok {
		if e.refs[r] {
			return Unwalk(r.reference)
		}
		s, err := r.Subject()
		if err != nil {
			return nil, err
		}
		if id, ok := identity(s); ok && e.containers[id] {
			return Unwalk(r.reference)
		}
		e.refs[r] = true
		defer delete(e.refs, r)
		return e.expand(s)
	}

	id, tracked := identity(v)
	if tracked {
		if e.containers[id] {
			return nil, &referrors.JSONRefError{
				Kind:     referrors.KindInvalidReference,
				Message:  "cannot expand cyclic data",
				Circular: true,
			}
		}
		e.containers[id] = true
		defer delete(e.containers, id)
	}

	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			c, err := e.expand(child)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			c, err := e.expand(child)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}
	return v, nil
}

// MarshalJSON encodes the proxy as its original reference object.
func (r *Ref) MarshalJSON() ([]byte, error) {
	plain, err := Unwalk(r.reference)
	if err != nil {
		return nil, err
	}
	return json.Marshal(plain)
}

// MarshalYAML encodes the proxy as its original reference object.
func (r *Ref) MarshalYAML() (any, error) {
	return Unwalk(r.reference)
}
