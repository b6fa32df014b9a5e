package jsonref

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/erraggy/jsonref/internal/pointer"
	"github.com/erraggy/jsonref/referrors"
)

// Equal reports whether a and b hold equal JSON data, looking through
// proxies at every level. Numbers compare by value regardless of Go type.
// Cyclic structures are compared without looping: a pair of containers
// already under comparison is assumed equal.
func Equal(a, b any) (bool, error) {
	return equal(a, b, make(map[[2]nodeID]bool))
}

func equal(a, b any, seen map[[2]nodeID]bool) (bool, error) {
	if ia, ok := identity(a); ok {
		if ib, ok := identity(b); ok && ia == ib {
			return true, nil
		}
	}

	a, err := Deref(a)
	if err != nil {
		return false, err
	}
	b, err = Deref(b)
	if err != nil {
		return false, err
	}

	if ia, ok := identity(a); ok {
		if ib, ok := identity(b); ok {
			key := [2]nodeID{ia, ib}
			if seen[key] {
				return true, nil
			}
			seen[key] = true
		}
	}

	switch ta := a.(type) {
	case map[string]any:
		tb, ok := b.(map[string]any)
		if !ok || len(ta) != len(tb) {
			return false, nil
		}
		for k, va := range ta {
			vb, ok := tb[k]
			if !ok {
				return false, nil
			}
			if eq, err := equal(va, vb, seen); err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false, nil
		}
		for i := range ta {
			if eq, err := equal(ta[i], tb[i], seen); err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case string:
		tb, ok := b.(string)
		return ok && ta == tb, nil
	case bool:
		tb, ok := b.(bool)
		return ok && ta == tb, nil
	case nil:
		return b == nil, nil
	}

	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb, nil
	}
	return reflect.DeepEqual(a, b), nil
}

// nodeID identifies a container or proxy while traversing possibly cyclic
// data. Slices sharing a backing array differ by length.
type nodeID struct {
	ptr uintptr
	len int
}

// identity returns the nodeID of containers and proxies.
func identity(v any) (nodeID, bool) {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return nodeID{}, false
		}
		return nodeID{ptr: reflect.ValueOf(t).Pointer()}, true
	case []any:
		if len(t) == 0 {
			return nodeID{}, false
		}
		return nodeID{ptr: reflect.ValueOf(t).Pointer(), len: len(t)}, true
	case *Ref:
		return nodeID{ptr: reflect.ValueOf(t).Pointer()}, true
	}
	return nodeID{}, false
}

// Lookup evaluates a JSON pointer against v, forcing any proxy met on the
// way. A leading "#" is accepted. The empty pointer returns v dereferenced.
//
// Example:
//
//	name, err := jsonref.Lookup(doc, "/definitions/Pet/properties/name")
func Lookup(v any, ptr string) (any, error) {
	ptr = strings.TrimPrefix(ptr, "#")
	tokens, err := pointer.Parse(ptr)
	if err != nil {
		return nil, &referrors.JSONRefError{
			Kind:    referrors.KindPointerResolution,
			Message: fmt.Sprintf("Unresolvable JSON pointer: %q", ptr),
			Cause:   err,
		}
	}

	cur, err := Deref(v)
	if err != nil {
		return nil, err
	}
	for i, tok := range tokens {
		var next any
		found := false
		switch c := cur.(type) {
		case map[string]any:
			next, found = c[tok]
		case []any:
			if idx, ok := pointer.Index(tok); ok && idx < len(c) {
				next, found = c[idx], true
			}
		}
		if !found {
			return nil, &referrors.JSONRefError{
				Kind:    referrors.KindPointerResolution,
				Message: fmt.Sprintf("Unresolvable JSON pointer: %q", ptr),
				Cause:   fmt.Errorf("token %q not found under %q", tok, pointer.Format(tokens[:i])),
			}
		}
		if cur, err = Deref(next); err != nil {
			return nil, err
		}
	}
	return cur, nil
}
