package jsonref

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

var (
	// ErrTypeMismatch indicates an operation does not apply to the referent's type.
	ErrTypeMismatch = errors.New("jsonref: operation not supported by referent type")

	// ErrNotFound indicates a missing key or an out-of-range index.
	ErrNotFound = errors.New("jsonref: no such key or index")
)

func (r *Ref) mapping() (map[string]any, error) {
	s, err := r.Subject()
	if err != nil {
		return nil, err
	}
	m, ok := s.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a mapping", ErrTypeMismatch, s)
	}
	return m, nil
}

func (r *Ref) sequence() ([]any, error) {
	s, err := r.Subject()
	if err != nil {
		return nil, err
	}
	seq, ok := s.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a sequence", ErrTypeMismatch, s)
	}
	return seq, nil
}

// Get returns the value stored under key in a mapping referent.
func (r *Ref) Get(key string) (any, error) {
	m, err := r.mapping()
	if err != nil {
		return nil, err
	}
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	return v, nil
}

// Index returns element i of a sequence referent.
func (r *Ref) Index(i int) (any, error) {
	seq, err := r.sequence()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(seq) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrNotFound, i, len(seq))
	}
	return seq[i], nil
}

// Set stores v under key in a mapping referent. The referent is shared with
// every other proxy and container that points at it.
func (r *Ref) Set(key string, v any) error {
	m, err := r.mapping()
	if err != nil {
		return err
	}
	m[key] = v
	return nil
}

// SetIndex replaces element i of a sequence referent.
func (r *Ref) SetIndex(i int, v any) error {
	seq, err := r.sequence()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(seq) {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ErrNotFound, i, len(seq))
	}
	seq[i] = v
	return nil
}

// Delete removes key from a mapping referent.
func (r *Ref) Delete(key string) error {
	m, err := r.mapping()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	delete(m, key)
	return nil
}

// Append appends values to a sequence referent and returns the grown
// sequence. The proxy's subject becomes the grown sequence; containers that
// hold the original slice keep seeing its old length.
func (r *Ref) Append(values ...any) ([]any, error) {
	seq, err := r.sequence()
	if err != nil {
		return nil, err
	}
	seq = append(seq, values...)
	r.subject = seq
	return seq, nil
}

// Len returns the length of a mapping, sequence or string referent.
func (r *Ref) Len() (int, error) {
	s, err := r.Subject()
	if err != nil {
		return 0, err
	}
	switch t := s.(type) {
	case map[string]any:
		return len(t), nil
	case []any:
		return len(t), nil
	case string:
		return len(t), nil
	}
	return 0, fmt.Errorf("%w: %T has no length", ErrTypeMismatch, s)
}

// Keys returns the sorted keys of a mapping referent.
func (r *Ref) Keys() ([]string, error) {
	m, err := r.mapping()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(m)), nil
}

// Range calls fn for each entry of a mapping referent (in key order, with
// string keys) or sequence referent (with int keys) until fn returns false.
func (r *Ref) Range(fn func(key, value any) bool) error {
	s, err := r.Subject()
	if err != nil {
		return err
	}
	switch t := s.(type) {
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if !fn(k, t[k]) {
				return nil
			}
		}
	case []any:
		for i, v := range t {
			if !fn(i, v) {
				return nil
			}
		}
	default:
		return fmt.Errorf("%w: %T is not iterable", ErrTypeMismatch, s)
	}
	return nil
}

// Equal reports whether the referent equals other, looking through proxies
// on both sides. See the package-level [Equal].
func (r *Ref) Equal(other any) (bool, error) {
	return Equal(r, other)
}

// Compare orders the referent against other. Numbers compare numerically and
// strings lexically; any other combination is a type mismatch.
func (r *Ref) Compare(other any) (int, error) {
	return Compare(r, other)
}

// Float64 returns a numeric referent as float64.
func (r *Ref) Float64() (float64, error) {
	s, err := r.Subject()
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(s)
	if !ok {
		return 0, fmt.Errorf("%w: %T is not a number", ErrTypeMismatch, s)
	}
	return f, nil
}

// Int64 returns an integral numeric referent as int64.
func (r *Ref) Int64() (int64, error) {
	f, err := r.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrTypeMismatch, f)
	}
	return int64(f), nil
}

// Str returns a string referent.
func (r *Ref) Str() (string, error) {
	s, err := r.Subject()
	if err != nil {
		return "", err
	}
	str, ok := s.(string)
	if !ok {
		return "", fmt.Errorf("%w: %T is not a string", ErrTypeMismatch, s)
	}
	return str, nil
}

// Truthy reports the truth value of the referent: null, false, zero, and
// empty strings, mappings and sequences are false.
func (r *Ref) Truthy() (bool, error) {
	s, err := r.Subject()
	if err != nil {
		return false, err
	}
	return truthy(s), nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}

// Deref returns the referent of v if v is a *Ref, and v otherwise.
func Deref(v any) (any, error) {
	if r, ok := v.(*Ref); ok {
		return r.Subject()
	}
	return v, nil
}

// Compare orders a against b after dereferencing both. Numbers compare
// numerically and strings lexically.
func Compare(a, b any) (int, error) {
	a, err := Deref(a)
	if err != nil {
		return 0, err
	}
	b, err = Deref(b)
	if err != nil {
		return 0, err
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb), nil
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return cmp.Compare(sa, sb), nil
		}
	}
	return 0, fmt.Errorf("%w: cannot order %T and %T", ErrTypeMismatch, a, b)
}

// toFloat converts Go and JSON-decoder numeric types to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case interface{ Float64() (float64, error) }:
		// json.Number from either encoding/json or goccy/go-json
		if _, isRef := v.(*Ref); isRef {
			return 0, false
		}
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
