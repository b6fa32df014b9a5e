package jsonref

import (
	"errors"
	"fmt"
	"maps"

	"github.com/erraggy/jsonref/internal/pointer"
	"github.com/erraggy/jsonref/internal/uriutil"
	"github.com/erraggy/jsonref/referrors"
)

// Ref is a lazy proxy standing in for the value a JSON reference points to.
//
// A Ref is created for every mapping whose "$ref" member is a string. It
// resolves on first use, memoizes the referent, and forwards reads and
// writes to it. A Go type switch always reports *Ref, never the referent's
// type; use [Deref] or [Ref.Subject] to reach the referent.
//
// A Ref is not safe for concurrent use.
type Ref struct {
	reference map[string]any
	baseURI   string
	path      []any
	sess      *session

	resolved  bool
	resolving bool
	subject   any
}

// NewRef creates a standalone proxy for a reference object. The object's
// children are not walked. Relative references are resolved against the
// base URI given with WithBaseURI.
//
// Returns a referrors.KindInvalidReference error when "$ref" is missing or
// not a string.
func NewRef(refObj map[string]any, opts ...Option) (*Ref, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("jsonref: invalid options: %w", err)
	}
	if _, ok := refObj["$ref"].(string); !ok {
		return nil, &referrors.JSONRefError{
			Kind:      referrors.KindInvalidReference,
			Message:   fmt.Sprintf("not a valid json reference object: $ref must be a string, got %T", refObj["$ref"]),
			Reference: refObj,
			BaseURI:   cfg.baseURI,
		}
	}
	return &Ref{
		reference: refObj,
		baseURI:   uriutil.Defrag(cfg.baseURI),
		sess:      newSession(cfg),
	}, nil
}

// Reference returns the reference object this proxy was built from, without
// resolving it. Nested references inside its extra keys are proxies; use
// [Unwalk] for the original data.
func (r *Ref) Reference() map[string]any {
	return r.reference
}

// RefString returns the "$ref" value.
func (r *Ref) RefString() string {
	s, _ := r.reference["$ref"].(string)
	return s
}

// BaseURI returns the base URI the reference is resolved against.
func (r *Ref) BaseURI() string {
	return r.baseURI
}

// Path returns the chain of keys and indices from the document root to this
// reference site.
func (r *Ref) Path() []any {
	return append([]any(nil), r.path...)
}

// URI returns the absolute URI of the referent, including its fragment.
// If the reference cannot be resolved against the base URI, the raw "$ref"
// value is returned.
func (r *Ref) URI() string {
	ref := r.RefString()
	docURI, fragment, err := uriutil.Resolve(r.baseURI, ref)
	if err != nil {
		return ref
	}
	if _, _, hasFragment := uriutil.Split(ref); hasFragment {
		return uriutil.WithFragment(docURI, fragment)
	}
	return docURI
}

// Resolved reports whether the referent has been resolved and memoized.
func (r *Ref) Resolved() bool {
	return r.resolved
}

// Subject resolves the reference on first call and returns the referent.
// Later calls return the memoized value. Failures are not memoized: the next
// call tries again.
//
// A chain of references resolves to the final non-reference value. A
// reference that resolves to itself, or whose resolution needs its own
// referent, fails with an error matching referrors.ErrCircularReference.
func (r *Ref) Subject() (any, error) {
	if r.resolved {
		return r.subject, nil
	}
	if r.resolving {
		return nil, r.circular("Reference resolution depends on itself.")
	}

	r.resolving = true
	defer func() { r.resolving = false }()

	v, err := r.resolve()
	if err != nil {
		r.sess.logger.Debug("reference resolution failed", "ref", r.RefString(), "path", referrors.FormatPath(r.path), "error", err)
		return nil, err
	}
	r.subject, r.resolved = v, true
	r.sess.logger.Debug("resolved reference", "ref", r.RefString(), "path", referrors.FormatPath(r.path))
	return v, nil
}

func (r *Ref) resolve() (any, error) {
	ref, ok := r.reference["$ref"].(string)
	if !ok {
		return nil, r.fail(referrors.KindInvalidReference, "", nil,
			fmt.Sprintf("$ref must be a string, got %T", r.reference["$ref"]))
	}

	docURI, fragment, err := uriutil.Resolve(r.baseURI, ref)
	if err != nil {
		return nil, r.fail(referrors.KindInvalidReference, ref, err, "cannot resolve reference URI")
	}
	uri := docURI
	if _, _, hasFragment := uriutil.Split(ref); hasFragment {
		uri = uriutil.WithFragment(docURI, fragment)
	}

	tokens, err := pointer.Parse(fragment)
	if err != nil {
		return nil, r.fail(referrors.KindPointerResolution, uri, err,
			fmt.Sprintf("Unresolvable JSON pointer: %q", fragment))
	}

	doc, err := r.sess.document(docURI, r.path)
	if err != nil {
		return nil, r.attribute(err, uri)
	}

	result, err := r.evaluate(doc, tokens, fragment, uri)
	if err != nil {
		return nil, err
	}
	if result == any(r) {
		return nil, r.circular("Reference refers directly to itself.")
	}
	if inner, ok := result.(*Ref); ok {
		if result, err = inner.Subject(); err != nil {
			return nil, err
		}
	}

	if r.sess.mergeProps && len(r.reference) > 1 {
		if m, ok := result.(map[string]any); ok {
			merged := make(map[string]any, len(m)+len(r.reference)-1)
			maps.Copy(merged, m)
			for k, v := range r.reference {
				if k != "$ref" {
					merged[k] = v
				}
			}
			result = merged
		}
	}
	return result, nil
}

// evaluate walks tokens from doc. Meeting this proxy descends into its own
// reference object; meeting any other proxy forces it.
func (r *Ref) evaluate(doc any, tokens []string, fragment, uri string) (any, error) {
	cur := doc
	for _, tok := range tokens {
		if ref, ok := cur.(*Ref); ok {
			if ref == r {
				cur = r.reference
			} else {
				v, err := ref.Subject()
				if err != nil {
					return nil, err
				}
				cur = v
			}
		}

		var cause error
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[tok]
			if ok {
				cur = v
				continue
			}
			cause = fmt.Errorf("key %q not found", tok)
		case []any:
			idx, ok := pointer.Index(tok)
			if ok && idx < len(c) {
				cur = c[idx]
				continue
			}
			cause = fmt.Errorf("invalid index %q for sequence of length %d", tok, len(c))
		default:
			cause = fmt.Errorf("cannot descend into %T with token %q", cur, tok)
		}
		return nil, r.fail(referrors.KindPointerResolution, uri, cause,
			fmt.Sprintf("Unresolvable JSON pointer: %q", fragment))
	}
	return cur, nil
}

func (r *Ref) fail(kind referrors.Kind, uri string, cause error, msg string) error {
	return &referrors.JSONRefError{
		Kind:      kind,
		Message:   msg,
		Reference: r.reference,
		URI:       uri,
		BaseURI:   r.baseURI,
		Path:      r.path,
		Cause:     cause,
	}
}

func (r *Ref) circular(msg string) error {
	return &referrors.JSONRefError{
		Kind:      referrors.KindInvalidReference,
		Message:   msg,
		Reference: r.reference,
		URI:       r.URI(),
		BaseURI:   r.baseURI,
		Path:      r.path,
		Circular:  true,
	}
}

// attribute fills in the reference site on a loader error that has none.
func (r *Ref) attribute(err error, uri string) error {
	var refErr *referrors.JSONRefError
	if !errors.As(err, &refErr) || refErr.Reference != nil {
		return err
	}
	out := *refErr
	out.Reference = r.reference
	out.URI = uri
	out.BaseURI = r.baseURI
	out.Path = r.path
	return &out
}
