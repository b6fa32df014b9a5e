package jsonref

import (
	"errors"

	"github.com/erraggy/jsonref/internal/uriutil"
	"github.com/erraggy/jsonref/loader"
)

// session is the state shared by every proxy created during one top-level
// call, including proxies found inside documents loaded later.
type session struct {
	registry *loader.Registry
	store    *documentStore
	logger   Logger

	jsonSchema bool
	mergeProps bool
	loadOnRepr bool
}

func newSession(cfg *config) *session {
	return &session{
		registry:   cfg.buildRegistry(),
		store:      newDocumentStore(),
		logger:     cfg.logger,
		jsonSchema: cfg.jsonSchema,
		mergeProps: cfg.mergeProps,
		loadOnRepr: cfg.loadOnRepr,
	}
}

// documentStore caches walked documents by normalized URI.
// Entries are never replaced or evicted.
type documentStore struct {
	docs map[string]any
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]any)}
}

func (s *documentStore) get(uri string) (any, bool) {
	doc, ok := s.docs[uriutil.Normalize(uri)]
	return doc, ok
}

// put stores doc under uri unless an entry already exists.
func (s *documentStore) put(uri string, doc any) {
	key := uriutil.Normalize(uri)
	if _, ok := s.docs[key]; !ok {
		s.docs[key] = doc
	}
}

func (s *documentStore) len() int {
	return len(s.docs)
}

// document returns the walked document at uri, loading and walking it on a
// cache miss. Proxies inside a loaded document report paths extending path.
func (s *session) document(uri string, path []any) (any, error) {
	if doc, ok := s.store.get(uri); ok {
		s.logger.Debug("document cache hit", "uri", uri)
		return doc, nil
	}

	s.logger.Debug("loading document", "uri", uri)
	raw, err := s.registry.Load(uri)
	if err != nil {
		return nil, err
	}
	doc := s.walk(raw, uri, path, false)
	s.store.put(uri, doc)
	s.logger.Debug("loaded document", "uri", uri, "cached_documents", s.store.len())
	return doc, nil
}

// walk copies v, replacing every mapping whose "$ref" is a string with a
// proxy. Children are walked before their parent so a proxy's reference
// object holds walked values. A top-level walk caches its result under
// baseURI when baseURI carries no fragment.
func (s *session) walk(v any, baseURI string, path []any, recursing bool) any {
	base, fragment, _ := uriutil.Split(baseURI)
	storeURI, store := base, !recursing && fragment == ""

	if s.jsonSchema {
		if m, ok := v.(map[string]any); ok {
			if id := schemaID(m); id != "" {
				base = rebase(base, id)
				storeURI, store = base, true
			}
		}
	}

	var result any
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = s.walk(child, base, appendPath(path, k), true)
		}
		if _, ok := out["$ref"].(string); ok {
			result = &Ref{reference: out, baseURI: base, path: path, sess: s}
		} else {
			result = out
		}
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = s.walk(child, base, appendPath(path, i), true)
		}
		result = out
	default:
		result = v
	}

	if store {
		s.store.put(storeURI, result)
	}
	return result
}

// schemaID returns the JSON Schema identifier of m: "$id", or "id" when
// "$id" is absent or empty.
func schemaID(m map[string]any) string {
	if id, ok := m["$id"].(string); ok && id != "" {
		return id
	}
	if id, ok := m["id"].(string); ok {
		return id
	}
	return ""
}

// rebase resolves a schema identifier against the current base, dropping
// any fragment. An identifier that cannot be joined replaces the base.
func rebase(base, id string) string {
	docURI, _, err := uriutil.Resolve(base, id)
	if err != nil {
		if errors.Is(err, uriutil.ErrNoBaseURI) {
			return uriutil.Defrag(id)
		}
		return base
	}
	return docURI
}

// appendPath returns a new path with elem appended; path is never aliased.
func appendPath(path []any, elem any) []any {
	out := make([]any, len(path)+1)
	copy(out, path)
	out[len(path)] = elem
	return out
}
