// Package jsonref resolves JSON References ("$ref") in JSON-shaped documents
// by substituting lazy proxies that load and resolve their targets on first
// use.
//
// # Overview
//
// A JSON Reference is a mapping whose "$ref" member is a URI string, such as
// {"$ref": "#/definitions/Pet"} or {"$ref": "common.json#/Error"}. The
// fragment is an RFC 6901 JSON Pointer into the target document.
//
// [ReplaceRefs] copies a document and replaces every reference object with a
// [*Ref]. A Ref does nothing until it is used: the first call to
// [Ref.Subject] (or any forwarding method such as [Ref.Get] or
// [Ref.Float64]) resolves the URI against the reference's base URI, loads
// the target document if it is not cached yet, evaluates the pointer and
// memoizes the referent.
//
// # Installation
//
//	go get github.com/erraggy/jsonref
//
// # Quick Start
//
//	doc, err := jsonref.Loads(`{"a": 12345, "b": {"$ref": "#/a"}}`)
//	if err != nil {
//		log.Fatal(err)
//	}
//	b := doc.(map[string]any)["b"].(*jsonref.Ref)
//	n, _ := b.Float64()
//	fmt.Println(n + 1) // 12346
//
// Remote documents are loaded through a [loader.Registry]. By default local
// paths, file, http and https URIs are supported; JSON and YAML documents
// are decoded. Custom loaders are registered per scheme or as a full
// replacement:
//
//	doc, err := jsonref.ReplaceRefs(data,
//	    jsonref.WithBaseURI("mem:///schemas/root.json"),
//	    jsonref.WithSchemeLoader("mem", memLoader),
//	)
//
// # Cycles
//
// References may form cycles, including a reference to the document root.
// Cycles are represented by shared Go maps and slices; nothing expands them
// eagerly. [Expand], [Unwalk], [Equal], [WalkRefs] and [Ref.String] all
// terminate on cyclic data. A reference that resolves to itself fails with
// an error matching referrors.ErrCircularReference.
//
// # Serialization
//
// [Dumps] and [Dump] write every proxy as its original reference object, so
// a document round-trips through [Loads] and [Dumps] unchanged. [Ref]
// implements json.Marshaler and yaml.Marshaler the same way. Use [Expand]
// to produce fully dereferenced data instead.
//
// # Errors
//
// Resolution failures are [*referrors.JSONRefError] values that carry the
// reference object, the attempted URI, the base URI and the path from the
// document root to the reference site. Failures are not memoized; a failed
// proxy retries on its next use.
//
// # Concurrency
//
// Resolution runs synchronously on the caller's goroutine. Proxies and the
// document cache are not locked; callers sharing a resolved document between
// goroutines must serialize access to it.
//
// # Related Packages
//
//   - [github.com/erraggy/jsonref/loader] - Scheme loaders and the registry
//   - [github.com/erraggy/jsonref/referrors] - Structured resolution errors
package jsonref
