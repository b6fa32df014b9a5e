// Package loader provides the scheme-dispatched document loaders used to
// fetch documents referenced by JSON References.
//
// A [Registry] maps a URI scheme to a [Func] that fetches and parses the
// document at a URI. Registries are values: each resolution pass builds its
// own from [Default] plus caller overrides, so no process-wide state is
// shared between passes.
//
//	reg := loader.Default(loader.Config{UserAgent: jsonref.UserAgent()}).
//	    With("urn", func(uri string) (any, error) {
//	        return schemas[uri], nil
//	    })
//	doc, err := reg.Load("urn:example:pet")
//
// # Default Handlers
//
// Plain paths and file URIs are read from disk. http and https URIs are
// fetched with a 30 second client timeout and a 10MB size limit; response
// bodies in a non-UTF-8 charset are transcoded before decoding. Documents
// are decoded as JSON or YAML, chosen by file extension, then Content-Type,
// then content sniffing.
//
// # Errors
//
// [Registry.Load] returns a [referrors.JSONRefError] of kind
// [referrors.KindUnsupportedScheme] when no handler matches and of kind
// [referrors.KindLoader] when the handler fails.
package loader
