package jsonref

import (
	"fmt"
	"net/http"

	"github.com/erraggy/jsonref/loader"
)

// Option is a function that configures a resolution pass
type Option func(*config) error

// config holds configuration for one top-level call
type config struct {
	baseURI    string
	baseURISet bool

	// Loader selection. registry replaces the defaults outright, fullLoader
	// handles every scheme, schemeLoaders are layered on top of either.
	registry      *loader.Registry
	fullLoader    loader.Func
	schemeLoaders map[string]loader.Func

	jsonSchema bool
	mergeProps bool
	proxies    bool
	lazyLoad   bool
	loadOnRepr bool

	logger Logger

	// Default loader settings (ignored when registry or fullLoader is set)
	httpClient      *http.Client
	userAgent       string
	maxDocumentSize int64
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		proxies:    true,
		lazyLoad:   true,
		loadOnRepr: true,
		userAgent:  UserAgent(),
		logger:     NopLogger{},
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.logger == nil {
		cfg.logger = NopLogger{}
	}
	return cfg, nil
}

// buildRegistry assembles the loader registry for one call.
func (c *config) buildRegistry() *loader.Registry {
	var reg *loader.Registry
	switch {
	case c.registry != nil:
		reg = c.registry
	case c.fullLoader != nil:
		reg = loader.NewRegistry(nil).WithFallback(c.fullLoader)
	default:
		reg = loader.Default(loader.Config{
			HTTPClient:      c.httpClient,
			UserAgent:       c.userAgent,
			MaxDocumentSize: c.maxDocumentSize,
		})
	}
	for scheme, fn := range c.schemeLoaders {
		reg = reg.With(scheme, fn)
	}
	return reg
}

// WithBaseURI sets the URI that relative references in the root document
// are resolved against. The root document is cached under this URI, so
// references that point back at it are served without loading.
// Default: "" (for LoadURI, the loaded URI)
func WithBaseURI(uri string) Option {
	return func(cfg *config) error {
		cfg.baseURI = uri
		cfg.baseURISet = true
		return nil
	}
}

// WithLoader replaces every default loader with fn, which is then called
// for all referenced documents regardless of scheme.
func WithLoader(fn loader.Func) Option {
	return func(cfg *config) error {
		if fn == nil {
			return fmt.Errorf("jsonref: loader cannot be nil")
		}
		cfg.fullLoader = fn
		return nil
	}
}

// WithSchemeLoader registers fn for a single URI scheme on top of the
// default (or otherwise configured) loaders. Use "" for scheme-less paths.
//
// Example:
//
//	doc, err := jsonref.Loads(src, jsonref.WithSchemeLoader("mem",
//	    func(uri string) (any, error) { return store[uri], nil },
//	))
func WithSchemeLoader(scheme string, fn loader.Func) Option {
	return func(cfg *config) error {
		if fn == nil {
			return fmt.Errorf("jsonref: loader for scheme %q cannot be nil", scheme)
		}
		if cfg.schemeLoaders == nil {
			cfg.schemeLoaders = make(map[string]loader.Func)
		}
		cfg.schemeLoaders[scheme] = fn
		return nil
	}
}

// WithRegistry uses reg instead of the default loaders.
func WithRegistry(reg *loader.Registry) Option {
	return func(cfg *config) error {
		if reg == nil {
			return fmt.Errorf("jsonref: registry cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// WithJSONSchema enables JSON Schema identifier handling: a mapping with a
// string "$id" (or "id" when "$id" is absent) rebases its subtree and is
// cached under the resulting URI.
// Default: false
func WithJSONSchema(enabled bool) Option {
	return func(cfg *config) error {
		cfg.jsonSchema = enabled
		return nil
	}
}

// WithMergeProps overlays the extra keys of a reference object onto a
// mapping referent. The referent itself is never modified; the proxy's
// subject becomes a new merged mapping.
// Default: false
func WithMergeProps(enabled bool) Option {
	return func(cfg *config) error {
		cfg.mergeProps = enabled
		return nil
	}
}

// WithProxies controls whether references are left as lazy proxies.
// When disabled, every proxy is replaced in place by its referent after
// walking, so the result contains no *Ref values and no longer dumps back
// to its references.
// Default: true
func WithProxies(enabled bool) Option {
	return func(cfg *config) error {
		cfg.proxies = enabled
		return nil
	}
}

// WithLazyLoad controls whether proxies resolve on first use. When disabled,
// every proxy is resolved before the call returns and the first failure is
// returned from it.
// Default: true
func WithLazyLoad(enabled bool) Option {
	return func(cfg *config) error {
		cfg.lazyLoad = enabled
		return nil
	}
}

// WithLoadOnRepr controls whether String on an unresolved proxy resolves it
// to render the referent.
// Default: true
func WithLoadOnRepr(enabled bool) Option {
	return func(cfg *config) error {
		cfg.loadOnRepr = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output during resolution.
// By default, no logging is performed.
func WithLogger(l Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}

// WithHTTPClient sets the client used by the default http and https loaders.
// If the client is nil, a client with loader.DefaultHTTPTimeout is used.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) error {
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
// Default: "jsonref/vX.Y.Z"
func WithUserAgent(ua string) Option {
	return func(cfg *config) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithMaxDocumentSize caps the bytes the default loaders read per document.
// A value of 0 means use the default (10MB).
// Returns an error if size is negative.
func WithMaxDocumentSize(size int64) Option {
	return func(cfg *config) error {
		if size < 0 {
			return fmt.Errorf("jsonref: maxDocumentSize cannot be negative")
		}
		cfg.maxDocumentSize = size
		return nil
	}
}
