package mcpserver

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/erraggy/jsonref"
	"github.com/erraggy/jsonref/internal/options"
	"github.com/erraggy/jsonref/internal/uriutil"
	"github.com/erraggy/jsonref/loader"
)

// docInput represents the three ways a document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type docInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a JSON or YAML document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a JSON or YAML document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`
}

// resolveOptions are the resolution settings shared by every tool.
type resolveOptions struct {
	BaseURI    string `json:"base_uri,omitempty"    jsonschema:"Base URI for relative references. Defaults to the file path or URL. Required for relative references in inline content."`
	MergeProps bool   `json:"merge_props,omitempty" jsonschema:"Merge extra members of reference objects into their referents"`
	JSONSchema bool   `json:"jsonschema,omitempty"  jsonschema:"Honor JSON Schema $id/id members when resolving"`
}

func (o resolveOptions) options(reg *loader.Registry) []jsonref.Option {
	opts := []jsonref.Option{
		jsonref.WithMergeProps(o.MergeProps),
		jsonref.WithJSONSchema(o.JSONSchema),
		jsonref.WithRegistry(reg),
		jsonref.WithLogger(serverLogger),
	}
	if o.BaseURI != "" {
		opts = append(opts, jsonref.WithBaseURI(o.BaseURI))
	}
	return opts
}

// load reads the document from whichever input was provided and replaces
// its references. Every call works on a fresh copy; proxies are never
// shared between tool calls.
func (d docInput) load(ro resolveOptions) (any, error) {
	src := options.Source{File: d.File, URL: d.URL, Content: d.Content}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	// Enforce inline content size limit.
	if d.Content != "" && int64(len(d.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set JSONREF_MAX_INLINE_SIZE to increase",
			len(d.Content), cfg.MaxInlineSize)
	}

	return src.Load(ro.options(d.registry(ro))...)
}

// registry builds the loaders for one tool call. Local files are reachable
// only from file input, confined to that file's directory, or from inline
// content whose base URI is a local path, confined to its directory.
// Documents fetched by URL can never reach the local filesystem.
func (d docInput) registry(ro resolveOptions) *loader.Registry {
	lc := loader.Config{
		HTTPClient:      newHTTPClient(),
		UserAgent:       jsonref.UserAgent(),
		MaxDocumentSize: cfg.MaxDocumentSize,
	}
	switch {
	case d.File != "":
		lc.Root = filepath.Dir(d.File)
	case d.Content != "" && localDir(ro.BaseURI) != "":
		lc.Root = localDir(ro.BaseURI)
	default:
		return loader.Default(lc).With("", nil).With("file", nil)
	}
	return loader.Default(lc)
}

// localDir returns the directory of a local path or file URI, or "" when
// base is empty or names a remote document.
func localDir(base string) string {
	doc := uriutil.Defrag(base)
	if doc == "" {
		return ""
	}
	switch uriutil.Scheme(doc) {
	case "":
		return filepath.Dir(filepath.FromSlash(doc))
	case "file":
		u, err := url.Parse(doc)
		if err != nil || u.Path == "" {
			return ""
		}
		return filepath.Dir(filepath.FromSlash(u.Path))
	}
	return ""
}
