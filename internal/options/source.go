// Package options holds the input model shared by the jsonref command line
// and MCP server.
package options

import (
	"errors"

	"github.com/erraggy/jsonref"
	"github.com/erraggy/jsonref/loader"
)

// Source identifies where a document comes from.
// Exactly one of File, URL, or Content must be set.
type Source struct {
	File    string
	URL     string
	Content string
}

var (
	errNoInput       = errors.New("no input provided: set one of file, url, or content")
	errMultipleInput = errors.New("multiple inputs provided: set only one of file, url, or content")
)

// Validate checks that exactly one input is set.
func (s Source) Validate() error {
	set := 0
	for _, v := range []string{s.File, s.URL, s.Content} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return errNoInput
	case set > 1:
		return errMultipleInput
	}
	return nil
}

// Load reads the document and replaces its references.
// File and URL inputs become the base URI unless opts set one. Inline
// content may be JSON or YAML and has no base URI unless opts set one.
func (s Source) Load(opts ...jsonref.Option) (any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch {
	case s.File != "":
		return jsonref.LoadURI(s.File, opts...)
	case s.URL != "":
		return jsonref.LoadURI(s.URL, opts...)
	default:
		doc, err := loader.Decode([]byte(s.Content), loader.FormatUnknown)
		if err != nil {
			return nil, err
		}
		return jsonref.ReplaceRefs(doc, opts...)
	}
}

// Name returns a display name for the input.
func (s Source) Name() string {
	switch {
	case s.File != "":
		return s.File
	case s.URL != "":
		return s.URL
	case s.Content != "":
		return "<inline>"
	default:
		return ""
	}
}
