package loader

import (
	"bytes"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
	"golang.org/x/text/encoding/htmlindex"
)

// Format is the serialization format of a loaded document.
type Format string

const (
	// FormatJSON indicates a JSON document
	FormatJSON Format = "json"
	// FormatYAML indicates a YAML document
	FormatYAML Format = "yaml"
	// FormatUnknown indicates the format could not be determined
	FormatUnknown Format = "unknown"
)

// DetectFormatFromPath detects the format from a file extension.
func DetectFormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent guesses the format from the content bytes.
// JSON documents start with '{' or '['; anything else is treated as YAML.
func DetectFormatFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// detectFormatFromURL tries the URL path extension first, then the
// Content-Type media type.
func detectFormatFromURL(rawURL, contentType string) Format {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		if f := DetectFormatFromPath(u.Path); f != FormatUnknown {
			return f
		}
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return FormatUnknown
	}
	switch mediaType {
	case "application/json", "application/schema+json", "application/openapi+json":
		return FormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml", "application/openapi+yaml":
		return FormatYAML
	}
	if strings.HasSuffix(mediaType, "+json") {
		return FormatJSON
	}
	return FormatUnknown
}

// Decode parses data in the given format into a generic document tree of
// map[string]any, []any and scalars. FormatUnknown sniffs the content.
func Decode(data []byte, format Format) (any, error) {
	if format == FormatUnknown {
		format = DetectFormatFromContent(data)
	}
	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("loader: failed to decode JSON: %w", err)
		}
		return doc, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("loader: failed to decode YAML: %w", err)
		}
		return normalizeYAML(doc), nil
	default:
		return nil, fmt.Errorf("loader: empty document")
	}
}

// normalizeYAML converts mappings with non-string keys into map[string]any
// so that every mapping in the tree can be addressed by JSON pointer tokens.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeYAML(child)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, child := range t {
			m[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return m
	case []any:
		for i, child := range t {
			t[i] = normalizeYAML(child)
		}
		return t
	default:
		return v
	}
}

// decodeCharset transcodes data to UTF-8 according to the charset parameter
// of contentType. Missing or UTF-8 charsets return data unchanged.
func decodeCharset(data []byte, contentType string) ([]byte, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return data, nil
	}
	charset := strings.ToLower(strings.TrimSpace(params["charset"]))
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return data, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("loader: unsupported charset %q: %w", charset, err)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to decode %s content: %w", charset, err)
	}
	return out, nil
}
