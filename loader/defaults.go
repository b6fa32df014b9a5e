package loader

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultMaxDocumentSize is the maximum size (in bytes) of a document
	// fetched by the default loaders. 10MB is ample for schema documents.
	DefaultMaxDocumentSize = 10 * 1024 * 1024

	// DefaultHTTPTimeout bounds a single HTTP fetch by the default client.
	DefaultHTTPTimeout = 30 * time.Second
)

// ErrPathTraversal is returned by FileLoader when a path lies outside
// Config.Root.
var ErrPathTraversal = errors.New("path traversal detected")

// Config configures the default scheme handlers.
type Config struct {
	// HTTPClient is used for http and https URIs.
	// If nil, a client with DefaultHTTPTimeout is created.
	HTTPClient *http.Client
	// UserAgent is sent with HTTP requests. Empty sends no override.
	UserAgent string
	// MaxDocumentSize caps the bytes read per document.
	// Zero means DefaultMaxDocumentSize.
	MaxDocumentSize int64
	// Root, when set, confines FileLoader to files under this directory.
	Root string
}

func (c Config) maxSize() int64 {
	if c.MaxDocumentSize > 0 {
		return c.MaxDocumentSize
	}
	return DefaultMaxDocumentSize
}

// Default creates a registry with the default scheme handlers: local paths
// and file URIs are read from disk, http and https URIs are fetched.
// Documents are decoded as JSON or YAML.
func Default(cfg Config) *Registry {
	file := FileLoader(cfg)
	web := HTTPLoader(cfg)
	return NewRegistry(map[string]Func{
		"":      file,
		"file":  file,
		"http":  web,
		"https": web,
	})
}

// FileLoader returns a loader for local paths and file URIs.
func FileLoader(cfg Config) Func {
	limit := cfg.maxSize()
	return func(uri string) (any, error) {
		path := uri
		if u, err := url.Parse(uri); err == nil && u.Path != "" {
			path = u.Path
		}
		if cfg.Root != "" {
			if err := checkWithinRoot(cfg.Root, path); err != nil {
				return nil, err
			}
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("loader: failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()

		data, err := readLimited(f, limit)
		if err != nil {
			return nil, fmt.Errorf("loader: failed to read %s: %w", path, err)
		}
		return Decode(data, DetectFormatFromPath(path))
	}
}

// checkWithinRoot rejects path unless it resolves inside root.
func checkWithinRoot(root, path string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("loader: failed to resolve root directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("loader: failed to resolve file path: %w", err)
	}
	// filepath.Rel fails for paths on different volumes.
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("loader: %s is outside %s: %w", path, root, ErrPathTraversal)
	}
	return nil
}

// HTTPLoader returns a loader for http and https URIs.
// Non-200 responses are failures. Bodies are transcoded to UTF-8 from the
// Content-Type charset before decoding.
func HTTPLoader(cfg Config) Func {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	limit := cfg.maxSize()
	return func(uri string) (any, error) {
		req, err := http.NewRequest(http.MethodGet, uri, nil)
		if err != nil {
			return nil, fmt.Errorf("loader: failed to create request: %w", err)
		}
		if cfg.UserAgent != "" {
			req.Header.Set("User-Agent", cfg.UserAgent)
		}
		req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

		resp, err := client.Do(req) //nolint:gosec // G107 - URI comes from a $ref the caller chose to resolve
		if err != nil {
			return nil, fmt.Errorf("loader: failed to fetch URL: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("loader: HTTP %d: %s", resp.StatusCode, resp.Status)
		}

		data, err := readLimited(resp.Body, limit)
		if err != nil {
			return nil, fmt.Errorf("loader: failed to read response body: %w", err)
		}
		contentType := resp.Header.Get("Content-Type")
		data, err = decodeCharset(data, contentType)
		if err != nil {
			return nil, err
		}
		return Decode(data, detectFormatFromURL(uri, contentType))
	}
}

// readLimited reads r fully, failing once more than limit bytes are seen.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("document exceeds maximum size limit (%d bytes)", limit)
	}
	return data, nil
}
