package loader

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/jsonref/referrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileLoaderJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pet.json", `{"definitions": {"Pet": {"type": "object"}}}`)

	doc, err := FileLoader(Config{})(path)
	require.NoError(t, err)

	m, ok := doc.(map[string]any)
	require.True(t, ok, "expected map[string]any, got %T", doc)
	assert.Contains(t, m, "definitions")
}

func TestFileLoaderYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pet.yaml", "definitions:\n  Pet:\n    type: object\n  Codes:\n    - 200\n    - 404\n")

	doc, err := FileLoader(Config{})(path)
	require.NoError(t, err)

	m := doc.(map[string]any)
	defs := m["definitions"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "object"}, defs["Pet"])
	assert.Len(t, defs["Codes"], 2)
}

func TestFileLoaderFileURI(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "with space.json", `[1, 2, 3]`)
	uri := "file://" + filepath.ToSlash(path)
	uri = strings.ReplaceAll(uri, " ", "%20")

	doc, err := Default(Config{}).Load(uri)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, doc)
}

func TestFileLoaderRoot(t *testing.T) {
	outside := t.TempDir()
	secret := writeFile(t, outside, "secret.json", `{"token": "s3cr3t"}`)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "defs"), 0o755))
	inside := writeFile(t, root, "defs/pet.json", `{"type": "object"}`)

	load := FileLoader(Config{Root: root})

	doc, err := load(inside)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "object"}, doc)

	tests := []struct {
		name string
		uri  string
	}{
		{"absolute path", secret},
		{"file uri", "file://" + filepath.ToSlash(secret)},
		{"parent traversal", root + "/../" + filepath.Base(outside) + "/secret.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.uri)
			assert.ErrorIs(t, err, ErrPathTraversal)
		})
	}

	_, err = Default(Config{Root: root}).Load(secret)
	assert.ErrorIs(t, err, ErrPathTraversal)
	assert.ErrorIs(t, err, referrors.ErrLoader)
}

func TestFileLoaderMissingFile(t *testing.T) {
	_, err := Default(Config{}).Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, referrors.ErrLoader)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileLoaderSizeLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.json", `{"padding": "`+strings.Repeat("x", 256)+`"}`)

	_, err := FileLoader(Config{MaxDocumentSize: 64})(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum size limit")
}

func TestFileLoaderInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{"a": `)

	_, err := FileLoader(Config{})(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode JSON")
}

func TestHTTPLoader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/schema.json":
			assert.Equal(t, "jsonref/test", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"definitions": {"Pet": {"type": "object"}}}`))
		case "/schema":
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte("definitions:\n  Pet:\n    type: object\n"))
		case "/latin1":
			w.Header().Set("Content-Type", "application/json; charset=iso-8859-1")
			_, _ = w.Write([]byte("{\"name\": \"caf\xe9\"}"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	reg := Default(Config{UserAgent: "jsonref/test"})

	t.Run("json", func(t *testing.T) {
		doc, err := reg.Load(server.URL + "/schema.json")
		require.NoError(t, err)
		defs := doc.(map[string]any)["definitions"].(map[string]any)
		assert.Equal(t, map[string]any{"type": "object"}, defs["Pet"])
	})

	t.Run("yaml by content type", func(t *testing.T) {
		doc, err := reg.Load(server.URL + "/schema")
		require.NoError(t, err)
		defs := doc.(map[string]any)["definitions"].(map[string]any)
		assert.Equal(t, map[string]any{"type": "object"}, defs["Pet"])
	})

	t.Run("charset transcoding", func(t *testing.T) {
		doc, err := reg.Load(server.URL + "/latin1")
		require.NoError(t, err)
		assert.Equal(t, "café", doc.(map[string]any)["name"])
	})

	t.Run("not found", func(t *testing.T) {
		_, err := reg.Load(server.URL + "/missing.json")
		require.Error(t, err)
		assert.ErrorIs(t, err, referrors.ErrLoader)
		assert.Contains(t, err.Error(), "HTTP 404")
	})
}

func TestHTTPLoaderCustomClient(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	doc, err := HTTPLoader(Config{HTTPClient: server.Client()})(server.URL)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, doc)
	assert.Equal(t, 1, hits)
}

func TestDefaultSchemes(t *testing.T) {
	assert.Equal(t, []string{"", "file", "http", "https"}, Default(Config{}).Schemes())
}
