package mcpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/jsonref"
	"github.com/erraggy/jsonref/loader"
)

func writeTestDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestDocInput_LoadContent(t *testing.T) {
	doc, err := docInput{Content: "a: 1\nb:\n  $ref: '#/a'\n"}.load(resolveOptions{})
	require.NoError(t, err)
	v, err := jsonref.Lookup(doc, "/b")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestDocInput_LoadFile(t *testing.T) {
	dir := writeTestDocs(t, map[string]string{
		"main.json":  `{"x": {"$ref": "other.json#/v"}}`,
		"other.json": `{"v": "remote"}`,
	})
	doc, err := docInput{File: filepath.Join(dir, "main.json")}.load(resolveOptions{})
	require.NoError(t, err)
	v, err := jsonref.Lookup(doc, "/x")
	require.NoError(t, err)
	assert.Equal(t, "remote", v)
}

func TestDocInput_LoadContentWithBaseURI(t *testing.T) {
	dir := writeTestDocs(t, map[string]string{"other.json": `{"v": 2}`})
	ro := resolveOptions{BaseURI: "file://" + filepath.ToSlash(dir) + "/main.json"}
	doc, err := docInput{Content: `{"x": {"$ref": "other.json#/v"}}`}.load(ro)
	require.NoError(t, err)
	v, err := jsonref.Lookup(doc, "/x")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestDocInput_NoneProvided(t *testing.T) {
	_, err := docInput{}.load(resolveOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input provided")
}

func TestDocInput_MultipleProvided(t *testing.T) {
	_, err := docInput{File: "foo.yaml", Content: "bar"}.load(resolveOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple inputs provided")
}

func TestDocInput_InlineSizeLimit(t *testing.T) {
	saved := *cfg
	t.Cleanup(func() { *cfg = saved })
	cfg.MaxInlineSize = 10

	_, err := docInput{Content: `{"a": "` + strings.Repeat("x", 20) + `"}`}.load(resolveOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSONREF_MAX_INLINE_SIZE")
}

func TestDocInput_FileNotFound(t *testing.T) {
	_, err := docInput{File: "/nonexistent/path.yaml"}.load(resolveOptions{})
	assert.Error(t, err)
}

// serveDoc serves body as JSON at /doc.json and lets the loader reach the
// local test server.
func serveDoc(t *testing.T, body string) *httptest.Server {
	t.Helper()
	saved := *cfg
	t.Cleanup(func() { *cfg = saved })
	cfg.AllowPrivateIPs = true

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/doc.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDocInput_URLCannotReadLocalFiles(t *testing.T) {
	dir := writeTestDocs(t, map[string]string{"secret.json": `{"token": "s3cr3t"}`})
	secret := filepath.ToSlash(filepath.Join(dir, "secret.json"))

	for _, ref := range []string{"file://" + secret, secret} {
		t.Run(ref, func(t *testing.T) {
			srv := serveDoc(t, `{"leak": {"$ref": "`+ref+`"}}`)
			doc, err := docInput{URL: srv.URL + "/doc.json"}.load(resolveOptions{})
			require.NoError(t, err)

			_, err = jsonref.Expand(doc)
			require.Error(t, err)
			assert.NotContains(t, err.Error(), "s3cr3t")
		})
	}
}

func TestDocInput_FileRefsConfinedToInputDirectory(t *testing.T) {
	outside := writeTestDocs(t, map[string]string{"secret.json": `{"token": "s3cr3t"}`})
	dir := writeTestDocs(t, map[string]string{
		"main.json":     `{"ok": {"$ref": "defs/pet.json"}, "leak": {"$ref": "file://` + filepath.ToSlash(filepath.Join(outside, "secret.json")) + `"}}`,
		"defs/pet.json": `{"type": "object"}`,
	})

	doc, err := docInput{File: filepath.Join(dir, "main.json")}.load(resolveOptions{})
	require.NoError(t, err)

	v, err := jsonref.Lookup(doc, "/ok")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "object"}, v)

	_, err = jsonref.Lookup(doc, "/leak")
	assert.True(t, errors.Is(err, loader.ErrPathTraversal), "got %v", err)
}

func TestDocInput_InlineContentWithoutLocalBase(t *testing.T) {
	dir := writeTestDocs(t, map[string]string{"secret.json": `{"token": "s3cr3t"}`})
	content := `{"leak": {"$ref": "file://` + filepath.ToSlash(filepath.Join(dir, "secret.json")) + `"}}`

	doc, err := docInput{Content: content}.load(resolveOptions{})
	require.NoError(t, err)
	_, err = jsonref.Lookup(doc, "/leak")
	assert.Error(t, err)

	doc, err = docInput{Content: content}.load(resolveOptions{BaseURI: "https://example.com/api.json"})
	require.NoError(t, err)
	_, err = jsonref.Lookup(doc, "/leak")
	assert.Error(t, err)
}

func TestLocalDir(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"", ""},
		{"https://example.com/api/root.json", ""},
		{"file:///srv/specs/root.json#/a", filepath.FromSlash("/srv/specs")},
		{"/srv/specs/root.json", filepath.FromSlash("/srv/specs")},
		{"specs/root.json", "specs"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.want, localDir(tt.base))
		})
	}
}
