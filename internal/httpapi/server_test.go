package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/docsectiond/internal/httpapi"
	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.adoc"), []byte("= Title\n\nintro\n\n== Overview\n\nBody.\n"), 0o644))
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	require.NoError(t, ix.Refresh())

	s := httpapi.New(ix, query.New(ix))
	return httptest.NewServer(s.Handler())
}

func TestGetStructureEndpoint(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/structure")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
}

func TestGetSectionEndpointNotFound(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/section/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSectionEndpointFullContext(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/structure")
	require.NoError(t, err)
	var structure []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&structure))
	resp.Body.Close()
	require.NotEmpty(t, structure)
	sections := structure[0]["sections"].([]any)
	require.NotEmpty(t, sections)
	id := sections[0].(map[string]any)["id"].(string)

	resp2, err := http.Get(srv.URL + "/api/section/" + id + "?context=full")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	require.Contains(t, body, "full_content")
	require.Contains(t, body, "section_position")
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/validate")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, true, body["valid"])
}
