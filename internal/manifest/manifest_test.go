package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRender_PlainManifestPassesThrough(t *testing.T) {
	t.Parallel()

	content := "apiVersion: v1\nkind: Service\nmetadata:\n  name: web\n"
	path := writeTempManifest(t, content)

	rendered, err := Render(context.Background(), Source{Path: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, content, string(rendered))
}

func TestRender_SubstitutesValues(t *testing.T) {
	t.Parallel()

	path := writeTempManifest(t, "metadata:\n  name: {{ .Values.name }}\nspec:\n  replicas: {{ .Values.replicas }}\n")

	rendered, err := Render(context.Background(), Source{Path: path}, map[string]any{
		"name":     "web",
		"replicas": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "metadata:\n  name: web\nspec:\n  replicas: 3\n", string(rendered))
}

func TestRender_MissingValueFails(t *testing.T) {
	t.Parallel()

	path := writeTempManifest(t, "metadata:\n  name: {{ .Values.name }}\n")

	_, err := Render(context.Background(), Source{Path: path}, map[string]any{"replicas": 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no value provided for wildcard name")
}

func TestRender_MissingLocalFile(t *testing.T) {
	t.Parallel()

	_, err := Render(context.Background(), Source{Path: filepath.Join(t.TempDir(), "absent.yaml")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}

func TestFetch_RepositoryBranchFallback(t *testing.T) {
	// Mutates the package fetch base, so no t.Parallel.

	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		if r.URL.Path == "/acme/charts/master/deploy.yaml" {
			w.Write([]byte("kind: Deployment\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	orig := rawContentBase
	rawContentBase = server.URL
	defer func() { rawContentBase = orig }()

	content, err := fetch(context.Background(), Source{Repo: "acme/charts", Path: "deploy.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "kind: Deployment\n", string(content))
	assert.Equal(t, []string{
		"/acme/charts/main/deploy.yaml",
		"/acme/charts/master/deploy.yaml",
	}, requested, "main is tried before falling back to master")
}

func TestFetch_ExplicitBranchOnly(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		http.NotFound(w, r)
	}))
	defer server.Close()

	orig := rawContentBase
	rawContentBase = server.URL
	defer func() { rawContentBase = orig }()

	_, err := fetch(context.Background(), Source{Repo: "acme/charts", Path: "deploy.yaml", Branch: "v2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tried branches v2")
	assert.Equal(t, []string{"/acme/charts/v2/deploy.yaml"}, requested)
}

func TestLoadValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: web\nreplicas: 2\n"), 0o644))

	values, err := LoadValues(path, map[string]any{"replicas": 5})
	require.NoError(t, err)
	assert.Equal(t, "web", values["name"])
	assert.Equal(t, 5, values["replicas"], "overrides win over file entries")
}

func TestLoadValues_NoFileOnlyOverrides(t *testing.T) {
	t.Parallel()

	values, err := LoadValues("", map[string]any{"name": "web"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "web"}, values)
}

func TestLoadValues_BadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))

	_, err := LoadValues(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse values file")
}
