// Package manifest supplies rendered workload manifests. A manifest comes
// either from a local file or from a GitHub repository's raw content, and
// may reference values through Helm-style {{ .Values.key }} placeholders
// which are rendered before the manifest is handed to the workload client.
package manifest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"
)

// rawContentBase is where repository-hosted manifests are fetched from.
// Overridable in tests.
var rawContentBase = "https://raw.githubusercontent.com"

var fetchClient = &http.Client{Timeout: 30 * time.Second}

// Source identifies where a manifest comes from. With Repo unset, Path is
// a local file. With Repo set, Path is fetched from that repository's raw
// content; when Branch is empty both "main" and "master" are tried.
type Source struct {
	Path   string
	Repo   string
	Branch string
}

// valuesRef matches {{ .Values.key }} references in a template so missing
// values can be reported up front instead of rendering silently empty.
var valuesRef = regexp.MustCompile(`\{\{[-\s]*\.Values\.([A-Za-z0-9_]+)`)

// Render fetches the manifest and substitutes its value references. Every
// referenced key must be present in values.
func Render(ctx context.Context, src Source, values map[string]any) ([]byte, error) {
	content, err := fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	refs := valuesRef.FindAllStringSubmatch(string(content), -1)
	if len(refs) == 0 {
		return content, nil
	}
	for _, ref := range refs {
		if _, ok := values[ref[1]]; !ok {
			return nil, fmt.Errorf("no value provided for wildcard %s", ref[1])
		}
	}

	ch := &chart.Chart{
		Metadata: &chart.Metadata{
			Name:       "manifest",
			Version:    "0.1.0",
			APIVersion: chart.APIVersionV2,
		},
		Templates: []*chart.File{
			{Name: "templates/manifest.yaml", Data: content},
		},
	}

	renderValues, err := chartutil.ToRenderValues(ch, values, chartutil.ReleaseOptions{Name: "manifest"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare render values: %w", err)
	}

	rendered, err := engine.Render(ch, renderValues)
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}
	return []byte(rendered["manifest/templates/manifest.yaml"]), nil
}

// LoadValues reads a values YAML file and overlays explicit overrides on
// top of it. Overrides win over file entries.
func LoadValues(file string, overrides map[string]any) (map[string]any, error) {
	values := make(map[string]any)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read values file: %w", err)
		}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("failed to parse values file: %w", err)
		}
	}
	for k, v := range overrides {
		values[k] = v
	}
	return values, nil
}

func fetch(ctx context.Context, src Source) ([]byte, error) {
	if src.Repo == "" {
		content, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", src.Path, err)
		}
		return content, nil
	}

	branches := []string{"main", "master"}
	if src.Branch != "" {
		branches = []string{src.Branch}
	}

	var lastErr error
	for _, branch := range branches {
		url := fmt.Sprintf("%s/%s/%s/%s", rawContentBase, src.Repo, branch, src.Path)
		content, err := fetchURL(ctx, url)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("couldn't find %s in repo %s (tried branches %s): %w",
		src.Path, src.Repo, strings.Join(branches, ", "), lastErr)
}

func fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
