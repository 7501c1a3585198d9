package gke

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRESTClient(StaticCredentials("test-token"), WithEndpoint(server.URL))
}

func TestRESTClient_GetCluster(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects/p/locations/z/clusters/demo", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(&Cluster{
			Name:     "demo",
			Status:   StatusRunning,
			Endpoint: "10.0.0.1",
		})
	})

	cluster, err := client.GetCluster(context.Background(), &GetClusterRequest{
		Name: "projects/p/locations/z/clusters/demo",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, cluster.Status)
	assert.Equal(t, "10.0.0.1", cluster.Endpoint)
}

func TestRESTClient_CreateNodePool(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/p/locations/z/clusters/demo/nodePools", r.URL.Path)

		var body struct {
			NodePool *NodePool `json:"nodePool"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpu-pool", body.NodePool.Name)

		json.NewEncoder(w).Encode(&Operation{Name: "operation-1", Status: "RUNNING"})
	})

	op, err := client.CreateNodePool(context.Background(), &CreateNodePoolRequest{
		Parent:   "projects/p/locations/z/clusters/demo",
		NodePool: &NodePool{Name: "gpu-pool"},
	})
	require.NoError(t, err)
	assert.Equal(t, "operation-1", op.Name)
}

func TestRESTClient_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    404,
				"message": "cluster not found",
				"status":  "NOT_FOUND",
			},
		})
	})

	_, err := client.GetCluster(context.Background(), &GetClusterRequest{
		Name: "projects/p/locations/z/clusters/missing",
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "cluster not found")
}

func TestRESTClient_ErrorWithoutEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.GetCluster(context.Background(), &GetClusterRequest{
		Name: "projects/p/locations/z/clusters/demo",
	})
	require.Error(t, err)

	apiErr, ok := asAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
}

func TestRESTClient_ListClusters(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p/locations/z/clusters", r.URL.Path)
		json.NewEncoder(w).Encode(&ListClustersResponse{
			Clusters: []*Cluster{{Name: "a"}, {Name: "b"}},
		})
	})

	list, err := client.ListClusters(context.Background(), &ListClustersRequest{
		Parent: "projects/p/locations/z",
	})
	require.NoError(t, err)
	assert.Len(t, list.Clusters, 2)
}
