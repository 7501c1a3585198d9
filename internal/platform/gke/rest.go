package gke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEndpoint = "https://container.googleapis.com/v1"

// RESTClient implements API against the GKE v1 JSON endpoints.
type RESTClient struct {
	endpoint    string
	credentials *Credentials
	client      *http.Client
}

// RESTOption configures a RESTClient.
type RESTOption func(*RESTClient)

// WithEndpoint overrides the API endpoint, mainly for tests.
func WithEndpoint(endpoint string) RESTOption {
	return func(c *RESTClient) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) RESTOption {
	return func(c *RESTClient) { c.client = client }
}

// NewRESTClient builds a client that authenticates every request with the
// given credentials.
func NewRESTClient(credentials *Credentials, opts ...RESTOption) *RESTClient {
	c := &RESTClient{
		endpoint:    defaultEndpoint,
		credentials: credentials,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one request and decodes the JSON response into out. Responses
// outside the 2xx range are converted into *APIError so callers can classify
// them by code.
func (c *RESTClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+"/"+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.credentials != nil {
		req.Header.Set("Authorization", "Bearer "+c.credentials.Token())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to control plane failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeAPIError reads a google.rpc error envelope, falling back to the
// bare HTTP status when the body is not in the expected shape.
func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error APIError `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Code != 0 {
		return &envelope.Error
	}
	return &APIError{Code: resp.StatusCode, Message: string(bytes.TrimSpace(data))}
}

func (c *RESTClient) CreateCluster(ctx context.Context, req *CreateClusterRequest) (*Operation, error) {
	var op Operation
	body := struct {
		Cluster *Cluster `json:"cluster"`
	}{req.Cluster}
	if err := c.do(ctx, http.MethodPost, req.Parent+"/clusters", body, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (c *RESTClient) GetCluster(ctx context.Context, req *GetClusterRequest) (*Cluster, error) {
	var cluster Cluster
	if err := c.do(ctx, http.MethodGet, req.Name, nil, &cluster); err != nil {
		return nil, err
	}
	return &cluster, nil
}

func (c *RESTClient) DeleteCluster(ctx context.Context, req *DeleteClusterRequest) (*Operation, error) {
	var op Operation
	if err := c.do(ctx, http.MethodDelete, req.Name, nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (c *RESTClient) ListClusters(ctx context.Context, req *ListClustersRequest) (*ListClustersResponse, error) {
	var list ListClustersResponse
	if err := c.do(ctx, http.MethodGet, req.Parent+"/clusters", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *RESTClient) CreateNodePool(ctx context.Context, req *CreateNodePoolRequest) (*Operation, error) {
	var op Operation
	body := struct {
		NodePool *NodePool `json:"nodePool"`
	}{req.NodePool}
	if err := c.do(ctx, http.MethodPost, req.Parent+"/nodePools", body, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (c *RESTClient) GetNodePool(ctx context.Context, req *GetNodePoolRequest) (*NodePool, error) {
	var pool NodePool
	if err := c.do(ctx, http.MethodGet, req.Name, nil, &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}

func (c *RESTClient) DeleteNodePool(ctx context.Context, req *DeleteNodePoolRequest) (*Operation, error) {
	var op Operation
	if err := c.do(ctx, http.MethodDelete, req.Name, nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (c *RESTClient) ListNodePools(ctx context.Context, req *ListNodePoolsRequest) (*ListNodePoolsResponse, error) {
	var list ListNodePoolsResponse
	if err := c.do(ctx, http.MethodGet, req.Parent+"/nodePools", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
