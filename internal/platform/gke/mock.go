package gke

import "context"

// MockAPI is a func-field implementation of API for tests. Unset methods
// answer with an empty response.
type MockAPI struct {
	CreateClusterFunc func(ctx context.Context, req *CreateClusterRequest) (*Operation, error)
	GetClusterFunc    func(ctx context.Context, req *GetClusterRequest) (*Cluster, error)
	DeleteClusterFunc func(ctx context.Context, req *DeleteClusterRequest) (*Operation, error)
	ListClustersFunc  func(ctx context.Context, req *ListClustersRequest) (*ListClustersResponse, error)

	CreateNodePoolFunc func(ctx context.Context, req *CreateNodePoolRequest) (*Operation, error)
	GetNodePoolFunc    func(ctx context.Context, req *GetNodePoolRequest) (*NodePool, error)
	DeleteNodePoolFunc func(ctx context.Context, req *DeleteNodePoolRequest) (*Operation, error)
	ListNodePoolsFunc  func(ctx context.Context, req *ListNodePoolsRequest) (*ListNodePoolsResponse, error)
}

func (m *MockAPI) CreateCluster(ctx context.Context, req *CreateClusterRequest) (*Operation, error) {
	if m.CreateClusterFunc == nil {
		return &Operation{}, nil
	}
	return m.CreateClusterFunc(ctx, req)
}

func (m *MockAPI) GetCluster(ctx context.Context, req *GetClusterRequest) (*Cluster, error) {
	if m.GetClusterFunc == nil {
		return &Cluster{}, nil
	}
	return m.GetClusterFunc(ctx, req)
}

func (m *MockAPI) DeleteCluster(ctx context.Context, req *DeleteClusterRequest) (*Operation, error) {
	if m.DeleteClusterFunc == nil {
		return &Operation{}, nil
	}
	return m.DeleteClusterFunc(ctx, req)
}

func (m *MockAPI) ListClusters(ctx context.Context, req *ListClustersRequest) (*ListClustersResponse, error) {
	if m.ListClustersFunc == nil {
		return &ListClustersResponse{}, nil
	}
	return m.ListClustersFunc(ctx, req)
}

func (m *MockAPI) CreateNodePool(ctx context.Context, req *CreateNodePoolRequest) (*Operation, error) {
	if m.CreateNodePoolFunc == nil {
		return &Operation{}, nil
	}
	return m.CreateNodePoolFunc(ctx, req)
}

func (m *MockAPI) GetNodePool(ctx context.Context, req *GetNodePoolRequest) (*NodePool, error) {
	if m.GetNodePoolFunc == nil {
		return &NodePool{}, nil
	}
	return m.GetNodePoolFunc(ctx, req)
}

func (m *MockAPI) DeleteNodePool(ctx context.Context, req *DeleteNodePoolRequest) (*Operation, error) {
	if m.DeleteNodePoolFunc == nil {
		return &Operation{}, nil
	}
	return m.DeleteNodePoolFunc(ctx, req)
}

func (m *MockAPI) ListNodePools(ctx context.Context, req *ListNodePoolsRequest) (*ListNodePoolsResponse, error) {
	if m.ListNodePoolsFunc == nil {
		return &ListNodePoolsResponse{}, nil
	}
	return m.ListNodePoolsFunc(ctx, req)
}
