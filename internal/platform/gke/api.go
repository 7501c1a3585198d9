package gke

import "context"

// API is the closed set of control plane operations the tool performs. Each
// resource kind gets explicit create/get/delete/list methods; adding an
// operation means adding a method here and to every implementation, checked
// at compile time.
type API interface {
	CreateCluster(ctx context.Context, req *CreateClusterRequest) (*Operation, error)
	GetCluster(ctx context.Context, req *GetClusterRequest) (*Cluster, error)
	DeleteCluster(ctx context.Context, req *DeleteClusterRequest) (*Operation, error)
	ListClusters(ctx context.Context, req *ListClustersRequest) (*ListClustersResponse, error)

	CreateNodePool(ctx context.Context, req *CreateNodePoolRequest) (*Operation, error)
	GetNodePool(ctx context.Context, req *GetNodePoolRequest) (*NodePool, error)
	DeleteNodePool(ctx context.Context, req *DeleteNodePoolRequest) (*Operation, error)
	ListNodePools(ctx context.Context, req *ListNodePoolsRequest) (*ListNodePoolsResponse, error)
}
