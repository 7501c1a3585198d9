package gke

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultThrottleInterval is the minimum spacing between outbound control
// plane calls when nothing else is configured. The GKE API has per-project
// mutation quotas; a one second floor keeps bursty polling loops under them.
const DefaultThrottleInterval = time.Second

// ThrottledAPI decorates another API so that no two calls leave closer
// together than the configured interval. The limiter is shared by every
// method, so requests through one instance are strictly ordered with a
// minimum inter-arrival spacing regardless of which operation they perform.
//
// The limiter is internally synchronized; a ThrottledAPI is safe for
// concurrent use.
type ThrottledAPI struct {
	inner   API
	limiter *rate.Limiter
}

// Throttle wraps api with a minimum spacing between calls. A non-positive
// interval falls back to DefaultThrottleInterval.
func Throttle(api API, interval time.Duration) *ThrottledAPI {
	if interval <= 0 {
		interval = DefaultThrottleInterval
	}
	return &ThrottledAPI{
		inner:   api,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// acquire blocks until the limiter admits the next call or the context is
// cancelled.
func (t *ThrottledAPI) acquire(ctx context.Context, op string) error {
	start := time.Now()
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	observeRequest(op, time.Since(start))
	return nil
}

func (t *ThrottledAPI) CreateCluster(ctx context.Context, req *CreateClusterRequest) (*Operation, error) {
	if err := t.acquire(ctx, "create_cluster"); err != nil {
		return nil, err
	}
	return t.inner.CreateCluster(ctx, req)
}

func (t *ThrottledAPI) GetCluster(ctx context.Context, req *GetClusterRequest) (*Cluster, error) {
	if err := t.acquire(ctx, "get_cluster"); err != nil {
		return nil, err
	}
	return t.inner.GetCluster(ctx, req)
}

func (t *ThrottledAPI) DeleteCluster(ctx context.Context, req *DeleteClusterRequest) (*Operation, error) {
	if err := t.acquire(ctx, "delete_cluster"); err != nil {
		return nil, err
	}
	return t.inner.DeleteCluster(ctx, req)
}

func (t *ThrottledAPI) ListClusters(ctx context.Context, req *ListClustersRequest) (*ListClustersResponse, error) {
	if err := t.acquire(ctx, "list_clusters"); err != nil {
		return nil, err
	}
	return t.inner.ListClusters(ctx, req)
}

func (t *ThrottledAPI) CreateNodePool(ctx context.Context, req *CreateNodePoolRequest) (*Operation, error) {
	if err := t.acquire(ctx, "create_node_pool"); err != nil {
		return nil, err
	}
	return t.inner.CreateNodePool(ctx, req)
}

func (t *ThrottledAPI) GetNodePool(ctx context.Context, req *GetNodePoolRequest) (*NodePool, error) {
	if err := t.acquire(ctx, "get_node_pool"); err != nil {
		return nil, err
	}
	return t.inner.GetNodePool(ctx, req)
}

func (t *ThrottledAPI) DeleteNodePool(ctx context.Context, req *DeleteNodePoolRequest) (*Operation, error) {
	if err := t.acquire(ctx, "delete_node_pool"); err != nil {
		return nil, err
	}
	return t.inner.DeleteNodePool(ctx, req)
}

func (t *ThrottledAPI) ListNodePools(ctx context.Context, req *ListNodePoolsRequest) (*ListNodePoolsResponse, error) {
	if err := t.acquire(ctx, "list_node_pools"); err != nil {
		return nil, err
	}
	return t.inner.ListNodePools(ctx, req)
}
