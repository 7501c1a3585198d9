package resource

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/gkeops/internal/platform/gke"
)

// fakeControlPlane is a stateful in-memory provider. Clusters become
// Running after readyAfter status reads, and deletes can be refused as
// busy a configurable number of times before being accepted.
type fakeControlPlane struct {
	mu sync.Mutex

	clusters   map[string]*gke.Cluster
	pools      map[string]*gke.NodePool
	readyAfter int
	busyFor    int

	getCalls    map[string]int
	deleteCalls map[string]int
}

func newFakeControlPlane() *fakeControlPlane {
	return &fakeControlPlane{
		clusters:    make(map[string]*gke.Cluster),
		pools:       make(map[string]*gke.NodePool),
		getCalls:    make(map[string]int),
		deleteCalls: make(map[string]int),
	}
}

func (f *fakeControlPlane) api() *gke.MockAPI {
	return &gke.MockAPI{
		CreateClusterFunc: func(_ context.Context, req *gke.CreateClusterRequest) (*gke.Operation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			name := req.Parent + "/clusters/" + req.Cluster.Name
			if _, ok := f.clusters[name]; ok {
				return nil, &gke.APIError{Code: 409, Message: "already exists"}
			}
			c := *req.Cluster
			c.Status = gke.StatusProvisioning
			f.clusters[name] = &c
			return &gke.Operation{Name: "op-create"}, nil
		},
		GetClusterFunc: func(_ context.Context, req *gke.GetClusterRequest) (*gke.Cluster, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			c, ok := f.clusters[req.Name]
			if !ok {
				return nil, &gke.APIError{Code: 404, Message: "not found"}
			}
			f.getCalls[req.Name]++
			if c.Status == gke.StatusProvisioning && f.getCalls[req.Name] > f.readyAfter {
				c.Status = gke.StatusRunning
			}
			out := *c
			return &out, nil
		},
		DeleteClusterFunc: func(_ context.Context, req *gke.DeleteClusterRequest) (*gke.Operation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.clusters[req.Name]; !ok {
				return nil, &gke.APIError{Code: 404, Message: "not found"}
			}
			f.deleteCalls[req.Name]++
			if f.deleteCalls[req.Name] <= f.busyFor {
				return nil, &gke.APIError{Code: 400, Message: "cluster is running an operation"}
			}
			delete(f.clusters, req.Name)
			return &gke.Operation{Name: "op-delete"}, nil
		},
		ListClustersFunc: func(_ context.Context, req *gke.ListClustersRequest) (*gke.ListClustersResponse, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			resp := &gke.ListClustersResponse{}
			for _, c := range f.clusters {
				out := *c
				resp.Clusters = append(resp.Clusters, &out)
			}
			return resp, nil
		},
		CreateNodePoolFunc: func(_ context.Context, req *gke.CreateNodePoolRequest) (*gke.Operation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			name := req.Parent + "/nodePools/" + req.NodePool.Name
			p := *req.NodePool
			p.Status = gke.StatusRunning
			f.pools[name] = &p
			return &gke.Operation{Name: "op-create-pool"}, nil
		},
		GetNodePoolFunc: func(_ context.Context, req *gke.GetNodePoolRequest) (*gke.NodePool, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			p, ok := f.pools[req.Name]
			if !ok {
				return nil, &gke.APIError{Code: 404, Message: "not found"}
			}
			out := *p
			return &out, nil
		},
		DeleteNodePoolFunc: func(_ context.Context, req *gke.DeleteNodePoolRequest) (*gke.Operation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.pools[req.Name]; !ok {
				return nil, &gke.APIError{Code: 404, Message: "not found"}
			}
			delete(f.pools, req.Name)
			return &gke.Operation{Name: "op-delete-pool"}, nil
		},
		ListNodePoolsFunc: func(_ context.Context, req *gke.ListNodePoolsRequest) (*gke.ListNodePoolsResponse, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			resp := &gke.ListNodePoolsResponse{}
			for _, p := range f.pools {
				out := *p
				resp.NodePools = append(resp.NodePools, &out)
			}
			return resp, nil
		},
	}
}

func TestCreateResource_KindMismatch(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, newFakeControlPlane().api())
	_, err := manager.CreateResource(context.Background(), NodePoolSpec(&gke.NodePool{Name: "pool"}))
	require.ErrorIs(t, err, ErrKindMismatch)
}

func TestCreateResource_RejectsUnnamedSpec(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, newFakeControlPlane().api())
	_, err := manager.CreateResource(context.Background(), ClusterSpec(&gke.Cluster{}))
	require.ErrorIs(t, err, ErrKindMismatch)
}

func TestCreateResource_WaitsUntilRunning(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	cp.readyAfter = 3
	manager := newTestManager(t, cp.api())

	node, err := manager.CreateResource(context.Background(), ClusterSpec(&gke.Cluster{Name: "demo"}))
	require.NoError(t, err)

	name := "projects/proj/locations/us-central1-a/clusters/demo"
	assert.Equal(t, name, node.ResourceName())
	assert.GreaterOrEqual(t, cp.getCalls[name], 4, "readiness should have been polled past the provisioning reads")

	resources := manager.Resources()
	require.Len(t, resources, 1)
	assert.Contains(t, resources, name)
}

func TestCreateResource_ExistingClusterIsAdopted(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	cp.clusters["projects/proj/locations/us-central1-a/clusters/demo"] = &gke.Cluster{
		Name:   "demo",
		Status: gke.StatusRunning,
	}
	manager := newTestManager(t, cp.api())

	// The 409 from the control plane is absorbed and readiness is still
	// verified, so creating a name that already exists hands back a node.
	node, err := manager.CreateResource(context.Background(), ClusterSpec(&gke.Cluster{Name: "demo"}))
	require.NoError(t, err)
	assert.Equal(t, "demo", node.LocalName())
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) Event(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

func TestCreateResource_EmitsLifecycleEvents(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	cp.clusters["projects/proj/locations/us-central1-a/clusters/demo"] = &gke.Cluster{
		Name:   "demo",
		Status: gke.StatusRunning,
	}

	recorder := &eventRecorder{}
	manager, err := NewClusterManager(context.Background(), "proj", "us-central1-a", nil,
		WithAPI(cp.api()),
		WithPollInterval(time.Millisecond),
		WithProgressOutput(io.Discard),
		WithObserver(recorder),
	)
	require.NoError(t, err)

	_, err = manager.CreateResource(context.Background(), ClusterSpec(&gke.Cluster{Name: "demo"}))
	require.NoError(t, err)

	assert.Equal(t, []EventType{
		EventResourceCreating,
		EventResourceExists,
		EventResourceCreated,
	}, recorder.types())
}

func TestDeleteResource_RetriesWhileBusy(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	cp.busyFor = 3
	manager := newTestManager(t, cp.api())

	node, err := manager.CreateResource(context.Background(), ClusterSpec(&gke.Cluster{Name: "demo"}))
	require.NoError(t, err)

	require.NoError(t, manager.DeleteResource(context.Background(), node))

	name := node.ResourceName()
	assert.Equal(t, 4, cp.deleteCalls[name], "three busy refusals then one accepted delete")
	assert.Empty(t, manager.Resources())
	assert.Empty(t, cp.clusters)
}

func TestCreateThenDelete_RoundTrip(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	manager := newTestManager(t, cp.api())

	node, err := manager.CreateResource(context.Background(), ClusterSpec(&gke.Cluster{Name: "demo"}))
	require.NoError(t, err)
	require.Len(t, manager.Resources(), 1)

	require.NoError(t, manager.DeleteResource(context.Background(), node))
	assert.Empty(t, manager.Resources())
}

func TestReconcile_AdoptsExistingHierarchy(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	cp.clusters["projects/proj/locations/us-central1-a/clusters/demo"] = &gke.Cluster{
		Name:   "demo",
		Status: gke.StatusRunning,
	}
	cp.pools["projects/proj/locations/us-central1-a/clusters/demo/nodePools/gpu-pool"] = &gke.NodePool{
		Name:   "gpu-pool",
		Status: gke.StatusRunning,
	}
	manager := newTestManager(t, cp.api())

	resources := manager.Resources()
	assert.Contains(t, resources, "projects/proj/locations/us-central1-a/clusters/demo")
	assert.Contains(t, resources, "projects/proj/locations/us-central1-a/clusters/demo/nodePools/gpu-pool")

	cluster, ok := manager.Cluster("demo")
	require.True(t, ok)
	assert.Equal(t, "demo", cluster.LocalName())
}

func TestManageResource_DeletesOnCallbackError(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	manager := newTestManager(t, cp.api())

	boom := errors.New("workload failed")
	err := manager.ManageResource(context.Background(), ClusterSpec(&gke.Cluster{Name: "demo"}), false, func(Node) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	name := "projects/proj/locations/us-central1-a/clusters/demo"
	assert.Equal(t, 1, cp.deleteCalls[name], "cleanup must delete exactly once")
	assert.Empty(t, cp.clusters)
	assert.Empty(t, manager.Resources())
}

func TestManageResource_KeepSkipsCleanup(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	manager := newTestManager(t, cp.api())

	err := manager.ManageResource(context.Background(), ClusterSpec(&gke.Cluster{Name: "demo"}), true, func(Node) error {
		return nil
	})
	require.NoError(t, err)

	name := "projects/proj/locations/us-central1-a/clusters/demo"
	assert.Zero(t, cp.deleteCalls[name])
	assert.Len(t, cp.clusters, 1)
	assert.Len(t, manager.Resources(), 1)
}

func TestManageResource_CleansUpAfterCancellation(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	manager := newTestManager(t, cp.api())

	ctx, cancel := context.WithCancel(context.Background())
	err := manager.ManageResource(ctx, ClusterSpec(&gke.Cluster{Name: "demo"}), false, func(Node) error {
		cancel()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, cp.clusters, "cleanup must run even after the caller's context is cancelled")
}

func TestManageResource_CallbackErrorWinsOverCleanupError(t *testing.T) {
	t.Parallel()

	boom := errors.New("workload failed")
	api := &gke.MockAPI{
		CreateClusterFunc: func(_ context.Context, _ *gke.CreateClusterRequest) (*gke.Operation, error) {
			return &gke.Operation{Name: "op"}, nil
		},
		GetClusterFunc: func(_ context.Context, _ *gke.GetClusterRequest) (*gke.Cluster, error) {
			return &gke.Cluster{Name: "demo", Status: gke.StatusRunning}, nil
		},
		DeleteClusterFunc: func(_ context.Context, _ *gke.DeleteClusterRequest) (*gke.Operation, error) {
			return nil, &gke.APIError{Code: 500, Message: "internal"}
		},
	}
	manager := newTestManager(t, api)

	err := manager.ManageResource(context.Background(), ClusterSpec(&gke.Cluster{Name: "demo"}), false, func(Node) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestClusterCreatesNodePools(t *testing.T) {
	t.Parallel()

	cp := newFakeControlPlane()
	manager := newTestManager(t, cp.api())

	node, err := manager.CreateResource(context.Background(), ClusterSpec(&gke.Cluster{Name: "demo"}))
	require.NoError(t, err)
	cluster, ok := node.(*Cluster)
	require.True(t, ok)

	spec, err := GPUNodePoolSpec("gpu-pool", 2, 16, 2, "t4")
	require.NoError(t, err)
	pool, err := cluster.CreateResource(context.Background(), spec)
	require.NoError(t, err)

	want := cluster.ResourceName() + "/nodePools/gpu-pool"
	assert.Equal(t, want, pool.ResourceName())
	assert.Contains(t, manager.Resources(), want, "node pools surface through the root manager")
}
