package resource

import (
	"context"
	"fmt"

	"github.com/imamik/gkeops/internal/platform/gke"
)

// Parent is the containment link a resource holds upward. It is a weak
// reference: a resource never manages its parent's lifecycle, it only
// borrows the parent's name for path construction and its API client.
type Parent interface {
	// ResourceName returns the parent's fully qualified resource name.
	ResourceName() string
	// API returns the (throttled) control plane client shared down the
	// hierarchy.
	API() gke.API
}

// Node is one addressable resource tracked by a manager.
type Node interface {
	Parent

	// LocalName returns the unqualified resource name.
	LocalName() string
	// Kind returns the resource category.
	Kind() Kind
	// IsReady reports whether the control plane considers the resource
	// fully provisioned. A terminal status yields an error so readiness
	// polls fail fast instead of looping forever.
	IsReady(ctx context.Context) (bool, error)
	// SubmitDelete attempts to submit the delete request. True means the
	// request went through or the resource is already gone; false means
	// the resource is busy and the submission should be retried; any
	// error is fatal.
	SubmitDelete(ctx context.Context) (bool, error)
	// IsDeleted reports whether the control plane has finished removing
	// the resource.
	IsDeleted(ctx context.Context) (bool, error)
}

// Resource is the base Node implementation shared by clusters and node
// pools. Kind-specific RPC dispatch is bound at construction through ops.
type Resource struct {
	name   string
	kind   Kind
	parent Parent
	ops    operations
}

func newResource(name string, kind Kind, parent Parent) *Resource {
	return &Resource{
		name:   name,
		kind:   kind,
		parent: parent,
		ops:    operationsFor(kind),
	}
}

// LocalName returns the unqualified name.
func (r *Resource) LocalName() string { return r.name }

// Kind returns the resource category.
func (r *Resource) Kind() Kind { return r.kind }

// API returns the parent's control plane client.
func (r *Resource) API() gke.API { return r.parent.API() }

// ResourceName builds the hierarchical identity:
// parent name + collection segment + local name. Immutable once the
// resource is constructed.
func (r *Resource) ResourceName() string {
	return r.parent.ResourceName() + "/" + r.kind.Segment() + "/" + r.name
}

// create submits the create request. A 409 from the control plane means a
// resource with this name already exists; creation is idempotent, so that
// counts as success with existed set.
func (r *Resource) create(ctx context.Context, spec Spec) (existed bool, err error) {
	err = r.ops.create(ctx, r.API(), r.parent.ResourceName(), spec)
	switch {
	case err == nil:
		return false, nil
	case gke.IsAlreadyExists(err):
		return true, nil
	default:
		return false, fmt.Errorf("failed to create %s %s: %w", r.kind, r.ResourceName(), err)
	}
}

// Status fetches the current provider-side lifecycle state.
func (r *Resource) Status(ctx context.Context) (gke.Status, error) {
	return r.ops.status(ctx, r.API(), r.ResourceName())
}

// delete submits the delete request without waiting for completion.
func (r *Resource) delete(ctx context.Context) error {
	return r.ops.delete(ctx, r.API(), r.ResourceName())
}

// IsReady implements the readiness poll. Exactly StatusRunning is ready;
// anything beyond Running is a terminal failure; anything below means keep
// polling. A transport error while reading status is fatal: without a
// clean read the caller cannot tell "not yet" from "broken".
func (r *Resource) IsReady(ctx context.Context) (bool, error) {
	status, err := r.Status(ctx)
	if err != nil {
		return false, err
	}
	switch {
	case status == gke.StatusRunning:
		return true, nil
	case status > gke.StatusRunning:
		return false, &TerminalStateError{Name: r.ResourceName(), Status: status}
	default:
		return false, nil
	}
}

// SubmitDelete classifies the outcome of a delete attempt into the
// tri-state contract: done, retry, or fatal. Only 404 (already gone) and
// 400 (resource tied up in another operation) are absorbed; every other
// failure propagates so unrecoverable conditions never loop.
func (r *Resource) SubmitDelete(ctx context.Context) (bool, error) {
	err := r.delete(ctx)
	switch {
	case err == nil:
		return true, nil
	case gke.IsNotFound(err):
		return true, nil
	case gke.IsResourceBusy(err):
		return false, nil
	default:
		return false, fmt.Errorf("failed to delete %s %s: %w", r.kind, r.ResourceName(), err)
	}
}

// IsDeleted reports deletion completion: 404 means the control plane has
// forgotten the resource; a status beyond Stopping means deletion went
// sideways and the poll must stop.
func (r *Resource) IsDeleted(ctx context.Context) (bool, error) {
	status, err := r.Status(ctx)
	if err != nil {
		if gke.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	if status > gke.StatusStopping {
		return false, &TerminalStateError{Name: r.ResourceName(), Status: status}
	}
	return false, nil
}

// operations binds the kind-specific control plane calls. One
// implementation per Kind, selected once at construction.
type operations interface {
	create(ctx context.Context, api gke.API, parent string, spec Spec) error
	status(ctx context.Context, api gke.API, name string) (gke.Status, error)
	delete(ctx context.Context, api gke.API, name string) error
	list(ctx context.Context, api gke.API, parent string) ([]string, error)
}

func operationsFor(kind Kind) operations {
	switch kind {
	case KindCluster:
		return clusterOps{}
	case KindNodePool:
		return nodePoolOps{}
	default:
		panic(fmt.Sprintf("no operations for kind %d", kind))
	}
}

type clusterOps struct{}

func (clusterOps) create(ctx context.Context, api gke.API, parent string, spec Spec) error {
	_, err := api.CreateCluster(ctx, &gke.CreateClusterRequest{Parent: parent, Cluster: spec.Cluster})
	return err
}

func (clusterOps) status(ctx context.Context, api gke.API, name string) (gke.Status, error) {
	cluster, err := api.GetCluster(ctx, &gke.GetClusterRequest{Name: name})
	if err != nil {
		return gke.StatusUnspecified, err
	}
	return cluster.Status, nil
}

func (clusterOps) delete(ctx context.Context, api gke.API, name string) error {
	_, err := api.DeleteCluster(ctx, &gke.DeleteClusterRequest{Name: name})
	return err
}

func (clusterOps) list(ctx context.Context, api gke.API, parent string) ([]string, error) {
	resp, err := api.ListClusters(ctx, &gke.ListClustersRequest{Parent: parent})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Clusters))
	for _, c := range resp.Clusters {
		names = append(names, c.Name)
	}
	return names, nil
}

type nodePoolOps struct{}

func (nodePoolOps) create(ctx context.Context, api gke.API, parent string, spec Spec) error {
	_, err := api.CreateNodePool(ctx, &gke.CreateNodePoolRequest{Parent: parent, NodePool: spec.NodePool})
	return err
}

func (nodePoolOps) status(ctx context.Context, api gke.API, name string) (gke.Status, error) {
	pool, err := api.GetNodePool(ctx, &gke.GetNodePoolRequest{Name: name})
	if err != nil {
		return gke.StatusUnspecified, err
	}
	return pool.Status, nil
}

func (nodePoolOps) delete(ctx context.Context, api gke.API, name string) error {
	_, err := api.DeleteNodePool(ctx, &gke.DeleteNodePoolRequest{Name: name})
	return err
}

func (nodePoolOps) list(ctx context.Context, api gke.API, parent string) ([]string, error) {
	resp, err := api.ListNodePools(ctx, &gke.ListNodePoolsRequest{Parent: parent})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.NodePools))
	for _, p := range resp.NodePools {
		names = append(names, p.Name)
	}
	return names, nil
}
