package resource

import (
	"context"
	"sync"

	"github.com/imamik/gkeops/internal/manifest"
	"github.com/imamik/gkeops/internal/platform/gke"
	"github.com/imamik/gkeops/internal/workload"
)

// gpuDriverSource is the NVIDIA driver installer daemon set Google
// publishes for COS node images.
var gpuDriverSource = manifest.Source{
	Repo:   "GoogleCloudPlatform/container-engine-accelerators",
	Branch: "master",
	Path:   "nvidia-driver-installer/cos/daemonset-preloaded.yaml",
}

// Cluster is a managed resource that is itself a manager: it tracks the
// node pools it contains and owns the workload client used to talk to its
// own control plane once it is reachable.
type Cluster struct {
	*Resource
	manager

	creds *gke.Credentials

	mu       sync.Mutex
	workload *workload.Client
}

func newCluster(ctx context.Context, name string, parent Parent, creds *gke.Credentials, cfg managerConfig) (*Cluster, error) {
	c := &Cluster{
		Resource: newResource(name, KindCluster, parent),
		creds:    creds,
	}
	c.manager = newManager(c, KindNodePool, func(_ context.Context, poolName string) (Node, error) {
		return newResource(poolName, KindNodePool, c), nil
	})
	cfg.apply(&c.manager)

	// A cluster object may be constructed before the cluster exists
	// provider-side (create was just accepted); in that case there is
	// nothing to reconcile yet.
	if err := c.manager.reconcile(ctx); err != nil && !gke.IsNotFound(err) {
		return nil, err
	}
	return c, nil
}

// Workload returns the workload client bound to this cluster, constructing
// it on first use. Construction requires the cluster to be reachable; a
// missing cluster surfaces workload.ErrClusterNotDeployed.
func (c *Cluster) Workload(ctx context.Context) (*workload.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.workload != nil {
		return c.workload, nil
	}
	client, err := workload.NewClient(ctx, c.API(), c.ResourceName(), c.creds)
	if err != nil {
		return nil, err
	}
	c.workload = client
	return client, nil
}

// Deploy applies a rendered manifest to the cluster.
func (c *Cluster) Deploy(ctx context.Context, manifest []byte) error {
	client, err := c.Workload(ctx)
	if err != nil {
		return err
	}
	return client.Apply(ctx, manifest)
}

// RemoveDeployment deletes a deployment and waits for it to disappear.
func (c *Cluster) RemoveDeployment(ctx context.Context, name, namespace string) error {
	client, err := c.Workload(ctx)
	if err != nil {
		return err
	}
	return client.RemoveDeployment(ctx, name, namespace)
}

// InstallGPUDrivers deploys the NVIDIA driver installer daemon set and
// waits for it to be ready on every GPU node.
func (c *Cluster) InstallGPUDrivers(ctx context.Context) error {
	rendered, err := manifest.Render(ctx, gpuDriverSource, nil)
	if err != nil {
		return err
	}
	if err := c.Deploy(ctx, rendered); err != nil {
		return err
	}
	client, err := c.Workload(ctx)
	if err != nil {
		return err
	}
	return client.WaitForDaemonSet(ctx, "nvidia-driver-installer", "kube-system")
}
