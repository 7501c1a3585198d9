package resource

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/imamik/gkeops/internal/platform/gke"
)

// managerConfig carries the knobs shared by every manager in one
// hierarchy: the observer, the poll interval, and where progress output
// goes.
type managerConfig struct {
	obs      Observer
	interval time.Duration
	out      io.Writer
}

func (c managerConfig) apply(m *manager) {
	if c.obs != nil {
		m.obs = c.obs
	}
	if c.interval > 0 {
		m.interval = c.interval
	}
	if c.out != nil {
		m.out = c.out
	}
}

// Option configures a ClusterManager.
type Option func(*ClusterManager)

// WithAPI injects the control plane client, bypassing the default
// throttled REST client. Used by tests and by callers that want their own
// throttle interval.
func WithAPI(api gke.API) Option {
	return func(cm *ClusterManager) { cm.api = api }
}

// WithObserver sets the lifecycle event observer for the whole hierarchy.
func WithObserver(obs Observer) Option {
	return func(cm *ClusterManager) { cm.cfg.obs = obs }
}

// WithPollInterval sets the readiness/deletion poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(cm *ClusterManager) { cm.cfg.interval = d }
}

// WithProgressOutput redirects progress rendering.
func WithProgressOutput(w io.Writer) Option {
	return func(cm *ClusterManager) { cm.cfg.out = w }
}

// WithThrottleInterval sets the gateway spacing used when the manager
// builds its own REST client.
func WithThrottleInterval(d time.Duration) Option {
	return func(cm *ClusterManager) { cm.throttle = d }
}

// ClusterManager is the hierarchy root. Its identity is the fixed provider
// scope path projects/{project}/locations/{location}; its "parent" is the
// throttled gateway rather than another resource.
type ClusterManager struct {
	name     string
	api      gke.API
	creds    *gke.Credentials
	throttle time.Duration
	cfg      managerConfig
	manager
}

// NewClusterManager builds the root manager for one project/location scope
// and reconciles its child map against the clusters that already exist
// there.
func NewClusterManager(ctx context.Context, project, location string, creds *gke.Credentials, opts ...Option) (*ClusterManager, error) {
	if project == "" || location == "" {
		return nil, fmt.Errorf("project and location are required")
	}

	cm := &ClusterManager{
		name:     fmt.Sprintf("projects/%s/locations/%s", project, location),
		creds:    creds,
		throttle: gke.DefaultThrottleInterval,
	}
	for _, opt := range opts {
		opt(cm)
	}
	if cm.api == nil {
		cm.api = gke.Throttle(gke.NewRESTClient(creds), cm.throttle)
	}

	cm.manager = newManager(cm, KindCluster, func(ctx context.Context, clusterName string) (Node, error) {
		return newCluster(ctx, clusterName, cm, creds, cm.cfg)
	})
	cm.cfg.apply(&cm.manager)

	if err := cm.manager.reconcile(ctx); err != nil {
		return nil, err
	}
	return cm, nil
}

// ResourceName returns the fixed scope path. Unlike ordinary resources the
// root's identity is not derived from a parent.
func (cm *ClusterManager) ResourceName() string { return cm.name }

// API returns the throttled control plane client shared by the hierarchy.
func (cm *ClusterManager) API() gke.API { return cm.api }

// Cluster returns the tracked cluster with the given local name.
func (cm *ClusterManager) Cluster(name string) (*Cluster, bool) {
	node, ok := cm.children[cm.name+"/"+KindCluster.Segment()+"/"+name]
	if !ok {
		return nil, false
	}
	cluster, ok := node.(*Cluster)
	return cluster, ok
}
