// Package workload issues orchestration operations against a provisioned
// cluster's control plane: applying manifests, removing deployments, and
// waiting for deployments, services, and daemon sets to become ready.
package workload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/imamik/gkeops/internal/platform/gke"
)

// ErrClusterNotDeployed distinguishes "the cluster does not exist" from
// other construction failures.
var ErrClusterNotDeployed = errors.New("cluster not currently deployed")

// ErrUnauthorized is returned when a call comes back 401 and the held
// credentials cannot be refreshed.
var ErrUnauthorized = errors.New("unauthorized request to cluster")

// Client talks to one cluster's own API server. It holds a borrowed
// credential reference; when a call fails with 401 and the credential is
// refreshable, the token is refreshed and the call retried once.
type Client struct {
	clusterName string
	creds       *gke.Credentials

	mu         sync.Mutex
	restConfig *rest.Config
	clientset  kubernetes.Interface
	dynamic    dynamic.Interface

	// rebuild recreates the clients after a token refresh. Split out so
	// tests can run the retry path against fake clients.
	rebuild func() error

	interval time.Duration
	grace    time.Duration
	out      io.Writer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithPollInterval sets the readiness poll interval.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.interval = d }
}

// WithProgressOutput redirects progress rendering.
func WithProgressOutput(w io.Writer) ClientOption {
	return func(c *Client) { c.out = w }
}

// NewClient builds a workload client for the named cluster. The cluster
// must already be reachable: its endpoint and CA certificate come from a
// control plane lookup, and a 404 there surfaces ErrClusterNotDeployed.
// With nil credentials a token is fetched from the instance metadata
// server, which makes the client auto-refreshing on 401.
func NewClient(ctx context.Context, api gke.API, clusterName string, creds *gke.Credentials, opts ...ClientOption) (*Client, error) {
	cluster, err := api.GetCluster(ctx, &gke.GetClusterRequest{Name: clusterName})
	if err != nil {
		if gke.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrClusterNotDeployed, clusterName)
		}
		return nil, fmt.Errorf("failed to look up cluster %s: %w", clusterName, err)
	}

	if creds == nil {
		creds, err = gke.MetadataCredentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain credentials: %w", err)
		}
	}

	if cluster.MasterAuth == nil || cluster.MasterAuth.ClusterCACertificate == "" {
		return nil, fmt.Errorf("cluster %s has no CA certificate", clusterName)
	}
	caData, err := base64.StdEncoding.DecodeString(cluster.MasterAuth.ClusterCACertificate)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cluster CA certificate: %w", err)
	}

	c := &Client{
		clusterName: clusterName,
		creds:       creds,
		restConfig: &rest.Config{
			Host:            "https://" + cluster.Endpoint,
			TLSClientConfig: rest.TLSClientConfig{CAData: caData},
			BearerToken:     creds.Token(),
		},
		interval: 500 * time.Millisecond,
		grace:    availabilityGracePeriod,
		out:      os.Stderr,
	}
	c.rebuild = c.buildClients
	for _, opt := range opts {
		opt(c)
	}

	if err := c.buildClients(); err != nil {
		return nil, err
	}
	return c, nil
}

// buildClients (re)creates the typed and dynamic clients from the current
// rest config. Called at construction and after every token refresh, since
// the bearer token is baked into the client transport.
func (c *Client) buildClients() error {
	clientset, err := kubernetes.NewForConfig(c.restConfig)
	if err != nil {
		return fmt.Errorf("failed to create clientset: %w", err)
	}
	dynamicClient, err := dynamic.NewForConfig(c.restConfig)
	if err != nil {
		return fmt.Errorf("failed to create dynamic client: %w", err)
	}
	c.clientset = clientset
	c.dynamic = dynamicClient
	return nil
}

// refresh fetches a new token and rebuilds the clients around it.
func (c *Client) refresh(ctx context.Context) error {
	if err := c.creds.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh credentials: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restConfig.BearerToken = c.creds.Token()
	return c.rebuild()
}

// typed returns the typed clientset under the lock, so a concurrent token
// refresh cannot swap it mid-read.
func (c *Client) typed() kubernetes.Interface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientset
}

// dyn returns the dynamic client under the lock.
func (c *Client) dyn() dynamic.Interface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dynamic
}

// withAuthRetry runs op, and on a 401 refreshes the token and retries
// exactly once. Non-auth errors and 401s with non-refreshable credentials
// propagate without a retry.
func (c *Client) withAuthRetry(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || !apierrors.IsUnauthorized(err) {
		return err
	}
	if !c.creds.Refreshable() {
		return fmt.Errorf("%w %s: %v", ErrUnauthorized, c.clusterName, err)
	}
	if refreshErr := c.refresh(ctx); refreshErr != nil {
		return refreshErr
	}
	return op()
}
