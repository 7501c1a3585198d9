package gke

// The message types below mirror the subset of the GKE v1 REST surface this
// tool touches. JSON tags match the wire field names so the REST client can
// decode responses directly.

// Cluster describes a GKE cluster.
type Cluster struct {
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	InitialNodeCount int        `json:"initialNodeCount,omitempty"`
	NodeConfig       *NodeConfig `json:"nodeConfig,omitempty"`
	MasterAuth       *MasterAuth `json:"masterAuth,omitempty"`
	Endpoint         string     `json:"endpoint,omitempty"`
	Status           Status     `json:"status,omitempty"`
	NodePools        []*NodePool `json:"nodePools,omitempty"`
}

// NodePool describes a group of nodes within a cluster that share a
// configuration.
type NodePool struct {
	Name             string      `json:"name"`
	Config           *NodeConfig `json:"config,omitempty"`
	InitialNodeCount int         `json:"initialNodeCount,omitempty"`
	Status           Status      `json:"status,omitempty"`
}

// NodeConfig holds the machine parameters for nodes in a pool.
type NodeConfig struct {
	MachineType  string              `json:"machineType,omitempty"`
	OAuthScopes  []string            `json:"oauthScopes,omitempty"`
	Labels       map[string]string   `json:"labels,omitempty"`
	Accelerators []AcceleratorConfig `json:"accelerators,omitempty"`
	Preemptible  bool                `json:"preemptible,omitempty"`
}

// AcceleratorConfig attaches hardware accelerators to a node pool.
type AcceleratorConfig struct {
	AcceleratorCount int64  `json:"acceleratorCount,string,omitempty"`
	AcceleratorType  string `json:"acceleratorType,omitempty"`
}

// MasterAuth carries the material needed to reach the cluster endpoint.
type MasterAuth struct {
	ClusterCACertificate string `json:"clusterCaCertificate,omitempty"`
}

// Operation is the control plane's handle for an asynchronous mutation.
// Create and delete calls return immediately with one of these while the
// underlying infrastructure converges.
type Operation struct {
	Name          string `json:"name"`
	OperationType string `json:"operationType,omitempty"`
	Status        string `json:"status,omitempty"`
	TargetLink    string `json:"targetLink,omitempty"`
}

// CreateClusterRequest asks for a new cluster under parent.
type CreateClusterRequest struct {
	Parent  string   `json:"parent"`
	Cluster *Cluster `json:"cluster"`
}

// GetClusterRequest fetches a cluster by full resource name.
type GetClusterRequest struct {
	Name string `json:"name"`
}

// DeleteClusterRequest deletes a cluster by full resource name.
type DeleteClusterRequest struct {
	Name string `json:"name"`
}

// ListClustersRequest lists clusters under parent.
type ListClustersRequest struct {
	Parent string `json:"parent"`
}

// ListClustersResponse is the list result for clusters.
type ListClustersResponse struct {
	Clusters []*Cluster `json:"clusters"`
}

// CreateNodePoolRequest asks for a new node pool under a cluster.
type CreateNodePoolRequest struct {
	Parent   string    `json:"parent"`
	NodePool *NodePool `json:"nodePool"`
}

// GetNodePoolRequest fetches a node pool by full resource name.
type GetNodePoolRequest struct {
	Name string `json:"name"`
}

// DeleteNodePoolRequest deletes a node pool by full resource name.
type DeleteNodePoolRequest struct {
	Name string `json:"name"`
}

// ListNodePoolsRequest lists node pools under a cluster.
type ListNodePoolsRequest struct {
	Parent string `json:"parent"`
}

// ListNodePoolsResponse is the list result for node pools.
type ListNodePoolsResponse struct {
	NodePools []*NodePool `json:"nodePools"`
}
