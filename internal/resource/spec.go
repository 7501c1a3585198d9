package resource

import (
	"github.com/imamik/gkeops/internal/platform/gke"
)

// Spec is a tagged variant describing a resource to create. Exactly one of
// the payload fields is set, matching Kind.
type Spec struct {
	Kind     Kind
	Cluster  *gke.Cluster
	NodePool *gke.NodePool
}

// ClusterSpec wraps a cluster definition.
func ClusterSpec(c *gke.Cluster) Spec {
	return Spec{Kind: KindCluster, Cluster: c}
}

// NodePoolSpec wraps a node pool definition.
func NodePoolSpec(p *gke.NodePool) Spec {
	return Spec{Kind: KindNodePool, NodePool: p}
}

// Name returns the local (unqualified) name of the resource the spec
// describes.
func (s Spec) Name() string {
	switch s.Kind {
	case KindCluster:
		if s.Cluster != nil {
			return s.Cluster.Name
		}
	case KindNodePool:
		if s.NodePool != nil {
			return s.NodePool.Name
		}
	}
	return ""
}
