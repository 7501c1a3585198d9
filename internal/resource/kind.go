package resource

// Kind identifies one of the resource categories managed here. The set is
// closed: behavior specific to a kind is selected at construction, never by
// matching on type names at runtime.
type Kind int

const (
	// KindCluster is a GKE cluster.
	KindCluster Kind = iota
	// KindNodePool is a group of nodes inside a cluster.
	KindNodePool
)

func (k Kind) String() string {
	switch k {
	case KindCluster:
		return "cluster"
	case KindNodePool:
		return "node pool"
	default:
		return "unknown"
	}
}

// Segment returns the collection segment this kind occupies in a resource
// name, per the GKE v1 resource-name grammar
// (projects/{p}/locations/{l}/clusters/{c}/nodePools/{n}).
func (k Kind) Segment() string {
	switch k {
	case KindCluster:
		return "clusters"
	case KindNodePool:
		return "nodePools"
	default:
		return "unknown"
	}
}
