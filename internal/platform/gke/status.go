package gke

import "encoding/json"

// Status is the lifecycle state the control plane reports for a cluster or
// node pool. Values and ordering follow the GKE v1 API status enum; code
// that polls readiness relies on the ordering (everything above Running is a
// failure while provisioning, everything above Stopping is a failure while
// deleting).
type Status int

const (
	// StatusUnspecified means the control plane did not set a status.
	StatusUnspecified Status = iota
	// StatusProvisioning means the resource is being created.
	StatusProvisioning
	// StatusRunning means the resource is fully provisioned and usable.
	StatusRunning
	// StatusReconciling means the control plane is performing maintenance
	// work on an otherwise usable resource.
	StatusReconciling
	// StatusStopping means the resource is being deleted.
	StatusStopping
	// StatusError means the resource is broken and needs intervention.
	StatusError
	// StatusDegraded means the resource requires user action to restore
	// full functionality.
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusProvisioning:
		return "PROVISIONING"
	case StatusRunning:
		return "RUNNING"
	case StatusReconciling:
		return "RECONCILING"
	case StatusStopping:
		return "STOPPING"
	case StatusError:
		return "ERROR"
	case StatusDegraded:
		return "DEGRADED"
	default:
		return "STATUS_UNSPECIFIED"
	}
}

// statusNames maps the wire representation used by the REST API.
var statusNames = map[string]Status{
	"PROVISIONING": StatusProvisioning,
	"RUNNING":      StatusRunning,
	"RECONCILING":  StatusReconciling,
	"STOPPING":     StatusStopping,
	"ERROR":        StatusError,
	"DEGRADED":     StatusDegraded,
}

// ParseStatus converts the wire status string into a Status. Unknown
// strings map to StatusUnspecified.
func ParseStatus(s string) Status {
	return statusNames[s]
}

// MarshalJSON encodes the status as its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the wire status name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*s = ParseStatus(name)
	return nil
}
