package resource

import (
	"fmt"

	"github.com/imamik/gkeops/internal/platform/gke"
)

// defaultOAuthScopes are the scopes GKE grants node service accounts for
// logging, monitoring, and read-only storage access.
var defaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/devstorage.read_only",
	"https://www.googleapis.com/auth/logging.write",
	"https://www.googleapis.com/auth/monitoring",
	"https://www.googleapis.com/auth/service.management.readonly",
	"https://www.googleapis.com/auth/servicecontrol",
	"https://www.googleapis.com/auth/trace.append",
}

// n1StandardSizes are the vCPU counts the n1-standard machine family
// offers.
var n1StandardSizes = map[int]bool{
	1: true, 2: true, 4: true, 8: true, 16: true, 32: true, 64: true, 96: true,
}

// supportedGPUTypes are the accelerators attachable to n1-standard
// machines.
var supportedGPUTypes = map[string]bool{
	"t4": true, "v100": true, "p100": true, "p4": true, "k80": true,
}

// GPUNodeConfig builds the node configuration for an n1-standard GPU pool.
// Sizing is validated before any network call: unsupported vCPU counts,
// GPU counts outside [1, 8], and unknown GPU types fail fast.
func GPUNodeConfig(vcpus, gpus int, gpuType string) (*gke.NodeConfig, error) {
	if !n1StandardSizes[vcpus] {
		return nil, fmt.Errorf("can't configure node pool with %d vcpus", vcpus)
	}
	if gpus < 1 || gpus > 8 {
		return nil, fmt.Errorf("can't configure node pool with %d gpus", gpus)
	}
	if !supportedGPUTypes[gpuType] {
		return nil, fmt.Errorf("can't configure n1 standard node pool with unknown gpu type %s", gpuType)
	}

	return &gke.NodeConfig{
		MachineType: fmt.Sprintf("n1-standard-%d", vcpus),
		OAuthScopes: append([]string(nil), defaultOAuthScopes...),
		Accelerators: []gke.AcceleratorConfig{
			{
				AcceleratorCount: int64(gpus),
				AcceleratorType:  "nvidia-tesla-" + gpuType,
			},
		},
	}, nil
}

// GPUNodePoolSpec builds a complete node pool spec around GPUNodeConfig.
func GPUNodePoolSpec(name string, nodes, vcpus, gpus int, gpuType string) (Spec, error) {
	config, err := GPUNodeConfig(vcpus, gpus, gpuType)
	if err != nil {
		return Spec{}, err
	}
	return NodePoolSpec(&gke.NodePool{
		Name:             name,
		InitialNodeCount: nodes,
		Config:           config,
	}), nil
}
