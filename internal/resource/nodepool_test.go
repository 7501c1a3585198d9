package resource

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUNodeConfig_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vcpus   int
		gpus    int
		gpuType string
		wantErr string
	}{
		{"smallest machine", 1, 1, "t4", ""},
		{"largest machine", 96, 8, "v100", ""},
		{"mid-size machine", 16, 4, "p100", ""},
		{"vcpus not an n1 size", 3, 1, "t4", "can't configure node pool with 3 vcpus"},
		{"vcpus zero", 0, 1, "t4", "can't configure node pool with 0 vcpus"},
		{"too many gpus", 16, 9, "t4", "can't configure node pool with 9 gpus"},
		{"zero gpus", 16, 0, "t4", "can't configure node pool with 0 gpus"},
		{"unknown gpu type", 16, 1, "a100", "unknown gpu type a100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := GPUNodeConfig(tt.vcpus, tt.gpus, tt.gpuType)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("n1-standard-%d", tt.vcpus), config.MachineType)
			require.Len(t, config.Accelerators, 1)
			assert.Equal(t, int64(tt.gpus), config.Accelerators[0].AcceleratorCount)
			assert.Equal(t, "nvidia-tesla-"+tt.gpuType, config.Accelerators[0].AcceleratorType)
			assert.NotEmpty(t, config.OAuthScopes)
		})
	}
}

func TestGPUNodePoolSpec(t *testing.T) {
	t.Parallel()

	spec, err := GPUNodePoolSpec("gpu-pool", 3, 96, 2, "t4")
	require.NoError(t, err)

	assert.Equal(t, KindNodePool, spec.Kind)
	assert.Equal(t, "gpu-pool", spec.Name())
	require.NotNil(t, spec.NodePool)
	assert.Equal(t, 3, spec.NodePool.InitialNodeCount)
	assert.Equal(t, "n1-standard-96", spec.NodePool.Config.MachineType)

	_, err = GPUNodePoolSpec("bad", 1, 5, 1, "t4")
	require.Error(t, err)
}
