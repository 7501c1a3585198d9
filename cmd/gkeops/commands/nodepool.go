package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imamik/gkeops/internal/resource"
)

// NodePool returns the nodepool command group.
func NodePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodepool",
		Short: "Manage node pools within a cluster",
	}
	cmd.AddCommand(nodePoolCreate())
	cmd.AddCommand(nodePoolDelete())
	return cmd
}

func nodePoolCreate() *cobra.Command {
	var (
		clusterName string
		name        string
		nodes       int
		vcpus       int
		gpus        int
		gpuType     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a GPU node pool and wait for it to become ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildManager(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			cluster, ok := manager.Cluster(clusterName)
			if !ok {
				return fmt.Errorf("cluster %s not found under %s", clusterName, manager.ResourceName())
			}

			spec, err := resource.GPUNodePoolSpec(name, nodes, vcpus, gpus, gpuType)
			if err != nil {
				return err
			}
			node, err := cluster.CreateResource(cmd.Context(), spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", node.ResourceName())
			return nil
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "", "owning cluster name")
	cmd.Flags().StringVar(&name, "name", "", "node pool name")
	cmd.Flags().IntVar(&nodes, "nodes", 1, "initial node count")
	cmd.Flags().IntVar(&vcpus, "vcpus", 96, "vCPUs per node (n1-standard size)")
	cmd.Flags().IntVar(&gpus, "gpus", 1, "GPUs per node")
	cmd.Flags().StringVar(&gpuType, "gpu-type", "t4", "GPU type (t4, v100, p100, p4, k80)")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func nodePoolDelete() *cobra.Command {
	var (
		clusterName string
		name        string
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a node pool and wait for the control plane to confirm",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildManager(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			cluster, ok := manager.Cluster(clusterName)
			if !ok {
				return fmt.Errorf("cluster %s not found under %s", clusterName, manager.ResourceName())
			}

			poolName := cluster.ResourceName() + "/nodePools/" + name
			pool, ok := cluster.Resources()[poolName]
			if !ok {
				return fmt.Errorf("node pool %s not found", poolName)
			}
			return cluster.DeleteResource(cmd.Context(), pool)
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "", "owning cluster name")
	cmd.Flags().StringVar(&name, "name", "", "node pool name")
	_ = cmd.MarkFlagRequired("cluster")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
