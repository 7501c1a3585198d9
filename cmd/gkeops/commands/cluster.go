package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imamik/gkeops/internal/platform/gke"
	"github.com/imamik/gkeops/internal/resource"
)

// Cluster returns the cluster command group.
func Cluster() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Manage GKE clusters",
	}
	cmd.AddCommand(clusterCreate())
	cmd.AddCommand(clusterDelete())
	cmd.AddCommand(clusterList())
	return cmd
}

func clusterCreate() *cobra.Command {
	var (
		name        string
		machineType string
		nodes       int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a cluster and wait for it to become ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildManager(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			spec := resource.ClusterSpec(&gke.Cluster{
				Name:             name,
				InitialNodeCount: nodes,
				NodeConfig:       &gke.NodeConfig{MachineType: machineType},
			})
			node, err := manager.CreateResource(cmd.Context(), spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", node.ResourceName())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "cluster name")
	cmd.Flags().StringVar(&machineType, "machine-type", "n1-standard-4", "machine type for the default pool")
	cmd.Flags().IntVar(&nodes, "nodes", 1, "initial node count")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func clusterDelete() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a cluster and wait for the control plane to confirm",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildManager(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			cluster, ok := manager.Cluster(name)
			if !ok {
				return fmt.Errorf("cluster %s not found under %s", name, manager.ResourceName())
			}
			return manager.DeleteResource(cmd.Context(), cluster)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "cluster name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func clusterList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked clusters and node pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildManager(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			for name, node := range manager.Resources() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", node.Kind(), name)
			}
			return nil
		},
	}
}
