package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imamik/gkeops/internal/manifest"
)

// Deploy returns the deploy command.
func Deploy() *cobra.Command {
	var (
		clusterName    string
		file           string
		repo           string
		branch         string
		valuesFile     string
		setValues      []string
		waitDeployment string
		gpuDrivers     bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Render a manifest and apply it to a cluster",
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

			if gpuDrivers {
				return cluster.InstallGPUDrivers(cmd.Context())
			}

			overrides := make(map[string]any, len(setValues))
			for _, kv := range setValues {
				key, value, found := strings.Cut(kv, "=")
				if !found {
					return fmt.Errorf("invalid --set value %q, expected key=value", kv)
				}
				overrides[key] = value
			}
			values, err := manifest.LoadValues(valuesFile, overrides)
			if err != nil {
				return err
			}

			rendered, err := manifest.Render(cmd.Context(), manifest.Source{
				Path:   file,
				Repo:   repo,
				Branch: branch,
			}, values)
			if err != nil {
				return err
			}
			if err := cluster.Deploy(cmd.Context(), rendered); err != nil {
				return err
			}

			if waitDeployment != "" {
				client, err := cluster.Workload(cmd.Context())
				if err != nil {
					return err
				}
				return client.WaitForDeployment(cmd.Context(), waitDeployment, "default")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster", "", "target cluster name")
	cmd.Flags().StringVar(&file, "file", "", "manifest path (local, or within --repo)")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository to fetch the manifest from")
	cmd.Flags().StringVar(&branch, "branch", "", "branch within --repo (default: main, then master)")
	cmd.Flags().StringVar(&valuesFile, "values", "", "YAML file with template values")
	cmd.Flags().StringArrayVar(&setValues, "set", nil, "template value overrides (key=value)")
	cmd.Flags().StringVar(&waitDeployment, "wait-deployment", "", "wait for this deployment to become ready after applying")
	cmd.Flags().BoolVar(&gpuDrivers, "gpu-drivers", false, "install the NVIDIA driver daemon set instead of a manifest")
	_ = cmd.MarkFlagRequired("cluster")
	return cmd
}
