// Package commands defines the CLI command structure and flag bindings.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imamik/gkeops/internal/config"
	"github.com/imamik/gkeops/internal/platform/gke"
	"github.com/imamik/gkeops/internal/resource"
)

var configPath string

// Root returns the root command for the gkeops CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gkeops",
		Short: "Provision GKE clusters and node pools and deploy workloads",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "gkeops.yaml", "path to the config file")

	cmd.AddCommand(Cluster())
	cmd.AddCommand(NodePool())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Export())
	cmd.AddCommand(Version())

	return cmd
}

// loadConfig reads the config file named by the --config flag.
func loadConfig() (*config.Config, error) {
	return config.LoadFile(configPath)
}

// buildCredentials turns the config's token settings into credentials,
// falling back to the instance metadata server when no token is supplied.
func buildCredentials(ctx context.Context, cfg *config.Config) (*gke.Credentials, error) {
	if cfg.Token != "" {
		return gke.StaticCredentials(cfg.Token), nil
	}
	return gke.MetadataCredentials(ctx)
}

// buildManager wires up the cluster manager for the configured scope.
func buildManager(ctx context.Context, cfg *config.Config) (*resource.ClusterManager, error) {
	creds, err := buildCredentials(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build credentials: %w", err)
	}
	timeouts := config.LoadTimeouts()
	return resource.NewClusterManager(ctx, cfg.Project, cfg.Location, creds,
		resource.WithThrottleInterval(cfg.ThrottleInterval),
		resource.WithPollInterval(timeouts.PollInterval),
	)
}
