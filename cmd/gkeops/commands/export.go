package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gkeops/internal/platform/objstore"
)

// Export returns the export command.
func Export() *cobra.Command {
	var (
		dir   string
		fresh bool
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a local model repository to object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := objstore.NewClient(cmd.Context(), objstore.Options{
				Endpoint:  cfg.ObjectStore.Endpoint,
				Region:    cfg.ObjectStore.Region,
				AccessKey: cfg.ObjectStore.AccessKey,
				SecretKey: cfg.ObjectStore.SecretKey,
				Bucket:    cfg.ObjectStore.Bucket,
			})
			if err != nil {
				return err
			}
			if err := client.EnsureBucket(cmd.Context()); err != nil {
				return err
			}
			return client.Export(cmd.Context(), dir, fresh, clear)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "local repository directory")
	cmd.Flags().BoolVar(&fresh, "fresh", true, "wipe the bucket before uploading")
	cmd.Flags().BoolVar(&clear, "clear", false, "remove local subdirectories after upload")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
