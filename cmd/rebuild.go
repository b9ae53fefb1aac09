package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plugdroid.dev/pkg/plugdroid/internal/domain"
)

// rebuildCmd represents the rebuild command.
var rebuildCmd = newRebuildCmd()

func newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Recreate the munge state from the installed plugins",
		Long: `Rebuild .plugdroid/munges.yaml from the plugin registry, or from every
plugins/**/plugin.yaml when the registry is empty. Target files are not
touched. Use it when the munge state is reported as corrupt.

Removal details recorded at install time are lost: a plugin removed after a
rebuild puts back the elements it deleted as declared, not byte for byte.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := resolveProject()
			if err != nil {
				return err
			}

			return workflow.Rebuild(cmd.Context(), domain.RebuildArgs{
				Project:     project,
				PackageName: viper.GetString(packageConfigKey),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}
