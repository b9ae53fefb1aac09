package cmd

import (
	"github.com/spf13/cobra"

	"plugdroid.dev/pkg/plugdroid/internal/domain"
)

// statusCmd represents the status command.
var statusCmd = newStatusCmd()

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show installed plugins and tracked edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := resolveProject()
			if err != nil {
				return err
			}

			return workflow.Status(cmd.Context(), domain.StatusArgs{Project: project})
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
