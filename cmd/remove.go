package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plugdroid.dev/pkg/plugdroid/internal/domain"
	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

var removeDryRunFlag bool

// removeCmd represents the remove command.
var removeCmd = newRemoveCmd()

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <plugin-id>",
		Aliases: []string{"rm"},
		Short:   "Uninstall a plugin's configuration edits",
		Long: `Revert every edit the plugin made that no other installed plugin still
needs. The plugin metadata is not read; the recorded munge state is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject()
			if err != nil {
				return err
			}

			return workflow.Remove(cmd.Context(), domain.RemoveArgs{
				Project:  project,
				Plugin:   m.PluginID(args[0]),
				DryRun:   removeDryRunFlag,
				OnChange: viper.GetString(onChangeConfigKey),
			})
		},
	}

	cmd.Flags().BoolVar(&removeDryRunFlag, dryRunFlagName, false, "show the diff without writing files")

	return cmd
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
