package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plugdroid.dev/pkg/plugdroid/internal/domain"
	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

var addVarFlags []string
var addDryRunFlag bool

// addCmd represents the add command.
var addCmd = newAddCmd()

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <plugin-dir>",
		Short: "Install a plugin's configuration edits",
		Long: `Apply the edits declared in <plugin-dir>/plugin.yaml to the project.

Variables referenced as $NAME in the metadata are bound with --var NAME=VALUE;
PACKAGE_NAME defaults to the application package. Edits another plugin
already made are only counted, never duplicated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject()
			if err != nil {
				return err
			}

			vars, err := parseVariables(addVarFlags)
			if err != nil {
				return err
			}

			dir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve plugin dir %s: %w", args[0], err)
			}

			return workflow.Add(cmd.Context(), domain.AddArgs{
				Project:     project,
				PluginDir:   m.Path(dir),
				Variables:   vars,
				PackageName: viper.GetString(packageConfigKey),
				DryRun:      addDryRunFlag,
				OnChange:    viper.GetString(onChangeConfigKey),
			})
		},
	}

	cmd.Flags().StringArrayVar(&addVarFlags, varFlagName, nil, "bind a plugin variable as NAME=VALUE (can be repeated)")
	cmd.Flags().BoolVar(&addDryRunFlag, dryRunFlagName, false, "show the diff without writing files")

	return cmd
}

func init() {
	rootCmd.AddCommand(addCmd)
}

// parseVariables turns NAME=VALUE pairs into bindings. The value may contain
// '=' and may be empty; the name may not.
func parseVariables(pairs []string) (m.Bindings, error) {
	vars := make(m.Bindings, len(pairs))

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --%s %q: expected NAME=VALUE", varFlagName, pair)
		}

		vars[name] = value
	}

	return vars, nil
}
