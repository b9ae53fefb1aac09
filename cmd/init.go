package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
	"plugdroid.dev/pkg/plugdroid/internal/munge"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prepare a project and write a default plugdroid.yaml",
		Long: `Create a plugdroid.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually, and prepare the project's
munge state: an empty .plugdroid/munges.yaml is created unless the project
already tracks munges.

The project is the one given with --project, or the working directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			project, err := initProject()
			if err != nil {
				return err
			}

			created, err := prepareProject(cmd.Context(), project)
			if err != nil {
				return err
			}

			if created {
				cmd.Printf("Created %s\n", mungeStore.Path(project))
			} else {
				cmd.Printf("Keeping existing %s\n", mungeStore.Path(project))
			}

			return nil
		},
	}
}

// initProject is the explicit project, or the working directory: init marks
// a project, so it never searches parent directories.
func initProject() (m.Path, error) {
	dir := viper.GetString(projectConfigKey)
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project %s: %w", dir, err)
	}

	return m.Path(abs), nil
}

// prepareProject saves an empty munge list unless one is stored already.
func prepareProject(ctx context.Context, project m.Path) (bool, error) {
	exists, err := projectFSAdapter.Exists(mungeStore.Path(project))
	if err != nil {
		return false, fmt.Errorf("check munge store: %w", err)
	}

	if exists {
		return false, nil
	}

	if err := mungeStore.Save(ctx, project, munge.NewList()); err != nil {
		return false, fmt.Errorf("prepare munge store: %w", err)
	}

	return true, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
