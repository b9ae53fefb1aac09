// Package cmd provides the root command and CLI setup for plugdroid.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"plugdroid.dev/pkg/plugdroid/internal/adapter"
	"plugdroid.dev/pkg/plugdroid/internal/controller"
	"plugdroid.dev/pkg/plugdroid/internal/domain"
	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

var projectFSAdapter adapter.ProjectFSAdapter
var mungeStore adapter.MungeStore
var pluginRegistry adapter.PluginRegistry
var pluginSource adapter.PluginSource
var hookRunner adapter.HookRunnerAdapter
var editor domain.Editor
var orchestrator domain.Orchestrator
var workflow domain.Workflow
var ui controller.UI

// projectFlag overrides project discovery.
var projectFlag string

// packageFlag binds PACKAGE_NAME when the manifest should not be read.
var packageFlag string

// onChangeFlag is the hook command run after files changed.
var onChangeFlag string

// verboseFlag turns on debug logging.
var verboseFlag bool

// parallelFlag is the number of files committed concurrently.
var parallelFlag int

// hookTimeoutFlag bounds the on-change hook.
var hookTimeoutFlag time.Duration

func init() {
	configureRootFlags(rootCmd)

	projectFSAdapter = adapter.NewLocalProjectFSAdapter()
	mungeStore = adapter.NewYAMLMungeStore(projectFSAdapter)
	pluginRegistry = adapter.NewYAMLPluginRegistry(projectFSAdapter)
	pluginSource = adapter.NewYAMLPluginSource(projectFSAdapter)
	ui = controller.NewSimpleUI(rootCmd)
	editor = domain.NewEditor(projectFSAdapter)
}

// wireWorkflow builds the dependencies that read tunables, once flags,
// environment and config file have all been applied.
func wireWorkflow() {
	hookRunner = adapter.NewLocalHookRunnerAdapter(viper.GetDuration(hookTimeoutConfigKey))
	orchestrator = domain.NewOrchestrator(mungeStore, editor, viper.GetInt(runParallelConfigKey))
	workflow = domain.NewWorkflow(
		projectFSAdapter,
		mungeStore,
		pluginRegistry,
		pluginSource,
		hookRunner,
		ui,
		orchestrator,
	)
}

const rootLongDescription = `plugdroid merges the native configuration edits of hybrid-app plugins
into an Android project.

Every plugin declares the XML it needs in AndroidManifest.xml, config.xml and
res/ files. plugdroid counts which plugins asked for each edit, so an element
shared by two plugins stays until the last of them is removed, and removing a
plugin restores exactly what it changed.

The project is found by walking up from the working directory until a
.plugdroid directory or app/src/main/AndroidManifest.xml is found; use
--project to point at it explicitly.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "plugdroid",
		Short:        "Android plugin configuration merger",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if configErr != nil {
				return fmt.Errorf("read %s: %w", configFileName, configErr)
			}

			configureLogger(viper.GetString(logFilenameKey), verboseFlag)

			if workflow == nil {
				wireWorkflow()
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&projectFlag, projectFlagName, "C", viper.GetString(projectConfigKey), "Android project root (default: discovered from the working directory)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(projectFlagName), projectConfigKey)

	cmd.PersistentFlags().StringVar(&packageFlag, packageFlagName, viper.GetString(packageConfigKey), "application package bound to $PACKAGE_NAME (default: manifest package attribute)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(packageFlagName), packageConfigKey)

	cmd.PersistentFlags().StringVar(&onChangeFlag, onChangeFlagName, viper.GetString(onChangeConfigKey), "shell command run in the project after files changed")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(onChangeFlagName), onChangeConfigKey)

	cmd.PersistentFlags().IntVar(&parallelFlag, parallelFlagName, viper.GetInt(runParallelConfigKey), "number of target files committed concurrently")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(parallelFlagName), runParallelConfigKey)

	cmd.PersistentFlags().DurationVar(&hookTimeoutFlag, hookTimeoutFlagName, viper.GetDuration(hookTimeoutConfigKey), "maximum run time of the on-change hook")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(hookTimeoutFlagName), hookTimeoutConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// resolveProject returns the configured project as an absolute path, or
// discovers it from the working directory.
func resolveProject() (m.Path, error) {
	if project := viper.GetString(projectConfigKey); project != "" {
		abs, err := filepath.Abs(project)
		if err != nil {
			return "", fmt.Errorf("resolve project %s: %w", project, err)
		}

		return m.Path(abs), nil
	}

	return projectFSAdapter.FindProjectRoot(".")
}
