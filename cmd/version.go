package cmd

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"plugdroid.dev/pkg/plugdroid/internal/munge"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the plugdroid build version, the munge store format it reads and writes, and the Go version it was built with.",
		Run: func(cmd *cobra.Command, _ []string) {
			version, goVersion := "unknown", runtime.Version()

			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version, goVersion = info.Main.Version, info.GoVersion
			}

			cmd.Println("plugdroid version\t", version)
			cmd.Println("munge store format\t", munge.CurrentVersion)
			cmd.Println("go version\t", goVersion)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
