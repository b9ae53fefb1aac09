// Package main is the entry point for the plugdroid CLI.
package main

import "plugdroid.dev/pkg/plugdroid/cmd"

func main() {
	cmd.Execute()
}
