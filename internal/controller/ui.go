// Package controller provides output adapters for displaying plugin
// operations and munge state.
package controller

import (
	"context"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

// UI defines how workflow results are shown to the user.
type UI interface {
	DisplayOperation(ctx context.Context, report *m.OperationReport) error
	DisplayStatus(ctx context.Context, status m.ProjectStatus) error
	DisplayRebuild(ctx context.Context, plugins []m.PluginID, entries int) error
	DisplayHook(ctx context.Context, command, output string, err error)
}
