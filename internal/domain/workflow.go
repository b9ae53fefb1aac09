// Package domain holds plugdroid's use cases: committing munge plans to
// target files, the install/uninstall orchestrator and the workflow the CLI
// drives.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"plugdroid.dev/pkg/plugdroid/internal/adapter"
	"plugdroid.dev/pkg/plugdroid/internal/controller"
	m "plugdroid.dev/pkg/plugdroid/internal/model"
	"plugdroid.dev/pkg/plugdroid/internal/munge"
	"plugdroid.dev/pkg/plugdroid/internal/xmldoc"
)

// AddArgs contains the arguments for installing a plugin.
type AddArgs struct {
	Project   m.Path
	PluginDir m.Path
	Variables m.Bindings
	// PackageName binds PACKAGE_NAME when Variables does not; when both are
	// empty the manifest's package attribute is used.
	PackageName string
	DryRun      bool
	// OnChange is run in the project after files were modified.
	OnChange string
}

// RemoveArgs contains the arguments for uninstalling a plugin.
type RemoveArgs struct {
	Project  m.Path
	Plugin   m.PluginID
	DryRun   bool
	OnChange string
}

// StatusArgs contains the arguments for showing the munge state.
type StatusArgs struct {
	Project m.Path
}

// RebuildArgs contains the arguments for rebuilding the munge store.
type RebuildArgs struct {
	Project     m.Path
	PackageName string
}

// Workflow defines the operations the CLI exposes.
type Workflow interface {
	Add(ctx context.Context, args AddArgs) error
	Remove(ctx context.Context, args RemoveArgs) error
	Status(ctx context.Context, args StatusArgs) error
	Rebuild(ctx context.Context, args RebuildArgs) error
}

type workflow struct {
	adapter.ProjectFSAdapter
	adapter.MungeStore
	adapter.PluginRegistry
	adapter.PluginSource
	adapter.HookRunnerAdapter
	controller.UI
	Orchestrator
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.ProjectFSAdapter,
	store adapter.MungeStore,
	registry adapter.PluginRegistry,
	source adapter.PluginSource,
	hooks adapter.HookRunnerAdapter,
	ui controller.UI,
	orchestrator Orchestrator,
) Workflow {
	return &workflow{
		ProjectFSAdapter:  fsAdapter,
		MungeStore:        store,
		PluginRegistry:    registry,
		PluginSource:      source,
		HookRunnerAdapter: hooks,
		UI:                ui,
		Orchestrator:      orchestrator,
	}
}

func (w *workflow) Add(ctx context.Context, args AddArgs) error {
	spec, err := w.PluginSource.Load(ctx, args.PluginDir)
	if err != nil {
		slog.Error("Failed to load plugin", "dir", args.PluginDir, "error", err)
		return fmt.Errorf("load plugin: %w", err)
	}

	vars := args.Variables.Clone()
	if _, ok := vars[munge.PackageNameVariable]; !ok {
		if pkg := w.packageName(args.Project, args.PackageName); pkg != "" {
			vars[munge.PackageNameVariable] = pkg
		}
	}

	report, err := w.AddPlugin(ctx, args.Project, spec, vars, operationOptions(args.DryRun)...)
	if displayErr := w.display(ctx, report); displayErr != nil {
		return displayErr
	}

	if err != nil {
		return fmt.Errorf("add %s: %w", spec.ID, err)
	}

	if !args.DryRun {
		record := m.InstalledPlugin{ID: spec.ID, Version: spec.Version, Source: args.PluginDir, Variables: args.Variables}
		if err := w.Put(ctx, args.Project, record); err != nil {
			slog.Error("Failed to record installed plugin", "plugin", spec.ID, "error", err)
			return fmt.Errorf("record %s: %w", spec.ID, err)
		}
	}

	w.runHook(ctx, args.Project, args.OnChange, report)

	return nil
}

func (w *workflow) Remove(ctx context.Context, args RemoveArgs) error {
	report, err := w.RemovePlugin(ctx, args.Project, args.Plugin, operationOptions(args.DryRun)...)
	if displayErr := w.display(ctx, report); displayErr != nil {
		return displayErr
	}

	if err != nil {
		return fmt.Errorf("remove %s: %w", args.Plugin, err)
	}

	if !args.DryRun {
		if err := w.Delete(ctx, args.Project, args.Plugin); err != nil {
			slog.Error("Failed to forget installed plugin", "plugin", args.Plugin, "error", err)
			return fmt.Errorf("forget %s: %w", args.Plugin, err)
		}
	}

	w.runHook(ctx, args.Project, args.OnChange, report)

	return nil
}

func (w *workflow) Status(ctx context.Context, args StatusArgs) error {
	list, err := w.MungeStore.Load(ctx, args.Project)
	if err != nil {
		slog.Error("Failed to load munge store", "project", args.Project, "error", err)
		return fmt.Errorf("load munge store: %w", err)
	}

	plugins, err := w.List(ctx, args.Project)
	if err != nil {
		slog.Error("Failed to list installed plugins", "project", args.Project, "error", err)
		return fmt.Errorf("list plugins: %w", err)
	}

	return w.DisplayStatus(ctx, m.ProjectStatus{
		Project: args.Project,
		Plugins: plugins,
		Munges:  list.Tracked(),
	})
}

// Rebuild recreates the munge store from the registry, or from the plugins
// found under plugins/ when the registry is empty. Target files are not
// touched; captures that only existed in the old store are lost.
func (w *workflow) Rebuild(ctx context.Context, args RebuildArgs) error {
	bindings, err := w.installedBindings(ctx, args)
	if err != nil {
		return err
	}

	list, err := w.Orchestrator.Rebuild(ctx, args.Project, bindings)
	if err != nil {
		return fmt.Errorf("rebuild munge store: %w", err)
	}

	ids := make([]m.PluginID, 0, len(bindings))
	for _, binding := range bindings {
		ids = append(ids, binding.Spec.ID)
	}

	return w.DisplayRebuild(ctx, ids, list.Len())
}

func (w *workflow) installedBindings(ctx context.Context, args RebuildArgs) ([]PluginBinding, error) {
	installed, err := w.List(ctx, args.Project)
	if err != nil {
		slog.Error("Failed to read plugin registry", "project", args.Project, "error", err)
		return nil, fmt.Errorf("list plugins: %w", err)
	}

	if len(installed) == 0 {
		dirs, err := w.Scan(ctx, args.Project)
		if err != nil {
			return nil, err
		}

		for _, dir := range dirs {
			installed = append(installed, m.InstalledPlugin{Source: dir})
		}

		slog.Info("Registry is empty, rebuilding from scanned plugins", "count", len(dirs))
	}

	bindings := make([]PluginBinding, 0, len(installed))

	for _, record := range installed {
		spec, err := w.PluginSource.Load(ctx, record.Source)
		if err != nil {
			slog.Error("Failed to load plugin", "dir", record.Source, "error", err)
			return nil, fmt.Errorf("load plugin: %w", err)
		}

		vars := record.Variables.Clone()
		if _, ok := vars[munge.PackageNameVariable]; !ok {
			if pkg := w.packageName(args.Project, args.PackageName); pkg != "" {
				vars[munge.PackageNameVariable] = pkg
			}
		}

		bindings = append(bindings, PluginBinding{Spec: spec, Variables: vars})
	}

	return bindings, nil
}

// packageName prefers the configured package and falls back to the package
// attribute of the application manifest.
func (w *workflow) packageName(project m.Path, configured string) string {
	if configured != "" {
		return configured
	}

	data, err := w.ReadFile(w.TargetPath(project, "AndroidManifest.xml"))
	if err != nil {
		return ""
	}

	doc, err := xmldoc.Parse(data)
	if err != nil {
		return ""
	}

	pkg, _ := doc.Root.Attr("package")

	return pkg
}

func (w *workflow) display(ctx context.Context, report *m.OperationReport) error {
	if report == nil {
		return nil
	}

	if err := w.DisplayOperation(ctx, report); err != nil {
		slog.Error("Failed to display report", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// runHook fires the on-change hook. A failing hook is reported but never
// undoes the operation.
func (w *workflow) runHook(ctx context.Context, project m.Path, command string, report *m.OperationReport) {
	if command == "" || report == nil || !report.Changed() {
		return
	}

	output, err := w.Run(ctx, project, command)
	if err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			slog.Error("On-change hook failed", "command", command, "exit", exitErr.ExitCode())
		} else {
			slog.Error("On-change hook failed", "command", command, "error", err)
		}
	}

	w.DisplayHook(ctx, command, output, err)
}

func operationOptions(dryRun bool) []OperationOption {
	if dryRun {
		return []OperationOption{WithDryRun()}
	}

	return nil
}
