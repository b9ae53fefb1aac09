package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"plugdroid.dev/pkg/plugdroid/internal/adapter"
	m "plugdroid.dev/pkg/plugdroid/internal/model"
	"plugdroid.dev/pkg/plugdroid/internal/munge"
)

// PluginBinding is a plugin together with the variables it is installed with.
type PluginBinding struct {
	Spec      m.PluginSpec
	Variables m.Bindings
}

// OperationOption tunes a single orchestrator operation.
type OperationOption func(*operationConfig)

type operationConfig struct {
	dryRun bool
}

// WithDryRun computes the diff of every file without writing files or the
// munge store.
func WithDryRun() OperationOption {
	return func(c *operationConfig) {
		c.dryRun = true
	}
}

// Orchestrator installs and uninstalls plugins: it merges their munges into
// the persisted munge list, commits the resulting per-file plans and saves
// the list only when every file succeeded.
type Orchestrator interface {
	AddPlugin(ctx context.Context, project m.Path, plugin m.PluginSpec, vars m.Bindings, opts ...OperationOption) (*m.OperationReport, error)
	RemovePlugin(ctx context.Context, project m.Path, id m.PluginID, opts ...OperationOption) (*m.OperationReport, error)
	// Rebuild recreates the munge list from the given plugins without
	// touching target files, and saves it.
	Rebuild(ctx context.Context, project m.Path, plugins []PluginBinding) (*munge.List, error)
}

type orchestrator struct {
	store    adapter.MungeStore
	editor   Editor
	parallel int
}

// NewOrchestrator constructs an Orchestrator. With parallel above one,
// distinct files are committed concurrently by at most that many workers.
func NewOrchestrator(store adapter.MungeStore, editor Editor, parallel int) Orchestrator {
	return &orchestrator{
		store:    store,
		editor:   editor,
		parallel: parallel,
	}
}

func (o *orchestrator) AddPlugin(
	ctx context.Context,
	project m.Path,
	plugin m.PluginSpec,
	vars m.Bindings,
	opts ...OperationOption,
) (*m.OperationReport, error) {
	cfg := applyOptions(opts)
	report := &m.OperationReport{Kind: m.OpAdd, Plugin: plugin.ID, State: m.Pending, DryRun: cfg.dryRun}

	munges, err := munge.Build(plugin, vars)
	if err != nil {
		return o.failed(report, fmt.Errorf("build munges: %w", err))
	}

	list, err := o.store.Load(ctx, project)
	if err != nil {
		return o.failed(report, err)
	}

	next := list.Clone()

	visible, err := next.Increment(munges)
	if err != nil {
		return o.failed(report, fmt.Errorf("count munges: %w", err))
	}

	plans := munge.Plan(next, visible, nil, munges)
	report.State = m.MungesComputed

	slog.Info("Adding plugin", "plugin", plugin.ID, "munges", len(munges), "new", len(visible), "files", len(plans))

	return o.finish(ctx, project, report, next, plans, cfg)
}

func (o *orchestrator) RemovePlugin(ctx context.Context, project m.Path, id m.PluginID, opts ...OperationOption) (*m.OperationReport, error) {
	cfg := applyOptions(opts)
	report := &m.OperationReport{Kind: m.OpRemove, Plugin: id, State: m.Pending, DryRun: cfg.dryRun}

	list, err := o.store.Load(ctx, project)
	if err != nil {
		return o.failed(report, err)
	}

	munges := list.MungesFor(id)
	if len(munges) == 0 {
		slog.Info("Plugin has no tracked munges", "plugin", id)
	}

	next := list.Clone()

	invisible, err := next.Decrement(munges)
	if err != nil {
		return o.failed(report, fmt.Errorf("count munges: %w", err))
	}

	plans := munge.Plan(next, nil, invisible, munges)
	report.State = m.MungesComputed

	slog.Info("Removing plugin", "plugin", id, "munges", len(munges), "gone", len(invisible), "files", len(plans))

	return o.finish(ctx, project, report, next, plans, cfg)
}

func (o *orchestrator) Rebuild(ctx context.Context, project m.Path, plugins []PluginBinding) (*munge.List, error) {
	list := munge.NewList()

	for _, plugin := range plugins {
		munges, err := munge.Build(plugin.Spec, plugin.Variables)
		if err != nil {
			slog.Error("Failed to rebuild plugin munges", "plugin", plugin.Spec.ID, "error", err)
			return nil, fmt.Errorf("rebuild %s: %w", plugin.Spec.ID, err)
		}

		if _, err := list.Increment(munges); err != nil {
			return nil, fmt.Errorf("rebuild %s: %w", plugin.Spec.ID, err)
		}
	}

	if err := o.store.Save(ctx, project, list); err != nil {
		return nil, fmt.Errorf("%w: %w", m.ErrIO, err)
	}

	slog.Info("Rebuilt munge store", "plugins", len(plugins), "entries", list.Len())

	return list, nil
}

// finish commits the plans, records captures into next and saves it.
func (o *orchestrator) finish(
	ctx context.Context,
	project m.Path,
	report *m.OperationReport,
	next *munge.List,
	plans []munge.FilePlan,
	cfg operationConfig,
) (*m.OperationReport, error) {
	results := o.commitAll(ctx, project, plans, cfg.dryRun)

	var errs []error

	for i, result := range results {
		report.Files = append(report.Files, result.Report)

		if result.Report.Err != nil {
			errs = append(errs, result.Report.Err)
			continue
		}

		file := plans[i].File

		for _, c := range result.Captures {
			next.SetCapture(file, c.Parent, c.Key, c.Capture)
		}

		for _, b := range result.Baselines {
			next.AddBaselines(file, b.Parent, b.Baselines)
		}
	}

	if len(errs) > 0 {
		slog.Error("Operation left some files unchanged", "plugin", report.Plugin, "failed", report.FailedFiles(), "modified", report.Modified())
		return o.failed(report, errors.Join(errs...))
	}

	report.State = m.DiffApplied

	if cfg.dryRun {
		report.State = m.Done
		return report, nil
	}

	if err := o.store.Save(ctx, project, next); err != nil {
		return o.failed(report, fmt.Errorf("%w: %w", m.ErrIO, err))
	}

	report.State = m.StoreSaved
	slog.Debug("Saved munge state", "plugin", report.Plugin, "entries", next.Len())

	report.State = m.Done

	return report, nil
}

func (o *orchestrator) commitAll(ctx context.Context, project m.Path, plans []munge.FilePlan, dryRun bool) []CommitResult {
	results := make([]CommitResult, len(plans))

	if o.parallel <= 1 {
		for i, plan := range plans {
			results[i] = o.editor.Commit(ctx, project, plan, dryRun)
		}

		return results
	}

	var group errgroup.Group

	group.SetLimit(o.parallel)

	for i, plan := range plans {
		i, plan := i, plan
		group.Go(func() error {
			// each file belongs to exactly one worker
			results[i] = o.editor.Commit(ctx, project, plan, dryRun)
			return nil
		})
	}

	_ = group.Wait()

	return results
}

func (o *orchestrator) failed(report *m.OperationReport, err error) (*m.OperationReport, error) {
	slog.Error("Plugin operation failed", "kind", report.Kind, "plugin", report.Plugin, "state", report.State, "error", err)

	report.State = m.Failed
	report.Err = err

	return report, err
}

func applyOptions(opts []OperationOption) operationConfig {
	var cfg operationConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
