package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pmezard/go-difflib/difflib"

	"plugdroid.dev/pkg/plugdroid/internal/adapter"
	m "plugdroid.dev/pkg/plugdroid/internal/model"
	"plugdroid.dev/pkg/plugdroid/internal/munge"
	"plugdroid.dev/pkg/plugdroid/internal/xmldoc"
)

// AppliedCapture is the capture produced by applying one entry.
type AppliedCapture struct {
	Parent  m.Selector
	Key     munge.EditKey
	Capture m.Capture
}

// CapturedBaselines are attribute values read from a node before the first
// set-attributes entry overwrote them.
type CapturedBaselines struct {
	Parent    m.Selector
	Baselines map[string]m.Baseline
}

// CommitResult is the outcome of committing one file plan.
type CommitResult struct {
	Report    m.FileReport
	Captures  []AppliedCapture
	Baselines []CapturedBaselines
}

// Editor applies file plans to the target files of a project.
type Editor interface {
	// Commit reads the file, reverts, applies and resolves attributes in that
	// order, and writes the file only when its bytes changed. Failures are
	// reported in the result, never returned early.
	Commit(ctx context.Context, project m.Path, plan munge.FilePlan, dryRun bool) CommitResult
}

type editor struct {
	fs adapter.ProjectFSAdapter
}

// NewEditor constructs an Editor writing through fs.
func NewEditor(fs adapter.ProjectFSAdapter) Editor {
	return &editor{fs: fs}
}

func (e *editor) Commit(ctx context.Context, project m.Path, plan munge.FilePlan, dryRun bool) CommitResult {
	path := e.fs.TargetPath(project, plan.File)
	result := CommitResult{Report: m.FileReport{File: plan.File, Path: path}}

	fail := func(err error) CommitResult {
		result.Report.Status = m.FileFailed
		result.Report.Err = err
		result.Captures = nil
		result.Baselines = nil

		slog.Error("Failed to commit file", "file", plan.File, "path", path, "error", err)

		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(m.NewIOError(plan.File, err))
	}

	original, err := e.fs.ReadFile(path)
	if err != nil {
		return fail(m.NewIOError(plan.File, err))
	}

	doc, err := xmldoc.Parse(original)
	if err != nil {
		return fail(m.NewFileParseError(plan.File, err))
	}

	removed := pendingRemovals(plan)

	doc, err = e.revert(doc, plan, removed, &result)
	if err != nil {
		return fail(m.NewFileParseError(plan.File, err))
	}

	doc, err = e.apply(doc, plan, removed, &result)
	if err != nil {
		return fail(m.NewFileParseError(plan.File, err))
	}

	doc, err = e.resolveAttributes(doc, plan, &result)
	if err != nil {
		return fail(m.NewFileParseError(plan.File, err))
	}

	updated := doc.Bytes()
	if string(updated) == string(original) {
		slog.Debug("File unchanged", "file", plan.File)
		return result
	}

	result.Report.Status = m.FileModified

	if dryRun {
		diff, err := unifiedDiff(string(path), original, updated)
		if err != nil {
			return fail(fmt.Errorf("diff %s: %w", path, err))
		}

		result.Report.Diff = diff

		return result
	}

	if err := e.fs.WriteFile(path, updated); err != nil {
		return fail(m.NewIOError(plan.File, err))
	}

	slog.Info("Updated file", "file", plan.File, "applied", result.Report.Applied, "reverted", result.Report.Reverted)

	return result
}

func (e *editor) revert(doc *xmldoc.Document, plan munge.FilePlan, removed removals, result *CommitResult) (*xmldoc.Document, error) {
	for _, change := range plan.Revert {
		mg := change.Munge
		capture := change.Capture

		if mg.Edit.Kind == m.EditRemoveChild && capture.Removed != "" {
			removed.drop(mg.Parent, capture.Index)
			capture.Index = munge.CurrentIndex(capture.Index, removed[mg.Parent])
		}

		next, err := xmldoc.RevertEdit(doc, mg.Parent, mg.Edit, capture)
		if errors.Is(err, m.ErrSelectorNotFound) {
			skip(result, mg, err)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("revert %s: %w", mg, err)
		}

		doc = next
		result.Report.Reverted++
	}

	return doc, nil
}

func (e *editor) apply(doc *xmldoc.Document, plan munge.FilePlan, removed removals, result *CommitResult) (*xmldoc.Document, error) {
	for _, change := range plan.Apply {
		mg := change.Munge

		next, capture, err := xmldoc.ApplyEdit(doc, mg.Parent, mg.Edit)
		if errors.Is(err, m.ErrSelectorNotFound) {
			skip(result, mg, err)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("apply %s: %w", mg, err)
		}

		if mg.Edit.Kind == m.EditRemoveChild && capture.Removed != "" {
			capture.Index = munge.OriginalIndex(capture.Index, removed[mg.Parent])
			removed[mg.Parent] = append(removed[mg.Parent], capture.Index)
		}

		if !capture.IsZero() {
			result.Captures = append(result.Captures, AppliedCapture{Parent: mg.Parent, Key: change.Key, Capture: capture})
		}

		doc = next
		result.Report.Applied++
	}

	return doc, nil
}

func (e *editor) resolveAttributes(doc *xmldoc.Document, plan munge.FilePlan, result *CommitResult) (*xmldoc.Document, error) {
	for _, attr := range plan.Attributes {
		if len(attr.NeedBaseline) > 0 {
			baselines, err := xmldoc.ReadAttributes(doc, attr.Parent, attr.NeedBaseline)
			if errors.Is(err, m.ErrSelectorNotFound) {
				result.Report.Skipped = append(result.Report.Skipped, fmt.Sprintf("%s: %v", attr.Parent, err))
				slog.Warn("Skipping attributes", "file", plan.File, "parent", attr.Parent, "error", err)

				continue
			}

			if err != nil {
				return nil, err
			}

			result.Baselines = append(result.Baselines, CapturedBaselines{Parent: attr.Parent, Baselines: baselines})
		}

		next, err := xmldoc.SetAttributes(doc, attr.Parent, attr.Set, nil)
		if err == nil {
			next, err = xmldoc.RestoreAttributes(next, attr.Parent, attr.Restore)
		}

		if errors.Is(err, m.ErrSelectorNotFound) {
			result.Report.Skipped = append(result.Report.Skipped, fmt.Sprintf("%s: %v", attr.Parent, err))
			slog.Warn("Skipping attributes", "file", plan.File, "parent", attr.Parent, "error", err)

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("attributes of %s: %w", attr.Parent, err)
		}

		doc = next

		if len(attr.Set) > 0 {
			result.Report.Applied++
		}

		if len(attr.Restore) > 0 {
			result.Report.Reverted++
		}
	}

	return doc, nil
}

// removals tracks, per parent, the original indices of children that are
// removed from the document being edited.
type removals map[m.Selector][]int

// pendingRemovals starts from the removals that stay applied and adds the
// ones the plan is about to revert.
func pendingRemovals(plan munge.FilePlan) removals {
	out := removals{}
	for sel, indices := range plan.Removed {
		out[sel] = slices.Clone(indices)
	}

	for _, change := range plan.Revert {
		if change.Munge.Edit.Kind == m.EditRemoveChild && change.Capture.Removed != "" {
			sel := change.Munge.Parent
			out[sel] = append(out[sel], change.Capture.Index)
		}
	}

	return out
}

func (r removals) drop(sel m.Selector, index int) {
	if i := slices.Index(r[sel], index); i >= 0 {
		r[sel] = slices.Delete(r[sel], i, i+1)
	}
}

func skip(result *CommitResult, mg m.Munge, err error) {
	result.Report.Skipped = append(result.Report.Skipped, fmt.Sprintf("%s%s [%s]: %v", mg.File, mg.Parent, mg.Edit, err))
	slog.Warn("Skipping munge", "munge", mg.String(), "error", err)
}

func unifiedDiff(name string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}
