package munge

import (
	"slices"
	"sort"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

// AttributePlan is the resolved attribute state of one node after an
// operation.
type AttributePlan struct {
	Parent m.Selector
	// Set holds the plain values the winning entries assign.
	Set map[string]string
	// Restore holds raw baseline values for attributes no entry claims any
	// more; absent baselines mean the attribute is removed.
	Restore map[string]m.Baseline
	// NeedBaseline lists attributes in Set whose pre-munge value has not
	// been captured yet. The editor reads them from the file before writing.
	NeedBaseline []string
}

// FilePlan is everything an operation must do to one target file.
type FilePlan struct {
	File m.FileID
	// Apply holds add-child and remove-child entries that became visible.
	Apply []Change
	// Revert holds add-child and remove-child entries that became invisible.
	Revert []Change
	// Attributes holds one plan per node touched by a set-attributes munge.
	Attributes []AttributePlan
	// Removed holds, per parent, the original indices of remove-child
	// entries that stay applied through the operation.
	Removed map[m.Selector][]int
}

// Empty reports whether the plan changes nothing.
func (p FilePlan) Empty() bool {
	return len(p.Apply) == 0 && len(p.Revert) == 0 && len(p.Attributes) == 0
}

// Len is the number of edits the plan carries.
func (p FilePlan) Len() int {
	return len(p.Apply) + len(p.Revert) + len(p.Attributes)
}

// Plan groups the outcome of Increment or Decrement per target file. l must
// be the list after the operation: baselines that get restored are dropped
// from it, so it is meant to be a Clone that is only saved once every file
// has been written.
//
// touched are the munges of the operation; every node they set attributes on
// is re-resolved as the baseline overlaid by the remaining set-attributes
// entries in ascending order of their latest contribution.
func Plan(l *List, visible, invisible []Change, touched []m.Munge) []FilePlan {
	plans := map[m.FileID]*FilePlan{}

	get := func(file m.FileID) *FilePlan {
		p, ok := plans[file]
		if !ok {
			p = &FilePlan{File: file}
			plans[file] = p
		}

		return p
	}

	for _, change := range visible {
		if change.Munge.Edit.Kind != m.EditSetAttributes {
			get(change.Munge.File).Apply = append(get(change.Munge.File).Apply, change)
		}
	}

	// reverts run newest first so nested inverses unwind in order
	for i := len(invisible) - 1; i >= 0; i-- {
		change := invisible[i]
		if change.Munge.Edit.Kind != m.EditSetAttributes {
			get(change.Munge.File).Revert = append(get(change.Munge.File).Revert, change)
		}
	}

	type node struct {
		file m.FileID
		sel  m.Selector
	}

	var nodes []node

	seen := map[node]struct{}{}

	for _, mg := range touched {
		if mg.Edit.Kind != m.EditSetAttributes {
			continue
		}

		n := node{file: mg.File, sel: mg.Parent}
		if _, dup := seen[n]; !dup {
			seen[n] = struct{}{}
			nodes = append(nodes, n)
		}
	}

	for _, n := range nodes {
		attr, ok := l.resolve(n.file, n.sel)
		if ok {
			get(n.file).Attributes = append(get(n.file).Attributes, attr)
		}
	}

	l.prune()

	out := make([]FilePlan, 0, len(plans))
	for _, p := range plans {
		p.Removed = l.removedIndices(p.File)
		out = append(out, *p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })

	return out
}

// Effective returns the attribute values the set-attributes entries at a
// node currently resolve to.
func (l *List) Effective(file m.FileID, sel m.Selector) map[string]string {
	parent := l.parent(file, sel, false)
	if parent == nil {
		return map[string]string{}
	}

	return effective(parent)
}

func effective(parent *Parent) map[string]string {
	var entries []*Entry

	for _, entry := range parent.Entries {
		if entry.Edit.Kind == m.EditSetAttributes {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Latest() < entries[j].Latest() })

	out := map[string]string{}

	for _, entry := range entries {
		for _, attr := range entry.Edit.Attrs {
			out[attr.Name] = attr.Value
		}
	}

	return out
}

func (l *List) resolve(file m.FileID, sel m.Selector) (AttributePlan, bool) {
	parent := l.parent(file, sel, false)
	if parent == nil {
		return AttributePlan{}, false
	}

	plan := AttributePlan{Parent: sel, Set: effective(parent), Restore: map[string]m.Baseline{}}

	for name := range plan.Set {
		if _, ok := parent.Baselines[name]; !ok {
			plan.NeedBaseline = append(plan.NeedBaseline, name)
		}
	}

	slices.Sort(plan.NeedBaseline)

	for name, base := range parent.Baselines {
		if _, claimed := plan.Set[name]; !claimed {
			plan.Restore[name] = base
			delete(parent.Baselines, name)
		}
	}

	if len(plan.Set) == 0 && len(plan.Restore) == 0 {
		return AttributePlan{}, false
	}

	return plan, true
}

func (l *List) removedIndices(file m.FileID) map[m.Selector][]int {
	f, ok := l.Files[file]
	if !ok {
		return nil
	}

	out := map[m.Selector][]int{}

	for sel, parent := range f.Parents {
		for _, entry := range parent.Entries {
			if entry.Edit.Kind == m.EditRemoveChild && entry.Capture.Removed != "" {
				out[sel] = append(out[sel], entry.Capture.Index)
			}
		}
	}

	return out
}
