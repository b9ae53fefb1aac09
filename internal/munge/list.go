package munge

import (
	"fmt"
	"slices"
	"sort"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

// CurrentVersion is the version of the persisted list layout.
const CurrentVersion = 1

// Contribution records that a plugin asserted an edit, and when.
type Contribution struct {
	Plugin m.PluginID `yaml:"plugin"`
	Seq    uint64     `yaml:"seq"`
}

// Entry is one distinct edit at one selector with every plugin that
// contributed it. An entry always has at least one contribution.
type Entry struct {
	Edit    m.Edit         `yaml:"edit"`
	Owners  []Contribution `yaml:"owners"`
	Capture m.Capture      `yaml:"capture,omitempty"`
}

// Count is the number of plugins contributing the entry.
func (e *Entry) Count() int {
	return len(e.Owners)
}

// Latest is the sequence number of the most recent contribution still held.
func (e *Entry) Latest() uint64 {
	var latest uint64
	for _, owner := range e.Owners {
		latest = max(latest, owner.Seq)
	}

	return latest
}

func (e *Entry) ownedBy(plugin m.PluginID) bool {
	return slices.ContainsFunc(e.Owners, func(c Contribution) bool { return c.Plugin == plugin })
}

// Parent groups the entries that target one selector of one file.
type Parent struct {
	Entries map[EditKey]*Entry `yaml:"entries,omitempty"`
	// Baselines are the raw attribute values the file had before the first
	// set-attributes entry touched them.
	Baselines map[string]m.Baseline `yaml:"baselines,omitempty"`
}

// File groups the parents of one target file.
type File struct {
	Parents map[m.Selector]*Parent `yaml:"parents"`
}

// List is the munge multiset of a project: file -> selector -> edit -> owners.
// The zero value is not usable; call NewList.
type List struct {
	Version int                `yaml:"version"`
	Seq     uint64             `yaml:"seq"`
	Files   map[m.FileID]*File `yaml:"files"`
}

// Change is an entry that became visible or invisible.
type Change struct {
	Munge   m.Munge
	Key     EditKey
	Capture m.Capture
}

// NewList returns an empty list.
func NewList() *List {
	return &List{Version: CurrentVersion, Files: map[m.FileID]*File{}}
}

// Increment records every munge's owner as a contributor. It returns the
// munges whose entry went from zero to one contributor; only those must be
// written to the target files. Contributing the same edit twice from the
// same plugin is a no-op.
func (l *List) Increment(munges []m.Munge) ([]Change, error) {
	var visible []Change

	for _, mg := range munges {
		key, err := KeyOf(mg.Edit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mg, err)
		}

		parent := l.parent(mg.File, mg.Parent, true)

		entry, ok := parent.Entries[key]
		if !ok {
			entry = &Entry{Edit: mg.Edit}
			parent.Entries[key] = entry
		}

		if entry.ownedBy(mg.Owner) {
			continue
		}

		l.Seq++
		entry.Owners = append(entry.Owners, Contribution{Plugin: mg.Owner, Seq: l.Seq})

		if entry.Count() == 1 {
			visible = append(visible, Change{Munge: mg, Key: key})
		}
	}

	return visible, nil
}

// Decrement removes every munge's owner from its entry. It returns the
// entries whose last contributor went away, with the capture recorded when
// they were applied; only those must be reverted in the target files.
func (l *List) Decrement(munges []m.Munge) ([]Change, error) {
	var invisible []Change

	for _, mg := range munges {
		key, err := KeyOf(mg.Edit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mg, err)
		}

		parent := l.parent(mg.File, mg.Parent, false)
		if parent == nil {
			continue
		}

		entry, ok := parent.Entries[key]
		if !ok || !entry.ownedBy(mg.Owner) {
			continue
		}

		entry.Owners = slices.DeleteFunc(entry.Owners, func(c Contribution) bool { return c.Plugin == mg.Owner })
		if entry.Count() > 0 {
			continue
		}

		delete(parent.Entries, key)

		invisible = append(invisible, Change{Munge: mg, Key: key, Capture: entry.Capture})
	}

	l.prune()

	return invisible, nil
}

// MungesFor returns every munge the plugin currently contributes, ordered by
// file, selector and contribution sequence.
func (l *List) MungesFor(plugin m.PluginID) []m.Munge {
	type owned struct {
		munge m.Munge
		seq   uint64
	}

	var found []owned

	l.each(func(file m.FileID, sel m.Selector, _ EditKey, entry *Entry) {
		for _, owner := range entry.Owners {
			if owner.Plugin == plugin {
				found = append(found, owned{
					munge: m.Munge{File: file, Parent: sel, Edit: entry.Edit, Owner: plugin},
					seq:   owner.Seq,
				})
			}
		}
	})

	sort.SliceStable(found, func(i, j int) bool { return found[i].seq < found[j].seq })

	out := make([]m.Munge, 0, len(found))
	for _, o := range found {
		out = append(out, o.munge)
	}

	return out
}

// Plugins returns every plugin that contributes at least one entry.
func (l *List) Plugins() []m.PluginID {
	seen := map[m.PluginID]struct{}{}

	l.each(func(_ m.FileID, _ m.Selector, _ EditKey, entry *Entry) {
		for _, owner := range entry.Owners {
			seen[owner.Plugin] = struct{}{}
		}
	})

	out := make([]m.PluginID, 0, len(seen))
	for plugin := range seen {
		out = append(out, plugin)
	}

	slices.Sort(out)

	return out
}

// Count returns how many plugins contribute edit at sel in file.
func (l *List) Count(file m.FileID, sel m.Selector, edit m.Edit) int {
	entry := l.Lookup(file, sel, edit)
	if entry == nil {
		return 0
	}

	return entry.Count()
}

// Lookup returns the entry for an edit, or nil.
func (l *List) Lookup(file m.FileID, sel m.Selector, edit m.Edit) *Entry {
	key, err := KeyOf(edit)
	if err != nil {
		return nil
	}

	parent := l.parent(file, sel, false)
	if parent == nil {
		return nil
	}

	return parent.Entries[key]
}

// SetCapture stores what applying an entry changed.
func (l *List) SetCapture(file m.FileID, sel m.Selector, key EditKey, capture m.Capture) {
	if parent := l.parent(file, sel, false); parent != nil {
		if entry, ok := parent.Entries[key]; ok {
			entry.Capture = capture
		}
	}
}

// AddBaselines records baselines for attributes that have none yet. Known
// baselines are never overwritten: they describe the file before any munge.
func (l *List) AddBaselines(file m.FileID, sel m.Selector, baselines map[string]m.Baseline) {
	parent := l.parent(file, sel, false)
	if parent == nil || len(baselines) == 0 {
		return
	}

	if parent.Baselines == nil {
		parent.Baselines = map[string]m.Baseline{}
	}

	for name, base := range baselines {
		if _, known := parent.Baselines[name]; !known {
			parent.Baselines[name] = base
		}
	}
}

// Empty reports whether no munge is tracked.
func (l *List) Empty() bool {
	return len(l.Files) == 0
}

// Len returns the number of distinct entries.
func (l *List) Len() int {
	n := 0

	l.each(func(m.FileID, m.Selector, EditKey, *Entry) { n++ })

	return n
}

// Clone returns a deep copy so a diff can be computed without touching the
// persisted state until every file is written.
func (l *List) Clone() *List {
	out := &List{Version: l.Version, Seq: l.Seq, Files: make(map[m.FileID]*File, len(l.Files))}

	for fileID, file := range l.Files {
		cf := &File{Parents: make(map[m.Selector]*Parent, len(file.Parents))}

		for sel, parent := range file.Parents {
			cp := &Parent{Entries: make(map[EditKey]*Entry, len(parent.Entries))}

			for key, entry := range parent.Entries {
				ce := *entry
				ce.Owners = slices.Clone(entry.Owners)
				ce.Edit.Attrs = slices.Clone(entry.Edit.Attrs)
				ce.Capture.Baselines = cloneBaselines(entry.Capture.Baselines)
				cp.Entries[key] = &ce
			}

			cp.Baselines = cloneBaselines(parent.Baselines)
			cf.Parents[sel] = cp
		}

		out.Files[fileID] = cf
	}

	return out
}

// Validate checks the invariants of a list read back from disk.
func (l *List) Validate() error {
	if l.Version != CurrentVersion {
		return fmt.Errorf("unsupported munge list version %d", l.Version)
	}

	var err error

	l.each(func(file m.FileID, sel m.Selector, key EditKey, entry *Entry) {
		if err != nil {
			return
		}

		if fileErr := file.Validate(); fileErr != nil {
			err = fileErr
			return
		}

		if entry.Count() == 0 {
			err = fmt.Errorf("%s%s: entry %s has no contributors", file, sel, key)
			return
		}

		want, keyErr := KeyOf(entry.Edit)
		if keyErr != nil {
			err = fmt.Errorf("%s%s: %w", file, sel, keyErr)
			return
		}

		if want != key {
			err = fmt.Errorf("%s%s: entry key %s does not match its edit", file, sel, key)
			return
		}

		for _, owner := range entry.Owners {
			if owner.Seq > l.Seq {
				err = fmt.Errorf("%s%s: contribution of %s is newer than the list", file, sel, owner.Plugin)
				return
			}
		}
	})

	return err
}

func (l *List) parent(file m.FileID, sel m.Selector, create bool) *Parent {
	if l.Files == nil {
		if !create {
			return nil
		}

		l.Files = map[m.FileID]*File{}
	}

	f, ok := l.Files[file]
	if !ok {
		if !create {
			return nil
		}

		f = &File{Parents: map[m.Selector]*Parent{}}
		l.Files[file] = f
	}

	p, ok := f.Parents[sel]
	if !ok {
		if !create {
			return nil
		}

		p = &Parent{Entries: map[EditKey]*Entry{}}
		f.Parents[sel] = p
	}

	if p.Entries == nil {
		p.Entries = map[EditKey]*Entry{}
	}

	return p
}

// prune drops empty parents and files. Parents that still hold baselines
// are kept until the baselines are restored.
func (l *List) prune() {
	for fileID, file := range l.Files {
		for sel, parent := range file.Parents {
			if len(parent.Entries) == 0 && len(parent.Baselines) == 0 {
				delete(file.Parents, sel)
			}
		}

		if len(file.Parents) == 0 {
			delete(l.Files, fileID)
		}
	}
}

// each visits entries in a deterministic order.
func (l *List) each(fn func(file m.FileID, sel m.Selector, key EditKey, entry *Entry)) {
	files := make([]m.FileID, 0, len(l.Files))
	for fileID := range l.Files {
		files = append(files, fileID)
	}

	slices.Sort(files)

	for _, fileID := range files {
		file := l.Files[fileID]

		sels := make([]m.Selector, 0, len(file.Parents))
		for sel := range file.Parents {
			sels = append(sels, sel)
		}

		slices.Sort(sels)

		for _, sel := range sels {
			parent := file.Parents[sel]

			keys := make([]EditKey, 0, len(parent.Entries))
			for key := range parent.Entries {
				keys = append(keys, key)
			}

			slices.Sort(keys)

			for _, key := range keys {
				fn(fileID, sel, key, parent.Entries[key])
			}
		}
	}
}

func cloneBaselines(in map[string]m.Baseline) map[string]m.Baseline {
	if in == nil {
		return nil
	}

	out := make(map[string]m.Baseline, len(in))
	for name, base := range in {
		out[name] = base
	}

	return out
}

// Tracked lists every entry with its contributors in contribution order.
func (l *List) Tracked() []m.TrackedMunge {
	var out []m.TrackedMunge

	l.each(func(file m.FileID, sel m.Selector, _ EditKey, entry *Entry) {
		owners := slices.Clone(entry.Owners)
		sort.Slice(owners, func(i, j int) bool { return owners[i].Seq < owners[j].Seq })

		ids := make([]m.PluginID, 0, len(owners))
		for _, owner := range owners {
			ids = append(ids, owner.Plugin)
		}

		out = append(out, m.TrackedMunge{File: file, Parent: sel, Edit: entry.Edit, Owners: ids})
	})

	return out
}
