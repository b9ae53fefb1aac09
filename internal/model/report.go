package model

// OpState is the progress of one plugin operation.
type OpState int

const (
	// Pending means nothing has been computed yet.
	Pending OpState = iota
	// MungesComputed means the multiset diff is known; no file written yet.
	MungesComputed
	// DiffApplied means every affected file was written successfully.
	DiffApplied
	// StoreSaved means the persisted munge state reflects the new files.
	StoreSaved
	// Done means the operation completed.
	Done
	// Failed is reachable from any state.
	Failed
)

func (s OpState) String() string {
	switch s {
	case Pending:
		return "pending"
	case MungesComputed:
		return "munges-computed"
	case DiffApplied:
		return "diff-applied"
	case StoreSaved:
		return "store-saved"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// OpKind distinguishes installs from uninstalls.
type OpKind string

// Available OpKind values.
const (
	OpAdd    OpKind = "add"
	OpRemove OpKind = "remove"
)

// FileStatus is the outcome of committing a plan to one target file.
type FileStatus int

const (
	// FileUnchanged means the file content did not change.
	FileUnchanged FileStatus = iota
	// FileModified means new content was written (or would be, in a dry run).
	FileModified
	// FileFailed means the file could not be parsed, read or written.
	FileFailed
)

func (s FileStatus) String() string {
	switch s {
	case FileUnchanged:
		return "unchanged"
	case FileModified:
		return "modified"
	case FileFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileReport describes what happened to one target file.
type FileReport struct {
	File     FileID
	Path     Path
	Status   FileStatus
	Applied  int
	Reverted int
	// Skipped lists edits whose selector could not be found.
	Skipped []string
	Err     error
	// Diff is a unified diff of the change, filled in dry runs.
	Diff string
}

// OperationReport summarises one add or remove.
type OperationReport struct {
	Kind   OpKind
	Plugin PluginID
	State  OpState
	DryRun bool
	Files  []FileReport
	Err    error
}

// Modified lists the files whose content changed.
func (r *OperationReport) Modified() []FileID {
	return r.filesWith(FileModified)
}

// FailedFiles lists the files that could not be committed.
func (r *OperationReport) FailedFiles() []FileID {
	return r.filesWith(FileFailed)
}

// Changed reports whether any target file was written.
func (r *OperationReport) Changed() bool {
	return !r.DryRun && len(r.Modified()) > 0
}

func (r *OperationReport) filesWith(status FileStatus) []FileID {
	var out []FileID

	for _, file := range r.Files {
		if file.Status == status {
			out = append(out, file.File)
		}
	}

	return out
}

// TrackedMunge is one distinct edit held by the munge state with the plugins
// contributing it, oldest first.
type TrackedMunge struct {
	File   FileID
	Parent Selector
	Edit   Edit
	Owners []PluginID
}

// ProjectStatus is what the status command shows.
type ProjectStatus struct {
	Project Path
	Plugins []InstalledPlugin
	Munges  []TrackedMunge
}
