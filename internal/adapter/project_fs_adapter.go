// Package adapter contains the infrastructure adapters of plugdroid: the
// project filesystem, the persisted stores, plugin metadata loading and the
// on-change hook runner.
package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

const (
	// StateDir holds plugdroid's own files inside a project.
	StateDir = ".plugdroid"

	dirPerm  = 0o750
	filePerm = 0o644
)

// ProjectFSAdapter abstracts the filesystem operations the domain layer
// needs on an Android project, so workflows can run against an in-memory
// filesystem in tests.
//
//nolint:interfacebloat // The editor and the stores share one filesystem view.
type ProjectFSAdapter interface {
	// ReadFile loads a file and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces a file atomically: content goes to a temporary file
	// in the same directory which is then renamed over path.
	WriteFile(path m.Path, content []byte) error

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Exists reports whether path exists.
	Exists(path m.Path) (bool, error)

	// Glob returns the files under root matching a doublestar pattern
	// (e.g. "plugins/**/plugin.yaml"), as paths joined to root.
	Glob(root m.Path, pattern string) ([]m.Path, error)

	// FindProjectRoot walks up from start looking for a plugdroid state
	// directory or an Android application manifest.
	FindProjectRoot(start m.Path) (m.Path, error)

	// TargetPath resolves a file id inside the project.
	TargetPath(project m.Path, file m.FileID) m.Path

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalProjectFSAdapter implements ProjectFSAdapter on top of an afero
// filesystem.
type LocalProjectFSAdapter struct {
	fs afero.Fs
}

// NewLocalProjectFSAdapter returns an adapter backed by the OS filesystem.
func NewLocalProjectFSAdapter() *LocalProjectFSAdapter {
	return NewProjectFSAdapter(afero.NewOsFs())
}

// NewProjectFSAdapter returns an adapter backed by fs.
func NewProjectFSAdapter(fs afero.Fs) *LocalProjectFSAdapter {
	return &LocalProjectFSAdapter{fs: fs}
}

// ReadFile loads file contents.
func (a *LocalProjectFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return afero.ReadFile(a.fs, string(path))
}

// WriteFile writes content through a temporary sibling file and a rename.
func (a *LocalProjectFSAdapter) WriteFile(path m.Path, content []byte) error {
	target := string(path)
	dir := filepath.Dir(target)

	if err := a.fs.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	perm := os.FileMode(filePerm)
	if info, err := a.fs.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(a.fs, dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()

	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = a.fs.Remove(tmpName)

		return err
	}

	if _, err := tmp.Write(content); err != nil {
		return cleanup(err)
	}

	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}

	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}

	if err := a.fs.Chmod(tmpName, perm); err != nil {
		_ = a.fs.Remove(tmpName)
		return err
	}

	if err := a.fs.Rename(tmpName, target); err != nil {
		_ = a.fs.Remove(tmpName)
		return err
	}

	return nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalProjectFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return a.fs.Stat(string(path))
}

// Exists reports whether path exists.
func (a *LocalProjectFSAdapter) Exists(path m.Path) (bool, error) {
	return afero.Exists(a.fs, string(path))
}

// Glob matches pattern below root.
func (a *LocalProjectFSAdapter) Glob(root m.Path, pattern string) ([]m.Path, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(a.fs, string(root)))

	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	out := make([]m.Path, 0, len(matches))
	for _, match := range matches {
		out = append(out, a.JoinPath(string(root), filepath.FromSlash(match)))
	}

	return out, nil
}

// FindProjectRoot searches for the state directory or the app manifest
// walking up the directory tree.
func (a *LocalProjectFSAdapter) FindProjectRoot(start m.Path) (m.Path, error) {
	dir, err := filepath.Abs(string(start))
	if err != nil {
		return "", err
	}

	manifest := filepath.FromSlash(m.FileID("AndroidManifest.xml").ProjectPath())

	for {
		for _, marker := range []string{StateDir, manifest} {
			ok, err := afero.Exists(a.fs, filepath.Join(dir, marker))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}

			if ok {
				return m.Path(dir), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no Android project found in %s or any parent directory", start)
		}

		dir = parent
	}
}

// TargetPath resolves file inside project.
func (a *LocalProjectFSAdapter) TargetPath(project m.Path, file m.FileID) m.Path {
	return a.JoinPath(string(project), filepath.FromSlash(file.ProjectPath()))
}

// JoinPath joins path elements into a single path.
func (a *LocalProjectFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
