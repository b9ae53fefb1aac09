package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
	"plugdroid.dev/pkg/plugdroid/internal/munge"
)

// MungeStore persists the munge list of a project.
type MungeStore interface {
	// Load returns the stored list, or an empty one when none was saved yet.
	// Undecodable content yields a *model.StoreCorruptError.
	Load(ctx context.Context, project m.Path) (*munge.List, error)
	// Save replaces the stored list atomically.
	Save(ctx context.Context, project m.Path, list *munge.List) error
	// Path returns where the list of project is stored.
	Path(project m.Path) m.Path
}

// YAMLMungeStore stores the munge list as YAML through a ProjectFSAdapter.
type YAMLMungeStore struct {
	fs ProjectFSAdapter
}

// NewYAMLMungeStore returns a store writing through fs.
func NewYAMLMungeStore(fs ProjectFSAdapter) *YAMLMungeStore {
	return &YAMLMungeStore{fs: fs}
}

// Path returns the store location inside project.
func (s *YAMLMungeStore) Path(project m.Path) m.Path {
	return s.fs.JoinPath(string(project), StateDir, "munges.yaml")
}

// Load reads and validates the stored list.
func (s *YAMLMungeStore) Load(ctx context.Context, project m.Path) (*munge.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(project)

	exists, err := s.fs.Exists(path)
	if err != nil {
		return nil, &m.StoreCorruptError{Path: path, Err: err}
	}

	if !exists {
		slog.Debug("No munge store yet", "path", path)
		return munge.NewList(), nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read munge store", "path", path, "error", err)
		return nil, &m.StoreCorruptError{Path: path, Err: err}
	}

	list := munge.NewList()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(list); err != nil {
		slog.Error("Failed to decode munge store", "path", path, "error", err)
		return nil, &m.StoreCorruptError{Path: path, Err: err}
	}

	if list.Files == nil {
		list.Files = map[m.FileID]*munge.File{}
	}

	if err := list.Validate(); err != nil {
		slog.Error("Invalid munge store", "path", path, "error", err)
		return nil, &m.StoreCorruptError{Path: path, Err: err}
	}

	return list, nil
}

// Save encodes list and writes it atomically.
func (s *YAMLMungeStore) Save(ctx context.Context, project m.Path, list *munge.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.Path(project)

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encode munge store: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode munge store: %w", err)
	}

	if err := s.fs.WriteFile(path, buf.Bytes()); err != nil {
		slog.Error("Failed to write munge store", "path", path, "error", err)
		return fmt.Errorf("write munge store %s: %w", path, err)
	}

	slog.Debug("Saved munge store", "path", path, "entries", list.Len())

	return nil
}
