package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

const (
	// PluginMetadataFile is the metadata file every plugin directory carries.
	PluginMetadataFile = "plugin.yaml"
	// PluginScanPattern finds plugin metadata below a project when the
	// registry is unavailable.
	PluginScanPattern = "plugins/**/" + PluginMetadataFile
)

// PluginSource loads plugin metadata.
type PluginSource interface {
	// Load reads the plugin.yaml of the plugin in dir.
	Load(ctx context.Context, dir m.Path) (m.PluginSpec, error)
	// Scan returns the directories of every plugin below project.
	Scan(ctx context.Context, project m.Path) ([]m.Path, error)
}

// YAMLPluginSource reads plugin.yaml files through a ProjectFSAdapter.
type YAMLPluginSource struct {
	fs ProjectFSAdapter
}

// NewYAMLPluginSource returns a plugin source reading through fs.
func NewYAMLPluginSource(fs ProjectFSAdapter) *YAMLPluginSource {
	return &YAMLPluginSource{fs: fs}
}

// Load reads and validates dir/plugin.yaml. Unknown keys are rejected.
func (s *YAMLPluginSource) Load(ctx context.Context, dir m.Path) (m.PluginSpec, error) {
	if err := ctx.Err(); err != nil {
		return m.PluginSpec{}, err
	}

	path := s.fs.JoinPath(string(dir), PluginMetadataFile)

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return m.PluginSpec{}, fmt.Errorf("read plugin metadata %s: %w", path, err)
	}

	var spec m.PluginSpec

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&spec); err != nil {
		return m.PluginSpec{}, fmt.Errorf("decode plugin metadata %s: %w", path, err)
	}

	if err := spec.Validate(); err != nil {
		return m.PluginSpec{}, fmt.Errorf("invalid plugin metadata %s: %w", path, err)
	}

	spec.Dir = dir

	slog.Debug("Loaded plugin metadata", "plugin", spec.ID, "edits", len(spec.Edits), "path", path)

	return spec, nil
}

// Scan globs PluginScanPattern below project.
func (s *YAMLPluginSource) Scan(ctx context.Context, project m.Path) ([]m.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := s.fs.Glob(project, PluginScanPattern)
	if err != nil {
		return nil, fmt.Errorf("scan plugins in %s: %w", project, err)
	}

	dirs := make([]m.Path, 0, len(files))
	for _, file := range files {
		dirs = append(dirs, m.Path(filepath.Dir(string(file))))
	}

	slices.Sort(dirs)

	return dirs, nil
}
