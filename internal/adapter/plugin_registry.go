package adapter

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

// PluginRegistry records which plugins are installed in a project, with the
// bindings they were installed with.
type PluginRegistry interface {
	List(ctx context.Context, project m.Path) ([]m.InstalledPlugin, error)
	Put(ctx context.Context, project m.Path, plugin m.InstalledPlugin) error
	Delete(ctx context.Context, project m.Path, id m.PluginID) error
}

type registryFile struct {
	Plugins []m.InstalledPlugin `yaml:"plugins"`
}

// YAMLPluginRegistry keeps the registry in .plugdroid/plugins.yaml.
type YAMLPluginRegistry struct {
	fs ProjectFSAdapter
}

// NewYAMLPluginRegistry returns a registry stored through fs.
func NewYAMLPluginRegistry(fs ProjectFSAdapter) *YAMLPluginRegistry {
	return &YAMLPluginRegistry{fs: fs}
}

func (r *YAMLPluginRegistry) path(project m.Path) m.Path {
	return r.fs.JoinPath(string(project), StateDir, "plugins.yaml")
}

// List returns the installed plugins sorted by id.
func (r *YAMLPluginRegistry) List(ctx context.Context, project m.Path) ([]m.InstalledPlugin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := r.path(project)

	exists, err := r.fs.Exists(path)
	if err != nil || !exists {
		return nil, err
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plugin registry %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode plugin registry %s: %w", path, err)
	}

	return file.Plugins, nil
}

// Put adds plugin or replaces the record with the same id.
func (r *YAMLPluginRegistry) Put(ctx context.Context, project m.Path, plugin m.InstalledPlugin) error {
	plugins, err := r.List(ctx, project)
	if err != nil {
		return err
	}

	plugins = slices.DeleteFunc(plugins, func(p m.InstalledPlugin) bool { return p.ID == plugin.ID })
	plugins = append(plugins, plugin)

	return r.save(project, plugins)
}

// Delete removes the record of id; a missing record is not an error.
func (r *YAMLPluginRegistry) Delete(ctx context.Context, project m.Path, id m.PluginID) error {
	plugins, err := r.List(ctx, project)
	if err != nil {
		return err
	}

	kept := slices.DeleteFunc(plugins, func(p m.InstalledPlugin) bool { return p.ID == id })

	return r.save(project, kept)
}

func (r *YAMLPluginRegistry) save(project m.Path, plugins []m.InstalledPlugin) error {
	slices.SortFunc(plugins, func(a, b m.InstalledPlugin) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}

		return 0
	})

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(registryFile{Plugins: plugins}); err != nil {
		return fmt.Errorf("encode plugin registry: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode plugin registry: %w", err)
	}

	path := r.path(project)
	if err := r.fs.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write plugin registry %s: %w", path, err)
	}

	return nil
}
