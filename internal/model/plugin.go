package model

import "fmt"

// VariableSpec declares a substitution variable a plugin needs bound.
type VariableSpec struct {
	Name    string  `yaml:"name"`
	Default *string `yaml:"default,omitempty"`
}

// DeclaredEdit is one platform config edit as written in plugin metadata,
// before variable substitution. Exactly one of Add, Remove or Set is set.
type DeclaredEdit struct {
	File   string            `yaml:"file"`
	Parent string            `yaml:"parent"`
	Add    string            `yaml:"add,omitempty"`
	Remove string            `yaml:"remove,omitempty"`
	Set    map[string]string `yaml:"set,omitempty"`
}

// Kind reports which edit variant the declaration describes.
func (d DeclaredEdit) Kind() (EditKind, error) {
	var kinds []EditKind

	if d.Add != "" {
		kinds = append(kinds, EditAddChild)
	}

	if d.Remove != "" {
		kinds = append(kinds, EditRemoveChild)
	}

	if len(d.Set) > 0 {
		kinds = append(kinds, EditSetAttributes)
	}

	if len(kinds) != 1 {
		return "", fmt.Errorf("edit on %s%s must declare exactly one of add, remove or set", d.File, d.Parent)
	}

	return kinds[0], nil
}

// Validate checks the declaration without substituting variables.
func (d DeclaredEdit) Validate() error {
	if d.File == "" {
		return fmt.Errorf("edit is missing its target file")
	}

	if err := FileID(d.File).Validate(); err != nil {
		return err
	}

	if d.Parent == "" {
		return fmt.Errorf("edit on %s is missing its parent selector", d.File)
	}

	_, err := d.Kind()

	return err
}

// PluginSpec is a plugin's platform metadata.
type PluginSpec struct {
	ID        PluginID       `yaml:"id"`
	Version   string         `yaml:"version,omitempty"`
	Variables []VariableSpec `yaml:"variables,omitempty"`
	Edits     []DeclaredEdit `yaml:"edits,omitempty"`

	// Dir is the directory the metadata was loaded from.
	Dir Path `yaml:"-"`
}

// Validate checks the id and every declared edit.
func (p PluginSpec) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("plugin metadata is missing an id")
	}

	for i, edit := range p.Edits {
		if err := edit.Validate(); err != nil {
			return fmt.Errorf("plugin %s edit #%d: %w", p.ID, i+1, err)
		}
	}

	return nil
}

// InstalledPlugin is the registry record kept for every installed plugin so
// the munge state can be rebuilt from scratch.
type InstalledPlugin struct {
	ID        PluginID `yaml:"id"`
	Version   string   `yaml:"version,omitempty"`
	Source    Path     `yaml:"source"`
	Variables Bindings `yaml:"variables,omitempty"`
}
