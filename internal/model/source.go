// Package model defines the data structures shared by the munge engine.
package model

import (
	"fmt"
	"path"
	"strings"
)

// Path represents a file system path.
type Path string

// PluginID identifies an installed plugin (e.g. "cordova-plugin-camera").
type PluginID string

// FileID names a target file the way plugins declare it. Aliases such as
// "AndroidManifest.xml" resolve to their location in the Android project.
type FileID string

// Selector addresses a node inside a target document. Two selectors are the
// same place only when the strings are equal.
type Selector string

const (
	// AndroidSourceRoot is where the application module keeps its sources.
	AndroidSourceRoot = "app/src/main"

	manifestAlias = "AndroidManifest.xml"
	configAlias   = "config.xml"
	resPrefix     = "res/"
)

// ProjectPath resolves the file id to a slash separated path relative to the
// project root.
//
//   - AndroidManifest.xml -> app/src/main/AndroidManifest.xml
//   - config.xml          -> app/src/main/res/xml/config.xml
//   - res/...             -> app/src/main/res/...
//   - anything else is taken relative to the project root.
func (f FileID) ProjectPath() string {
	id := path.Clean(strings.TrimPrefix(strings.ReplaceAll(string(f), "\\", "/"), "/"))

	switch {
	case id == manifestAlias:
		return path.Join(AndroidSourceRoot, manifestAlias)
	case id == configAlias || id == "res/xml/config.xml":
		return path.Join(AndroidSourceRoot, "res", "xml", configAlias)
	case strings.HasPrefix(id, resPrefix):
		return path.Join(AndroidSourceRoot, id)
	}

	return id
}

// Validate rejects ids that resolve outside the project root.
func (f FileID) Validate() error {
	p := f.ProjectPath()
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return fmt.Errorf("target file %q resolves outside the project", f)
	}

	return nil
}

// Bindings maps substitution variable names to their values for one
// install operation.
type Bindings map[string]string

// Clone returns an independent copy of the bindings.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}

	return out
}
