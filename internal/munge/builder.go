package munge

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
	"plugdroid.dev/pkg/plugdroid/internal/xmldoc"
)

// PackageNameVariable is bound to the application package when the caller
// and the plugin leave it unset.
const PackageNameVariable = "PACKAGE_NAME"

var variablePattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// Build expands a plugin's declared edits into munges owned by the plugin.
// Caller bindings win over the plugin's variable defaults. When any variable
// is left unbound the whole plugin fails with an UnresolvedVariableError
// naming every missing variable, and no munge is returned.
func Build(plugin m.PluginSpec, vars m.Bindings) ([]m.Munge, error) {
	if err := plugin.Validate(); err != nil {
		return nil, err
	}

	bindings := m.Bindings{}

	var missing []string

	for _, v := range plugin.Variables {
		if v.Default != nil {
			bindings[v.Name] = *v.Default
		}
	}

	for name, value := range vars {
		bindings[name] = value
	}

	for _, v := range plugin.Variables {
		if _, ok := bindings[v.Name]; !ok {
			missing = append(missing, v.Name)
		}
	}

	s := &substituter{bindings: bindings, missing: map[string]struct{}{}}
	for _, name := range missing {
		s.missing[name] = struct{}{}
	}

	var munges []m.Munge

	for i, decl := range plugin.Edits {
		built, err := s.expand(plugin.ID, decl)
		if err != nil {
			return nil, fmt.Errorf("plugin %s edit #%d: %w", plugin.ID, i+1, err)
		}

		munges = append(munges, built...)
	}

	if len(s.missing) > 0 {
		names := make([]string, 0, len(s.missing))
		for name := range s.missing {
			names = append(names, name)
		}

		slices.Sort(names)

		slog.Error("Unresolved plugin variables", "plugin", plugin.ID, "variables", names)

		return nil, &m.UnresolvedVariableError{Plugin: plugin.ID, Names: names}
	}

	slog.Debug("Built munges", "plugin", plugin.ID, "count", len(munges))

	return munges, nil
}

type substituter struct {
	bindings m.Bindings
	missing  map[string]struct{}
}

func (s *substituter) replace(text string) string {
	return variablePattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[1:]
		if value, ok := s.bindings[name]; ok {
			return value
		}

		s.missing[name] = struct{}{}

		return token
	})
}

func (s *substituter) expand(owner m.PluginID, decl m.DeclaredEdit) ([]m.Munge, error) {
	kind, err := decl.Kind()
	if err != nil {
		return nil, err
	}

	file := m.FileID(s.replace(decl.File))
	if err := file.Validate(); err != nil {
		return nil, err
	}

	sel := m.Selector(s.replace(decl.Parent))

	if err := xmldoc.ValidateSelector(sel); err != nil {
		// an unbound variable inside a predicate is reported as unresolved
		if len(s.missing) > 0 {
			return nil, nil
		}

		return nil, err
	}

	if kind == m.EditSetAttributes {
		set := make(map[string]string, len(decl.Set))
		for name, value := range decl.Set {
			set[name] = s.replace(value)
		}

		return []m.Munge{{File: file, Parent: sel, Edit: m.SetAttributes(set), Owner: owner}}, nil
	}

	snippet := decl.Add
	if kind == m.EditRemoveChild {
		snippet = decl.Remove
	}

	fragments, err := xmldoc.SplitFragments(s.replace(snippet))
	if err != nil {
		if len(s.missing) > 0 {
			return nil, nil
		}

		return nil, err
	}

	out := make([]m.Munge, 0, len(fragments))
	for _, fragment := range fragments {
		out = append(out, m.Munge{File: file, Parent: sel, Edit: m.Edit{Kind: kind, XML: fragment}, Owner: owner})
	}

	return out, nil
}
