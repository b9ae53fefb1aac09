package model

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EditKind is the closed set of changes a munge can make at a selector.
type EditKind string

const (
	// EditAddChild ensures an element fragment exists as a child of the selected node.
	EditAddChild EditKind = "add-child"
	// EditRemoveChild removes the first child matching an element fragment.
	EditRemoveChild EditKind = "remove-child"
	// EditSetAttributes merges attribute values onto the selected node.
	EditSetAttributes EditKind = "set-attributes"
)

// Attr is a single attribute assignment. Names keep their namespace prefix
// as written (e.g. "android:name").
type Attr struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Edit is the concrete change a munge applies. Only the fields belonging to
// Kind are populated; Validate enforces that.
type Edit struct {
	Kind  EditKind `yaml:"kind"`
	XML   string   `yaml:"xml,omitempty"`
	Attrs []Attr   `yaml:"attrs,omitempty"`
}

// AddChild builds an add-child edit.
func AddChild(fragment string) Edit {
	return Edit{Kind: EditAddChild, XML: fragment}
}

// RemoveChild builds a remove-child edit.
func RemoveChild(fragment string) Edit {
	return Edit{Kind: EditRemoveChild, XML: fragment}
}

// SetAttributes builds a set-attributes edit with attributes sorted by name.
func SetAttributes(attrs map[string]string) Edit {
	list := make([]Attr, 0, len(attrs))
	for name, value := range attrs {
		list = append(list, Attr{Name: name, Value: value})
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	return Edit{Kind: EditSetAttributes, Attrs: list}
}

// Validate checks that the edit is a well formed member of its variant.
func (e Edit) Validate() error {
	switch e.Kind {
	case EditAddChild, EditRemoveChild:
		if e.XML == "" {
			return fmt.Errorf("%s edit requires an xml fragment", e.Kind)
		}

		if len(e.Attrs) > 0 {
			return fmt.Errorf("%s edit must not carry attributes", e.Kind)
		}
	case EditSetAttributes:
		if len(e.Attrs) == 0 {
			return fmt.Errorf("%s edit requires at least one attribute", e.Kind)
		}

		if e.XML != "" {
			return fmt.Errorf("%s edit must not carry an xml fragment", e.Kind)
		}

		seen := make(map[string]struct{}, len(e.Attrs))
		for _, attr := range e.Attrs {
			if attr.Name == "" {
				return fmt.Errorf("%s edit has an attribute without a name", e.Kind)
			}

			if _, dup := seen[attr.Name]; dup {
				return fmt.Errorf("%s edit sets attribute %q twice", e.Kind, attr.Name)
			}

			seen[attr.Name] = struct{}{}
		}
	default:
		return fmt.Errorf("unknown edit kind %q", e.Kind)
	}

	return nil
}

// AttrMap returns the attributes of a set-attributes edit keyed by name.
func (e Edit) AttrMap() map[string]string {
	out := make(map[string]string, len(e.Attrs))
	for _, attr := range e.Attrs {
		out[attr.Name] = attr.Value
	}

	return out
}

func (e Edit) String() string {
	if e.Kind == EditSetAttributes {
		return fmt.Sprintf("%s %v", e.Kind, e.Attrs)
	}

	return fmt.Sprintf("%s %s", e.Kind, e.XML)
}

// Munge asserts that Owner wants Edit to exist at Parent within File.
type Munge struct {
	File   FileID
	Parent Selector
	Edit   Edit
	Owner  PluginID
}

func (m Munge) String() string {
	return fmt.Sprintf("%s %s%s [%s]", m.Owner, m.File, m.Parent, m.Edit)
}

// Capture records what applying an edit changed so it can be reverted
// exactly.
type Capture struct {
	// Removed holds the bytes a remove-child edit cut out, leading
	// whitespace included.
	Removed string `yaml:"removed,omitempty"`
	// Index is the position the removed element had among its siblings
	// with every other removed sibling of the same parent still in place.
	Index int `yaml:"index,omitempty"`
	// Expanded is set when an add-child edit had to open a self-closing
	// parent; Suffix keeps the original "/>" terminator and its spacing.
	Expanded bool   `yaml:"expanded,omitempty"`
	Suffix   string `yaml:"suffix,omitempty"`
	// Preexisting marks an add-child edit that found an equal child already
	// in the file. Reverting it leaves that child alone.
	Preexisting bool `yaml:"preexisting,omitempty"`
	// Baselines holds the previous raw values of attributes a
	// set-attributes edit touched.
	Baselines map[string]Baseline `yaml:"baselines,omitempty"`
}

// IsZero reports whether the capture holds no information.
func (c Capture) IsZero() bool {
	return c.Removed == "" && c.Index == 0 && !c.Expanded && c.Suffix == "" && !c.Preexisting && len(c.Baselines) == 0
}

// MarshalYAML writes captured bytes as double quoted scalars. Block scalars
// do not keep leading line breaks, and captures must round-trip exactly.
func (c Capture) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	if c.Removed != "" {
		appendField(node, "removed", quotedNode(c.Removed))
	}

	if c.Index != 0 {
		appendField(node, "index", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(c.Index)})
	}

	if c.Expanded {
		appendField(node, "expanded", boolNode(true))
	}

	if c.Suffix != "" {
		appendField(node, "suffix", quotedNode(c.Suffix))
	}

	if c.Preexisting {
		appendField(node, "preexisting", boolNode(true))
	}

	if len(c.Baselines) > 0 {
		names := make([]string, 0, len(c.Baselines))
		for name := range c.Baselines {
			names = append(names, name)
		}

		sort.Strings(names)

		baselines := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range names {
			appendField(baselines, name, c.Baselines[name].node())
		}

		appendField(node, "baselines", baselines)
	}

	return node, nil
}

// Baseline is the raw value an attribute had before a set-attributes edit
// touched it.
type Baseline struct {
	Present bool   `yaml:"present"`
	Value   string `yaml:"value,omitempty"`
}

// MarshalYAML keeps the raw value byte for byte.
func (b Baseline) MarshalYAML() (any, error) {
	return b.node(), nil
}

func (b Baseline) node() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendField(node, "present", boolNode(b.Present))

	if b.Value != "" {
		appendField(node, "value", quotedNode(b.Value))
	}

	return node
}

func appendField(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

func quotedNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: value}
}

func boolNode(value bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)}
}
