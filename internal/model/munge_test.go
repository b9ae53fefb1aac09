package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEdit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		edit    Edit
		wantErr string
	}{
		{"add child", AddChild("<a/>"), ""},
		{"remove child", RemoveChild("<a/>"), ""},
		{"set attributes", SetAttributes(map[string]string{"x": "1"}), ""},
		{"add without fragment", Edit{Kind: EditAddChild}, "requires an xml fragment"},
		{"remove with attributes", Edit{Kind: EditRemoveChild, XML: "<a/>", Attrs: []Attr{{Name: "x"}}}, "must not carry attributes"},
		{"set without attributes", Edit{Kind: EditSetAttributes}, "at least one attribute"},
		{"set with fragment", Edit{Kind: EditSetAttributes, XML: "<a/>", Attrs: []Attr{{Name: "x"}}}, "must not carry an xml fragment"},
		{"unnamed attribute", Edit{Kind: EditSetAttributes, Attrs: []Attr{{Value: "1"}}}, "without a name"},
		{"duplicate attribute", Edit{Kind: EditSetAttributes, Attrs: []Attr{{Name: "x"}, {Name: "x"}}}, "twice"},
		{"unknown kind", Edit{Kind: "replace"}, "unknown edit kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edit.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSetAttributes_SortsByName(t *testing.T) {
	edit := SetAttributes(map[string]string{"b": "2", "a": "1"})

	assert.Equal(t, []Attr{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}, edit.Attrs)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, edit.AttrMap())
}

func TestCapture_IsZero(t *testing.T) {
	assert.True(t, Capture{}.IsZero())
	assert.False(t, Capture{Removed: "<a/>"}.IsZero())
	assert.False(t, Capture{Expanded: true}.IsZero())
	assert.False(t, Capture{Preexisting: true}.IsZero())
	assert.False(t, Capture{Baselines: map[string]Baseline{"x": {}}}.IsZero())
}

func TestCapture_YAMLKeepsWhitespace(t *testing.T) {
	captures := map[string]Capture{
		"leading newline":  {Removed: "\n    <uses-permission android:name=\"X\" />", Index: 2},
		"crlf":             {Removed: "\r\n\t<a/>"},
		"trailing spaces":  {Removed: "  <a/>  \n\n"},
		"multi line":       {Removed: "\n    <activity>\n        <intent-filter/>\n    </activity>"},
		"suffix":           {Expanded: true, Suffix: " \n/>"},
		"preexisting":      {Preexisting: true},
		"spaced baselines": {Baselines: map[string]Baseline{"a": {Present: true, Value: " x\n"}, "b": {}}},
		"numeric baseline": {Baselines: map[string]Baseline{"android:versionCode": {Present: true, Value: "12"}}},
	}

	for name, capture := range captures {
		t.Run(name, func(t *testing.T) {
			data, err := yaml.Marshal(capture)
			require.NoError(t, err)

			var decoded Capture
			require.NoError(t, yaml.Unmarshal(data, &decoded), string(data))
			assert.Equal(t, capture, decoded, string(data))
		})
	}
}
