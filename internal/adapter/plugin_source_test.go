package adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

const cameraMetadata = `id: com.example.camera
version: 1.2.0
variables:
  - name: API_KEY
  - name: MODE
    default: full
edits:
  - file: AndroidManifest.xml
    parent: /manifest
    add: <uses-permission android:name="android.permission.CAMERA"/>
  - file: AndroidManifest.xml
    parent: /manifest/application
    set:
      android:hardwareAccelerated: "true"
  - file: config.xml
    parent: /widget
    remove: <preference name="Legacy"/>
`

func TestYAMLPluginSource_Load(t *testing.T) {
	t.Run("decodes metadata", func(t *testing.T) {
		adapter, _ := newMemFS(t, map[string]string{"plugins/camera/plugin.yaml": cameraMetadata})
		dir := m.Path(filepath.Join(projectRoot, "plugins", "camera"))

		spec, err := NewYAMLPluginSource(adapter).Load(context.Background(), dir)
		require.NoError(t, err)

		assert.Equal(t, m.PluginID("com.example.camera"), spec.ID)
		assert.Equal(t, "1.2.0", spec.Version)
		assert.Equal(t, dir, spec.Dir)
		require.Len(t, spec.Variables, 2)
		assert.Nil(t, spec.Variables[0].Default)
		require.NotNil(t, spec.Variables[1].Default)
		assert.Equal(t, "full", *spec.Variables[1].Default)
		require.Len(t, spec.Edits, 3)
		assert.Equal(t, map[string]string{"android:hardwareAccelerated": "true"}, spec.Edits[1].Set)
		assert.Equal(t, `<preference name="Legacy"/>`, spec.Edits[2].Remove)
	})

	t.Run("rejects invalid metadata", func(t *testing.T) {
		for name, content := range map[string]string{
			"two variants":  "id: p\nedits:\n  - file: a.xml\n    parent: /a\n    add: <b/>\n    remove: <c/>\n",
			"missing id":    "edits: []\n",
			"unknown field": "id: p\nhooks: []\n",
			"not yaml":      "id: [",
		} {
			adapter, _ := newMemFS(t, map[string]string{"p/plugin.yaml": content})

			_, err := NewYAMLPluginSource(adapter).Load(context.Background(), projectRoot+"/p")
			assert.Error(t, err, name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		adapter, _ := newMemFS(t, nil)

		_, err := NewYAMLPluginSource(adapter).Load(context.Background(), projectRoot+"/nothing")
		assert.Error(t, err)
	})
}

func TestYAMLPluginSource_Scan(t *testing.T) {
	adapter, _ := newMemFS(t, map[string]string{
		"plugins/b/plugin.yaml":       "id: b",
		"plugins/a/plugin.yaml":       "id: a",
		"plugins/a/nested/readme.txt": "",
	})

	dirs, err := NewYAMLPluginSource(adapter).Scan(context.Background(), projectRoot)
	require.NoError(t, err)
	assert.Equal(t, []m.Path{
		m.Path(filepath.Join(projectRoot, "plugins", "a")),
		m.Path(filepath.Join(projectRoot, "plugins", "b")),
	}, dirs)
}
