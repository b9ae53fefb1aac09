package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

const projectRoot = "/project"

func newMemFS(t *testing.T, files map[string]string) (*LocalProjectFSAdapter, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(projectRoot, name), []byte(content), 0o644))
	}

	return NewProjectFSAdapter(fs), fs
}

func TestLocalProjectFSAdapter_WriteFile(t *testing.T) {
	t.Run("creates missing directories", func(t *testing.T) {
		adapter, fs := newMemFS(t, nil)
		path := m.Path(filepath.Join(projectRoot, "app", "src", "main", "AndroidManifest.xml"))

		require.NoError(t, adapter.WriteFile(path, []byte("<manifest/>")))

		data, err := afero.ReadFile(fs, string(path))
		require.NoError(t, err)
		assert.Equal(t, "<manifest/>", string(data))
	})

	t.Run("replaces content and keeps permissions", func(t *testing.T) {
		adapter, fs := newMemFS(t, map[string]string{"config.xml": "old"})
		path := m.Path(filepath.Join(projectRoot, "config.xml"))
		require.NoError(t, fs.Chmod(string(path), 0o600))

		require.NoError(t, adapter.WriteFile(path, []byte("new")))

		data, err := adapter.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		info, err := adapter.FileInfo(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		adapter, fs := newMemFS(t, nil)
		require.NoError(t, adapter.WriteFile(projectRoot+"/a.xml", []byte("<a/>")))

		entries, err := afero.ReadDir(fs, projectRoot)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.xml", entries[0].Name())
	})
}

func TestLocalProjectFSAdapter_Exists(t *testing.T) {
	adapter, _ := newMemFS(t, map[string]string{"a.xml": "<a/>"})

	ok, err := adapter.Exists(projectRoot + "/a.xml")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.Exists(projectRoot + "/b.xml")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalProjectFSAdapter_Glob(t *testing.T) {
	adapter, _ := newMemFS(t, map[string]string{
		"plugins/camera/plugin.yaml":           "id: camera",
		"plugins/vendor/geo/plugin.yaml":       "id: geo",
		"plugins/camera/src/Camera.java":       "",
		"app/src/main/AndroidManifest.xml":     "<manifest/>",
		"node_modules/other/plugin.yaml":       "id: other",
		"plugins/camera/res/values/colors.xml": "<resources/>",
	})

	matches, err := adapter.Glob(projectRoot, PluginScanPattern)
	require.NoError(t, err)
	assert.ElementsMatch(t, []m.Path{
		m.Path(filepath.Join(projectRoot, "plugins", "camera", "plugin.yaml")),
		m.Path(filepath.Join(projectRoot, "plugins", "vendor", "geo", "plugin.yaml")),
	}, matches)

	_, err = adapter.Glob(projectRoot, "plugins/[")
	assert.Error(t, err)
}

func TestLocalProjectFSAdapter_FindProjectRoot(t *testing.T) {
	adapter := NewLocalProjectFSAdapter()

	t.Run("finds the app manifest", func(t *testing.T) {
		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "app", "src", "main", "AndroidManifest.xml"), "<manifest/>")

		nested := filepath.Join(root, "app", "src")

		found, err := adapter.FindProjectRoot(m.Path(nested))
		require.NoError(t, err)
		assert.Equal(t, m.Path(root), found)
	})

	t.Run("finds the state directory", func(t *testing.T) {
		root := t.TempDir()
		mustMkdir(t, filepath.Join(root, StateDir))

		found, err := adapter.FindProjectRoot(m.Path(root))
		require.NoError(t, err)
		assert.Equal(t, m.Path(root), found)
	})
}

func TestLocalProjectFSAdapter_TargetPath(t *testing.T) {
	adapter := NewLocalProjectFSAdapter()

	assert.Equal(t,
		m.Path(filepath.Join("proj", "app", "src", "main", "res", "xml", "config.xml")),
		adapter.TargetPath("proj", "config.xml"))
	assert.Equal(t,
		m.Path(filepath.Join("proj", "build.xml")),
		adapter.TargetPath("proj", "build.xml"))
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()

	mustMkdir(t, filepath.Dir(path))

	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
