package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

func TestYAMLPluginRegistry(t *testing.T) {
	adapter, _ := newMemFS(t, nil)
	registry := NewYAMLPluginRegistry(adapter)
	ctx := context.Background()

	plugins, err := registry.List(ctx, projectRoot)
	require.NoError(t, err)
	assert.Empty(t, plugins)

	camera := m.InstalledPlugin{ID: "camera", Version: "1.0.0", Source: "/project/plugins/camera", Variables: m.Bindings{"API_KEY": "k"}}
	geo := m.InstalledPlugin{ID: "geo", Source: "/project/plugins/geo"}

	require.NoError(t, registry.Put(ctx, projectRoot, geo))
	require.NoError(t, registry.Put(ctx, projectRoot, camera))

	plugins, err = registry.List(ctx, projectRoot)
	require.NoError(t, err)
	assert.Equal(t, []m.InstalledPlugin{camera, geo}, plugins)

	camera.Version = "2.0.0"
	require.NoError(t, registry.Put(ctx, projectRoot, camera))
	require.NoError(t, registry.Delete(ctx, projectRoot, "geo"))
	require.NoError(t, registry.Delete(ctx, projectRoot, "unknown"))

	plugins, err = registry.List(ctx, projectRoot)
	require.NoError(t, err)
	assert.Equal(t, []m.InstalledPlugin{camera}, plugins)
}
