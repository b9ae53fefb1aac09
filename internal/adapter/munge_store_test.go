package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
	"plugdroid.dev/pkg/plugdroid/internal/munge"
)

func sampleList(t *testing.T) *munge.List {
	t.Helper()

	list := munge.NewList()

	visible, err := list.Increment([]m.Munge{
		{File: "AndroidManifest.xml", Parent: "/manifest", Edit: m.AddChild(`<uses-permission android:name="android.permission.INTERNET" />`), Owner: "p1"},
		{File: "AndroidManifest.xml", Parent: "/manifest", Edit: m.RemoveChild(`<uses-sdk/>`), Owner: "p1"},
		{File: "AndroidManifest.xml", Parent: "/manifest/application", Edit: m.SetAttributes(map[string]string{"android:label": "A & B"}), Owner: "p2"},
		{File: "config.xml", Parent: "/widget", Edit: m.AddChild("<feature name=\"X\">\n    <param name=\"k\" value=\"v\"/>\n</feature>"), Owner: "p2"},
	})
	require.NoError(t, err)

	list.SetCapture(visible[1].Munge.File, visible[1].Munge.Parent, visible[1].Key, m.Capture{Removed: "\n    <uses-sdk android:minSdkVersion=\"24\" />", Index: 2})
	list.AddBaselines("AndroidManifest.xml", "/manifest/application", map[string]m.Baseline{"android:label": {Present: true, Value: "&quot;Old&quot;"}})

	return list
}

func TestYAMLMungeStore_RoundTrip(t *testing.T) {
	adapter, _ := newMemFS(t, nil)
	store := NewYAMLMungeStore(adapter)
	ctx := context.Background()

	list := sampleList(t)
	require.NoError(t, store.Save(ctx, projectRoot, list))

	loaded, err := store.Load(ctx, projectRoot)
	require.NoError(t, err)
	assert.Equal(t, list, loaded)

	// saving what was loaded produces the same bytes
	first, err := adapter.ReadFile(store.Path(projectRoot))
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, projectRoot, loaded))

	second, err := adapter.ReadFile(store.Path(projectRoot))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestYAMLMungeStore_KeepsCapturedBytes(t *testing.T) {
	captured := map[string]string{
		"leading newline": "\n    <uses-permission android:name=\"X\" />",
		"crlf":            "\r\n\t<uses-permission android:name=\"X\" />",
		"trailing blanks": "\n  <uses-permission android:name=\"X\" />  \n",
		"nested":          "\n    <activity>\n        <intent-filter/>\n    </activity>",
	}

	for name, removed := range captured {
		t.Run(name, func(t *testing.T) {
			adapter, _ := newMemFS(t, nil)
			store := NewYAMLMungeStore(adapter)
			ctx := context.Background()
			edit := m.RemoveChild(`<uses-permission android:name="X"/>`)

			list := munge.NewList()
			visible, err := list.Increment([]m.Munge{{File: "AndroidManifest.xml", Parent: "/manifest", Edit: edit, Owner: "p1"}})
			require.NoError(t, err)

			capture := m.Capture{Removed: removed, Index: 3}
			list.SetCapture("AndroidManifest.xml", "/manifest", visible[0].Key, capture)

			require.NoError(t, store.Save(ctx, projectRoot, list))

			loaded, err := store.Load(ctx, projectRoot)
			require.NoError(t, err)

			entry := loaded.Lookup("AndroidManifest.xml", "/manifest", edit)
			require.NotNil(t, entry)
			assert.Equal(t, capture, entry.Capture)
		})
	}
}

func TestYAMLMungeStore_LoadMissingIsEmpty(t *testing.T) {
	adapter, _ := newMemFS(t, nil)

	list, err := NewYAMLMungeStore(adapter).Load(context.Background(), projectRoot)
	require.NoError(t, err)
	assert.True(t, list.Empty())
	assert.Equal(t, munge.CurrentVersion, list.Version)
}

func TestYAMLMungeStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "files: [unterminated"},
		{"empty", ""},
		{"unknown version", "version: 9\nseq: 0\nfiles: {}\n"},
		{"unknown field", "version: 1\nseq: 0\nfiles: {}\nextra: true\n"},
		{"bad key", "version: 1\nseq: 1\nfiles:\n  a.xml:\n    parents:\n      /a:\n        entries:\n          deadbeef:\n            edit: {kind: add-child, xml: <b/>}\n            owners: [{plugin: p, seq: 1}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, _ := newMemFS(t, map[string]string{".plugdroid/munges.yaml": tt.content})

			_, err := NewYAMLMungeStore(adapter).Load(context.Background(), projectRoot)
			require.ErrorIs(t, err, m.ErrStoreCorrupt)

			var corrupt *m.StoreCorruptError
			require.True(t, errors.As(err, &corrupt))
			assert.Contains(t, string(corrupt.Path), "munges.yaml")
		})
	}
}

func TestYAMLMungeStore_CanceledContext(t *testing.T) {
	adapter, _ := newMemFS(t, nil)
	store := NewYAMLMungeStore(adapter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, projectRoot, munge.NewList()), context.Canceled)

	_, err := store.Load(ctx, projectRoot)
	assert.ErrorIs(t, err, context.Canceled)
}
