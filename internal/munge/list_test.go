package munge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

const (
	manifest m.FileID   = "AndroidManifest.xml"
	root     m.Selector = "/manifest"
	internet            = `<uses-permission android:name="android.permission.INTERNET" />`
)

func internetMunge(owner m.PluginID) m.Munge {
	return m.Munge{File: manifest, Parent: root, Edit: m.AddChild(internet), Owner: owner}
}

func TestList_Increment(t *testing.T) {
	t.Run("first contributor makes the entry visible", func(t *testing.T) {
		l := NewList()

		visible, err := l.Increment([]m.Munge{internetMunge("p1")})
		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, internetMunge("p1"), visible[0].Munge)
		assert.Equal(t, 1, l.Count(manifest, root, m.AddChild(internet)))
	})

	t.Run("second contributor only counts", func(t *testing.T) {
		l := NewList()

		_, err := l.Increment([]m.Munge{internetMunge("p1")})
		require.NoError(t, err)

		// same element written differently is the same entry
		other := internetMunge("p2")
		other.Edit = m.AddChild(`<uses-permission android:name="android.permission.INTERNET"></uses-permission>`)

		visible, err := l.Increment([]m.Munge{other})
		require.NoError(t, err)
		assert.Empty(t, visible)
		assert.Equal(t, 2, l.Count(manifest, root, m.AddChild(internet)))
		assert.Equal(t, 1, l.Len())
	})

	t.Run("repeating an owner is a no-op", func(t *testing.T) {
		l := NewList()

		_, err := l.Increment([]m.Munge{internetMunge("p1")})
		require.NoError(t, err)

		before := l.Clone()

		visible, err := l.Increment([]m.Munge{internetMunge("p1")})
		require.NoError(t, err)
		assert.Empty(t, visible)
		assert.Equal(t, before, l)
	})

	t.Run("invalid edit is rejected", func(t *testing.T) {
		l := NewList()

		_, err := l.Increment([]m.Munge{{File: manifest, Parent: root, Edit: m.Edit{Kind: "bogus"}, Owner: "p1"}})
		assert.Error(t, err)
	})
}

func TestList_Decrement(t *testing.T) {
	t.Run("shared entry survives until the last owner leaves", func(t *testing.T) {
		l := NewList()

		_, err := l.Increment([]m.Munge{internetMunge("p1"), internetMunge("p2")})
		require.NoError(t, err)

		invisible, err := l.Decrement([]m.Munge{internetMunge("p1")})
		require.NoError(t, err)
		assert.Empty(t, invisible)
		assert.Equal(t, 1, l.Count(manifest, root, m.AddChild(internet)))

		invisible, err = l.Decrement([]m.Munge{internetMunge("p2")})
		require.NoError(t, err)
		require.Len(t, invisible, 1)
		assert.True(t, l.Empty())
	})

	t.Run("capture travels with the invisible change", func(t *testing.T) {
		l := NewList()
		mg := m.Munge{File: manifest, Parent: root, Edit: m.RemoveChild(`<uses-sdk/>`), Owner: "p1"}

		visible, err := l.Increment([]m.Munge{mg})
		require.NoError(t, err)
		require.Len(t, visible, 1)

		capture := m.Capture{Removed: "\n    <uses-sdk/>", Index: 2}
		l.SetCapture(manifest, root, visible[0].Key, capture)

		invisible, err := l.Decrement([]m.Munge{mg})
		require.NoError(t, err)
		require.Len(t, invisible, 1)
		assert.Equal(t, capture, invisible[0].Capture)
	})

	t.Run("unknown munges are ignored", func(t *testing.T) {
		l := NewList()

		invisible, err := l.Decrement([]m.Munge{internetMunge("p1")})
		require.NoError(t, err)
		assert.Empty(t, invisible)
	})
}

func TestList_IncrementThenDecrementIsInverse(t *testing.T) {
	l := NewList()

	_, err := l.Increment([]m.Munge{internetMunge("p1")})
	require.NoError(t, err)

	before := l.Clone()

	extra := []m.Munge{
		internetMunge("p2"),
		{File: manifest, Parent: "/manifest/application", Edit: m.SetAttributes(map[string]string{"a": "1"}), Owner: "p2"},
	}

	_, err = l.Increment(extra)
	require.NoError(t, err)

	_, err = l.Decrement(extra)
	require.NoError(t, err)

	assert.Equal(t, before.Files, l.Files)
}

func TestList_OrderIndependence(t *testing.T) {
	a := []m.Munge{internetMunge("p1"), {File: "config.xml", Parent: "/widget", Edit: m.AddChild(`<feature name="A"/>`), Owner: "p1"}}
	b := []m.Munge{internetMunge("p2"), {File: "config.xml", Parent: "/widget", Edit: m.AddChild(`<feature name="B"/>`), Owner: "p2"}}

	ab := NewList()
	_, err := ab.Increment(a)
	require.NoError(t, err)
	_, err = ab.Increment(b)
	require.NoError(t, err)

	ba := NewList()
	_, err = ba.Increment(b)
	require.NoError(t, err)
	_, err = ba.Increment(a)
	require.NoError(t, err)

	for _, mg := range append(a, b...) {
		assert.Equal(t, ab.Count(mg.File, mg.Parent, mg.Edit), ba.Count(mg.File, mg.Parent, mg.Edit), mg.String())
	}

	assert.Equal(t, ab.Plugins(), ba.Plugins())
	assert.Equal(t, ab.Len(), ba.Len())
}

func TestList_MungesFor(t *testing.T) {
	l := NewList()
	set := m.Munge{File: manifest, Parent: "/manifest/application", Edit: m.SetAttributes(map[string]string{"a": "1"}), Owner: "p1"}

	_, err := l.Increment([]m.Munge{internetMunge("p1"), set, internetMunge("p2")})
	require.NoError(t, err)

	assert.Equal(t, []m.Munge{internetMunge("p1"), set}, l.MungesFor("p1"))
	assert.Equal(t, []m.Munge{internetMunge("p2")}, l.MungesFor("p2"))
	assert.Empty(t, l.MungesFor("p3"))
	assert.Equal(t, []m.PluginID{"p1", "p2"}, l.Plugins())
}

func TestList_Validate(t *testing.T) {
	l := NewList()

	_, err := l.Increment([]m.Munge{internetMunge("p1")})
	require.NoError(t, err)
	require.NoError(t, l.Validate())

	t.Run("wrong version", func(t *testing.T) {
		bad := l.Clone()
		bad.Version = 7
		assert.Error(t, bad.Validate())
	})

	t.Run("mismatched key", func(t *testing.T) {
		bad := l.Clone()
		for _, entry := range bad.Files[manifest].Parents[root].Entries {
			entry.Edit = m.AddChild(`<other/>`)
		}
		assert.Error(t, bad.Validate())
	})

	t.Run("entry without owners", func(t *testing.T) {
		bad := l.Clone()
		for _, entry := range bad.Files[manifest].Parents[root].Entries {
			entry.Owners = nil
		}
		assert.Error(t, bad.Validate())
	})

	t.Run("sequence ahead of the list", func(t *testing.T) {
		bad := l.Clone()
		bad.Seq = 0
		assert.Error(t, bad.Validate())
	})
}

func TestList_CloneIsDeep(t *testing.T) {
	l := NewList()

	_, err := l.Increment([]m.Munge{internetMunge("p1")})
	require.NoError(t, err)

	clone := l.Clone()
	_, err = clone.Increment([]m.Munge{internetMunge("p2")})
	require.NoError(t, err)

	assert.Equal(t, 1, l.Count(manifest, root, m.AddChild(internet)))
	assert.Equal(t, 2, clone.Count(manifest, root, m.AddChild(internet)))
}
