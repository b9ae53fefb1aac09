package munge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

const app m.Selector = "/manifest/application"

func setX(owner m.PluginID, value string) m.Munge {
	return m.Munge{File: manifest, Parent: app, Edit: m.SetAttributes(map[string]string{"x": value}), Owner: owner}
}

// install mimics what the orchestrator does: clone, count, plan, then record
// the baselines the editor captured.
func install(t *testing.T, l *List, munges ...m.Munge) (*List, []FilePlan) {
	t.Helper()

	next := l.Clone()

	visible, err := next.Increment(munges)
	require.NoError(t, err)

	plans := Plan(next, visible, nil, munges)
	for _, p := range plans {
		for _, attr := range p.Attributes {
			captured := map[string]m.Baseline{}
			for _, name := range attr.NeedBaseline {
				captured[name] = m.Baseline{Present: true, Value: "base"}
			}

			next.AddBaselines(p.File, attr.Parent, captured)
		}
	}

	return next, plans
}

func uninstall(t *testing.T, l *List, owner m.PluginID) (*List, []FilePlan) {
	t.Helper()

	next := l.Clone()
	munges := next.MungesFor(owner)

	invisible, err := next.Decrement(munges)
	require.NoError(t, err)

	return next, Plan(next, nil, invisible, munges)
}

func TestPlan_AddChildVisibility(t *testing.T) {
	l, plans := install(t, NewList(), internetMunge("p1"))
	require.Len(t, plans, 1)
	assert.Equal(t, manifest, plans[0].File)
	assert.Len(t, plans[0].Apply, 1)

	l, plans = install(t, l, internetMunge("p2"))
	assert.Empty(t, plans)

	l, plans = uninstall(t, l, "p1")
	assert.Empty(t, plans)

	l, plans = uninstall(t, l, "p2")
	require.Len(t, plans, 1)
	require.Len(t, plans[0].Revert, 1)
	assert.Equal(t, m.AddChild(internet), plans[0].Revert[0].Munge.Edit)
	assert.True(t, l.Empty())
}

func TestPlan_RevertsNewestFirst(t *testing.T) {
	first := internetMunge("p1")
	second := m.Munge{File: manifest, Parent: root, Edit: m.AddChild(`<uses-feature android:name="camera"/>`), Owner: "p1"}

	l, _ := install(t, NewList(), first, second)

	_, plans := uninstall(t, l, "p1")
	require.Len(t, plans, 1)
	require.Len(t, plans[0].Revert, 2)
	assert.Equal(t, second.Edit, plans[0].Revert[0].Munge.Edit)
	assert.Equal(t, first.Edit, plans[0].Revert[1].Munge.Edit)
}

func TestPlan_ThreePluginAttributeOverlap(t *testing.T) {
	l, plans := install(t, NewList(), setX("A", "1"))
	require.Len(t, plans, 1)
	require.Len(t, plans[0].Attributes, 1)
	assert.Equal(t, map[string]string{"x": "1"}, plans[0].Attributes[0].Set)
	assert.Equal(t, []string{"x"}, plans[0].Attributes[0].NeedBaseline)

	l, plans = install(t, l, setX("B", "2"))
	assert.Equal(t, map[string]string{"x": "2"}, plans[0].Attributes[0].Set)
	assert.Empty(t, plans[0].Attributes[0].NeedBaseline)

	// C shares A's entry; its newer contribution makes x=1 win again
	l, plans = install(t, l, setX("C", "1"))
	assert.Equal(t, map[string]string{"x": "1"}, plans[0].Attributes[0].Set)
	assert.Equal(t, 2, l.Count(manifest, app, setX("A", "1").Edit))

	l, plans = uninstall(t, l, "C")
	assert.Equal(t, map[string]string{"x": "2"}, plans[0].Attributes[0].Set)

	l, plans = uninstall(t, l, "B")
	assert.Equal(t, map[string]string{"x": "1"}, plans[0].Attributes[0].Set)

	l, plans = uninstall(t, l, "A")
	require.Len(t, plans, 1)
	attr := plans[0].Attributes[0]
	assert.Empty(t, attr.Set)
	assert.Equal(t, map[string]m.Baseline{"x": {Present: true, Value: "base"}}, attr.Restore)
	assert.True(t, l.Empty())
}

func TestPlan_PartialAttributeRestore(t *testing.T) {
	both := m.Munge{File: manifest, Parent: app, Edit: m.SetAttributes(map[string]string{"x": "1", "y": "1"}), Owner: "A"}

	l, _ := install(t, NewList(), both, setX("B", "2"))
	assert.Equal(t, map[string]string{"x": "2", "y": "1"}, l.Effective(manifest, app))

	l, plans := uninstall(t, l, "A")
	require.Len(t, plans, 1)
	attr := plans[0].Attributes[0]
	assert.Equal(t, map[string]string{"x": "2"}, attr.Set)
	assert.Equal(t, map[string]m.Baseline{"y": {Present: true, Value: "base"}}, attr.Restore)

	// x keeps its baseline while B still claims it
	assert.Contains(t, l.Files[manifest].Parents[app].Baselines, "x")
	assert.NotContains(t, l.Files[manifest].Parents[app].Baselines, "y")
}
