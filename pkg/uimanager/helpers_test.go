package uimanager

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/fabric/pkg/components"
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/mounting"
	"github.com/go-drift/fabric/pkg/textlayout"
)

// fixture is a UIManager with one running surface.
type fixture struct {
	t        *testing.T
	manager  *UIManager
	delegate *recordingDelegate
	surface  core.SurfaceID
	nextTag  core.Tag
}

func newFixture(t *testing.T, width, height float64) *fixture {
	t.Helper()
	registry, err := components.NewRegistry(components.Options{
		Text: textlayout.NewManager(textlayout.Options{}),
	})
	require.NoError(t, err)
	m, err := New(Options{Registry: registry, VerifyMutations: true})
	require.NoError(t, err)
	f := &fixture{t: t, manager: m, delegate: &recordingDelegate{}, surface: 1, nextTag: 10}
	m.SetDelegate(f.delegate)
	_, err = m.StartSurface(f.surface, core.ExactLayout(graphics.Size{Width: width, Height: height}), m.LayoutContext())
	require.NoError(t, err)
	return f
}

func (f *fixture) node(name core.ComponentName, raw core.RawProps, children ...*core.ShadowNode) *core.ShadowNode {
	f.t.Helper()
	n, err := f.manager.CreateNode(f.nextTag, name, f.surface, raw)
	require.NoError(f.t, err)
	f.nextTag++
	for _, child := range children {
		f.manager.AppendChild(n, child)
	}
	return n
}

func (f *fixture) view(raw core.RawProps, children ...*core.ShadowNode) *core.ShadowNode {
	return f.node(components.ViewName, core.RawProps{"collapsable": false}.Merge(raw), children...)
}

func (f *fixture) complete(children ...*core.ShadowNode) {
	f.t.Helper()
	status := f.manager.CompleteSurface(f.surface, children, f.manager.CommitOptions())
	require.Equal(f.t, mounting.CommitSucceeded, status)
}

func (f *fixture) tree() *mounting.ShadowTree {
	tree, ok := f.manager.ShadowTreeRegistry().Get(f.surface)
	require.True(f.t, ok)
	return tree
}

func (f *fixture) root() *core.ShadowNode {
	return f.tree().CurrentRevision().Root
}

type recordingDelegate struct {
	mu           sync.Mutex
	transactions int
	synchronous  int
}

func (d *recordingDelegate) UIManagerDidFinishTransaction(_ *mounting.MountingCoordinator, mountSynchronously bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transactions++
	if mountSynchronously {
		d.synchronous++
	}
}

func (d *recordingDelegate) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transactions
}
