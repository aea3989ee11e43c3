package uimanager

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fabric/pkg/components"
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/mounting"
)

func TestNew_RequiresRegistry(t *testing.T) {
	_, err := New(Options{})
	var fabricErr *errors.FabricError
	require.True(t, stderrors.As(err, &fabricErr))
	assert.Equal(t, errors.KindConfig, fabricErr.Kind)
}

func TestUIManager_CreateNode(t *testing.T) {
	tests := map[string]struct {
		name     core.ComponentName
		raw      core.RawProps
		wantName core.ComponentName
		wantRaw  core.RawProps
		wantErr  bool
	}{
		"registered": {
			name:     components.ViewName,
			raw:      core.RawProps{"backgroundColor": "red"},
			wantName: components.ViewName,
			wantRaw:  core.RawProps{"backgroundColor": "red"},
		},
		"fallback gets its name": {
			name:     "Slider",
			raw:      core.RawProps{"value": 0.5},
			wantName: components.UnimplementedName,
			wantRaw:  core.RawProps{"name": "Slider", "value": 0.5},
		},
		"invalid props": {
			name:    components.ViewName,
			raw:     core.RawProps{"width": "wide"},
			wantErr: true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, 100, 100)
			n, err := f.manager.CreateNode(42, tt.name, f.surface, tt.raw)
			if tt.wantErr {
				var fabricErr *errors.FabricError
				require.True(t, stderrors.As(err, &fabricErr))
				assert.Equal(t, errors.KindProps, fabricErr.Kind)
				assert.Equal(t, int32(42), fabricErr.Tag)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, core.Tag(42), n.Tag())
			assert.Equal(t, f.surface, n.SurfaceID())
			assert.Equal(t, tt.wantName, n.ComponentName())
			assert.Equal(t, tt.wantRaw, n.Props().Raw())
			assert.False(t, n.Sealed())
			assert.Equal(t, core.Tag(42), n.EventEmitter().Tag())
		})
	}
}

func TestUIManager_CompleteSurface(t *testing.T) {
	f := newFixture(t, 100, 100)
	a := f.view(core.RawProps{"height": 10})
	b := f.view(core.RawProps{"height": 20})

	f.complete(a, b)

	rev := f.tree().CurrentRevision()
	assert.Equal(t, uint64(1), rev.Number)
	assert.Equal(t, 1, f.delegate.count())
	require.Equal(t, 2, rev.Root.Children().Len())
	if got, want := rev.Root.Children().At(1).LayoutMetrics().Frame, graphics.RectFromXYWH(0, 10, 100, 20); got != want {
		t.Errorf("Frame = %v, want %v", got, want)
	}
	assert.True(t, a.Sealed(), "committed nodes are sealed")

	assert.Equal(t, mounting.CommitCancelled, f.manager.CompleteSurface(7, nil, mounting.CommitOptions{}))
}

func TestUIManager_CloneNode(t *testing.T) {
	f := newFixture(t, 100, 100)
	child := f.view(nil)
	parent := f.view(core.RawProps{"height": 10}, child)
	parent.Seal()

	tests := map[string]struct {
		children     *core.ChildList
		raw          core.RawProps
		wantChildren int
		wantHeight   any
	}{
		"plain":    {wantChildren: 1, wantHeight: 10},
		"props":    {raw: core.RawProps{"height": 30}, wantChildren: 1, wantHeight: 30},
		"children": {children: core.Children(), wantChildren: 0, wantHeight: 10},
		"both":     {children: core.Children(), raw: core.RawProps{"height": 30}, wantChildren: 0, wantHeight: 30},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			clone, err := f.manager.CloneNode(parent, tt.children, tt.raw)
			require.NoError(t, err)
			assert.True(t, core.SameFamily(parent, clone))
			assert.False(t, clone.Sealed())
			assert.Equal(t, tt.wantChildren, clone.Children().Len())
			assert.Equal(t, tt.wantHeight, clone.Props().Raw()["height"])
			if tt.raw == nil {
				assert.Same(t, parent.Props(), clone.Props())
			}
		})
	}

	_, err := f.manager.CloneNode(parent, nil, core.RawProps{"height": "tall"})
	assert.Error(t, err)
}

func TestUIManager_SetNativeProps(t *testing.T) {
	f := newFixture(t, 100, 100)
	v := f.view(core.RawProps{"height": 10, "backgroundColor": "red"})
	f.complete(v)

	require.NoError(t, f.manager.SetNativeProps(v, core.RawProps{"backgroundColor": "blue"}))
	newest := f.manager.GetNewestCloneOfShadowNode(v)
	require.NotNil(t, newest)
	assert.Equal(t, "blue", newest.Props().Raw()["backgroundColor"])
	assert.Equal(t, uint64(2), f.tree().CurrentRevision().Number)

	// A render from the description layer's copy keeps the native value.
	clone, err := f.manager.CloneNode(v, nil, core.RawProps{"height": 20})
	require.NoError(t, err)
	assert.Equal(t, 20, clone.Props().Raw()["height"])
	assert.Equal(t, "blue", clone.Props().Raw()["backgroundColor"])

	// Setting the key from the description layer takes it over.
	clone, err = f.manager.CloneNode(v, nil, core.RawProps{"backgroundColor": "green"})
	require.NoError(t, err)
	assert.Equal(t, "green", clone.Props().Raw()["backgroundColor"])
	clone, err = f.manager.CloneNode(v, nil, core.RawProps{"height": 30})
	require.NoError(t, err)
	assert.Equal(t, "green", clone.Props().Raw()["backgroundColor"])
}

func TestUIManager_SetNativePropsErrors(t *testing.T) {
	tests := map[string]struct {
		node func(f *fixture) *core.ShadowNode
		raw  core.RawProps
		want error
	}{
		"not mounted": {
			node: func(f *fixture) *core.ShadowNode { return f.view(nil) },
			raw:  core.RawProps{"opacity": 0.5},
			want: ErrNodeNotMounted,
		},
		"unknown surface": {
			node: func(f *fixture) *core.ShadowNode {
				n, err := f.manager.CreateNode(99, components.ViewName, 5, nil)
				require.NoError(f.t, err)
				return n
			},
			raw:  core.RawProps{"opacity": 0.5},
			want: ErrUnknownSurface,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, 100, 100)
			err := f.manager.SetNativeProps(tt.node(f), tt.raw)
			assert.True(t, stderrors.Is(err, tt.want), "SetNativeProps() = %v, want %v", err, tt.want)
			assert.Equal(t, uint64(0), f.tree().CurrentRevision().Number)
		})
	}
}

func TestUIManager_UpdateState(t *testing.T) {
	f := newFixture(t, 100, 100)
	scroll := f.node(components.ScrollViewName, core.RawProps{"height": 50})
	f.complete(scroll)
	require.Equal(t, uint64(1), scroll.State().Revision())

	ok := scroll.State().Update(func(old any) any {
		s := old.(components.ScrollState)
		s.ContentOffset.Y += 50
		return s
	})
	require.True(t, ok)

	newest := f.manager.GetNewestCloneOfShadowNode(scroll)
	assert.Equal(t, 50.0, components.ScrollStateOf(newest).ContentOffset.Y)
	assert.Equal(t, uint64(2), newest.State().Revision())
	assert.True(t, newest.Traits().Has(core.TraitClonedByNativeStateUpdate))
	assert.Equal(t, uint64(2), f.tree().CurrentRevision().Number)

	scroll.State().Update(func(any) any { return nil })
	assert.Equal(t, uint64(2), f.tree().CurrentRevision().Number, "a nil result cancels the update")

	// A render based on the old state keeps the newer one.
	clone, err := f.manager.CloneNode(scroll, nil, core.RawProps{"height": 60})
	require.NoError(t, err)
	f.complete(clone)
	newest = f.manager.GetNewestCloneOfShadowNode(scroll)
	assert.Equal(t, 50.0, components.ScrollStateOf(newest).ContentOffset.Y)
	assert.Equal(t, 60, newest.Props().Raw()["height"])
}

func TestUIManager_GetRelativeLayoutMetrics(t *testing.T) {
	f := newFixture(t, 100, 100)
	child := f.view(core.RawProps{"width": 20, "height": 20, "marginLeft": 3})
	parent := f.view(core.RawProps{"width": 50, "height": 50, "marginTop": 10, "marginLeft": 5}, child)
	f.complete(parent)

	tests := map[string]struct {
		ancestor *core.ShadowNode
		want     graphics.Rect
	}{
		"surface root": {want: graphics.RectFromXYWH(8, 10, 20, 20)},
		"parent":       {ancestor: parent, want: graphics.RectFromXYWH(3, 0, 20, 20)},
		"itself":       {ancestor: child, want: graphics.RectFromXYWH(0, 0, 20, 20)},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := f.manager.GetRelativeLayoutMetrics(child, tt.ancestor).Frame
			if got != tt.want {
				t.Errorf("Frame = %v, want %v", got, tt.want)
			}
		})
	}

	stranger := f.view(nil)
	assert.True(t, f.manager.GetRelativeLayoutMetrics(stranger, nil).IsEmpty())
	assert.True(t, f.manager.GetRelativeLayoutMetrics(child, stranger).IsEmpty())
}

func TestUIManager_SurfaceLifecycle(t *testing.T) {
	f := newFixture(t, 100, 100)
	_, err := f.manager.StartSurface(f.surface, core.UnconstrainedLayout(), core.DefaultLayoutContext())
	assert.True(t, stderrors.Is(err, ErrSurfaceRunning))

	v := f.view(nil)
	f.complete(v)
	require.Equal(t, core.LifecycleMounted, v.Family().Lifecycle())
	require.NoError(t, f.manager.SetNativeProps(v, core.RawProps{"opacity": 0.5}))

	tree := f.manager.StopSurface(f.surface)
	require.NotNil(t, tree)
	assert.Equal(t, 0, tree.CurrentRevision().Root.Children().Len())
	assert.Equal(t, core.LifecycleUnmounting, v.Family().Lifecycle())
	assert.Equal(t, 3, f.delegate.count(), "the empty tree reaches the delegate")
	assert.Equal(t, 0, f.manager.ShadowTreeRegistry().Len())
	assert.Empty(t, f.manager.nativeProps)

	assert.Nil(t, f.manager.StopSurface(f.surface))
	_, err = f.manager.StartSurface(f.surface, core.UnconstrainedLayout(), core.DefaultLayoutContext())
	assert.NoError(t, err, "a stopped surface can be started again")
}

func TestUIManager_ConstraintSurfaceLayout(t *testing.T) {
	f := newFixture(t, 100, 100)
	half := f.view(core.RawProps{"width": "50%", "height": 10})
	text := f.node(components.ParagraphName, nil, f.node(components.RawTextName, core.RawProps{"text": "hello"}))
	f.complete(half, text)
	textHeight := f.root().Children().At(1).LayoutMetrics().Frame.Size.Height
	require.Greater(t, textHeight, 0.0)

	status := f.manager.ConstraintSurfaceLayout(f.surface, core.ExactLayout(graphics.Size{Width: 200, Height: 50}), f.manager.LayoutContext())
	require.Equal(t, mounting.CommitSucceeded, status)
	root := f.root()
	if got, want := root.LayoutMetrics().Frame.Size, (graphics.Size{Width: 200, Height: 50}); got != want {
		t.Errorf("root size = %v, want %v", got, want)
	}
	assert.InDelta(t, 100, root.Children().At(0).LayoutMetrics().Frame.Size.Width, graphics.Epsilon)

	ctx := f.manager.LayoutContext()
	ctx.FontSizeMultiplier = 2
	status = f.manager.ConstraintSurfaceLayout(f.surface, core.ExactLayout(graphics.Size{Width: 200, Height: 50}), ctx)
	require.Equal(t, mounting.CommitSucceeded, status)
	assert.Greater(t, f.root().Children().At(1).LayoutMetrics().Frame.Size.Height, textHeight, "text is measured again")

	assert.Equal(t, mounting.CommitCancelled, f.manager.ConstraintSurfaceLayout(9, core.UnconstrainedLayout(), ctx))
}

func TestUIManager_MeasureSurface(t *testing.T) {
	f := newFixture(t, 100, 100)
	f.complete(f.view(core.RawProps{"width": 30, "height": 20}), f.view(core.RawProps{"width": 40, "height": 25}))
	before := f.tree().CurrentRevision()

	size, err := f.manager.MeasureSurface(f.surface, core.LayoutConstraints{
		MaximumSize:     graphics.Size{Width: 300, Height: 300},
		LayoutDirection: layout.DirectionLTR,
	}, f.manager.LayoutContext())
	require.NoError(t, err)
	assert.InDelta(t, 40, size.Width, graphics.Epsilon)
	assert.InDelta(t, 45, size.Height, graphics.Epsilon)
	assert.Same(t, before, f.tree().CurrentRevision(), "measuring does not commit")

	_, err = f.manager.MeasureSurface(3, core.UnconstrainedLayout(), f.manager.LayoutContext())
	assert.True(t, stderrors.Is(err, ErrUnknownSurface))
}

func TestUIManager_CommitHooks(t *testing.T) {
	f := newFixture(t, 100, 100)
	var calls []string
	extra := f.view(core.RawProps{"height": 5})
	unregisterFirst := f.manager.RegisterCommitHook(CommitHookFunc(func(id core.SurfaceID, _, newRoot *core.ShadowNode) *core.ShadowNode {
		calls = append(calls, "first")
		assert.Equal(t, f.surface, id)
		newRoot.AppendChild(extra)
		return newRoot
	}))
	cancel := false
	unregisterSecond := f.manager.RegisterCommitHook(CommitHookFunc(func(_ core.SurfaceID, _, newRoot *core.ShadowNode) *core.ShadowNode {
		calls = append(calls, "second")
		if cancel {
			return nil
		}
		return newRoot
	}))

	f.complete(f.view(nil))
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 2, f.root().Children().Len(), "the first hook appended a child")

	cancel = true
	unregisterFirst()
	unregisterFirst()
	calls = nil
	assert.Equal(t, mounting.CommitCancelled, f.manager.CompleteSurface(f.surface, nil, mounting.CommitOptions{}))
	assert.Equal(t, []string{"second"}, calls)

	unregisterSecond()
	assert.Equal(t, 0, f.manager.commitHooks.len())
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestUIManager_ReportMount(t *testing.T) {
	f := newFixture(t, 100, 100)
	mountTime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.manager.clock = fixedClock{now: mountTime}
	var mounted []*core.ShadowNode
	unregister := f.manager.RegisterMountHook(MountHookFunc(func(root *core.ShadowNode, at time.Time) {
		assert.Equal(t, mountTime, at)
		mounted = append(mounted, root)
	}))

	f.complete(f.view(nil))
	_, ok := f.tree().MountingCoordinator().PullTransaction()
	require.True(t, ok)
	f.manager.ReportMount(f.surface)
	require.Len(t, mounted, 1)
	assert.Same(t, f.root(), mounted[0])

	unregister()
	f.manager.ReportMount(f.surface)
	f.manager.ReportMount(8)
	assert.Len(t, mounted, 1)
}
