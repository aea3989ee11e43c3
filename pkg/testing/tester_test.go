package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fabric/pkg/components"
	"github.com/go-drift/fabric/pkg/config"
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/platform"
	"github.com/go-drift/fabric/pkg/treefile"
	"github.com/go-drift/fabric/pkg/uimanager"
)

func view(t *testing.T, tester *SurfaceTester, raw core.RawProps, children ...*core.ShadowNode) *core.ShadowNode {
	t.Helper()
	raw = core.RawProps{"collapsable": false}.Merge(raw)
	n, err := tester.Create(components.ViewName, raw, children...)
	require.NoError(t, err)
	return n
}

func TestSurfaceTester_Complete(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	tester.SetSize(graphics.Size{Width: 100, Height: 100})

	a := view(t, tester, core.RawProps{"height": 30})
	b := view(t, tester, core.RawProps{"height": 20})
	require.NoError(t, tester.Complete(a, b))

	msg := tester.LastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, uint64(1), msg.Revision)
	assert.Equal(t, 3, tester.Views().Len(), "root and two views")
	assert.Equal(t, 3, tester.Bridge().AllocatedViews(DefaultSurfaceID))

	tests := map[core.Tag]graphics.Rect{
		a.Tag(): graphics.RectFromXYWH(0, 0, 100, 30),
		b.Tag(): graphics.RectFromXYWH(0, 30, 100, 20),
	}
	for tag, want := range tests {
		if got := tester.Find(ByTag(tag)).Frame(); got != want {
			t.Errorf("frame of #%d = %v, want %v", tag, got, want)
		}
	}
	assert.Empty(t, tester.Errors())
}

func TestSurfaceTester_UpdateAndRemove(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	a := view(t, tester, core.RawProps{"height": 30})
	b := view(t, tester, core.RawProps{"height": 20})
	require.NoError(t, tester.Complete(a, b))

	taller, err := tester.UIManager().CloneNode(a, nil, core.RawProps{"height": 60})
	require.NoError(t, err)
	require.NoError(t, tester.Complete(taller))

	assert.False(t, tester.Find(ByTag(b.Tag())).Exists())
	assert.Equal(t, 60.0, tester.Find(ByTag(a.Tag())).Frame().Size.Height)

	var kinds []platform.MountItemType
	for _, item := range tester.LastMessage().Items {
		kinds = append(kinds, item.Type)
	}
	assert.Contains(t, kinds, platform.MountUpdateProps)
	assert.Contains(t, kinds, platform.MountRemove)
	assert.Contains(t, kinds, platform.MountDelete)
	assert.Equal(t, core.LifecycleDestroyed, b.Family().Lifecycle())
}

func TestSurfaceTester_Resize(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	require.NoError(t, tester.Complete(view(t, tester, core.RawProps{"width": "50%", "height": 10})))

	require.NoError(t, tester.Resize(graphics.Size{Width: 300, Height: 200}))
	root := tester.Views().Root()
	assert.Equal(t, graphics.Size{Width: 300, Height: 200}, root.LayoutMetrics.Frame.Size)
	assert.Equal(t, 150.0, root.Children[0].LayoutMetrics.Frame.Size.Width)
}

func TestSurfaceTester_Scale(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	tester.SetScale(3)
	tester.SetSize(graphics.Size{Width: 10, Height: 10})
	require.NoError(t, tester.Complete(view(t, tester, core.RawProps{"height": 1})))

	assert.Equal(t, 3.0, tester.Scheduler().Config().Layout.PointScaleFactor)
	assert.Equal(t, 3.0, tester.UIManager().LayoutContext().PointScaleFactor)
	assert.Equal(t, 3.0, tester.Find(ByComponent(components.ViewName)).First().LayoutMetrics.PointScaleFactor)
}

func TestSurfaceTester_SetConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.FontSizeMultiplier = 2
	tester := NewSurfaceTesterWithT(t)
	tester.SetConfig(cfg)
	require.NoError(t, tester.Start())

	assert.Equal(t, 2.0, tester.UIManager().LayoutContext().FontSizeMultiplier)
	assert.Equal(t, 1.0, cfg.Layout.PointScaleFactor, "the caller's config is not modified")
	assert.Equal(t, DefaultScale, tester.UIManager().LayoutContext().PointScaleFactor)
}

func TestSurfaceTester_Play(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	doc := treefile.GenerateList(5, 3)
	tester.SetSize(graphics.Size{Width: doc.Width, Height: doc.Height})

	require.NoError(t, tester.Play(doc))
	assert.Len(t, tester.Messages(), 3)
	rows := tester.Find(Descendant(ByComponent(components.ScrollViewName), ByComponent(components.ViewName)))
	assert.Equal(t, 5, rows.Count())
	assert.Equal(t, 5, tester.Find(ByComponent(components.ParagraphName)).Count())
	assert.Empty(t, tester.Errors())

	other := *doc
	other.Surface = 7
	assert.Error(t, tester.Play(&other))
}

func TestSurfaceTester_StateUpdate(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	scroll, err := tester.Create(components.ScrollViewName, core.RawProps{"height": 100})
	require.NoError(t, err)
	require.NoError(t, tester.Complete(scroll))

	scroll.State().Update(func(data any) any {
		s := data.(components.ScrollState)
		s.ContentOffset.Y = 25
		return s
	})
	require.NoError(t, tester.Pump())

	mounted := tester.Find(ByTag(scroll.Tag())).First()
	state, ok := mounted.State.Data().(components.ScrollState)
	require.True(t, ok)
	assert.Equal(t, 25.0, state.ContentOffset.Y)
	var kinds []platform.MountItemType
	for _, item := range tester.LastMessage().Items {
		kinds = append(kinds, item.Type)
	}
	assert.Contains(t, kinds, platform.MountUpdateState)
}

func TestSurfaceTester_MountHooksAndEvents(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	var mounts []time.Time
	tester.UIManager().RegisterMountHook(uimanager.MountHookFunc(func(_ *core.ShadowNode, at time.Time) {
		mounts = append(mounts, at)
	}))

	a := view(t, tester, core.RawProps{"height": 10})
	require.NoError(t, tester.Complete(a))
	tester.Clock().Advance(time.Second)
	require.NoError(t, tester.Resize(graphics.Size{Width: 10, Height: 10}))

	require.Len(t, mounts, 2)
	assert.Equal(t, time.Second, mounts[1].Sub(mounts[0]))

	var layouts int
	for _, ev := range tester.Events() {
		if ev.Tag == a.Tag() && ev.Name == core.LayoutEventName {
			layouts++
		}
	}
	assert.Equal(t, 2, layouts, "the view reports its first frame and the resize")
}

func TestSurfaceTester_PumpAndSettle(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	require.NoError(t, tester.Start())

	ran := 0
	var again func()
	again = func() {
		ran++
		if ran < 3 {
			tester.Dispatch(again)
		}
	}
	tester.Dispatch(again)
	require.NoError(t, tester.PumpAndSettle(time.Second))
	assert.Equal(t, 3, ran)

	stop := false
	var forever func()
	forever = func() {
		if !stop {
			tester.Dispatch(forever)
		}
	}
	tester.Dispatch(forever)
	assert.ErrorIs(t, tester.PumpAndSettle(100*time.Millisecond), ErrSettleTimeout)
	stop = true
}

func TestSurfaceTester_ReportsErrors(t *testing.T) {
	tester := NewSurfaceTesterWithT(t)
	require.NoError(t, tester.Start())

	errors.Report(&errors.FabricError{Op: "test", Kind: errors.KindMount})
	tester.Dispatch(func() {
		errors.Report(&errors.FabricError{Op: "queued", Kind: errors.KindMount})
	})
	err := tester.Pump()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queued")
	assert.Len(t, tester.Errors(), 2)
}

func TestSurfaceTester_CleanupStopsSurface(t *testing.T) {
	prev := errors.SetHandler(nil)
	errors.SetHandler(prev)

	tester := NewSurfaceTester()
	a := view(t, tester, core.RawProps{"height": 10})
	require.NoError(t, tester.Complete(a))
	bridge := tester.Bridge()

	tester.Cleanup()
	assert.Equal(t, core.LifecycleDestroyed, a.Family().Lifecycle())
	assert.Equal(t, 0, bridge.AllocatedViews(DefaultSurfaceID))
	assert.Same(t, prev, errors.SetHandler(prev), "the previous handler is restored")
	tester.Cleanup()
}
