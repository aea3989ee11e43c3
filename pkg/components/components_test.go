package components

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/textlayout"
)

func TestParseStyle(t *testing.T) {
	tests := map[string]struct {
		raw   core.RawProps
		check func(t *testing.T, s layout.Style)
	}{
		"enums": {
			raw: core.RawProps{"flexDirection": "row", "justifyContent": "space-between", "alignItems": "center", "display": "none"},
			check: func(t *testing.T, s layout.Style) {
				assert.Equal(t, layout.FlexDirectionRow, s.FlexDirection)
				assert.Equal(t, layout.JustifySpaceBetween, s.JustifyContent)
				assert.Equal(t, layout.AlignCenter, s.AlignItems)
				assert.Equal(t, layout.DisplayNone, s.Display)
			},
		},
		"dimensions": {
			raw: core.RawProps{"width": 100, "height": "50%", "minWidth": "auto", "flexBasis": 20.5},
			check: func(t *testing.T, s layout.Style) {
				assert.Equal(t, layout.Points(100), s.Width)
				assert.Equal(t, layout.Percent(50), s.Height)
				assert.Equal(t, layout.Auto(), s.MinWidth)
				assert.Equal(t, layout.Points(20.5), s.FlexBasis)
			},
		},
		"edges": {
			raw: core.RawProps{"margin": 4, "marginLeft": 8, "paddingVertical": 2, "borderTopWidth": 1, "left": 3, "start": 6},
			check: func(t *testing.T, s layout.Style) {
				assert.Equal(t, layout.Points(4), s.Margin[layout.EdgeAll])
				assert.Equal(t, layout.Points(8), s.Margin[layout.EdgeLeft])
				assert.Equal(t, layout.Points(2), s.Padding[layout.EdgeVertical])
				assert.Equal(t, layout.Points(1), s.Border[layout.EdgeTop])
				assert.Equal(t, layout.Points(3), s.Position[layout.EdgeLeft])
				assert.Equal(t, layout.Points(6), s.Position[layout.EdgeStart])
			},
		},
		"defaults": {
			raw: core.RawProps{"unknown": true},
			check: func(t *testing.T, s layout.Style) {
				assert.True(t, s.Equal(layout.DefaultStyle()))
			},
		},
		"flex": {
			raw: core.RawProps{"flexGrow": 1, "flexShrink": 0.5, "aspectRatio": 2},
			check: func(t *testing.T, s layout.Style) {
				assert.Equal(t, 1.0, s.FlexGrow)
				assert.Equal(t, 0.5, s.FlexShrink)
				assert.True(t, math.IsNaN(s.Flex))
				assert.Equal(t, 2.0, s.AspectRatio)
			},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := ParseStyle(tt.raw)
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestParseStyle_Errors(t *testing.T) {
	tests := map[string]core.RawProps{
		"unknown keyword": {"flexDirection": "diagonal"},
		"keyword type":    {"alignItems": 3},
		"bad percent":     {"width": "half%"},
		"bad dimension":   {"height": true},
		"bad number":      {"flexGrow": "1"},
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseStyle(raw); err == nil {
				t.Errorf("ParseStyle(%v) returned no error", raw)
			}
		})
	}
}

func newRegistry(t *testing.T) *core.ComponentDescriptorRegistry {
	t.Helper()
	r, err := NewRegistry(Options{})
	require.NoError(t, err)
	return r
}

func create(t *testing.T, r *core.ComponentDescriptorRegistry, name core.ComponentName, tag core.Tag, raw core.RawProps, children ...*core.ShadowNode) *core.ShadowNode {
	t.Helper()
	d, ok := r.Get(name)
	require.True(t, ok)
	props, err := d.CloneProps(nil, raw)
	require.NoError(t, err)
	family := d.CreateFamily(core.FamilyFragment{Tag: tag, SurfaceID: 1})
	return d.CreateShadowNode(core.Fragment{
		Props:    props,
		State:    d.CreateInitialState(props, family),
		Children: core.Children(children...),
	}, family)
}

func TestView_Flattening(t *testing.T) {
	r := newRegistry(t)
	tests := map[string]struct {
		raw        core.RawProps
		formsView  bool
		stacking   bool
		orderIndex int
	}{
		"plain":           {core.RawProps{"width": 10}, false, false, 0},
		"not collapsable": {core.RawProps{"collapsable": false}, true, false, 0},
		"background":      {core.RawProps{"backgroundColor": "#fff"}, true, false, 0},
		"border":          {core.RawProps{"borderWidth": 1}, true, false, 0},
		"zero border":     {core.RawProps{"borderWidth": 0}, false, false, 0},
		"clips":           {core.RawProps{"overflow": "hidden"}, true, false, 0},
		"z index":         {core.RawProps{"zIndex": 3}, true, true, 3},
		"translucent":     {core.RawProps{"opacity": 0.5}, true, true, 0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			n := create(t, r, ViewName, 2, tt.raw)
			assert.Equal(t, tt.formsView, n.Traits().Has(core.TraitFormsView), "forms view")
			assert.Equal(t, tt.stacking, n.Traits().Has(core.TraitFormsStackingContext), "stacking context")
			assert.Equal(t, tt.orderIndex, n.OrderIndex())
			assert.True(t, n.Traits().Has(core.TraitLayoutable))
		})
	}
}

func TestView_ClonePropsRederivesTraits(t *testing.T) {
	r := newRegistry(t)
	d, _ := r.Get(ViewName)
	n := create(t, r, ViewName, 2, core.RawProps{"backgroundColor": "red"})
	require.True(t, n.Traits().Has(core.TraitFormsView))

	props, err := d.CloneProps(n.Props(), core.RawProps{"backgroundColor": nil})
	require.NoError(t, err)
	clone := n.Clone(core.Fragment{Props: props})
	assert.False(t, clone.Traits().Has(core.TraitFormsView))
}

func TestRegistry_Fallback(t *testing.T) {
	r := newRegistry(t)
	n := create(t, r, "MapView", 2, nil)
	assert.Equal(t, UnimplementedName, n.ComponentName())
	assert.True(t, n.Traits().Has(core.TraitFormsView))
}

func TestRootProps_RoundTrip(t *testing.T) {
	constraints := core.LayoutConstraints{
		MinimumSize:     graphics.Size{Width: 10, Height: 20},
		MaximumSize:     graphics.Size{Width: 300, Height: math.Inf(1)},
		LayoutDirection: layout.DirectionRTL,
	}
	ctx := core.LayoutContext{PointScaleFactor: 3, FontSizeMultiplier: 1.5, SwapLeftAndRightInRTL: true}

	p, err := ParseRootProps(RootRawProps(constraints, ctx).Merge(core.RawProps{"padding": 4}))
	require.NoError(t, err)
	assert.True(t, p.LayoutConstraints().Equal(constraints), "constraints = %+v", p.LayoutConstraints())
	assert.Equal(t, ctx, p.LayoutContext())
	assert.Equal(t, layout.Points(4), p.Style.Padding[layout.EdgeAll])

	defaults, err := ParseRootProps(nil)
	require.NoError(t, err)
	assert.True(t, defaults.LayoutConstraints().Equal(core.UnconstrainedLayout()))
	assert.Equal(t, core.DefaultLayoutContext(), defaults.LayoutContext())
}

func TestParagraph_MeasuresText(t *testing.T) {
	manager := textlayout.NewManager(textlayout.Options{})
	r, err := NewRegistry(Options{Text: manager})
	require.NoError(t, err)

	text := create(t, r, RawTextName, 3, core.RawProps{"text": "hello"})
	paragraph := create(t, r, ParagraphName, 2, core.RawProps{"fontSize": 13}, text)
	root := create(t, r, RootName, 1, core.RawProps{"alignItems": "flex-start"}, paragraph)

	constraints := core.ExactLayout(graphics.Size{Width: 200, Height: 100})
	result := core.LayoutIfNeeded(root, core.DefaultLayoutContext(), constraints)

	laid := root.Children().At(0)
	assert.Equal(t, "hello", ParagraphText(laid))
	assert.True(t, laid.LayoutMetrics().Frame.Equal(graphics.RectFromXYWH(0, 0, 35, 13)),
		"frame = %v", laid.LayoutMetrics().Frame)
	assert.Positive(t, result.Stats.MeasureCallbacks)
	assert.False(t, text.Traits().Has(core.TraitLayoutable))
}

func TestParagraph_MeasuredOncePerConstraint(t *testing.T) {
	manager := textlayout.NewManager(textlayout.Options{})
	r, err := NewRegistry(Options{Text: manager})
	require.NoError(t, err)

	paragraph := create(t, r, ParagraphName, 2, core.RawProps{"text": "hello world", "fontSize": 13})
	root := create(t, r, RootName, 1, nil, paragraph)
	constraints := core.ExactLayout(graphics.Size{Width: 50, Height: 100})

	first := core.LayoutIfNeeded(root, core.DefaultLayoutContext(), constraints)
	require.Positive(t, first.Stats.MeasureCallbacks)
	assert.LessOrEqual(t, first.Stats.MeasureCallbacks, first.Stats.Measures+first.Stats.Layouts,
		"each measure callback must come from a cache miss")
	root.Seal()

	next := root.Clone(core.Fragment{})
	next.DirtyLayout()
	second := core.LayoutIfNeeded(next, core.DefaultLayoutContext(), constraints)
	assert.Zero(t, second.Stats.MeasureCallbacks, "unchanged paragraph must be served from the layout cache")
	assert.True(t, next.Children().At(0).LayoutMetrics().Equal(root.Children().At(0).LayoutMetrics()))

	// The wrapped paragraph is two lines tall.
	assert.InDelta(t, 26, root.Children().At(0).LayoutMetrics().Frame.Size.Height, graphics.Epsilon)
}

func TestScrollView_InitialState(t *testing.T) {
	r := newRegistry(t)
	n := create(t, r, ScrollViewName, 2, nil)
	require.NotNil(t, n.State())
	assert.Equal(t, ScrollState{}, ScrollStateOf(n))
	assert.True(t, n.Traits().Has(core.TraitFormsView))

	d, _ := r.Get(ScrollViewName)
	next := d.CreateState(n.Family(), ScrollState{ContentOffset: graphics.Point{Y: 40}})
	assert.Equal(t, n.State().Revision()+1, next.Revision(), "follows the initial state")
	clone := n.Clone(core.Fragment{State: next})
	assert.Equal(t, 40.0, ScrollStateOf(clone).ContentOffset.Y)
}
