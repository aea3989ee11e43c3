package layout

import (
	"testing"

	"github.com/go-drift/fabric/pkg/graphics"
)

func newTestNode(config *Config, mutate func(s *Style)) *Node {
	n := NewNode(config)
	s := DefaultStyle()
	if mutate != nil {
		mutate(&s)
	}
	n.SetStyle(s)
	return n
}

func fixed(w, h float64) func(s *Style) {
	return func(s *Style) {
		s.Width = Points(w)
		s.Height = Points(h)
	}
}

func assertFrame(t *testing.T, name string, n *Node, left, top, width, height float64) {
	t.Helper()
	l := n.Layout()
	if !FloatsEqual(l.Left, left) || !FloatsEqual(l.Top, top) ||
		!FloatsEqual(l.Width, width) || !FloatsEqual(l.Height, height) {
		t.Errorf("%s frame = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
			name, l.Left, l.Top, l.Width, l.Height, left, top, width, height)
	}
}

func TestCalculateLayout_SingleNode(t *testing.T) {
	type tc struct {
		mutate         func(s *Style)
		ownerW, ownerH float64
		expectedWidth  float64
		expectedHeight float64
	}

	tests := map[string]tc{
		"fixed width and height": {
			mutate:         fixed(50, 30),
			ownerW:         100,
			ownerH:         100,
			expectedWidth:  50,
			expectedHeight: 30,
		},
		"auto fills owner size": {
			ownerW:         100,
			ownerH:         80,
			expectedWidth:  100,
			expectedHeight: 80,
		},
		"percent of owner": {
			mutate: func(s *Style) {
				s.Width = Percent(50)
				s.Height = Percent(25)
			},
			ownerW:         200,
			ownerH:         100,
			expectedWidth:  100,
			expectedHeight: 25,
		},
		"undefined owner collapses to padding": {
			mutate: func(s *Style) {
				s.Padding = EdgesAll(Points(4))
			},
			ownerW:         Undefined,
			ownerH:         Undefined,
			expectedWidth:  8,
			expectedHeight: 8,
		},
		"max width caps the owner": {
			mutate: func(s *Style) {
				s.MaxWidth = Points(40)
			},
			ownerW:         100,
			ownerH:         10,
			expectedWidth:  0,
			expectedHeight: 10,
		},
		"min above max resolves to min": {
			mutate: func(s *Style) {
				s.MinWidth = Points(80)
				s.MaxWidth = Points(40)
			},
			ownerW:         100,
			ownerH:         10,
			expectedWidth:  80,
			expectedHeight: 10,
		},
		"negative owner size is unconstrained": {
			ownerW:         -50,
			ownerH:         -1,
			expectedWidth:  0,
			expectedHeight: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			node := newTestNode(nil, tt.mutate)
			CalculateLayout(node, tt.ownerW, tt.ownerH, DirectionLTR)

			assertFrame(t, "root", node, 0, 0, tt.expectedWidth, tt.expectedHeight)
			if node.IsDirty() {
				t.Error("node should not be dirty after CalculateLayout")
			}
			if !node.HasNewLayout() {
				t.Error("node should have a new layout")
			}
		})
	}
}

func TestCalculateLayout_FlexGrowSplitsEvenly(t *testing.T) {
	root := newTestNode(nil, func(s *Style) { s.FlexDirection = FlexDirectionRow })
	a := newTestNode(nil, func(s *Style) { s.FlexGrow = 1 })
	b := newTestNode(nil, func(s *Style) { s.FlexGrow = 1 })
	root.AppendChild(a)
	root.AppendChild(b)

	CalculateLayout(root, 100, Undefined, DirectionLTR)

	assertFrame(t, "root", root, 0, 0, 100, 0)
	assertFrame(t, "a", a, 0, 0, 50, 0)
	assertFrame(t, "b", b, 50, 0, 50, 0)
}

func TestCalculateLayout_FlexShrink(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.FlexDirection = FlexDirectionRow
		s.Width = Points(100)
		s.Height = Points(10)
	})
	a := newTestNode(nil, func(s *Style) { s.FlexBasis = Points(100); s.FlexShrink = 1 })
	b := newTestNode(nil, func(s *Style) { s.FlexBasis = Points(100); s.FlexShrink = 1 })
	root.AppendChild(a)
	root.AppendChild(b)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "a", a, 0, 0, 50, 10)
	assertFrame(t, "b", b, 50, 0, 50, 10)
}

func TestCalculateLayout_MinMaxDuringFlex(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.FlexDirection = FlexDirectionRow
		s.Width = Points(100)
		s.Height = Points(10)
	})
	capped := newTestNode(nil, func(s *Style) { s.FlexGrow = 1; s.MaxWidth = Points(20) })
	free := newTestNode(nil, func(s *Style) { s.FlexGrow = 1 })
	root.AppendChild(capped)
	root.AppendChild(free)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "capped", capped, 0, 0, 20, 10)
	assertFrame(t, "free", free, 20, 0, 80, 10)
}

func TestCalculateLayout_PaddingAndMargin(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.Width = Points(100)
		s.Height = Points(100)
		s.Padding = EdgesAll(Points(10))
	})
	child := newTestNode(nil, func(s *Style) {
		s.Width = Points(20)
		s.Height = Points(20)
		s.Margin = EdgesAll(Points(5))
	})
	root.AppendChild(child)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "child", child, 15, 15, 20, 20)
	if got := root.Layout().Padding; got != graphics.EdgeInsetsAll(10) {
		t.Errorf("root padding = %v, want all 10", got)
	}
	if got := child.Layout().Margin; got != graphics.EdgeInsetsAll(5) {
		t.Errorf("child margin = %v, want all 5", got)
	}
}

func TestCalculateLayout_Border(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.Width = Points(50)
		s.Height = Points(50)
		s.Border = EdgesAll(Points(3)).Set(EdgeLeft, Points(7))
	})
	child := newTestNode(nil, nil)
	root.AppendChild(child)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "child", child, 7, 3, 40, 0)
	want := graphics.EdgeInsets{Left: 7, Top: 3, Right: 3, Bottom: 3}
	if got := root.Layout().Border; got != want {
		t.Errorf("border = %v, want %v", got, want)
	}
}

func TestCalculateLayout_JustifyContent(t *testing.T) {
	type tc struct {
		justify Justify
		lefts   [3]float64
	}

	tests := map[string]tc{
		"flex-start":    {justify: JustifyFlexStart, lefts: [3]float64{0, 20, 40}},
		"center":        {justify: JustifyCenter, lefts: [3]float64{20, 40, 60}},
		"flex-end":      {justify: JustifyFlexEnd, lefts: [3]float64{40, 60, 80}},
		"space-between": {justify: JustifySpaceBetween, lefts: [3]float64{0, 40, 80}},
		"space-around":  {justify: JustifySpaceAround, lefts: [3]float64{7, 40, 73}},
		"space-evenly":  {justify: JustifySpaceEvenly, lefts: [3]float64{10, 40, 70}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := newTestNode(nil, func(s *Style) {
				s.FlexDirection = FlexDirectionRow
				s.JustifyContent = tt.justify
				s.Width = Points(100)
			})
			var children [3]*Node
			for i := range children {
				children[i] = newTestNode(nil, fixed(20, 20))
				root.AppendChild(children[i])
			}

			CalculateLayout(root, Undefined, Undefined, DirectionLTR)

			for i, child := range children {
				if got := child.Layout().Left; !FloatsEqual(got, tt.lefts[i]) {
					t.Errorf("child %d left = %v, want %v", i, got, tt.lefts[i])
				}
				if got := child.Layout().Width; !FloatsEqual(got, 20) {
					t.Errorf("child %d width = %v, want 20", i, got)
				}
			}
		})
	}
}

func TestCalculateLayout_AlignItems(t *testing.T) {
	type tc struct {
		align         Align
		childWidth    Value
		expectedLeft  float64
		expectedWidth float64
	}

	tests := map[string]tc{
		"flex-start":         {align: AlignFlexStart, childWidth: Points(20), expectedLeft: 0, expectedWidth: 20},
		"center":             {align: AlignCenter, childWidth: Points(20), expectedLeft: 40, expectedWidth: 20},
		"flex-end":           {align: AlignFlexEnd, childWidth: Points(20), expectedLeft: 80, expectedWidth: 20},
		"stretch":            {align: AlignStretch, childWidth: Auto(), expectedLeft: 0, expectedWidth: 100},
		"stretch with width": {align: AlignStretch, childWidth: Points(20), expectedLeft: 0, expectedWidth: 20},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := newTestNode(nil, func(s *Style) {
				s.AlignItems = tt.align
				s.Width = Points(100)
				s.Height = Points(100)
			})
			child := newTestNode(nil, func(s *Style) {
				s.Width = tt.childWidth
				s.Height = Points(20)
			})
			root.AppendChild(child)

			CalculateLayout(root, Undefined, Undefined, DirectionLTR)

			assertFrame(t, "child", child, tt.expectedLeft, 0, tt.expectedWidth, 20)
		})
	}
}

func TestCalculateLayout_AlignSelfOverridesAlignItems(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.AlignItems = AlignFlexStart
		s.Width = Points(100)
		s.Height = Points(100)
	})
	child := newTestNode(nil, func(s *Style) {
		s.AlignSelf = AlignFlexEnd
		s.Width = Points(10)
		s.Height = Points(10)
	})
	root.AppendChild(child)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "child", child, 90, 0, 10, 10)
}

func TestCalculateLayout_AbsolutePosition(t *testing.T) {
	type tc struct {
		position Edges
		expected [2]float64
	}

	tests := map[string]tc{
		"leading insets": {
			position: Edges{}.Set(EdgeLeft, Points(10)).Set(EdgeTop, Points(20)),
			expected: [2]float64{10, 20},
		},
		"trailing insets": {
			position: Edges{}.Set(EdgeRight, Points(10)).Set(EdgeBottom, Points(10)),
			expected: [2]float64{60, 50},
		},
		"no insets": {
			expected: [2]float64{0, 0},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := newTestNode(nil, fixed(100, 100))
			child := newTestNode(nil, func(s *Style) {
				s.PositionType = PositionTypeAbsolute
				s.Position = tt.position
				s.Width = Points(30)
				s.Height = Points(40)
			})
			sibling := newTestNode(nil, fixed(10, 10))
			root.AppendChild(child)
			root.AppendChild(sibling)

			CalculateLayout(root, Undefined, Undefined, DirectionLTR)

			assertFrame(t, "absolute", child, tt.expected[0], tt.expected[1], 30, 40)
			// Absolute children do not take space in the flow.
			assertFrame(t, "sibling", sibling, 0, 0, 10, 10)
		})
	}
}

func TestCalculateLayout_AbsoluteSizeFromInsets(t *testing.T) {
	root := newTestNode(nil, fixed(100, 100))
	child := newTestNode(nil, func(s *Style) {
		s.PositionType = PositionTypeAbsolute
		s.Position = EdgesAll(Points(10))
	})
	root.AppendChild(child)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "child", child, 10, 10, 80, 80)
}

func TestCalculateLayout_Wrap(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.FlexDirection = FlexDirectionRow
		s.FlexWrap = WrapWrap
		s.Width = Points(100)
	})
	var children [3]*Node
	for i := range children {
		children[i] = newTestNode(nil, fixed(40, 10))
		root.AppendChild(children[i])
	}

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "root", root, 0, 0, 100, 20)
	assertFrame(t, "first", children[0], 0, 0, 40, 10)
	assertFrame(t, "second", children[1], 40, 0, 40, 10)
	assertFrame(t, "third", children[2], 0, 10, 40, 10)
}

func TestCalculateLayout_WrapReverse(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.FlexDirection = FlexDirectionRow
		s.FlexWrap = WrapReverse
		s.Width = Points(100)
	})
	var children [3]*Node
	for i := range children {
		children[i] = newTestNode(nil, fixed(40, 10))
		root.AppendChild(children[i])
	}

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "first", children[0], 0, 10, 40, 10)
	assertFrame(t, "third", children[2], 0, 0, 40, 10)
}

func TestCalculateLayout_Gap(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.FlexDirection = FlexDirectionRow
		s.ColumnGap = Points(10)
		s.Width = Points(100)
		s.Height = Points(10)
	})
	a := newTestNode(nil, func(s *Style) { s.FlexGrow = 1 })
	b := newTestNode(nil, func(s *Style) { s.FlexGrow = 1 })
	root.AppendChild(a)
	root.AppendChild(b)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "a", a, 0, 0, 45, 10)
	assertFrame(t, "b", b, 55, 0, 45, 10)
}

func TestCalculateLayout_RTL(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.FlexDirection = FlexDirectionRow
		s.Width = Points(100)
	})
	a := newTestNode(nil, fixed(20, 10))
	b := newTestNode(nil, fixed(20, 10))
	root.AppendChild(a)
	root.AppendChild(b)

	CalculateLayout(root, Undefined, Undefined, DirectionRTL)

	assertFrame(t, "a", a, 80, 0, 20, 10)
	assertFrame(t, "b", b, 60, 0, 20, 10)
	if got := a.Layout().Direction; got != DirectionRTL {
		t.Errorf("child direction = %v, want rtl", got)
	}
}

func TestCalculateLayout_ReverseDirections(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.FlexDirection = FlexDirectionColumnReverse
		s.Width = Points(50)
		s.Height = Points(100)
	})
	a := newTestNode(nil, fixed(50, 10))
	b := newTestNode(nil, fixed(50, 20))
	root.AppendChild(a)
	root.AppendChild(b)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "a", a, 0, 90, 50, 10)
	assertFrame(t, "b", b, 0, 70, 50, 20)
}

func TestCalculateLayout_DisplayNone(t *testing.T) {
	root := newTestNode(nil, fixed(100, 100))
	hidden := newTestNode(nil, func(s *Style) {
		s.Display = DisplayNone
		s.Width = Points(50)
		s.Height = Points(50)
	})
	grandchild := newTestNode(nil, fixed(10, 10))
	hidden.AppendChild(grandchild)
	visible := newTestNode(nil, fixed(10, 10))
	root.AppendChild(hidden)
	root.AppendChild(visible)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "hidden", hidden, 0, 0, 0, 0)
	assertFrame(t, "grandchild", hidden.Child(0), 0, 0, 0, 0)
	assertFrame(t, "visible", visible, 0, 0, 10, 10)
}

func TestCalculateLayout_AspectRatio(t *testing.T) {
	root := newTestNode(nil, fixed(100, 100))
	child := newTestNode(nil, func(s *Style) {
		s.Width = Points(40)
		s.AspectRatio = 2
	})
	root.AppendChild(child)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "child", child, 0, 0, 40, 20)
}

func TestCalculateLayout_Baseline(t *testing.T) {
	root := newTestNode(nil, func(s *Style) {
		s.FlexDirection = FlexDirectionRow
		s.AlignItems = AlignBaseline
		s.Width = Points(100)
	})
	a := newTestNode(nil, fixed(20, 20))
	a.SetBaselineFunc(func(*Node, float64, float64) float64 { return 15 })
	b := newTestNode(nil, fixed(20, 40))
	b.SetBaselineFunc(func(*Node, float64, float64) float64 { return 10 })
	root.AppendChild(a)
	root.AppendChild(b)

	CalculateLayout(root, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "root", root, 0, 0, 100, 45)
	assertFrame(t, "a", a, 0, 0, 20, 20)
	assertFrame(t, "b", b, 20, 5, 20, 40)
}

func TestCalculateLayout_PixelRounding(t *testing.T) {
	type tc struct {
		scale  float64
		lefts  [3]float64
		widths [3]float64
	}

	third := 100.0 / 3
	tests := map[string]tc{
		"scale 1": {
			scale:  1,
			lefts:  [3]float64{0, 33, 67},
			widths: [3]float64{33, 34, 33},
		},
		"scale 2": {
			scale:  2,
			lefts:  [3]float64{0, 33.5, 66.5},
			widths: [3]float64{33.5, 33, 33.5},
		},
		"rounding disabled": {
			scale:  0,
			lefts:  [3]float64{0, third, 2 * third},
			widths: [3]float64{third, third, third},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			config := NewConfig()
			config.PointScaleFactor = tt.scale
			root := newTestNode(config, func(s *Style) {
				s.FlexDirection = FlexDirectionRow
				s.Width = Points(100)
				s.Height = Points(10)
			})
			var children [3]*Node
			for i := range children {
				children[i] = newTestNode(config, func(s *Style) { s.FlexGrow = 1 })
				root.AppendChild(children[i])
			}

			CalculateLayout(root, Undefined, Undefined, DirectionLTR)

			for i, child := range children {
				l := child.Layout()
				if !FloatsEqual(l.Left, tt.lefts[i]) || !FloatsEqual(l.Width, tt.widths[i]) {
					t.Errorf("child %d = (left %v, width %v), want (left %v, width %v)",
						i, l.Left, l.Width, tt.lefts[i], tt.widths[i])
				}
			}
		})
	}
}

func TestCalculateLayout_TextRoundingNeverTruncates(t *testing.T) {
	leaf := newTestNode(nil, nil)
	leaf.SetNodeType(NodeTypeText)
	leaf.SetMeasureFunc(func(*Node, float64, MeasureMode, float64, MeasureMode) graphics.Size {
		return graphics.Size{Width: 10.2, Height: 12.1}
	})

	CalculateLayout(leaf, Undefined, Undefined, DirectionLTR)

	assertFrame(t, "leaf", leaf, 0, 0, 11, 13)
}

func TestCalculateLayout_Deterministic(t *testing.T) {
	build := func() (*Node, []*Node) {
		root := newTestNode(nil, func(s *Style) {
			s.FlexDirection = FlexDirectionRow
			s.FlexWrap = WrapWrap
			s.Padding = EdgesAll(Points(3))
			s.JustifyContent = JustifySpaceAround
		})
		nodes := []*Node{root}
		for i := 0; i < 7; i++ {
			child := newTestNode(nil, func(s *Style) {
				s.FlexGrow = float64(i % 3)
				s.FlexBasis = Points(float64(10 + 7*i))
				s.Margin = EdgesAll(Points(float64(i)))
			})
			leaf := newTestNode(nil, nil)
			leaf.SetMeasureFunc(func(_ *Node, w float64, _ MeasureMode, _ float64, _ MeasureMode) graphics.Size {
				return graphics.Size{Width: 12.5, Height: 9.25}
			})
			child.AppendChild(leaf)
			root.AppendChild(child)
			nodes = append(nodes, child, leaf)
		}
		return root, nodes
	}

	rootA, nodesA := build()
	rootB, nodesB := build()
	CalculateLayout(rootA, 173, Undefined, DirectionLTR)
	CalculateLayout(rootB, 173, Undefined, DirectionLTR)
	// A second pass over the same tree must not change anything either.
	CalculateLayout(rootA, 173, Undefined, DirectionLTR)

	for i := range nodesA {
		if a, b := nodesA[i].Layout(), nodesB[i].Layout(); a != b {
			t.Errorf("node %d layout differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestCalculateLayout_CachedRootKeepsRoundedSize(t *testing.T) {
	root := newTestNode(nil, nil)
	leaf := newTestNode(nil, nil)
	leaf.SetMeasureFunc(func(*Node, float64, MeasureMode, float64, MeasureMode) graphics.Size {
		return graphics.Size{Width: 10, Height: 9.25}
	})
	root.AppendChild(leaf)

	CalculateLayout(root, 100, Undefined, DirectionLTR)
	first := root.Layout()
	stats := CalculateLayout(root, 100, Undefined, DirectionLTR)
	second := root.Layout()

	if stats.CachedLayouts != 1 {
		t.Errorf("CachedLayouts = %d, want 1", stats.CachedLayouts)
	}
	if first != second {
		t.Errorf("second pass layout = %+v, want %+v", second, first)
	}
	assertFrame(t, "root", root, 0, 0, 100, 9)
}

func TestCalculateLayout_TextLeafMeasuredOnce(t *testing.T) {
	type call struct {
		width      float64
		widthMode  MeasureMode
		height     float64
		heightMode MeasureMode
	}
	var calls []call

	root := newTestNode(nil, nil)
	text := newTestNode(nil, nil)
	text.SetMeasureFunc(func(_ *Node, w float64, wm MeasureMode, h float64, hm MeasureMode) graphics.Size {
		calls = append(calls, call{w, wm, h, hm})
		return graphics.Size{Width: 60, Height: 18}
	})
	root.AppendChild(text)

	stats := CalculateLayout(root, 100, Undefined, DirectionLTR)

	if len(calls) != 1 {
		t.Fatalf("measure calls = %d, want 1", len(calls))
	}
	if stats.MeasureCallbacks != 1 {
		t.Errorf("Stats.MeasureCallbacks = %d, want 1", stats.MeasureCallbacks)
	}
	got := calls[0]
	if got.width != 100 || got.widthMode != MeasureModeExactly ||
		!IsUndefined(got.height) || got.heightMode != MeasureModeUndefined {
		t.Errorf("measure called with %+v, want width exactly 100 and undefined height", got)
	}
	assertFrame(t, "text", text, 0, 0, 100, 18)

	// Same constraints again: served from cache.
	stats = CalculateLayout(root, 100, Undefined, DirectionLTR)
	if len(calls) != 1 {
		t.Errorf("measure calls after relayout = %d, want 1", len(calls))
	}
	if stats.CachedLayouts == 0 {
		t.Error("relayout should be served from the layout cache")
	}

	text.MarkDirty()
	CalculateLayout(root, 100, Undefined, DirectionLTR)
	if len(calls) != 2 {
		t.Errorf("measure calls after MarkDirty = %d, want 2", len(calls))
	}
}

func TestCalculateLayout_DegenerateMeasure(t *testing.T) {
	type tc struct {
		size graphics.Size
	}

	tests := map[string]tc{
		"nan":      {size: graphics.Size{Width: Undefined, Height: Undefined}},
		"negative": {size: graphics.Size{Width: -5, Height: -10}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := newTestNode(nil, func(s *Style) { s.AlignItems = AlignFlexStart })
			leaf := newTestNode(nil, nil)
			leaf.SetMeasureFunc(func(*Node, float64, MeasureMode, float64, MeasureMode) graphics.Size {
				return tt.size
			})
			root.AppendChild(leaf)

			CalculateLayout(root, 100, 100, DirectionLTR)

			assertFrame(t, "leaf", leaf, 0, 0, 0, 0)
		})
	}
}

func TestCalculateLayout_ClonesSharedChildren(t *testing.T) {
	config := NewConfig()
	var clones int
	config.CloneNodeFunc = func(oldNode, owner *Node, childIndex int) *Node {
		clones++
		return oldNode.Clone()
	}

	root := newTestNode(config, fixed(100, 50))
	child := newTestNode(config, nil)
	root.AppendChild(child)
	CalculateLayout(root, Undefined, Undefined, DirectionLTR)
	if clones != 0 {
		t.Fatalf("clones after first layout = %d, want 0", clones)
	}

	next := root.Clone()
	style := next.Style()
	style.Width = Points(200)
	next.SetStyle(style)
	CalculateLayout(next, Undefined, Undefined, DirectionLTR)

	if clones != 1 {
		t.Errorf("clones = %d, want 1", clones)
	}
	if next.Child(0) == child {
		t.Fatal("shared child was laid out in place")
	}
	if next.Child(0).Owner() != next {
		t.Error("cloned child should be owned by the new root")
	}
	assertFrame(t, "original child", child, 0, 0, 100, 0)
	assertFrame(t, "cloned child", next.Child(0), 0, 0, 200, 0)
	if root.Child(0) != child {
		t.Error("original root lost its child")
	}
}

func TestCalculateLayout_Stats(t *testing.T) {
	root := newTestNode(nil, fixed(100, 100))
	for i := 0; i < 3; i++ {
		root.AppendChild(newTestNode(nil, fixed(10, 10)))
	}

	stats := CalculateLayout(root, Undefined, Undefined, DirectionLTR)
	if stats.Layouts != 4 {
		t.Errorf("Layouts = %d, want 4", stats.Layouts)
	}

	stats = CalculateLayout(root, Undefined, Undefined, DirectionLTR)
	if stats.Layouts != 0 || stats.CachedLayouts != 1 {
		t.Errorf("relayout stats = %+v, want a single cached layout", stats)
	}
}
