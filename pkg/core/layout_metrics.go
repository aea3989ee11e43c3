package core

import (
	"fmt"
	"math"

	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
)

// LayoutMetrics is the layout result attached to a node, in its parent's
// coordinate space.
type LayoutMetrics struct {
	Frame            graphics.Rect
	ContentInsets    graphics.EdgeInsets // border plus padding
	BorderWidth      graphics.EdgeInsets
	LayoutDirection  layout.Direction
	DisplayType      layout.Display
	PointScaleFactor float64
}

// EmptyLayoutMetrics marks a node that was never laid out, or whose
// metrics cannot be computed. Its frame has a negative size.
var EmptyLayoutMetrics = LayoutMetrics{
	Frame:            graphics.Rect{Size: graphics.Size{Width: -1, Height: -1}},
	PointScaleFactor: 1,
}

// Equal compares metrics within graphics.Epsilon.
func (m LayoutMetrics) Equal(other LayoutMetrics) bool {
	return m.Frame.Equal(other.Frame) &&
		m.ContentInsets.Equal(other.ContentInsets) &&
		m.BorderWidth.Equal(other.BorderWidth) &&
		m.LayoutDirection == other.LayoutDirection &&
		m.DisplayType == other.DisplayType &&
		graphics.FloatsEqual(m.PointScaleFactor, other.PointScaleFactor)
}

// IsEmpty reports whether m equals EmptyLayoutMetrics.
func (m LayoutMetrics) IsEmpty() bool {
	return m.Equal(EmptyLayoutMetrics)
}

// ContentFrame returns the area inside border and padding, relative to the
// node's own origin.
func (m LayoutMetrics) ContentFrame() graphics.Rect {
	return m.ContentInsets.Inset(graphics.Rect{Size: m.Frame.Size})
}

// PaddingFrame returns the area inside the border, relative to the node's
// own origin.
func (m LayoutMetrics) PaddingFrame() graphics.Rect {
	return m.BorderWidth.Inset(graphics.Rect{Size: m.Frame.Size})
}

func (m LayoutMetrics) String() string {
	return fmt.Sprintf("{frame: %s, display: %s, direction: %s}", m.Frame, m.DisplayType, m.LayoutDirection)
}

// LayoutConstraints bound the size of a surface root.
type LayoutConstraints struct {
	MinimumSize     graphics.Size
	MaximumSize     graphics.Size
	LayoutDirection layout.Direction
}

// UnconstrainedLayout returns constraints with no upper bound.
func UnconstrainedLayout() LayoutConstraints {
	return LayoutConstraints{
		MaximumSize:     graphics.Size{Width: math.Inf(1), Height: math.Inf(1)},
		LayoutDirection: layout.DirectionLTR,
	}
}

// ExactLayout returns constraints that force size.
func ExactLayout(size graphics.Size) LayoutConstraints {
	return LayoutConstraints{MinimumSize: size, MaximumSize: size, LayoutDirection: layout.DirectionLTR}
}

// Clamp fits size into the constraints.
func (c LayoutConstraints) Clamp(size graphics.Size) graphics.Size {
	return graphics.Size{
		Width:  clamp(size.Width, c.MinimumSize.Width, c.MaximumSize.Width),
		Height: clamp(size.Height, c.MinimumSize.Height, c.MaximumSize.Height),
	}
}

// Equal compares constraints within graphics.Epsilon. Infinite bounds are
// equal to each other.
func (c LayoutConstraints) Equal(other LayoutConstraints) bool {
	return boundEqual(c.MinimumSize.Width, other.MinimumSize.Width) &&
		boundEqual(c.MinimumSize.Height, other.MinimumSize.Height) &&
		boundEqual(c.MaximumSize.Width, other.MaximumSize.Width) &&
		boundEqual(c.MaximumSize.Height, other.MaximumSize.Height) &&
		c.LayoutDirection == other.LayoutDirection
}

func boundEqual(a, b float64) bool {
	if math.IsInf(a, 1) || math.IsInf(b, 1) {
		return math.IsInf(a, 1) && math.IsInf(b, 1)
	}
	return graphics.FloatsEqual(a, b)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// LayoutContext carries per-pass settings that are not part of any
// node's props.
type LayoutContext struct {
	PointScaleFactor      float64
	FontSizeMultiplier    float64
	SwapLeftAndRightInRTL bool
	ViewportOffset        graphics.Point
}

// DefaultLayoutContext returns a context with unit scale factors.
func DefaultLayoutContext() LayoutContext {
	return LayoutContext{PointScaleFactor: 1, FontSizeMultiplier: 1}
}
