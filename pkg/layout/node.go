package layout

import (
	"github.com/go-drift/fabric/pkg/graphics"
)

// DefaultMaxCachedMeasurements is the number of measurement cache entries
// kept per node in addition to the single layout entry.
const DefaultMaxCachedMeasurements = 8

// MeasureFunc returns the intrinsic size of a leaf for the given
// constraints. Width and height are Undefined when their mode is
// MeasureModeUndefined.
type MeasureFunc func(node *Node, width float64, widthMode MeasureMode, height float64, heightMode MeasureMode) graphics.Size

// BaselineFunc returns the distance from the top of the node to its first
// baseline.
type BaselineFunc func(node *Node, width, height float64) float64

// CloneNodeFunc produces a private copy of a child that is still owned by
// another tree. The returned node replaces oldNode at childIndex in owner.
type CloneNodeFunc func(oldNode, owner *Node, childIndex int) *Node

// Config holds settings shared by every node of a tree.
type Config struct {
	// PointScaleFactor is the number of physical pixels per point. Zero
	// disables rounding to the pixel grid.
	PointScaleFactor float64
	// MaxCachedMeasurements bounds the per-node measurement cache.
	MaxCachedMeasurements int
	// CloneNodeFunc, when set, is used to copy shared children before they
	// are laid out. Without it children are cloned with Node.Clone.
	CloneNodeFunc CloneNodeFunc
}

// NewConfig returns a configuration with a scale factor of 1 and the
// default cache size.
func NewConfig() *Config {
	return &Config{
		PointScaleFactor:      1,
		MaxCachedMeasurements: DefaultMaxCachedMeasurements,
	}
}

func (c *Config) cacheSize() int {
	if c == nil || c.MaxCachedMeasurements <= 0 {
		return DefaultMaxCachedMeasurements
	}
	return c.MaxCachedMeasurements
}

func (c *Config) pointScaleFactor() float64 {
	if c == nil || IsUndefined(c.PointScaleFactor) || c.PointScaleFactor < 0 {
		return 0
	}
	return c.PointScaleFactor
}

func (c *Config) cloneNode(oldNode, owner *Node, childIndex int) *Node {
	if c != nil && c.CloneNodeFunc != nil {
		if clone := c.CloneNodeFunc(oldNode, owner, childIndex); clone != nil {
			return clone
		}
	}
	return oldNode.Clone()
}

// Layout is the computed result for a node, relative to its owner.
type Layout struct {
	Left        float64
	Top         float64
	Width       float64
	Height      float64
	Margin      graphics.EdgeInsets
	Border      graphics.EdgeInsets
	Padding     graphics.EdgeInsets
	Direction   Direction
	HadOverflow bool
}

// Frame returns the border box as a rect.
func (l Layout) Frame() graphics.Rect {
	return graphics.RectFromXYWH(l.Left, l.Top, l.Width, l.Height)
}

// Node is one box in the layout tree. A node has at most one owner; a
// child reachable from a node that does not own it is cloned before the
// algorithm writes to it.
type Node struct {
	style    Style
	layout   results
	config   *Config
	owner    *Node
	children []*Node

	measure  MeasureFunc
	baseline BaselineFunc
	nodeType NodeType
	context  any

	dirty              bool
	hasNewLayout       bool
	resolvedDimensions [2]Value
}

// NewNode creates a dirty node with DefaultStyle.
func NewNode(config *Config) *Node {
	if config == nil {
		config = NewConfig()
	}
	n := &Node{
		style:        DefaultStyle(),
		config:       config,
		dirty:        true,
		hasNewLayout: true,
	}
	n.layout.reset(config.cacheSize())
	n.resolvedDimensions = [2]Value{Auto(), Auto()}
	return n
}

// Clone returns a copy of n without an owner. The copy references the same
// children; they are cloned lazily when the copy is laid out.
func (n *Node) Clone() *Node {
	clone := *n
	clone.owner = nil
	clone.children = append([]*Node(nil), n.children...)
	clone.layout.cachedMeasurements = append([]cachedMeasurement(nil), n.layout.cachedMeasurements...)
	return &clone
}

// Config returns the node's configuration.
func (n *Node) Config() *Config { return n.config }

// SetConfig replaces the node's configuration. A nil config is ignored.
func (n *Node) SetConfig(config *Config) {
	if config != nil {
		n.config = config
	}
}

// Style returns the node's style.
func (n *Node) Style() Style { return n.style }

// SetStyle replaces the style and marks the node dirty when it changed.
func (n *Node) SetStyle(style Style) {
	if n.style.Equal(style) {
		return
	}
	n.style = style
	n.MarkDirty()
}

// Context returns the value attached with SetContext.
func (n *Node) Context() any { return n.context }

// SetContext attaches an arbitrary value to the node. Clones share it.
func (n *Node) SetContext(ctx any) { n.context = ctx }

// NodeType returns the node type.
func (n *Node) NodeType() NodeType { return n.nodeType }

// SetNodeType marks the node as text or default.
func (n *Node) SetNodeType(t NodeType) { n.nodeType = t }

// HasMeasureFunc reports whether the node is a measurable leaf.
func (n *Node) HasMeasureFunc() bool { return n.measure != nil }

// SetMeasureFunc makes the node a measurable leaf. Nodes with children
// cannot be measured; the call is ignored for them.
func (n *Node) SetMeasureFunc(fn MeasureFunc) {
	if fn != nil && len(n.children) > 0 {
		return
	}
	n.measure = fn
	if fn != nil {
		n.MarkDirty()
	}
}

// SetBaselineFunc overrides baseline computation for the node.
func (n *Node) SetBaselineFunc(fn BaselineFunc) { n.baseline = fn }

// Owner returns the node that owns n, or nil for roots and detached clones.
func (n *Node) Owner() *Node { return n.owner }

// SetOwner assigns the owning node.
func (n *Node) SetOwner(owner *Node) { n.owner = owner }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at index.
func (n *Node) Child(index int) *Node { return n.children[index] }

// Children returns the child list. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// InsertChild inserts child at index and takes ownership of it.
func (n *Node) InsertChild(child *Node, index int) {
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.owner = n
	n.measure = nil
	n.MarkDirty()
}

// AppendChild adds child at the end of the child list.
func (n *Node) AppendChild(child *Node) {
	n.InsertChild(child, len(n.children))
}

// RemoveChild removes child by pointer. Returns true if it was found.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c != child {
			continue
		}
		n.children = append(n.children[:i:i], n.children[i+1:]...)
		if child.owner == n {
			child.owner = nil
			child.layout = results{}
			child.layout.reset(child.config.cacheSize())
		}
		n.MarkDirty()
		return true
	}
	return false
}

// ReplaceChild swaps oldChild for newChild in place.
func (n *Node) ReplaceChild(oldChild, newChild *Node) bool {
	for i, c := range n.children {
		if c == oldChild {
			n.children[i] = newChild
			return true
		}
	}
	return false
}

// SetChildren replaces the child list. Children without an owner are
// adopted; children owned elsewhere stay shared until the next layout.
func (n *Node) SetChildren(children []*Node) {
	n.children = append([]*Node(nil), children...)
	for _, c := range n.children {
		if c.owner == nil {
			c.owner = n
		}
	}
	if len(children) > 0 {
		n.measure = nil
	}
	n.MarkDirty()
}

// IsDirty returns whether this node needs recalculation.
func (n *Node) IsDirty() bool { return n.dirty }

// MarkDirty marks this node and all ancestors as needing recalculation.
func (n *Node) MarkDirty() {
	for node := n; node != nil && !node.dirty; node = node.owner {
		node.dirty = true
		node.layout.computedFlexBasis = Undefined
	}
}

// MarkDirtyRecursively dirties the whole subtree, forcing a full relayout.
func (n *Node) MarkDirtyRecursively() {
	n.dirty = true
	n.layout.computedFlexBasis = Undefined
	for _, c := range n.children {
		c.MarkDirtyRecursively()
	}
}

// HasNewLayout reports whether the layout changed since the flag was last
// cleared.
func (n *Node) HasNewLayout() bool { return n.hasNewLayout }

// SetHasNewLayout sets or clears the new-layout flag.
func (n *Node) SetHasNewLayout(v bool) { n.hasNewLayout = v }

// Layout returns the computed layout.
func (n *Node) Layout() Layout {
	r := &n.layout
	return Layout{
		Left:        r.position[EdgeLeft],
		Top:         r.position[EdgeTop],
		Width:       r.dimensions[dimensionWidth],
		Height:      r.dimensions[dimensionHeight],
		Margin:      r.margin.insets(),
		Border:      r.border.insets(),
		Padding:     r.padding.insets(),
		Direction:   r.direction,
		HadOverflow: r.hadOverflow,
	}
}

// MeasuredSize returns the size from the most recent measure or layout of
// the node, including measurements that were not followed by a layout.
func (n *Node) MeasuredSize() graphics.Size {
	return graphics.Size{
		Width:  n.layout.measuredDimensions[dimensionWidth],
		Height: n.layout.measuredDimensions[dimensionHeight],
	}
}

// style helpers used by the algorithm

func (n *Node) resolveDimension() {
	for dim := dimensionWidth; dim <= dimensionHeight; dim++ {
		maxDim := n.style.maxDimension(dim)
		if maxDim.IsDefined() && maxDim.Equal(n.style.minDimension(dim)) {
			n.resolvedDimensions[dim] = maxDim
		} else {
			n.resolvedDimensions[dim] = n.style.dimension(dim)
		}
	}
}

func (n *Node) resolveDirection(ownerDirection Direction) Direction {
	if n.style.Direction == DirectionInherit {
		if ownerDirection > DirectionInherit {
			return ownerDirection
		}
		return DirectionLTR
	}
	return n.style.Direction
}

func (n *Node) resolveFlexGrow() float64 {
	if n.owner == nil {
		return 0
	}
	if !IsUndefined(n.style.FlexGrow) {
		return n.style.FlexGrow
	}
	if !IsUndefined(n.style.Flex) && n.style.Flex > 0 {
		return n.style.Flex
	}
	return defaultFlexGrow
}

func (n *Node) resolveFlexShrink() float64 {
	if n.owner == nil {
		return 0
	}
	if !IsUndefined(n.style.FlexShrink) {
		return n.style.FlexShrink
	}
	if !IsUndefined(n.style.Flex) && n.style.Flex < 0 {
		return -n.style.Flex
	}
	return defaultFlexShrink
}

func (n *Node) resolveFlexBasis() Value {
	basis := n.style.FlexBasis
	if basis.Unit != UnitAuto && basis.Unit != UnitUndefined {
		return basis
	}
	if !IsUndefined(n.style.Flex) && n.style.Flex > 0 {
		return Points(0)
	}
	return Auto()
}

func (n *Node) isNodeFlexible() bool {
	return n.style.PositionType != PositionTypeAbsolute &&
		(n.resolveFlexGrow() != 0 || n.resolveFlexShrink() != 0)
}

func (n *Node) marginLeadingValue(axis FlexDirection) Value {
	if isRow(axis) && n.style.Margin[EdgeStart].Unit != UnitUndefined {
		return n.style.Margin[EdgeStart]
	}
	return n.style.Margin.computed(leadingEdge(axis), Value{})
}

func (n *Node) marginTrailingValue(axis FlexDirection) Value {
	if isRow(axis) && n.style.Margin[EdgeEnd].Unit != UnitUndefined {
		return n.style.Margin[EdgeEnd]
	}
	return n.style.Margin.computed(trailingEdge(axis), Value{})
}

func (n *Node) leadingMargin(axis FlexDirection, widthSize float64) float64 {
	return orZero(n.marginLeadingValue(axis).Resolve(widthSize))
}

func (n *Node) trailingMargin(axis FlexDirection, widthSize float64) float64 {
	return orZero(n.marginTrailingValue(axis).Resolve(widthSize))
}

func (n *Node) marginForAxis(axis FlexDirection, widthSize float64) float64 {
	return n.leadingMargin(axis, widthSize) + n.trailingMargin(axis, widthSize)
}

func (n *Node) leadingPadding(axis FlexDirection, widthSize float64) float64 {
	v := n.style.Padding.computed(leadingEdge(axis), Value{})
	if isRow(axis) && n.style.Padding[EdgeStart].Unit != UnitUndefined {
		v = n.style.Padding[EdgeStart]
	}
	return maxOrDefined(orZero(v.Resolve(widthSize)), 0)
}

func (n *Node) trailingPadding(axis FlexDirection, widthSize float64) float64 {
	v := n.style.Padding.computed(trailingEdge(axis), Value{})
	if isRow(axis) && n.style.Padding[EdgeEnd].Unit != UnitUndefined {
		v = n.style.Padding[EdgeEnd]
	}
	return maxOrDefined(orZero(v.Resolve(widthSize)), 0)
}

// Borders only accept points; percentages are ignored.
func borderValue(v Value) float64 {
	if v.Unit != UnitPoint {
		return 0
	}
	return maxOrDefined(v.Amount, 0)
}

func (n *Node) leadingBorder(axis FlexDirection) float64 {
	if isRow(axis) && n.style.Border[EdgeStart].Unit != UnitUndefined {
		return borderValue(n.style.Border[EdgeStart])
	}
	return borderValue(n.style.Border.computed(leadingEdge(axis), Value{}))
}

func (n *Node) trailingBorder(axis FlexDirection) float64 {
	if isRow(axis) && n.style.Border[EdgeEnd].Unit != UnitUndefined {
		return borderValue(n.style.Border[EdgeEnd])
	}
	return borderValue(n.style.Border.computed(trailingEdge(axis), Value{}))
}

func (n *Node) leadingPaddingAndBorder(axis FlexDirection, widthSize float64) float64 {
	return n.leadingPadding(axis, widthSize) + n.leadingBorder(axis)
}

func (n *Node) trailingPaddingAndBorder(axis FlexDirection, widthSize float64) float64 {
	return n.trailingPadding(axis, widthSize) + n.trailingBorder(axis)
}

func (n *Node) paddingAndBorderForAxis(axis FlexDirection, widthSize float64) float64 {
	return n.leadingPaddingAndBorder(axis, widthSize) + n.trailingPaddingAndBorder(axis, widthSize)
}

func (n *Node) leadingPositionValue(axis FlexDirection) Value {
	if isRow(axis) && n.style.Position[EdgeStart].Unit != UnitUndefined {
		return n.style.Position[EdgeStart]
	}
	return n.style.Position.computed(leadingEdge(axis), Value{})
}

func (n *Node) trailingPositionValue(axis FlexDirection) Value {
	if isRow(axis) && n.style.Position[EdgeEnd].Unit != UnitUndefined {
		return n.style.Position[EdgeEnd]
	}
	return n.style.Position.computed(trailingEdge(axis), Value{})
}

func (n *Node) isLeadingPositionDefined(axis FlexDirection) bool {
	return n.leadingPositionValue(axis).IsDefined()
}

func (n *Node) isTrailingPositionDefined(axis FlexDirection) bool {
	return n.trailingPositionValue(axis).IsDefined()
}

func (n *Node) leadingPosition(axis FlexDirection, axisSize float64) float64 {
	return orZero(n.leadingPositionValue(axis).Resolve(axisSize))
}

func (n *Node) trailingPosition(axis FlexDirection, axisSize float64) float64 {
	return orZero(n.trailingPositionValue(axis).Resolve(axisSize))
}

// relativePosition returns the offset from the in-flow position: the
// leading inset if set, otherwise the negated trailing inset.
func (n *Node) relativePosition(axis FlexDirection, axisSize float64) float64 {
	if n.isLeadingPositionDefined(axis) {
		return n.leadingPosition(axis, axisSize)
	}
	return -n.trailingPosition(axis, axisSize)
}

func (n *Node) setPosition(direction Direction, mainSize, crossSize, ownerWidth float64) {
	// Roots are always laid out LTR so positions stay non-negative.
	directionRespectingRoot := direction
	if n.owner == nil {
		directionRespectingRoot = DirectionLTR
	}
	mainAxis := resolveFlexDirection(n.style.FlexDirection, directionRespectingRoot)
	crossAxis := resolveCrossDirection(mainAxis, directionRespectingRoot)

	relativeMain := n.relativePosition(mainAxis, mainSize)
	relativeCross := n.relativePosition(crossAxis, crossSize)

	n.layout.position[leadingEdge(mainAxis)] = n.leadingMargin(mainAxis, ownerWidth) + relativeMain
	n.layout.position[trailingEdge(mainAxis)] = n.trailingMargin(mainAxis, ownerWidth) + relativeMain
	n.layout.position[leadingEdge(crossAxis)] = n.leadingMargin(crossAxis, ownerWidth) + relativeCross
	n.layout.position[trailingEdge(crossAxis)] = n.trailingMargin(crossAxis, ownerWidth) + relativeCross
}

// cloneChildrenIfNeeded gives n exclusive ownership of its children.
func (n *Node) cloneChildrenIfNeeded() {
	for i, child := range n.children {
		if child.owner == n {
			continue
		}
		clone := n.config.cloneNode(child, n, i)
		clone.owner = n
		n.children[i] = clone
	}
}
