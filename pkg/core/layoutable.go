package core

import (
	"math"

	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
)

// LayoutableProps is implemented by props that carry a flexbox style.
// Layoutable nodes whose props do not implement it use layout.DefaultStyle.
type LayoutableProps interface {
	Props
	LayoutStyle() layout.Style
}

// SurfaceProps is implemented by root props that carry the layout inputs
// of their surface.
type SurfaceProps interface {
	Props
	LayoutConstraints() LayoutConstraints
	LayoutContext() LayoutContext
}

// SurfaceLayoutInputs returns the constraints and context stored in root's
// props, or unconstrained defaults.
func SurfaceLayoutInputs(root *ShadowNode) (LayoutConstraints, LayoutContext) {
	if p, ok := root.props.(SurfaceProps); ok {
		return p.LayoutConstraints(), p.LayoutContext()
	}
	return UnconstrainedLayout(), DefaultLayoutContext()
}

var defaultLayoutConfig = NewLayoutConfig(layout.DefaultMaxCachedMeasurements)

// NewLayoutConfig returns a layout configuration whose clone callback keeps
// shadow nodes and layout nodes in step. Layoutable nodes must be created
// with a config from this function.
func NewLayoutConfig(maxCachedMeasurements int) *layout.Config {
	return &layout.Config{
		PointScaleFactor:      1,
		MaxCachedMeasurements: maxCachedMeasurements,
		CloneNodeFunc:         cloneLayoutChild,
	}
}

// LayoutResult describes one LayoutIfNeeded call.
type LayoutResult struct {
	// Performed is false when the tree was already clean.
	Performed bool
	// Affected lists nodes whose metrics changed, parents before children.
	Affected []*ShadowNode
	Stats    layout.Stats
}

func (n *ShadowNode) configureYogaNode() {
	if n.traits.Has(TraitMeasurable) && n.yoga.ChildCount() == 0 {
		n.yoga.SetMeasureFunc(measureLayoutNode)
	} else {
		n.yoga.SetMeasureFunc(nil)
	}
	if n.traits.Has(TraitBaselineSupport) {
		n.yoga.SetBaselineFunc(baselineLayoutNode)
	} else {
		n.yoga.SetBaselineFunc(nil)
	}
}

func (n *ShadowNode) updateYogaStyle() {
	if n.yoga == nil {
		return
	}
	style := layout.DefaultStyle()
	if p, ok := n.props.(LayoutableProps); ok {
		style = p.LayoutStyle()
	}
	n.yoga.SetStyle(style)
}

func (n *ShadowNode) updateYogaChildren() {
	if n.yoga == nil || n.traits.Has(TraitLeafLayout) {
		return
	}
	children := make([]*layout.Node, 0, n.children.Len())
	for _, child := range n.children.nodes {
		if child.yoga != nil {
			children = append(children, child.yoga)
		}
	}
	n.yoga.SetChildren(children)
	if len(children) == 0 {
		n.configureYogaNode()
	}
}

func shadowOf(node *layout.Node) *ShadowNode {
	n, _ := node.Context().(*ShadowNode)
	return n
}

// cloneLayoutChild runs when the layout engine reaches a child that still
// belongs to a previous revision. The child's shadow node is cloned and
// swapped into the (already cloned) parent, so the shadow tree and the
// layout tree stay isomorphic.
func cloneLayoutChild(oldNode, owner *layout.Node, _ int) *layout.Node {
	child, parent := shadowOf(oldNode), shadowOf(owner)
	if child == nil || parent == nil {
		return nil
	}
	clone := child.Clone(Fragment{})
	parent.replaceChildForLayout(child, clone)
	return clone.yoga
}

// layoutContextOf finds the context stored on the root of the pass.
func layoutContextOf(node *layout.Node) LayoutContext {
	for node.Owner() != nil {
		node = node.Owner()
	}
	if n := shadowOf(node); n != nil && n.layoutContext != nil {
		return *n.layoutContext
	}
	return DefaultLayoutContext()
}

func measureLayoutNode(node *layout.Node, width float64, widthMode layout.MeasureMode, height float64, heightMode layout.MeasureMode) graphics.Size {
	n := shadowOf(node)
	if n == nil || n.family.descriptor == nil {
		return graphics.Size{}
	}
	constraints := LayoutConstraints{
		MaximumSize:     graphics.Size{Width: math.Inf(1), Height: math.Inf(1)},
		LayoutDirection: node.Style().Direction,
	}
	switch widthMode {
	case layout.MeasureModeExactly:
		constraints.MinimumSize.Width, constraints.MaximumSize.Width = width, width
	case layout.MeasureModeAtMost:
		constraints.MaximumSize.Width = width
	}
	switch heightMode {
	case layout.MeasureModeExactly:
		constraints.MinimumSize.Height, constraints.MaximumSize.Height = height, height
	case layout.MeasureModeAtMost:
		constraints.MaximumSize.Height = height
	}
	size := n.family.descriptor.MeasureContent(n, layoutContextOf(node), constraints)
	return constraints.Clamp(size)
}

func baselineLayoutNode(node *layout.Node, width, height float64) float64 {
	n := shadowOf(node)
	if n == nil || n.family.descriptor == nil {
		return height
	}
	return n.family.descriptor.Baseline(n, layoutContextOf(node), graphics.Size{Width: width, Height: height})
}

func normalizeContext(ctx LayoutContext) LayoutContext {
	if ctx.PointScaleFactor <= 0 || math.IsNaN(ctx.PointScaleFactor) {
		ctx.PointScaleFactor = 1
	}
	if ctx.FontSizeMultiplier <= 0 || math.IsNaN(ctx.FontSizeMultiplier) {
		ctx.FontSizeMultiplier = 1
	}
	return ctx
}

// prepareRoot installs the context, scale and constraints on an unsealed
// root before a pass.
func (n *ShadowNode) prepareRoot(ctx LayoutContext, constraints LayoutConstraints) {
	n.layoutContext = &ctx

	if cfg := n.yoga.Config(); !graphics.FloatsEqual(cfg.PointScaleFactor, ctx.PointScaleFactor) {
		scaled := *cfg
		scaled.PointScaleFactor = ctx.PointScaleFactor
		n.yoga.SetConfig(&scaled)
		n.yoga.MarkDirty()
	}

	style := n.yoga.Style()
	next := style
	next.MinWidth = layout.Points(constraints.MinimumSize.Width)
	next.MinHeight = layout.Points(constraints.MinimumSize.Height)
	next.MaxWidth = layout.Points(constraints.MaximumSize.Width)
	next.MaxHeight = layout.Points(constraints.MaximumSize.Height)
	if constraints.LayoutDirection != layout.DirectionInherit {
		next.Direction = constraints.LayoutDirection
	}
	if !next.Equal(style) {
		n.yoga.SetStyle(next)
	}

	if ctx.SwapLeftAndRightInRTL {
		swapLeftAndRightInTree(n)
	}
}

// LayoutIfNeeded lays out root, which must be unsealed, if any layoutable
// node in it is dirty. Shared children are cloned into root's tree as the
// pass reaches them, so the previous revision is never written to.
func LayoutIfNeeded(root *ShadowNode, ctx LayoutContext, constraints LayoutConstraints) LayoutResult {
	root.ensureUnsealed("core.LayoutIfNeeded")
	if root.yoga == nil {
		return LayoutResult{}
	}
	ctx = normalizeContext(ctx)
	root.prepareRoot(ctx, constraints)
	defer func() { root.layoutContext = nil }()

	if !root.yoga.IsDirty() {
		return LayoutResult{}
	}

	result := LayoutResult{Performed: true}
	result.Stats = layout.CalculateLayout(root.yoga, layout.Undefined, layout.Undefined, constraints.LayoutDirection)

	if root.yoga.HasNewLayout() {
		root.yoga.SetHasNewLayout(false)
		if root.SetLayoutMetrics(metricsFromLayoutNode(root.yoga, ctx)) {
			result.Affected = append(result.Affected, root)
		}
	}
	root.layoutChildren(ctx, &result.Affected)
	return result
}

func (n *ShadowNode) layoutChildren(ctx LayoutContext, affected *[]*ShadowNode) {
	for _, child := range n.children.nodes {
		if child.yoga == nil || !child.yoga.HasNewLayout() {
			continue
		}
		child.ensureUnsealed("core.LayoutIfNeeded")
		child.yoga.SetHasNewLayout(false)
		if child.SetLayoutMetrics(metricsFromLayoutNode(child.yoga, ctx)) {
			*affected = append(*affected, child)
		}
		child.layoutChildren(ctx, affected)
	}
}

func metricsFromLayoutNode(node *layout.Node, ctx LayoutContext) LayoutMetrics {
	l := node.Layout()
	return LayoutMetrics{
		Frame:            l.Frame(),
		ContentInsets:    l.Border.Add(l.Padding),
		BorderWidth:      l.Border,
		LayoutDirection:  l.Direction,
		DisplayType:      node.Style().Display,
		PointScaleFactor: ctx.PointScaleFactor,
	}
}

// MeasureRoot returns the size root would take under constraints without
// changing root. The measurement runs on a private clone.
func MeasureRoot(root *ShadowNode, ctx LayoutContext, constraints LayoutConstraints) graphics.Size {
	if root.yoga == nil {
		return constraints.Clamp(graphics.Size{})
	}
	clone := root.Clone(Fragment{})
	clone.yoga.MarkDirty()
	ctx = normalizeContext(ctx)
	clone.prepareRoot(ctx, constraints)
	defer func() { clone.layoutContext = nil }()
	layout.CalculateLayout(clone.yoga, layout.Undefined, layout.Undefined, constraints.LayoutDirection)
	return constraints.Clamp(clone.yoga.Layout().Frame().Size)
}

func swapLeftAndRightInTree(n *ShadowNode) {
	if n.sealed || n.yoga == nil {
		return
	}
	style := n.yoga.Style()
	swapped := swapLeftAndRight(style)
	if !swapped.Equal(style) {
		n.yoga.SetStyle(swapped)
	}
	for _, child := range n.children.nodes {
		swapLeftAndRightInTree(child)
	}
}

// swapLeftAndRight turns physical left and right edges into start and end
// edges so they follow the layout direction.
func swapLeftAndRight(s layout.Style) layout.Style {
	s.Margin = swapEdges(s.Margin)
	s.Padding = swapEdges(s.Padding)
	s.Border = swapEdges(s.Border)
	s.Position = swapEdges(s.Position)
	return s
}

func swapEdges(e layout.Edges) layout.Edges {
	if left := e[layout.EdgeLeft]; left.Unit != layout.UnitUndefined {
		e[layout.EdgeStart] = left
		e[layout.EdgeLeft] = layout.Value{}
	}
	if right := e[layout.EdgeRight]; right.Unit != layout.UnitUndefined {
		e[layout.EdgeEnd] = right
		e[layout.EdgeRight] = layout.Value{}
	}
	return e
}

// RelativeLayoutMetrics returns the metrics of descendant's node in the
// coordinate space of ancestor. The result is EmptyLayoutMetrics when the
// descendant is not in ancestor's tree, or when any node on the path is
// not layoutable or is not displayed. Offsets stop accumulating at nested
// root nodes.
func RelativeLayoutMetrics(descendant *Family, ancestor *ShadowNode) LayoutMetrics {
	if ancestor == nil || descendant == nil {
		return EmptyLayoutMetrics
	}
	if ancestor.family == descendant {
		if !ancestor.traits.Has(TraitLayoutable) || ancestor.layoutMetrics.DisplayType == layout.DisplayNone {
			return EmptyLayoutMetrics
		}
		m := ancestor.layoutMetrics
		m.Frame.Origin = graphics.Point{}
		return m
	}

	path := descendant.Ancestors(ancestor)
	if len(path) == 0 {
		return EmptyLayoutMetrics
	}
	chain := make([]*ShadowNode, 0, len(path)+1)
	for _, step := range path {
		chain = append(chain, step.Parent)
	}
	last := path[len(path)-1]
	chain = append(chain, last.Parent.children.At(last.Index))

	for _, node := range chain {
		if !node.traits.Has(TraitLayoutable) || node.layoutMetrics.DisplayType == layout.DisplayNone {
			return EmptyLayoutMetrics
		}
	}

	target := chain[len(chain)-1]
	result := target.layoutMetrics
	var origin graphics.Point
	for i := len(chain) - 1; i > 0; i-- {
		node := chain[i]
		if node != target && node.traits.Has(TraitRootNodeKind) {
			break
		}
		origin = origin.Add(node.layoutMetrics.Frame.Origin)
	}
	result.Frame.Origin = origin
	return result
}
