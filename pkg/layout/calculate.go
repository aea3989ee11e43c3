package layout

import (
	"math"
	"sync/atomic"
)

// generation is bumped once per CalculateLayout call. A node visited twice
// in the same generation is served from its caches.
var generation atomic.Uint32

// Stats counts the work done by one CalculateLayout call.
type Stats struct {
	Layouts          int
	Measures         int
	CachedLayouts    int
	CachedMeasures   int
	MeasureCallbacks int
}

type pass struct {
	stats      Stats
	generation uint32
	// scale is the root's point scale factor, used for the whole tree.
	scale float64
}

// CalculateLayout lays out the tree rooted at root within the owner size.
// Either owner dimension may be Undefined. Results are rounded to the
// pixel grid of the root's Config; the Configs of other nodes only supply
// cache sizes and clone callbacks.
func CalculateLayout(root *Node, ownerWidth, ownerHeight float64, ownerDirection Direction) Stats {
	p := &pass{generation: generation.Add(1), scale: root.config.pointScaleFactor()}
	root.resolveDimension()

	width := Undefined
	widthMode := MeasureModeUndefined
	maxWidth := root.style.MaxWidth.Resolve(ownerWidth)
	switch {
	case styleDefinesDimension(root, FlexDirectionRow, ownerWidth):
		width = root.resolvedDimensions[dimensionWidth].Resolve(ownerWidth) + root.marginForAxis(FlexDirectionRow, ownerWidth)
		widthMode = MeasureModeExactly
	case !IsUndefined(maxWidth) && maxWidth >= 0:
		width = maxWidth
		widthMode = MeasureModeAtMost
	default:
		width = sanitizeOwnerSize(ownerWidth)
		if !IsUndefined(width) {
			widthMode = MeasureModeExactly
		}
	}

	height := Undefined
	heightMode := MeasureModeUndefined
	maxHeight := root.style.MaxHeight.Resolve(ownerHeight)
	switch {
	case styleDefinesDimension(root, FlexDirectionColumn, ownerHeight):
		height = root.resolvedDimensions[dimensionHeight].Resolve(ownerHeight) + root.marginForAxis(FlexDirectionColumn, ownerWidth)
		heightMode = MeasureModeExactly
	case !IsUndefined(maxHeight) && maxHeight >= 0:
		height = maxHeight
		heightMode = MeasureModeAtMost
	default:
		height = sanitizeOwnerSize(ownerHeight)
		if !IsUndefined(height) {
			heightMode = MeasureModeExactly
		}
	}

	performed := p.calculateLayoutInternal(root, width, height, ownerDirection, widthMode, heightMode, ownerWidth, ownerHeight, true)
	root.setPosition(root.layout.direction, ownerWidth, ownerHeight, ownerWidth)
	if performed {
		roundLayoutResultsToPixelGrid(root, p.scale, 0, 0)
	} else {
		// A cache hit resets the root to its measured size. Its subtree
		// keeps the rounded layout of the pass that filled the cache.
		roundNodeToPixelGrid(root, p.scale, 0, 0)
	}
	return p.stats
}

// sanitizeOwnerSize turns negative and infinite owner sizes into
// unconstrained ones.
func sanitizeOwnerSize(size float64) float64 {
	if IsUndefined(size) || math.IsInf(size, 0) || size < 0 {
		return Undefined
	}
	return size
}

// sanitizeMeasuredSize keeps misbehaving measure callbacks from poisoning
// the tree with NaN or negative sizes.
func sanitizeMeasuredSize(size float64) float64 {
	if IsUndefined(size) || math.IsInf(size, 0) || size < 0 {
		return 0
	}
	return size
}

// calculateLayoutInternal wraps calculateLayoutImpl with the layout and
// measurement caches. It returns true when layout was performed rather
// than served from cache.
func (p *pass) calculateLayoutInternal(
	node *Node,
	availableWidth, availableHeight float64,
	ownerDirection Direction,
	widthMode, heightMode MeasureMode,
	ownerWidth, ownerHeight float64,
	performLayout bool,
) bool {
	layout := &node.layout

	needToVisitNode := (node.dirty && layout.generationCount != p.generation) ||
		layout.lastOwnerDirection != ownerDirection
	if needToVisitNode {
		layout.invalidateCache()
	}

	var cached *cachedMeasurement
	switch {
	case node.HasMeasureFunc():
		marginAxisRow := node.marginForAxis(FlexDirectionRow, ownerWidth)
		marginAxisColumn := node.marginForAxis(FlexDirectionColumn, ownerWidth)
		if canUseCachedMeasurement(widthMode, availableWidth, heightMode, availableHeight,
			layout.cachedLayout, marginAxisRow, marginAxisColumn, p.scale) {
			cached = &layout.cachedLayout
		} else {
			entries := layout.usedCachedMeasurements()
			for i := range entries {
				if canUseCachedMeasurement(widthMode, availableWidth, heightMode, availableHeight,
					entries[i], marginAxisRow, marginAxisColumn, p.scale) {
					cached = &entries[i]
					break
				}
			}
		}
	case performLayout:
		if FloatsEqual(layout.cachedLayout.availableWidth, availableWidth) &&
			FloatsEqual(layout.cachedLayout.availableHeight, availableHeight) &&
			layout.cachedLayout.widthMode == widthMode &&
			layout.cachedLayout.heightMode == heightMode {
			cached = &layout.cachedLayout
		}
	default:
		entries := layout.usedCachedMeasurements()
		for i := range entries {
			if FloatsEqual(entries[i].availableWidth, availableWidth) &&
				FloatsEqual(entries[i].availableHeight, availableHeight) &&
				entries[i].widthMode == widthMode &&
				entries[i].heightMode == heightMode {
				cached = &entries[i]
				break
			}
		}
	}

	if !needToVisitNode && cached != nil {
		layout.measuredDimensions[dimensionWidth] = cached.computedWidth
		layout.measuredDimensions[dimensionHeight] = cached.computedHeight
		if performLayout {
			p.stats.CachedLayouts++
		} else {
			p.stats.CachedMeasures++
		}
	} else {
		p.calculateLayoutImpl(node, availableWidth, availableHeight, ownerDirection,
			widthMode, heightMode, ownerWidth, ownerHeight, performLayout)

		layout.lastOwnerDirection = ownerDirection

		if cached == nil {
			var entry *cachedMeasurement
			if performLayout {
				entry = &layout.cachedLayout
			} else {
				entry = layout.newMeasurementEntry()
			}
			entry.availableWidth = availableWidth
			entry.availableHeight = availableHeight
			entry.widthMode = widthMode
			entry.heightMode = heightMode
			entry.computedWidth = layout.measuredDimensions[dimensionWidth]
			entry.computedHeight = layout.measuredDimensions[dimensionHeight]
		}
	}

	if performLayout {
		layout.dimensions[dimensionWidth] = layout.measuredDimensions[dimensionWidth]
		layout.dimensions[dimensionHeight] = layout.measuredDimensions[dimensionHeight]
		node.hasNewLayout = true
		node.dirty = false
	}

	layout.generationCount = p.generation
	return needToVisitNode || cached == nil
}

// roundLayoutResultsToPixelGrid snaps positions and sizes to physical
// pixels using absolute coordinates, so adjacent edges stay adjacent.
func roundLayoutResultsToPixelGrid(node *Node, scale, absoluteLeft, absoluteTop float64) {
	absoluteNodeLeft, absoluteNodeTop := roundNodeToPixelGrid(node, scale, absoluteLeft, absoluteTop)
	for _, child := range node.children {
		// Children still owned elsewhere were not visited by this pass.
		if child.owner != node {
			continue
		}
		roundLayoutResultsToPixelGrid(child, scale, absoluteNodeLeft, absoluteNodeTop)
	}
}

// roundNodeToPixelGrid rounds node alone and returns its unrounded
// absolute origin.
func roundNodeToPixelGrid(node *Node, scale, absoluteLeft, absoluteTop float64) (float64, float64) {
	r := &node.layout

	nodeLeft := r.position[EdgeLeft]
	nodeTop := r.position[EdgeTop]
	nodeWidth := r.dimensions[dimensionWidth]
	nodeHeight := r.dimensions[dimensionHeight]

	absoluteNodeLeft := absoluteLeft + nodeLeft
	absoluteNodeTop := absoluteTop + nodeTop
	absoluteNodeRight := absoluteNodeLeft + nodeWidth
	absoluteNodeBottom := absoluteNodeTop + nodeHeight

	if scale != 0 {
		// Text is never rounded down so it does not get truncated.
		textRounding := node.nodeType == NodeTypeText

		r.position[EdgeLeft] = roundValueToPixelGrid(nodeLeft, scale, false, textRounding)
		r.position[EdgeTop] = roundValueToPixelGrid(nodeTop, scale, false, textRounding)

		widthFraction := math.Mod(nodeWidth*scale, 1.0)
		heightFraction := math.Mod(nodeHeight*scale, 1.0)
		hasFractionalWidth := !FloatsEqual(widthFraction, 0) && !FloatsEqual(widthFraction, 1.0)
		hasFractionalHeight := !FloatsEqual(heightFraction, 0) && !FloatsEqual(heightFraction, 1.0)

		r.dimensions[dimensionWidth] =
			roundValueToPixelGrid(absoluteNodeRight, scale, textRounding && hasFractionalWidth, textRounding && !hasFractionalWidth) -
				roundValueToPixelGrid(absoluteNodeLeft, scale, false, textRounding)
		r.dimensions[dimensionHeight] =
			roundValueToPixelGrid(absoluteNodeBottom, scale, textRounding && hasFractionalHeight, textRounding && !hasFractionalHeight) -
				roundValueToPixelGrid(absoluteNodeTop, scale, false, textRounding)
	}
	return absoluteNodeLeft, absoluteNodeTop
}
