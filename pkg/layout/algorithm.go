package layout

import (
	"math"
)

// flexLine is one line of in-flow children collected for flexing.
type flexLine struct {
	itemsInFlow []*Node
	// endOfLineIndex is the index of the first child not on this line.
	endOfLineIndex int
	// sizeConsumed is the sum of the children's clamped flex bases,
	// margins and gaps.
	sizeConsumed                 float64
	totalFlexGrowFactors         float64
	totalFlexShrinkScaledFactors float64
	remainingFreeSpace           float64
	mainDim                      float64
	crossDim                     float64
}

func (l *flexLine) isLastItem(child *Node) bool {
	return len(l.itemsInFlow) > 0 && l.itemsInFlow[len(l.itemsInFlow)-1] == child
}

func dimensionWithMargin(node *Node, axis FlexDirection, widthSize float64) float64 {
	return node.layout.measuredDimensions[dimension(axis)] + node.marginForAxis(axis, widthSize)
}

// styleDefinesDimension reports whether the resolved style size along axis
// is usable against ownerSize.
func styleDefinesDimension(node *Node, axis FlexDirection, ownerSize float64) bool {
	v := node.resolvedDimensions[dimension(axis)]
	switch v.Unit {
	case UnitPoint:
		return v.Amount >= 0
	case UnitPercent:
		return v.Amount >= 0 && !IsUndefined(ownerSize)
	default:
		return false
	}
}

func isLayoutDimensionDefined(node *Node, axis FlexDirection) bool {
	v := node.layout.measuredDimensions[dimension(axis)]
	return !IsUndefined(v) && v >= 0
}

func setChildTrailingPosition(node, child *Node, axis FlexDirection) {
	size := child.layout.measuredDimensions[dimension(axis)]
	child.layout.position[trailingEdge(axis)] =
		node.layout.measuredDimensions[dimension(axis)] - size - child.layout.position[leadingEdge(axis)]
}

// boundAxisWithinMinAndMax clamps value to the node's min and max size
// along axis.
func boundAxisWithinMinAndMax(node *Node, axis FlexDirection, value, axisSize float64) float64 {
	dim := dimension(axis)
	minSize := node.style.minDimension(dim).Resolve(axisSize)
	maxSize := node.style.maxDimension(dim).Resolve(axisSize)
	if !IsUndefined(maxSize) && maxSize >= 0 && value > maxSize {
		return maxSize
	}
	if !IsUndefined(minSize) && minSize >= 0 && value < minSize {
		return minSize
	}
	return value
}

// boundAxis is boundAxisWithinMinAndMax that also never goes below the
// node's padding and border.
func boundAxis(node *Node, axis FlexDirection, value, axisSize, widthSize float64) float64 {
	return maxOrDefined(
		boundAxisWithinMinAndMax(node, axis, value, axisSize),
		node.paddingAndBorderForAxis(axis, widthSize),
	)
}

func constrainMaxSizeForMode(node *Node, axis FlexDirection, ownerAxisSize, ownerWidth float64, mode *MeasureMode, size *float64) {
	maxSize := node.style.maxDimension(dimension(axis)).Resolve(ownerAxisSize) + node.marginForAxis(axis, ownerWidth)
	switch *mode {
	case MeasureModeExactly, MeasureModeAtMost:
		if !IsUndefined(maxSize) && !(*size < maxSize) {
			*size = maxSize
		}
	case MeasureModeUndefined:
		if !IsUndefined(maxSize) {
			*mode = MeasureModeAtMost
			*size = maxSize
		}
	}
}

func resolveChildAlignment(node, child *Node) Align {
	align := child.style.AlignSelf
	if align == AlignAuto {
		align = node.style.AlignItems
	}
	if align == AlignBaseline && isColumn(node.style.FlexDirection) {
		return AlignFlexStart
	}
	return align
}

func isBaselineLayout(node *Node) bool {
	if isColumn(node.style.FlexDirection) {
		return false
	}
	if node.style.AlignItems == AlignBaseline {
		return true
	}
	for _, child := range node.children {
		if child.style.PositionType != PositionTypeAbsolute && child.style.AlignSelf == AlignBaseline {
			return true
		}
	}
	return false
}

// calculateBaseline returns the distance from the top of node to the
// baseline of its first line.
func calculateBaseline(node *Node) float64 {
	if node.baseline != nil {
		return node.baseline(node,
			node.layout.measuredDimensions[dimensionWidth],
			node.layout.measuredDimensions[dimensionHeight])
	}

	var baselineChild *Node
	for _, child := range node.children {
		if child.layout.lineIndex > 0 {
			break
		}
		if child.style.PositionType == PositionTypeAbsolute {
			continue
		}
		if resolveChildAlignment(node, child) == AlignBaseline {
			baselineChild = child
			break
		}
		if baselineChild == nil {
			baselineChild = child
		}
	}
	if baselineChild == nil {
		return node.layout.measuredDimensions[dimensionHeight]
	}
	return calculateBaseline(baselineChild) + baselineChild.layout.position[EdgeTop]
}

func (p *pass) computeFlexBasisForChild(
	node, child *Node,
	width float64, widthMode MeasureMode,
	height float64,
	ownerWidth, ownerHeight float64,
	heightMode MeasureMode,
	direction Direction,
) {
	mainAxis := resolveFlexDirection(node.style.FlexDirection, direction)
	isMainAxisRow := isRow(mainAxis)
	mainAxisSize, mainAxisOwnerSize := height, ownerHeight
	if isMainAxisRow {
		mainAxisSize, mainAxisOwnerSize = width, ownerWidth
	}

	resolvedFlexBasis := child.resolveFlexBasis().Resolve(mainAxisOwnerSize)
	isRowStyleDimDefined := styleDefinesDimension(child, FlexDirectionRow, ownerWidth)
	isColumnStyleDimDefined := styleDefinesDimension(child, FlexDirectionColumn, ownerHeight)

	switch {
	case !IsUndefined(resolvedFlexBasis) && !IsUndefined(mainAxisSize):
		if IsUndefined(child.layout.computedFlexBasis) {
			child.layout.computedFlexBasis = maxOrDefined(resolvedFlexBasis, child.paddingAndBorderForAxis(mainAxis, ownerWidth))
		}
	case isMainAxisRow && isRowStyleDimDefined:
		child.layout.computedFlexBasis = maxOrDefined(
			child.resolvedDimensions[dimensionWidth].Resolve(ownerWidth),
			child.paddingAndBorderForAxis(FlexDirectionRow, ownerWidth))
	case !isMainAxisRow && isColumnStyleDimDefined:
		child.layout.computedFlexBasis = maxOrDefined(
			child.resolvedDimensions[dimensionHeight].Resolve(ownerHeight),
			child.paddingAndBorderForAxis(FlexDirectionColumn, ownerWidth))
	default:
		// Measure the child to find its hypothetical main size.
		childWidth, childHeight := Undefined, Undefined
		childWidthMode, childHeightMode := MeasureModeUndefined, MeasureModeUndefined

		marginRow := child.marginForAxis(FlexDirectionRow, ownerWidth)
		marginColumn := child.marginForAxis(FlexDirectionColumn, ownerWidth)

		if isRowStyleDimDefined {
			childWidth = child.resolvedDimensions[dimensionWidth].Resolve(ownerWidth) + marginRow
			childWidthMode = MeasureModeExactly
		}
		if isColumnStyleDimDefined {
			childHeight = child.resolvedDimensions[dimensionHeight].Resolve(ownerHeight) + marginColumn
			childHeightMode = MeasureModeExactly
		}

		// A scroll container does not constrain its children along the
		// scrolling axis.
		scroll := node.style.Overflow == OverflowScroll
		if !scroll || !isMainAxisRow {
			if IsUndefined(childWidth) && !IsUndefined(width) {
				childWidth = width
				childWidthMode = MeasureModeAtMost
			}
		}
		if !scroll || isMainAxisRow {
			if IsUndefined(childHeight) && !IsUndefined(height) {
				childHeight = height
				childHeightMode = MeasureModeAtMost
			}
		}

		aspectRatio := child.style.aspectRatio()
		if !IsUndefined(aspectRatio) {
			if !isMainAxisRow && childWidthMode == MeasureModeExactly {
				childHeight = marginColumn + (childWidth-marginRow)/aspectRatio
				childHeightMode = MeasureModeExactly
			} else if isMainAxisRow && childHeightMode == MeasureModeExactly {
				childWidth = marginRow + (childHeight-marginColumn)*aspectRatio
				childWidthMode = MeasureModeExactly
			}
		}

		// A child without a cross size that stretches is measured with the
		// exact available cross size.
		alignment := resolveChildAlignment(node, child)
		hasExactWidth := !IsUndefined(width) && widthMode == MeasureModeExactly
		childWidthStretch := alignment == AlignStretch && childWidthMode != MeasureModeExactly
		if !isMainAxisRow && !isRowStyleDimDefined && hasExactWidth && childWidthStretch {
			childWidth = width
			childWidthMode = MeasureModeExactly
			if !IsUndefined(aspectRatio) {
				childHeight = (childWidth - marginRow) / aspectRatio
				childHeightMode = MeasureModeExactly
			}
		}

		hasExactHeight := !IsUndefined(height) && heightMode == MeasureModeExactly
		childHeightStretch := alignment == AlignStretch && childHeightMode != MeasureModeExactly
		if isMainAxisRow && !isColumnStyleDimDefined && hasExactHeight && childHeightStretch {
			childHeight = height
			childHeightMode = MeasureModeExactly
			if !IsUndefined(aspectRatio) {
				childWidth = (childHeight - marginColumn) * aspectRatio
				childWidthMode = MeasureModeExactly
			}
		}

		constrainMaxSizeForMode(child, FlexDirectionRow, ownerWidth, ownerWidth, &childWidthMode, &childWidth)
		constrainMaxSizeForMode(child, FlexDirectionColumn, ownerHeight, ownerWidth, &childHeightMode, &childHeight)

		p.calculateLayoutInternal(child, childWidth, childHeight, direction,
			childWidthMode, childHeightMode, ownerWidth, ownerHeight, false)

		child.layout.computedFlexBasis = maxOrDefined(
			child.layout.measuredDimensions[dimension(mainAxis)],
			child.paddingAndBorderForAxis(mainAxis, ownerWidth))
	}
	child.layout.computedFlexBasisGeneration = p.generation
}

func (p *pass) layoutAbsoluteChild(
	node, child *Node,
	width float64, widthMode MeasureMode,
	height float64,
	direction Direction,
) {
	mainAxis := resolveFlexDirection(node.style.FlexDirection, direction)
	crossAxis := resolveCrossDirection(mainAxis, direction)
	isMainAxisRow := isRow(mainAxis)

	childWidth, childHeight := Undefined, Undefined

	marginRow := child.marginForAxis(FlexDirectionRow, width)
	marginColumn := child.marginForAxis(FlexDirectionColumn, width)

	if styleDefinesDimension(child, FlexDirectionRow, width) {
		childWidth = child.resolvedDimensions[dimensionWidth].Resolve(width) + marginRow
	} else if child.isLeadingPositionDefined(FlexDirectionRow) && child.isTrailingPositionDefined(FlexDirectionRow) {
		// Without a width, left and right insets define it.
		childWidth = node.layout.measuredDimensions[dimensionWidth] -
			(node.leadingBorder(FlexDirectionRow) + node.trailingBorder(FlexDirectionRow)) -
			(child.leadingPosition(FlexDirectionRow, width) + child.trailingPosition(FlexDirectionRow, width))
		childWidth = boundAxis(child, FlexDirectionRow, childWidth, width, width)
	}

	if styleDefinesDimension(child, FlexDirectionColumn, height) {
		childHeight = child.resolvedDimensions[dimensionHeight].Resolve(height) + marginColumn
	} else if child.isLeadingPositionDefined(FlexDirectionColumn) && child.isTrailingPositionDefined(FlexDirectionColumn) {
		childHeight = node.layout.measuredDimensions[dimensionHeight] -
			(node.leadingBorder(FlexDirectionColumn) + node.trailingBorder(FlexDirectionColumn)) -
			(child.leadingPosition(FlexDirectionColumn, height) + child.trailingPosition(FlexDirectionColumn, height))
		childHeight = boundAxis(child, FlexDirectionColumn, childHeight, height, width)
	}

	// Aspect ratio needs exactly one anchored dimension.
	if aspectRatio := child.style.aspectRatio(); !IsUndefined(aspectRatio) && IsUndefined(childWidth) != IsUndefined(childHeight) {
		if IsUndefined(childWidth) {
			childWidth = marginRow + (childHeight-marginColumn)*aspectRatio
		} else {
			childHeight = marginColumn + (childWidth-marginRow)/aspectRatio
		}
	}

	if IsUndefined(childWidth) || IsUndefined(childHeight) {
		childWidthMode := MeasureModeExactly
		if IsUndefined(childWidth) {
			childWidthMode = MeasureModeUndefined
		}
		childHeightMode := MeasureModeExactly
		if IsUndefined(childHeight) {
			childHeightMode = MeasureModeUndefined
		}

		// Let text in an absolute child wrap at the owner's width.
		if !isMainAxisRow && IsUndefined(childWidth) && widthMode != MeasureModeUndefined &&
			!IsUndefined(width) && width > 0 {
			childWidth = width
			childWidthMode = MeasureModeAtMost
		}

		p.calculateLayoutInternal(child, childWidth, childHeight, direction,
			childWidthMode, childHeightMode, childWidth, childHeight, false)
		childWidth = child.layout.measuredDimensions[dimensionWidth] + child.marginForAxis(FlexDirectionRow, width)
		childHeight = child.layout.measuredDimensions[dimensionHeight] + child.marginForAxis(FlexDirectionColumn, width)
	}

	p.calculateLayoutInternal(child, childWidth, childHeight, direction,
		MeasureModeExactly, MeasureModeExactly, childWidth, childHeight, true)

	mainSize, crossSize := height, width
	if isMainAxisRow {
		mainSize, crossSize = width, height
	}
	nodeMain := node.layout.measuredDimensions[dimension(mainAxis)]
	childMain := child.layout.measuredDimensions[dimension(mainAxis)]
	switch {
	case child.isTrailingPositionDefined(mainAxis) && !child.isLeadingPositionDefined(mainAxis):
		child.layout.position[leadingEdge(mainAxis)] = nodeMain - childMain -
			node.trailingBorder(mainAxis) -
			child.trailingMargin(mainAxis, mainSize) -
			child.trailingPosition(mainAxis, mainSize)
	case !child.isLeadingPositionDefined(mainAxis) && node.style.JustifyContent == JustifyCenter:
		child.layout.position[leadingEdge(mainAxis)] = (nodeMain - childMain) / 2
	case !child.isLeadingPositionDefined(mainAxis) && node.style.JustifyContent == JustifyFlexEnd:
		child.layout.position[leadingEdge(mainAxis)] = nodeMain - childMain
	}

	nodeCross := node.layout.measuredDimensions[dimension(crossAxis)]
	childCross := child.layout.measuredDimensions[dimension(crossAxis)]
	alignment := resolveChildAlignment(node, child)
	switch {
	case child.isTrailingPositionDefined(crossAxis) && !child.isLeadingPositionDefined(crossAxis):
		child.layout.position[leadingEdge(crossAxis)] = nodeCross - childCross -
			node.trailingBorder(crossAxis) -
			child.trailingMargin(crossAxis, crossSize) -
			child.trailingPosition(crossAxis, crossSize)
	case !child.isLeadingPositionDefined(crossAxis) && alignment == AlignCenter:
		child.layout.position[leadingEdge(crossAxis)] = (nodeCross - childCross) / 2
	case !child.isLeadingPositionDefined(crossAxis) && ((alignment == AlignFlexEnd) != (node.style.FlexWrap == WrapReverse)):
		child.layout.position[leadingEdge(crossAxis)] = nodeCross - childCross
	}
}

func (p *pass) measureNodeWithMeasureFunc(
	node *Node,
	availableWidth, availableHeight float64,
	widthMode, heightMode MeasureMode,
	ownerWidth, ownerHeight float64,
) {
	if widthMode == MeasureModeUndefined {
		availableWidth = Undefined
	}
	if heightMode == MeasureModeUndefined {
		availableHeight = Undefined
	}

	padding, border := node.layout.padding, node.layout.border
	paddingAndBorderRow := padding[EdgeLeft] + padding[EdgeRight] + border[EdgeLeft] + border[EdgeRight]
	paddingAndBorderColumn := padding[EdgeTop] + padding[EdgeBottom] + border[EdgeTop] + border[EdgeBottom]

	// Never measure with a negative size.
	innerWidth := availableWidth
	if !IsUndefined(availableWidth) {
		innerWidth = maxOrDefined(0, availableWidth-paddingAndBorderRow)
	}
	innerHeight := availableHeight
	if !IsUndefined(availableHeight) {
		innerHeight = maxOrDefined(0, availableHeight-paddingAndBorderColumn)
	}

	if widthMode == MeasureModeExactly && heightMode == MeasureModeExactly {
		node.layout.measuredDimensions[dimensionWidth] = boundAxis(node, FlexDirectionRow, availableWidth, ownerWidth, ownerWidth)
		node.layout.measuredDimensions[dimensionHeight] = boundAxis(node, FlexDirectionColumn, availableHeight, ownerHeight, ownerWidth)
		return
	}

	measured := node.measure(node, innerWidth, widthMode, innerHeight, heightMode)
	p.stats.MeasureCallbacks++

	width := availableWidth
	if widthMode != MeasureModeExactly {
		width = sanitizeMeasuredSize(measured.Width) + paddingAndBorderRow
	}
	height := availableHeight
	if heightMode != MeasureModeExactly {
		height = sanitizeMeasuredSize(measured.Height) + paddingAndBorderColumn
	}
	node.layout.measuredDimensions[dimensionWidth] = boundAxis(node, FlexDirectionRow, width, ownerWidth, ownerWidth)
	node.layout.measuredDimensions[dimensionHeight] = boundAxis(node, FlexDirectionColumn, height, ownerHeight, ownerWidth)
}

// measureNodeWithoutChildren sizes an empty container from the available
// size, or from its padding and border when the size is not exact.
func measureNodeWithoutChildren(
	node *Node,
	availableWidth, availableHeight float64,
	widthMode, heightMode MeasureMode,
	ownerWidth, ownerHeight float64,
) {
	padding, border := node.layout.padding, node.layout.border

	width := availableWidth
	if widthMode != MeasureModeExactly {
		width = padding[EdgeLeft] + padding[EdgeRight] + border[EdgeLeft] + border[EdgeRight]
	}
	node.layout.measuredDimensions[dimensionWidth] = boundAxis(node, FlexDirectionRow, width, ownerWidth, ownerWidth)

	height := availableHeight
	if heightMode != MeasureModeExactly {
		height = padding[EdgeTop] + padding[EdgeBottom] + border[EdgeTop] + border[EdgeBottom]
	}
	node.layout.measuredDimensions[dimensionHeight] = boundAxis(node, FlexDirectionColumn, height, ownerHeight, ownerWidth)
}

func measureNodeWithFixedSize(
	node *Node,
	availableWidth, availableHeight float64,
	widthMode, heightMode MeasureMode,
	ownerWidth, ownerHeight float64,
) bool {
	fixed := (!IsUndefined(availableWidth) && widthMode == MeasureModeAtMost && availableWidth <= 0) ||
		(!IsUndefined(availableHeight) && heightMode == MeasureModeAtMost && availableHeight <= 0) ||
		(widthMode == MeasureModeExactly && heightMode == MeasureModeExactly)
	if !fixed {
		return false
	}

	width := availableWidth
	if IsUndefined(availableWidth) || (widthMode == MeasureModeAtMost && availableWidth < 0) {
		width = 0
	}
	height := availableHeight
	if IsUndefined(availableHeight) || (heightMode == MeasureModeAtMost && availableHeight < 0) {
		height = 0
	}
	node.layout.measuredDimensions[dimensionWidth] = boundAxis(node, FlexDirectionRow, width, ownerWidth, ownerWidth)
	node.layout.measuredDimensions[dimensionHeight] = boundAxis(node, FlexDirectionColumn, height, ownerHeight, ownerWidth)
	return true
}

// zeroOutLayoutRecursively collapses a display:none subtree.
func zeroOutLayoutRecursively(node *Node) {
	node.layout = results{}
	node.layout.reset(node.config.cacheSize())
	node.layout.dimensions = [2]float64{0, 0}
	node.hasNewLayout = true

	node.cloneChildrenIfNeeded()
	for _, child := range node.children {
		zeroOutLayoutRecursively(child)
	}
}

func calculateAvailableInnerDimension(node *Node, dim int, availableDim, paddingAndBorder, ownerDim float64) float64 {
	availableInnerDim := availableDim - paddingAndBorder
	if IsUndefined(availableInnerDim) {
		return availableInnerDim
	}
	// Max overrides the available size; min overrides both.
	minInnerDim := 0.0
	if v := node.style.minDimension(dim).Resolve(ownerDim); !IsUndefined(v) {
		minInnerDim = v - paddingAndBorder
	}
	maxInnerDim := math.MaxFloat64
	if v := node.style.maxDimension(dim).Resolve(ownerDim); !IsUndefined(v) {
		maxInnerDim = v - paddingAndBorder
	}
	return maxOrDefined(minOrDefined(availableInnerDim, maxInnerDim), minInnerDim)
}

func (p *pass) computeFlexBasisForChildren(
	node *Node,
	availableInnerWidth, availableInnerHeight float64,
	widthMode, heightMode MeasureMode,
	direction Direction,
	mainAxis FlexDirection,
	performLayout bool,
) float64 {
	totalOuterFlexBasis := 0.0
	measureModeMainDim := heightMode
	if isRow(mainAxis) {
		measureModeMainDim = widthMode
	}

	// A single child that can both grow and shrink gets a zero basis and
	// simply takes the remaining space.
	var singleFlexChild *Node
	if measureModeMainDim == MeasureModeExactly {
		for _, child := range node.children {
			if !child.isNodeFlexible() {
				continue
			}
			if singleFlexChild != nil ||
				FloatsEqual(child.resolveFlexGrow(), 0) ||
				FloatsEqual(child.resolveFlexShrink(), 0) {
				singleFlexChild = nil
				break
			}
			singleFlexChild = child
		}
	}

	for _, child := range node.children {
		child.resolveDimension()
		if child.style.Display == DisplayNone {
			zeroOutLayoutRecursively(child)
			child.hasNewLayout = true
			child.dirty = false
			continue
		}
		if performLayout {
			childDirection := child.resolveDirection(direction)
			mainDim, crossDim := availableInnerHeight, availableInnerWidth
			if isRow(mainAxis) {
				mainDim, crossDim = availableInnerWidth, availableInnerHeight
			}
			child.setPosition(childDirection, mainDim, crossDim, availableInnerWidth)
		}

		if child.style.PositionType == PositionTypeAbsolute {
			continue
		}
		if child == singleFlexChild {
			child.layout.computedFlexBasisGeneration = p.generation
			child.layout.computedFlexBasis = 0
		} else {
			p.computeFlexBasisForChild(node, child,
				availableInnerWidth, widthMode, availableInnerHeight,
				availableInnerWidth, availableInnerHeight, heightMode, direction)
		}

		totalOuterFlexBasis += orZero(child.layout.computedFlexBasis) + child.marginForAxis(mainAxis, availableInnerWidth)
	}
	return totalOuterFlexBasis
}

// calculateFlexLine collects the children starting at startOfLineIndex
// that fit on one line.
func calculateFlexLine(
	node *Node,
	ownerDirection Direction,
	mainAxisOwnerSize, availableInnerWidth, availableInnerMainDim float64,
	startOfLineIndex, lineCount int,
) flexLine {
	line := flexLine{}
	sizeConsumedIncludingMinConstraint := 0.0
	direction := node.resolveDirection(ownerDirection)
	mainAxis := resolveFlexDirection(node.style.FlexDirection, direction)
	isNodeFlexWrap := node.style.FlexWrap != WrapNoWrap
	gap := node.style.gapForAxis(mainAxis, availableInnerWidth)

	endOfLineIndex := startOfLineIndex
	for ; endOfLineIndex < len(node.children); endOfLineIndex++ {
		child := node.children[endOfLineIndex]
		if child.style.Display == DisplayNone || child.style.PositionType == PositionTypeAbsolute {
			continue
		}

		childLeadingGap := gap
		if len(line.itemsInFlow) == 0 {
			childLeadingGap = 0
		}

		child.layout.lineIndex = lineCount
		childMarginMainAxis := child.marginForAxis(mainAxis, availableInnerWidth)
		flexBasisWithMinAndMax := boundAxisWithinMinAndMax(child, mainAxis, child.layout.computedFlexBasis, mainAxisOwnerSize)

		// Wrap before the child if it would overflow a non-empty line.
		if sizeConsumedIncludingMinConstraint+flexBasisWithMinAndMax+childMarginMainAxis+childLeadingGap > availableInnerMainDim &&
			isNodeFlexWrap && len(line.itemsInFlow) > 0 {
			break
		}

		sizeConsumedIncludingMinConstraint += flexBasisWithMinAndMax + childMarginMainAxis + childLeadingGap
		line.sizeConsumed += flexBasisWithMinAndMax + childMarginMainAxis + childLeadingGap

		if child.isNodeFlexible() {
			line.totalFlexGrowFactors += child.resolveFlexGrow()
			// Shrink is scaled by the basis so large items shrink more.
			line.totalFlexShrinkScaledFactors += -child.resolveFlexShrink() * orZero(child.layout.computedFlexBasis)
		}
		line.itemsInFlow = append(line.itemsInFlow, child)
	}

	// Factors below one distribute only part of the free space.
	if line.totalFlexGrowFactors > 0 && line.totalFlexGrowFactors < 1 {
		line.totalFlexGrowFactors = 1
	}
	if line.totalFlexShrinkScaledFactors > 0 && line.totalFlexShrinkScaledFactors < 1 {
		line.totalFlexShrinkScaledFactors = 1
	}
	line.endOfLineIndex = endOfLineIndex
	return line
}

// distributeFreeSpaceFirstPass freezes the items whose min or max size
// triggers and removes their share from the remaining free space.
func distributeFreeSpaceFirstPass(line *flexLine, mainAxis FlexDirection, mainAxisOwnerSize, availableInnerMainDim, availableInnerWidth float64) {
	deltaFreeSpace := 0.0
	for _, child := range line.itemsInFlow {
		childFlexBasis := boundAxisWithinMinAndMax(child, mainAxis, child.layout.computedFlexBasis, mainAxisOwnerSize)

		if line.remainingFreeSpace < 0 {
			flexShrinkScaledFactor := -child.resolveFlexShrink() * childFlexBasis
			if !IsUndefined(flexShrinkScaledFactor) && flexShrinkScaledFactor != 0 {
				baseMainSize := childFlexBasis + line.remainingFreeSpace/line.totalFlexShrinkScaledFactors*flexShrinkScaledFactor
				boundMainSize := boundAxis(child, mainAxis, baseMainSize, availableInnerMainDim, availableInnerWidth)
				if !IsUndefined(baseMainSize) && !IsUndefined(boundMainSize) && baseMainSize != boundMainSize {
					deltaFreeSpace += boundMainSize - childFlexBasis
					line.totalFlexShrinkScaledFactors -= -child.resolveFlexShrink() * orZero(child.layout.computedFlexBasis)
				}
			}
		} else if !IsUndefined(line.remainingFreeSpace) && line.remainingFreeSpace > 0 {
			flexGrowFactor := child.resolveFlexGrow()
			if !IsUndefined(flexGrowFactor) && flexGrowFactor != 0 {
				baseMainSize := childFlexBasis + line.remainingFreeSpace/line.totalFlexGrowFactors*flexGrowFactor
				boundMainSize := boundAxis(child, mainAxis, baseMainSize, availableInnerMainDim, availableInnerWidth)
				if !IsUndefined(baseMainSize) && !IsUndefined(boundMainSize) && baseMainSize != boundMainSize {
					deltaFreeSpace += boundMainSize - childFlexBasis
					line.totalFlexGrowFactors -= flexGrowFactor
				}
			}
		}
	}
	line.remainingFreeSpace -= deltaFreeSpace
}

// distributeFreeSpaceSecondPass sizes every item on the line and lays it
// out with its final main size. It returns the space handed out.
func (p *pass) distributeFreeSpaceSecondPass(
	line *flexLine,
	node *Node,
	mainAxis, crossAxis FlexDirection,
	mainAxisOwnerSize, availableInnerMainDim, availableInnerCrossDim float64,
	availableInnerWidth, availableInnerHeight float64,
	mainAxisOverflows bool,
	measureModeCrossDim MeasureMode,
	performLayout bool,
) float64 {
	deltaFreeSpace := 0.0
	isMainAxisRow := isRow(mainAxis)
	isNodeFlexWrap := node.style.FlexWrap != WrapNoWrap

	for _, child := range line.itemsInFlow {
		childFlexBasis := boundAxisWithinMinAndMax(child, mainAxis, child.layout.computedFlexBasis, mainAxisOwnerSize)
		updatedMainSize := childFlexBasis

		if !IsUndefined(line.remainingFreeSpace) && line.remainingFreeSpace < 0 {
			flexShrinkScaledFactor := -child.resolveFlexShrink() * childFlexBasis
			if flexShrinkScaledFactor != 0 {
				var childSize float64
				if !IsUndefined(line.totalFlexShrinkScaledFactors) && line.totalFlexShrinkScaledFactors == 0 {
					childSize = childFlexBasis + flexShrinkScaledFactor
				} else {
					childSize = childFlexBasis + (line.remainingFreeSpace/line.totalFlexShrinkScaledFactors)*flexShrinkScaledFactor
				}
				updatedMainSize = boundAxis(child, mainAxis, childSize, availableInnerMainDim, availableInnerWidth)
			}
		} else if !IsUndefined(line.remainingFreeSpace) && line.remainingFreeSpace > 0 {
			flexGrowFactor := child.resolveFlexGrow()
			if !IsUndefined(flexGrowFactor) && flexGrowFactor != 0 {
				updatedMainSize = boundAxis(child, mainAxis,
					childFlexBasis+line.remainingFreeSpace/line.totalFlexGrowFactors*flexGrowFactor,
					availableInnerMainDim, availableInnerWidth)
			}
		}

		deltaFreeSpace += updatedMainSize - childFlexBasis

		marginMain := child.marginForAxis(mainAxis, availableInnerWidth)
		marginCross := child.marginForAxis(crossAxis, availableInnerWidth)

		childMainSize := updatedMainSize + marginMain
		childMainMode := MeasureModeExactly
		var childCrossSize float64
		var childCrossMode MeasureMode

		alignment := resolveChildAlignment(node, child)
		autoCrossMargin := child.marginLeadingValue(crossAxis).Unit == UnitAuto ||
			child.marginTrailingValue(crossAxis).Unit == UnitAuto
		definesCross := styleDefinesDimension(child, crossAxis, availableInnerCrossDim)

		if aspectRatio := child.style.aspectRatio(); !IsUndefined(aspectRatio) {
			if isMainAxisRow {
				childCrossSize = (childMainSize - marginMain) / aspectRatio
			} else {
				childCrossSize = (childMainSize - marginMain) * aspectRatio
			}
			childCrossSize += marginCross
			childCrossMode = MeasureModeExactly
		} else if !IsUndefined(availableInnerCrossDim) && !definesCross &&
			measureModeCrossDim == MeasureModeExactly &&
			!(isNodeFlexWrap && mainAxisOverflows) &&
			alignment == AlignStretch && !autoCrossMargin {
			childCrossSize = availableInnerCrossDim
			childCrossMode = MeasureModeExactly
		} else if !definesCross {
			childCrossSize = availableInnerCrossDim
			childCrossMode = MeasureModeAtMost
			if IsUndefined(childCrossSize) {
				childCrossMode = MeasureModeUndefined
			}
		} else {
			resolved := child.resolvedDimensions[dimension(crossAxis)]
			childCrossSize = resolved.Resolve(availableInnerCrossDim) + marginCross
			isLoosePercentageMeasurement := resolved.Unit == UnitPercent && measureModeCrossDim != MeasureModeExactly
			childCrossMode = MeasureModeExactly
			if IsUndefined(childCrossSize) || isLoosePercentageMeasurement {
				childCrossMode = MeasureModeUndefined
			}
		}

		constrainMaxSizeForMode(child, mainAxis, availableInnerMainDim, availableInnerWidth, &childMainMode, &childMainSize)
		constrainMaxSizeForMode(child, crossAxis, availableInnerCrossDim, availableInnerWidth, &childCrossMode, &childCrossSize)

		requiresStretchLayout := !definesCross && alignment == AlignStretch && !autoCrossMargin

		childWidth, childHeight := childCrossSize, childMainSize
		childWidthMode, childHeightMode := childCrossMode, childMainMode
		if isMainAxisRow {
			childWidth, childHeight = childMainSize, childCrossSize
			childWidthMode, childHeightMode = childMainMode, childCrossMode
		}

		// Stretched children get their real layout pass in the cross-axis
		// alignment step.
		isLayoutPass := performLayout && !requiresStretchLayout
		p.calculateLayoutInternal(child, childWidth, childHeight, node.layout.direction,
			childWidthMode, childHeightMode, availableInnerWidth, availableInnerHeight, isLayoutPass)
		node.layout.hadOverflow = node.layout.hadOverflow || child.layout.hadOverflow
	}
	return deltaFreeSpace
}

// resolveFlexibleLength distributes a line's free space in two passes: the
// first freezes items clamped by min or max, the second sizes the rest.
func (p *pass) resolveFlexibleLength(
	node *Node,
	line *flexLine,
	mainAxis, crossAxis FlexDirection,
	mainAxisOwnerSize, availableInnerMainDim, availableInnerCrossDim float64,
	availableInnerWidth, availableInnerHeight float64,
	mainAxisOverflows bool,
	measureModeCrossDim MeasureMode,
	performLayout bool,
) {
	originalFreeSpace := line.remainingFreeSpace
	distributeFreeSpaceFirstPass(line, mainAxis, mainAxisOwnerSize, availableInnerMainDim, availableInnerWidth)
	distributed := p.distributeFreeSpaceSecondPass(line, node, mainAxis, crossAxis,
		mainAxisOwnerSize, availableInnerMainDim, availableInnerCrossDim,
		availableInnerWidth, availableInnerHeight, mainAxisOverflows, measureModeCrossDim, performLayout)
	line.remainingFreeSpace = originalFreeSpace - distributed
}

// justifyMainAxis positions the line's children along the main axis and
// computes the line's main and cross size.
func justifyMainAxis(
	node *Node,
	line *flexLine,
	startOfLineIndex int,
	mainAxis, crossAxis FlexDirection,
	measureModeMainDim, measureModeCrossDim MeasureMode,
	mainAxisOwnerSize, ownerWidth float64,
	availableInnerMainDim, availableInnerCrossDim, availableInnerWidth float64,
	performLayout bool,
) {
	style := &node.style
	leadingPaddingAndBorderMain := node.leadingPaddingAndBorder(mainAxis, ownerWidth)
	trailingPaddingAndBorderMain := node.trailingPaddingAndBorder(mainAxis, ownerWidth)
	gap := style.gapForAxis(mainAxis, ownerWidth)

	// With an at-most main size, free space only exists up to the min size.
	if measureModeMainDim == MeasureModeAtMost && line.remainingFreeSpace > 0 {
		minDim := style.minDimension(dimension(mainAxis)).Resolve(mainAxisOwnerSize)
		if !IsUndefined(minDim) {
			minAvailableMainDim := minDim - leadingPaddingAndBorderMain - trailingPaddingAndBorderMain
			occupiedSpaceByChildNodes := availableInnerMainDim - line.remainingFreeSpace
			line.remainingFreeSpace = maxOrDefined(0, minAvailableMainDim-occupiedSpaceByChildNodes)
		} else {
			line.remainingFreeSpace = 0
		}
	}

	numberOfAutoMargins := 0
	for i := startOfLineIndex; i < line.endOfLineIndex; i++ {
		child := node.children[i]
		if child.style.PositionType == PositionTypeAbsolute {
			continue
		}
		if child.marginLeadingValue(mainAxis).Unit == UnitAuto {
			numberOfAutoMargins++
		}
		if child.marginTrailingValue(mainAxis).Unit == UnitAuto {
			numberOfAutoMargins++
		}
	}

	leadingMainDim := 0.0
	betweenMainDim := gap
	if numberOfAutoMargins == 0 {
		items := float64(len(line.itemsInFlow))
		switch style.JustifyContent {
		case JustifyCenter:
			leadingMainDim = line.remainingFreeSpace / 2
		case JustifyFlexEnd:
			leadingMainDim = line.remainingFreeSpace
		case JustifySpaceBetween:
			if len(line.itemsInFlow) > 1 {
				betweenMainDim += maxOrDefined(line.remainingFreeSpace, 0) / (items - 1)
			}
		case JustifySpaceEvenly:
			leadingMainDim = line.remainingFreeSpace / (items + 1)
			betweenMainDim += leadingMainDim
		case JustifySpaceAround:
			if len(line.itemsInFlow) > 0 {
				leadingMainDim = 0.5 * line.remainingFreeSpace / items
				betweenMainDim += leadingMainDim * 2
			}
		}
	}

	line.mainDim = leadingPaddingAndBorderMain + leadingMainDim
	line.crossDim = 0

	maxAscent, maxDescent := 0.0, 0.0
	baselineLayout := isBaselineLayout(node)
	for i := startOfLineIndex; i < line.endOfLineIndex; i++ {
		child := node.children[i]
		if child.style.Display == DisplayNone {
			continue
		}
		if child.style.PositionType == PositionTypeAbsolute && child.isLeadingPositionDefined(mainAxis) {
			if performLayout {
				// Explicit insets win over the flow position.
				child.layout.position[leadingEdge(mainAxis)] =
					child.leadingPosition(mainAxis, availableInnerMainDim) +
						node.leadingBorder(mainAxis) +
						child.leadingMargin(mainAxis, availableInnerWidth)
			}
			continue
		}
		if child.style.PositionType == PositionTypeAbsolute {
			if performLayout {
				child.layout.position[leadingEdge(mainAxis)] += node.leadingBorder(mainAxis) + leadingMainDim
			}
			continue
		}

		if child.marginLeadingValue(mainAxis).Unit == UnitAuto {
			line.mainDim += line.remainingFreeSpace / float64(numberOfAutoMargins)
		}
		if performLayout {
			child.layout.position[leadingEdge(mainAxis)] += line.mainDim
		}
		if !line.isLastItem(child) {
			line.mainDim += betweenMainDim
		}
		if child.marginTrailingValue(mainAxis).Unit == UnitAuto {
			line.mainDim += line.remainingFreeSpace / float64(numberOfAutoMargins)
		}

		canSkipFlex := !performLayout && measureModeCrossDim == MeasureModeExactly
		if canSkipFlex {
			// Measured sizes were not computed; fall back to the basis.
			line.mainDim += child.marginForAxis(mainAxis, availableInnerWidth) + orZero(child.layout.computedFlexBasis)
			line.crossDim = availableInnerCrossDim
			continue
		}

		line.mainDim += dimensionWithMargin(child, mainAxis, availableInnerWidth)
		if baselineLayout {
			ascent := calculateBaseline(child) + child.leadingMargin(FlexDirectionColumn, availableInnerWidth)
			descent := child.layout.measuredDimensions[dimensionHeight] +
				child.marginForAxis(FlexDirectionColumn, availableInnerWidth) - ascent
			maxAscent = maxOrDefined(maxAscent, ascent)
			maxDescent = maxOrDefined(maxDescent, descent)
		} else {
			line.crossDim = maxOrDefined(line.crossDim, dimensionWithMargin(child, crossAxis, availableInnerWidth))
		}
	}
	line.mainDim += trailingPaddingAndBorderMain

	if baselineLayout {
		line.crossDim = maxAscent + maxDescent
	}
}

// calculateLayoutImpl sizes node, and when performLayout is set positions
// its children, under the given constraints. An Undefined available size
// always comes with MeasureModeUndefined.
func (p *pass) calculateLayoutImpl(
	node *Node,
	availableWidth, availableHeight float64,
	ownerDirection Direction,
	widthMode, heightMode MeasureMode,
	ownerWidth, ownerHeight float64,
	performLayout bool,
) {
	if performLayout {
		p.stats.Layouts++
	} else {
		p.stats.Measures++
	}

	direction := node.resolveDirection(ownerDirection)
	node.layout.direction = direction

	flexRowDirection := resolveFlexDirection(FlexDirectionRow, direction)
	flexColumnDirection := resolveFlexDirection(FlexDirectionColumn, direction)

	startEdge, endEdge := EdgeLeft, EdgeRight
	if direction == DirectionRTL {
		startEdge, endEdge = EdgeRight, EdgeLeft
	}

	marginRowLeading := node.leadingMargin(flexRowDirection, ownerWidth)
	marginRowTrailing := node.trailingMargin(flexRowDirection, ownerWidth)
	marginColumnLeading := node.leadingMargin(flexColumnDirection, ownerWidth)
	marginColumnTrailing := node.trailingMargin(flexColumnDirection, ownerWidth)
	node.layout.margin[startEdge] = marginRowLeading
	node.layout.margin[endEdge] = marginRowTrailing
	node.layout.margin[EdgeTop] = marginColumnLeading
	node.layout.margin[EdgeBottom] = marginColumnTrailing

	marginAxisRow := marginRowLeading + marginRowTrailing
	marginAxisColumn := marginColumnLeading + marginColumnTrailing

	node.layout.border[startEdge] = node.leadingBorder(flexRowDirection)
	node.layout.border[endEdge] = node.trailingBorder(flexRowDirection)
	node.layout.border[EdgeTop] = node.leadingBorder(flexColumnDirection)
	node.layout.border[EdgeBottom] = node.trailingBorder(flexColumnDirection)

	node.layout.padding[startEdge] = node.leadingPadding(flexRowDirection, ownerWidth)
	node.layout.padding[endEdge] = node.trailingPadding(flexRowDirection, ownerWidth)
	node.layout.padding[EdgeTop] = node.leadingPadding(flexColumnDirection, ownerWidth)
	node.layout.padding[EdgeBottom] = node.trailingPadding(flexColumnDirection, ownerWidth)

	if node.HasMeasureFunc() {
		p.measureNodeWithMeasureFunc(node,
			availableWidth-marginAxisRow, availableHeight-marginAxisColumn,
			widthMode, heightMode, ownerWidth, ownerHeight)
		return
	}

	childCount := len(node.children)
	if childCount == 0 {
		measureNodeWithoutChildren(node,
			availableWidth-marginAxisRow, availableHeight-marginAxisColumn,
			widthMode, heightMode, ownerWidth, ownerHeight)
		return
	}

	// A measure-only pass can stop when the size is already known.
	if !performLayout && measureNodeWithFixedSize(node,
		availableWidth-marginAxisRow, availableHeight-marginAxisColumn,
		widthMode, heightMode, ownerWidth, ownerHeight) {
		return
	}

	// From here on children are written to, so they must be private.
	node.cloneChildrenIfNeeded()
	node.layout.hadOverflow = false

	// STEP 1: values for the rest of the algorithm.
	mainAxis := resolveFlexDirection(node.style.FlexDirection, direction)
	crossAxis := resolveCrossDirection(mainAxis, direction)
	isMainAxisRow := isRow(mainAxis)
	isNodeFlexWrap := node.style.FlexWrap != WrapNoWrap

	mainAxisOwnerSize, crossAxisOwnerSize := ownerHeight, ownerWidth
	if isMainAxisRow {
		mainAxisOwnerSize, crossAxisOwnerSize = ownerWidth, ownerHeight
	}

	paddingAndBorderAxisMain := node.paddingAndBorderForAxis(mainAxis, ownerWidth)
	leadingPaddingAndBorderCross := node.leadingPaddingAndBorder(crossAxis, ownerWidth)
	trailingPaddingAndBorderCross := node.trailingPaddingAndBorder(crossAxis, ownerWidth)
	paddingAndBorderAxisCross := leadingPaddingAndBorderCross + trailingPaddingAndBorderCross

	measureModeMainDim, measureModeCrossDim := heightMode, widthMode
	paddingAndBorderAxisRow, paddingAndBorderAxisColumn := paddingAndBorderAxisCross, paddingAndBorderAxisMain
	if isMainAxisRow {
		measureModeMainDim, measureModeCrossDim = widthMode, heightMode
		paddingAndBorderAxisRow, paddingAndBorderAxisColumn = paddingAndBorderAxisMain, paddingAndBorderAxisCross
	}

	// STEP 2: available inner size in both directions.
	availableInnerWidth := calculateAvailableInnerDimension(node, dimensionWidth,
		availableWidth-marginAxisRow, paddingAndBorderAxisRow, ownerWidth)
	availableInnerHeight := calculateAvailableInnerDimension(node, dimensionHeight,
		availableHeight-marginAxisColumn, paddingAndBorderAxisColumn, ownerHeight)

	availableInnerMainDim, availableInnerCrossDim := availableInnerHeight, availableInnerWidth
	if isMainAxisRow {
		availableInnerMainDim, availableInnerCrossDim = availableInnerWidth, availableInnerHeight
	}

	// STEP 3: flex basis of every child.
	totalMainDim := p.computeFlexBasisForChildren(node,
		availableInnerWidth, availableInnerHeight, widthMode, heightMode,
		direction, mainAxis, performLayout)
	if childCount > 1 {
		totalMainDim += node.style.gapForAxis(mainAxis, availableInnerCrossDim) * float64(childCount-1)
	}

	mainAxisOverflows := measureModeMainDim != MeasureModeUndefined && totalMainDim > availableInnerMainDim
	if isNodeFlexWrap && mainAxisOverflows && measureModeMainDim == MeasureModeAtMost {
		measureModeMainDim = MeasureModeExactly
	}

	// STEP 4: collect children into lines.
	startOfLineIndex, endOfLineIndex, lineCount := 0, 0, 0
	totalLineCrossDim := 0.0
	crossAxisGap := node.style.gapForAxis(crossAxis, availableInnerCrossDim)
	maxLineMainDim := 0.0

	for ; endOfLineIndex < childCount; lineCount, startOfLineIndex = lineCount+1, endOfLineIndex {
		line := calculateFlexLine(node, ownerDirection, mainAxisOwnerSize,
			availableInnerWidth, availableInnerMainDim, startOfLineIndex, lineCount)
		endOfLineIndex = line.endOfLineIndex

		canSkipFlex := !performLayout && measureModeCrossDim == MeasureModeExactly

		// STEP 5: resolve flexible lengths on the main axis.
		sizeBasedOnContent := false
		if measureModeMainDim != MeasureModeExactly {
			minInnerWidth := node.style.MinWidth.Resolve(ownerWidth) - paddingAndBorderAxisRow
			maxInnerWidth := node.style.MaxWidth.Resolve(ownerWidth) - paddingAndBorderAxisRow
			minInnerHeight := node.style.MinHeight.Resolve(ownerHeight) - paddingAndBorderAxisColumn
			maxInnerHeight := node.style.MaxHeight.Resolve(ownerHeight) - paddingAndBorderAxisColumn

			minInnerMainDim, maxInnerMainDim := minInnerHeight, maxInnerHeight
			if isMainAxisRow {
				minInnerMainDim, maxInnerMainDim = minInnerWidth, maxInnerWidth
			}

			switch {
			case !IsUndefined(minInnerMainDim) && line.sizeConsumed < minInnerMainDim:
				availableInnerMainDim = minInnerMainDim
			case !IsUndefined(maxInnerMainDim) && line.sizeConsumed > maxInnerMainDim:
				availableInnerMainDim = maxInnerMainDim
			default:
				// Nothing can grow, so the content decides the size.
				if line.totalFlexGrowFactors == 0 || node.resolveFlexGrow() == 0 {
					availableInnerMainDim = line.sizeConsumed
				}
				sizeBasedOnContent = true
			}
		}

		if !sizeBasedOnContent && !IsUndefined(availableInnerMainDim) {
			line.remainingFreeSpace = availableInnerMainDim - line.sizeConsumed
		} else if line.sizeConsumed < 0 {
			line.remainingFreeSpace = -line.sizeConsumed
		}

		if !canSkipFlex {
			p.resolveFlexibleLength(node, &line, mainAxis, crossAxis,
				mainAxisOwnerSize, availableInnerMainDim, availableInnerCrossDim,
				availableInnerWidth, availableInnerHeight,
				mainAxisOverflows, measureModeCrossDim, performLayout)
		}

		node.layout.hadOverflow = node.layout.hadOverflow || line.remainingFreeSpace < 0

		// STEP 6: main-axis justification and cross size of the line.
		justifyMainAxis(node, &line, startOfLineIndex, mainAxis, crossAxis,
			measureModeMainDim, measureModeCrossDim, mainAxisOwnerSize, ownerWidth,
			availableInnerMainDim, availableInnerCrossDim, availableInnerWidth, performLayout)

		containerCrossAxis := availableInnerCrossDim
		if measureModeCrossDim != MeasureModeExactly {
			containerCrossAxis = boundAxis(node, crossAxis,
				line.crossDim+paddingAndBorderAxisCross, crossAxisOwnerSize, ownerWidth) - paddingAndBorderAxisCross
		}

		// A single line fills an exact container.
		if !isNodeFlexWrap && measureModeCrossDim == MeasureModeExactly {
			line.crossDim = availableInnerCrossDim
		}

		line.crossDim = boundAxis(node, crossAxis,
			line.crossDim+paddingAndBorderAxisCross, crossAxisOwnerSize, ownerWidth) - paddingAndBorderAxisCross

		// STEP 7: cross-axis alignment.
		if performLayout {
			for i := startOfLineIndex; i < endOfLineIndex; i++ {
				child := node.children[i]
				if child.style.Display == DisplayNone {
					continue
				}
				if child.style.PositionType == PositionTypeAbsolute {
					leadingPosDefined := child.isLeadingPositionDefined(crossAxis)
					if leadingPosDefined {
						child.layout.position[leadingEdge(crossAxis)] =
							child.leadingPosition(crossAxis, availableInnerCrossDim) +
								node.leadingBorder(crossAxis) +
								child.leadingMargin(crossAxis, availableInnerWidth)
					}
					if !leadingPosDefined || IsUndefined(child.layout.position[leadingEdge(crossAxis)]) {
						child.layout.position[leadingEdge(crossAxis)] =
							node.leadingBorder(crossAxis) + child.leadingMargin(crossAxis, availableInnerWidth)
					}
					continue
				}

				leadingCrossDim := leadingPaddingAndBorderCross
				alignItem := resolveChildAlignment(node, child)
				leadingAuto := child.marginLeadingValue(crossAxis).Unit == UnitAuto
				trailingAuto := child.marginTrailingValue(crossAxis).Unit == UnitAuto

				if alignItem == AlignStretch && !leadingAuto && !trailingAuto {
					// Lay the child out again at the line's cross size.
					if !styleDefinesDimension(child, crossAxis, availableInnerCrossDim) {
						childMainSize := child.layout.measuredDimensions[dimension(mainAxis)]
						childCrossSize := line.crossDim
						if aspectRatio := child.style.aspectRatio(); !IsUndefined(aspectRatio) {
							if isMainAxisRow {
								childCrossSize = child.marginForAxis(crossAxis, availableInnerWidth) + childMainSize/aspectRatio
							} else {
								childCrossSize = child.marginForAxis(crossAxis, availableInnerWidth) + childMainSize*aspectRatio
							}
						}
						childMainSize += child.marginForAxis(mainAxis, availableInnerWidth)

						childMainMode, childCrossMode := MeasureModeExactly, MeasureModeExactly
						constrainMaxSizeForMode(child, mainAxis, availableInnerMainDim, availableInnerWidth, &childMainMode, &childMainSize)
						constrainMaxSizeForMode(child, crossAxis, availableInnerCrossDim, availableInnerWidth, &childCrossMode, &childCrossSize)

						childWidth, childHeight := childCrossSize, childMainSize
						if isMainAxisRow {
							childWidth, childHeight = childMainSize, childCrossSize
						}

						crossAxisDoesNotGrow := node.style.AlignContent != AlignStretch && isNodeFlexWrap
						childWidthMode := MeasureModeExactly
						if IsUndefined(childWidth) || (!isMainAxisRow && crossAxisDoesNotGrow) {
							childWidthMode = MeasureModeUndefined
						}
						childHeightMode := MeasureModeExactly
						if IsUndefined(childHeight) || (isMainAxisRow && crossAxisDoesNotGrow) {
							childHeightMode = MeasureModeUndefined
						}

						p.calculateLayoutInternal(child, childWidth, childHeight, direction,
							childWidthMode, childHeightMode, availableInnerWidth, availableInnerHeight, true)
					}
				} else {
					remainingCrossDim := containerCrossAxis - dimensionWithMargin(child, crossAxis, availableInnerWidth)
					switch {
					case leadingAuto && trailingAuto:
						leadingCrossDim += maxOrDefined(0, remainingCrossDim/2)
					case trailingAuto:
					case leadingAuto:
						leadingCrossDim += maxOrDefined(0, remainingCrossDim)
					case alignItem == AlignFlexStart:
					case alignItem == AlignCenter:
						leadingCrossDim += remainingCrossDim / 2
					default:
						leadingCrossDim += remainingCrossDim
					}
				}
				child.layout.position[leadingEdge(crossAxis)] += totalLineCrossDim + leadingCrossDim
			}
		}

		appliedCrossGap := 0.0
		if lineCount != 0 {
			appliedCrossGap = crossAxisGap
		}
		totalLineCrossDim += line.crossDim + appliedCrossGap
		maxLineMainDim = maxOrDefined(maxLineMainDim, line.mainDim)
	}

	// STEP 8: multi-line content alignment.
	if performLayout && (isNodeFlexWrap || isBaselineLayout(node)) {
		p.alignContent(node, lineCount, totalLineCrossDim, crossAxisGap,
			leadingPaddingAndBorderCross, mainAxis, crossAxis,
			availableInnerWidth, availableInnerHeight, availableInnerCrossDim, direction)
	}

	// STEP 9: final dimensions.
	node.layout.measuredDimensions[dimensionWidth] = boundAxis(node, FlexDirectionRow,
		availableWidth-marginAxisRow, ownerWidth, ownerWidth)
	node.layout.measuredDimensions[dimensionHeight] = boundAxis(node, FlexDirectionColumn,
		availableHeight-marginAxisColumn, ownerHeight, ownerWidth)

	scroll := node.style.Overflow == OverflowScroll
	if measureModeMainDim == MeasureModeUndefined || (!scroll && measureModeMainDim == MeasureModeAtMost) {
		// Size to content, clamped to min/max and padding plus border.
		node.layout.measuredDimensions[dimension(mainAxis)] =
			boundAxis(node, mainAxis, maxLineMainDim, mainAxisOwnerSize, ownerWidth)
	} else if measureModeMainDim == MeasureModeAtMost && scroll {
		node.layout.measuredDimensions[dimension(mainAxis)] = maxOrDefined(
			minOrDefined(availableInnerMainDim+paddingAndBorderAxisMain,
				boundAxisWithinMinAndMax(node, mainAxis, maxLineMainDim, mainAxisOwnerSize)),
			paddingAndBorderAxisMain)
	}

	if measureModeCrossDim == MeasureModeUndefined || (!scroll && measureModeCrossDim == MeasureModeAtMost) {
		node.layout.measuredDimensions[dimension(crossAxis)] =
			boundAxis(node, crossAxis, totalLineCrossDim+paddingAndBorderAxisCross, crossAxisOwnerSize, ownerWidth)
	} else if measureModeCrossDim == MeasureModeAtMost && scroll {
		node.layout.measuredDimensions[dimension(crossAxis)] = maxOrDefined(
			minOrDefined(availableInnerCrossDim+paddingAndBorderAxisCross,
				boundAxisWithinMinAndMax(node, crossAxis, totalLineCrossDim+paddingAndBorderAxisCross, crossAxisOwnerSize)),
			paddingAndBorderAxisCross)
	}

	if !performLayout {
		return
	}

	// Lines were stacked in normal order; flip them for wrap-reverse.
	if node.style.FlexWrap == WrapReverse {
		for _, child := range node.children {
			if child.style.PositionType == PositionTypeAbsolute {
				continue
			}
			child.layout.position[leadingEdge(crossAxis)] =
				node.layout.measuredDimensions[dimension(crossAxis)] -
					child.layout.position[leadingEdge(crossAxis)] -
					child.layout.measuredDimensions[dimension(crossAxis)]
		}
	}

	// STEP 10: absolute children.
	absoluteMode := measureModeCrossDim
	if isMainAxisRow {
		absoluteMode = measureModeMainDim
	}
	for _, child := range node.children {
		if child.style.Display == DisplayNone || child.style.PositionType != PositionTypeAbsolute {
			continue
		}
		p.layoutAbsoluteChild(node, child, availableInnerWidth, absoluteMode, availableInnerHeight, direction)
	}

	// STEP 11: trailing positions for reversed axes.
	needsMainTrailingPos := mainAxis == FlexDirectionRowReverse || mainAxis == FlexDirectionColumnReverse
	needsCrossTrailingPos := crossAxis == FlexDirectionRowReverse || crossAxis == FlexDirectionColumnReverse
	if needsMainTrailingPos || needsCrossTrailingPos {
		for _, child := range node.children {
			if child.style.Display == DisplayNone {
				continue
			}
			if needsMainTrailingPos {
				setChildTrailingPosition(node, child, mainAxis)
			}
			if needsCrossTrailingPos {
				setChildTrailingPosition(node, child, crossAxis)
			}
		}
	}
}

// alignContent distributes lines along the cross axis of a wrapping or
// baseline-aligned container and positions children within their line.
func (p *pass) alignContent(
	node *Node,
	lineCount int,
	totalLineCrossDim, crossAxisGap, leadingPaddingAndBorderCross float64,
	mainAxis, crossAxis FlexDirection,
	availableInnerWidth, availableInnerHeight, availableInnerCrossDim float64,
	direction Direction,
) {
	isMainAxisRow := isRow(mainAxis)
	crossDimLead := 0.0
	currentLead := leadingPaddingAndBorderCross
	lines := float64(lineCount)

	if !IsUndefined(availableInnerCrossDim) {
		remaining := availableInnerCrossDim - totalLineCrossDim
		switch node.style.AlignContent {
		case AlignFlexEnd:
			currentLead += remaining
		case AlignCenter:
			currentLead += remaining / 2
		case AlignStretch:
			if availableInnerCrossDim > totalLineCrossDim {
				crossDimLead = remaining / lines
			}
		case AlignSpaceAround:
			if availableInnerCrossDim > totalLineCrossDim {
				currentLead += remaining / (2 * lines)
				if lineCount > 1 {
					crossDimLead = remaining / lines
				}
			} else {
				currentLead += remaining / 2
			}
		case AlignSpaceBetween:
			if availableInnerCrossDim > totalLineCrossDim && lineCount > 1 {
				crossDimLead = remaining / (lines - 1)
			}
		}
	}

	endIndex := 0
	for i := 0; i < lineCount; i++ {
		startIndex := endIndex

		lineHeight := 0.0
		maxAscent, maxDescent := 0.0, 0.0
		ii := startIndex
		for ; ii < len(node.children); ii++ {
			child := node.children[ii]
			if child.style.Display == DisplayNone || child.style.PositionType == PositionTypeAbsolute {
				continue
			}
			if child.layout.lineIndex != i {
				break
			}
			if isLayoutDimensionDefined(child, crossAxis) {
				lineHeight = maxOrDefined(lineHeight,
					child.layout.measuredDimensions[dimension(crossAxis)]+child.marginForAxis(crossAxis, availableInnerWidth))
			}
			if resolveChildAlignment(node, child) == AlignBaseline {
				ascent := calculateBaseline(child) + child.leadingMargin(FlexDirectionColumn, availableInnerWidth)
				descent := child.layout.measuredDimensions[dimensionHeight] +
					child.marginForAxis(FlexDirectionColumn, availableInnerWidth) - ascent
				maxAscent = maxOrDefined(maxAscent, ascent)
				maxDescent = maxOrDefined(maxDescent, descent)
				lineHeight = maxOrDefined(lineHeight, maxAscent+maxDescent)
			}
		}
		endIndex = ii
		lineHeight += crossDimLead
		if i != 0 {
			currentLead += crossAxisGap
		}

		for ii = startIndex; ii < endIndex; ii++ {
			child := node.children[ii]
			if child.style.Display == DisplayNone || child.style.PositionType == PositionTypeAbsolute {
				continue
			}
			switch resolveChildAlignment(node, child) {
			case AlignFlexStart:
				child.layout.position[leadingEdge(crossAxis)] = currentLead + child.leadingMargin(crossAxis, availableInnerWidth)
			case AlignFlexEnd:
				child.layout.position[leadingEdge(crossAxis)] = currentLead + lineHeight -
					child.trailingMargin(crossAxis, availableInnerWidth) -
					child.layout.measuredDimensions[dimension(crossAxis)]
			case AlignCenter:
				childHeight := child.layout.measuredDimensions[dimension(crossAxis)]
				child.layout.position[leadingEdge(crossAxis)] = currentLead + (lineHeight-childHeight)/2
			case AlignStretch:
				child.layout.position[leadingEdge(crossAxis)] = currentLead + child.leadingMargin(crossAxis, availableInnerWidth)
				// The child was only measured against the container so far.
				if styleDefinesDimension(child, crossAxis, availableInnerCrossDim) {
					break
				}
				childWidth, childHeight := lineHeight, lineHeight
				if isMainAxisRow {
					childWidth = child.layout.measuredDimensions[dimensionWidth] + child.marginForAxis(mainAxis, availableInnerWidth)
				} else {
					childHeight = child.layout.measuredDimensions[dimensionHeight] + child.marginForAxis(crossAxis, availableInnerWidth)
				}
				if !FloatsEqual(childWidth, child.layout.measuredDimensions[dimensionWidth]) ||
					!FloatsEqual(childHeight, child.layout.measuredDimensions[dimensionHeight]) {
					p.calculateLayoutInternal(child, childWidth, childHeight, direction,
						MeasureModeExactly, MeasureModeExactly, availableInnerWidth, availableInnerHeight, true)
				}
			case AlignBaseline:
				child.layout.position[EdgeTop] = currentLead + maxAscent - calculateBaseline(child) +
					child.leadingPosition(FlexDirectionColumn, availableInnerCrossDim)
			}
		}
		currentLead += lineHeight
	}
}
