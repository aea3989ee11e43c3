package layout

// Direction is the inline text direction.
type Direction uint8

const (
	DirectionInherit Direction = iota
	DirectionLTR
	DirectionRTL
)

func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	default:
		return "inherit"
	}
}

// FlexDirection specifies the main axis for laying out children.
type FlexDirection uint8

const (
	FlexDirectionColumn FlexDirection = iota // Children laid out top-to-bottom
	FlexDirectionColumnReverse
	FlexDirectionRow // Children laid out start-to-end
	FlexDirectionRowReverse
)

func (f FlexDirection) String() string {
	switch f {
	case FlexDirectionColumnReverse:
		return "column-reverse"
	case FlexDirectionRow:
		return "row"
	case FlexDirectionRowReverse:
		return "row-reverse"
	default:
		return "column"
	}
}

// Justify specifies how children are distributed along the main axis.
type Justify uint8

const (
	JustifyFlexStart    Justify = iota // Pack at start
	JustifyCenter                      // Center children
	JustifyFlexEnd                     // Pack at end
	JustifySpaceBetween                // Even space between, none at edges
	JustifySpaceAround                 // Even space around each child
	JustifySpaceEvenly                 // Equal space between and at edges
)

func (j Justify) String() string {
	switch j {
	case JustifyCenter:
		return "center"
	case JustifyFlexEnd:
		return "flex-end"
	case JustifySpaceBetween:
		return "space-between"
	case JustifySpaceAround:
		return "space-around"
	case JustifySpaceEvenly:
		return "space-evenly"
	default:
		return "flex-start"
	}
}

// Align specifies how children are positioned on the cross axis, and how
// lines are packed for AlignContent.
type Align uint8

const (
	AlignAuto Align = iota
	AlignFlexStart
	AlignCenter
	AlignFlexEnd
	AlignStretch
	AlignBaseline
	AlignSpaceBetween
	AlignSpaceAround
)

func (a Align) String() string {
	switch a {
	case AlignFlexStart:
		return "flex-start"
	case AlignCenter:
		return "center"
	case AlignFlexEnd:
		return "flex-end"
	case AlignStretch:
		return "stretch"
	case AlignBaseline:
		return "baseline"
	case AlignSpaceBetween:
		return "space-between"
	case AlignSpaceAround:
		return "space-around"
	default:
		return "auto"
	}
}

// PositionType selects between in-flow and absolute positioning.
type PositionType uint8

const (
	PositionTypeRelative PositionType = iota
	PositionTypeAbsolute
)

func (p PositionType) String() string {
	if p == PositionTypeAbsolute {
		return "absolute"
	}
	return "relative"
}

// Wrap controls whether children may flow onto multiple lines.
type Wrap uint8

const (
	WrapNoWrap Wrap = iota
	WrapWrap
	WrapReverse
)

func (w Wrap) String() string {
	switch w {
	case WrapWrap:
		return "wrap"
	case WrapReverse:
		return "wrap-reverse"
	default:
		return "no-wrap"
	}
}

// Overflow affects how children are measured along a scrolling axis.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
)

func (o Overflow) String() string {
	switch o {
	case OverflowHidden:
		return "hidden"
	case OverflowScroll:
		return "scroll"
	default:
		return "visible"
	}
}

// Display removes a node from layout when set to DisplayNone.
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayNone
)

func (d Display) String() string {
	if d == DisplayNone {
		return "none"
	}
	return "flex"
}

// MeasureMode describes how an available size constrains a node.
type MeasureMode uint8

const (
	// MeasureModeUndefined means the size is unconstrained (max-content).
	MeasureModeUndefined MeasureMode = iota
	// MeasureModeExactly means the node must take exactly the given size.
	MeasureModeExactly
	// MeasureModeAtMost means the node may take up to the given size.
	MeasureModeAtMost
)

func (m MeasureMode) String() string {
	switch m {
	case MeasureModeExactly:
		return "exactly"
	case MeasureModeAtMost:
		return "at-most"
	default:
		return "undefined"
	}
}

// NodeType distinguishes text nodes, whose sizes are never rounded down.
type NodeType uint8

const (
	NodeTypeDefault NodeType = iota
	NodeTypeText
)

// Edge names one side, or a group of sides, of a box.
type Edge uint8

const (
	EdgeLeft Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
	EdgeStart
	EdgeEnd
	EdgeHorizontal
	EdgeVertical
	EdgeAll

	edgeCount
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeStart:
		return "start"
	case EdgeEnd:
		return "end"
	case EdgeHorizontal:
		return "horizontal"
	case EdgeVertical:
		return "vertical"
	default:
		return "all"
	}
}

const (
	dimensionWidth = iota
	dimensionHeight
)

func isRow(axis FlexDirection) bool {
	return axis == FlexDirectionRow || axis == FlexDirectionRowReverse
}

func isColumn(axis FlexDirection) bool {
	return axis == FlexDirectionColumn || axis == FlexDirectionColumnReverse
}

func resolveFlexDirection(axis FlexDirection, direction Direction) FlexDirection {
	if direction == DirectionRTL {
		switch axis {
		case FlexDirectionRow:
			return FlexDirectionRowReverse
		case FlexDirectionRowReverse:
			return FlexDirectionRow
		}
	}
	return axis
}

func resolveCrossDirection(axis FlexDirection, direction Direction) FlexDirection {
	if isColumn(axis) {
		return resolveFlexDirection(FlexDirectionRow, direction)
	}
	return FlexDirectionColumn
}

func dimension(axis FlexDirection) int {
	if isRow(axis) {
		return dimensionWidth
	}
	return dimensionHeight
}

func leadingEdge(axis FlexDirection) Edge {
	switch axis {
	case FlexDirectionColumnReverse:
		return EdgeBottom
	case FlexDirectionRow:
		return EdgeLeft
	case FlexDirectionRowReverse:
		return EdgeRight
	default:
		return EdgeTop
	}
}

func trailingEdge(axis FlexDirection) Edge {
	switch axis {
	case FlexDirectionColumnReverse:
		return EdgeTop
	case FlexDirectionRow:
		return EdgeRight
	case FlexDirectionRowReverse:
		return EdgeLeft
	default:
		return EdgeBottom
	}
}
