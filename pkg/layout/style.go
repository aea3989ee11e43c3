package layout

// Edges holds a Value per Edge, including the grouped Start/End,
// Horizontal/Vertical and All entries.
type Edges [edgeCount]Value

// EdgesAll creates Edges with the same value on all sides.
func EdgesAll(v Value) Edges {
	var e Edges
	e[EdgeAll] = v
	return e
}

// Set returns a copy of e with edge set to v.
func (e Edges) Set(edge Edge, v Value) Edges {
	e[edge] = v
	return e
}

// computed resolves the value for a physical edge, falling back from the
// edge itself to its axis group and then to All.
func (e Edges) computed(edge Edge, fallback Value) Value {
	if e[edge].Unit != UnitUndefined {
		return e[edge]
	}
	if (edge == EdgeTop || edge == EdgeBottom) && e[EdgeVertical].Unit != UnitUndefined {
		return e[EdgeVertical]
	}
	if (edge == EdgeLeft || edge == EdgeRight || edge == EdgeStart || edge == EdgeEnd) &&
		e[EdgeHorizontal].Unit != UnitUndefined {
		return e[EdgeHorizontal]
	}
	if e[EdgeAll].Unit != UnitUndefined {
		return e[EdgeAll]
	}
	if edge == EdgeStart || edge == EdgeEnd {
		return Value{}
	}
	return fallback
}

func (e Edges) equal(other Edges) bool {
	for i := range e {
		if !e[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Style contains all layout properties for a node.
type Style struct {
	Direction      Direction
	FlexDirection  FlexDirection
	JustifyContent Justify
	AlignContent   Align
	AlignItems     Align
	AlignSelf      Align
	PositionType   PositionType
	FlexWrap       Wrap
	Overflow       Overflow
	Display        Display

	// Flex, FlexGrow, FlexShrink and AspectRatio use Undefined for "unset".
	Flex        float64
	FlexGrow    float64
	FlexShrink  float64
	FlexBasis   Value
	AspectRatio float64

	Margin   Edges
	Position Edges
	Padding  Edges
	Border   Edges

	Gap       Value
	RowGap    Value
	ColumnGap Value

	Width     Value
	Height    Value
	MinWidth  Value
	MinHeight Value
	MaxWidth  Value
	MaxHeight Value
}

// DefaultStyle returns the style of a freshly created node: a column that
// stretches its children.
func DefaultStyle() Style {
	return Style{
		FlexDirection: FlexDirectionColumn,
		AlignContent:  AlignFlexStart,
		AlignItems:    AlignStretch,
		AlignSelf:     AlignAuto,
		Flex:          Undefined,
		FlexGrow:      Undefined,
		FlexShrink:    Undefined,
		FlexBasis:     Auto(),
		AspectRatio:   Undefined,
		Width:         Auto(),
		Height:        Auto(),
	}
}

const (
	defaultFlexGrow   = 0.0
	defaultFlexShrink = 0.0
)

// Equal reports whether two styles would produce the same layout.
func (s Style) Equal(other Style) bool {
	return s.Direction == other.Direction &&
		s.FlexDirection == other.FlexDirection &&
		s.JustifyContent == other.JustifyContent &&
		s.AlignContent == other.AlignContent &&
		s.AlignItems == other.AlignItems &&
		s.AlignSelf == other.AlignSelf &&
		s.PositionType == other.PositionType &&
		s.FlexWrap == other.FlexWrap &&
		s.Overflow == other.Overflow &&
		s.Display == other.Display &&
		FloatsEqual(s.Flex, other.Flex) &&
		FloatsEqual(s.FlexGrow, other.FlexGrow) &&
		FloatsEqual(s.FlexShrink, other.FlexShrink) &&
		s.FlexBasis.Equal(other.FlexBasis) &&
		FloatsEqual(s.AspectRatio, other.AspectRatio) &&
		s.Margin.equal(other.Margin) &&
		s.Position.equal(other.Position) &&
		s.Padding.equal(other.Padding) &&
		s.Border.equal(other.Border) &&
		s.Gap.Equal(other.Gap) &&
		s.RowGap.Equal(other.RowGap) &&
		s.ColumnGap.Equal(other.ColumnGap) &&
		s.Width.Equal(other.Width) &&
		s.Height.Equal(other.Height) &&
		s.MinWidth.Equal(other.MinWidth) &&
		s.MinHeight.Equal(other.MinHeight) &&
		s.MaxWidth.Equal(other.MaxWidth) &&
		s.MaxHeight.Equal(other.MaxHeight)
}

func (s *Style) dimension(dim int) Value {
	if dim == dimensionWidth {
		return s.Width
	}
	return s.Height
}

func (s *Style) minDimension(dim int) Value {
	if dim == dimensionWidth {
		return s.MinWidth
	}
	return s.MinHeight
}

func (s *Style) maxDimension(dim int) Value {
	if dim == dimensionWidth {
		return s.MaxWidth
	}
	return s.MaxHeight
}

// aspectRatio returns the usable aspect ratio, or Undefined when unset or
// degenerate.
func (s *Style) aspectRatio() float64 {
	if IsUndefined(s.AspectRatio) || s.AspectRatio <= 0 {
		return Undefined
	}
	return s.AspectRatio
}

// gapForAxis returns the gutter between items laid out along axis.
func (s *Style) gapForAxis(axis FlexDirection, ownerSize float64) float64 {
	v := s.RowGap
	if isRow(axis) {
		v = s.ColumnGap
	}
	if v.Unit == UnitUndefined {
		v = s.Gap
	}
	return maxOrDefined(orZero(v.Resolve(ownerSize)), 0)
}
