package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/layout"
)

// propReader reads typed values out of raw props. The first failure is
// kept and later reads become no-ops.
type propReader struct {
	raw core.RawProps
	err error
}

func (r *propReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *propReader) float(key string, fallback float64) float64 {
	v, err := r.raw.Float(key, fallback)
	r.fail(err)
	return v
}

func (r *propReader) int(key string, fallback int) int {
	v, err := r.raw.Int(key, fallback)
	r.fail(err)
	return v
}

func (r *propReader) string(key, fallback string) string {
	v, err := r.raw.String(key, fallback)
	r.fail(err)
	return v
}

func (r *propReader) bool(key string, fallback bool) bool {
	v, err := r.raw.Bool(key, fallback)
	r.fail(err)
	return v
}

func (r *propReader) nested(key string) *propReader {
	m, err := r.raw.Map(key)
	r.fail(err)
	return &propReader{raw: m}
}

// value reads a dimension: a number of points, "auto", or "N%".
func (r *propReader) value(key string, fallback layout.Value) layout.Value {
	v, ok := r.raw[key]
	if !ok {
		return fallback
	}
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "auto" {
			return layout.Auto()
		}
		if pct, found := strings.CutSuffix(s, "%"); found {
			f, err := strconv.ParseFloat(pct, 64)
			if err == nil {
				return layout.Percent(f)
			}
		}
		r.fail(fmt.Errorf("prop %q: invalid dimension %q", key, x))
		return fallback
	default:
		f := r.float(key, math.NaN())
		return layout.Points(f)
	}
}

type enumValue interface {
	~uint8
	String() string
}

// enum reads a keyword and maps it to the first of values whose String
// matches.
func enum[T enumValue](r *propReader, key string, fallback T, values ...T) T {
	if !r.raw.Has(key) {
		return fallback
	}
	s := r.string(key, "")
	for _, v := range values {
		if v.String() == s {
			return v
		}
	}
	r.fail(fmt.Errorf("prop %q: unknown value %q", key, s))
	return fallback
}

var edgeSuffixes = []struct {
	suffix string
	edge   layout.Edge
}{
	{"", layout.EdgeAll},
	{"Horizontal", layout.EdgeHorizontal},
	{"Vertical", layout.EdgeVertical},
	{"Left", layout.EdgeLeft},
	{"Top", layout.EdgeTop},
	{"Right", layout.EdgeRight},
	{"Bottom", layout.EdgeBottom},
	{"Start", layout.EdgeStart},
	{"End", layout.EdgeEnd},
}

// edges reads prefix, prefixLeft, prefixHorizontal and so on. suffix is
// appended after the edge name, as in borderLeftWidth.
func (r *propReader) edges(prefix, suffix string) layout.Edges {
	var e layout.Edges
	for _, es := range edgeSuffixes {
		e[es.edge] = r.value(prefix+es.suffix+suffix, layout.Value{})
	}
	return e
}

func (r *propReader) position() layout.Edges {
	var e layout.Edges
	for _, es := range edgeSuffixes[3:] {
		e[es.edge] = r.value(strings.ToLower(es.suffix), layout.Value{})
	}
	return e
}

// ParseStyle converts the flexbox keys of raw into a layout.Style. Keys it
// does not know are ignored. Out-of-range numbers are accepted and
// degrade during layout; values of the wrong type are errors.
func ParseStyle(raw core.RawProps) (layout.Style, error) {
	r := &propReader{raw: raw}
	s := r.style()
	return s, r.err
}

func (r *propReader) style() layout.Style {
	d := layout.DefaultStyle()
	return layout.Style{
		Direction: enum(r, "direction", d.Direction,
			layout.DirectionInherit, layout.DirectionLTR, layout.DirectionRTL),
		FlexDirection: enum(r, "flexDirection", d.FlexDirection,
			layout.FlexDirectionColumn, layout.FlexDirectionColumnReverse,
			layout.FlexDirectionRow, layout.FlexDirectionRowReverse),
		JustifyContent: enum(r, "justifyContent", d.JustifyContent,
			layout.JustifyFlexStart, layout.JustifyCenter, layout.JustifyFlexEnd,
			layout.JustifySpaceBetween, layout.JustifySpaceAround, layout.JustifySpaceEvenly),
		AlignContent: enum(r, "alignContent", d.AlignContent, alignValues...),
		AlignItems:   enum(r, "alignItems", d.AlignItems, alignValues...),
		AlignSelf:    enum(r, "alignSelf", d.AlignSelf, alignValues...),
		PositionType: enum(r, "position", d.PositionType,
			layout.PositionTypeRelative, layout.PositionTypeAbsolute),
		FlexWrap: enum(r, "flexWrap", d.FlexWrap,
			layout.WrapNoWrap, layout.WrapWrap, layout.WrapReverse),
		Overflow: enum(r, "overflow", d.Overflow,
			layout.OverflowVisible, layout.OverflowHidden, layout.OverflowScroll),
		Display: enum(r, "display", d.Display, layout.DisplayFlex, layout.DisplayNone),

		Flex:        r.float("flex", d.Flex),
		FlexGrow:    r.float("flexGrow", d.FlexGrow),
		FlexShrink:  r.float("flexShrink", d.FlexShrink),
		FlexBasis:   r.value("flexBasis", d.FlexBasis),
		AspectRatio: r.float("aspectRatio", d.AspectRatio),

		Margin:   r.edges("margin", ""),
		Padding:  r.edges("padding", ""),
		Border:   r.edges("border", "Width"),
		Position: r.position(),

		Gap:       r.value("gap", d.Gap),
		RowGap:    r.value("rowGap", d.RowGap),
		ColumnGap: r.value("columnGap", d.ColumnGap),

		Width:     r.value("width", d.Width),
		Height:    r.value("height", d.Height),
		MinWidth:  r.value("minWidth", d.MinWidth),
		MinHeight: r.value("minHeight", d.MinHeight),
		MaxWidth:  r.value("maxWidth", d.MaxWidth),
		MaxHeight: r.value("maxHeight", d.MaxHeight),
	}
}

var alignValues = []layout.Align{
	layout.AlignAuto, layout.AlignFlexStart, layout.AlignCenter, layout.AlignFlexEnd,
	layout.AlignStretch, layout.AlignBaseline, layout.AlignSpaceBetween, layout.AlignSpaceAround,
}
